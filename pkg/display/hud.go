package display

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

const (
	hudFontSize = 13.0
	hudMargin   = 10.0
)

var hudTextColor = color.RGBA{R: 200, G: 210, B: 230, A: 200}

// HUDStatus 左下角状态栏的数据
type HUDStatus struct {
	FPS         float64
	Annotations int
	Bloom       bool
	Music       string
	Playing     bool
}

// FormatStatus 状态栏文字
func FormatStatus(s HUDStatus) string {
	bloom := "off"
	if s.Bloom {
		bloom = "on"
	}
	music := "none"
	if s.Music != "" {
		music = filepath.Base(s.Music)
		if !s.Playing {
			music += " (paused)"
		}
	}
	return fmt.Sprintf("FPS %.0f | wishes %d | bloom %s | music %s | H: help", s.FPS, s.Annotations, bloom, music)
}

// HUD 绘制状态栏
type HUD struct {
	face *text.GoTextFace
}

// NewHUD 创建状态栏
func NewHUD() (*HUD, error) {
	face, err := Face(hudFontSize)
	if err != nil {
		return nil, err
	}
	return &HUD{face: face}, nil
}

// Draw 在屏幕左下角绘制状态
func (h *HUD) Draw(dst *ebiten.Image, status HUDStatus) {
	height := dst.Bounds().Dy()
	op := &text.DrawOptions{}
	op.GeoM.Translate(hudMargin, float64(height)-hudMargin-hudFontSize*1.3)
	op.ColorScale.ScaleWithColor(hudTextColor)
	text.Draw(dst, FormatStatus(status), h.face, op)
}

package modules

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/config"
	"github.com/gonewx/xmastree/pkg/display"
	"github.com/gonewx/xmastree/pkg/ecs"
	"github.com/gonewx/xmastree/pkg/entities"
)

// DefaultHelpLines 帮助面板的操作说明
var DefaultHelpLines = []string{
	"Drag: orbit the camera",
	"Mouse wheel: zoom in / out",
	"Click the tree: hang a wish card",
	"B: toggle bloom",
	"M: play / pause music",
	"Drop an .mp3, .ogg or .wav file: set music",
	"H: show / hide this help",
	"F11: fullscreen",
	"Esc: close dialogs",
}

var (
	maskColor      = color.RGBA{A: 140}
	panelColor     = color.RGBA{R: 16, G: 40, B: 24, A: 235}
	panelBorder    = color.RGBA{R: 212, G: 175, B: 55, A: 255}
	panelTitle     = color.RGBA{R: 255, G: 230, B: 120, A: 255}
	panelTextColor = color.RGBA{R: 230, G: 235, B: 240, A: 255}
)

// HelpPanelModule 帮助面板模块
//
// 职责：
//   - 管理帮助面板实体的显示/隐藏
//   - 面板打开时吞掉指针事件（拾取层不会收到点击）
//   - 渲染遮罩、面板背景和说明文字
//
// 面板打开时点击任意位置关闭面板。
type HelpPanelModule struct {
	entityManager *ecs.EntityManager
	panelEntity   ecs.EntityID

	titleFace *text.GoTextFace
	bodyFace  *text.GoTextFace

	onClose func()

	windowWidth  int
	windowHeight int
}

// NewHelpPanelModule 创建帮助面板模块
//
// 字体加载失败时面板仍然可以开关，只是不绘制文字。
func NewHelpPanelModule(em *ecs.EntityManager, windowWidth, windowHeight int, onClose func()) *HelpPanelModule {
	m := &HelpPanelModule{
		entityManager: em,
		panelEntity:   entities.NewHelpPanelEntity(em, "Christmas Tree", DefaultHelpLines),
		onClose:       onClose,
		windowWidth:   windowWidth,
		windowHeight:  windowHeight,
	}

	var err error
	if m.titleFace, err = display.Face(config.HelpPanelTitleSize); err != nil {
		log.Printf("[HelpPanelModule] Warning: title font unavailable: %v", err)
	}
	if m.bodyFace, err = display.Face(config.HelpPanelFontSize); err != nil {
		log.Printf("[HelpPanelModule] Warning: body font unavailable: %v", err)
	}
	return m
}

func (m *HelpPanelModule) panel() *components.HelpPanelComponent {
	panel, _ := ecs.GetComponent[*components.HelpPanelComponent](m.entityManager, m.panelEntity)
	return panel
}

// SetScreenSize 窗口尺寸变化时更新居中位置
func (m *HelpPanelModule) SetScreenSize(width, height int) {
	m.windowWidth, m.windowHeight = width, height
}

// Show 显示帮助面板
func (m *HelpPanelModule) Show() {
	if panel := m.panel(); panel != nil && !panel.IsActive {
		panel.IsActive = true
		log.Printf("[HelpPanelModule] Shown")
	}
}

// Hide 隐藏帮助面板并触发 onClose
func (m *HelpPanelModule) Hide() {
	panel := m.panel()
	if panel == nil || !panel.IsActive {
		return
	}
	panel.IsActive = false
	log.Printf("[HelpPanelModule] Hidden")
	if m.onClose != nil {
		m.onClose()
	}
}

// Toggle 切换显示状态
func (m *HelpPanelModule) Toggle() {
	if m.IsActive() {
		m.Hide()
	} else {
		m.Show()
	}
}

// IsActive 面板是否显示
func (m *HelpPanelModule) IsActive() bool {
	panel := m.panel()
	return panel != nil && panel.IsActive
}

// Rect 面板在屏幕上的矩形
func (m *HelpPanelModule) Rect() config.Rect {
	panel := m.panel()
	if panel == nil {
		return config.Rect{}
	}
	return config.CenteredRect(m.windowWidth, m.windowHeight, panel.Width, panel.Height)
}

// Contains 面板打开时遮罩覆盖整个屏幕，任何指针位置都归面板所有
func (m *HelpPanelModule) Contains(x, y float64) bool {
	return m.IsActive()
}

// HandleClick 处理点击，面板打开时关闭面板并返回 true（事件已消费）
func (m *HelpPanelModule) HandleClick(x, y float64) bool {
	if !m.IsActive() {
		return false
	}
	m.Hide()
	return true
}

// Draw 渲染遮罩、面板和文字
func (m *HelpPanelModule) Draw(screen *ebiten.Image) {
	panel := m.panel()
	if panel == nil || !panel.IsActive {
		return
	}

	bounds := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(bounds.Dx()), float32(bounds.Dy()), maskColor, false)

	r := m.Rect()
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), panelColor, true)
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2, panelBorder, true)

	if m.titleFace == nil || m.bodyFace == nil {
		return
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(r.X+config.HelpPanelPadding, r.Y+config.HelpPanelPadding)
	op.ColorScale.ScaleWithColor(panelTitle)
	text.Draw(screen, panel.Title, m.titleFace, op)

	y := r.Y + config.HelpPanelPadding + config.HelpPanelTitleSize*1.5
	for _, line := range panel.Lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(r.X+config.HelpPanelPadding, y)
		op.ColorScale.ScaleWithColor(panelTextColor)
		text.Draw(screen, line, m.bodyFace, op)
		y += config.HelpPanelLineHeight
	}
}

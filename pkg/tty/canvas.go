// Package tty 在终端里渲染圣诞树场景
//
// 每个字符单元格用上半块字符 '▀' 表示上下两个像素：前景色是上像素，背景色是下像素。
// 场景按 (列数, 行数*2) 的像素尺寸构建 DrawList，三角形已经由远到近排序，
// Canvas 按顺序光栅化并做 alpha 混合即可。
package tty

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/systems"
)

// halfBlock 上半块
const halfBlock = '▀'

// Canvas 终端像素缓冲，像素数 = 列数 × (行数×2)
type Canvas struct {
	Width, Height int
	pix           []components.Color
}

// NewCanvas 创建像素缓冲
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize 调整像素尺寸，内容清空
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.Width, c.Height = width, height
	if n := width * height; cap(c.pix) >= n {
		c.pix = c.pix[:n]
	} else {
		c.pix = make([]components.Color, n)
	}
}

// Clear 用背景色填充
func (c *Canvas) Clear(bg components.Color) {
	for i := range c.pix {
		c.pix[i] = bg
	}
}

// At 读取像素，越界返回零值
func (c *Canvas) At(x, y int) components.Color {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return components.Color{}
	}
	return c.pix[y*c.Width+x]
}

// Render 清屏并按顺序光栅化绘制列表
func (c *Canvas) Render(list *systems.DrawList) {
	c.Clear(list.Background)
	for i := range list.Triangles {
		c.FillTriangle(&list.Triangles[i])
	}
}

// FillTriangle 以像素中心采样填充三角形，与已有像素做 alpha 混合
func (c *Canvas) FillTriangle(tri *systems.DrawTriangle) {
	if tri.Alpha <= 0 || c.Width == 0 || c.Height == 0 {
		return
	}
	x0, y0 := float64(tri.X[0]), float64(tri.Y[0])
	x1, y1 := float64(tri.X[1]), float64(tri.Y[1])
	x2, y2 := float64(tri.X[2]), float64(tri.Y[2])

	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}

	minX := clampInt(int(math.Floor(math.Min(x0, math.Min(x1, x2)))), 0, c.Width-1)
	maxX := clampInt(int(math.Ceil(math.Max(x0, math.Max(x1, x2)))), 0, c.Width-1)
	minY := clampInt(int(math.Floor(math.Min(y0, math.Min(y1, y2)))), 0, c.Height-1)
	maxY := clampInt(int(math.Ceil(math.Max(y0, math.Max(y1, y2)))), 0, c.Height-1)

	alpha := math.Min(float64(tri.Alpha), 1)
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := edge(x1, y1, x2, y2, px, py)
			w1 := edge(x2, y2, x0, y0, px, py)
			w2 := edge(x0, y0, x1, y1, px, py)
			// 两种绕序都接受
			if area > 0 && (w0 < 0 || w1 < 0 || w2 < 0) {
				continue
			}
			if area < 0 && (w0 > 0 || w1 > 0 || w2 > 0) {
				continue
			}
			i := y*c.Width + x
			c.pix[i] = c.pix[i].Lerp(tri.Color, alpha)
		}
	}
}

// Present 把像素缓冲写到屏幕的前 rows 行
func (c *Canvas) Present(screen tcell.Screen, rows int) {
	for row := 0; row < rows; row++ {
		for x := 0; x < c.Width; x++ {
			top := c.At(x, row*2)
			bottom := c.At(x, row*2+1)
			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			screen.SetContent(x, row, halfBlock, nil, style)
		}
	}
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// toTcell 0~1 浮点色转换为终端真彩色
func toTcell(c components.Color) tcell.Color {
	return tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int32 {
	return int32(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

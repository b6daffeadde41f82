package config

// UI 布局相关的常量配置
// 包括留言对话框、帮助面板等屏幕空间元素的尺寸（像素）

const (
	// 留言对话框
	DialogWidth         = 360.0
	DialogHeight        = 170.0
	DialogPadding       = 16.0
	DialogInputHeight   = 32.0
	DialogButtonWidth   = 90.0
	DialogButtonHeight  = 30.0
	DialogButtonSpacing = 12.0
	// DialogMaxLength 留言最多字符数
	DialogMaxLength = 80

	// 帮助面板
	HelpPanelWidth      = 420.0
	HelpPanelPadding    = 20.0
	HelpPanelLineHeight = 22.0
	HelpPanelTitleSize  = 20.0
	HelpPanelFontSize   = 14.0
)

// Rect 屏幕矩形
type Rect struct {
	X, Y, W, H float64
}

// Contains 点是否落在矩形内（含左上边界，不含右下边界）
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// CenteredRect 计算在屏幕中居中的矩形
//
// 屏幕比矩形小时矩形贴左上角，保证标题和输入框可见。
func CenteredRect(screenWidth, screenHeight int, w, h float64) Rect {
	x := (float64(screenWidth) - w) / 2
	y := (float64(screenHeight) - h) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

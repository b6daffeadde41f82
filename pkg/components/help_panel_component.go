package components

// HelpPanelComponent 帮助面板组件
//
// 用途：
//   - 显示操作说明（拖动旋转、滚轮缩放、点击留言、快捷键）
//   - 半透明遮罩 + 居中面板 + 文本行
//
// 面板打开时场景仍然在动，只是指针事件不再传给拾取层。
type HelpPanelComponent struct {
	Title string
	Lines []string

	// 面板状态
	IsActive bool // 是否激活（显示）

	// 面板尺寸（用于居中计算）
	Width  float64
	Height float64
}

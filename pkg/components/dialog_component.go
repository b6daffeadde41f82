package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/xmastree/pkg/ecs"
)

// DialogComponent 对话框组件
// 用于留言输入的模态对话框
type DialogComponent struct {
	Title     string         // 对话框标题
	Message   string         // 标题下方的提示
	Buttons   []DialogButton // 按钮列表（确定/取消）
	IsVisible bool           // 是否可见
	Width     float64        // 对话框宽度
	Height    float64        // 对话框高度

	// Input 关联的输入框实体，对话框销毁时一起销毁
	Input ecs.EntityID

	// Pending 打开对话框时命中的位置（树局部坐标）
	Pending    mgl64.Vec3
	HasPending bool
}

// DialogButtonRole 按钮语义
type DialogButtonRole int

const (
	DialogButtonConfirm DialogButtonRole = iota
	DialogButtonCancel
)

// DialogButton 对话框按钮
type DialogButton struct {
	Label  string           // 按钮文字
	Role   DialogButtonRole // 点击后的行为
	X      float64          // 按钮相对对话框的 X 坐标
	Y      float64          // 按钮相对对话框的 Y 坐标
	Width  float64          // 按钮宽度
	Height float64          // 按钮高度
}

package components

import "github.com/go-gl/mathgl/mgl64"

// AnnotationComponent 用户留言卡片（广告牌样式，始终面向相机）
//
// 卡片挂在树节点下，随树一起旋转；只增不减，会话结束时随场景一起销毁。
type AnnotationComponent struct {
	ID   string
	Text string
	// Surface 点击命中的树表面位置（树局部坐标）
	Surface mgl64.Vec3
	// Anchor 卡片中心（树局部坐标），沿 Surface 方向外移一段距离
	Anchor mgl64.Vec3
	// CreatedFrame 创建时的帧号
	CreatedFrame uint64
	// Sequence 创建顺序，从 1 开始
	Sequence int
}

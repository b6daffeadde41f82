package components

// SceneStateComponent 每帧由动画步骤写入的旋转状态（唯一写入者）
//
// TreeRotation 单调递增，不做取模：三角函数本身是周期的。
type SceneStateComponent struct {
	TreeRotation  float64
	StarRotationY float64
	StarRotationZ float64
	// Frame 已推进的帧数
	Frame uint64
}

package components

// StarComponent 树顶星星，自转角度独立于整棵树
type StarComponent struct {
	// 每帧的自转增量（弧度）
	SpinY float64
	SpinZ float64
}

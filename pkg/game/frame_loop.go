package game

// FrameLoop 逐帧驱动场景更新
//
// ebiten 前端在 Update 中每帧调用一次 Step，终端前端由 ticker 调用，
// 测试直接调用 Run(n)，不需要窗口。
type FrameLoop struct {
	step   func()
	frames uint64
}

// NewFrameLoop 创建帧循环，step 为 nil 时只计数
func NewFrameLoop(step func()) *FrameLoop {
	return &FrameLoop{step: step}
}

// Step 执行一帧
func (l *FrameLoop) Step() {
	if l.step != nil {
		l.step()
	}
	l.frames++
}

// Run 连续执行 n 帧
func (l *FrameLoop) Run(n int) {
	for i := 0; i < n; i++ {
		l.Step()
	}
}

// Frames 已执行的帧数
func (l *FrameLoop) Frames() uint64 {
	return l.frames
}

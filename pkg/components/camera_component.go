package components

import "github.com/go-gl/mathgl/mgl64"

// CameraComponent 透视相机和轨道控制状态
//
// 投影矩阵只由 (FOV, Aspect, Near, Far) 计算，不在旧矩阵上累积，
// 所以窗口尺寸变回原值时得到完全相同的矩阵。
type CameraComponent struct {
	// FOV 垂直视角（度）
	FOV  float64
	Near float64
	Far  float64

	// Position 相机位置（世界坐标），Target 为观察点
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3

	// Aspect 视口宽高比
	Aspect float64

	// ViewportWidth/ViewportHeight 当前视口尺寸（像素）
	ViewportWidth  int
	ViewportHeight int

	Projection mgl64.Mat4
	View       mgl64.Mat4

	// 轨道控制（球坐标，围绕 Target）
	Yaw      float64
	Pitch    float64
	Distance float64

	// 拖动产生的角速度，每帧乘以 (1-Damping) 衰减
	YawVelocity   float64
	PitchVelocity float64
	Damping       float64
	MinDistance   float64
	MaxDistance   float64
}

// ViewProjection 返回 Projection * View
func (c *CameraComponent) ViewProjection() mgl64.Mat4 {
	return c.Projection.Mul4(c.View)
}

package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/ecs"
)

const (
	// 拖动 1 像素对应的旋转角度（弧度）
	orbitRadiansPerPixel = 0.005
	// 俯仰角限制，避免越过头顶后 Up 向量翻转
	maxOrbitPitch = 1.5
	minOrbitPitch = -0.2
	// 滚轮一格的缩放比例
	zoomStep = 0.95
)

// CameraSystem 管理透视相机和轨道控制
//
// 投影矩阵只在 Resize 时按 (FOV, 宽高比, Near, Far) 重新计算；
// 视图矩阵在 Update 中根据轨道参数重新计算。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	cameraEntity  ecs.EntityID
}

// NewCameraSystem 创建相机系统，cameraEntity 需带 CameraComponent
func NewCameraSystem(em *ecs.EntityManager, cameraEntity ecs.EntityID) *CameraSystem {
	return &CameraSystem{
		entityManager: em,
		cameraEntity:  cameraEntity,
	}
}

// Camera 返回相机组件
func (cs *CameraSystem) Camera() *components.CameraComponent {
	cam, _ := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	return cam
}

// Resize 视口尺寸变化时重新计算宽高比和投影矩阵
//
// 幂等：同样的尺寸得到逐位相同的矩阵。宽或高不为正时忽略（窗口最小化）。
func (cs *CameraSystem) Resize(width, height int) {
	cam := cs.Camera()
	if cam == nil || width <= 0 || height <= 0 {
		return
	}
	cam.ViewportWidth = width
	cam.ViewportHeight = height
	cam.Aspect = float64(width) / float64(height)
	cam.Projection = mgl64.Perspective(mgl64.DegToRad(cam.FOV), cam.Aspect, cam.Near, cam.Far)
}

// Orbit 按拖动的像素位移累加角速度，实际旋转在 Update 中按阻尼逐帧释放
func (cs *CameraSystem) Orbit(dx, dy float64) {
	cam := cs.Camera()
	if cam == nil {
		return
	}
	cam.YawVelocity -= dx * orbitRadiansPerPixel
	cam.PitchVelocity += dy * orbitRadiansPerPixel
}

// Zoom 滚轮缩放，正值拉近
func (cs *CameraSystem) Zoom(steps float64) {
	cam := cs.Camera()
	if cam == nil || steps == 0 {
		return
	}
	cam.Distance *= math.Pow(zoomStep, steps)
	cam.Distance = clampFloat(cam.Distance, cam.MinDistance, cam.MaxDistance)
}

// Update 释放累积的角速度并重新计算相机位置和视图矩阵
func (cs *CameraSystem) Update() {
	cam := cs.Camera()
	if cam == nil {
		return
	}

	if cam.Damping > 0 && cam.Damping < 1 {
		cam.Yaw += cam.YawVelocity * cam.Damping
		cam.Pitch += cam.PitchVelocity * cam.Damping
		cam.YawVelocity *= 1 - cam.Damping
		cam.PitchVelocity *= 1 - cam.Damping
	} else {
		cam.Yaw += cam.YawVelocity
		cam.Pitch += cam.PitchVelocity
		cam.YawVelocity, cam.PitchVelocity = 0, 0
	}
	cam.Pitch = clampFloat(cam.Pitch, minOrbitPitch, maxOrbitPitch)

	cosPitch := math.Cos(cam.Pitch)
	offset := mgl64.Vec3{
		cam.Distance * cosPitch * math.Sin(cam.Yaw),
		cam.Distance * math.Sin(cam.Pitch),
		cam.Distance * cosPitch * math.Cos(cam.Yaw),
	}
	cam.Position = cam.Target.Add(offset)
	cam.View = mgl64.LookAtV(cam.Position, cam.Target, cam.Up)
}

// Ray 从 NDC 坐标（[-1,1]，Y 向上）生成世界空间射线
//
// 返回射线起点（近裁剪面上的点）和单位方向；矩阵不可逆时 ok 为 false。
func (cs *CameraSystem) Ray(ndcX, ndcY float64) (origin, dir mgl64.Vec3, ok bool) {
	cam := cs.Camera()
	if cam == nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	vp := cam.ViewProjection()
	if math.Abs(vp.Det()) < 1e-12 {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	inv := vp.Inv()

	near := inv.Mul4x1(mgl64.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl64.Vec4{ndcX, ndcY, 1, 1})
	if near.W() == 0 || far.W() == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	nearP := near.Vec3().Mul(1 / near.W())
	farP := far.Vec3().Mul(1 / far.W())

	d := farP.Sub(nearP)
	if d.Len() == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	return nearP, d.Normalize(), true
}

// ScreenToNDC 把像素坐标转换为 NDC（Y 轴翻转）
func ScreenToNDC(x, y float64, width, height int) (float64, float64) {
	return x/float64(width)*2 - 1, -(y/float64(height)*2 - 1)
}

// NDCToScreen 把 NDC 转换为像素坐标
func NDCToScreen(ndcX, ndcY float64, width, height int) (float64, float64) {
	return (ndcX + 1) / 2 * float64(width), (1 - ndcY) / 2 * float64(height)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

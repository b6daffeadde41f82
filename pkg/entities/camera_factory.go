package entities

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/ecs"
)

// 轨道控制默认参数
const (
	cameraDamping     = 0.05
	cameraMinDistance = 3.0
	cameraMaxDistance = 60.0
)

// CameraParams 相机初始参数
type CameraParams struct {
	FOV      float64
	Near     float64
	Far      float64
	Position mgl64.Vec3
	Target   mgl64.Vec3
}

// NewCameraEntity 创建透视相机
//
// 轨道参数（Yaw/Pitch/Distance）由初始位置相对 Target 的偏移反算，
// 投影和视图矩阵要等 CameraSystem.Resize 拿到视口尺寸后才计算。
func NewCameraEntity(em *ecs.EntityManager, params CameraParams) ecs.EntityID {
	offset := params.Position.Sub(params.Target)
	distance := offset.Len()
	pitch := 0.0
	if distance > 0 {
		pitch = math.Asin(offset.Y() / distance)
	}
	yaw := math.Atan2(offset.X(), offset.Z())

	minDistance := math.Min(cameraMinDistance, distance)
	maxDistance := math.Max(cameraMaxDistance, distance)

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.CameraComponent{
		FOV:         params.FOV,
		Near:        params.Near,
		Far:         params.Far,
		Position:    params.Position,
		Target:      params.Target,
		Up:          mgl64.Vec3{0, 1, 0},
		Aspect:      1,
		Projection:  mgl64.Ident4(),
		View:        mgl64.LookAtV(params.Position, params.Target, mgl64.Vec3{0, 1, 0}),
		Yaw:         yaw,
		Pitch:       pitch,
		Distance:    distance,
		Damping:     cameraDamping,
		MinDistance: minDistance,
		MaxDistance: maxDistance,
	})
	return id
}

package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/xmastree/pkg/ecs"
)

// TransformComponent 实体在父节点坐标系中的位置、旋转和缩放
//
// Parent 为 ecs.InvalidEntity 时表示挂在场景根下。
// 世界矩阵由 ComposerSystem 沿父链组合，组件本身不缓存矩阵。
type TransformComponent struct {
	Position mgl64.Vec3
	// Rotation 欧拉角（弧度），按 X→Y→Z 顺序应用
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3
	Parent   ecs.EntityID
}

// NewTransform 创建单位缩放、无旋转的变换
func NewTransform(position mgl64.Vec3, parent ecs.EntityID) *TransformComponent {
	return &TransformComponent{
		Position: position,
		Scale:    mgl64.Vec3{1, 1, 1},
		Parent:   parent,
	}
}

// LocalMatrix 返回 T * Rz * Ry * Rx * S
func (t *TransformComponent) LocalMatrix() mgl64.Mat4 {
	scale := t.Scale
	if scale == (mgl64.Vec3{}) {
		scale = mgl64.Vec3{1, 1, 1}
	}
	m := mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	m = m.Mul4(mgl64.HomogRotate3DZ(t.Rotation.Z()))
	m = m.Mul4(mgl64.HomogRotate3DY(t.Rotation.Y()))
	m = m.Mul4(mgl64.HomogRotate3DX(t.Rotation.X()))
	return m.Mul4(mgl64.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

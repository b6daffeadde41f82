package components

import "github.com/go-gl/mathgl/mgl64"

// LightKind 光源类型
type LightKind int

const (
	LightAmbient LightKind = iota
	LightDirectional
	LightPoint
)

// LightComponent 光源
//
// 方向光的 Position 表示"光从哪里照过来"（指向原点）；
// 点光源的位置来自实体的 TransformComponent，会随树一起旋转。
type LightComponent struct {
	Kind      LightKind
	Color     Color
	Intensity float64
	Position  mgl64.Vec3
	// Distance 点光源的衰减距离，0 表示不衰减
	Distance float64
}

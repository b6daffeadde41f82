package entities

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/ecs"
)

// 参考场景的灯光：0x404040 环境光 ×2，(10,20,10) 处白色方向光 ×2
const (
	AmbientColor         = 0x404040
	AmbientIntensity     = 2.0
	DirectionalIntensity = 2.0
)

// DirectionalLightPosition 方向光来源位置（指向原点）
var DirectionalLightPosition = mgl64.Vec3{10, 20, 10}

// NewAmbientLightEntity 创建环境光
func NewAmbientLightEntity(em *ecs.EntityManager, color components.Color, intensity float64) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.LightComponent{
		Kind:      components.LightAmbient,
		Color:     color,
		Intensity: intensity,
	})
	return id
}

// NewDirectionalLightEntity 创建方向光，from 为光线来源方向上的一点
func NewDirectionalLightEntity(em *ecs.EntityManager, color components.Color, intensity float64, from mgl64.Vec3) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.LightComponent{
		Kind:      components.LightDirectional,
		Color:     color,
		Intensity: intensity,
		Position:  from,
	})
	return id
}

// NewPointLightEntity 创建点光源
//
// 点光源带 TransformComponent，挂到树节点下后跟着树一起旋转。
func NewPointLightEntity(em *ecs.EntityManager, color components.Color, intensity, distance float64, position mgl64.Vec3) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, components.NewTransform(position, ecs.InvalidEntity))
	ecs.AddComponent(em, id, &components.LightComponent{
		Kind:      components.LightPoint,
		Color:     color,
		Intensity: intensity,
		Distance:  distance,
	})
	return id
}

// NewDefaultLights 创建参考场景的环境光和方向光
func NewDefaultLights(em *ecs.EntityManager) []ecs.EntityID {
	return []ecs.EntityID{
		NewAmbientLightEntity(em, components.ColorFromHex(AmbientColor), AmbientIntensity),
		NewDirectionalLightEntity(em, components.Color{R: 1, G: 1, B: 1}, DirectionalIntensity, DirectionalLightPosition),
	}
}

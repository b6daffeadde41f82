package systems

import (
	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/ecs"
)

// RotationParams 每帧旋转增量（弧度）
type RotationParams struct {
	Tree  float64
	StarY float64
	StarZ float64
}

// DefaultRotationParams 参考场景：树 +0.005，星星 Y -0.02、Z -0.01
func DefaultRotationParams() RotationParams {
	return RotationParams{Tree: 0.005, StarY: -0.02, StarZ: -0.01}
}

// AnimationSystem 每帧推进场景动画
//
// 使用固定的每帧增量而不是 deltaTime，必须每个渲染帧调用一次 Update。
// 它是 SceneStateComponent 的唯一写入者。
type AnimationSystem struct {
	entityManager *ecs.EntityManager
	composer      *ComposerSystem
	rotation      RotationParams
}

// NewAnimationSystem 创建动画系统
func NewAnimationSystem(em *ecs.EntityManager, composer *ComposerSystem, rotation RotationParams) *AnimationSystem {
	return &AnimationSystem{
		entityManager: em,
		composer:      composer,
		rotation:      rotation,
	}
}

// Update 推进一帧：树和星星旋转，彩灯相位前进并重新计算亮度
func (s *AnimationSystem) Update() {
	s.composer.Rotate(s.rotation.Tree)
	s.composer.SpinStar(s.rotation.StarY, s.rotation.StarZ)

	ornaments := ecs.GetEntitiesWith2[
		*components.AnimatedComponent,
		*components.OrnamentComponent,
	](s.entityManager)

	for _, id := range ornaments {
		orn, _ := ecs.GetComponent[*components.OrnamentComponent](s.entityManager, id)
		orn.Phase += orn.Speed
		orn.Intensity = components.EmissionIntensity(orn.BaseIntensity, orn.Amplitude, orn.Phase)

		if mat, ok := ecs.GetComponent[*components.MaterialComponent](s.entityManager, id); ok {
			mat.EmissiveIntensity = orn.Intensity
		}
	}

	if state := s.composer.State(); state != nil {
		state.Frame++
	}
}

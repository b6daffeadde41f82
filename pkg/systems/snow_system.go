package systems

import (
	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/ecs"
)

// SnowSystem 每帧让所有雪花粒子场下落一步
type SnowSystem struct {
	entityManager *ecs.EntityManager
}

// NewSnowSystem 创建雪花系统
func NewSnowSystem(em *ecs.EntityManager) *SnowSystem {
	return &SnowSystem{entityManager: em}
}

// Update 对每个粒子场调用一次 Tick
func (s *SnowSystem) Update() {
	for _, id := range ecs.GetEntitiesWith1[*components.SnowFieldComponent](s.entityManager) {
		snow, _ := ecs.GetComponent[*components.SnowFieldComponent](s.entityManager, id)
		if snow.Field != nil {
			snow.Field.Tick()
		}
	}
}

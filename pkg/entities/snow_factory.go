package entities

import (
	"fmt"

	"github.com/gonewx/xmastree/internal/particle"
	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/ecs"
)

// 雪花外观
const (
	SnowSize    = 0.1
	SnowOpacity = 0.8
)

// NewSnowEntity 创建雪花粒子场实体（挂在场景根下，不随树旋转，不可拾取）
func NewSnowEntity(em *ecs.EntityManager, field *particle.Field) (ecs.EntityID, error) {
	if field == nil {
		return ecs.InvalidEntity, fmt.Errorf("particle field cannot be nil")
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.SnowFieldComponent{
		Field:   field,
		Size:    SnowSize,
		Color:   components.Color{R: 1, G: 1, B: 1},
		Opacity: SnowOpacity,
	})
	return id, nil
}

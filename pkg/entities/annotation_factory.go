package entities

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/ecs"
)

// NewAnnotationEntity 创建留言卡片
//
// surface 和 anchor 都是树局部坐标；卡片的 TransformComponent 位于 anchor，
// 父节点由 ComposerSystem 设置。
func NewAnnotationEntity(
	em *ecs.EntityManager,
	surface, anchor mgl64.Vec3,
	text string,
	frame uint64,
	sequence int,
) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, components.NewTransform(anchor, ecs.InvalidEntity))
	ecs.AddComponent(em, id, &components.AnnotationComponent{
		ID:           uuid.NewString(),
		Text:         text,
		Surface:      surface,
		Anchor:       anchor,
		CreatedFrame: frame,
		Sequence:     sequence,
	})
	return id
}

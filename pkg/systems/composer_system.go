package systems

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/ecs"
	"github.com/gonewx/xmastree/pkg/entities"
)

// 父链的最大深度，超过即认为存在环
const maxHierarchyDepth = 64

// ComposerSystem 场景组合器
// 职责：
// - 持有场景根节点（带 SceneStateComponent）和树节点
// - 把静态几何挂到层级中（AddStatic）
// - 维护树的整体旋转和星星的自转
// - 提供只读的可拾取实体遍历
// - 追加留言卡片（只增不减）
type ComposerSystem struct {
	entityManager    *ecs.EntityManager
	root             ecs.EntityID
	treeGroup        ecs.EntityID
	star             ecs.EntityID
	annotationOffset float64
	annotations      []ecs.EntityID
}

// NewComposerSystem 创建组合器，同时创建根节点和树节点
// 参数:
//   - em: EntityManager 实例
//   - annotationOffset: 卡片沿表面方向外移的距离
func NewComposerSystem(em *ecs.EntityManager, annotationOffset float64) *ComposerSystem {
	root := em.CreateEntity()
	ecs.AddComponent(em, root, components.NewTransform(mgl64.Vec3{}, ecs.InvalidEntity))
	ecs.AddComponent(em, root, &components.SceneStateComponent{})

	group := em.CreateEntity()
	ecs.AddComponent(em, group, components.NewTransform(mgl64.Vec3{}, root))
	ecs.AddComponent(em, group, &components.TreeGroupComponent{})

	return &ComposerSystem{
		entityManager:    em,
		root:             root,
		treeGroup:        group,
		annotationOffset: annotationOffset,
	}
}

// Root 场景根节点
func (s *ComposerSystem) Root() ecs.EntityID { return s.root }

// TreeGroup 树节点（树叶、树干、星星、彩灯、卡片的父节点）
func (s *ComposerSystem) TreeGroup() ecs.EntityID { return s.treeGroup }

// Star 星星实体，未设置时为 ecs.InvalidEntity
func (s *ComposerSystem) Star() ecs.EntityID { return s.star }

// State 返回场景旋转状态
func (s *ComposerSystem) State() *components.SceneStateComponent {
	state, _ := ecs.GetComponent[*components.SceneStateComponent](s.entityManager, s.root)
	return state
}

// AddStatic 把实体挂到 parent 下
//
// 实体没有 TransformComponent 时补一个单位变换。parent 必须存在，
// 且不能是实体自己或它的后代。
func (s *ComposerSystem) AddStatic(id, parent ecs.EntityID) error {
	if !s.entityManager.Exists(id) {
		return fmt.Errorf("entity %d does not exist", id)
	}
	if !s.entityManager.Exists(parent) {
		return fmt.Errorf("parent entity %d does not exist", parent)
	}
	for p, depth := parent, 0; p != ecs.InvalidEntity; depth++ {
		if p == id || depth > maxHierarchyDepth {
			return fmt.Errorf("attaching entity %d under %d would create a cycle", id, parent)
		}
		tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, p)
		if !ok {
			break
		}
		p = tr.Parent
	}

	tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	if !ok {
		tr = components.NewTransform(mgl64.Vec3{}, parent)
		ecs.AddComponent(s.entityManager, id, tr)
		return nil
	}
	tr.Parent = parent
	return nil
}

// SetStar 指定星星实体（SpinStar 作用的对象）
func (s *ComposerSystem) SetStar(id ecs.EntityID) {
	s.star = id
}

// Rotate 推进树的整体旋转（绕 Y 轴）
func (s *ComposerSystem) Rotate(delta float64) {
	state := s.State()
	if state == nil {
		return
	}
	state.TreeRotation += delta
	if tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.treeGroup); ok {
		tr.Rotation = mgl64.Vec3{0, state.TreeRotation, 0}
	}
}

// SpinStar 推进星星的自转，与树的旋转相互独立
func (s *ComposerSystem) SpinStar(dy, dz float64) {
	state := s.State()
	if state == nil {
		return
	}
	state.StarRotationY += dy
	state.StarRotationZ += dz
	if tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.star); ok {
		tr.Rotation = mgl64.Vec3{0, state.StarRotationY, state.StarRotationZ}
	}
}

// PickableEntities 返回可拾取的实体（按 ID 升序）
//
// 只包含带 PickableComponent 的网格实体，彩灯、雪花和卡片永远不在其中。
func (s *ComposerSystem) PickableEntities() []ecs.EntityID {
	return ecs.GetEntitiesWith3[
		*components.PickableComponent,
		*components.MeshComponent,
		*components.TransformComponent,
	](s.entityManager)
}

// WorldMatrix 沿父链组合得到实体的世界矩阵
func (s *ComposerSystem) WorldMatrix(id ecs.EntityID) mgl64.Mat4 {
	m := mgl64.Ident4()
	for depth := 0; id != ecs.InvalidEntity && depth <= maxHierarchyDepth; depth++ {
		tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if !ok {
			break
		}
		m = tr.LocalMatrix().Mul4(m)
		id = tr.Parent
	}
	return m
}

// ToTreeLocal 把世界坐标转换到树节点的局部坐标
func (s *ComposerSystem) ToTreeLocal(world mgl64.Vec3) mgl64.Vec3 {
	inv := s.WorldMatrix(s.treeGroup).Inv()
	return inv.Mul4x1(world.Vec4(1)).Vec3()
}

// AddAnnotation 追加一张留言卡片
//
// position 是树局部坐标下的点击位置；卡片放在沿该位置归一化方向外移
// annotationOffset 的地方，挂在树节点下随树旋转。
// text 去掉首尾空白后为空时不做任何事，返回 false。
func (s *ComposerSystem) AddAnnotation(position mgl64.Vec3, text string) (ecs.EntityID, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ecs.InvalidEntity, false
	}

	dir := mgl64.Vec3{0, 1, 0}
	if position.Len() > 1e-9 {
		dir = position.Normalize()
	}
	anchor := position.Add(dir.Mul(s.annotationOffset))

	var frame uint64
	if state := s.State(); state != nil {
		frame = state.Frame
	}

	id := entities.NewAnnotationEntity(s.entityManager, position, anchor, text, frame, len(s.annotations)+1)
	if err := s.AddStatic(id, s.treeGroup); err != nil {
		log.Printf("[Composer] Failed to attach annotation: %v", err)
		s.entityManager.DestroyEntity(id)
		s.entityManager.RemoveMarkedEntities()
		return ecs.InvalidEntity, false
	}
	s.annotations = append(s.annotations, id)

	log.Printf("[Composer] Annotation #%d added at (%.2f, %.2f, %.2f): %q",
		len(s.annotations), anchor.X(), anchor.Y(), anchor.Z(), text)
	return id, true
}

// Annotations 按创建顺序返回所有卡片实体
func (s *ComposerSystem) Annotations() []ecs.EntityID {
	out := make([]ecs.EntityID, len(s.annotations))
	copy(out, s.annotations)
	return out
}

// AnnotationCount 卡片数量
func (s *ComposerSystem) AnnotationCount() int {
	return len(s.annotations)
}

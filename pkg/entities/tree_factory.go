package entities

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/ecs"
	"github.com/gonewx/xmastree/pkg/geometry"
)

// 场景材质颜色
const (
	FoliageColor = 0x0f5f0f
	TrunkColor   = 0x5c4033
	StarColor    = 0xffff00
	GroundColor  = 0xffffff
)

// 地面参数：y=-1.5 处 100x100 的雪地
const (
	GroundY        = -1.5
	GroundSize     = 100.0
	groundSegments = 20
)

// TreeEntities NewTreeEntities 创建的实体
//
// 实体的 TransformComponent.Parent 都还是空的，由 ComposerSystem.AddStatic 挂到树节点下。
type TreeEntities struct {
	Layers    []ecs.EntityID
	Trunk     ecs.EntityID
	Star      ecs.EntityID
	StarLight ecs.EntityID
}

// All 按创建顺序返回全部实体
func (t *TreeEntities) All() []ecs.EntityID {
	out := make([]ecs.EntityID, 0, len(t.Layers)+3)
	out = append(out, t.Layers...)
	return append(out, t.Trunk, t.Star, t.StarLight)
}

// NewTreeEntities 为 BuildTree 的输出创建实体
//
// 参数:
//   - em: 实体管理器
//   - tree: geometry.BuildTree 生成的网格
//   - star: 星星自转速度
//
// 所有树叶层共享一份材质数据；只有树叶层可被拾取。
// 星星位置额外放一个黄色点光源（强度 2，衰减距离 10）。
func NewTreeEntities(em *ecs.EntityManager, tree *geometry.TreeGeometry, star components.StarComponent) (*TreeEntities, error) {
	if em == nil {
		return nil, fmt.Errorf("entity manager cannot be nil")
	}
	if tree == nil {
		return nil, fmt.Errorf("tree geometry cannot be nil")
	}

	foliage := components.MaterialComponent{
		Color:   components.ColorFromHex(FoliageColor),
		Opacity: 1,
		Fog:     true,
	}

	out := &TreeEntities{Layers: make([]ecs.EntityID, 0, len(tree.Layers))}
	for i, layer := range tree.Layers {
		id := em.CreateEntity()
		material := foliage
		ecs.AddComponent(em, id, components.NewTransform(layer.Offset, ecs.InvalidEntity))
		ecs.AddComponent(em, id, &components.MeshComponent{Mesh: layer.Mesh, Kind: components.MeshKindFoliage})
		ecs.AddComponent(em, id, &material)
		ecs.AddComponent(em, id, &components.FoliageLayerComponent{Index: i, Spec: layer.Spec})
		ecs.AddComponent(em, id, &components.PickableComponent{})
		out.Layers = append(out.Layers, id)
	}

	out.Trunk = em.CreateEntity()
	ecs.AddComponent(em, out.Trunk, components.NewTransform(tree.Trunk.Offset, ecs.InvalidEntity))
	ecs.AddComponent(em, out.Trunk, &components.MeshComponent{Mesh: tree.Trunk.Mesh, Kind: components.MeshKindTrunk})
	ecs.AddComponent(em, out.Trunk, &components.MaterialComponent{
		Color:   components.ColorFromHex(TrunkColor),
		Opacity: 1,
		Fog:     true,
	})

	// 星星不受光照，颜色直接输出；泛光阶段靠它的高亮度产生光晕
	out.Star = em.CreateEntity()
	starColor := components.ColorFromHex(StarColor)
	ecs.AddComponent(em, out.Star, components.NewTransform(tree.Star.Offset, ecs.InvalidEntity))
	ecs.AddComponent(em, out.Star, &components.MeshComponent{Mesh: tree.Star.Mesh, Kind: components.MeshKindStar})
	ecs.AddComponent(em, out.Star, &components.MaterialComponent{
		Color:   starColor,
		Unlit:   true,
		Opacity: 1,
		Fog:     true,
	})
	spin := star
	ecs.AddComponent(em, out.Star, &spin)

	out.StarLight = NewPointLightEntity(em, starColor, 2, 10, tree.Star.Offset)
	return out, nil
}

// NewGroundEntity 创建雪地平面（不可拾取）
func NewGroundEntity(em *ecs.EntityManager) (ecs.EntityID, error) {
	mesh, err := geometry.Plane(GroundSize, GroundSize, groundSegments)
	if err != nil {
		return ecs.InvalidEntity, fmt.Errorf("ground: %w", err)
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, components.NewTransform(mgl64.Vec3{0, GroundY, 0}, ecs.InvalidEntity))
	ecs.AddComponent(em, id, &components.MeshComponent{Mesh: mesh, Kind: components.MeshKindGround})
	ecs.AddComponent(em, id, &components.MaterialComponent{
		Color:   components.ColorFromHex(GroundColor),
		Opacity: 1,
		Fog:     true,
	})
	return id, nil
}

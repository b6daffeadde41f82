package entities

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/ecs"
	"github.com/gonewx/xmastree/pkg/geometry"
)

// 彩灯球体尺寸
const (
	OrnamentRadius   = 0.15
	ornamentSegments = 8
)

// OrnamentParams 彩灯的颜色和亮度振荡参数
type OrnamentParams struct {
	Colors    []components.Color
	Base      float64
	Amplitude float64
	SpeedMin  float64
	SpeedMax  float64
}

// NewOrnamentMesh 创建所有彩灯共享的球体网格
func NewOrnamentMesh() (*geometry.Mesh, error) {
	return geometry.UVSphere(OrnamentRadius, ornamentSegments, ornamentSegments)
}

// NewOrnamentEntity 创建一个彩灯
//
// 颜色从调色板中均匀随机选取，初始相位在 [0, 2π) 内随机，
// 速度在 [SpeedMin, SpeedMax] 内随机。位置由调用方（螺旋布局）给出。
func NewOrnamentEntity(
	em *ecs.EntityManager,
	mesh *geometry.Mesh,
	index int,
	position mgl64.Vec3,
	params OrnamentParams,
	rng *rand.Rand,
) (ecs.EntityID, error) {
	if em == nil {
		return ecs.InvalidEntity, fmt.Errorf("entity manager cannot be nil")
	}
	if mesh == nil {
		return ecs.InvalidEntity, fmt.Errorf("ornament mesh cannot be nil")
	}
	if len(params.Colors) == 0 {
		return ecs.InvalidEntity, fmt.Errorf("ornament palette cannot be empty")
	}
	if rng == nil {
		return ecs.InvalidEntity, fmt.Errorf("random source cannot be nil")
	}

	color := params.Colors[rng.Intn(len(params.Colors))]
	phase := rng.Float64() * 2 * math.Pi
	speed := params.SpeedMin + rng.Float64()*(params.SpeedMax-params.SpeedMin)

	id := em.CreateEntity()
	ecs.AddComponent(em, id, components.NewTransform(position, ecs.InvalidEntity))
	ecs.AddComponent(em, id, &components.MeshComponent{Mesh: mesh, Kind: components.MeshKindOrnament})
	ecs.AddComponent(em, id, &components.MaterialComponent{
		Color:             color,
		Emissive:          color,
		EmissiveIntensity: components.EmissionIntensity(params.Base, params.Amplitude, phase),
		Opacity:           1,
		Fog:               true,
	})
	ecs.AddComponent(em, id, &components.OrnamentComponent{
		Index:         index,
		Phase:         phase,
		Speed:         speed,
		BaseIntensity: params.Base,
		Amplitude:     params.Amplitude,
		Intensity:     components.EmissionIntensity(params.Base, params.Amplitude, phase),
	})
	ecs.AddComponent(em, id, &components.AnimatedComponent{})
	return id, nil
}

// NewOrnamentEntities 沿螺旋放置 placer.Count 个彩灯，Count 为 0 时返回空切片
func NewOrnamentEntities(
	em *ecs.EntityManager,
	placer geometry.SpiralPlacer,
	params OrnamentParams,
	rng *rand.Rand,
) ([]ecs.EntityID, error) {
	if err := placer.Validate(); err != nil {
		return nil, fmt.Errorf("ornament spiral: %w", err)
	}
	positions := placer.Positions()
	if len(positions) == 0 {
		return nil, nil
	}

	mesh, err := NewOrnamentMesh()
	if err != nil {
		return nil, fmt.Errorf("ornament mesh: %w", err)
	}

	ids := make([]ecs.EntityID, 0, len(positions))
	for i, pos := range positions {
		id, err := NewOrnamentEntity(em, mesh, i, pos, params, rng)
		if err != nil {
			return nil, fmt.Errorf("ornament %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

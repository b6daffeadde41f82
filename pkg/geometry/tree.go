package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// LayerSpec 一层树叶（圆锥）的参数
type LayerSpec struct {
	Radius  float64 `yaml:"radius" toml:"radius"`
	Height  float64 `yaml:"height" toml:"height"`
	YOffset float64 `yaml:"yOffset" toml:"yOffset"`
}

// Validate 检查层参数，radius 和 height 必须为正
func (s LayerSpec) Validate() error {
	if !validPositive(s.Radius) {
		return fmt.Errorf("radius must be > 0, got %v: %w", s.Radius, ErrInvalidDimension)
	}
	if !validPositive(s.Height) {
		return fmt.Errorf("height must be > 0, got %v: %w", s.Height, ErrInvalidDimension)
	}
	if !validFinite(s.YOffset) {
		return fmt.Errorf("yOffset must be finite, got %v: %w", s.YOffset, ErrInvalidDimension)
	}
	return nil
}

// TrunkSpec 树干（圆台）参数
type TrunkSpec struct {
	TopRadius    float64
	BottomRadius float64
	Height       float64
	Segments     int
	YOffset      float64
}

// StarSpec 树顶星星（八面体）参数
type StarSpec struct {
	Radius  float64
	YOffset float64
}

// TreeOptions 除树叶层以外的固定尺寸
type TreeOptions struct {
	// RadialSegments 每层圆锥的径向分段数
	RadialSegments int
	Trunk          TrunkSpec
	Star           StarSpec
}

// DefaultTreeOptions 返回参考场景使用的树干/星星尺寸
func DefaultTreeOptions() TreeOptions {
	return TreeOptions{
		RadialSegments: 32,
		Trunk: TrunkSpec{
			TopRadius:    0.8,
			BottomRadius: 1.0,
			Height:       3,
			Segments:     16,
			YOffset:      0,
		},
		Star: StarSpec{
			Radius:  0.5,
			YOffset: 9.3,
		},
	}
}

// DefaultLayerSpecs 返回参考场景的四层树叶（由下到上）
func DefaultLayerSpecs() []LayerSpec {
	return []LayerSpec{
		{Radius: 4, Height: 4, YOffset: 2},
		{Radius: 3, Height: 3.5, YOffset: 4.5},
		{Radius: 2, Height: 3, YOffset: 6.5},
		{Radius: 1, Height: 2, YOffset: 8.2},
	}
}

// Part 一个已定位的网格（偏移相对于树的根节点）
type Part struct {
	Mesh   *Mesh
	Offset mgl64.Vec3
}

// LayerPart 一层树叶网格及其参数
type LayerPart struct {
	Part
	Spec LayerSpec
}

// TreeGeometry BuildTree 的输出
type TreeGeometry struct {
	Layers []LayerPart
	Trunk  Part
	Star   Part
}

// BuildTree 按层参数生成树叶圆锥，外加一根树干和一颗星星
//
// 纯函数：没有随机性，也不持有状态。任一层尺寸非法时返回带层序号的错误。
// specs 为空时只生成树干和星星。
func BuildTree(specs []LayerSpec, opts TreeOptions) (*TreeGeometry, error) {
	tree := &TreeGeometry{Layers: make([]LayerPart, 0, len(specs))}

	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		mesh, err := Cone(spec.Radius, spec.Height, opts.RadialSegments)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		tree.Layers = append(tree.Layers, LayerPart{
			Part: Part{Mesh: mesh, Offset: mgl64.Vec3{0, spec.YOffset, 0}},
			Spec: spec,
		})
	}

	trunk, err := Cylinder(opts.Trunk.TopRadius, opts.Trunk.BottomRadius, opts.Trunk.Height, opts.Trunk.Segments)
	if err != nil {
		return nil, fmt.Errorf("trunk: %w", err)
	}
	tree.Trunk = Part{Mesh: trunk, Offset: mgl64.Vec3{0, opts.Trunk.YOffset, 0}}

	star, err := Octahedron(opts.Star.Radius)
	if err != nil {
		return nil, fmt.Errorf("star: %w", err)
	}
	tree.Star = Part{Mesh: star, Offset: mgl64.Vec3{0, opts.Star.YOffset, 0}}

	return tree, nil
}

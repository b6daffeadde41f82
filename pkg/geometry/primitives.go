package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// 最小分段数，低于该值的网格无法闭合
const minSegments = 3

// ring 生成 y 高度处、半径 r 的顶点环（角度从 +X 转向 +Z）
func (m *Mesh) ring(r, y float64, segments int) []int {
	idx := make([]int, segments)
	for i := 0; i < segments; i++ {
		theta := float64(i) / float64(segments) * 2 * math.Pi
		idx[i] = m.addVertex(mgl64.Vec3{r * math.Cos(theta), y, r * math.Sin(theta)})
	}
	return idx
}

// Cone 生成以原点为中心的圆锥（底面 y=-height/2，顶点 y=+height/2），带底面
func Cone(radius, height float64, segments int) (*Mesh, error) {
	if !validPositive(radius) {
		return nil, fmt.Errorf("cone radius must be > 0, got %v: %w", radius, ErrInvalidDimension)
	}
	if !validPositive(height) {
		return nil, fmt.Errorf("cone height must be > 0, got %v: %w", height, ErrInvalidDimension)
	}
	if segments < minSegments {
		return nil, fmt.Errorf("cone needs at least %d segments, got %d: %w", minSegments, segments, ErrInvalidDimension)
	}

	m := &Mesh{}
	half := height / 2
	apex := m.addVertex(mgl64.Vec3{0, half, 0})
	base := m.ring(radius, -half, segments)
	center := m.addVertex(mgl64.Vec3{0, -half, 0})

	for i := 0; i < segments; i++ {
		next := (i + 1) % segments
		m.addTriangle(apex, base[next], base[i])
		m.addTriangle(center, base[i], base[next])
	}
	return m, nil
}

// Cylinder 生成以原点为中心的圆台（顶面半径 radiusTop，底面半径 radiusBottom），带上下底
func Cylinder(radiusTop, radiusBottom, height float64, segments int) (*Mesh, error) {
	if !validPositive(radiusTop) || !validPositive(radiusBottom) {
		return nil, fmt.Errorf("cylinder radii must be > 0, got %v/%v: %w", radiusTop, radiusBottom, ErrInvalidDimension)
	}
	if !validPositive(height) {
		return nil, fmt.Errorf("cylinder height must be > 0, got %v: %w", height, ErrInvalidDimension)
	}
	if segments < minSegments {
		return nil, fmt.Errorf("cylinder needs at least %d segments, got %d: %w", minSegments, segments, ErrInvalidDimension)
	}

	m := &Mesh{}
	half := height / 2
	top := m.ring(radiusTop, half, segments)
	bottom := m.ring(radiusBottom, -half, segments)
	topCenter := m.addVertex(mgl64.Vec3{0, half, 0})
	bottomCenter := m.addVertex(mgl64.Vec3{0, -half, 0})

	for i := 0; i < segments; i++ {
		next := (i + 1) % segments
		m.addTriangle(top[i], bottom[next], bottom[i])
		m.addTriangle(top[i], top[next], bottom[next])
		m.addTriangle(topCenter, top[next], top[i])
		m.addTriangle(bottomCenter, bottom[i], bottom[next])
	}
	return m, nil
}

// Octahedron 生成外接球半径为 radius 的正八面体（星星）
func Octahedron(radius float64) (*Mesh, error) {
	if !validPositive(radius) {
		return nil, fmt.Errorf("octahedron radius must be > 0, got %v: %w", radius, ErrInvalidDimension)
	}

	m := &Mesh{}
	top := m.addVertex(mgl64.Vec3{0, radius, 0})
	bottom := m.addVertex(mgl64.Vec3{0, -radius, 0})
	equator := []int{
		m.addVertex(mgl64.Vec3{radius, 0, 0}),
		m.addVertex(mgl64.Vec3{0, 0, radius}),
		m.addVertex(mgl64.Vec3{-radius, 0, 0}),
		m.addVertex(mgl64.Vec3{0, 0, -radius}),
	}
	for i := range equator {
		next := (i + 1) % len(equator)
		m.addTriangle(top, equator[next], equator[i])
		m.addTriangle(bottom, equator[i], equator[next])
	}
	return m, nil
}

// UVSphere 生成经纬线球体（彩灯）
func UVSphere(radius float64, widthSegments, heightSegments int) (*Mesh, error) {
	if !validPositive(radius) {
		return nil, fmt.Errorf("sphere radius must be > 0, got %v: %w", radius, ErrInvalidDimension)
	}
	if widthSegments < minSegments || heightSegments < 2 {
		return nil, fmt.Errorf("sphere needs at least %dx2 segments, got %dx%d: %w",
			minSegments, widthSegments, heightSegments, ErrInvalidDimension)
	}

	m := &Mesh{}
	rows := make([][]int, heightSegments+1)
	for j := 0; j <= heightSegments; j++ {
		phi := float64(j) / float64(heightSegments) * math.Pi
		rows[j] = make([]int, widthSegments)
		for i := 0; i < widthSegments; i++ {
			theta := float64(i) / float64(widthSegments) * 2 * math.Pi
			// 极点处所有顶点坐标相同，addTriangle 会跳过退化三角形
			p := mgl64.Vec3{
				radius * math.Sin(phi) * math.Cos(theta),
				radius * math.Cos(phi),
				radius * math.Sin(phi) * math.Sin(theta),
			}
			if j == 0 {
				p = mgl64.Vec3{0, radius, 0}
			} else if j == heightSegments {
				p = mgl64.Vec3{0, -radius, 0}
			}
			rows[j][i] = m.addVertex(p)
		}
	}

	for j := 0; j < heightSegments; j++ {
		for i := 0; i < widthSegments; i++ {
			next := (i + 1) % widthSegments
			a, b := rows[j][i], rows[j][next]
			c, d := rows[j+1][i], rows[j+1][next]
			m.addTriangle(a, d, c)
			m.addTriangle(a, b, d)
		}
	}
	return m, nil
}

// Plane 生成 XZ 平面上的网格地面，法线朝 +Y
//
// 细分是为了让画家算法按三角形深度排序时，大面积地面不会整体盖住树。
func Plane(width, depth float64, segments int) (*Mesh, error) {
	if !validPositive(width) || !validPositive(depth) {
		return nil, fmt.Errorf("plane size must be > 0, got %vx%v: %w", width, depth, ErrInvalidDimension)
	}
	if segments < 1 {
		return nil, fmt.Errorf("plane needs at least 1 segment, got %d: %w", segments, ErrInvalidDimension)
	}

	m := &Mesh{}
	grid := make([][]int, segments+1)
	for row := 0; row <= segments; row++ {
		z := -depth/2 + depth*float64(row)/float64(segments)
		grid[row] = make([]int, segments+1)
		for col := 0; col <= segments; col++ {
			x := -width/2 + width*float64(col)/float64(segments)
			grid[row][col] = m.addVertex(mgl64.Vec3{x, 0, z})
		}
	}
	for row := 0; row < segments; row++ {
		for col := 0; col < segments; col++ {
			v0 := grid[row][col]
			v1 := grid[row][col+1]
			v2 := grid[row+1][col+1]
			v3 := grid[row+1][col]
			m.addTriangle(v0, v2, v1)
			m.addTriangle(v0, v3, v2)
		}
	}
	return m, nil
}

// Package geometry 生成场景使用的程序化网格
//
// 所有构造函数都是纯函数：相同参数得到完全相同的网格，没有隐藏状态。
// 网格使用索引三角形表示，三角形按"从外部看逆时针"的顺序排列，
// 渲染端据此做背面剔除和平面着色。
package geometry

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidDimension 尺寸参数非法（非正数、NaN 或无穷大）
var ErrInvalidDimension = errors.New("invalid dimension")

// Mesh 索引三角形网格（局部坐标）
type Mesh struct {
	Positions []mgl64.Vec3
	// Indices 每 3 个索引组成一个三角形
	Indices []int
}

// TriangleCount 返回三角形数量
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// Triangle 返回第 i 个三角形的三个顶点
func (m *Mesh) Triangle(i int) (a, b, c mgl64.Vec3) {
	base := i * 3
	return m.Positions[m.Indices[base]], m.Positions[m.Indices[base+1]], m.Positions[m.Indices[base+2]]
}

// FaceNormal 返回第 i 个三角形的单位法线（朝外）
func (m *Mesh) FaceNormal(i int) mgl64.Vec3 {
	a, b, c := m.Triangle(i)
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return mgl64.Vec3{}
	}
	return n.Normalize()
}

// Bounds 返回网格的轴对齐包围盒
func (m *Mesh) Bounds() (min, max mgl64.Vec3) {
	if m == nil || len(m.Positions) == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	min, max = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for k := 0; k < 3; k++ {
			min[k] = math.Min(min[k], p[k])
			max[k] = math.Max(max[k], p[k])
		}
	}
	return min, max
}

// addTriangle 追加一个三角形，跳过退化三角形（如球体极点处）
func (m *Mesh) addTriangle(a, b, c int) {
	if a == b || b == c || a == c {
		return
	}
	if m.Positions[a] == m.Positions[b] || m.Positions[b] == m.Positions[c] || m.Positions[a] == m.Positions[c] {
		return
	}
	m.Indices = append(m.Indices, a, b, c)
}

// addVertex 追加顶点并返回其索引
func (m *Mesh) addVertex(p mgl64.Vec3) int {
	m.Positions = append(m.Positions, p)
	return len(m.Positions) - 1
}

// validPositive 检查尺寸是否为有限正数
func validPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// validFinite 检查数值是否有限
func validFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

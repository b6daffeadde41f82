package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/ecs"
)

// 射线与三角形平行的判定阈值
const rayEpsilon = 1e-9

// PickHit 射线拾取结果
type PickHit struct {
	Entity ecs.EntityID
	// Point 世界坐标命中点
	Point    mgl64.Vec3
	Distance float64
}

// PickingSystem 射线拾取
//
// 只与 ComposerSystem.PickableEntities() 返回的实体求交，只读，不修改场景。
type PickingSystem struct {
	entityManager *ecs.EntityManager
	composer      *ComposerSystem
	camera        *CameraSystem
}

// NewPickingSystem 创建拾取系统
func NewPickingSystem(em *ecs.EntityManager, composer *ComposerSystem, camera *CameraSystem) *PickingSystem {
	return &PickingSystem{
		entityManager: em,
		composer:      composer,
		camera:        camera,
	}
}

// Pick 从 NDC 坐标发射射线，返回最近的世界坐标命中点；未命中返回 false
func (s *PickingSystem) Pick(ndcX, ndcY float64) (mgl64.Vec3, bool) {
	hit, ok := s.PickEntity(ndcX, ndcY)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return hit.Point, true
}

// PickEntity 与 Pick 相同，额外返回命中的实体和距离
func (s *PickingSystem) PickEntity(ndcX, ndcY float64) (PickHit, bool) {
	origin, dir, ok := s.camera.Ray(ndcX, ndcY)
	if !ok {
		return PickHit{}, false
	}
	return s.Intersect(origin, dir)
}

// Intersect 射线与所有可拾取网格求交（双面），返回最近命中
func (s *PickingSystem) Intersect(origin, dir mgl64.Vec3) (PickHit, bool) {
	best := PickHit{Distance: math.Inf(1)}
	found := false

	for _, id := range s.composer.PickableEntities() {
		meshComp, _ := ecs.GetComponent[*components.MeshComponent](s.entityManager, id)
		if meshComp == nil || meshComp.Mesh == nil {
			continue
		}
		world := s.composer.WorldMatrix(id)
		mesh := meshComp.Mesh

		for i := 0; i < mesh.TriangleCount(); i++ {
			a, b, c := mesh.Triangle(i)
			a = transformPoint(world, a)
			b = transformPoint(world, b)
			c = transformPoint(world, c)

			t, ok := intersectTriangle(origin, dir, a, b, c)
			if ok && t < best.Distance {
				best = PickHit{Entity: id, Point: origin.Add(dir.Mul(t)), Distance: t}
				found = true
			}
		}
	}
	return best, found
}

// intersectTriangle Möller–Trumbore 射线三角形求交，返回射线参数 t (>0)
func intersectTriangle(origin, dir, a, b, c mgl64.Vec3) (float64, bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	p := dir.Cross(edge2)
	det := edge1.Dot(p)
	if math.Abs(det) < rayEpsilon {
		return 0, false
	}
	invDet := 1 / det

	tvec := origin.Sub(a)
	u := tvec.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := tvec.Cross(edge1)
	v := dir.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := edge2.Dot(q) * invDet
	if t <= rayEpsilon {
		return 0, false
	}
	return t, true
}

// transformPoint 用齐次矩阵变换一个点
func transformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

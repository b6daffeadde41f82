package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// TestIntersectTriangle Möller–Trumbore 的基本情形
func TestIntersectTriangle(t *testing.T) {
	a := mgl64.Vec3{-1, -1, 0}
	b := mgl64.Vec3{1, -1, 0}
	c := mgl64.Vec3{0, 1, 0}

	tests := []struct {
		name   string
		origin mgl64.Vec3
		dir    mgl64.Vec3
		wantT  float64
		wantOK bool
	}{
		{"正面命中", mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, -1}, 5, true},
		{"背面命中（双面）", mgl64.Vec3{0, 0, -3}, mgl64.Vec3{0, 0, 1}, 3, true},
		{"偏出三角形", mgl64.Vec3{2, 2, 5}, mgl64.Vec3{0, 0, -1}, 0, false},
		{"射线背向三角形", mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, 1}, 0, false},
		{"射线与三角形平行", mgl64.Vec3{0, 0, 5}, mgl64.Vec3{1, 0, 0}, 0, false},
		{"命中顶点", mgl64.Vec3{0, 1, 2}, mgl64.Vec3{0, 0, -1}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := intersectTriangle(tt.origin, tt.dir, a, b, c)
			if ok != tt.wantOK {
				t.Fatalf("intersectTriangle ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.wantT) > 1e-9 {
				t.Errorf("t = %v, want %v", got, tt.wantT)
			}
		})
	}
}

// TestPickingSystem_IgnoresOrnaments 射线先经过彩灯，但只会命中树叶层
func TestPickingSystem_IgnoresOrnaments(t *testing.T) {
	s := newTestScene(t, 40, 0)

	// 彩灯 0 位于 (3.5, 1, 0)，第一层树叶在 y=1 处的半径是 3
	hit, ok := s.picking.Intersect(mgl64.Vec3{10, 1, 0}, mgl64.Vec3{-1, 0, 0})
	if !ok {
		t.Fatal("expected a hit on the foliage")
	}
	if hit.Entity != s.tree.Layers[0] {
		t.Errorf("hit entity %d, want first layer %d", hit.Entity, s.tree.Layers[0])
	}
	if !vecNear(hit.Point, mgl64.Vec3{3, 1, 0}, 1e-9) {
		t.Errorf("hit point = %v, want (3, 1, 0)", hit.Point)
	}
	if math.Abs(hit.Distance-7) > 1e-9 {
		t.Errorf("distance = %v, want 7", hit.Distance)
	}
}

// TestPickingSystem_IgnoresTrunkAndGround 树干和地面不可拾取
func TestPickingSystem_IgnoresTrunkAndGround(t *testing.T) {
	s := newTestScene(t, 0, 0)

	// y=-1 处只有树干（第一层树叶从 y=0 开始），然后穿过地面
	if _, ok := s.picking.Intersect(mgl64.Vec3{10, -1, 0}, mgl64.Vec3{-1, 0, 0}); ok {
		t.Error("trunk should not be pickable")
	}
	if _, ok := s.picking.Intersect(mgl64.Vec3{20, 5, 20}, mgl64.Vec3{0, -1, 0}); ok {
		t.Error("ground should not be pickable")
	}
}

// TestPickingSystem_Pick 屏幕中心命中树，右上角落空
func TestPickingSystem_Pick(t *testing.T) {
	s := newTestScene(t, 40, 0)

	p, ok := s.picking.Pick(0, 0)
	if !ok {
		t.Fatal("center of the screen should hit the tree")
	}
	if p.Z() <= 0 {
		t.Errorf("hit %v should be on the camera-facing side (z > 0)", p)
	}
	if p.Y() < 0 || p.Y() > 10 {
		t.Errorf("hit %v outside tree height", p)
	}

	if _, ok := s.picking.Pick(0.98, 0.98); ok {
		t.Error("top-right corner should miss")
	}
}

// TestPickingSystem_NearestHit 返回最近的命中
func TestPickingSystem_NearestHit(t *testing.T) {
	s := newTestScene(t, 0, 0)

	// 从上往下穿过所有层，最先碰到最顶层的锥尖附近
	hit, ok := s.picking.Intersect(mgl64.Vec3{0.05, 20, 0}, mgl64.Vec3{0, -1, 0})
	if !ok {
		t.Fatal("vertical ray should hit")
	}
	if hit.Entity != s.tree.Layers[len(s.tree.Layers)-1] {
		t.Errorf("hit entity %d, want top layer %d", hit.Entity, s.tree.Layers[len(s.tree.Layers)-1])
	}
}

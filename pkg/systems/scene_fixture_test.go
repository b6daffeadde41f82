package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/xmastree/internal/particle"
	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/ecs"
	"github.com/gonewx/xmastree/pkg/entities"
	"github.com/gonewx/xmastree/pkg/geometry"
)

// testScene 测试用的完整场景（不依赖窗口）
type testScene struct {
	em         *ecs.EntityManager
	composer   *ComposerSystem
	camera     *CameraSystem
	animation  *AnimationSystem
	snow       *SnowSystem
	picking    *PickingSystem
	annotation *AnnotationSystem
	render     *RenderSystem
	tree       *entities.TreeEntities
	ornaments  []ecs.EntityID
	field      *particle.Field
}

const (
	testWidth  = 800
	testHeight = 600
)

// newTestScene 按参考场景参数搭建场景
func newTestScene(t *testing.T, ornamentCount, particleCount int) *testScene {
	t.Helper()

	em := ecs.NewEntityManager()
	composer := NewComposerSystem(em, 0.5)

	geo, err := geometry.BuildTree(geometry.DefaultLayerSpecs(), geometry.DefaultTreeOptions())
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	tree, err := entities.NewTreeEntities(em, geo, components.StarComponent{SpinY: -0.02, SpinZ: -0.01})
	if err != nil {
		t.Fatalf("NewTreeEntities failed: %v", err)
	}
	for _, id := range tree.All() {
		if err := composer.AddStatic(id, composer.TreeGroup()); err != nil {
			t.Fatalf("AddStatic failed: %v", err)
		}
	}
	composer.SetStar(tree.Star)

	rng := rand.New(rand.NewSource(7))
	ornaments, err := entities.NewOrnamentEntities(em, geometry.DefaultSpiralPlacer(ornamentCount, 0.5), entities.OrnamentParams{
		Colors:    []components.Color{components.ColorFromHex(0xff0000), components.ColorFromHex(0x00ff00)},
		Base:      3,
		Amplitude: 1.5,
		SpeedMin:  0.02,
		SpeedMax:  0.07,
	}, rng)
	if err != nil {
		t.Fatalf("NewOrnamentEntities failed: %v", err)
	}
	for _, id := range ornaments {
		if err := composer.AddStatic(id, composer.TreeGroup()); err != nil {
			t.Fatalf("AddStatic failed: %v", err)
		}
	}

	ground, err := entities.NewGroundEntity(em)
	if err != nil {
		t.Fatalf("NewGroundEntity failed: %v", err)
	}
	if err := composer.AddStatic(ground, composer.Root()); err != nil {
		t.Fatalf("AddStatic(ground) failed: %v", err)
	}
	entities.NewDefaultLights(em)

	field, err := particle.NewField(particleCount, 50, 15, 0.05, rng)
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}
	if _, err := entities.NewSnowEntity(em, field); err != nil {
		t.Fatalf("NewSnowEntity failed: %v", err)
	}

	camEntity := entities.NewCameraEntity(em, entities.CameraParams{
		FOV:      75,
		Near:     0.1,
		Far:      1000,
		Position: mgl64.Vec3{0, 5, 15},
		Target:   mgl64.Vec3{0, 4, 0},
	})
	camera := NewCameraSystem(em, camEntity)
	camera.Resize(testWidth, testHeight)
	camera.Update()

	picking := NewPickingSystem(em, composer, camera)
	return &testScene{
		em:         em,
		composer:   composer,
		camera:     camera,
		animation:  NewAnimationSystem(em, composer, DefaultRotationParams()),
		snow:       NewSnowSystem(em),
		picking:    picking,
		annotation: NewAnnotationSystem(composer, picking),
		render:     NewRenderSystem(em, composer, camera),
		tree:       tree,
		ornaments:  ornaments,
		field:      field,
	}
}

// screenOf 把世界坐标投影到测试视口的像素坐标
func (s *testScene) screenOf(p mgl64.Vec3) (float64, float64) {
	clip := s.camera.Camera().ViewProjection().Mul4x1(p.Vec4(1))
	return NDCToScreen(clip.X()/clip.W(), clip.Y()/clip.W(), testWidth, testHeight)
}

// vecNear 逐分量比较绝对误差（期望值含 0 时 ApproxEqualThreshold 会退化成 ε²）
func vecNear(a, b mgl64.Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

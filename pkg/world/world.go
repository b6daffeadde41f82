// Package world 把场景的实体和系统组装成一个可以逐帧驱动的整体
//
// World 不依赖任何窗口或图形后端，ebiten 前端、终端前端和测试共用同一份实现。
package world

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/xmastree/internal/particle"
	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/config"
	"github.com/gonewx/xmastree/pkg/ecs"
	"github.com/gonewx/xmastree/pkg/entities"
	"github.com/gonewx/xmastree/pkg/geometry"
	"github.com/gonewx/xmastree/pkg/systems"
)

// World 圣诞树场景
//
// 单线程使用：Tick、Resize、指针处理和 DrawList 必须在同一个帧驱动者上调用。
type World struct {
	cfg *config.SceneConfig

	entityManager *ecs.EntityManager
	composer      *systems.ComposerSystem
	animation     *systems.AnimationSystem
	snow          *systems.SnowSystem
	camera        *systems.CameraSystem
	picking       *systems.PickingSystem
	annotation    *systems.AnnotationSystem
	render        *systems.RenderSystem

	tree      *entities.TreeEntities
	ornaments []ecs.EntityID
	field     *particle.Field

	width, height int
}

// New 按配置构造场景
//
// rng 为 nil 时使用 cfg.Seed，Seed 为 0 时按当前时间取种子。
// 配置非法时返回包装了 config.ErrInvalidConfig 的错误。
func New(cfg *config.SceneConfig, rng *rand.Rand) (*World, error) {
	if cfg == nil {
		cfg = config.DefaultSceneConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	em := ecs.NewEntityManager()
	w := &World{
		cfg:           cfg,
		entityManager: em,
		composer:      systems.NewComposerSystem(em, cfg.AnnotationOffset),
	}

	if err := w.buildTree(); err != nil {
		return nil, err
	}
	if err := w.buildOrnaments(rng); err != nil {
		return nil, err
	}
	if err := w.buildEnvironment(rng); err != nil {
		return nil, err
	}

	camEntity := entities.NewCameraEntity(em, entities.CameraParams{
		FOV:      cfg.Camera.FOV,
		Near:     cfg.Camera.Near,
		Far:      cfg.Camera.Far,
		Position: mgl64.Vec3(cfg.Camera.Position),
		Target:   mgl64.Vec3(cfg.Camera.Target),
	})
	w.camera = systems.NewCameraSystem(em, camEntity)
	w.animation = systems.NewAnimationSystem(em, w.composer, systems.RotationParams{
		Tree:  cfg.TreeRotationSpeed,
		StarY: cfg.StarSpinY,
		StarZ: cfg.StarSpinZ,
	})
	w.snow = systems.NewSnowSystem(em)
	w.picking = systems.NewPickingSystem(em, w.composer, w.camera)
	w.annotation = systems.NewAnnotationSystem(w.composer, w.picking)
	w.render = systems.NewRenderSystem(em, w.composer, w.camera)

	log.Printf("[World] Scene ready: %d layers, %d ornaments, %d snow particles, %d entities",
		len(w.tree.Layers), len(w.ornaments), w.field.Len(), em.EntityCount())
	return w, nil
}

func (w *World) buildTree() error {
	geo, err := geometry.BuildTree(w.cfg.LayerSpecs, geometry.DefaultTreeOptions())
	if err != nil {
		return fmt.Errorf("failed to build tree geometry: %w", err)
	}
	tree, err := entities.NewTreeEntities(w.entityManager, geo, components.StarComponent{
		SpinY: w.cfg.StarSpinY,
		SpinZ: w.cfg.StarSpinZ,
	})
	if err != nil {
		return fmt.Errorf("failed to create tree entities: %w", err)
	}
	for _, id := range tree.All() {
		if err := w.composer.AddStatic(id, w.composer.TreeGroup()); err != nil {
			return fmt.Errorf("failed to attach tree part: %w", err)
		}
	}
	w.composer.SetStar(tree.Star)
	w.tree = tree
	return nil
}

func (w *World) buildOrnaments(rng *rand.Rand) error {
	colors := make([]components.Color, len(w.cfg.OrnamentColors))
	for i, hex := range w.cfg.OrnamentColors {
		colors[i] = components.ColorFromHex(hex)
	}
	ids, err := entities.NewOrnamentEntities(w.entityManager, w.cfg.Spiral(), entities.OrnamentParams{
		Colors:    colors,
		Base:      w.cfg.Emission.Base,
		Amplitude: w.cfg.Emission.Amplitude,
		SpeedMin:  w.cfg.Emission.SpeedMin,
		SpeedMax:  w.cfg.Emission.SpeedMax,
	}, rng)
	if err != nil {
		return fmt.Errorf("failed to place ornaments: %w", err)
	}
	for _, id := range ids {
		if err := w.composer.AddStatic(id, w.composer.TreeGroup()); err != nil {
			return fmt.Errorf("failed to attach ornament: %w", err)
		}
	}
	w.ornaments = ids
	return nil
}

// buildEnvironment 地面、灯光和雪花，它们不随树旋转
func (w *World) buildEnvironment(rng *rand.Rand) error {
	ground, err := entities.NewGroundEntity(w.entityManager)
	if err != nil {
		return fmt.Errorf("failed to create ground: %w", err)
	}
	if err := w.composer.AddStatic(ground, w.composer.Root()); err != nil {
		return fmt.Errorf("failed to attach ground: %w", err)
	}
	entities.NewDefaultLights(w.entityManager)

	field, err := particle.NewField(w.cfg.ParticleCount, w.cfg.ParticleSpread, w.cfg.ParticleTopY, w.cfg.FallRate, rng)
	if err != nil {
		return fmt.Errorf("failed to create snow field: %w", err)
	}
	if _, err := entities.NewSnowEntity(w.entityManager, field); err != nil {
		return fmt.Errorf("failed to create snow entity: %w", err)
	}
	w.field = field
	return nil
}

// Tick 推进一帧：旋转和彩灯闪烁、雪花下落、相机阻尼
func (w *World) Tick() {
	w.animation.Update()
	w.snow.Update()
	w.camera.Update()
	w.entityManager.RemoveMarkedEntities()
}

// Resize 更新视口尺寸，尺寸不为正时忽略
func (w *World) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == w.width && height == w.height {
		return
	}
	w.width, w.height = width, height
	w.camera.Resize(width, height)
}

// Size 当前视口尺寸
func (w *World) Size() (int, int) { return w.width, w.height }

// DrawList 生成当前帧的绘制列表，返回值在下一次调用前有效
func (w *World) DrawList() *systems.DrawList {
	return w.render.Build(w.width, w.height)
}

// Pick 拾取屏幕像素位置下的树表面点（世界坐标）
func (w *World) Pick(x, y float64) (mgl64.Vec3, bool) {
	if w.width <= 0 || w.height <= 0 {
		return mgl64.Vec3{}, false
	}
	ndcX, ndcY := systems.ScreenToNDC(x, y, w.width, w.height)
	return w.picking.Pick(ndcX, ndcY)
}

// HandlePointer 处理一次点击，命中树时记录待确认位置
func (w *World) HandlePointer(x, y float64) bool {
	return w.annotation.HandlePointer(x, y, w.width, w.height)
}

// SetIgnoreRegion 见 systems.AnnotationSystem.SetIgnoreRegion
func (w *World) SetIgnoreRegion(fn func(x, y float64) bool) {
	w.annotation.SetIgnoreRegion(fn)
}

// SetOnPick 见 systems.AnnotationSystem.SetOnPick
func (w *World) SetOnPick(fn func(systems.PickEvent)) {
	w.annotation.SetOnPick(fn)
}

// Pending 待确认的留言位置（树局部坐标）
func (w *World) Pending() (mgl64.Vec3, bool) {
	return w.annotation.Pending()
}

// Confirm 用待确认位置提交留言
func (w *World) Confirm(text string) (ecs.EntityID, bool) {
	return w.annotation.Confirm(text)
}

// ConfirmAnnotation 提交留言，pending 为 nil 或文字为空时什么也不做
func (w *World) ConfirmAnnotation(pending *mgl64.Vec3, text string) (ecs.EntityID, bool) {
	return w.annotation.ConfirmAnnotation(pending, text)
}

// Cancel 放弃待确认的留言
func (w *World) Cancel() {
	w.annotation.Cancel()
}

// Orbit 拖拽旋转相机（像素增量）
func (w *World) Orbit(dx, dy float64) {
	w.camera.Orbit(dx, dy)
}

// Zoom 滚轮缩放，正数拉近
func (w *World) Zoom(steps float64) {
	w.camera.Zoom(steps)
}

// Config 构造时使用的配置
func (w *World) Config() *config.SceneConfig { return w.cfg }

// State 树和星星的旋转状态
func (w *World) State() components.SceneStateComponent {
	return *w.composer.State()
}

// Annotations 当前所有留言（按添加顺序）
func (w *World) Annotations() []components.AnnotationComponent {
	ids := w.composer.Annotations()
	out := make([]components.AnnotationComponent, 0, len(ids))
	for _, id := range ids {
		if ann, ok := ecs.GetComponent[*components.AnnotationComponent](w.entityManager, id); ok {
			out = append(out, *ann)
		}
	}
	return out
}

// OrnamentIntensities 每个彩灯当前的发光强度（按螺旋索引）
func (w *World) OrnamentIntensities() []float64 {
	out := make([]float64, len(w.ornaments))
	for i, id := range w.ornaments {
		if orn, ok := ecs.GetComponent[*components.OrnamentComponent](w.entityManager, id); ok {
			out[i] = orn.Intensity
		}
	}
	return out
}

// Snow 雪花粒子场
func (w *World) Snow() *particle.Field { return w.field }

// EntityCount 场景中的实体数量
func (w *World) EntityCount() int { return w.entityManager.EntityCount() }

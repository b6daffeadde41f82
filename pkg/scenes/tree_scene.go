package scenes

import (
	"io/fs"
	"log"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/xmastree/pkg/config"
	"github.com/gonewx/xmastree/pkg/display"
	"github.com/gonewx/xmastree/pkg/ecs"
	"github.com/gonewx/xmastree/pkg/game"
	"github.com/gonewx/xmastree/pkg/modules"
	"github.com/gonewx/xmastree/pkg/utils"
	"github.com/gonewx/xmastree/pkg/world"
)

// mobileDragDeadZone 触摸时手指抖动比鼠标大
const mobileDragDeadZone = 12.0

// TreeSceneOptions 创建圣诞树场景的参数
type TreeSceneOptions struct {
	// Config 场景配置，nil 表示默认配置
	Config *config.SceneConfig
	// Watcher 配置文件热加载，可选
	Watcher *config.Watcher
	// Settings 用户设置，nil 时使用内存设置
	Settings *game.SettingsManager
	// Audio 背景音乐，可选
	Audio *game.AudioManager
	// NoBloom 强制关闭泛光（--no-bloom）
	NoBloom bool
	// Rand 随机源，nil 时按配置的种子创建
	Rand *rand.Rand
}

// TreeScene 圣诞树场景
//
// 帧驱动：
//   - Update 处理热加载、键盘、指针和对话框，然后推进一帧
//   - Draw 依次绘制场景（可选泛光）、卡片、帮助面板、对话框和状态栏
//
// 场景状态全部在 ebiten 的 Update/Draw 线程上修改。
type TreeScene struct {
	world *world.World
	loop  *game.FrameLoop

	settings *game.SettingsManager
	audio    *game.AudioManager
	watcher  *config.Watcher

	renderer *display.SceneRenderer
	bloom    *display.BloomPipeline
	cards    *display.CardRenderer
	hud      *display.HUD

	// UI 实体（对话框、帮助面板）与场景实体分开管理
	uiEntities *ecs.EntityManager
	dialog     *modules.AnnotationDialogModule
	help       *modules.HelpPanelModule

	drag *utils.DragManager

	bloomEnabled bool
	noBloom      bool

	width, height int
}

// NewTreeScene 创建圣诞树场景
func NewTreeScene(opts TreeSceneOptions) (*TreeScene, error) {
	w, err := world.New(opts.Config, opts.Rand)
	if err != nil {
		return nil, err
	}

	settings := opts.Settings
	if settings == nil {
		settings, _ = game.NewSettingsManager(nil)
	}

	s := &TreeScene{
		world:      w,
		settings:   settings,
		audio:      opts.Audio,
		watcher:    opts.Watcher,
		renderer:   display.NewSceneRenderer(),
		bloom:      display.NewBloomPipeline(w.Config().Bloom),
		uiEntities: ecs.NewEntityManager(),
		drag:       utils.NewDragManager(),
		noBloom:    opts.NoBloom,
	}
	if utils.IsMobile() {
		s.drag.SetDeadZone(mobileDragDeadZone)
	}
	s.loop = game.NewFrameLoop(func() { s.world.Tick() })
	s.bloomEnabled = s.wantBloom()

	if s.cards, err = display.NewCardRenderer(); err != nil {
		log.Printf("[TreeScene] Warning: cards will not be drawn: %v", err)
	}
	if s.hud, err = display.NewHUD(); err != nil {
		log.Printf("[TreeScene] Warning: HUD disabled: %v", err)
	}

	s.dialog = modules.NewAnnotationDialogModule(s.uiEntities, 0, 0, s.confirmAnnotation, func() {
		s.world.Cancel()
	})
	s.help = modules.NewHelpPanelModule(s.uiEntities, 0, 0, func() {
		s.settings.SetShowHelp(false)
	})
	if settings.GetSettings().ShowHelp {
		s.help.Show()
	}

	s.wireWorld()
	log.Printf("[TreeScene] Created (bloom=%v)", s.bloomEnabled)
	return s, nil
}

// wireWorld 把拾取回调和忽略区域接到当前 world（热加载后重新调用）
func (s *TreeScene) wireWorld() {
	s.world.SetIgnoreRegion(func(x, y float64) bool {
		return s.dialog.Contains(x, y) || s.help.Contains(x, y)
	})
	s.world.SetOnPick(s.dialog.Show)
}

func (s *TreeScene) wantBloom() bool {
	return !s.noBloom && s.world.Config().EnhancedVisuals && s.settings.GetSettings().EnhancedVisuals
}

func (s *TreeScene) confirmAnnotation(pending *mgl64.Vec3, text string) bool {
	_, ok := s.world.ConfirmAnnotation(pending, text)
	return ok
}

// Resize 实现 game.Resizable
func (s *TreeScene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.world.Resize(width, height)
	s.bloom.Resize(width, height)
	s.dialog.SetScreenSize(width, height)
	s.help.SetScreenSize(width, height)
}

// Update 处理输入并推进一帧
func (s *TreeScene) Update(deltaTime float64) {
	s.drainReloads()
	s.handleFiles()
	s.handleKeys()

	s.dialog.Update(deltaTime)
	s.handlePointer()

	s.loop.Step()
}

// drainReloads 非阻塞地取出热加载请求
func (s *TreeScene) drainReloads() {
	if s.watcher == nil {
		return
	}
	select {
	case path, ok := <-s.watcher.Reloads():
		if !ok {
			s.watcher = nil
			return
		}
		s.reload(path)
	default:
	}
}

// reload 重新构建 world，失败时保留当前场景
//
// 留言属于会话状态，重建后丢弃。
func (s *TreeScene) reload(path string) {
	cfg, err := config.LoadSceneConfig(path)
	if err != nil {
		log.Printf("[TreeScene] Reload failed, keeping current scene: %v", err)
		return
	}
	w, err := world.New(cfg, nil)
	if err != nil {
		log.Printf("[TreeScene] Reload failed, keeping current scene: %v", err)
		return
	}

	s.dialog.Hide()
	s.drag.Reset()
	s.world = w
	s.world.Resize(s.width, s.height)
	s.bloom.SetConfig(cfg.Bloom)
	s.bloomEnabled = s.wantBloom()
	s.wireWorld()
	log.Printf("[TreeScene] Reloaded scene from %s", path)
}

// handleFiles 拖放音乐文件到窗口时切换背景音乐
func (s *TreeScene) handleFiles() {
	files := ebiten.DroppedFiles()
	if files == nil || s.audio == nil {
		return
	}
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		log.Printf("[TreeScene] Failed to read dropped files: %v", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() || !game.IsMusicFile(e.Name()) {
			continue
		}
		data, err := fs.ReadFile(files, e.Name())
		if err != nil {
			log.Printf("[TreeScene] Failed to read %s: %v", e.Name(), err)
			continue
		}
		if err := s.audio.LoadMusicData(e.Name(), data); err != nil {
			log.Printf("[TreeScene] Failed to load music %s: %v", e.Name(), err)
			continue
		}
		s.settings.SetMusicEnabled(true)
		s.audio.PlayMusic()
		return
	}
}

// handleKeys 快捷键（对话框打开时只处理对话框自己的按键）
func (s *TreeScene) handleKeys() {
	if s.dialog.IsActive() {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		s.ToggleBloom()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) && s.audio != nil {
		s.audio.ToggleMusic()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		s.help.Toggle()
		s.settings.SetShowHelp(s.help.IsActive())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && s.help.IsActive() {
		s.help.Hide()
	}
}

// ToggleBloom 切换泛光并记住选择
func (s *TreeScene) ToggleBloom() {
	if s.noBloom {
		return
	}
	s.bloomEnabled = !s.bloomEnabled
	s.settings.SetEnhancedVisuals(s.bloomEnabled)
	log.Printf("[TreeScene] Bloom: %v", s.bloomEnabled)
}

// handlePointer 拖动旋转、点击拾取、滚轮缩放
func (s *TreeScene) handlePointer() {
	s.drag.Update()
	modal := s.dialog.IsActive() || s.help.IsActive()

	if s.drag.JustEnded() {
		if clicked, x, y := s.drag.Clicked(); clicked {
			s.handleClick(float64(x), float64(y))
		}
	} else if s.drag.IsDragging() && !modal {
		dx, dy := s.drag.Delta()
		s.world.Orbit(float64(dx), float64(dy))
	}

	if _, wy := ebiten.Wheel(); wy != 0 && !modal {
		s.world.Zoom(wy)
	}
}

// handleClick 点击依次交给对话框、帮助面板，最后才是场景拾取
func (s *TreeScene) handleClick(x, y float64) {
	if s.dialog.HandleClick(x, y) {
		return
	}
	if s.help.HandleClick(x, y) {
		return
	}
	s.world.HandlePointer(x, y)
}

// Draw 绘制一帧
func (s *TreeScene) Draw(screen *ebiten.Image) {
	list := s.world.DrawList()

	if s.bloomEnabled && s.bloom.Available() {
		s.renderer.Draw(s.bloom.Begin(), list)
		s.bloom.Apply(screen)
	} else {
		s.renderer.Draw(screen, list)
	}

	if s.cards != nil {
		s.cards.Draw(screen, list.Cards)
	}
	s.help.Draw(screen)
	s.dialog.Draw(screen)

	if s.hud != nil {
		s.hud.Draw(screen, s.status())
	}
}

func (s *TreeScene) status() display.HUDStatus {
	status := display.HUDStatus{
		FPS:         ebiten.ActualFPS(),
		Annotations: len(s.world.Annotations()),
		Bloom:       s.bloomEnabled && s.bloom.Available(),
	}
	if s.audio != nil {
		status.Music = s.audio.CurrentMusic()
		status.Playing = s.audio.IsPlaying()
	}
	return status
}

// World 当前场景（热加载后会变化）
func (s *TreeScene) World() *world.World {
	return s.world
}

// Frames 已推进的帧数
func (s *TreeScene) Frames() uint64 {
	return s.loop.Frames()
}

// SaveOnExit 实现 game.Saveable：保存设置并停止监听配置文件
func (s *TreeScene) SaveOnExit() bool {
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			log.Printf("[TreeScene] Failed to close config watcher: %v", err)
		}
		s.watcher = nil
	}
	if s.audio != nil {
		s.audio.Close()
	}
	if err := s.settings.Save(); err != nil {
		log.Printf("[TreeScene] Failed to save settings: %v", err)
		return false
	}
	return true
}

var (
	_ game.Resizable = (*TreeScene)(nil)
	_ game.Saveable  = (*TreeScene)(nil)
)

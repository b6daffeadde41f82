// Package app 提供查看器应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/xmastree/pkg/config"
	"github.com/gonewx/xmastree/pkg/embedded"
	"github.com/gonewx/xmastree/pkg/game"
	"github.com/gonewx/xmastree/pkg/scenes"
)

const (
	// AppName gdata 存储目录名
	AppName = "xmastree"
	// 嵌入的默认场景配置
	defaultSceneConfig = "data/scene.yaml"

	WindowWidth  = 1024
	WindowHeight = 768
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 场景配置文件（.yaml/.toml），为空则使用嵌入的默认配置
	ConfigPath string
	// MusicPath 背景音乐文件，为空则使用上次保存的设置
	MusicPath string
	// NoBloom 关闭泛光
	NoBloom bool
	// Seed 覆盖配置中的随机种子（0 表示不覆盖）
	Seed int64
}

// App 是查看器应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	verbose      bool
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// 桌面和移动端共用：每个显示帧调用一次 Update
	syncFrameRate()

	sceneCfg, err := loadSceneConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.Seed != 0 {
		sceneCfg.Seed = cfg.Seed
	}

	settings, err := game.NewSettingsManager(game.OpenSettingsStore(AppName))
	if err != nil {
		return nil, fmt.Errorf("failed to create settings manager: %w", err)
	}

	// 初始化音频上下文
	audioContext := audio.NewContext(game.DefaultSampleRate)
	audioManager := game.NewAudioManager(audioContext, settings)
	loadStartupMusic(audioManager, cfg.MusicPath, settings.GetSettings())
	log.Printf("[App] AudioManager initialized")

	var watcher *config.Watcher
	if cfg.ConfigPath != "" {
		watcher, err = config.NewWatcher(cfg.ConfigPath, config.DefaultReloadDebounce)
		if err != nil {
			// 热加载不是必需的
			log.Printf("[App] Warning: config hot reload disabled: %v", err)
			watcher = nil
		}
	}

	scene, err := scenes.NewTreeScene(scenes.TreeSceneOptions{
		Config:   sceneCfg,
		Watcher:  watcher,
		Settings: settings,
		Audio:    audioManager,
		NoBloom:  cfg.NoBloom,
	})
	if err != nil {
		if watcher != nil {
			watcher.Close()
		}
		return nil, fmt.Errorf("failed to create tree scene: %w", err)
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scene)

	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		verbose:      cfg.Verbose,
	}, nil
}

// syncFrameRate 让 Update 与显示刷新同步（场景每帧只推进一次）
func syncFrameRate() {
	ebiten.SetTPS(ebiten.SyncWithFPS)
}

// loadSceneConfig 读取场景配置：指定了路径就读文件，否则读嵌入的默认配置
func loadSceneConfig(path string) (*config.SceneConfig, error) {
	if path != "" {
		cfg, err := config.LoadSceneConfig(path)
		if err != nil {
			return nil, fmt.Errorf("场景配置加载失败: %w", err)
		}
		log.Printf("[Config] Loaded scene config: %s", path)
		return cfg, nil
	}

	if !embedded.Exists(defaultSceneConfig) {
		log.Printf("[Config] Embedded scene config missing, using built-in defaults")
		return config.DefaultSceneConfig(), nil
	}
	data, err := embedded.ReadFile(defaultSceneConfig)
	if err != nil {
		return nil, fmt.Errorf("场景配置加载失败: %w", err)
	}
	cfg, err := config.ParseSceneConfig(data, config.FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("场景配置加载失败: %w", err)
	}
	log.Printf("[Config] Loaded embedded scene config")
	return cfg, nil
}

// loadStartupMusic 加载命令行指定或上次使用的音乐，失败只记录日志
func loadStartupMusic(am *game.AudioManager, flagPath string, settings *game.ViewerSettings) {
	path := flagPath
	if path == "" {
		path = settings.MusicPath
		if path == "" {
			return
		}
		// 拖放的文件只记住了文件名，找不到就跳过
		if _, err := os.Stat(path); err != nil {
			return
		}
	}
	if err := am.LoadMusic(path); err != nil {
		log.Printf("[App] Failed to load music %s: %v", path, err)
		return
	}
	am.PlayMusic()
}

// Update 更新场景逻辑
// 每个 tick 调用一次（帧率同步时每帧一次）
func (a *App) Update() error {
	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		if !fullscreen && (ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized()) {
			ebiten.RestoreWindow()
		}
		a.settings.SetFullscreen(fullscreen)
		log.Printf("[App] Fullscreen: %v", fullscreen)
	}

	a.sceneManager.Update(frameDelta())
	return nil
}

// frameDelta 每帧的时间步长（秒），TPS 跟随显示器刷新时按实际帧率估算
func frameDelta() float64 {
	if tps := ebiten.TPS(); tps > 0 {
		return 1.0 / float64(tps)
	}
	if fps := ebiten.ActualFPS(); fps > 1 {
		return 1.0 / fps
	}
	return float64(time.Second/60) / float64(time.Second)
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// Layout 逻辑尺寸与窗口尺寸一致，场景按窗口大小重新计算投影
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.sceneManager.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// GetSceneManager 返回场景管理器
// 用于在关闭时保存设置
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

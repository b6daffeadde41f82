package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/xmastree/pkg/app"
	"github.com/gonewx/xmastree/pkg/embedded"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
	configPath = flag.String("config", "", "场景配置文件（.yaml 或 .toml），修改后自动热加载")
	musicPath  = flag.String("music", "", "背景音乐文件（.mp3/.ogg/.wav）")
	noBloom    = flag.Bool("no-bloom", false, "关闭泛光后处理")
	seed       = flag.Int64("seed", 0, "随机种子（0 表示使用配置中的种子）")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源，dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	viewer, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		MusicPath:  *musicPath,
		NoBloom:    *noBloom,
		Seed:       *seed,
	})
	if err != nil {
		// NewApp 可能已经关闭了日志输出
		log.SetOutput(os.Stderr)
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("Christmas Tree")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(viewer)

	// 窗口关闭后保存设置
	if !viewer.GetSceneManager().SaveOnExit() {
		log.Printf("[Main] Failed to save settings on exit")
	}

	if runErr != nil {
		log.SetOutput(os.Stderr)
		log.Fatal(runErr)
	}
}

// xmastree-tty 在终端里显示圣诞树
//
// 用法：
//
//	go run ./cmd/xmastree-tty --config data/scene.yaml --music jingle.ogg
//
// 终端需要支持真彩色和鼠标。日志默认丢弃（否则会打乱画面），用 --log 写到文件。
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/xmastree/pkg/config"
	"github.com/gonewx/xmastree/pkg/tty"
	"github.com/gonewx/xmastree/pkg/world"
)

var (
	configPath = flag.String("config", "", "场景配置文件（.yaml 或 .toml），修改后自动热加载")
	fps        = flag.Int("fps", tty.DefaultFPS, "刷新率")
	musicPath  = flag.String("music", "", "背景音乐文件（.mp3/.ogg/.wav）")
	logPath    = flag.String("log", "", "日志文件")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "xmastree-tty: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg := config.DefaultSceneConfig()
	var reloads <-chan string
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadSceneConfig(*configPath); err != nil {
			return err
		}
		watcher, err := config.NewWatcher(*configPath, config.DefaultReloadDebounce)
		if err != nil {
			log.Printf("[Main] Warning: config hot reload disabled: %v", err)
		} else {
			defer watcher.Close()
			reloads = watcher.Reloads()
		}
	}

	w, err := world.New(cfg, nil)
	if err != nil {
		return err
	}

	var music *tty.MusicPlayer
	if *musicPath != "" {
		music = tty.NewMusicPlayer()
		defer music.Close()
		if err := music.Load(*musicPath); err != nil {
			log.Printf("[Main] Failed to load music: %v", err)
		} else {
			music.Play()
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	viewer := tty.NewViewer(screen, w, tty.Options{
		FPS:     *fps,
		Music:   music,
		Reloads: reloads,
	})
	return viewer.Run(ctx)
}

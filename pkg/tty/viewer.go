package tty

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/gonewx/xmastree/pkg/config"
	"github.com/gonewx/xmastree/pkg/systems"
	"github.com/gonewx/xmastree/pkg/world"
)

const (
	// DefaultFPS 终端刷新率
	DefaultFPS = 30
	// wishMaxLength 留言最大字符数
	wishMaxLength = 80
	// cardMaxRunes 卡片上显示的最大字符数
	cardMaxRunes = 24
	// cellOrbit 一个字符单元格对应的拖拽像素
	cellOrbit = 8.0
	// keyOrbit 方向键每次旋转的像素
	keyOrbit = 40.0
)

var (
	cardStyle   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 230, 120)).Background(tcell.NewRGBColor(16, 40, 24))
	statusStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(230, 235, 240)).Background(tcell.NewRGBColor(5, 5, 16))
	promptStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 230, 120)).Background(tcell.NewRGBColor(5, 5, 16)).Bold(true)
)

// Options 终端查看器参数
type Options struct {
	// FPS 刷新率，不大于 0 时使用 DefaultFPS
	FPS int
	// Music 背景音乐，可选
	Music *MusicPlayer
	// Reloads 配置文件热加载请求，可选
	Reloads <-chan string
}

// Viewer 终端查看器
//
// 事件由后台 goroutine 从 tcell 读取后经 channel 交给帧循环，
// 场景只在 Run 所在的 goroutine 上修改。
// 最后一行是状态栏，输入留言时变成输入框。
type Viewer struct {
	screen  tcell.Screen
	world   *world.World
	canvas  *Canvas
	music   *MusicPlayer
	reloads <-chan string
	fps     int

	cols, rows int

	// 输入留言时不为 nil
	wish []rune

	dragging     bool
	dragMoved    bool
	dragX, dragY int

	frames uint64
}

// NewViewer 创建查看器，screen 必须已经 Init
func NewViewer(screen tcell.Screen, w *world.World, opts Options) *Viewer {
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	v := &Viewer{
		screen:  screen,
		world:   w,
		canvas:  NewCanvas(0, 0),
		music:   opts.Music,
		reloads: opts.Reloads,
		fps:     fps,
	}
	screen.EnableMouse()
	screen.HideCursor()
	v.wireWorld()
	v.resize()
	return v
}

// wireWorld 把拾取回调接到当前 world（热加载后重新调用）
func (v *Viewer) wireWorld() {
	v.world.SetIgnoreRegion(func(x, y float64) bool {
		return v.wish != nil || y >= float64(v.sceneRows()*2)
	})
	v.world.SetOnPick(func(systems.PickEvent) {
		v.wish = []rune{}
	})
}

// sceneRows 场景占用的行数（最后一行留给状态栏）
func (v *Viewer) sceneRows() int {
	if v.rows <= 1 {
		return 0
	}
	return v.rows - 1
}

func (v *Viewer) resize() {
	v.cols, v.rows = v.screen.Size()
	v.canvas.Resize(v.cols, v.sceneRows()*2)
	v.world.Resize(v.cols, v.sceneRows()*2)
}

// Run 驱动帧循环直到 ctx 取消或用户退出
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(v.fps))
	defer ticker.Stop()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !v.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			v.Frame()
		}
	}
}

// Frame 推进一帧并重绘
func (v *Viewer) Frame() {
	v.drainReloads()
	v.world.Tick()
	v.frames++
	v.Draw()
}

// Frames 已推进的帧数
func (v *Viewer) Frames() uint64 {
	return v.frames
}

// World 当前场景（热加载后会变化）
func (v *Viewer) World() *world.World {
	return v.world
}

// Composing 是否正在输入留言
func (v *Viewer) Composing() bool {
	return v.wish != nil
}

func (v *Viewer) drainReloads() {
	if v.reloads == nil {
		return
	}
	select {
	case path, ok := <-v.reloads:
		if !ok {
			v.reloads = nil
			return
		}
		v.reload(path)
	default:
	}
}

// reload 重新构建 world，失败时保留当前场景
func (v *Viewer) reload(path string) {
	cfg, err := config.LoadSceneConfig(path)
	if err != nil {
		log.Printf("[Viewer] Reload failed, keeping current scene: %v", err)
		return
	}
	w, err := world.New(cfg, nil)
	if err != nil {
		log.Printf("[Viewer] Reload failed, keeping current scene: %v", err)
		return
	}
	v.wish = nil
	v.world = w
	v.wireWorld()
	v.world.Resize(v.cols, v.sceneRows()*2)
	log.Printf("[Viewer] Reloaded scene from %s", path)
}

// HandleEvent 处理一个终端事件，返回 false 表示退出
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.resize()
		v.screen.Sync()
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	}
	return true
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return false
	}
	if v.wish != nil {
		v.handleWishKey(ev)
		return true
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		return false
	case tcell.KeyLeft:
		v.world.Orbit(-keyOrbit, 0)
	case tcell.KeyRight:
		v.world.Orbit(keyOrbit, 0)
	case tcell.KeyUp:
		v.world.Orbit(0, -keyOrbit)
	case tcell.KeyDown:
		v.world.Orbit(0, keyOrbit)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case '+', '=':
			v.world.Zoom(1)
		case '-', '_':
			v.world.Zoom(-1)
		case 'm', 'M':
			if v.music != nil {
				v.music.Toggle()
			}
		}
	}
	return true
}

// handleWishKey 输入框编辑：Enter 提交、Esc 放弃
func (v *Viewer) handleWishKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		v.wish = nil
		v.world.Cancel()
	case tcell.KeyEnter:
		text := strings.TrimSpace(string(v.wish))
		if text == "" {
			return
		}
		if _, ok := v.world.Confirm(text); ok {
			v.wish = nil
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(v.wish); n > 0 {
			v.wish = v.wish[:n-1]
		}
	case tcell.KeyRune:
		if len(v.wish) < wishMaxLength {
			v.wish = append(v.wish, ev.Rune())
		}
	}
}

// handleMouse 拖动旋转、点击拾取、滚轮缩放
func (v *Viewer) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		if v.wish == nil {
			v.world.Zoom(1)
		}
	case buttons&tcell.WheelDown != 0:
		if v.wish == nil {
			v.world.Zoom(-1)
		}
	case buttons&tcell.Button1 != 0:
		if !v.dragging {
			v.dragging, v.dragMoved = true, false
			v.dragX, v.dragY = x, y
			return
		}
		if x == v.dragX && y == v.dragY {
			return
		}
		if v.wish == nil {
			v.world.Orbit(float64(x-v.dragX)*cellOrbit, float64(y-v.dragY)*2*cellOrbit)
		}
		v.dragMoved = true
		v.dragX, v.dragY = x, y
	default:
		if v.dragging {
			v.dragging = false
			if !v.dragMoved {
				v.click(x, y)
			}
		}
	}
}

// click 单元格坐标转换为像素中心后交给拾取
func (v *Viewer) click(col, row int) {
	v.world.HandlePointer(float64(col)+0.5, float64(row*2)+1)
}

// Draw 绘制场景、卡片和状态栏
func (v *Viewer) Draw() {
	list := v.world.DrawList()
	if list.Width != v.canvas.Width || list.Height != v.canvas.Height {
		v.canvas.Resize(list.Width, list.Height)
	}
	v.canvas.Render(list)
	v.canvas.Present(v.screen, v.sceneRows())

	for _, card := range list.Cards {
		v.drawCard(card)
	}
	v.drawStatus()
	v.screen.Show()
}

// drawCard 卡片画在锚点上方一行，水平居中
func (v *Viewer) drawCard(card systems.Card) {
	label := " " + truncate(card.Text, cardMaxRunes) + " "
	width := runewidth.StringWidth(label)
	col := int(card.X) - width/2
	row := int(card.Y/2) - 1
	if row < 0 || row >= v.sceneRows() {
		return
	}
	v.drawText(col, row, label, cardStyle)
}

func (v *Viewer) drawStatus() {
	if v.rows <= 0 {
		return
	}
	row := v.rows - 1
	for x := 0; x < v.cols; x++ {
		v.screen.SetContent(x, row, ' ', nil, statusStyle)
	}
	if v.wish != nil {
		v.drawText(0, row, FormatWishPrompt(string(v.wish)), promptStyle)
		return
	}
	v.drawText(0, row, FormatStatus(len(v.world.Annotations()), v.musicLabel()), statusStyle)
}

func (v *Viewer) musicLabel() string {
	if v.music == nil || v.music.Current() == "" {
		return "none"
	}
	label := filepath.Base(v.music.Current())
	if !v.music.IsPlaying() {
		label += " (paused)"
	}
	return label
}

// drawText 按显示宽度逐字符写入，超出屏幕的部分丢弃
func (v *Viewer) drawText(col, row int, s string, style tcell.Style) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= 0 && col+w <= v.cols {
			v.screen.SetContent(col, row, r, nil, style)
		}
		col += w
	}
}

// FormatStatus 状态栏文字
func FormatStatus(wishes int, music string) string {
	return fmt.Sprintf(" wishes %d | music %s | drag/arrows: orbit  +/-: zoom  click: wish  m: music  q: quit",
		wishes, music)
}

// FormatWishPrompt 输入框文字
func FormatWishPrompt(text string) string {
	return " Wish: " + text + "_  (Enter: hang  Esc: cancel)"
}

// truncate 超过 max 个字符时截断并加省略号
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

package modules

import (
	"image/color"
	"log"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/config"
	"github.com/gonewx/xmastree/pkg/display"
	"github.com/gonewx/xmastree/pkg/ecs"
	"github.com/gonewx/xmastree/pkg/entities"
	"github.com/gonewx/xmastree/pkg/systems"
	"github.com/gonewx/xmastree/pkg/utils"
)

const (
	// 光标闪烁间隔（秒）
	cursorBlinkInterval = 0.5
	// 移动端没有物理键盘，输入框预先填好的祝福
	mobileDefaultWish = "Merry Christmas!"

	dialogTitleSize = 18.0
	dialogFontSize  = 14.0
)

var (
	dialogColor       = color.RGBA{R: 90, G: 16, B: 20, A: 240}
	inputColor        = color.RGBA{R: 250, G: 246, B: 232, A: 255}
	inputTextColor    = color.RGBA{R: 40, G: 20, B: 20, A: 255}
	placeholderColor  = color.RGBA{R: 150, G: 140, B: 130, A: 255}
	buttonColor       = color.RGBA{R: 20, G: 90, B: 40, A: 255}
	buttonCancelColor = color.RGBA{R: 70, G: 70, B: 80, A: 255}
)

// dialogKeys 一帧内对话框关心的键盘输入
type dialogKeys struct {
	Chars     []rune
	Backspace bool
	Delete    bool
	Left      bool
	Right     bool
	Home      bool
	End       bool
	Enter     bool
	Escape    bool
}

// repeatKey 第 1 帧立即响应，按住 30 帧后每 3 帧重复一次
func repeatKey(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= 30 && d%3 == 0)
}

// readDialogKeys 读取当前帧的键盘状态
func readDialogKeys(buf []rune) dialogKeys {
	return dialogKeys{
		Chars:     ebiten.AppendInputChars(buf[:0]),
		Backspace: repeatKey(ebiten.KeyBackspace),
		Delete:    repeatKey(ebiten.KeyDelete),
		Left:      repeatKey(ebiten.KeyArrowLeft),
		Right:     repeatKey(ebiten.KeyArrowRight),
		Home:      inpututil.IsKeyJustPressed(ebiten.KeyHome),
		End:       inpututil.IsKeyJustPressed(ebiten.KeyEnd),
		Enter:     inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter),
		Escape:    inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}
}

// AnnotationDialogModule 留言输入对话框模块
//
// 职责：
//   - 拾取命中树时弹出（Show），记录命中位置
//   - 处理文本输入、光标移动和按钮点击
//   - 确定时通过 onConfirm 把 (命中位置, 文字) 交给场景，取消时调用 onCancel
//   - 打开期间吞掉所有指针事件
//
// 空白文字不会提交，对话框保持打开。
type AnnotationDialogModule struct {
	entityManager *ecs.EntityManager
	dialogEntity  ecs.EntityID

	onConfirm func(pending *mgl64.Vec3, text string) bool
	onCancel  func()

	titleFace *text.GoTextFace
	bodyFace  *text.GoTextFace

	keyBuf []rune

	windowWidth  int
	windowHeight int
}

// NewAnnotationDialogModule 创建留言对话框模块
//
// onConfirm 返回 false 表示留言没有被接受（例如文字为空），对话框保持打开。
func NewAnnotationDialogModule(
	em *ecs.EntityManager,
	windowWidth, windowHeight int,
	onConfirm func(pending *mgl64.Vec3, text string) bool,
	onCancel func(),
) *AnnotationDialogModule {
	m := &AnnotationDialogModule{
		entityManager: em,
		dialogEntity:  entities.NewAnnotationDialogEntity(em, "Make a wish", "Your wish will hang on the tree."),
		onConfirm:     onConfirm,
		onCancel:      onCancel,
		keyBuf:        make([]rune, 0, 16),
		windowWidth:   windowWidth,
		windowHeight:  windowHeight,
	}

	var err error
	if m.titleFace, err = display.Face(dialogTitleSize); err != nil {
		log.Printf("[AnnotationDialog] Warning: title font unavailable: %v", err)
	}
	if m.bodyFace, err = display.Face(dialogFontSize); err != nil {
		log.Printf("[AnnotationDialog] Warning: body font unavailable: %v", err)
	}
	return m
}

func (m *AnnotationDialogModule) dialog() *components.DialogComponent {
	dialog, _ := ecs.GetComponent[*components.DialogComponent](m.entityManager, m.dialogEntity)
	return dialog
}

func (m *AnnotationDialogModule) input() *components.TextInputComponent {
	dialog := m.dialog()
	if dialog == nil {
		return nil
	}
	input, _ := ecs.GetComponent[*components.TextInputComponent](m.entityManager, dialog.Input)
	return input
}

// SetScreenSize 窗口尺寸变化时更新居中位置
func (m *AnnotationDialogModule) SetScreenSize(width, height int) {
	m.windowWidth, m.windowHeight = width, height
}

// Show 打开对话框，记录命中位置并清空输入框
func (m *AnnotationDialogModule) Show(ev systems.PickEvent) {
	dialog := m.dialog()
	input := m.input()
	if dialog == nil || input == nil {
		return
	}
	dialog.IsVisible = true
	dialog.Pending = ev.Position
	dialog.HasPending = true

	input.Reset()
	input.IsFocused = true
	if utils.IsMobile() {
		input.InsertRunes([]rune(mobileDefaultWish))
	}
	log.Printf("[AnnotationDialog] Opened at (%.0f, %.0f)", ev.ScreenX, ev.ScreenY)
}

// Hide 关闭对话框（不触发回调）
func (m *AnnotationDialogModule) Hide() {
	dialog := m.dialog()
	if dialog == nil {
		return
	}
	dialog.IsVisible = false
	dialog.HasPending = false
	if input := m.input(); input != nil {
		input.IsFocused = false
	}
}

// IsActive 对话框是否打开
func (m *AnnotationDialogModule) IsActive() bool {
	dialog := m.dialog()
	return dialog != nil && dialog.IsVisible
}

// Text 输入框当前文字
func (m *AnnotationDialogModule) Text() string {
	if input := m.input(); input != nil {
		return input.Text
	}
	return ""
}

// Rect 对话框在屏幕上的矩形
func (m *AnnotationDialogModule) Rect() config.Rect {
	dialog := m.dialog()
	if dialog == nil {
		return config.Rect{}
	}
	return config.CenteredRect(m.windowWidth, m.windowHeight, dialog.Width, dialog.Height)
}

// Contains 对话框是模态的，打开时所有指针位置都归它所有
func (m *AnnotationDialogModule) Contains(x, y float64) bool {
	return m.IsActive()
}

// Update 处理键盘输入和光标闪烁
func (m *AnnotationDialogModule) Update(deltaTime float64) {
	if !m.IsActive() {
		return
	}
	if input := m.input(); input != nil {
		updateCursorBlink(input, deltaTime)
	}
	m.applyKeys(readDialogKeys(m.keyBuf))
}

func updateCursorBlink(input *components.TextInputComponent, deltaTime float64) {
	input.CursorBlinkTimer += deltaTime
	if input.CursorBlinkTimer >= cursorBlinkInterval {
		input.CursorBlinkTimer = 0
		input.CursorVisible = !input.CursorVisible
	}
}

// applyKeys 把一帧的键盘输入作用到输入框
func (m *AnnotationDialogModule) applyKeys(keys dialogKeys) {
	if !m.IsActive() {
		return
	}
	if keys.Escape {
		m.Cancel()
		return
	}

	input := m.input()
	if input == nil {
		return
	}

	edited := true
	switch {
	case len(keys.Chars) > 0:
		input.InsertRunes(keys.Chars)
	case keys.Backspace:
		input.Backspace()
	case keys.Delete:
		input.Delete()
	case keys.Left:
		input.MoveCursor(-1)
	case keys.Right:
		input.MoveCursor(1)
	case keys.Home:
		input.CursorPosition = 0
	case keys.End:
		input.CursorPosition = len([]rune(input.Text))
	default:
		edited = false
	}
	if edited {
		// 输入时光标保持可见
		input.CursorBlinkTimer = 0
		input.CursorVisible = true
	}

	if keys.Enter {
		m.Confirm()
	}
}

// Confirm 提交输入框文字，被接受时关闭对话框并返回 true
func (m *AnnotationDialogModule) Confirm() bool {
	dialog := m.dialog()
	input := m.input()
	if dialog == nil || input == nil || !dialog.IsVisible {
		return false
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return false
	}

	var pending *mgl64.Vec3
	if dialog.HasPending {
		p := dialog.Pending
		pending = &p
	}
	if m.onConfirm != nil && !m.onConfirm(pending, text) {
		return false
	}
	m.Hide()
	return true
}

// Cancel 放弃留言并关闭对话框
func (m *AnnotationDialogModule) Cancel() {
	if !m.IsActive() {
		return
	}
	m.Hide()
	log.Printf("[AnnotationDialog] Cancelled")
	if m.onCancel != nil {
		m.onCancel()
	}
}

// buttonRect 按钮的屏幕矩形
func (m *AnnotationDialogModule) buttonRect(b components.DialogButton) config.Rect {
	r := m.Rect()
	return config.Rect{X: r.X + b.X, Y: r.Y + b.Y, W: b.Width, H: b.Height}
}

// HandleClick 处理点击，打开时总是返回 true（事件已消费）
func (m *AnnotationDialogModule) HandleClick(x, y float64) bool {
	dialog := m.dialog()
	if dialog == nil || !dialog.IsVisible {
		return false
	}
	for _, b := range dialog.Buttons {
		if !m.buttonRect(b).Contains(x, y) {
			continue
		}
		switch b.Role {
		case components.DialogButtonConfirm:
			m.Confirm()
		case components.DialogButtonCancel:
			m.Cancel()
		}
		return true
	}
	return true
}

// Draw 渲染对话框、输入框和按钮
func (m *AnnotationDialogModule) Draw(screen *ebiten.Image) {
	dialog := m.dialog()
	input := m.input()
	if dialog == nil || input == nil || !dialog.IsVisible {
		return
	}

	bounds := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(bounds.Dx()), float32(bounds.Dy()), maskColor, false)

	r := m.Rect()
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), dialogColor, true)
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2, panelBorder, true)

	inputX := r.X + config.DialogPadding
	inputY := r.Y + config.DialogPadding + dialogTitleSize*1.4 + dialogFontSize*1.4
	vector.DrawFilledRect(screen, float32(inputX), float32(inputY), float32(input.Width), float32(input.Height), inputColor, true)

	for _, b := range dialog.Buttons {
		br := m.buttonRect(b)
		clr := buttonColor
		if b.Role == components.DialogButtonCancel {
			clr = buttonCancelColor
		}
		vector.DrawFilledRect(screen, float32(br.X), float32(br.Y), float32(br.W), float32(br.H), clr, true)
	}

	if m.titleFace == nil || m.bodyFace == nil {
		return
	}

	drawText(screen, dialog.Title, m.titleFace, r.X+config.DialogPadding, r.Y+config.DialogPadding, panelTitle)
	drawText(screen, dialog.Message, m.bodyFace, r.X+config.DialogPadding, r.Y+config.DialogPadding+dialogTitleSize*1.4, panelTextColor)

	textX := inputX + 8
	textY := inputY + (input.Height-dialogFontSize*1.3)/2
	if input.Text == "" {
		drawText(screen, input.Placeholder, m.bodyFace, textX, textY, placeholderColor)
	} else {
		shown := visibleTail(input.Text, input.Width-16, utils.FaceMeasure(m.bodyFace))
		drawText(screen, shown, m.bodyFace, textX, textY, inputTextColor)
	}

	if input.IsFocused && input.CursorVisible {
		runes := []rune(input.Text)
		pos := input.CursorPosition
		if pos > len(runes) {
			pos = len(runes)
		}
		before := visibleTail(string(runes[:pos]), input.Width-16, utils.FaceMeasure(m.bodyFace))
		cx := float32(textX + utils.FaceMeasure(m.bodyFace)(before))
		vector.StrokeLine(screen, cx, float32(textY), cx, float32(textY+dialogFontSize*1.3), 1, inputTextColor, true)
	}

	for _, b := range dialog.Buttons {
		br := m.buttonRect(b)
		w := utils.FaceMeasure(m.bodyFace)(b.Label)
		drawText(screen, b.Label, m.bodyFace, br.X+(br.W-w)/2, br.Y+(br.H-dialogFontSize*1.3)/2, panelTextColor)
	}
}

// visibleTail 文字超出输入框宽度时只显示末尾部分
func visibleTail(s string, maxWidth float64, measure utils.MeasureFunc) string {
	runes := []rune(s)
	start := 0
	for start < len(runes) && measure(string(runes[start:])) > maxWidth {
		start++
	}
	return string(runes[start:])
}

func drawText(screen *ebiten.Image, s string, face text.Face, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}

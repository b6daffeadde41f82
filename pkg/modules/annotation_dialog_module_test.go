package modules

import (
	"testing"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/ecs"
	"github.com/gonewx/xmastree/pkg/systems"
)

// confirmRecorder 记录 onConfirm / onCancel 的调用
type confirmRecorder struct {
	accept   bool
	pending  *mgl64.Vec3
	text     string
	confirms int
	cancels  int
}

func (r *confirmRecorder) confirm(pending *mgl64.Vec3, text string) bool {
	r.confirms++
	r.pending = pending
	r.text = text
	return r.accept
}

func (r *confirmRecorder) cancel() {
	r.cancels++
}

func newTestDialog(t *testing.T, accept bool) (*AnnotationDialogModule, *confirmRecorder) {
	t.Helper()
	t.Setenv("XMASTREE_MOBILE_EMULATE", "")
	rec := &confirmRecorder{accept: accept}
	m := NewAnnotationDialogModule(ecs.NewEntityManager(), 800, 600, rec.confirm, rec.cancel)
	return m, rec
}

// TestAnnotationDialog_ShowHide 打开时记录命中位置并清空输入框
func TestAnnotationDialog_ShowHide(t *testing.T) {
	m, _ := newTestDialog(t, true)
	if m.IsActive() {
		t.Fatal("dialog should start hidden")
	}

	m.Show(systems.PickEvent{Position: mgl64.Vec3{1, 2, 3}, ScreenX: 10, ScreenY: 20})
	if !m.IsActive() {
		t.Fatal("dialog should be active after Show")
	}
	if !m.Contains(0, 0) || !m.Contains(799, 599) {
		t.Error("open dialog should own every pointer position")
	}

	dialog := m.dialog()
	if !dialog.HasPending || dialog.Pending != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("pending = %v (%v)", dialog.Pending, dialog.HasPending)
	}
	if m.Text() != "" {
		t.Errorf("Text() = %q, want empty", m.Text())
	}

	m.Hide()
	if m.IsActive() || m.Contains(0, 0) {
		t.Error("dialog should be hidden")
	}
	if m.dialog().HasPending {
		t.Error("Hide should drop the pending position")
	}
}

// TestAnnotationDialog_Typing 键盘编辑
func TestAnnotationDialog_Typing(t *testing.T) {
	tests := []struct {
		name string
		keys []dialogKeys
		want string
	}{
		{"输入字符", []dialogKeys{{Chars: []rune("Joy")}}, "Joy"},
		{"退格", []dialogKeys{{Chars: []rune("Joy")}, {Backspace: true}}, "Jo"},
		{"左移后插入", []dialogKeys{{Chars: []rune("Jy")}, {Left: true}, {Chars: []rune("o")}}, "Joy"},
		{"Home 后删除", []dialogKeys{{Chars: []rune("xJoy")}, {Home: true}, {Delete: true}}, "Joy"},
		{"End 后追加", []dialogKeys{{Chars: []rune("Jo")}, {Home: true}, {End: true}, {Chars: []rune("y")}}, "Joy"},
		{"中文", []dialogKeys{{Chars: []rune("平安")}, {Right: true}}, "平安"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestDialog(t, true)
			m.Show(systems.PickEvent{})
			for _, k := range tt.keys {
				m.applyKeys(k)
			}
			if got := m.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestAnnotationDialog_EnterConfirms 回车提交文字和命中位置
func TestAnnotationDialog_EnterConfirms(t *testing.T) {
	m, rec := newTestDialog(t, true)
	m.Show(systems.PickEvent{Position: mgl64.Vec3{0, 4, 2}})
	m.applyKeys(dialogKeys{Chars: []rune("  Peace  ")})
	m.applyKeys(dialogKeys{Enter: true})

	if rec.confirms != 1 {
		t.Fatalf("confirms = %d, want 1", rec.confirms)
	}
	if rec.text != "Peace" {
		t.Errorf("text = %q, want trimmed %q", rec.text, "Peace")
	}
	if rec.pending == nil || *rec.pending != (mgl64.Vec3{0, 4, 2}) {
		t.Errorf("pending = %v", rec.pending)
	}
	if m.IsActive() {
		t.Error("accepted wish should close the dialog")
	}
}

// TestAnnotationDialog_BlankNotSubmitted 空白文字不提交，对话框保持打开
func TestAnnotationDialog_BlankNotSubmitted(t *testing.T) {
	m, rec := newTestDialog(t, true)
	m.Show(systems.PickEvent{})
	m.applyKeys(dialogKeys{Chars: []rune("   ")})
	if m.Confirm() {
		t.Error("Confirm with blank text should fail")
	}
	if rec.confirms != 0 {
		t.Errorf("onConfirm called %d times", rec.confirms)
	}
	if !m.IsActive() {
		t.Error("dialog should stay open")
	}
}

// TestAnnotationDialog_RejectedKeepsOpen onConfirm 拒绝时对话框保持打开
func TestAnnotationDialog_RejectedKeepsOpen(t *testing.T) {
	m, rec := newTestDialog(t, false)
	m.Show(systems.PickEvent{})
	m.applyKeys(dialogKeys{Chars: []rune("Joy")})
	if m.Confirm() {
		t.Error("rejected wish should not report success")
	}
	if rec.confirms != 1 || !m.IsActive() {
		t.Errorf("confirms = %d, active = %v", rec.confirms, m.IsActive())
	}
}

// TestAnnotationDialog_Escape Esc 取消
func TestAnnotationDialog_Escape(t *testing.T) {
	m, rec := newTestDialog(t, true)
	m.Show(systems.PickEvent{})
	m.applyKeys(dialogKeys{Chars: []rune("Joy"), Escape: true})
	if m.IsActive() {
		t.Error("Esc should close the dialog")
	}
	if rec.cancels != 1 || rec.confirms != 0 {
		t.Errorf("cancels = %d, confirms = %d", rec.cancels, rec.confirms)
	}

	// 已关闭时再次取消不触发回调
	m.Cancel()
	if rec.cancels != 1 {
		t.Errorf("cancels = %d after second Cancel", rec.cancels)
	}
}

// TestAnnotationDialog_HandleClick 按钮点击
func TestAnnotationDialog_HandleClick(t *testing.T) {
	m, rec := newTestDialog(t, true)
	if m.HandleClick(400, 300) {
		t.Error("hidden dialog should not consume clicks")
	}

	m.Show(systems.PickEvent{})
	m.applyKeys(dialogKeys{Chars: []rune("Joy")})

	var ok, cancel components.DialogButton
	for _, b := range m.dialog().Buttons {
		switch b.Role {
		case components.DialogButtonConfirm:
			ok = b
		case components.DialogButtonCancel:
			cancel = b
		}
	}

	// 对话框外的点击被吞掉，但不改变状态
	if !m.HandleClick(1, 1) || !m.IsActive() {
		t.Error("click outside should be consumed without closing")
	}

	r := m.buttonRect(ok)
	if !m.HandleClick(r.X+r.W/2, r.Y+r.H/2) {
		t.Error("OK click should be consumed")
	}
	if rec.confirms != 1 || m.IsActive() {
		t.Errorf("confirms = %d, active = %v", rec.confirms, m.IsActive())
	}

	m.Show(systems.PickEvent{})
	r = m.buttonRect(cancel)
	m.HandleClick(r.X+1, r.Y+1)
	if rec.cancels != 1 || m.IsActive() {
		t.Errorf("cancels = %d, active = %v", rec.cancels, m.IsActive())
	}
}

// TestAnnotationDialog_MaxLength 超出上限的字符被丢弃
func TestAnnotationDialog_MaxLength(t *testing.T) {
	m, _ := newTestDialog(t, true)
	m.Show(systems.PickEvent{})
	long := make([]rune, 200)
	for i := range long {
		long[i] = 'a'
	}
	m.applyKeys(dialogKeys{Chars: long})
	if n := utf8.RuneCountInString(m.Text()); n != m.input().MaxLength {
		t.Errorf("text length = %d, want %d", n, m.input().MaxLength)
	}
}

// TestAnnotationDialog_MobileDefault 移动端预填祝福
func TestAnnotationDialog_MobileDefault(t *testing.T) {
	m, _ := newTestDialog(t, true)
	t.Setenv("XMASTREE_MOBILE_EMULATE", "1")
	m.Show(systems.PickEvent{})
	if m.Text() != mobileDefaultWish {
		t.Errorf("Text() = %q, want %q", m.Text(), mobileDefaultWish)
	}
}

// TestCursorBlink 光标每 0.5 秒切换一次
func TestCursorBlink(t *testing.T) {
	input := &components.TextInputComponent{CursorVisible: true}
	updateCursorBlink(input, 0.3)
	if !input.CursorVisible {
		t.Error("cursor should still be visible at 0.3s")
	}
	updateCursorBlink(input, 0.3)
	if input.CursorVisible {
		t.Error("cursor should be hidden after 0.6s")
	}
}

// TestVisibleTail 超长文字只显示末尾
func TestVisibleTail(t *testing.T) {
	measure := func(s string) float64 { return float64(utf8.RuneCountInString(s)) * 10 }
	if got := visibleTail("hello", 100, measure); got != "hello" {
		t.Errorf("visibleTail(short) = %q", got)
	}
	if got := visibleTail("hello world", 50, measure); got != "world" {
		t.Errorf("visibleTail(long) = %q, want %q", got, "world")
	}
}

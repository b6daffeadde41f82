package components

// TextInputComponent 文本输入框组件
// 用于留言对话框中输入卡片文字
type TextInputComponent struct {
	// 输入框文本
	Text string // 当前输入的文本

	Width  float64 // 输入框宽度（像素）
	Height float64 // 输入框高度（像素）

	// 光标状态
	CursorVisible    bool    // 光标是否可见（闪烁效果）
	CursorBlinkTimer float64 // 光标闪烁计时器（秒）
	CursorPosition   int     // 光标位置（字符索引，按 rune 计）

	// 输入限制
	MaxLength   int    // 最大字符数（0 = 无限制）
	Placeholder string // 占位符文本（输入框为空时显示）

	// 焦点状态
	IsFocused bool // 是否获得焦点（接收键盘输入）
}

// InsertRunes 在光标处插入字符，超出 MaxLength 的部分被丢弃
func (t *TextInputComponent) InsertRunes(chars []rune) {
	text := []rune(t.Text)
	if t.CursorPosition < 0 || t.CursorPosition > len(text) {
		t.CursorPosition = len(text)
	}
	for _, ch := range chars {
		if t.MaxLength > 0 && len(text) >= t.MaxLength {
			break
		}
		if ch < 0x20 || ch == 0x7f {
			continue
		}
		text = append(text[:t.CursorPosition], append([]rune{ch}, text[t.CursorPosition:]...)...)
		t.CursorPosition++
	}
	t.Text = string(text)
}

// Backspace 删除光标前一个字符
func (t *TextInputComponent) Backspace() {
	text := []rune(t.Text)
	if t.CursorPosition > len(text) {
		t.CursorPosition = len(text)
	}
	if t.CursorPosition <= 0 {
		return
	}
	text = append(text[:t.CursorPosition-1], text[t.CursorPosition:]...)
	t.CursorPosition--
	t.Text = string(text)
}

// Delete 删除光标后一个字符
func (t *TextInputComponent) Delete() {
	text := []rune(t.Text)
	if t.CursorPosition < 0 || t.CursorPosition >= len(text) {
		return
	}
	text = append(text[:t.CursorPosition], text[t.CursorPosition+1:]...)
	t.Text = string(text)
}

// MoveCursor 移动光标，越界时停在两端
func (t *TextInputComponent) MoveCursor(delta int) {
	n := len([]rune(t.Text))
	t.CursorPosition += delta
	if t.CursorPosition < 0 {
		t.CursorPosition = 0
	}
	if t.CursorPosition > n {
		t.CursorPosition = n
	}
}

// Reset 清空文本并把光标移到开头
func (t *TextInputComponent) Reset() {
	t.Text = ""
	t.CursorPosition = 0
	t.CursorBlinkTimer = 0
	t.CursorVisible = true
}

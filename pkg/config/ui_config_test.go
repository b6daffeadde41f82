package config

import (
	"testing"
)

// TestCenteredRect 对话框居中计算
func TestCenteredRect(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		w, h          float64
		expected      Rect
	}{
		{
			name:  "800x600 居中",
			width: 800, height: 600,
			w: DialogWidth, h: DialogHeight,
			expected: Rect{X: 220, Y: 215, W: DialogWidth, H: DialogHeight},
		},
		{
			name:  "屏幕比矩形窄",
			width: 200, height: 600,
			w: DialogWidth, h: DialogHeight,
			expected: Rect{X: 0, Y: 215, W: DialogWidth, H: DialogHeight},
		},
		{
			name:  "零尺寸屏幕",
			width: 0, height: 0,
			w: 100, h: 50,
			expected: Rect{X: 0, Y: 0, W: 100, H: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CenteredRect(tt.width, tt.height, tt.w, tt.h)
			if got != tt.expected {
				t.Errorf("CenteredRect() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

// TestRectContains 边界包含规则
func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}
	tests := []struct {
		name     string
		x, y     float64
		expected bool
	}{
		{"内部", 50, 40, true},
		{"左上角", 10, 20, true},
		{"右边界", 110, 40, false},
		{"下边界", 50, 70, false},
		{"外部", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expected {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.expected)
			}
		})
	}
}

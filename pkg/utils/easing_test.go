package utils

import (
	"math"
	"testing"
)

// TestEaseOutCubic 测试三次方缓出函数
func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"终点", 1.0, 1.0},
		{"中点", 0.5, 0.875}, // 1 - (1-0.5)^3
		{"小于 0 截断", -1, 0.0},
		{"大于 1 截断", 2, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EaseOutCubic(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("EaseOutCubic(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}
}

// TestEaseOutBack 测试回弹缓出：端点固定，中途超过 1
func TestEaseOutBack(t *testing.T) {
	if v := EaseOutBack(0); math.Abs(v) > 1e-9 {
		t.Errorf("EaseOutBack(0) = %v, 期望 0", v)
	}
	if v := EaseOutBack(1); math.Abs(v-1) > 1e-9 {
		t.Errorf("EaseOutBack(1) = %v, 期望 1", v)
	}
	overshoot := false
	for i := 1; i < 100; i++ {
		if EaseOutBack(float64(i)/100) > 1 {
			overshoot = true
			break
		}
	}
	if !overshoot {
		t.Error("EaseOutBack should overshoot 1")
	}
}

// TestProgress 测试按帧计算的动画进度
func TestProgress(t *testing.T) {
	tests := []struct {
		name     string
		now      uint64
		start    uint64
		duration int
		expected float64
	}{
		{"刚开始", 10, 10, 20, 0},
		{"一半", 20, 10, 20, 0.5},
		{"结束后", 100, 10, 20, 1},
		{"尚未开始", 5, 10, 20, 0},
		{"时长为 0", 5, 10, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.now, tt.start, tt.duration); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Progress(%d, %d, %d) = %v, 期望 %v", tt.now, tt.start, tt.duration, got, tt.expected)
			}
		})
	}
}

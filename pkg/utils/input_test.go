package utils

import (
	"testing"
)

func TestDragManagerInitialState(t *testing.T) {
	dm := NewDragManager()

	if dm.GetState() != DragStateNone {
		t.Errorf("Expected initial state to be DragStateNone, got %v", dm.GetState())
	}
	if dm.IsDragging() || dm.IsPressed() || dm.JustEnded() {
		t.Error("Expected no pointer activity initially")
	}
	if clicked, _, _ := dm.Clicked(); clicked {
		t.Error("Expected no click initially")
	}
	if dm.GetInfo().TouchID != -1 {
		t.Errorf("Expected TouchID -1, got %d", dm.GetInfo().TouchID)
	}
}

// TestDragManagerClick 死区内松开算点击
func TestDragManagerClick(t *testing.T) {
	dm := NewDragManager()

	dm.Feed(true, 100, 200)
	if !dm.IsPressed() {
		t.Fatal("Expected pressed state")
	}
	dm.Feed(true, 102, 201) // 死区内抖动
	if dm.IsDragging() {
		t.Error("small movement should not start a drag")
	}
	if dx, dy := dm.Delta(); dx != 0 || dy != 0 {
		t.Errorf("Delta = (%d, %d) before dragging", dx, dy)
	}

	dm.Feed(false, 102, 201)
	clicked, x, y := dm.Clicked()
	if !clicked || x != 100 || y != 200 {
		t.Errorf("Clicked = (%v, %d, %d), want (true, 100, 200)", clicked, x, y)
	}

	// 结束状态只持续一帧
	dm.Feed(false, 0, 0)
	if dm.GetState() != DragStateNone {
		t.Errorf("state = %v, want DragStateNone", dm.GetState())
	}
	if clicked, _, _ := dm.Clicked(); clicked {
		t.Error("click should only be reported once")
	}
}

// TestDragManagerDrag 移出死区后按帧报告位移，松开不算点击
func TestDragManagerDrag(t *testing.T) {
	dm := NewDragManager()

	dm.Feed(true, 100, 100)
	dm.Feed(true, 110, 100)
	if !dm.IsDragging() {
		t.Fatal("movement past the dead zone should start a drag")
	}
	if dx, dy := dm.Delta(); dx != 10 || dy != 0 {
		t.Errorf("Delta = (%d, %d), want (10, 0)", dx, dy)
	}

	dm.Feed(true, 115, 90)
	if dx, dy := dm.Delta(); dx != 5 || dy != -10 {
		t.Errorf("Delta = (%d, %d), want (5, -10)", dx, dy)
	}
	if dx, dy := dm.GetDragDistance(); dx != 15 || dy != -10 {
		t.Errorf("GetDragDistance = (%d, %d), want (15, -10)", dx, dy)
	}

	// 回到起点附近仍然是拖拽
	dm.Feed(true, 100, 100)
	if !dm.IsDragging() {
		t.Error("a drag should not revert to a press")
	}

	dm.Feed(false, 100, 100)
	if !dm.JustEnded() {
		t.Error("Expected JustEnded after release")
	}
	if clicked, _, _ := dm.Clicked(); clicked {
		t.Error("a drag should not produce a click")
	}
	if dx, dy := dm.Delta(); dx != 0 || dy != 0 {
		t.Errorf("Delta after release = (%d, %d)", dx, dy)
	}
}

// TestDragManagerPressAfterRelease 松开后的下一帧可以立即再次按下
func TestDragManagerPressAfterRelease(t *testing.T) {
	dm := NewDragManager()
	dm.Feed(true, 10, 10)
	dm.Feed(false, 10, 10)
	dm.Feed(true, 50, 60)

	info := dm.GetInfo()
	if info.State != DragStatePressed || info.StartX != 50 || info.StartY != 60 {
		t.Errorf("info = %+v, want a new press at (50, 60)", info)
	}
}

// TestDragManagerDeadZone 自定义死区
func TestDragManagerDeadZone(t *testing.T) {
	tests := []struct {
		name     string
		deadZone float64
		move     int
		dragging bool
	}{
		{"死区为 0 时任何移动都是拖拽", 0, 1, true},
		{"负数按 0 处理", -5, 1, true},
		{"刚好在死区边界上", 10, 10, false},
		{"超出死区", 10, 11, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dm := NewDragManager()
			dm.SetDeadZone(tt.deadZone)
			dm.Feed(true, 0, 0)
			dm.Feed(true, tt.move, 0)
			if dm.IsDragging() != tt.dragging {
				t.Errorf("IsDragging = %v, want %v", dm.IsDragging(), tt.dragging)
			}
		})
	}
}

func TestDragManagerReset(t *testing.T) {
	dm := NewDragManager()
	dm.Feed(true, 100, 200)
	dm.Feed(true, 150, 250)

	dm.Reset()

	if dm.GetState() != DragStateNone {
		t.Errorf("Expected state to be DragStateNone after reset, got %v", dm.GetState())
	}
	info := dm.GetInfo()
	if info.StartX != 0 || info.StartY != 0 || info.CurrentX != 0 || info.CurrentY != 0 {
		t.Errorf("Expected zero positions after reset, got %+v", info)
	}
	if info.TouchID != -1 {
		t.Errorf("Expected TouchID to be -1 after reset, got %d", info.TouchID)
	}
}

package game

import "testing"

// TestFrameLoop_Run 每帧调用一次 step
func TestFrameLoop_Run(t *testing.T) {
	calls := 0
	loop := NewFrameLoop(func() { calls++ })

	loop.Step()
	loop.Run(9)

	if calls != 10 {
		t.Errorf("step called %d times, want 10", calls)
	}
	if loop.Frames() != 10 {
		t.Errorf("Frames() = %d, want 10", loop.Frames())
	}
}

// TestFrameLoop_NilStep step 为 nil 时只计数
func TestFrameLoop_NilStep(t *testing.T) {
	loop := NewFrameLoop(nil)
	loop.Run(3)
	loop.Run(0)
	loop.Run(-1)
	if loop.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", loop.Frames())
	}
}

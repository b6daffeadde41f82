package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// TestAnnotationSystem_Flow 点击 → 确认 的完整流程
func TestAnnotationSystem_Flow(t *testing.T) {
	s := newTestScene(t, 10, 100)

	var events []PickEvent
	s.annotation.SetOnPick(func(e PickEvent) { events = append(events, e) })

	if !s.annotation.HandlePointer(testWidth/2, testHeight/2, testWidth, testHeight) {
		t.Fatal("click at screen center should hit the tree")
	}
	if len(events) != 1 {
		t.Fatalf("OnPick called %d times, want 1", len(events))
	}
	pending, ok := s.annotation.Pending()
	if !ok {
		t.Fatal("pending position should be set")
	}
	if pending != events[0].Position {
		t.Errorf("event position %v != pending %v", events[0].Position, pending)
	}
	if events[0].ScreenX != testWidth/2 || events[0].ScreenY != testHeight/2 {
		t.Errorf("event screen position = (%v, %v)", events[0].ScreenX, events[0].ScreenY)
	}

	// 空文字：不添加，待确认位置保留
	if _, ok := s.annotation.Confirm("  "); ok {
		t.Error("empty text should not add an annotation")
	}
	if s.composer.AnnotationCount() != 0 {
		t.Errorf("AnnotationCount = %d, want 0", s.composer.AnnotationCount())
	}
	if _, ok := s.annotation.Pending(); !ok {
		t.Error("pending position should survive an empty confirm")
	}

	// 有效文字：添加一张卡片，待确认位置清空
	if _, ok := s.annotation.Confirm("Merry Christmas"); !ok {
		t.Fatal("Confirm should add an annotation")
	}
	if s.composer.AnnotationCount() != 1 {
		t.Errorf("AnnotationCount = %d, want 1", s.composer.AnnotationCount())
	}
	if _, ok := s.annotation.Pending(); ok {
		t.Error("pending position should be cleared after confirm")
	}

	// 再次确认没有待确认位置，不添加
	if _, ok := s.annotation.Confirm("again"); ok {
		t.Error("Confirm without a pending position should be a no-op")
	}
	if s.composer.AnnotationCount() != 1 {
		t.Errorf("AnnotationCount = %d, want 1", s.composer.AnnotationCount())
	}
}

// TestAnnotationSystem_PendingIsTreeLocal 树在对话框打开期间旋转，卡片仍落在点击处
func TestAnnotationSystem_PendingIsTreeLocal(t *testing.T) {
	s := newTestScene(t, 0, 0)
	s.composer.Rotate(0.7)

	if !s.annotation.HandlePointer(testWidth/2, testHeight/2, testWidth, testHeight) {
		t.Fatal("click should hit the tree")
	}
	pending, _ := s.annotation.Pending()
	world, _ := s.picking.Pick(0, 0)
	if local := s.composer.ToTreeLocal(world); !vecNear(local, pending, 1e-9) {
		t.Errorf("pending %v, want tree-local %v", pending, local)
	}

	for i := 0; i < 50; i++ {
		s.animation.Update()
	}
	id, ok := s.annotation.Confirm("still here")
	if !ok {
		t.Fatal("Confirm failed")
	}
	// 卡片的世界位置 = 当前树变换 × 锚点
	anchorWorld := transformPoint(s.composer.WorldMatrix(id), mgl64.Vec3{})
	want := transformPoint(s.composer.WorldMatrix(s.composer.TreeGroup()), pending.Add(pending.Normalize().Mul(0.5)))
	if !vecNear(anchorWorld, want, 1e-9) {
		t.Errorf("annotation world position %v, want %v", anchorWorld, want)
	}
}

// TestAnnotationSystem_IgnoreRegion 忽略区域内的点击不触发拾取
func TestAnnotationSystem_IgnoreRegion(t *testing.T) {
	s := newTestScene(t, 0, 0)

	picked := false
	s.annotation.SetOnPick(func(PickEvent) { picked = true })
	s.annotation.SetIgnoreRegion(func(x, y float64) bool {
		return x > 300 && x < 500 && y > 200 && y < 400
	})

	if s.annotation.HandlePointer(testWidth/2, testHeight/2, testWidth, testHeight) {
		t.Error("click inside the ignore region should be ignored")
	}
	if picked {
		t.Error("OnPick should not fire for ignored clicks")
	}
	if _, ok := s.annotation.Pending(); ok {
		t.Error("ignored click should not set a pending position")
	}
}

// TestAnnotationSystem_Miss 点到天空什么都不发生
func TestAnnotationSystem_Miss(t *testing.T) {
	s := newTestScene(t, 0, 0)
	if s.annotation.HandlePointer(5, 5, testWidth, testHeight) {
		t.Error("click on the sky should miss")
	}
	if _, ok := s.annotation.Pending(); ok {
		t.Error("miss should not set a pending position")
	}
	if s.annotation.HandlePointer(10, 10, 0, 0) {
		t.Error("zero-sized viewport should be ignored")
	}
}

// TestAnnotationSystem_ClickIsReadOnly 点击不会修改雪花和旋转
func TestAnnotationSystem_ClickIsReadOnly(t *testing.T) {
	s := newTestScene(t, 10, 300)
	s.animation.Update()

	state := *s.composer.State()
	snapshot := append([]float32(nil), s.field.Buffer()...)

	s.annotation.HandlePointer(testWidth/2, testHeight/2, testWidth, testHeight)
	s.annotation.HandlePointer(5, 5, testWidth, testHeight)

	if *s.composer.State() != state {
		t.Error("clicks should not change the scene state")
	}
	buf := s.field.Buffer()
	for i := range snapshot {
		if buf[i] != snapshot[i] {
			t.Fatalf("particle buffer changed at %d", i)
		}
	}
}

// TestAnnotationSystem_ConfirmAnnotationExplicit 显式传入待确认位置
func TestAnnotationSystem_ConfirmAnnotationExplicit(t *testing.T) {
	s := newTestScene(t, 0, 0)

	if _, ok := s.annotation.ConfirmAnnotation(nil, "text"); ok {
		t.Error("nil pending should be a no-op")
	}
	p := mgl64.Vec3{2, 3, 1}
	if _, ok := s.annotation.ConfirmAnnotation(&p, ""); ok {
		t.Error("empty text should be a no-op")
	}
	if _, ok := s.annotation.ConfirmAnnotation(&p, "hello"); !ok {
		t.Error("valid pending and text should add an annotation")
	}
	if s.composer.AnnotationCount() != 1 {
		t.Errorf("AnnotationCount = %d, want 1", s.composer.AnnotationCount())
	}

	// Cancel 丢弃待确认位置
	s.annotation.HandlePointer(testWidth/2, testHeight/2, testWidth, testHeight)
	s.annotation.Cancel()
	if _, ok := s.annotation.Pending(); ok {
		t.Error("Cancel should drop the pending position")
	}
}

// TestAnnotationSystem_ConfirmAnnotationClearsPending 对话框传入自己保存的位置，提交后拾取结果同样被清除
func TestAnnotationSystem_ConfirmAnnotationClearsPending(t *testing.T) {
	s := newTestScene(t, 0, 0)
	if !s.annotation.HandlePointer(testWidth/2, testHeight/2, testWidth, testHeight) {
		t.Fatal("clicking the tree center should hit")
	}
	pending, ok := s.annotation.Pending()
	if !ok {
		t.Fatal("hit should store a pending position")
	}

	// 空文字不提交，待确认位置保留
	if _, ok := s.annotation.ConfirmAnnotation(&pending, "  "); ok {
		t.Fatal("blank text should be a no-op")
	}
	if _, ok := s.annotation.Pending(); !ok {
		t.Error("blank text should keep the pending position")
	}

	if _, ok := s.annotation.ConfirmAnnotation(&pending, "Joy"); !ok {
		t.Fatal("ConfirmAnnotation failed")
	}
	if _, ok := s.annotation.Pending(); ok {
		t.Error("pending position should be cleared after a successful confirm")
	}
	// 再次 Confirm 不会重复使用旧位置
	if _, ok := s.annotation.Confirm("again"); ok {
		t.Error("Confirm after a consumed pick should be a no-op")
	}
	if got := s.composer.AnnotationCount(); got != 1 {
		t.Errorf("AnnotationCount = %d, want 1", got)
	}
}

package systems

import (
	"log"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/xmastree/pkg/ecs"
)

// PickEvent 点击命中树时发出的事件
type PickEvent struct {
	// Position 命中点（树局部坐标）
	Position mgl64.Vec3
	// ScreenX/ScreenY 点击位置（像素）
	ScreenX float64
	ScreenY float64
}

// AnnotationSystem 点击留言的交互流程
//
// 流程：HandlePointer 命中树 → 记录待确认位置并触发 OnPick（UI 弹出输入框）
// → Confirm 提交文字 / Cancel 放弃。
// 待确认位置使用树局部坐标，树在对话框打开期间继续旋转也不会让卡片错位。
type AnnotationSystem struct {
	composer *ComposerSystem
	picker   *PickingSystem

	ignoreRegion func(x, y float64) bool
	onPick       func(PickEvent)

	pending *mgl64.Vec3
}

// NewAnnotationSystem 创建留言交互系统
func NewAnnotationSystem(composer *ComposerSystem, picker *PickingSystem) *AnnotationSystem {
	return &AnnotationSystem{
		composer: composer,
		picker:   picker,
	}
}

// SetIgnoreRegion 设置忽略区域判断函数
//
// 函数返回 true 的点击（例如落在对话框或帮助面板上）不会触发拾取。
func (s *AnnotationSystem) SetIgnoreRegion(fn func(x, y float64) bool) {
	s.ignoreRegion = fn
}

// SetOnPick 设置命中回调
func (s *AnnotationSystem) SetOnPick(fn func(PickEvent)) {
	s.onPick = fn
}

// HandlePointer 处理一次点击（像素坐标），命中树时返回 true
//
// 只读场景：不会修改粒子、旋转或已有卡片。
func (s *AnnotationSystem) HandlePointer(x, y float64, width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if s.ignoreRegion != nil && s.ignoreRegion(x, y) {
		return false
	}

	ndcX, ndcY := ScreenToNDC(x, y, width, height)
	world, ok := s.picker.Pick(ndcX, ndcY)
	if !ok {
		return false
	}

	local := s.composer.ToTreeLocal(world)
	s.pending = &local
	log.Printf("[Annotation] Tree hit at (%.2f, %.2f, %.2f)", local.X(), local.Y(), local.Z())

	if s.onPick != nil {
		s.onPick(PickEvent{Position: local, ScreenX: x, ScreenY: y})
	}
	return true
}

// Pending 返回待确认的位置
func (s *AnnotationSystem) Pending() (mgl64.Vec3, bool) {
	if s.pending == nil {
		return mgl64.Vec3{}, false
	}
	return *s.pending, true
}

// Confirm 用当前待确认位置提交留言
//
// 文字为空（去掉空白后）时不做任何事，待确认位置保留，输入框可以继续编辑。
func (s *AnnotationSystem) Confirm(text string) (ecs.EntityID, bool) {
	return s.ConfirmAnnotation(s.pending, text)
}

// ConfirmAnnotation 在 pending（树局部坐标）处添加留言
//
// pending 为 nil 或文字为空时是空操作。添加成功后本次拾取已用掉，待确认位置被清除。
func (s *AnnotationSystem) ConfirmAnnotation(pending *mgl64.Vec3, text string) (ecs.EntityID, bool) {
	if pending == nil || strings.TrimSpace(text) == "" {
		return ecs.InvalidEntity, false
	}
	id, ok := s.composer.AddAnnotation(*pending, text)
	if ok {
		s.pending = nil
	}
	return id, ok
}

// Cancel 放弃待确认的位置
func (s *AnnotationSystem) Cancel() {
	s.pending = nil
}

// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// DefaultDragDeadZone 按下后移动超过该距离（像素）才算拖拽，否则松开时算一次点击
const DefaultDragDeadZone = 4.0

// DragState 拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStatePressed 已按下，尚未移出死区
	DragStatePressed
	// DragStateDragging 拖拽中（已移出死区）
	DragStateDragging
	// DragStateEnded 本帧松开
	DragStateEnded
)

// DragInfo 拖拽信息
type DragInfo struct {
	State DragState
	// StartX, StartY 按下位置（屏幕坐标）
	StartX, StartY int
	// CurrentX, CurrentY 当前位置
	CurrentX, CurrentY int
	// LastX, LastY 上一帧位置
	LastX, LastY int
	// Moved 是否移出过死区
	Moved bool
	// TouchID 当前跟踪的触摸ID（-1 表示鼠标）
	TouchID      ebiten.TouchID
	IsTouchInput bool
}

// DragManager 跟踪鼠标/触摸的按下、拖拽和点击
//
// 拖拽用于旋转相机，没有移出死区的按下-松开算作点击（拾取树表面）。
type DragManager struct {
	info     DragInfo
	deadZone float64
	touchBuf []ebiten.TouchID
}

// NewDragManager 创建拖拽管理器
func NewDragManager() *DragManager {
	dm := &DragManager{deadZone: DefaultDragDeadZone}
	dm.Reset()
	return dm
}

// SetDeadZone 设置拖拽死区（像素），负数按 0 处理
func (dm *DragManager) SetDeadZone(pixels float64) {
	if pixels < 0 {
		pixels = 0
	}
	dm.deadZone = pixels
}

// Update 读取本帧的 ebiten 输入（每帧调用一次）
//
// 触摸优先：正在跟踪的触摸点消失即视为松开。
func (dm *DragManager) Update() {
	if dm.info.IsTouchInput && (dm.info.State == DragStatePressed || dm.info.State == DragStateDragging) {
		dm.touchBuf = ebiten.AppendTouchIDs(dm.touchBuf[:0])
		for _, id := range dm.touchBuf {
			if id == dm.info.TouchID {
				x, y := ebiten.TouchPosition(id)
				dm.Feed(true, x, y)
				return
			}
		}
		dm.Feed(false, dm.info.CurrentX, dm.info.CurrentY)
		return
	}

	if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		dm.Feed(true, x, y)
		dm.info.TouchID = ids[0]
		dm.info.IsTouchInput = true
		return
	}

	x, y := ebiten.CursorPosition()
	dm.Feed(ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), x, y)
}

// Feed 推进一帧的状态机，pressed 为本帧指针是否按下
func (dm *DragManager) Feed(pressed bool, x, y int) {
	if dm.info.State == DragStateEnded {
		// 结束状态只持续一帧
		dm.Reset()
	}

	switch dm.info.State {
	case DragStateNone:
		if pressed {
			dm.info = DragInfo{
				State:    DragStatePressed,
				StartX:   x,
				StartY:   y,
				CurrentX: x,
				CurrentY: y,
				LastX:    x,
				LastY:    y,
				TouchID:  -1,
			}
		}

	case DragStatePressed, DragStateDragging:
		dm.info.LastX, dm.info.LastY = dm.info.CurrentX, dm.info.CurrentY
		if !pressed {
			dm.info.State = DragStateEnded
			return
		}
		dm.info.CurrentX, dm.info.CurrentY = x, y
		if !dm.info.Moved {
			dx := float64(x - dm.info.StartX)
			dy := float64(y - dm.info.StartY)
			if dx*dx+dy*dy > dm.deadZone*dm.deadZone {
				dm.info.Moved = true
				dm.info.State = DragStateDragging
			}
		}
	}
}

// Reset 重置拖拽状态
func (dm *DragManager) Reset() {
	dm.info = DragInfo{
		State:   DragStateNone,
		TouchID: -1,
	}
}

// GetState 获取当前拖拽状态
func (dm *DragManager) GetState() DragState {
	return dm.info.State
}

// GetInfo 获取完整拖拽信息
func (dm *DragManager) GetInfo() DragInfo {
	return dm.info
}

// IsDragging 是否正在拖拽
func (dm *DragManager) IsDragging() bool {
	return dm.info.State == DragStateDragging
}

// IsPressed 指针是否处于按下状态（包括拖拽中）
func (dm *DragManager) IsPressed() bool {
	return dm.info.State == DragStatePressed || dm.info.State == DragStateDragging
}

// JustEnded 是否本帧松开
func (dm *DragManager) JustEnded() bool {
	return dm.info.State == DragStateEnded
}

// Delta 本帧的拖拽位移，未拖拽时为 0
func (dm *DragManager) Delta() (dx, dy int) {
	if dm.info.State != DragStateDragging {
		return 0, 0
	}
	return dm.info.CurrentX - dm.info.LastX, dm.info.CurrentY - dm.info.LastY
}

// GetDragDistance 从按下位置到当前位置的距离
func (dm *DragManager) GetDragDistance() (dx, dy int) {
	return dm.info.CurrentX - dm.info.StartX, dm.info.CurrentY - dm.info.StartY
}

// Clicked 本帧是否完成一次点击（松开且没有移出死区），返回按下位置
func (dm *DragManager) Clicked() (bool, int, int) {
	if dm.info.State != DragStateEnded || dm.info.Moved {
		return false, 0, 0
	}
	return true, dm.info.StartX, dm.info.StartY
}

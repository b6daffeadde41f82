package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 查看器场景，Update 以秒为单位接收帧间隔
type Scene interface {
	Update(deltaTime float64)
	Draw(screen *ebiten.Image)
}

// Resizable 可选接口，场景实现后会收到布局尺寸变化
type Resizable interface {
	Resize(width, height int)
}

// Saveable 可选接口，窗口关闭时保存状态，返回 false 表示保存失败（程序照常退出）
type Saveable interface {
	SaveOnExit() bool
}

// SceneManager manages which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	width        int
	height       int
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SwitchTo changes the active scene to the provided scene.
// A Resizable scene immediately receives the last known layout size.
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
	if r, ok := scene.(Resizable); ok && sm.width > 0 && sm.height > 0 {
		r.Resize(sm.width, sm.height)
	}
	log.Printf("[SceneManager] Switched scene: %T", scene)
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Resize 把布局尺寸转发给当前场景，尺寸不变或不为正时忽略
func (sm *SceneManager) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == sm.width && height == sm.height {
		return
	}
	sm.width, sm.height = width, height
	if r, ok := sm.currentScene.(Resizable); ok {
		r.Resize(width, height)
	}
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

// SaveOnExit 让当前场景保存状态（如果它实现了 Saveable）
func (sm *SceneManager) SaveOnExit() bool {
	if s, ok := sm.currentScene.(Saveable); ok {
		return s.SaveOnExit()
	}
	return true
}

package components

import "github.com/gonewx/xmastree/internal/particle"

// SnowFieldComponent 雪花粒子场的渲染参数
type SnowFieldComponent struct {
	Field *particle.Field
	// Size 雪花的世界尺寸
	Size    float64
	Color   Color
	Opacity float64
}

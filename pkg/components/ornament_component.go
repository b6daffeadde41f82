package components

import "math"

// OrnamentComponent 彩灯的亮度振荡状态
//
// 每帧 Phase += Speed，Intensity = max(0, BaseIntensity + Amplitude*sin(Phase))。
// 位置在创建后不再改变。
type OrnamentComponent struct {
	Index         int
	Phase         float64
	Speed         float64
	BaseIntensity float64
	Amplitude     float64
	// Intensity 当前帧的自发光强度，由 AnimationSystem 写入
	Intensity float64
}

// EmissionIntensity 计算给定相位下的自发光强度，结果不为负
func EmissionIntensity(base, amplitude, phase float64) float64 {
	return math.Max(0, base+amplitude*math.Sin(phase))
}

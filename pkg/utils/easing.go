package utils

import "math"

// 缓动函数：输入进度 t ∈ [0, 1]，超出范围时先截断。
//
// 参考：https://easings.net/

// Clamp01 把 t 限制在 [0, 1]
func Clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// EaseOutCubic 三次方缓出，开始快结束慢
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	t = Clamp01(t)
	return 1 - math.Pow(1-t, 3)
}

// EaseOutBack 回弹缓出，中途略微超过 1 再回落（卡片弹出）
// 公式：f(t) = 1 + c3·(t-1)³ + c1·(t-1)²
func EaseOutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	t = Clamp01(t)
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

// Progress 从 start 帧开始、持续 duration 帧的动画进度
func Progress(now, start uint64, duration int) float64 {
	if duration <= 0 {
		return 1
	}
	if now < start {
		return 0
	}
	return Clamp01(float64(now-start) / float64(duration))
}

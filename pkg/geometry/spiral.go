package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SpiralPlacer 沿下宽上窄的螺旋线计算彩灯位置
//
//	angle(i)  = i * AngleStep
//	height(i) = YMin + (i/Count) * HeightSpan
//	radius(i) = RMax * (1 - (height(i)-YMin)/HeightNorm)，不小于 0
//
// 半径从螺旋底部开始线性收缩，所以彩灯贴着圆锥外形盘旋上升。
// 同样的 (i, Count, 常量) 永远得到同样的位置。
type SpiralPlacer struct {
	Count      int
	AngleStep  float64
	YMin       float64
	HeightSpan float64
	RMax       float64
	HeightNorm float64
}

// DefaultSpiralPlacer 返回参考场景的螺旋常量
//
// HeightSpan < HeightNorm，因此任意 i < Count 的半径都严格为正。
func DefaultSpiralPlacer(count int, angleStep float64) SpiralPlacer {
	return SpiralPlacer{
		Count:      count,
		AngleStep:  angleStep,
		YMin:       1,
		HeightSpan: 8,
		RMax:       3.5,
		HeightNorm: 9,
	}
}

// Validate 检查螺旋参数
func (p SpiralPlacer) Validate() error {
	if p.Count < 0 {
		return fmt.Errorf("ornament count must be >= 0, got %d: %w", p.Count, ErrInvalidDimension)
	}
	if !validFinite(p.AngleStep) || !validFinite(p.YMin) {
		return fmt.Errorf("spiral angle step and base must be finite: %w", ErrInvalidDimension)
	}
	if !validFinite(p.HeightSpan) || p.HeightSpan < 0 {
		return fmt.Errorf("spiral height span must be >= 0, got %v: %w", p.HeightSpan, ErrInvalidDimension)
	}
	if !validFinite(p.RMax) || p.RMax < 0 {
		return fmt.Errorf("spiral max radius must be >= 0, got %v: %w", p.RMax, ErrInvalidDimension)
	}
	if !validPositive(p.HeightNorm) {
		return fmt.Errorf("spiral height norm must be > 0, got %v: %w", p.HeightNorm, ErrInvalidDimension)
	}
	return nil
}

// Angle 第 i 个彩灯的方位角（弧度）
func (p SpiralPlacer) Angle(i int) float64 {
	return float64(i) * p.AngleStep
}

// Height 第 i 个彩灯的高度
func (p SpiralPlacer) Height(i int) float64 {
	if p.Count <= 0 {
		return p.YMin
	}
	return p.YMin + float64(i)/float64(p.Count)*p.HeightSpan
}

// Radius 第 i 个彩灯到树轴的距离，不会为负
func (p SpiralPlacer) Radius(i int) float64 {
	r := p.RMax * (1 - (p.Height(i)-p.YMin)/p.HeightNorm)
	return math.Max(0, r)
}

// Position 第 i 个彩灯在树局部坐标系中的位置
func (p SpiralPlacer) Position(i int) mgl64.Vec3 {
	angle := p.Angle(i)
	radius := p.Radius(i)
	return mgl64.Vec3{
		math.Cos(angle) * radius,
		p.Height(i),
		math.Sin(angle) * radius,
	}
}

// Positions 返回 [0, Count) 的全部位置，Count 为 0 时返回空切片
func (p SpiralPlacer) Positions() []mgl64.Vec3 {
	if p.Count <= 0 {
		return nil
	}
	out := make([]mgl64.Vec3, p.Count)
	for i := range out {
		out[i] = p.Position(i)
	}
	return out
}

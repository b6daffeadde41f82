// Package particle provides the fixed-capacity snow particle field.
//
// A Field stores N particle positions in one flat float32 buffer laid out as
// x0,y0,z0,x1,y1,z1,... so render backends can consume it without copying.
// The field never grows or shrinks after construction: Tick only rewrites the
// vertical coordinates in place and flags the buffer dirty.
package particle

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// FloorY is the height below which a falling particle wraps back to the top.
const FloorY = -2.0

// ErrInvalidField reports a field configuration that cannot be built.
var ErrInvalidField = errors.New("invalid particle field")

// Field is a fixed-size set of falling particles.
//
// Invariant: after construction and after every Tick, every y lies in
// [FloorY, TopY]. Horizontal coordinates are set once and never change.
type Field struct {
	buffer   []float32
	count    int
	spreadXZ float64
	topY     float32
	fallRate float32
	dirty    bool
	ticks    uint64
}

// NewField allocates count particles.
//
// x and z are sampled uniformly in [-spreadXZ/2, spreadXZ/2]. y is sampled
// from the same range clipped to [FloorY, topY] so the wraparound invariant
// holds before the first Tick. rng must not be nil.
func NewField(count int, spreadXZ, topY, fallRate float64, rng *rand.Rand) (*Field, error) {
	if count < 0 {
		return nil, fmt.Errorf("particle count must be >= 0, got %d: %w", count, ErrInvalidField)
	}
	if !(spreadXZ > 0) || math.IsInf(spreadXZ, 0) {
		return nil, fmt.Errorf("particle spread must be > 0, got %v: %w", spreadXZ, ErrInvalidField)
	}
	if !(topY > FloorY) || math.IsInf(topY, 0) {
		return nil, fmt.Errorf("particle top must be above %v, got %v: %w", FloorY, topY, ErrInvalidField)
	}
	if !(fallRate >= 0) || math.IsInf(fallRate, 0) {
		return nil, fmt.Errorf("fall rate must be >= 0, got %v: %w", fallRate, ErrInvalidField)
	}
	if rng == nil {
		return nil, fmt.Errorf("random source is required: %w", ErrInvalidField)
	}

	half := spreadXZ / 2
	yMin := math.Max(-half, FloorY)
	yMax := math.Min(half, topY)
	if yMin > yMax {
		// 区间完全在 [FloorY, topY] 之外时，只能在合法区间内采样
		yMin, yMax = FloorY, topY
	}

	f := &Field{
		buffer:   make([]float32, count*3),
		count:    count,
		spreadXZ: spreadXZ,
		topY:     float32(topY),
		fallRate: float32(fallRate),
		dirty:    true,
	}
	for i := 0; i < count; i++ {
		f.buffer[i*3] = float32((rng.Float64() - 0.5) * spreadXZ)
		f.buffer[i*3+1] = float32(yMin + rng.Float64()*(yMax-yMin))
		f.buffer[i*3+2] = float32((rng.Float64() - 0.5) * spreadXZ)
	}
	return f, nil
}

// Tick lowers every particle by the fall rate and wraps particles that drop
// below FloorY to exactly TopY.
//
// The step is constant per call, not scaled by elapsed time: callers must
// invoke Tick exactly once per rendered frame to keep the visual fall rate
// stable.
func (f *Field) Tick() {
	for i := 1; i < len(f.buffer); i += 3 {
		y := f.buffer[i] - f.fallRate
		if y < FloorY {
			y = f.topY
		}
		f.buffer[i] = y
	}
	f.ticks++
	f.dirty = true
}

// Len returns the fixed particle count.
func (f *Field) Len() int {
	return f.count
}

// Position returns particle i.
func (f *Field) Position(i int) (x, y, z float32) {
	base := i * 3
	return f.buffer[base], f.buffer[base+1], f.buffer[base+2]
}

// SetY overrides the vertical coordinate of particle i, clamped into
// [FloorY, TopY]. It exists for deterministic tests and scripted resets.
func (f *Field) SetY(i int, y float32) {
	if y < FloorY {
		y = FloorY
	}
	if y > f.topY {
		y = f.topY
	}
	f.buffer[i*3+1] = y
	f.dirty = true
}

// Buffer exposes the interleaved position buffer. Callers must treat it as
// read-only; the slice header never changes for the life of the field.
func (f *Field) Buffer() []float32 {
	return f.buffer
}

// Dirty reports whether the buffer changed since the last ClearDirty.
func (f *Field) Dirty() bool {
	return f.dirty
}

// ClearDirty marks the buffer as consumed by the render backend.
func (f *Field) ClearDirty() {
	f.dirty = false
}

// TopY is the wrap target height.
func (f *Field) TopY() float32 {
	return f.topY
}

// FallRate is the per-tick vertical step.
func (f *Field) FallRate() float32 {
	return f.fallRate
}

// Spread is the horizontal extent the field was sampled over.
func (f *Field) Spread() float64 {
	return f.spreadXZ
}

// Ticks counts Tick calls since construction.
func (f *Field) Ticks() uint64 {
	return f.ticks
}

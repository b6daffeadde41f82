package display

import (
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"

	"github.com/gonewx/xmastree/pkg/config"
)

// 模糊链最多的降采样级数
const maxBloomLevels = 6

// BloomPipeline 泛光后处理
//
// 流程：
//  1. 场景画到离屏缓冲（Begin 返回的图像）
//  2. 亮部提取：colorm 仿射变换 (c - threshold) / (1 - threshold)，小于 0 的部分被截断
//  3. 逐级半尺寸降采样，再逐级上采样叠加，级数由 radius 决定
//  4. 以 BlendLighter 叠加回目标，强度为 strength
//
// 尺寸为 0 或 strength <= 0 时 Available 返回 false，调用方应直接绘制场景。
type BloomPipeline struct {
	strength  float64
	threshold float64
	radius    float64

	width, height int

	scene  *ebiten.Image
	bright *ebiten.Image
	levels []*ebiten.Image
}

// NewBloomPipeline 创建泛光管线，缓冲区在第一次 Resize 时分配
func NewBloomPipeline(cfg config.BloomConfig) *BloomPipeline {
	b := &BloomPipeline{}
	b.SetConfig(cfg)
	return b
}

// SetConfig 更新参数（热加载），级数变化时重新分配缓冲
func (b *BloomPipeline) SetConfig(cfg config.BloomConfig) {
	oldLevels := bloomLevels(b.radius)
	b.strength = cfg.Strength
	b.threshold = cfg.Threshold
	b.radius = cfg.Radius

	if b.scene != nil && bloomLevels(b.radius) != oldLevels {
		w, h := b.width, b.height
		b.release()
		b.allocate(w, h)
	}
}

// Resize 按目标尺寸分配缓冲，尺寸不变时什么也不做
func (b *BloomPipeline) Resize(width, height int) {
	if width == b.width && height == b.height && (b.scene != nil || width <= 0 || height <= 0) {
		return
	}
	b.release()
	b.allocate(width, height)
}

func (b *BloomPipeline) allocate(width, height int) {
	b.width, b.height = width, height
	if width <= 0 || height <= 0 {
		return
	}

	b.scene = ebiten.NewImage(width, height)
	b.bright = ebiten.NewImage(width, height)
	n := bloomLevels(b.radius)
	b.levels = make([]*ebiten.Image, 0, n)
	for i := 0; i < n; i++ {
		lw, lh := levelSize(width, height, i)
		b.levels = append(b.levels, ebiten.NewImage(lw, lh))
	}
	log.Printf("[Bloom] Buffers allocated: %dx%d, %d levels", width, height, n)
}

func (b *BloomPipeline) release() {
	if b.scene != nil {
		b.scene.Deallocate()
		b.scene = nil
	}
	if b.bright != nil {
		b.bright.Deallocate()
		b.bright = nil
	}
	for _, img := range b.levels {
		img.Deallocate()
	}
	b.levels = nil
}

// Available 管线能否处理当前帧
func (b *BloomPipeline) Available() bool {
	return b.strength > 0 && b.scene != nil
}

// Begin 返回清空后的离屏缓冲，场景应先画到这里
func (b *BloomPipeline) Begin() *ebiten.Image {
	if b.scene == nil {
		return nil
	}
	b.scene.Clear()
	return b.scene
}

// Apply 把场景和泛光合成到 dst
func (b *BloomPipeline) Apply(dst *ebiten.Image) {
	if !b.Available() || dst == nil {
		return
	}

	dst.DrawImage(b.scene, nil)

	// 亮部提取
	b.bright.Clear()
	var cm colorm.ColorM
	k, offset := brightPass(b.threshold)
	cm.Scale(k, k, k, 1)
	cm.Translate(offset, offset, offset, 0)
	colorm.DrawImage(b.bright, b.scene, cm, nil)

	// 降采样
	src := b.bright
	for _, lvl := range b.levels {
		lvl.Clear()
		drawScaled(lvl, src, ebiten.Blend{})
		src = lvl
	}

	// 上采样，逐级叠加
	for i := len(b.levels) - 1; i > 0; i-- {
		drawScaled(b.levels[i-1], b.levels[i], ebiten.BlendLighter)
	}

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	lw, lh := b.levels[0].Bounds().Dx(), b.levels[0].Bounds().Dy()
	op.GeoM.Scale(float64(b.width)/float64(lw), float64(b.height)/float64(lh))
	s := float32(compositeScale(b.strength, len(b.levels)))
	op.ColorScale.Scale(s, s, s, 1)
	op.Blend = ebiten.BlendLighter
	dst.DrawImage(b.levels[0], op)
}

// Size 当前缓冲尺寸
func (b *BloomPipeline) Size() (int, int) {
	return b.width, b.height
}

// Levels 当前模糊级数
func (b *BloomPipeline) Levels() int {
	return len(b.levels)
}

// drawScaled 把 src 线性过滤缩放到 dst 的尺寸
func drawScaled(dst, src *ebiten.Image, blend ebiten.Blend) {
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	dw, dh := dst.Bounds().Dx(), dst.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(float64(dw)/float64(sw), float64(dh)/float64(sh))
	op.Blend = blend
	dst.DrawImage(src, op)
}

// bloomLevels radius 映射到降采样级数，范围 [1, maxBloomLevels]
func bloomLevels(radius float64) int {
	n := 1 + int(math.Round(radius*5))
	if n < 1 {
		return 1
	}
	if n > maxBloomLevels {
		return maxBloomLevels
	}
	return n
}

// levelSize 第 i 级缓冲尺寸（每级减半，至少 1 像素）
func levelSize(width, height, i int) (int, int) {
	w, h := width>>(i+1), height>>(i+1)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// brightPass 亮部提取的仿射系数：c' = c*k + offset
func brightPass(threshold float64) (k, offset float64) {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 0.999 {
		threshold = 0.999
	}
	k = 1 / (1 - threshold)
	return k, -threshold * k
}

// compositeScale 合成时的颜色系数，抵消多级叠加带来的亮度增长
func compositeScale(strength float64, levels int) float64 {
	if levels < 1 {
		levels = 1
	}
	return strength / float64(levels)
}

package display

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/xmastree/pkg/systems"
	"github.com/gonewx/xmastree/pkg/utils"
)

// 卡片布局（缩放为 1 时的像素值）
const (
	cardFontSize   = 14.0
	cardLineHeight = 18.0
	cardPadding    = 8.0
	cardMaxWidth   = 180.0
	cardMaxRunes   = 120
	// 卡片底边到锚点的距离（小三角的高度）
	cardTail = 8.0
	// 弹出动画帧数
	cardPopFrames = 20
)

var (
	cardBackground = color.RGBA{R: 250, G: 246, B: 232, A: 235}
	cardBorder     = color.RGBA{R: 212, G: 175, B: 55, A: 255}
	cardTextColor  = color.RGBA{R: 120, G: 20, B: 20, A: 255}
)

// cardBox 一张卡片在屏幕上的矩形和文字行
type cardBox struct {
	X, Y, W, H float64
	Scale      float64
	Lines      []string
}

// layoutCard 卡片以锚点为底部中心，尺寸随 Scale 和弹出进度缩放
func layoutCard(card systems.Card, measure utils.MeasureFunc) cardBox {
	lines := utils.WrapText(utils.TruncateText(card.Text, cardMaxRunes), cardMaxWidth-2*cardPadding, measure)

	textW := 0.0
	for _, line := range lines {
		if w := measure(line); w > textW {
			textW = w
		}
	}

	s := card.Scale * popScale(card.Age)
	w := (textW + 2*cardPadding) * s
	h := (float64(len(lines))*cardLineHeight + 2*cardPadding) * s
	return cardBox{
		X:     card.X - w/2,
		Y:     card.Y - cardTail*s - h,
		W:     w,
		H:     h,
		Scale: s,
		Lines: lines,
	}
}

// popScale 卡片弹出时的附加缩放（略微回弹）
func popScale(age uint64) float64 {
	return utils.EaseOutBack(utils.Progress(age, 0, cardPopFrames))
}

var tailIndices = []uint16{0, 1, 2}

// CardRenderer 绘制留言卡片
type CardRenderer struct {
	face    text.Face
	measure utils.MeasureFunc
	white   *ebiten.Image
	tail    []ebiten.Vertex
}

// NewCardRenderer 创建卡片渲染器，字体加载失败时返回错误
func NewCardRenderer() (*CardRenderer, error) {
	face, err := Face(cardFontSize)
	if err != nil {
		return nil, err
	}
	return &CardRenderer{
		face:    face,
		measure: utils.FaceMeasure(face),
		white:   newWhitePixel(),
		tail:    make([]ebiten.Vertex, 0, 3),
	}, nil
}

// Draw 按列表顺序（由远到近）绘制卡片
func (r *CardRenderer) Draw(dst *ebiten.Image, cards []systems.Card) {
	for _, card := range cards {
		box := layoutCard(card, r.measure)
		if box.W <= 0 || box.H <= 0 {
			continue
		}
		r.drawBox(dst, card, box)
	}
}

func (r *CardRenderer) drawBox(dst *ebiten.Image, card systems.Card, box cardBox) {
	x, y := float32(box.X), float32(box.Y)
	w, h := float32(box.W), float32(box.H)
	stroke := float32(1.5 * box.Scale)

	vector.DrawFilledRect(dst, x, y, w, h, cardBackground, true)
	vector.StrokeRect(dst, x, y, w, h, stroke, cardBorder, true)

	// 指向锚点的小三角
	tail := float32(cardTail * box.Scale)
	ax, ay := float32(card.X), float32(card.Y)
	cr, cg, cb, ca := float32(cardBorder.R)/255, float32(cardBorder.G)/255, float32(cardBorder.B)/255, float32(cardBorder.A)/255
	r.tail = r.tail[:0]
	for _, p := range [3][2]float32{{ax - tail/2, y + h}, {ax + tail/2, y + h}, {ax, ay}} {
		r.tail = append(r.tail, ebiten.Vertex{
			DstX: p[0], DstY: p[1], SrcX: 1, SrcY: 1,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		})
	}
	dst.DrawTriangles(r.tail, tailIndices, r.white, &ebiten.DrawTrianglesOptions{AntiAlias: true})

	for i, line := range box.Lines {
		op := &text.DrawOptions{}
		op.GeoM.Scale(box.Scale, box.Scale)
		op.GeoM.Translate(
			box.X+cardPadding*box.Scale,
			box.Y+(cardPadding+float64(i)*cardLineHeight)*box.Scale,
		)
		op.ColorScale.ScaleWithColor(cardTextColor)
		text.Draw(dst, line, r.face, op)
	}
}

// Package display 把 systems.DrawList 画到 ebiten 图像上
//
// 场景数据在 systems 包里已经完成投影、着色和排序，这里只负责批量提交三角形、
// 泛光后处理和屏幕空间的卡片/HUD。
package display

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/systems"
)

// 单批次最多的顶点数（uint16 索引的上限）
const maxBatchVertices = 65535

// SceneRenderer 批量绘制 DrawList 中的三角形
//
// 顶点和索引切片在帧之间复用，避免每帧分配。
type SceneRenderer struct {
	white *ebiten.Image

	vertices []ebiten.Vertex
	indices  []uint16

	// AntiAlias 三角形边缘抗锯齿
	AntiAlias bool

	// 上一帧提交的批次数，调试用
	batches int
}

// newWhitePixel 纯白单像素纹理，DrawTriangles 用顶点颜色着色
func newWhitePixel() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	// 取中间一个像素，避免线性过滤采样到图像边缘
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// NewSceneRenderer 创建渲染器
func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{
		white:     newWhitePixel(),
		vertices:  make([]ebiten.Vertex, 0, 4096),
		indices:   make([]uint16, 0, 4096),
		AntiAlias: true,
	}
}

// Draw 用背景色清屏，然后按列表顺序（由远到近）绘制所有三角形
func (r *SceneRenderer) Draw(dst *ebiten.Image, list *systems.DrawList) {
	if dst == nil || list == nil {
		return
	}
	dst.Fill(ToRGBA(list.Background, 1))

	r.batches = 0
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]

	for i := range list.Triangles {
		tri := &list.Triangles[i]
		if len(r.vertices)+3 > maxBatchVertices {
			r.flush(dst)
		}

		cr, cg, cb, ca := VertexColor(tri.Color, tri.Alpha)
		base := uint16(len(r.vertices))
		for k := 0; k < 3; k++ {
			r.vertices = append(r.vertices, ebiten.Vertex{
				DstX:   tri.X[k],
				DstY:   tri.Y[k],
				SrcX:   1,
				SrcY:   1,
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: ca,
			})
		}
		r.indices = append(r.indices, base, base+1, base+2)
	}
	r.flush(dst)
}

// Batches 上一次 Draw 提交的 DrawTriangles 调用次数
func (r *SceneRenderer) Batches() int {
	return r.batches
}

func (r *SceneRenderer) flush(dst *ebiten.Image) {
	if len(r.indices) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = r.AntiAlias
	dst.DrawTriangles(r.vertices, r.indices, r.white, op)
	r.batches++

	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
}

// VertexColor 把线性颜色转换为 ebiten 顶点颜色（预乘 alpha）
func VertexColor(c components.Color, alpha float32) (r, g, b, a float32) {
	c = c.Clamped()
	a = alpha
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return float32(c.R) * a, float32(c.G) * a, float32(c.B) * a, a
}

// ToRGBA 转换为 color.RGBA（预乘 alpha）
func ToRGBA(c components.Color, alpha float64) color.RGBA {
	r, g, b, a := VertexColor(c, float32(alpha))
	return color.RGBA{
		R: uint8(r*255 + 0.5),
		G: uint8(g*255 + 0.5),
		B: uint8(b*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

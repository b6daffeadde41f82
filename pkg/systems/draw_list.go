package systems

import "github.com/gonewx/xmastree/pkg/components"

// DrawKind 绘制图元的来源
type DrawKind uint8

const (
	// DrawMesh 网格三角形（平面着色）
	DrawMesh DrawKind = iota
	// DrawSnow 雪花四边形拆成的三角形
	DrawSnow
)

// DrawTriangle 屏幕空间三角形（像素坐标，左上角为原点）
type DrawTriangle struct {
	X, Y [3]float32
	// Color 已完成光照和雾效，分量在 0~1
	Color components.Color
	Alpha float32
	// Depth 视空间深度，越大越远
	Depth float64
	Kind  DrawKind
	// Mesh 网格角色，仅 Kind 为 DrawMesh 时有意义
	Mesh components.MeshKind
}

// Card 留言卡片（广告牌），总是画在场景之上
type Card struct {
	ID   string
	Text string
	// X/Y 卡片锚点的屏幕坐标
	X, Y float64
	// Scale 按距离缩放，距离越远越小
	Scale float64
	Depth float64
	// Age 卡片创建后经过的帧数，用于弹出动画
	Age uint64
}

// RenderStats 单帧统计
type RenderStats struct {
	Triangles int
	Culled    int
	Clipped   int
	Snow      int
}

// DrawList RenderSystem.Build 的输出，后端按顺序绘制即可
//
// Triangles 已按由远到近排序（画家算法），Cards 同样由远到近。
// DrawList 在帧之间复用，下一次 Build 之后内容失效。
type DrawList struct {
	Width      int
	Height     int
	Background components.Color
	Triangles  []DrawTriangle
	Cards      []Card
	Stats      RenderStats
}

func (d *DrawList) reset(width, height int, background components.Color) {
	d.Width = width
	d.Height = height
	d.Background = background
	d.Triangles = d.Triangles[:0]
	d.Cards = d.Cards[:0]
	d.Stats = RenderStats{}
}

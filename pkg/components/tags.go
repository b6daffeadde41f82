package components

import "github.com/gonewx/xmastree/pkg/geometry"

// PickableComponent 标记可被射线拾取的实体
//
// 只有树叶层带这个标记；彩灯、雪花、卡片都不可拾取。
type PickableComponent struct{}

// AnimatedComponent 标记每帧需要推进动画相位的实体
type AnimatedComponent struct{}

// FoliageLayerComponent 一层树叶的参数（创建后不可变）
type FoliageLayerComponent struct {
	Index int
	Spec  geometry.LayerSpec
}

// TreeGroupComponent 标记树的根节点（树叶、树干、星星、彩灯、卡片都挂在它下面）
type TreeGroupComponent struct{}

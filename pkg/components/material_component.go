package components

// MaterialComponent 平面着色材质
type MaterialComponent struct {
	// Color 漫反射颜色
	Color Color
	// Emissive 自发光颜色，乘以 EmissiveIntensity 后直接叠加到着色结果
	Emissive          Color
	EmissiveIntensity float64
	// Unlit 为 true 时忽略光照，直接输出 Color（星星使用）
	Unlit bool
	// Opacity 不透明度 0~1
	Opacity float64
	// Fog 为 false 时不受雾效影响
	Fog bool
}

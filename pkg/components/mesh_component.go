package components

import "github.com/gonewx/xmastree/pkg/geometry"

// MeshKind 网格在场景中的角色（渲染排序和调试日志使用）
type MeshKind int

const (
	MeshKindFoliage MeshKind = iota
	MeshKindTrunk
	MeshKindStar
	MeshKindOrnament
	MeshKindGround
)

// String 返回网格角色名称
func (k MeshKind) String() string {
	switch k {
	case MeshKindFoliage:
		return "foliage"
	case MeshKindTrunk:
		return "trunk"
	case MeshKindStar:
		return "star"
	case MeshKindOrnament:
		return "ornament"
	case MeshKindGround:
		return "ground"
	default:
		return "unknown"
	}
}

// MeshComponent 引用一个共享的只读网格
//
// 多个实体可以共享同一个 *geometry.Mesh（例如所有彩灯共用一个球体），
// 运行期间网格数据不会被修改或重新分配。
type MeshComponent struct {
	Mesh *geometry.Mesh
	Kind MeshKind
}

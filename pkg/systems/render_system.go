package systems

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/xmastree/pkg/components"
	"github.com/gonewx/xmastree/pkg/ecs"
)

// 场景背景色和雾效（指数平方雾）
const (
	BackgroundColor   = 0x050510
	DefaultFogDensity = 0.002
)

const (
	// 雪花屏幕尺寸上限（像素）
	maxSnowPixels = 8.0
	// 卡片在该距离处缩放为 1
	cardReferenceDepth = 10.0
	minCardScale       = 0.25
	maxCardScale       = 2.5
)

// RenderSystem 把场景转换为屏幕空间的绘制列表
//
// 职责范围：
//   - 沿层级变换网格，平面着色（环境光 + 方向光 + 点光源 + 自发光）
//   - 指数平方雾、背面剔除、近裁剪面剔除
//   - 雪花粒子转换为小四边形，与网格一起按深度排序
//   - 留言卡片投影到屏幕，画在最上层
//
// 不包括：
//   - 实际绘制（ebiten 和终端后端各自消费 DrawList）
//   - 泛光后处理（display.BloomPipeline）
type RenderSystem struct {
	entityManager *ecs.EntityManager
	composer      *ComposerSystem
	camera        *CameraSystem

	FogColor   components.Color
	FogDensity float64

	list DrawList

	// 每帧重新收集的光源
	ambient     components.Color
	directional []directionalLight
	points      []pointLight
}

type directionalLight struct {
	dir   mgl64.Vec3
	color components.Color
}

type pointLight struct {
	position mgl64.Vec3
	color    components.Color
	distance float64
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager, composer *ComposerSystem, camera *CameraSystem) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		composer:      composer,
		camera:        camera,
		FogColor:      components.ColorFromHex(BackgroundColor),
		FogDensity:    DefaultFogDensity,
	}
}

// Build 生成当前帧的绘制列表
//
// 雪花缓冲区被读取后清除脏标记。尺寸不为正时返回空列表。
func (s *RenderSystem) Build(width, height int) *DrawList {
	s.list.reset(width, height, components.ColorFromHex(BackgroundColor))
	cam := s.camera.Camera()
	if cam == nil || width <= 0 || height <= 0 {
		return &s.list
	}

	vp := cam.ViewProjection()
	s.collectLights()
	s.buildMeshes(cam, vp)
	s.buildSnow(cam, vp)
	s.buildCards(cam, vp)

	sort.SliceStable(s.list.Triangles, func(i, j int) bool {
		return s.list.Triangles[i].Depth > s.list.Triangles[j].Depth
	})
	sort.SliceStable(s.list.Cards, func(i, j int) bool {
		return s.list.Cards[i].Depth > s.list.Cards[j].Depth
	})

	s.list.Stats.Triangles = len(s.list.Triangles)
	return &s.list
}

// collectLights 收集光源，点光源位置取世界坐标（随树旋转）
func (s *RenderSystem) collectLights() {
	s.ambient = components.Color{}
	s.directional = s.directional[:0]
	s.points = s.points[:0]

	for _, id := range ecs.GetEntitiesWith1[*components.LightComponent](s.entityManager) {
		light, _ := ecs.GetComponent[*components.LightComponent](s.entityManager, id)
		color := light.Color.Scale(light.Intensity)

		switch light.Kind {
		case components.LightAmbient:
			s.ambient = s.ambient.Add(color)
		case components.LightDirectional:
			if light.Position.Len() == 0 {
				continue
			}
			s.directional = append(s.directional, directionalLight{
				dir:   light.Position.Normalize(),
				color: color,
			})
		case components.LightPoint:
			pos := light.Position
			if ecs.HasComponent[*components.TransformComponent](s.entityManager, id) {
				pos = transformPoint(s.composer.WorldMatrix(id), mgl64.Vec3{})
			}
			s.points = append(s.points, pointLight{position: pos, color: color, distance: light.Distance})
		}
	}
}

func (s *RenderSystem) buildMeshes(cam *components.CameraComponent, vp mgl64.Mat4) {
	ids := ecs.GetEntitiesWith3[
		*components.MeshComponent,
		*components.MaterialComponent,
		*components.TransformComponent,
	](s.entityManager)

	w, h := s.list.Width, s.list.Height
	for _, id := range ids {
		meshComp, _ := ecs.GetComponent[*components.MeshComponent](s.entityManager, id)
		mat, _ := ecs.GetComponent[*components.MaterialComponent](s.entityManager, id)
		if meshComp.Mesh == nil || mat.Opacity <= 0 {
			continue
		}
		world := s.composer.WorldMatrix(id)
		mesh := meshComp.Mesh

		for i := 0; i < mesh.TriangleCount(); i++ {
			a, b, c := mesh.Triangle(i)
			pts := [3]mgl64.Vec3{transformPoint(world, a), transformPoint(world, b), transformPoint(world, c)}

			n := pts[1].Sub(pts[0]).Cross(pts[2].Sub(pts[0]))
			if n.Len() == 0 {
				continue
			}
			n = n.Normalize()
			if n.Dot(cam.Position.Sub(pts[0])) <= 0 {
				s.list.Stats.Culled++
				continue
			}

			var tri DrawTriangle
			visible := true
			outside := [4]int{}
			depth := 0.0
			for k, p := range pts {
				clip := vp.Mul4x1(p.Vec4(1))
				if clip.W() < cam.Near {
					visible = false
					break
				}
				ndcX, ndcY, ndcZ := clip.X()/clip.W(), clip.Y()/clip.W(), clip.Z()/clip.W()
				if ndcZ > 1 {
					visible = false
					break
				}
				if ndcX < -1 {
					outside[0]++
				} else if ndcX > 1 {
					outside[1]++
				}
				if ndcY < -1 {
					outside[2]++
				} else if ndcY > 1 {
					outside[3]++
				}
				sx, sy := NDCToScreen(ndcX, ndcY, w, h)
				tri.X[k], tri.Y[k] = float32(sx), float32(sy)
				depth += clip.W()
			}
			if !visible {
				s.list.Stats.Clipped++
				continue
			}
			if outside[0] == 3 || outside[1] == 3 || outside[2] == 3 || outside[3] == 3 {
				s.list.Stats.Clipped++
				continue
			}
			depth /= 3

			centroid := pts[0].Add(pts[1]).Add(pts[2]).Mul(1.0 / 3)
			color := s.shade(mat, n, centroid)
			if mat.Fog {
				color = s.applyFog(color, depth)
			}

			tri.Color = color.Clamped()
			tri.Alpha = float32(mat.Opacity)
			tri.Depth = depth
			tri.Kind = DrawMesh
			tri.Mesh = meshComp.Kind
			s.list.Triangles = append(s.list.Triangles, tri)
		}
	}
}

// shade 平面着色：漫反射 × (环境光 + 方向光 + 点光源) + 自发光
func (s *RenderSystem) shade(mat *components.MaterialComponent, n, p mgl64.Vec3) components.Color {
	if mat.Unlit {
		return mat.Color
	}

	light := s.ambient
	for _, d := range s.directional {
		if lambert := n.Dot(d.dir); lambert > 0 {
			light = light.Add(d.color.Scale(lambert))
		}
	}
	for _, pl := range s.points {
		toLight := pl.position.Sub(p)
		dist := toLight.Len()
		if dist == 0 {
			continue
		}
		attenuation := 1.0
		if pl.distance > 0 {
			if dist >= pl.distance {
				continue
			}
			attenuation = (1 - dist/pl.distance) * (1 - dist/pl.distance)
		}
		if lambert := n.Dot(toLight.Mul(1 / dist)); lambert > 0 {
			light = light.Add(pl.color.Scale(lambert * attenuation))
		}
	}

	out := mat.Color.Mul(light)
	if mat.EmissiveIntensity > 0 {
		out = out.Add(mat.Emissive.Scale(mat.EmissiveIntensity))
	}
	return out
}

// applyFog 指数平方雾：factor = 1 - exp(-(density·depth)²)
func (s *RenderSystem) applyFog(c components.Color, depth float64) components.Color {
	if s.FogDensity <= 0 {
		return c
	}
	d := s.FogDensity * depth
	factor := 1 - math.Exp(-d*d)
	return c.Lerp(s.FogColor, clampFloat(factor, 0, 1))
}

// buildSnow 每片雪花生成一个随距离缩放的屏幕四边形
func (s *RenderSystem) buildSnow(cam *components.CameraComponent, vp mgl64.Mat4) {
	w, h := s.list.Width, s.list.Height
	for _, id := range ecs.GetEntitiesWith1[*components.SnowFieldComponent](s.entityManager) {
		snow, _ := ecs.GetComponent[*components.SnowFieldComponent](s.entityManager, id)
		field := snow.Field
		if field == nil {
			continue
		}

		world := mgl64.Ident4()
		if ecs.HasComponent[*components.TransformComponent](s.entityManager, id) {
			world = s.composer.WorldMatrix(id)
		}

		for i := 0; i < field.Len(); i++ {
			x, y, z := field.Position(i)
			p := transformPoint(world, mgl64.Vec3{float64(x), float64(y), float64(z)})
			clip := vp.Mul4x1(p.Vec4(1))
			if clip.W() < cam.Near {
				continue
			}
			ndcX, ndcY := clip.X()/clip.W(), clip.Y()/clip.W()
			if ndcX < -1.05 || ndcX > 1.05 || ndcY < -1.05 || ndcY > 1.05 || clip.Z()/clip.W() > 1 {
				continue
			}

			size := snow.Size * float64(h) / 2 / clip.W()
			size = clampFloat(size, 1, maxSnowPixels)
			cx, cy := NDCToScreen(ndcX, ndcY, w, h)
			half := size / 2
			x0, y0 := float32(cx-half), float32(cy-half)
			x1, y1 := float32(cx+half), float32(cy+half)

			color := snow.Color
			color = s.applyFog(color, clip.W()).Clamped()
			alpha := float32(snow.Opacity)
			depth := clip.W()

			s.list.Triangles = append(s.list.Triangles,
				DrawTriangle{X: [3]float32{x0, x1, x1}, Y: [3]float32{y0, y0, y1}, Color: color, Alpha: alpha, Depth: depth, Kind: DrawSnow},
				DrawTriangle{X: [3]float32{x0, x1, x0}, Y: [3]float32{y0, y1, y1}, Color: color, Alpha: alpha, Depth: depth, Kind: DrawSnow},
			)
			s.list.Stats.Snow++
		}
		field.ClearDirty()
	}
}

// buildCards 把留言卡片锚点投影到屏幕
func (s *RenderSystem) buildCards(cam *components.CameraComponent, vp mgl64.Mat4) {
	w, h := s.list.Width, s.list.Height
	var frame uint64
	if state := s.composer.State(); state != nil {
		frame = state.Frame
	}
	for _, id := range s.composer.Annotations() {
		ann, ok := ecs.GetComponent[*components.AnnotationComponent](s.entityManager, id)
		if !ok {
			continue
		}
		p := transformPoint(s.composer.WorldMatrix(id), mgl64.Vec3{})
		clip := vp.Mul4x1(p.Vec4(1))
		if clip.W() < cam.Near {
			continue
		}
		sx, sy := NDCToScreen(clip.X()/clip.W(), clip.Y()/clip.W(), w, h)
		s.list.Cards = append(s.list.Cards, Card{
			ID:    ann.ID,
			Text:  ann.Text,
			X:     sx,
			Y:     sy,
			Scale: clampFloat(cardReferenceDepth/clip.W(), minCardScale, maxCardScale),
			Depth: clip.W(),
			Age:   cardAge(frame, ann.CreatedFrame),
		})
	}
}

func cardAge(frame, created uint64) uint64 {
	if frame < created {
		return 0
	}
	return frame - created
}

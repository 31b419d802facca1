package viewer

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/vfx/pkg/particle"
)

// Camera 简单的透视摄像机，固定朝 -Z 方向看
type Camera struct {
	// Eye 摄像机位置（世界坐标）
	Eye mgl32.Vec3
	// FocalPx 焦距（像素）：世界坐标 1 米在 z=Eye.Z()-1 处的像素数
	FocalPx float64
}

// DefaultCamera 返回预览场景使用的默认机位
func DefaultCamera() Camera {
	return Camera{
		Eye:     mgl32.Vec3{0, 1.2, 6},
		FocalPx: 420,
	}
}

// project 把世界坐标投到屏幕像素坐标
//
// 返回:
//   - sx, sy: 屏幕坐标（像素，原点在左上角）
//   - scale: 该深度处每米对应的像素数
//   - ok: 点是否在摄像机前方
func (c Camera) project(p mgl32.Vec3, screenW, screenH int) (sx, sy, scale float64, ok bool) {
	depth := float64(c.Eye.Z() - p.Z())
	if depth <= 0.05 {
		return 0, 0, 0, false
	}
	scale = c.FocalPx / depth
	sx = float64(screenW)/2 + float64(p.X()-c.Eye.X())*scale
	sy = float64(screenH)/2 - float64(p.Y()-c.Eye.Y())*scale
	return sx, sy, scale, true
}

// RenderSystem 把发射器的存活粒子画成面向摄像机的方块精灵。
// 同一发射器的所有粒子共享贴图，按混合模式分批用 DrawTriangles
// 一次性提交。
type RenderSystem struct {
	Camera Camera

	// 跨帧复用的批次缓冲，避免每帧重新分配
	vertices []ebiten.Vertex
	indices  []uint16
	depths   []sortEntry
}

type sortEntry struct {
	depth float64
	p     *particle.Particle
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem() *RenderSystem {
	return &RenderSystem{Camera: DefaultCamera()}
}

// Draw 渲染一个发射器的全部存活粒子
//
// 普通混合的粒子按深度从远到近排序绘制；加法混合与顺序无关，
// 跳过排序。
func (s *RenderSystem) Draw(screen *ebiten.Image, em *particle.Emitter) {
	sprite, okSprite := em.Surface().(*Sprite)
	if !okSprite || sprite.Image == nil {
		return
	}

	bounds := screen.Bounds()
	screenW, screenH := bounds.Dx(), bounds.Dy()

	s.depths = s.depths[:0]
	em.ForEachLive(func(p *particle.Particle) {
		s.depths = append(s.depths, sortEntry{depth: float64(p.RenderPosition.Z()), p: p})
	})
	if len(s.depths) == 0 {
		return
	}
	if !sprite.Additive {
		sort.Slice(s.depths, func(i, j int) bool { return s.depths[i].depth < s.depths[j].depth })
	}

	texBounds := sprite.Image.Bounds()
	srcX0 := float32(texBounds.Min.X)
	srcY0 := float32(texBounds.Min.Y)
	srcX1 := float32(texBounds.Max.X)
	srcY1 := float32(texBounds.Max.Y)

	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]

	for _, entry := range s.depths {
		p := entry.p
		sx, sy, pxPerMeter, ok := s.Camera.project(p.RenderPosition, screenW, screenH)
		if !ok || p.Alpha <= 0 {
			continue
		}

		// 粒子在屏幕上的半边长：基准像素尺寸 × 缩放曲线 × 透视缩放。
		// SizePx 定义在原点所在深度，离摄像机越远越小。
		perspective := pxPerMeter * float64(s.Camera.Eye.Z()) / s.Camera.FocalPx
		halfW := sprite.SizePx / 2 * float64(p.Scale.X()) * perspective
		halfH := sprite.SizePx / 2 * float64(p.Scale.Y()) * perspective
		if halfW <= 0 || halfH <= 0 {
			continue
		}

		// 绕视线轴旋转（取欧拉角的 Z 分量，度转弧度）
		radians := float64(p.Rotation.Z()) * math.Pi / 180
		cosT := math.Cos(radians)
		sinT := math.Sin(radians)

		corners := [4][2]float64{
			{-halfW, -halfH},
			{halfW, -halfH},
			{-halfW, halfH},
			{halfW, halfH},
		}
		src := [4][2]float32{
			{srcX0, srcY0},
			{srcX1, srcY0},
			{srcX0, srcY1},
			{srcX1, srcY1},
		}

		base := uint16(len(s.vertices))
		for i, corner := range corners {
			rx := corner[0]*cosT - corner[1]*sinT
			ry := corner[0]*sinT + corner[1]*cosT
			s.vertices = append(s.vertices, ebiten.Vertex{
				DstX:   float32(sx + rx),
				DstY:   float32(sy + ry),
				SrcX:   src[i][0],
				SrcY:   src[i][1],
				ColorR: p.Color.X(),
				ColorG: p.Color.Y(),
				ColorB: p.Color.Z(),
				ColorA: p.Alpha,
			})
		}
		s.indices = append(s.indices,
			base+0, base+1, base+2,
			base+1, base+3, base+2,
		)
	}

	if len(s.vertices) == 0 {
		return
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	if sprite.Additive {
		// 加法混合，用于发光类效果
		op.Blend = ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	}
	screen.DrawTriangles(s.vertices, s.indices, sprite.Image, op)
}

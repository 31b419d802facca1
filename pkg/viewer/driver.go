// Package viewer is an interactive preview window for particle effect
// presets, built on ebiten. It hosts a small scene with an orbiting
// emitter node, steps the simulation at a fixed rate and draws the
// live particles as billboarded sprites.
package viewer

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/vfx/pkg/particle"
)

// 粒子贴图的边长（像素），渲染时按粒子缩放系数再缩放
const spriteTextureSize = 32

// Sprite 是发射器表面在查看器里的具体形态：一张共享贴图加混合模式
type Sprite struct {
	Image    *ebiten.Image
	Additive bool
	// SizePx 粒子基准尺寸（像素），缩放系数为 1 时的边长
	SizePx float64
}

// Driver creates viewer sprites for emitters. All sprites share one
// radial-gradient texture; per-effect looks come from the emitter's
// color, alpha and scale curves plus the blend mode.
type Driver struct {
	texture  *ebiten.Image
	additive bool
	sizePx   float64
}

// NewDriver 创建查看器驱动
//
// 参数:
//   - additive: 该驱动创建的表面是否使用加法混合
//   - sizePx: 粒子基准尺寸（像素），<= 0 时使用默认值 8
func NewDriver(additive bool, sizePx float64) *Driver {
	if sizePx <= 0 {
		sizePx = 8
	}
	return &Driver{
		texture:  softDiscTexture(),
		additive: additive,
		sizePx:   sizePx,
	}
}

// CreateParticleSurface 实现 particle.Driver
func (d *Driver) CreateParticleSurface() particle.Surface {
	return &Sprite{Image: d.texture, Additive: d.additive, SizePx: d.sizePx}
}

// softDiscTexture builds a white disc whose alpha falls off
// quadratically toward the edge. Color and alpha curves tint it per
// particle at draw time.
func softDiscTexture() *ebiten.Image {
	img := ebiten.NewImage(spriteTextureSize, spriteTextureSize)
	center := float64(spriteTextureSize-1) / 2
	pixels := make([]byte, spriteTextureSize*spriteTextureSize*4)
	for y := 0; y < spriteTextureSize; y++ {
		for x := 0; x < spriteTextureSize; x++ {
			dx := (float64(x) - center) / center
			dy := (float64(y) - center) / center
			d2 := dx*dx + dy*dy
			var a float64
			if d2 < 1 {
				falloff := 1 - d2
				a = falloff * falloff
			}
			i := (y*spriteTextureSize + x) * 4
			v := byte(a * 255)
			// 预乘 alpha
			pixels[i+0] = v
			pixels[i+1] = v
			pixels[i+2] = v
			pixels[i+3] = v
		}
	}
	img.WritePixels(pixels)
	return img
}

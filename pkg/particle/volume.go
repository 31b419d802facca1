package particle

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// VolumeShape identifies the shape of a spawn volume. The shape set
// is closed; dispatch is by tag, not by interface.
type VolumeShape int

const (
	// ShapePoint spawns every particle at the emitter-local origin.
	ShapePoint VolumeShape = iota
	// ShapeBox spawns within (or on) an axis-aligned box.
	ShapeBox
	// ShapeSphere spawns within (or on) a sphere.
	ShapeSphere
)

// SpawnVolume describes the region around the emitter within (or on)
// which particles spawn. It is immutable once set on an emitter and
// replaced wholesale by configuration calls.
type SpawnVolume struct {
	Shape VolumeShape

	// Params carries the shape extents: width, height, depth for a
	// box; radius for a sphere. Missing or non-positive parameters
	// degrade the volume to a point.
	Params []float64

	// SpawnOnSurface restricts sampling to the shape's surface
	// instead of its interior. Box and Sphere only.
	SpawnOnSurface bool
}

// SamplePoint returns a random emitter-local position inside or on
// the volume.
func (v SpawnVolume) SamplePoint(rng *rand.Rand) mgl32.Vec3 {
	switch v.Shape {
	case ShapeBox:
		if len(v.Params) < 3 {
			return mgl32.Vec3{}
		}
		w, h, d := v.Params[0], v.Params[1], v.Params[2]
		if w <= 0 || h <= 0 || d <= 0 {
			return mgl32.Vec3{}
		}
		if v.SpawnOnSurface {
			return sampleBoxSurface(rng, w, h, d)
		}
		return mgl32.Vec3{
			float32((rng.Float64() - 0.5) * w),
			float32((rng.Float64() - 0.5) * h),
			float32((rng.Float64() - 0.5) * d),
		}
	case ShapeSphere:
		if len(v.Params) < 1 || v.Params[0] <= 0 {
			return mgl32.Vec3{}
		}
		radius := v.Params[0]
		dir := sampleUnitDirection(rng)
		if v.SpawnOnSurface {
			return dir.Mul(float32(radius))
		}
		// Cube-root radius keeps the interior distribution uniform.
		r := radius * math.Cbrt(rng.Float64())
		return dir.Mul(float32(r))
	default:
		return mgl32.Vec3{}
	}
}

// sampleBoxSurface picks one of the six faces weighted by face area,
// then a uniform point on that face.
func sampleBoxSurface(rng *rand.Rand, w, h, d float64) mgl32.Vec3 {
	areaXY := w * h // faces at z = ±d/2
	areaXZ := w * d // faces at y = ±h/2
	areaYZ := h * d // faces at x = ±w/2
	total := 2 * (areaXY + areaXZ + areaYZ)

	pick := rng.Float64() * total
	sign := float32(1)
	if rng.Float64() < 0.5 {
		sign = -1
	}

	u, v2 := rng.Float64()-0.5, rng.Float64()-0.5
	switch {
	case pick < 2*areaXY:
		return mgl32.Vec3{float32(u * w), float32(v2 * h), sign * float32(d/2)}
	case pick < 2*(areaXY+areaXZ):
		return mgl32.Vec3{float32(u * w), sign * float32(h/2), float32(v2 * d)}
	default:
		return mgl32.Vec3{sign * float32(w/2), float32(u * h), float32(v2 * d)}
	}
}

// sampleUnitDirection returns a uniformly distributed direction on
// the unit sphere (uniform cos(theta), uniform phi).
func sampleUnitDirection(rng *rand.Rand) mgl32.Vec3 {
	z := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	s := math.Sqrt(1 - z*z)
	return mgl32.Vec3{
		float32(s * math.Cos(phi)),
		float32(s * math.Sin(phi)),
		float32(z),
	}
}

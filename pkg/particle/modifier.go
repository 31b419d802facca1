package particle

import (
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gonewx/vfx/internal/curve"
)

// Factor is the reference quantity a burst schedule is driven by.
type Factor int

const (
	// FactorTime drives by elapsed time.
	FactorTime Factor = iota
	// FactorDistance drives by distance traveled by the emitter.
	FactorDistance
)

// VecKeyframe is a vector keyframe on a modifier curve. Time is the
// driving factor value: normalized age (0-1) for appearance
// modifiers, elapsed milliseconds since spawn for velocity and
// acceleration modifiers.
type VecKeyframe struct {
	Time  float64
	Value mgl32.Vec3
}

// Modifier is a declarative, time-varying mapping applied to one
// particle attribute. It is shared read-only across all particles of
// an emitter and carries no per-particle state: the sampled initial
// value lives on the particle record and is passed back in on every
// evaluation. The variant set is closed — constant, random-range, or
// interpolated — selected by which constructor built it.
type Modifier struct {
	initialMin mgl32.Vec3
	initialMax mgl32.Vec3
	frames     []VecKeyframe
	interp     string
	uniform    bool // sample one scalar and replicate across channels
}

// NewConstantModifier returns a modifier that always yields v.
func NewConstantModifier(v mgl32.Vec3) *Modifier {
	return &Modifier{initialMin: v, initialMax: v}
}

// NewRandomModifier returns a modifier whose value is sampled per
// particle, per channel, from [min, max] at spawn and then held.
func NewRandomModifier(min, max mgl32.Vec3) *Modifier {
	return &Modifier{initialMin: min, initialMax: max}
}

// NewUniformRandomModifier returns a modifier whose value is a single
// scalar sampled from [min, max] at spawn and replicated across all
// three channels. Use it for attributes that must stay isotropic, such
// as uniform scale.
func NewUniformRandomModifier(min, max float64) *Modifier {
	return &Modifier{
		initialMin: mgl32.Vec3{float32(min), float32(min), float32(min)},
		initialMax: mgl32.Vec3{float32(max), float32(max), float32(max)},
		uniform:    true,
	}
}

// NewInterpolatedModifier returns a modifier whose value starts at a
// per-particle sample of [min, max] and interpolates through frames
// as the driving factor advances. frames are sorted by time; interp
// names the easing ramp ("" for linear).
func NewInterpolatedModifier(min, max mgl32.Vec3, frames []VecKeyframe, interp string) *Modifier {
	sorted := make([]VecKeyframe, len(frames))
	copy(sorted, frames)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return &Modifier{
		initialMin: min,
		initialMax: max,
		frames:     sorted,
		interp:     interp,
	}
}

// Keyframed reports whether the modifier interpolates over keyframes
// (as opposed to holding its initial value).
func (m *Modifier) Keyframed() bool {
	return m != nil && len(m.frames) > 0
}

// InitialValue samples the per-particle starting value.
func (m *Modifier) InitialValue(rng *rand.Rand) mgl32.Vec3 {
	if m == nil {
		return mgl32.Vec3{}
	}
	if m.uniform {
		v := float32(curve.RandomInRange(rng, float64(m.initialMin.X()), float64(m.initialMax.X())))
		return mgl32.Vec3{v, v, v}
	}
	return mgl32.Vec3{
		float32(curve.RandomInRange(rng, float64(m.initialMin.X()), float64(m.initialMax.X()))),
		float32(curve.RandomInRange(rng, float64(m.initialMin.Y()), float64(m.initialMax.Y()))),
		float32(curve.RandomInRange(rng, float64(m.initialMin.Z()), float64(m.initialMax.Z()))),
	}
}

// Evaluate returns the modifier value at factor position t, starting
// from the particle's sampled initial value. Evaluation is pure:
// identical inputs always produce identical outputs. A nil modifier
// or one without keyframes yields the initial value unchanged.
func (m *Modifier) Evaluate(initial mgl32.Vec3, t float64) mgl32.Vec3 {
	if m == nil || len(m.frames) == 0 {
		return initial
	}
	if t < 0 {
		t = 0
	}

	// Implicit keyframe at the start of the curve carrying the
	// particle's own initial sample.
	prevT := 0.0
	prevV := initial
	for _, f := range m.frames {
		if t <= f.Time {
			span := f.Time - prevT
			if span <= 0 {
				return f.Value
			}
			ratio := curve.Ramp((t-prevT)/span, m.interp)
			return lerpVec3(prevV, f.Value, ratio)
		}
		prevT = f.Time
		prevV = f.Value
	}
	return prevV
}

func lerpVec3(a, b mgl32.Vec3, t float64) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(float32(t)))
}

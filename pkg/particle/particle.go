// Package particle implements the real-time particle emission and
// simulation engine: emitters with delay/run/loop lifecycle, a
// three-trigger emission scheduler (time rate, distance rate, bursts),
// per-particle physics with optional explosion impulse, a declarative
// modifier pipeline for visual attributes, and a pooled particle
// arena that recycles expired records.
//
// The engine is frame-synchronous and single-threaded: the hosting
// scene node drives it exactly once per render frame through
// (*Emitter).Update. Durations, delays and timestamps are in
// milliseconds; distances are in meters.
package particle

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gonewx/vfx/internal/curve"
)

// Assumed mass of a single particle, used for all force-to-velocity
// conversions.
const assumedParticleMass = 1.0

// Range is a closed [Min, Max] interval sampled uniformly at random.
type Range struct {
	Min float64
	Max float64
}

// sample returns a uniformly distributed value in the range.
func (r Range) sample(rng *rand.Rand) float64 {
	return curve.RandomInRange(rng, r.Min, r.Max)
}

// Surface is an opaque handle to the drawable geometry shared by all
// particles of an emitter. It is created once through the Driver at
// emitter construction and borrowed, never owned: its lifetime is
// managed by the rendering subsystem.
type Surface interface{}

// Driver creates rendering resources for emitters. It is only used at
// construction time; the engine has no frame-time dependency on it.
type Driver interface {
	CreateParticleSurface() Surface
}

// Host is the non-owning back-reference to the scene node that
// positions an emitter. ok reports false once the node has been
// destroyed; the emitter then treats the node as absent and stops
// emitting rather than dereference stale state.
type Host interface {
	WorldTransform() (mgl32.Mat4, bool)
}

// Particle is a single pooled particle record. Records are owned
// exclusively by the emitter's pool and mutated each frame by the
// physics integrator and the modifier pipeline.
type Particle struct {
	// Position is in emitter-local space when the particle is fixed
	// to its emitter, otherwise in world space (baked at spawn).
	Position mgl32.Vec3
	// Velocity is the modifier-driven velocity component, in the same
	// space as Position.
	Velocity mgl32.Vec3

	// explosionVel is the radial impulse component applied at spawn.
	// It is kept separate from Velocity so that the configured
	// deceleration period can decay it independently.
	explosionVel mgl32.Vec3

	SpawnTimeMs float64
	AgeMs       float64
	LifetimeMs  float64

	fixedToEmitter bool

	// spawnBasis maps emitter-local modifier vectors into the space
	// Position is stored in: identity while fixed to the emitter, the
	// node's world rotation/scale at spawn time when baked.
	spawnBasis mgl32.Mat3

	// Initial modifier values sampled once at spawn. Evaluation each
	// frame interpolates away from these.
	initialAlpha    mgl32.Vec3
	initialColor    mgl32.Vec3
	initialScale    mgl32.Vec3
	initialRotation mgl32.Vec3
	initialVelocity mgl32.Vec3
	initialAccel    mgl32.Vec3

	// Computed visual state, consumed by the renderer.
	RenderPosition mgl32.Vec3
	Alpha          float32
	Color          mgl32.Vec3
	Scale          mgl32.Vec3
	Rotation       mgl32.Vec3

	alive      bool
	killedAtMs float64
}

// Alive reports whether the record is currently live (spawned and not
// yet expired).
func (p *Particle) Alive() bool {
	return p.alive
}

var identBasis = mgl32.Ident3()

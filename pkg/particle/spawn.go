package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// spawnCount decides how many particles to create this frame. The
// three triggers are all evaluated and summed — none starves another —
// and the sum is capped by remaining pool room. Excess requests are
// dropped, not queued.
func (e *Emitter) spawnCount() int {
	n := e.spawnFromTimeRate() + e.spawnFromDistanceRate() + e.spawnFromBursts()
	room := e.maxParticles - e.pool.live
	if n > room {
		n = room
	}
	if n < 0 {
		n = 0
	}
	return n
}

// spawnFromTimeRate returns floor(rate/s × elapsed seconds since the
// last time-triggered spawn). On a spawn event the consumed time is
// subtracted (the fractional remainder carries over) and the rate is
// re-sampled from its range, so long runs do not bias toward the
// range midpoint.
func (e *Emitter) spawnFromTimeRate() int {
	if e.intervalRate <= 0 {
		return 0
	}
	n := int(e.intervalRate * e.intervalElapsedMs / 1000)
	if n <= 0 {
		return 0
	}
	e.intervalElapsedMs -= float64(n) / e.intervalRate * 1000
	e.intervalRate = e.ratePerSecond.sample(e.rng)
	return n
}

// spawnFromDistanceRate returns floor(rate/m × meters traveled since
// the last distance-triggered spawn). Travel is measured as per-frame
// straight-line displacement of the emitter node, accumulated; the
// same consume-and-re-sample policy as the time trigger applies.
func (e *Emitter) spawnFromDistanceRate() int {
	if e.distanceRate <= 0 {
		return 0
	}
	n := int(e.distanceRate * e.distanceElapsed)
	if n <= 0 {
		return 0
	}
	e.distanceElapsed -= float64(n) / e.distanceRate
	e.distanceRate = e.ratePerMeter.sample(e.rng)
	return n
}

// spawnFromBursts fires every scheduled burst whose reference factor
// has crossed start + k×interval for the entry's next un-fired cycle
// index k. Each entry tracks its own fired count; a large frame gap
// can fire several cycles of the same burst at once.
func (e *Emitter) spawnFromBursts() int {
	n := 0
	for i := range e.scheduled {
		b := &e.scheduled[i]
		ref := e.totalPassedTimeMs
		if b.ReferenceFactor == FactorDistance {
			ref = e.totalPassedDistance
		}
		for b.fired < b.Cycles && ref >= b.ReferenceValueStart+float64(b.fired)*b.ReferenceValueInterval {
			n += int(math.Round(b.Particles.sample(e.rng)))
			b.fired++
		}
	}
	return n
}

// spawnParticles creates count particles at time t, recycling zombie
// records before growing the arena. When the pool and the capacity
// are both exhausted the remaining spawns silently no-op; the
// scheduler's cap already accounts for this.
func (e *Emitter) spawnParticles(count int, t float64) {
	for i := 0; i < count; i++ {
		idx, ok := e.pool.alloc(e.maxParticles)
		if !ok {
			return
		}
		e.resetParticle(&e.pool.slots[idx], t)
	}
}

// resetParticle re-initializes a pooled record to known defaults and
// gives it a fresh lifetime, spawn position and initial modifier
// samples.
func (e *Emitter) resetParticle(p *Particle, t float64) {
	*p = Particle{}
	p.alive = true
	p.SpawnTimeMs = t
	p.LifetimeMs = e.lifetime.sample(e.rng)

	local := e.volume.SamplePoint(e.rng)

	p.initialAlpha = initialOr(e.alphaMod, vec3(1, 1, 1), e)
	p.initialColor = initialOr(e.colorMod, vec3(1, 1, 1), e)
	p.initialScale = initialOr(e.scaleMod, vec3(1, 1, 1), e)
	p.initialRotation = initialOr(e.rotationMod, vec3(0, 0, 0), e)
	p.initialVelocity = initialOr(e.velocityMod, vec3(0, 0, 0), e)
	p.initialAccel = initialOr(e.accelMod, vec3(0, 0, 0), e)

	if e.explosionImpulse >= 0 {
		dir := local.Sub(e.explosionCenter)
		if dir.Len() < 1e-6 {
			// spawn position coincides with the explosion center;
			// normalize(0) is undefined, pick a random direction
			dir = sampleUnitDirection(e.rng)
		} else {
			dir = dir.Normalize()
		}
		p.explosionVel = dir.Mul(e.explosionImpulse / assumedParticleMass)
	}

	p.fixedToEmitter = e.fixToEmitter
	if p.fixedToEmitter {
		// particles live in emitter-local space and follow the node
		p.spawnBasis = identBasis
		p.Position = local
	} else {
		// bake into world space at spawn; later node motion does not
		// affect this particle
		p.spawnBasis = e.lastWorld.Mat3()
		p.Position = e.lastWorld.Mul4x1(local.Vec4(1)).Vec3()
		p.explosionVel = p.spawnBasis.Mul3x1(p.explosionVel)
	}
	p.Velocity = p.spawnBasis.Mul3x1(p.initialVelocity)

	// first-frame visual state; the appearance pass refreshes it
	p.Alpha = float32(p.initialAlpha.X())
	p.Color = p.initialColor
	p.Scale = p.initialScale
	p.Rotation = p.initialRotation
	p.RenderPosition = p.Position
}

// initialOr samples a modifier's initial value, or returns def when
// the attribute has no modifier configured.
func initialOr(m *Modifier, def mgl32.Vec3, e *Emitter) mgl32.Vec3 {
	if m == nil {
		return def
	}
	return m.InitialValue(e.rng)
}

func vec3(x, y, z float32) mgl32.Vec3 {
	return mgl32.Vec3{x, y, z}
}

package particle

import (
	"math"
)

// updateParticlePhysics advances every live particle by dt
// milliseconds: acceleration integrates velocity, velocity integrates
// position, all at the assumed unit particle mass. The explosion
// velocity component is added on top and, when a deceleration period
// is configured, decays exponentially with particle age, independent
// of the modifier-driven acceleration.
func (e *Emitter) updateParticlePhysics(t, dt float64) {
	dtS := dt / 1000
	e.pool.forEachLive(func(_ int, p *Particle) {
		e.integrate(p, t, dtS)
	})
}

// integrate advances a single live particle. Calling it on a record
// that is not live is an internal contract violation.
func (e *Emitter) integrate(p *Particle, t, dtS float64) {
	if !p.alive {
		panic("particle: physics update on a record that is not live")
	}

	p.AgeMs = t - p.SpawnTimeMs
	if p.AgeMs < 0 {
		p.AgeMs = 0
	}

	// Velocity and acceleration modifiers run on real elapsed time
	// since spawn, not normalized age, since they drive physics.
	if e.velocityMod.Keyframed() {
		p.Velocity = p.spawnBasis.Mul3x1(e.velocityMod.Evaluate(p.initialVelocity, p.AgeMs))
	} else {
		accel := p.spawnBasis.Mul3x1(e.accelMod.Evaluate(p.initialAccel, p.AgeMs))
		p.Velocity = p.Velocity.Add(accel.Mul(float32(dtS)))
	}

	ev := p.explosionVel
	if e.explosionDecelPeriodMs > 0 {
		ev = ev.Mul(float32(math.Exp(-p.AgeMs / e.explosionDecelPeriodMs)))
	}

	p.Position = p.Position.Add(p.Velocity.Add(ev).Mul(float32(dtS)))
}

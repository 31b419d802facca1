package particle

import (
	"log"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gonewx/vfx/pkg/scene"
)

// Emitter owns the full lifecycle of the particles it spawns: the
// delay → run → (loop | finish) emission cycle, the three spawn
// triggers, per-particle physics and the visual modifier pipeline.
// It is driven exactly once per render frame by the hosting scene
// node via Update; there is no internal concurrency and no timers —
// if frames are not delivered, emitter time does not advance.
//
// Configuration setters take effect from the next Update call.
type Emitter struct {
	host    Host
	surface Surface
	rng     *rand.Rand

	// configuration
	durationMs             float64
	delayMs                float64
	loop                   bool
	fixToEmitter           bool
	maxParticles           int
	lifetime               Range // ms
	ratePerSecond          Range
	ratePerMeter           Range
	bursts                 []Burst
	volume                 SpawnVolume
	explosionCenter        mgl32.Vec3
	explosionImpulse       float32 // negative disables the explosion
	explosionDecelPeriodMs float64 // negative disables the decay

	alphaMod    *Modifier
	colorMod    *Modifier
	scaleMod    *Modifier
	rotationMod *Modifier
	velocityMod *Modifier
	accelMod    *Modifier

	// run state. requestRun is what the host last asked for; it is
	// only honored at the next frame boundary, after the node's
	// transforms have been resolved.
	requestRun bool
	run        bool

	// delay bookkeeping. delayPassedSoFarMs accumulates across
	// pause/resume so pausing freezes the remaining delay instead of
	// restarting it.
	delayDone          bool
	delayStartMs       float64
	delayPassedSoFarMs float64

	// cycle counters. The *SoFar values accumulate completed
	// run stretches; the totals add the stretch currently running.
	totalPassedTimeMs   float64
	passedTimeSoFarMs   float64
	startTimeMs         float64
	totalPassedDistance float64
	passedDistanceSoFar float64
	startLocation       mgl32.Vec3

	// steady-state spawn trigger state. The elapsed accumulators
	// carry the un-spawned remainder across frames; the rates are
	// re-sampled from their ranges at each spawn event.
	intervalRate      float64
	intervalElapsedMs float64
	distanceRate      float64
	distanceElapsed   float64 // meters

	// scheduled is the working copy of bursts for the current cycle.
	scheduled []scheduledBurst

	pool pool

	lastWorld  mgl32.Mat4
	trackedPos mgl32.Vec3
	lastTimeMs float64
	hasUpdated bool
	hostLost   bool
}

// NewEmitter creates an emitter hosted by the given node. driver is
// used once to create the shared drawable surface; a nil driver skips
// surface creation (headless simulation).
func NewEmitter(driver Driver, host Host) *Emitter {
	e := &Emitter{
		host:                   host,
		rng:                    rand.New(rand.NewSource(time.Now().UnixNano())),
		durationMs:             2000,
		maxParticles:           500,
		lifetime:               Range{Min: 2000, Max: 2000},
		volume:                 SpawnVolume{Shape: ShapePoint},
		explosionImpulse:       -1,
		explosionDecelPeriodMs: -1,
		lastWorld:              mgl32.Ident4(),
	}
	if driver != nil {
		e.surface = driver.CreateParticleSurface()
	}
	return e
}

// SetRun requests that the emitter start (true) or pause (false)
// emission. The request is honored on the next frame boundary.
func (e *Emitter) SetRun(run bool) { e.requestRun = run }

// SetDuration sets the length of the emission cycle in milliseconds.
// Negative values are clamped to zero.
func (e *Emitter) SetDuration(ms float64) { e.durationMs = max(ms, 0) }

// SetDelay sets the delay before emission starts, in milliseconds.
// The delay is not part of the duration.
func (e *Emitter) SetDelay(ms float64) { e.delayMs = max(ms, 0) }

// SetLoop makes the emission cycle repeat after its duration.
func (e *Emitter) SetLoop(loop bool) { e.loop = loop }

// SetFixedToEmitter controls whether spawned particles move rigidly
// with the emitter node (true) or are baked into world space at spawn
// time (false, the default). The policy is captured per particle at
// spawn.
func (e *Emitter) SetFixedToEmitter(fixed bool) { e.fixToEmitter = fixed }

// SetMaxParticles caps the number of simultaneously live particles.
// The cap applies to new spawns immediately; live particles above a
// lowered cap expire naturally.
func (e *Emitter) SetMaxParticles(n int) { e.maxParticles = max(n, 0) }

// SetParticleLifetime sets the [min, max] particle lifetime range in
// milliseconds.
func (e *Emitter) SetParticleLifetime(r Range) { e.lifetime = clampRange(r) }

// SetEmissionRatePerSecond sets the [min, max] steady emission rate
// in particles per second. The effective rate is re-sampled from the
// range at every spawn event, and here, so a mid-cycle change takes
// effect even when the previous sample was zero.
func (e *Emitter) SetEmissionRatePerSecond(r Range) {
	e.ratePerSecond = clampRange(r)
	e.intervalRate = e.ratePerSecond.sample(e.rng)
}

// SetEmissionRatePerDistance sets the [min, max] emission rate in
// particles per meter of emitter travel.
func (e *Emitter) SetEmissionRatePerDistance(r Range) {
	e.ratePerMeter = clampRange(r)
	e.distanceRate = e.ratePerMeter.sample(e.rng)
}

// SetParticleBursts replaces the declared burst list and rebuilds the
// scheduled working copy for the current cycle.
func (e *Emitter) SetParticleBursts(bursts []Burst) {
	e.bursts = append([]Burst(nil), bursts...)
	e.scheduled = scheduleBursts(e.bursts)
}

// SetParticleSpawnVolume replaces the spawn volume wholesale.
func (e *Emitter) SetParticleSpawnVolume(v SpawnVolume) { e.volume = v }

// SetInitialExplosion configures a radial impulse applied to every
// particle at spawn, directed away from the emitter-local center. A
// non-negative decelPeriodMs decays the explosion velocity component
// exponentially over that period. A negative impulse disables the
// explosion.
func (e *Emitter) SetInitialExplosion(center mgl32.Vec3, impulse float32, decelPeriodMs float64) {
	e.explosionCenter = center
	e.explosionImpulse = impulse
	e.explosionDecelPeriodMs = decelPeriodMs
}

// SetAlphaModifier sets the alpha modifier (scalar in X).
func (e *Emitter) SetAlphaModifier(m *Modifier) { e.alphaMod = m }

// SetColorModifier sets the RGB color modifier.
func (e *Emitter) SetColorModifier(m *Modifier) { e.colorMod = m }

// SetScaleModifier sets the scale modifier.
func (e *Emitter) SetScaleModifier(m *Modifier) { e.scaleMod = m }

// SetRotationModifier sets the rotation modifier (Euler degrees).
func (e *Emitter) SetRotationModifier(m *Modifier) { e.rotationMod = m }

// SetVelocityModifier sets the velocity modifier. Keyframe times are
// elapsed milliseconds since spawn; a keyframed velocity modifier
// drives particle velocity directly.
func (e *Emitter) SetVelocityModifier(m *Modifier) { e.velocityMod = m }

// SetAccelerationModifier sets the acceleration modifier. Keyframe
// times are elapsed milliseconds since spawn.
func (e *Emitter) SetAccelerationModifier(m *Modifier) { e.accelMod = m }

// Surface returns the borrowed drawable handle created at
// construction, or nil for a headless emitter.
func (e *Emitter) Surface() Surface { return e.surface }

// LiveCount returns the number of currently live particles.
func (e *Emitter) LiveCount() int { return e.pool.live }

// ForEachLive calls fn for every live particle, in slot order. The
// renderer uses this to submit draws; fn must not retain the pointer.
func (e *Emitter) ForEachLive(fn func(p *Particle)) {
	e.pool.forEachLive(func(_ int, p *Particle) { fn(p) })
}

// FinishedEmissionCycle reports whether the emitter has stopped
// emitting for good: not looping, the duration has elapsed, and no
// live particles remain.
func (e *Emitter) FinishedEmissionCycle() bool {
	return !e.loop && e.delayDone && e.totalPassedTimeMs >= e.durationMs && e.pool.live == 0
}

// ResetEmissionCycle rewinds the emitter to the beginning of its
// emission cycle: elapsed time and distance counters are zeroed and
// the scheduled-burst list is restored from the declared bursts. With
// resetParticles true all live particles are force-killed
// immediately; otherwise they finish naturally.
func (e *Emitter) ResetEmissionCycle(resetParticles bool) {
	e.resetCycleState(e.lastTimeMs, e.trackedPos)
	if resetParticles {
		e.pool.killAll(e.lastTimeMs)
	}
}

// Update advances the emitter by one frame. ctx supplies the current
// render-context time; the host node supplies the current world
// transform. All state mutation happens here, synchronously.
func (e *Emitter) Update(ctx *scene.RenderContext) {
	t := ctx.TimeMs

	hostOK := false
	if e.host != nil {
		world, ok := e.host.WorldTransform()
		if ok {
			e.lastWorld = world
			hostOK = true
			e.hostLost = false
		}
	}
	if !hostOK && !e.hostLost {
		log.Printf("[Emitter] Warning: host node absent, emission suspended")
		e.hostLost = true
	}
	pos := e.lastWorld.Col(3).Vec3()

	dt := 0.0
	if e.hasUpdated {
		dt = t - e.lastTimeMs
		if dt < 0 {
			dt = 0
		}
	}

	// Honor the deferred run request at the frame boundary. While the
	// host is absent the emitter keeps its previous run state.
	if hostOK && e.requestRun != e.run {
		if e.requestRun {
			e.onResume(t, pos)
		} else {
			e.onPause(t, pos)
		}
		e.run = e.requestRun
	}

	if hostOK && e.run && !e.processDelay(t, pos) {
		e.advanceCycle(t, pos, dt)
	}
	e.trackedPos = pos

	e.updateParticlePhysics(t, dt)
	e.updateParticleAppearance()
	e.updateParticlesToBeKilled(t)
	e.pool.reapZombies(t)

	e.lastTimeMs = t
	e.hasUpdated = true
}

// onResume is called when the run flag flips to true.
func (e *Emitter) onResume(t float64, pos mgl32.Vec3) {
	if !e.delayDone {
		e.delayStartMs = t
	} else {
		e.startTimeMs = t
		e.startLocation = pos
	}
	// movement while paused never counts
	e.trackedPos = pos
}

// onPause is called when the run flag flips to false. The elapsed
// stretch is folded into the *SoFar accumulators so a later resume
// continues exactly where emission left off.
func (e *Emitter) onPause(t float64, pos mgl32.Vec3) {
	if !e.delayDone {
		e.delayPassedSoFarMs += t - e.delayStartMs
		return
	}
	e.passedTimeSoFarMs += t - e.startTimeMs
	e.passedDistanceSoFar += float64(pos.Sub(e.startLocation).Len())
}

// processDelay returns true while the configured delay is still
// holding back emission. Completion transitions the emitter into its
// run phase.
func (e *Emitter) processDelay(t float64, pos mgl32.Vec3) bool {
	if e.delayDone {
		return false
	}
	if e.delayMs > 0 && (t-e.delayStartMs)+e.delayPassedSoFarMs < e.delayMs {
		return true
	}
	e.beginRunPhase(t, pos)
	return false
}

// beginRunPhase starts the running portion of the emission cycle:
// counters rewind to zero and the trigger rates get their first
// sample.
func (e *Emitter) beginRunPhase(t float64, pos mgl32.Vec3) {
	e.delayDone = true
	e.startTimeMs = t
	e.startLocation = pos
	e.passedTimeSoFarMs = 0
	e.passedDistanceSoFar = 0
	e.totalPassedTimeMs = 0
	e.totalPassedDistance = 0
	e.intervalElapsedMs = 0
	e.distanceElapsed = 0
	e.intervalRate = e.ratePerSecond.sample(e.rng)
	e.distanceRate = e.ratePerMeter.sample(e.rng)
	e.trackedPos = pos
}

// advanceCycle updates the cycle counters and runs the emission
// scheduler for one frame.
func (e *Emitter) advanceCycle(t float64, pos mgl32.Vec3, dt float64) {
	e.intervalElapsedMs += dt
	e.distanceElapsed += float64(pos.Sub(e.trackedPos).Len())
	e.totalPassedTimeMs = e.passedTimeSoFarMs + (t - e.startTimeMs)
	e.totalPassedDistance = e.passedDistanceSoFar + float64(pos.Sub(e.startLocation).Len())

	if e.totalPassedTimeMs > e.durationMs && e.loop {
		// 循环模式：回到周期起点，重新经历 delay 和 burst 调度
		e.resetCycleState(t, pos)
	}
	if e.delayDone && e.totalPassedTimeMs <= e.durationMs {
		n := e.spawnCount()
		if n > 0 {
			e.spawnParticles(n, t)
		}
	}
}

// resetCycleState rewinds all cycle bookkeeping to time t at position
// pos. The run phase (and any configured delay) restarts on the next
// running frame.
func (e *Emitter) resetCycleState(t float64, pos mgl32.Vec3) {
	e.totalPassedTimeMs = 0
	e.passedTimeSoFarMs = 0
	e.startTimeMs = t
	e.totalPassedDistance = 0
	e.passedDistanceSoFar = 0
	e.startLocation = pos
	e.intervalElapsedMs = 0
	e.distanceElapsed = 0
	e.scheduled = scheduleBursts(e.bursts)
	e.delayDone = false
	e.delayStartMs = t
	e.delayPassedSoFarMs = 0
}

// updateParticleAppearance re-evaluates the visual modifiers for all
// live particles from their normalized age, and resolves the render
// position according to the fix-to-emitter policy captured at spawn.
func (e *Emitter) updateParticleAppearance() {
	world := e.lastWorld
	e.pool.forEachLive(func(_ int, p *Particle) {
		tn := 0.0
		if p.LifetimeMs > 0 {
			tn = p.AgeMs / p.LifetimeMs
			if tn > 1 {
				tn = 1
			}
		}
		p.Alpha = float32(e.alphaMod.Evaluate(p.initialAlpha, tn).X())
		p.Color = e.colorMod.Evaluate(p.initialColor, tn)
		p.Scale = e.scaleMod.Evaluate(p.initialScale, tn)
		p.Rotation = e.rotationMod.Evaluate(p.initialRotation, tn)

		if p.fixedToEmitter {
			p.RenderPosition = world.Mul4x1(p.Position.Vec4(1)).Vec3()
		} else {
			p.RenderPosition = p.Position
		}
	})
}

// updateParticlesToBeKilled moves particles past their lifetime into
// the zombie state.
func (e *Emitter) updateParticlesToBeKilled(t float64) {
	for i := range e.pool.slots {
		p := &e.pool.slots[i]
		if p.alive && p.AgeMs > p.LifetimeMs {
			e.pool.kill(i, t)
		}
	}
}

func clampRange(r Range) Range {
	if r.Min < 0 {
		r.Min = 0
	}
	if r.Max < 0 {
		r.Max = 0
	}
	if r.Max < r.Min {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

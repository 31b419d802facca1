package particle

// pool is the fixed-capacity arena owning all particle records of an
// emitter. Records move live → zombie on expiry and zombie → reused
// on the next spawn. Zombies that sit unused past the grace period
// are retired to the free list so the arena never renders or scans
// them again; the backing store itself never exceeds the largest
// configured particle maximum.
type pool struct {
	slots   []Particle
	zombies []int // slot indices awaiting reuse, in kill order; the newest is reused first
	free    []int // retired slots
	live    int
}

// zombieGraceMs is how long a killed particle stays reusable before
// being hard-retired.
const zombieGraceMs = 2000

// alloc returns the index of a record ready to be re-initialized, or
// ok=false when the live count has reached max and the spawn must be
// dropped. Zombies are reused before free slots, free slots before
// growing the arena.
func (pl *pool) alloc(max int) (int, bool) {
	if pl.live >= max {
		return 0, false
	}
	var idx int
	switch {
	case len(pl.zombies) > 0:
		idx = pl.zombies[len(pl.zombies)-1]
		pl.zombies = pl.zombies[:len(pl.zombies)-1]
	case len(pl.free) > 0:
		idx = pl.free[len(pl.free)-1]
		pl.free = pl.free[:len(pl.free)-1]
	case len(pl.slots) < max:
		pl.slots = append(pl.slots, Particle{})
		idx = len(pl.slots) - 1
	default:
		return 0, false
	}
	pl.live++
	return idx, true
}

// kill transitions a live record to the zombie state at time t.
func (pl *pool) kill(idx int, t float64) {
	p := &pl.slots[idx]
	if !p.alive {
		panic("particle: kill on a record that is not live")
	}
	p.alive = false
	p.killedAtMs = t
	pl.zombies = append(pl.zombies, idx)
	pl.live--
}

// killAll force-kills every live record, used by cycle resets.
func (pl *pool) killAll(t float64) {
	for i := range pl.slots {
		if pl.slots[i].alive {
			pl.kill(i, t)
		}
	}
}

// reapZombies hard-retires zombies older than the grace period.
func (pl *pool) reapZombies(t float64) {
	kept := pl.zombies[:0]
	for _, idx := range pl.zombies {
		if t-pl.slots[idx].killedAtMs > zombieGraceMs {
			pl.slots[idx] = Particle{}
			pl.free = append(pl.free, idx)
		} else {
			kept = append(kept, idx)
		}
	}
	pl.zombies = kept
}

// forEachLive calls fn for every live record. fn must not allocate or
// kill records.
func (pl *pool) forEachLive(fn func(idx int, p *Particle)) {
	for i := range pl.slots {
		if pl.slots[i].alive {
			fn(i, &pl.slots[i])
		}
	}
}

package particle

// Burst describes a scheduled extra spawn event, independent of the
// steady-state emission rates: when the reference factor (elapsed
// cycle time in milliseconds, or distance traveled in meters) crosses
// ReferenceValueStart + k*ReferenceValueInterval for each cycle index
// k < Cycles, a count sampled from Particles is emitted.
type Burst struct {
	ReferenceFactor        Factor
	Particles              Range // [min, max] particles per burst
	ReferenceValueStart    float64
	ReferenceValueInterval float64
	Cycles                 int
}

// scheduledBurst is the runtime working copy of a declared burst. The
// working list is rebuilt from the declared bursts at the start of
// every emission cycle so looping emitters start their bursts fresh.
type scheduledBurst struct {
	Burst
	fired int // cycles already fired this emission cycle
}

// scheduleBursts builds a fresh working list from the declared bursts,
// clamping out entries that can never fire.
func scheduleBursts(bursts []Burst) []scheduledBurst {
	scheduled := make([]scheduledBurst, 0, len(bursts))
	for _, b := range bursts {
		if b.Cycles <= 0 {
			continue
		}
		if b.ReferenceValueInterval < 0 {
			b.ReferenceValueInterval = 0
		}
		scheduled = append(scheduled, scheduledBurst{Burst: b})
	}
	return scheduled
}

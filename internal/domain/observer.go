package domain

import "time"

// Observer receives sweep-level side effects (counters, timings) so the
// numeric core stays a pure function. Implementations must be safe for
// concurrent use.
type Observer interface {
	// RunCompleted is called once per finished combination. soft reports a
	// captured per-combination condition (no data, bankrupt).
	RunCompleted(bars int, soft bool)

	// SortTimed reports how long ranking a result view took.
	SortTimed(view string, elapsed time.Duration)

	// SweepCancelled reports an aborted sweep and how many combinations
	// never ran.
	SweepCancelled(remaining int)
}

// NopObserver discards all observations.
type NopObserver struct{}

func (NopObserver) RunCompleted(int, bool)          {}
func (NopObserver) SortTimed(string, time.Duration) {}
func (NopObserver) SweepCancelled(int)              {}

package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety. It implements domain.Observer
// so the sweep engine can report progress without knowing about this
// package.
type Metrics struct {
	// Counters
	runsCompleted atomic.Uint64
	runsSoft      atomic.Uint64
	barsSimulated atomic.Uint64

	// Sort latency tracking
	sortSumNs atomic.Int64
	sortCount atomic.Uint64

	// Cancellation
	sweepsCancelled atomic.Uint64
	runsSkipped     atomic.Uint64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RunCompleted records one finished parameter combination. soft marks
// runs that produced no usable result (insufficient data, bankruptcy).
func (m *Metrics) RunCompleted(bars int, soft bool) {
	m.runsCompleted.Add(1)
	if soft {
		m.runsSoft.Add(1)
	}
	m.barsSimulated.Add(uint64(bars))
}

// SortTimed records the latency of one ranked-view sort.
func (m *Metrics) SortTimed(view string, elapsed time.Duration) {
	m.sortSumNs.Add(int64(elapsed))
	m.sortCount.Add(1)
}

// SweepCancelled records an aborted sweep and its unrun combinations.
func (m *Metrics) SweepCancelled(remaining int) {
	m.sweepsCancelled.Add(1)
	m.runsSkipped.Add(uint64(remaining))
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	RunsCompleted   uint64
	RunsSoft        uint64
	BarsSimulated   uint64
	AvgSortNs       int64
	SweepsCancelled uint64
	RunsSkipped     uint64
	Timestamp       time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgSort int64
	count := m.sortCount.Load()
	if count > 0 {
		avgSort = m.sortSumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		RunsCompleted:   m.runsCompleted.Load(),
		RunsSoft:        m.runsSoft.Load(),
		BarsSimulated:   m.barsSimulated.Load(),
		AvgSortNs:       avgSort,
		SweepsCancelled: m.sweepsCancelled.Load(),
		RunsSkipped:     m.runsSkipped.Load(),
		Timestamp:       time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.runsCompleted.Store(0)
	m.runsSoft.Store(0)
	m.barsSimulated.Store(0)
	m.sortSumNs.Store(0)
	m.sortCount.Store(0)
	m.sweepsCancelled.Store(0)
	m.runsSkipped.Store(0)
}

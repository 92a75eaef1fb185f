package infra

import (
	"sync"
	"testing"
	"time"

	"entropy_go/internal/domain"
)

// Metrics must satisfy the engine's observability contract.
var _ domain.Observer = (*Metrics)(nil)

func TestMetricsSnapshot(t *testing.T) {
	m := &Metrics{}

	m.RunCompleted(100, false)
	m.RunCompleted(0, true)
	m.SortTimed("roi", 2*time.Millisecond)
	m.SortTimed("sharpe", 4*time.Millisecond)
	m.SweepCancelled(5)

	snap := m.Snapshot()
	if snap.RunsCompleted != 2 {
		t.Errorf("runs = %d, want 2", snap.RunsCompleted)
	}
	if snap.RunsSoft != 1 {
		t.Errorf("soft runs = %d, want 1", snap.RunsSoft)
	}
	if snap.BarsSimulated != 100 {
		t.Errorf("bars = %d, want 100", snap.BarsSimulated)
	}
	if snap.AvgSortNs != int64(3*time.Millisecond) {
		t.Errorf("avg sort = %d, want 3ms", snap.AvgSortNs)
	}
	if snap.SweepsCancelled != 1 || snap.RunsSkipped != 5 {
		t.Errorf("cancellation counters = %d/%d, want 1/5", snap.SweepsCancelled, snap.RunsSkipped)
	}

	m.Reset()
	if snap := m.Snapshot(); snap.RunsCompleted != 0 || snap.AvgSortNs != 0 || snap.RunsSkipped != 0 {
		t.Errorf("reset left residue: %+v", snap)
	}
}

func TestMetricsConcurrent(t *testing.T) {
	m := &Metrics{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RunCompleted(1, j%2 == 0)
			}
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if snap.RunsCompleted != 5000 {
		t.Errorf("runs = %d, want 5000", snap.RunsCompleted)
	}
	if snap.BarsSimulated != 5000 {
		t.Errorf("bars = %d, want 5000", snap.BarsSimulated)
	}
}

package engine

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"entropy_go/internal/domain"
	"entropy_go/internal/execution"
	"entropy_go/internal/metrics"
	"entropy_go/internal/strategy"
	"entropy_go/pkg/quant"
)

// Result view names reported to the observability sink.
const (
	ViewROI      = "roi"
	ViewSharpe   = "sharpe"
	ViewDrawdown = "drawdown"
)

// Combination is one point of the parameter grid.
type Combination struct {
	Period          int
	ZScoreThreshold *float64
	FeeBps          float64
}

// Grid spans the sweep's parameter space. The cross product of Periods x
// ZScoreThresholds x FeeBps is evaluated; Bits is fixed per sweep.
type Grid struct {
	Bits             int
	Periods          []int
	ZScoreThresholds []*float64 // nil entry = no z-score filter
	FeeBps           []float64
}

// Combinations expands the grid in canonical order (period, threshold, fee).
func (g Grid) Combinations() []Combination {
	combos := make([]Combination, 0, len(g.Periods)*len(g.ZScoreThresholds)*len(g.FeeBps))
	for _, period := range g.Periods {
		for _, threshold := range g.ZScoreThresholds {
			for _, fee := range g.FeeBps {
				combos = append(combos, Combination{
					Period:          period,
					ZScoreThreshold: threshold,
					FeeBps:          fee,
				})
			}
		}
	}
	return combos
}

// Report is the complete outcome of one sweep: every summary in canonical
// grid order plus the three ranked views.
type Report struct {
	Summaries  []*domain.Summary
	ByROI      []*domain.Summary
	BySharpe   []*domain.Summary
	ByDrawdown []*domain.Summary
}

// Orchestrator fans the entropy pipeline out over the parameter grid on a
// worker pool and folds the results back into ranked views.
//
// Every combination's pipeline is a pure function of (bars, combination),
// so combinations run on any number of workers with no synchronization
// beyond result collection. Scheduling order never affects the report:
// summaries are keyed back to their grid slot, and the ranked views are
// fully determined by the sort keys.
type Orchestrator struct {
	grid           Grid
	initialCapital float64
	calc           *metrics.Calculator
	workers        int
	obs            domain.Observer
}

// Option tunes an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers overrides the worker count (default: GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithObserver injects the observability sink (default: discard).
func WithObserver(obs domain.Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.obs = obs
		}
	}
}

// NewOrchestrator validates the whole configuration surface up front:
// configuration errors abort before any pipeline runs.
func NewOrchestrator(grid Grid, initialCapital float64, barResolution time.Duration, opts ...Option) (*Orchestrator, error) {
	if _, err := quant.NewEntropyCoder(grid.Bits, 1); err != nil {
		return nil, domain.NewConfigError("bits", err)
	}
	if len(grid.Periods) == 0 || len(grid.ZScoreThresholds) == 0 || len(grid.FeeBps) == 0 {
		return nil, domain.NewConfigError("grid", domain.ErrEmptyGrid)
	}
	for _, p := range grid.Periods {
		if p <= 0 {
			return nil, domain.NewConfigError("periods", domain.ErrEmptyGrid)
		}
	}
	for _, fee := range grid.FeeBps {
		if _, err := execution.NewSimulator(fee, initialCapital); err != nil {
			return nil, err
		}
	}

	o := &Orchestrator{
		grid:           grid,
		initialCapital: initialCapital,
		calc:           metrics.NewCalculator(barResolution),
		workers:        runtime.GOMAXPROCS(0),
		obs:            domain.NopObserver{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Sweep runs the full grid against the bar series and returns the ranked
// report. The series is validated once (fatal on malformed input) and then
// shared read-only by all workers. Cancellation is coarse-grained: workers
// stop picking up combinations once ctx is done.
func (o *Orchestrator) Sweep(ctx context.Context, bars domain.Series) (*Report, error) {
	if err := bars.Validate(); err != nil {
		return nil, err
	}

	prices := bars.Prices()
	coder, err := quant.NewEntropyCoder(o.grid.Bits, 1)
	if err != nil {
		return nil, domain.NewConfigError("bits", err)
	}
	// Symbols depend only on (series, bits): encode once, share read-only.
	symbols := coder.Encode(prices)
	buyHoldROI := 0.0
	if len(prices) > 1 {
		buyHoldROI = (prices[len(prices)-1]/prices[0] - 1) * 100
	}

	combos := o.grid.Combinations()
	summaries := make([]*domain.Summary, len(combos))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				summaries[idx] = o.runOne(bars, prices, symbols, buyHoldROI, combos[idx])
			}
		}()
	}

	done := ctx.Err() != nil
	skipped := 0
	for idx := range combos {
		if !done {
			select {
			case <-ctx.Done():
				done = true
			case jobs <- idx:
				continue
			}
		}
		// Cancelled: remaining combinations are reported as not run.
		summaries[idx] = &domain.Summary{
			Period:          combos[idx].Period,
			ZScoreThreshold: combos[idx].ZScoreThreshold,
			FeeBps:          combos[idx].FeeBps,
			NoData:          true,
		}
		skipped++
	}
	close(jobs)
	wg.Wait()

	if done {
		o.obs.SweepCancelled(skipped)
	}

	return o.rank(summaries), ctx.Err()
}

// runOne executes the full pipeline for a single combination. Soft errors
// (insufficient data, bankruptcy) are captured in the summary; they never
// abort sibling combinations.
func (o *Orchestrator) runOne(bars domain.Series, prices []float64, symbols []quant.Symbol, buyHoldROI float64, combo Combination) *domain.Summary {
	summary := &domain.Summary{
		Period:          combo.Period,
		ZScoreThreshold: combo.ZScoreThreshold,
		FeeBps:          combo.FeeBps,
		BuyHoldROIPct:   buyHoldROI,
	}

	coder, err := quant.NewEntropyCoder(o.grid.Bits, combo.Period)
	if err != nil {
		summary.NoData = true
		o.obs.RunCompleted(0, true)
		return summary
	}

	samples := coder.RollingEntropy(symbols)
	if len(samples) == 0 {
		summary.NoData = true
		o.obs.RunCompleted(0, true)
		return summary
	}

	gen := strategy.NewEntropyMomentum(strategy.Policy{ZScoreThreshold: combo.ZScoreThreshold}, o.grid.Bits)
	signals := gen.Generate(prices, samples)

	sim, err := execution.NewSimulator(combo.FeeBps, o.initialCapital)
	if err != nil {
		summary.NoData = true
		o.obs.RunCompleted(0, true)
		return summary
	}
	res := sim.Run(bars, signals)

	buf := acquireEquityBuf()
	for _, p := range res.Curve {
		*buf = append(*buf, p.Equity)
	}
	perf := o.calc.Compute(*buf, o.initialCapital)
	releaseEquityBuf(buf)

	summary.ROIPct = perf.ROIPct
	summary.Sharpe = perf.Sharpe
	summary.MaxDrawdownPct = perf.MaxDrawdownPct
	summary.Trades = res.Trades
	summary.Bankrupt = res.Bankrupt
	if res.Trades > 0 {
		summary.WinRatePct = float64(res.Wins) / float64(res.Trades) * 100
	}

	o.obs.RunCompleted(len(res.Curve), res.Bankrupt)
	return summary
}

// Replay reruns a single combination and returns its chartable equity
// points. Used after a sweep to render the winning parameter set; the
// pipeline is identical to the one the workers run.
func (o *Orchestrator) Replay(bars domain.Series, combo Combination) ([]domain.Point, error) {
	if err := bars.Validate(); err != nil {
		return nil, err
	}

	coder, err := quant.NewEntropyCoder(o.grid.Bits, combo.Period)
	if err != nil {
		return nil, domain.NewConfigError("bits", err)
	}
	prices := bars.Prices()
	samples := coder.RollingEntropy(coder.Encode(prices))
	if len(samples) == 0 {
		return nil, domain.ErrInsufficientData
	}

	gen := strategy.NewEntropyMomentum(strategy.Policy{ZScoreThreshold: combo.ZScoreThreshold}, o.grid.Bits)
	sim, err := execution.NewSimulator(combo.FeeBps, o.initialCapital)
	if err != nil {
		return nil, err
	}
	res := sim.Run(bars, gen.Generate(prices, samples))
	return res.Curve.Points(bars), nil
}

// rank builds the three sorted views. Each sort is timed and reported to
// the observability sink; the ordering itself is deterministic.
func (o *Orchestrator) rank(summaries []*domain.Summary) *Report {
	report := &Report{Summaries: summaries}

	report.ByROI = o.sortView(ViewROI, summaries, func(a, b *domain.Summary) bool {
		if a.ROIPct != b.ROIPct {
			return a.ROIPct > b.ROIPct
		}
		return tieBreak(a, b)
	})
	report.BySharpe = o.sortView(ViewSharpe, summaries, func(a, b *domain.Summary) bool {
		// +Inf sentinels sort first; equal values (including two
		// infinities) fall to the tie-break.
		if a.Sharpe != b.Sharpe {
			return a.Sharpe > b.Sharpe
		}
		return tieBreak(a, b)
	})
	report.ByDrawdown = o.sortView(ViewDrawdown, summaries, func(a, b *domain.Summary) bool {
		absA, absB := math.Abs(a.MaxDrawdownPct), math.Abs(b.MaxDrawdownPct)
		if absA != absB {
			return absA < absB
		}
		return tieBreak(a, b)
	})

	return report
}

func (o *Orchestrator) sortView(view string, summaries []*domain.Summary, less func(a, b *domain.Summary) bool) []*domain.Summary {
	out := make([]*domain.Summary, len(summaries))
	copy(out, summaries)

	start := time.Now()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		// "No data" rows sink to the bottom of every view.
		if a.NoData != b.NoData {
			return b.NoData
		}
		return less(a, b)
	})
	o.obs.SortTimed(view, time.Since(start))
	return out
}

// tieBreak orders equal metric values by smaller period first, then by the
// remaining grid axes so the ranking is total.
func tieBreak(a, b *domain.Summary) bool {
	if a.Period != b.Period {
		return a.Period < b.Period
	}
	ta, tb := thresholdKey(a.ZScoreThreshold), thresholdKey(b.ZScoreThreshold)
	if ta != tb {
		return ta < tb
	}
	return a.FeeBps < b.FeeBps
}

func thresholdKey(t *float64) float64 {
	if t == nil {
		return math.Inf(-1)
	}
	return *t
}

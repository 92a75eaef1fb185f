package metrics

import (
	"math"
	"time"

	"entropy_go/pkg/quant"
)

// Performance holds the risk-adjusted measures of one equity curve.
type Performance struct {
	ROIPct         float64
	Sharpe         float64
	MaxDrawdownPct float64
}

// Calculator computes ROI, Sharpe ratio, and max drawdown from an equity
// curve. It carries only the annualization scale, so one instance can be
// shared across concurrent runs.
type Calculator struct {
	annualize float64
}

const hoursPerYear = 24 * 365

// NewCalculator derives the Sharpe annualization factor (sqrt of periods
// per year) from the bar resolution.
func NewCalculator(barResolution time.Duration) *Calculator {
	periodsPerYear := float64(hoursPerYear*time.Hour) / float64(barResolution)
	return &Calculator{annualize: math.Sqrt(periodsPerYear)}
}

// Compute runs all three measures in a single forward pass over the curve.
//
// ROI is computed from final vs initial equity, never accumulated
// incrementally. A zero-variance return series reports Sharpe = +Inf; this
// is the documented sentinel for all-flat runs, not an error. Max drawdown
// is the running-peak decline, always <= 0; the peak seeds at the initial
// capital, so an entry-fee dip on the first tradable bar counts.
func (c *Calculator) Compute(equity []float64, initialCapital float64) Performance {
	var p Performance
	if len(equity) == 0 || initialCapital <= 0 {
		return p
	}

	p.ROIPct = (equity[len(equity)-1] - initialCapital) / initialCapital * 100

	var returns quant.RunningStats
	peak := initialCapital
	for i, e := range equity {
		if i > 0 && equity[i-1] > 0 {
			returns.Push(e/equity[i-1] - 1)
		}
		if e > peak {
			peak = e
		} else if peak > 0 {
			if dd := (e - peak) / peak * 100; dd < p.MaxDrawdownPct {
				p.MaxDrawdownPct = dd
			}
		}
	}

	if std := returns.StdDev(); std > 0 {
		p.Sharpe = returns.Mean() / std * c.annualize
	} else {
		p.Sharpe = math.Inf(1)
	}
	return p
}

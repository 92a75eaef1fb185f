package domain

import (
	"fmt"
	"math"
)

// Summary holds the risk-adjusted performance of one parameter combination.
// Immutable once computed; owned by the sweep's result table.
//
// Degenerate numerics are represented explicitly, never coerced: a
// zero-variance equity curve reports Sharpe = +Inf, a filterless run has a
// nil ZScoreThreshold, and a window longer than the series sets NoData.
type Summary struct {
	Period          int      `json:"period"`
	ZScoreThreshold *float64 `json:"zscore_threshold,omitempty"`
	FeeBps          float64  `json:"fee_bps"`

	ROIPct         float64 `json:"roi_pct"`
	Sharpe         float64 `json:"sharpe"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`

	Trades        int     `json:"trades"`
	WinRatePct    float64 `json:"win_rate_pct"`
	BuyHoldROIPct float64 `json:"buy_hold_roi_pct"`

	NoData   bool `json:"no_data,omitempty"`
	Bankrupt bool `json:"bankrupt,omitempty"`
}

// SharpeInfinite reports the zero-variance sentinel.
func (s *Summary) SharpeInfinite() bool {
	return math.IsInf(s.Sharpe, 1)
}

// ThresholdLabel renders the optional z-score gate for reports.
func (s *Summary) ThresholdLabel() string {
	if s.ZScoreThreshold == nil {
		return "none"
	}
	return fmt.Sprintf("%.2f", *s.ZScoreThreshold)
}

// String formats one report row in stable field order.
func (s *Summary) String() string {
	if s.NoData {
		return fmt.Sprintf("period: %d, zscore: %s, fee: %.1fbps, no data",
			s.Period, s.ThresholdLabel(), s.FeeBps)
	}
	sharpe := fmt.Sprintf("%.3f", s.Sharpe)
	if s.SharpeInfinite() {
		sharpe = "inf"
	}
	return fmt.Sprintf("period: %d, zscore: %s, fee: %.1fbps, roi: %.3f%%, sharpe: %s, dd: %.3f%%, trades: %d",
		s.Period, s.ThresholdLabel(), s.FeeBps, s.ROIPct, sharpe, s.MaxDrawdownPct, s.Trades)
}

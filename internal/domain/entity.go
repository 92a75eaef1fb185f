package domain

import (
	"math"
	"time"
)

// BarRecord persists one imported bar.
type BarRecord struct {
	Symbol    string `gorm:"primaryKey"`
	UnixMs    int64  `gorm:"primaryKey;autoIncrement:false"`
	Price     float64
	CreatedAt time.Time
}

// SummaryRecord persists one ranked sweep result. SQLite cannot store
// +Inf, so the Sharpe sentinel is carried in a separate flag.
type SummaryRecord struct {
	ID              uint `gorm:"primaryKey"`
	View            string
	Rank            int
	Period          int
	ZScoreThreshold *float64
	FeeBps          float64
	ROIPct          float64
	Sharpe          float64
	SharpeIsInf     bool
	MaxDrawdownPct  float64
	Trades          int
	WinRatePct      float64
	NoData          bool
	Bankrupt        bool
	CreatedAt       time.Time
}

// NewSummaryRecord flattens a summary into its storable form.
func NewSummaryRecord(view string, rank int, s *Summary) SummaryRecord {
	rec := SummaryRecord{
		View:            view,
		Rank:            rank,
		Period:          s.Period,
		ZScoreThreshold: s.ZScoreThreshold,
		FeeBps:          s.FeeBps,
		ROIPct:          s.ROIPct,
		Sharpe:          s.Sharpe,
		MaxDrawdownPct:  s.MaxDrawdownPct,
		Trades:          s.Trades,
		WinRatePct:      s.WinRatePct,
		NoData:          s.NoData,
		Bankrupt:        s.Bankrupt,
	}
	if math.IsInf(rec.Sharpe, 0) {
		rec.Sharpe = 0
		rec.SharpeIsInf = true
	}
	return rec
}

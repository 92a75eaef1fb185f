package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestSeriesValidate(t *testing.T) {
	ok := Series{{UnixMs: 1, Price: 100}, {UnixMs: 2, Price: 101}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid series rejected: %v", err)
	}

	bad := Series{{UnixMs: 1, Price: 100}, {UnixMs: 2, Price: 0}}
	err := bad.Validate()
	if !errors.Is(err, ErrNonPositivePrice) {
		t.Errorf("error = %v, want ErrNonPositivePrice", err)
	}
	var serr *SeriesError
	if !errors.As(err, &serr) || serr.Index != 1 {
		t.Errorf("expected SeriesError at index 1, got %v", err)
	}

	dup := Series{{UnixMs: 5, Price: 100}, {UnixMs: 5, Price: 101}}
	if err := dup.Validate(); !errors.Is(err, ErrNonMonotonicSeries) {
		t.Errorf("error = %v, want ErrNonMonotonicSeries", err)
	}

	// NaN compares false against everything, so a plain <= 0 check would
	// let it through.
	nan := Series{{UnixMs: 1, Price: 100}, {UnixMs: 2, Price: math.NaN()}}
	if err := nan.Validate(); !errors.Is(err, ErrNonPositivePrice) {
		t.Errorf("error = %v, want ErrNonPositivePrice for NaN price", err)
	}
}

func TestConfigErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := NewConfigError("sweep.bits", base)

	if !errors.Is(err, base) {
		t.Error("ConfigError must unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "sweep.bits") {
		t.Errorf("message should name the field: %q", err.Error())
	}
}

func TestSummaryFormatting(t *testing.T) {
	threshold := 1.5
	s := &Summary{Period: 32, ZScoreThreshold: &threshold, FeeBps: 10, Sharpe: math.Inf(1)}

	if !s.SharpeInfinite() {
		t.Error("SharpeInfinite should report the sentinel")
	}
	if got := s.ThresholdLabel(); got != "1.50" {
		t.Errorf("ThresholdLabel = %q, want 1.50", got)
	}
	if !strings.Contains(s.String(), "sharpe: inf") {
		t.Errorf("String should render the sentinel: %q", s.String())
	}

	s.ZScoreThreshold = nil
	if got := s.ThresholdLabel(); got != "none" {
		t.Errorf("ThresholdLabel without gate = %q, want none", got)
	}

	s.NoData = true
	if !strings.Contains(s.String(), "no data") {
		t.Errorf("no-data row should say so: %q", s.String())
	}
}

func TestNewSummaryRecordFlattensInfinity(t *testing.T) {
	s := &Summary{Period: 16, Sharpe: math.Inf(1)}
	rec := NewSummaryRecord("sharpe", 1, s)

	// SQLite cannot store +Inf; the sentinel moves to a flag.
	if rec.Sharpe != 0 || !rec.SharpeIsInf {
		t.Errorf("record = %+v, want Sharpe 0 with SharpeIsInf", rec)
	}

	s.Sharpe = 1.25
	rec = NewSummaryRecord("sharpe", 2, s)
	if rec.Sharpe != 1.25 || rec.SharpeIsInf {
		t.Errorf("finite Sharpe mangled: %+v", rec)
	}
}

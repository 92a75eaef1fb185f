package storage

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"entropy_go/internal/domain"
)

// Storage must satisfy the engine's persistence contract.
var _ domain.SummarySink = (*Storage)(nil)

func setupTestDB(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return s
}

func TestSaveAndLoadBars(t *testing.T) {
	s := setupTestDB(t)

	bars := domain.Series{
		{UnixMs: 1000, Price: 100},
		{UnixMs: 2000, Price: 101},
		{UnixMs: 3000, Price: 99.5},
	}

	if err := s.SaveBars("BTC", bars); err != nil {
		t.Fatalf("SaveBars: %v", err)
	}

	loaded, err := s.LoadBars("BTC")
	if err != nil {
		t.Fatalf("LoadBars: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(loaded))
	}
	for i := range bars {
		if loaded[i] != bars[i] {
			t.Errorf("bar %d: %+v, want %+v", i, loaded[i], bars[i])
		}
	}

	// Other symbols stay isolated.
	other, err := s.LoadBars("ETH")
	if err != nil {
		t.Fatalf("LoadBars(ETH): %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected no ETH bars, got %d", len(other))
	}
}

func TestSaveBarsIdempotent(t *testing.T) {
	s := setupTestDB(t)

	bars := domain.Series{{UnixMs: 1000, Price: 100}, {UnixMs: 2000, Price: 101}}
	if err := s.SaveBars("BTC", bars); err != nil {
		t.Fatal(err)
	}

	// Re-import with one revised price: row count stays, value updates.
	bars[1].Price = 102
	if err := s.SaveBars("BTC", bars); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadBars("BTC")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 bars after re-import, got %d", len(loaded))
	}
	if loaded[1].Price != 102 {
		t.Errorf("price = %v, want updated 102", loaded[1].Price)
	}
}

func TestSaveSummariesReplacesView(t *testing.T) {
	s := setupTestDB(t)

	threshold := 1.0
	first := []*domain.Summary{
		{Period: 32, ZScoreThreshold: &threshold, FeeBps: 10, ROIPct: 12.5, Sharpe: math.Inf(1)},
		{Period: 16, FeeBps: 0, ROIPct: 8.0, Sharpe: 1.1},
	}
	if err := s.SaveSummaries("roi", first); err != nil {
		t.Fatalf("SaveSummaries: %v", err)
	}

	records, err := s.LoadSummaries("roi")
	if err != nil {
		t.Fatalf("LoadSummaries: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Rank != 1 || records[0].Period != 32 {
		t.Errorf("rank 1 record = %+v", records[0])
	}
	// The +Inf sentinel travels as a flag.
	if !records[0].SharpeIsInf || records[0].Sharpe != 0 {
		t.Errorf("infinite Sharpe stored wrong: %+v", records[0])
	}

	// A second save fully replaces the view.
	if err := s.SaveSummaries("roi", first[:1]); err != nil {
		t.Fatal(err)
	}
	records, err = s.LoadSummaries("roi")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record after replace, got %d", len(records))
	}
}

func TestBarSource(t *testing.T) {
	s := setupTestDB(t)

	if err := s.SaveBars("BTC", domain.Series{{UnixMs: 1000, Price: 100}, {UnixMs: 2000, Price: 101}}); err != nil {
		t.Fatal(err)
	}

	bars, err := NewBarSource(s, "BTC").Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(bars) != 2 {
		t.Errorf("expected 2 bars, got %d", len(bars))
	}

	_, err = NewBarSource(s, "DOGE").Load(context.Background())
	if !errors.Is(err, domain.ErrInsufficientData) {
		t.Errorf("empty symbol error = %v, want ErrInsufficientData", err)
	}
}

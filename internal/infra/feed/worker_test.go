package feed

import (
	"testing"
	"time"

	"entropy_go/internal/domain"
)

func TestHandleMessage(t *testing.T) {
	barChan := make(chan domain.Bar, 4)
	w := NewWorker("wss://example", "KRW-BTC", barChan)

	w.handleMessage([]byte(`{"type":"ticker","code":"KRW-BTC","trade_price":51000.5,"trade_timestamp":1700000000123}`))

	select {
	case bar := <-barChan:
		if bar.UnixMs != 1700000000123 {
			t.Errorf("UnixMs = %d, want 1700000000123", bar.UnixMs)
		}
		if bar.Price != 51000.5 {
			t.Errorf("Price = %v, want 51000.5", bar.Price)
		}
	default:
		t.Fatal("expected a bar on the channel")
	}
}

func TestHandleMessageFiltersNoise(t *testing.T) {
	barChan := make(chan domain.Bar, 4)
	w := NewWorker("wss://example", "KRW-BTC", barChan)

	// Non-ticker frames, garbage, and zero prices are all dropped.
	w.handleMessage([]byte(`{"type":"trade","trade_price":100}`))
	w.handleMessage([]byte(`not json`))
	w.handleMessage([]byte(`{"type":"ticker","trade_price":0}`))

	if len(barChan) != 0 {
		t.Errorf("expected no bars, got %d", len(barChan))
	}
}

func TestHandleMessageTimestampFallback(t *testing.T) {
	barChan := make(chan domain.Bar, 1)
	w := NewWorker("wss://example", "KRW-BTC", barChan)

	// Missing trade_timestamp falls back to the receive timestamp.
	w.handleMessage([]byte(`{"type":"ticker","trade_price":100,"timestamp":1700000000999}`))

	bar := <-barChan
	if bar.UnixMs != 1700000000999 {
		t.Errorf("UnixMs = %d, want receive timestamp", bar.UnixMs)
	}
}

func TestHandleMessageFullChannelDrops(t *testing.T) {
	barChan := make(chan domain.Bar, 1)
	w := NewWorker("wss://example", "KRW-BTC", barChan)

	w.handleMessage([]byte(`{"type":"ticker","trade_price":100,"timestamp":1}`))
	// Second message must not block when the channel is full.
	w.handleMessage([]byte(`{"type":"ticker","trade_price":101,"timestamp":2}`))

	if len(barChan) != 1 {
		t.Errorf("expected 1 buffered bar, got %d", len(barChan))
	}
}

func TestCalculateBackoff(t *testing.T) {
	w := NewWorker("wss://example", "KRW-BTC", nil)

	if got := w.calculateBackoff(0); got != feedBaseDelay {
		t.Errorf("retry 0 = %v, want %v", got, feedBaseDelay)
	}
	if got := w.calculateBackoff(2); got != 4*time.Second {
		t.Errorf("retry 2 = %v, want 4s", got)
	}
	// Backoff is capped.
	if got := w.calculateBackoff(20); got != feedMaxDelay {
		t.Errorf("retry 20 = %v, want cap %v", got, feedMaxDelay)
	}
}

func TestSourceAssemble(t *testing.T) {
	s := NewSource("wss://example", "KRW-BTC", 10)

	bars, err := s.assemble(map[int64]float64{
		3000: 101,
		1000: 100,
		2000: 99.5,
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].UnixMs <= bars[i-1].UnixMs {
			t.Fatal("bars not sorted by time")
		}
	}
}

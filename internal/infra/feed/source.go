package feed

import (
	"context"
	"log/slog"
	"sort"

	"entropy_go/internal/domain"
)

// Source captures a live tick stream into a bar series. It implements
// domain.BarSource: Load blocks until maxBars distinct timestamps have
// been collected or the context ends, then returns the validated series.
type Source struct {
	url     string
	symbol  string
	maxBars int
}

// NewSource creates a live feed source.
func NewSource(url, symbol string, maxBars int) *Source {
	return &Source{url: url, symbol: symbol, maxBars: maxBars}
}

// Load runs a worker until enough bars arrive. Ticks sharing a
// millisecond timestamp collapse to the last price seen, matching the
// dedup rule of the file-based sources.
func (s *Source) Load(ctx context.Context) (domain.Series, error) {
	barChan := make(chan domain.Bar, feedChanCapacity)
	worker := NewWorker(s.url, s.symbol, barChan)
	if err := worker.Connect(ctx); err != nil {
		return nil, err
	}
	defer worker.Disconnect()

	byTime := make(map[int64]float64, s.maxBars)
	for len(byTime) < s.maxBars {
		select {
		case <-ctx.Done():
			// Partial capture is still usable if it validates.
			slog.Warn("Feed capture interrupted",
				slog.Int("collected", len(byTime)),
				slog.Int("wanted", s.maxBars),
			)
			return s.assemble(byTime)
		case bar := <-barChan:
			byTime[bar.UnixMs] = bar.Price
		}
	}

	slog.Info("Feed capture complete", slog.Int("bars", len(byTime)))
	return s.assemble(byTime)
}

func (s *Source) assemble(byTime map[int64]float64) (domain.Series, error) {
	bars := make(domain.Series, 0, len(byTime))
	for ts, price := range byTime {
		bars = append(bars, domain.Bar{UnixMs: ts, Price: price})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].UnixMs < bars[j].UnixMs })

	if err := bars.Validate(); err != nil {
		return nil, err
	}
	return bars, nil
}

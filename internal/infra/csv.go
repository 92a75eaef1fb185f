package infra

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"entropy_go/internal/domain"

	"github.com/shopspring/decimal"
)

// CSVSource loads a bar series from a two-column CSV file
// (timestamp, price). A header row is skipped automatically. Prices are
// parsed through decimal so values like "0.000001234" survive the trip
// exactly; the float conversion happens once, at the domain boundary.
type CSVSource struct {
	path string
}

// NewCSVSource creates a CSV bar source for the given file.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load reads, deduplicates, and validates the series. Duplicate
// timestamps keep the last value seen; exchange exports often repeat the
// newest bar on resume. The returned series is sorted by timestamp and
// passes domain validation.
func (s *CSVSource) Load(ctx context.Context) (domain.Series, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate trailing columns (volume etc.)

	byTime := make(map[int64]float64)
	line := 0
	for {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read %s: %w", s.path, err)
		}
		line++

		if len(record) < 2 {
			return nil, fmt.Errorf("csv %s line %d: need at least 2 columns", s.path, line)
		}

		ts, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("csv %s line %d: bad timestamp %q", s.path, line, record[0])
		}
		// Second-resolution exports are common; normalize to millis.
		if ts < 1_000_000_000_000 {
			ts *= 1000
		}

		price, err := decimal.NewFromString(record[1])
		if err != nil {
			return nil, fmt.Errorf("csv %s line %d: bad price %q", s.path, line, record[1])
		}

		byTime[ts] = price.InexactFloat64()
	}

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

package infra

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"entropy_go/internal/domain"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCSVSourceLoad(t *testing.T) {
	// Header row, second-resolution timestamps, one duplicate, rows out
	// of order.
	path := writeCSV(t, `timestamp,price
1700000100,101.5
1700000000,100.0
1700000200,102.5
1700000100,101.9
`)

	bars, err := NewCSVSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(bars) != 3 {
		t.Fatalf("expected 3 bars after dedup, got %d", len(bars))
	}
	// Sorted, millisecond-normalized, last duplicate wins.
	if bars[0].UnixMs != 1_700_000_000_000 {
		t.Errorf("bars[0].UnixMs = %d", bars[0].UnixMs)
	}
	if bars[1].Price != 101.9 {
		t.Errorf("duplicate timestamp kept %v, want last value 101.9", bars[1].Price)
	}
	if err := bars.Validate(); err != nil {
		t.Errorf("loaded series failed validation: %v", err)
	}
}

func TestCSVSourceRejectsBadRows(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad price", "1700000000,abc\n"},
		{"bad timestamp past header", "ts,price\n1700000000,100\nnope,101\n"},
		{"too few columns", "1700000000\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCSVSource(writeCSV(t, tc.content)).Load(context.Background())
			if err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestCSVSourceRejectsInvalidSeries(t *testing.T) {
	path := writeCSV(t, "1700000000,100\n1700000060,-5\n")
	_, err := NewCSVSource(path).Load(context.Background())
	if !errors.Is(err, domain.ErrNonPositivePrice) {
		t.Errorf("error = %v, want ErrNonPositivePrice", err)
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv")).Load(context.Background())
	if err == nil {
		t.Error("expected error for missing file")
	}
}

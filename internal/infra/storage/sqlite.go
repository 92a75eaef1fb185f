package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entropy_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Storage persists bar series and sweep results in SQLite.
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (or creates) the SQLite database at path and runs
// migrations. The driver is pure Go, so no cgo toolchain is needed.
func NewStorage(path string) (*Storage, error) {
	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.BarRecord{}, &domain.SummaryRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// ======================================================================================
// Bar Operations
// ======================================================================================

// SaveBars upserts a bar series for a symbol. Re-importing the same file
// is idempotent: conflicting (symbol, timestamp) rows are overwritten.
func (s *Storage) SaveBars(symbol string, bars domain.Series) error {
	if len(bars) == 0 {
		return nil
	}

	records := make([]domain.BarRecord, len(bars))
	now := time.Now()
	for i, bar := range bars {
		records[i] = domain.BarRecord{
			Symbol:    symbol,
			UnixMs:    bar.UnixMs,
			Price:     bar.Price,
			CreatedAt: now,
		}
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "unix_ms"}},
		UpdateAll: true,
	}).CreateInBatches(records, 500).Error
}

// LoadBars returns the full stored series for a symbol in time order.
func (s *Storage) LoadBars(symbol string) (domain.Series, error) {
	var records []domain.BarRecord
	err := s.db.Where("symbol = ?", symbol).Order("unix_ms asc").Find(&records).Error
	if err != nil {
		return nil, err
	}

	bars := make(domain.Series, len(records))
	for i, rec := range records {
		bars[i] = domain.Bar{UnixMs: rec.UnixMs, Price: rec.Price}
	}
	return bars, nil
}

// ======================================================================================
// Summary Operations
// ======================================================================================

// SaveSummaries replaces the stored ranking for one view. Rank follows
// the slice order, so callers pass an already-sorted view.
func (s *Storage) SaveSummaries(view string, summaries []*domain.Summary) error {
	records := make([]domain.SummaryRecord, len(summaries))
	for i, sum := range summaries {
		records[i] = domain.NewSummaryRecord(view, i+1, sum)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("view = ?", view).Delete(&domain.SummaryRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, 500).Error
	})
}

// LoadSummaries returns the stored ranking for one view, best first.
func (s *Storage) LoadSummaries(view string) ([]domain.SummaryRecord, error) {
	var records []domain.SummaryRecord
	err := s.db.Where("view = ?", view).Order("rank asc").Find(&records).Error
	return records, err
}

// BarSource adapts one symbol's stored series to domain.BarSource.
type BarSource struct {
	store  *Storage
	symbol string
}

// NewBarSource creates a bar source backed by the database.
func NewBarSource(store *Storage, symbol string) *BarSource {
	return &BarSource{store: store, symbol: symbol}
}

// Load fetches and validates the stored series.
func (s *BarSource) Load(ctx context.Context) (domain.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bars, err := s.store.LoadBars(s.symbol)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, domain.ErrInsufficientData
	}
	if err := bars.Validate(); err != nil {
		return nil, err
	}
	return bars, nil
}

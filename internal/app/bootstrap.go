package app

import (
	"fmt"
	"log/slog"

	"entropy_go/internal/domain"
	"entropy_go/internal/engine"
	"entropy_go/internal/infra"
	"entropy_go/internal/infra/feed"
	"entropy_go/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config   *infra.Config
	Storage  *storage.Storage
	Source   domain.BarSource
	Renderer *infra.ChartRenderer
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, DB, source)
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("🚀 Bootstrapping Entropy Go...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (optional unless the source needs it)
	if cfg.Storage.Path != "" {
		store, err := storage.NewStorage(cfg.Storage.Path)
		if err != nil {
			return err
		}
		b.Storage = store
		slog.Info("✅ Database initialized", slog.String("path", cfg.Storage.Path))
	}

	// 4. Resolve the bar source
	switch cfg.Data.Source {
	case "csv":
		b.Source = infra.NewCSVSource(cfg.Data.CSVPath)
	case "sqlite":
		b.Source = storage.NewBarSource(b.Storage, cfg.Data.Symbol)
	case "ws":
		b.Source = feed.NewSource(cfg.Data.WS.URL, cfg.Data.WS.Symbol, cfg.Data.WS.MaxBars)
	default:
		// Validate already rejected this; keep the fallback explicit.
		return fmt.Errorf("unknown data source: %s", cfg.Data.Source)
	}
	slog.Info("✅ Bar source ready", slog.String("source", cfg.Data.Source))

	// 5. Chart renderer
	if cfg.Chart.Path != "" {
		b.Renderer = infra.NewChartRenderer(cfg.Chart.Width, cfg.Chart.Height)
	}

	return nil
}

// Orchestrator builds the sweep engine from the loaded configuration.
func (b *Bootstrap) Orchestrator() (*engine.Orchestrator, error) {
	cfg := b.Config

	resolution, err := cfg.Resolution()
	if err != nil {
		return nil, err
	}

	grid := engine.Grid{
		Bits:             cfg.Sweep.Bits,
		Periods:          cfg.Sweep.Periods,
		ZScoreThresholds: cfg.Sweep.ZScoreThresholds,
		FeeBps:           cfg.Sweep.FeeBps,
	}

	return engine.NewOrchestrator(
		grid,
		cfg.Sweep.InitialCapital.InexactFloat64(),
		resolution,
		engine.WithWorkers(cfg.Sweep.Workers),
		engine.WithObserver(infra.GlobalMetrics),
	)
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"entropy_go/internal/app"
	"entropy_go/internal/engine"
	"entropy_go/internal/infra"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Load the bar series
	bars, err := bootstrap.Source.Load(ctx)
	if err != nil {
		slog.Error("❌ Failed to load bar series", slog.Any("error", err))
		os.Exit(1)
	}
	slog.InfoContext(ctx, "✅ Bar series loaded", slog.Int("bars", len(bars)))

	// Keep imported series around for later sqlite-sourced runs.
	if bootstrap.Storage != nil && cfg.Data.Source != "sqlite" {
		symbol := cfg.Data.Symbol
		if cfg.Data.Source == "ws" {
			symbol = cfg.Data.WS.Symbol
		}
		if err := bootstrap.Storage.SaveBars(symbol, bars); err != nil {
			slog.Warn("Failed to persist bar series", slog.Any("error", err))
		}
	}

	// 5. Run the sweep
	orch, err := bootstrap.Orchestrator()
	if err != nil {
		slog.Error("❌ Invalid sweep configuration", slog.Any("error", err))
		os.Exit(1)
	}

	report, err := orch.Sweep(ctx, bars)
	if err != nil && report == nil {
		slog.Error("❌ Sweep failed", slog.Any("error", err))
		os.Exit(1)
	}
	if errors.Is(err, context.Canceled) {
		slog.WarnContext(ctx, "Sweep interrupted, reporting partial results")
	}

	// 6. Report
	app.PrintReport(os.Stdout, report, cfg.TopRows())

	if bootstrap.Storage != nil {
		if err := bootstrap.Storage.SaveSummaries(engine.ViewROI, report.ByROI); err != nil {
			slog.Warn("Failed to persist ROI view", slog.Any("error", err))
		}
		if err := bootstrap.Storage.SaveSummaries(engine.ViewSharpe, report.BySharpe); err != nil {
			slog.Warn("Failed to persist Sharpe view", slog.Any("error", err))
		}
		if err := bootstrap.Storage.SaveSummaries(engine.ViewDrawdown, report.ByDrawdown); err != nil {
			slog.Warn("Failed to persist Drawdown view", slog.Any("error", err))
		}
	}

	// 7. Chart the best combination by ROI
	if bootstrap.Renderer != nil && len(report.ByROI) > 0 && !report.ByROI[0].NoData {
		best := report.ByROI[0]
		points, err := orch.Replay(bars, engine.Combination{
			Period:          best.Period,
			ZScoreThreshold: best.ZScoreThreshold,
			FeeBps:          best.FeeBps,
		})
		if err != nil {
			slog.Warn("Failed to replay best combination", slog.Any("error", err))
		} else if err := bootstrap.Renderer.RenderEquity(points, cfg.Chart.Path); err != nil {
			slog.Warn("Failed to render equity chart", slog.Any("error", err))
		} else {
			slog.InfoContext(ctx, "✅ Equity chart written", slog.String("path", cfg.Chart.Path))
		}
	}

	snap := infra.GlobalMetrics.Snapshot()
	slog.InfoContext(ctx, "✨ Sweep complete",
		slog.Uint64("runs", snap.RunsCompleted),
		slog.Uint64("soft", snap.RunsSoft),
		slog.Uint64("bars_simulated", snap.BarsSimulated),
		slog.Int64("avg_sort_ns", snap.AvgSortNs),
	)
}

// Command ingest runs one idempotent ingest pass: it resolves every target
// instrument and loads its daily history, then logs a run summary.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock_ingest/internal/app/di"
	"stock_ingest/internal/feature/ingest/usecase"
	instentity "stock_ingest/internal/feature/instruments/domain/entity"
	symbollistadapters "stock_ingest/internal/feature/symbollist/adapters"
	"stock_ingest/internal/platform/config"
	"stock_ingest/internal/platform/logger"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (default $INGEST_CONFIG)")
	symbols := flag.String("symbols", "", "comma separated symbols, optionally category:symbol")
	refresh := flag.Bool("refresh", false, "purge cached source records before fetching")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall run timeout")
	flag.Parse()

	if *configPath != "" {
		_ = os.Setenv(config.EnvConfigPath, *configPath)
	}
	if *symbols != "" {
		_ = os.Setenv("INGEST_SYMBOLS", *symbols)
	}

	os.Exit(run(*refresh, *timeout))
}

// run returns the process exit code. Only setup failures are fatal.
func run(refresh bool, timeout time.Duration) int {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	closer := logger.Setup(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// db
	gdb, err := di.OpenStore(cfg.Database)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		return 1
	}
	defer func() {
		if err := di.CloseStore(gdb); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	// Redis
	rdb := di.NewRedis(ctx, cfg.Redis)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	src, err := di.NewSource(cfg, rdb)
	if err != nil {
		slog.Error("failed to build source", "error", err)
		return 1
	}
	if refresh && src.Cache != nil {
		if err := src.Cache.Purge(ctx, ""); err != nil {
			slog.Warn("failed to purge source cache", "error", err)
		}
	}

	pipeline := di.NewPipeline(gdb, src, cfg.Ingest)
	reporter := usecase.NewSlogReporter(slog.Default())

	defCategory, _ := instentity.ParseCategory(cfg.Ingest.DefaultCategory, instentity.CategoryStock)
	targets, err := di.ParseTargets(cfg.Ingest.Symbols, defCategory)
	if err != nil {
		slog.Error("invalid ingest symbols", "error", err)
		return 1
	}

	if len(targets) == 0 {
		// CSVはファイル全体をそのまま処理する（ティッカー欠落行も集計に含める）
		if src.CSV != nil {
			summary := pipeline.Process(ctx, src.CSV.Records())
			reporter.Report(ctx, summary)
			return exitCode(ctx)
		}
		targets, err = di.WatchlistTargets(ctx, symbollistadapters.NewSymbolRepository(gdb))
		if err != nil {
			slog.Error("failed to load watchlist", "error", err)
			return 1
		}
	}
	if len(targets) == 0 {
		slog.Warn("nothing to ingest: no symbols configured and the watchlist is empty")
		return 0
	}

	slog.Info("ingest started", "targets", len(targets), "source", cfg.Source.Kind, "concurrency", cfg.Ingest.Concurrency)
	summary, err := pipeline.Run(ctx, targets)
	reporter.Report(ctx, summary)
	if err != nil {
		slog.Error("ingest interrupted", "error", err)
		return 1
	}
	return 0
}

func exitCode(ctx context.Context) int {
	if ctx.Err() != nil {
		slog.Error("ingest interrupted", "error", ctx.Err())
		return 1
	}
	return 0
}

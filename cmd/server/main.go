// Command server runs the ops API: instrument and history lookups, the
// ingest watchlist and an authenticated endpoint that triggers a run.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock_ingest/internal/app/di"
	"stock_ingest/internal/app/router"
	instentity "stock_ingest/internal/feature/instruments/domain/entity"
	"stock_ingest/internal/platform/config"
	jwtmw "stock_ingest/internal/platform/jwt"
	"stock_ingest/internal/platform/logger"
)

func main() {
	issueToken := flag.String("issue-token", "", "print a bearer token for the named operator and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of tokens printed by -issue-token")
	flag.Parse()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	closer := logger.Setup(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	defer func() { _ = closer.Close() }()

	if *issueToken != "" {
		if err := printToken(cfg.Server.JWTSecret, *issueToken, *tokenTTL); err != nil {
			slog.Error("failed to issue token", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := serve(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func printToken(secret, operator string, ttl time.Duration) error {
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	tok, err := jwtmw.NewGenerator(secret, ttl).GenerateToken(operator)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}

func serve(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := di.OpenStore(cfg.Database)
	if err != nil {
		return err
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
		return err
	}
	pipeline := di.NewPipeline(gdb, src, cfg.Ingest)

	defCategory, _ := instentity.ParseCategory(cfg.Ingest.DefaultCategory, instentity.CategoryStock)
	handlers, err := di.NewHandlers(gdb, pipeline, defCategory)
	if err != nil {
		return err
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.Server.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. Protected routes will answer 500.")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.NewRouter(handlers, cfg.Server.JWTSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("ops API listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("ops API stopped")
	return nil
}

package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"stock_ingest/internal/feature/ingest/usecase"
	instentity "stock_ingest/internal/feature/instruments/domain/entity"
	"stock_ingest/internal/platform/cache"
	"stock_ingest/internal/platform/config"
	"stock_ingest/internal/platform/csvsource"
	"stock_ingest/internal/platform/externalapi/twelvedata"
	infrahttp "stock_ingest/internal/platform/http"
	infraredis "stock_ingest/internal/platform/redis"
	"stock_ingest/internal/shared/ratelimiter"
)

// Source bundles the configured record source with what the pipeline needs to drive it.
type Source struct {
	usecase.Source
	// CSV is set when records come from CSV files.
	CSV *csvsource.Source
	// Cache is set when remote fetches are cached in Redis.
	Cache *cache.CachingSource
	// RateLimiter throttles remote fetches; nil for local sources.
	RateLimiter ratelimiter.RateLimiterInterface
}

// NewRedis returns a Redis client, or nil when Redis is not configured or unreachable.
func NewRedis(ctx context.Context, c config.RedisConfig) *redisv9.Client {
	if c.Addr == "" {
		return nil
	}
	rdb, err := infraredis.NewRedisClient(ctx, c.Addr, c.Password)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		return nil
	}
	return rdb
}

// NewSource builds the record source selected by cfg.Source.Kind.
// rdb may be nil.
func NewSource(cfg *config.Config, rdb *redisv9.Client) (*Source, error) {
	switch cfg.Source.Kind {
	case "csv":
		cat, _ := instentity.ParseCategory(cfg.Source.CSVCategory, instentity.CategoryStock)
		src, err := csvsource.Open(cfg.Source.CSVProfiles, cfg.Source.CSVHistory, cat)
		if err != nil {
			return nil, fmt.Errorf("open csv source: %w", err)
		}
		return &Source{Source: src, CSV: src}, nil

	case "twelvedata":
		tdCfg := twelvedata.Config{
			TwelveDataAPIKey: cfg.Source.APIKey,
			BaseURL:          cfg.Source.BaseURL,
			Timeout:          cfg.Source.Timeout,
			OutputSize:       cfg.Source.OutputSize,
		}
		httpClient := infrahttp.NewHTTPClient(tdCfg.Timeout)
		td := twelvedata.NewTwelveDataSource(tdCfg, httpClient)

		// Redisキャッシュでラップ（rdbがnilならバイパス）
		cached := cache.NewCachingSource(rdb, 0, td, cfg.Redis.Namespace)
		return &Source{
			Source:      cached,
			Cache:       cached,
			RateLimiter: ratelimiter.NewRateLimiter(cfg.Source.RateLimitPerMinute, time.Minute),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported source kind %q", cfg.Source.Kind)
	}
}

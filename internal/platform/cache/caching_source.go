// Package cache provides caching decorators for ingest sources.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_ingest/internal/feature/ingest/domain/entity"
	"stock_ingest/internal/feature/ingest/usecase"
	instentity "stock_ingest/internal/feature/instruments/domain/entity"
)

// CachingSource decorates a Source with Redis caching.
// 同じ日のうちに再実行しても外部APIを再度呼ばないように、取得結果をJSONで保存します。
type CachingSource struct {
	inner     usecase.Source
	rdb       *redis.Client
	ttl       func() time.Duration
	namespace string
}

var _ usecase.Source = (*CachingSource)(nil)

// NewCachingSource decorates inner with Redis caching.
// If ttl is 0, entries expire at the next 8 AM (JST). If namespace is empty, it uses "ingest".
// A nil rdb disables caching.
func NewCachingSource(rdb *redis.Client, ttl time.Duration, inner usecase.Source, namespace string) *CachingSource {
	ttlFn := TimeUntilNext8AM
	if ttl > 0 {
		ttlFn = func() time.Duration { return ttl }
	}
	if namespace == "" {
		namespace = "ingest"
	}
	return &CachingSource{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttlFn,
		namespace: namespace,
	}
}

// Fetch returns the cached record for target, fetching from the inner source on a miss.
// Redis errors never fail the fetch.
func (c *CachingSource) Fetch(ctx context.Context, target entity.Target) (entity.SourceRecord, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Fetch(ctx, target)
	}

	key := c.cacheKey(target.Category, target.Symbol)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.SourceRecord
		if err := json.Unmarshal(b, &out); err == nil {
			slog.Debug("source cache hit", "key", key)
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the inner source
	out, err := c.inner.Fetch(ctx, target)
	if err != nil {
		return entity.SourceRecord{}, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl()).Err(); err != nil {
			slog.Warn("failed to cache source record", "key", key, "error", err)
		}
	}
	return out, nil
}

// Purge deletes every cached record of category, or of all categories when category is empty.
func (c *CachingSource) Purge(ctx context.Context, category instentity.Category) error {
	if c.rdb == nil {
		return nil
	}
	prefix := c.namespace + ":"
	if category != "" {
		prefix += safe(string(category)) + ":"
	}
	return c.deleteByPattern(ctx, prefix+"*")
}

// cacheKey generates a cache key for a specific target.
func (c *CachingSource) cacheKey(category instentity.Category, symbol string) string {
	return fmt.Sprintf("%s:%s:%s",
		c.namespace,
		safe(string(category)),
		safe(strings.ToUpper(symbol)),
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingSource) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}

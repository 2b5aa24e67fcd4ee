package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/payroll-management/pkg/cache"
	"github.com/redis/go-redis/v9"
)

// RateCache holds provider responses per base currency. Misses and backend failures look the same
// to callers; a failed write only costs another provider call.
type RateCache interface {
	Get(ctx context.Context, base string) (Rates, bool)
	Set(ctx context.Context, base string, rates Rates)
}

func cacheKey(base string) string {
	return "currency:rates:" + base
}

type MemoryRateCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewMemoryRateCache(ttl time.Duration) *MemoryRateCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryRateCache{cache: cache.New(), ttl: ttl}
}

func (m *MemoryRateCache) Get(_ context.Context, base string) (Rates, bool) {
	v, ok := m.cache.Get(cacheKey(base))
	if !ok {
		return nil, false
	}
	rates, ok := v.(Rates)
	return rates, ok
}

func (m *MemoryRateCache) Set(_ context.Context, base string, rates Rates) {
	m.cache.Set(cacheKey(base), rates, m.ttl)
}

// RedisRateCache shares rates between replicas.
type RedisRateCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisRateCache(ctx context.Context, redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisRateCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisRateCache{rdb: rdb, ttl: ttl, logger: logger}, nil
}

func (r *RedisRateCache) Get(ctx context.Context, base string) (Rates, bool) {
	data, err := r.rdb.Get(ctx, cacheKey(base)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis rate cache read failed", "base", base, "error", err)
		}
		return nil, false
	}
	var rates Rates
	if err := json.Unmarshal(data, &rates); err != nil {
		r.logger.Warn("redis rate cache entry is corrupt", "base", base, "error", err)
		return nil, false
	}
	return rates, true
}

func (r *RedisRateCache) Set(ctx context.Context, base string, rates Rates) {
	data, err := json.Marshal(rates)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, cacheKey(base), data, r.ttl).Err(); err != nil {
		r.logger.Warn("redis rate cache write failed", "base", base, "error", err)
	}
}

func (r *RedisRateCache) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisRateCache) Close() error {
	return r.rdb.Close()
}

// Package cache provides the small key/value stores used for short-lived
// caching: in-process (go-cache) for single instances, Redis when several
// console instances should share entries.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/tenant-console/internal/config"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Store keeps opaque values for a bounded time
type Store interface {
	// Get returns ok=false when the key is missing or expired
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// New builds the store selected by the cache configuration
func New(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	switch cfg.GetCacheDriver() {
	case DriverMemory, "":
		return NewMemory(cfg.GetProfileCacheTTL()), nil
	case DriverRedis:
		return NewRedis(ctx, RedisOptions{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
			Prefix:   "console",
		})
	default:
		return nil, fmt.Errorf("[cache New] unknown driver %q", cfg.GetCacheDriver())
	}
}

package config

import "time"

type CacheConfig interface {
	GetCacheDriver() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetProfileCacheTTL() time.Duration
}

type Cache struct{}

var _ CacheConfig = Cache{}

// GetCacheDriver returns "memory" (default) or "redis"
func (Cache) GetCacheDriver() string {
	return GetEnv("CACHE_DRIVER", "memory")
}

func (Cache) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Cache) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Cache) GetRedisDB() int {
	return GetInt("REDIS_DB", 0)
}

func (Cache) GetProfileCacheTTL() time.Duration {
	return GetDuration("PROFILE_CACHE_TTL", 30*time.Second)
}

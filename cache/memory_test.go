package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/tenant-console/cache"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := cache.NewMemory(time.Minute)

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), v)

	require.NoError(t, s.Delete(ctx, "k"))
	_, ok, _ = s.Get(ctx, "k")
	require.False(t, ok)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := cache.NewMemory(time.Minute)

	require.NoError(t, s.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
	require.Eventually(t, func() bool {
		_, ok, _ := s.Get(ctx, "short")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

type memoryConfig struct{ driver string }

func (c memoryConfig) GetCacheDriver() string { return c.driver }
func (memoryConfig) GetRedisAddr() string { return "" }
func (memoryConfig) GetRedisPassword() string { return "" }
func (memoryConfig) GetRedisDB() int { return 0 }
func (memoryConfig) GetProfileCacheTTL() time.Duration { return time.Second }

func TestNew(t *testing.T) {
	s, err := cache.New(context.Background(), memoryConfig{driver: "memory"})
	require.NoError(t, err)
	require.NotNil(t, s)

	_, err = cache.New(context.Background(), memoryConfig{driver: "etcd"})
	require.Error(t, err)
}

package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memoryStore struct{ c *gocache.Cache }

// NewMemory creates an in-process store. Expired entries are purged every minute.
func NewMemory(defaultTTL time.Duration) Store {
	return &memoryStore{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	return b, true, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.c.Set(key, value, ttl)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

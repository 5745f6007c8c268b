package store

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process store. Artifacts never expire on their own;
// they are replaced wholesale by a forced re-run.
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates an in-memory store.
func NewMemory() *Memory {
	return &Memory{
		cache: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

// Get retrieves a record.
func (m *Memory) Get(key string) ([]byte, error) {
	if val, found := m.cache.Get(key); found {
		return val.([]byte), nil
	}
	return nil, ErrNotFound
}

// Put stores a record, replacing any previous one.
func (m *Memory) Put(key string, value []byte) error {
	m.cache.Set(key, value, gocache.NoExpiration)
	return nil
}

// Exists reports whether the key has a record.
func (m *Memory) Exists(key string) bool {
	_, found := m.cache.Get(key)
	return found
}

// Delete removes a record.
func (m *Memory) Delete(key string) error {
	m.cache.Delete(key)
	return nil
}

package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
)

// memoryQueryCache хранит результаты в памяти процесса.
// size <= 0 - без вытеснения (на время жизни процесса), иначе LRU.
type memoryQueryCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.GeoQueryResult
	lru     *lru.Cache[string, *domain.GeoQueryResult]
}

func NewMemoryQueryCache(size int) repository.QueryCacheRepository {
	if size > 0 {
		l, err := lru.New[string, *domain.GeoQueryResult](size)
		if err == nil {
			return &memoryQueryCache{lru: l}
		}
	}
	return &memoryQueryCache{entries: make(map[string]*domain.GeoQueryResult)}
}

func (m *memoryQueryCache) Get(_ context.Context, query string) (*domain.GeoQueryResult, bool, error) {
	if m.lru != nil {
		v, ok := m.lru.Get(query)
		return v, ok, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[query]
	return v, ok, nil
}

func (m *memoryQueryCache) Set(_ context.Context, query string, result *domain.GeoQueryResult) error {
	if result == nil {
		return nil
	}
	if m.lru != nil {
		m.lru.Add(query, result)
		return nil
	}
	m.mu.Lock()
	m.entries[query] = result
	m.mu.Unlock()
	return nil
}

func (m *memoryQueryCache) Len() int {
	if m.lru != nil {
		return m.lru.Len()
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

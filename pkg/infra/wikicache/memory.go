package wikicache

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

// Memory keeps cache entries in process memory. Entries are lost on restart.
type Memory struct {
	mu      sync.RWMutex
	entries map[model.WikiCacheKey]*model.WikiCacheEntry
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[model.WikiCacheKey]*model.WikiCacheEntry),
	}
}

// Get implements interfaces.WikiCacheRepository
func (x *Memory) Get(ctx context.Context, key model.WikiCacheKey) (*model.WikiCacheEntry, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.entries[key], nil
}

// Put implements interfaces.WikiCacheRepository
func (x *Memory) Put(ctx context.Context, entry *model.WikiCacheEntry) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries[entry.WikiCacheKey] = entry
	return nil
}

// Delete implements interfaces.WikiCacheRepository
func (x *Memory) Delete(ctx context.Context, key model.WikiCacheKey) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.entries[key]; !ok {
		return goerr.New("wiki cache not found", goerr.V("key", key.String()), goerr.T(types.ErrTagNotFound))
	}
	delete(x.entries, key)
	return nil
}

// List implements interfaces.WikiCacheRepository
func (x *Memory) List(ctx context.Context) ([]*model.WikiCacheEntry, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	entries := make([]*model.WikiCacheEntry, 0, len(x.entries))
	for _, e := range x.entries {
		entries = append(entries, e)
	}
	return entries, nil
}

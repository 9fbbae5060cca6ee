package memory

import (
	"context"
	"sync"

	"github.com/fplmate/fpl-live/internal/domain/catalog"
)

// CatalogRepository holds the latest reference snapshot behind a lock.
// Snapshots are replaced whole, never mutated in place.
type CatalogRepository struct {
	mu     sync.RWMutex
	snap   catalog.Snapshot
	loaded bool
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{}
}

func (r *CatalogRepository) Replace(_ context.Context, snap catalog.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snap = snap
	r.loaded = true
	return nil
}

func (r *CatalogRepository) Current(_ context.Context) (catalog.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.loaded {
		return catalog.Snapshot{}, false, nil
	}
	return r.snap, true, nil
}

package memory

import (
	"context"
	"sync"

	"github.com/fplmate/fpl-live/internal/domain/entry"
)

// EntryRepository holds the league roster from the latest standings fetch.
type EntryRepository struct {
	mu      sync.RWMutex
	info    entry.LeagueInfo
	roster  []entry.Entry
	byID    map[int64]entry.Entry
	pending []entry.PendingEntry
	loaded  bool
}

func NewEntryRepository() *EntryRepository {
	return &EntryRepository{}
}

func (r *EntryRepository) ReplaceLeague(_ context.Context, info entry.LeagueInfo, roster []entry.Entry, pending []entry.PendingEntry) error {
	rosterCopy := make([]entry.Entry, len(roster))
	copy(rosterCopy, roster)
	pendingCopy := make([]entry.PendingEntry, len(pending))
	copy(pendingCopy, pending)

	byID := make(map[int64]entry.Entry, len(rosterCopy))
	for _, e := range rosterCopy {
		byID[e.ID] = e
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.info = info
	r.roster = rosterCopy
	r.byID = byID
	r.pending = pendingCopy
	r.loaded = true
	return nil
}

func (r *EntryRepository) League(_ context.Context) (entry.LeagueInfo, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.loaded {
		return entry.LeagueInfo{}, false, nil
	}
	return r.info, true, nil
}

func (r *EntryRepository) Entries(_ context.Context) ([]entry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entry.Entry, len(r.roster))
	copy(out, r.roster)
	return out, nil
}

func (r *EntryRepository) Entry(_ context.Context, entryID int64) (entry.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[entryID]
	if !ok {
		return entry.Entry{}, false, nil
	}
	return e, true, nil
}

func (r *EntryRepository) Pending(_ context.Context) ([]entry.PendingEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entry.PendingEntry, len(r.pending))
	copy(out, r.pending)
	return out, nil
}

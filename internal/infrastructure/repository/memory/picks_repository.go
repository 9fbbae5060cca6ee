package memory

import (
	"context"
	"fmt"

	"github.com/fplmate/fpl-live/internal/domain/picks"
	basecache "github.com/fplmate/fpl-live/internal/platform/cache"
)

const (
	picksKeyPrefix     = "picks:"
	transfersKeyPrefix = "transfers:"
)

func entryGameweekKey(entryID int64, gameweek int) string {
	return fmt.Sprintf("%s%d:%d", picksKeyPrefix, entryID, gameweek)
}

func entryTransfersKey(entryID int64) string {
	return fmt.Sprintf("%s%d", transfersKeyPrefix, entryID)
}

// PicksRepository caches fetched selections per (entry, gameweek) with no
// expiry; entries only leave on Clear during a full refresh.
type PicksRepository struct {
	store *basecache.Store
}

func NewPicksRepository() *PicksRepository {
	return &PicksRepository{store: basecache.NewStore(0)}
}

func (r *PicksRepository) GetOrLoad(ctx context.Context, entryID int64, gameweek int, loader func(context.Context) (picks.EntryGameweek, error)) (picks.EntryGameweek, error) {
	out, err := r.store.GetOrLoad(ctx, entryGameweekKey(entryID, gameweek), func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		return picks.EntryGameweek{}, err
	}

	value, ok := out.(picks.EntryGameweek)
	if !ok {
		return picks.EntryGameweek{}, fmt.Errorf("unexpected cache payload type %T", out)
	}
	// Picks slice is shared with the cache entry; hand out a copy.
	selection := make([]picks.Pick, len(value.Picks))
	copy(selection, value.Picks)
	value.Picks = selection
	return value, nil
}

func (r *PicksRepository) Clear(ctx context.Context) {
	r.store.DeletePrefix(ctx, picksKeyPrefix)
}

// TransferRepository caches each manager's transfer history with no expiry.
type TransferRepository struct {
	store *basecache.Store
}

func NewTransferRepository() *TransferRepository {
	return &TransferRepository{store: basecache.NewStore(0)}
}

func (r *TransferRepository) GetOrLoad(ctx context.Context, entryID int64, loader func(context.Context) ([]picks.Transfer, error)) ([]picks.Transfer, error) {
	out, err := r.store.GetOrLoad(ctx, entryTransfersKey(entryID), func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		return nil, err
	}

	value, ok := out.([]picks.Transfer)
	if !ok {
		return nil, fmt.Errorf("unexpected cache payload type %T", out)
	}
	copied := make([]picks.Transfer, len(value))
	copy(copied, value)
	return copied, nil
}

func (r *TransferRepository) Clear(ctx context.Context) {
	r.store.DeletePrefix(ctx, transfersKeyPrefix)
}

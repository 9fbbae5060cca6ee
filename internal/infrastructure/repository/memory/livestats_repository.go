package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/fplmate/fpl-live/internal/domain/livestats"
	basecache "github.com/fplmate/fpl-live/internal/platform/cache"
)

const liveSheetKeyPrefix = "live:"

func liveSheetKey(gameweek int) string {
	return fmt.Sprintf("%s%d", liveSheetKeyPrefix, gameweek)
}

// LiveStatsRepository caches per-gameweek live sheets for a short ttl so a
// burst of table reads costs one upstream call.
type LiveStatsRepository struct {
	store *basecache.Store
}

func NewLiveStatsRepository(ttl time.Duration) *LiveStatsRepository {
	return &LiveStatsRepository{store: basecache.NewStore(ttl)}
}

// NewLiveStatsRepositoryWithClock is for tests that step expiry manually.
func NewLiveStatsRepositoryWithClock(ttl time.Duration, now func() time.Time) *LiveStatsRepository {
	return &LiveStatsRepository{store: basecache.NewStoreWithClock(ttl, now)}
}

func (r *LiveStatsRepository) GetOrLoad(ctx context.Context, gameweek int, loader func(context.Context) (livestats.Sheet, error)) (livestats.Sheet, error) {
	out, err := r.store.GetOrLoad(ctx, liveSheetKey(gameweek), func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		return livestats.Sheet{}, err
	}

	value, ok := out.(livestats.Sheet)
	if !ok {
		return livestats.Sheet{}, fmt.Errorf("unexpected cache payload type %T", out)
	}
	return value, nil
}

func (r *LiveStatsRepository) Invalidate(ctx context.Context, gameweek int) {
	r.store.Delete(ctx, liveSheetKey(gameweek))
}

package livestats

import "context"

// Repository caches live sheets per gameweek for a short window so bursts
// of reads hit upstream once.
type Repository interface {
	GetOrLoad(ctx context.Context, gameweek int, loader func(context.Context) (Sheet, error)) (Sheet, error)
	Invalidate(ctx context.Context, gameweek int)
}

package picks

import "context"

// Repository caches fetched selections per (entry, gameweek). Entries stay
// until Clear; concurrent loads of the same pair share one loader call.
type Repository interface {
	GetOrLoad(ctx context.Context, entryID int64, gameweek int, loader func(context.Context) (EntryGameweek, error)) (EntryGameweek, error)
	Clear(ctx context.Context)
}

// TransferRepository caches each manager's full transfer history.
type TransferRepository interface {
	GetOrLoad(ctx context.Context, entryID int64, loader func(context.Context) ([]Transfer, error)) ([]Transfer, error)
	Clear(ctx context.Context)
}

package entry

import "context"

// Repository holds the most recent league roster for use cases.
type Repository interface {
	ReplaceLeague(ctx context.Context, info LeagueInfo, roster []Entry, pending []PendingEntry) error
	League(ctx context.Context) (LeagueInfo, bool, error)
	Entries(ctx context.Context) ([]Entry, error)
	Entry(ctx context.Context, entryID int64) (Entry, bool, error)
	Pending(ctx context.Context) ([]PendingEntry, error)
}

package catalog

import "context"

// Repository holds the latest reference catalog snapshot for use cases.
type Repository interface {
	Replace(ctx context.Context, snap Snapshot) error
	Current(ctx context.Context) (Snapshot, bool, error)
}

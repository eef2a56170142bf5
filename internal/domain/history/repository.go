package history

import "context"

// Repository is an append-only log of analyses kept in insertion order.
type Repository interface {
	Append(ctx context.Context, entry Entry) error
	List(ctx context.Context) ([]Entry, error)
}

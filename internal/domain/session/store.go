package session

import "context"

// Store keeps preferences keyed by session ID. Implementations are not durable.
type Store interface {
	Get(ctx context.Context, sessionID string) (Preferences, bool, error)
	Save(ctx context.Context, sessionID string, prefs Preferences) error
}

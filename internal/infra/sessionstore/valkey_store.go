package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/nutrisnap/internal/domain/session"
)

// ValkeyStore shares session preferences across replicas. Entries expire
// after ttl of inactivity.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "nutrisnap"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ValkeyStore) Get(ctx context.Context, sessionID string) (session.Preferences, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(sessionID)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return session.Preferences{}, false, nil
		}
		return session.Preferences{}, false, err
	}
	var prefs session.Preferences
	if err := json.Unmarshal([]byte(payload), &prefs); err != nil {
		return session.Preferences{}, false, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return prefs, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, sessionID string, prefs session.Preferences) error {
	payload, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.key(sessionID)).Value(string(payload))
	if s.ttl > 0 {
		return s.client.Do(ctx, builder.Ex(s.ttl).Build()).Error()
	}
	return s.client.Do(ctx, builder.Build()).Error()
}

func (s *ValkeyStore) key(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, sessionID)
}

var _ session.Store = (*ValkeyStore)(nil)

package sessionstore

import (
	"context"
	"sync"

	"github.com/yanqian/nutrisnap/internal/domain/session"
)

// MemoryStore keeps session preferences for the lifetime of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]session.Preferences
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prefs: make(map[string]session.Preferences)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (session.Preferences, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs, ok := s.prefs[sessionID]
	return prefs, ok, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, prefs session.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[sessionID] = prefs
	return nil
}

var _ session.Store = (*MemoryStore)(nil)

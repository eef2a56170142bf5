package historystore

import (
	"context"
	"sync"

	"github.com/yanqian/nutrisnap/internal/domain/history"
)

// MemoryStore keeps history in process memory for tests and local dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []history.Entry
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, entry history.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]history.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

var _ history.Repository = (*MemoryStore)(nil)

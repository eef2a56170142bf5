package artifactstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/nutrisnap/internal/domain/nutrition"
)

type artifactRecord struct {
	payload   nutrition.Artifact
	expiresAt time.Time
}

// MemoryStore keeps analysis artifacts in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]artifactRecord
	now       func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		artifacts: make(map[string]artifactRecord),
		now:       time.Now,
	}
}

// Save stores the artifact with optional TTL and sweeps expired entries.
func (s *MemoryStore) Save(_ context.Context, artifact nutrition.Artifact, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, record := range s.artifacts {
		if hasExpired(record.expiresAt, now) {
			delete(s.artifacts, id)
		}
	}
	exp := time.Time{}
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	s.artifacts[artifact.ID] = artifactRecord{payload: artifact, expiresAt: exp}
	return nil
}

// Get implements nutrition.ArtifactStore.
func (s *MemoryStore) Get(_ context.Context, id string) (nutrition.Artifact, bool, error) {
	s.mu.RLock()
	record, ok := s.artifacts[id]
	s.mu.RUnlock()
	if !ok {
		return nutrition.Artifact{}, false, nil
	}
	if hasExpired(record.expiresAt, s.now()) {
		s.mu.Lock()
		delete(s.artifacts, id)
		s.mu.Unlock()
		return nutrition.Artifact{}, false, nil
	}
	return record.payload, true, nil
}

func hasExpired(ts, now time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(now)
}

var _ nutrition.ArtifactStore = (*MemoryStore)(nil)

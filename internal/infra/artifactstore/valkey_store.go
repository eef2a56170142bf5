package artifactstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/nutrisnap/internal/domain/nutrition"
)

// ValkeyStore persists analysis artifacts in a Valkey-compatible database so
// downloads survive restarts and work across replicas.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "nutrisnap"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, id string) (nutrition.Artifact, bool, error) {
	cmd := s.client.B().Get().Key(s.artifactKey(id)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nutrition.Artifact{}, false, nil
		}
		return nutrition.Artifact{}, false, err
	}
	var artifact nutrition.Artifact
	if err := json.Unmarshal([]byte(payload), &artifact); err != nil {
		return nutrition.Artifact{}, false, fmt.Errorf("decode artifact %s: %w", id, err)
	}
	return artifact, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, artifact nutrition.Artifact, ttl time.Duration) error {
	payload, err := json.Marshal(artifact)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.artifactKey(artifact.ID)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) artifactKey(id string) string {
	return fmt.Sprintf("%s:artifact:%s", s.prefix, id)
}

var _ nutrition.ArtifactStore = (*ValkeyStore)(nil)

package artifactstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/nutrisnap/internal/domain/nutrition"
)

func TestMemoryStoreSaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, found)

	artifact := nutrition.Artifact{ID: "a1", Report: "Items: Rice", ChartPNG: []byte{1, 2, 3}}
	require.NoError(t, store.Save(ctx, artifact, 0))

	got, found, err := store.Get(ctx, "a1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, artifact, got)
}

func TestMemoryStoreExpires(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, nutrition.Artifact{ID: "a1"}, time.Minute))
	_, found, _ := store.Get(ctx, "a1")
	require.True(t, found)

	now = now.Add(2 * time.Minute)
	_, found, _ = store.Get(ctx, "a1")
	require.False(t, found)

	require.NoError(t, store.Save(ctx, nutrition.Artifact{ID: "a2"}, time.Minute))
	require.Len(t, store.artifacts, 1)
}

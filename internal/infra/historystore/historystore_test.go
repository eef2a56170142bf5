package historystore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/nutrisnap/internal/domain/history"
)

func sampleEntries(n int) []history.Entry {
	entries := make([]history.Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, history.Entry{
			Timestamp:     fmt.Sprintf("2024-07-01 12:%02d", i),
			Source:        fmt.Sprintf("meal-%d.jpg", i),
			TotalCalories: 100 * (i + 1),
			Items:         "Rice - 180 calories | Fish, Fried - 200 calories",
			Nutrients:     "Carbohydrates: 55\nProtein: 25",
			Assessment:    "Assessment complete",
		})
	}
	return entries
}

func exerciseRoundTrip(t *testing.T, repo history.Repository) {
	t.Helper()
	ctx := context.Background()

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)

	want := sampleEntries(4)
	for _, entry := range want {
		require.NoError(t, repo.Append(ctx, entry))
	}
	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestCSVStoreRoundTrip(t *testing.T) {
	exerciseRoundTrip(t, NewCSVStore(filepath.Join(t.TempDir(), "nutrition_history.csv")))
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	exerciseRoundTrip(t, store)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	exerciseRoundTrip(t, NewMemoryStore())
}

func TestCSVStoreWritesPlainRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	store := NewCSVStore(path)
	require.NoError(t, store.Append(context.Background(), history.Entry{
		Timestamp:     "2024-07-01 08:30",
		Source:        "camera_image",
		TotalCalories: 380,
		Items:         "Rice - 180 calories | Fish Fry - 200 calories",
		Assessment:    "Assessment complete",
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "2024-07-01 08:30,camera_image,380,Rice - 180 calories | Fish Fry - 200 calories,,Assessment complete\n", string(raw))
}

func TestCSVStoreToleratesShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte("2024-07-01 08:30,lunch.png,abc\n"), 0o600))

	entries, err := NewCSVStore(path).List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []history.Entry{{Timestamp: "2024-07-01 08:30", Source: "lunch.png"}}, entries)
}

func TestCSVStoreConcurrentLargeRowsStayIntact(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "history.csv"))
	nutrients := strings.Repeat("Carbohydrates: 55 Protein: 25 ", 400)
	require.Greater(t, len(nutrients), 8*1024)

	const writers = 16
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Append(context.Background(), history.Entry{
				Timestamp:     "2024-07-01 12:00",
				Source:        fmt.Sprintf("meal-%d.jpg", i),
				TotalCalories: i,
				Nutrients:     nutrients,
				Assessment:    "Assessment complete",
			})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	entries, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, writers)
	seen := make(map[string]bool, writers)
	for _, entry := range entries {
		require.Equal(t, nutrients, entry.Nutrients)
		require.Equal(t, "Assessment complete", entry.Assessment)
		seen[entry.Source] = true
	}
	require.Len(t, seen, writers)
}

package imagestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryArchivePut(t *testing.T) {
	archive := NewMemoryArchive()
	data := []byte("jpeg-bytes")

	obj, err := archive.Put(context.Background(), "meals/2024-07-01/a.jpg", data, "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "meals/2024-07-01/a.jpg", obj.Key)
	require.Equal(t, int64(len(data)), obj.Size)
	require.Len(t, obj.ETag, 32)

	data[0] = 'X'
	stored, mimeType, ok := archive.Object("meals/2024-07-01/a.jpg")
	require.True(t, ok)
	require.Equal(t, "image/jpeg", mimeType)
	require.Equal(t, "jpeg-bytes", string(stored))

	_, _, ok = archive.Object("missing")
	require.False(t, ok)
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "abc.r2.cloudflarestorage.com", sanitizeEndpoint(" https://abc.r2.cloudflarestorage.com/bucket/path "))
	require.Equal(t, "localhost:9000", sanitizeEndpoint("http://localhost:9000"))
	require.Equal(t, "", sanitizeEndpoint(""))
}

func TestNewR2ArchiveBuildsClient(t *testing.T) {
	archive, err := NewR2Archive("http://localhost:9000", "key", "secret", "meals", "auto", nil)
	require.NoError(t, err)
	require.Equal(t, "meals", archive.bucket)
	require.False(t, archive.bucketReady)
}

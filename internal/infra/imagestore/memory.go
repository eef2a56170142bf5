package imagestore

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"sync"

	"github.com/yanqian/nutrisnap/internal/domain/nutrition"
)

// MemoryArchive keeps meal photos in memory. Useful for tests and local dev.
type MemoryArchive struct {
	mu    sync.RWMutex
	blobs map[string]storedBlob
}

type storedBlob struct {
	data     []byte
	mimeType string
	etag     string
}

// NewMemoryArchive constructs an empty archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{blobs: make(map[string]storedBlob)}
}

// Put stores a copy of the photo and returns metadata.
func (a *MemoryArchive) Put(_ context.Context, key string, data []byte, mimeType string) (nutrition.StoredObject, error) {
	hash := md5.Sum(data)
	etag := hex.EncodeToString(hash[:])
	blob := storedBlob{data: append([]byte(nil), data...), mimeType: mimeType, etag: etag}

	a.mu.Lock()
	a.blobs[key] = blob
	a.mu.Unlock()

	return nutrition.StoredObject{
		Key:      key,
		Size:     int64(len(data)),
		MimeType: mimeType,
		ETag:     etag,
	}, nil
}

// Object returns the stored photo and its MIME type.
func (a *MemoryArchive) Object(key string) ([]byte, string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	blob, ok := a.blobs[key]
	if !ok {
		return nil, "", false
	}
	return blob.data, blob.mimeType, true
}

var _ nutrition.ImageArchive = (*MemoryArchive)(nil)

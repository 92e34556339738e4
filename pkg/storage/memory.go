package storage

import (
	"context"
	"strings"
	"sync"
)

type object struct {
	data        []byte
	contentType string
}

// MemoryUploader keeps objects in process memory. It is used when no
// Cloudinary account is configured.
type MemoryUploader struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]object
}

// NewMemoryUploader serves uploaded objects under baseURL
func NewMemoryUploader(baseURL string) *MemoryUploader {
	return &MemoryUploader{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]object),
	}
}

func (u *MemoryUploader) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	cp := make([]byte, len(data))
	copy(cp, data)

	u.mu.Lock()
	u.objects[key] = object{data: cp, contentType: contentType}
	u.mu.Unlock()

	return u.baseURL + "/" + key, nil
}

// Get returns a stored object
func (u *MemoryUploader) Get(key string) ([]byte, string, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	obj, ok := u.objects[key]
	return obj.data, obj.contentType, ok
}

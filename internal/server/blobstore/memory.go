package blobstore

import (
	"context"
	"sync"

	"github.com/ndenisov/showcase/internal/common"
)

// MemStore is an in-memory Store for tests. It records every upload and
// delete and can be told to fail on demand.
type MemStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	Uploads   []string
	Deletes   []string
	UploadErr error
	DeleteErr error
}

func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string][]byte)}
}

func (m *MemStore) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	m.objects[key] = body
	m.Uploads = append(m.Uploads, key)
	return "https://blobs.test/" + key, nil
}

func (m *MemStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Deletes = append(m.Deletes, key)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.objects[key]; !ok {
		return common.ErrNotFound
	}
	delete(m.objects, key)
	return nil
}

// Has reports whether an object is currently stored under key.
func (m *MemStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

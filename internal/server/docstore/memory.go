package docstore

import (
	"context"
	"sync"

	"github.com/ndenisov/showcase/internal/common"
)

// MemStore is a thread-safe in-memory Store, used in tests and local runs.
type MemStore struct {
	mu sync.RWMutex
	// [table][id]doc
	data map[string]map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]map[string][]byte)}
}

func (m *MemStore) Get(ctx context.Context, table, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.data[table][id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	return cp, nil
}

func (m *MemStore) Put(ctx context.Context, table, id string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data[table] == nil {
		m.data[table] = make(map[string][]byte)
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	m.data[table][id] = cp
	return nil
}

func (m *MemStore) PutIfAbsent(ctx context.Context, table, id string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[table][id]; ok {
		return common.ErrConflict
	}
	if m.data[table] == nil {
		m.data[table] = make(map[string][]byte)
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	m.data[table][id] = cp
	return nil
}

func (m *MemStore) Delete(ctx context.Context, table, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data[table], id)
	return nil
}

func (m *MemStore) Scan(ctx context.Context, table string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([][]byte, 0, len(m.data[table]))
	for _, doc := range m.data[table] {
		cp := make([]byte, len(doc))
		copy(cp, doc)
		docs = append(docs, cp)
	}
	return docs, nil
}

func (m *MemStore) Ping(ctx context.Context) error { return nil }

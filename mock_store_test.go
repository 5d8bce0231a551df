package galois

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// mockStore implements Store for testing without a database.
type mockStore struct {
	contexts map[string]*ContextRecord
	concepts map[string][]*ConceptRecord
	failAdd  error
	failAt   int // fail only the n-th AddConcept call, 1-based
	adds     int
	mu       sync.RWMutex
}

func newMockStore() *mockStore {
	return &mockStore{
		contexts: make(map[string]*ContextRecord),
		concepts: make(map[string][]*ConceptRecord),
	}
}

func (m *mockStore) CreateContext(_ context.Context, record *ContextRecord) (*ContextRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if _, ok := m.contexts[record.ID]; ok {
		return nil, fmt.Errorf("context already exists: %s", record.ID)
	}
	m.contexts[record.ID] = record
	return record, nil
}

func (m *mockStore) GetContext(_ context.Context, id string) (*ContextRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.contexts[id]
	if !ok {
		return nil, fmt.Errorf("context not found: %s", id)
	}
	return record, nil
}

func (m *mockStore) AddConcept(_ context.Context, record *ConceptRecord) (*ConceptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAdd != nil {
		return nil, m.failAdd
	}
	m.adds++
	if m.failAt > 0 && m.adds == m.failAt {
		return nil, fmt.Errorf("concept write %d failed", m.adds)
	}
	if _, ok := m.contexts[record.ContextID]; !ok {
		return nil, fmt.Errorf("context not found: %s", record.ContextID)
	}
	record.ID = uuid.New().String()
	m.concepts[record.ContextID] = append(m.concepts[record.ContextID], record)
	return record, nil
}

func (m *mockStore) GetConcepts(_ context.Context, contextID string) ([]*ConceptRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*ConceptRecord, len(m.concepts[contextID]))
	copy(records, m.concepts[contextID])
	sort.Slice(records, func(a, b int) bool {
		return records[a].Sequence < records[b].Sequence
	})
	return records, nil
}

func (m *mockStore) DeleteContext(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.contexts, id)
	delete(m.concepts, id)
	return nil
}

var _ Store = (*mockStore)(nil)

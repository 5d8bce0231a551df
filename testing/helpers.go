// Package galoistest provides test utilities for galois.
package galoistest

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/zoobzio/galois"
)

// MockStore implements galois.Store for testing without a database.
type MockStore struct {
	contexts map[string]*galois.ContextRecord
	concepts map[string][]*galois.ConceptRecord
	mu       sync.RWMutex
}

// NewMockStore creates a new in-memory mock for galois.Store.
func NewMockStore() *MockStore {
	return &MockStore{
		contexts: make(map[string]*galois.ContextRecord),
		concepts: make(map[string][]*galois.ConceptRecord),
	}
}

// CreateContext persists a context record, assigning an ID when it has none.
func (m *MockStore) CreateContext(_ context.Context, record *galois.ContextRecord) (*galois.ContextRecord, error) {
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

// GetContext loads a context record by ID.
func (m *MockStore) GetContext(_ context.Context, id string) (*galois.ContextRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.contexts[id]
	if !ok {
		return nil, fmt.Errorf("context not found: %s", id)
	}
	return record, nil
}

// AddConcept persists a concept record and returns it with ID populated.
func (m *MockStore) AddConcept(_ context.Context, record *galois.ConceptRecord) (*galois.ConceptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.contexts[record.ContextID]; !ok {
		return nil, fmt.Errorf("context not found: %s", record.ContextID)
	}
	record.ID = uuid.New().String()
	m.concepts[record.ContextID] = append(m.concepts[record.ContextID], record)
	return record, nil
}

// GetConcepts loads the concepts of a context ordered by sequence index.
func (m *MockStore) GetConcepts(_ context.Context, contextID string) ([]*galois.ConceptRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*galois.ConceptRecord, len(m.concepts[contextID]))
	copy(records, m.concepts[contextID])
	sort.Slice(records, func(a, b int) bool {
		return records[a].Sequence < records[b].Sequence
	})
	return records, nil
}

// DeleteContext removes a context and all its concepts.
func (m *MockStore) DeleteContext(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.contexts, id)
	delete(m.concepts, id)
	return nil
}

// Len returns the number of stored contexts.
func (m *MockStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.contexts)
}

// Verify MockStore implements galois.Store.
var _ galois.Store = (*MockStore)(nil)

// ScenarioGrid is the six-object, four-attribute relation used throughout the
// tests: objects 1 and 3 hold every attribute, objects 0 and 4 none.
var ScenarioGrid = [][]int{
	{0, 0, 0, 0},
	{1, 1, 1, 1},
	{0, 1, 1, 0},
	{1, 1, 1, 1},
	{0, 0, 0, 0},
	{0, 1, 0, 0},
}

// NewTestContext creates a context from a 0/1 grid, failing the test on error.
func NewTestContext(t testing.TB, grid [][]int) *galois.FormalContext {
	t.Helper()
	fc, err := galois.NewFromInts(context.Background(), "test", grid)
	if err != nil {
		t.Fatalf("failed to create test context: %v", err)
	}
	return fc
}

// RandomGrid returns an n x m grid whose cells are 1 with the given density.
func RandomGrid(rng *rand.Rand, n, m int, density float64) [][]int {
	grid := make([][]int, n)
	for i := range grid {
		grid[i] = make([]int, m)
		for j := range grid[i] {
			if rng.Float64() < density {
				grid[i][j] = 1
			}
		}
	}
	return grid
}

// RandomContext creates a context from RandomGrid.
func RandomContext(t testing.TB, rng *rand.Rand, n, m int, density float64) *galois.FormalContext {
	t.Helper()
	return NewTestContext(t, RandomGrid(rng, n, m, density))
}

// BruteForce enumerates the concepts of m independently of any generator: it
// closes every subset of attributes and keeps the distinct results with a
// non-empty extent and intent. It returns concept keys (see galois.Concept.Key)
// in ascending order. Only practical for small attribute counts.
func BruteForce(m galois.Matrix) []string {
	cols := m.Cols()
	seen := make(map[string]struct{})
	for mask := 0; mask < 1<<cols; mask++ {
		var attrs []int
		for j := 0; j < cols; j++ {
			if mask&(1<<j) != 0 {
				attrs = append(attrs, j)
			}
		}
		objects, err := m.CommonObjects(attrs...)
		if err != nil || objects.IsEmpty() {
			continue
		}
		closed, err := m.CommonAttributes(objects.Items()...)
		if err != nil || closed.IsEmpty() {
			continue
		}
		seen[objects.Key()+"|"+closed.Key()] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Keys returns the keys of concepts in ascending order.
func Keys(concepts []*galois.Concept) []string {
	keys := make([]string, len(concepts))
	for i, c := range concepts {
		keys[i] = c.Key()
	}
	sort.Strings(keys)
	return keys
}

// RequireGenerated generates fc with gen, failing the test on error.
func RequireGenerated(t testing.TB, gen galois.Generator, fc *galois.FormalContext) *galois.FormalContext {
	t.Helper()
	out, err := gen.Generate(context.Background(), fc)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	return out
}

// RequireSameConcepts asserts that concepts has exactly the given keys.
func RequireSameConcepts(t testing.TB, concepts []*galois.Concept, want []string) {
	t.Helper()
	got := Keys(concepts)
	if len(got) != len(want) {
		t.Fatalf("expected %d concepts, got %d\nwant: %v\ngot:  %v", len(want), len(got), want, got)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("concept mismatch at %d: want %s, got %s", i, want[i], got[i])
		}
	}
}

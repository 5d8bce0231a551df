package galoistest

import (
	"context"
	"math/rand"
	"testing"

	"github.com/zoobzio/galois"
)

func TestMockStore(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()

	t.Run("CreateContext assigns ID", func(t *testing.T) {
		record, err := store.CreateContext(ctx, &galois.ContextRecord{Name: "a"})
		if err != nil {
			t.Fatalf("CreateContext failed: %v", err)
		}
		if record.ID == "" {
			t.Error("expected record to have ID")
		}
	})

	t.Run("AddConcept requires context", func(t *testing.T) {
		_, err := store.AddConcept(ctx, &galois.ConceptRecord{ContextID: "missing"})
		if err == nil {
			t.Error("expected error for unknown context")
		}
	})

	t.Run("GetConcepts orders by sequence", func(t *testing.T) {
		record, err := store.CreateContext(ctx, &galois.ContextRecord{Name: "b"})
		if err != nil {
			t.Fatalf("CreateContext failed: %v", err)
		}
		for _, seq := range []int{3, 1, 2} {
			if _, err := store.AddConcept(ctx, &galois.ConceptRecord{ContextID: record.ID, Sequence: seq}); err != nil {
				t.Fatalf("AddConcept failed: %v", err)
			}
		}
		concepts, err := store.GetConcepts(ctx, record.ID)
		if err != nil {
			t.Fatalf("GetConcepts failed: %v", err)
		}
		for i, c := range concepts {
			if c.Sequence != i+1 {
				t.Errorf("position %d: expected sequence %d, got %d", i, i+1, c.Sequence)
			}
		}
	})

	t.Run("DeleteContext", func(t *testing.T) {
		record, _ := store.CreateContext(ctx, &galois.ContextRecord{Name: "c"})
		if err := store.DeleteContext(ctx, record.ID); err != nil {
			t.Fatalf("DeleteContext failed: %v", err)
		}
		if _, err := store.GetContext(ctx, record.ID); err == nil {
			t.Error("expected error after delete")
		}
	})
}

func TestBruteForceScenario(t *testing.T) {
	fc := NewTestContext(t, ScenarioGrid)
	keys := BruteForce(fc.Relation())

	want := []string{
		"1,2,3,5|1",
		"1,2,3|1,2",
		"1,3|0,1,2,3",
	}
	if len(keys) != len(want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], keys[i])
		}
	}
}

func TestRandomGridShape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	grid := RandomGrid(rng, 5, 7, 0.5)
	if len(grid) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(grid))
	}
	for _, row := range grid {
		if len(row) != 7 {
			t.Fatalf("expected 7 columns, got %d", len(row))
		}
	}
}

func TestRequireGeneratedMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		fc := RandomContext(t, rng, 8, 6, 0.4)
		want := BruteForce(fc.Relation())
		out := RequireGenerated(t, galois.NewInClose(), fc)
		RequireSameConcepts(t, out.Concepts(), want)
	}
}

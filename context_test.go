package galois

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestNewContext(t *testing.T) {
	fc := newTestContext(t, scenarioGrid)

	if fc.ID == "" {
		t.Error("expected ID to be generated")
	}
	if fc.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if fc.ObjectCount() != 6 || fc.AttributeCount() != 4 {
		t.Errorf("expected 6x4, got %dx%d", fc.ObjectCount(), fc.AttributeCount())
	}
	if !hasRelation(t, fc, 2, 1) || hasRelation(t, fc, 2, 0) {
		t.Error("relation cells not preserved")
	}
	if fc.Generated() || fc.Len() != 0 {
		t.Error("new context should be ungenerated and empty")
	}
}

func TestNewContextCopiesRelation(t *testing.T) {
	m := mustMatrix(t, [][]int{{1, 0}, {0, 1}})
	fc, err := New(context.Background(), "copy", m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m[0][0] = false
	if !hasRelation(t, fc, 0, 0) {
		t.Error("context should not share the caller's matrix")
	}

	r := fc.Relation()
	r[1][1] = false
	if !hasRelation(t, fc, 1, 1) {
		t.Error("Relation should return a copy")
	}
}

func TestNewContextErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := New(ctx, "nil", nil); !errors.Is(err, ErrInvalidContext) {
		t.Errorf("expected ErrInvalidContext for nil relation, got %v", err)
	}
	ragged := Matrix{{true, false}, {true}}
	if _, err := New(ctx, "ragged", ragged); !errors.Is(err, ErrInvalidContext) {
		t.Errorf("expected ErrInvalidContext for ragged relation, got %v", err)
	}
	var nilContext *FormalContext
	if err := nilContext.Validate(); !errors.Is(err, ErrInvalidContext) {
		t.Errorf("expected ErrInvalidContext for nil context, got %v", err)
	}
}

func TestSetNames(t *testing.T) {
	fc := newTestContext(t, scenarioGrid)

	if fc.Named() {
		t.Error("new context should be unnamed")
	}
	if fc.ObjectName(4) != "o4" || fc.AttributeName(1) != "a1" {
		t.Errorf("expected index names, got %q and %q", fc.ObjectName(4), fc.AttributeName(1))
	}

	if err := fc.SetNames(nil, []string{"w", "x", "y", "z"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fc.Named() || fc.AttributeName(3) != "z" {
		t.Error("attribute names not attached")
	}
	if fc.ObjectNames() != nil {
		t.Error("objects should stay unnamed")
	}

	if err := fc.SetNames([]string{"a"}, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for wrong object count, got %v", err)
	}
	if err := fc.SetNames(nil, []string{"a"}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for wrong attribute count, got %v", err)
	}
}

func TestRestore(t *testing.T) {
	fc := newTestContext(t, scenarioGrid)
	concepts := []*Concept{
		NewConcept(3, NewExtent(1, 2, 3), NewIntent(1, 2), FormalConcept),
		NewConcept(1, NewExtent(1, 3), NewIntent(0, 1, 2, 3), FormalConcept),
	}

	if err := fc.Restore(concepts, Stats{Algorithm: AlgorithmInClose, Concepts: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fc.Generated() {
		t.Error("restored context should be generated")
	}
	ordered := fc.Concepts()
	if ordered[0].Sequence() != 1 || ordered[1].Sequence() != 3 {
		t.Errorf("expected concepts ordered by sequence, got %v", ordered)
	}
	if c, ok := fc.Concept(3); !ok || !c.Intent().Equal(NewIntent(1, 2)) {
		t.Error("expected lookup by sequence")
	}
	if fc.Stats().Concepts != 2 {
		t.Errorf("expected stats to be restored, got %+v", fc.Stats())
	}

	if err := fc.Restore(concepts, Stats{}); !errors.Is(err, ErrInvalidContext) {
		t.Errorf("expected ErrInvalidContext on second restore, got %v", err)
	}
}

func TestLabels(t *testing.T) {
	fc := newGeneratedContext(t, scenarioGrid)

	if _, ok := fc.Label(1); ok {
		t.Error("expected no label")
	}
	fc.SetLabel(1, "complete")
	if label, ok := fc.Label(1); !ok || label != "complete" {
		t.Errorf("expected label 'complete', got %q", label)
	}
}

func TestClone(t *testing.T) {
	fc := newTestContext(t, scenarioGrid)
	if err := fc.SetNames([]string{"a", "b", "c", "d", "e", "f"}, nil); err != nil {
		t.Fatalf("SetNames failed: %v", err)
	}
	if _, err := NewInClose().Generate(context.Background(), fc); err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	fc.SetLabel(2, "original")

	clone := fc.Clone()

	if clone.ID != fc.ID || clone.Name != fc.Name {
		t.Error("clone should keep identity")
	}
	if !clone.Generated() || clone.Len() != fc.Len() {
		t.Error("clone should keep concepts")
	}
	if clone.ObjectName(5) != "f" {
		t.Error("clone should keep names")
	}

	clone.SetLabel(2, "changed")
	if label, _ := fc.Label(2); label != "original" {
		t.Errorf("clone labels should be independent, got %q", label)
	}

	c, _ := clone.Concept(1)
	c.SetType(Infimum)
	if orig, _ := fc.Concept(1); orig.Type() != FormalConcept {
		t.Error("clone concepts should be independent")
	}
}

func TestConcept(t *testing.T) {
	extent := NewExtent(1, 3)
	c := NewConcept(5, extent, NewIntent(0, 2), "")

	if c.Type() != FormalConcept {
		t.Errorf("expected default type %s, got %s", FormalConcept, c.Type())
	}
	if c.Key() != "1,3|0,2" {
		t.Errorf("expected key 1,3|0,2, got %s", c.Key())
	}

	extent.Add(4)
	if c.Extent().Contains(4) {
		t.Error("concept should copy its extent")
	}

	same := NewConcept(9, NewExtent(3, 1), NewIntent(2, 0), Supremum)
	if !c.Equal(same) {
		t.Error("concepts with the same sets should be equal")
	}
	if c.Equal(nil) {
		t.Error("concept should not equal nil")
	}

	top := NewSupremum(3)
	if top.Extent().Len() != 3 || !top.Intent().IsEmpty() || top.Type() != Supremum {
		t.Errorf("unexpected supremum %s", top)
	}
}

func TestConceptAccessorsReturnCopies(t *testing.T) {
	c := NewConcept(1, NewExtent(1, 3), NewIntent(0, 1), FormalConcept)

	e := c.Extent()
	e.Add(5)
	in := c.Intent()
	in.Add(7)

	if c.Extent().Contains(5) || c.Extent().Len() != 2 {
		t.Errorf("extent changed through accessor: %s", c.Extent())
	}
	if c.Intent().Contains(7) || c.Intent().Len() != 2 {
		t.Errorf("intent changed through accessor: %s", c.Intent())
	}
	if c.Key() != "1,3|0,1" {
		t.Errorf("expected key 1,3|0,1, got %s", c.Key())
	}
	if !c.Equal(NewConcept(2, NewExtent(1, 3), NewIntent(0, 1), FormalConcept)) {
		t.Error("concept should still equal its original sets")
	}
}

func TestConceptTypeConcurrentAccess(t *testing.T) {
	c := NewConcept(1, NewExtent(0), NewIntent(0), FormalConcept)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.SetType(Infimum)
		}()
		go func() {
			defer wg.Done()
			_ = c.Type()
		}()
	}
	wg.Wait()

	if c.Type() != Infimum {
		t.Errorf("expected %s, got %s", Infimum, c.Type())
	}
}

func hasRelation(t *testing.T, fc *FormalContext, i, j int) bool {
	t.Helper()
	ok, err := fc.HasRelation(i, j)
	if err != nil {
		t.Fatalf("HasRelation(%d, %d) failed: %v", i, j, err)
	}
	return ok
}

func TestHasRelationOutOfRange(t *testing.T) {
	fc := newTestContext(t, scenarioGrid)

	tests := []struct {
		name string
		i, j int
	}{
		{"negative object", -1, 0},
		{"object past end", 6, 0},
		{"negative attribute", 0, -1},
		{"attribute past end", 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fc.HasRelation(tt.i, tt.j); !errors.Is(err, ErrInvalidContext) {
				t.Errorf("expected ErrInvalidContext, got %v", err)
			}
		})
	}
}

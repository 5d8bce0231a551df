package galois

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/pipz"
)

func TestDo(t *testing.T) {
	fc := newTestContext(t, scenarioGrid)

	processor := Do("attach-names", func(_ context.Context, fc *FormalContext) (*FormalContext, error) {
		return fc, fc.SetNames(nil, []string{"a", "b", "c", "d"})
	})

	result, err := processor.Process(context.Background(), fc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AttributeName(2) != "c" {
		t.Errorf("expected attribute name %q, got %q", "c", result.AttributeName(2))
	}
}

func TestDoWithError(t *testing.T) {
	fc := newTestContext(t, scenarioGrid)

	processor := Do("bad-names", func(_ context.Context, fc *FormalContext) (*FormalContext, error) {
		return fc, fc.SetNames([]string{"only one"}, nil)
	})

	_, err := processor.Process(context.Background(), fc)
	if err == nil {
		t.Error("expected error from Do processor")
	}

	// pipz wraps errors, so just check that the error contains our message
	if err != nil && err.Error() == "" {
		t.Error("expected non-empty error message")
	}
}

func TestTransform(t *testing.T) {
	processor := Transform("rename", func(_ context.Context, fc *FormalContext) *FormalContext {
		fc.Name = "renamed"
		return fc
	})

	result, err := processor.Process(context.Background(), newTestContext(t, scenarioGrid))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Name != "renamed" {
		t.Errorf("expected %q, got %q", "renamed", result.Name)
	}
}

func TestEffect(t *testing.T) {
	var seen int
	processor := Effect("count", func(_ context.Context, fc *FormalContext) error {
		seen = fc.Len()
		return nil
	})

	fc := newGeneratedContext(t, scenarioGrid)
	result, err := processor.Process(context.Background(), fc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != fc {
		t.Error("expected Effect to pass the context through")
	}
	if seen != 3 {
		t.Errorf("expected effect to observe 3 concepts, got %d", seen)
	}
}

func TestSequence(t *testing.T) {
	pipeline := Sequence("analyze",
		NewReducer(),
		NewInClose(),
		NewVerifier(),
		NewLatticeBuilder(),
	)

	source := newTestContext(t, scenarioGrid)
	result, err := pipeline.Process(context.Background(), source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result == source {
		t.Error("expected the reduced context to flow through the pipeline")
	}
	if source.Generated() {
		t.Error("the source context should not be generated")
	}
	if !result.Generated() {
		t.Fatal("expected the reduced context to be generated")
	}
	// Reduction merges the duplicate rows and columns but keeps every concept.
	if result.Len() != 3 {
		t.Errorf("expected 3 concepts, got %d", result.Len())
	}
	if result.Lattice() == nil {
		t.Error("expected the lattice to be attached")
	}
}

func TestFilter(t *testing.T) {
	generateOnce := Filter("generate-once",
		func(_ context.Context, fc *FormalContext) bool {
			return !fc.Generated()
		},
		NewInClose(),
	)

	fc := newTestContext(t, scenarioGrid)
	for i := 0; i < 2; i++ {
		if _, err := generateOnce.Process(context.Background(), fc); err != nil {
			t.Fatalf("pass %d: unexpected error: %v", i, err)
		}
	}
	if fc.Len() != 3 {
		t.Errorf("expected 3 concepts, got %d", fc.Len())
	}
}

func TestFallback(t *testing.T) {
	broken := Do("broken", func(_ context.Context, fc *FormalContext) (*FormalContext, error) {
		return fc, errors.New("unavailable")
	})
	fallback := Fallback("generate", broken, NewInClose())

	result, err := fallback.Process(context.Background(), newTestContext(t, scenarioGrid))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Generated() {
		t.Error("expected the fallback generator to run")
	}
}

func TestRetry(t *testing.T) {
	var attempts int32
	flaky := Do("flaky", func(_ context.Context, fc *FormalContext) (*FormalContext, error) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return fc, errors.New("transient")
		}
		return fc, nil
	})

	if _, err := Retry("retry", flaky, 3).Process(context.Background(), newTestContext(t, scenarioGrid)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&attempts) != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestTimeout(t *testing.T) {
	bounded := Timeout("bounded", NewParallelInClose(2), time.Second)

	result, err := bounded.Process(context.Background(), newTestContext(t, scenarioGrid))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKeys(t, conceptKeys(result.Concepts()), scenarioConcepts)
}

func TestRace(t *testing.T) {
	source := newTestContext(t, scenarioGrid)
	fastest := Race("fastest", NewInClose(), NewParallelInClose(2))

	result, err := fastest.Process(context.Background(), source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKeys(t, conceptKeys(result.Concepts()), scenarioConcepts)
	if source.Generated() {
		t.Error("racers should work on clones")
	}
}

func TestConcurrent(t *testing.T) {
	source := newTestContext(t, scenarioGrid)

	both := Concurrent("both",
		func(original *FormalContext, results map[pipz.Identity]*FormalContext, _ map[pipz.Identity]error) *FormalContext {
			for id, fc := range results {
				if id.Name() == AlgorithmInClose {
					return fc
				}
			}
			return original
		},
		NewInClose(),
		NewParallelInClose(2),
	)

	result, err := both.Process(context.Background(), source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == source {
		t.Fatal("expected the reducer to pick the serial result")
	}
	assertKeys(t, conceptKeys(result.Concepts()), scenarioConcepts)
	if source.Generated() {
		t.Error("concurrent processors should work on clones")
	}
}

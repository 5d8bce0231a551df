package galois

import (
	"context"
	"errors"
	"math/rand"
	"runtime"
	"testing"
	"time"

	"github.com/zoobzio/capitan"
	capitantesting "github.com/zoobzio/capitan/testing"
)

func TestParallelInCloseMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 30; i++ {
		grid := randomGrid(rng, 2+rng.Intn(12), 1+rng.Intn(8), 0.2+rng.Float64()*0.6)

		serial := newGeneratedContext(t, grid)
		parallel, err := NewParallelInClose(3).Generate(context.Background(), newTestContext(t, grid))
		if err != nil {
			t.Fatalf("parallel generation failed: %v", err)
		}

		a, b := serial.Concepts(), parallel.Concepts()
		if len(a) != len(b) {
			t.Fatalf("grid %d: expected %d concepts, got %d", i, len(a), len(b))
		}
		for k := range a {
			if a[k].Sequence() != b[k].Sequence() || !a[k].Equal(b[k]) {
				t.Fatalf("grid %d position %d: serial %s, parallel %s", i, k, a[k], b[k])
			}
		}

		ss, ps := serial.Stats(), parallel.Stats()
		if ss.Candidates != ps.Candidates || ss.Empty != ps.Empty || ss.Implied != ps.Implied ||
			ss.Rejected != ps.Rejected || ss.Frames != ps.Frames || ss.Concepts != ps.Concepts {
			t.Errorf("grid %d: stats differ\nserial:   %+v\nparallel: %+v", i, ss, ps)
		}
	}
}

func TestParallelInCloseScenario(t *testing.T) {
	fc, err := NewParallelInClose(0).Generate(context.Background(), newTestContext(t, scenarioGrid))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertKeys(t, conceptKeys(fc.Concepts()), scenarioConcepts)

	stats := fc.Stats()
	if stats.Algorithm != AlgorithmParallelInClose {
		t.Errorf("expected algorithm %q, got %q", AlgorithmParallelInClose, stats.Algorithm)
	}
	// Attributes 0 and 1 lead canonical subtrees; 2 and 3 are rejected at the root.
	if stats.Partitions != 2 {
		t.Errorf("expected 2 partitions, got %d", stats.Partitions)
	}
}

func TestParallelInCloseWorkers(t *testing.T) {
	if got := NewParallelInClose(4).Workers(); got != 4 {
		t.Errorf("expected 4 workers, got %d", got)
	}
	if got := NewParallelInClose(0).Workers(); got != runtime.GOMAXPROCS(0) {
		t.Errorf("expected GOMAXPROCS workers, got %d", got)
	}

	DefaultWorkers = 2
	defer func() { DefaultWorkers = 0 }()
	if got := NewParallelInClose(-1).Workers(); got != 2 {
		t.Errorf("expected DefaultWorkers, got %d", got)
	}
}

func TestParallelInCloseSingleWorker(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	grid := randomGrid(rng, 10, 6, 0.5)

	fc, err := NewParallelInClose(1).Generate(context.Background(), newTestContext(t, grid))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKeys(t, conceptKeys(fc.Concepts()), bruteForce(t, fc.relation))
}

func TestParallelInCloseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fc := newTestContext(t, scenarioGrid)
	_, err := NewParallelInClose(2).Generate(ctx, fc)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fc.Generated() {
		t.Error("failed generation should release the context")
	}
	if fc.Len() != 0 {
		t.Errorf("failed generation should not add concepts, got %d", fc.Len())
	}

	// The released context can be generated again.
	if _, err := NewParallelInClose(2).Generate(context.Background(), fc); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	assertKeys(t, conceptKeys(fc.Concepts()), scenarioConcepts)
}

func TestParallelInClosePartitionEvents(t *testing.T) {
	capture := capitantesting.NewEventCapture()
	listener := capitan.Hook(PartitionCompleted, capture.Handler())
	defer listener.Close()

	fc := newTestContext(t, scenarioGrid)
	if _, err := NewParallelInClose(2).Generate(context.Background(), fc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !capture.WaitForCount(2, time.Second) {
		t.Fatal("expected a PartitionCompleted event per subtree")
	}
	leads := make(map[int]bool)
	for _, e := range capture.Events() {
		if getStringField(e, FieldContextID.Name()) != fc.ID {
			continue
		}
		leads[getIntField(e, FieldPartition.Name())] = true
	}
	if !leads[0] || !leads[1] {
		t.Errorf("expected partitions 0 and 1, got %v", leads)
	}
}

func TestSplit(t *testing.T) {
	fc := newTestContext(t, [][]int{
		{1, 1, 0},
		{1, 0, 1},
	})
	root, parts := split(fc.relation)

	if !sameInts(root.frames[0].intent, []int{0}) {
		t.Errorf("expected root intent [0], got %v", root.frames[0].intent)
	}
	if len(parts) != 2 {
		t.Fatalf("expected 2 partitions, got %d", len(parts))
	}
	if parts[0].lead != 1 || !sameInts(parts[0].intent, []int{0, 1}) || !sameInts(parts[0].extent, []int{0}) {
		t.Errorf("unexpected first partition %+v", parts[0])
	}
	if parts[1].lead != 2 || !sameInts(parts[1].intent, []int{0, 2}) || !sameInts(parts[1].extent, []int{1}) {
		t.Errorf("unexpected second partition %+v", parts[1])
	}
}

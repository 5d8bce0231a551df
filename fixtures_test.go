package galois

import (
	"context"
	"math/rand"
	"sort"
	"testing"
)

// scenarioGrid holds objects 1 and 3 with every attribute and objects 0 and 4
// with none.
var scenarioGrid = [][]int{
	{0, 0, 0, 0},
	{1, 1, 1, 1},
	{0, 1, 1, 0},
	{1, 1, 1, 1},
	{0, 0, 0, 0},
	{0, 1, 0, 0},
}

// scenarioConcepts are the concept keys of scenarioGrid in ascending order.
var scenarioConcepts = []string{
	"1,2,3,5|1",
	"1,2,3|1,2",
	"1,3|0,1,2,3",
}

// newTestContext creates a context from a 0/1 grid.
func newTestContext(t testing.TB, grid [][]int) *FormalContext {
	t.Helper()
	fc, err := NewFromInts(context.Background(), "test", grid)
	if err != nil {
		t.Fatalf("failed to create context: %v", err)
	}
	return fc
}

// newGeneratedContext creates and generates a context with InClose.
func newGeneratedContext(t testing.TB, grid [][]int) *FormalContext {
	t.Helper()
	fc, err := NewInClose().Generate(context.Background(), newTestContext(t, grid))
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	return fc
}

func randomGrid(rng *rand.Rand, n, m int, density float64) [][]int {
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

// bruteForce closes every attribute subset of m and returns the distinct
// concepts with a non-empty extent and intent as sorted keys.
func bruteForce(t testing.TB, m Matrix) []string {
	t.Helper()
	seen := make(map[string]struct{})
	for mask := 0; mask < 1<<m.Cols(); mask++ {
		var attrs []int
		for j := 0; j < m.Cols(); j++ {
			if mask&(1<<j) != 0 {
				attrs = append(attrs, j)
			}
		}
		extent, intent, err := closeIntent(m, NewIntent(attrs...))
		if err != nil {
			t.Fatalf("closure failed: %v", err)
		}
		if extent.IsEmpty() || intent.IsEmpty() {
			continue
		}
		seen[extent.Key()+"|"+intent.Key()] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func conceptKeys(concepts []*Concept) []string {
	keys := make([]string, len(concepts))
	for i, c := range concepts {
		keys[i] = c.Key()
	}
	sort.Strings(keys)
	return keys
}

func assertKeys(t testing.TB, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d concepts, got %d\nwant: %v\ngot:  %v", len(want), len(got), want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("concept mismatch at %d: want %s, got %s", i, want[i], got[i])
		}
	}
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

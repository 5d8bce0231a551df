package galois

import (
	"context"
	"runtime"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
	"golang.org/x/sync/errgroup"
)

// ParallelInClose runs the InClose search with the top-level attribute range
// partitioned into independent subtrees. Every subtree owns a private frame
// arena; the relation is shared read-only. Its output, sequence indices and
// statistics included, is identical to InClose.
//
// Cancellation is observed between partitions only: a subtree that has
// started always runs to completion.
type ParallelInClose struct {
	identity pipz.Identity
	workers  int
}

// NewParallelInClose creates the partitioned generator. Workers <= 0 selects
// DefaultWorkers, then runtime.GOMAXPROCS(0).
func NewParallelInClose(workers int) *ParallelInClose {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &ParallelInClose{
		identity: pipz.NewIdentity(AlgorithmParallelInClose, "Partitioned InClose concept generator"),
		workers:  workers,
	}
}

// WithName overrides the pipeline name.
func (g *ParallelInClose) WithName(name string) *ParallelInClose {
	g.identity = pipz.NewIdentity(name, g.identity.Description())
	return g
}

// Workers returns the subtree concurrency limit.
func (g *ParallelInClose) Workers() int {
	return g.workers
}

// partition is one top-level subtree: the child of the root reached through
// attribute lead.
type partition struct {
	lead   int
	extent []int
	intent []int
	search *search
}

// Generate implements Generator.
func (g *ParallelInClose) Generate(ctx context.Context, fc *FormalContext) (*FormalContext, error) {
	return generate(ctx, fc, AlgorithmParallelInClose, g.enumerate)
}

func (g *ParallelInClose) enumerate(ctx context.Context, fc *FormalContext) ([]*Concept, Stats, error) {
	root, parts := split(fc.relation)

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, min(g.workers, len(parts))))

	for _, p := range parts {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			p.search = newSearch(fc.relation)
			p.search.run(p.extent, p.intent, p.lead+1)

			capitan.Emit(egctx, PartitionCompleted,
				FieldContextID.Field(fc.ID),
				FieldPartition.Field(p.lead),
				FieldConceptCount.Field(len(p.search.found)),
				FieldWorkers.Field(g.workers),
			)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, Stats{}, err
	}

	// Renumber: the root keeps 0, each subtree follows the previous one.
	concepts := root.concepts(0)
	stats := root.stats
	offset := len(root.found)
	for _, p := range parts {
		concepts = append(concepts, p.search.concepts(offset)...)
		stats.add(p.search.stats)
		offset += len(p.search.found)
	}
	stats.Partitions = len(parts)
	return concepts, stats, nil
}

// split performs the root level of the search serially. It returns a search
// holding only the root frame, with every attribute shared by all objects in
// its intent, and the canonical top-level children in attribute order.
func split(relation Matrix) (*search, []*partition) {
	root := newSearch(relation)
	all := rangeInts(relation.Rows())
	var intent []int
	var parts []*partition

	for j := 0; j < root.attrs; j++ {
		root.stats.Candidates++

		var extent []int
		for _, i := range all {
			if relation[i][j] {
				extent = append(extent, i)
			}
		}

		switch {
		case len(extent) == 0:
			root.stats.Empty++
		case len(extent) == len(all):
			intent = append(intent, j)
			root.stats.Implied++
		case !root.canonical(intent, extent, j-1):
			root.stats.Rejected++
		default:
			child := make([]int, len(intent), len(intent)+1)
			copy(child, intent)
			parts = append(parts, &partition{
				lead:   j,
				extent: extent,
				intent: append(child, j),
			})
		}
	}

	root.frames[0].extent = all
	root.frames[0].intent = intent
	root.frames[0].seq = root.discover()
	root.finish(0)
	return root, parts
}

// Process implements pipz.Chainable[*FormalContext].
func (g *ParallelInClose) Process(ctx context.Context, fc *FormalContext) (*FormalContext, error) {
	return g.Generate(ctx, fc)
}

// Identity implements pipz.Chainable[*FormalContext].
func (g *ParallelInClose) Identity() pipz.Identity {
	return g.identity
}

// Schema implements pipz.Chainable[*FormalContext].
func (g *ParallelInClose) Schema() pipz.Node {
	return pipz.Node{Identity: g.identity, Type: "parallel-inclose"}
}

// Close implements pipz.Chainable[*FormalContext].
func (g *ParallelInClose) Close() error {
	return nil
}

var _ Generator = (*ParallelInClose)(nil)

var _ pipz.Chainable[*FormalContext] = (*ParallelInClose)(nil)

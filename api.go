// Package galois provides Formal Concept Analysis for Go.
//
// galois enumerates the formal concepts of a binary relation between objects
// and attributes with the InClose algorithm, and composes the surrounding
// steps (reduction, verification, lattice construction, labeling and
// persistence) as pipz pipelines over a [FormalContext].
//
// # Core Types
//
//   - [FormalContext] - The cross table plus the concepts discovered in it
//   - [Concept] - An (extent, intent) pair with a classification and a sequence index
//   - [IndexSet] - Ordered, deduplicated indices with set equality; [Extent] and [Intent] wrap it
//   - [Matrix] - The row-major boolean relation
//
// # Creating Contexts
//
//	fc, err := galois.NewFromInts(ctx, "animals", [][]int{
//	    {1, 1, 0},
//	    {0, 1, 1},
//	})
//	fc.SetNames([]string{"cat", "frog"}, []string{"fur", "legs", "swims"})
//
// The [contextio] subpackage reads contexts from CSV, JSON, TOML and YAML.
//
// # Generating Concepts
//
// A [Generator] populates a context exactly once:
//
//   - [NewInClose] - The serial depth-first search
//   - [NewParallelInClose] - The same search with top-level subtrees run concurrently
//
// Both emit every concept with a non-empty extent and intent, in the same
// order and with the same sequence indices.
//
//	fc, err = galois.NewInClose().Generate(ctx, fc)
//	for _, c := range fc.Concepts() {
//	    fmt.Println(c.Extent(), c.Intent())
//	}
//
// # Pipeline Steps
//
//   - [NewReducer] - Collapse duplicate objects and attributes into a new context
//   - [NewVerifier] - Check the closure law and uniqueness of every concept
//   - [NewLatticeBuilder] - Add boundary concepts and compute the covering relation
//   - [NewLabeler] - Name concepts with an LLM
//   - [NewPersister] - Save the context and concepts to a [Store]
//
// Compose them with [Sequence] and the other connector helpers:
//
//	pipeline := galois.Sequence("analyze",
//	    galois.NewReducer(),
//	    galois.NewParallelInClose(0),
//	    galois.NewVerifier(),
//	)
//	fc, err = pipeline.Process(ctx, fc)
//
// # Reduction Utilities
//
// [DuplicateRows], [DuplicateColumns] and [Remove] operate on a bare [Matrix]
// and can be used without a context.
//
// # Provider
//
// Labeling resolves its LLM provider in order:
//
//  1. Explicit parameter (.WithProvider(p))
//  2. Context value (galois.WithProvider(ctx, p))
//  3. Global default (galois.SetProvider(p))
//
// # Observability
//
// Operations emit capitan signals (see signals.go); hook them to log or
// measure generation without wrapping the API.
//
// [contextio]: https://pkg.go.dev/github.com/zoobzio/galois/contextio
package galois

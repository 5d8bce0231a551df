package galois

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Generator enumerates the formal concepts of a context.
//
// Generate populates fc with every formal concept that has a non-empty
// extent and a non-empty intent, and returns it. It fails with
// ErrInvalidContext, and without adding any concept, when fc is nil, has no
// objects, or was already generated.
type Generator interface {
	Generate(ctx context.Context, fc *FormalContext) (*FormalContext, error)
}

// Algorithm names accepted by NewGenerator.
const (
	AlgorithmInClose         = "inclose"
	AlgorithmParallelInClose = "parallel-inclose"
)

// NewGenerator returns the generator registered under algorithm. Workers only
// applies to the parallel variant; zero selects DefaultWorkers. An empty
// algorithm selects DefaultAlgorithm.
func NewGenerator(algorithm string, workers int) (Generator, error) {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	switch algorithm {
	case AlgorithmInClose:
		return NewInClose(), nil
	case AlgorithmParallelInClose, "parallel":
		return NewParallelInClose(workers), nil
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidArgument, algorithm)
	}
}

// Stats describes the work done by one generation.
type Stats struct {
	Algorithm  string        `json:"algorithm" yaml:"algorithm" msgpack:"algorithm"`
	Candidates int           `json:"candidates" yaml:"candidates" msgpack:"candidates"` // attribute candidates examined
	Empty      int           `json:"empty" yaml:"empty" msgpack:"empty"`                // candidates with no objects
	Implied    int           `json:"implied" yaml:"implied" msgpack:"implied"`          // attributes folded into the current intent
	Rejected   int           `json:"rejected" yaml:"rejected" msgpack:"rejected"`       // non-canonical candidates
	Frames     int           `json:"frames" yaml:"frames" msgpack:"frames"`             // search nodes including the root
	Concepts   int           `json:"concepts" yaml:"concepts" msgpack:"concepts"`
	Partitions int           `json:"partitions,omitempty" yaml:"partitions,omitempty" msgpack:"partitions,omitempty"`
	Duration   time.Duration `json:"duration" yaml:"duration" msgpack:"duration"`
}

func (s *Stats) add(other Stats) {
	s.Candidates += other.Candidates
	s.Empty += other.Empty
	s.Implied += other.Implied
	s.Rejected += other.Rejected
	s.Frames += other.Frames
}

// enumerate is the algorithm-specific part of a generation.
type enumerate func(ctx context.Context, fc *FormalContext) ([]*Concept, Stats, error)

// generate runs an enumeration with validation, lifecycle checks and signals.
func generate(ctx context.Context, fc *FormalContext, algorithm string, fn enumerate) (*FormalContext, error) {
	start := time.Now()

	if err := fc.Validate(); err != nil {
		emitGenerationFailed(ctx, fc, algorithm, start, err)
		return fc, err
	}
	if err := fc.claim(); err != nil {
		emitGenerationFailed(ctx, fc, algorithm, start, err)
		return fc, err
	}

	capitan.Emit(ctx, GenerationStarted,
		FieldContextID.Field(fc.ID),
		FieldAlgorithm.Field(algorithm),
		FieldObjectCount.Field(fc.ObjectCount()),
		FieldAttributeCount.Field(fc.AttributeCount()),
	)

	concepts, stats, err := fn(ctx, fc)
	if err != nil {
		fc.release()
		emitGenerationFailed(ctx, fc, algorithm, start, err)
		return fc, fmt.Errorf("%s: %w", algorithm, err)
	}

	stats.Algorithm = algorithm
	stats.Concepts = len(concepts)
	stats.Duration = time.Since(start)
	fc.publish(concepts, stats)

	capitan.Emit(ctx, GenerationCompleted,
		FieldContextID.Field(fc.ID),
		FieldAlgorithm.Field(algorithm),
		FieldConceptCount.Field(stats.Concepts),
		FieldCandidates.Field(stats.Candidates),
		FieldRejected.Field(stats.Rejected),
		FieldDuration.Field(stats.Duration),
	)

	return fc, nil
}

func emitGenerationFailed(ctx context.Context, fc *FormalContext, algorithm string, start time.Time, err error) {
	id := ""
	if fc != nil {
		id = fc.ID
	}
	capitan.Error(ctx, GenerationFailed,
		FieldContextID.Field(id),
		FieldAlgorithm.Field(algorithm),
		FieldDuration.Field(time.Since(start)),
		FieldError.Field(err),
	)
}

// InClose is the serial InClose concept generator.
// It implements Generator and pipz.Chainable[*FormalContext].
type InClose struct {
	identity pipz.Identity
}

// NewInClose creates the serial InClose generator.
func NewInClose() *InClose {
	return &InClose{identity: pipz.NewIdentity(AlgorithmInClose, "Serial InClose concept generator")}
}

// WithName overrides the pipeline name.
func (g *InClose) WithName(name string) *InClose {
	g.identity = pipz.NewIdentity(name, g.identity.Description())
	return g
}

// Generate implements Generator.
func (g *InClose) Generate(ctx context.Context, fc *FormalContext) (*FormalContext, error) {
	return generate(ctx, fc, AlgorithmInClose, func(_ context.Context, fc *FormalContext) ([]*Concept, Stats, error) {
		s := newSearch(fc.relation)
		s.run(rangeInts(fc.ObjectCount()), nil, 0)
		return s.concepts(0), s.stats, nil
	})
}

// Process implements pipz.Chainable[*FormalContext].
func (g *InClose) Process(ctx context.Context, fc *FormalContext) (*FormalContext, error) {
	return g.Generate(ctx, fc)
}

// Identity implements pipz.Chainable[*FormalContext].
func (g *InClose) Identity() pipz.Identity {
	return g.identity
}

// Schema implements pipz.Chainable[*FormalContext].
func (g *InClose) Schema() pipz.Node {
	return pipz.Node{Identity: g.identity, Type: "inclose"}
}

// Close implements pipz.Chainable[*FormalContext].
func (g *InClose) Close() error {
	return nil
}

var _ Generator = (*InClose)(nil)

var _ pipz.Chainable[*FormalContext] = (*InClose)(nil)

func rangeInts(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

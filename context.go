package galois

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
)

// FormalContext is a binary relation between objects and attributes together
// with the concepts discovered in it.
//
// # Lifecycle
//
// A context is created once, optionally reduced (which produces a new
// context), and handed to a Generator exactly once. The relation never changes
// after construction. Concepts are append-only; only their classification and
// labels may be amended afterwards.
//
// # Concurrency
//
// The relation is read-only and safe to share. Concept reads (Concepts,
// Concept, Len) are safe for concurrent use; writes (Restore, SetLabel)
// are serialised by an internal lock. A generator owns the context while it
// runs; do not generate the same context from two goroutines.
type FormalContext struct {
	// Identity
	ID        string
	Name      string
	CreatedAt time.Time

	relation   Matrix
	objects    []string
	attributes []string
	reduction  *Reduction

	concepts   []*Concept
	bySequence map[int]int
	labels     map[int]string
	lattice    *Lattice
	stats      Stats
	generated  bool
	mu         sync.RWMutex
}

// New creates a formal context from a boolean relation. The relation is
// copied; it must have at least one row and all rows must have equal length.
func New(ctx context.Context, name string, relation Matrix) (*FormalContext, error) {
	fc, err := newContext(name, relation)
	if err != nil {
		return nil, err
	}

	capitan.Emit(ctx, ContextCreated,
		FieldContextID.Field(fc.ID),
		FieldContextName.Field(fc.Name),
		FieldObjectCount.Field(fc.ObjectCount()),
		FieldAttributeCount.Field(fc.AttributeCount()),
	)

	return fc, nil
}

// NewFromInts creates a formal context from a 0/1 grid.
func NewFromInts(ctx context.Context, name string, grid [][]int) (*FormalContext, error) {
	relation, err := MatrixFromInts(grid)
	if err != nil {
		return nil, err
	}
	return New(ctx, name, relation)
}

func newContext(name string, relation Matrix) (*FormalContext, error) {
	if len(relation) == 0 {
		return nil, fmt.Errorf("%w: relation has no objects", ErrInvalidContext)
	}
	if err := relation.Validate(); err != nil {
		return nil, err
	}
	return &FormalContext{
		ID:         uuid.New().String(),
		Name:       name,
		CreatedAt:  time.Now(),
		relation:   relation.Clone(),
		bySequence: make(map[int]int),
		labels:     make(map[int]string),
	}, nil
}

// ObjectCount returns n, the number of rows.
func (fc *FormalContext) ObjectCount() int {
	return len(fc.relation)
}

// AttributeCount returns m, the number of columns.
func (fc *FormalContext) AttributeCount() int {
	return fc.relation.Cols()
}

// HasRelation reports whether object i has attribute j. Indices outside the
// relation yield ErrInvalidContext.
func (fc *FormalContext) HasRelation(i, j int) (bool, error) {
	if i < 0 || i >= fc.ObjectCount() {
		return false, fmt.Errorf("%w: object index %d out of range [0, %d)", ErrInvalidContext, i, fc.ObjectCount())
	}
	if j < 0 || j >= fc.AttributeCount() {
		return false, fmt.Errorf("%w: attribute index %d out of range [0, %d)", ErrInvalidContext, j, fc.AttributeCount())
	}
	return fc.relation[i][j], nil
}

// Relation returns a copy of the cross table.
func (fc *FormalContext) Relation() Matrix {
	return fc.relation.Clone()
}

// Validate checks the context can be handed to a generator.
func (fc *FormalContext) Validate() error {
	if fc == nil {
		return fmt.Errorf("%w: nil context", ErrInvalidContext)
	}
	if fc.ObjectCount() == 0 {
		return fmt.Errorf("%w: relation has no objects", ErrInvalidContext)
	}
	return fc.relation.Validate()
}

// SetNames attaches object and attribute names. Either slice may be nil to
// leave that dimension unnamed.
func (fc *FormalContext) SetNames(objects, attributes []string) error {
	if objects != nil && len(objects) != fc.ObjectCount() {
		return fmt.Errorf("%w: %d object names for %d objects", ErrInvalidArgument, len(objects), fc.ObjectCount())
	}
	if attributes != nil && len(attributes) != fc.AttributeCount() {
		return fmt.Errorf("%w: %d attribute names for %d attributes", ErrInvalidArgument, len(attributes), fc.AttributeCount())
	}
	fc.objects = cloneStrings(objects)
	fc.attributes = cloneStrings(attributes)
	return nil
}

// ObjectName returns the name of object i, or its index when unnamed.
func (fc *FormalContext) ObjectName(i int) string {
	if i >= 0 && i < len(fc.objects) {
		return fc.objects[i]
	}
	return fmt.Sprintf("o%d", i)
}

// AttributeName returns the name of attribute j, or its index when unnamed.
func (fc *FormalContext) AttributeName(j int) string {
	if j >= 0 && j < len(fc.attributes) {
		return fc.attributes[j]
	}
	return fmt.Sprintf("a%d", j)
}

// ObjectNames returns the object names, nil when unnamed.
func (fc *FormalContext) ObjectNames() []string {
	return cloneStrings(fc.objects)
}

// AttributeNames returns the attribute names, nil when unnamed.
func (fc *FormalContext) AttributeNames() []string {
	return cloneStrings(fc.attributes)
}

// Named reports whether attribute names are attached.
func (fc *FormalContext) Named() bool {
	return fc.attributes != nil
}

// Reduction returns the mapping to the context this one was reduced from, or
// nil when the context was not produced by Reduce.
func (fc *FormalContext) Reduction() *Reduction {
	return fc.reduction
}

// SetReduction attaches a reduction mapping read back from a store or
// snapshot. The mapping is copied.
func (fc *FormalContext) SetReduction(r *Reduction) {
	fc.reduction = r.clone()
}

// Restore installs concepts produced by an earlier generation, for example
// when loading a context from a store or snapshot. It fails with
// ErrInvalidContext if the context was already generated.
func (fc *FormalContext) Restore(concepts []*Concept, stats Stats) error {
	if err := fc.claim(); err != nil {
		return err
	}
	fc.publish(concepts, stats)
	return nil
}

// Concepts returns the discovered concepts ordered by sequence index.
func (fc *FormalContext) Concepts() []*Concept {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	out := make([]*Concept, len(fc.concepts))
	copy(out, fc.concepts)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Sequence() < out[b].Sequence()
	})
	return out
}

// Concept returns the concept with the given sequence index.
func (fc *FormalContext) Concept(sequence int) (*Concept, bool) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	i, ok := fc.bySequence[sequence]
	if !ok {
		return nil, false
	}
	return fc.concepts[i], true
}

// Len returns the number of discovered concepts.
func (fc *FormalContext) Len() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.concepts)
}

// Generated reports whether a generator has populated the context.
func (fc *FormalContext) Generated() bool {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.generated
}

// claim marks the context as handed to a generator. It fails if another
// generation already claimed it.
func (fc *FormalContext) claim() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.generated {
		return fmt.Errorf("%w: concepts already generated for context %s", ErrInvalidContext, fc.ID)
	}
	fc.generated = true
	return nil
}

// release undoes claim after a failed generation.
func (fc *FormalContext) release() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.generated = false
}

// publish installs a finished generation in one step.
func (fc *FormalContext) publish(concepts []*Concept, stats Stats) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for _, c := range concepts {
		fc.concepts = append(fc.concepts, c)
		fc.bySequence[c.Sequence()] = len(fc.concepts) - 1
	}
	fc.stats = stats
}

// Stats returns the statistics of the generation that populated the context.
func (fc *FormalContext) Stats() Stats {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.stats
}

// classify amends the classification of a concept. The concept guards its
// own classification.
func (fc *FormalContext) classify(c *Concept, kind ConceptType) {
	c.SetType(kind)
}

// Lattice returns the lattice attached by a LatticeBuilder step, or nil.
func (fc *FormalContext) Lattice() *Lattice {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.lattice
}

func (fc *FormalContext) setLattice(l *Lattice) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.lattice = l
}

// SetLabel attaches a human-readable label to a concept.
func (fc *FormalContext) SetLabel(sequence int, label string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.labels[sequence] = label
}

// Label returns the label of a concept, if any.
func (fc *FormalContext) Label(sequence int) (string, bool) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	l, ok := fc.labels[sequence]
	return l, ok
}

// Clone creates a deep copy for parallel pipelines.
// Required for pipz.Concurrent and other parallel connectors. The attached
// lattice is not copied.
func (fc *FormalContext) Clone() *FormalContext {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	clone := &FormalContext{
		ID:         fc.ID,
		Name:       fc.Name,
		CreatedAt:  fc.CreatedAt,
		relation:   fc.relation.Clone(),
		objects:    cloneStrings(fc.objects),
		attributes: cloneStrings(fc.attributes),
		reduction:  fc.reduction.clone(),
		concepts:   make([]*Concept, len(fc.concepts)),
		bySequence: make(map[int]int, len(fc.bySequence)),
		labels:     make(map[int]string, len(fc.labels)),
		stats:      fc.stats,
		generated:  fc.generated,
	}
	for i, c := range fc.concepts {
		clone.concepts[i] = NewConcept(c.Sequence(), c.Extent(), c.Intent(), c.Type())
	}
	for k, v := range fc.bySequence {
		clone.bySequence[k] = v
	}
	for k, v := range fc.labels {
		clone.labels[k] = v
	}
	return clone
}

// Compile-time check: *FormalContext must implement pipz.Cloner[*FormalContext].
var _ interface{ Clone() *FormalContext } = (*FormalContext)(nil)

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

package galois

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Lattice is the concept lattice of a generated context: its concepts plus
// the top and bottom boundary concepts, ordered by extent inclusion and
// connected by the covering relation.
type Lattice struct {
	context  *FormalContext
	top      *Concept
	bottom   *Concept
	concepts []*Concept
	bySeq    map[int]*Concept
	parents  map[int][]int
	children map[int][]int
	edges    int
}

// Edge is one covering pair: Child's extent is a maximal proper subset of
// Parent's extent.
type Edge struct {
	Parent int `json:"parent" yaml:"parent"`
	Child  int `json:"child" yaml:"child"`
}

// BuildLattice orders the concepts of a generated context into a lattice.
//
// The top concept (every object) and bottom concept (every attribute) are
// added when the generator did not emit them; existing ones are reclassified
// as Supremum and Infimum in place. An added top takes sequence 0, an added
// bottom the next unused sequence index.
func BuildLattice(ctx context.Context, fc *FormalContext) (*Lattice, error) {
	start := time.Now()
	if err := fc.Validate(); err != nil {
		return nil, err
	}
	if !fc.Generated() {
		return nil, fmt.Errorf("%w: context %s", ErrNotGenerated, fc.ID)
	}

	concepts := fc.Concepts()
	l := &Lattice{
		context:  fc,
		bySeq:    make(map[int]*Concept, len(concepts)+2),
		parents:  make(map[int][]int, len(concepts)+2),
		children: make(map[int][]int, len(concepts)+2),
	}

	next := 0
	for _, c := range concepts {
		next = max(next, c.Sequence()+1)
	}

	topExtent, topIntent, err := closeIntent(fc.relation, NewIntent())
	if err != nil {
		return nil, err
	}
	bottomExtent, bottomIntent, err := closeIntent(fc.relation, Intent{RangeSet(fc.AttributeCount())})
	if err != nil {
		return nil, err
	}

	for _, c := range concepts {
		if c.extent.Equal(topExtent) {
			l.top = c
		}
		if c.intent.Equal(bottomIntent) {
			l.bottom = c
		}
	}
	if l.top == nil {
		l.top = NewConcept(0, topExtent, topIntent, Supremum)
		concepts = append([]*Concept{l.top}, concepts...)
	}
	if l.bottom == nil {
		if l.top.intent.Equal(bottomIntent) {
			l.bottom = l.top
		} else {
			l.bottom = NewConcept(next, bottomExtent, bottomIntent, Infimum)
			concepts = append(concepts, l.bottom)
		}
	}
	fc.classify(l.bottom, Infimum)
	fc.classify(l.top, Supremum)

	l.concepts = concepts
	for _, c := range concepts {
		l.bySeq[c.Sequence()] = c
	}
	l.cover()

	capitan.Emit(ctx, LatticeBuilt,
		FieldContextID.Field(fc.ID),
		FieldConceptCount.Field(len(l.concepts)),
		FieldEdgeCount.Field(l.edges),
		FieldDuration.Field(time.Since(start)),
	)

	return l, nil
}

// cover computes the covering relation. For every concept the candidates
// with a strictly larger extent are visited smallest first; a candidate is a
// parent unless it contains a parent already chosen.
func (l *Lattice) cover() {
	bySize := make([]*Concept, len(l.concepts))
	copy(bySize, l.concepts)
	sort.SliceStable(bySize, func(a, b int) bool {
		return bySize[a].extent.Len() < bySize[b].extent.Len()
	})

	for _, c := range l.concepts {
		var chosen []*Concept
		for _, p := range bySize {
			if p.extent.Len() <= c.extent.Len() || !c.extent.SubsetOf(p.extent.IndexSet) {
				continue
			}
			covered := false
			for _, q := range chosen {
				if q.extent.SubsetOf(p.extent.IndexSet) {
					covered = true
					break
				}
			}
			if covered {
				continue
			}
			chosen = append(chosen, p)
			l.parents[c.Sequence()] = append(l.parents[c.Sequence()], p.Sequence())
			l.children[p.Sequence()] = append(l.children[p.Sequence()], c.Sequence())
			l.edges++
		}
	}
	for _, seqs := range l.parents {
		sort.Ints(seqs)
	}
	for _, seqs := range l.children {
		sort.Ints(seqs)
	}
}

// Context returns the context the lattice was built from.
func (l *Lattice) Context() *FormalContext {
	return l.context
}

// Top returns the supremum.
func (l *Lattice) Top() *Concept {
	return l.top
}

// Bottom returns the infimum.
func (l *Lattice) Bottom() *Concept {
	return l.bottom
}

// Concepts returns every concept of the lattice, boundary concepts included,
// ordered by sequence index.
func (l *Lattice) Concepts() []*Concept {
	out := make([]*Concept, len(l.concepts))
	copy(out, l.concepts)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Sequence() < out[b].Sequence()
	})
	return out
}

// Concept returns the lattice concept with the given sequence index.
func (l *Lattice) Concept(sequence int) (*Concept, bool) {
	c, ok := l.bySeq[sequence]
	return c, ok
}

// Len returns the number of concepts in the lattice.
func (l *Lattice) Len() int {
	return len(l.concepts)
}

// Parents returns the concepts directly above sequence.
func (l *Lattice) Parents(sequence int) []*Concept {
	return l.lookup(l.parents[sequence])
}

// Children returns the concepts directly below sequence.
func (l *Lattice) Children(sequence int) []*Concept {
	return l.lookup(l.children[sequence])
}

// Edges returns the covering relation ordered by parent, then child.
func (l *Lattice) Edges() []Edge {
	out := make([]Edge, 0, l.edges)
	for child, parents := range l.parents {
		for _, p := range parents {
			out = append(out, Edge{Parent: p, Child: child})
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Parent != out[b].Parent {
			return out[a].Parent < out[b].Parent
		}
		return out[a].Child < out[b].Child
	})
	return out
}

// EdgeCount returns the size of the covering relation.
func (l *Lattice) EdgeCount() int {
	return l.edges
}

func (l *Lattice) lookup(seqs []int) []*Concept {
	out := make([]*Concept, 0, len(seqs))
	for _, s := range seqs {
		out = append(out, l.bySeq[s])
	}
	return out
}

// LatticeBuilder is the pipeline step form of BuildLattice. The lattice is
// attached to the context and available through FormalContext.Lattice.
type LatticeBuilder struct {
	identity pipz.Identity
}

// NewLatticeBuilder creates a lattice construction step.
func NewLatticeBuilder() *LatticeBuilder {
	return &LatticeBuilder{identity: pipz.NewIdentity("lattice", "Concept lattice construction")}
}

// WithName overrides the pipeline name.
func (b *LatticeBuilder) WithName(name string) *LatticeBuilder {
	b.identity = pipz.NewIdentity(name, b.identity.Description())
	return b
}

// Process implements pipz.Chainable[*FormalContext].
func (b *LatticeBuilder) Process(ctx context.Context, fc *FormalContext) (*FormalContext, error) {
	l, err := BuildLattice(ctx, fc)
	if err != nil {
		return fc, err
	}
	fc.setLattice(l)
	return fc, nil
}

// Identity implements pipz.Chainable[*FormalContext].
func (b *LatticeBuilder) Identity() pipz.Identity {
	return b.identity
}

// Schema implements pipz.Chainable[*FormalContext].
func (b *LatticeBuilder) Schema() pipz.Node {
	return pipz.Node{Identity: b.identity, Type: "lattice"}
}

// Close implements pipz.Chainable[*FormalContext].
func (b *LatticeBuilder) Close() error {
	return nil
}

var _ pipz.Chainable[*FormalContext] = (*LatticeBuilder)(nil)

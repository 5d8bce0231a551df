package galois

import (
	"fmt"
	"sync"
)

// ConceptType classifies a concept within its lattice.
type ConceptType string

const (
	// FormalConcept is an ordinary (extent, intent) pair found by a generator.
	FormalConcept ConceptType = "formal_concept"

	// Supremum marks the top of the lattice: every object, common attributes.
	Supremum ConceptType = "supremum"

	// Infimum marks the bottom of the lattice: every attribute, common objects.
	Infimum ConceptType = "infimum"
)

// Concept is an immutable (extent, intent) pair.
//
// The sequence index is the order in which the generator discovered the
// concept; lattice construction uses it as a stable identifier. Only the
// classification may change after creation, via SetType.
type Concept struct {
	extent   Extent
	intent   Intent
	sequence int

	mu   sync.RWMutex
	kind ConceptType
}

// NewConcept creates a concept. The extent and intent are copied.
func NewConcept(sequence int, extent Extent, intent Intent, kind ConceptType) *Concept {
	if kind == "" {
		kind = FormalConcept
	}
	return &Concept{
		extent:   Extent{extent.Clone()},
		intent:   Intent{intent.Clone()},
		kind:     kind,
		sequence: sequence,
	}
}

// NewSupremum returns the boundary concept holding every object and no
// attributes. Its sequence index is 0, the root of every search.
func NewSupremum(objectCount int) *Concept {
	return &Concept{
		extent: Extent{RangeSet(objectCount)},
		intent: NewIntent(),
		kind:   Supremum,
	}
}

// Extent returns a copy of the objects of the concept.
func (c *Concept) Extent() Extent {
	return Extent{c.extent.Clone()}
}

// Intent returns a copy of the attributes of the concept.
func (c *Concept) Intent() Intent {
	return Intent{c.intent.Clone()}
}

// Type returns the classification.
func (c *Concept) Type() ConceptType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kind
}

// SetType amends the classification.
func (c *Concept) SetType(kind ConceptType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kind = kind
}

// Sequence returns the discovery index.
func (c *Concept) Sequence() int {
	return c.sequence
}

// Equal reports whether both concepts have the same extent and intent.
func (c *Concept) Equal(other *Concept) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	return c.extent.Equal(other.extent) && c.intent.Equal(other.intent)
}

// Key identifies the concept by its extent and intent, independent of order.
func (c *Concept) Key() string {
	return c.extent.Key() + "|" + c.intent.Key()
}

func (c *Concept) String() string {
	return fmt.Sprintf("#%d %s extent=%s intent=%s", c.sequence, c.Type(), c.extent, c.intent)
}

package galois

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// IndexSet is an ordered collection of distinct non-negative integers.
// Entries keep their insertion order, but equality is set equality.
//
// The zero value is an empty set ready to use. An IndexSet is built with Add
// and then treated as frozen; copies share storage, so use Clone before
// mutating a set obtained from somewhere else.
type IndexSet struct {
	items   []int
	members map[int]struct{}
}

// NewIndexSet creates a set from indices, dropping duplicates and negative values.
func NewIndexSet(indices ...int) IndexSet {
	s := IndexSet{
		items:   make([]int, 0, len(indices)),
		members: make(map[int]struct{}, len(indices)),
	}
	for _, i := range indices {
		s.Add(i)
	}
	return s
}

// RangeSet returns the set {0, 1, ..., n-1}.
func RangeSet(n int) IndexSet {
	s := IndexSet{
		items:   make([]int, 0, max(n, 0)),
		members: make(map[int]struct{}, max(n, 0)),
	}
	for i := 0; i < n; i++ {
		s.Add(i)
	}
	return s
}

// Add appends i if it is not already present. It reports whether the set changed.
func (s *IndexSet) Add(i int) bool {
	if i < 0 {
		return false
	}
	if _, ok := s.members[i]; ok {
		return false
	}
	if s.members == nil {
		s.members = make(map[int]struct{})
	}
	s.members[i] = struct{}{}
	s.items = append(s.items, i)
	return true
}

// Contains reports whether i is a member.
func (s IndexSet) Contains(i int) bool {
	_, ok := s.members[i]
	return ok
}

// Len returns the number of members.
func (s IndexSet) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the set has no members.
func (s IndexSet) IsEmpty() bool {
	return len(s.items) == 0
}

// Items returns the members in insertion order.
func (s IndexSet) Items() []int {
	out := make([]int, len(s.items))
	copy(out, s.items)
	return out
}

// Sorted returns the members in ascending order.
func (s IndexSet) Sorted() []int {
	out := s.Items()
	slices.Sort(out)
	return out
}

// Max returns the largest member, or -1 for an empty set.
func (s IndexSet) Max() int {
	if len(s.items) == 0 {
		return -1
	}
	return slices.Max(s.items)
}

// Equal reports set equality, ignoring insertion order.
func (s IndexSet) Equal(other IndexSet) bool {
	if len(s.items) != len(other.items) {
		return false
	}
	for _, i := range s.items {
		if !other.Contains(i) {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every member of s is a member of other.
func (s IndexSet) SubsetOf(other IndexSet) bool {
	if len(s.items) > len(other.items) {
		return false
	}
	for _, i := range s.items {
		if !other.Contains(i) {
			return false
		}
	}
	return true
}

// Key returns an order-independent string usable as a map key.
func (s IndexSet) Key() string {
	sorted := s.Sorted()
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Clone returns an independent copy.
func (s IndexSet) Clone() IndexSet {
	return NewIndexSet(s.items...)
}

// String renders the set in insertion order, e.g. {1, 3}.
func (s IndexSet) String() string {
	parts := make([]string, len(s.items))
	for i, v := range s.items {
		parts[i] = strconv.Itoa(v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Scan implements sql.Scanner for reading Postgres integer arrays.
func (s *IndexSet) Scan(src any) error {
	*s = IndexSet{}
	if src == nil {
		return nil
	}

	var raw string
	switch val := src.(type) {
	case []byte:
		raw = string(val)
	case string:
		raw = val
	default:
		return fmt.Errorf("cannot scan %T into IndexSet", src)
	}

	// Postgres array format: {1,2,3}
	raw = strings.TrimPrefix(raw, "{")
	raw = strings.TrimSuffix(raw, "}")
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := NewIndexSet()
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("failed to parse index set element %d: %w", i, err)
		}
		if v < 0 {
			return fmt.Errorf("negative index set element %d: %d", i, v)
		}
		out.Add(v)
	}
	*s = out
	return nil
}

// Value implements driver.Valuer for writing Postgres integer arrays.
func (s IndexSet) Value() (driver.Value, error) {
	parts := make([]string, len(s.items))
	for i, v := range s.items {
		parts[i] = strconv.Itoa(v)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Extent is the set of objects a concept applies to.
type Extent struct {
	IndexSet
}

// NewExtent creates an extent from object indices.
func NewExtent(objects ...int) Extent {
	return Extent{NewIndexSet(objects...)}
}

// Equal reports whether both extents hold the same objects.
func (e Extent) Equal(other Extent) bool {
	return e.IndexSet.Equal(other.IndexSet)
}

// Intent is the set of attributes an object must have to belong to a concept.
type Intent struct {
	IndexSet
}

// NewIntent creates an intent from attribute indices.
func NewIntent(attributes ...int) Intent {
	return Intent{NewIndexSet(attributes...)}
}

// Equal reports whether both intents hold the same attributes.
func (i Intent) Equal(other Intent) bool {
	return i.IndexSet.Equal(other.IndexSet)
}

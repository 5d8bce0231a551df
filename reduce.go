package galois

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// DuplicateRows returns the rows at or after rowOffset that equal sourceRow,
// ignoring rows in skip. The source row itself is never reported.
func DuplicateRows(m Matrix, sourceRow, rowOffset int, skip IndexSet) (IndexSet, error) {
	if m == nil {
		return IndexSet{}, fmt.Errorf("%w: nil matrix", ErrInvalidArgument)
	}
	if sourceRow < 0 || sourceRow >= m.Rows() {
		return IndexSet{}, fmt.Errorf("%w: source row %d out of range [0, %d)", ErrInvalidArgument, sourceRow, m.Rows())
	}
	if rowOffset < 0 || rowOffset > m.Rows() {
		return IndexSet{}, fmt.Errorf("%w: row offset %d out of range [0, %d]", ErrInvalidArgument, rowOffset, m.Rows())
	}

	out := NewIndexSet()
	for i := rowOffset; i < m.Rows(); i++ {
		if i == sourceRow || skip.Contains(i) {
			continue
		}
		if rowsEqual(m[i], m[sourceRow]) {
			out.Add(i)
		}
	}
	return out, nil
}

// DuplicateColumns returns the columns at or after columnOffset that equal
// sourceColumn, ignoring columns in skip. The source column itself is never
// reported.
func DuplicateColumns(m Matrix, sourceColumn, columnOffset int, skip IndexSet) (IndexSet, error) {
	if m == nil {
		return IndexSet{}, fmt.Errorf("%w: nil matrix", ErrInvalidArgument)
	}
	cols := m.Cols()
	if sourceColumn < 0 || sourceColumn >= cols {
		return IndexSet{}, fmt.Errorf("%w: source column %d out of range [0, %d)", ErrInvalidArgument, sourceColumn, cols)
	}
	if columnOffset < 0 || columnOffset > cols {
		return IndexSet{}, fmt.Errorf("%w: column offset %d out of range [0, %d]", ErrInvalidArgument, columnOffset, cols)
	}

	out := NewIndexSet()
	for j := columnOffset; j < cols; j++ {
		if j == sourceColumn || skip.Contains(j) {
			continue
		}
		same := true
		for i := range m {
			if m[i][j] != m[i][sourceColumn] {
				same = false
				break
			}
		}
		if same {
			out.Add(j)
		}
	}
	return out, nil
}

// Remove excises rows and columns from m, renumbering the remainder in
// original order. With both sets empty it returns m itself; otherwise the
// result is newly allocated.
func Remove(m Matrix, rows, columns IndexSet) (Matrix, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrInvalidArgument)
	}
	if rows.IsEmpty() && columns.IsEmpty() {
		return m, nil
	}
	if rows.Max() >= m.Rows() {
		return nil, fmt.Errorf("%w: row %d out of range [0, %d)", ErrInvalidArgument, rows.Max(), m.Rows())
	}
	if columns.Max() >= m.Cols() {
		return nil, fmt.Errorf("%w: column %d out of range [0, %d)", ErrInvalidArgument, columns.Max(), m.Cols())
	}

	out := make(Matrix, 0, m.Rows()-rows.Len())
	for i, row := range m {
		if rows.Contains(i) {
			continue
		}
		kept := make([]bool, 0, len(row)-columns.Len())
		for j, v := range row {
			if !columns.Contains(j) {
				kept = append(kept, v)
			}
		}
		out = append(out, kept)
	}
	return out, nil
}

func rowsEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if a[k] != b[k] {
			return false
		}
	}
	return true
}

// Reduction maps a reduced context back to the context it was reduced from.
// Objects[k] lists the original objects that reduced object k stands for, the
// representative first; Attributes likewise.
type Reduction struct {
	SourceID   string  `json:"source_id" yaml:"source_id" msgpack:"source_id"`
	Objects    [][]int `json:"objects" yaml:"objects" msgpack:"objects"`
	Attributes [][]int `json:"attributes" yaml:"attributes" msgpack:"attributes"`
}

// RemovedObjects returns how many objects the reduction collapsed.
func (r *Reduction) RemovedObjects() int {
	return removedCount(r.Objects)
}

// RemovedAttributes returns how many attributes the reduction collapsed.
func (r *Reduction) RemovedAttributes() int {
	return removedCount(r.Attributes)
}

// ExpandExtent maps a reduced extent to the original objects it covers.
func (r *Reduction) ExpandExtent(e Extent) Extent {
	return Extent{expand(r.Objects, e.IndexSet)}
}

// ExpandIntent maps a reduced intent to the original attributes it covers.
func (r *Reduction) ExpandIntent(i Intent) Intent {
	return Intent{expand(r.Attributes, i.IndexSet)}
}

func (r *Reduction) clone() *Reduction {
	if r == nil {
		return nil
	}
	return &Reduction{
		SourceID:   r.SourceID,
		Objects:    cloneGroups(r.Objects),
		Attributes: cloneGroups(r.Attributes),
	}
}

func removedCount(groups [][]int) int {
	n := 0
	for _, g := range groups {
		n += len(g) - 1
	}
	return n
}

func expand(groups [][]int, set IndexSet) IndexSet {
	out := NewIndexSet()
	for _, k := range set.Sorted() {
		if k < len(groups) {
			for _, orig := range groups[k] {
				out.Add(orig)
			}
		}
	}
	return NewIndexSet(out.Sorted()...)
}

func cloneGroups(groups [][]int) [][]int {
	if groups == nil {
		return nil
	}
	out := make([][]int, len(groups))
	for k, g := range groups {
		out[k] = append([]int(nil), g...)
	}
	return out
}

// groupRows partitions the rows of m into duplicate classes in order of first
// occurrence. It returns the classes and the rows to remove.
func groupRows(m Matrix) ([][]int, IndexSet, error) {
	removed := NewIndexSet()
	var groups [][]int
	for i := 0; i < m.Rows(); i++ {
		if removed.Contains(i) {
			continue
		}
		dups, err := DuplicateRows(m, i, i+1, removed)
		if err != nil {
			return nil, IndexSet{}, err
		}
		group := []int{i}
		for _, d := range dups.Sorted() {
			group = append(group, d)
			removed.Add(d)
		}
		groups = append(groups, group)
	}
	return groups, removed, nil
}

// groupColumns is groupRows for columns.
func groupColumns(m Matrix) ([][]int, IndexSet, error) {
	removed := NewIndexSet()
	var groups [][]int
	for j := 0; j < m.Cols(); j++ {
		if removed.Contains(j) {
			continue
		}
		dups, err := DuplicateColumns(m, j, j+1, removed)
		if err != nil {
			return nil, IndexSet{}, err
		}
		group := []int{j}
		for _, d := range dups.Sorted() {
			group = append(group, d)
			removed.Add(d)
		}
		groups = append(groups, group)
	}
	return groups, removed, nil
}

// Reduce returns a new context with duplicate objects and duplicate
// attributes collapsed onto their first occurrence. The source context is not
// modified; the result is ungenerated, keeps the names of the representatives
// and records the mapping in Reduction.
func Reduce(ctx context.Context, fc *FormalContext) (*FormalContext, error) {
	start := time.Now()
	if err := fc.Validate(); err != nil {
		return nil, err
	}

	objects, rows, err := groupRows(fc.relation)
	if err != nil {
		return nil, err
	}
	attributes, cols, err := groupColumns(fc.relation)
	if err != nil {
		return nil, err
	}
	relation, err := Remove(fc.relation, rows, cols)
	if err != nil {
		return nil, err
	}

	reduced, err := newContext(fc.Name, relation)
	if err != nil {
		return nil, err
	}
	reduced.reduction = &Reduction{SourceID: fc.ID, Objects: objects, Attributes: attributes}
	if fc.objects != nil {
		reduced.objects = representatives(fc.objects, objects)
	}
	if fc.attributes != nil {
		reduced.attributes = representatives(fc.attributes, attributes)
	}

	capitan.Emit(ctx, ContextReduced,
		FieldContextID.Field(reduced.ID),
		FieldContextName.Field(reduced.Name),
		FieldObjectCount.Field(reduced.ObjectCount()),
		FieldAttributeCount.Field(reduced.AttributeCount()),
		FieldRemovedObjects.Field(rows.Len()),
		FieldRemovedAttributes.Field(cols.Len()),
		FieldDuration.Field(time.Since(start)),
	)

	return reduced, nil
}

func representatives(names []string, groups [][]int) []string {
	out := make([]string, len(groups))
	for k, g := range groups {
		out[k] = names[g[0]]
	}
	return out
}

// Reducer is the pipeline step form of Reduce.
type Reducer struct {
	identity pipz.Identity
}

// NewReducer creates a reduction step.
func NewReducer() *Reducer {
	return &Reducer{identity: pipz.NewIdentity("reduce", "Duplicate object and attribute reduction")}
}

// WithName overrides the pipeline name.
func (r *Reducer) WithName(name string) *Reducer {
	r.identity = pipz.NewIdentity(name, r.identity.Description())
	return r
}

// Process implements pipz.Chainable[*FormalContext].
func (r *Reducer) Process(ctx context.Context, fc *FormalContext) (*FormalContext, error) {
	return Reduce(ctx, fc)
}

// Identity implements pipz.Chainable[*FormalContext].
func (r *Reducer) Identity() pipz.Identity {
	return r.identity
}

// Schema implements pipz.Chainable[*FormalContext].
func (r *Reducer) Schema() pipz.Node {
	return pipz.Node{Identity: r.identity, Type: "reduce"}
}

// Close implements pipz.Chainable[*FormalContext].
func (r *Reducer) Close() error {
	return nil
}

var _ pipz.Chainable[*FormalContext] = (*Reducer)(nil)

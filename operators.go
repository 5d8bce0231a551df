package galois

import "fmt"

// CommonAttributes returns the attributes shared by every listed object (the
// derivation operator on the object side). With no objects it returns every
// attribute. Indices outside [0, rows) yield ErrInvalidContext.
func (m Matrix) CommonAttributes(objects ...int) (IndexSet, error) {
	for _, i := range objects {
		if i < 0 || i >= m.Rows() {
			return IndexSet{}, fmt.Errorf("%w: object index %d out of range [0, %d)", ErrInvalidContext, i, m.Rows())
		}
	}

	out := NewIndexSet()
	for j := 0; j < m.Cols(); j++ {
		shared := true
		for _, i := range objects {
			if !m[i][j] {
				shared = false
				break
			}
		}
		if shared {
			out.Add(j)
		}
	}
	return out, nil
}

// CommonObjects returns the objects having every listed attribute. With no
// attributes it returns every object. Indices outside [0, cols) yield
// ErrInvalidContext.
func (m Matrix) CommonObjects(attributes ...int) (IndexSet, error) {
	for _, j := range attributes {
		if j < 0 || j >= m.Cols() {
			return IndexSet{}, fmt.Errorf("%w: attribute index %d out of range [0, %d)", ErrInvalidContext, j, m.Cols())
		}
	}

	out := NewIndexSet()
	for i := 0; i < m.Rows(); i++ {
		shared := true
		for _, j := range attributes {
			if !m[i][j] {
				shared = false
				break
			}
		}
		if shared {
			out.Add(i)
		}
	}
	return out, nil
}

// CommonAttributes applies the object-side derivation operator to the context.
func (fc *FormalContext) CommonAttributes(objects ...int) (IndexSet, error) {
	return fc.relation.CommonAttributes(objects...)
}

// CommonObjects applies the attribute-side derivation operator to the context.
func (fc *FormalContext) CommonObjects(attributes ...int) (IndexSet, error) {
	return fc.relation.CommonObjects(attributes...)
}

// Close returns the concept generated by a set of objects: the objects
// sharing all attributes common to the input, and those attributes.
func (fc *FormalContext) Close(objects ...int) (Extent, Intent, error) {
	intent, err := fc.CommonAttributes(objects...)
	if err != nil {
		return Extent{}, Intent{}, err
	}
	extent, err := fc.CommonObjects(intent.items...)
	if err != nil {
		return Extent{}, Intent{}, err
	}
	return Extent{extent}, Intent{intent}, nil
}

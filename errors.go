package galois

import "errors"

var (
	// ErrInvalidContext is returned for malformed relations (ragged rows, no
	// objects), out-of-range indices and contexts that cannot be generated.
	ErrInvalidContext = errors.New("invalid formal context")

	// ErrInvalidArgument is returned for nil or negative arguments to the
	// reduction utilities.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotGenerated is returned by consumers that need a populated context.
	ErrNotGenerated = errors.New("formal context has not been generated")

	// ErrNotClosed is returned by Verify when a concept violates the closure law.
	ErrNotClosed = errors.New("concept is not closed")

	// ErrDuplicateConcept is returned by Verify when two concepts are equal.
	ErrDuplicateConcept = errors.New("duplicate concept")
)

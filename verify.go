package galois

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Verify checks every concept of a generated context against the closure law
// and for duplicates. It returns ErrNotGenerated for an ungenerated context,
// ErrNotClosed or ErrDuplicateConcept for the first violation found.
func Verify(ctx context.Context, fc *FormalContext) error {
	start := time.Now()
	if err := fc.Validate(); err != nil {
		return err
	}
	if !fc.Generated() {
		return fmt.Errorf("%w: context %s", ErrNotGenerated, fc.ID)
	}

	concepts := fc.Concepts()
	seen := make(map[string]int, len(concepts))
	for _, c := range concepts {
		if prev, ok := seen[c.Key()]; ok {
			return fmt.Errorf("%w: #%d and #%d are both %s", ErrDuplicateConcept, prev, c.Sequence(), c.Key())
		}
		seen[c.Key()] = c.Sequence()

		extent, intent, err := closeIntent(fc.relation, c.intent)
		if err != nil {
			return err
		}
		if !extent.Equal(c.extent) || !intent.Equal(c.intent) {
			return fmt.Errorf("%w: #%d has extent %s intent %s, closure gives extent %s intent %s",
				ErrNotClosed, c.Sequence(), c.extent, c.intent, extent, intent)
		}
		attrs, err := fc.relation.CommonAttributes(c.extent.Items()...)
		if err != nil {
			return err
		}
		if !attrs.Equal(c.intent.IndexSet) {
			return fmt.Errorf("%w: #%d extent %s shares %s, not intent %s",
				ErrNotClosed, c.Sequence(), c.extent, attrs, c.intent)
		}
	}

	capitan.Emit(ctx, ContextVerified,
		FieldContextID.Field(fc.ID),
		FieldConceptCount.Field(len(concepts)),
		FieldDuration.Field(time.Since(start)),
	)
	return nil
}

// closeIntent returns the objects holding intent and the attributes they share.
func closeIntent(m Matrix, intent Intent) (Extent, Intent, error) {
	objects, err := m.CommonObjects(intent.Items()...)
	if err != nil {
		return Extent{}, Intent{}, err
	}
	attrs, err := m.CommonAttributes(objects.Items()...)
	if err != nil {
		return Extent{}, Intent{}, err
	}
	return Extent{objects}, Intent{attrs}, nil
}

// Verifier is the pipeline step form of Verify. It passes the context through
// unchanged.
type Verifier struct {
	identity pipz.Identity
}

// NewVerifier creates a verification step.
func NewVerifier() *Verifier {
	return &Verifier{identity: pipz.NewIdentity("verify", "Closure and uniqueness check")}
}

// WithName overrides the pipeline name.
func (v *Verifier) WithName(name string) *Verifier {
	v.identity = pipz.NewIdentity(name, v.identity.Description())
	return v
}

// Process implements pipz.Chainable[*FormalContext].
func (v *Verifier) Process(ctx context.Context, fc *FormalContext) (*FormalContext, error) {
	if err := Verify(ctx, fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// Identity implements pipz.Chainable[*FormalContext].
func (v *Verifier) Identity() pipz.Identity {
	return v.identity
}

// Schema implements pipz.Chainable[*FormalContext].
func (v *Verifier) Schema() pipz.Node {
	return pipz.Node{Identity: v.identity, Type: "verify"}
}

// Close implements pipz.Chainable[*FormalContext].
func (v *Verifier) Close() error {
	return nil
}

var _ pipz.Chainable[*FormalContext] = (*Verifier)(nil)

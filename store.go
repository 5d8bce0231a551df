package galois

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Store defines the interface for context persistence.
// Implementations handle the storage and retrieval of contexts and concepts.
type Store interface {
	// CreateContext persists a context record and returns it as stored.
	CreateContext(ctx context.Context, record *ContextRecord) (*ContextRecord, error)

	// GetContext loads a context record by ID.
	GetContext(ctx context.Context, id string) (*ContextRecord, error)

	// AddConcept persists a concept record and returns it with ID populated.
	AddConcept(ctx context.Context, record *ConceptRecord) (*ConceptRecord, error)

	// GetConcepts loads the concepts of a context ordered by sequence index.
	GetConcepts(ctx context.Context, contextID string) ([]*ConceptRecord, error)

	// DeleteContext removes a context and all its concepts.
	DeleteContext(ctx context.Context, id string) error
}

// ContextRecord is the stored form of a FormalContext.
type ContextRecord struct {
	ID         string     `db:"id" type:"uuid" constraints:"primarykey" default:"gen_random_uuid()"`
	Name       string     `db:"name" type:"text" constraints:"notnull"`
	Relation   Matrix     `db:"relation" type:"text" constraints:"notnull"`
	Objects    Names      `db:"objects" type:"jsonb" default:"'[]'"`
	Attributes Names      `db:"attributes" type:"jsonb" default:"'[]'"`
	Generated  bool       `db:"generated" type:"boolean" constraints:"notnull"`
	Stats      Stats      `db:"stats" type:"jsonb" default:"'{}'"`
	Reduction  *Reduction `db:"reduction" type:"jsonb"`
	CreatedAt  time.Time  `db:"created_at" type:"timestamp" constraints:"notnull"`
}

// ConceptRecord is the stored form of a Concept.
type ConceptRecord struct {
	ID        string      `db:"id" type:"uuid" constraints:"primarykey" default:"gen_random_uuid()"`
	ContextID string      `db:"context_id" type:"uuid" constraints:"notnull" references:"contexts(id)"`
	Sequence  int         `db:"sequence" type:"integer" constraints:"notnull"`
	Kind      ConceptType `db:"kind" type:"text" constraints:"notnull"`
	Extent    IndexSet    `db:"extent" type:"integer[]" constraints:"notnull"`
	Intent    IndexSet    `db:"intent" type:"integer[]" constraints:"notnull"`
	Label     *string     `db:"label" type:"text"`
	Created   time.Time   `db:"created" type:"timestamp" constraints:"notnull"`
}

// Names is a list of object or attribute names stored as a JSON array.
type Names []string

// Scan implements sql.Scanner.
func (n *Names) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n = nil
		return nil
	case []byte:
		return n.decode(v)
	case string:
		return n.decode([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into Names", src)
	}
}

func (n *Names) decode(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("failed to decode names: %w", err)
	}
	if len(names) == 0 {
		names = nil
	}
	*n = names
	return nil
}

// Value implements driver.Valuer.
func (n Names) Value() (driver.Value, error) {
	if n == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(n))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for generation statistics stored as JSON.
func (s *Stats) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*s = Stats{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Stats", src)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to decode stats: %w", err)
	}
	return nil
}

// Value implements driver.Valuer.
func (s Stats) Value() (driver.Value, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for a reduction mapping stored as JSON.
func (r *Reduction) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*r = Reduction{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Reduction", src)
	}
	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("failed to decode reduction: %w", err)
	}
	return nil
}

// Value implements driver.Valuer.
func (r Reduction) Value() (driver.Value, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Save writes a context and its concepts to store. Labels and the reduction
// mapping travel with them. If a concept cannot be written the context is
// deleted again, so a failed Save can be retried.
func Save(ctx context.Context, store Store, fc *FormalContext) (*ContextRecord, error) {
	start := time.Now()
	if err := fc.Validate(); err != nil {
		return nil, err
	}

	record, err := store.CreateContext(ctx, &ContextRecord{
		ID:         fc.ID,
		Name:       fc.Name,
		Relation:   fc.Relation(),
		Objects:    Names(fc.ObjectNames()),
		Attributes: Names(fc.AttributeNames()),
		Generated:  fc.Generated(),
		Stats:      fc.Stats(),
		Reduction:  fc.Reduction().clone(),
		CreatedAt:  fc.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save context: %w", err)
	}

	concepts := fc.Concepts()
	for _, c := range concepts {
		cr := &ConceptRecord{
			ContextID: record.ID,
			Sequence:  c.Sequence(),
			Kind:      c.Type(),
			Extent:    c.Extent().Clone(),
			Intent:    c.Intent().Clone(),
			Created:   time.Now(),
		}
		if label, ok := fc.Label(c.Sequence()); ok {
			cr.Label = &label
		}
		if _, err := store.AddConcept(ctx, cr); err != nil {
			err = fmt.Errorf("failed to save concept #%d: %w", c.Sequence(), err)
			if delErr := store.DeleteContext(ctx, record.ID); delErr != nil {
				err = errors.Join(err, fmt.Errorf("failed to roll back context %s: %w", record.ID, delErr))
			}
			return nil, err
		}
	}

	capitan.Emit(ctx, ConceptsPersisted,
		FieldContextID.Field(record.ID),
		FieldConceptCount.Field(len(concepts)),
		FieldDuration.Field(time.Since(start)),
	)

	return record, nil
}

// Load rebuilds a context, concepts and labels included, from store.
func Load(ctx context.Context, store Store, id string) (*FormalContext, error) {
	record, err := store.GetContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load context: %w", err)
	}

	fc, err := newContext(record.Name, record.Relation)
	if err != nil {
		return nil, err
	}
	fc.ID = record.ID
	fc.CreatedAt = record.CreatedAt
	fc.SetReduction(record.Reduction)
	if err := fc.SetNames(record.Objects, record.Attributes); err != nil {
		return nil, err
	}

	if !record.Generated {
		return fc, nil
	}

	records, err := store.GetConcepts(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load concepts: %w", err)
	}
	concepts := make([]*Concept, len(records))
	for i, cr := range records {
		concepts[i] = NewConcept(cr.Sequence, Extent{cr.Extent}, Intent{cr.Intent}, cr.Kind)
	}
	if err := fc.Restore(concepts, record.Stats); err != nil {
		return nil, err
	}
	for _, cr := range records {
		if cr.Label != nil {
			fc.SetLabel(cr.Sequence, *cr.Label)
		}
	}
	return fc, nil
}

// Persister is the pipeline step form of Save.
type Persister struct {
	identity pipz.Identity
	store    Store
}

// NewPersister creates a persistence step writing to store.
func NewPersister(store Store) *Persister {
	return &Persister{
		identity: pipz.NewIdentity("persist", "Context persistence"),
		store:    store,
	}
}

// WithName overrides the pipeline name.
func (p *Persister) WithName(name string) *Persister {
	p.identity = pipz.NewIdentity(name, p.identity.Description())
	return p
}

// Process implements pipz.Chainable[*FormalContext].
func (p *Persister) Process(ctx context.Context, fc *FormalContext) (*FormalContext, error) {
	if _, err := Save(ctx, p.store, fc); err != nil {
		return fc, fmt.Errorf("persist: %w", err)
	}
	return fc, nil
}

// Identity implements pipz.Chainable[*FormalContext].
func (p *Persister) Identity() pipz.Identity {
	return p.identity
}

// Schema implements pipz.Chainable[*FormalContext].
func (p *Persister) Schema() pipz.Node {
	return pipz.Node{Identity: p.identity, Type: "persist"}
}

// Close implements pipz.Chainable[*FormalContext].
func (p *Persister) Close() error {
	return nil
}

var _ pipz.Chainable[*FormalContext] = (*Persister)(nil)

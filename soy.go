package galois

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/zoobzio/astql/postgres"
	"github.com/zoobzio/soy"
)

// SoyStore implements Store using soy for persistence.
type SoyStore struct {
	contexts *soy.Soy[ContextRecord]
	concepts *soy.Soy[ConceptRecord]
	db       *sqlx.DB
}

// NewSoyStore creates a soy-backed Store over the contexts and concepts tables.
func NewSoyStore(db *sqlx.DB) (*SoyStore, error) {
	renderer := postgres.New()

	contexts, err := soy.New[ContextRecord](db, "contexts", renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize contexts table: %w", err)
	}

	concepts, err := soy.New[ConceptRecord](db, "concepts", renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize concepts table: %w", err)
	}

	return &SoyStore{
		contexts: contexts,
		concepts: concepts,
		db:       db,
	}, nil
}

// CreateContext persists a context record and returns it as stored. A record
// with an ID keeps it; otherwise the database assigns one.
func (s *SoyStore) CreateContext(ctx context.Context, record *ContextRecord) (*ContextRecord, error) {
	insert := s.contexts.Insert()
	if record.ID != "" {
		insert = s.contexts.InsertFull()
	}
	inserted, err := insert.Exec(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to insert context: %w", err)
	}
	return inserted, nil
}

// GetContext loads a context record by ID.
func (s *SoyStore) GetContext(ctx context.Context, id string) (*ContextRecord, error) {
	record, err := s.contexts.Select().
		Where("id", "=", "id").
		Exec(ctx, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get context: %w", err)
	}
	return record, nil
}

// AddConcept persists a concept record and returns it with ID populated.
func (s *SoyStore) AddConcept(ctx context.Context, record *ConceptRecord) (*ConceptRecord, error) {
	inserted, err := s.concepts.Insert().Exec(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to insert concept: %w", err)
	}
	return inserted, nil
}

// GetConcepts loads the concepts of a context ordered by sequence index.
func (s *SoyStore) GetConcepts(ctx context.Context, contextID string) ([]*ConceptRecord, error) {
	records, err := s.concepts.Query().
		Where("context_id", "=", "context_id").
		OrderBy("sequence", "asc").
		Exec(ctx, map[string]any{"context_id": contextID})
	if err != nil {
		return nil, fmt.Errorf("failed to get concepts: %w", err)
	}
	return records, nil
}

// DeleteContext removes a context and all its concepts.
func (s *SoyStore) DeleteContext(ctx context.Context, id string) error {
	// Concepts first (foreign key constraint)
	_, err := s.concepts.Remove().
		Where("context_id", "=", "context_id").
		Exec(ctx, map[string]any{"context_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete concepts: %w", err)
	}

	_, err = s.contexts.Remove().
		Where("id", "=", "id").
		Exec(ctx, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete context: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *SoyStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SoyStore)(nil)

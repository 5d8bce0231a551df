package contextio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/galois"
	"gopkg.in/yaml.v3"
)

// Snapshot is the complete state of a context: relation, names, concepts,
// labels, generation statistics and the reduction mapping, if any.
type Snapshot struct {
	ID         string            `json:"id" yaml:"id" msgpack:"id"`
	Name       string            `json:"name" yaml:"name" msgpack:"name"`
	CreatedAt  time.Time         `json:"created_at" yaml:"created_at" msgpack:"created_at"`
	Objects    []string          `json:"objects,omitempty" yaml:"objects,omitempty" msgpack:"objects,omitempty"`
	Attributes []string          `json:"attributes,omitempty" yaml:"attributes,omitempty" msgpack:"attributes,omitempty"`
	Relation   [][]int           `json:"relation" yaml:"relation" msgpack:"relation"`
	Generated  bool              `json:"generated" yaml:"generated" msgpack:"generated"`
	Stats      *galois.Stats     `json:"stats,omitempty" yaml:"stats,omitempty" msgpack:"stats,omitempty"`
	Reduction  *galois.Reduction `json:"reduction,omitempty" yaml:"reduction,omitempty" msgpack:"reduction,omitempty"`
	Concepts   []ConceptSnapshot `json:"concepts,omitempty" yaml:"concepts,omitempty" msgpack:"concepts,omitempty"`
}

// ConceptSnapshot is one concept of a Snapshot.
type ConceptSnapshot struct {
	Sequence int    `json:"sequence" yaml:"sequence" msgpack:"sequence"`
	Kind     string `json:"kind" yaml:"kind" msgpack:"kind"`
	Extent   []int  `json:"extent" yaml:"extent,flow" msgpack:"extent"`
	Intent   []int  `json:"intent" yaml:"intent,flow" msgpack:"intent"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty" msgpack:"label,omitempty"`
}

// NewSnapshot captures fc.
func NewSnapshot(fc *galois.FormalContext) *Snapshot {
	s := &Snapshot{
		ID:         fc.ID,
		Name:       fc.Name,
		CreatedAt:  fc.CreatedAt,
		Objects:    fc.ObjectNames(),
		Attributes: fc.AttributeNames(),
		Relation:   fc.Relation().Ints(),
		Generated:  fc.Generated(),
		Reduction:  fc.Reduction(),
	}
	if !s.Generated {
		return s
	}

	stats := fc.Stats()
	s.Stats = &stats
	for _, c := range fc.Concepts() {
		label, _ := fc.Label(c.Sequence())
		s.Concepts = append(s.Concepts, ConceptSnapshot{
			Sequence: c.Sequence(),
			Kind:     string(c.Type()),
			Extent:   c.Extent().Sorted(),
			Intent:   c.Intent().Sorted(),
			Label:    label,
		})
	}
	return s
}

// Context rebuilds the context, keeping its ID and creation time.
func (s *Snapshot) Context(ctx context.Context) (*galois.FormalContext, error) {
	fc, err := Document{
		Name:       s.Name,
		Objects:    s.Objects,
		Attributes: s.Attributes,
		Relation:   s.Relation,
	}.Context(ctx)
	if err != nil {
		return nil, err
	}
	if s.ID != "" {
		fc.ID = s.ID
	}
	if !s.CreatedAt.IsZero() {
		fc.CreatedAt = s.CreatedAt
	}
	fc.SetReduction(s.Reduction)
	if !s.Generated {
		return fc, nil
	}

	concepts := make([]*galois.Concept, len(s.Concepts))
	for i, c := range s.Concepts {
		concepts[i] = galois.NewConcept(c.Sequence,
			galois.NewExtent(c.Extent...),
			galois.NewIntent(c.Intent...),
			galois.ConceptType(c.Kind))
	}
	var stats galois.Stats
	if s.Stats != nil {
		stats = *s.Stats
	}
	if err := fc.Restore(concepts, stats); err != nil {
		return nil, err
	}
	for _, c := range s.Concepts {
		if c.Label != "" {
			fc.SetLabel(c.Sequence, c.Label)
		}
	}
	return fc, nil
}

// WriteSnapshot writes the snapshot of fc as JSON, YAML or msgpack.
func WriteSnapshot(w io.Writer, format Format, fc *galois.FormalContext) error {
	s := NewSnapshot(fc)
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case MsgPack:
		return msgpack.NewEncoder(w).Encode(s)
	default:
		return fmt.Errorf("%w: cannot write a snapshot as %q", ErrUnknownFormat, format)
	}
}

// ReadSnapshot reads a snapshot written by WriteSnapshot and rebuilds the
// context.
func ReadSnapshot(ctx context.Context, r io.Reader, format Format) (*galois.FormalContext, error) {
	var s Snapshot
	switch format {
	case JSON:
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
	case MsgPack:
		if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: cannot read a snapshot from %q", ErrUnknownFormat, format)
	}
	return s.Context(ctx)
}

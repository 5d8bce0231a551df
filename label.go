package galois

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
	"github.com/zoobzio/zyn"
)

// Labeler names the concepts of a generated context with an LLM.
//
// For every concept the labeler renders the names of its attributes and
// objects, asks a transform synapse for a short name and stores the answer on
// the context with SetLabel. Each concept is labeled in a fresh session so
// earlier answers do not steer later ones.
//
// Example:
//
//	fc, err = galois.NewLabeler().
//	    WithStyle("a single lowercase word").
//	    Process(ctx, fc)
//	name, _ := fc.Label(3)
type Labeler struct {
	identity    pipz.Identity
	prompt      string
	style       string
	temperature float32
	overwrite   bool
	maxObjects  int
	provider    Provider
}

// NewLabeler creates a labeling step.
func NewLabeler() *Labeler {
	return &Labeler{
		identity:   pipz.NewIdentity("label", "LLM concept labeling"),
		prompt:     "Name the category described by these shared attributes and example members",
		maxObjects: 8,
	}
}

// Process implements pipz.Chainable[*FormalContext].
func (l *Labeler) Process(ctx context.Context, fc *FormalContext) (*FormalContext, error) {
	if err := fc.Validate(); err != nil {
		return fc, fmt.Errorf("label: %w", err)
	}
	if !fc.Generated() {
		return fc, fmt.Errorf("label: %w: context %s", ErrNotGenerated, fc.ID)
	}

	provider, source, err := resolveProvider(ctx, l.provider)
	if err != nil {
		return fc, fmt.Errorf("label: %w", err)
	}

	synapse, err := zyn.Transform(l.prompt, provider)
	if err != nil {
		return fc, fmt.Errorf("label: failed to create transform synapse: %w", err)
	}

	temperature := DefaultLabelTemperature
	if l.temperature != 0 {
		temperature = l.temperature
	}
	style := DefaultLabelStyle
	if l.style != "" {
		style = l.style
	}

	for _, c := range fc.Concepts() {
		if _, ok := fc.Label(c.Sequence()); ok && !l.overwrite {
			continue
		}

		start := time.Now()
		label, err := synapse.FireWithInput(ctx, zyn.NewSession(), zyn.TransformInput{
			Text:        l.describe(fc, c),
			Style:       style,
			Temperature: temperature,
		})
		if err != nil {
			return fc, fmt.Errorf("label: concept #%d: %w", c.Sequence(), err)
		}
		label = strings.TrimSpace(label)
		fc.SetLabel(c.Sequence(), label)

		capitan.Emit(ctx, ConceptLabeled,
			FieldContextID.Field(fc.ID),
			FieldSequence.Field(c.Sequence()),
			FieldLabel.Field(label),
			FieldProvider.Field(provider.Name()),
			FieldProviderSource.Field(string(source)),
			FieldDuration.Field(time.Since(start)),
		)
	}

	return fc, nil
}

// describe renders a concept for the prompt. Object lists are truncated to
// maxObjects names.
func (l *Labeler) describe(fc *FormalContext, c *Concept) string {
	var b strings.Builder

	attrs := c.Intent().Sorted()
	b.WriteString("Shared attributes: ")
	for k, j := range attrs {
		if k > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fc.AttributeName(j))
	}

	objects := c.Extent().Sorted()
	b.WriteString("\nMembers: ")
	for k, i := range objects {
		if l.maxObjects > 0 && k == l.maxObjects {
			fmt.Fprintf(&b, " and %d more", len(objects)-k)
			break
		}
		if k > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fc.ObjectName(i))
	}
	return b.String()
}

// Identity implements pipz.Chainable[*FormalContext].
func (l *Labeler) Identity() pipz.Identity {
	return l.identity
}

// Schema implements pipz.Chainable[*FormalContext].
func (l *Labeler) Schema() pipz.Node {
	return pipz.Node{Identity: l.identity, Type: "label"}
}

// Close implements pipz.Chainable[*FormalContext].
func (l *Labeler) Close() error {
	return nil
}

// Builder methods

// WithName overrides the pipeline name.
func (l *Labeler) WithName(name string) *Labeler {
	l.identity = pipz.NewIdentity(name, l.identity.Description())
	return l
}

// WithPrompt sets the instruction given to the transform synapse.
func (l *Labeler) WithPrompt(prompt string) *Labeler {
	l.prompt = prompt
	return l
}

// WithStyle sets the style guidance for labels.
func (l *Labeler) WithStyle(style string) *Labeler {
	l.style = style
	return l
}

// WithTemperature sets the sampling temperature.
func (l *Labeler) WithTemperature(temp float32) *Labeler {
	l.temperature = temp
	return l
}

// WithOverwrite relabels concepts that already carry a label.
func (l *Labeler) WithOverwrite() *Labeler {
	l.overwrite = true
	return l
}

// WithMaxObjects limits how many member names are shown per concept.
// Zero shows all of them.
func (l *Labeler) WithMaxObjects(n int) *Labeler {
	l.maxObjects = n
	return l
}

// WithProvider sets the provider for this step.
func (l *Labeler) WithProvider(p Provider) *Labeler {
	l.provider = p
	return l
}

var _ pipz.Chainable[*FormalContext] = (*Labeler)(nil)

package galois

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/zoobzio/zyn"
)

// Provider is the LLM backend that names concepts.
type Provider = zyn.Provider

// ProviderSource records where a Labeler found its provider.
type ProviderSource string

const (
	// SourceStep is a provider set with Labeler.WithProvider.
	SourceStep ProviderSource = "step"
	// SourceContext is a provider attached with WithProvider.
	SourceContext ProviderSource = "context"
	// SourceGlobal is the package default from SetProvider.
	SourceGlobal ProviderSource = "global"
)

// ErrNoProvider is returned when labeling finds no provider on the step, the
// context or the package default.
var ErrNoProvider = errors.New("no label provider: use Labeler.WithProvider, galois.WithProvider or galois.SetProvider")

type providerKey struct{}

// holder lets a nil Provider be stored in an atomic.Pointer.
type holder struct{ p Provider }

var defaultProvider atomic.Pointer[holder]

// SetProvider installs the package default used by every Labeler that has no
// provider of its own and runs under a context without one. nil clears it.
func SetProvider(p Provider) {
	defaultProvider.Store(&holder{p: p})
}

// GetProvider returns the package default, or nil.
func GetProvider() Provider {
	if h := defaultProvider.Load(); h != nil {
		return h.p
	}
	return nil
}

// WithProvider scopes p to every Labeler run under the returned context.
func WithProvider(ctx context.Context, p Provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

// ProviderFromContext returns the provider scoped to ctx, if any.
func ProviderFromContext(ctx context.Context) (Provider, bool) {
	p, ok := ctx.Value(providerKey{}).(Provider)
	return p, ok && p != nil
}

// ResolveProvider returns the provider a Labeler configured with step would
// use under ctx.
func ResolveProvider(ctx context.Context, step Provider) (Provider, error) {
	p, _, err := resolveProvider(ctx, step)
	return p, err
}

func resolveProvider(ctx context.Context, step Provider) (Provider, ProviderSource, error) {
	if step != nil {
		return step, SourceStep, nil
	}
	if p, ok := ProviderFromContext(ctx); ok {
		return p, SourceContext, nil
	}
	if p := GetProvider(); p != nil {
		return p, SourceGlobal, nil
	}
	return nil, "", ErrNoProvider
}

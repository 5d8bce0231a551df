package galois

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// -----------------------------------------------------------------------------
// Adapter Functions - wrap functions to create context processors
// -----------------------------------------------------------------------------

// Do creates a processor from a custom function that can fail.
//
// Example:
//
//	named := galois.Do("attach-names", func(ctx context.Context, fc *galois.FormalContext) (*galois.FormalContext, error) {
//	    return fc, fc.SetNames(objects, attributes)
//	})
func Do(name string, fn func(context.Context, *FormalContext) (*FormalContext, error)) pipz.Processor[*FormalContext] {
	return pipz.Apply(pipz.NewIdentity(name, ""), fn)
}

// Transform creates a processor from a function that cannot fail.
func Transform(name string, fn func(context.Context, *FormalContext) *FormalContext) pipz.Processor[*FormalContext] {
	return pipz.Transform(pipz.NewIdentity(name, ""), fn)
}

// Effect creates a processor that observes the context without replacing it.
//
// Example:
//
//	report := galois.Effect("report", func(ctx context.Context, fc *galois.FormalContext) error {
//	    fmt.Printf("%s: %d concepts\n", fc.Name, fc.Len())
//	    return nil
//	})
func Effect(name string, fn func(context.Context, *FormalContext) error) pipz.Processor[*FormalContext] {
	return pipz.Effect(pipz.NewIdentity(name, ""), fn)
}

// -----------------------------------------------------------------------------
// Sequential Connectors
// -----------------------------------------------------------------------------

// Sequence creates a sequential pipeline. Each processor receives the output
// of the previous one, so a Reducer hands its new context to the generator
// that follows it.
//
// Example:
//
//	pipeline := galois.Sequence("analyze",
//	    galois.NewReducer(),
//	    galois.NewInClose(),
//	    galois.NewVerifier(),
//	    galois.NewLatticeBuilder(),
//	)
func Sequence(name string, processors ...pipz.Chainable[*FormalContext]) *pipz.Sequence[*FormalContext] {
	return pipz.NewSequence(pipz.NewIdentity(name, ""), processors...)
}

// Filter runs processor only when predicate holds; otherwise the context
// passes through unchanged.
func Filter(name string, predicate func(context.Context, *FormalContext) bool, processor pipz.Chainable[*FormalContext]) *pipz.Filter[*FormalContext] {
	return pipz.NewFilter(pipz.NewIdentity(name, ""), predicate, processor)
}

// -----------------------------------------------------------------------------
// Error Handling Connectors
// -----------------------------------------------------------------------------

// Fallback tries each processor in order until one succeeds.
func Fallback(name string, processors ...pipz.Chainable[*FormalContext]) *pipz.Fallback[*FormalContext] {
	return pipz.NewFallback(pipz.NewIdentity(name, ""), processors...)
}

// Retry retries processor up to maxAttempts times. Generation is
// deterministic, so this is meant for steps with external collaborators such
// as Persister and Labeler.
func Retry(name string, processor pipz.Chainable[*FormalContext], maxAttempts int) *pipz.Retry[*FormalContext] {
	return pipz.NewRetry(pipz.NewIdentity(name, ""), processor, maxAttempts)
}

// Backoff retries processor with exponential backoff.
func Backoff(name string, processor pipz.Chainable[*FormalContext], maxAttempts int, baseDelay time.Duration) *pipz.Backoff[*FormalContext] {
	return pipz.NewBackoff(pipz.NewIdentity(name, ""), processor, maxAttempts, baseDelay)
}

// Timeout bounds the execution time of processor. ParallelInClose observes
// the deadline between partitions.
func Timeout(name string, processor pipz.Chainable[*FormalContext], duration time.Duration) *pipz.Timeout[*FormalContext] {
	return pipz.NewTimeout(pipz.NewIdentity(name, ""), processor, duration)
}

// -----------------------------------------------------------------------------
// Parallel Connectors
// These rely on *FormalContext implementing pipz.Cloner (see context.go Clone())
// -----------------------------------------------------------------------------

// Concurrent runs processors on isolated clones and returns the original
// context, or the reducer's result when one is given.
func Concurrent(name string, reducer func(original *FormalContext, results map[pipz.Identity]*FormalContext, errors map[pipz.Identity]error) *FormalContext, processors ...pipz.Chainable[*FormalContext]) *pipz.Concurrent[*FormalContext] {
	return pipz.NewConcurrent(pipz.NewIdentity(name, ""), reducer, processors...)
}

// Race runs processors on clones and returns the first successful result.
//
// Example:
//
//	fastest := galois.Race("fastest", galois.NewInClose(), galois.NewParallelInClose(0))
func Race(name string, processors ...pipz.Chainable[*FormalContext]) *pipz.Race[*FormalContext] {
	return pipz.NewRace(pipz.NewIdentity(name, ""), processors...)
}

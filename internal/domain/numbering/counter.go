package numbering

import (
	"context"
)

// CounterStore persists the next sequence value for each (team, period).
//
// Values only move forward. Advance is a compare-and-swap: it succeeds only
// while the stored value still equals expectedCurrent, and reports
// ErrConcurrentModification otherwise.
type CounterStore interface {
	// Get returns the next value to issue. found is false when the key
	// has never been seeded.
	Get(ctx context.Context, key CounterKey) (next int64, found bool, err error)

	// Seed initialises a key exactly once; ErrAlreadyInitialized if it exists
	Seed(ctx context.Context, key CounterKey, start int64) error

	// Advance moves the counter from expectedCurrent to next
	Advance(ctx context.Context, key CounterKey, expectedCurrent, next int64) error
}

// AllocateOnce performs a single read-advance cycle against the store.
//
// The returned identifier carries the consumed value v, not v+1. A missing
// counter yields a *BootstrapRequiredError; a lost race yields
// ErrConcurrentModification and the caller decides whether to retry.
func AllocateOnce(ctx context.Context, store CounterStore, key CounterKey) (Identifier, error) {
	current, found, err := store.Get(ctx, key)
	if err != nil {
		return Identifier{}, err
	}
	if !found {
		return Identifier{}, NewBootstrapRequiredError(key)
	}
	if err := store.Advance(ctx, key, current, current+1); err != nil {
		return Identifier{}, err
	}
	return NewIdentifier(key, current), nil
}

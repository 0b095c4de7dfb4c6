package numbering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/domain/shared"
)

// RetryPolicy bounds how long a unit of work that lost a counter race is retried
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Timeout         time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     5,
		InitialInterval: 20 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
		Timeout:         5 * time.Second,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	d := DefaultRetryPolicy()
	if p.MaxAttempts < 1 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = d.InitialInterval
	}
	if p.MaxInterval < p.InitialInterval {
		p.MaxInterval = p.InitialInterval
	}
	if p.Timeout <= 0 {
		p.Timeout = d.Timeout
	}
	return p
}

func (p RetryPolicy) newBackOff(ctx context.Context) backoff.BackOffContext {
	// BackOff implementations are stateful; always build a fresh one
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.InitialInterval
	bo.MaxInterval = p.MaxInterval
	bo.MaxElapsedTime = p.Timeout
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(p.MaxAttempts-1)), ctx)
}

// IsConflict reports whether err is a lost race worth retrying
func IsConflict(err error) bool {
	return errors.Is(err, numbering.ErrConcurrentModification) || errors.Is(err, shared.ErrStaleState)
}

// Run executes op until it succeeds, fails with a non-conflict error, or the
// policy is exhausted. Exhaustion (attempts or overall timeout) is reported
// as numbering.ErrAllocationFailed. Cancellation of the caller's context is
// returned as is.
func (p RetryPolicy) Run(ctx context.Context, op func(ctx context.Context) error) error {
	attempts, timedOut, err := p.retry(ctx, op)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case timedOut:
		return shared.NewDomainError(numbering.CodeAllocationFailed,
			fmt.Sprintf("Timed out after %d attempts", attempts))
	case IsConflict(err):
		return shared.NewDomainError(numbering.CodeAllocationFailed,
			fmt.Sprintf("Gave up after %d attempts: %v", attempts, err))
	}
	return err
}

// RunConflicts is Run for units of work that do not allocate: an exhausted
// policy returns the last conflict (or the timeout) unchanged.
func (p RetryPolicy) RunConflicts(ctx context.Context, op func(ctx context.Context) error) error {
	_, _, err := p.retry(ctx, op)
	return err
}

func (p RetryPolicy) retry(ctx context.Context, op func(ctx context.Context) error) (int, bool, error) {
	p = p.normalized()

	runCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		err := op(runCtx)
		if err == nil {
			return nil
		}
		if IsConflict(err) {
			return err
		}
		return backoff.Permanent(err)
	}, p.newBackOff(runCtx))

	timedOut := err != nil && ctx.Err() == nil && runCtx.Err() != nil
	return attempts, timedOut, err
}

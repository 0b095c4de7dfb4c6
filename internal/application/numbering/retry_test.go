package numbering

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Timeout:         2 * time.Second,
	}
}

func TestRetryPolicy_Run(t *testing.T) {
	t.Run("succeeds first time", func(t *testing.T) {
		calls := 0
		err := fastPolicy(5).Run(context.Background(), func(ctx context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries conflicts until success", func(t *testing.T) {
		calls := 0
		err := fastPolicy(5).Run(context.Background(), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return numbering.ErrConcurrentModification
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stale state is retried", func(t *testing.T) {
		calls := 0
		err := fastPolicy(5).Run(context.Background(), func(ctx context.Context) error {
			calls++
			if calls == 1 {
				return shared.ErrStaleState
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("other errors stop immediately", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := fastPolicy(5).Run(context.Background(), func(ctx context.Context) error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("bootstrap required is not retried", func(t *testing.T) {
		calls := 0
		key, _ := numbering.NewCounterKey("GR", "2507")
		err := fastPolicy(5).Run(context.Background(), func(ctx context.Context) error {
			calls++
			return numbering.NewBootstrapRequiredError(key)
		})
		var bootstrap *numbering.BootstrapRequiredError
		require.ErrorAs(t, err, &bootstrap)
		assert.Equal(t, key, bootstrap.Key)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhausted attempts become allocation failed", func(t *testing.T) {
		calls := 0
		err := fastPolicy(4).Run(context.Background(), func(ctx context.Context) error {
			calls++
			return numbering.ErrConcurrentModification
		})
		assert.ErrorIs(t, err, numbering.ErrAllocationFailed)
		assert.Equal(t, 4, calls)
	})

	t.Run("overall timeout becomes allocation failed", func(t *testing.T) {
		p := fastPolicy(100)
		p.Timeout = 30 * time.Millisecond
		err := p.Run(context.Background(), func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		assert.ErrorIs(t, err, numbering.ErrAllocationFailed)
	})

	t.Run("caller cancellation is returned as is", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := fastPolicy(5).Run(ctx, func(ctx context.Context) error {
			return ctx.Err()
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRetryPolicy_Normalized(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 0, InitialInterval: 0, MaxInterval: 0, Timeout: 0}.normalized()
	d := DefaultRetryPolicy()
	assert.Equal(t, d.MaxAttempts, p.MaxAttempts)
	assert.Equal(t, d.InitialInterval, p.InitialInterval)
	assert.Equal(t, d.InitialInterval, p.MaxInterval)
	assert.Equal(t, d.Timeout, p.Timeout)
}

func TestRetryPolicy_RunConflicts(t *testing.T) {
	calls := 0
	err := fastPolicy(3).RunConflicts(context.Background(), func(ctx context.Context) error {
		calls++
		return shared.ErrStaleState
	})
	assert.ErrorIs(t, err, shared.ErrStaleState)
	assert.NotErrorIs(t, err, numbering.ErrAllocationFailed)
	assert.Equal(t, 3, calls)
}

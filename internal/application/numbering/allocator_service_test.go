package numbering

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAllocator(store numbering.CounterStore) (*AllocatorService, *recordingPublisher) {
	svc := NewAllocatorService(store, fastPolicy(20), nil)
	svc.SetClock(func() time.Time { return time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC) })
	svc.SetLocation(time.UTC)
	pub := &recordingPublisher{}
	svc.SetEventPublisher(pub)
	return svc, pub
}

func mustKey(t *testing.T, team, period string) numbering.CounterKey {
	t.Helper()
	key, err := numbering.NewCounterKey(team, period)
	require.NoError(t, err)
	return key
}

func TestAllocatorService_SeedThenAllocate(t *testing.T) {
	svc, pub := newTestAllocator(newMemCounterStore())
	ctx := context.Background()

	counter, err := svc.Seed(ctx, "GR", SeedRequest{Period: "2507", Seed: "GR-2507-0360"})
	require.NoError(t, err)
	assert.True(t, counter.Initialized)
	assert.Equal(t, int64(360), counter.NextValue)
	assert.Equal(t, "GR-2507-0360", counter.NextIdentifier)

	first, err := svc.AllocateForTeam(ctx, "GR", AllocateRequest{Period: "2507"})
	require.NoError(t, err)
	assert.Equal(t, "GR-2507-0360", first.Identifier)

	second, err := svc.AllocateForTeam(ctx, "GR", AllocateRequest{Period: "2507"})
	require.NoError(t, err)
	assert.Equal(t, "GR-2507-0361", second.Identifier)
	assert.Equal(t, int64(361), second.Sequence)

	assert.Equal(t, []string{
		numbering.EventTypeCounterSeeded,
		numbering.EventTypeIdentifierIssued,
		numbering.EventTypeIdentifierIssued,
	}, pub.types())
}

func TestAllocatorService_AllocateWithoutSeed(t *testing.T) {
	store := newMemCounterStore()
	svc, pub := newTestAllocator(store)

	_, err := svc.Allocate(context.Background(), mustKey(t, "GR", "2507"))

	var bootstrap *numbering.BootstrapRequiredError
	require.ErrorAs(t, err, &bootstrap)
	assert.Equal(t, "GR/2507", bootstrap.Key.String())
	assert.ErrorIs(t, err, numbering.ErrBootstrapRequired)
	assert.Empty(t, pub.types())
	assert.Equal(t, 0, store.advances)
}

func TestAllocatorService_SeedTwice(t *testing.T) {
	svc, _ := newTestAllocator(newMemCounterStore())
	ctx := context.Background()

	_, err := svc.Seed(ctx, "GR", SeedRequest{Period: "2507", Seed: "GR-2507-0360"})
	require.NoError(t, err)

	_, err = svc.Seed(ctx, "GR", SeedRequest{Period: "2507", Seed: "GR-2507-0900"})
	assert.ErrorIs(t, err, numbering.ErrAlreadyInitialized)

	counter, err := svc.Peek(ctx, "GR", "2507")
	require.NoError(t, err)
	assert.Equal(t, int64(360), counter.NextValue)
}

func TestAllocatorService_SeedValidation(t *testing.T) {
	svc, _ := newTestAllocator(newMemCounterStore())
	ctx := context.Background()

	tests := []struct {
		name string
		team string
		req  SeedRequest
		want error
	}{
		{"other team", "GR", SeedRequest{Period: "2507", Seed: "QA-2507-0001"}, numbering.ErrTeamMismatch},
		{"other period", "GR", SeedRequest{Period: "2507", Seed: "GR-2508-0001"}, numbering.ErrPeriodMismatch},
		{"malformed", "GR", SeedRequest{Period: "2507", Seed: "GR-2507-12"}, numbering.ErrInvalidSeed},
		{"bad team", "gr-1", SeedRequest{Period: "2507", Seed: "GR-2507-0001"}, numbering.ErrInvalidTeam},
		{"bad period", "GR", SeedRequest{Period: "2513", Seed: "GR-2513-0001"}, numbering.ErrInvalidPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Seed(ctx, tt.team, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAllocatorService_ConcurrentAllocationsAreContiguous(t *testing.T) {
	store := newMemCounterStore()
	svc, _ := newTestAllocator(store)
	ctx := context.Background()
	key := mustKey(t, "GR", "2507")
	require.NoError(t, store.Seed(ctx, key, 1))

	const workers = 10
	var wg sync.WaitGroup
	results := make([]int64, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := svc.Allocate(ctx, key)
			errs[i] = err
			results[i] = id.Sequence
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	for i, seq := range results {
		assert.Equal(t, int64(i+1), seq)
	}

	next, _, _ := store.Get(ctx, key)
	assert.Equal(t, int64(workers+1), next)
}

func TestAllocatorService_ResolveKey(t *testing.T) {
	svc, _ := newTestAllocator(newMemCounterStore())

	tests := []struct {
		name string
		req  AllocateRequest
		want string
	}{
		{"activity range wins", AllocateRequest{Period: "2501", ActivityRange: "2025-06-01 ~ 2025-06-30"}, "GR/2506"},
		{"explicit period", AllocateRequest{Period: "2501"}, "GR/2501"},
		{"current month", AllocateRequest{}, "GR/2507"},
		{"malformed range falls back to now", AllocateRequest{ActivityRange: "sometime soon"}, "GR/2507"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := svc.ResolveKey("GR", tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, key.String())
		})
	}
}

func TestAllocatorService_Peek(t *testing.T) {
	store := newMemCounterStore()
	svc, _ := newTestAllocator(store)
	ctx := context.Background()

	counter, err := svc.Peek(ctx, "GR", "")
	require.NoError(t, err)
	assert.Equal(t, "2507", counter.Period)
	assert.False(t, counter.Initialized)
	assert.Empty(t, counter.NextIdentifier)

	require.NoError(t, store.Seed(ctx, mustKey(t, "GR", "2507"), 12))
	counter, err = svc.Peek(ctx, "GR", "2507")
	require.NoError(t, err)
	assert.True(t, counter.Initialized)
	assert.Equal(t, "GR-2507-0012", counter.NextIdentifier)
	assert.Equal(t, 0, store.advances)
}

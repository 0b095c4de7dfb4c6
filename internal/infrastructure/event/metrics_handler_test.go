package event

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/domain/report"
	"github.com/kaizen/backend/internal/domain/workitem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *fakeRecorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *fakeRecorder) RecordIssued(ctx context.Context, team, period string, sequence int64) {
	r.add("issued " + team + " " + period + " " + numbering.NewIdentifier(numbering.CounterKey{Team: numbering.TeamCode(team), Period: numbering.PeriodKey(period)}, sequence).String())
}

func (r *fakeRecorder) RecordSeeded(ctx context.Context, team, period string) {
	r.add("seeded " + team + " " + period)
}

func (r *fakeRecorder) RecordFinalized(ctx context.Context, team string) {
	r.add("finalized " + team)
}

func (r *fakeRecorder) RecordArchived(ctx context.Context, team, reason string) {
	r.add("archived " + team + " " + reason)
}

func (r *fakeRecorder) RecordBoardSync(ctx context.Context, team string) {
	r.add("synced " + team)
}

func finalReport(t *testing.T) *report.Report {
	t.Helper()
	id := uuid.New()
	r, err := report.NewDraft("GR", &id, report.Content{Title: "Shorter changeover"})
	require.NoError(t, err)
	r.Identifier = "GR-2507-0003"
	r.Status = report.StatusFinal
	return r
}

func TestMetricsHandler_Handle(t *testing.T) {
	recorder := &fakeRecorder{}
	handler := NewMetricsHandler(recorder)
	ctx := context.Background()

	key, err := numbering.NewCounterKey("GR", "2507")
	require.NoError(t, err)
	r := finalReport(t)

	require.NoError(t, handler.Handle(ctx, numbering.NewCounterSeededEvent(key, 12)))
	require.NoError(t, handler.Handle(ctx, numbering.NewIdentifierIssuedEvent(numbering.NewIdentifier(key, 12))))
	require.NoError(t, handler.Handle(ctx, report.NewReportFinalizedEvent(r)))
	require.NoError(t, handler.Handle(ctx, report.NewReportArchivedEvent(r, report.ArchiveReasonSyncRemoved)))
	require.NoError(t, handler.Handle(ctx, workitem.NewTeamTasksSyncedEvent("GR", workitem.SyncPlan{Unchanged: 2}, 1)))
	require.NoError(t, handler.Handle(ctx, report.NewReportReopenedEvent(r)))

	assert.Equal(t, []string{
		"seeded GR 2507",
		"issued GR 2507 GR-2507-0012",
		"finalized GR",
		"archived GR sync_removed",
		"synced GR",
	}, recorder.calls)
}

func TestMetricsHandler_OnBus(t *testing.T) {
	recorder := &fakeRecorder{}
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewIdempotentHandler(NewMetricsHandler(recorder), newStore(t), zap.NewNop(), WithKeyFunc(NaturalKey)))

	key, err := numbering.NewCounterKey("GR", "2507")
	require.NoError(t, err)
	id := numbering.NewIdentifier(key, 1)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx,
		numbering.NewIdentifierIssuedEvent(id),
		numbering.NewIdentifierIssuedEvent(id),
		report.NewReportReopenedEvent(finalReport(t)),
	))

	assert.Equal(t, []string{"issued GR 2507 GR-2507-0001"}, recorder.calls)
}

package event

import (
	"context"

	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/domain/report"
	"github.com/kaizen/backend/internal/domain/shared"
	"github.com/kaizen/backend/internal/domain/workitem"
)

// NumberingRecorder receives numbering and report lifecycle measurements.
// telemetry.NumberingMetrics implements it.
type NumberingRecorder interface {
	RecordIssued(ctx context.Context, team, period string, sequence int64)
	RecordSeeded(ctx context.Context, team, period string)
	RecordFinalized(ctx context.Context, team string)
	RecordArchived(ctx context.Context, team, reason string)
	RecordBoardSync(ctx context.Context, team string)
}

// MetricsHandler turns committed domain events into metric points
type MetricsHandler struct {
	recorder NumberingRecorder
}

// NewMetricsHandler creates a MetricsHandler
func NewMetricsHandler(recorder NumberingRecorder) *MetricsHandler {
	return &MetricsHandler{recorder: recorder}
}

// EventTypes returns the events that carry a measurement
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		numbering.EventTypeCounterSeeded,
		numbering.EventTypeIdentifierIssued,
		report.EventTypeReportFinalized,
		report.EventTypeReportArchived,
		workitem.EventTypeTeamTasksSynced,
	}
}

// Handle records the event. Unknown event types are ignored.
func (h *MetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *numbering.CounterSeededEvent:
		h.recorder.RecordSeeded(ctx, e.TeamID(), e.Period)
	case *numbering.IdentifierIssuedEvent:
		h.recorder.RecordIssued(ctx, e.TeamID(), e.Period, e.Sequence)
	case *report.ReportFinalizedEvent:
		h.recorder.RecordFinalized(ctx, e.TeamID())
	case *report.ReportArchivedEvent:
		h.recorder.RecordArchived(ctx, e.TeamID(), e.Reason)
	case *workitem.TeamTasksSyncedEvent:
		h.recorder.RecordBoardSync(ctx, e.TeamID())
	}
	return nil
}

var _ shared.EventHandler = (*MetricsHandler)(nil)

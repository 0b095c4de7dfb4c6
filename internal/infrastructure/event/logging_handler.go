package event

import (
	"context"

	"github.com/kaizen/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LoggingHandler writes every domain event to the structured log. Subscribed
// without event types it acts as the service's event journal.
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingHandler{logger: logger.Named("events")}
}

// EventTypes returns nil: the handler wants every event
func (h *LoggingHandler) EventTypes() []string {
	return nil
}

// Handle logs the event envelope and its payload
func (h *LoggingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("Domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("team_id", event.TeamID()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
		zap.Any("payload", event),
	)
	return nil
}

var _ shared.EventHandler = (*LoggingHandler)(nil)

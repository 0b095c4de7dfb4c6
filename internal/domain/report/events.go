package report

import (
	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/shared"
)

// Aggregate type constant for Report
const AggregateTypeReport = "Report"

// Report event type constants
const (
	EventTypeReportFinalized = "ReportFinalized"
	EventTypeReportReopened  = "ReportReopened"
	EventTypeReportArchived  = "ReportArchived"
)

// ReportFinalizedEvent is raised when a report becomes final
type ReportFinalizedEvent struct {
	shared.BaseDomainEvent
	ReportID   uuid.UUID  `json:"report_id"`
	WorkItemID *uuid.UUID `json:"work_item_id,omitempty"`
	Identifier string     `json:"identifier"`
	Title      string     `json:"title"`
}

// NewReportFinalizedEvent creates a new ReportFinalizedEvent
func NewReportFinalizedEvent(r *Report) *ReportFinalizedEvent {
	return &ReportFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportFinalized, AggregateTypeReport, r.ID, r.TeamID),
		ReportID:        r.ID,
		WorkItemID:      r.WorkItemID,
		Identifier:      r.Identifier,
		Title:           r.Content.Title,
	}
}

// ReportReopenedEvent is raised when a final report is returned to draft
type ReportReopenedEvent struct {
	shared.BaseDomainEvent
	ReportID   uuid.UUID `json:"report_id"`
	Identifier string    `json:"identifier"`
}

// NewReportReopenedEvent creates a new ReportReopenedEvent
func NewReportReopenedEvent(r *Report) *ReportReopenedEvent {
	return &ReportReopenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportReopened, AggregateTypeReport, r.ID, r.TeamID),
		ReportID:        r.ID,
		Identifier:      r.Identifier,
	}
}

// ReportArchivedEvent is raised when a numbered report is moved to the archive
type ReportArchivedEvent struct {
	shared.BaseDomainEvent
	ReportID   uuid.UUID `json:"report_id"`
	Identifier string    `json:"identifier"`
	Reason     string    `json:"reason"`
}

// NewReportArchivedEvent creates a new ReportArchivedEvent
func NewReportArchivedEvent(r *Report, reason ArchiveReason) *ReportArchivedEvent {
	return &ReportArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportArchived, AggregateTypeReport, r.ID, r.TeamID),
		ReportID:        r.ID,
		Identifier:      r.Identifier,
		Reason:          string(reason),
	}
}

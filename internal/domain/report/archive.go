package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/shared"
)

// ArchiveReason records why a numbered report left the live tables
type ArchiveReason string

const (
	ArchiveReasonWorkItemDeleted ArchiveReason = "work_item_deleted"
	ArchiveReasonSyncRemoved     ArchiveReason = "sync_removed"
	ArchiveReasonReportDeleted   ArchiveReason = "report_deleted"
)

// ArchivedReport is a read-only copy of a report that was removed while it
// carried an identifier. Identifiers are never recycled, so the copy keeps
// the number accounted for.
type ArchivedReport struct {
	ID                uuid.UUID
	ReportID          uuid.UUID
	TeamID            string
	WorkItemID        *uuid.UUID
	Identifier        string
	Status            Status
	Content           Content
	Reason            ArchiveReason
	FinalizedAt       *time.Time
	OriginalCreatedAt time.Time
	ArchivedAt        time.Time
}

// Archive snapshots the report and raises ReportArchived on it
func (r *Report) Archive(reason ArchiveReason) (*ArchivedReport, error) {
	if !r.HasIdentifier() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only numbered reports are archived")
	}

	archived := &ArchivedReport{
		ID:                uuid.New(),
		ReportID:          r.ID,
		TeamID:            r.TeamID,
		WorkItemID:        r.WorkItemID,
		Identifier:        r.Identifier,
		Status:            r.Status,
		Content:           r.Content,
		Reason:            reason,
		FinalizedAt:       r.FinalizedAt,
		OriginalCreatedAt: r.CreatedAt,
		ArchivedAt:        time.Now(),
	}

	r.AddDomainEvent(NewReportArchivedEvent(r, reason))

	return archived, nil
}

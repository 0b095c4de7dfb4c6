package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/shared"
)

// Repository defines the interface for report persistence
type Repository interface {
	// FindByID finds a report within a team; shared.ErrNotFound if absent
	FindByID(ctx context.Context, teamID string, id uuid.UUID) (*Report, error)

	// FindByWorkItem finds the report owned by a work item; shared.ErrNotFound if absent
	FindByWorkItem(ctx context.Context, teamID string, workItemID uuid.UUID) (*Report, error)

	// FindByIdentifier finds the live report carrying an identifier
	FindByIdentifier(ctx context.Context, identifier string) (*Report, error)

	// FindAllForTeam returns a page of the team's reports
	FindAllForTeam(ctx context.Context, teamID string, filter ListFilter) ([]Report, int64, error)

	// Create inserts a report. shared.ErrAlreadyExists when the work item
	// already owns one.
	Create(ctx context.Context, r *Report) error

	// Save writes the report only if the stored version still equals
	// expectedVersion; shared.ErrStaleState otherwise
	Save(ctx context.Context, r *Report, expectedVersion int) error

	// Delete removes a report
	Delete(ctx context.Context, teamID string, id uuid.UUID) error
}

// ArchiveRepository stores archived copies of numbered reports
type ArchiveRepository interface {
	// Archive inserts an archived copy
	Archive(ctx context.Context, a *ArchivedReport) error

	// FindAllForTeam returns a page of the team's archived reports
	FindAllForTeam(ctx context.Context, teamID string, filter shared.Filter) ([]ArchivedReport, int64, error)
}

// ListFilter extends shared.Filter with report-specific filters
type ListFilter struct {
	shared.Filter
	Status     *Status
	Standalone *bool
}

package workitem

import (
	"context"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/shared"
)

// Repository defines the interface for work item persistence
type Repository interface {
	// FindByID finds a work item within a team; shared.ErrNotFound if absent
	FindByID(ctx context.Context, teamID string, id uuid.UUID) (*WorkItem, error)

	// FindAllForTeam returns a page of the team's board ordered by the filter
	FindAllForTeam(ctx context.Context, teamID string, filter ListFilter) ([]WorkItem, int64, error)

	// ListForTeam returns every item on the team's board
	ListForTeam(ctx context.Context, teamID string) ([]*WorkItem, error)

	// Create inserts a new work item
	Create(ctx context.Context, item *WorkItem) error

	// Save writes the item only if the stored version still equals
	// expectedVersion; shared.ErrStaleState otherwise
	Save(ctx context.Context, item *WorkItem, expectedVersion int) error

	// Delete removes a work item
	Delete(ctx context.Context, teamID string, id uuid.UUID) error
}

// ListFilter extends shared.Filter with board-specific filters
type ListFilter struct {
	shared.Filter
	Status *Status
}

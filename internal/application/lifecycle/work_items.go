package lifecycle

import (
	"context"
	"errors"
	"maps"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/report"
	"github.com/kaizen/backend/internal/domain/shared"
	"github.com/kaizen/backend/internal/domain/workitem"
	"go.uber.org/zap"
)

// CreateWorkItem adds a planned card to the team's board
func (s *LifecycleService) CreateWorkItem(ctx context.Context, teamID string, req CreateWorkItemRequest) (*WorkItemResponse, error) {
	item, err := workitem.NewWorkItem(teamID, req.Title, req.Category)
	if err != nil {
		return nil, err
	}
	maps.Copy(item.Fields, req.Fields)
	item.SortOrder = req.SortOrder

	if err := s.workItems.Create(ctx, item); err != nil {
		return nil, persistenceError(err, shared.ErrPersistenceFailed)
	}

	resp := ToWorkItemResponse(item)
	return &resp, nil
}

// GetWorkItem retrieves a card
func (s *LifecycleService) GetWorkItem(ctx context.Context, teamID string, id uuid.UUID) (*WorkItemResponse, error) {
	item, err := s.workItems.FindByID(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	resp := ToWorkItemResponse(item)
	return &resp, nil
}

// ListWorkItems returns a page of the team's board
func (s *LifecycleService) ListWorkItems(ctx context.Context, teamID string, filter WorkItemListFilter) (*shared.Paginated[WorkItemResponse], error) {
	f := workitem.ListFilter{
		Filter: pageFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
	}
	if f.OrderBy == "" {
		f.OrderBy, f.OrderDir = "sort_order", "asc"
	}
	if filter.Status != "" {
		status := workitem.Status(filter.Status)
		f.Status = &status
	}

	items, total, err := s.workItems.FindAllForTeam(ctx, teamID, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToWorkItemResponses(items), total, f.Page, f.PageSize)
	return &page, nil
}

// UpdateWorkItem edits a card's descriptive fields
func (s *LifecycleService) UpdateWorkItem(ctx context.Context, teamID string, id uuid.UUID, req UpdateWorkItemRequest) (*WorkItemResponse, error) {
	item, err := s.workItems.FindByID(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(req.Version, item.Version); err != nil {
		return nil, err
	}

	expected := item.Version
	if err := item.Update(req.Title, req.Category, req.Fields); err != nil {
		return nil, err
	}
	if req.ReportDraft != nil {
		item.SetReportDraft(*req.ReportDraft)
	}

	if err := s.workItems.Save(ctx, item, expected); err != nil {
		return nil, persistenceError(err, shared.ErrPersistenceFailed)
	}

	resp := ToWorkItemResponse(item)
	return &resp, nil
}

// Transition applies a lifecycle event to a card. The write is a
// compare-and-swap on the version read here, so a concurrent change yields
// shared.ErrStaleState instead of being overwritten.
func (s *LifecycleService) Transition(ctx context.Context, teamID string, id uuid.UUID, req TransitionRequest) (*WorkItemResponse, error) {
	event, err := workitem.ParseEvent(req.Event)
	if err != nil {
		return nil, err
	}

	item, err := s.workItems.FindByID(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(req.Version, item.Version); err != nil {
		return nil, err
	}

	expected := item.Version
	if err := item.Apply(event, req.DateRange); err != nil {
		return nil, err
	}

	if err := s.workItems.Save(ctx, item, expected); err != nil {
		return nil, persistenceError(err, shared.ErrPersistenceFailed)
	}

	s.logger.Info("Work item transitioned",
		zap.String("team_id", teamID),
		zap.String("work_item_id", id.String()),
		zap.String("event", string(event)),
		zap.String("status", item.Status.String()),
	)
	s.publishEvents(ctx, item)

	resp := ToWorkItemResponse(item)
	return &resp, nil
}

// DeleteWorkItem removes a card in any state. Its report goes with it; a
// numbered report is archived first so its identifier is never lost.
func (s *LifecycleService) DeleteWorkItem(ctx context.Context, teamID string, id uuid.UUID) error {
	var owned *report.Report
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		owned = nil
		if _, err := repos.WorkItems().FindByID(ctx, teamID, id); err != nil {
			return err
		}

		rep, err := repos.Reports().FindByWorkItem(ctx, teamID, id)
		switch {
		case errors.Is(err, shared.ErrNotFound):
		case err != nil:
			return err
		default:
			if err := removeReport(ctx, repos, rep, report.ArchiveReasonWorkItemDeleted); err != nil {
				return err
			}
			owned = rep
		}

		return repos.WorkItems().Delete(ctx, teamID, id)
	})
	if err != nil {
		return persistenceError(err, shared.ErrPersistenceFailed)
	}

	s.logger.Info("Work item deleted",
		zap.String("team_id", teamID),
		zap.String("work_item_id", id.String()),
		zap.Bool("report_removed", owned != nil),
	)
	if owned != nil {
		s.publishEvents(ctx, owned)
	}
	return nil
}

// removeReport deletes a report inside a unit of work, archiving it first
// when it carries an identifier
func removeReport(ctx context.Context, repos TransactionalRepositories, rep *report.Report, reason report.ArchiveReason) error {
	if rep.HasIdentifier() {
		archived, err := rep.Archive(reason)
		if err != nil {
			return err
		}
		if err := repos.Archive().Archive(ctx, archived); err != nil {
			return err
		}
	}
	return repos.Reports().Delete(ctx, rep.TeamID, rep.ID)
}

// releaseOwner clears the identifier of a removed report from the card that
// stays on the board
func releaseOwner(ctx context.Context, repos TransactionalRepositories, rep *report.Report) (*workitem.WorkItem, error) {
	if rep.WorkItemID == nil || !rep.HasIdentifier() {
		return nil, nil
	}
	item, err := repos.WorkItems().FindByID(ctx, rep.TeamID, *rep.WorkItemID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	expected := item.Version
	if !item.ReleaseIdentifier(rep.Identifier) {
		return nil, nil
	}
	if err := repos.WorkItems().Save(ctx, item, expected); err != nil {
		return nil, err
	}
	return item, nil
}

package lifecycle

import (
	"context"
	"errors"

	"github.com/kaizen/backend/internal/domain/report"
	"github.com/kaizen/backend/internal/domain/shared"
	"github.com/kaizen/backend/internal/domain/workitem"
	"go.uber.org/zap"
)

var errBoardRejected = errors.New("submitted board rejected")

// SyncTeamTasks replaces the team's board with the submitted one.
//
// The stored board is diffed against the submitted board by item id and only
// the differing rows are written, all in one transaction: after a failure
// the board is exactly what it was before. Reports of removed items are
// removed with them; numbered ones are archived. Identifiers are never taken
// from the submitted board.
//
// A changed card whose version differs from the stored one rejects the whole
// board with shared.ErrStaleState; the client must refresh. A storage level
// conflict with a concurrent writer is retried and reported as
// shared.ErrSyncFailed once the retry policy gives up.
func (s *LifecycleService) SyncTeamTasks(ctx context.Context, teamID string, req SyncTasksRequest) (*SyncResult, error) {
	entries := make([]workitem.BoardEntry, len(req.Items))
	for i, in := range req.Items {
		entries[i] = in.toDomain()
	}

	var (
		plan     workitem.SyncPlan
		board    []*workitem.WorkItem
		removed  []*report.Report
		archived int
		rejected error
	)
	err := s.allocator.Policy().RunConflicts(ctx, func(ctx context.Context) error {
		removed, archived, rejected = nil, 0, nil
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			current, err := repos.WorkItems().ListForTeam(ctx, teamID)
			if err != nil {
				return err
			}

			plan, err = workitem.PlanSync(teamID, current, entries)
			if err != nil {
				// the client's board is wrong, not the race; do not retry
				rejected = err
				return errBoardRejected
			}
			if plan.IsEmpty() {
				board = current
				return nil
			}

			for _, item := range plan.Delete {
				rep, err := repos.Reports().FindByWorkItem(ctx, teamID, item.ID)
				switch {
				case errors.Is(err, shared.ErrNotFound):
				case err != nil:
					return err
				default:
					if err := removeReport(ctx, repos, rep, report.ArchiveReasonSyncRemoved); err != nil {
						return err
					}
					if rep.HasIdentifier() {
						archived++
					}
					removed = append(removed, rep)
				}
				if err := repos.WorkItems().Delete(ctx, teamID, item.ID); err != nil {
					return err
				}
			}
			for _, item := range plan.Update {
				if err := repos.WorkItems().Save(ctx, item, plan.ExpectedVersion(item.ID)); err != nil {
					return err
				}
			}
			for _, item := range plan.Create {
				if err := repos.WorkItems().Create(ctx, item); err != nil {
					return err
				}
			}

			board, err = repos.WorkItems().ListForTeam(ctx, teamID)
			return err
		})
	})
	if rejected != nil {
		s.logger.Info("Team task sync rejected",
			zap.String("team_id", teamID),
			zap.Error(rejected),
		)
		return nil, rejected
	}
	if err != nil {
		s.logger.Warn("Team task sync failed",
			zap.String("team_id", teamID),
			zap.Error(err),
		)
		if errors.Is(err, shared.ErrStaleState) {
			return nil, shared.ErrSyncFailed
		}
		return nil, persistenceError(err, shared.ErrSyncFailed)
	}

	result := &SyncResult{
		Created:   len(plan.Create),
		Updated:   len(plan.Update),
		Deleted:   len(plan.Delete),
		Unchanged: plan.Unchanged,
		Archived:  archived,
		Items:     make([]WorkItemResponse, len(board)),
	}
	for i, item := range board {
		result.Items[i] = ToWorkItemResponse(item)
	}

	if !plan.IsEmpty() {
		s.logger.Info("Team tasks synced",
			zap.String("team_id", teamID),
			zap.Int("created", result.Created),
			zap.Int("updated", result.Updated),
			zap.Int("deleted", result.Deleted),
			zap.Int("archived", result.Archived),
		)
		sources := make([]eventSource, 0, len(removed)+len(plan.Update)+1)
		for _, rep := range removed {
			sources = append(sources, rep)
		}
		for _, item := range plan.Update {
			sources = append(sources, item)
		}
		sources = append(sources, issuedEvents{workitem.NewTeamTasksSyncedEvent(teamID, plan, archived)})
		s.publishEvents(ctx, sources...)
	}
	return result, nil
}

func (in BoardEntryRequest) toDomain() workitem.BoardEntry {
	entry := workitem.BoardEntry{
		Version:     in.Version,
		Title:       in.Title,
		Category:    in.Category,
		Status:      workitem.Status(in.Status),
		DateRange:   in.DateRange,
		ReportDraft: in.ReportDraft,
		Fields:      in.Fields,
		SortOrder:   in.SortOrder,
	}
	if in.ID != nil {
		entry.ID = *in.ID
	}
	return entry
}

package lifecycle

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/domain/report"
	"github.com/kaizen/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SaveDraft upserts a draft report by key: the report id when given,
// otherwise the owning work item. The write is one atomic unit; a lost race
// against another session creating the same work item's report is retried
// as an update.
func (s *LifecycleService) SaveDraft(ctx context.Context, teamID string, req SaveReportRequest) (*ReportResponse, error) {
	var saved *report.Report
	err := s.allocator.Policy().RunConflicts(ctx, func(ctx context.Context) error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			rep, err := upsertDraft(ctx, repos, teamID, req)
			if errors.Is(err, shared.ErrAlreadyExists) {
				return shared.ErrStaleState
			}
			saved = rep
			return err
		})
	})
	if err != nil {
		return nil, persistenceError(err, shared.ErrPersistenceFailed)
	}

	resp := ToReportResponse(saved)
	return &resp, nil
}

func upsertDraft(ctx context.Context, repos TransactionalRepositories, teamID string, req SaveReportRequest) (*report.Report, error) {
	content := req.Content.toDomain()

	var existing *report.Report
	var err error
	switch {
	case req.ReportID != nil:
		existing, err = repos.Reports().FindByID(ctx, teamID, *req.ReportID)
		if err != nil {
			return nil, err
		}
	case req.WorkItemID != nil:
		if _, err := repos.WorkItems().FindByID(ctx, teamID, *req.WorkItemID); err != nil {
			return nil, err
		}
		existing, err = repos.Reports().FindByWorkItem(ctx, teamID, *req.WorkItemID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	if existing == nil {
		rep, err := report.NewDraft(teamID, req.WorkItemID, content)
		if err != nil {
			return nil, err
		}
		if err := repos.Reports().Create(ctx, rep); err != nil {
			return nil, err
		}
		return rep, nil
	}

	if err := checkVersion(req.Version, existing.Version); err != nil {
		return nil, err
	}
	expected := existing.Version
	if err := existing.UpdateContent(content); err != nil {
		return nil, err
	}
	if err := repos.Reports().Save(ctx, existing, expected); err != nil {
		return nil, err
	}
	return existing, nil
}

// GetReport retrieves a report
func (s *LifecycleService) GetReport(ctx context.Context, teamID string, id uuid.UUID) (*ReportResponse, error) {
	rep, err := s.reports.FindByID(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	resp := ToReportResponse(rep)
	return &resp, nil
}

// GetReportByIdentifier looks a live report up by the identifier printed on
// it. Identifiers of other teams are reported as not found.
func (s *LifecycleService) GetReportByIdentifier(ctx context.Context, teamID, identifier string) (*ReportResponse, error) {
	id, err := numbering.ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if id.Team.String() != teamID {
		return nil, shared.ErrNotFound
	}
	rep, err := s.reports.FindByIdentifier(ctx, id.String())
	if err != nil {
		return nil, err
	}
	if rep.TeamID != teamID {
		return nil, shared.ErrNotFound
	}
	resp := ToReportResponse(rep)
	return &resp, nil
}

// GetReportForWorkItem retrieves the report owned by a work item
func (s *LifecycleService) GetReportForWorkItem(ctx context.Context, teamID string, workItemID uuid.UUID) (*ReportResponse, error) {
	rep, err := s.reports.FindByWorkItem(ctx, teamID, workItemID)
	if err != nil {
		return nil, err
	}
	resp := ToReportResponse(rep)
	return &resp, nil
}

// ListReports returns a page of the team's reports
func (s *LifecycleService) ListReports(ctx context.Context, teamID string, filter ReportListFilter) (*shared.Paginated[ReportResponse], error) {
	f := report.ListFilter{
		Filter:     pageFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
		Standalone: filter.Standalone,
	}
	if filter.Status != "" {
		status := report.Status(filter.Status)
		f.Status = &status
	}

	reports, total, err := s.reports.FindAllForTeam(ctx, teamID, f)
	if err != nil {
		return nil, err
	}
	out := make([]ReportResponse, len(reports))
	for i := range reports {
		out[i] = ToReportResponse(&reports[i])
	}
	page := shared.NewPaginated(out, total, f.Page, f.PageSize)
	return &page, nil
}

// ListArchivedReports returns a page of the team's archived reports
func (s *LifecycleService) ListArchivedReports(ctx context.Context, teamID string, filter ReportListFilter) (*shared.Paginated[ArchivedReportResponse], error) {
	f := pageFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	archived, total, err := s.archive.FindAllForTeam(ctx, teamID, f)
	if err != nil {
		return nil, err
	}
	out := make([]ArchivedReportResponse, len(archived))
	for i := range archived {
		out[i] = ToArchivedReportResponse(&archived[i])
	}
	page := shared.NewPaginated(out, total, f.Page, f.PageSize)
	return &page, nil
}

// ReopenReport returns a final report to draft for correction. The
// identifier stays attached and is reused when the report is finalized again.
func (s *LifecycleService) ReopenReport(ctx context.Context, teamID string, id uuid.UUID, version int) (*ReportResponse, error) {
	rep, err := s.reports.FindByID(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(version, rep.Version); err != nil {
		return nil, err
	}

	expected := rep.Version
	if err := rep.Reopen(); err != nil {
		return nil, err
	}
	if err := s.reports.Save(ctx, rep, expected); err != nil {
		return nil, persistenceError(err, shared.ErrPersistenceFailed)
	}

	s.logger.Info("Report reopened",
		zap.String("team_id", teamID),
		zap.String("report_id", id.String()),
		zap.String("identifier", rep.Identifier),
	)
	s.publishEvents(ctx, rep)

	resp := ToReportResponse(rep)
	return &resp, nil
}

// DiscardDraft drops a draft. Final reports cannot be discarded; they are
// deleted explicitly with DeleteReport.
func (s *LifecycleService) DiscardDraft(ctx context.Context, teamID string, id uuid.UUID) error {
	return s.removeReport(ctx, teamID, id, true)
}

// DeleteReport removes a report in any state, archiving it when it is numbered
func (s *LifecycleService) DeleteReport(ctx context.Context, teamID string, id uuid.UUID) error {
	return s.removeReport(ctx, teamID, id, false)
}

func (s *LifecycleService) removeReport(ctx context.Context, teamID string, id uuid.UUID, draftOnly bool) error {
	var removed *report.Report
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rep, err := repos.Reports().FindByID(ctx, teamID, id)
		if err != nil {
			return err
		}
		if draftOnly && rep.IsFinal() {
			return report.ErrReportFinal
		}
		if err := removeReport(ctx, repos, rep, report.ArchiveReasonReportDeleted); err != nil {
			return err
		}
		if _, err := releaseOwner(ctx, repos, rep); err != nil {
			return err
		}
		removed = rep
		return nil
	})
	if err != nil {
		return persistenceError(err, shared.ErrPersistenceFailed)
	}

	s.logger.Info("Report removed",
		zap.String("team_id", teamID),
		zap.String("report_id", id.String()),
		zap.Bool("archived", removed.HasIdentifier()),
	)
	s.publishEvents(ctx, removed)
	return nil
}

func pageFilter(page, pageSize int, orderBy, orderDir, search string) shared.Filter {
	f := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Search:   search,
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 50
	}
	return f
}

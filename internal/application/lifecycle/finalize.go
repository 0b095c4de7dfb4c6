package lifecycle

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/audit"
	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/domain/report"
	"github.com/kaizen/backend/internal/domain/shared"
	"github.com/kaizen/backend/internal/domain/workitem"
	"go.uber.org/zap"
)

// Finalize numbers a report and freezes it.
//
// Allocation, the final report and the owning work item's completion are
// written in a single transaction: if any step fails nothing is kept,
// including the consumed counter value. A lost counter race rolls the whole
// unit back and it is retried under the allocator's policy.
//
// A report that is already final is returned unchanged. A report that was
// numbered before (and reopened) keeps its identifier. When the counter for
// the report's period has never been seeded the result carries
// PendingBootstrap and the draft stays saved.
func (s *LifecycleService) Finalize(ctx context.Context, teamID string, id uuid.UUID, req FinalizeRequest) (*FinalizeResult, error) {
	current, err := s.reports.FindByID(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	if current.IsFinal() {
		return s.finalizeResult(ctx, current, nil, true), nil
	}

	if req.Content != nil {
		if _, err := s.SaveDraft(ctx, teamID, SaveReportRequest{ReportID: &id, Version: req.Version, Content: *req.Content}); err != nil {
			return nil, err
		}
		if current, err = s.reports.FindByID(ctx, teamID, id); err != nil {
			return nil, err
		}
	}
	if err := current.Content.Validate(); err != nil {
		return nil, err
	}

	var (
		finalized    *report.Report
		item         *workitem.WorkItem
		issued       *numbering.Identifier
		alreadyFinal bool
	)
	err = s.allocator.Policy().Run(ctx, func(ctx context.Context) error {
		finalized, item, issued, alreadyFinal = nil, nil, nil, false
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			rep, err := repos.Reports().FindByID(ctx, teamID, id)
			if err != nil {
				return err
			}
			current = rep
			if rep.IsFinal() {
				finalized, alreadyFinal = rep, true
				return nil
			}

			identifier, reused, err := rep.ExistingIdentifier()
			if err != nil {
				return err
			}
			if !reused {
				// the period comes from the content as stored now, not as first read
				key, err := s.counterKey(teamID, rep)
				if err != nil {
					return err
				}
				if identifier, err = numbering.AllocateOnce(ctx, repos.Counters(), key); err != nil {
					return err
				}
				issued = &identifier
			}

			expected := rep.Version
			if err := rep.Finalize(identifier); err != nil {
				return err
			}
			if err := repos.Reports().Save(ctx, rep, expected); err != nil {
				return err
			}
			finalized = rep

			if rep.WorkItemID != nil {
				if item, err = completeOwner(ctx, repos, teamID, *rep.WorkItemID, rep.Identifier); err != nil {
					return err
				}
			}
			return nil
		})
	})

	var bootstrap *numbering.BootstrapRequiredError
	if errors.As(err, &bootstrap) {
		s.logger.Info("Finalize waiting for counter bootstrap",
			zap.String("team_id", teamID),
			zap.String("report_id", id.String()),
			zap.String("counter", bootstrap.Key.String()),
		)
		result := s.finalizeResult(ctx, current, nil, false)
		result.PendingBootstrap = &PendingBootstrap{
			Team:   bootstrap.Key.Team.String(),
			Period: bootstrap.Key.Period.String(),
		}
		return result, nil
	}
	if err != nil {
		s.logger.Warn("Finalize failed",
			zap.String("team_id", teamID),
			zap.String("report_id", id.String()),
			zap.Error(err),
		)
		return nil, persistenceError(err, shared.ErrPersistenceFailed)
	}

	if alreadyFinal {
		return s.finalizeResult(ctx, finalized, nil, true), nil
	}

	s.logger.Info("Report finalized",
		zap.String("team_id", teamID),
		zap.String("report_id", id.String()),
		zap.String("identifier", finalized.Identifier),
		zap.Bool("identifier_reused", issued == nil),
	)
	if issued != nil {
		s.publishEvents(ctx, issuedEvents{numbering.NewIdentifierIssuedEvent(*issued)})
	}
	s.publishEvents(ctx, finalized, eventSourceOf(item))

	return s.finalizeResult(ctx, finalized, item, false), nil
}

// completeOwner completes the report's work item and records the identifier on it
func completeOwner(ctx context.Context, repos TransactionalRepositories, teamID string, workItemID uuid.UUID, identifier string) (*workitem.WorkItem, error) {
	item, err := repos.WorkItems().FindByID(ctx, teamID, workItemID)
	if err != nil {
		return nil, err
	}

	expected := item.Version
	completed := item.CompleteForReport()
	if err := item.AttachIdentifier(identifier); err != nil {
		return nil, err
	}
	if !completed && item.Version == expected {
		return item, nil
	}
	if err := repos.WorkItems().Save(ctx, item, expected); err != nil {
		return nil, err
	}
	return item, nil
}

// counterKey decides which counter an unnumbered report is numbered from
func (s *LifecycleService) counterKey(teamID string, rep *report.Report) (numbering.CounterKey, error) {
	period := s.allocator.PeriodFor(rep.Content.ActivityRange)
	return numbering.NewCounterKey(teamID, period.String())
}

func (s *LifecycleService) finalizeResult(ctx context.Context, rep *report.Report, item *workitem.WorkItem, alreadyFinal bool) *FinalizeResult {
	result := &FinalizeResult{
		Report:       ToReportResponse(rep),
		AlreadyFinal: alreadyFinal,
	}
	if item != nil {
		resp := ToWorkItemResponse(item)
		result.WorkItem = &resp
	}
	if baseline, err := s.auditBaseline(ctx, rep.TeamID); err == nil {
		result.Baseline = ToBaselineResponse(baseline)
	} else {
		s.logger.Warn("Audit baseline unavailable", zap.String("team_id", rep.TeamID), zap.Error(err))
	}
	return result
}

// AuditBaseline reports whether the team has been audited before and how
// its latest score compares with the previous one
func (s *LifecycleService) AuditBaseline(ctx context.Context, teamID string) (*BaselineResponse, error) {
	baseline, err := s.auditBaseline(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return ToBaselineResponse(baseline), nil
}

func (s *LifecycleService) auditBaseline(ctx context.Context, teamID string) (audit.Baseline, error) {
	if s.audits == nil {
		return audit.ComputeBaseline(teamID, nil), nil
	}
	records, err := s.audits.LatestForTeam(ctx, teamID, 2)
	if err != nil {
		return audit.Baseline{}, err
	}
	return audit.ComputeBaseline(teamID, records), nil
}

// issuedEvents adapts loose events to eventSource
type issuedEvents []shared.DomainEvent

func (e issuedEvents) GetDomainEvents() []shared.DomainEvent { return e }
func (e issuedEvents) ClearDomainEvents()                    {}

// eventSourceOf avoids handing a typed nil pointer to publishEvents
func eventSourceOf(item *workitem.WorkItem) eventSource {
	if item == nil {
		return nil
	}
	return item
}

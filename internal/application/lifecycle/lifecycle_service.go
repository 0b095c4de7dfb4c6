package lifecycle

import (
	"context"
	"errors"
	"fmt"

	appnumbering "github.com/kaizen/backend/internal/application/numbering"
	"github.com/kaizen/backend/internal/domain/audit"
	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/domain/report"
	"github.com/kaizen/backend/internal/domain/shared"
	"github.com/kaizen/backend/internal/domain/workitem"
	"go.uber.org/zap"
)

// LifecycleService moves work items and reports through their lifecycles and
// numbers reports when they are finalized
type LifecycleService struct {
	workItems      workitem.Repository
	reports        report.Repository
	archive        report.ArchiveRepository
	audits         audit.Repository
	txScope        TransactionScope
	allocator      *appnumbering.AllocatorService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLifecycleService creates a new LifecycleService. The repositories are
// used for reads outside transactions; txScope provides the transactional
// ones.
func NewLifecycleService(
	workItems workitem.Repository,
	reports report.Repository,
	archive report.ArchiveRepository,
	audits audit.Repository,
	txScope TransactionScope,
	allocator *appnumbering.AllocatorService,
	logger *zap.Logger,
) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{
		workItems: workItems,
		reports:   reports,
		archive:   archive,
		audits:    audits,
		txScope:   txScope,
		allocator: allocator,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LifecycleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// eventSource is anything that buffers domain events until commit
type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publishEvents publishes buffered events once the unit of work committed.
// Errors are logged by the event bus, not propagated.
func (s *LifecycleService) publishEvents(ctx context.Context, sources ...eventSource) {
	var events []shared.DomainEvent
	for _, src := range sources {
		if src == nil {
			continue
		}
		events = append(events, src.GetDomainEvents()...)
		src.ClearDomainEvents()
	}
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// persistenceError classifies an error that escaped a unit of work. Typed
// domain errors pass through; anything from the storage layer becomes
// shared.ErrPersistenceFailed.
func persistenceError(err error, typed error) error {
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) ||
		errors.Is(err, numbering.ErrBootstrapRequired) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", typed, err)
}

// checkVersion compares the client's last seen version with the stored one
func checkVersion(clientVersion, stored int) error {
	if clientVersion > 0 && clientVersion != stored {
		return shared.ErrStaleState
	}
	return nil
}

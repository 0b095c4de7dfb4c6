package numbering

import (
	"context"
	"time"

	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AllocatorService issues identifiers from the per-team counters
type AllocatorService struct {
	store          numbering.CounterStore
	policy         RetryPolicy
	location       *time.Location
	now            func() time.Time
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAllocatorService creates a new AllocatorService
func NewAllocatorService(store numbering.CounterStore, policy RetryPolicy, logger *zap.Logger) *AllocatorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocatorService{
		store:    store,
		policy:   policy.normalized(),
		location: time.Local,
		now:      time.Now,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AllocatorService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLocation sets the timezone that decides the current period
func (s *AllocatorService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

// SetClock overrides the clock used for the fallback period
func (s *AllocatorService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Policy returns the retry policy shared with callers that allocate inside
// their own units of work
func (s *AllocatorService) Policy() RetryPolicy {
	return s.policy
}

// PeriodFor derives the period for an activity range, falling back to the
// current month in the configured timezone
func (s *AllocatorService) PeriodFor(activityRange string) numbering.PeriodKey {
	return numbering.PeriodFor(activityRange, s.now().In(s.location))
}

// ResolveKey builds the counter key for a request. An explicit activity range
// wins over an explicit period; neither means the current month.
func (s *AllocatorService) ResolveKey(team string, req AllocateRequest) (numbering.CounterKey, error) {
	period := req.Period
	if req.ActivityRange != "" || period == "" {
		period = s.PeriodFor(req.ActivityRange).String()
	}
	return numbering.NewCounterKey(team, period)
}

// Allocate issues the next identifier for (team, period).
//
// A counter that was never seeded yields *numbering.BootstrapRequiredError.
// Lost races are retried under the policy and surface as
// numbering.ErrAllocationFailed once it is exhausted.
func (s *AllocatorService) Allocate(ctx context.Context, key numbering.CounterKey) (numbering.Identifier, error) {
	var issued numbering.Identifier
	err := s.policy.Run(ctx, func(ctx context.Context) error {
		id, err := numbering.AllocateOnce(ctx, s.store, key)
		if err != nil {
			return err
		}
		issued = id
		return nil
	})
	if err != nil {
		s.logger.Warn("Identifier allocation failed",
			zap.String("counter", key.String()),
			zap.Error(err),
		)
		return numbering.Identifier{}, err
	}

	s.logger.Info("Identifier issued",
		zap.String("identifier", issued.String()),
	)
	s.publish(ctx, numbering.NewIdentifierIssuedEvent(issued))
	return issued, nil
}

// AllocateForTeam resolves the key from the request and allocates
func (s *AllocatorService) AllocateForTeam(ctx context.Context, team string, req AllocateRequest) (*IdentifierResponse, error) {
	key, err := s.ResolveKey(team, req)
	if err != nil {
		return nil, err
	}
	id, err := s.Allocate(ctx, key)
	if err != nil {
		return nil, err
	}
	resp := ToIdentifierResponse(id)
	return &resp, nil
}

// Seed bootstraps a counter from a human-supplied TEAM-PERIOD-NNNN value.
// NNNN becomes the next value handed out.
func (s *AllocatorService) Seed(ctx context.Context, team string, req SeedRequest) (*CounterResponse, error) {
	key, err := numbering.NewCounterKey(team, req.Period)
	if err != nil {
		return nil, err
	}
	start, err := numbering.ParseSeed(key, req.Seed)
	if err != nil {
		return nil, err
	}
	if err := s.store.Seed(ctx, key, start); err != nil {
		return nil, err
	}

	s.logger.Info("Counter seeded",
		zap.String("counter", key.String()),
		zap.Int64("start", start),
	)
	s.publish(ctx, numbering.NewCounterSeededEvent(key, start))
	return counterResponse(key, start, true), nil
}

// Peek returns the counter state without advancing it
func (s *AllocatorService) Peek(ctx context.Context, team, period string) (*CounterResponse, error) {
	if period == "" {
		period = s.PeriodFor("").String()
	}
	key, err := numbering.NewCounterKey(team, period)
	if err != nil {
		return nil, err
	}
	next, found, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return counterResponse(key, next, found), nil
}

// publish hands events to the bus; failures are logged by the bus, not propagated
func (s *AllocatorService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

func counterResponse(key numbering.CounterKey, next int64, found bool) *CounterResponse {
	resp := &CounterResponse{
		Team:        key.Team.String(),
		Period:      key.Period.String(),
		Initialized: found,
	}
	if found {
		resp.NextValue = next
		resp.NextIdentifier = numbering.NewIdentifier(key, next).String()
	}
	return resp
}

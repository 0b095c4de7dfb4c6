package lifecycle_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/application/lifecycle"
	appnumbering "github.com/kaizen/backend/internal/application/numbering"
	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/domain/shared"
	"github.com/kaizen/backend/internal/infrastructure/config"
	"github.com/kaizen/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

type fixture struct {
	db       *gorm.DB
	svc      *lifecycle.LifecycleService
	alloc    *appnumbering.AllocatorService
	counters *persistence.GormCounterStore
	pub      *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: ":memory:",
	}, zap.NewNop(), gormlogger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.AutoMigrate())

	db := database.DB
	counters := persistence.NewGormCounterStore(db)
	alloc := appnumbering.NewAllocatorService(counters, appnumbering.RetryPolicy{
		MaxAttempts:     20,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Timeout:         10 * time.Second,
	}, zap.NewNop())
	alloc.SetLocation(time.UTC)
	alloc.SetClock(func() time.Time { return time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC) })

	svc := lifecycle.NewLifecycleService(
		persistence.NewGormWorkItemRepository(db),
		persistence.NewGormReportRepository(db),
		persistence.NewGormArchiveRepository(db),
		persistence.NewGormAuditRepository(db),
		persistence.NewGormTransactionScope(db),
		alloc,
		zap.NewNop(),
	)
	pub := &recordingPublisher{}
	svc.SetEventPublisher(pub)

	return &fixture{db: db, svc: svc, alloc: alloc, counters: counters, pub: pub}
}

func (f *fixture) seed(t *testing.T, team, period, seed string) {
	t.Helper()
	_, err := f.alloc.Seed(context.Background(), team, appnumbering.SeedRequest{Period: period, Seed: seed})
	require.NoError(t, err)
}

func (f *fixture) next(t *testing.T, team, period string) (int64, bool) {
	t.Helper()
	key, err := numbering.NewCounterKey(team, period)
	require.NoError(t, err)
	v, found, err := f.counters.Get(context.Background(), key)
	require.NoError(t, err)
	return v, found
}

func (f *fixture) createItem(t *testing.T, team, title string) *lifecycle.WorkItemResponse {
	t.Helper()
	item, err := f.svc.CreateWorkItem(context.Background(), team, lifecycle.CreateWorkItemRequest{Title: title, Category: "quality"})
	require.NoError(t, err)
	return item
}

func (f *fixture) draftFor(t *testing.T, team string, workItemID *uuid.UUID, title, activityRange string) *lifecycle.ReportResponse {
	t.Helper()
	rep, err := f.svc.SaveDraft(context.Background(), team, lifecycle.SaveReportRequest{
		WorkItemID: workItemID,
		Content: lifecycle.ReportContentInput{
			Title:         title,
			Before:        "paper checklist",
			After:         "tablet checklist",
			ActivityRange: activityRange,
		},
	})
	require.NoError(t, err)
	return rep
}

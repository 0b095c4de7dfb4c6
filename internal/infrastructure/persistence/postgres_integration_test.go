//go:build integration

package persistence_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	appnumbering "github.com/kaizen/backend/internal/application/numbering"
	"github.com/kaizen/backend/internal/infrastructure/migration"
	"github.com/kaizen/backend/internal/infrastructure/persistence"
	"github.com/kaizen/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a PostgreSQL container and applies the embedded migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("kaizen_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(20)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	version, dirty, err := m.Version()
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(5), version)

	return db
}

func TestPostgres_ConcurrentAllocationIsGapFree(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	alloc := appnumbering.NewAllocatorService(persistence.NewGormCounterStore(db), appnumbering.RetryPolicy{
		MaxAttempts:     100,
		InitialInterval: time.Millisecond,
		MaxInterval:     20 * time.Millisecond,
		Timeout:         30 * time.Second,
	}, zap.NewNop())

	_, err := alloc.Seed(ctx, "GR", appnumbering.SeedRequest{Period: "2507", Seed: "GR-2507-0360"})
	require.NoError(t, err)

	const workers = 16
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got []string
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := alloc.AllocateForTeam(ctx, "GR", appnumbering.AllocateRequest{Period: "2507"})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			got = append(got, resp.Identifier)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, got, workers)
	sort.Strings(got)
	for i, id := range got {
		assert.Equal(t, fmt.Sprintf("GR-2507-%04d", 360+i), id)
	}

	peek, err := alloc.Peek(ctx, "GR", "2507")
	require.NoError(t, err)
	assert.Equal(t, int64(360+workers), peek.NextValue)
}

func TestPostgres_SeedRace(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	alloc := appnumbering.NewAllocatorService(persistence.NewGormCounterStore(db), appnumbering.DefaultRetryPolicy(), zap.NewNop())

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seed := fmt.Sprintf("QA-2512-%04d", 10+i)
			if _, err := alloc.Seed(ctx, "QA", appnumbering.SeedRequest{Period: "2512", Seed: seed}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

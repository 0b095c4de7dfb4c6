package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/kaizen/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type slot struct {
	Name string `gorm:"primaryKey"`
	Seq  int64
}

func TestDBMetrics_CountsStatementsAndMissedUpdates(t *testing.T) {
	c := newCollector(t)
	m, err := telemetry.NewDBMetrics(c.provider.Meter("db.client"), time.Hour, zap.NewNop())
	require.NoError(t, err)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&slot{}))
	require.NoError(t, db.Use(m))

	require.NoError(t, db.Create(&slot{Name: "GR-2507", Seq: 360}).Error)

	won := db.Model(&slot{}).Where("name = ? AND seq = ?", "GR-2507", 360).Update("seq", 361)
	require.NoError(t, won.Error)
	require.Equal(t, int64(1), won.RowsAffected)

	lost := db.Model(&slot{}).Where("name = ? AND seq = ?", "GR-2507", 360).Update("seq", 361)
	require.NoError(t, lost.Error)
	require.Equal(t, int64(0), lost.RowsAffected)

	var got slot
	require.NoError(t, db.First(&got, "name = ?", "GR-2507").Error)

	rm := c.collect(t)
	table := telemetry.AttrDBTable.String("slots")
	assert.Equal(t, int64(1), sum(rm, "db_query_total", telemetry.AttrDBOperation.String("INSERT"), table))
	assert.Equal(t, int64(2), sum(rm, "db_query_total", telemetry.AttrDBOperation.String("UPDATE"), table))
	assert.Equal(t, int64(1), sum(rm, "db_query_total", telemetry.AttrDBOperation.String("SELECT"), table))
	assert.Equal(t, int64(1), sum(rm, "db_conditional_update_miss_total", table))
}

func TestDBMetrics_PoolStats(t *testing.T) {
	c := newCollector(t)
	m, err := telemetry.NewDBMetrics(c.provider.Meter("db.client"), time.Hour, zap.NewNop())
	require.NoError(t, err)

	// Before Initialize there is no pool to sample
	m.StartPoolStatsCollection(context.Background())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(3)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Use(m))

	m.StartPoolStatsCollection(context.Background())
	m.Stop()
	m.Stop()

	maxConns, ok := gauge(c.collect(t), "db_pool_connections", telemetry.AttrDBState.String("max"))
	require.True(t, ok)
	assert.Equal(t, int64(3), maxConns)
}

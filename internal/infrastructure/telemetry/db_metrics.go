package telemetry

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetrics instruments the GORM connection: statement counts and latency,
// pool occupancy, and conditional updates that matched no row. The last one
// is the rate at which compare-and-swap writes (counter advances, versioned
// saves) lose to a concurrent session.
type DBMetrics struct {
	queryTotal    *Counter
	queryDuration *Histogram
	casMisses     *Counter
	poolConns     *Gauge

	sqlDB        *sql.DB
	poolInterval time.Duration
	logger       *zap.Logger
	stopCh       chan struct{}
	wg           sync.WaitGroup
	stopOnce     sync.Once
}

// NewDBMetrics creates the instruments. poolInterval <= 0 means 15s.
func NewDBMetrics(meter metric.Meter, poolInterval time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if poolInterval <= 0 {
		poolInterval = 15 * time.Second
	}

	m := &DBMetrics{poolInterval: poolInterval, logger: logger, stopCh: make(chan struct{})}
	var err error
	if m.queryTotal, err = NewCounter(meter, "db_query_total", "Database statements by operation and table", "{query}"); err != nil {
		return nil, err
	}
	if m.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.casMisses, err = NewCounter(meter, "db_conditional_update_miss_total", "Updates that matched no row", "{update}"); err != nil {
		return nil, err
	}
	if m.poolConns, err = NewGauge(meter, "db_pool_connections", "Pool connections by state", "{connection}"); err != nil {
		return nil, err
	}
	return m, nil
}

// Name implements gorm.Plugin
func (m *DBMetrics) Name() string {
	return "kaizen:db_metrics"
}

// Initialize implements gorm.Plugin
func (m *DBMetrics) Initialize(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	m.sqlDB = sqlDB

	start := func(tx *gorm.DB) {
		tx.InstanceSet(startedAtKey, time.Now())
	}
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").Register("db_metrics:before_create", start); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("db_metrics:before_query", start); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("db_metrics:before_update", start); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("db_metrics:before_delete", start); err != nil {
		return err
	}

	if err := cb.Create().After("gorm:create").Register("db_metrics:after_create", m.after("INSERT")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("db_metrics:after_query", m.after("SELECT")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("db_metrics:after_update", m.after("UPDATE")); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("db_metrics:after_delete", m.after("DELETE"))
}

const startedAtKey = "db_metrics:started_at"

func (m *DBMetrics) after(op string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		ctx := tx.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		table := tx.Statement.Table
		if table == "" {
			table = "unknown"
		}

		m.queryTotal.Inc(ctx, AttrDBOperation.String(op), AttrDBTable.String(table))
		if v, ok := tx.InstanceGet(startedAtKey); ok {
			if startedAt, ok := v.(time.Time); ok {
				m.queryDuration.RecordDuration(ctx, time.Since(startedAt), AttrDBOperation.String(op), AttrDBTable.String(table))
			}
		}
		if op == "UPDATE" && tx.Error == nil && tx.RowsAffected == 0 {
			m.casMisses.Inc(ctx, AttrDBTable.String(table))
		}
	}
}

// StartPoolStatsCollection samples the connection pool until Stop or ctx
// is done. Initialize must have run first.
func (m *DBMetrics) StartPoolStatsCollection(ctx context.Context) {
	if m.sqlDB == nil {
		m.logger.Warn("Cannot collect pool stats before the plugin is initialized")
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.poolInterval)
		defer ticker.Stop()

		m.collectPoolStats(ctx)
		for {
			select {
			case <-ticker.C:
				m.collectPoolStats(ctx)
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *DBMetrics) collectPoolStats(ctx context.Context) {
	stats := m.sqlDB.Stats()
	m.poolConns.Record(ctx, int64(stats.Idle), AttrDBState.String("idle"))
	m.poolConns.Record(ctx, int64(stats.InUse), AttrDBState.String("in_use"))
	m.poolConns.Record(ctx, int64(stats.MaxOpenConnections), AttrDBState.String("max"))
}

// Stop ends pool sampling. Safe to call more than once.
func (m *DBMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		m.wg.Wait()
	})
}

var _ gorm.Plugin = (*DBMetrics)(nil)

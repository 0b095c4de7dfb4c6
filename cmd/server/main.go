package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaizen/backend/internal/application/lifecycle"
	appnumbering "github.com/kaizen/backend/internal/application/numbering"
	"github.com/kaizen/backend/internal/domain/shared"
	"github.com/kaizen/backend/internal/infrastructure/cache"
	"github.com/kaizen/backend/internal/infrastructure/config"
	"github.com/kaizen/backend/internal/infrastructure/event"
	"github.com/kaizen/backend/internal/infrastructure/logger"
	"github.com/kaizen/backend/internal/infrastructure/migration"
	"github.com/kaizen/backend/internal/infrastructure/persistence"
	"github.com/kaizen/backend/internal/infrastructure/telemetry"
	"github.com/kaizen/backend/internal/interfaces/http/handler"
	"github.com/kaizen/backend/internal/interfaces/http/middleware"
	"github.com/kaizen/backend/internal/interfaces/http/router"
	"github.com/kaizen/backend/migrations"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

//	@title			Kaizen Backend API
//	@version		1.0
//	@description	Improvement activity board and report numbering service
//	@BasePath		/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Kaizen Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", handler.Version),
	)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down metrics", zap.Error(err))
		}
	}()
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver))

	if err := prepareSchema(cfg, db, log); err != nil {
		log.Fatal("Failed to prepare schema", zap.Error(err))
	}

	if meterProvider.IsEnabled() {
		dbMetrics, err := telemetry.NewDBMetrics(meter, 0, log)
		if err != nil {
			log.Fatal("Failed to create database metrics", zap.Error(err))
		}
		if err := db.DB.Use(dbMetrics); err != nil {
			log.Fatal("Failed to register database metrics", zap.Error(err))
		}
		dbMetrics.StartPoolStatsCollection(ctx)
		defer dbMetrics.Stop()
	}

	// Domain events
	bus := event.NewInMemoryEventBus(log)
	if err := wireEventHandlers(ctx, cfg, bus, meter, log); err != nil {
		log.Fatal("Failed to wire event handlers", zap.Error(err))
	}
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		_ = bus.Stop(context.Background())
	}()

	// Application services
	location, err := cfg.Numbering.Location()
	if err != nil {
		log.Fatal("Invalid numbering timezone", zap.Error(err))
	}
	allocator := appnumbering.NewAllocatorService(
		persistence.NewGormCounterStore(db.DB),
		appnumbering.RetryPolicy{
			MaxAttempts:     cfg.Numbering.MaxAttempts,
			InitialInterval: cfg.Numbering.InitialInterval,
			MaxInterval:     cfg.Numbering.MaxInterval,
			Timeout:         cfg.Numbering.Timeout,
		},
		log,
	)
	allocator.SetLocation(location)
	allocator.SetEventPublisher(bus)

	lifecycleService := lifecycle.NewLifecycleService(
		persistence.NewGormWorkItemRepository(db.DB),
		persistence.NewGormReportRepository(db.DB),
		persistence.NewGormArchiveRepository(db.DB),
		persistence.NewGormAuditRepository(db.DB),
		persistence.NewGormTransactionScope(db.DB),
		allocator,
		log,
	)
	lifecycleService.SetEventPublisher(bus)

	// HTTP
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up request validation", zap.Error(err))
	}
	httpMeter := meter
	if !meterProvider.IsEnabled() {
		httpMeter = nil
	}
	engine, err := router.NewEngine(cfg.HTTP, log, httpMeter)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}
	router.Mount(engine, router.Handlers{
		System:    handler.NewSystemHandler(cfg.App.Name, db),
		Counters:  handler.NewCounterHandler(allocator),
		WorkItems: handler.NewWorkItemHandler(lifecycleService),
		Reports:   handler.NewReportHandler(lifecycleService),
		Audit:     handler.NewAuditHandler(lifecycleService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// prepareSchema creates the schema for sqlite and, when enabled, applies the
// embedded migrations to PostgreSQL
func prepareSchema(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if db.Driver == "sqlite" {
		return db.AutoMigrate()
	}
	if !cfg.Database.MigrateOnStart {
		return nil
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared *sql.DB
	return m.Up()
}

// wireEventHandlers subscribes the logging and metrics handlers. The metrics
// handler is deduplicated on natural keys so a redelivered event is counted once.
func wireEventHandlers(ctx context.Context, cfg *config.Config, bus *event.InMemoryEventBus, meter metric.Meter, log *zap.Logger) error {
	bus.Subscribe(event.NewLoggingHandler(log))

	numberingMetrics, err := telemetry.NewNumberingMetrics(meter)
	if err != nil {
		return err
	}
	store, err := cache.NewIdempotencyStoreFactory(cfg.Event, cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
	if err != nil {
		return err
	}
	bus.Subscribe(event.NewIdempotentHandler(
		event.NewMetricsHandler(numberingMetrics),
		store,
		log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{TTL: cfg.Event.IdempotencyTTL, Enabled: true}),
		event.WithKeyFunc(event.NaturalKey),
		event.WithKeyPrefix("metrics:"),
	))
	return nil
}

package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/kaizen/backend/internal/infrastructure/config"
	"github.com/kaizen/backend/internal/infrastructure/logger"
	"github.com/kaizen/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// NewEngine builds a gin engine with the standard middleware chain:
// request ID, panic recovery, access log, CORS, body limit, request timeout
// and, when meter is non-nil, HTTP metrics.
func NewEngine(cfg config.HTTPConfig, log *zap.Logger, meter metric.Meter) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSAllowOrigins)))
	engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	engine.Use(middleware.Timeout(cfg.WriteTimeout))

	if meter != nil {
		metricsMiddleware, err := middleware.HTTPMetrics(meter)
		if err != nil {
			return nil, fmt.Errorf("http metrics: %w", err)
		}
		engine.Use(metricsMiddleware)
	}

	return engine, nil
}

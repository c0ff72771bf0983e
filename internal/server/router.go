// Package server assembles the HTTP router and the gRPC health endpoint.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/metrics"
	"github.com/fekuna/omnipos-catalog-service/internal/response"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const apiVersion = "1.0.0"

// Routes is implemented by the domain handlers.
type Routes interface {
	Register(rg *gin.RouterGroup)
}

// Pinger reports database reachability for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterConfig struct {
	Development    bool
	AllowedOrigins []string
	Logger         logger.ZapLogger
	Responder      *response.Responder
	DB             Pinger
	Products       Routes
	Categories     Routes
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		RequestID(),
		AccessLog(cfg.Logger),
		metrics.Middleware(),
		Recovery(cfg.Logger, cfg.Responder),
		CORS(cfg.AllowedOrigins),
	)

	r.GET("/", welcome(cfg.Responder))
	r.GET("/health", healthCheck(cfg.Responder, cfg.DB, cfg.Logger))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	cfg.Products.Register(r.Group("/products"))
	cfg.Categories.Register(r.Group("/category"))

	r.NoRoute(func(c *gin.Context) {
		cfg.Responder.Error(c, apperror.NotFound("route_not_found"))
	})
	return r
}

func welcome(resp *response.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": resp.T(c, "api_welcome"),
			"version": apiVersion,
			"endpoints": gin.H{
				"products":   "/products",
				"categories": "/category",
				"health":     "/health",
			},
		})
	}
}

// healthCheck is a liveness probe: it answers 200 even when the database is down
// and reports the database state alongside.
func healthCheck(resp *response.Responder, db Pinger, log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		database := "up"
		if db == nil {
			database = "unknown"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				log.Warn("health check: database unreachable", zap.Error(err))
				database = "down"
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   resp.T(c, "api_healthy"),
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"database":  database,
		})
	}
}

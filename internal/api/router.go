package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tradelens/tradelens/internal/middleware"
	"github.com/tradelens/tradelens/internal/models"
	"github.com/tradelens/tradelens/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Documents   DocumentService
	Storage     StorageChecker
	Hub         *ws.Hub // nil disables /ws
	CORSOrigins []string
	Version     string
	// ServeMetrics mounts /metrics on this router. It is off when metrics get
	// their own listener.
	ServeMetrics bool
}

// Router-level limits.
const (
	maxBodySize = 10 << 20 // 10 MB
	rateLimit   = 100      // requests per second per IP
	rateBurst   = 200      // token bucket burst size
	saveRate    = 5        // document saves per second per IP
	saveBurst   = 20
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.NewRateLimiter(ctx, saveRate, saveBurst, http.MethodPost).Handler())
	r.Use(middleware.PrometheusMiddleware())

	if deps.ServeMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// registerRoutes sets up the versioned API on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	health := NewHealthHandler(deps.Storage, hubCounter(deps.Hub), deps.Log, deps.Version)
	docs := NewDocumentHandler(deps.Documents, deps.Log)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	api.GET("/data/:kind", docs.Get)
	api.POST("/data/:kind", docs.Save)

	if deps.Hub != nil {
		api.GET("/ws", wsHandler(ctx, deps.Log, deps.Hub, deps.CORSOrigins))
	}
}

// registerLegacyRoutes mounts the original dashboard endpoints.
func registerLegacyRoutes(legacy *gin.RouterGroup, deps *RouterDeps) {
	docs := NewDocumentHandler(deps.Documents, deps.Log)

	legacy.GET("/load-data", docs.LoadLegacyMacro)
	legacy.POST("/save-data", docs.SaveLegacyMacro)
	legacy.GET("/load-industry-data", docs.LoadKind(models.KindIndustry))
	legacy.POST("/save-industry-data", docs.SaveKind(models.KindIndustry))
	legacy.GET("/load-company-data", docs.LoadKind(models.KindCompany))
	legacy.POST("/save-company-data", docs.SaveKind(models.KindCompany))
}

// hubCounter avoids storing a typed nil *ws.Hub in the HubCounter interface.
func hubCounter(h *ws.Hub) HubCounter {
	if h == nil {
		return nil
	}

	return h
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)
	registerLegacyRoutes(r.Group("/api"), deps)

	return r
}

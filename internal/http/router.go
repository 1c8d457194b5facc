package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/famroot-client/internal/metrics"
	"github.com/guttosm/famroot-client/internal/middleware"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	// RateLimit caps /api requests per client within RateWindow. Zero disables it.
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
	SwaggerUser string
	SwaggerPass string
	// GzipLevel is passed to middleware.Compression.
	GzipLevel int
	// Validator enables JWT authentication and role checks on /api.
	// Without it the admin API is open.
	Validator middleware.TokenValidator
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:   100,
		RateWindow:  time.Minute,
		CORSOrigins: middleware.DefaultCORSOrigins,
		GzipLevel:   middleware.DefaultGzipLevel,
	}
}

// Router is the admin API engine plus the resources it owns.
type Router struct {
	*gin.Engine
	limiter *middleware.ShardedRateLimiter
}

// Close stops the rate limiter cleanup goroutine.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Stop()
	}
}

// NewRouter creates and configures the gin router for the admin API.
func NewRouter(handler *Handler, healthHandler *HealthHandler, cfg RouterConfig) *Router {
	router := &Router{Engine: gin.New()}

	configureGlobalMiddleware(router.Engine, &cfg)
	registerInfrastructureRoutes(router.Engine, healthHandler, &cfg)

	api := router.Group("/api")
	if cfg.RateLimit > 0 {
		router.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	}
	configureAPIMiddleware(api, router.limiter, &cfg)

	NewAdminRoutes(handler).RegisterRoutes(api, &cfg)

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(cfg.GzipLevel),
		middleware.RequestLogger(),
		middleware.ErrorHandler(),
	)
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	healthHandler.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger with optional basic auth
	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// configureAPIMiddleware sets up authentication and rate limiting for /api.
// Authentication runs first so the limiter can key on the token subject.
func configureAPIMiddleware(api *gin.RouterGroup, limiter *middleware.ShardedRateLimiter, cfg *RouterConfig) {
	if cfg.Validator != nil {
		api.Use(middleware.JWTAuth(cfg.Validator))
	}
	if limiter != nil {
		api.Use(limiter.SubjectRateLimit())
	}
}

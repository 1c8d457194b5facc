// Package app provides router configuration.
package app

import (
	"github.com/guttosm/famroot-client/config"
	"github.com/guttosm/famroot-client/internal/auth"
	"github.com/guttosm/famroot-client/internal/client"
	"github.com/guttosm/famroot-client/internal/http"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	c *client.Client,
	remote *RemoteComponents,
	issuer *auth.Issuer,
	cfg config.ServerConfig,
) *RouterComponents {
	var handlerOpts []http.HandlerOption
	healthHandler := http.NewHealthHandler()

	if remote != nil {
		handlerOpts = append(handlerOpts, http.WithHistory(remote.RequestLogs))

		// Register the remote store and its circuit breakers for readiness
		healthHandler.RegisterChecker(remote.Driver, remote.HealthChecker)
		healthHandler.RegisterCircuitBreaker(remote.Driver+"_request_logs", remote.RequestLogsCircuitBreaker)
		healthHandler.RegisterCircuitBreaker(remote.Driver+"_preferences", remote.PreferencesCircuitBreaker)
	}

	routerCfg := http.RouterConfig{
		RateLimit:   cfg.RateLimit,
		RateWindow:  cfg.RateWindow,
		CORSOrigins: cfg.CORSOrigins,
		SwaggerUser: cfg.SwaggerUser,
		SwaggerPass: cfg.SwaggerPass,
		GzipLevel:   cfg.GzipLevel,
	}
	if issuer != nil {
		routerCfg.Validator = issuer
	}

	return &RouterComponents{
		Handler:       http.NewHandler(c, handlerOpts...),
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}

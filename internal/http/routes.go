package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/famroot-client/internal/middleware"
)

// RouteGroup defines a group of routes that can be registered.
type RouteGroup interface {
	// RegisterRoutes registers routes to the given router group.
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// AdminRoutes registers the admin API.
type AdminRoutes struct {
	handler *Handler
}

var _ RouteGroup = (*AdminRoutes)(nil)

// NewAdminRoutes creates a new AdminRoutes instance.
func NewAdminRoutes(handler *Handler) *AdminRoutes {
	return &AdminRoutes{handler: handler}
}

// RegisterRoutes registers every admin endpoint. With authentication
// enabled, reads need the viewer or admin role and writes need admin.
func (r *AdminRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	if r.handler == nil {
		return
	}
	h := r.handler

	read, write := rg, rg
	if cfg.Validator != nil {
		read = rg.Group("", middleware.RequireRole(middleware.RoleViewer, middleware.RoleAdmin))
		write = rg.Group("", middleware.RequireRole(middleware.RoleAdmin))
	}

	read.GET("/stats", h.Stats)
	read.GET("/logs", h.Logs)
	write.DELETE("/logs", h.ClearLogs)
	read.GET("/history", h.History)

	read.GET("/cache", h.Cache)
	write.DELETE("/cache", h.ClearCache)
	write.DELETE("/cache/partitions/:name", h.ClearCachePartition)
	write.POST("/cache/cleanup", h.CleanupCache)
	write.POST("/cache/invalidate", h.InvalidateCache)

	read.GET("/preferences", h.ListPreferences)
	read.GET("/preferences/:key", h.GetPreference)
	write.PUT("/preferences/:key", h.SetPreference)
	write.DELETE("/preferences/:key", h.RemovePreference)
	write.POST("/preferences/save", h.SavePreferences)
	write.POST("/preferences/load", h.LoadPreferences)

	read.GET("/token", h.TokenStatus)
	write.PUT("/token", h.SetToken)
	write.DELETE("/token", h.RemoveToken)

	write.POST("/requests", h.DispatchRequest)
}

package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/famroot-client/internal/domain/dto"
	"github.com/guttosm/famroot-client/internal/i18n"
	"github.com/guttosm/famroot-client/internal/middleware"
)

// Cache handles GET /api/cache.
//
// @Summary      Response cache contents
// @Description  Size, hit and eviction counters per partition, plus every cache key.
// @Tags         Cache
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.CacheResponse}
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/cache [get]
func (h *Handler) Cache(c *gin.Context) {
	keys := h.client.CacheKeys()
	if keys == nil {
		keys = []string{}
	}
	NewResponseBuilder(c).SuccessOK(dto.CacheResponse{
		Stats: h.client.CacheStats(),
		Keys:  keys,
	})
}

// ClearCache handles DELETE /api/cache.
//
// @Summary      Clear the response cache
// @Description  Drops every cached response in every partition.
// @Tags         Cache
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.MessageResponse}
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Security     BearerAuth
// @Router       /api/cache [delete]
func (h *Handler) ClearCache(c *gin.Context) {
	size := h.client.CacheStats().Size
	h.client.ClearCache()
	middleware.AuditLog(c, middleware.ActionCacheClear, "Response cache cleared", map[string]interface{}{
		"removed": size,
	})
	NewResponseBuilder(c).Message(i18n.SuccessKeyCacheCleared)
}

// ClearCachePartition handles DELETE /api/cache/partitions/{name}.
//
// @Summary      Clear one cache partition
// @Tags         Cache
// @Produce      json
// @Param        name path string true "Partition name"
// @Success      200 {object} dto.SuccessResponse{data=dto.CacheCountResponse}
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Security     BearerAuth
// @Router       /api/cache/partitions/{name} [delete]
func (h *Handler) ClearCachePartition(c *gin.Context) {
	name := c.Param("name")
	removed := h.client.ClearCachePartition(name)
	middleware.AuditLog(c, middleware.ActionCacheClear, "Cache partition cleared", map[string]interface{}{
		"partition": name,
		"removed":   removed,
	})
	NewResponseBuilder(c).SuccessOK(dto.CacheCountResponse{Removed: removed})
}

// CleanupCache handles POST /api/cache/cleanup.
//
// @Summary      Remove expired cache entries
// @Tags         Cache
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.CacheCountResponse}
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Security     BearerAuth
// @Router       /api/cache/cleanup [post]
func (h *Handler) CleanupCache(c *gin.Context) {
	removed := h.client.CleanupCache()
	NewResponseBuilder(c).SuccessOK(dto.CacheCountResponse{Removed: removed})
}

// InvalidateCache handles POST /api/cache/invalidate.
//
// @Summary      Invalidate cached URLs
// @Description  Drops cached responses whose URL path matches one of the given URLs, whatever their method or query.
// @Tags         Cache
// @Accept       json
// @Produce      json
// @Param        request body dto.InvalidateCacheRequest true "URLs to invalidate"
// @Success      200 {object} dto.SuccessResponse{data=dto.CacheCountResponse}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Security     BearerAuth
// @Router       /api/cache/invalidate [post]
func (h *Handler) InvalidateCache(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BindJSON[dto.InvalidateCacheRequest](c)
	if err != nil {
		builder.BindError(err)
		return
	}

	removed := h.client.InvalidateURL(req.URLs...)
	middleware.AuditLog(c, middleware.ActionCacheInvalidate, "Cached URLs invalidated", map[string]interface{}{
		"urls":    req.URLs,
		"removed": removed,
	})
	builder.SuccessOK(dto.CacheCountResponse{Removed: removed})
}

// Package http exposes an API client over a gin admin API: telemetry,
// cache management, preferences, the upstream token and ad-hoc requests.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/famroot-client/internal/client"
	"github.com/guttosm/famroot-client/internal/domain/dto"
	"github.com/guttosm/famroot-client/internal/i18n"
	"github.com/guttosm/famroot-client/internal/middleware"
	"github.com/guttosm/famroot-client/internal/service"
)

// Handler serves the admin API on top of one client.
type Handler struct {
	client  *client.Client
	history service.RequestLogService
	now     func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHistory enables GET /api/history over the remote request log.
func WithHistory(history service.RequestLogService) HandlerOption {
	return func(h *Handler) {
		h.history = history
	}
}

// WithHandlerClock sets the clock used to judge token expiry.
func WithHandlerClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.now = now
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(c *client.Client, opts ...HandlerOption) *Handler {
	h := &Handler{
		client: c,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Stats handles GET /api/stats.
//
// @Summary      Request statistics
// @Description  Aggregates over every tracked request, plus remote sink counters when a remote store is configured.
// @Tags         Telemetry
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.StatsResponse}
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	resp := dto.StatsResponse{Requests: h.client.Stats()}
	if sink, ok := h.client.Recorder().SinkStats(); ok {
		resp.Sink = &sink
	}
	NewResponseBuilder(c).SuccessOK(resp)
}

// Logs handles GET /api/logs.
//
// @Summary      In-memory request log
// @Description  Tracked requests in insertion order. limit keeps only the newest entries.
// @Tags         Telemetry
// @Produce      json
// @Param        limit query int false "Newest entries to return"
// @Success      200 {object} dto.SuccessResponse{data=dto.LogsResponse}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid limit"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/logs [get]
func (h *Handler) Logs(c *gin.Context) {
	builder := NewResponseBuilder(c)

	q, err := BindQuery[dto.LogsQuery](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	logs := h.client.Logs()
	total := len(logs)
	if q.Limit > 0 && q.Limit < total {
		logs = logs[total-q.Limit:]
	}
	builder.SuccessOK(dto.LogsResponse{Logs: logs, Total: total})
}

// ClearLogs handles DELETE /api/logs.
//
// @Summary      Clear the request log
// @Description  Empties the in-memory request log. Aggregate statistics are kept.
// @Tags         Telemetry
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.MessageResponse}
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Security     BearerAuth
// @Router       /api/logs [delete]
func (h *Handler) ClearLogs(c *gin.Context) {
	cleared := len(h.client.Logs())
	h.client.ClearLogs()
	middleware.AuditLog(c, middleware.ActionLogsClear, "Request log cleared", map[string]interface{}{
		"cleared": cleared,
	})
	NewResponseBuilder(c).Message(i18n.SuccessKeyLogsCleared)
}

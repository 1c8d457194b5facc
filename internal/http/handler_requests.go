package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/famroot-client/internal/client"
	"github.com/guttosm/famroot-client/internal/domain/dto"
	"github.com/guttosm/famroot-client/internal/i18n"
	"github.com/guttosm/famroot-client/internal/middleware"
)

// DispatchRequest handles POST /api/requests.
//
// @Summary      Issue a request through the client
// @Description  Runs one request through the client's interceptors, cache and telemetry and returns the normalized response. The admin request ID is forwarded upstream unless the request sets X-Request-ID.
// @Tags         Requests
// @Accept       json
// @Produce      json
// @Param        request body dto.ClientRequest true "Request to issue"
// @Success      200 {object} dto.SuccessResponse{data=dto.ClientResponse}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input or rejected by an interceptor"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      502 {object} dto.ClientErrorResponse "Upstream answered with an error or not at all"
// @Security     BearerAuth
// @Router       /api/requests [post]
func (h *Handler) DispatchRequest(c *gin.Context) {
	builder := NewResponseBuilder(c)

	body, err := BindJSON[dto.ClientRequest](c)
	if err != nil {
		builder.BindError(err)
		return
	}

	req := &client.Request{
		Method:       body.HTTPMethod(),
		URL:          body.URL,
		Params:       body.QueryParams(),
		Body:         body.Body,
		Header:       body.HTTPHeader(),
		Cache:        body.Cache,
		CacheTTL:     body.TTL(),
		SkipTracking: body.SkipTracking,
	}
	if req.Header == nil {
		req.Header = http.Header{}
	}
	if id := middleware.GetRequestID(c); id != "" && req.Header.Get(client.RequestIDHeader) == "" {
		req.Header.Set(client.RequestIDHeader, id)
	}

	fields := map[string]interface{}{
		"target_method": req.Method,
		"target_url":    req.URL,
	}

	resp, err := h.client.Request(c.Request.Context(), req)
	if err != nil {
		middleware.AuditLogError(c, middleware.ActionRequestDispatched, "Client request failed", err, fields)
		builder.ClientError(err)
		return
	}

	fields["status_code"] = resp.Status
	fields["from_cache"] = resp.FromCache
	middleware.AuditLog(c, middleware.ActionRequestDispatched, "Client request completed", fields)

	builder.SuccessOK(dto.ClientResponse{
		Status:         resp.Status,
		StatusText:     resp.StatusText,
		Headers:        flattenHeader(resp.Header),
		Data:           resp.Data,
		FromCache:      resp.FromCache,
		ResponseTimeMs: resp.ResponseTime.Milliseconds(),
	})
}

// History handles GET /api/history.
//
// @Summary      Persisted request logs
// @Description  Queries the request log of the remote store, newest first.
// @Tags         Telemetry
// @Produce      json
// @Param        request_id  query string false "Request ID"
// @Param        endpoint    query string false "Endpoint substring"
// @Param        method      query string false "HTTP method"
// @Param        cache_hit   query bool   false "Only cache hits (true) or misses (false)"
// @Param        errors_only query bool   false "Only failed requests"
// @Param        since       query string false "RFC 3339 lower bound"
// @Param        until       query string false "RFC 3339 upper bound"
// @Param        limit       query int    false "Page size (1-1000, default 100)"
// @Param        skip        query int    false "Entries to skip"
// @Success      200 {object} dto.SuccessResponse{data=dto.HistoryResponse}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid query"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      502 {object} dto.ErrorResponse "Remote store failed"
// @Failure      503 {object} dto.ErrorResponse "No remote store or circuit open"
// @Security     BearerAuth
// @Router       /api/history [get]
func (h *Handler) History(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if h.history == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyRemoteStoreDisabled, nil)
		return
	}

	q, err := BindQuery[dto.HistoryQuery](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}
	query := q.ToModel()

	ctx := c.Request.Context()
	logs, err := h.history.QueryRequestLogs(ctx, query)
	if err != nil {
		builder.StoreError(err)
		return
	}
	total, err := h.history.CountRequestLogs(ctx, query)
	if err != nil {
		builder.StoreError(err)
		return
	}

	builder.SuccessOK(dto.HistoryResponse{
		Logs:  logs,
		Total: total,
		Limit: query.Limit,
		Skip:  query.Skip,
	})
}

func flattenHeader(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for name := range h {
		out[name] = h.Get(name)
	}
	return out
}

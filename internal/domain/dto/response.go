package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/famroot-client/internal/cache"
	"github.com/guttosm/famroot-client/internal/domain/model"
	"github.com/guttosm/famroot-client/internal/telemetry"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeUnauthorized indicates missing or invalid authentication.
	ErrCodeUnauthorized = "unauthorized"
	// ErrCodeForbidden indicates insufficient permissions.
	ErrCodeForbidden = "forbidden"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeConflict indicates a conflict with current state.
	ErrCodeConflict = "conflict"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
	// ErrCodeUpstream indicates a request through the client failed.
	ErrCodeUpstream = "upstream_error"
	// ErrCodeServiceUnavailable indicates a dependency is unavailable.
	ErrCodeServiceUnavailable = "service_unavailable"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data contains the actual response data.
	Data interface{} `json:"data" swaggertype:"object"`
	// RequestID is the unique request identifier
	RequestID string `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Timestamp is when the response was generated
	Timestamp time.Time `json:"timestamp" example:"2025-01-28T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message,omitempty" example:"cache_ttl: must be a positive duration such as 30s"`
	// Details contains additional error details (optional)
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2025-01-28T10:00:00Z"`
} // @name ErrorResponse

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithDetails adds field details to the error response.
func (e ErrorResponse) WithDetails(details map[string]string) ErrorResponse {
	e.Details = details
	return e
}

// NewSuccess wraps data in a SuccessResponse.
func NewSuccess(data interface{}, requestID string) SuccessResponse {
	return SuccessResponse{
		Data:      data,
		RequestID: requestID,
		Timestamp: time.Now(),
	}
}

// MessageResponse carries a translated confirmation message.
type MessageResponse struct {
	Message string `json:"message" example:"Cache cleared"`
} // @name MessageResponse

// ClientResponse is a response received through the client.
//
// @Description Normalized response of a request issued through the client
type ClientResponse struct {
	Status         int               `json:"status" example:"200"`
	StatusText     string            `json:"status_text" example:"OK"`
	Headers        map[string]string `json:"headers,omitempty"`
	Data           interface{}       `json:"data" swaggertype:"object"`
	FromCache      bool              `json:"from_cache"`
	ResponseTimeMs int64             `json:"response_time_ms" example:"42"`
} // @name ClientResponse

// ClientErrorResponse is a failure of a request issued through the client.
//
// @Description Normalized failure of a request issued through the client
type ClientErrorResponse struct {
	Error      string      `json:"error" example:"upstream_error"`
	Kind       string      `json:"kind" example:"http"`
	Message    string      `json:"message" example:"request failed with status code 404"`
	Status     int         `json:"status,omitempty" example:"404"`
	StatusText string      `json:"status_text,omitempty" example:"Not Found"`
	Data       interface{} `json:"data,omitempty" swaggertype:"object"`
	RequestID  string      `json:"request_id,omitempty"`
} // @name ClientErrorResponse

// StatsResponse is the body of GET /api/stats.
//
// @Description Request telemetry aggregates
type StatsResponse struct {
	Requests model.RequestStats `json:"requests"`
	// Sink is present when a remote telemetry sink is configured.
	Sink *telemetry.SinkStats `json:"sink,omitempty"`
} // @name StatsResponse

// LogsResponse is the body of GET /api/logs.
type LogsResponse struct {
	Logs  []model.RequestLog `json:"logs"`
	Total int                `json:"total"`
} // @name LogsResponse

// CacheResponse is the body of GET /api/cache.
//
// @Description Response cache contents
type CacheResponse struct {
	Stats cache.PoolStats `json:"stats"`
	// Keys lists cache keys, most recently used first within each partition.
	Keys []string `json:"keys"`
} // @name CacheResponse

// CacheCountResponse reports how many cache entries an operation removed.
type CacheCountResponse struct {
	Removed int `json:"removed" example:"3"`
} // @name CacheCountResponse

// PreferenceResponse is one preference.
type PreferenceResponse struct {
	Key   string      `json:"key" example:"theme"`
	Value interface{} `json:"value" swaggertype:"object"`
} // @name PreferenceResponse

// HistoryResponse is the body of GET /api/history.
//
// @Description Persisted request logs
type HistoryResponse struct {
	Logs  []model.RequestLog `json:"logs"`
	Total int64              `json:"total" example:"42"`
	Limit int                `json:"limit" example:"100"`
	Skip  int                `json:"skip" example:"0"`
} // @name HistoryResponse

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	case http.StatusBadGateway:
		return ErrCodeUpstream
	case http.StatusServiceUnavailable:
		return ErrCodeServiceUnavailable
	default:
		return ErrCodeInternal
	}
}

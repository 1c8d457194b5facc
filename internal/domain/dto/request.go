// Package dto defines Data Transfer Objects for the admin HTTP API.
//
// DTOs decouple the HTTP layer from the client and domain model,
// providing validation and serialization for API communication.
package dto

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/guttosm/famroot-client/internal/domain/model"
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// SetPreferenceRequest is the body of PUT /api/preferences/{key}.
//
// @Description Value to store under a preference key
// @Example {"value": "dark"}
type SetPreferenceRequest struct {
	// Value is any JSON value except null. false and 0 are valid values,
	// so presence is checked by Validate rather than a binding tag.
	Value interface{} `json:"value" swaggertype:"object"`
} // @name SetPreferenceRequest

// ErrPreferenceValueRequired is returned when the body carries no value.
var ErrPreferenceValueRequired = &ValidationError{
	Field:   "value",
	Message: "is required",
}

// Validate checks that a value was sent.
func (r *SetPreferenceRequest) Validate() error {
	if r.Value == nil {
		return ErrPreferenceValueRequired
	}
	return nil
}

// InvalidateCacheRequest is the body of POST /api/cache/invalidate.
//
// @Description URLs whose cached responses are dropped
// @Example {"urls": ["/users", "/users/1"]}
type InvalidateCacheRequest struct {
	URLs []string `json:"urls" binding:"required,min=1,dive,required" example:"/users"`
} // @name InvalidateCacheRequest

// ClientRequest is the body of POST /api/requests: one request issued
// through the client.
//
// @Description Request issued through the API client
// @Example {"method": "GET", "url": "/users/1", "cache_ttl": "30s"}
type ClientRequest struct {
	// Method defaults to GET.
	Method string `json:"method,omitempty" binding:"omitempty,oneof=GET POST PUT PATCH DELETE get post put patch delete" example:"GET"`
	// URL is absolute or relative to the client base URL.
	URL     string            `json:"url" binding:"required" example:"/users/1"`
	Params  map[string]string `json:"params,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    interface{}       `json:"body,omitempty" swaggertype:"object"`
	// Cache overrides the default caching of the method.
	Cache *bool `json:"cache,omitempty"`
	// CacheTTL is a Go duration string such as "30s".
	CacheTTL string `json:"cache_ttl,omitempty" example:"30s"`
	// SkipTracking keeps the request out of telemetry.
	SkipTracking bool `json:"skip_tracking,omitempty"`
} // @name ClientRequest

var (
	// ErrInvalidCacheTTL is returned when cache_ttl is not a positive duration.
	ErrInvalidCacheTTL = &ValidationError{
		Field:   "cache_ttl",
		Message: "must be a positive duration such as 30s",
	}
)

// Validate performs the checks binding tags cannot express.
func (r *ClientRequest) Validate() error {
	if r.CacheTTL == "" {
		return nil
	}
	d, err := time.ParseDuration(r.CacheTTL)
	if err != nil || d <= 0 {
		return ErrInvalidCacheTTL
	}
	return nil
}

// HTTPMethod returns the upper-cased method, GET when unset.
func (r *ClientRequest) HTTPMethod() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(r.Method)
}

// TTL returns the parsed cache TTL, zero when unset or invalid.
func (r *ClientRequest) TTL() time.Duration {
	d, err := time.ParseDuration(r.CacheTTL)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// QueryParams converts Params to url.Values.
func (r *ClientRequest) QueryParams() url.Values {
	if len(r.Params) == 0 {
		return nil
	}
	values := make(url.Values, len(r.Params))
	for k, v := range r.Params {
		values.Set(k, v)
	}
	return values
}

// HTTPHeader converts Headers to http.Header.
func (r *ClientRequest) HTTPHeader() http.Header {
	if len(r.Headers) == 0 {
		return nil
	}
	h := make(http.Header, len(r.Headers))
	for k, v := range r.Headers {
		h.Set(k, v)
	}
	return h
}

// LogsQuery is the query string of GET /api/logs.
type LogsQuery struct {
	// Limit returns only the newest entries. Zero returns everything.
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// HistoryQuery is the query string of GET /api/history.
type HistoryQuery struct {
	RequestID  string    `form:"request_id"`
	Endpoint   string    `form:"endpoint"`
	Method     string    `form:"method"`
	CacheHit   *bool     `form:"cache_hit"`
	ErrorsOnly bool      `form:"errors_only"`
	Since      time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Until      time.Time `form:"until" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit      int       `form:"limit" binding:"omitempty,min=1,max=1000"`
	Skip       int       `form:"skip" binding:"omitempty,min=0"`
}

// DefaultHistoryLimit applies when the query sets no limit.
const DefaultHistoryLimit = 100

// ToModel converts the query to a repository filter.
func (q HistoryQuery) ToModel() model.RequestLogQuery {
	out := model.RequestLogQuery{
		RequestID:  q.RequestID,
		Endpoint:   q.Endpoint,
		Method:     strings.ToUpper(q.Method),
		CacheHit:   q.CacheHit,
		ErrorsOnly: q.ErrorsOnly,
		Limit:      q.Limit,
		Skip:       q.Skip,
	}
	if out.Limit == 0 {
		out.Limit = DefaultHistoryLimit
	}
	if !q.Since.IsZero() {
		since := q.Since
		out.StartTime = &since
	}
	if !q.Until.IsZero() {
		until := q.Until
		out.EndTime = &until
	}
	return out
}

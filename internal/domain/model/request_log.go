// Package model provides domain models for the famroot API client.
package model

import (
	"time"
)

// RequestLog is one telemetry record of a request made through the client.
// Records are immutable once appended.
type RequestLog struct {
	ID        string `json:"id"`
	RequestID string `json:"request_id,omitempty"`
	Endpoint  string `json:"endpoint"`
	Method    string `json:"method"`
	// RequestBody is the payload sent, if any.
	RequestBody interface{} `json:"request_body,omitempty"`
	// ResponseStatus is zero when no response was received.
	ResponseStatus int         `json:"response_status,omitempty"`
	ResponseData   interface{} `json:"response_data,omitempty"`
	ResponseTimeMs int64       `json:"response_time_ms"`
	CacheHit       bool        `json:"cache_hit"`
	ErrorMessage   string      `json:"error_message,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Failed reports whether the record describes a failed request.
func (l RequestLog) Failed() bool {
	return l.ErrorMessage != ""
}

// RequestStats are aggregate counters over every logged request.
type RequestStats struct {
	TotalRequests int64 `json:"total_requests"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	// AverageResponseTime is the running mean in milliseconds over every
	// logged request, cache hits included at zero.
	AverageResponseTime float64 `json:"average_response_time"`
	ErrorCount          int64   `json:"error_count"`
	// SuccessRate is (TotalRequests-ErrorCount)/TotalRequests*100, zero when no requests.
	SuccessRate float64 `json:"success_rate"`
}

// Add folds one record into the aggregates.
func (s *RequestStats) Add(l RequestLog) {
	s.TotalRequests++
	if l.CacheHit {
		s.CacheHits++
	} else {
		s.CacheMisses++
	}
	if l.Failed() {
		s.ErrorCount++
	}
	n := float64(s.TotalRequests)
	s.AverageResponseTime += (float64(l.ResponseTimeMs) - s.AverageResponseTime) / n
	s.SuccessRate = float64(s.TotalRequests-s.ErrorCount) / n * 100
}

// RequestLogQuery filters persisted request logs.
type RequestLogQuery struct {
	RequestID  string
	Endpoint   string
	Method     string
	CacheHit   *bool
	ErrorsOnly bool
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Skip       int
}

// Preferences is the remotely persisted copy of the preference bag.
type Preferences struct {
	Owner     string                 `json:"owner"`
	Values    map[string]interface{} `json:"values"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

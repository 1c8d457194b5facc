package client

import (
	"time"

	"github.com/guttosm/famroot-client/internal/cache"
)

// Config configures a Client. Start from DefaultConfig: zero numeric fields
// are filled in by New, but the boolean switches are taken as given, so a
// bare Config{} runs without tracking or cookies.
type Config struct {
	// BaseURL is prefixed to relative request URLs.
	BaseURL string
	// Timeout bounds every dispatched request.
	Timeout time.Duration
	// CacheSize bounds each cache partition. With N CachePools the cache
	// holds at most (N+1)*CacheSize entries, counting the default partition.
	CacheSize int
	// DefaultCacheTTL applies when a request sets no TTL.
	DefaultCacheTTL time.Duration
	// EnableTracking records every request in the telemetry recorder.
	EnableTracking bool
	// EnableCookies persists the auth token and preferences in the store.
	EnableCookies bool
	// Headers are sent with every request unless the caller overrides them.
	Headers map[string]string
	// CachePools routes cache keys into named partitions.
	CachePools []cache.PoolRule
	// TokenHeader names a response header carrying a rotated token. Empty disables rotation.
	TokenHeader string
	// ClearTokenOnUnauthorized removes the stored token on a 401 response.
	ClearTokenOnUnauthorized bool
	// BatchLimit bounds the concurrency of Batch.
	BatchLimit int
}

const (
	DefaultTimeout    = 30 * time.Second
	DefaultCacheSize  = 100
	DefaultCacheTTL   = 5 * time.Minute
	DefaultBatchLimit = 8

	// CacheSizePreference is the preference key that overrides CacheSize.
	CacheSizePreference = "api_cache_size"
)

// DefaultConfig returns the configuration of a client with nothing set.
func DefaultConfig() Config {
	return Config{
		Timeout:         DefaultTimeout,
		CacheSize:       DefaultCacheSize,
		DefaultCacheTTL: DefaultCacheTTL,
		EnableTracking:  true,
		EnableCookies:   true,
		Headers:         map[string]string{"Content-Type": "application/json"},
		BatchLimit:      DefaultBatchLimit,
	}
}

// withDefaults fills zero numeric fields and the default headers.
// Boolean switches are taken as given.
func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.CacheSize <= 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.DefaultCacheTTL < 0 {
		c.DefaultCacheTTL = 0
	}
	if c.BatchLimit <= 0 {
		c.BatchLimit = DefaultBatchLimit
	}
	if c.Headers == nil {
		c.Headers = map[string]string{"Content-Type": "application/json"}
	}
	return c
}

// Package middleware provides the gin middleware of the admin HTTP API.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions. Proxied calls
// forward it to the upstream API.
const RequestIDHeader = "X-Request-ID"

// MaxRequestIDLength bounds caller-supplied request IDs.
const MaxRequestIDLength = 128

// ContextKey type for context keys to avoid collisions.
type ContextKey string

// RequestIDKey is the gin context key for the request ID.
const RequestIDKey ContextKey = "request_id"

// RequestID assigns every request an ID. A caller-supplied X-Request-ID is
// kept when it is a usable token; anything else is replaced by a UUID v4 so
// that header values copied into upstream requests and stored request logs
// stay printable.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !ValidRequestID(requestID) {
			requestID = uuid.NewString()
		}

		c.Set(string(RequestIDKey), requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// ValidRequestID reports whether id is non-empty, at most MaxRequestIDLength
// bytes, and made only of ASCII letters, digits, '-', '_', '.' or ':'.
func ValidRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch ch := id[i]; {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.', ch == ':':
		default:
			return false
		}
	}
	return true
}

// GetRequestID returns the request ID assigned by RequestID, or "" outside it.
func GetRequestID(c *gin.Context) string {
	id, _ := c.Value(string(RequestIDKey)).(string)
	return id
}

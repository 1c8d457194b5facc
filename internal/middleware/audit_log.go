package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/famroot-client/internal/logger"
)

// Audit action types for admin operations that change client state.
const (
	ActionCacheClear        = "cache_clear"
	ActionCacheInvalidate   = "cache_invalidate"
	ActionLogsClear         = "logs_clear"
	ActionPreferenceSet     = "preference_set"
	ActionPreferenceRemove  = "preference_remove"
	ActionPreferencesSync   = "preferences_sync"
	ActionTokenSet          = "token_set"
	ActionTokenRemove       = "token_remove"
	ActionRequestDispatched = "request_dispatched"
)

// AuditLog records an admin action on the "audit" logger.
func AuditLog(c *gin.Context, actionType, message string, fields map[string]interface{}) {
	log := logger.Component("audit")
	event := auditEvent(c, log.Info(), actionType, fields)
	event.Msg(message)
}

// AuditLogError records a failed admin action on the "audit" logger.
func AuditLogError(c *gin.Context, actionType, message string, err error, fields map[string]interface{}) {
	log := logger.Component("audit")
	event := auditEvent(c, log.Error().Err(err), actionType, fields)
	event.Msg(message)
}

func auditEvent(c *gin.Context, event *zerolog.Event, actionType string, fields map[string]interface{}) *zerolog.Event {
	event = event.
		Str("action_type", actionType).
		Str("request_id", GetRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("ip", c.ClientIP())
	if subject := GetSubject(c); subject != "" {
		event = event.Str("subject", subject)
	}
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	return event
}

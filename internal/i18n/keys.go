package i18n

// Error message translation keys.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyUnauthorized       = "error.unauthorized"
	ErrKeyForbidden          = "error.forbidden"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyInvalidToken       = "error.invalid_token"
	ErrKeyTokenRequired      = "error.token_required"
	ErrKeyTimeout            = "error.timeout"
	// ErrKeyPreferenceNotFound indicates the preference key is not set.
	ErrKeyPreferenceNotFound = "error.preference_not_found"
	// ErrKeyCookiesDisabled indicates the client keeps no store.
	ErrKeyCookiesDisabled = "error.cookies_disabled"
	// ErrKeyRemoteStoreDisabled indicates no remote store is configured.
	ErrKeyRemoteStoreDisabled = "error.remote_store_disabled"
	// ErrKeyUpstreamFailed indicates a request through the client failed.
	ErrKeyUpstreamFailed = "error.upstream_failed"
	// ErrKeyServiceUnavailable indicates the remote store circuit is open.
	ErrKeyServiceUnavailable = "error.service_unavailable"
)

// Success message translation keys.
const (
	SuccessKeyCacheCleared      = "success.cache_cleared"
	SuccessKeyLogsCleared       = "success.logs_cleared"
	SuccessKeyPreferencesSaved  = "success.preferences_saved"
	SuccessKeyPreferencesLoaded = "success.preferences_loaded"
	SuccessKeyTokenUpdated      = "success.token_updated"
	SuccessKeyTokenRemoved      = "success.token_removed"
)

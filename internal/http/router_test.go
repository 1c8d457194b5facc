//go:build !integration

package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/famroot-client/internal/auth"
	"github.com/guttosm/famroot-client/internal/domain/dto"
	"github.com/guttosm/famroot-client/internal/middleware"
)

func newAuthRouter(t *testing.T) (*Router, map[string]string) {
	t.Helper()
	issuer, err := auth.NewIssuer("admin-secret", time.Hour)
	require.NoError(t, err)

	tokens := map[string]string{}
	for subject, roles := range map[string][]string{
		"ops":     {middleware.RoleAdmin},
		"auditor": {middleware.RoleViewer},
		"nobody":  nil,
	} {
		token, _, err := issuer.Issue(subject, roles...)
		require.NoError(t, err)
		tokens[subject] = "Bearer " + token
	}

	cfg := DefaultRouterConfig()
	cfg.Validator = issuer
	return newTestRouter(t, NewHandler(newTestClient(t, newUpstream(), nil)), cfg), tokens
}

func TestRouter_Authentication(t *testing.T) {
	router, tokens := newAuthRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		authorization  string
		expectedStatus int
		expectedError  string
	}{
		{name: "missing token", method: http.MethodGet, path: "/api/stats", expectedStatus: http.StatusUnauthorized, expectedError: dto.ErrCodeUnauthorized},
		{name: "not a bearer token", method: http.MethodGet, path: "/api/stats", authorization: "Basic b3BzOnB3", expectedStatus: http.StatusUnauthorized, expectedError: dto.ErrCodeUnauthorized},
		{name: "forged token", method: http.MethodGet, path: "/api/stats", authorization: "Bearer not.a.jwt", expectedStatus: http.StatusUnauthorized, expectedError: dto.ErrCodeUnauthorized},
		{name: "viewer reads stats", method: http.MethodGet, path: "/api/stats", authorization: tokens["auditor"], expectedStatus: http.StatusOK},
		{name: "viewer reads cache", method: http.MethodGet, path: "/api/cache", authorization: tokens["auditor"], expectedStatus: http.StatusOK},
		{name: "viewer cannot clear cache", method: http.MethodDelete, path: "/api/cache", authorization: tokens["auditor"], expectedStatus: http.StatusForbidden, expectedError: dto.ErrCodeForbidden},
		{name: "viewer cannot dispatch", method: http.MethodPost, path: "/api/requests", body: `{"url": "/users"}`, authorization: tokens["auditor"], expectedStatus: http.StatusForbidden, expectedError: dto.ErrCodeForbidden},
		{name: "token without roles", method: http.MethodGet, path: "/api/stats", authorization: tokens["nobody"], expectedStatus: http.StatusForbidden, expectedError: dto.ErrCodeForbidden},
		{name: "admin reads", method: http.MethodGet, path: "/api/logs", authorization: tokens["ops"], expectedStatus: http.StatusOK},
		{name: "admin clears cache", method: http.MethodDelete, path: "/api/cache", authorization: tokens["ops"], expectedStatus: http.StatusOK},
		{name: "admin dispatches", method: http.MethodPost, path: "/api/requests", body: `{"url": "/users"}`, authorization: tokens["ops"], expectedStatus: http.StatusOK},
		{name: "health stays open", method: http.MethodGet, path: "/healthz", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.authorization != "" {
				headers["Authorization"] = tt.authorization
			}
			w := perform(router, tt.method, tt.path, tt.body, headers)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeBody[dto.ErrorResponse](t, w).Error)
			}
		})
	}
}

func TestRouter_OpenWithoutValidator(t *testing.T) {
	router := newTestRouter(t, NewHandler(newTestClient(t, newUpstream(), nil)), DefaultRouterConfig())

	w := perform(router, http.MethodDelete, "/api/cache", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	t.Run("per client address", func(t *testing.T) {
		cfg := DefaultRouterConfig()
		cfg.RateLimit = 2
		router := newTestRouter(t, NewHandler(newTestClient(t, newUpstream(), nil)), cfg)

		for i := 0; i < 2; i++ {
			w := perform(router, http.MethodGet, "/api/stats", "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		}

		w := perform(router, http.MethodGet, "/api/stats", "", nil)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
		assert.Equal(t, dto.ErrCodeRateLimit, decodeBody[dto.ErrorResponse](t, w).Error)

		health := perform(router, http.MethodGet, "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, health.Code)
	})

	t.Run("per token subject", func(t *testing.T) {
		issuer, err := auth.NewIssuer("admin-secret", time.Hour)
		require.NoError(t, err)
		first, _, err := issuer.Issue("ops", middleware.RoleAdmin)
		require.NoError(t, err)
		second, _, err := issuer.Issue("oncall", middleware.RoleAdmin)
		require.NoError(t, err)

		cfg := DefaultRouterConfig()
		cfg.RateLimit = 1
		cfg.Validator = issuer
		router := newTestRouter(t, NewHandler(newTestClient(t, newUpstream(), nil)), cfg)

		bearer := func(token string) map[string]string {
			return map[string]string{"Authorization": "Bearer " + token}
		}
		assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/api/stats", "", bearer(first)).Code)
		assert.Equal(t, http.StatusTooManyRequests, perform(router, http.MethodGet, "/api/stats", "", bearer(first)).Code)
		assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/api/stats", "", bearer(second)).Code)
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := DefaultRouterConfig()
		cfg.RateLimit = 0
		router := newTestRouter(t, NewHandler(newTestClient(t, newUpstream(), nil)), cfg)

		for i := 0; i < 5; i++ {
			w := perform(router, http.MethodGet, "/api/stats", "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
		}
	})
}

func TestRouter_InfrastructureRoutes(t *testing.T) {
	t.Run("metrics", func(t *testing.T) {
		router := newTestRouter(t, NewHandler(newTestClient(t, newUpstream(), nil)), DefaultRouterConfig())
		perform(router, http.MethodGet, "/api/stats", "", nil)

		w := perform(router, http.MethodGet, "/metrics", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "# HELP")
	})

	t.Run("swagger behind basic auth", func(t *testing.T) {
		cfg := DefaultRouterConfig()
		cfg.SwaggerUser = "docs"
		cfg.SwaggerPass = "secret"
		router := newTestRouter(t, NewHandler(newTestClient(t, newUpstream(), nil)), cfg)

		w := perform(router, http.MethodGet, "/swagger/index.html", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		req := map[string]string{"Authorization": "Basic ZG9jczpzZWNyZXQ="}
		w = perform(router, http.MethodGet, "/swagger/index.html", "", req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("request id is echoed", func(t *testing.T) {
		router := newTestRouter(t, NewHandler(newTestClient(t, newUpstream(), nil)), DefaultRouterConfig())

		w := perform(router, http.MethodGet, "/api/stats", "", map[string]string{"X-Request-ID": "trace-1"})
		assert.Equal(t, "trace-1", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "trace-1", decodeBody[dto.SuccessResponse](t, w).RequestID)
	})
}

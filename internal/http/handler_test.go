//go:build !integration

package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/famroot-client/internal/auth"
	"github.com/guttosm/famroot-client/internal/cache"
	"github.com/guttosm/famroot-client/internal/circuitbreaker"
	"github.com/guttosm/famroot-client/internal/client"
	"github.com/guttosm/famroot-client/internal/domain/dto"
	"github.com/guttosm/famroot-client/internal/domain/model"
	"github.com/guttosm/famroot-client/internal/mocks"
	"github.com/guttosm/famroot-client/internal/telemetry"
)

func TestHandler_DispatchRequest(t *testing.T) {
	up := newUpstream()
	up.respond("https://api.famroot.test/users/1", http.StatusOK, map[string]interface{}{"id": float64(1), "name": "Ana"})
	up.respond("https://api.famroot.test/missing", http.StatusNotFound, map[string]interface{}{"message": "no such user"})
	up.fail("https://api.famroot.test/down", errConnectionRefused)

	c := newTestClient(t, up, nil)
	c.AddRequestInterceptor(func(_ context.Context, req *client.TransportRequest) error {
		if req.Header.Get("X-Block") != "" {
			return errors.New("blocked by policy")
		}
		return nil
	})
	router := newTestRouter(t, NewHandler(c), DefaultRouterConfig())

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		check          func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name:           "get is dispatched",
			body:           `{"url": "/users/1"}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeData[dto.ClientResponse](t, w)
				assert.Equal(t, http.StatusOK, resp.Status)
				assert.Equal(t, "OK", resp.StatusText)
				assert.False(t, resp.FromCache)
				assert.Equal(t, "application/json", resp.Headers["Content-Type"])
				assert.Equal(t, map[string]interface{}{"id": float64(1), "name": "Ana"}, resp.Data)
			},
		},
		{
			name:           "repeated get is served from cache",
			body:           `{"url": "/users/1"}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeData[dto.ClientResponse](t, w)
				assert.True(t, resp.FromCache)
				assert.Zero(t, resp.ResponseTimeMs)
				assert.Equal(t, map[string]interface{}{"id": float64(1), "name": "Ana"}, resp.Data)
			},
		},
		{
			name:           "http error",
			body:           `{"url": "/missing"}`,
			expectedStatus: http.StatusBadGateway,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeBody[dto.ClientErrorResponse](t, w)
				assert.Equal(t, dto.ErrCodeUpstream, resp.Error)
				assert.Equal(t, "http", resp.Kind)
				assert.Equal(t, http.StatusNotFound, resp.Status)
				assert.Equal(t, "Not Found", resp.StatusText)
				assert.Equal(t, "request failed with status code 404", resp.Message)
				assert.Equal(t, map[string]interface{}{"message": "no such user"}, resp.Data)
				assert.NotEmpty(t, resp.RequestID)
			},
		},
		{
			name:           "network error",
			body:           `{"url": "/down"}`,
			expectedStatus: http.StatusBadGateway,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeBody[dto.ClientErrorResponse](t, w)
				assert.Equal(t, "network", resp.Kind)
				assert.Zero(t, resp.Status)
				assert.Contains(t, resp.Message, "connection refused")
			},
		},
		{
			name:           "rejected by interceptor",
			body:           `{"url": "/users/2", "headers": {"X-Block": "1"}}`,
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeBody[dto.ClientErrorResponse](t, w)
				assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
				assert.Equal(t, "request", resp.Kind)
			},
		},
		{
			name:           "unsupported method",
			body:           `{"method": "TRACE", "url": "/users/1"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing url",
			body:           `{"method": "GET"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid cache ttl",
			body:           `{"url": "/users/1", "cache_ttl": "soon"}`,
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeBody[dto.ErrorResponse](t, w)
				assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
				assert.Contains(t, resp.Details, "cache_ttl")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, http.MethodPost, "/api/requests", tt.body, nil)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.check != nil {
				tt.check(t, w)
			}
		})
	}

	t.Run("transport saw one call per miss", func(t *testing.T) {
		assert.Equal(t, 3, up.callCount())
	})
}

func TestHandler_DispatchRequestDetails(t *testing.T) {
	t.Run("post with params and body is not cached", func(t *testing.T) {
		up := newUpstream()
		router := newTestRouter(t, NewHandler(newTestClient(t, up, nil)), DefaultRouterConfig())

		body := `{"method": "post", "url": "/orders", "params": {"dry_run": "true"}, "body": {"qty": 2}}`
		for i := 0; i < 2; i++ {
			w := perform(router, http.MethodPost, "/api/requests", body, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.False(t, decodeData[dto.ClientResponse](t, w).FromCache)
		}

		last := up.lastCall()
		require.NotNil(t, last)
		assert.Equal(t, http.MethodPost, last.Method)
		assert.Equal(t, url.Values{"dry_run": []string{"true"}}, last.Params)
		assert.Equal(t, map[string]interface{}{"qty": float64(2)}, last.Body)
		assert.Equal(t, 2, up.callCount())
	})

	t.Run("admin request id is forwarded", func(t *testing.T) {
		up := newUpstream()
		router := newTestRouter(t, NewHandler(newTestClient(t, up, nil)), DefaultRouterConfig())

		w := perform(router, http.MethodPost, "/api/requests", `{"url": "/ping"}`, map[string]string{"X-Request-ID": "admin-42"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin-42", up.lastCall().Header.Get(client.RequestIDHeader))

		logs := decodeData[dto.LogsResponse](t, perform(router, http.MethodGet, "/api/logs", "", nil))
		require.Len(t, logs.Logs, 1)
		assert.Equal(t, "admin-42", logs.Logs[0].RequestID)
	})

	t.Run("explicit request id wins", func(t *testing.T) {
		up := newUpstream()
		router := newTestRouter(t, NewHandler(newTestClient(t, up, nil)), DefaultRouterConfig())

		w := perform(router, http.MethodPost, "/api/requests", `{"url": "/ping", "headers": {"X-Request-ID": "mine"}}`, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "mine", up.lastCall().Header.Get(client.RequestIDHeader))
	})

	t.Run("cache can be disabled per request", func(t *testing.T) {
		up := newUpstream()
		router := newTestRouter(t, NewHandler(newTestClient(t, up, nil)), DefaultRouterConfig())

		for i := 0; i < 2; i++ {
			w := perform(router, http.MethodPost, "/api/requests", `{"url": "/live", "cache": false}`, nil)
			require.Equal(t, http.StatusOK, w.Code)
		}
		assert.Equal(t, 2, up.callCount())
	})

	t.Run("skip tracking", func(t *testing.T) {
		up := newUpstream()
		c := newTestClient(t, up, nil)
		router := newTestRouter(t, NewHandler(c), DefaultRouterConfig())

		w := perform(router, http.MethodPost, "/api/requests", `{"url": "/quiet", "skip_tracking": true}`, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, c.Stats().TotalRequests)
	})
}

func TestHandler_StatsAndLogs(t *testing.T) {
	up := newUpstream()
	up.respond("https://api.famroot.test/broken", http.StatusInternalServerError, nil)

	sink := new(mocks.MockRequestLogService)
	sink.On("InsertRequestLog", mock.Anything, mock.Anything).Return(nil)
	recorder := telemetry.NewRecorder(telemetry.WithSink(sink))
	c := newTestClient(t, up, nil, client.WithRecorder(recorder))
	router := newTestRouter(t, NewHandler(c), DefaultRouterConfig())

	for _, body := range []string{`{"url": "/a"}`, `{"url": "/a"}`, `{"url": "/b"}`, `{"url": "/broken"}`} {
		perform(router, http.MethodPost, "/api/requests", body, nil)
	}

	t.Run("stats", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/api/stats", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		stats := decodeData[dto.StatsResponse](t, w)
		assert.EqualValues(t, 4, stats.Requests.TotalRequests)
		assert.EqualValues(t, 1, stats.Requests.CacheHits)
		assert.EqualValues(t, 3, stats.Requests.CacheMisses)
		assert.EqualValues(t, 1, stats.Requests.ErrorCount)
		assert.InDelta(t, 75.0, stats.Requests.SuccessRate, 0.001)
		require.NotNil(t, stats.Sink)
		assert.EqualValues(t, 4, stats.Sink.Enqueued)
	})

	tests := []struct {
		name      string
		query     string
		status    int
		wantCount int
		wantLast  string
	}{
		{name: "all", query: "", status: http.StatusOK, wantCount: 4, wantLast: "/broken"},
		{name: "newest two", query: "?limit=2", status: http.StatusOK, wantCount: 2, wantLast: "/broken"},
		{name: "limit above total", query: "?limit=50", status: http.StatusOK, wantCount: 4, wantLast: "/broken"},
		{name: "invalid limit", query: "?limit=0", status: http.StatusBadRequest},
		{name: "non-numeric limit", query: "?limit=abc", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run("logs "+tt.name, func(t *testing.T) {
			w := perform(router, http.MethodGet, "/api/logs"+tt.query, "", nil)
			require.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				return
			}
			logs := decodeData[dto.LogsResponse](t, w)
			assert.Equal(t, 4, logs.Total)
			require.Len(t, logs.Logs, tt.wantCount)
			assert.Equal(t, tt.wantLast, logs.Logs[len(logs.Logs)-1].Endpoint)
		})
	}

	t.Run("clear logs keeps aggregates", func(t *testing.T) {
		w := perform(router, http.MethodDelete, "/api/logs", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Request logs cleared", decodeData[dto.MessageResponse](t, w).Message)

		logs := decodeData[dto.LogsResponse](t, perform(router, http.MethodGet, "/api/logs", "", nil))
		assert.Empty(t, logs.Logs)
		assert.Zero(t, logs.Total)
		assert.EqualValues(t, 4, c.Stats().TotalRequests)
	})
}

func TestHandler_Cache(t *testing.T) {
	up := newUpstream()
	c := newTestClient(t, up, func(cfg *client.Config) {
		cfg.CachePools = []cache.PoolRule{{Name: "users", Contains: "/users"}}
	})
	router := newTestRouter(t, NewHandler(c), DefaultRouterConfig())

	dispatch := func(u string) {
		w := perform(router, http.MethodPost, "/api/requests", `{"url": "`+u+`"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	t.Run("empty cache lists no keys", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/api/cache", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"keys":[]`)
	})

	dispatch("/users/1")
	dispatch("/users/2")
	dispatch("/orders/1")

	t.Run("contents", func(t *testing.T) {
		resp := decodeData[dto.CacheResponse](t, perform(router, http.MethodGet, "/api/cache", "", nil))
		assert.Equal(t, 3, resp.Stats.Size)
		assert.Len(t, resp.Keys, 3)
		assert.Contains(t, resp.Keys, "GET:/users/1:{}:{}")
		assert.Contains(t, resp.Stats.Partitions, "users")
		assert.Equal(t, 2, resp.Stats.Partitions["users"].Size)
	})

	t.Run("invalidate", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/api/cache/invalidate", `{"urls": ["/users/1"]}`, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, decodeData[dto.CacheCountResponse](t, w).Removed)
		assert.NotContains(t, c.CacheKeys(), "GET:/users/1:{}:{}")
	})

	t.Run("invalidate needs urls", func(t *testing.T) {
		for _, body := range []string{`{}`, `{"urls": []}`, `{"urls": [""]}`, `not json`} {
			w := perform(router, http.MethodPost, "/api/cache/invalidate", body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
		}
	})

	t.Run("clear partition", func(t *testing.T) {
		w := perform(router, http.MethodDelete, "/api/cache/partitions/users", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, decodeData[dto.CacheCountResponse](t, w).Removed)
		assert.Equal(t, []string{"GET:/orders/1:{}:{}"}, c.CacheKeys())
	})

	t.Run("cleanup", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/api/cache/cleanup", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, decodeData[dto.CacheCountResponse](t, w).Removed)
	})

	t.Run("clear", func(t *testing.T) {
		w := perform(router, http.MethodDelete, "/api/cache", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Cache cleared", decodeData[dto.MessageResponse](t, w).Message)
		assert.Empty(t, c.CacheKeys())
	})

	t.Run("cleared message is translated", func(t *testing.T) {
		w := perform(router, http.MethodDelete, "/api/cache", "", map[string]string{"Accept-Language": "pt-BR"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Cache limpo", decodeData[dto.MessageResponse](t, w).Message)
	})
}

func TestHandler_CacheCleanupRemovesExpired(t *testing.T) {
	now := time.Date(2025, 1, 28, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	up := newUpstream()
	c := newTestClient(t, up, nil, client.WithClock(clock))
	router := newTestRouter(t, NewHandler(c), DefaultRouterConfig())

	perform(router, http.MethodPost, "/api/requests", `{"url": "/short", "cache_ttl": "1s"}`, nil)
	perform(router, http.MethodPost, "/api/requests", `{"url": "/long"}`, nil)
	now = now.Add(2 * time.Second)

	w := perform(router, http.MethodPost, "/api/cache/cleanup", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeData[dto.CacheCountResponse](t, w).Removed)
	assert.Equal(t, []string{"GET:/long:{}:{}"}, c.CacheKeys())
}

func TestHandler_Preferences(t *testing.T) {
	up := newUpstream()
	c := newTestClient(t, up, nil)
	router := newTestRouter(t, NewHandler(c), DefaultRouterConfig())

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
		check          func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name:           "missing key",
			method:         http.MethodGet,
			path:           "/api/preferences/theme",
			expectedStatus: http.StatusNotFound,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeBody[dto.ErrorResponse](t, w)
				assert.Equal(t, dto.ErrCodeNotFound, resp.Error)
				assert.Equal(t, "Preference not found", resp.Message)
			},
		},
		{
			name:           "set string",
			method:         http.MethodPut,
			path:           "/api/preferences/theme",
			body:           `{"value": "dark"}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeData[dto.PreferenceResponse](t, w)
				assert.Equal(t, "theme", resp.Key)
				assert.Equal(t, "dark", resp.Value)
			},
		},
		{
			name:           "set false",
			method:         http.MethodPut,
			path:           "/api/preferences/beta",
			body:           `{"value": false}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "set object",
			method:         http.MethodPut,
			path:           "/api/preferences/layout",
			body:           `{"value": {"columns": 3}}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "set without value",
			method:         http.MethodPut,
			path:           "/api/preferences/theme",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeBody[dto.ErrorResponse](t, w)
				assert.Equal(t, map[string]string{"value": "is required"}, resp.Details)
			},
		},
		{
			name:           "get",
			method:         http.MethodGet,
			path:           "/api/preferences/theme",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "dark", decodeData[dto.PreferenceResponse](t, w).Value)
			},
		},
		{
			name:           "list",
			method:         http.MethodGet,
			path:           "/api/preferences",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				prefs := decodeData[map[string]interface{}](t, w)
				assert.Equal(t, map[string]interface{}{
					"theme":  "dark",
					"beta":   false,
					"layout": map[string]interface{}{"columns": float64(3)},
				}, prefs)
			},
		},
		{
			name:           "remove",
			method:         http.MethodDelete,
			path:           "/api/preferences/theme",
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "removed key is gone",
			method:         http.MethodGet,
			path:           "/api/preferences/theme",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "save without remote store",
			method:         http.MethodPost,
			path:           "/api/preferences/save",
			expectedStatus: http.StatusServiceUnavailable,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, dto.ErrCodeServiceUnavailable, decodeBody[dto.ErrorResponse](t, w).Error)
			},
		},
		{
			name:           "load without remote store",
			method:         http.MethodPost,
			path:           "/api/preferences/load",
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.check != nil {
				tt.check(t, w)
			}
		})
	}
}

func TestHandler_PreferencesWithoutCookies(t *testing.T) {
	c := newTestClient(t, newUpstream(), func(cfg *client.Config) {
		cfg.EnableCookies = false
	})
	router := newTestRouter(t, NewHandler(c), DefaultRouterConfig())

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{name: "list is empty", method: http.MethodGet, path: "/api/preferences", expectedStatus: http.StatusOK},
		{name: "set", method: http.MethodPut, path: "/api/preferences/theme", body: `{"value": "dark"}`, expectedStatus: http.StatusConflict},
		{name: "remove", method: http.MethodDelete, path: "/api/preferences/theme", expectedStatus: http.StatusConflict},
		{name: "save", method: http.MethodPost, path: "/api/preferences/save", expectedStatus: http.StatusConflict},
		{name: "load", method: http.MethodPost, path: "/api/preferences/load", expectedStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestHandler_PreferenceSync(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setup          func(m *mocks.MockPreferenceSync)
		expectedStatus int
		wantLocal      map[string]interface{}
	}{
		{
			name: "save copies the local bag",
			path: "/api/preferences/save",
			setup: func(m *mocks.MockPreferenceSync) {
				m.On("Save", mock.Anything, map[string]interface{}{"theme": "dark"}).Return(nil)
			},
			expectedStatus: http.StatusOK,
			wantLocal:      map[string]interface{}{"theme": "dark"},
		},
		{
			name: "save failure",
			path: "/api/preferences/save",
			setup: func(m *mocks.MockPreferenceSync) {
				m.On("Save", mock.Anything, mock.Anything).Return(errors.New("write concern failed"))
			},
			expectedStatus: http.StatusBadGateway,
			wantLocal:      map[string]interface{}{"theme": "dark"},
		},
		{
			name: "load replaces the local bag",
			path: "/api/preferences/load",
			setup: func(m *mocks.MockPreferenceSync) {
				m.On("Load", mock.Anything).Return(map[string]interface{}{"lang": "pt"}, nil)
			},
			expectedStatus: http.StatusOK,
			wantLocal:      map[string]interface{}{"lang": "pt"},
		},
		{
			name: "load with open circuit keeps local state",
			path: "/api/preferences/load",
			setup: func(m *mocks.MockPreferenceSync) {
				m.On("Load", mock.Anything).Return(nil, circuitbreaker.ErrCircuitOpen)
			},
			expectedStatus: http.StatusServiceUnavailable,
			wantLocal:      map[string]interface{}{"theme": "dark"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := new(mocks.MockPreferenceSync)
			tt.setup(remote)

			c := newTestClient(t, newUpstream(), nil, client.WithPreferenceSync(remote))
			require.NoError(t, c.SetPreference("theme", "dark"))
			router := newTestRouter(t, NewHandler(c), DefaultRouterConfig())

			w := perform(router, http.MethodPost, tt.path, "", nil)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantLocal, c.GetAllPreferences())
			remote.AssertExpectations(t)
		})
	}
}

func TestHandler_Token(t *testing.T) {
	now := time.Now()
	issuer, err := auth.NewIssuer("upstream-secret", time.Hour)
	require.NoError(t, err)
	jwtToken, expiresAt, err := issuer.Issue("ana")
	require.NoError(t, err)

	up := newUpstream()
	c := newTestClient(t, up, nil)
	handler := NewHandler(c, WithHandlerClock(func() time.Time { return now }))
	router := newTestRouter(t, handler, DefaultRouterConfig())

	status := func(t *testing.T) dto.TokenStatusResponse {
		t.Helper()
		w := perform(router, http.MethodGet, "/api/token", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		return decodeData[dto.TokenStatusResponse](t, w)
	}

	t.Run("no token", func(t *testing.T) {
		assert.False(t, status(t).Present)
	})

	t.Run("set requires a token", func(t *testing.T) {
		w := perform(router, http.MethodPut, "/api/token", `{"token": ""}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("set jwt", func(t *testing.T) {
		w := perform(router, http.MethodPut, "/api/token", `{"token": "`+jwtToken+`"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Token updated", decodeData[dto.MessageResponse](t, w).Message)

		s := status(t)
		assert.True(t, s.Present)
		assert.Equal(t, "ana", s.Subject)
		require.NotNil(t, s.ExpiresAt)
		assert.WithinDuration(t, expiresAt, *s.ExpiresAt, time.Second)
		assert.False(t, s.Expired)
		assert.NotContains(t, perform(router, http.MethodGet, "/api/token", "", nil).Body.String(), jwtToken)
	})

	t.Run("token is sent upstream", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/api/requests", `{"url": "/me"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Bearer "+jwtToken, up.lastCall().Header.Get("Authorization"))
	})

	t.Run("expired jwt", func(t *testing.T) {
		later := NewHandler(c, WithHandlerClock(func() time.Time { return now.Add(2 * time.Hour) }))
		laterRouter := newTestRouter(t, later, DefaultRouterConfig())
		w := perform(laterRouter, http.MethodGet, "/api/token", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeData[dto.TokenStatusResponse](t, w).Expired)
	})

	t.Run("opaque token", func(t *testing.T) {
		w := perform(router, http.MethodPut, "/api/token", `{"token": "opaque-token"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)

		s := status(t)
		assert.True(t, s.Present)
		assert.Empty(t, s.Subject)
		assert.Nil(t, s.ExpiresAt)
	})

	t.Run("remove", func(t *testing.T) {
		w := perform(router, http.MethodDelete, "/api/token", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, status(t).Present)

		perform(router, http.MethodPost, "/api/requests", `{"url": "/me2"}`, nil)
		assert.Empty(t, up.lastCall().Header.Get("Authorization"))
	})
}

func TestHandler_History(t *testing.T) {
	entries := []model.RequestLog{
		{ID: "2", RequestID: "req-2", Endpoint: "/orders", Method: "POST", ResponseStatus: 500, ErrorMessage: "request failed with status code 500"},
	}

	tests := []struct {
		name           string
		query          string
		history        func() *mocks.MockRequestLogService
		expectedStatus int
		check          func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name:           "no remote store",
			history:        func() *mocks.MockRequestLogService { return nil },
			expectedStatus: http.StatusServiceUnavailable,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "No remote store is configured", decodeBody[dto.ErrorResponse](t, w).Message)
			},
		},
		{
			name:  "filters are passed through",
			query: "?endpoint=/orders&method=post&errors_only=true&limit=10&skip=5",
			history: func() *mocks.MockRequestLogService {
				m := new(mocks.MockRequestLogService)
				want := model.RequestLogQuery{Endpoint: "/orders", Method: "POST", ErrorsOnly: true, Limit: 10, Skip: 5}
				m.On("QueryRequestLogs", mock.Anything, want).Return(entries, nil)
				m.On("CountRequestLogs", mock.Anything, want).Return(int64(11), nil)
				return m
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeData[dto.HistoryResponse](t, w)
				assert.EqualValues(t, 11, resp.Total)
				assert.Equal(t, 10, resp.Limit)
				assert.Equal(t, 5, resp.Skip)
				require.Len(t, resp.Logs, 1)
				assert.Equal(t, "req-2", resp.Logs[0].RequestID)
			},
		},
		{
			name:  "default limit and time range",
			query: "?since=2025-01-28T10:00:00Z&cache_hit=true",
			history: func() *mocks.MockRequestLogService {
				m := new(mocks.MockRequestLogService)
				m.On("QueryRequestLogs", mock.Anything, mock.MatchedBy(func(q model.RequestLogQuery) bool {
					return q.Limit == dto.DefaultHistoryLimit && q.StartTime != nil &&
						q.StartTime.Equal(time.Date(2025, 1, 28, 10, 0, 0, 0, time.UTC)) &&
						q.CacheHit != nil && *q.CacheHit && q.EndTime == nil
				})).Return([]model.RequestLog{}, nil)
				m.On("CountRequestLogs", mock.Anything, mock.Anything).Return(int64(0), nil)
				return m
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "limit out of range",
			query:          "?limit=5000",
			history:        func() *mocks.MockRequestLogService { return new(mocks.MockRequestLogService) },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad timestamp",
			query:          "?since=yesterday",
			history:        func() *mocks.MockRequestLogService { return new(mocks.MockRequestLogService) },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "open circuit",
			history: func() *mocks.MockRequestLogService {
				m := new(mocks.MockRequestLogService)
				m.On("QueryRequestLogs", mock.Anything, mock.Anything).Return(nil, circuitbreaker.ErrCircuitOpen)
				return m
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name: "store failure",
			history: func() *mocks.MockRequestLogService {
				m := new(mocks.MockRequestLogService)
				m.On("QueryRequestLogs", mock.Anything, mock.Anything).Return([]model.RequestLog{}, nil)
				m.On("CountRequestLogs", mock.Anything, mock.Anything).Return(int64(0), errors.New("server selection timeout"))
				return m
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []HandlerOption
			history := tt.history()
			if history != nil {
				opts = append(opts, WithHistory(history))
			}
			router := newTestRouter(t, NewHandler(newTestClient(t, newUpstream(), nil), opts...), DefaultRouterConfig())

			w := perform(router, http.MethodGet, "/api/history"+tt.query, "", nil)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.check != nil {
				tt.check(t, w)
			}
			if history != nil {
				history.AssertExpectations(t)
			}
		})
	}
}

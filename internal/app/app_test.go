//go:build !integration

package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/famroot-client/config"
)

func serve(t *testing.T, a *App, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func TestInitializeApp(t *testing.T) {
	tests := []struct {
		name      string
		configure func(*testing.T, *config.Config)
		wantErr   bool
		validate  func(*testing.T, *App)
	}{
		{
			name: "local only with open admin API",
			validate: func(t *testing.T, a *App) {
				assert.Nil(t, a.Remote)
				assert.Nil(t, a.Issuer)
				assert.NotNil(t, a.Client.Store)

				w := serve(t, a, http.MethodGet, "/api/stats", nil)
				assert.Equal(t, http.StatusOK, w.Code)

				w = serve(t, a, http.MethodGet, "/api/history", nil)
				assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			},
		},
		{
			name: "jwt secret protects the admin API",
			configure: func(_ *testing.T, cfg *config.Config) {
				cfg.Server.JWTSecret = "app-test-secret"
			},
			validate: func(t *testing.T, a *App) {
				require.NotNil(t, a.Issuer)

				w := serve(t, a, http.MethodGet, "/api/stats", nil)
				assert.Equal(t, http.StatusUnauthorized, w.Code)

				token, _, err := a.Issuer.Issue("ops", "admin")
				require.NoError(t, err)
				w = serve(t, a, http.MethodGet, "/api/stats", map[string]string{"Authorization": "Bearer " + token})
				assert.Equal(t, http.StatusOK, w.Code)
			},
		},
		{
			name: "sqlite remote store backs history and readiness",
			configure: func(t *testing.T, cfg *config.Config) {
				cfg.Database.Driver = "sqlite"
				cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "remote.db")
			},
			validate: func(t *testing.T, a *App) {
				require.NotNil(t, a.Remote)
				assert.Equal(t, "sqlite", a.Remote.Driver)

				w := serve(t, a, http.MethodGet, "/api/history", nil)
				assert.Equal(t, http.StatusOK, w.Code)

				w = serve(t, a, http.MethodGet, "/readyz", nil)
				assert.Equal(t, http.StatusOK, w.Code)
				assert.Contains(t, w.Body.String(), "sqlite")
			},
		},
		{
			name: "unreachable remote store is skipped",
			configure: func(t *testing.T, cfg *config.Config) {
				cfg.Database.Driver = "sqlite"
				cfg.Database.SQLitePath = ""
			},
			validate: func(t *testing.T, a *App) {
				assert.Nil(t, a.Remote)
			},
		},
		{
			name: "unknown store driver fails",
			configure: func(_ *testing.T, cfg *config.Config) {
				cfg.Store.Driver = "etcd"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			if tt.configure != nil {
				tt.configure(t, &cfg)
			}

			a, err := InitializeApp(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { assert.NoError(t, a.Close()) })

			tt.validate(t, a)
		})
	}
}

func TestApp_CloseNil(t *testing.T) {
	var a *App
	assert.NoError(t, a.Close())
}

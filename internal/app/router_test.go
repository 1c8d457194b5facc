//go:build !integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/famroot-client/config"
	"github.com/guttosm/famroot-client/internal/auth"
	"github.com/guttosm/famroot-client/internal/client"
)

func TestInitializeRouter(t *testing.T) {
	c, err := client.New(client.Config{BaseURL: "https://api.famroot.test"})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	issuer, err := auth.NewIssuer("router-secret", time.Hour)
	require.NoError(t, err)

	serverCfg := config.ServerConfig{
		RateLimit:   50,
		RateWindow:  30 * time.Second,
		CORSOrigins: []string{"https://admin.famroot.test"},
		SwaggerUser: "docs",
		SwaggerPass: "secret",
	}

	tests := []struct {
		name     string
		remote   func(*testing.T) *RemoteComponents
		issuer   *auth.Issuer
		validate func(*testing.T, *RouterComponents)
	}{
		{
			name: "local client without authentication",
			validate: func(t *testing.T, components *RouterComponents) {
				assert.NotNil(t, components.Handler)
				assert.NotNil(t, components.HealthHandler)
				assert.Nil(t, components.Config.Validator)
				assert.Equal(t, 50, components.Config.RateLimit)
				assert.Equal(t, 30*time.Second, components.Config.RateWindow)
				assert.Equal(t, []string{"https://admin.famroot.test"}, components.Config.CORSOrigins)
				assert.Equal(t, "docs", components.Config.SwaggerUser)
				assert.Equal(t, "secret", components.Config.SwaggerPass)
			},
		},
		{
			name:   "issuer enables authentication",
			issuer: issuer,
			validate: func(t *testing.T, components *RouterComponents) {
				assert.Equal(t, issuer, components.Config.Validator)
			},
		},
		{
			name: "remote store registers health checks",
			remote: func(t *testing.T) *RemoteComponents {
				remote, err := OpenRemote(context.Background(), sqliteConfig(t))
				require.NoError(t, err)
				t.Cleanup(func() { _ = remote.Close(context.Background()) })
				return remote
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.NotNil(t, components.Handler)
				assert.NotNil(t, components.HealthHandler)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var remote *RemoteComponents
			if tt.remote != nil {
				remote = tt.remote(t)
			}
			tt.validate(t, InitializeRouter(c, remote, tt.issuer, serverCfg))
		})
	}
}

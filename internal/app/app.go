// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/famroot-client/config"
	"github.com/guttosm/famroot-client/internal/auth"
	"github.com/guttosm/famroot-client/internal/http"
)

// App holds the wired application and the resources it owns.
type App struct {
	Router *http.Router
	Client *ClientComponents
	Remote *RemoteComponents
	Issuer *auth.Issuer
}

// InitializeApp creates and wires all application dependencies.
// The remote store is optional: a failed connection leaves the client running
// on its local store only.
func InitializeApp(cfg config.Config) (*App, error) {
	// Initialize logger first (needed by other components)
	InitializeLogger(cfg.Log)

	issuer, err := InitializeAuth(cfg.Server)
	if err != nil {
		return nil, err
	}

	remote := InitializeDatabase(cfg.Database)

	clientComponents, err := InitializeClient(cfg, remote)
	if err != nil {
		closeRemote(remote)
		return nil, err
	}

	routerComponents := InitializeRouter(clientComponents.Client, remote, issuer, cfg.Server)

	return &App{
		Router: http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config),
		Client: clientComponents,
		Remote: remote,
		Issuer: issuer,
	}, nil
}

// Close releases everything the app owns. Pending telemetry is flushed to the
// remote store before its connection is closed.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	if a.Router != nil {
		a.Router.Close()
	}

	var errs []error
	if err := a.Client.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := closeRemote(a.Remote); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func closeRemote(remote *RemoteComponents) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return remote.Close(ctx)
}

// Package app provides API client initialization.
package app

import (
	"fmt"

	"github.com/guttosm/famroot-client/config"
	"github.com/guttosm/famroot-client/internal/cache"
	"github.com/guttosm/famroot-client/internal/client"
	"github.com/guttosm/famroot-client/internal/store"
	"github.com/guttosm/famroot-client/internal/telemetry"
)

// ClientComponents holds the API client and what it owns.
type ClientComponents struct {
	Client   *client.Client
	Store    *store.Store
	Recorder *telemetry.Recorder
}

// Close drains the telemetry sink and closes the store.
func (c *ClientComponents) Close() error {
	if c == nil {
		return nil
	}
	c.Client.Close()
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}

// InitializeClient builds the store, the telemetry recorder and the API
// client. A remote store, when given, becomes the telemetry sink and the
// preference sync.
func InitializeClient(cfg config.Config, remote *RemoteComponents) (*ClientComponents, error) {
	opts := []client.Option{}

	var st *store.Store
	if cfg.Client.EnableCookies {
		medium, err := store.OpenMedium(cfg.Store.Driver, cfg.Store.Path, cfg.Store.Secret)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		st = store.New(medium, store.WithSecureDefault(cfg.Store.Secret != ""))
		opts = append(opts, client.WithStore(st))
	}

	recorderOpts := []telemetry.Option{
		telemetry.WithMaxLogs(cfg.Telemetry.MaxLogs),
	}
	if remote != nil {
		recorderOpts = append(recorderOpts,
			telemetry.WithSink(remote.RequestLogs),
			telemetry.WithSinkConfig(telemetry.SinkConfig{
				BufferSize:   cfg.Telemetry.BufferSize,
				Workers:      cfg.Telemetry.Workers,
				WriteTimeout: cfg.Telemetry.WriteTimeout,
			}))
		opts = append(opts, client.WithPreferenceSync(remote.Preferences))
	}
	recorder := telemetry.NewRecorder(recorderOpts...)
	opts = append(opts, client.WithRecorder(recorder))

	c, err := client.New(ClientConfig(cfg.Client), opts...)
	if err != nil {
		recorder.Close()
		if st != nil {
			_ = st.Close()
		}
		return nil, err
	}

	return &ClientComponents{
		Client:   c,
		Store:    st,
		Recorder: recorder,
	}, nil
}

// ClientConfig maps the client section of the configuration.
func ClientConfig(cfg config.ClientConfig) client.Config {
	pools := make([]cache.PoolRule, 0, len(cfg.CachePools))
	for _, p := range cfg.CachePools {
		pools = append(pools, cache.PoolRule{Name: p.Name, Contains: p.Contains})
	}

	return client.Config{
		BaseURL:                  cfg.BaseURL,
		Timeout:                  cfg.Timeout,
		CacheSize:                cfg.CacheSize,
		DefaultCacheTTL:          cfg.CacheTTL,
		EnableTracking:           cfg.EnableTracking,
		EnableCookies:            cfg.EnableCookies,
		Headers:                  cfg.Headers,
		CachePools:               pools,
		TokenHeader:              cfg.TokenHeader,
		ClearTokenOnUnauthorized: cfg.ClearTokenOnUnauthorized,
		BatchLimit:               cfg.BatchLimit,
	}
}

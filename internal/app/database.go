// Package app provides remote store initialization and setup.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/famroot-client/config"
	"github.com/guttosm/famroot-client/internal/circuitbreaker"
	"github.com/guttosm/famroot-client/internal/http"
	"github.com/guttosm/famroot-client/internal/repository"
	"github.com/guttosm/famroot-client/internal/repository/sqlite"
	"github.com/guttosm/famroot-client/internal/service"
)

// RemoteComponents holds the remote store and the services built on it.
type RemoteComponents struct {
	Driver                    string
	RequestLogs               service.RequestLogService
	Preferences               *service.PreferenceService
	RequestLogsCircuitBreaker *circuitbreaker.CircuitBreaker
	PreferencesCircuitBreaker *circuitbreaker.CircuitBreaker
	HealthChecker             http.HealthChecker
	closer                    func(ctx context.Context) error
}

// Close releases the remote store connection.
func (r *RemoteComponents) Close(ctx context.Context) error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer(ctx)
}

// InitializeDatabase opens the configured remote store.
// Returns nil if no remote store is configured or the connection fails.
func InitializeDatabase(cfg config.DatabaseConfig) *RemoteComponents {
	if !cfg.Enabled() {
		return nil
	}

	remote, err := OpenRemote(context.Background(), cfg)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Driver).Msg("Failed to open remote store - continuing without it")
		return nil
	}

	log.Info().Str("driver", cfg.Driver).Msg("Connected to remote store")
	return remote
}

// OpenRemote opens the configured remote store and returns an error when it
// cannot, for callers that need one.
func OpenRemote(ctx context.Context, cfg config.DatabaseConfig) (*RemoteComponents, error) {
	switch cfg.Driver {
	case "mongodb":
		return openMongo(ctx, cfg)
	case "sqlite":
		return openSQLite(ctx, cfg)
	default:
		return nil, fmt.Errorf("remote store driver %q is not supported", cfg.Driver)
	}
}

func openMongo(ctx context.Context, cfg config.DatabaseConfig) (*RemoteComponents, error) {
	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		return nil, err
	}

	if err := db.SetLogsTTL(ctx, cfg.LogsTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to set request log TTL index (may already exist)")
	}

	remote := newRemoteComponents(cfg, "mongodb",
		repository.NewRequestLogRepository(db),
		repository.NewPreferencesRepository(db))
	remote.HealthChecker = db
	remote.closer = db.Close
	return remote, nil
}

func openSQLite(ctx context.Context, cfg config.DatabaseConfig) (*RemoteComponents, error) {
	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}

	// SQLite has no TTL index, so expired logs are purged on open.
	if cfg.LogsTTL > 0 {
		purgeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		purged, err := db.PurgeLogs(purgeCtx, cfg.LogsTTL)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("Failed to purge expired request logs")
		} else if purged > 0 {
			log.Info().Int64("purged", purged).Msg("Purged expired request logs")
		}
	}

	remote := newRemoteComponents(cfg, "sqlite",
		sqlite.NewRequestLogRepository(db),
		sqlite.NewPreferencesRepository(db))
	remote.HealthChecker = db
	remote.closer = func(context.Context) error { return db.Close() }
	return remote, nil
}

// newRemoteComponents guards both repositories with their own circuit breaker.
func newRemoteComponents(
	cfg config.DatabaseConfig,
	driver string,
	logsRepo repository.RequestLogRepositoryInterface,
	prefsRepo repository.PreferencesRepositoryInterface,
) *RemoteComponents {
	logsCB := newCircuitBreaker(cfg, driver+"-request-log")
	prefsCB := newCircuitBreaker(cfg, driver+"-preferences")

	return &RemoteComponents{
		Driver: driver,
		RequestLogs: service.NewRequestLogService(
			repository.NewRequestLogRepositoryWithCircuitBreaker(logsRepo, logsCB)),
		Preferences: service.NewPreferenceService(
			repository.NewPreferencesRepositoryWithCircuitBreaker(prefsRepo, prefsCB), cfg.PreferencesOwner),
		RequestLogsCircuitBreaker: logsCB,
		PreferencesCircuitBreaker: prefsCB,
	}
}

func newCircuitBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
	})
}

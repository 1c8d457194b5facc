// Package app provides authentication initialization.
package app

import (
	"github.com/rs/zerolog/log"

	"github.com/guttosm/famroot-client/config"
	"github.com/guttosm/famroot-client/internal/auth"
)

// InitializeAuth creates the admin token issuer.
// Returns nil without an error when no JWT secret is configured, which leaves
// the admin API open.
func InitializeAuth(cfg config.ServerConfig) (*auth.Issuer, error) {
	if cfg.JWTSecret == "" {
		log.Warn().Msg("ADMIN_JWT_SECRET is not set - admin API authentication is disabled")
		return nil, nil
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.AdminTokenTTL)
	if err != nil {
		return nil, err
	}

	log.Info().Dur("token_ttl", cfg.AdminTokenTTL).Msg("Admin API authentication enabled")
	return issuer, nil
}

package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/guttosm/famroot-client/internal/app"
	"github.com/guttosm/famroot-client/internal/logger"
)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			a, err := app.InitializeApp(cfg)
			if err != nil {
				return err
			}

			remoteDriver := "none"
			if a.Remote != nil {
				remoteDriver = a.Remote.Driver
			}
			startLog := logger.WithContext(map[string]interface{}{
				"base_url": cfg.Client.BaseURL,
				"store":    cfg.Store.Driver,
				"remote":   remoteDriver,
				"auth":     a.Issuer != nil,
				"version":  version,
			})
			startLog.Info().Msg("Admin API configured")

			server := app.NewServer(a.Router, cfg.Server.Port)
			server.OnShutdown(a.Close)

			if err := server.Run(); err != nil {
				log.Error().Err(err).Msg("Server error")
				return err
			}
			return nil
		},
	}
}

// Package main is the entry point for the famroot API client operator binary.
//
// @title           Famroot Client Admin API
// @version         1.0.0
// @description     Operational window onto a famroot API client: dispatch requests,
// @description     inspect the response cache and telemetry, manage preferences and the auth token.
//
// @contact.name   API Support
// @contact.url    https://github.com/guttosm/famroot-client
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Admin JWT as "Bearer <token>". Required when ADMIN_JWT_SECRET is set.
//
// @tag.name        Requests
// @tag.description Requests dispatched through the client
//
// @tag.name        Telemetry
// @tag.description Request statistics and logs
//
// @tag.name        Cache
// @tag.description Response cache management
//
// @tag.name        Preferences
// @tag.description Preference bag and remote sync
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/guttosm/famroot-client/docs" // swagger docs
	"github.com/guttosm/famroot-client/config"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "famroot",
		Short:         "famroot API client: admin server and operator tools",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (defaults to the environment)")

	load := func() (config.Config, error) {
		if configPath == "" {
			return config.Load(), nil
		}
		return config.LoadFile(configPath)
	}

	root.AddCommand(
		newServeCmd(load),
		newGetCmd(load),
		newHistoryCmd(load),
		newPrefsCmd(load),
		newTokenCmd(load),
	)
	return root
}

// configLoader resolves the configuration once flags are parsed.
type configLoader func() (config.Config, error)

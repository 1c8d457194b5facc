package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guttosm/famroot-client/internal/app"
	"github.com/guttosm/famroot-client/internal/client"
)

func newGetCmd(load configLoader) *cobra.Command {
	var showMeta bool

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Send one GET request through a fresh client and print the response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			cfg.Log.Level = "error"
			app.InitializeLogger(cfg.Log)

			components, err := app.InitializeClient(cfg, nil)
			if err != nil {
				return err
			}
			defer func() { _ = components.Close() }()

			resp, err := components.Client.Get(cmd.Context(), args[0])
			if err != nil {
				var cerr *client.Error
				if errors.As(err, &cerr) && cerr.Data != nil {
					_ = printJSON(cmd.ErrOrStderr(), cerr.Data)
				}
				return err
			}

			if showMeta {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d %s (%d ms, cached: %t)\n",
					resp.Status, resp.StatusText, resp.ResponseTime.Milliseconds(), resp.FromCache)
			}
			return printJSON(cmd.OutOrStdout(), resp.Data)
		},
	}
	cmd.Flags().BoolVar(&showMeta, "meta", false, "print status and timing to stderr")
	return cmd
}

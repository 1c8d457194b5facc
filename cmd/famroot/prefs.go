package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guttosm/famroot-client/internal/app"
)

func newPrefsCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read and write preferences in the configured store",
	}

	// withClient opens the configured store for one command.
	withClient := func(run func(cmd *cobra.Command, args []string, c *app.ClientComponents) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
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
			return run(cmd, args, components)
		}
	}

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one preference",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, c *app.ClientComponents) error {
			value, ok := c.Client.GetPreference(args[0])
			if !ok {
				return fmt.Errorf("preference %q not found", args[0])
			}
			return printJSON(cmd.OutOrStdout(), value)
		}),
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store one preference; JSON values are decoded, anything else is a string",
		Args:  cobra.ExactArgs(2),
		RunE: withClient(func(cmd *cobra.Command, args []string, c *app.ClientComponents) error {
			return c.Client.SetPreference(args[0], parseValue(args[1]))
		}),
	}

	rmCmd := &cobra.Command{
		Use:     "rm <key>",
		Aliases: []string{"remove"},
		Short:   "Remove one preference",
		Args:    cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, c *app.ClientComponents) error {
			return c.Client.RemovePreference(args[0])
		}),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the whole preference bag",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, c *app.ClientComponents) error {
			return printJSON(cmd.OutOrStdout(), c.Client.GetAllPreferences())
		}),
	}

	cmd.AddCommand(getCmd, setCmd, rmCmd, listCmd)
	return cmd
}

func parseValue(raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

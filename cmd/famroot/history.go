package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/guttosm/famroot-client/internal/app"
	"github.com/guttosm/famroot-client/internal/domain/model"
)

var errNoRemoteStore = errors.New("no remote store is configured (set REMOTE_DRIVER to mongodb or sqlite)")

func newHistoryCmd(load configLoader) *cobra.Command {
	var (
		limit      int
		endpoint   string
		method     string
		errorsOnly bool
		since      time.Duration
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print request logs persisted in the remote store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled() {
				return errNoRemoteStore
			}
			cfg.Log.Level = "error"
			app.InitializeLogger(cfg.Log)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			remote, err := app.OpenRemote(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer func() { _ = remote.Close(context.Background()) }()

			q := model.RequestLogQuery{
				Endpoint:   endpoint,
				Method:     method,
				ErrorsOnly: errorsOnly,
				Limit:      limit,
			}
			if since > 0 {
				start := time.Now().Add(-since)
				q.StartTime = &start
			}

			logs, err := remote.RequestLogs.QueryRequestLogs(ctx, q)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), logs)
			}
			return printHistory(cmd, logs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "only endpoints matching this pattern")
	cmd.Flags().StringVar(&method, "method", "", "only this HTTP method")
	cmd.Flags().BoolVar(&errorsOnly, "errors", false, "only failed requests")
	cmd.Flags().DurationVar(&since, "since", 0, "only entries newer than this, e.g. 1h")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func printHistory(cmd *cobra.Command, logs []model.RequestLog) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tMETHOD\tENDPOINT\tSTATUS\tMS\tCACHE\tERROR")
	for _, l := range logs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%t\t%s\n",
			l.CreatedAt.Format(time.RFC3339), l.Method, l.Endpoint,
			l.ResponseStatus, l.ResponseTimeMs, l.CacheHit, l.ErrorMessage)
	}
	return w.Flush()
}

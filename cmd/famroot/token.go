package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/guttosm/famroot-client/internal/app"
	"github.com/guttosm/famroot-client/internal/domain/dto"
	"github.com/guttosm/famroot-client/internal/middleware"
)

func newTokenCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage admin API tokens",
	}

	var (
		subject string
		roles   []string
		asJSON  bool
	)
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Mint an admin API token signed with ADMIN_JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			cfg.Log.Level = "error"
			app.InitializeLogger(cfg.Log)

			issuer, err := app.InitializeAuth(cfg.Server)
			if err != nil {
				return err
			}
			if issuer == nil {
				return errors.New("ADMIN_JWT_SECRET is not configured")
			}

			token, expiresAt, err := issuer.Issue(subject, roles...)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), dto.TokenResponse{
					Token:     token,
					Subject:   subject,
					Roles:     roles,
					ExpiresAt: expiresAt,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}
	issueCmd.Flags().StringVar(&subject, "subject", "", "token subject")
	issueCmd.Flags().StringSliceVar(&roles, "role", []string{middleware.RoleAdmin}, "roles granted to the token")
	issueCmd.Flags().BoolVar(&asJSON, "json", false, "print token, subject, roles and expiry as JSON")
	_ = issueCmd.MarkFlagRequired("subject")

	var size int
	secretCmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate a random secret for ADMIN_JWT_SECRET or STORE_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if size < 32 {
				return fmt.Errorf("secret size must be at least 32 bytes, got %d", size)
			}
			secret, err := generateSecret(size)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}
	secretCmd.Flags().IntVar(&size, "bytes", 32, "number of random bytes")

	cmd.AddCommand(issueCmd, secretCmd)
	return cmd
}

func generateSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

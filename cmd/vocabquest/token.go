package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/vocab-quest/internal/delivery/httpapi"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a bearer token for local testing of the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetInt64("user")
		role, _ := cmd.Flags().GetString("role")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		rt, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.close()

		if err := rt.cfg.RequireJWTSecret(); err != nil {
			return err
		}

		token, err := httpapi.IssueToken(rt.cfg.Auth.JWTSecret, rt.cfg.Auth.Issuer, userID, role, ttl)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int64("user", 0, "Learner id to put in the token")
	tokenCmd.Flags().String("role", "", "Optional role, e.g. admin")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}

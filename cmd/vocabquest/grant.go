package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var grantCmd = &cobra.Command{
	Use:     "grant-xp",
	Short:   "Award bonus XP to a learner outside of gameplay",
	Example: "  vocabquest grant-xp --user 42 --amount 150",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetInt64("user")
		amount, _ := cmd.Flags().GetInt64("amount")

		ctx, stop := signalContext(cmd)
		defer stop()

		rt, err := bootstrap(ctx, true)
		if err != nil {
			return err
		}
		defer rt.close()

		res, err := rt.app.Progression.GrantXP(ctx, userID, amount)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "user %d: +%d XP, total %d, level %d", userID, res.XPEarned, res.NewTotalXP, res.NewLevel)
		if res.LeveledUp {
			fmt.Fprint(cmd.OutOrStdout(), " (level up!)")
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	grantCmd.Flags().Int64("user", 0, "Learner id")
	grantCmd.Flags().Int64("amount", 0, "XP to award, must be positive")
	_ = grantCmd.MarkFlagRequired("user")
	_ = grantCmd.MarkFlagRequired("amount")
}

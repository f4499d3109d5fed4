package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the optional Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		rt, err := bootstrap(ctx, true)
		if err != nil {
			return err
		}
		defer rt.close()

		if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
			applied, err := rt.app.Migrate(ctx)
			if err != nil {
				return err
			}
			rt.logger.Info("migrations applied", zap.Strings("versions", applied))
		}

		if err := rt.app.Serve(ctx); err != nil {
			rt.logger.Error("server stopped with error", zap.Error(err))
			return err
		}

		rt.logger.Info("shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "Apply pending migrations before serving")
}

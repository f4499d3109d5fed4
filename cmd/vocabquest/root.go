package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-quest/internal/app"
	"github.com/aliskhannn/vocab-quest/internal/config"
	"github.com/aliskhannn/vocab-quest/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:          "vocabquest",
	Short:        "Vocabulary game progression service",
	Long:         "vocabquest records finished vocabulary games, keeps XP and levels, and tracks the words each learner keeps missing.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(grantCmd)
	rootCmd.AddCommand(tokenCmd)
}

// runtime is what every subcommand needs: configuration, a logger and,
// for database commands, the wired application.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	app    *app.App
}

func (r *runtime) close() {
	if r.app != nil {
		r.app.Close()
	}
	_ = r.logger.Sync()
}

func bootstrap(ctx context.Context, withApp bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: log}
	if !withApp {
		return rt, nil
	}

	rt.app, err = app.New(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	return rt, nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/vocab-quest/internal/config"
	"github.com/aliskhannn/vocab-quest/internal/delivery/httpapi"
	"github.com/aliskhannn/vocab-quest/internal/delivery/telegram"
	"github.com/aliskhannn/vocab-quest/internal/infra/postgres"
	"github.com/aliskhannn/vocab-quest/internal/infra/postgres/repository"
	"github.com/aliskhannn/vocab-quest/internal/metrics"
	"github.com/aliskhannn/vocab-quest/internal/service"
)

// App owns the database pool and the services built on it.
type App struct {
	cfg     *config.Config
	logger  *zap.Logger
	pool    *pgxpool.Pool
	metrics *metrics.Metrics
	newBot  func(token string) (*tgbotapi.BotAPI, error)

	Sessions    *service.SessionService
	Progression *service.ProgressionService
	Mistakes    *service.MistakeService
	Users       *service.UserService
}

// New connects to Postgres and wires repositories into services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dsn, err := cfg.DB.DSN()
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:         int32(cfg.DB.MaxConnections),
		MaxConnLifetime:  cfg.DB.MaxConnLifetime,
		StatementTimeout: cfg.DB.StatementTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	m := metrics.New()
	tx := txRunner{tx: postgres.NewTransactor(pool)}
	repos := repositoriesFor(pool)

	return &App{
		cfg:     cfg,
		logger:  logger,
		pool:    pool,
		metrics: m,
		newBot:  tgbotapi.NewBotAPI,
		Sessions: service.NewSessionService(
			tx, repos.Sessions, m, logger.Named("sessions"), cfg.Game.AllowedTypes,
		),
		Progression: service.NewProgressionService(
			tx, repos.Progress, repos.Mastery, repository.NewAchievementRepository(pool), m, logger.Named("progression"),
		),
		Mistakes: service.NewMistakeService(
			repos.Mistakes, m, logger.Named("mistakes"), cfg.Game.MistakesPageSize,
		),
		Users: service.NewUserService(repository.NewUserRepository(pool)),
	}, nil
}

// Migrate applies pending schema migrations.
func (a *App) Migrate(ctx context.Context) ([]string, error) {
	return postgres.Migrate(ctx, a.pool)
}

func (a *App) Close() {
	a.pool.Close()
}

// Serve runs the HTTP API and, when enabled, the Telegram bot until ctx is
// cancelled, then shuts the server down gracefully.
func (a *App) Serve(ctx context.Context) error {
	if err := a.cfg.RequireJWTSecret(); err != nil {
		return err
	}

	var bot *tgbotapi.BotAPI
	if a.cfg.Telegram.Enabled {
		var err error
		if bot, err = a.newBot(a.cfg.Telegram.APIToken); err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		bot.Debug = a.cfg.Telegram.Debug
		a.logger.Info("authorized on telegram", zap.String("account", bot.Self.UserName))
	}

	handler := httpapi.NewHandler(
		a.logger.Named("http"),
		a.Sessions,
		a.Progression,
		a.Mistakes,
		a.pool,
		httpapi.Options{
			JWTSecret: a.cfg.Auth.JWTSecret,
			JWTIssuer: a.cfg.Auth.Issuer,
			RateLimit: a.cfg.HTTP.RateLimit,
			RateBurst: a.cfg.HTTP.RateBurst,
		},
	)

	srv := &http.Server{
		Addr:         a.cfg.HTTP.Addr,
		Handler:      handler.Router(a.metrics.Handler(), a.metrics.Middleware()),
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		handler.RunJanitor(ctx)
		return nil
	})

	if bot != nil {
		tg := telegram.NewHandler(bot, a.logger.Named("telegram"), a.Users, a.Progression, a.Mistakes)
		g.Go(func() error {
			defer bot.StopReceivingUpdates()
			if err := tg.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

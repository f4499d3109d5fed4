package app

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/vocab-quest/internal/infra/postgres"
	"github.com/aliskhannn/vocab-quest/internal/infra/postgres/repository"
	"github.com/aliskhannn/vocab-quest/internal/service"
)

// txRunner binds the repositories to a pgx transaction for the services.
type txRunner struct {
	tx *postgres.Transactor
}

func (r txRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, repos service.Repositories) error) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, repositoriesFor(tx))
	})
}

func repositoriesFor(db postgres.DBTX) service.Repositories {
	return service.Repositories{
		Sessions: repository.NewSessionRepository(db),
		Progress: repository.NewProgressRepository(db),
		Mastery:  repository.NewMasteryRepository(db),
		Mistakes: repository.NewMistakeRepository(db),
	}
}

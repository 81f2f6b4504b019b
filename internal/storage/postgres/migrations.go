package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

//go:embed migrations/01_create_users.up.sql
var createUsersUp string

//go:embed migrations/02_create_sessions.up.sql
var createSessionsUp string

//go:embed migrations/03_create_tasks.up.sql
var createTasksUp string

// Migrate applies the schema migrations in order. Every statement is
// idempotent, so running it on an already-migrated database is a no-op.
func Migrate(ctx context.Context, logger zerolog.Logger, pool *pgxpool.Pool) error {
	logger.Debug().Msg("running migrations")

	migrations := []struct {
		name string
		sql  string
	}{
		{"create users", createUsersUp},
		{"create sessions", createSessionsUp},
		{"create tasks", createTasksUp},
	}

	for _, m := range migrations {
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply %s migration: %w", m.name, err)
		}
	}

	logger.Info().Msg("migrations finished")
	return nil
}

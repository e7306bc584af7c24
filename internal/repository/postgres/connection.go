package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"docvault/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds the shared dependencies of the postgres repositories.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds prefixed table names so dev/test/prod can share a database.
type TableNames struct {
	Users string
	Files string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users: fmt.Sprintf("%susers", prefix),
		Files: fmt.Sprintf("%sfiles", prefix),
	}
}

// CreateConnectionPool creates a pgx connection pool and verifies it with a
// ping. The table prefix is interpolated into SQL before it is sent, so each
// environment gets its own set of statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in the context if one exists,
// otherwise the pool. Repositories call this on every query so they
// automatically participate in transactions.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}

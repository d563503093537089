// Package repomanager vends repository implementations bound to a DB handle
// or transaction and runs the embedded goose migrations for the configured
// dialect.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	"github.com/sibeni-li/khronos/internal/dbx"
	"github.com/sibeni-li/khronos/internal/server/migrations"
	"github.com/sibeni-li/khronos/internal/server/repositories/analyses"
	"github.com/sibeni-li/khronos/internal/server/repositories/functions"
	"github.com/sibeni-li/khronos/internal/server/repositories/users"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Analyses returns an analyses.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Analyses(db dbx.DBTX) analyses.Repository {
	return analyses.NewPostgresRepository(db)
}

// Functions returns a functions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Functions(db dbx.DBTX) functions.Repository {
	return functions.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "pgx", "postgres")
}

func runMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return err
	}
	return nil
}

package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sibeni-li/khronos/internal/dbx"
	"github.com/sibeni-li/khronos/internal/server/repositories/analyses"
	"github.com/sibeni-li/khronos/internal/server/repositories/functions"
	"github.com/sibeni-li/khronos/internal/server/repositories/users"
)

// Supported database drivers, as registered with database/sql.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Analyses(db dbx.DBTX) analyses.Repository
	Functions(db dbx.DBTX) functions.Repository
}

// New returns the manager for driver.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case DriverPostgres:
		return &PostgresRepositoryManager{}, nil
	case DriverSQLite:
		return &SQLiteRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

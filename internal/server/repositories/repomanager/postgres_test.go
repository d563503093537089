package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/sibeni-li/khronos/internal/server/repositories/analyses"
	"github.com/sibeni-li/khronos/internal/server/repositories/functions"
	"github.com/sibeni-li/khronos/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNew_ByDriver(t *testing.T) {
	m, err := New(DriverPostgres)
	require.NoError(t, err)
	require.IsType(t, &PostgresRepositoryManager{}, m)

	m, err = New(DriverSQLite)
	require.NoError(t, err)
	require.IsType(t, &SQLiteRepositoryManager{}, m)

	_, err = New("mysql")
	require.EqualError(t, err, `unsupported database driver "mysql"`)
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &PostgresRepositoryManager{}

	if u := m.Users(db); u == nil {
		t.Fatal("Users() nil")
	}
	if a := m.Analyses(db); a == nil {
		t.Fatal("Analyses() nil")
	}
	if f := m.Functions(db); f == nil {
		t.Fatal("Functions() nil")
	}

	var _ users.Repository = m.Users(db)
	var _ analyses.Repository = m.Analyses(db)
	var _ functions.Repository = m.Functions(db)
}

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestRunMigrations_PostgresDir(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "postgres" {
			return errors.New("unexpected dir " + dir)
		}
		return nil
	})

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_SQLiteDir(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "sqlite" {
			return errors.New("unexpected dir " + dir)
		}
		return nil
	})

	m := &SQLiteRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sibeni-li/khronos/internal/logging"
	"github.com/sibeni-li/khronos/internal/server/config"
	"github.com/sibeni-li/khronos/internal/server/models"
	"github.com/sibeni-li/khronos/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

// newTestDB opens a private in-memory sqlite database with the schema applied.
func newTestDB(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := repomanager.SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))

	db, err := sql.Open(repomanager.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.New(repomanager.DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(context.Background(), db))

	return db, rm
}

func newTestLogger(t *testing.T) logging.Logger {
	return logging.NewZapLogger(zaptest.NewLogger(t))
}

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
	}
}

func createUser(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager, name string) int64 {
	t.Helper()
	u, err := rm.Users(db).Create(context.Background(), &models.User{UserName: name, PasswordHash: "x"})
	require.NoError(t, err)
	return u.ID
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

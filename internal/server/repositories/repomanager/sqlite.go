package repomanager

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"
)

// sqlitePragmas are applied by the modernc driver on every new connection.
// Foreign keys are off in SQLite unless enabled per connection.
var sqlitePragmas = []struct {
	name  string
	value string
}{
	{"foreign_keys", "foreign_keys(1)"},
	{"busy_timeout", "busy_timeout(5000)"},
}

// SQLiteDSN returns dsn with the connection pragmas the schema relies on.
// Pragmas already named in dsn are left as given.
func SQLiteDSN(dsn string) string {
	lower := strings.ToLower(dsn)
	for _, p := range sqlitePragmas {
		if strings.Contains(lower, p.name) {
			continue
		}
		sep := "&"
		if !strings.Contains(dsn, "?") {
			sep = "?"
		}
		dsn += sep + "_pragma=" + p.value
	}
	return dsn
}

// SQLiteRepositoryManager shares the portable repositories of
// PostgresRepositoryManager and only swaps the migration set.
type SQLiteRepositoryManager struct {
	PostgresRepositoryManager
}

// RunMigrations applies the embedded SQLite migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite3", "sqlite")
}

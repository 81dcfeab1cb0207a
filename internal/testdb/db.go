package testdb

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// EnvDatabaseURL names the variable holding the integration database DSN.
const EnvDatabaseURL = "DATABASE_URL"

const migrateTimeout = 30 * time.Second

// URL returns the integration database DSN, or "" when none is configured.
func URL() string {
	return os.Getenv(EnvDatabaseURL)
}

// Open connects to the integration database and applies all migrations.
// It skips the test when no database is configured. The connection is
// closed when the test ends.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := URL()
	if url == "" {
		t.Skipf("%s not set", EnvDatabaseURL)
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err, "open database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "ping database")
	require.NoError(t, postgres.Migrate(ctx, db, "up", nil), "apply migrations")

	return db
}

// Tx begins a transaction that is rolled back when the test ends.
func Tx(t *testing.T, db *sql.DB) *sql.Tx {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "begin transaction")
	t.Cleanup(func() { _ = tx.Rollback() })
	return tx
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "begin transaction")
	defer func() { _ = tx.Rollback() }()

	fn(t, tx)
}

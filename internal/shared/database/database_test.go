package database

import (
	"context"
	"path/filepath"
	"testing"

	"dragons-den/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "den.sqlite"),
	}}
	db, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRebind(t *testing.T) {
	query := "UPDATE players SET gold = ? WHERE id = ?"
	assert.Equal(t, query, rebind(DialectSQLite, query))
	assert.Equal(t, "UPDATE players SET gold = $1 WHERE id = $2", rebind(DialectPostgres, query))
}

func TestDriverFor(t *testing.T) {
	name, dialect, err := driverFor("pgx")
	require.NoError(t, err)
	assert.Equal(t, "pgx", name)
	assert.Equal(t, DialectPostgres, dialect)

	_, _, err = driverFor("mysql")
	assert.Error(t, err)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.RunMigrations(ctx))
	require.NoError(t, db.RunMigrations(ctx))

	var applied int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 2, applied)

	_, err := db.ExecContext(ctx, db.Rebind(
		"INSERT INTO players (id, last_tick_at, created_at, updated_at) VALUES (?, ?, ?, ?)"),
		"player-1", 1, 1, 1)
	require.NoError(t, err)
}

func TestSplitStatementsDropsComments(t *testing.T) {
	stmts := splitStatements("-- header\nCREATE TABLE a (id INT);\n\nCREATE TABLE b (id INT);\n")
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"}, stmts)
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dragons-den/internal/shared/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect decides placeholder syntax. Queries are written with '?' and
// rebound for postgres.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

type DB struct {
	*sql.DB
	Dialect Dialect
}

type Tx struct {
	*sql.Tx
	Dialect Dialect
}

type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	Rebind(query string) string
}

func (db *DB) Rebind(query string) string {
	return rebind(db.Dialect, query)
}

func (tx *Tx) Rebind(query string) string {
	return rebind(tx.Dialect, query)
}

func (db *DB) BeginTxContext(ctx context.Context) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{Tx: tx, Dialect: db.Dialect}, nil
}

func rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Connect opens the database described by the global configuration.
func Connect() (*DB, error) {
	return Open(config.GlobalConfig)
}

func Open(cfg *config.Config) (*DB, error) {
	logger := slog.With("component", "database", "operation", "connect")
	logger.Debug("Initializing database connection")

	driverName, dialect, err := driverFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	if dialect == DialectSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		logger.Info("Connecting to database", "driver", driverName, "path", cfg.Database.SQLitePath)
	} else {
		logger.Info("Connecting to database",
			"driver", driverName,
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"user", cfg.Database.User,
			"database", cfg.Database.Name,
			"sslmode", cfg.Database.SSLMode,
			"max_open_conns", cfg.Database.MaxOpenConns,
			"max_idle_conns", cfg.Database.MaxIdleConns,
		)
	}

	sqlDB, err := sql.Open(driverName, cfg.ConnectionString())
	if err != nil {
		logger.Error("Failed to open database connection", "error", err, "driver", driverName)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == DialectSQLite {
		// sqlite serializes writers anyway; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	logger.Debug("Testing database connection with ping")
	if err := sqlDB.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err, "driver", driverName)
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Error("Failed to close database after ping failure", "close_error", closeErr, "ping_error", err)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established successfully", "driver", driverName, "dialect", dialect)

	return &DB{DB: sqlDB, Dialect: dialect}, nil
}

func driverFor(name string) (string, Dialect, error) {
	switch name {
	case "sqlite":
		return "sqlite", DialectSQLite, nil
	case "postgres":
		return "postgres", DialectPostgres, nil
	case "pgx":
		return "pgx", DialectPostgres, nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", name)
	}
}

package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to Postgres (through the pgx stdlib driver) or SQLite and
// verifies the connection. SQLite is limited to a single connection so an
// in-memory database is shared by every query.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverPostgres, "pgx":
		db, err := sqlx.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("openDB: open postgres database: %w", err)
		}

		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)

		return ping(ctx, db, "postgres")

	case DriverSQLite:
		db, err := sqlx.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dsn, err)
		}
		db.SetMaxOpenConns(1)

		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("openDB: enable sqlite foreign keys: %w", err)
		}

		return ping(ctx, db, "sqlite")

	default:
		return nil, fmt.Errorf("openDB: unsupported driver %q", driver)
	}
}

func ping(ctx context.Context, db *sqlx.DB, name string) (*sqlx.DB, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("openDB: verify %s connection: %w", name, err)
	}
	return db, nil
}

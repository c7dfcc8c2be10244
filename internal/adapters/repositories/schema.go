package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Column types are chosen to be valid in both Postgres and SQLite.
var schemaStatements = []string{
	`
	CREATE TABLE IF NOT EXISTS stores (
		store_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		divider_start_lat DOUBLE PRECISION,
		divider_start_lng DOUBLE PRECISION,
		divider_end_lat DOUBLE PRECISION,
		divider_end_lng DOUBLE PRECISION
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS staff (
		staff_id TEXT PRIMARY KEY,
		store_id TEXT NOT NULL REFERENCES stores(store_id),
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		zone INTEGER NOT NULL DEFAULT 0
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS tiffin_subscriptions (
		order_id TEXT PRIMARY KEY,
		store_id TEXT NOT NULL REFERENCES stores(store_id),
		customer_name TEXT NOT NULL,
		address TEXT NOT NULL,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		fulfillment TEXT NOT NULL DEFAULT 'delivery'
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS tiffin_status (
		order_id TEXT NOT NULL REFERENCES tiffin_subscriptions(order_id),
		delivery_date TEXT NOT NULL,
		status TEXT NOT NULL,
		PRIMARY KEY (order_id, delivery_date)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS catering_orders (
		order_id TEXT PRIMARY KEY,
		store_id TEXT NOT NULL REFERENCES stores(store_id),
		customer_name TEXT NOT NULL,
		address TEXT NOT NULL,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		fulfillment TEXT NOT NULL DEFAULT 'delivery',
		event_date TEXT NOT NULL,
		status TEXT NOT NULL,
		subtotal_cents BIGINT NOT NULL DEFAULT 0,
		discount_cents BIGINT NOT NULL DEFAULT 0,
		delivery_fee_cents BIGINT NOT NULL DEFAULT 0,
		tax_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		paid_cents BIGINT NOT NULL DEFAULT 0
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_tiffin_status_date
	ON tiffin_status(delivery_date, order_id);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_catering_store_date
	ON catering_orders(store_id, event_date);
	`,
}

// Initialize the database schema.
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// sqliteSchema mirrors the gorm models so the sqlite store serves the same
// six tables without a migration step. Date columns are TEXT so a value
// reads back exactly as it was written.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS products (
    id          INTEGER PRIMARY KEY,
    name        TEXT,
    description TEXT,
    price       NUMERIC(12,2),
    category    TEXT
);

CREATE TABLE IF NOT EXISTS warehouse (
    id          INTEGER PRIMARY KEY,
    name        TEXT,
    description TEXT,
    quantity    INTEGER DEFAULT 0,
    price       NUMERIC(12,2)
);

CREATE TABLE IF NOT EXISTS stocks (
    id           INTEGER PRIMARY KEY,
    product_id   INTEGER,
    warehouse_id INTEGER,
    quantity     INTEGER DEFAULT 0,
    min_quantity INTEGER DEFAULT 0,
    unit_cost    NUMERIC(12,2),
    last_checked TEXT,
    notes        TEXT
);

CREATE INDEX IF NOT EXISTS idx_stocks_product_id ON stocks(product_id);
CREATE INDEX IF NOT EXISTS idx_stocks_warehouse_id ON stocks(warehouse_id);

CREATE TABLE IF NOT EXISTS suppliers (
    id           INTEGER PRIMARY KEY,
    name         TEXT,
    contact_name TEXT,
    email        TEXT,
    phone        TEXT,
    address      TEXT,
    status       TEXT DEFAULT 'active'
);

CREATE TABLE IF NOT EXISTS orders (
    id               INTEGER PRIMARY KEY,
    customer_id      TEXT,
    order_date       TEXT,
    total_amount     NUMERIC(12,2),
    status           TEXT DEFAULT 'pending',
    shipping_address TEXT,
    payment_method   TEXT,
    created_at       TEXT DEFAULT CURRENT_TIMESTAMP,
    updated_at       TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS audit_log (
    id            INTEGER PRIMARY KEY,
    user_id       TEXT,
    action        TEXT,
    resource_type TEXT,
    resource_id   TEXT,
    details       TEXT,
    created_at    TEXT DEFAULT CURRENT_TIMESTAMP
);
`

// OpenSQLite opens the sqlite file at path, applies the pragmas and creates
// any missing tables. Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection: sqlite has a single writer and every ":memory:"
	// connection would otherwise get its own empty database.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return db, nil
}

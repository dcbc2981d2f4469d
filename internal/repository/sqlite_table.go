package repository

import (
	"context"
	"database/sql"
	"errors"

	"warehouse-inventory-api/internal/model"

	"github.com/jmoiron/sqlx"
)

// SQLiteTable serves the tables from a local sqlite file through sqlx.
type SQLiteTable struct {
	db *sqlx.DB
}

func NewSQLiteTable(db *sqlx.DB) *SQLiteTable {
	return &SQLiteTable{db: db}
}

type sqliteColumn struct {
	CID     int            `db:"cid"`
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull int            `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
	PK      int            `db:"pk"`
}

func (s *SQLiteTable) query(ctx context.Context, op, table, sqlText string, args ...any) ([]model.Record, error) {
	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(sqlText), args...)
	if err != nil {
		return nil, storeErr(op, table, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows.Rows)
	if err != nil {
		return nil, storeErr(op, table, err)
	}
	return records, nil
}

func (s *SQLiteTable) Select(ctx context.Context, table string, filter Filter) ([]model.Record, error) {
	query, args := selectSQL(doubleQuote, table, filter, false)
	return s.query(ctx, "select", table, query, args...)
}

func (s *SQLiteTable) SelectOne(ctx context.Context, table string, filter Filter) (model.Record, error) {
	query, args := selectSQL(doubleQuote, table, filter, true)
	rows, err := s.query(ctx, "select", table, query, args...)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (s *SQLiteTable) Insert(ctx context.Context, table string, row model.Record) (model.Record, error) {
	query, args, err := insertSQL(doubleQuote, table, row)
	if err != nil {
		return nil, storeErr("insert", table, err)
	}
	rows, err := s.query(ctx, "insert", table, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &StoreError{Op: "insert", Table: table, Message: "insert returned no row"}
	}
	return rows[0], nil
}

func (s *SQLiteTable) Update(ctx context.Context, table string, filter Filter, row model.Record) ([]model.Record, error) {
	known, err := s.tableColumns(ctx, table)
	if err != nil {
		return nil, storeErr("update", table, err)
	}
	query, args, ok, err := updateSQL(doubleQuote, table, filter, known, row)
	if err != nil {
		return nil, storeErr("update", table, err)
	}
	if !ok {
		return s.Select(ctx, table, filter)
	}
	return s.query(ctx, "update", table, query, args...)
}

func (s *SQLiteTable) Delete(ctx context.Context, table string, filter Filter) ([]model.Record, error) {
	query, args := deleteSQL(doubleQuote, table, filter)
	return s.query(ctx, "delete", table, query, args...)
}

func (s *SQLiteTable) Close() error {
	return s.db.Close()
}

func (s *SQLiteTable) tableColumns(ctx context.Context, table string) ([]string, error) {
	var cols []sqliteColumn
	if err := s.db.SelectContext(ctx, &cols, "PRAGMA table_info("+doubleQuote(table)+")"); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, errors.New("no such table: " + table)
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names, nil
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"warehouse-inventory-api/internal/model"

	"gorm.io/gorm"
)

// GormTable runs the table queries as plain SQL through gorm. It works on
// any table without a model, which is what the loosely typed resources need.
type GormTable struct {
	db  *gorm.DB
	now func() time.Time

	mu      sync.Mutex
	columns map[string]columnSet
}

// columnsTTL is how long a table's column list is reused before it is read
// again, so columns added by a migration are picked up without a restart.
const columnsTTL = time.Minute

type columnSet struct {
	names  []string
	loaded time.Time
}

func NewGormTable(db *gorm.DB) *GormTable {
	return &GormTable{db: db, now: time.Now, columns: make(map[string]columnSet)}
}

func (g *GormTable) quote(name string) string {
	var b strings.Builder
	g.db.Dialector.QuoteTo(&b, name)
	return b.String()
}

func (g *GormTable) query(ctx context.Context, op, table, sqlText string, args ...any) ([]model.Record, error) {
	rows, err := g.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, storeErr(op, table, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, storeErr(op, table, err)
	}
	return records, nil
}

func (g *GormTable) Select(ctx context.Context, table string, filter Filter) ([]model.Record, error) {
	query, args := selectSQL(g.quote, table, filter, false)
	return g.query(ctx, "select", table, query, args...)
}

func (g *GormTable) SelectOne(ctx context.Context, table string, filter Filter) (model.Record, error) {
	query, args := selectSQL(g.quote, table, filter, true)
	rows, err := g.query(ctx, "select", table, query, args...)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (g *GormTable) Insert(ctx context.Context, table string, row model.Record) (model.Record, error) {
	query, args, err := insertSQL(g.quote, table, row)
	if err != nil {
		return nil, storeErr("insert", table, err)
	}
	rows, err := g.query(ctx, "insert", table, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &StoreError{Op: "insert", Table: table, Message: "insert returned no row"}
	}
	return rows[0], nil
}

func (g *GormTable) Update(ctx context.Context, table string, filter Filter, row model.Record) ([]model.Record, error) {
	known, err := g.tableColumns(ctx, table)
	if err != nil {
		return nil, storeErr("update", table, err)
	}
	query, args, ok, err := updateSQL(g.quote, table, filter, known, row)
	if err != nil {
		return nil, storeErr("update", table, err)
	}
	if !ok {
		return g.Select(ctx, table, filter)
	}
	return g.query(ctx, "update", table, query, args...)
}

func (g *GormTable) Delete(ctx context.Context, table string, filter Filter) ([]model.Record, error) {
	query, args := deleteSQL(g.quote, table, filter)
	return g.query(ctx, "delete", table, query, args...)
}

func (g *GormTable) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// tableColumns returns the column names of table, cached for columnsTTL.
func (g *GormTable) tableColumns(ctx context.Context, table string) ([]string, error) {
	if cols, ok := g.cachedColumns(table); ok {
		return cols, nil
	}

	types, err := g.db.WithContext(ctx).Migrator().ColumnTypes(table)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, errors.New(`relation "` + table + `" does not exist`)
	}
	cols := make([]string, len(types))
	for i, t := range types {
		cols[i] = t.Name()
	}

	g.mu.Lock()
	g.columns[table] = columnSet{names: cols, loaded: g.now()}
	g.mu.Unlock()
	return cols, nil
}

func (g *GormTable) cachedColumns(table string) ([]string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	set, ok := g.columns[table]
	if !ok || g.now().Sub(set.loaded) > columnsTTL {
		return nil, false
	}
	return set.names, true
}

func scanRecords(rows *sql.Rows) ([]model.Record, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	out := make([]model.Record, 0)
	for rows.Next() {
		values := make([]any, len(types))
		ptrs := make([]any, len(types))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(model.Record, len(types))
		for i, t := range types {
			rec[t.Name()] = normalize(t.DatabaseTypeName(), values[i])
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// normalize turns driver values into what the JSON API exposes: numerics
// as numbers and json columns as decoded values.
func normalize(dbType string, v any) any {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	s, ok := v.(string)
	if !ok {
		return v
	}
	base := strings.ToUpper(dbType)
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	switch base {
	case "NUMERIC", "DECIMAL", "REAL", "DOUBLE", "FLOAT8", "FLOAT4":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case "JSON", "JSONB":
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err == nil {
			return decoded
		}
	}
	return s
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"warehouse-inventory-api/internal/model"
)

// Filter is a set of column = value equality conditions, ANDed together.
type Filter map[string]any

// TableQuery is the generic data-store collaborator every resource goes
// through. Backends report failures as *StoreError.
//
// Not-found is not an error: SelectOne returns a nil record and Update returns
// no rows. Delete succeeds whether or not anything matched and returns the
// rows it removed.
type TableQuery interface {
	Select(ctx context.Context, table string, filter Filter) ([]model.Record, error)
	SelectOne(ctx context.Context, table string, filter Filter) (model.Record, error)
	Insert(ctx context.Context, table string, row model.Record) (model.Record, error)
	// Update replaces every matched row with row: columns missing from row
	// are cleared, except the filter columns and preserved columns.
	Update(ctx context.Context, table string, filter Filter, row model.Record) ([]model.Record, error)
	Delete(ctx context.Context, table string, filter Filter) ([]model.Record, error)
	Close() error
}

// Columns the store manages itself and an update never clears.
var preservedColumns = []string{"id", "created_at"}

// StoreError carries the store's human-readable message verbatim.
type StoreError struct {
	Op      string
	Table   string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op, table string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Table: table, Message: err.Error(), Err: err}
}

func isPreserved(column string, filter Filter) bool {
	if _, ok := filter[column]; ok {
		return true
	}
	for _, c := range preservedColumns {
		if c == column {
			return true
		}
	}
	return false
}

// writableColumns returns the sorted columns of row that an insert or update
// may set, dropping the store-assigned id.
func writableColumns(row model.Record) []string {
	cols := make([]string, 0, len(row))
	for k := range row {
		if k == "id" {
			continue
		}
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func sortedKeys(filter Filter) []string {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// columnValue prepares a JSON-decoded value for a SQL parameter. Objects
// and arrays are stored as their JSON text.
func columnValue(v any) (any, error) {
	switch v.(type) {
	case map[string]any, []any, model.Record:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode column value: %w", err)
		}
		return string(b), nil
	default:
		return v, nil
	}
}

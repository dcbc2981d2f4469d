package repository

import (
	"sort"
	"strings"

	"warehouse-inventory-api/internal/model"
)

// quoteFunc quotes an identifier for the target database.
type quoteFunc func(name string) string

// doubleQuote is the standard SQL identifier quoting.
func doubleQuote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// whereSQL renders the filter as ` WHERE "col" = ? AND ...` with its arguments.
func whereSQL(q quoteFunc, filter Filter) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}
	keys := sortedKeys(filter)
	conds := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		conds[i] = q(k) + " = ?"
		args[i] = filter[k]
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func selectSQL(q quoteFunc, table string, filter Filter, limit bool) (string, []any) {
	cond, args := whereSQL(q, filter)
	query := "SELECT * FROM " + q(table) + cond
	if limit {
		query += " LIMIT 1"
	}
	return query, args
}

func insertSQL(q quoteFunc, table string, row model.Record) (string, []any, error) {
	cols := writableColumns(row)
	if len(cols) == 0 {
		return "INSERT INTO " + q(table) + " DEFAULT VALUES RETURNING *", nil, nil
	}

	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		v, err := columnValue(row[c])
		if err != nil {
			return "", nil, err
		}
		quoted[i] = q(c)
		marks[i] = "?"
		args[i] = v
	}
	query := "INSERT INTO " + q(table) +
		" (" + strings.Join(quoted, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ") RETURNING *"
	return query, args, nil
}

// updateSQL sets every column in row and clears the known columns row
// leaves out. Unknown keys in row are kept so the database reports them.
// ok is false when there is nothing to set.
func updateSQL(q quoteFunc, table string, filter Filter, known []string, row model.Record) (query string, args []any, ok bool, err error) {
	set := map[string]any{}
	for _, c := range known {
		if !isPreserved(c, filter) {
			set[c] = nil
		}
	}
	for _, c := range writableColumns(row) {
		if isPreserved(c, filter) {
			continue
		}
		v, err := columnValue(row[c])
		if err != nil {
			return "", nil, false, err
		}
		set[c] = v
	}
	if len(set) == 0 {
		return "", nil, false, nil
	}

	cols := make([]string, 0, len(set))
	for c := range set {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	assignments := make([]string, len(cols))
	args = make([]any, 0, len(cols)+len(filter))
	for i, c := range cols {
		assignments[i] = q(c) + " = ?"
		args = append(args, set[c])
	}
	cond, condArgs := whereSQL(q, filter)
	args = append(args, condArgs...)

	query = "UPDATE " + q(table) + " SET " + strings.Join(assignments, ", ") + cond + " RETURNING *"
	return query, args, true, nil
}

func deleteSQL(q quoteFunc, table string, filter Filter) (string, []any) {
	cond, args := whereSQL(q, filter)
	return "DELETE FROM " + q(table) + cond + " RETURNING *", args
}

package repository

import (
	"testing"

	"warehouse-inventory-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSQL(t *testing.T) {
	query, args := selectSQL(doubleQuote, "stocks", Filter{"warehouse_id": 2, "product_id": 7}, true)
	assert.Equal(t, `SELECT * FROM "stocks" WHERE "product_id" = ? AND "warehouse_id" = ? LIMIT 1`, query)
	assert.Equal(t, []any{7, 2}, args)

	query, args = selectSQL(doubleQuote, "orders", nil, false)
	assert.Equal(t, `SELECT * FROM "orders"`, query)
	assert.Empty(t, args)
}

func TestInsertSQL(t *testing.T) {
	query, args, err := insertSQL(doubleQuote, "products", model.Record{"id": 9, "name": "Bolt", "tags": []any{"a"}})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "products" ("name", "tags") VALUES (?, ?) RETURNING *`, query)
	assert.Equal(t, []any{"Bolt", `["a"]`}, args)

	query, args, err = insertSQL(doubleQuote, "audit_log", model.Record{})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "audit_log" DEFAULT VALUES RETURNING *`, query)
	assert.Nil(t, args)
}

func TestUpdateSQLClearsOmittedColumns(t *testing.T) {
	known := []string{"id", "name", "category", "created_at"}
	query, args, ok, err := updateSQL(doubleQuote, "products", Filter{"id": 3}, known, model.Record{"name": "Nut", "id": 8})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `UPDATE "products" SET "category" = ?, "name" = ? WHERE "id" = ? RETURNING *`, query)
	assert.Equal(t, []any{nil, "Nut", 3}, args)
}

func TestUpdateSQLNothingToSet(t *testing.T) {
	_, _, ok, err := updateSQL(doubleQuote, "products", Filter{"id": 3}, []string{"id", "created_at"}, model.Record{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteSQLReturnsRows(t *testing.T) {
	query, args := deleteSQL(doubleQuote, "warehouse", Filter{"id": int64(4)})
	assert.Equal(t, `DELETE FROM "warehouse" WHERE "id" = ? RETURNING *`, query)
	assert.Equal(t, []any{int64(4)}, args)
}

func TestDoubleQuoteEscapes(t *testing.T) {
	assert.Equal(t, `"we""ird"`, doubleQuote(`we"ird`))
}

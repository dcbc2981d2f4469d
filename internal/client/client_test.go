package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"warehouse-inventory-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCRUD(t *testing.T) {
	var lastMethod, lastPath, lastBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		lastMethod, lastPath, lastBody = r.Method, r.URL.Path, string(b)
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`[{"id":1,"quantity":5,"min_quantity":10}]`))
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":2,"name":"Widget"}`))
		case http.MethodPut:
			_, _ = w.Write([]byte(`{"id":2,"name":"Gadget"}`))
		case http.MethodDelete:
			_, _ = w.Write([]byte(`{"message":"Product deleted successfully"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/", time.Second)
	ctx := context.Background()

	rows, err := c.List(ctx, "stocks")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, model.IsLowStock(rows[0]))
	assert.Equal(t, "/api/stocks", lastPath)

	row, err := c.Create(ctx, "products", model.Record{"name": "Widget"})
	require.NoError(t, err)
	assert.Equal(t, float64(2), row["id"])
	assert.Equal(t, http.MethodPost, lastMethod)
	assert.JSONEq(t, `{"name":"Widget"}`, lastBody)

	row, err = c.Update(ctx, "products", "2", model.Record{"name": "Gadget"})
	require.NoError(t, err)
	assert.Equal(t, "Gadget", row["name"])
	assert.Equal(t, "/api/products/2", lastPath)

	require.NoError(t, c.Delete(ctx, "products", "2"))
	assert.Equal(t, http.MethodDelete, lastMethod)
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/orders":
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "connection refused"})
		case "/api/orders/9":
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Order not found"})
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/api", time.Second)
	ctx := context.Background()

	_, err := c.List(ctx, "orders")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Status)
	assert.Equal(t, "connection refused", err.Error())

	_, err = c.Update(ctx, "orders", "9", model.Record{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Order not found", apiErr.Message)

	err = c.Delete(ctx, "stocks", "1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed with status 502", err.Error())
}

func TestClientUnreachable(t *testing.T) {
	c := New("http://127.0.0.1:1/api", 200*time.Millisecond)
	_, err := c.List(context.Background(), "products")
	require.Error(t, err)

	_, isAPI := err.(*APIError)
	assert.False(t, isAPI)
}

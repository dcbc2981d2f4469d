package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"warehouse-inventory-api/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// PostgRESTTable talks to a hosted PostgREST endpoint (the Supabase REST
// API) using fiber's HTTP client.
type PostgRESTTable struct {
	baseURL string
	key     string
	timeout time.Duration
}

func NewPostgRESTTable(baseURL, key string, timeout time.Duration) *PostgRESTTable {
	return &PostgRESTTable{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		timeout: timeout,
	}
}

type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (p *PostgRESTTable) endpoint(table string, filter Filter, limit int) string {
	q := url.Values{}
	q.Set("select", "*")
	for _, k := range sortedKeys(filter) {
		q.Set(k, "eq."+fmt.Sprint(filter[k]))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	return p.baseURL + "/rest/v1/" + url.PathEscape(table) + "?" + q.Encode()
}

func (p *PostgRESTTable) do(ctx context.Context, op, method, uri string, table string, body any) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr(op, table, err)
	}

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	a.Set("apikey", p.key)
	a.Set(fiber.HeaderAuthorization, "Bearer "+p.key)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	a.Set("Prefer", "return=representation")
	if body != nil {
		a.JSON(body)
	}
	if timeout > 0 {
		a.Timeout(timeout)
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return nil, storeErr(op, table, err)
	}

	code, resp, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, storeErr(op, table, errors.Join(errs...))
	}
	if code >= fiber.StatusBadRequest {
		return nil, &StoreError{Op: op, Table: table, Message: errorMessage(code, resp)}
	}
	if len(strings.TrimSpace(string(resp))) == 0 {
		return make([]model.Record, 0), nil
	}

	rows := make([]model.Record, 0)
	if err := json.Unmarshal(resp, &rows); err != nil {
		return nil, storeErr(op, table, fmt.Errorf("decode response: %w", err))
	}
	return rows, nil
}

func errorMessage(code int, body []byte) string {
	var pe postgrestError
	if err := json.Unmarshal(body, &pe); err == nil && pe.Message != "" {
		return pe.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("store responded %d %s", code, utils.StatusMessage(code))
}

func (p *PostgRESTTable) Select(ctx context.Context, table string, filter Filter) ([]model.Record, error) {
	return p.do(ctx, "select", fiber.MethodGet, p.endpoint(table, filter, 0), table, nil)
}

func (p *PostgRESTTable) SelectOne(ctx context.Context, table string, filter Filter) (model.Record, error) {
	rows, err := p.do(ctx, "select", fiber.MethodGet, p.endpoint(table, filter, 1), table, nil)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (p *PostgRESTTable) Insert(ctx context.Context, table string, row model.Record) (model.Record, error) {
	payload := model.Record{}
	for _, c := range writableColumns(row) {
		payload[c] = row[c]
	}
	rows, err := p.do(ctx, "insert", fiber.MethodPost, p.endpoint(table, nil, 0), table, []model.Record{payload})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &StoreError{Op: "insert", Table: table, Message: "insert returned no row"}
	}
	return rows[0], nil
}

// Update reads the matched rows first to learn the column set, then PATCHes
// with every unlisted column cleared.
func (p *PostgRESTTable) Update(ctx context.Context, table string, filter Filter, row model.Record) ([]model.Record, error) {
	current, err := p.Select(ctx, table, filter)
	if err != nil || len(current) == 0 {
		return current, err
	}

	patch := model.Record{}
	for k := range current[0] {
		if !isPreserved(k, filter) {
			patch[k] = nil
		}
	}
	for _, c := range writableColumns(row) {
		if !isPreserved(c, filter) {
			patch[c] = row[c]
		}
	}
	if len(patch) == 0 {
		return current, nil
	}
	return p.do(ctx, "update", fiber.MethodPatch, p.endpoint(table, filter, 0), table, patch)
}

func (p *PostgRESTTable) Delete(ctx context.Context, table string, filter Filter) ([]model.Record, error) {
	return p.do(ctx, "delete", fiber.MethodDelete, p.endpoint(table, filter, 0), table, nil)
}

func (p *PostgRESTTable) Close() error {
	return nil
}

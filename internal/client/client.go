package client

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
)

// APIError is a non-2xx answer from the inventory API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client calls the inventory REST API.
type Client struct {
	baseURL string
	timeout time.Duration
}

// New returns a client for the API rooted at baseURL, e.g. http://host:3000/api.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

func (c *Client) List(ctx context.Context, resource string) ([]model.Record, error) {
	var rows []model.Record
	if err := c.do(ctx, fiber.MethodGet, c.url(resource), nil, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.Record{}
	}
	return rows, nil
}

func (c *Client) Create(ctx context.Context, resource string, body model.Record) (model.Record, error) {
	var row model.Record
	err := c.do(ctx, fiber.MethodPost, c.url(resource), body, &row)
	return row, err
}

func (c *Client) Update(ctx context.Context, resource, id string, body model.Record) (model.Record, error) {
	var row model.Record
	err := c.do(ctx, fiber.MethodPut, c.url(resource, id), body, &row)
	return row, err
}

func (c *Client) Delete(ctx context.Context, resource, id string) error {
	return c.do(ctx, fiber.MethodDelete, c.url(resource, id), nil, nil)
}

func (c *Client) url(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

func (c *Client) do(ctx context.Context, method, uri string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if body != nil {
		a.JSON(body)
	}
	if c.timeout > 0 {
		a.Timeout(c.timeout)
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return err
	}

	code, resp, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, uri, errors.Join(errs...))
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return &APIError{Status: code, Message: errorMessage(code, resp)}
	}
	if out == nil || len(resp) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, uri, err)
	}
	return nil
}

// errorMessage picks the API's {error} or {message} field.
func errorMessage(code int, body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fmt.Sprintf("request failed with status %d", code)
}

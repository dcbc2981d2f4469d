package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"warehouse-inventory-api/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAPI keeps rows per resource and can be told to fail.
type fakeAPI struct {
	mu      sync.Mutex
	seq     int64
	rows    map[string][]model.Record
	failOn  map[string]error
	lastPut model.Record
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{rows: map[string][]model.Record{}, failOn: map[string]error{}}
}

func (f *fakeAPI) List(_ context.Context, resource string) ([]model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn["list"]; err != nil {
		return nil, err
	}
	out := make([]model.Record, len(f.rows[resource]))
	copy(out, f.rows[resource])
	return out, nil
}

func (f *fakeAPI) Create(_ context.Context, resource string, body model.Record) (model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn["create"]; err != nil {
		return nil, err
	}
	f.seq++
	row := body.Clone()
	row["id"] = float64(f.seq)
	f.rows[resource] = append(f.rows[resource], row)
	return row, nil
}

func (f *fakeAPI) Update(_ context.Context, resource, id string, body model.Record) (model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn["update"]; err != nil {
		return nil, err
	}
	f.lastPut = body
	for i, r := range f.rows[resource] {
		if fmt.Sprint(r["id"]) == id {
			row := body.Clone()
			row["id"] = r["id"]
			f.rows[resource][i] = row
			return row, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeAPI) Delete(_ context.Context, resource, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn["delete"]; err != nil {
		return err
	}
	kept := f.rows[resource][:0]
	for _, r := range f.rows[resource] {
		if fmt.Sprint(r["id"]) != id {
			kept = append(kept, r)
		}
	}
	f.rows[resource] = kept
	return nil
}

func (f *fakeAPI) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn[op] = err
}

func stocks(t *testing.T) model.Resource {
	t.Helper()
	r, ok := model.FindResource(model.DefaultResources(), model.ResourceStocks)
	require.True(t, ok)
	return r
}

func TestPageLifecycle(t *testing.T) {
	api := newFakeAPI()
	p := NewPage(stocks(t), api)
	ctx := context.Background()
	assert.Equal(t, StateIdle, p.View().State)

	require.NoError(t, p.Refresh(ctx))
	assert.Equal(t, StateLoaded, p.View().State)

	require.NoError(t, p.Submit(ctx, map[string]string{"product_id": "1", "warehouse_id": "2", "quantity": "5", "min_quantity": "10", "notes": ""}))
	v := p.View()
	assert.Equal(t, StateLoaded, v.State)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, int64(5), v.Rows[0]["quantity"])
	assert.NotContains(t, v.Rows[0], "notes")
	assert.Equal(t, 1, v.LowStock)

	require.NoError(t, p.Edit("1"))
	v = p.View()
	assert.Equal(t, StateEditing, v.State)
	assert.Equal(t, "1", v.EditingID)
	assert.Equal(t, "5", v.Form["quantity"])

	require.NoError(t, p.Submit(ctx, map[string]string{"product_id": "1", "quantity": "50", "min_quantity": "10"}))
	v = p.View()
	assert.Equal(t, StateLoaded, v.State)
	assert.Empty(t, v.EditingID)
	assert.Empty(t, v.Form)
	assert.Equal(t, model.Record{"product_id": int64(1), "quantity": int64(50), "min_quantity": int64(10)}, api.lastPut)
	assert.Equal(t, 0, v.LowStock)

	require.NoError(t, p.Delete(ctx, "1"))
	assert.Empty(t, p.View().Rows)
}

func TestPageErrorKeepsRows(t *testing.T) {
	api := newFakeAPI()
	p := NewPage(stocks(t), api)
	ctx := context.Background()
	_, _ = api.Create(ctx, "stocks", model.Record{"quantity": 1})
	require.NoError(t, p.Refresh(ctx))

	api.fail("list", errors.New("connection refused"))
	require.Error(t, p.Refresh(ctx))

	v := p.View()
	assert.Equal(t, StateError, v.State)
	assert.Equal(t, "connection refused", v.Error)
	assert.Len(t, v.Rows, 1)

	api.fail("list", nil)
	require.NoError(t, p.Refresh(ctx))
	assert.Empty(t, p.View().Error)
}

func TestPageSubmitFailureKeepsBuffer(t *testing.T) {
	api := newFakeAPI()
	p := NewPage(stocks(t), api)
	ctx := context.Background()
	require.NoError(t, p.Refresh(ctx))

	api.fail("create", errors.New("Validation failed: Field 'quantity' failed on tag 'int'"))
	form := map[string]string{"quantity": "lots"}
	require.Error(t, p.Submit(ctx, form))

	v := p.View()
	assert.Equal(t, StateError, v.State)
	assert.Equal(t, "lots", v.Form["quantity"])

	p.Cancel()
	v = p.View()
	assert.Equal(t, StateError, v.State)
	assert.Empty(t, v.Form)
}

func TestPageRejectsEventsWhileIdle(t *testing.T) {
	p := NewPage(stocks(t), newFakeAPI())
	ctx := context.Background()

	assert.ErrorIs(t, p.Edit("1"), ErrTransition)
	assert.ErrorIs(t, p.Submit(ctx, nil), ErrTransition)
	assert.ErrorIs(t, p.Delete(ctx, "1"), ErrTransition)
}

// stallingAPI holds the first List answer until released.
type stallingAPI struct {
	*fakeAPI
	calls   int
	started chan struct{}
	release chan struct{}
}

func (s *stallingAPI) List(ctx context.Context, resource string) ([]model.Record, error) {
	rows, err := s.fakeAPI.List(ctx, resource)
	s.fakeAPI.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.fakeAPI.mu.Unlock()
	if first {
		close(s.started)
		<-s.release
	}
	return rows, err
}

func TestPageLastLoadWins(t *testing.T) {
	api := &stallingAPI{fakeAPI: newFakeAPI(), started: make(chan struct{}), release: make(chan struct{})}
	p := NewPage(stocks(t), api)
	ctx := context.Background()
	_, _ = api.Create(ctx, "stocks", model.Record{"quantity": 1})

	done := make(chan struct{})
	go func() {
		_ = p.Refresh(ctx)
		close(done)
	}()
	<-api.started

	_, _ = api.Create(ctx, "stocks", model.Record{"quantity": 2})
	require.NoError(t, p.Refresh(ctx))
	assert.Len(t, p.View().Rows, 2)

	close(api.release)
	<-done

	// The older load finished last, so its rows replace the newer ones.
	assert.Len(t, p.View().Rows, 1)
}

func TestFormRecord(t *testing.T) {
	orders, _ := model.FindResource(model.DefaultResources(), model.ResourceOrders)
	got := FormRecord(orders, map[string]string{
		"total_amount": "19.99",
		"status":       "pending",
		"customer_id":  " ",
		"unknown":      "x",
	})
	assert.Equal(t, model.Record{"total_amount": 19.99, "status": "pending"}, got)

	got = FormRecord(stocks(t), map[string]string{"quantity": "many"})
	assert.Equal(t, model.Record{"quantity": "many"}, got)
}

func TestFormValues(t *testing.T) {
	got := FormValues(stocks(t), model.Record{"quantity": float64(5), "unit_cost": 2.5, "notes": nil})
	assert.Equal(t, "5", got["quantity"])
	assert.Equal(t, "2.5", got["unit_cost"])
	assert.Equal(t, "", got["notes"])
}

func newShellApp(t *testing.T, api API) *fiber.App {
	t.Helper()
	shell, err := NewShell("/dashboard", model.DefaultResources(), api, zap.NewNop())
	require.NoError(t, err)
	app := fiber.New()
	app.Mount("/dashboard", shell.App())
	return app
}

func request(t *testing.T, app *fiber.App, method, target string, form url.Values) (int, string, string) {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header.Get("Location"), string(b)
}

func TestShellOverviewCountsLowStock(t *testing.T) {
	api := newFakeAPI()
	ctx := context.Background()
	_, _ = api.Create(ctx, "stocks", model.Record{"quantity": float64(5), "min_quantity": float64(10)})
	_, _ = api.Create(ctx, "stocks", model.Record{"quantity": float64(50), "min_quantity": float64(10)})
	_, _ = api.Create(ctx, "products", model.Record{"name": "Widget"})

	app := newShellApp(t, api)
	code, _, body := request(t, app, "GET", "/dashboard/", nil)
	require.Equal(t, 200, code)
	assert.Contains(t, body, `<span class="count">1</span> items at or below minimum`)
	for _, title := range []string{"Dashboard", "Products", "Warehouse", "Stocks", "Orders", "Suppliers", "Audit Log"} {
		assert.Contains(t, body, ">"+title+"</a>")
	}
}

func TestShellCreateRedirects(t *testing.T) {
	api := newFakeAPI()
	app := newShellApp(t, api)

	code, _, _ := request(t, app, "GET", "/dashboard/products", nil)
	require.Equal(t, 200, code)

	code, loc, _ := request(t, app, "POST", "/dashboard/products", url.Values{"name": {"Widget"}, "price": {"4.50"}})
	assert.Equal(t, fiber.StatusSeeOther, code)
	assert.Equal(t, "/dashboard/products", loc)

	rows, _ := api.List(context.Background(), "products")
	require.Len(t, rows, 1)
	assert.Equal(t, 4.5, rows[0]["price"])

	code, _, body := request(t, app, "GET", "/dashboard/products?edit=1", nil)
	require.Equal(t, 200, code)
	assert.Contains(t, body, `name="id" value="1"`)
	assert.Contains(t, body, "Edit Product #1")
}

func TestShellUpdateAndDelete(t *testing.T) {
	api := newFakeAPI()
	_, _ = api.Create(context.Background(), "orders", model.Record{"status": "pending"})
	app := newShellApp(t, api)

	code, _, _ := request(t, app, "POST", "/dashboard/orders", url.Values{"id": {"1"}, "status": {"shipped"}, "total_amount": {"19.99"}})
	require.Equal(t, fiber.StatusSeeOther, code)
	assert.Equal(t, model.Record{"status": "shipped", "total_amount": 19.99}, api.lastPut)

	code, loc, _ := request(t, app, "POST", "/dashboard/orders/1/delete", url.Values{})
	assert.Equal(t, fiber.StatusSeeOther, code)
	assert.Equal(t, "/dashboard/orders", loc)
	rows, _ := api.List(context.Background(), "orders")
	assert.Empty(t, rows)
}

func TestShellShowsErrorBanner(t *testing.T) {
	api := newFakeAPI()
	app := newShellApp(t, api)
	code, _, _ := request(t, app, "GET", "/dashboard/suppliers", nil)
	require.Equal(t, 200, code)

	api.fail("create", errors.New("Validation failed: Field 'status' failed on tag 'oneof'"))
	code, _, body := request(t, app, "POST", "/dashboard/suppliers", url.Values{"name": {"Acme"}, "status": {"dormant"}})
	assert.Equal(t, 200, code)
	assert.Contains(t, body, "failed on tag &#39;oneof&#39;")
	assert.Contains(t, body, `value="Acme"`)
}

func TestShellUnknownResource(t *testing.T) {
	app := newShellApp(t, newFakeAPI())
	code, _, _ := request(t, app, "GET", "/dashboard/users", nil)
	assert.Equal(t, 404, code)
}

func TestShellEditStaysWithItsBrowser(t *testing.T) {
	api := newFakeAPI()
	ctx := context.Background()
	_, _ = api.Create(ctx, "products", model.Record{"name": "Bolt"})
	app := newShellApp(t, api)

	_, _, editing := request(t, app, "GET", "/dashboard/products?edit=1", nil)
	assert.Contains(t, editing, `name="id" value="1"`)

	_, _, other := request(t, app, "GET", "/dashboard/products", nil)
	assert.NotContains(t, other, `name="id"`)
	assert.Contains(t, other, "New Product")

	code, _, _ := request(t, app, "POST", "/dashboard/products", url.Values{"name": {"Nut"}})
	require.Equal(t, fiber.StatusSeeOther, code)

	code, _, _ = request(t, app, "POST", "/dashboard/products", url.Values{"id": {"1"}, "name": {"Bolt M8"}})
	require.Equal(t, fiber.StatusSeeOther, code)

	rows, _ := api.List(ctx, "products")
	require.Len(t, rows, 2)
	assert.Equal(t, "Bolt M8", rows[0]["name"])
	assert.Equal(t, "Nut", rows[1]["name"])
}

func TestShellSubmitWhileAnotherLoadIsPending(t *testing.T) {
	api := &stallingAPI{fakeAPI: newFakeAPI(), started: make(chan struct{}), release: make(chan struct{})}
	app := newShellApp(t, api)

	slow := make(chan int)
	go func() {
		resp, err := app.Test(httptest.NewRequest("GET", "/dashboard/products", nil), -1)
		if err != nil {
			slow <- 0
			return
		}
		slow <- resp.StatusCode
	}()
	<-api.started

	code, loc, _ := request(t, app, "POST", "/dashboard/products", url.Values{"name": {"Widget"}})
	assert.Equal(t, fiber.StatusSeeOther, code)
	assert.Equal(t, "/dashboard/products", loc)

	rows, _ := api.fakeAPI.List(context.Background(), "products")
	require.Len(t, rows, 1)
	assert.Equal(t, "Widget", rows[0]["name"])

	close(api.release)
	assert.Equal(t, 200, <-slow)
}

func seedStocks(t *testing.T, api *fakeAPI) {
	t.Helper()
	ctx := context.Background()
	_, _ = api.Create(ctx, "products", model.Record{"name": "Widget"})
	_, _ = api.Create(ctx, "products", model.Record{"name": "Gadget"})
	_, _ = api.Create(ctx, "warehouse", model.Record{"name": "Main Hall"})
	_, _ = api.Create(ctx, "stocks", model.Record{"product_id": float64(1), "warehouse_id": float64(3), "quantity": float64(40), "min_quantity": float64(10), "notes": "north-bay"})
	_, _ = api.Create(ctx, "stocks", model.Record{"product_id": float64(2), "warehouse_id": float64(3), "quantity": float64(2), "min_quantity": float64(10), "notes": "south-bay"})
}

func TestShellStocksPickersAndNames(t *testing.T) {
	api := newFakeAPI()
	seedStocks(t, api)
	app := newShellApp(t, api)

	code, _, body := request(t, app, "GET", "/dashboard/stocks", nil)
	require.Equal(t, 200, code)
	assert.Contains(t, body, `<option value="">Select Product</option>`)
	assert.Contains(t, body, `<option value="1">Widget</option>`)
	assert.Contains(t, body, `<option value="3">Main Hall</option>`)
	assert.Contains(t, body, "<td>Gadget</td>")
	assert.Contains(t, body, "<td>Main Hall</td>")

	_, _, body = request(t, app, "GET", "/dashboard/stocks?edit=4", nil)
	assert.Contains(t, body, `<option value="1" selected>Widget</option>`)
}

func TestShellStocksFilters(t *testing.T) {
	api := newFakeAPI()
	seedStocks(t, api)
	app := newShellApp(t, api)

	_, _, body := request(t, app, "GET", "/dashboard/stocks?product_id=1", nil)
	assert.Contains(t, body, "north-bay")
	assert.NotContains(t, body, "south-bay")
	assert.Contains(t, body, "Showing 1 of 2")

	_, _, body = request(t, app, "GET", "/dashboard/stocks?low_stock=1", nil)
	assert.Contains(t, body, "south-bay")
	assert.NotContains(t, body, "north-bay")
	assert.Contains(t, body, `name="low_stock" value="1" checked`)

	_, _, body = request(t, app, "GET", "/dashboard/stocks?warehouse_id=3&low_stock=1", nil)
	assert.Contains(t, body, "Showing 1 of 2")
	assert.Contains(t, body, `<span class="count">1</span>`)
}

func TestViewCellFallsBackToLabelAndID(t *testing.T) {
	v := View{
		Resource: stocks(t),
		Options:  map[string][]Option{"product_id": {{Value: "1", Label: "Widget"}}},
	}
	assert.Equal(t, "Widget", v.Cell(model.Record{"product_id": float64(1)}, "product_id"))
	assert.Equal(t, "Product 9", v.Cell(model.Record{"product_id": float64(9)}, "product_id"))
	assert.Equal(t, "Warehouse 2", v.Cell(model.Record{"warehouse_id": int64(2)}, "warehouse_id"))
	assert.Equal(t, "", v.Cell(model.Record{}, "product_id"))
	assert.Equal(t, "7", v.Cell(model.Record{"quantity": float64(7)}, "quantity"))
}

func TestPageOptionsFailureKeepsRows(t *testing.T) {
	api := newFakeAPI()
	seedStocks(t, api)
	p := NewPage(stocks(t), &failingListAPI{fakeAPI: api, resource: "products"})

	err := p.Refresh(context.Background())
	require.Error(t, err)

	v := p.View()
	assert.Equal(t, StateError, v.State)
	assert.Contains(t, v.Error, "products: connection refused")
	assert.Len(t, v.Rows, 2)
	assert.Empty(t, v.Options["product_id"])
	assert.Len(t, v.Options["warehouse_id"], 1)
}

// failingListAPI fails List for one resource only.
type failingListAPI struct {
	*fakeAPI
	resource string
}

func (f *failingListAPI) List(ctx context.Context, resource string) ([]model.Record, error) {
	if resource == f.resource {
		return nil, errors.New("connection refused")
	}
	return f.fakeAPI.List(ctx, resource)
}

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"warehouse-inventory-api/internal/model"
)

// State is the lifecycle state of a resource page.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateEditing State = "editing"
	StateError   State = "error"
)

// API is the part of the REST client the pages use.
type API interface {
	List(ctx context.Context, resource string) ([]model.Record, error)
	Create(ctx context.Context, resource string, body model.Record) (model.Record, error)
	Update(ctx context.Context, resource, id string, body model.Record) (model.Record, error)
	Delete(ctx context.Context, resource, id string) error
}

// ErrTransition is returned for events the current state does not accept.
var ErrTransition = errors.New("invalid page transition")

// Page holds the table rows and the form buffer of one resource view. The
// shell builds one per request, so a browser's edit or filter never leaks
// into another's. Every mutation is followed by a full reload of the
// collection.
//
// Loads are not ordered: when two overlap, the one that finishes last
// decides the rows.
type Page struct {
	res model.Resource
	api API

	mu        sync.Mutex
	state     State
	rows      []model.Record
	options   map[string][]Option
	filter    Filter
	err       string
	editingID string
	buffer    map[string]string
}

func NewPage(res model.Resource, api API) *Page {
	return &Page{res: res, api: api, state: StateIdle, rows: []model.Record{}}
}

// View is a snapshot of a page for rendering. Rows holds the rows passing
// the filter; Total and LowStock count the whole collection.
type View struct {
	Resource  model.Resource
	State     State
	Rows      []model.Record
	Total     int
	Options   map[string][]Option
	Filter    Filter
	Error     string
	EditingID string
	Form      map[string]string
	LowStock  int
}

func (p *Page) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows := make([]model.Record, 0, len(p.rows))
	for _, row := range p.rows {
		if p.filter.Match(row) {
			rows = append(rows, row)
		}
	}
	form := make(map[string]string, len(p.buffer))
	for k, v := range p.buffer {
		form[k] = v
	}

	v := View{
		Resource:  p.res,
		State:     p.state,
		Rows:      rows,
		Total:     len(p.rows),
		Options:   p.options,
		Filter:    p.filter,
		Error:     p.err,
		EditingID: p.editingID,
		Form:      form,
	}
	if p.res.Key == model.ResourceStocks {
		v.LowStock = model.LowStockCount(p.rows)
	}
	return v
}

// SetFilter narrows the rows the view shows.
func (p *Page) SetFilter(f Filter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filter = f
}

// Refresh reloads the collection and the rows of referenced resources that
// fill the pickers. A failure keeps the rows already shown.
func (p *Page) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.state = StateLoading
	p.mu.Unlock()

	rows, err := p.api.List(ctx, p.res.Key)
	if err != nil {
		p.fail(err)
		return err
	}
	options, optErr := p.loadOptions(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows = rows
	p.options = options
	if optErr != nil {
		p.state = StateError
		p.err = optErr.Error()
		return optErr
	}
	p.err = ""
	p.state = StateLoaded
	if p.editingID != "" {
		p.state = StateEditing
	}
	return nil
}

// loadOptions lists every referenced resource once. Pickers whose list
// failed are left out and fall back to plain inputs.
func (p *Page) loadOptions(ctx context.Context) (map[string][]Option, error) {
	options := map[string][]Option{}
	lists := map[string][]model.Record{}
	var errs []error
	for _, f := range p.res.Fields {
		if f.Ref == "" {
			continue
		}
		rows, ok := lists[f.Ref]
		if !ok {
			var err error
			rows, err = p.api.List(ctx, f.Ref)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", f.Ref, err))
				continue
			}
			lists[f.Ref] = rows
		}
		options[f.Name] = optionsFrom(rows, f.RefLabel)
	}
	return options, errors.Join(errs...)
}

// Edit fills the form buffer from the row with the given id.
func (p *Page) Edit(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateLoaded && p.state != StateError && p.state != StateEditing {
		return fmt.Errorf("%w: edit while %s", ErrTransition, p.state)
	}
	for _, row := range p.rows {
		if fmt.Sprint(row[p.res.IDField]) == id {
			p.buffer = FormValues(p.res, row)
			p.editingID = id
			p.state = StateEditing
			return nil
		}
	}
	return fmt.Errorf("%s %s is not loaded", p.res.Name, id)
}

// Submit sends the form: PUT when editing, POST otherwise. On failure the
// form stays buffered and the error is shown.
func (p *Page) Submit(ctx context.Context, form map[string]string) error {
	p.mu.Lock()
	switch p.state {
	case StateLoaded, StateError, StateEditing:
	default:
		state := p.state
		p.mu.Unlock()
		return fmt.Errorf("%w: submit while %s", ErrTransition, state)
	}
	id := p.editingID
	p.buffer = form
	p.state = StateLoading
	p.mu.Unlock()

	body := FormRecord(p.res, form)
	var err error
	if id != "" {
		_, err = p.api.Update(ctx, p.res.Key, id, body)
	} else {
		_, err = p.api.Create(ctx, p.res.Key, body)
	}
	if err != nil {
		p.fail(err)
		return err
	}

	p.mu.Lock()
	p.buffer = nil
	p.editingID = ""
	p.mu.Unlock()
	return p.Refresh(ctx)
}

// Delete removes a record and reloads. Confirmation happens in the browser.
func (p *Page) Delete(ctx context.Context, id string) error {
	p.mu.Lock()
	if p.state != StateLoaded && p.state != StateError {
		state := p.state
		p.mu.Unlock()
		return fmt.Errorf("%w: delete while %s", ErrTransition, state)
	}
	p.state = StateLoading
	p.mu.Unlock()

	if err := p.api.Delete(ctx, p.res.Key, id); err != nil {
		p.fail(err)
		return err
	}
	return p.Refresh(ctx)
}

// Cancel drops the form buffer.
func (p *Page) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buffer = nil
	p.editingID = ""
	if p.state == StateIdle || p.state == StateLoading {
		return
	}
	if p.err != "" {
		p.state = StateError
	} else {
		p.state = StateLoaded
	}
}

func (p *Page) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateError
	p.err = err.Error()
}

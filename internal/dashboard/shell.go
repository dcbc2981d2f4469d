package dashboard

import (
	"errors"
	"strings"

	"warehouse-inventory-api/internal/model"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Navigation order of the resource pages.
var navOrder = []string{
	model.ResourceProducts,
	model.ResourceWarehouse,
	model.ResourceStocks,
	model.ResourceOrders,
	model.ResourceSuppliers,
	model.ResourceAuditLog,
}

// Shell is the navigation frame over the resource pages. It keeps no page
// state between requests: each request loads a fresh Page, and the edit
// target and filters travel in the URL and the form.
type Shell struct {
	base      string
	api       API
	log       *zap.Logger
	templates *Templates
	resources map[string]model.Resource
	order     []model.Resource
	nav       []NavItem
}

// NewShell builds the dashboard for resources. base is the path the app is
// mounted at, e.g. /dashboard.
func NewShell(base string, resources []model.Resource, api API, log *zap.Logger) (*Shell, error) {
	ts, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	base = strings.TrimRight(base, "/")
	s := &Shell{
		base:      base,
		api:       api,
		log:       log,
		templates: ts,
		resources: make(map[string]model.Resource),
		nav:       []NavItem{{Key: "", Title: "Dashboard", Href: base + "/"}},
	}
	for _, key := range navOrder {
		res, ok := model.FindResource(resources, key)
		if !ok {
			continue
		}
		s.order = append(s.order, res)
		s.resources[key] = res
		s.nav = append(s.nav, NavItem{Key: key, Title: res.Title, Href: base + "/" + key})
	}
	return s, nil
}

// App returns the fiber app serving the dashboard routes.
func (s *Shell) App() *fiber.App {
	app := fiber.New()
	app.Get("/", s.Overview)
	app.Get("/:resource", s.ResourcePage)
	app.Post("/:resource", s.Submit)
	app.Post("/:resource/cancel", s.Cancel)
	app.Post("/:resource/:id/delete", s.Delete)
	return app
}

func (s *Shell) pageData(title, active string) PageData {
	return PageData{Title: title, Base: s.base, Nav: s.nav, Active: active}
}

type overviewCard struct {
	Resource model.Resource
	Href     string
	Count    int
	Error    string
}

// Overview shows record counts and the low-stock counter.
func (s *Shell) Overview(c *fiber.Ctx) error {
	ctx := c.UserContext()
	cards := make([]overviewCard, 0, len(s.order))
	lowStock := 0

	for _, res := range s.order {
		card := overviewCard{Resource: res, Href: s.base + "/" + res.Key}
		rows, err := s.api.List(ctx, res.Key)
		if err != nil {
			s.log.Warn("failed to load overview", zap.String("resource", res.Key), zap.Error(err))
			card.Error = err.Error()
		} else {
			card.Count = len(rows)
			if res.Key == model.ResourceStocks {
				lowStock = model.LowStockCount(rows)
			}
		}
		cards = append(cards, card)
	}

	return s.templates.Render(c, "overview.html", &struct {
		PageData
		Cards    []overviewCard
		LowStock int
	}{
		PageData: s.pageData("Dashboard", ""),
		Cards:    cards,
		LowStock: lowStock,
	})
}

// load mounts a fresh page for the requested resource.
func (s *Shell) load(c *fiber.Ctx) (*Page, error) {
	res, ok := s.resources[c.Params("resource")]
	if !ok {
		return nil, fiber.ErrNotFound
	}
	p := NewPage(res, s.api)
	if err := p.Refresh(c.UserContext()); err != nil {
		s.log.Warn("failed to load resource", zap.String("resource", res.Key), zap.Error(err))
	}
	return p, nil
}

// ResourcePage renders the table and form. ?edit=<id> opens the form on
// that row; filter fields and ?low_stock=1 narrow the table.
func (s *Shell) ResourcePage(c *fiber.Ctx) error {
	p, err := s.load(c)
	if err != nil {
		return err
	}

	p.SetFilter(queryFilter(c, p.res))
	if id := c.Query("edit"); id != "" {
		if err := p.Edit(id); err != nil {
			return s.render(c, p, err.Error())
		}
	}
	return s.render(c, p, "")
}

func queryFilter(c *fiber.Ctx, res model.Resource) Filter {
	f := Filter{Values: map[string]string{}}
	for _, field := range res.Fields {
		if field.Filter {
			f.Values[field.Name] = strings.TrimSpace(c.Query(field.Name))
		}
	}
	if res.Key == model.ResourceStocks {
		f.LowStock = c.QueryBool("low_stock")
	}
	return f
}

// Submit creates a record, or replaces one when the form carries an id.
func (s *Shell) Submit(c *fiber.Ctx) error {
	p, err := s.load(c)
	if err != nil {
		return err
	}

	form := make(map[string]string, len(p.res.Fields))
	for _, f := range p.res.Fields {
		form[f.Name] = c.FormValue(f.Name)
	}
	if id := c.FormValue("id"); id != "" {
		if err := p.Edit(id); err != nil {
			return s.render(c, p, err.Error())
		}
	}

	if err := p.Submit(c.UserContext(), form); err != nil {
		s.log.Warn("failed to save record", zap.String("resource", p.res.Key), zap.Error(err))
		return s.render(c, p, transitionNotice(err))
	}
	return c.Redirect(s.base+"/"+p.res.Key, fiber.StatusSeeOther)
}

// Cancel leaves the edit form; the edit target only lives in the URL.
func (s *Shell) Cancel(c *fiber.Ctx) error {
	if _, ok := s.resources[c.Params("resource")]; !ok {
		return fiber.ErrNotFound
	}
	return c.Redirect(s.base+"/"+c.Params("resource"), fiber.StatusSeeOther)
}

func (s *Shell) Delete(c *fiber.Ctx) error {
	p, err := s.load(c)
	if err != nil {
		return err
	}

	if err := p.Delete(c.UserContext(), c.Params("id")); err != nil {
		s.log.Warn("failed to delete record", zap.String("resource", p.res.Key), zap.Error(err))
		return s.render(c, p, transitionNotice(err))
	}
	return c.Redirect(s.base+"/"+p.res.Key, fiber.StatusSeeOther)
}

// transitionNotice returns the banner text for errors the page did not
// record itself.
func transitionNotice(err error) string {
	if errors.Is(err, ErrTransition) {
		return err.Error()
	}
	return ""
}

// render shows the page. notice overrides the page error when set.
func (s *Shell) render(c *fiber.Ctx, p *Page, notice string) error {
	view := p.View()
	data := s.pageData(view.Resource.Title, view.Resource.Key)
	data.Error = view.Error
	if notice != "" {
		data.Error = notice
	}

	var filters []model.Field
	for _, f := range view.Resource.Fields {
		if f.Filter {
			filters = append(filters, f)
		}
	}

	return s.templates.Render(c, "resource.html", &struct {
		PageData
		View    View
		Fields  []model.Field
		Filters []model.Field
	}{
		PageData: data,
		View:     view,
		Fields:   view.Resource.Fields,
		Filters:  filters,
	})
}

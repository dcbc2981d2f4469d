package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"

	"warehouse-inventory-api/internal/model"
	webembed "warehouse-inventory-api/web"

	"github.com/gofiber/fiber/v2"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"cell": func(row model.Record, name string) string {
			return display(row[name])
		},
		"lowStock": model.IsLowStock,
		"statusClass": func(status any) string {
			switch display(status) {
			case "completed", model.SupplierActive:
				return "badge-ok"
			case "pending", "processing":
				return "badge-wait"
			case "shipped":
				return "badge-info"
			case "cancelled", model.SupplierInactive:
				return "badge-off"
			default:
				return "badge"
			}
		},
		"inputType": func(kind model.FieldKind) string {
			switch kind {
			case model.KindInt, model.KindNumber:
				return "number"
			default:
				return "text"
			}
		},
		"step": func(kind model.FieldKind) string {
			if kind == model.KindNumber {
				return "any"
			}
			return "1"
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"overview.html",
		"resource.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(c *fiber.Ctx, name string, data any) error {
	tmpl, ok := ts.templates[name]
	if !ok {
		return fiber.NewError(fiber.StatusInternalServerError, "template not found")
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Base    string
	Nav     []NavItem
	Active  string
	Error   string
	Success string
}

type NavItem struct {
	Key   string
	Title string
	Href  string
}

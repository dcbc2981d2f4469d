package dashboard

import (
	"warehouse-inventory-api/internal/model"
)

// Option is one entry of a picker filled from another resource.
type Option struct {
	Value string
	Label string
}

func optionsFrom(rows []model.Record, labelColumn string) []Option {
	out := make([]Option, 0, len(rows))
	for _, row := range rows {
		id := display(row["id"])
		if id == "" {
			continue
		}
		label := display(row[labelColumn])
		if label == "" {
			label = id
		}
		out = append(out, Option{Value: id, Label: label})
	}
	return out
}

// Filter narrows the rows of a page. Values match fields on their displayed
// value; LowStock keeps rows at or below their minimum.
type Filter struct {
	Values   map[string]string
	LowStock bool
}

func (f Filter) Match(row model.Record) bool {
	for name, want := range f.Values {
		if want != "" && display(row[name]) != want {
			return false
		}
	}
	return !f.LowStock || model.IsLowStock(row)
}

// Cell formats a row value for the table. Referenced ids show the label of
// the referenced row, or "<Label> <id>" when it is not loaded.
func (v View) Cell(row model.Record, name string) string {
	raw := display(row[name])
	field, ok := v.Resource.Field(name)
	if !ok || field.Ref == "" || raw == "" {
		return raw
	}
	for _, o := range v.Options[name] {
		if o.Value == raw {
			return o.Label
		}
	}
	return field.Label + " " + raw
}

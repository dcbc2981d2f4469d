package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"warehouse-inventory-api/internal/model"
)

// FormRecord turns submitted form values into a request body. Empty inputs
// are left out and numeric inputs are parsed. A value that does not parse is
// sent as typed so the API can reject it.
func FormRecord(res model.Resource, form map[string]string) model.Record {
	body := model.Record{}
	for _, f := range res.Fields {
		raw := strings.TrimSpace(form[f.Name])
		if raw == "" {
			continue
		}
		switch f.Kind {
		case model.KindInt:
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				body[f.Name] = n
				continue
			}
		case model.KindNumber:
			if n, err := strconv.ParseFloat(raw, 64); err == nil {
				body[f.Name] = n
				continue
			}
		case model.KindBool:
			if b, err := strconv.ParseBool(raw); err == nil {
				body[f.Name] = b
				continue
			}
		}
		body[f.Name] = raw
	}
	return body
}

// FormValues renders a row as form input values.
func FormValues(res model.Resource, row model.Record) map[string]string {
	values := make(map[string]string, len(res.Fields))
	for _, f := range res.Fields {
		values[f.Name] = display(row[f.Name])
	}
	return values
}

// display formats a JSON value for a table cell or an input.
func display(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"warehouse-inventory-api/internal/model"
	"warehouse-inventory-api/pkg/validator"
)

// Layouts accepted for date fields, including what an HTML datetime-local
// input sends.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeRecord coerces the declared fields of body to their kinds and
// applies each field's rule. Undeclared fields pass through untouched and
// the id field is dropped. The input is not modified.
func NormalizeRecord(res model.Resource, body model.Record) (model.Record, error) {
	out := body.Clone()
	if out == nil {
		out = model.Record{}
	}
	delete(out, res.IDField)

	for _, f := range res.Fields {
		raw, present := out[f.Name]
		if present {
			v, ok := coerce(f.Kind, raw)
			if !ok {
				return nil, &ValidationError{Field: f.Name, Tag: string(f.Kind)}
			}
			out[f.Name] = v
		}

		if f.Rule == "" || (!present && !strings.Contains(f.Rule, "required")) {
			continue
		}
		if errs := validator.ValidateVar(f.Name, out[f.Name], f.Rule); len(errs) > 0 {
			return nil, &ValidationError{Field: errs[0].FailedField, Tag: errs[0].Tag}
		}
	}
	return out, nil
}

func coerce(kind model.FieldKind, v any) (any, bool) {
	if v == nil {
		return nil, true
	}
	if s, ok := v.(string); ok && kind != model.KindString && kind != model.KindText {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, true
		}
		v = s
	}

	switch kind {
	case model.KindInt:
		return toInt(v)
	case model.KindNumber:
		return toNumber(v)
	case model.KindBool:
		switch b := v.(type) {
		case bool:
			return b, true
		case string:
			parsed, err := strconv.ParseBool(b)
			return parsed, err == nil
		}
		return nil, false
	case model.KindDate:
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, s); err == nil {
				return s, true
			}
		}
		return nil, false
	default:
		return v, true
	}
}

func toInt(v any) (any, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return nil, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, true
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil || f != math.Trunc(f) {
			return nil, false
		}
		return int64(f), true
	}
	return nil, false
}

func toNumber(v any) (any, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return nil, false
}

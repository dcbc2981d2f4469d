package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FieldKind is the value type a resource field is coerced to.
type FieldKind string

const (
	KindString FieldKind = "string"
	KindText   FieldKind = "text"
	KindInt    FieldKind = "int"
	KindNumber FieldKind = "number"
	KindBool   FieldKind = "bool"
	KindDate   FieldKind = "date"
)

// Field describes one column of a resource for validation and for the dashboard form.
type Field struct {
	Name    string
	Label   string
	Kind    FieldKind
	Rule    string   // go-playground validator tag, empty for none
	Options []string // rendered as a select when set

	// Ref names the resource whose rows fill a picker for this field, showing
	// the RefLabel column and storing the row id.
	Ref      string
	RefLabel string
	// Filter offers the field as a filter above the dashboard table.
	Filter bool
}

// IDFormat selects the optional id validator of a resource.
type IDFormat string

const (
	IDAny  IDFormat = ""
	IDInt  IDFormat = "int"
	IDUUID IDFormat = "uuid"
)

// Valid reports whether id parses in this format. IDAny accepts everything.
func (f IDFormat) Valid(id string) bool {
	switch f {
	case IDInt:
		_, err := strconv.ParseInt(id, 10, 64)
		return err == nil
	case IDUUID:
		_, err := uuid.Parse(id)
		return err == nil
	default:
		return true
	}
}

// Lookup is an extra collection route filtering on one column,
// e.g. /product/:product_id on stocks.
type Lookup struct {
	Path  string
	Param string
	Field string
}

// Resource is the configuration value from which a router, service and
// dashboard page are built.
type Resource struct {
	Key   string // mount path segment and dashboard key, e.g. "audit_log"
	Name  string // singular display name used in messages, e.g. "Audit log entry"
	Title string // navigation title

	Table string
	// ItemTable, when set, replaces Table for every operation except listing
	// the collection.
	ItemTable string
	IDField   string

	IDFormat    IDFormat
	RequireBody bool

	Fields  []Field
	Lookups []Lookup
}

// ListTable is the table read by collection and lookup routes.
func (r Resource) ListTable() string {
	return r.Table
}

// RecordTable is the table used by single-record operations.
func (r Resource) RecordTable() string {
	if r.ItemTable != "" {
		return r.ItemTable
	}
	return r.Table
}

func (r Resource) NotFoundMessage() string {
	return r.Name + " not found"
}

func (r Resource) DeletedMessage() string {
	return r.Name + " deleted successfully"
}

// Field returns the schema entry for name.
func (r Resource) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks that the configuration can back a router.
func (r Resource) Validate() error {
	var errs []error
	if r.Key == "" || strings.Contains(r.Key, "/") {
		errs = append(errs, fmt.Errorf("invalid key %q", r.Key))
	}
	if r.Table == "" {
		errs = append(errs, errors.New("table is required"))
	}
	if r.IDField == "" {
		errs = append(errs, errors.New("id field is required"))
	}
	if r.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	switch r.IDFormat {
	case IDAny, IDInt, IDUUID:
	default:
		errs = append(errs, fmt.Errorf("unknown id format %q", r.IDFormat))
	}
	for _, f := range r.Fields {
		if f.Ref != "" && f.RefLabel == "" {
			errs = append(errs, fmt.Errorf("field %s: ref label is required", f.Name))
		}
	}
	for _, lk := range r.Lookups {
		if lk.Field == "" || lk.Param == "" || !strings.Contains(lk.Path, ":"+lk.Param) {
			errs = append(errs, fmt.Errorf("invalid lookup %q", lk.Path))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("resource %s: %w", r.Key, errors.Join(errs...))
	}
	return nil
}

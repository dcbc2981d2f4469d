package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// Rejects strings made only of whitespace, which "required" lets through.
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		if s, ok := fl.Field().Interface().(string); ok {
			return strings.TrimSpace(s) != ""
		}
		return true
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	return collect("", validate.Struct(data))
}

// ValidateVar checks a single loosely typed value against a validator tag,
// reporting failures under the given field name.
func ValidateVar(field string, value interface{}, tag string) []*ErrorResponse {
	return collect(field, validate.Var(value, tag))
}

func collect(field string, err error) []*ErrorResponse {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*ErrorResponse{{FailedField: field, Tag: "invalid", Value: err.Error()}}
	}

	var out []*ErrorResponse
	for _, e := range verrs {
		element := ErrorResponse{
			FailedField: e.StructNamespace(),
			Tag:         e.Tag(),
			Value:       e.Param(),
		}
		if field != "" {
			element.FailedField = field
		}
		out = append(out, &element)
	}
	return out
}

package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a single-record operation matches nothing.
var ErrNotFound = errors.New("record not found")

// ValidationError reports the first field that failed coercion or its rule.
type ValidationError struct {
	Field string
	Tag   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", e.Field, e.Tag)
}

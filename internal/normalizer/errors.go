package normalizer

import (
	"errors"
	"fmt"
	"strings"
)

// Field names a logical field of the canonical payload.
type Field string

// Logical fields.
const (
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
	FieldName  Field = "name"
)

// Validation errors.
var (
	ErrMissingValue = errors.New("no value resolved")
	ErrInvalidEmail = errors.New("invalid email format")
	ErrInvalidPhone = errors.New("invalid phone format")
	ErrNoData       = errors.New("submission contains no data")
)

// ValidationError reports which logical field failed and with what value.
type ValidationError struct {
	Err           error
	Field         Field
	Value         string
	AvailableKeys []string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
	if len(e.AvailableKeys) > 0 {
		msg += fmt.Sprintf(" (available keys: %s)", strings.Join(e.AvailableKeys, ", "))
	}

	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

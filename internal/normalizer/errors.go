package normalizer

import (
	"errors"
	"fmt"
)

// Pipeline errors. Typed errors below match these through errors.Is.
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrSchemaViolation      = errors.New("schema violation")
)

// MissingFieldError reports a required field that no candidate key could supply.
type MissingFieldError struct {
	Field Field
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingRequiredField, e.Field)
}

// Is matches ErrMissingRequiredField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// Check names one validator check.
type Check string

// Validator checks, in the order they run.
const (
	CheckTopLevelKeys Check = "top-level keys"
	CheckShowFields   Check = "show fields"
	CheckDate         Check = "date format"
	CheckVenue        Check = "venue"
	CheckProvenance   Check = "provenance"
)

// SchemaViolation reports the first failed validator check.
type SchemaViolation struct {
	Check  Check
	Detail string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("%v (%s): %s", ErrSchemaViolation, e.Check, e.Detail)
}

// Is matches ErrSchemaViolation.
func (e *SchemaViolation) Is(target error) bool {
	return target == ErrSchemaViolation
}

func violation(check Check, format string, args ...any) error {
	return &SchemaViolation{Check: check, Detail: fmt.Sprintf(format, args...)}
}

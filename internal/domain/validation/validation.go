package validation

import (
	"errors"
	"strings"
)

// ErrInvalid is matched by every Errors value via errors.Is.
var ErrInvalid = errors.New("validation failed")

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message,omitempty"`
}

type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return ErrInvalid.Error()
	}

	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+" "+fe.Message)
	}

	return ErrInvalid.Error() + ": " + strings.Join(parts, "; ")
}

func (e Errors) Is(target error) bool {
	return target == ErrInvalid
}

// Add records a failed rule for field.
func (e *Errors) Add(field, rule, message string) {
	*e = append(*e, FieldError{Field: field, Rule: rule, Message: message})
}

// Required records a "required" failure when value is blank.
func (e *Errors) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e.Add(field, "required", "is required")
		return false
	}
	return true
}

// Err returns nil when nothing was recorded.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

package serrors

import (
	"fmt"
)

// Base is a coded error that survives transport boundaries: the code is
// stable for callers, the message is for humans, details carry optional
// context such as the offending field or record.
type Base struct {
	Code    string
	Message string
	Details string
}

func (e *Base) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
}

// Is matches on the code so that sentinel instances can be compared with
// errors.Is even after WithDetails.
func (e *Base) Is(target error) bool {
	t, ok := target.(*Base)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError constructs a coded error.
func NewError(code, message, details string) *Base {
	return &Base{Code: code, Message: message, Details: details}
}

// WithDetails returns a copy of the error with the given details attached.
func (e *Base) WithDetails(details string) *Base {
	return &Base{Code: e.Code, Message: e.Message, Details: details}
}

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors maps field names to their validation failures.
type ValidationErrors map[string]*ValidationError

func (e ValidationErrors) Error() string {
	for field, err := range e {
		return fmt.Sprintf("validation failed on %s: %s", field, err.Message)
	}
	return "validation failed"
}

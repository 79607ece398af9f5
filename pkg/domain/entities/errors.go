package entities

import "fmt"

// ValidationError reports an invalid input or configuration value together
// with the offending field path, e.g. "orders[O7].item_list[I3]". Validation
// fails fast and maps to exit code 2.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// NewValidationError creates a ValidationError with a formatted reason
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

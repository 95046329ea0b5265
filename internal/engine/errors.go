package engine

import "fmt"

// ValidationError reports user input rejected by a question state. It is
// always recovered locally by re-prompting; it never propagates out of the
// router.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidInput(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Package validation holds input checks shared by handlers and services.
package validation

import (
	"fmt"
	"strings"
)

// MinTermLength is the shortest search term worth sending to any backend.
const MinTermLength = 3

// ValidationError marks a rejected input; handlers map it to a 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SearchTerm normalizes a search term and rejects ones too short to be
// meaningful.
func SearchTerm(term string) (string, error) {
	term = strings.TrimSpace(term)
	if len(term) < MinTermLength {
		return "", &ValidationError{
			Field:  "term",
			Reason: fmt.Sprintf("must be at least %d characters", MinTermLength),
		}
	}
	return term, nil
}

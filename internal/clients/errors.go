package clients

import "fmt"

// ExternalServiceError wraps a failed call to an upstream service. Retryable
// is true for network failures and 5xx responses; 4xx responses are terminal.
type ExternalServiceError struct {
	Service    string
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *ExternalServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

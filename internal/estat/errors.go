package estat

import (
	"errors"
	"fmt"
)

// Domain errors for e-Stat access.
var (
	// ErrNoData indicates a successful response that carried no statistical
	// data block. This is a soft outcome, not a fetch failure.
	ErrNoData = errors.New("no statistical data returned")
	// ErrInvalidAreaCode indicates a caller-supplied area code that cannot be
	// normalized. Not retried.
	ErrInvalidAreaCode = errors.New("invalid area code")
)

// TransportError indicates the HTTP exchange with e-Stat could not be
// completed: a network failure (Status 0) or a non-2xx response.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("e-stat request failed: %v", e.Err)
	}
	return fmt.Sprintf("e-stat http error: %d", e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamError indicates e-Stat was reached but rejected the query with a
// non-zero internal result status.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("e-stat error (status %d): %s", e.Status, e.Message)
}

package navdash

import "fmt"

// Error kinds reported by the dashboard.

// ValidationError is raised before any network call when an input is missing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// RejectedError is a non-2xx answer from a remote endpoint. Message is the
// server-supplied message, if any.
type RejectedError struct {
	Op      string
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s rejected with status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s rejected with status %d: %s", e.Op, e.Status, e.Message)
}

// TransportError wraps a failure to reach an endpoint or to decode its answer.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

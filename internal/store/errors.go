package store

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned for operations the active backend cannot
// perform, such as row updates against the spreadsheet backend.
var ErrNotSupported = errors.New("operation not supported by the active backend")

// NotConfiguredError reports that the credentials required to reach a
// backend are absent. Recoverable by the user through the settings screen.
type NotConfiguredError struct {
	Service string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("%s is not configured, set its credentials in settings", e.Service)
}

// RemoteError carries a non-success response from a backend service, or a
// write that the service reports as affecting zero rows. It is surfaced to
// the caller verbatim and never retried.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote service error (status %d): %s", e.Status, e.Message)
}

// UnknownEntityError reports a request for an entity outside the catalog
type UnknownEntityError struct {
	Name string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity %q", e.Name)
}

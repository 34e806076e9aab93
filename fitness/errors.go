package fitness

import (
	"fmt"

	"github.com/pkg/errors"
)

// ValidationError reports malformed or missing identifying input. It is
// surfaced to the caller immediately; retrying without fixing the input is
// pointless.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// BackendUnavailableError wraps a vector index failure. The engine never
// retries internally and never leaks store-specific error types; callers see
// exactly one translated error per failed operation.
type BackendUnavailableError struct {
	Op  string
	Err error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("vector index unavailable during %s: %v", e.Op, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsBackendUnavailable reports whether err is a BackendUnavailableError.
func IsBackendUnavailable(err error) bool {
	var b *BackendUnavailableError
	return errors.As(err, &b)
}

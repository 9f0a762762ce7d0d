package services

import "fmt"

// ValidationError reports malformed or out-of-range catalog input. It is the
// only error the sanitizers produce, so callers can branch on it with
// errors.As without string matching.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// StorageError wraps a persistence failure. The operation it aborted is named
// so callers can log something more useful than a bare driver error. Storage
// failures are never retried.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

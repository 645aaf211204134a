package catalog

import (
	"fmt"
	"strings"
)

// ValidationError reports bad or missing client input. It is returned to the
// client verbatim with a 400 status.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError reports a missing product. Returned verbatim with a 404.
type NotFoundError struct {
	ID uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ID)
}

// StorageError wraps an object-store failure. Logged in full server-side,
// surfaced to the client as a generic 500.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PersistenceError wraps a database failure. Logged in full server-side,
// surfaced to the client as a generic 500.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PartialUploadError reports that a multi-file upload batch failed part way
// through. By the time it surfaces, every object in Succeeded has already
// been rolled back from the store.
type PartialUploadError struct {
	Succeeded  []string
	FailedName string
	Err        error
}

func (e *PartialUploadError) Error() string {
	return fmt.Sprintf("upload of %q failed after %d succeeded (succeeded keys rolled back: %s): %v",
		e.FailedName, len(e.Succeeded), strings.Join(e.Succeeded, ", "), e.Err)
}

func (e *PartialUploadError) Unwrap() error { return e.Err }

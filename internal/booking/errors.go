// Package booking holds the core of the booking flow: the validator that
// turns raw request input into a NormalizedBooking, the Store contract used
// to persist it, and the error taxonomy shared by the repository, export and
// handler layers.
package booking

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError carries every field-level problem found in one request.
// Messages are user facing and returned wholesale (HTTP 400).
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NotFound errors: the request references a design or tailor that does not
// exist (HTTP 404 or redirect with flash).
var (
	ErrDesignNotFound = errors.New("design not found")
	ErrTailorNotFound = errors.New("tailor not found")
)

// PersistenceError wraps a failure of the underlying store.  The transaction
// it happened in has been rolled back.  Err is never shown to callers.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

// IntegrityError reports a booking whose tailor could not be resolved while
// rendering an export.  It aborts the export.
type IntegrityError struct {
	BookingID uint64
	TailorID  uint64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("booking %d references unknown tailor %d", e.BookingID, e.TailorID)
}

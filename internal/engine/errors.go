package engine

import (
	"errors"
	"fmt"
)

// Failure taxonomy surfaced to callers. Each is a distinct named error
// so the API layer can map it to a specific response.
var (
	// ErrNotFound: the referenced entity is absent.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied: the actor has no relationship to the record.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrLocked: a candidate attempted to edit or delete an application
	// that is no longer editable.
	ErrLocked = errors.New("cannot modify a sent application")
	// ErrInvalidTransition: a disallowed status change was requested.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrHasApplications: job deletion blocked by referencing applications.
	ErrHasApplications = errors.New("job has applications")
	// ErrDuplicateApplication: the candidate already applied to this job.
	ErrDuplicateApplication = errors.New("already applied to this job")
	// ErrStore: underlying adapter failure (transport, serialization).
	ErrStore = errors.New("store error")
)

// storeErr tags an adapter failure so callers can errors.Is it while
// keeping the underlying detail in the message.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}

package types

import "errors"

// Store lifecycle errors.
var (
	ErrDetached        = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Operation errors. Mutations addressing an absent id return ErrNotFound;
// failures of the underlying engine wrap ErrStorage so callers can match
// with errors.Is regardless of the backend.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidFormat = errors.New("invalid document format")
	ErrStorage       = errors.New("storage failure")
)

// Library folder errors. Cancelled is a user outcome, not a failure; the
// CLI and HTTP layers treat it as a silent no-op.
var (
	ErrNotLinked        = errors.New("no library folder linked")
	ErrUnsupported      = errors.New("folder linking is not supported on this host")
	ErrCancelled        = errors.New("folder selection cancelled")
	ErrPermissionDenied = errors.New("library folder permission denied")
)

// Validation errors.
var (
	ErrTitleEmpty    = errors.New("title must not be empty")
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
	ErrInvalidStatus = errors.New("unknown status")
	ErrInvalidOwner  = errors.New("note must reference an item")
)

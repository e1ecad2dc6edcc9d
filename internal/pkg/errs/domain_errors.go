package errs

import "errors"

// Error kinds surfaced by the circulation engine. Callers match them with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("actor not allowed to perform this transition")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrOutOfStock        = errors.New("no copies available")
	ErrInconsistentStock = errors.New("inconsistent stock")

	ErrRequestNotFound = errors.New("borrowing request not found")
	ErrTitleNotFound   = errors.New("title not found")

	ErrStorageTimeout = errors.New("storage timeout")
	ErrStorageFailure = errors.New("storage failure")
)

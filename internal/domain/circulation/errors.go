package circulation

import (
	"fmt"
	"strings"

	"library-circulation/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidDate      = errs.Mark(errs.New("invalid date"), errs.ErrInvalidInput)
	ErrMissingTitle     = errs.Mark(errs.New("title id is required"), errs.ErrInvalidInput)
	ErrMissingDueDate   = errs.Mark(errs.New("borrowed request has no due date"), errs.ErrInvalidInput)
	ErrNegativeCopies   = errs.Mark(errs.New("total copies cannot be negative"), errs.ErrInconsistentStock)
	ErrNotOwner         = errs.Mark(errs.New("requester does not own this request"), errs.ErrUnauthorized)
	ErrRoleNotPermitted = errs.Mark(errs.New("role not permitted for this action"), errs.ErrUnauthorized)
)

// TransitionError reports a status precondition that did not hold.
type TransitionError struct {
	Action   Action
	Expected []Status
	Actual   Status
}

func (e *TransitionError) Error() string {
	expected := make([]string, len(e.Expected))
	for i, s := range e.Expected {
		expected[i] = s.String()
	}
	return fmt.Sprintf("invalid transition: %s expects status %s, got %s",
		e.Action, strings.Join(expected, "|"), e.Actual)
}

func (e *TransitionError) Unwrap() error {
	return errs.ErrInvalidTransition
}

// StockError carries the raw figures behind a negative availability.
type StockError struct {
	Total    int
	InFlight int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("inconsistent stock: %d in flight exceeds %d total copies", e.InFlight, e.Total)
}

func (e *StockError) Unwrap() error {
	return errs.ErrInconsistentStock
}

func outOfStock(titleID uuid.UUID) error {
	return errs.Markf(errs.ErrOutOfStock, "title %s has no copies available", titleID)
}

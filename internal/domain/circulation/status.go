package circulation

import "library-circulation/internal/pkg/errs"

type Status string

const (
	StatusPending         Status = "pending"
	StatusApproved        Status = "approved"
	StatusBorrowed        Status = "borrowed"
	StatusReturnRequested Status = "return_requested"
	StatusReturned        Status = "returned"
	StatusCancelled       Status = "cancelled"
)

// InFlightStatuses hold a stock unit of their title.
var InFlightStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusBorrowed,
	StatusReturnRequested,
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusBorrowed, StatusReturnRequested, StatusReturned, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsInFlight() bool {
	switch s {
	case StatusPending, StatusApproved, StatusBorrowed, StatusReturnRequested:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusReturned || s == StatusCancelled
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", errs.Markf(errs.ErrInvalidInput, "unknown status %q", s)
	}
	return status, nil
}

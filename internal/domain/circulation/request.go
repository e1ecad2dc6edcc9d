package circulation

import (
	"time"

	"library-circulation/internal/domain/user"
	"library-circulation/internal/pkg/errs"

	"github.com/google/uuid"
)

// DefaultLoanPeriodDays is the loan length when none is configured.
const DefaultLoanPeriodDays = 7

type Policy struct {
	LoanPeriodDays int
	Fines          *FineCalculator
}

func (p Policy) loanDays() int {
	if p.LoanPeriodDays <= 0 {
		return DefaultLoanPeriodDays
	}
	return p.LoanPeriodDays
}

// BorrowingRequest is one request to borrow one copy of a title.
type BorrowingRequest struct {
	id          uuid.UUID
	requesterID uuid.UUID
	titleID     uuid.UUID
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
	dueDate     *time.Time
	returnDate  *time.Time
	actedBy     *uuid.UUID
	lateDays    *int
	fineAmount  *Money
}

// NewBorrowingRequest creates a pending request. available must be read in the same
// unit of work that persists the request.
func NewBorrowingRequest(actor user.Actor, titleID uuid.UUID, available int, now time.Time) (*BorrowingRequest, error) {
	if err := CanCreate(actor); err != nil {
		return nil, err
	}
	if titleID == uuid.Nil {
		return nil, ErrMissingTitle
	}
	if available < 1 {
		return nil, outOfStock(titleID)
	}

	return &BorrowingRequest{
		id:          uuid.New(),
		requesterID: actor.ID,
		titleID:     titleID,
		status:      StatusPending,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructBorrowingRequest(
	id, requesterID, titleID uuid.UUID,
	status Status,
	createdAt, updatedAt time.Time,
	dueDate, returnDate *time.Time,
	actedBy *uuid.UUID,
	lateDays *int,
	fineAmount *Money,
) *BorrowingRequest {
	return &BorrowingRequest{
		id:          id,
		requesterID: requesterID,
		titleID:     titleID,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		dueDate:     dueDate,
		returnDate:  returnDate,
		actedBy:     actedBy,
		lateDays:    lateDays,
		fineAmount:  fineAmount,
	}
}

// Change describes an applied (or skipped) transition, for persistence and audit.
type Change struct {
	Decision
	Actor user.Actor
	At    time.Time
}

func (r *BorrowingRequest) Approve(actor user.Actor, now time.Time) (Change, error) {
	return r.transition(ActionApprove, actor, now, nil)
}

// MarkPickedUp moves an approved request to borrowed; the due date is the pickup date plus the loan period.
func (r *BorrowingRequest) MarkPickedUp(actor user.Actor, pickup time.Time, policy Policy, now time.Time) (Change, error) {
	loc := time.UTC
	if policy.Fines != nil {
		loc = policy.Fines.Location()
	}
	due := StartOfDay(pickup, loc).AddDate(0, 0, policy.loanDays())

	return r.transition(ActionMarkPickedUp, actor, now, func() error {
		r.dueDate = &due
		return nil
	})
}

func (r *BorrowingRequest) RequestReturn(actor user.Actor, now time.Time) (Change, error) {
	return r.transition(ActionRequestReturn, actor, now, nil)
}

// ConfirmReturn closes the loan today and records the fine. The fine is computed once;
// re-confirming a returned request leaves it untouched.
func (r *BorrowingRequest) ConfirmReturn(actor user.Actor, policy Policy, now time.Time) (Change, error) {
	return r.transition(ActionConfirmReturn, actor, now, func() error {
		if r.dueDate == nil {
			return ErrMissingDueDate
		}
		if policy.Fines == nil {
			return errs.New("fine calculator not configured")
		}
		returned := StartOfDay(now, policy.Fines.Location())
		result, err := policy.Fines.ComputeFine(*r.dueDate, &returned)
		if err != nil {
			return err
		}
		lateDays := result.LateDays
		amount := result.Amount
		r.returnDate = &returned
		r.lateDays = &lateDays
		r.fineAmount = &amount
		return nil
	})
}

func (r *BorrowingRequest) Cancel(actor user.Actor, now time.Time) (Change, error) {
	return r.transition(ActionCancel, actor, now, nil)
}

func (r *BorrowingRequest) Reject(actor user.Actor, now time.Time) (Change, error) {
	return r.transition(ActionReject, actor, now, nil)
}

// Expire cancels a pending request on behalf of the system once it is older than threshold.
// A request that has already left pending reports a TransitionError, so a sweep that lost
// the race to another writer can discard it.
func (r *BorrowingRequest) Expire(now time.Time, threshold time.Duration) (Change, error) {
	if r.status.IsInFlight() && r.status != StatusPending {
		return Change{}, &TransitionError{Action: ActionCancel, Expected: []Status{StatusPending}, Actual: r.status}
	}
	if r.status == StatusPending && !r.IsExpired(now, threshold) {
		return Change{}, errs.Markf(errs.ErrInvalidTransition, "request %s is not older than %s", r.id, threshold)
	}
	return r.transition(ActionCancel, user.SystemActor(), now, nil)
}

// transition validates first and mutates only when every check and the effect succeed.
func (r *BorrowingRequest) transition(action Action, actor user.Actor, now time.Time, effect func() error) (Change, error) {
	decision, err := Decide(action, r.status, actor, r.requesterID)
	if err != nil {
		return Change{}, err
	}
	change := Change{Decision: decision, Actor: actor, At: now}
	if decision.NoOp {
		return change, nil
	}

	backup := *r
	if effect != nil {
		if err := effect(); err != nil {
			*r = backup
			return Change{}, err
		}
	}

	r.status = decision.To
	r.updatedAt = now
	if actor.Role.IsStaff() {
		id := actor.ID
		r.actedBy = &id
	}
	return change, nil
}

func (r *BorrowingRequest) ID() uuid.UUID          { return r.id }
func (r *BorrowingRequest) RequesterID() uuid.UUID { return r.requesterID }
func (r *BorrowingRequest) TitleID() uuid.UUID     { return r.titleID }
func (r *BorrowingRequest) Status() Status         { return r.status }
func (r *BorrowingRequest) CreatedAt() time.Time   { return r.createdAt }
func (r *BorrowingRequest) UpdatedAt() time.Time   { return r.updatedAt }
func (r *BorrowingRequest) DueDate() *time.Time    { return r.dueDate }
func (r *BorrowingRequest) ReturnDate() *time.Time { return r.returnDate }
func (r *BorrowingRequest) ActedBy() *uuid.UUID    { return r.actedBy }
func (r *BorrowingRequest) LateDays() *int         { return r.lateDays }
func (r *BorrowingRequest) FineAmount() *Money     { return r.fineAmount }

func (r *BorrowingRequest) IsInFlight() bool {
	return r.status.IsInFlight()
}

// IsExpired reports whether a pending request is older than threshold at now.
func (r *BorrowingRequest) IsExpired(now time.Time, threshold time.Duration) bool {
	return r.status == StatusPending && r.createdAt.Before(now.Add(-threshold))
}

// Clone returns a deep copy, used by stores that hand out detached entities.
func (r *BorrowingRequest) Clone() *BorrowingRequest {
	c := *r
	if r.dueDate != nil {
		d := *r.dueDate
		c.dueDate = &d
	}
	if r.returnDate != nil {
		d := *r.returnDate
		c.returnDate = &d
	}
	if r.actedBy != nil {
		id := *r.actedBy
		c.actedBy = &id
	}
	if r.lateDays != nil {
		n := *r.lateDays
		c.lateDays = &n
	}
	if r.fineAmount != nil {
		m := MoneyFromBig(r.fineAmount.Big())
		c.fineAmount = &m
	}
	return &c
}

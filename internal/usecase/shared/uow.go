package shared

import (
	"context"
	"time"

	"library-circulation/internal/domain/circulation"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn in one write transaction. Serialization failures are retried;
	// every other error rolls back and is returned unchanged.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	BorrowRequests() BorrowRequestRepository
	Titles() TitleRepository
	Events() EventRepository
}

type BorrowRequestRepository interface {
	Create(ctx context.Context, req *circulation.BorrowingRequest) error
	// GetForUpdate loads the request and holds its row lock until the unit of work ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*circulation.BorrowingRequest, error)
	// Update writes req only if the stored status still equals expected.
	// A miss is reported as errs.ErrInvalidTransition.
	Update(ctx context.Context, req *circulation.BorrowingRequest, expected circulation.Status) error
	CountInFlight(ctx context.Context, titleID uuid.UUID) (int, error)
	// ListPendingCreatedBefore pages through pending requests created before cutoff,
	// ordered by created_at then id, starting strictly after the given row.
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, after *PendingRef, limit int) ([]PendingRef, error)
}

type TitleRepository interface {
	// LockTotalCopies returns the catalog total and serializes creations for the title.
	LockTotalCopies(ctx context.Context, titleID uuid.UUID) (int, error)
}

type EventRepository interface {
	Append(ctx context.Context, ev CirculationEvent) error
}

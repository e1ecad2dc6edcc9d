package queries

//go:generate mockgen -source=circulation.go -destination=../../../tests/mock/queries/circulation.go -package=mock_queries

import (
	"context"
	"log/slog"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/domain/user"
	"library-circulation/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrRequestAccess = errs.Mark(errs.New("request belongs to another requester"), errs.ErrUnauthorized)

type CirculationReadStore interface {
	FindRequestByID(ctx context.Context, id uuid.UUID) (*BorrowRequestView, error)
	// List* return up to limit rows ordered by created_at DESC, id DESC, strictly after the keyset when set.
	ListByRequester(ctx context.Context, requesterID uuid.UUID, after *Keyset, limit int) ([]*BorrowRequestView, error)
	ListByStatus(ctx context.Context, status *circulation.Status, after *Keyset, limit int) ([]*BorrowRequestView, error)
	ListEvents(ctx context.Context, requestID uuid.UUID) ([]*CirculationEventView, error)
	// StockCounts returns the catalog total and the in-flight count for a title.
	StockCounts(ctx context.Context, titleID uuid.UUID) (total, inFlight int, err error)
}

type CirculationQueries interface {
	GetRequest(ctx context.Context, actor user.Actor, id uuid.UUID) (*BorrowRequestView, error)
	ListMine(ctx context.Context, actor user.Actor, cursor *Cursor, limit int) ([]*BorrowRequestView, *Cursor, error)
	ListByStatus(ctx context.Context, actor user.Actor, status string, cursor *Cursor, limit int) ([]*BorrowRequestView, *Cursor, error)
	History(ctx context.Context, actor user.Actor, id uuid.UUID) ([]*CirculationEventView, error)
	Availability(ctx context.Context, titleID uuid.UUID) (*AvailabilityView, error)
	FinePreview(ctx context.Context, dueDate, returnDate string) (*FinePreviewView, error)
}

type circulationQueriesImpl struct {
	store  CirculationReadStore
	fines  *circulation.FineCalculator
	logger *slog.Logger
}

func NewCirculationQueries(store CirculationReadStore, fines *circulation.FineCalculator, logger *slog.Logger) CirculationQueries {
	return &circulationQueriesImpl{store: store, fines: fines, logger: logger}
}

func (q *circulationQueriesImpl) GetRequest(ctx context.Context, actor user.Actor, id uuid.UUID) (*BorrowRequestView, error) {
	view, err := q.store.FindRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, view) {
		return nil, ErrRequestAccess
	}
	return view, nil
}

func (q *circulationQueriesImpl) ListMine(ctx context.Context, actor user.Actor, cursor *Cursor, limit int) ([]*BorrowRequestView, *Cursor, error) {
	if actor.ID == uuid.Nil {
		return nil, nil, errs.Markf(errs.ErrUnauthorized, "%s has no own requests", actor.Role)
	}
	after, err := decodeKeyset(cursor)
	if err != nil {
		return nil, nil, err
	}

	limit = ValidateLimit(limit)
	rows, err := q.store.ListByRequester(ctx, actor.ID, after, limit+1)
	if err != nil {
		return nil, nil, err
	}
	rows, next := paginate(rows, limit)
	return rows, next, nil
}

// ListByStatus backs the staff dashboards; an empty status lists every request.
func (q *circulationQueriesImpl) ListByStatus(ctx context.Context, actor user.Actor, status string, cursor *Cursor, limit int) ([]*BorrowRequestView, *Cursor, error) {
	if !actor.Role.IsStaff() {
		return nil, nil, errs.Markf(errs.ErrUnauthorized, "%s cannot list all requests", actor.Role)
	}

	var filter *circulation.Status
	if status != "" {
		s, err := circulation.ParseStatus(status)
		if err != nil {
			return nil, nil, err
		}
		filter = &s
	}
	after, err := decodeKeyset(cursor)
	if err != nil {
		return nil, nil, err
	}

	limit = ValidateLimit(limit)
	rows, err := q.store.ListByStatus(ctx, filter, after, limit+1)
	if err != nil {
		return nil, nil, err
	}
	rows, next := paginate(rows, limit)
	return rows, next, nil
}

func (q *circulationQueriesImpl) History(ctx context.Context, actor user.Actor, id uuid.UUID) ([]*CirculationEventView, error) {
	if _, err := q.GetRequest(ctx, actor, id); err != nil {
		return nil, err
	}
	return q.store.ListEvents(ctx, id)
}

func (q *circulationQueriesImpl) Availability(ctx context.Context, titleID uuid.UUID) (*AvailabilityView, error) {
	total, inFlight, err := q.store.StockCounts(ctx, titleID)
	if err != nil {
		return nil, err
	}
	level, err := circulation.NewStockLevel(titleID, total, inFlight)
	if err != nil {
		if errs.Is(err, errs.ErrInconsistentStock) {
			q.logger.ErrorContext(ctx, "inconsistent stock detected",
				slog.String("title_id", titleID.String()),
				slog.Int("total_copies", total),
				slog.Int("in_flight", inFlight),
				slog.Bool("alert", true))
		}
		return nil, err
	}
	return &AvailabilityView{
		TitleID:     level.TitleID,
		TotalCopies: level.Total,
		InFlight:    level.InFlight,
		Available:   level.Available,
	}, nil
}

// FinePreview shows the fine a return on returnDate (today when empty) would incur.
func (q *circulationQueriesImpl) FinePreview(_ context.Context, dueDate, returnDate string) (*FinePreviewView, error) {
	result, err := q.fines.ComputeFineFromStrings(dueDate, returnDate)
	if err != nil {
		return nil, err
	}
	return &FinePreviewView{
		DueDate:    result.DueDate,
		ReturnDate: result.ReturnDate,
		LateDays:   result.LateDays,
		FineAmount: result.Amount,
	}, nil
}

func canView(actor user.Actor, view *BorrowRequestView) bool {
	if actor.Role.IsStaff() {
		return true
	}
	return actor.Role == user.RoleRequester && actor.ID == view.RequesterID
}

package readstore

import (
	"context"
	"database/sql"
	"errors"
	"math/big"
	"time"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/infra"
	"library-circulation/internal/pkg/errs"
	"library-circulation/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
)

var json = jsoniter.Config{UseNumber: true, EscapeHTML: true, SortMapKeys: true}.Froze()

// Querier is the subset of *sqlx.DB the read store uses.
type Querier interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

const stockCountsQuery = `
SELECT t.total_copies,
       (SELECT count(*) FROM borrow_requests br
         WHERE br.title_id = t.id AND br.status = ANY($2)) AS in_flight
  FROM titles t
 WHERE t.id = $1`

type borrowRequestRow struct {
	ID          uuid.UUID      `db:"id"`
	RequesterID uuid.UUID      `db:"requester_id"`
	TitleID     uuid.UUID      `db:"title_id"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	DueDate     sql.NullTime   `db:"due_date"`
	ReturnDate  sql.NullTime   `db:"return_date"`
	ActedBy     uuid.NullUUID  `db:"acted_by"`
	LateDays    sql.NullInt64  `db:"late_days"`
	FineAmount  sql.NullString `db:"fine_amount"`
}

type eventRow struct {
	ID         uuid.UUID      `db:"id"`
	RequestID  uuid.UUID      `db:"request_id"`
	Action     string         `db:"action"`
	FromStatus sql.NullString `db:"from_status"`
	ToStatus   string         `db:"to_status"`
	ActorID    uuid.UUID      `db:"actor_id"`
	ActorRole  string         `db:"actor_role"`
	OccurredAt time.Time      `db:"occurred_at"`
	Payload    []byte         `db:"payload"`
}

type stockRow struct {
	TotalCopies int `db:"total_copies"`
	InFlight    int `db:"in_flight"`
}

var requestColumns = []any{
	"id", "requester_id", "title_id", "status", "created_at", "updated_at",
	"due_date", "return_date", "acted_by", "late_days", goqu.L("fine_amount::text").As("fine_amount"),
}

// CirculationReadStore serves dashboards and history from PostgreSQL without taking locks.
type CirculationReadStore struct {
	db      Querier
	dialect goqu.DialectWrapper
	timeout time.Duration
}

func NewCirculationReadStore(db Querier, timeout time.Duration) *CirculationReadStore {
	return &CirculationReadStore{
		db:      db,
		dialect: goqu.Dialect("postgres"),
		timeout: timeout,
	}
}

func (s *CirculationReadStore) FindRequestByID(ctx context.Context, id uuid.UUID) (*queries.BorrowRequestView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query, args, err := s.dialect.From("borrow_requests").
		Prepared(true).
		Select(requestColumns...).
		Where(goqu.C("id").Eq(id.String())).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build request lookup", err)
	}

	var row borrowRequestRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.Mark(infra.WrapRepoErr("borrow request not found", err, infra.KindNotFound), errs.ErrRequestNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find borrow request", err)
	}
	return rowToView(row)
}

func (s *CirculationReadStore) ListByRequester(ctx context.Context, requesterID uuid.UUID, after *queries.Keyset, limit int) ([]*queries.BorrowRequestView, error) {
	return s.list(ctx, []exp.Expression{goqu.C("requester_id").Eq(requesterID.String())}, after, limit)
}

func (s *CirculationReadStore) ListByStatus(ctx context.Context, status *circulation.Status, after *queries.Keyset, limit int) ([]*queries.BorrowRequestView, error) {
	var where []exp.Expression
	if status != nil {
		where = append(where, goqu.C("status").Eq(status.String()))
	}
	return s.list(ctx, where, after, limit)
}

func (s *CirculationReadStore) list(ctx context.Context, where []exp.Expression, after *queries.Keyset, limit int) ([]*queries.BorrowRequestView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if after != nil {
		where = append(where, goqu.Or(
			goqu.C("created_at").Lt(after.CreatedAt),
			goqu.And(
				goqu.C("created_at").Eq(after.CreatedAt),
				goqu.C("id").Lt(after.ID.String()),
			),
		))
	}

	query, args, err := s.dialect.From("borrow_requests").
		Prepared(true).
		Select(requestColumns...).
		Where(where...).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build request list", err)
	}

	var rows []borrowRequestRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, infra.WrapRepoErr("failed to list borrow requests", err)
	}

	views := make([]*queries.BorrowRequestView, 0, len(rows))
	for _, row := range rows {
		v, err := rowToView(row)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *CirculationReadStore) ListEvents(ctx context.Context, requestID uuid.UUID) ([]*queries.CirculationEventView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query, args, err := s.dialect.From("circulation_events").
		Prepared(true).
		Select("id", "request_id", "action", "from_status", "to_status", "actor_id", "actor_role", "occurred_at", "payload").
		Where(goqu.C("request_id").Eq(requestID.String())).
		Order(goqu.C("occurred_at").Asc(), goqu.C("seq").Asc()).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build history query", err)
	}

	var rows []eventRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, infra.WrapRepoErr("failed to list circulation events", err)
	}

	events := make([]*queries.CirculationEventView, 0, len(rows))
	for _, row := range rows {
		ev, err := eventRowToView(row)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *CirculationReadStore) StockCounts(ctx context.Context, titleID uuid.UUID) (int, int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	statuses := make([]string, len(circulation.InFlightStatuses))
	for i, st := range circulation.InFlightStatuses {
		statuses[i] = st.String()
	}

	var row stockRow
	if err := s.db.GetContext(ctx, &row, stockCountsQuery, titleID.String(), pq.Array(statuses)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, errs.Mark(infra.WrapRepoErr("title not found", err, infra.KindNotFound), errs.ErrTitleNotFound)
		}
		return 0, 0, infra.WrapRepoErr("failed to read stock counts", err)
	}
	return row.TotalCopies, row.InFlight, nil
}

func (s *CirculationReadStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func rowToView(row borrowRequestRow) (*queries.BorrowRequestView, error) {
	view := &queries.BorrowRequestView{
		ID:          row.ID,
		RequesterID: row.RequesterID,
		TitleID:     row.TitleID,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.DueDate.Valid {
		t := row.DueDate.Time
		view.DueDate = &t
	}
	if row.ReturnDate.Valid {
		t := row.ReturnDate.Time
		view.ReturnDate = &t
	}
	if row.ActedBy.Valid {
		id := row.ActedBy.UUID
		view.ActedBy = &id
	}
	if row.LateDays.Valid {
		n := int(row.LateDays.Int64)
		view.LateDays = &n
	}
	if row.FineAmount.Valid {
		v, ok := new(big.Int).SetString(row.FineAmount.String, 10)
		if !ok {
			return nil, errs.Markf(errs.ErrStorageFailure, "request %s has non-integer fine %q", row.ID, row.FineAmount.String)
		}
		m := circulation.MoneyFromBig(v)
		view.FineAmount = &m
	}
	return view, nil
}

func eventRowToView(row eventRow) (*queries.CirculationEventView, error) {
	ev := &queries.CirculationEventView{
		ID:         row.ID,
		RequestID:  row.RequestID,
		Action:     row.Action,
		ToStatus:   row.ToStatus,
		ActorID:    row.ActorID,
		ActorRole:  row.ActorRole,
		OccurredAt: row.OccurredAt,
	}
	if row.FromStatus.Valid {
		from := row.FromStatus.String
		ev.FromStatus = &from
	}
	if len(row.Payload) > 0 {
		var payload map[string]any
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			return nil, infra.WrapRepoErr("failed to decode event payload", err)
		}
		if len(payload) > 0 {
			ev.Payload = payload
		}
	}
	return ev, nil
}

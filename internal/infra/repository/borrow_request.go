package repository

import (
	"context"
	"time"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/infra"
	"library-circulation/internal/infra/repository/converter"
	"library-circulation/internal/pkg/errs"
	"library-circulation/internal/pkg/pgconv"
	"library-circulation/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type BorrowRequestRepository struct {
	db      DBTX
	dialect goqu.DialectWrapper
}

func NewBorrowRequestRepository(db DBTX, dialect goqu.DialectWrapper) *BorrowRequestRepository {
	return &BorrowRequestRepository{
		db:      db,
		dialect: dialect,
	}
}

func (r *BorrowRequestRepository) Create(ctx context.Context, req *circulation.BorrowingRequest) error {
	query, args, err := r.dialect.Insert(tableBorrowRequests).
		Prepared(true).
		Rows(converter.BorrowRequestToInsert(req)).
		ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build borrow request insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return classifyWriteErr("failed to create borrow request", err)
	}
	return nil
}

func (r *BorrowRequestRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*circulation.BorrowingRequest, error) {
	query, args, err := r.dialect.From(tableBorrowRequests).
		Prepared(true).
		Select(converter.BorrowRequestColumns...).
		Where(goqu.C("id").Eq(id.String())).
		ForUpdate(exp.Wait).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build borrow request lock", err)
	}

	var row converter.BorrowRequestRow
	if err := r.db.QueryRow(ctx, query, args...).Scan(row.ScanTargets()...); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(infra.WrapRepoErr("borrow request not found", err, infra.KindNotFound), errs.ErrRequestNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock borrow request", err)
	}
	return converter.BorrowRequestFromRow(row)
}

func (r *BorrowRequestRepository) Update(ctx context.Context, req *circulation.BorrowingRequest, expected circulation.Status) error {
	query, args, err := r.dialect.Update(tableBorrowRequests).
		Prepared(true).
		Set(converter.BorrowRequestToUpdate(req)).
		Where(
			goqu.C("id").Eq(req.ID().String()),
			goqu.C("status").Eq(expected.String()),
		).
		ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build borrow request update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return classifyWriteErr("failed to update borrow request", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.Markf(errs.ErrInvalidTransition, "borrow request %s is no longer %s", req.ID(), expected)
	}
	return nil
}

func (r *BorrowRequestRepository) CountInFlight(ctx context.Context, titleID uuid.UUID) (int, error) {
	query, args, err := r.dialect.From(tableBorrowRequests).
		Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.C("title_id").Eq(titleID.String()),
			goqu.C("status").In(statusStrings(circulation.InFlightStatuses)),
		).
		ToSQL()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build in-flight count", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count in-flight requests", err)
	}
	return int(count), nil
}

func (r *BorrowRequestRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, after *shared.PendingRef, limit int) ([]shared.PendingRef, error) {
	where := []exp.Expression{
		goqu.C("status").Eq(circulation.StatusPending.String()),
		goqu.C("created_at").Lt(cutoff),
	}
	if after != nil {
		where = append(where, goqu.Or(
			goqu.C("created_at").Gt(after.CreatedAt),
			goqu.And(
				goqu.C("created_at").Eq(after.CreatedAt),
				goqu.C("id").Gt(after.ID.String()),
			),
		))
	}

	query, args, err := r.dialect.From(tableBorrowRequests).
		Prepared(true).
		Select("id", "created_at").
		Where(where...).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build expiry scan", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan pending requests", err)
	}
	defer rows.Close()

	var refs []shared.PendingRef
	for rows.Next() {
		var ref shared.PendingRef
		if err := rows.Scan(&ref.ID, &ref.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to read pending request", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate pending requests", err)
	}
	return refs, nil
}

func statusStrings(statuses []circulation.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

func classifyWriteErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errs.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
		case pgErrCodeForeignKeyViolation:
			return infra.WrapRepoErr(msg, err, infra.KindForeignKeyViolated)
		}
	}
	return infra.WrapRepoErr(msg, err)
}

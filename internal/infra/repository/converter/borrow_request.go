package converter

import (
	"time"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/pkg/errs"
	"library-circulation/internal/pkg/pgconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// BorrowRequestColumns is the column order BorrowRequestRow.ScanTargets expects.
var BorrowRequestColumns = []any{
	"id", "requester_id", "title_id", "status", "created_at", "updated_at",
	"due_date", "return_date", "acted_by", "late_days", "fine_amount",
}

type BorrowRequestRow struct {
	ID          uuid.UUID
	RequesterID uuid.UUID
	TitleID     uuid.UUID
	Status      string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
	DueDate     pgtype.Timestamptz
	ReturnDate  pgtype.Timestamptz
	ActedBy     pgtype.UUID
	LateDays    pgtype.Int4
	FineAmount  pgtype.Numeric
}

func (r *BorrowRequestRow) ScanTargets() []any {
	return []any{
		&r.ID, &r.RequesterID, &r.TitleID, &r.Status, &r.CreatedAt, &r.UpdatedAt,
		&r.DueDate, &r.ReturnDate, &r.ActedBy, &r.LateDays, &r.FineAmount,
	}
}

func BorrowRequestFromRow(r BorrowRequestRow) (*circulation.BorrowingRequest, error) {
	status := circulation.Status(r.Status)
	if !status.IsValid() {
		return nil, errs.Markf(errs.ErrStorageFailure, "stored request %s has unknown status %q", r.ID, r.Status)
	}

	var lateDays *int
	if p := pgconv.Int32PtrFromPgtype(r.LateDays); p != nil {
		n := int(*p)
		lateDays = &n
	}

	var fine *circulation.Money
	if r.FineAmount.Valid {
		v, err := pgconv.BigIntFromNumeric(r.FineAmount)
		if err != nil {
			return nil, err
		}
		m := circulation.MoneyFromBig(v)
		fine = &m
	}

	return circulation.ReconstructBorrowingRequest(
		r.ID, r.RequesterID, r.TitleID,
		status,
		pgconv.TimeFromPgtype(r.CreatedAt), pgconv.TimeFromPgtype(r.UpdatedAt),
		pgconv.TimePtrFromPgtype(r.DueDate), pgconv.TimePtrFromPgtype(r.ReturnDate),
		pgconv.UUIDPtrFromPgtype(r.ActedBy),
		lateDays,
		fine,
	), nil
}

// BorrowRequestToInsert includes every column; identity and creation time never change afterwards.
func BorrowRequestToInsert(req *circulation.BorrowingRequest) goqu.Record {
	rec := BorrowRequestToUpdate(req)
	rec["id"] = req.ID().String()
	rec["requester_id"] = req.RequesterID().String()
	rec["title_id"] = req.TitleID().String()
	rec["created_at"] = req.CreatedAt()
	return rec
}

func BorrowRequestToUpdate(req *circulation.BorrowingRequest) goqu.Record {
	return goqu.Record{
		"status":      req.Status().String(),
		"updated_at":  req.UpdatedAt(),
		"due_date":    nullableTime(req.DueDate()),
		"return_date": nullableTime(req.ReturnDate()),
		"acted_by":    nullableUUID(req.ActedBy()),
		"late_days":   nullableInt(req.LateDays()),
		"fine_amount": nullableMoney(req.FineAmount()),
	}
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func nullableInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func nullableMoney(m *circulation.Money) any {
	if m == nil {
		return nil
	}
	return goqu.L("?::numeric", m.String())
}

//go:build unit || e2e

package builder

import (
	"time"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/usecase/queries"

	"github.com/google/uuid"
)

type BorrowRequestBuilder struct {
	ID          uuid.UUID
	RequesterID uuid.UUID
	TitleID     uuid.UUID
	Status      circulation.Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DueDate     *time.Time
	ReturnDate  *time.Time
	ActedBy     *uuid.UUID
	LateDays    *int
	FineAmount  *circulation.Money
}

func NewBorrowRequestBuilder() *BorrowRequestBuilder {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return &BorrowRequestBuilder{
		ID:          uuid.New(),
		RequesterID: uuid.New(),
		TitleID:     uuid.New(),
		Status:      circulation.StatusPending,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func (b *BorrowRequestBuilder) With(mutate func(*BorrowRequestBuilder)) *BorrowRequestBuilder {
	mutate(b)
	return b
}

func (b *BorrowRequestBuilder) WithStatus(s circulation.Status) *BorrowRequestBuilder {
	b.Status = s
	return b
}

func (b *BorrowRequestBuilder) WithRequester(id uuid.UUID) *BorrowRequestBuilder {
	b.RequesterID = id
	return b
}

func (b *BorrowRequestBuilder) WithTitle(id uuid.UUID) *BorrowRequestBuilder {
	b.TitleID = id
	return b
}

func (b *BorrowRequestBuilder) WithCreatedAt(t time.Time) *BorrowRequestBuilder {
	b.CreatedAt = t
	b.UpdatedAt = t
	return b
}

func (b *BorrowRequestBuilder) WithDueDate(t time.Time) *BorrowRequestBuilder {
	b.DueDate = &t
	return b
}

func (b *BorrowRequestBuilder) BuildDomain() *circulation.BorrowingRequest {
	return circulation.ReconstructBorrowingRequest(
		b.ID, b.RequesterID, b.TitleID,
		b.Status,
		b.CreatedAt, b.UpdatedAt,
		b.DueDate, b.ReturnDate,
		b.ActedBy,
		b.LateDays,
		b.FineAmount,
	)
}

func (b *BorrowRequestBuilder) BuildView() *queries.BorrowRequestView {
	return queries.ToBorrowRequestView(b.BuildDomain())
}

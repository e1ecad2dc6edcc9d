package response

import (
	"time"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/usecase/commands"
	"library-circulation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BorrowRequestResponse struct {
	ID          uuid.UUID          `json:"id"`
	RequesterID uuid.UUID          `json:"requester_id"`
	TitleID     uuid.UUID          `json:"title_id"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	ReturnDate  *time.Time         `json:"return_date,omitempty"`
	ActedBy     *uuid.UUID         `json:"acted_by,omitempty"`
	LateDays    *int               `json:"late_days,omitempty"`
	FineAmount  *circulation.Money `json:"fine_amount,omitempty"`
}

type BorrowRequestListResponse struct {
	Items      []*BorrowRequestResponse `json:"items"`
	NextCursor string                   `json:"next_cursor,omitempty"`
}

type CirculationEventResponse struct {
	ID         uuid.UUID      `json:"id"`
	Action     string         `json:"action"`
	FromStatus *string        `json:"from_status,omitempty"`
	ToStatus   string         `json:"to_status"`
	ActorID    uuid.UUID      `json:"actor_id"`
	ActorRole  string         `json:"actor_role"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

type AvailabilityResponse struct {
	TitleID     uuid.UUID `json:"title_id"`
	TotalCopies int       `json:"total_copies"`
	InFlight    int       `json:"in_flight"`
	Available   int       `json:"available"`
}

type FinePreviewResponse struct {
	DueDate    string            `json:"due_date"`
	ReturnDate string            `json:"return_date"`
	LateDays   int               `json:"late_days"`
	FineAmount circulation.Money `json:"fine_amount"`
}

type SweepResponse struct {
	CancelledCount int         `json:"cancelled_count"`
	CancelledIDs   []uuid.UUID `json:"cancelled_ids"`
	FailedIDs      []uuid.UUID `json:"failed_ids"`
}

// copyInto only fails on mismatched kinds, which is a programming error.
func copyInto(to, from any) {
	if err := copier.Copy(to, from); err != nil {
		panic(err)
	}
}

func FromBorrowRequestView(v *queries.BorrowRequestView) *BorrowRequestResponse {
	var res BorrowRequestResponse
	copyInto(&res, v)
	return &res
}

func FromBorrowRequestList(views []*queries.BorrowRequestView, next *queries.Cursor) *BorrowRequestListResponse {
	res := &BorrowRequestListResponse{Items: make([]*BorrowRequestResponse, len(views))}
	for i, v := range views {
		res.Items[i] = FromBorrowRequestView(v)
	}
	if next != nil {
		res.NextCursor = next.After
	}
	return res
}

func FromEventViews(views []*queries.CirculationEventView) []*CirculationEventResponse {
	res := make([]*CirculationEventResponse, len(views))
	for i, v := range views {
		var item CirculationEventResponse
		copyInto(&item, v)
		res[i] = &item
	}
	return res
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	var res AvailabilityResponse
	copyInto(&res, v)
	return &res
}

func FromFinePreviewView(v *queries.FinePreviewView) *FinePreviewResponse {
	return &FinePreviewResponse{
		DueDate:    v.DueDate.Format(time.DateOnly),
		ReturnDate: v.ReturnDate.Format(time.DateOnly),
		LateDays:   v.LateDays,
		FineAmount: v.FineAmount,
	}
}

func FromSweepResult(r commands.SweepResult) *SweepResponse {
	var res SweepResponse
	copyInto(&res, &r)
	return &res
}

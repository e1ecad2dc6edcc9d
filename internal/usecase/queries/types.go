package queries

import (
	"time"

	"library-circulation/internal/domain/circulation"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BorrowRequestView struct {
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

func ToBorrowRequestView(r *circulation.BorrowingRequest) *BorrowRequestView {
	if r == nil {
		return nil
	}
	c := r.Clone()
	return &BorrowRequestView{
		ID:          c.ID(),
		RequesterID: c.RequesterID(),
		TitleID:     c.TitleID(),
		Status:      c.Status().String(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
		DueDate:     c.DueDate(),
		ReturnDate:  c.ReturnDate(),
		ActedBy:     c.ActedBy(),
		LateDays:    c.LateDays(),
		FineAmount:  c.FineAmount(),
	}
}

type CirculationEventView struct {
	ID         uuid.UUID      `json:"id"`
	RequestID  uuid.UUID      `json:"request_id"`
	Action     string         `json:"action"`
	FromStatus *string        `json:"from_status,omitempty"`
	ToStatus   string         `json:"to_status"`
	ActorID    uuid.UUID      `json:"actor_id"`
	ActorRole  string         `json:"actor_role"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

type AvailabilityView struct {
	TitleID     uuid.UUID `json:"title_id"`
	TotalCopies int       `json:"total_copies"`
	InFlight    int       `json:"in_flight"`
	Available   int       `json:"available"`
}

type FinePreviewView struct {
	DueDate    time.Time         `json:"due_date"`
	ReturnDate time.Time         `json:"return_date"`
	LateDays   int               `json:"late_days"`
	FineAmount circulation.Money `json:"fine_amount"`
}

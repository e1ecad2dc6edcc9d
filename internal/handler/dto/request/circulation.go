package request

import (
	"time"

	"library-circulation/internal/domain/circulation"

	"github.com/google/uuid"
)

type CreateBorrowRequest struct {
	TitleID uuid.UUID `json:"title_id" binding:"required"`
}

type PickupRequest struct {
	// PickupDate defaults to today when omitted.
	PickupDate *string `json:"pickup_date" binding:"omitempty"`
}

func (r *PickupRequest) ToDomain(loc *time.Location) (*time.Time, error) {
	if r == nil || r.PickupDate == nil || *r.PickupDate == "" {
		return nil, nil
	}
	t, err := circulation.ParseDate(*r.PickupDate, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type ListBorrowRequestsQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
	After  string `form:"after"`
}

type FinePreviewQuery struct {
	DueDate    string `form:"due_date" binding:"required"`
	ReturnDate string `form:"return_date"`
}

type SweepQuery struct {
	ThresholdMinutes *int `form:"threshold_minutes" binding:"omitempty,min=1"`
}

// Threshold falls back to def when no override is given.
func (q *SweepQuery) Threshold(def time.Duration) time.Duration {
	if q.ThresholdMinutes == nil {
		return def
	}
	return time.Duration(*q.ThresholdMinutes) * time.Minute
}

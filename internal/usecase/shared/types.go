package shared

import (
	"time"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/domain/user"

	"github.com/google/uuid"
)

// PendingRef identifies a pending request and its position in the expiry scan.
type PendingRef struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// CirculationEvent is one applied transition, kept for audit.
type CirculationEvent struct {
	ID         uuid.UUID
	RequestID  uuid.UUID
	Action     circulation.Action
	FromStatus *circulation.Status
	ToStatus   circulation.Status
	ActorID    uuid.UUID
	ActorRole  user.Role
	OccurredAt time.Time
	Payload    EventPayload
}

type EventPayload struct {
	TitleID    *uuid.UUID         `json:"title_id,omitempty"`
	DueDate    *time.Time         `json:"due_date,omitempty"`
	ReturnDate *time.Time         `json:"return_date,omitempty"`
	LateDays   *int               `json:"late_days,omitempty"`
	FineAmount *circulation.Money `json:"fine_amount,omitempty"`
	Reason     string             `json:"reason,omitempty"`
}

// NewEvent records the applied change on req after the transition.
func NewEvent(req *circulation.BorrowingRequest, change circulation.Change) CirculationEvent {
	from := change.From
	ev := CirculationEvent{
		ID:         uuid.New(),
		RequestID:  req.ID(),
		Action:     change.Action,
		FromStatus: &from,
		ToStatus:   change.To,
		ActorID:    change.Actor.ID,
		ActorRole:  change.Actor.Role,
		OccurredAt: change.At,
	}

	switch change.Action {
	case circulation.ActionMarkPickedUp:
		ev.Payload.DueDate = req.DueDate()
	case circulation.ActionConfirmReturn:
		ev.Payload.ReturnDate = req.ReturnDate()
		ev.Payload.LateDays = req.LateDays()
		ev.Payload.FineAmount = req.FineAmount()
	}
	return ev
}

// NewCreatedEvent records the creation of req; it has no source status.
func NewCreatedEvent(req *circulation.BorrowingRequest, actor user.Actor) CirculationEvent {
	titleID := req.TitleID()
	return CirculationEvent{
		ID:         uuid.New(),
		RequestID:  req.ID(),
		Action:     circulation.ActionRequestBorrow,
		ToStatus:   req.Status(),
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		OccurredAt: req.CreatedAt(),
		Payload:    EventPayload{TitleID: &titleID},
	}
}

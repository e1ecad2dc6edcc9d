package circulation

import "github.com/google/uuid"

// StockLevel is the derived availability of one title at one point in time.
type StockLevel struct {
	TitleID   uuid.UUID
	Total     int
	InFlight  int
	Available int
}

// AvailableCopies derives availability from the catalog total and the in-flight count.
// A negative result means earlier writes broke the over-booking invariant; it is reported, never clamped.
func AvailableCopies(totalCopies, inFlight int) (int, error) {
	if totalCopies < 0 {
		return 0, ErrNegativeCopies
	}
	available := totalCopies - inFlight
	if available < 0 {
		return 0, &StockError{Total: totalCopies, InFlight: inFlight}
	}
	return available, nil
}

func NewStockLevel(titleID uuid.UUID, totalCopies, inFlight int) (StockLevel, error) {
	available, err := AvailableCopies(totalCopies, inFlight)
	if err != nil {
		return StockLevel{}, err
	}
	return StockLevel{
		TitleID:   titleID,
		Total:     totalCopies,
		InFlight:  inFlight,
		Available: available,
	}, nil
}

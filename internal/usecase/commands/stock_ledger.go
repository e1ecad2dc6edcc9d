package commands

import (
	"context"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/usecase/shared"

	"github.com/google/uuid"
)

// StockLedger derives availability inside the caller's unit of work, so the figure
// it returns stays valid until that unit of work commits.
type StockLedger struct{}

func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

func (l *StockLedger) Available(ctx context.Context, tx shared.Tx, titleID uuid.UUID) (circulation.StockLevel, error) {
	total, err := tx.Titles().LockTotalCopies(ctx, titleID)
	if err != nil {
		return circulation.StockLevel{}, err
	}
	inFlight, err := tx.BorrowRequests().CountInFlight(ctx, titleID)
	if err != nil {
		return circulation.StockLevel{}, err
	}
	return circulation.NewStockLevel(titleID, total, inFlight)
}

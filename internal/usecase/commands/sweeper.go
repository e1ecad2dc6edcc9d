package commands

//go:generate mockgen -source=sweeper.go -destination=../../../tests/mock/commands/sweeper.go -package=mock_commands

import (
	"context"
	"log/slog"
	"time"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/pkg/clock"
	"library-circulation/internal/pkg/errs"
	"library-circulation/internal/usecase/shared"

	"github.com/google/uuid"
)

const DefaultSweepBatchSize = 200

type SweepResult struct {
	CancelledCount int         `json:"cancelled_count"`
	CancelledIDs   []uuid.UUID `json:"cancelled_ids"`
	FailedIDs      []uuid.UUID `json:"failed_ids"`
}

type ExpirySweeper interface {
	Sweep(ctx context.Context, now time.Time, threshold time.Duration) (SweepResult, error)
}

// Sweeper cancels pending requests that were never approved in time, releasing their hold.
// It keeps no timer; callers decide when to run it.
type Sweeper struct {
	uow       shared.UnitOfWork
	circ      *circulationUseCaseImpl
	batchSize int
	logger    *slog.Logger
}

func NewSweeper(uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger, batchSize int) *Sweeper {
	if batchSize <= 0 {
		batchSize = DefaultSweepBatchSize
	}
	return &Sweeper{
		uow:       uow,
		circ:      newCirculationUseCase(uow, NewStockLedger(), circulation.Policy{}, clk, logger),
		batchSize: batchSize,
		logger:    logger,
	}
}

// Sweep cancels every request still pending whose age at now exceeds threshold.
// Each request is cancelled in its own unit of work; a failure on one row is recorded and
// the sweep moves on. Only a failing scan aborts the run.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time, threshold time.Duration) (SweepResult, error) {
	result := SweepResult{CancelledIDs: []uuid.UUID{}, FailedIDs: []uuid.UUID{}}
	if threshold <= 0 {
		return result, errs.Markf(errs.ErrInvalidInput, "expiry threshold must be positive, got %s", threshold)
	}
	cutoff := now.Add(-threshold)

	var after *shared.PendingRef
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		batch, err := s.scan(ctx, cutoff, after)
		if err != nil {
			s.logger.ErrorContext(ctx, "expiry scan failed", slog.String("error", err.Error()))
			return result, errs.Wrap(err, "scan expired requests")
		}

		for _, ref := range batch {
			_, change, err := s.circ.transition(ctx, ref.ID, now, func(req *circulation.BorrowingRequest, at time.Time) (circulation.Change, error) {
				return req.Expire(at, threshold)
			})
			switch {
			case err == nil && !change.NoOp:
				result.CancelledCount++
				result.CancelledIDs = append(result.CancelledIDs, ref.ID)
			case err == nil:
				// cancelled by someone else in the meantime
			case errs.Is(err, errs.ErrInvalidTransition), errs.Is(err, errs.ErrRequestNotFound):
				// moved on since the scan; the other writer committed first
			default:
				s.logger.ErrorContext(ctx, "failed to expire borrow request",
					slog.String("request_id", ref.ID.String()),
					slog.String("error", err.Error()))
				result.FailedIDs = append(result.FailedIDs, ref.ID)
			}
		}

		if len(batch) < s.batchSize {
			break
		}
		last := batch[len(batch)-1]
		after = &last
	}

	if result.CancelledCount > 0 || len(result.FailedIDs) > 0 {
		s.logger.InfoContext(ctx, "expiry sweep finished",
			slog.Int("cancelled", result.CancelledCount),
			slog.Int("failed", len(result.FailedIDs)),
			slog.Time("cutoff", cutoff))
	}
	return result, nil
}

func (s *Sweeper) scan(ctx context.Context, cutoff time.Time, after *shared.PendingRef) ([]shared.PendingRef, error) {
	var batch []shared.PendingRef
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		refs, err := tx.BorrowRequests().ListPendingCreatedBefore(ctx, cutoff, after, s.batchSize)
		if err != nil {
			return err
		}
		batch = refs
		return nil
	})
	return batch, err
}

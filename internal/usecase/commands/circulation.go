package commands

//go:generate mockgen -source=circulation.go -destination=../../../tests/mock/commands/circulation.go -package=mock_commands

import (
	"context"
	"log/slog"
	"time"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/domain/user"
	"library-circulation/internal/pkg/clock"
	"library-circulation/internal/pkg/errs"
	"library-circulation/internal/usecase/queries"
	"library-circulation/internal/usecase/shared"

	"github.com/google/uuid"
)

type CirculationCommands interface {
	RequestBorrow(ctx context.Context, actor user.Actor, titleID uuid.UUID) (*queries.BorrowRequestView, error)
	Approve(ctx context.Context, actor user.Actor, requestID uuid.UUID) (*queries.BorrowRequestView, error)
	// MarkPickedUp uses today when pickup is nil.
	MarkPickedUp(ctx context.Context, actor user.Actor, requestID uuid.UUID, pickup *time.Time) (*queries.BorrowRequestView, error)
	RequestReturn(ctx context.Context, actor user.Actor, requestID uuid.UUID) (*queries.BorrowRequestView, error)
	ConfirmReturn(ctx context.Context, actor user.Actor, requestID uuid.UUID) (*queries.BorrowRequestView, error)
	Cancel(ctx context.Context, actor user.Actor, requestID uuid.UUID) (*queries.BorrowRequestView, error)
	Reject(ctx context.Context, actor user.Actor, requestID uuid.UUID) (*queries.BorrowRequestView, error)
}

// applyFunc runs one state-machine transition on a locked request.
type applyFunc func(req *circulation.BorrowingRequest, now time.Time) (circulation.Change, error)

type circulationUseCaseImpl struct {
	uow    shared.UnitOfWork
	ledger *StockLedger
	policy circulation.Policy
	clock  clock.Clock
	logger *slog.Logger
}

func NewCirculationUseCase(
	uow shared.UnitOfWork,
	ledger *StockLedger,
	policy circulation.Policy,
	clk clock.Clock,
	logger *slog.Logger,
) CirculationCommands {
	return newCirculationUseCase(uow, ledger, policy, clk, logger)
}

func newCirculationUseCase(uow shared.UnitOfWork, ledger *StockLedger, policy circulation.Policy, clk clock.Clock, logger *slog.Logger) *circulationUseCaseImpl {
	return &circulationUseCaseImpl{
		uow:    uow,
		ledger: ledger,
		policy: policy,
		clock:  clk,
		logger: logger,
	}
}

func (uc *circulationUseCaseImpl) RequestBorrow(ctx context.Context, actor user.Actor, titleID uuid.UUID) (*queries.BorrowRequestView, error) {
	if err := circulation.CanCreate(actor); err != nil {
		return nil, err
	}
	if titleID == uuid.Nil {
		return nil, circulation.ErrMissingTitle
	}

	var created *circulation.BorrowingRequest
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		level, err := uc.ledger.Available(ctx, tx, titleID)
		if err != nil {
			return err
		}
		req, err := circulation.NewBorrowingRequest(actor, titleID, level.Available, uc.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.BorrowRequests().Create(ctx, req); err != nil {
			return err
		}
		if err := tx.Events().Append(ctx, shared.NewCreatedEvent(req, actor)); err != nil {
			return err
		}
		created = req
		return nil
	})
	if err != nil {
		uc.report(ctx, circulation.ActionRequestBorrow, actor, titleID, err)
		return nil, err
	}

	uc.logger.InfoContext(ctx, "borrow request created",
		slog.String("request_id", created.ID().String()),
		slog.String("title_id", titleID.String()),
		slog.String("requester_id", actor.ID.String()))
	return queries.ToBorrowRequestView(created), nil
}

func (uc *circulationUseCaseImpl) Approve(ctx context.Context, actor user.Actor, requestID uuid.UUID) (*queries.BorrowRequestView, error) {
	return uc.run(ctx, circulation.ActionApprove, actor, requestID, func(req *circulation.BorrowingRequest, now time.Time) (circulation.Change, error) {
		return req.Approve(actor, now)
	})
}

func (uc *circulationUseCaseImpl) MarkPickedUp(ctx context.Context, actor user.Actor, requestID uuid.UUID, pickup *time.Time) (*queries.BorrowRequestView, error) {
	return uc.run(ctx, circulation.ActionMarkPickedUp, actor, requestID, func(req *circulation.BorrowingRequest, now time.Time) (circulation.Change, error) {
		at := now
		if pickup != nil {
			at = *pickup
		}
		return req.MarkPickedUp(actor, at, uc.policy, now)
	})
}

func (uc *circulationUseCaseImpl) RequestReturn(ctx context.Context, actor user.Actor, requestID uuid.UUID) (*queries.BorrowRequestView, error) {
	return uc.run(ctx, circulation.ActionRequestReturn, actor, requestID, func(req *circulation.BorrowingRequest, now time.Time) (circulation.Change, error) {
		return req.RequestReturn(actor, now)
	})
}

func (uc *circulationUseCaseImpl) ConfirmReturn(ctx context.Context, actor user.Actor, requestID uuid.UUID) (*queries.BorrowRequestView, error) {
	return uc.run(ctx, circulation.ActionConfirmReturn, actor, requestID, func(req *circulation.BorrowingRequest, now time.Time) (circulation.Change, error) {
		return req.ConfirmReturn(actor, uc.policy, now)
	})
}

func (uc *circulationUseCaseImpl) Cancel(ctx context.Context, actor user.Actor, requestID uuid.UUID) (*queries.BorrowRequestView, error) {
	return uc.run(ctx, circulation.ActionCancel, actor, requestID, func(req *circulation.BorrowingRequest, now time.Time) (circulation.Change, error) {
		return req.Cancel(actor, now)
	})
}

func (uc *circulationUseCaseImpl) Reject(ctx context.Context, actor user.Actor, requestID uuid.UUID) (*queries.BorrowRequestView, error) {
	return uc.run(ctx, circulation.ActionReject, actor, requestID, func(req *circulation.BorrowingRequest, now time.Time) (circulation.Change, error) {
		return req.Reject(actor, now)
	})
}

func (uc *circulationUseCaseImpl) run(ctx context.Context, action circulation.Action, actor user.Actor, requestID uuid.UUID, apply applyFunc) (*queries.BorrowRequestView, error) {
	req, change, err := uc.transition(ctx, requestID, uc.clock.Now(), apply)
	if err != nil {
		uc.report(ctx, action, actor, requestID, err)
		return nil, err
	}
	if !change.NoOp {
		uc.logger.InfoContext(ctx, "borrow request transitioned",
			slog.String("request_id", requestID.String()),
			slog.String("action", action.String()),
			slog.String("from", change.From.String()),
			slog.String("to", change.To.String()),
			slog.String("actor_role", actor.Role.String()))
	}
	return queries.ToBorrowRequestView(req), nil
}

// transition locks the request, applies the change and writes it back with a status
// compare-and-set, all in one unit of work. No-ops write nothing.
func (uc *circulationUseCaseImpl) transition(ctx context.Context, requestID uuid.UUID, now time.Time, apply applyFunc) (*circulation.BorrowingRequest, circulation.Change, error) {
	var (
		result *circulation.BorrowingRequest
		change circulation.Change
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		req, err := tx.BorrowRequests().GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		expected := req.Status()

		c, err := apply(req, now)
		if err != nil {
			return err
		}
		result, change = req, c
		if c.NoOp {
			return nil
		}

		if err := tx.BorrowRequests().Update(ctx, req, expected); err != nil {
			return err
		}
		return tx.Events().Append(ctx, shared.NewEvent(req, c))
	})
	if err != nil {
		return nil, circulation.Change{}, err
	}
	return result, change, nil
}

func (uc *circulationUseCaseImpl) report(ctx context.Context, action circulation.Action, actor user.Actor, id uuid.UUID, err error) {
	attrs := []any{
		slog.String("action", action.String()),
		slog.String("id", id.String()),
		slog.String("actor_role", actor.Role.String()),
		slog.String("error", err.Error()),
	}
	switch {
	case errs.Is(err, errs.ErrInconsistentStock):
		uc.logger.ErrorContext(ctx, "inconsistent stock detected", append(attrs, slog.Bool("alert", true))...)
	case errs.Is(err, errs.ErrStorageTimeout), errs.Is(err, errs.ErrStorageFailure):
		uc.logger.ErrorContext(ctx, "circulation storage failure", attrs...)
	default:
		uc.logger.DebugContext(ctx, "circulation action refused", attrs...)
	}
}

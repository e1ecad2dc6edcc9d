//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/domain/user"
	"library-circulation/internal/infra/memstore"
	"library-circulation/internal/pkg/clock"
	"library-circulation/internal/pkg/errs"
	"library-circulation/internal/usecase/commands"
	"library-circulation/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store   *memstore.Store
	clock   *clock.MockClock
	uc      commands.CirculationCommands
	titleID uuid.UUID
	logger  *slog.Logger
}

func newFixture(t *testing.T, copies int) *fixture {
	t.Helper()

	store := memstore.New()
	clk := clock.NewMockClock(t0)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	policy := circulation.Policy{
		LoanPeriodDays: 7,
		Fines:          circulation.NewFineCalculator(time.UTC, clk),
	}

	titleID := uuid.New()
	store.PutTitle(titleID, copies)

	return &fixture{
		store:   store,
		clock:   clk,
		uc:      commands.NewCirculationUseCase(store, commands.NewStockLedger(), policy, clk, logger),
		titleID: titleID,
		logger:  logger,
	}
}

func newRequester() user.Actor { return user.NewActor(uuid.New(), user.RoleRequester) }
func newStaff() user.Actor     { return user.NewActor(uuid.New(), user.RoleStaff) }
func newAdmin() user.Actor     { return user.NewActor(uuid.New(), user.RoleAdmin) }

func (f *fixture) borrow(t *testing.T, requester user.Actor) uuid.UUID {
	t.Helper()
	view, err := f.uc.RequestBorrow(context.Background(), requester, f.titleID)
	require.NoError(t, err)
	return view.ID
}

func (f *fixture) status(t *testing.T, id uuid.UUID) circulation.Status {
	t.Helper()
	req, ok := f.store.Request(id)
	require.True(t, ok)
	return req.Status()
}

func (f *fixture) inFlight(t *testing.T) int {
	t.Helper()
	_, n, err := f.store.StockCounts(context.Background(), f.titleID)
	require.NoError(t, err)
	return n
}

func (f *fixture) available(t *testing.T) int {
	t.Helper()
	total, inFlight, err := f.store.StockCounts(context.Background(), f.titleID)
	require.NoError(t, err)
	n, err := circulation.AvailableCopies(total, inFlight)
	require.NoError(t, err)
	return n
}

func (f *fixture) eventCount(t *testing.T, id uuid.UUID) int {
	t.Helper()
	events, err := f.store.ListEvents(context.Background(), id)
	require.NoError(t, err)
	return len(events)
}

// faultyUoW fails every load of one request, the way a broken row or connection would.
type faultyUoW struct {
	inner  shared.UnitOfWork
	failID uuid.UUID
}

func (u *faultyUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.inner.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return fn(ctx, faultyTx{Tx: tx, failID: u.failID})
	})
}

type faultyTx struct {
	shared.Tx
	failID uuid.UUID
}

func (t faultyTx) BorrowRequests() shared.BorrowRequestRepository {
	return faultyRepo{BorrowRequestRepository: t.Tx.BorrowRequests(), failID: t.failID}
}

type faultyRepo struct {
	shared.BorrowRequestRepository
	failID uuid.UUID
}

func (r faultyRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*circulation.BorrowingRequest, error) {
	if id == r.failID {
		return nil, errs.Markf(errs.ErrStorageFailure, "connection reset while loading %s", id)
	}
	return r.BorrowRequestRepository.GetForUpdate(ctx, id)
}

// interleavingUoW runs before once, ahead of the at-th unit of work, so another writer
// can commit between a sweep's scan and its per-row updates.
type interleavingUoW struct {
	inner  shared.UnitOfWork
	at     int
	before func()

	mu    sync.Mutex
	calls int
}

func (u *interleavingUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	u.calls++
	n := u.calls
	u.mu.Unlock()

	if n == u.at && u.before != nil {
		u.before()
	}
	return u.inner.Within(ctx, fn)
}

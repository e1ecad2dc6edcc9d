//go:build unit

package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/domain/user"
	"library-circulation/internal/infra/memstore"
	"library-circulation/internal/pkg/errs"
	"library-circulation/internal/usecase/queries"
	"library-circulation/internal/usecase/shared"
	"library-circulation/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func TestWithin_DiscardsChangesOnError(t *testing.T) {
	store := memstore.New()
	titleID := uuid.New()
	store.PutTitle(titleID, 1)
	req := builder.NewBorrowRequestBuilder().WithTitle(titleID).BuildDomain()
	boom := errors.New("boom")

	err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		require.NoError(t, tx.BorrowRequests().Create(ctx, req))
		require.NoError(t, tx.Events().Append(ctx, shared.NewCreatedEvent(req, user.NewActor(req.RequesterID(), user.RoleRequester))))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	_, ok := store.Request(req.ID())
	assert.False(t, ok)
	events, err := store.ListEvents(context.Background(), req.ID())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestWithin_CancelledContext(t *testing.T) {
	store := memstore.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Within(ctx, func(context.Context, shared.Tx) error {
		called = true
		return nil
	})

	assert.True(t, errs.Is(err, errs.ErrStorageTimeout))
	assert.False(t, called)
}

func TestRequestRepo_UpdateIsCompareAndSet(t *testing.T) {
	store := memstore.New()
	req := builder.NewBorrowRequestBuilder().BuildDomain()
	store.PutRequest(req)

	err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		loaded, err := tx.BorrowRequests().GetForUpdate(ctx, req.ID())
		require.NoError(t, err)
		return tx.BorrowRequests().Update(ctx, loaded, circulation.StatusApproved)
	})

	assert.True(t, errs.Is(err, errs.ErrInvalidTransition))
}

func TestRequestRepo_CountInFlightSeesStagedRows(t *testing.T) {
	store := memstore.New()
	titleID := uuid.New()
	store.PutTitle(titleID, 5)
	store.PutRequest(builder.NewBorrowRequestBuilder().WithTitle(titleID).WithStatus(circulation.StatusBorrowed).BuildDomain())
	store.PutRequest(builder.NewBorrowRequestBuilder().WithTitle(titleID).WithStatus(circulation.StatusReturned).BuildDomain())
	store.PutRequest(builder.NewBorrowRequestBuilder().WithStatus(circulation.StatusPending).BuildDomain())

	err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.BorrowRequests().CountInFlight(ctx, titleID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		require.NoError(t, tx.BorrowRequests().Create(ctx, builder.NewBorrowRequestBuilder().WithTitle(titleID).BuildDomain()))
		n, err = tx.BorrowRequests().CountInFlight(ctx, titleID)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		return nil
	})
	require.NoError(t, err)

	total, inFlight, err := store.StockCounts(context.Background(), titleID)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, 2, inFlight)
}

func TestTitleRepo_UnknownTitle(t *testing.T) {
	store := memstore.New()

	err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Titles().LockTotalCopies(ctx, uuid.New())
		return err
	})

	assert.True(t, errs.Is(err, errs.ErrTitleNotFound))
	_, _, err = store.StockCounts(context.Background(), uuid.New())
	assert.True(t, errs.Is(err, errs.ErrTitleNotFound))
}

func TestListPendingCreatedBefore_KeysetOrder(t *testing.T) {
	store := memstore.New()
	oldest := builder.NewBorrowRequestBuilder().WithCreatedAt(t0).BuildDomain()
	middle := builder.NewBorrowRequestBuilder().WithCreatedAt(t0.Add(time.Minute)).BuildDomain()
	fresh := builder.NewBorrowRequestBuilder().WithCreatedAt(t0.Add(2 * time.Hour)).BuildDomain()
	approved := builder.NewBorrowRequestBuilder().WithCreatedAt(t0).WithStatus(circulation.StatusApproved).BuildDomain()
	for _, r := range []*circulation.BorrowingRequest{fresh, middle, approved, oldest} {
		store.PutRequest(r)
	}
	cutoff := t0.Add(time.Hour)

	var first, second []shared.PendingRef
	err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		first, err = tx.BorrowRequests().ListPendingCreatedBefore(ctx, cutoff, nil, 1)
		if err != nil {
			return err
		}
		second, err = tx.BorrowRequests().ListPendingCreatedBefore(ctx, cutoff, &first[0], 1)
		return err
	})
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, oldest.ID(), first[0].ID)
	assert.Equal(t, middle.ID(), second[0].ID)
}

func TestListByRequester_NewestFirstWithKeyset(t *testing.T) {
	store := memstore.New()
	requesterID := uuid.New()
	var ids []uuid.UUID
	for i := range 3 {
		r := builder.NewBorrowRequestBuilder().WithRequester(requesterID).WithCreatedAt(t0.Add(time.Duration(i) * time.Minute)).BuildDomain()
		store.PutRequest(r)
		ids = append(ids, r.ID())
	}
	store.PutRequest(builder.NewBorrowRequestBuilder().BuildDomain())

	page, err := store.ListByRequester(context.Background(), requesterID, nil, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	rest, err := store.ListByRequester(context.Background(), requesterID, &queries.Keyset{CreatedAt: page[1].CreatedAt, ID: page[1].ID}, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, ids[0], rest[0].ID)
}

func TestListEvents_PayloadMatchesPostgresShape(t *testing.T) {
	store := memstore.New()
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	req := builder.NewBorrowRequestBuilder().WithStatus(circulation.StatusReturnRequested).WithDueDate(due).BuildDomain()
	store.PutRequest(req)
	staff := user.NewActor(uuid.New(), user.RoleStaff)
	policy := circulation.Policy{Fines: circulation.NewFineCalculator(time.UTC, nil)}

	err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		loaded, err := tx.BorrowRequests().GetForUpdate(ctx, req.ID())
		if err != nil {
			return err
		}
		change, err := loaded.ConfirmReturn(staff, policy, due.AddDate(0, 0, 2).Add(10*time.Hour))
		if err != nil {
			return err
		}
		if err := tx.BorrowRequests().Update(ctx, loaded, change.From); err != nil {
			return err
		}
		return tx.Events().Append(ctx, shared.NewEvent(loaded, change))
	})
	require.NoError(t, err)

	events, err := store.ListEvents(context.Background(), req.ID())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "confirm_return", events[0].Action)
	assert.Equal(t, "return_requested", *events[0].FromStatus)
	assert.Equal(t, "4000", fmtNumber(events[0].Payload["fine_amount"]))
	assert.Equal(t, "2", fmtNumber(events[0].Payload["late_days"]))

	view, err := store.FindRequestByID(context.Background(), req.ID())
	require.NoError(t, err)
	assert.Equal(t, "returned", view.Status)
	assert.Equal(t, staff.ID, *view.ActedBy)
}

func fmtNumber(v any) string {
	if n, ok := v.(interface{ String() string }); ok {
		return n.String()
	}
	return ""
}

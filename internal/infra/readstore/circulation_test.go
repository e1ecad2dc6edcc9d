//go:build unit

package readstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/infra"
	"library-circulation/internal/pkg/errs"
	"library-circulation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	ret := m.Called(ctx, dest, query, args)
	return ret.Error(0)
}

func (m *MockQuerier) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	ret := m.Called(ctx, dest, query, args)
	return ret.Error(0)
}

var (
	created = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	due     = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
)

func returnedRow() borrowRequestRow {
	return borrowRequestRow{
		ID:          uuid.New(),
		RequesterID: uuid.New(),
		TitleID:     uuid.New(),
		Status:      "returned",
		CreatedAt:   created,
		UpdatedAt:   created.AddDate(0, 0, 11),
		DueDate:     sql.NullTime{Time: due, Valid: true},
		ReturnDate:  sql.NullTime{Time: due.AddDate(0, 0, 40), Valid: true},
		ActedBy:     uuid.NullUUID{UUID: uuid.New(), Valid: true},
		LateDays:    sql.NullInt64{Int64: 40, Valid: true},
		FineAmount:  sql.NullString{String: "1099511627776000", Valid: true},
	}
}

func TestFindRequestByID(t *testing.T) {
	row := returnedRow()

	tests := []struct {
		name         string
		mockError    error
		wantErr      error
		wantNotFound bool
	}{
		{name: "success - returned request with fine"},
		{
			name:         "not found",
			mockError:    sql.ErrNoRows,
			wantErr:      errs.ErrRequestNotFound,
			wantNotFound: true,
		},
		{
			name:      "timeout",
			mockError: context.DeadlineExceeded,
			wantErr:   errs.ErrStorageTimeout,
		},
		{
			name:      "database error",
			mockError: errors.New("connection reset"),
			wantErr:   errs.ErrStorageFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := new(MockQuerier)
			db.On("GetContext", mock.Anything, mock.AnythingOfType("*readstore.borrowRequestRow"), mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) {
					if tt.mockError == nil {
						*args.Get(1).(*borrowRequestRow) = row
					}
				}).
				Return(tt.mockError)
			store := NewCirculationReadStore(db, time.Second)

			view, err := store.FindRequestByID(context.Background(), row.ID)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tt.wantErr))
				assert.Equal(t, tt.wantNotFound, infra.IsKind(err, infra.KindNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, row.ID, view.ID)
			assert.Equal(t, "returned", view.Status)
			assert.Equal(t, due, *view.DueDate)
			assert.Equal(t, 40, *view.LateDays)
			assert.Equal(t, "1099511627776000", view.FineAmount.String())
			db.AssertExpectations(t)
		})
	}
}

func TestListByRequester_AppliesKeysetAndLimit(t *testing.T) {
	requesterID := uuid.New()
	after := &queries.Keyset{CreatedAt: created, ID: uuid.New()}
	rows := []borrowRequestRow{returnedRow(), returnedRow()}

	db := new(MockQuerier)
	db.On("SelectContext", mock.Anything, mock.AnythingOfType("*[]readstore.borrowRequestRow"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(1).(*[]borrowRequestRow) = rows
		}).
		Return(nil)
	store := NewCirculationReadStore(db, 0)

	views, err := store.ListByRequester(context.Background(), requesterID, after, 21)

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, rows[0].ID, views[0].ID)

	call := db.Calls[0]
	query := call.Arguments.String(2)
	args := call.Arguments.Get(3).([]any)
	assert.Contains(t, query, `ORDER BY "created_at" DESC, "id" DESC`)
	assert.Contains(t, query, "LIMIT")
	assert.Contains(t, args, requesterID.String())
	assert.Contains(t, args, after.ID.String())
}

func TestListByStatus_NilStatusListsAll(t *testing.T) {
	db := new(MockQuerier)
	db.On("SelectContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store := NewCirculationReadStore(db, 0)

	views, err := store.ListByStatus(context.Background(), nil, nil, 10)

	require.NoError(t, err)
	assert.Empty(t, views)
	assert.NotContains(t, db.Calls[0].Arguments.String(2), `"status"`+" = ")

	pending := circulation.StatusPending
	_, err = store.ListByStatus(context.Background(), &pending, nil, 10)
	require.NoError(t, err)
	assert.Contains(t, db.Calls[1].Arguments.Get(3).([]any), "pending")
}

func TestListEvents_DecodesPayload(t *testing.T) {
	requestID := uuid.New()
	rows := []eventRow{
		{
			ID: uuid.New(), RequestID: requestID, Action: "request_borrow",
			ToStatus: "pending", ActorID: uuid.New(), ActorRole: "requester",
			OccurredAt: created, Payload: []byte(`{"title_id":"4f1c6b1e-64f3-4a8b-9a5e-2f6f2c0a7d11"}`),
		},
		{
			ID: uuid.New(), RequestID: requestID, Action: "cancel",
			FromStatus: sql.NullString{String: "pending", Valid: true}, ToStatus: "cancelled",
			ActorID: uuid.New(), ActorRole: "system", OccurredAt: created.Add(time.Hour), Payload: []byte(`{}`),
		},
	}

	db := new(MockQuerier)
	db.On("SelectContext", mock.Anything, mock.AnythingOfType("*[]readstore.eventRow"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(1).(*[]eventRow) = rows
		}).
		Return(nil)
	store := NewCirculationReadStore(db, 0)

	events, err := store.ListEvents(context.Background(), requestID)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Nil(t, events[0].FromStatus)
	assert.Equal(t, "4f1c6b1e-64f3-4a8b-9a5e-2f6f2c0a7d11", events[0].Payload["title_id"])
	assert.Equal(t, "pending", *events[1].FromStatus)
	assert.Nil(t, events[1].Payload)
	assert.Contains(t, db.Calls[0].Arguments.String(2), `"seq" ASC`)
}

func TestListEvents_BadPayload(t *testing.T) {
	db := new(MockQuerier)
	db.On("SelectContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(1).(*[]eventRow) = []eventRow{{ID: uuid.New(), Payload: []byte(`{`)}}
		}).
		Return(nil)
	store := NewCirculationReadStore(db, 0)

	_, err := store.ListEvents(context.Background(), uuid.New())

	assert.True(t, errs.Is(err, errs.ErrStorageFailure))
}

func TestStockCounts(t *testing.T) {
	titleID := uuid.New()

	t.Run("success", func(t *testing.T) {
		db := new(MockQuerier)
		db.On("GetContext", mock.Anything, mock.AnythingOfType("*readstore.stockRow"), stockCountsQuery, mock.Anything).
			Run(func(args mock.Arguments) {
				*args.Get(1).(*stockRow) = stockRow{TotalCopies: 3, InFlight: 2}
			}).
			Return(nil)
		store := NewCirculationReadStore(db, 0)

		total, inFlight, err := store.StockCounts(context.Background(), titleID)

		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, 2, inFlight)

		args := db.Calls[0].Arguments.Get(3).([]any)
		assert.Equal(t, titleID.String(), args[0])
		assert.Equal(t, pq.Array([]string{"pending", "approved", "borrowed", "return_requested"}), args[1])
	})

	t.Run("unknown title", func(t *testing.T) {
		db := new(MockQuerier)
		db.On("GetContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(sql.ErrNoRows)
		store := NewCirculationReadStore(db, 0)

		_, _, err := store.StockCounts(context.Background(), titleID)

		assert.True(t, errs.Is(err, errs.ErrTitleNotFound))
	})
}

func TestRowToView_RejectsFractionalFine(t *testing.T) {
	row := returnedRow()
	row.FineAmount = sql.NullString{String: "12.50", Valid: true}

	_, err := rowToView(row)

	assert.True(t, errs.Is(err, errs.ErrStorageFailure))
}

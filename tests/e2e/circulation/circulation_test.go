//go:build e2e

package circulation_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/domain/user"
	"library-circulation/internal/handler/dto/request"
	"library-circulation/internal/handler/dto/response"
	"library-circulation/tests/common/authtest"
	"library-circulation/tests/common/dbtest"
	"library-circulation/tests/common/httptest"
	"library-circulation/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	borrowRequestsURL = "/api/borrow-requests"
	requestURL        = "/api/borrow-requests/%s"
	actionURL         = "/api/borrow-requests/%s/%s"
	availabilityURL   = "/api/titles/%s/availability"
	sweepURL          = "/api/circulation/sweep"
)

type CirculationSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *CirculationSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *CirculationSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestCirculationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CirculationSuite))
}

func (s *CirculationSuite) create(t *testing.T, token string, titleID uuid.UUID) response.BorrowRequestResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, borrowRequestsURL, request.CreateBorrowRequest{TitleID: titleID}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created response.BorrowRequestResponse
	httptest.DecodeResponseBody(t, w, &created)
	return created
}

func (s *CirculationSuite) act(t *testing.T, token string, id uuid.UUID, action string, body any, expectedStatus int) response.BorrowRequestResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(actionURL, id, action), body, token)
	require.Equal(t, expectedStatus, w.Code, w.Body.String())
	var res response.BorrowRequestResponse
	if expectedStatus == http.StatusOK {
		httptest.DecodeResponseBody(t, w, &res)
	}
	return res
}

func (s *CirculationSuite) availability(t *testing.T, token string, titleID uuid.UUID) response.AvailabilityResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(availabilityURL, titleID), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res response.AvailabilityResponse
	httptest.DecodeResponseBody(t, w, &res)
	return res
}

// =============================================================================
// Borrow creation
// =============================================================================

func (s *CirculationSuite) TestRequestBorrow() {
	s.Run("Normal case: concurrent requests never exceed the copies on the shelf", func() {
		t := s.T()
		titleID := dbtest.CreateTestTitle(t, s.DB, 3)

		const requesters = 12
		codes := make([]int, requesters)
		var wg sync.WaitGroup
		for i := range requesters {
			_, token := s.jwt.NewActorToken(t, user.RoleRequester)
			wg.Add(1)
			go func(i int, token string) {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, borrowRequestsURL, request.CreateBorrowRequest{TitleID: titleID}, token)
				codes[i] = w.Code
			}(i, token)
		}
		wg.Wait()

		created, rejected := 0, 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				rejected++
			default:
				t.Errorf("unexpected status %d", code)
			}
		}
		assert.Equal(t, 3, created)
		assert.Equal(t, requesters-3, rejected)

		_, staffToken := s.jwt.NewActorToken(t, user.RoleStaff)
		avail := s.availability(t, staffToken, titleID)
		assert.Equal(t, response.AvailabilityResponse{TitleID: titleID, TotalCopies: 3, InFlight: 3, Available: 0}, avail)
	})

	s.Run("Error case: unknown title", func() {
		t := s.T()
		_, token := s.jwt.NewActorToken(t, user.RoleRequester)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, borrowRequestsURL, request.CreateBorrowRequest{TitleID: uuid.New()}, token)

		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Title not found")
	})

	s.Run("Error case: staff cannot borrow", func() {
		t := s.T()
		titleID := dbtest.CreateTestTitle(t, s.DB, 1)
		_, token := s.jwt.NewActorToken(t, user.RoleStaff)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, borrowRequestsURL, request.CreateBorrowRequest{TitleID: titleID}, token)

		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "")
	})

	s.Run("Error case: catalog shrank below what is out", func() {
		t := s.T()
		titleID := dbtest.CreateTestTitle(t, s.DB, 2)
		_, first := s.jwt.NewActorToken(t, user.RoleRequester)
		_, second := s.jwt.NewActorToken(t, user.RoleRequester)
		s.create(t, first, titleID)
		s.create(t, first, titleID)
		dbtest.SetTotalCopies(t, s.DB, titleID, 1)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, borrowRequestsURL, request.CreateBorrowRequest{TitleID: titleID}, second)

		httptest.AssertErrorResponse(t, w, http.StatusInternalServerError, "Inconsistent stock")
		var detail struct {
			TotalCopies int `json:"total_copies"`
			InFlight    int `json:"in_flight"`
		}
		httptest.AssertErrorDetail(t, w, &detail)
		assert.Equal(t, 1, detail.TotalCopies)
		assert.Equal(t, 2, detail.InFlight)
	})
}

// =============================================================================
// Full lifecycle
// =============================================================================

func (s *CirculationSuite) TestLifecycle() {
	s.Run("Normal case: late return records the doubling fine", func() {
		t := s.T()
		titleID := dbtest.CreateTestTitle(t, s.DB, 1)
		requester, requesterToken := s.jwt.NewActorToken(t, user.RoleRequester)
		staff, staffToken := s.jwt.NewActorToken(t, user.RoleStaff)

		created := s.create(t, requesterToken, titleID)
		assert.Equal(t, requester.ID, created.RequesterID)
		assert.Equal(t, "pending", created.Status)

		approved := s.act(t, staffToken, created.ID, "approve", nil, http.StatusOK)
		assert.Equal(t, "approved", approved.Status)
		require.NotNil(t, approved.ActedBy)
		assert.Equal(t, staff.ID, *approved.ActedBy)

		today := circulation.StartOfDay(time.Now(), time.UTC)
		pickup := today.AddDate(0, 0, -10)
		pickupDate := pickup.Format(time.DateOnly)
		borrowed := s.act(t, staffToken, created.ID, "pickup", request.PickupRequest{PickupDate: &pickupDate}, http.StatusOK)
		assert.Equal(t, "borrowed", borrowed.Status)
		require.NotNil(t, borrowed.DueDate)
		assert.True(t, pickup.AddDate(0, 0, 7).Equal(*borrowed.DueDate), "due %s", borrowed.DueDate)

		s.act(t, requesterToken, created.ID, "return-request", nil, http.StatusOK)
		returned := s.act(t, staffToken, created.ID, "return-confirm", nil, http.StatusOK)

		assert.Equal(t, "returned", returned.Status)
		require.NotNil(t, returned.LateDays)
		assert.Equal(t, 3, *returned.LateDays)
		require.NotNil(t, returned.FineAmount)
		assert.Equal(t, "8000", returned.FineAmount.String())
		require.NotNil(t, returned.ReturnDate)
		assert.True(t, today.Equal(*returned.ReturnDate))

		// re-confirming is a no-op and keeps the original fine
		again := s.act(t, staffToken, created.ID, "return-confirm", nil, http.StatusOK)
		if diff := cmp.Diff(returned.FineAmount.String(), again.FineAmount.String()); diff != "" {
			t.Errorf("fine changed on re-confirm (-want +got):\n%s", diff)
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(actionURL, created.ID, "history"), nil, requesterToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var history []response.CirculationEventResponse
		httptest.DecodeResponseBody(t, w, &history)
		actions := make([]string, len(history))
		for i, ev := range history {
			actions[i] = ev.Action
		}
		assert.Equal(t, []string{"request_borrow", "approve", "mark_picked_up", "request_return", "confirm_return"}, actions)
		assert.Nil(t, history[0].FromStatus)
		assert.Equal(t, 5, dbtest.CountEvents(t, s.DB, created.ID))

		avail := s.availability(t, staffToken, titleID)
		assert.Equal(t, 1, avail.Available)
	})

	s.Run("Error case: out-of-order transition reports the expected states", func() {
		t := s.T()
		titleID := dbtest.CreateTestTitle(t, s.DB, 1)
		_, requesterToken := s.jwt.NewActorToken(t, user.RoleRequester)
		created := s.create(t, requesterToken, titleID)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(actionURL, created.ID, "return-request"), nil, requesterToken)

		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Invalid status transition")
		var detail struct {
			Action   string   `json:"action"`
			Expected []string `json:"expected"`
			Actual   string   `json:"actual"`
		}
		httptest.AssertErrorDetail(t, w, &detail)
		assert.Equal(t, "request_return", detail.Action)
		assert.Equal(t, []string{"borrowed"}, detail.Expected)
		assert.Equal(t, "pending", detail.Actual)
	})

	s.Run("Error case: requesters only see their own requests", func() {
		t := s.T()
		titleID := dbtest.CreateTestTitle(t, s.DB, 1)
		_, owner := s.jwt.NewActorToken(t, user.RoleRequester)
		_, other := s.jwt.NewActorToken(t, user.RoleRequester)
		created := s.create(t, owner, titleID)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(requestURL, created.ID), nil, other)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(actionURL, created.ID, "cancel"), nil, other)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "")
	})
}

// =============================================================================
// Reject: staff before approval only, admin at any in-flight stage
// =============================================================================

func (s *CirculationSuite) TestReject() {
	s.Run("Staff cannot reverse an approval but admin can", func() {
		t := s.T()
		titleID := dbtest.CreateTestTitle(t, s.DB, 1)
		_, requesterToken := s.jwt.NewActorToken(t, user.RoleRequester)
		_, staffToken := s.jwt.NewActorToken(t, user.RoleStaff)
		_, adminToken := s.jwt.NewActorToken(t, user.RoleAdmin)

		created := s.create(t, requesterToken, titleID)
		s.act(t, staffToken, created.ID, "approve", nil, http.StatusOK)

		s.act(t, staffToken, created.ID, "reject", nil, http.StatusForbidden)
		rejected := s.act(t, adminToken, created.ID, "reject", nil, http.StatusOK)
		assert.Equal(t, "cancelled", rejected.Status)

		// the copy is back on the shelf
		s.create(t, requesterToken, titleID)
	})
}

// =============================================================================
// Expiry sweep
// =============================================================================

func (s *CirculationSuite) TestSweep() {
	s.Run("Normal case: stale pending requests are cancelled by the system", func() {
		t := s.T()
		titleID := dbtest.CreateTestTitle(t, s.DB, 2)
		_, requesterToken := s.jwt.NewActorToken(t, user.RoleRequester)
		_, adminToken := s.jwt.NewActorToken(t, user.RoleAdmin)

		stale := s.create(t, requesterToken, titleID)
		fresh := s.create(t, requesterToken, titleID)
		dbtest.BackdateRequest(t, s.DB, stale.ID, time.Now().Add(-2*time.Hour))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, sweepURL, nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result response.SweepResponse
		httptest.DecodeResponseBody(t, w, &result)
		assert.Equal(t, 1, result.CancelledCount)
		assert.Equal(t, []uuid.UUID{stale.ID}, result.CancelledIDs)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(actionURL, stale.ID, "history"), nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code)
		var history []response.CirculationEventResponse
		httptest.DecodeResponseBody(t, w, &history)
		require.Len(t, history, 2)
		assert.Equal(t, "system", history[1].ActorRole)
		assert.Equal(t, "cancelled", history[1].ToStatus)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(requestURL, fresh.ID), nil, requesterToken)
		var still response.BorrowRequestResponse
		httptest.DecodeResponseBody(t, w, &still)
		assert.Equal(t, "pending", still.Status)
	})

	s.Run("Error case: only admins trigger the sweep", func() {
		t := s.T()
		_, staffToken := s.jwt.NewActorToken(t, user.RoleStaff)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, sweepURL, nil, staffToken)

		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Insufficient permissions")
	})
}

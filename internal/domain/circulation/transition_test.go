//go:build unit

package circulation_test

import (
	"errors"
	"testing"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/domain/user"
	"library-circulation/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decideCase struct {
	name    string
	action  circulation.Action
	current circulation.Status
	role    user.Role
	owner   bool
	wantTo  circulation.Status
	wantNop bool
	wantErr error
}

func runDecideCases(t *testing.T, cases []decideCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			requesterID := uuid.New()
			actorID := uuid.New()
			if tc.owner {
				actorID = requesterID
			}
			if tc.role == user.RoleSystem {
				actorID = uuid.Nil
			}

			d, err := circulation.Decide(tc.action, tc.current, user.NewActor(actorID, tc.role), requesterID)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTo, d.To)
			assert.Equal(t, tc.current, d.From)
			assert.Equal(t, tc.wantNop, d.NoOp)
		})
	}
}

func TestDecide_ForwardPath(t *testing.T) {
	runDecideCases(t, []decideCase{
		{name: "staff approves", action: circulation.ActionApprove, current: circulation.StatusPending, role: user.RoleStaff, wantTo: circulation.StatusApproved},
		{name: "admin approves", action: circulation.ActionApprove, current: circulation.StatusPending, role: user.RoleAdmin, wantTo: circulation.StatusApproved},
		{name: "staff marks pickup", action: circulation.ActionMarkPickedUp, current: circulation.StatusApproved, role: user.RoleStaff, wantTo: circulation.StatusBorrowed},
		{name: "owner requests return", action: circulation.ActionRequestReturn, current: circulation.StatusBorrowed, role: user.RoleRequester, owner: true, wantTo: circulation.StatusReturnRequested},
		{name: "staff confirms return", action: circulation.ActionConfirmReturn, current: circulation.StatusReturnRequested, role: user.RoleStaff, wantTo: circulation.StatusReturned},
	})
}

func TestDecide_CancelAndReject(t *testing.T) {
	runDecideCases(t, []decideCase{
		{name: "owner cancels pending", action: circulation.ActionCancel, current: circulation.StatusPending, role: user.RoleRequester, owner: true, wantTo: circulation.StatusCancelled},
		{name: "system cancels pending", action: circulation.ActionCancel, current: circulation.StatusPending, role: user.RoleSystem, wantTo: circulation.StatusCancelled},
		{name: "admin cancels borrowed", action: circulation.ActionCancel, current: circulation.StatusBorrowed, role: user.RoleAdmin, wantTo: circulation.StatusCancelled},
		{name: "owner cannot cancel approved", action: circulation.ActionCancel, current: circulation.StatusApproved, role: user.RoleRequester, owner: true, wantErr: errs.ErrUnauthorized},
		{name: "staff cannot cancel", action: circulation.ActionCancel, current: circulation.StatusPending, role: user.RoleStaff, wantErr: errs.ErrUnauthorized},
		{name: "staff rejects pending", action: circulation.ActionReject, current: circulation.StatusPending, role: user.RoleStaff, wantTo: circulation.StatusCancelled},
		{name: "staff cannot reject approved", action: circulation.ActionReject, current: circulation.StatusApproved, role: user.RoleStaff, wantErr: errs.ErrUnauthorized},
		{name: "admin rejects approved", action: circulation.ActionReject, current: circulation.StatusApproved, role: user.RoleAdmin, wantTo: circulation.StatusCancelled},
		{name: "admin rejects return requested", action: circulation.ActionReject, current: circulation.StatusReturnRequested, role: user.RoleAdmin, wantTo: circulation.StatusCancelled},
		{name: "cancel on cancelled is a no-op", action: circulation.ActionCancel, current: circulation.StatusCancelled, role: user.RoleRequester, owner: true, wantTo: circulation.StatusCancelled, wantNop: true},
		{name: "reject on cancelled is a no-op", action: circulation.ActionReject, current: circulation.StatusCancelled, role: user.RoleStaff, wantTo: circulation.StatusCancelled, wantNop: true},
		{name: "confirm on returned is a no-op", action: circulation.ActionConfirmReturn, current: circulation.StatusReturned, role: user.RoleStaff, wantTo: circulation.StatusReturned, wantNop: true},
		{name: "admin cannot cancel returned", action: circulation.ActionCancel, current: circulation.StatusReturned, role: user.RoleAdmin, wantErr: errs.ErrInvalidTransition},
	})
}

func TestDecide_Authorization(t *testing.T) {
	runDecideCases(t, []decideCase{
		{name: "requester cannot approve", action: circulation.ActionApprove, current: circulation.StatusPending, role: user.RoleRequester, owner: true, wantErr: errs.ErrUnauthorized},
		{name: "staff cannot request return", action: circulation.ActionRequestReturn, current: circulation.StatusBorrowed, role: user.RoleStaff, wantErr: errs.ErrUnauthorized},
		{name: "non-owner cannot request return", action: circulation.ActionRequestReturn, current: circulation.StatusBorrowed, role: user.RoleRequester, wantErr: errs.ErrUnauthorized},
		{name: "non-owner cannot cancel", action: circulation.ActionCancel, current: circulation.StatusPending, role: user.RoleRequester, wantErr: errs.ErrUnauthorized},
		{name: "system cannot approve", action: circulation.ActionApprove, current: circulation.StatusPending, role: user.RoleSystem, wantErr: errs.ErrUnauthorized},
		{name: "unauthorized wins over wrong status", action: circulation.ActionApprove, current: circulation.StatusBorrowed, role: user.RoleRequester, owner: true, wantErr: errs.ErrUnauthorized},
	})
}

func TestDecide_InvalidTransitionDetails(t *testing.T) {
	_, err := circulation.Decide(circulation.ActionApprove, circulation.StatusBorrowed, user.NewActor(uuid.New(), user.RoleStaff), uuid.New())
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrInvalidTransition))

	var te *circulation.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, []circulation.Status{circulation.StatusPending}, te.Expected)
	assert.Equal(t, circulation.StatusBorrowed, te.Actual)
	assert.Equal(t, circulation.ActionApprove, te.Action)
}

func TestDecide_UnknownAction(t *testing.T) {
	_, err := circulation.Decide("renew", circulation.StatusBorrowed, user.NewActor(uuid.New(), user.RoleAdmin), uuid.New())
	assert.True(t, errs.Is(err, errs.ErrInvalidInput))
}

func TestCanCreate(t *testing.T) {
	assert.NoError(t, circulation.CanCreate(user.NewActor(uuid.New(), user.RoleRequester)))
	assert.True(t, errs.Is(circulation.CanCreate(user.NewActor(uuid.New(), user.RoleStaff)), errs.ErrUnauthorized))
	assert.True(t, errs.Is(circulation.CanCreate(user.SystemActor()), errs.ErrUnauthorized))
	assert.True(t, errs.Is(circulation.CanCreate(user.NewActor(uuid.Nil, user.RoleRequester)), errs.ErrInvalidInput))
}

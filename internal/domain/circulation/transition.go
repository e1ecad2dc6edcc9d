package circulation

import (
	"slices"

	"library-circulation/internal/domain/user"
	"library-circulation/internal/pkg/errs"

	"github.com/google/uuid"
)

type Action string

const (
	ActionRequestBorrow Action = "request_borrow"
	ActionApprove       Action = "approve"
	ActionMarkPickedUp  Action = "mark_picked_up"
	ActionRequestReturn Action = "request_return"
	ActionConfirmReturn Action = "confirm_return"
	ActionCancel        Action = "cancel"
	ActionReject        Action = "reject"
)

func (a Action) String() string {
	return string(a)
}

type rule struct {
	from   []Status
	to     Status
	actors []user.Role
}

var postPending = []Status{StatusApproved, StatusBorrowed, StatusReturnRequested}

// transitionTable is the single source of truth for status moves and who may make them.
// Staff can advance a request but never reverse it once it has left pending.
var transitionTable = map[Action][]rule{
	ActionApprove: {
		{from: []Status{StatusPending}, to: StatusApproved, actors: []user.Role{user.RoleStaff, user.RoleAdmin}},
	},
	ActionMarkPickedUp: {
		{from: []Status{StatusApproved}, to: StatusBorrowed, actors: []user.Role{user.RoleStaff, user.RoleAdmin}},
	},
	ActionRequestReturn: {
		{from: []Status{StatusBorrowed}, to: StatusReturnRequested, actors: []user.Role{user.RoleRequester}},
	},
	ActionConfirmReturn: {
		{from: []Status{StatusReturnRequested}, to: StatusReturned, actors: []user.Role{user.RoleStaff, user.RoleAdmin}},
	},
	ActionCancel: {
		{from: []Status{StatusPending}, to: StatusCancelled, actors: []user.Role{user.RoleRequester, user.RoleSystem, user.RoleAdmin}},
		{from: postPending, to: StatusCancelled, actors: []user.Role{user.RoleAdmin}},
	},
	ActionReject: {
		{from: []Status{StatusPending}, to: StatusCancelled, actors: []user.Role{user.RoleStaff, user.RoleAdmin}},
		{from: postPending, to: StatusCancelled, actors: []user.Role{user.RoleAdmin}},
	},
}

// Decision is the outcome of checking an action against the transition table.
type Decision struct {
	Action Action
	From   Status
	To     Status
	// NoOp is set when a terminal transition is re-applied to a request already in that state.
	NoOp bool
}

// Decide validates action for a request currently in status owned by requesterID.
// It never mutates anything; callers apply the decision.
func Decide(action Action, current Status, actor user.Actor, requesterID uuid.UUID) (Decision, error) {
	rules, ok := transitionTable[action]
	if !ok {
		return Decision{}, errs.Markf(errs.ErrInvalidInput, "unknown action %q", action)
	}

	if !slices.ContainsFunc(rules, func(r rule) bool { return slices.Contains(r.actors, actor.Role) }) {
		return Decision{}, errs.Wrapf(ErrRoleNotPermitted, "%s cannot %s", actor.Role, action)
	}
	if err := checkOwnership(actor, requesterID); err != nil {
		return Decision{}, err
	}

	for _, r := range rules {
		if current == r.to && r.to.IsTerminal() {
			return Decision{Action: action, From: current, To: current, NoOp: true}, nil
		}
	}

	for _, r := range rules {
		if !slices.Contains(r.from, current) {
			continue
		}
		if !slices.Contains(r.actors, actor.Role) {
			return Decision{}, errs.Wrapf(ErrRoleNotPermitted, "%s cannot %s a request in status %s", actor.Role, action, current)
		}
		return Decision{Action: action, From: current, To: r.to}, nil
	}

	return Decision{}, &TransitionError{Action: action, Expected: expectedFrom(rules), Actual: current}
}

// CanCreate checks the actor side of request_borrow; stock is checked separately.
func CanCreate(actor user.Actor) error {
	if actor.Role != user.RoleRequester {
		return errs.Wrapf(ErrRoleNotPermitted, "%s cannot %s", actor.Role, ActionRequestBorrow)
	}
	if actor.ID == uuid.Nil {
		return errs.Markf(errs.ErrInvalidInput, "requester id is required")
	}
	return nil
}

func checkOwnership(actor user.Actor, requesterID uuid.UUID) error {
	if actor.Role == user.RoleRequester && actor.ID != requesterID {
		return ErrNotOwner
	}
	return nil
}

func expectedFrom(rules []rule) []Status {
	var out []Status
	for _, r := range rules {
		for _, s := range r.from {
			if !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	return out
}

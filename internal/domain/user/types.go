package user

import "errors"

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleRequester Role = "requester"
	RoleStaff     Role = "staff"
	RoleAdmin     Role = "admin"
	// RoleSystem is never issued to a person; the expiry sweeper acts under it.
	RoleSystem Role = "system"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleRequester, RoleStaff, RoleAdmin, RoleSystem:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role belongs to library personnel.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// NewRole parses a role coming from the identity service. System is rejected there.
func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() || role == RoleSystem {
		return "", ErrInvalidRole
	}
	return role, nil
}

package models

import "errors"

// ErrSuperuserAccount is returned when an environment superuser attempts an
// operation that requires a persisted account row (cart, orders, stock).
var ErrSuperuserAccount = errors.New("environment superusers have no persisted account")

// Principal is the authenticated actor attached to every request. It is either
// a persisted user (numeric UserID) or an environment superuser provisioned
// from ADMIN_EMAIL/ADMIN_PASSWORD, which never touches the users table.
type Principal struct {
	UserID             uint   `json:"user_id"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	AssignedLocationID *uint  `json:"assigned_location_id,omitempty"`
	Superuser          bool   `json:"superuser,omitempty"`
	Label              string `json:"label,omitempty"` // superuser display label, e.g. "env-admin-0"
}

// AccountID returns the persisted user id, or ErrSuperuserAccount for
// environment superusers. Cart, order and stock mutations must go through
// this instead of reading UserID directly.
func (p Principal) AccountID() (uint, error) {
	if p.Superuser {
		return 0, ErrSuperuserAccount
	}
	return p.UserID, nil
}

// Policy returns the capability set for this principal's role.
func (p Principal) Policy() Policy {
	return PolicyFor(p.Role)
}

package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Role is the closed set of caller roles the service trusts. The caller's
// identity and role arrive already resolved; the core only scopes access
// with them.
type Role int

const (
	// RoleUnknown is the zero value and is never a valid caller role.
	RoleUnknown Role = iota

	// RoleCustomer is a buyer; sees only their own orders.
	RoleCustomer

	// RoleSeller is a marketplace seller; an elevated role for order listing.
	RoleSeller

	// RoleAdmin is back-office staff with full access.
	RoleAdmin
)

func roleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "unknown",
		RoleCustomer: "customer",
		RoleSeller:   "seller",
		RoleAdmin:    "admin",
	}
}

// RoleFromString maps the wire representation of a role onto the enum.
// Unrecognized values are rejected at this single validation boundary.
func RoleFromString(s string) (Role, error) {
	for role, str := range roleStrings() {
		if role != RoleUnknown && str == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a known role", s))
}

// String returns the wire representation of the role.
func (r Role) String() string {
	if s, ok := roleStrings()[r]; ok {
		return s
	}
	return "unknown"
}

// Validate rejects RoleUnknown and out-of-range values.
func (r Role) Validate() error {
	if r != RoleCustomer && r != RoleSeller && r != RoleAdmin {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// IsElevated reports whether the role may see orders beyond its own.
// Sellers and admins are elevated; customers are not.
func (r Role) IsElevated() bool {
	return r == RoleSeller || r == RoleAdmin
}

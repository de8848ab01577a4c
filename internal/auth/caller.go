package auth

import (
	"github.com/rahulnair/bank-backoffice/internal/errors"
)

// Role is the closed set of caller roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee || r == RoleCustomer
}

// IsStaff reports whether the role bypasses ownership checks.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Caller is the authenticated identity resolved from a verified bearer token.
// ID is the employee id for staff roles and the customer id for customers.
type Caller struct {
	ID   string
	Role Role
}

// RequireRole fails with ErrForbidden unless the caller's role is in the
// allowed set.
func RequireRole(c Caller, allowed ...Role) error {
	for _, r := range allowed {
		if c.Role == r {
			return nil
		}
	}
	return errors.ErrForbidden
}

// RequireOwnerOrStaff allows staff unconditionally, and customers only when
// they own the resource.
func RequireOwnerOrStaff(c Caller, ownerCustomerID string) error {
	if c.Role.IsStaff() {
		return nil
	}
	if c.Role == RoleCustomer && c.ID == ownerCustomerID {
		return nil
	}
	return errors.ErrForbidden
}

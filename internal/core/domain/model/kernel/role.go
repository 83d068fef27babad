package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Role identifies which of the three platform actors a verified identity
// belongs to. Roles are derived exclusively from verified credentials at
// connection time and are never trusted from inbound event payloads.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	// This value (0) helps catch uninitialized Role values.
	RoleUnknown Role = iota

	// RoleCustomer places orders and owns exactly one cart.
	RoleCustomer

	// RolePartner delivers orders and races other partners to claim them.
	RolePartner

	// RoleAdmin observes every order and may apply operational overrides.
	RoleAdmin
)

// getValidRoleStrings returns the mapping of valid Role values to their wire names.
func getValidRoleStrings() map[Role]string {
	//nolint:exhaustive // RoleUnknown is intentionally excluded as it's invalid
	return map[Role]string{
		RoleCustomer: "customer",
		RolePartner:  "partner",
		RoleAdmin:    "admin",
	}
}

// RoleFromString parses a role from its wire representation.
// Returns an error for anything other than "customer", "partner", or "admin".
func RoleFromString(s string) (Role, error) {
	for role, name := range getValidRoleStrings() {
		if name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a valid role", s))
}

// Validate checks if the Role value is valid.
// Valid roles are: RoleCustomer, RolePartner, RoleAdmin.
func (r Role) Validate() error {
	if _, ok := getValidRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the wire name of the role, or "unknown" for invalid values.
// Implements the fmt.Stringer interface.
func (r Role) String() string {
	if s, ok := getValidRoleStrings()[r]; ok {
		return s
	}
	return "unknown"
}

package entity

import (
	"github.com/google/uuid"
)

type UserRole string

const (
	RoleOwner    UserRole = "Owner"
	RoleManager  UserRole = "Manager"
	RoleEmployee UserRole = "Employee"
	// Declared for later use; no flow assigns them yet.
	RoleCashier UserRole = "Cashier"
	RoleAuditor UserRole = "Auditor"
)

// IsTeam reports whether the role may use the team login.
func (r UserRole) IsTeam() bool {
	return r == RoleManager || r == RoleEmployee
}

// User is the profile row in "users". ID equals the auth identity id.
type User struct {
	BaseSimple `mapstructure:",squash"`
	Name       string    `db:"name" mapstructure:"name"`
	Email      string    `db:"email" mapstructure:"email"`
	Phone      string    `db:"phone" mapstructure:"phone"`
	Role       UserRole  `db:"role" mapstructure:"role"`
	OrgID      uuid.UUID `db:"org_id" mapstructure:"org_id"`
}

package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Receives and reviews alarms of their reports
	RoleEmployee Role = "employee" // Regular employee
	RolePending  Role = "pending"  // Still in onboarding
)

// IsManager reports whether the role may review compliance alarms.
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleOwner
}

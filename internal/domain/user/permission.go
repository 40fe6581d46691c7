package user

import "slices"

type Permission string

const (
	// Compliance
	PermissionComplianceEvaluate Permission = "compliance.evaluate"
	PermissionComplianceViewAll  Permission = "compliance.view_all"
	PermissionComplianceViewTeam Permission = "compliance.view_team"
	PermissionComplianceStream   Permission = "compliance.stream"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionComplianceEvaluate,
		PermissionComplianceViewAll,
		PermissionComplianceViewTeam,
		PermissionComplianceStream,
	},
	RoleManager: {
		// Manager only sees alarms addressed to them
		PermissionComplianceEvaluate,
		PermissionComplianceViewTeam,
		PermissionComplianceStream,
	},
	RoleEmployee: {},
	RolePending:  {},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	return slices.Contains(permissions, permission)
}

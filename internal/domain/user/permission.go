package user

import "slices"

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"

	// Time Entries
	PermissionTimeEntryCreate  Permission = "time_entry.create"
	PermissionTimeEntryViewOwn Permission = "time_entry.view_own"
	PermissionTimeEntryViewAll Permission = "time_entry.view_all"

	// Staff Management
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"

	// Facility
	PermissionFacilityView   Permission = "facility.view"
	PermissionFacilityManage Permission = "facility.manage"

	// Signup Requests
	PermissionSignupReview Permission = "signup.review"

	// Reports
	PermissionAnalyticsView Permission = "analytics.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleManager: {
		PermissionViewOwnProfile,
		PermissionTimeEntryCreate,
		PermissionTimeEntryViewOwn,
		PermissionTimeEntryViewAll,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionFacilityView,
		PermissionFacilityManage,
		PermissionSignupReview,
		PermissionAnalyticsView,
	},
	RoleEmployee: {
		// Care workers clock themselves and check the perimeter
		PermissionViewOwnProfile,
		PermissionTimeEntryCreate,
		PermissionTimeEntryViewOwn,
		PermissionFacilityView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	return slices.Contains(permissions, permission)
}

package user

import "slices"

type Permission string

const (
	PermissionViewOwnProfile    Permission = "profile.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"

	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionReportsView       Permission = "reports.view"
	PermissionReportsExport     Permission = "reports.export"
)

// Employees act on their own records only. Managers never check in and
// see everyone.
var rolePermissions = map[Role][]Permission{
	RoleEmployee: {PermissionViewOwnProfile, PermissionAttendanceCreate, PermissionAttendanceViewOwn},
	RoleManager:  {PermissionViewOwnProfile, PermissionAttendanceViewAll, PermissionReportsView, PermissionReportsExport},
}

// Permissions returns a copy of the role's grants; unknown roles get none.
func Permissions(role Role) []Permission {
	return slices.Clone(rolePermissions[role])
}

func HasPermission(role Role, permission Permission) bool {
	return slices.Contains(rolePermissions[role], permission)
}

package model

// Permission is a named capability grantable to a non-superadmin admin.
// The catalog is closed: keys live in the permissions table and here; the
// two must stay in sync (see migrations/000001_init.up.sql).
type Permission string

const (
	// PermissionEvents allows creating, updating, and deleting events.
	PermissionEvents Permission = "events"

	// PermissionMembers allows managing member profiles other than one's own.
	PermissionMembers Permission = "members"

	// PermissionUsers allows viewing the admin user administration screens.
	// Creating or deleting admin accounts still requires the superadmin role.
	PermissionUsers Permission = "users"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionEvents,
	PermissionMembers,
	PermissionUsers,
}

// KnownPermission reports whether key is part of the catalog. Checking an
// unknown key anywhere in the authorization path is a deployment bug, not a
// user error.
func KnownPermission(key Permission) bool {
	for _, p := range AllPermissions {
		if p == key {
			return true
		}
	}
	return false
}

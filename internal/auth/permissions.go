package auth

import "slices"

// Permission constants define the available permissions in the system.
const (
	// PermSuperuser allows managing users, roles and permissions.
	PermSuperuser = "superuser"
	// PermAll grants every permission check.
	PermAll = "all"

	// PermLocationsManage allows creating, updating and deleting locations and assigning users to them.
	PermLocationsManage = "locations.manage"
	// PermCamerasManage allows creating cameras and reading owner details.
	PermCamerasManage = "cameras.manage"
	// PermVideosManage allows uploading, updating and deleting videos.
	PermVideosManage = "videos.manage"
	// PermEventsManage allows creating, updating and deleting events.
	PermEventsManage = "events.manage"

	// RoleAdmin is the role name granted every permission.
	RoleAdmin = "admin"
)

// aliases maps both spellings of a permission onto each other.
var aliases = func() map[string]string { //nolint:gochecknoglobals
	pairs := [][2]string{
		{"manage_locations", PermLocationsManage},
		{"manage_cameras", PermCamerasManage},
		{"manage_videos", PermVideosManage},
		{"manage_events", PermEventsManage},
	}

	m := make(map[string]string, 2*len(pairs))
	for _, p := range pairs {
		m[p[0]] = p[1]
		m[p[1]] = p[0]
	}

	return m
}()

// Alias returns the other spelling of permission, or "" if it has none.
func Alias(permission string) string {
	return aliases[permission]
}

// Granted reports whether a role with the given name and permission names passes a check for requested.
func Granted(roleName string, permissions []string, requested string) bool {
	if roleName == RoleAdmin {
		return true
	}

	if slices.Contains(permissions, PermAll) || slices.Contains(permissions, requested) {
		return true
	}

	alias := Alias(requested)

	return alias != "" && slices.Contains(permissions, alias)
}

// Defaults are the permissions created on first start.
func Defaults() map[string]string {
	return map[string]string{
		PermSuperuser:       "Manage users, roles and permissions",
		PermAll:             "Every permission",
		PermLocationsManage: "Manage locations and their users",
		PermCamerasManage:   "Create cameras and view owners",
		PermVideosManage:    "Upload and manage videos",
		PermEventsManage:    "Create and manage events",
	}
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGranted(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		perms     []string
		requested string
		want      bool
	}{
		{"admin role without permissions", RoleAdmin, nil, PermCamerasManage, true},
		{"admin role anything", RoleAdmin, nil, "anything.at.all", true},
		{"all permission", "operator", []string{PermAll}, PermVideosManage, true},
		{"direct match", "operator", []string{PermCamerasManage}, PermCamerasManage, true},
		{"dotted grant satisfies underscore request", "operator", []string{"locations.manage"}, "manage_locations", true},
		{"underscore grant satisfies dotted request", "operator", []string{"manage_locations"}, "locations.manage", true},
		{"other permission", "operator", []string{PermEventsManage}, PermCamerasManage, false},
		{"alias of other permission", "operator", []string{"manage_events"}, PermCamerasManage, false},
		{"no role", "", nil, PermCamerasManage, false},
		{"role named like admin", "Admin", nil, PermCamerasManage, false},
		{"unaliased permission", "viewer", []string{"manage_everything"}, PermSuperuser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Granted(tt.role, tt.perms, tt.requested))
		})
	}
}

func TestAliasSymmetry(t *testing.T) {
	for from, to := range aliases {
		assert.Equal(t, from, Alias(to), "alias of %s", to)
		assert.True(t, Granted("r", []string{from}, to))
		assert.True(t, Granted("r", []string{to}, from))
	}

	assert.Len(t, aliases, 8)
	assert.Empty(t, Alias(PermSuperuser))
}

func TestDefaults(t *testing.T) {
	d := Defaults()

	for _, name := range []string{PermSuperuser, PermAll, PermLocationsManage, PermCamerasManage, PermVideosManage, PermEventsManage} {
		assert.Contains(t, d, name)
	}
}

package auth

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/dbtest"
	"github.com/vigil-vms/vigil/internal/db/models"
)

const testPassword = "correct horse battery"

func createUser(t *testing.T, db *gorm.DB, email, roleName string, active bool, perms ...string) *models.User {
	t.Helper()

	user := &models.User{Email: email, IsActive: active}

	hashed, err := models.HashPassword(testPassword)
	require.NoError(t, err)
	user.HashedPassword = hashed

	if roleName != "" {
		role := models.Role{Name: roleName}
		for _, name := range perms {
			role.Permissions = append(role.Permissions, models.Permission{Name: name})
		}

		require.NoError(t, db.Create(&role).Error)
		user.RoleID = &role.ID
	}

	require.NoError(t, db.Omit("Role").Create(user).Error)

	return user
}

func TestServiceHasPermission(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	svc := NewService(db)

	admin := createUser(t, db, "admin@example.com", RoleAdmin, true)
	operator := createUser(t, db, "op@example.com", "operator", true, PermCamerasManage)
	legacy := createUser(t, db, "legacy@example.com", "legacy", true, "manage_locations")
	everything := createUser(t, db, "all@example.com", "root", true, PermAll)
	noRole := createUser(t, db, "none@example.com", "", true)

	tests := []struct {
		name string
		user uint
		perm string
		want bool
	}{
		{"admin without explicit permission", admin.ID, PermCamerasManage, true},
		{"operator own permission", operator.ID, PermCamerasManage, true},
		{"operator underscore alias", operator.ID, "manage_cameras", true},
		{"operator other permission", operator.ID, PermVideosManage, false},
		{"legacy grant dotted request", legacy.ID, PermLocationsManage, true},
		{"all grants superuser", everything.ID, PermSuperuser, true},
		{"no role", noRole.ID, PermCamerasManage, false},
		{"unknown user", 9999, PermCamerasManage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.HasPermission(ctx, tt.user, tt.perm)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			err = svc.RequirePermission(ctx, tt.user, tt.perm)
			if tt.want {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}

	perms, err := svc.GetUserPermissions(ctx, operator.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{PermCamerasManage}, perms)
}

func TestLocalProviderAuthenticate(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	p := NewLocalProvider(db)

	active := createUser(t, db, "active@example.com", "", true)
	createUser(t, db, "inactive@example.com", "", false)

	user, err := p.Authenticate(ctx, "active@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, active.ID, user.ID)

	_, err = p.Authenticate(ctx, "active@example.com", "wrong password")
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = p.Authenticate(ctx, "nobody@example.com", testPassword)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = p.Authenticate(ctx, "inactive@example.com", testPassword)
	require.ErrorIs(t, err, ErrUserAccountDisabled)

	// a wrong password does not reveal the account state
	_, err = p.Authenticate(ctx, "inactive@example.com", "wrong password")
	require.ErrorIs(t, err, ErrInvalidPassword)
}

func TestLocalProviderUnknownEmailHashes(t *testing.T) {
	db := dbtest.Open(t)
	p := NewLocalProvider(db)

	var hashes []string
	compareHash = func(password, hash string) (bool, error) {
		hashes = append(hashes, hash)

		return argon2id.ComparePasswordAndHash(password, hash)
	}
	t.Cleanup(func() { compareHash = argon2id.ComparePasswordAndHash })

	_, err := p.Authenticate(context.Background(), "nobody@example.com", testPassword)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.Len(t, hashes, 1)
	assert.Equal(t, dummyHash(), hashes[0])

	_, _, _, err = argon2id.DecodeHash(hashes[0])
	require.NoError(t, err)
}

func TestMiddleware(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)
	tokens := NewTokenManager(testSecret, time.Minute, time.Hour)

	operator := createUser(t, db, "op@example.com", "operator", true, PermCamerasManage)
	inactive := createUser(t, db, "off@example.com", "", false)

	app := fiber.New()
	api := app.Group("/api", Authenticate(tokens, svc))
	api.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Email)
	})
	api.Get("/cameras", RequirePermission(svc, PermCamerasManage), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	api.Get("/videos", RequirePermission(svc, PermVideosManage), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	api.Get("/any", RequireAnyPermission(svc, PermVideosManage, "manage_cameras"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	bearer := func(id uint, typ TokenType) string {
		pair, err := tokens.Issue(id)
		require.NoError(t, err)

		if typ == TokenRefresh {
			return "Bearer " + pair.RefreshToken
		}

		return "Bearer " + pair.AccessToken
	}

	tests := []struct {
		name   string
		path   string
		auth   string
		status int
		body   string
	}{
		{"no header", "/api/me", "", fiber.StatusUnauthorized, "Could not validate credentials"},
		{"wrong scheme", "/api/me", "Basic abc", fiber.StatusUnauthorized, ""},
		{"garbage token", "/api/me", "Bearer abc", fiber.StatusUnauthorized, ""},
		{"refresh token", "/api/me", bearer(operator.ID, TokenRefresh), fiber.StatusUnauthorized, ""},
		{"unknown subject", "/api/me", bearer(4242, TokenAccess), fiber.StatusUnauthorized, ""},
		{"inactive user", "/api/me", bearer(inactive.ID, TokenAccess), fiber.StatusForbidden, "Inactive user"},
		{"valid", "/api/me", bearer(operator.ID, TokenAccess), fiber.StatusOK, "op@example.com"},
		{"lowercase scheme", "/api/me", "bearer " + bearer(operator.ID, TokenAccess)[7:], fiber.StatusOK, ""},
		{"permission granted", "/api/cameras", bearer(operator.ID, TokenAccess), fiber.StatusOK, ""},
		{"permission denied", "/api/videos", bearer(operator.ID, TokenAccess), fiber.StatusForbidden, "Not enough permissions"},
		{"any permission via alias", "/api/any", bearer(operator.ID, TokenAccess), fiber.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.auth)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.status == fiber.StatusUnauthorized {
				assert.Equal(t, "Bearer", resp.Header.Get(fiber.HeaderWWWAuthenticate))
			}

			if tt.body != "" {
				b, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Contains(t, string(b), tt.body)
			}
		})
	}
}

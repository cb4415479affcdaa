package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/vigil-vms/vigil/internal/db/models"
)

const (
	// LocalsUser is the fiber.Locals key of the authenticated *models.User.
	LocalsUser = "user"
	// LocalsUserID is the fiber.Locals key of the authenticated user id (uint).
	LocalsUserID = "user_id"

	bearerPrefix = "bearer "

	msgInactiveUser = "Inactive user"
)

// Unauthorized answers with 401 and a bearer challenge.
func Unauthorized(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Could not validate credentials"})
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(header[len(bearerPrefix):])
}

// Authenticate creates Fiber middleware resolving the bearer token to an active user.
func Authenticate(tokens *TokenManager, authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := tokens.Parse(BearerToken(c), TokenAccess)
		if err != nil {
			ev := log.Debug()
			if !errors.Is(err, ErrTokenMissing) {
				ev = log.Warn()
			}

			ev.Err(err).Str("path", c.Path()).Msg("Rejected access token")

			return Unauthorized(c)
		}

		user, err := authService.LoadUser(c.UserContext(), userID)
		if err != nil {
			log.Error().Err(err).Uint("user_id", userID).Msg("Failed to load user")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Internal Server Error"})
		}

		if user == nil {
			log.Warn().Uint("user_id", userID).Msg("Token subject does not exist")

			return Unauthorized(c)
		}

		if !user.IsActive {
			log.Warn().Uint("user_id", userID).Msg("Inactive user rejected")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": msgInactiveUser})
		}

		c.Locals(LocalsUser, user)
		c.Locals(LocalsUserID, user.ID)

		return c.Next()
	}
}

// CurrentUser returns the user stored by Authenticate or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalsUser).(*models.User)

	return user
}

// RequirePermission creates Fiber middleware that requires a specific permission.
// It must run after Authenticate.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return Unauthorized(c)
		}

		if !authService.UserHasPermission(user, permission) {
			log.Warn().Uint("user_id", user.ID).Str("permission", permission).
				Msg("User lacks required permission")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": "Not enough permissions"})
		}

		return c.Next()
	}
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given permissions.
func RequireAnyPermission(authService *Service, permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return Unauthorized(c)
		}

		for _, perm := range permissions {
			if authService.UserHasPermission(user, perm) {
				return c.Next()
			}
		}

		log.Warn().Uint("user_id", user.ID).Strs("permissions", permissions).
			Msg("User lacks required permissions")

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": "Not enough permissions"})
	}
}

package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/vigil-vms/vigil/internal/auth"
	"github.com/vigil-vms/vigil/internal/service"
)

// Deps are the collaborators shared by all route groups.
type Deps struct {
	Authz     *auth.Service
	Tokens    *auth.TokenManager
	Validate  *validator.Validate
	Login     *service.Auth
	Users     *service.Users
	Roles     *service.Roles
	Locations *service.Locations
	Cameras   *service.Cameras
	Videos    *service.Videos
	Events    *service.Events
}

// Authenticated resolves the bearer token to an active user.
func (d Deps) Authenticated() fiber.Handler {
	return auth.Authenticate(d.Tokens, d.Authz)
}

// Require returns the middleware chain of an authenticated route needing permission.
func (d Deps) Require(permission string) []fiber.Handler {
	return []fiber.Handler{d.Authenticated(), auth.RequirePermission(d.Authz, permission)}
}

// RequireAny returns the middleware chain of an authenticated route needing one of permissions.
func (d Deps) RequireAny(permissions ...string) []fiber.Handler {
	return []fiber.Handler{d.Authenticated(), auth.RequireAnyPermission(d.Authz, permissions...)}
}

// Chain appends the final handler to the middleware chain.
func Chain(middleware []fiber.Handler, h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(middleware)+1)
	out = append(out, middleware...)

	return append(out, h)
}

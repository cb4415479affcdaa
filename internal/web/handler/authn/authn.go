// Package authn serves login, token refresh, registration and the
// permission and role administration below /auth.
package authn

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vigil-vms/vigil/internal/auth"
	"github.com/vigil-vms/vigil/internal/schema"
	"github.com/vigil-vms/vigil/internal/web/handler"
)

// Path is the mount point of the group.
const Path = "/auth"

// Service is the authentication handler service.
type Service struct {
	handler.Deps
}

var _ handler.Service = (*Service)(nil)

// New returns the authentication handlers.
func New(deps handler.Deps) *Service {
	return &Service{Deps: deps}
}

// Register adds the routes of the group below router.
func (s *Service) Register(router fiber.Router) {
	g := router.Group(Path)

	g.Post("/login", s.login)
	g.Post("/login/json", s.login)
	g.Post("/refresh", s.refresh)
	g.Post("/register", s.register)
	g.Get("/me", s.Authenticated(), s.me)

	super := s.Require(auth.PermSuperuser)

	g.Get("/permissions", handler.Chain(super, s.listPermissions)...)
	g.Post("/permissions", handler.Chain(super, s.createPermission)...)
	g.Get("/permissions/:id", handler.Chain(super, s.getPermission)...)
	g.Put("/permissions/:id", handler.Chain(super, s.updatePermission)...)
	g.Delete("/permissions/:id", handler.Chain(super, s.deletePermission)...)

	g.Get("/roles", handler.Chain(super, s.listRoles)...)
	g.Post("/roles", handler.Chain(super, s.createRole)...)
	g.Get("/roles/:id", handler.Chain(super, s.getRole)...)
	g.Put("/roles/:id", handler.Chain(super, s.updateRole)...)
	g.Delete("/roles/:id", handler.Chain(super, s.deleteRole)...)
}

// login accepts the OAuth2 password form (username, password) and JSON.
func (s *Service) login(c *fiber.Ctx) error {
	var in schema.Login
	if err := handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	pair, err := s.Login.Login(c.UserContext(), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(pair)
}

func (s *Service) refresh(c *fiber.Ctx) error {
	var in schema.RefreshToken
	if err := handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	pair, err := s.Login.Refresh(c.UserContext(), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(pair)
}

func (s *Service) register(c *fiber.Ctx) error {
	var in schema.Register
	if err := handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	user, err := s.Users.Register(c.UserContext(), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Created(c, user)
}

func (s *Service) me(c *fiber.Ctx) error {
	user, err := s.Login.Me(c.UserContext(), handler.ActorID(c))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(user)
}

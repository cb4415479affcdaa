// Package users serves the user accounts below /users.
package users

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/vigil-vms/vigil/internal/auth"
	"github.com/vigil-vms/vigil/internal/schema"
	"github.com/vigil-vms/vigil/internal/web/handler"
)

const (
	// Path is the mount point of the group.
	Path = "/users"

	paramLocationID = "location_id"
)

// Service is the user handler service.
type Service struct {
	handler.Deps
}

var _ handler.Service = (*Service)(nil)

// New returns the user handlers.
func New(deps handler.Deps) *Service {
	return &Service{Deps: deps}
}

// Register adds the routes of the group below router.
func (s *Service) Register(router fiber.Router) {
	g := router.Group(Path)

	authed := []fiber.Handler{s.Authenticated()}
	g.Get("/me", handler.Chain(authed, s.me)...)
	g.Get("/me/locations", handler.Chain(authed, s.myLocations)...)
	g.Put("/me", handler.Chain(authed, s.updateMe)...)
	g.Post("/me/change-password", handler.Chain(authed, s.changePassword)...)

	super := s.Require(auth.PermSuperuser)
	g.Get(handler.RootPath, handler.Chain(super, s.list)...)
	g.Post(handler.RootPath, handler.Chain(super, s.create)...)
	g.Get(handler.IDPath, handler.Chain(super, s.get)...)
	g.Put(handler.IDPath, handler.Chain(super, s.update)...)
	g.Delete(handler.IDPath, handler.Chain(super, s.delete)...)

	assignments := s.RequireAny(auth.PermSuperuser, auth.PermLocationsManage)
	g.Get("/:id/locations", handler.Chain(assignments, handler.Get(s.Users.GetWithLocations))...)

	manage := s.Require(auth.PermLocationsManage)
	g.Post("/:id/locations/:location_id", handler.Chain(manage, s.addLocation)...)
	g.Delete("/:id/locations/:location_id", handler.Chain(manage, s.removeLocation)...)
}

func (s *Service) me(c *fiber.Ctx) error {
	user, err := s.Users.Get(c.UserContext(), handler.ActorID(c))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(user)
}

func (s *Service) myLocations(c *fiber.Ctx) error {
	user, err := s.Users.GetWithLocations(c.UserContext(), handler.ActorID(c))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(user)
}

func (s *Service) updateMe(c *fiber.Ctx) error {
	var in schema.SelfUpdate
	if err := handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	user, err := s.Users.Update(c.UserContext(), handler.ActorID(c), in.AsUserUpdate())
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(user)
}

func (s *Service) changePassword(c *fiber.Ctx) error {
	var in schema.ChangePassword
	if err := handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	id := handler.ActorID(c)
	if err := s.Users.ChangePassword(c.UserContext(), id, in); err != nil {
		return err //nolint:wrapcheck
	}

	user, err := s.Users.Get(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(user)
}

func (s *Service) list(c *fiber.Ctx) error {
	p, err := handler.Page(c)
	if err != nil {
		return err
	}

	res, err := s.Users.List(c.UserContext(), p)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(res)
}

func (s *Service) get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	user, err := s.Users.Get(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(user)
}

func (s *Service) create(c *fiber.Ctx) error {
	var in schema.UserCreate
	if err := handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	user, err := s.Users.Create(c.UserContext(), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Created(c, user)
}

func (s *Service) update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	var in schema.UserUpdate
	if err = handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	user, err := s.Users.Update(c.UserContext(), id, in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(user)
}

func (s *Service) delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	if err = s.Users.Delete(c.UserContext(), id); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.NoContent(c)
}

func (s *Service) addLocation(c *fiber.Ctx) error {
	return s.changeLocation(c, s.Users.AddToLocation)
}

func (s *Service) removeLocation(c *fiber.Ctx) error {
	return s.changeLocation(c, s.Users.RemoveFromLocation)
}

func (s *Service) changeLocation(
	c *fiber.Ctx,
	change func(ctx context.Context, userID, locationID uint) (schema.UserWithLocations, error),
) error {
	userID, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	locationID, err := handler.ParseID(c, paramLocationID)
	if err != nil {
		return err
	}

	user, err := change(c.UserContext(), userID, locationID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(user)
}

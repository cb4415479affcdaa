// Package locations serves the sites cameras are installed at.
package locations

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vigil-vms/vigil/internal/auth"
	"github.com/vigil-vms/vigil/internal/schema"
	"github.com/vigil-vms/vigil/internal/web/handler"
)

// Path is the mount point of the group.
const Path = "/locations"

// Service is the location handler service.
type Service struct {
	handler.Deps
}

var _ handler.Service = (*Service)(nil)

// New returns the location handlers.
func New(deps handler.Deps) *Service {
	return &Service{Deps: deps}
}

// Register adds the routes of the group below router.
func (s *Service) Register(router fiber.Router) {
	g := router.Group(Path)
	authed := []fiber.Handler{s.Authenticated()}
	manage := s.Require(auth.PermLocationsManage)

	g.Get(handler.RootPath, handler.Chain(authed, handler.List(s.Locations.List))...)
	g.Get("/with-users", handler.Chain(manage, handler.List(s.Locations.ListWithUsers))...)
	g.Get("/with-cameras", handler.Chain(manage, handler.List(s.Locations.ListWithCameras))...)
	g.Get("/full", handler.Chain(manage, handler.List(s.Locations.ListFull))...)
	g.Post(handler.RootPath, handler.Chain(manage, s.create)...)

	g.Get(handler.IDPath, handler.Chain(authed, handler.Get(s.Locations.Get))...)
	g.Get("/:id/with-users", handler.Chain(manage, handler.Get(s.Locations.GetWithUsers))...)
	g.Get("/:id/with-cameras", handler.Chain(manage, handler.Get(s.Locations.GetWithCameras))...)
	g.Get("/:id/full", handler.Chain(manage, handler.Get(s.Locations.GetFull))...)
	g.Put(handler.IDPath, handler.Chain(manage, s.update)...)
	g.Delete(handler.IDPath, handler.Chain(manage, handler.Delete(s.Locations.Delete))...)
}

func (s *Service) create(c *fiber.Ctx) error {
	var in schema.LocationCreate
	if err := handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	loc, err := s.Locations.Create(c.UserContext(), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Created(c, loc)
}

func (s *Service) update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	var in schema.LocationUpdate
	if err = handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	loc, err := s.Locations.Update(c.UserContext(), id, in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(loc)
}

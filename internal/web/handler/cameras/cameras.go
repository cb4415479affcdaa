// Package cameras serves the camera inventory. Updates and deletes are
// allowed for the owner only.
package cameras

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/vigil-vms/vigil/internal/auth"
	"github.com/vigil-vms/vigil/internal/pagination"
	"github.com/vigil-vms/vigil/internal/schema"
	"github.com/vigil-vms/vigil/internal/web/handler"
)

// Path is the mount point of the group.
const Path = "/cameras"

// Service is the camera handler service.
type Service struct {
	handler.Deps
}

var _ handler.Service = (*Service)(nil)

// New returns the camera handlers.
func New(deps handler.Deps) *Service {
	return &Service{Deps: deps}
}

// Register adds the routes of the group below router.
func (s *Service) Register(router fiber.Router) {
	g := router.Group(Path)
	authed := []fiber.Handler{s.Authenticated()}
	manage := s.Require(auth.PermCamerasManage)

	g.Get(handler.RootPath, handler.Chain(authed, handler.List(s.Cameras.List))...)
	g.Get("/with-location", handler.Chain(authed, handler.List(s.Cameras.ListWithLocation))...)
	g.Get("/with-owner", handler.Chain(manage, handler.List(s.Cameras.ListWithOwner))...)
	g.Get("/full", handler.Chain(manage, handler.List(s.Cameras.ListFull))...)
	g.Get("/my", handler.Chain(authed, s.mine)...)
	g.Get("/location/:id", handler.Chain(authed, handler.ListOf(handler.ParamID, s.Cameras.ListByLocation))...)
	g.Post(handler.RootPath, handler.Chain(manage, s.create)...)

	g.Get(handler.IDPath, handler.Chain(authed, handler.Get(s.Cameras.Get))...)
	g.Get("/:id/with-location", handler.Chain(authed, handler.Get(s.Cameras.GetWithLocation))...)
	g.Get("/:id/with-owner", handler.Chain(manage, handler.Get(s.Cameras.GetWithOwner))...)
	g.Get("/:id/full", handler.Chain(manage, handler.Get(s.Cameras.GetFull))...)
	g.Get("/:id/stats", handler.Chain(authed, handler.Get(s.Cameras.Stats))...)
	g.Put(handler.IDPath, handler.Chain(authed, s.update)...)
	g.Delete(handler.IDPath, handler.Chain(authed, s.delete)...)
}

func (s *Service) mine(c *fiber.Ctx) error {
	actor := handler.ActorID(c)

	return handler.List(func(ctx context.Context, p pagination.Params) (pagination.Result[schema.Camera], error) {
		return s.Cameras.ListMine(ctx, actor, p)
	})(c)
}

func (s *Service) create(c *fiber.Ctx) error {
	var in schema.CameraCreate
	if err := handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	cam, err := s.Cameras.Create(c.UserContext(), handler.ActorID(c), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Created(c, cam)
}

func (s *Service) update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	var in schema.CameraUpdate
	if err = handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	cam, err := s.Cameras.Update(c.UserContext(), handler.ActorID(c), id, in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(cam)
}

func (s *Service) delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	if err = s.Cameras.Delete(c.UserContext(), handler.ActorID(c), id); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.NoContent(c)
}

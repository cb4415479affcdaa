// Package events serves detection events, their objects and frames.
package events

import (
	"context"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/vigil-vms/vigil/internal/auth"
	"github.com/vigil-vms/vigil/internal/db/repository"
	"github.com/vigil-vms/vigil/internal/pagination"
	"github.com/vigil-vms/vigil/internal/schema"
	"github.com/vigil-vms/vigil/internal/web/handler"
)

// Path is the mount point of the group.
const Path = "/events"

// Service is the event handler service.
type Service struct {
	handler.Deps
}

var _ handler.Service = (*Service)(nil)

// New returns the event handlers.
func New(deps handler.Deps) *Service {
	return &Service{Deps: deps}
}

// Register adds the routes of the group below router.
func (s *Service) Register(router fiber.Router) {
	g := router.Group(Path)
	authed := []fiber.Handler{s.Authenticated()}
	manage := s.Require(auth.PermEventsManage)

	g.Get(handler.RootPath, handler.Chain(authed, handler.List(s.Events.List))...)
	g.Get("/camera/:id", handler.Chain(authed, handler.ListOf(handler.ParamID, s.Events.ListByCamera))...)
	g.Get("/video/:id", handler.Chain(authed, handler.ListOf(handler.ParamID, s.Events.ListByVideo))...)
	g.Get("/type/:type", handler.Chain(authed, s.byType)...)
	g.Get("/date-range", handler.Chain(authed, s.dateRange)...)
	g.Get("/stats", handler.Chain(authed, s.stats)...)
	g.Post(handler.RootPath, handler.Chain(manage, s.create)...)
	g.Post("/ai-detection", handler.Chain(manage, s.detection)...)
	g.Post("/upload-frame", handler.Chain(manage, s.uploadFrame)...)

	g.Get(handler.IDPath, handler.Chain(authed, handler.Get(s.Events.Get))...)
	g.Get("/:id/with-objects", handler.Chain(authed, handler.Get(s.Events.GetWithObjects))...)
	g.Get("/:id/with-camera", handler.Chain(authed, handler.Get(s.Events.GetWithCamera))...)
	g.Get("/:id/with-video", handler.Chain(authed, handler.Get(s.Events.GetWithVideo))...)
	g.Get("/:id/full", handler.Chain(authed, handler.Get(s.Events.GetFull))...)
	g.Get("/:id/objects", handler.Chain(authed, handler.ListOf(handler.ParamID, s.Events.Objects))...)
	g.Get("/:id/frame", handler.Chain(authed, s.frame)...)
	g.Put("/:id/confirm", handler.Chain(manage, s.confirm)...)
	g.Put("/:id/false-positive", handler.Chain(manage, s.falsePositive)...)
	g.Put(handler.IDPath, handler.Chain(manage, s.update)...)
	g.Delete(handler.IDPath, handler.Chain(manage, handler.Delete(s.Events.Delete))...)
}

func (s *Service) byType(c *fiber.Ctx) error {
	eventType := c.Params("type")

	return handler.List(func(ctx context.Context, p pagination.Params) (pagination.Result[schema.Event], error) {
		return s.Events.ListByType(ctx, eventType, p)
	})(c)
}

func (s *Service) dateRange(c *fiber.Ctx) error {
	var (
		q   repository.EventRange
		err error
	)

	if q.Start, err = handler.QueryTime(c, "start_date"); err != nil {
		return err
	}

	if q.End, err = handler.QueryTime(c, "end_date"); err != nil {
		return err
	}

	if q.CameraID, err = handler.QueryUintPtr(c, "camera_id"); err != nil {
		return err
	}

	q.EventType = c.Query("event_type")

	p, err := handler.Page(c)
	if err != nil {
		return err
	}

	res, err := s.Events.ListByDateRange(c.UserContext(), q, p)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(res)
}

func (s *Service) stats(c *fiber.Ctx) error {
	stats, err := s.Events.Stats(c.UserContext())
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(stats)
}

func (s *Service) create(c *fiber.Ctx) error {
	var in schema.EventCreate
	if err := handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	event, err := s.Events.Create(c.UserContext(), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Created(c, event)
}

func (s *Service) detection(c *fiber.Ctx) error {
	var in schema.AIDetectionResult
	if err := handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	event, err := s.Events.ProcessDetection(c.UserContext(), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Created(c, event)
}

func (s *Service) uploadFrame(c *fiber.Ctx) error {
	eventID, err := handler.FormID(c, "event_id")
	if err != nil {
		return err
	}

	f, info, err := handler.FormFile(c)
	if err != nil {
		return err
	}
	defer f.Close()

	event, err := s.Events.UploadFrame(c.UserContext(), eventID, f, info)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Created(c, event)
}

func (s *Service) frame(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	f, event, err := s.Events.OpenFrame(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	c.Type(filepath.Ext(event.FramePath))

	return c.SendStream(f)
}

func (s *Service) confirm(c *fiber.Ctx) error {
	return s.flag(c, "is_confirmed", s.Events.Confirm)
}

func (s *Service) falsePositive(c *fiber.Ctx) error {
	return s.flag(c, "is_false_positive", s.Events.MarkFalsePositive)
}

func (s *Service) flag(c *fiber.Ctx, name string, set func(ctx context.Context, id uint, v bool) (schema.Event, error)) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	v, err := handler.Bool(c, name, true)
	if err != nil {
		return err
	}

	event, err := set(c.UserContext(), id, v)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(event)
}

func (s *Service) update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	var in schema.EventUpdate
	if err = handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	event, err := s.Events.Update(c.UserContext(), id, in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(event)
}

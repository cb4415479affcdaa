// Package videos serves recording metadata, uploads and downloads.
package videos

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/vigil-vms/vigil/internal/auth"
	"github.com/vigil-vms/vigil/internal/schema"
	"github.com/vigil-vms/vigil/internal/web/handler"
)

const (
	// Path is the mount point of the group.
	Path = "/videos"

	paramCameraID = "camera_id"
)

// Service is the video handler service.
type Service struct {
	handler.Deps
}

var _ handler.Service = (*Service)(nil)

// New returns the video handlers.
func New(deps handler.Deps) *Service {
	return &Service{Deps: deps}
}

// Register adds the routes of the group below router.
func (s *Service) Register(router fiber.Router) {
	g := router.Group(Path)
	authed := []fiber.Handler{s.Authenticated()}
	manage := s.Require(auth.PermVideosManage)

	g.Get(handler.RootPath, handler.Chain(authed, handler.List(s.Videos.List))...)
	g.Get("/camera/:id", handler.Chain(authed, handler.ListOf(handler.ParamID, s.Videos.ListByCamera))...)
	g.Get("/date-range", handler.Chain(authed, s.dateRange)...)
	g.Get("/latest/camera/:id", handler.Chain(authed, s.latest)...)
	g.Post(handler.RootPath, handler.Chain(manage, s.create)...)
	g.Post("/upload", handler.Chain(manage, s.upload)...)

	g.Get(handler.IDPath, handler.Chain(authed, handler.Get(s.Videos.Get))...)
	g.Get("/:id/with-camera", handler.Chain(authed, handler.Get(s.Videos.GetWithCamera))...)
	g.Get("/:id/with-events", handler.Chain(authed, handler.Get(s.Videos.GetWithEvents))...)
	g.Get("/:id/full", handler.Chain(authed, handler.Get(s.Videos.GetFull))...)
	g.Get("/:id/download", handler.Chain(authed, s.download)...)
	g.Put("/:id/status", handler.Chain(manage, s.status)...)
	g.Put("/:id/analysis", handler.Chain(manage, s.analysis)...)
	g.Put(handler.IDPath, handler.Chain(manage, s.update)...)
	g.Delete(handler.IDPath, handler.Chain(manage, s.delete)...)
}

func (s *Service) dateRange(c *fiber.Ctx) error {
	start, err := handler.QueryTime(c, "start_date")
	if err != nil {
		return err
	}

	end, err := handler.QueryTime(c, "end_date")
	if err != nil {
		return err
	}

	cameraID, err := handler.QueryUintPtr(c, paramCameraID)
	if err != nil {
		return err
	}

	p, err := handler.Page(c)
	if err != nil {
		return err
	}

	res, err := s.Videos.ListByDateRange(c.UserContext(), start, end, cameraID, p)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(res)
}

func (s *Service) latest(c *fiber.Ctx) error {
	cameraID, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	limit, err := handler.QueryInt(c, "limit", 0)
	if err != nil {
		return err
	}

	videos, err := s.Videos.LatestByCamera(c.UserContext(), cameraID, limit)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(videos)
}

func (s *Service) create(c *fiber.Ctx) error {
	var in schema.VideoCreate
	if err := handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	video, err := s.Videos.Create(c.UserContext(), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	full, err := s.Videos.GetFull(c.UserContext(), video.ID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Created(c, full)
}

func (s *Service) upload(c *fiber.Ctx) error {
	cameraID, err := handler.FormID(c, paramCameraID)
	if err != nil {
		return err
	}

	start, err := handler.FormTime(c, "recording_start")
	if err != nil {
		return err
	}

	end, err := handler.FormTime(c, "recording_end")
	if err != nil {
		return err
	}

	f, info, err := handler.FormFile(c)
	if err != nil {
		return err
	}
	defer f.Close()

	video, err := s.Videos.Upload(c.UserContext(), f, info, schema.VideoUpload{
		CameraID:       cameraID,
		RecordingStart: start,
		RecordingEnd:   end,
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint("video_id", video.ID).Uint("camera_id", cameraID).Int64("bytes", video.FileSize).Msg("Video uploaded")

	return handler.Created(c, video)
}

func (s *Service) download(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	f, video, err := s.Videos.OpenFile(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	c.Attachment(video.Filename)

	return c.SendStream(f, int(video.FileSize))
}

func (s *Service) status(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	status := c.FormValue("status")
	if status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	video, err := s.Videos.SetProcessingStatus(c.UserContext(), id, status)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(video)
}

func (s *Service) analysis(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	analyzed, err := handler.Bool(c, "is_analyzed", true)
	if err != nil {
		return err
	}

	video, err := s.Videos.SetAnalyzed(c.UserContext(), id, analyzed)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(video)
}

func (s *Service) update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	var in schema.VideoUpdate
	if err = handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	if _, err = s.Videos.Update(c.UserContext(), id, in); err != nil {
		return err //nolint:wrapcheck
	}

	full, err := s.Videos.GetFull(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(full)
}

func (s *Service) delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	deleteFile, err := handler.Bool(c, "delete_file", false)
	if err != nil {
		return err
	}

	if err = s.Videos.Delete(c.UserContext(), id, deleteFile); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.NoContent(c)
}

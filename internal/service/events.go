package service

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/db/repository"
	"github.com/vigil-vms/vigil/internal/pagination"
	"github.com/vigil-vms/vigil/internal/schema"
	"github.com/vigil-vms/vigil/internal/storage"
)

// Events manages detected events, their objects and frame images.
type Events struct {
	db     *gorm.DB
	frames storage.Storage
}

// NewEvents creates the event service storing frame images in frames.
func NewEvents(db *gorm.DB, frames storage.Storage) *Events {
	return &Events{db: db, frames: frames}
}

func (s *Events) result(ctx context.Context, p pagination.Params, filters repository.Filters,
	list func(repository.Events) ([]models.Event, error),
) (pagination.Result[schema.Event], error) {
	repo := repository.NewEvents(s.db)

	res, err := page(ctx, repo.Repository, p, filters, func() ([]models.Event, error) {
		return list(repo)
	})
	if err != nil {
		return pagination.Result[schema.Event]{}, err
	}

	return pagination.Map(res, schema.FromEvent), nil
}

// List returns a page of events, newest first.
func (s *Events) List(ctx context.Context, p pagination.Params) (pagination.Result[schema.Event], error) {
	return s.result(ctx, p, nil, func(r repository.Events) ([]models.Event, error) {
		return r.ListAll(ctx, p)
	})
}

// ListByCamera returns a page of the events of an existing camera.
func (s *Events) ListByCamera(ctx context.Context, cameraID uint, p pagination.Params) (pagination.Result[schema.Event], error) {
	if _, err := getCamera(ctx, s.db, cameraID); err != nil {
		return pagination.Result[schema.Event]{}, err
	}

	return s.result(ctx, p, repository.Filters{"camera_id": cameraID}, func(r repository.Events) ([]models.Event, error) {
		return r.ListByCamera(ctx, cameraID, p)
	})
}

// ListByVideo returns a page of the events of an existing video.
func (s *Events) ListByVideo(ctx context.Context, videoID uint, p pagination.Params) (pagination.Result[schema.Event], error) {
	if _, err := getVideo(ctx, s.db, videoID); err != nil {
		return pagination.Result[schema.Event]{}, err
	}

	return s.result(ctx, p, repository.Filters{"video_id": videoID}, func(r repository.Events) ([]models.Event, error) {
		return r.ListByVideo(ctx, videoID, p)
	})
}

// ListByType returns a page of the events of one type.
func (s *Events) ListByType(ctx context.Context, eventType string, p pagination.Params) (pagination.Result[schema.Event], error) {
	return s.result(ctx, p, repository.Filters{"event_type": eventType}, func(r repository.Events) ([]models.Event, error) {
		return r.ListByType(ctx, eventType, p)
	})
}

// ListByDateRange returns a page of events with a timestamp in [start, end],
// optionally narrowed to one camera and one type.
func (s *Events) ListByDateRange(ctx context.Context, q repository.EventRange, p pagination.Params) (pagination.Result[schema.Event], error) {
	if q.End.Before(q.Start) {
		return pagination.Result[schema.Event]{}, Validation("end_date must be after start_date")
	}

	if q.CameraID != nil {
		if _, err := getCamera(ctx, s.db, *q.CameraID); err != nil {
			return pagination.Result[schema.Event]{}, err
		}
	}

	repo := repository.NewEvents(s.db)
	p = p.Normalize()

	events, err := repo.ListByDateRange(ctx, q, p)
	if err != nil {
		return pagination.Result[schema.Event]{}, storeErr(err, "list events")
	}

	total, err := repo.CountByDateRange(ctx, q)
	if err != nil {
		return pagination.Result[schema.Event]{}, storeErr(err, "count events")
	}

	return pagination.Map(pagination.NewResult(events, total, p), schema.FromEvent), nil
}

// Stats returns the aggregates over all events.
func (s *Events) Stats(ctx context.Context) (schema.EventStats, error) {
	stats, err := repository.NewEvents(s.db).Stats(ctx)
	if err != nil {
		return schema.EventStats{}, storeErr(err, "load event stats")
	}

	objects, err := repository.NewObjects(s.db).TypeStats(ctx)
	if err != nil {
		return schema.EventStats{}, storeErr(err, "load object stats")
	}

	return schema.EventStats{
		TotalEvents:     stats.Total,
		ByType:          stats.ByType,
		ByCamera:        stats.ByCamera,
		ByObjectType:    objects,
		ConfirmedEvents: stats.Confirmed,
		FalsePositives:  stats.FalsePositives,
	}, nil
}

// Get returns one event.
func (s *Events) Get(ctx context.Context, id uint) (schema.Event, error) {
	event, err := getEvent(ctx, s.db, id)
	if err != nil {
		return schema.Event{}, err
	}

	return schema.FromEvent(*event), nil
}

// GetWithObjects returns one event with its objects.
func (s *Events) GetWithObjects(ctx context.Context, id uint) (schema.EventWithObjects, error) {
	event, err := found(repository.NewEvents(s.db).GetWithObjects(ctx, id))
	if err != nil {
		return schema.EventWithObjects{}, err
	}

	return schema.FromEventWithObjects(*event), nil
}

// GetWithCamera returns one event with its camera.
func (s *Events) GetWithCamera(ctx context.Context, id uint) (schema.EventWithCamera, error) {
	event, err := found(repository.NewEvents(s.db).GetWithCamera(ctx, id))
	if err != nil {
		return schema.EventWithCamera{}, err
	}

	return schema.FromEventWithCamera(*event), nil
}

// GetWithVideo returns one event with its video, which may be null.
func (s *Events) GetWithVideo(ctx context.Context, id uint) (schema.EventWithVideo, error) {
	event, err := found(repository.NewEvents(s.db).GetWithVideo(ctx, id))
	if err != nil {
		return schema.EventWithVideo{}, err
	}

	return schema.FromEventWithVideo(*event), nil
}

// GetFull returns one event with objects, camera and video.
func (s *Events) GetFull(ctx context.Context, id uint) (schema.EventFull, error) {
	event, err := found(repository.NewEvents(s.db).GetFull(ctx, id))
	if err != nil {
		return schema.EventFull{}, err
	}

	return schema.FromEventFull(*event), nil
}

// Objects returns a page of the objects detected in an existing event.
func (s *Events) Objects(ctx context.Context, eventID uint, p pagination.Params) (pagination.Result[schema.Object], error) {
	if _, err := getEvent(ctx, s.db, eventID); err != nil {
		return pagination.Result[schema.Object]{}, err
	}

	repo := repository.NewObjects(s.db)
	p = p.Normalize()

	objects, err := repo.ListByEvent(ctx, eventID, p)
	if err != nil {
		return pagination.Result[schema.Object]{}, storeErr(err, "list objects")
	}

	total, err := repo.CountByEvent(ctx, eventID)
	if err != nil {
		return pagination.Result[schema.Object]{}, storeErr(err, "count objects")
	}

	return pagination.Map(pagination.NewResult(objects, total, p), schema.FromObject), nil
}

// Create stores an event with its objects as one unit. The camera and a given video must exist.
func (s *Events) Create(ctx context.Context, in schema.EventCreate) (schema.EventWithObjects, error) {
	event := in.Model(models.Now())
	event.Timestamp = repository.Naive(event.Timestamp)
	event.FrameTimestamp = repository.NaivePtr(event.FrameTimestamp)
	objects := in.ObjectModels()

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := refsExist(ctx, tx, in.CameraID, in.VideoID); err != nil {
			return err
		}

		return storeErr(repository.NewEvents(tx).CreateWithObjects(ctx, &event, objects), "create event")
	})
	if err != nil {
		return schema.EventWithObjects{}, err
	}

	return schema.FromEventWithObjects(event), nil
}

// ProcessDetection stores the result of an external detector as an event.
func (s *Events) ProcessDetection(ctx context.Context, in schema.AIDetectionResult) (schema.EventWithObjects, error) {
	return s.Create(ctx, in.AsEventCreate())
}

// Update changes the supplied fields. A new camera or video must exist.
func (s *Events) Update(ctx context.Context, id uint, in schema.EventUpdate) (schema.Event, error) {
	var event *models.Event

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if event, err = getEvent(ctx, tx, id); err != nil {
			return err
		}

		if in.CameraID != nil {
			if _, err = getCamera(ctx, tx, *in.CameraID); err != nil {
				return err
			}
		}

		if in.VideoID != nil {
			if _, err = getVideo(ctx, tx, *in.VideoID); err != nil {
				return err
			}
		}

		return storeErr(repository.NewEvents(tx).Update(ctx, event, in.Changes()), "update event")
	})
	if err != nil {
		return schema.Event{}, err
	}

	return schema.FromEvent(*event), nil
}

// Delete removes an event with its objects.
func (s *Events) Delete(ctx context.Context, id uint) error {
	return deleteByID[models.Event](ctx, s.db, id)
}

// Confirm stores the confirmation flag.
func (s *Events) Confirm(ctx context.Context, id uint, confirmed bool) (schema.Event, error) {
	return s.setFlag(ctx, func(r repository.Events) (*models.Event, error) {
		return r.SetConfirmed(ctx, id, confirmed)
	})
}

// MarkFalsePositive stores the false positive flag.
func (s *Events) MarkFalsePositive(ctx context.Context, id uint, falsePositive bool) (schema.Event, error) {
	return s.setFlag(ctx, func(r repository.Events) (*models.Event, error) {
		return r.SetFalsePositive(ctx, id, falsePositive)
	})
}

func (s *Events) setFlag(ctx context.Context, set func(repository.Events) (*models.Event, error)) (schema.Event, error) {
	var event *models.Event

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		event, err = found(set(repository.NewEvents(tx)))

		return err
	})
	if err != nil {
		return schema.Event{}, err
	}

	return schema.FromEvent(*event), nil
}

// UploadFrame stores a frame image and links it to an existing event.
// A previously linked frame file stays on disk.
func (s *Events) UploadFrame(ctx context.Context, eventID uint, r io.Reader, info storage.FileInfo) (schema.Event, error) {
	if _, err := getEvent(ctx, s.db, eventID); err != nil {
		return schema.Event{}, err
	}

	name, _, err := s.frames.SaveFile(r, info)
	if err != nil {
		return schema.Event{}, err //nolint:wrapcheck
	}

	var event *models.Event

	err = transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		event, err = found(repository.NewEvents(tx).UpdateByID(ctx, eventID, map[string]any{"frame_path": name}))

		return err
	})
	if err != nil {
		if delErr := s.frames.DeleteFile(name); delErr != nil {
			log.Warn().Err(delErr).Str("path", name).Msg("failed to remove orphaned frame")
		}

		return schema.Event{}, err
	}

	return schema.FromEvent(*event), nil
}

// OpenFrame opens the frame image of an event.
func (s *Events) OpenFrame(ctx context.Context, eventID uint) (io.ReadSeekCloser, schema.Event, error) {
	event, err := getEvent(ctx, s.db, eventID)
	if err != nil {
		return nil, schema.Event{}, err
	}

	if event.FramePath == "" {
		return nil, schema.Event{}, NotFound("Frame not found")
	}

	f, err := s.frames.OpenFile(event.FramePath)
	if err != nil {
		if !errors.Is(err, storage.ErrInvalidPath) {
			log.Debug().Err(err).Uint("event_id", eventID).Msg("frame file unavailable")
		}

		return nil, schema.Event{}, NotFound("Frame not found")
	}

	return f, schema.FromEvent(*event), nil
}

// refsExist checks the camera and the optional video of an event.
func refsExist(ctx context.Context, db *gorm.DB, cameraID uint, videoID *uint) error {
	if _, err := getCamera(ctx, db, cameraID); err != nil {
		return err
	}

	if videoID != nil {
		if _, err := getVideo(ctx, db, *videoID); err != nil {
			return err
		}
	}

	return nil
}

package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/db/repository"
	"github.com/vigil-vms/vigil/internal/pagination"
	"github.com/vigil-vms/vigil/internal/schema"
	"github.com/vigil-vms/vigil/internal/storage"
)

const (
	// DefaultLatestLimit is the number of recordings returned by LatestByCamera by default.
	DefaultLatestLimit = 5
	// MaxLatestLimit caps LatestByCamera.
	MaxLatestLimit = 20

	msgBadWindow = "recording_end must be after recording_start"
)

// Videos manages recording metadata and uploaded video files.
type Videos struct {
	db    *gorm.DB
	files storage.Storage
}

// NewVideos creates the video service storing uploads in files.
func NewVideos(db *gorm.DB, files storage.Storage) *Videos {
	return &Videos{db: db, files: files}
}

func (s *Videos) result(ctx context.Context, p pagination.Params, filters repository.Filters,
	list func(repository.Videos) ([]models.Video, error),
) (pagination.Result[schema.Video], error) {
	repo := repository.NewVideos(s.db)

	res, err := page(ctx, repo.Repository, p, filters, func() ([]models.Video, error) {
		return list(repo)
	})
	if err != nil {
		return pagination.Result[schema.Video]{}, err
	}

	return pagination.Map(res, schema.FromVideo), nil
}

// List returns a page of videos.
func (s *Videos) List(ctx context.Context, p pagination.Params) (pagination.Result[schema.Video], error) {
	return s.result(ctx, p, nil, func(r repository.Videos) ([]models.Video, error) {
		return r.List(ctx, p, nil)
	})
}

// ListByCamera returns a page of the recordings of an existing camera, newest first.
func (s *Videos) ListByCamera(ctx context.Context, cameraID uint, p pagination.Params) (pagination.Result[schema.Video], error) {
	if _, err := getCamera(ctx, s.db, cameraID); err != nil {
		return pagination.Result[schema.Video]{}, err
	}

	return s.result(ctx, p, repository.Filters{"camera_id": cameraID}, func(r repository.Videos) ([]models.Video, error) {
		return r.ListByCamera(ctx, cameraID, p)
	})
}

// ListByDateRange returns a page of recordings overlapping [start, end], optionally of one camera.
func (s *Videos) ListByDateRange(
	ctx context.Context,
	start, end time.Time,
	cameraID *uint,
	p pagination.Params,
) (pagination.Result[schema.Video], error) {
	if end.Before(start) {
		return pagination.Result[schema.Video]{}, Validation("end_date must be after start_date")
	}

	if cameraID != nil {
		if _, err := getCamera(ctx, s.db, *cameraID); err != nil {
			return pagination.Result[schema.Video]{}, err
		}
	}

	repo := repository.NewVideos(s.db)
	p = p.Normalize()

	videos, err := repo.ListByDateRange(ctx, start, end, cameraID, p)
	if err != nil {
		return pagination.Result[schema.Video]{}, storeErr(err, "list videos")
	}

	total, err := repo.CountByDateRange(ctx, start, end, cameraID)
	if err != nil {
		return pagination.Result[schema.Video]{}, storeErr(err, "count videos")
	}

	return pagination.Map(pagination.NewResult(videos, total, p), schema.FromVideo), nil
}

// LatestByCamera returns the most recent recordings of an existing camera.
// limit is clamped to 1..MaxLatestLimit, 0 means DefaultLatestLimit.
func (s *Videos) LatestByCamera(ctx context.Context, cameraID uint, limit int) ([]schema.Video, error) {
	if _, err := getCamera(ctx, s.db, cameraID); err != nil {
		return nil, err
	}

	switch {
	case limit < 1:
		limit = DefaultLatestLimit
	case limit > MaxLatestLimit:
		limit = MaxLatestLimit
	}

	videos, err := repository.NewVideos(s.db).LatestByCamera(ctx, cameraID, limit)
	if err != nil {
		return nil, storeErr(err, "list latest videos")
	}

	out := make([]schema.Video, 0, len(videos))
	for _, v := range videos {
		out = append(out, schema.FromVideo(v))
	}

	return out, nil
}

// Get returns one video.
func (s *Videos) Get(ctx context.Context, id uint) (schema.Video, error) {
	video, err := getVideo(ctx, s.db, id)
	if err != nil {
		return schema.Video{}, err
	}

	return schema.FromVideo(*video), nil
}

// GetWithCamera returns one video with its camera.
func (s *Videos) GetWithCamera(ctx context.Context, id uint) (schema.VideoWithCamera, error) {
	video, err := found(repository.NewVideos(s.db).GetWithCamera(ctx, id))
	if err != nil {
		return schema.VideoWithCamera{}, err
	}

	return schema.FromVideoWithCamera(*video), nil
}

// GetWithEvents returns one video with its events.
func (s *Videos) GetWithEvents(ctx context.Context, id uint) (schema.VideoWithEvents, error) {
	video, err := found(repository.NewVideos(s.db).GetWithEvents(ctx, id))
	if err != nil {
		return schema.VideoWithEvents{}, err
	}

	return schema.FromVideoWithEvents(*video), nil
}

// GetFull returns one video with camera and events.
func (s *Videos) GetFull(ctx context.Context, id uint) (schema.VideoFull, error) {
	video, err := found(repository.NewVideos(s.db).GetFull(ctx, id))
	if err != nil {
		return schema.VideoFull{}, err
	}

	return schema.FromVideoFull(*video), nil
}

// Create registers a recording of an existing camera.
func (s *Videos) Create(ctx context.Context, in schema.VideoCreate) (schema.Video, error) {
	video := in.Model()
	video.RecordingStart = repository.Naive(video.RecordingStart)
	video.RecordingEnd = repository.NaivePtr(video.RecordingEnd)

	if !windowValid(video.RecordingStart, video.RecordingEnd) {
		return schema.Video{}, Validation(msgBadWindow)
	}

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := getCamera(ctx, tx, in.CameraID); err != nil {
			return err
		}

		return storeErr(repository.NewVideos(tx).Create(ctx, &video), "create video")
	})
	if err != nil {
		return schema.Video{}, err
	}

	return schema.FromVideo(video), nil
}

// Update changes the supplied fields. The resulting recording window must stay valid.
func (s *Videos) Update(ctx context.Context, id uint, in schema.VideoUpdate) (schema.Video, error) {
	var video *models.Video

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if video, err = getVideo(ctx, tx, id); err != nil {
			return err
		}

		if in.CameraID != nil {
			if _, err = getCamera(ctx, tx, *in.CameraID); err != nil {
				return err
			}
		}

		start, end := video.RecordingStart, video.RecordingEnd
		if in.RecordingStart != nil {
			start = repository.Naive(*in.RecordingStart)
		}

		if in.RecordingEnd != nil {
			end = repository.NaivePtr(in.RecordingEnd)
		}

		if !windowValid(start, end) {
			return Validation(msgBadWindow)
		}

		return storeErr(repository.NewVideos(tx).Update(ctx, video, in.Changes()), "update video")
	})
	if err != nil {
		return schema.Video{}, err
	}

	return schema.FromVideo(*video), nil
}

// Delete removes the video row with its events. With deleteFile the stored file is
// removed too; a failure there is logged and does not fail the delete.
func (s *Videos) Delete(ctx context.Context, id uint, deleteFile bool) error {
	var filePath string

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		video, err := getVideo(ctx, tx, id)
		if err != nil {
			return err
		}

		filePath = video.Filepath

		_, err = repository.NewVideos(tx).Delete(ctx, id)

		return storeErr(err, "delete video")
	})
	if err != nil {
		return err
	}

	if deleteFile && s.files != nil && filePath != "" {
		if err = s.files.DeleteFile(filePath); err != nil {
			log.Warn().Err(err).Uint("video_id", id).Str("path", filePath).Msg("failed to delete video file")
		}
	}

	return nil
}

// SetProcessingStatus stores a free-form status. "completed" also marks the video processed.
func (s *Videos) SetProcessingStatus(ctx context.Context, id uint, status string) (schema.Video, error) {
	var video *models.Video

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		video, err = found(repository.NewVideos(tx).SetProcessingStatus(ctx, id, status))

		return err
	})
	if err != nil {
		return schema.Video{}, err
	}

	return schema.FromVideo(*video), nil
}

// SetAnalyzed stores the analyzed flag.
func (s *Videos) SetAnalyzed(ctx context.Context, id uint, analyzed bool) (schema.Video, error) {
	var video *models.Video

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		video, err = found(repository.NewVideos(tx).SetAnalyzed(ctx, id, analyzed))

		return err
	})
	if err != nil {
		return schema.Video{}, err
	}

	return schema.FromVideo(*video), nil
}

// Upload stores the file and registers it as an "uploaded" recording.
// The stored file is removed again when the row can not be created.
func (s *Videos) Upload(ctx context.Context, r io.Reader, info storage.FileInfo, in schema.VideoUpload) (schema.Video, error) {
	start := models.Now()
	if in.RecordingStart != nil {
		start = repository.Naive(*in.RecordingStart)
	}

	end := repository.NaivePtr(in.RecordingEnd)
	if !windowValid(start, end) {
		return schema.Video{}, Validation(msgBadWindow)
	}

	if _, err := getCamera(ctx, s.db, in.CameraID); err != nil {
		return schema.Video{}, err
	}

	name, size, err := s.files.SaveFile(r, info)
	if err != nil {
		return schema.Video{}, err //nolint:wrapcheck
	}

	filename := in.Filename
	if filename == "" {
		filename = filepath.Base(info.Filename)
	}

	video := models.Video{
		Filename:         filename,
		Filepath:         name,
		FileSize:         size,
		Format:           strings.TrimPrefix(strings.ToLower(filepath.Ext(info.Filename)), "."),
		RecordingStart:   start,
		RecordingEnd:     end,
		IsProcessed:      false,
		IsAnalyzed:       false,
		ProcessingStatus: models.ProcessingUploaded,
		CameraID:         in.CameraID,
	}

	err = transaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := getCamera(ctx, tx, in.CameraID); err != nil {
			return err
		}

		return storeErr(repository.NewVideos(tx).Create(ctx, &video), "create video")
	})
	if err != nil {
		if delErr := s.files.DeleteFile(name); delErr != nil {
			log.Warn().Err(delErr).Str("path", name).Msg("failed to remove orphaned upload")
		}

		return schema.Video{}, err
	}

	return schema.FromVideo(video), nil
}

// OpenFile opens the stored file of a video for download.
func (s *Videos) OpenFile(ctx context.Context, id uint) (io.ReadSeekCloser, schema.Video, error) {
	video, err := getVideo(ctx, s.db, id)
	if err != nil {
		return nil, schema.Video{}, err
	}

	f, err := s.files.OpenFile(video.Filepath)
	if err != nil {
		if !errors.Is(err, storage.ErrInvalidPath) {
			log.Debug().Err(err).Uint("video_id", id).Msg("video file unavailable")
		}

		return nil, schema.Video{}, NotFound("Video file not found")
	}

	return f, schema.FromVideo(*video), nil
}

func windowValid(start time.Time, end *time.Time) bool {
	return end == nil || !end.Before(start)
}

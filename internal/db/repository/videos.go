package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/pagination"
)

const (
	relCamera = "Camera"
	relEvents = "Events"

	orderRecordingDesc = "recording_start DESC, id DESC"
)

// Videos reads and writes video metadata.
type Videos struct {
	Repository[models.Video]
}

// NewVideos returns a video repository bound to db.
func NewVideos(db *gorm.DB) Videos {
	return Videos{New[models.Video](db)}
}

// ListByCamera returns a page of videos of a camera, newest recording first.
func (r Videos) ListByCamera(ctx context.Context, cameraID uint, p pagination.Params) ([]models.Video, error) {
	return r.ListOrdered(ctx, p, Filters{"camera_id": cameraID}, orderRecordingDesc)
}

// overlapping restricts db to videos whose recording window touches [start, end].
func overlapping(db *gorm.DB, start, end time.Time, cameraID *uint) *gorm.DB {
	start, end = Naive(start), Naive(end)

	db = db.Where(
		"(recording_start BETWEEN ? AND ?) OR (recording_end BETWEEN ? AND ?) OR (recording_start <= ? AND recording_end >= ?)",
		start, end, start, end, start, end,
	)

	if cameraID != nil {
		db = db.Where("camera_id = ?", *cameraID)
	}

	return db
}

// ListByDateRange returns a page of videos overlapping [start, end], newest recording first.
func (r Videos) ListByDateRange(ctx context.Context, start, end time.Time, cameraID *uint, p pagination.Params) ([]models.Video, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	p = p.Normalize()

	var videos []models.Video
	err = overlapping(db.Model(&models.Video{}), start, end, cameraID).
		Order(orderRecordingDesc).
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&videos).Error

	return videos, err
}

// CountByDateRange counts the videos ListByDateRange would page through.
func (r Videos) CountByDateRange(ctx context.Context, start, end time.Time, cameraID *uint) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	err = overlapping(db.Model(&models.Video{}), start, end, cameraID).Count(&total).Error

	return total, err
}

// LatestByCamera returns the limit most recent recordings of a camera.
func (r Videos) LatestByCamera(ctx context.Context, cameraID uint, limit int) ([]models.Video, error) {
	return r.ListOrdered(ctx, pagination.Params{Limit: limit}, Filters{"camera_id": cameraID}, orderRecordingDesc)
}

// GetWithCamera returns the video with its camera.
func (r Videos) GetWithCamera(ctx context.Context, id uint) (*models.Video, error) {
	return r.Get(ctx, id, relCamera)
}

// GetWithEvents returns the video with its events.
func (r Videos) GetWithEvents(ctx context.Context, id uint) (*models.Video, error) {
	return r.Get(ctx, id, relEvents)
}

// GetFull returns the video with camera and events.
func (r Videos) GetFull(ctx context.Context, id uint) (*models.Video, error) {
	return r.Get(ctx, id, relCamera, relEvents)
}

// SetProcessingStatus stores status. "completed" also marks the video processed.
func (r Videos) SetProcessingStatus(ctx context.Context, id uint, status string) (*models.Video, error) {
	changes := map[string]any{"processing_status": status}
	if status == models.ProcessingCompleted {
		changes["is_processed"] = true
	}

	return r.UpdateByID(ctx, id, changes)
}

// SetAnalyzed stores the analyzed flag.
func (r Videos) SetAnalyzed(ctx context.Context, id uint, analyzed bool) (*models.Video, error) {
	return r.UpdateByID(ctx, id, map[string]any{"is_analyzed": analyzed})
}

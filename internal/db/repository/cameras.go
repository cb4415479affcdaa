package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/pagination"
)

const (
	relLocation = "Location"
	relOwner    = "Owner"
)

// CameraStats are the aggregates of one camera.
type CameraStats struct {
	Videos    int64
	Events    int64
	DiskBytes int64
}

// Cameras reads and writes cameras.
type Cameras struct {
	Repository[models.Camera]
}

// NewCameras returns a camera repository bound to db.
func NewCameras(db *gorm.DB) Cameras {
	return Cameras{New[models.Camera](db)}
}

// ListByLocation returns a page of cameras installed at a location.
func (r Cameras) ListByLocation(ctx context.Context, locationID uint, p pagination.Params) ([]models.Camera, error) {
	return r.List(ctx, p, Filters{"location_id": locationID})
}

// ListByOwner returns a page of cameras owned by a user.
func (r Cameras) ListByOwner(ctx context.Context, ownerID uint, p pagination.Params) ([]models.Camera, error) {
	return r.List(ctx, p, Filters{"owner_id": ownerID})
}

// ListWithLocation returns a page of cameras with their location.
func (r Cameras) ListWithLocation(ctx context.Context, p pagination.Params, filters Filters) ([]models.Camera, error) {
	return r.List(ctx, p, filters, relLocation)
}

// ListWithOwner returns a page of cameras with their owner.
func (r Cameras) ListWithOwner(ctx context.Context, p pagination.Params, filters Filters) ([]models.Camera, error) {
	return r.List(ctx, p, filters, relOwner)
}

// ListFull returns a page of cameras with location and owner.
func (r Cameras) ListFull(ctx context.Context, p pagination.Params, filters Filters) ([]models.Camera, error) {
	return r.List(ctx, p, filters, relLocation, relOwner)
}

// GetWithLocation returns the camera with its location.
func (r Cameras) GetWithLocation(ctx context.Context, id uint) (*models.Camera, error) {
	return r.Get(ctx, id, relLocation)
}

// GetWithOwner returns the camera with its owner.
func (r Cameras) GetWithOwner(ctx context.Context, id uint) (*models.Camera, error) {
	return r.Get(ctx, id, relOwner)
}

// GetFull returns the camera with location and owner.
func (r Cameras) GetFull(ctx context.Context, id uint) (*models.Camera, error) {
	return r.Get(ctx, id, relLocation, relOwner)
}

// Stats counts videos and events of a camera and sums the video file sizes.
func (r Cameras) Stats(ctx context.Context, id uint) (CameraStats, error) {
	var stats CameraStats

	db, err := r.conn(ctx)
	if err != nil {
		return stats, err
	}

	var videos struct {
		Count int64
		Bytes int64
	}

	err = db.Model(&models.Video{}).
		Select("COUNT(*) AS count, COALESCE(SUM(file_size), 0) AS bytes").
		Where("camera_id = ?", id).
		Scan(&videos).Error
	if err != nil {
		return stats, err
	}

	if err = db.Model(&models.Event{}).Where("camera_id = ?", id).Count(&stats.Events).Error; err != nil {
		return stats, err
	}

	stats.Videos = videos.Count
	stats.DiskBytes = videos.Bytes

	return stats, nil
}

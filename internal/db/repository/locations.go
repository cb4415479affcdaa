package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/pagination"
)

const (
	relUsers   = "Users"
	relCameras = "Cameras"
)

// Locations reads and writes locations.
type Locations struct {
	Repository[models.Location]
}

// NewLocations returns a location repository bound to db.
func NewLocations(db *gorm.DB) Locations {
	return Locations{New[models.Location](db)}
}

// ListWithUsers returns a page of locations with their assigned users.
func (r Locations) ListWithUsers(ctx context.Context, p pagination.Params) ([]models.Location, error) {
	return r.List(ctx, p, nil, relUsers)
}

// ListWithCameras returns a page of locations with their cameras.
func (r Locations) ListWithCameras(ctx context.Context, p pagination.Params) ([]models.Location, error) {
	return r.List(ctx, p, nil, relCameras)
}

// ListFull returns a page of locations with users and cameras.
func (r Locations) ListFull(ctx context.Context, p pagination.Params) ([]models.Location, error) {
	return r.List(ctx, p, nil, relUsers, relCameras)
}

// GetWithUsers returns the location with its assigned users.
func (r Locations) GetWithUsers(ctx context.Context, id uint) (*models.Location, error) {
	return r.Get(ctx, id, relUsers)
}

// GetWithCameras returns the location with its cameras.
func (r Locations) GetWithCameras(ctx context.Context, id uint) (*models.Location, error) {
	return r.Get(ctx, id, relCameras)
}

// GetFull returns the location with users and cameras.
func (r Locations) GetFull(ctx context.Context, id uint) (*models.Location, error) {
	return r.Get(ctx, id, relUsers, relCameras)
}

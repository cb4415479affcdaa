package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/db/repository"
	"github.com/vigil-vms/vigil/internal/pagination"
	"github.com/vigil-vms/vigil/internal/schema"
)

// Locations manages sites and what is attached to them.
type Locations struct {
	db *gorm.DB
}

// NewLocations creates the location service.
func NewLocations(db *gorm.DB) *Locations {
	return &Locations{db: db}
}

func listLocations[T any](
	ctx context.Context,
	db *gorm.DB,
	p pagination.Params,
	list func(repository.Locations) ([]models.Location, error),
	shape func(models.Location) T,
) (pagination.Result[T], error) {
	repo := repository.NewLocations(db)

	res, err := page(ctx, repo.Repository, p, nil, func() ([]models.Location, error) {
		return list(repo)
	})
	if err != nil {
		return pagination.Result[T]{}, err
	}

	return pagination.Map(res, shape), nil
}

// List returns a page of locations.
func (s *Locations) List(ctx context.Context, p pagination.Params) (pagination.Result[schema.Location], error) {
	return listLocations(ctx, s.db, p, func(r repository.Locations) ([]models.Location, error) {
		return r.List(ctx, p, nil)
	}, schema.FromLocation)
}

// ListWithUsers returns a page of locations with their users.
func (s *Locations) ListWithUsers(ctx context.Context, p pagination.Params) (pagination.Result[schema.LocationWithUsers], error) {
	return listLocations(ctx, s.db, p, func(r repository.Locations) ([]models.Location, error) {
		return r.ListWithUsers(ctx, p)
	}, schema.FromLocationWithUsers)
}

// ListWithCameras returns a page of locations with their cameras.
func (s *Locations) ListWithCameras(ctx context.Context, p pagination.Params) (pagination.Result[schema.LocationWithCameras], error) {
	return listLocations(ctx, s.db, p, func(r repository.Locations) ([]models.Location, error) {
		return r.ListWithCameras(ctx, p)
	}, schema.FromLocationWithCameras)
}

// ListFull returns a page of locations with users and cameras.
func (s *Locations) ListFull(ctx context.Context, p pagination.Params) (pagination.Result[schema.LocationFull], error) {
	return listLocations(ctx, s.db, p, func(r repository.Locations) ([]models.Location, error) {
		return r.ListFull(ctx, p)
	}, schema.FromLocationFull)
}

// Get returns one location.
func (s *Locations) Get(ctx context.Context, id uint) (schema.Location, error) {
	location, err := getLocation(ctx, s.db, id)
	if err != nil {
		return schema.Location{}, err
	}

	return schema.FromLocation(*location), nil
}

// GetWithUsers returns one location with its users.
func (s *Locations) GetWithUsers(ctx context.Context, id uint) (schema.LocationWithUsers, error) {
	location, err := found(repository.NewLocations(s.db).GetWithUsers(ctx, id))
	if err != nil {
		return schema.LocationWithUsers{}, err
	}

	return schema.FromLocationWithUsers(*location), nil
}

// GetWithCameras returns one location with its cameras.
func (s *Locations) GetWithCameras(ctx context.Context, id uint) (schema.LocationWithCameras, error) {
	location, err := found(repository.NewLocations(s.db).GetWithCameras(ctx, id))
	if err != nil {
		return schema.LocationWithCameras{}, err
	}

	return schema.FromLocationWithCameras(*location), nil
}

// GetFull returns one location with users and cameras.
func (s *Locations) GetFull(ctx context.Context, id uint) (schema.LocationFull, error) {
	location, err := found(repository.NewLocations(s.db).GetFull(ctx, id))
	if err != nil {
		return schema.LocationFull{}, err
	}

	return schema.FromLocationFull(*location), nil
}

// Create adds a location.
func (s *Locations) Create(ctx context.Context, in schema.LocationCreate) (schema.Location, error) {
	location := in.Model()

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		return storeErr(repository.NewLocations(tx).Create(ctx, &location), "create location")
	})
	if err != nil {
		return schema.Location{}, err
	}

	return schema.FromLocation(location), nil
}

// Update changes the supplied fields of a location.
func (s *Locations) Update(ctx context.Context, id uint, in schema.LocationUpdate) (schema.Location, error) {
	var location *models.Location

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if location, err = getLocation(ctx, tx, id); err != nil {
			return err
		}

		return storeErr(repository.NewLocations(tx).Update(ctx, location, in.Changes()), "update location")
	})
	if err != nil {
		return schema.Location{}, err
	}

	return schema.FromLocation(*location), nil
}

// Delete removes a location together with its cameras and their recordings.
func (s *Locations) Delete(ctx context.Context, id uint) error {
	return deleteByID[models.Location](ctx, s.db, id)
}

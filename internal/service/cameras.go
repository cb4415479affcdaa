package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/db/repository"
	"github.com/vigil-vms/vigil/internal/pagination"
	"github.com/vigil-vms/vigil/internal/schema"
)

const bytesPerMB = 1024 * 1024

// Cameras manages cameras. Update and delete are reserved to the owner.
type Cameras struct {
	db *gorm.DB
}

// NewCameras creates the camera service.
func NewCameras(db *gorm.DB) *Cameras {
	return &Cameras{db: db}
}

func listCameras[T any](
	ctx context.Context,
	db *gorm.DB,
	p pagination.Params,
	filters repository.Filters,
	list func(repository.Cameras) ([]models.Camera, error),
	shape func(models.Camera) T,
) (pagination.Result[T], error) {
	repo := repository.NewCameras(db)

	res, err := page(ctx, repo.Repository, p, filters, func() ([]models.Camera, error) {
		return list(repo)
	})
	if err != nil {
		return pagination.Result[T]{}, err
	}

	return pagination.Map(res, shape), nil
}

// List returns a page of cameras.
func (s *Cameras) List(ctx context.Context, p pagination.Params) (pagination.Result[schema.Camera], error) {
	return listCameras(ctx, s.db, p, nil, func(r repository.Cameras) ([]models.Camera, error) {
		return r.List(ctx, p, nil)
	}, schema.FromCamera)
}

// ListByLocation returns a page of the cameras of an existing location.
func (s *Cameras) ListByLocation(ctx context.Context, locationID uint, p pagination.Params) (pagination.Result[schema.Camera], error) {
	if _, err := getLocation(ctx, s.db, locationID); err != nil {
		return pagination.Result[schema.Camera]{}, err
	}

	return listCameras(ctx, s.db, p, repository.Filters{"location_id": locationID},
		func(r repository.Cameras) ([]models.Camera, error) {
			return r.ListByLocation(ctx, locationID, p)
		}, schema.FromCamera)
}

// ListMine returns a page of the cameras owned by userID.
func (s *Cameras) ListMine(ctx context.Context, userID uint, p pagination.Params) (pagination.Result[schema.Camera], error) {
	return listCameras(ctx, s.db, p, repository.Filters{"owner_id": userID},
		func(r repository.Cameras) ([]models.Camera, error) {
			return r.ListByOwner(ctx, userID, p)
		}, schema.FromCamera)
}

// ListWithLocation returns a page of cameras with their location.
func (s *Cameras) ListWithLocation(ctx context.Context, p pagination.Params) (pagination.Result[schema.CameraWithLocation], error) {
	return listCameras(ctx, s.db, p, nil, func(r repository.Cameras) ([]models.Camera, error) {
		return r.ListWithLocation(ctx, p, nil)
	}, schema.FromCameraWithLocation)
}

// ListWithOwner returns a page of cameras with their owner.
func (s *Cameras) ListWithOwner(ctx context.Context, p pagination.Params) (pagination.Result[schema.CameraWithOwner], error) {
	return listCameras(ctx, s.db, p, nil, func(r repository.Cameras) ([]models.Camera, error) {
		return r.ListWithOwner(ctx, p, nil)
	}, schema.FromCameraWithOwner)
}

// ListFull returns a page of cameras with location and owner.
func (s *Cameras) ListFull(ctx context.Context, p pagination.Params) (pagination.Result[schema.CameraFull], error) {
	return listCameras(ctx, s.db, p, nil, func(r repository.Cameras) ([]models.Camera, error) {
		return r.ListFull(ctx, p, nil)
	}, schema.FromCameraFull)
}

// Get returns one camera.
func (s *Cameras) Get(ctx context.Context, id uint) (schema.Camera, error) {
	camera, err := getCamera(ctx, s.db, id)
	if err != nil {
		return schema.Camera{}, err
	}

	return schema.FromCamera(*camera), nil
}

// GetWithLocation returns one camera with its location.
func (s *Cameras) GetWithLocation(ctx context.Context, id uint) (schema.CameraWithLocation, error) {
	camera, err := found(repository.NewCameras(s.db).GetWithLocation(ctx, id))
	if err != nil {
		return schema.CameraWithLocation{}, err
	}

	return schema.FromCameraWithLocation(*camera), nil
}

// GetWithOwner returns one camera with its owner.
func (s *Cameras) GetWithOwner(ctx context.Context, id uint) (schema.CameraWithOwner, error) {
	camera, err := found(repository.NewCameras(s.db).GetWithOwner(ctx, id))
	if err != nil {
		return schema.CameraWithOwner{}, err
	}

	return schema.FromCameraWithOwner(*camera), nil
}

// GetFull returns one camera with location and owner.
func (s *Cameras) GetFull(ctx context.Context, id uint) (schema.CameraFull, error) {
	camera, err := found(repository.NewCameras(s.db).GetFull(ctx, id))
	if err != nil {
		return schema.CameraFull{}, err
	}

	return schema.FromCameraFull(*camera), nil
}

// Create adds a camera owned by in.OwnerID or, when unset, by the acting user.
func (s *Cameras) Create(ctx context.Context, actorID uint, in schema.CameraCreate) (schema.CameraFull, error) {
	var camera *models.Camera

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := getLocation(ctx, tx, in.LocationID); err != nil {
			return err
		}

		ownerID := actorID
		if in.OwnerID != nil {
			ownerID = *in.OwnerID
		}

		if _, err := getUser(ctx, tx, ownerID); err != nil {
			return err
		}

		cameras := repository.NewCameras(tx)

		m := in.Model(ownerID)
		if err := cameras.Create(ctx, &m); err != nil {
			return storeErr(err, "create camera")
		}

		var err error
		camera, err = found(cameras.GetFull(ctx, m.ID))

		return err
	})
	if err != nil {
		return schema.CameraFull{}, err
	}

	return schema.FromCameraFull(*camera), nil
}

// Update changes the supplied fields. Only the owner may update, whatever permissions others hold.
func (s *Cameras) Update(ctx context.Context, actorID, id uint, in schema.CameraUpdate) (schema.CameraFull, error) {
	var camera *models.Camera

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		cameras := repository.NewCameras(tx)

		current, err := owned(ctx, tx, actorID, id, "update")
		if err != nil {
			return err
		}

		if in.LocationID != nil {
			if _, err = getLocation(ctx, tx, *in.LocationID); err != nil {
				return err
			}
		}

		if in.OwnerID != nil {
			if _, err = getUser(ctx, tx, *in.OwnerID); err != nil {
				return err
			}
		}

		if err = cameras.Update(ctx, current, in.Changes()); err != nil {
			return storeErr(err, "update camera")
		}

		camera, err = found(cameras.GetFull(ctx, id))

		return err
	})
	if err != nil {
		return schema.CameraFull{}, err
	}

	return schema.FromCameraFull(*camera), nil
}

// Delete removes a camera with its recordings and events. Only the owner may delete.
func (s *Cameras) Delete(ctx context.Context, actorID, id uint) error {
	return transaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := owned(ctx, tx, actorID, id, "delete"); err != nil {
			return err
		}

		_, err := repository.NewCameras(tx).Delete(ctx, id)

		return storeErr(err, "delete camera")
	})
}

// Stats returns the recording and event totals of a camera.
func (s *Cameras) Stats(ctx context.Context, id uint) (schema.CameraStats, error) {
	if _, err := getCamera(ctx, s.db, id); err != nil {
		return schema.CameraStats{}, err
	}

	stats, err := repository.NewCameras(s.db).Stats(ctx, id)
	if err != nil {
		return schema.CameraStats{}, storeErr(err, "load camera stats")
	}

	return schema.CameraStats{
		TotalVideos: stats.Videos,
		TotalEvents: stats.Events,
		DiskUsageMB: float64(stats.DiskBytes) / bytesPerMB,
	}, nil
}

// owned loads the camera and fails with Forbidden unless actorID owns it.
func owned(ctx context.Context, db *gorm.DB, actorID, id uint, action string) (*models.Camera, error) {
	camera, err := getCamera(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if camera.OwnerID != actorID {
		return nil, Forbidden("You don't have permission to %s this camera", action)
	}

	return camera, nil
}

// Package service holds the business rules between the HTTP handlers and the repositories:
// existence of referenced entities, camera ownership and result shaping.
//
// Services are built once at startup and are safe for concurrent use.
// Every write runs in one transaction bound to the request context.
package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/db/repository"
	"github.com/vigil-vms/vigil/internal/pagination"
)

// transaction runs fn in one database transaction bound to ctx.
func transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn) //nolint:wrapcheck
}

// page loads one page and the total with the same filters.
func page[T repository.Entity](
	ctx context.Context,
	repo repository.Repository[T],
	p pagination.Params,
	filters repository.Filters,
	list func() ([]T, error),
) (pagination.Result[T], error) {
	p = p.Normalize()

	items, err := list()
	if err != nil {
		return pagination.Result[T]{}, storeErr(err, "list "+(*new(T)).TableName())
	}

	total, err := repo.Count(ctx, filters)
	if err != nil {
		return pagination.Result[T]{}, storeErr(err, "count "+(*new(T)).TableName())
	}

	return pagination.NewResult(items, total, p), nil
}

var entityNames = map[string]string{
	"users":       "User",
	"roles":       "Role",
	"permissions": "Permission",
	"locations":   "Location",
	"cameras":     "Camera",
	"videos":      "Video",
	"events":      "Event",
	"objects":     "Object",
}

// found turns a nil lookup into a NotFound error named after the entity.
func found[T repository.Entity](entity *T, err error) (*T, error) {
	name := entityNames[(*new(T)).TableName()]

	if err != nil {
		return nil, storeErr(err, "load "+strings.ToLower(name))
	}

	if entity == nil {
		return nil, NotFound("%s not found", name)
	}

	return entity, nil
}

func getUser(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	return found(repository.NewUsers(db).Get(ctx, id))
}

func getRole(ctx context.Context, db *gorm.DB, id uint) (*models.Role, error) {
	return found(repository.NewRoles(db).Get(ctx, id))
}

func getLocation(ctx context.Context, db *gorm.DB, id uint) (*models.Location, error) {
	return found(repository.NewLocations(db).Get(ctx, id))
}

func getCamera(ctx context.Context, db *gorm.DB, id uint) (*models.Camera, error) {
	return found(repository.NewCameras(db).Get(ctx, id))
}

func getVideo(ctx context.Context, db *gorm.DB, id uint) (*models.Video, error) {
	return found(repository.NewVideos(db).Get(ctx, id))
}

func getEvent(ctx context.Context, db *gorm.DB, id uint) (*models.Event, error) {
	return found(repository.NewEvents(db).Get(ctx, id))
}

// deleteByID removes one entity and fails with NotFound when nothing matched.
func deleteByID[T repository.Entity](ctx context.Context, db *gorm.DB, id uint) error {
	name := entityNames[(*new(T)).TableName()]

	return transaction(ctx, db, func(tx *gorm.DB) error {
		ok, err := repository.New[T](tx).Delete(ctx, id)
		if err != nil {
			return storeErr(err, "delete "+strings.ToLower(name))
		}

		if !ok {
			return NotFound("%s not found", name)
		}

		return nil
	})
}

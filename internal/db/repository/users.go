package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/pagination"
)

const (
	relRole            = "Role"
	relRolePermissions = "Role.Permissions"
	relLocations       = "Locations"
)

// Users reads and writes user accounts.
type Users struct {
	Repository[models.User]
}

// NewUsers returns a user repository bound to db.
func NewUsers(db *gorm.DB) Users {
	return Users{New[models.User](db)}
}

// GetByEmail returns the user with exactly this email or nil.
func (r Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.GetByAttribute(ctx, "email", email)
}

// GetWithRole returns the user with its role and the role's permissions.
func (r Users) GetWithRole(ctx context.Context, id uint) (*models.User, error) {
	return r.Get(ctx, id, relRolePermissions)
}

// GetWithLocations returns the user with its role and assigned locations.
func (r Users) GetWithLocations(ctx context.Context, id uint) (*models.User, error) {
	return r.Get(ctx, id, relRole, relLocations)
}

// ListWithRole returns a page of users with their role attached.
func (r Users) ListWithRole(ctx context.Context, p pagination.Params, filters Filters) ([]models.User, error) {
	return r.List(ctx, p, filters, relRole)
}

// AddLocation assigns the user to a location. Assigning twice is a no-op.
func (r Users) AddLocation(ctx context.Context, user *models.User, location *models.Location) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}

	return db.Model(user).Association(relLocations).Append(location)
}

// RemoveLocation removes the assignment of the user to a location.
func (r Users) RemoveLocation(ctx context.Context, user *models.User, location *models.Location) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}

	return db.Model(user).Association(relLocations).Delete(location)
}

// OwnedCameras counts the cameras owned by the user.
func (r Users) OwnedCameras(ctx context.Context, id uint) (int64, error) {
	return NewCameras(r.db).Count(ctx, Filters{"owner_id": id})
}

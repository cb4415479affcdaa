package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/pagination"
)

const relPermissions = "Permissions"

// Roles reads and writes roles.
type Roles struct {
	Repository[models.Role]
}

// NewRoles returns a role repository bound to db.
func NewRoles(db *gorm.DB) Roles {
	return Roles{New[models.Role](db)}
}

// GetByName returns the role with this name or nil.
func (r Roles) GetByName(ctx context.Context, name string) (*models.Role, error) {
	return r.GetByAttribute(ctx, "name", name)
}

// GetWithPermissions returns the role with its permissions.
func (r Roles) GetWithPermissions(ctx context.Context, id uint) (*models.Role, error) {
	return r.Get(ctx, id, relPermissions)
}

// ListWithPermissions returns a page of roles with their permissions.
func (r Roles) ListWithPermissions(ctx context.Context, p pagination.Params) ([]models.Role, error) {
	return r.List(ctx, p, nil, relPermissions)
}

// ReplacePermissions sets the permissions of role to exactly perms.
func (r Roles) ReplacePermissions(ctx context.Context, role *models.Role, perms []models.Permission) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}

	assoc := db.Model(role).Association(relPermissions)
	if len(perms) == 0 {
		return assoc.Clear()
	}

	return assoc.Replace(perms)
}

// Permissions reads and writes permissions.
type Permissions struct {
	Repository[models.Permission]
}

// NewPermissions returns a permission repository bound to db.
func NewPermissions(db *gorm.DB) Permissions {
	return Permissions{New[models.Permission](db)}
}

// GetByName returns the permission with this name or nil.
func (r Permissions) GetByName(ctx context.Context, name string) (*models.Permission, error) {
	return r.GetByAttribute(ctx, "name", name)
}

// GetByIDs returns the permissions with the given ids. Unknown ids are skipped.
func (r Permissions) GetByIDs(ctx context.Context, ids []uint) ([]models.Permission, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var perms []models.Permission
	if len(ids) == 0 {
		return perms, nil
	}

	err = db.Where("id IN ?", ids).Order("id").Find(&perms).Error

	return perms, err
}

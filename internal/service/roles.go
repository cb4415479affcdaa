package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/db/repository"
	"github.com/vigil-vms/vigil/internal/pagination"
	"github.com/vigil-vms/vigil/internal/schema"
)

// Roles manages roles and the permission catalogue.
type Roles struct {
	db *gorm.DB
}

// NewRoles creates the role and permission service.
func NewRoles(db *gorm.DB) *Roles {
	return &Roles{db: db}
}

// ListPermissions returns a page of permissions.
func (s *Roles) ListPermissions(ctx context.Context, p pagination.Params) (pagination.Result[schema.Permission], error) {
	repo := repository.NewPermissions(s.db)

	res, err := page(ctx, repo.Repository, p, nil, func() ([]models.Permission, error) {
		return repo.List(ctx, p, nil)
	})
	if err != nil {
		return pagination.Result[schema.Permission]{}, err
	}

	return pagination.Map(res, schema.FromPermission), nil
}

// GetPermission returns one permission.
func (s *Roles) GetPermission(ctx context.Context, id uint) (schema.Permission, error) {
	perm, err := found(repository.NewPermissions(s.db).Get(ctx, id))
	if err != nil {
		return schema.Permission{}, err
	}

	return schema.FromPermission(*perm), nil
}

// CreatePermission adds a permission with a unique name.
func (s *Roles) CreatePermission(ctx context.Context, in schema.PermissionCreate) (schema.Permission, error) {
	perm := models.Permission{Name: in.Name, Description: in.Description}

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		perms := repository.NewPermissions(tx)

		if err := permissionNameFree(ctx, perms, in.Name, 0); err != nil {
			return err
		}

		return storeErr(perms.Create(ctx, &perm), "create permission")
	})
	if err != nil {
		return schema.Permission{}, err
	}

	return schema.FromPermission(perm), nil
}

// UpdatePermission changes the supplied fields of a permission.
func (s *Roles) UpdatePermission(ctx context.Context, id uint, in schema.PermissionUpdate) (schema.Permission, error) {
	var perm *models.Permission

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		perms := repository.NewPermissions(tx)

		var err error
		if perm, err = found(perms.Get(ctx, id)); err != nil {
			return err
		}

		if in.Name != nil && *in.Name != perm.Name {
			if err = permissionNameFree(ctx, perms, *in.Name, id); err != nil {
				return err
			}
		}

		return storeErr(perms.Update(ctx, perm, in.Changes()), "update permission")
	})
	if err != nil {
		return schema.Permission{}, err
	}

	return schema.FromPermission(*perm), nil
}

// DeletePermission removes a permission from the catalogue and from every role.
func (s *Roles) DeletePermission(ctx context.Context, id uint) error {
	return deleteByID[models.Permission](ctx, s.db, id)
}

// ListRoles returns a page of roles with their permissions.
func (s *Roles) ListRoles(ctx context.Context, p pagination.Params) (pagination.Result[schema.Role], error) {
	repo := repository.NewRoles(s.db)

	res, err := page(ctx, repo.Repository, p, nil, func() ([]models.Role, error) {
		return repo.ListWithPermissions(ctx, p)
	})
	if err != nil {
		return pagination.Result[schema.Role]{}, err
	}

	return pagination.Map(res, schema.FromRole), nil
}

// GetRole returns one role with its permissions.
func (s *Roles) GetRole(ctx context.Context, id uint) (schema.Role, error) {
	role, err := found(repository.NewRoles(s.db).GetWithPermissions(ctx, id))
	if err != nil {
		return schema.Role{}, err
	}

	return schema.FromRole(*role), nil
}

// CreateRole adds a role. Every permission id must exist.
func (s *Roles) CreateRole(ctx context.Context, in schema.RoleCreate) (schema.Role, error) {
	var role *models.Role

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		roles := repository.NewRoles(tx)

		if err := roleNameFree(ctx, roles, in.Name, 0); err != nil {
			return err
		}

		perms, err := resolvePermissions(ctx, tx, in.PermissionIDs)
		if err != nil {
			return err
		}

		role = &models.Role{Name: in.Name, Description: in.Description}
		if err = roles.Create(ctx, role); err != nil {
			return storeErr(err, "create role")
		}

		if err = roles.ReplacePermissions(ctx, role, perms); err != nil {
			return storeErr(err, "assign permissions")
		}

		role, err = found(roles.GetWithPermissions(ctx, role.ID))

		return err
	})
	if err != nil {
		return schema.Role{}, err
	}

	return schema.FromRole(*role), nil
}

// UpdateRole changes the supplied fields. Supplied permission ids replace the whole set.
func (s *Roles) UpdateRole(ctx context.Context, id uint, in schema.RoleUpdate) (schema.Role, error) {
	var role *models.Role

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		roles := repository.NewRoles(tx)

		var err error
		if role, err = found(roles.Get(ctx, id)); err != nil {
			return err
		}

		if in.Name != nil && *in.Name != role.Name {
			if err = roleNameFree(ctx, roles, *in.Name, id); err != nil {
				return err
			}
		}

		if in.PermissionIDs != nil {
			perms, err := resolvePermissions(ctx, tx, *in.PermissionIDs)
			if err != nil {
				return err
			}

			if err = roles.ReplacePermissions(ctx, role, perms); err != nil {
				return storeErr(err, "replace permissions")
			}
		}

		if err = roles.Update(ctx, role, in.Changes()); err != nil {
			return storeErr(err, "update role")
		}

		role, err = found(roles.GetWithPermissions(ctx, id))

		return err
	})
	if err != nil {
		return schema.Role{}, err
	}

	return schema.FromRole(*role), nil
}

// DeleteRole removes a role. Its users keep their account without a role.
func (s *Roles) DeleteRole(ctx context.Context, id uint) error {
	return deleteByID[models.Role](ctx, s.db, id)
}

// resolvePermissions loads every id or fails with NotFound.
func resolvePermissions(ctx context.Context, db *gorm.DB, ids []uint) ([]models.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	perms, err := repository.NewPermissions(db).GetByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr(err, "load permissions")
	}

	have := make(map[uint]struct{}, len(perms))
	for _, p := range perms {
		have[p.ID] = struct{}{}
	}

	for _, id := range ids {
		if _, ok := have[id]; !ok {
			return nil, NotFound("Permission %d not found", id)
		}
	}

	return perms, nil
}

func permissionNameFree(ctx context.Context, perms repository.Permissions, name string, exceptID uint) error {
	other, err := perms.GetByName(ctx, name)
	if err != nil {
		return storeErr(err, "look up permission")
	}

	if other != nil && other.ID != exceptID {
		return Validation("Permission with name %q already exists", name)
	}

	return nil
}

func roleNameFree(ctx context.Context, roles repository.Roles, name string, exceptID uint) error {
	other, err := roles.GetByName(ctx, name)
	if err != nil {
		return storeErr(err, "look up role")
	}

	if other != nil && other.ID != exceptID {
		return Validation("Role with name %q already exists", name)
	}

	return nil
}

package schema

import (
	"time"

	"github.com/vigil-vms/vigil/internal/db/models"
)

// Permission is the response shape of a permission.
type Permission struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PermissionCreate is the input of a new permission.
type PermissionCreate struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"max=255"`
}

// PermissionUpdate changes only the supplied fields.
type PermissionUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

// Changes returns the column changes of the update.
func (in PermissionUpdate) Changes() map[string]any {
	c := map[string]any{}
	setIf(c, "name", in.Name)
	setIf(c, "description", in.Description)

	return c
}

// Role is the response shape of a role with its permissions.
type Role struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// RoleCreate is the input of a new role.
type RoleCreate struct {
	Name          string `json:"name" validate:"required,max=100"`
	Description   string `json:"description" validate:"max=255"`
	PermissionIDs []uint `json:"permission_ids"`
}

// RoleUpdate changes only the supplied fields.
// A non-nil PermissionIDs replaces the permission set.
type RoleUpdate struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description   *string `json:"description" validate:"omitempty,max=255"`
	PermissionIDs *[]uint `json:"permission_ids"`
}

// Changes returns the column changes of the update.
func (in RoleUpdate) Changes() map[string]any {
	c := map[string]any{}
	setIf(c, "name", in.Name)
	setIf(c, "description", in.Description)

	return c
}

// Me is the current account with the permission names its role grants.
type Me struct {
	User
	Permissions []string `json:"permissions"`
}

// Login is the JSON login input.
type Login struct {
	Email    string `json:"email" form:"username" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// RefreshToken is the input of the token refresh.
type RefreshToken struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Register is the public self registration input.
type Register struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	RoleID    *uint  `json:"role_id"`
}

// FromPermission maps a permission model.
func FromPermission(m models.Permission) Permission {
	return Permission{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromRole maps a role model including the loaded permissions.
func FromRole(m models.Role) Role {
	return Role{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Permissions: mapSlice(m.Permissions, FromPermission),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

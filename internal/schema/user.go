package schema

import (
	"time"

	"github.com/vigil-vms/vigil/internal/db/models"
)

// User is the response shape of a user. The password hash is never exposed.
type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsActive  bool      `json:"is_active"`
	RoleID    *uint     `json:"role_id"`
	Role      *Role     `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserWithLocations adds the assigned locations.
type UserWithLocations struct {
	User
	Locations []Location `json:"locations"`
}

// UserCreate is the input of a new user.
type UserCreate struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	IsActive  *bool  `json:"is_active"`
	RoleID    *uint  `json:"role_id"`
}

// Active returns is_active, defaulting to true.
func (in UserCreate) Active() bool {
	return in.IsActive == nil || *in.IsActive
}

// UserUpdate changes only the supplied fields.
type UserUpdate struct {
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	IsActive  *bool   `json:"is_active"`
	RoleID    *uint   `json:"role_id"`
}

// Changes returns the column changes of the update without email, password and role.
// Those need checks by the caller.
func (in UserUpdate) Changes() map[string]any {
	c := map[string]any{}
	setIf(c, "first_name", in.FirstName)
	setIf(c, "last_name", in.LastName)
	setIf(c, "is_active", in.IsActive)

	return c
}

// SelfUpdate is what a user may change on the own account.
type SelfUpdate struct {
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
}

// AsUserUpdate widens the self update.
func (in SelfUpdate) AsUserUpdate() UserUpdate {
	return UserUpdate{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  in.Password,
	}
}

// ChangePassword is the input of a password change.
type ChangePassword struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// FromUser maps a user model. The role is included when loaded.
func FromUser(m models.User) User {
	u := User{
		ID:        m.ID,
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		IsActive:  m.IsActive,
		RoleID:    m.RoleID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}

	if m.Role != nil {
		r := FromRole(*m.Role)
		u.Role = &r
	}

	return u
}

// FromUserWithLocations maps a user with its locations.
func FromUserWithLocations(m models.User) UserWithLocations {
	return UserWithLocations{
		User:      FromUser(m),
		Locations: mapSlice(m.Locations, FromLocation),
	}
}

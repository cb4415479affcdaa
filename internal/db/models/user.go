package models

import (
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
)

// User represents an operator account.
// A user holds at most one role, owns cameras and is assigned to locations.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`
	// Email is the unique login name of the user.
	Email string `gorm:"uniqueIndex;size:255;not null"`
	// HashedPassword is the Argon2id hash of the user's password.
	HashedPassword string `gorm:"size:255;not null"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:100"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:100"`
	// IsActive indicates whether the user can log in. Inactive users are rejected with 403.
	IsActive bool `gorm:"not null"`
	// RoleID is the optional role of the user. A user without a role is denied every permission.
	RoleID *uint `gorm:"index"`
	// Role is the associated role. Deleting the role detaches it from its users.
	Role *Role `gorm:"foreignKey:RoleID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE"`
	// Cameras are the cameras owned by this user.
	Cameras []Camera `gorm:"foreignKey:OwnerID"`
	// Locations are the locations this user is assigned to.
	Locations []Location `gorm:"many2many:user_locations"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	hashed, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return hashed, nil
}

// VerifyPassword verifies a plaintext password against the user's stored hash.
// A malformed stored hash never matches.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.HashedPassword)
	if err != nil {
		return false
	}

	return match
}

// RoleName returns the name of the user's role or "" when the user has none.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}

	return u.Role.Name
}

// PermissionNames returns the names of the permissions granted through the user's role.
func (u *User) PermissionNames() []string {
	if u.Role == nil {
		return nil
	}

	names := make([]string, 0, len(u.Role.Permissions))
	for _, p := range u.Role.Permissions {
		names = append(names, p.Name)
	}

	return names
}

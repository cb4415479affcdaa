package auth

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/db/repository"
)

// Service provides authorization checks against the stored role graph.
type Service struct {
	users repository.Users
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{users: repository.NewUsers(db)}
}

// LoadUser returns the user with role and permissions, or nil if absent.
func (s *Service) LoadUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetWithRole(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	return user, nil
}

// UserHasPermission checks an already loaded user.
func (s *Service) UserHasPermission(user *models.User, permission string) bool {
	if user == nil {
		return false
	}

	return Granted(user.RoleName(), user.PermissionNames(), permission)
}

// HasPermission checks if a user has a specific permission.
// Unknown users and users without a role have none.
func (s *Service) HasPermission(ctx context.Context, userID uint, permission string) (bool, error) {
	user, err := s.LoadUser(ctx, userID)
	if err != nil {
		return false, err
	}

	return s.UserHasPermission(user, permission), nil
}

// RequirePermission returns ErrForbidden unless the user has the permission.
func (s *Service) RequirePermission(ctx context.Context, userID uint, permission string) error {
	ok, err := s.HasPermission(ctx, userID, permission)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("%w: %s", ErrForbidden, permission)
	}

	return nil
}

// GetUserPermissions returns the permission names granted by the user's role.
func (s *Service) GetUserPermissions(ctx context.Context, userID uint) ([]string, error) {
	user, err := s.LoadUser(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}

	return user.PermissionNames(), nil
}

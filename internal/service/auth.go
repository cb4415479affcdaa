package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/auth"
	"github.com/vigil-vms/vigil/internal/schema"
)

// Auth issues token pairs for credentials and refresh tokens.
type Auth struct {
	local  *auth.LocalProvider
	authz  *auth.Service
	tokens *auth.TokenManager
}

// NewAuth creates the login service.
func NewAuth(db *gorm.DB, tokens *auth.TokenManager) *Auth {
	return &Auth{
		local:  auth.NewLocalProvider(db),
		authz:  auth.NewService(db),
		tokens: tokens,
	}
}

// Login checks email and password. Unknown users and wrong passwords fail with
// auth.ErrUnauthorized, disabled accounts with auth.ErrUserAccountDisabled.
func (s *Auth) Login(ctx context.Context, in schema.Login) (auth.TokenPair, error) {
	user, err := s.local.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return auth.TokenPair{}, err //nolint:wrapcheck
	}

	return s.tokens.Issue(user.ID) //nolint:wrapcheck
}

// Refresh exchanges a refresh token of an active user for a new pair.
func (s *Auth) Refresh(ctx context.Context, in schema.RefreshToken) (auth.TokenPair, error) {
	userID, err := s.tokens.Parse(in.RefreshToken, auth.TokenRefresh)
	if err != nil {
		return auth.TokenPair{}, err //nolint:wrapcheck
	}

	user, err := s.authz.LoadUser(ctx, userID)
	if err != nil {
		return auth.TokenPair{}, err //nolint:wrapcheck
	}

	if user == nil {
		return auth.TokenPair{}, fmt.Errorf("%w: user %d", auth.ErrUserNotFound, userID)
	}

	if !user.IsActive {
		return auth.TokenPair{}, auth.ErrUserAccountDisabled
	}

	return s.tokens.Issue(user.ID) //nolint:wrapcheck
}

// Me returns the account of userID with role and permissions.
func (s *Auth) Me(ctx context.Context, userID uint) (schema.Me, error) {
	user, err := s.authz.LoadUser(ctx, userID)
	if err != nil {
		return schema.Me{}, err //nolint:wrapcheck
	}

	if user == nil {
		return schema.Me{}, NotFound("User not found")
	}

	perms, err := s.authz.GetUserPermissions(ctx, userID)
	if err != nil {
		return schema.Me{}, err //nolint:wrapcheck
	}

	if perms == nil {
		perms = []string{}
	}

	return schema.Me{User: schema.FromUser(*user), Permissions: perms}, nil
}

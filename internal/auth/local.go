package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexedwards/argon2id"
	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/db/repository"
)

// dummyHash is compared against when the email is unknown, so both branches
// spend the same argon2id work.
var dummyHash = sync.OnceValue(func() string {
	hash, err := argon2id.CreateHash("vigil-dummy-password", argon2id.DefaultParams)
	if err != nil {
		panic(err)
	}

	return hash
})

var compareHash = argon2id.ComparePasswordAndHash

// LocalProvider handles local database authentication.
type LocalProvider struct {
	users repository.Users
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		users: repository.NewUsers(db),
	}
}

// Authenticate authenticates a user by email and password.
// The active flag is checked only after the password matched.
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if user == nil {
		_, _ = compareHash(password, dummyHash())

		return nil, ErrUserNotFound
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	if !user.IsActive {
		return nil, ErrUserAccountDisabled
	}

	return user, nil
}

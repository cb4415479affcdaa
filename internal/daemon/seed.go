package daemon

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/auth"
	"github.com/vigil-vms/vigil/internal/config"
	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/db/repository"
)

// DefaultAdminEmail is the login of the seeded account when none is configured.
const DefaultAdminEmail = "admin@example.com"

// seed creates the default permissions and the admin role if missing, and an
// active admin account when the user table is empty. It is idempotent.
func seed(cfg *config.Config, db *gorm.DB) error {
	ctx := context.Background()

	return db.Transaction(func(tx *gorm.DB) error {
		perms, err := seedPermissions(ctx, tx)
		if err != nil {
			return err
		}

		roles := repository.NewRoles(tx)

		role, err := roles.GetByName(ctx, auth.RoleAdmin)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if role == nil {
			role = &models.Role{Name: auth.RoleAdmin, Description: "Full access"}
			if err = roles.Create(ctx, role); err != nil {
				return err //nolint:wrapcheck
			}

			if err = roles.ReplacePermissions(ctx, role, perms); err != nil {
				return err //nolint:wrapcheck
			}

			log.Info().Uint("role_id", role.ID).Msg("seeded admin role")
		}

		return seedAdmin(ctx, cfg, tx, role.ID)
	})
}

func seedPermissions(ctx context.Context, tx *gorm.DB) ([]models.Permission, error) {
	repo := repository.NewPermissions(tx)
	defaults := auth.Defaults()

	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}

	sort.Strings(names)

	perms := make([]models.Permission, 0, len(names))

	for _, name := range names {
		perm, err := repo.GetByName(ctx, name)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		if perm == nil {
			perm = &models.Permission{Name: name, Description: defaults[name]}
			if err = repo.Create(ctx, perm); err != nil {
				return nil, err //nolint:wrapcheck
			}
		}

		perms = append(perms, *perm)
	}

	return perms, nil
}

func seedAdmin(ctx context.Context, cfg *config.Config, tx *gorm.DB, roleID uint) error {
	users := repository.NewUsers(tx)

	count, err := users.Count(ctx, nil)
	if err != nil || count > 0 {
		return err //nolint:wrapcheck
	}

	email := cfg.Auth.AdminEmail
	if email == "" {
		email = DefaultAdminEmail
	}

	password := cfg.Auth.AdminPassword
	if password == "" {
		password = uuid.NewString()
		log.Warn().Str("email", email).Str("password", password).
			Msg("no admin password configured, generated one; change it after the first login")
	}

	hashed, err := models.HashPassword(password)
	if err != nil {
		return err //nolint:wrapcheck
	}

	admin := &models.User{
		Email:          email,
		HashedPassword: hashed,
		FirstName:      "Admin",
		LastName:       "User",
		IsActive:       true,
		RoleID:         &roleID,
	}
	if err = users.Create(ctx, admin); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Str("email", email).Msg("seeded admin account")

	return nil
}

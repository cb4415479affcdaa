package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/db/repository"
	"github.com/vigil-vms/vigil/internal/pagination"
	"github.com/vigil-vms/vigil/internal/schema"
)

const msgEmailTaken = "User with this email already exists"

// Users manages accounts and their location assignments.
type Users struct {
	db *gorm.DB
}

// NewUsers creates the user service.
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// List returns a page of users with their role.
func (s *Users) List(ctx context.Context, p pagination.Params) (pagination.Result[schema.User], error) {
	repo := repository.NewUsers(s.db)

	res, err := page(ctx, repo.Repository, p, nil, func() ([]models.User, error) {
		return repo.ListWithRole(ctx, p, nil)
	})
	if err != nil {
		return pagination.Result[schema.User]{}, err
	}

	return pagination.Map(res, schema.FromUser), nil
}

// Get returns one user with role and permissions.
func (s *Users) Get(ctx context.Context, id uint) (schema.User, error) {
	user, err := found(repository.NewUsers(s.db).GetWithRole(ctx, id))
	if err != nil {
		return schema.User{}, err
	}

	return schema.FromUser(*user), nil
}

// GetWithLocations returns one user with the assigned locations.
func (s *Users) GetWithLocations(ctx context.Context, id uint) (schema.UserWithLocations, error) {
	user, err := found(repository.NewUsers(s.db).GetWithLocations(ctx, id))
	if err != nil {
		return schema.UserWithLocations{}, err
	}

	return schema.FromUserWithLocations(*user), nil
}

// Create adds an account. The email must be unused and a given role must exist.
func (s *Users) Create(ctx context.Context, in schema.UserCreate) (schema.User, error) {
	var created models.User

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		users := repository.NewUsers(tx)

		if err := emailFree(ctx, users, in.Email, 0); err != nil {
			return err
		}

		if in.RoleID != nil {
			if _, err := getRole(ctx, tx, *in.RoleID); err != nil {
				return err
			}
		}

		hash, err := models.HashPassword(in.Password)
		if err != nil {
			return err
		}

		created = models.User{
			Email:          in.Email,
			HashedPassword: hash,
			FirstName:      in.FirstName,
			LastName:       in.LastName,
			IsActive:       in.Active(),
			RoleID:         in.RoleID,
		}

		if err = users.Create(ctx, &created); err != nil {
			return storeErr(err, "create user")
		}

		return reloadUser(ctx, users, &created)
	})
	if err != nil {
		return schema.User{}, err
	}

	return schema.FromUser(created), nil
}

// Register is the public sign up. New accounts are active and have no role.
func (s *Users) Register(ctx context.Context, in schema.Register) (schema.User, error) {
	return s.Create(ctx, schema.UserCreate{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
}

// Update changes the supplied fields. A new email is checked for uniqueness,
// a new password is hashed and a new role must exist.
func (s *Users) Update(ctx context.Context, id uint, in schema.UserUpdate) (schema.User, error) {
	var user *models.User

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		users := repository.NewUsers(tx)

		var err error
		if user, err = getUser(ctx, tx, id); err != nil {
			return err
		}

		changes := in.Changes()

		if in.Email != nil && *in.Email != user.Email {
			if err = emailFree(ctx, users, *in.Email, id); err != nil {
				return err
			}

			changes["email"] = *in.Email
		}

		if in.Password != nil {
			hash, err := models.HashPassword(*in.Password)
			if err != nil {
				return err
			}

			changes["hashed_password"] = hash
		}

		if in.RoleID != nil {
			if _, err = getRole(ctx, tx, *in.RoleID); err != nil {
				return err
			}

			changes["role_id"] = *in.RoleID
		}

		if err = users.Update(ctx, user, changes); err != nil {
			return storeErr(err, "update user")
		}

		return reloadUser(ctx, users, user)
	})
	if err != nil {
		return schema.User{}, err
	}

	return schema.FromUser(*user), nil
}

// Delete removes an account. Accounts that still own cameras are kept.
func (s *Users) Delete(ctx context.Context, id uint) error {
	return transaction(ctx, s.db, func(tx *gorm.DB) error {
		users := repository.NewUsers(tx)

		if _, err := getUser(ctx, tx, id); err != nil {
			return err
		}

		owned, err := users.OwnedCameras(ctx, id)
		if err != nil {
			return storeErr(err, "count cameras")
		}

		if owned > 0 {
			return Validation("User still owns %d cameras", owned)
		}

		if _, err = users.Delete(ctx, id); err != nil {
			return storeErr(err, "delete user")
		}

		return nil
	})
}

// ChangePassword replaces the password after verifying the current one.
func (s *Users) ChangePassword(ctx context.Context, id uint, in schema.ChangePassword) error {
	return transaction(ctx, s.db, func(tx *gorm.DB) error {
		user, err := getUser(ctx, tx, id)
		if err != nil {
			return err
		}

		if !user.VerifyPassword(in.CurrentPassword) {
			return Validation("Invalid current password")
		}

		hash, err := models.HashPassword(in.NewPassword)
		if err != nil {
			return err
		}

		return storeErr(
			repository.NewUsers(tx).Update(ctx, user, map[string]any{"hashed_password": hash}),
			"update password",
		)
	})
}

// AddToLocation assigns a user to a location.
func (s *Users) AddToLocation(ctx context.Context, userID, locationID uint) (schema.UserWithLocations, error) {
	return s.changeLocation(ctx, userID, locationID, repository.Users.AddLocation)
}

// RemoveFromLocation removes the assignment of a user to a location.
func (s *Users) RemoveFromLocation(ctx context.Context, userID, locationID uint) (schema.UserWithLocations, error) {
	return s.changeLocation(ctx, userID, locationID, repository.Users.RemoveLocation)
}

func (s *Users) changeLocation(
	ctx context.Context,
	userID, locationID uint,
	apply func(repository.Users, context.Context, *models.User, *models.Location) error,
) (schema.UserWithLocations, error) {
	var user *models.User

	err := transaction(ctx, s.db, func(tx *gorm.DB) error {
		users := repository.NewUsers(tx)

		var err error
		if user, err = getUser(ctx, tx, userID); err != nil {
			return err
		}

		location, err := getLocation(ctx, tx, locationID)
		if err != nil {
			return err
		}

		if err = apply(users, ctx, user, location); err != nil {
			return storeErr(err, "change user location")
		}

		user, err = found(users.GetWithLocations(ctx, userID))

		return err
	})
	if err != nil {
		return schema.UserWithLocations{}, err
	}

	return schema.FromUserWithLocations(*user), nil
}

// emailFree fails when another user than exceptID already uses email.
func emailFree(ctx context.Context, users repository.Users, email string, exceptID uint) error {
	other, err := users.GetByEmail(ctx, email)
	if err != nil {
		return storeErr(err, "look up email")
	}

	if other != nil && other.ID != exceptID {
		return Validation(msgEmailTaken)
	}

	return nil
}

func reloadUser(ctx context.Context, users repository.Users, user *models.User) error {
	loaded, err := found(users.GetWithRole(ctx, user.ID))
	if err != nil {
		return err
	}

	*user = *loaded

	return nil
}

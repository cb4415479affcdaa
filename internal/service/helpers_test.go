package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/dbtest"
	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/storage"
)

const testPassword = "correct horse battery"

type fixture struct {
	ctx       context.Context
	db        *gorm.DB
	users     *Users
	roles     *Roles
	locations *Locations
	cameras   *Cameras
	videos    *Videos
	events    *Events
	files     *storage.Local
	frames    *storage.Local
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.Open(t)

	files, err := storage.NewLocal(t.TempDir(), ".mp4")
	require.NoError(t, err)

	frames, err := storage.NewLocal(t.TempDir(), ".jpg")
	require.NoError(t, err)

	return &fixture{
		ctx:       context.Background(),
		db:        db,
		users:     NewUsers(db),
		roles:     NewRoles(db),
		locations: NewLocations(db),
		cameras:   NewCameras(db),
		videos:    NewVideos(db, files),
		events:    NewEvents(db, frames),
		files:     files,
		frames:    frames,
	}
}

func (f *fixture) user(t *testing.T, email string, roleID *uint) *models.User {
	t.Helper()

	hash, err := models.HashPassword(testPassword)
	require.NoError(t, err)

	u := &models.User{Email: email, HashedPassword: hash, IsActive: true, RoleID: roleID}
	require.NoError(t, f.db.Omit("Role").Create(u).Error)

	return u
}

func (f *fixture) role(t *testing.T, name string, perms ...string) *models.Role {
	t.Helper()

	r := &models.Role{Name: name}
	for _, p := range perms {
		r.Permissions = append(r.Permissions, models.Permission{Name: p})
	}

	require.NoError(t, f.db.Create(r).Error)

	return r
}

func (f *fixture) location(t *testing.T, name string) *models.Location {
	t.Helper()

	l := &models.Location{Name: name, Address: name + " street 1"}
	require.NoError(t, f.db.Create(l).Error)

	return l
}

func (f *fixture) camera(t *testing.T, name string, locationID, ownerID uint) *models.Camera {
	t.Helper()

	c := &models.Camera{Name: name, IsActive: true, LocationID: locationID, OwnerID: ownerID}
	require.NoError(t, f.db.Create(c).Error)

	return c
}

func (f *fixture) video(t *testing.T, cameraID uint, start time.Time, size int64) *models.Video {
	t.Helper()

	v := &models.Video{
		Filename:         "clip.mp4",
		Filepath:         "clip.mp4",
		FileSize:         size,
		RecordingStart:   start,
		ProcessingStatus: models.ProcessingPending,
		CameraID:         cameraID,
	}
	require.NoError(t, f.db.Create(v).Error)

	return v
}

func ptr[T any](v T) *T {
	return &v
}

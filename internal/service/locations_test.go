package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/schema"
)

func TestLocationsCRUD(t *testing.T) {
	f := newFixture(t)

	created, err := f.locations.Create(f.ctx, schema.LocationCreate{
		Name:     "hq",
		Address:  "Main street 1",
		Latitude: ptr(52.52),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	updated, err := f.locations.Update(f.ctx, created.ID, schema.LocationUpdate{Description: ptr("head office")})
	require.NoError(t, err)
	assert.Equal(t, "head office", updated.Description)
	assert.Equal(t, "Main street 1", updated.Address)
	require.NotNil(t, updated.Latitude)
	assert.InDelta(t, 52.52, *updated.Latitude, 0.0001)

	_, err = f.locations.Update(f.ctx, 999, schema.LocationUpdate{Name: ptr("x")})
	require.ErrorIs(t, err, ErrNotFound)

	full, err := f.locations.GetFull(f.ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, full.Users)
	assert.NotNil(t, full.Cameras)
}

func TestLocationsDeleteCascades(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "op@example.com", nil)
	hq := f.location(t, "hq")
	depot := f.location(t, "depot")
	_, err := f.users.AddToLocation(f.ctx, u.ID, hq.ID)
	require.NoError(t, err)

	cam := f.camera(t, "gate", hq.ID, u.ID)
	kept := f.camera(t, "yard", depot.ID, u.ID)
	video := f.video(t, cam.ID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 10)

	_, err = f.events.Create(f.ctx, schema.EventCreate{
		EventType: "person",
		CameraID:  cam.ID,
		VideoID:   &video.ID,
		Objects:   []schema.ObjectCreate{{ObjectType: "person", Confidence: 0.9}},
	})
	require.NoError(t, err)

	require.NoError(t, f.locations.Delete(f.ctx, hq.ID))
	require.ErrorIs(t, f.locations.Delete(f.ctx, hq.ID), ErrNotFound)

	for _, m := range []any{&models.Video{}, &models.Event{}, &models.Object{}, &models.UserLocation{}} {
		var count int64
		require.NoError(t, f.db.Model(m).Count(&count).Error)
		assert.Zero(t, count, "%T", m)
	}

	var cameras []models.Camera
	require.NoError(t, f.db.Find(&cameras).Error)
	require.Len(t, cameras, 1)
	assert.Equal(t, kept.ID, cameras[0].ID)

	// users survive their locations
	_, err = f.users.Get(f.ctx, u.ID)
	require.NoError(t, err)
}

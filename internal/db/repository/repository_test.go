package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/db/dbtest"
	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/db/repository"
	"github.com/vigil-vms/vigil/internal/pagination"
)

type fixture struct {
	db       *gorm.DB
	owner    *models.User
	location *models.Location
	camera   *models.Camera
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db := dbtest.Open(t)
	ctx := context.Background()

	owner := &models.User{Email: "owner@example.com", HashedPassword: "x", IsActive: true}
	require.NoError(t, repository.NewUsers(db).Create(ctx, owner))

	location := &models.Location{Name: "HQ", Address: "Main street 1"}
	require.NoError(t, repository.NewLocations(db).Create(ctx, location))

	camera := &models.Camera{Name: "gate", LocationID: location.ID, OwnerID: owner.ID, IsActive: true}
	require.NoError(t, repository.NewCameras(db).Create(ctx, camera))

	return fixture{db: db, owner: owner, location: location, camera: camera}
}

func at(hour int) time.Time {
	return time.Date(2024, 5, 1, hour, 0, 0, 0, time.UTC)
}

func (f fixture) video(t *testing.T, start time.Time, end *time.Time, size int64) *models.Video {
	t.Helper()

	v := &models.Video{
		Filename:         "clip.mp4",
		Filepath:         "/videos/clip.mp4",
		FileSize:         size,
		RecordingStart:   start,
		RecordingEnd:     end,
		ProcessingStatus: models.ProcessingPending,
		CameraID:         f.camera.ID,
	}
	require.NoError(t, repository.NewVideos(f.db).Create(context.Background(), v))

	return v
}

func TestGenericNilDB(t *testing.T) {
	r := repository.New[models.Location](nil)
	ctx := context.Background()

	_, err := r.Get(ctx, 1)
	require.ErrorIs(t, err, repository.ErrDBNil)

	_, err = r.Count(ctx, repository.Filters{"name": "x"})
	require.ErrorIs(t, err, repository.ErrDBNil)

	_, err = r.Delete(ctx, 1)
	require.ErrorIs(t, err, repository.ErrDBNil)
}

func TestGenericListBoundsAndTotal(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := repository.NewLocations(db)

	for i := range 25 {
		city := "north"
		if i%5 == 0 {
			city = "south"
		}

		require.NoError(t, r.Create(ctx, &models.Location{Name: fmt.Sprintf("site-%02d", i), Address: city}))
	}

	tests := []struct {
		name      string
		params    pagination.Params
		filters   repository.Filters
		wantLen   int
		wantTotal int64
		wantFirst string
	}{
		{"first page", pagination.Params{Skip: 0, Limit: 10}, nil, 10, 25, "site-00"},
		{"last partial page", pagination.Params{Skip: 20, Limit: 10}, nil, 5, 25, "site-20"},
		{"past the end", pagination.Params{Skip: 40, Limit: 10}, nil, 0, 25, ""},
		{"filtered", pagination.Params{Limit: 2}, repository.Filters{"address": "south"}, 2, 5, "site-00"},
		{"unknown column ignored", pagination.Params{Limit: 100}, repository.Filters{"nope": 1}, 25, 25, "site-00"},
		{"zero limit falls back to default", pagination.Params{}, nil, 25, 25, "site-00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := r.List(ctx, tt.params, tt.filters)
			require.NoError(t, err)

			total, err := r.Count(ctx, tt.filters)
			require.NoError(t, err)

			assert.Len(t, items, tt.wantLen)
			assert.Equal(t, tt.wantTotal, total)
			assert.LessOrEqual(t, len(items), tt.params.Normalize().Limit)

			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, items[0].Name)
			}
		})
	}
}

func TestGenericGetAbsent(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := repository.NewLocations(db)

	got, err := r.Get(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = r.GetByAttribute(ctx, "name", "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = r.GetByAttribute(ctx, "drop table", "x")
	require.ErrorIs(t, err, repository.ErrUnknownColumn)

	updated, err := r.UpdateByID(ctx, 404, map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Nil(t, updated)

	removed, err := r.Delete(ctx, 404)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestGenericUpdatePartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := repository.NewCameras(f.db)

	cam, err := r.Get(ctx, f.camera.ID)
	require.NoError(t, err)

	err = r.Update(ctx, cam, map[string]any{
		"is_active":  false,
		"rotation":   90,
		"unknown":    "dropped",
		"created_at": time.Unix(0, 0),
	})
	require.NoError(t, err)

	got, err := r.Get(ctx, f.camera.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, 90, got.Rotation)
	assert.Equal(t, "gate", got.Name)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
	assert.NotEqual(t, int64(0), got.CreatedAt.Unix())

	// empty change sets are a no-op
	require.NoError(t, r.Update(ctx, got, map[string]any{"nope": 1}))
}

func TestGenericUpdateStripsZone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v := f.video(t, at(8), nil, 0)

	zone := time.FixedZone("UTC+3", 3*60*60)
	end := time.Date(2024, 5, 1, 12, 30, 0, 0, zone)

	updated, err := repository.NewVideos(f.db).UpdateByID(ctx, v.ID, map[string]any{"recording_end": &end})
	require.NoError(t, err)
	require.NotNil(t, updated.RecordingEnd)

	got := updated.RecordingEnd.UTC()
	assert.Equal(t, 12, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestNaive(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	in := time.Date(2024, 1, 2, 3, 4, 5, 6, zone)

	got := repository.Naive(in)

	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC), got)
	assert.Nil(t, repository.NaivePtr(nil))
}

func TestLocationDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v := f.video(t, at(1), nil, 10)

	event := &models.Event{EventType: "person", Timestamp: at(1), CameraID: f.camera.ID, VideoID: &v.ID}
	require.NoError(t, repository.NewEvents(f.db).CreateWithObjects(ctx, event, []models.Object{
		{ObjectType: "person", Confidence: 0.9},
		{ObjectType: "bag", Confidence: 0.4},
	}))

	removed, err := repository.NewLocations(f.db).Delete(ctx, f.location.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	for _, model := range []any{&models.Camera{}, &models.Video{}, &models.Event{}, &models.Object{}} {
		var n int64
		require.NoError(t, f.db.Model(model).Count(&n).Error)
		assert.Zero(t, n, "%T rows left", model)
	}

	// the owner is not part of the cascade
	owner, err := repository.NewUsers(f.db).Get(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.NotNil(t, owner)
}

func TestCameraStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cams := repository.NewCameras(f.db)

	stats, err := cams.Stats(ctx, f.camera.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.CameraStats{}, stats)

	f.video(t, at(1), nil, 1<<20)
	f.video(t, at(2), nil, 1<<20)
	require.NoError(t, repository.NewEvents(f.db).Create(ctx, &models.Event{EventType: "motion", Timestamp: at(1), CameraID: f.camera.ID}))

	stats, err = cams.Stats(ctx, f.camera.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Videos)
	assert.Equal(t, int64(1), stats.Events)
	assert.Equal(t, int64(2<<20), stats.DiskBytes)
}

func TestVideosDateRangeOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := repository.NewVideos(f.db)

	end := func(h int) *time.Time { e := at(h); return &e }

	inside := f.video(t, at(10), end(11), 0)   // fully inside
	startsIn := f.video(t, at(11), end(15), 0) // starts inside
	endsIn := f.video(t, at(7), end(10), 0)    // ends inside
	spans := f.video(t, at(6), end(16), 0)     // spans the window
	f.video(t, at(1), end(2), 0)               // before
	f.video(t, at(20), nil, 0)                 // after, still recording

	got, err := r.ListByDateRange(ctx, at(9), at(12), nil, pagination.Default())
	require.NoError(t, err)

	ids := make([]uint, 0, len(got))
	for _, v := range got {
		ids = append(ids, v.ID)
	}

	// newest recording first
	assert.Equal(t, []uint{startsIn.ID, inside.ID, endsIn.ID, spans.ID}, ids)

	total, err := r.CountByDateRange(ctx, at(9), at(12), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	other := uint(999)
	total, err = r.CountByDateRange(ctx, at(9), at(12), &other)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestVideosLatestAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := repository.NewVideos(f.db)

	var last *models.Video
	for h := range 6 {
		last = f.video(t, at(h), nil, 0)
	}

	latest, err := r.LatestByCamera(ctx, f.camera.ID, 3)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, last.ID, latest[0].ID)

	v, err := r.SetProcessingStatus(ctx, last.ID, "processing")
	require.NoError(t, err)
	assert.Equal(t, "processing", v.ProcessingStatus)
	assert.False(t, v.IsProcessed)

	v, err = r.SetProcessingStatus(ctx, last.ID, models.ProcessingCompleted)
	require.NoError(t, err)
	assert.True(t, v.IsProcessed)

	v, err = r.SetAnalyzed(ctx, last.ID, true)
	require.NoError(t, err)
	assert.True(t, v.IsAnalyzed)
}

func TestEventsCreateWithObjectsAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := repository.NewEvents(f.db)

	event := &models.Event{EventType: "person", Timestamp: at(3), CameraID: f.camera.ID}
	err := r.CreateWithObjects(ctx, event, []models.Object{
		{ObjectType: "person", Confidence: 0.91, XMin: 1, YMin: 2, XMax: 30, YMax: 40, Attributes: datatypes.JSON(`{"color":"red"}`)},
		{ObjectType: "person", Confidence: 0.55, XMin: 5, YMin: 6, XMax: 7, YMax: 8},
		{ObjectType: "car", Confidence: 0.2, XMin: 9, YMin: 9, XMax: 99, YMax: 99},
	})
	require.NoError(t, err)
	require.NotZero(t, event.ID)

	got, err := r.GetWithObjects(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, got.Objects, 3)
	assert.InDelta(t, 0.91, got.Objects[0].Confidence, 1e-9)
	assert.JSONEq(t, `{"color":"red"}`, string(got.Objects[0].Attributes))

	require.NoError(t, r.Create(ctx, &models.Event{EventType: "motion", Timestamp: at(5), CameraID: f.camera.ID}))

	_, err = r.SetConfirmed(ctx, event.ID, true)
	require.NoError(t, err)

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, map[string]int64{"person": 1, "motion": 1}, stats.ByType)
	assert.Equal(t, map[uint]int64{f.camera.ID: 2}, stats.ByCamera)
	assert.Equal(t, int64(1), stats.Confirmed)
	assert.Zero(t, stats.FalsePositives)

	types, err := repository.NewObjects(f.db).TypeStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"person": 2, "car": 1}, types)

	n, err := repository.NewObjects(f.db).CountByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestEventsOrderingAndRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := repository.NewEvents(f.db)

	for h, typ := range []string{"motion", "person", "motion", "car"} {
		require.NoError(t, r.Create(ctx, &models.Event{EventType: typ, Timestamp: at(h), CameraID: f.camera.ID}))
	}

	all, err := r.ListAll(ctx, pagination.Default())
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "car", all[0].EventType)

	motion, err := r.ListByType(ctx, "motion", pagination.Default())
	require.NoError(t, err)
	assert.Len(t, motion, 2)

	q := repository.EventRange{Start: at(1), End: at(2), CameraID: &f.camera.ID}
	ranged, err := r.ListByDateRange(ctx, q, pagination.Default())
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, "motion", ranged[0].EventType)

	q.EventType = "person"
	n, err := r.CountByDateRange(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRolesReplacePermissions(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	perms := repository.NewPermissions(db)
	roles := repository.NewRoles(db)

	var created []models.Permission
	for _, name := range []string{"cameras.manage", "videos.manage", "events.manage"} {
		p := models.Permission{Name: name}
		require.NoError(t, perms.Create(ctx, &p))
		created = append(created, p)
	}

	role := &models.Role{Name: "operator"}
	require.NoError(t, roles.Create(ctx, role))
	require.NoError(t, roles.ReplacePermissions(ctx, role, created[:2]))

	got, err := roles.GetWithPermissions(ctx, role.ID)
	require.NoError(t, err)
	assert.Len(t, got.Permissions, 2)

	require.NoError(t, roles.ReplacePermissions(ctx, got, created[2:]))

	got, err = roles.GetWithPermissions(ctx, role.ID)
	require.NoError(t, err)
	require.Len(t, got.Permissions, 1)
	assert.Equal(t, "events.manage", got.Permissions[0].Name)

	require.NoError(t, roles.ReplacePermissions(ctx, got, nil))

	got, err = roles.GetWithPermissions(ctx, role.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Permissions)

	byIDs, err := perms.GetByIDs(ctx, []uint{created[0].ID, 999})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)
}

func TestUsersRoleAndLocations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	users := repository.NewUsers(f.db)

	perm := &models.Permission{Name: "locations.manage"}
	require.NoError(t, repository.NewPermissions(f.db).Create(ctx, perm))

	role := &models.Role{Name: "manager"}
	require.NoError(t, repository.NewRoles(f.db).Create(ctx, role))
	require.NoError(t, repository.NewRoles(f.db).ReplacePermissions(ctx, role, []models.Permission{*perm}))

	_, err := users.UpdateByID(ctx, f.owner.ID, map[string]any{"role_id": role.ID})
	require.NoError(t, err)

	u, err := users.GetWithRole(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "manager", u.RoleName())
	assert.Equal(t, []string{"locations.manage"}, u.PermissionNames())

	require.NoError(t, users.AddLocation(ctx, u, f.location))
	require.NoError(t, users.AddLocation(ctx, u, f.location))

	u, err = users.GetWithLocations(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, u.Locations, 1)

	require.NoError(t, users.RemoveLocation(ctx, u, f.location))

	u, err = users.GetWithLocations(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, u.Locations)

	owned, err := users.OwnedCameras(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), owned)

	// deleting the role detaches it from the user
	_, err = repository.NewRoles(f.db).Delete(ctx, role.ID)
	require.NoError(t, err)

	u, err = users.GetWithRole(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Nil(t, u.RoleID)
	assert.Empty(t, u.PermissionNames())

	byEmail, err := users.GetByEmail(ctx, "OWNER@example.com")
	require.NoError(t, err)
	assert.Nil(t, byEmail, "email lookup is case sensitive")
}

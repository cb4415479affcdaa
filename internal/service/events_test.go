package service

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/db/repository"
	"github.com/vigil-vms/vigil/internal/pagination"
	"github.com/vigil-vms/vigil/internal/schema"
	"github.com/vigil-vms/vigil/internal/storage"
)

func TestEventsCreateWithObjectsRoundTrip(t *testing.T) {
	f, cam := videoFixture(t)

	objects := []schema.ObjectCreate{
		{ObjectType: "person", Confidence: 0.91, XMin: 1, YMin: 2, XMax: 30, YMax: 40},
		{ObjectType: "car", Confidence: 0.55, XMin: 100, YMin: 120, XMax: 300, YMax: 260},
		{ObjectType: "dog", Confidence: 0.3, XMin: 5, YMin: 6, XMax: 7, YMax: 8, Attributes: datatypes.JSON(`{"color":"brown"}`)},
	}

	created, err := f.events.Create(f.ctx, schema.EventCreate{
		EventType: "intrusion",
		CameraID:  cam.ID,
		Objects:   objects,
	})
	require.NoError(t, err)
	require.Len(t, created.Objects, 3)
	assert.False(t, created.Timestamp.IsZero())

	got, err := f.events.GetWithObjects(f.ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Objects, 3)

	for i, want := range objects {
		o := got.Objects[i]
		assert.Equal(t, created.ID, o.EventID)
		assert.Equal(t, want.ObjectType, o.ObjectType)
		assert.InDelta(t, want.Confidence, o.Confidence, 1e-9)
		assert.Equal(t, [4]int{want.XMin, want.YMin, want.XMax, want.YMax}, [4]int{o.XMin, o.YMin, o.XMax, o.YMax})
	}

	assert.JSONEq(t, `{"color":"brown"}`, string(got.Objects[2].Attributes))

	page, err := f.events.Objects(f.ctx, created.ID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
}

func TestEventsCreateChecksReferences(t *testing.T) {
	f, cam := videoFixture(t)

	_, err := f.events.Create(f.ctx, schema.EventCreate{EventType: "motion", CameraID: 999})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.events.Create(f.ctx, schema.EventCreate{
		EventType: "motion",
		CameraID:  cam.ID,
		VideoID:   ptr(uint(999)),
		Objects:   []schema.ObjectCreate{{ObjectType: "person", Confidence: 1}},
	})
	require.ErrorIs(t, err, ErrNotFound)

	for _, m := range []any{&models.Event{}, &models.Object{}} {
		var count int64
		require.NoError(t, f.db.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestEventsProcessDetection(t *testing.T) {
	f, cam := videoFixture(t)
	video := f.video(t, cam.ID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 1)
	ts := time.Date(2024, 3, 1, 0, 0, 5, 0, time.UTC)

	got, err := f.events.ProcessDetection(f.ctx, schema.AIDetectionResult{
		EventType:   "person",
		Confidence:  0.8,
		Timestamp:   &ts,
		FrameNumber: ptr(125),
		CameraID:    cam.ID,
		VideoID:     &video.ID,
		Objects:     []schema.ObjectCreate{{ObjectType: "person", Confidence: 0.8}},
	})
	require.NoError(t, err)
	assert.True(t, ts.Equal(got.Timestamp))
	assert.Equal(t, &video.ID, got.VideoID)
	assert.Len(t, got.Objects, 1)

	byVideo, err := f.events.ListByVideo(f.ctx, video.ID, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(1), byVideo.Total)

	withVideo, err := f.events.GetWithVideo(f.ctx, got.ID)
	require.NoError(t, err)
	require.NotNil(t, withVideo.Video)
	assert.Equal(t, video.ID, withVideo.Video.ID)
}

func TestEventsFlagsAndStats(t *testing.T) {
	f, cam := videoFixture(t)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var ids []uint
	for i, typ := range []string{"motion", "motion", "person"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		e, err := f.events.Create(f.ctx, schema.EventCreate{EventType: typ, Timestamp: &ts, CameraID: cam.ID})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	confirmed, err := f.events.Confirm(f.ctx, ids[0], true)
	require.NoError(t, err)
	assert.True(t, confirmed.IsConfirmed)

	fp, err := f.events.MarkFalsePositive(f.ctx, ids[1], true)
	require.NoError(t, err)
	assert.True(t, fp.IsFalsePositive)

	_, err = f.events.Confirm(f.ctx, 999, true)
	require.ErrorIs(t, err, ErrNotFound)

	stats, err := f.events.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalEvents)
	assert.Equal(t, map[string]int64{"motion": 2, "person": 1}, stats.ByType)
	assert.Equal(t, map[uint]int64{cam.ID: 3}, stats.ByCamera)
	assert.Empty(t, stats.ByObjectType)
	assert.Equal(t, int64(1), stats.ConfirmedEvents)
	assert.Equal(t, int64(1), stats.FalsePositives)

	list, err := f.events.List(f.ctx, pagination.Default())
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, ids[2], list.Items[0].ID)

	byType, err := f.events.ListByType(f.ctx, "motion", pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(2), byType.Total)

	ranged, err := f.events.ListByDateRange(f.ctx, repository.EventRange{
		Start:     base,
		End:       base.Add(90 * time.Second),
		CameraID:  &cam.ID,
		EventType: "motion",
	}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(2), ranged.Total)

	_, err = f.events.ListByDateRange(f.ctx, repository.EventRange{Start: base, End: base.Add(-time.Second)}, pagination.Default())
	require.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.events.Delete(f.ctx, ids[0]))
	require.ErrorIs(t, f.events.Delete(f.ctx, ids[0]), ErrNotFound)
}

func TestEventsUpdate(t *testing.T) {
	f, cam := videoFixture(t)
	e, err := f.events.Create(f.ctx, schema.EventCreate{EventType: "motion", CameraID: cam.ID})
	require.NoError(t, err)

	_, err = f.events.Update(f.ctx, e.ID, schema.EventUpdate{CameraID: ptr(uint(999))})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.events.Update(f.ctx, e.ID, schema.EventUpdate{VideoID: ptr(uint(999))})
	require.ErrorIs(t, err, ErrNotFound)

	updated, err := f.events.Update(f.ctx, e.ID, schema.EventUpdate{Description: ptr("checked")})
	require.NoError(t, err)
	assert.Equal(t, "checked", updated.Description)
	assert.Equal(t, "motion", updated.EventType)
}

func TestEventsFrames(t *testing.T) {
	f, cam := videoFixture(t)
	e, err := f.events.Create(f.ctx, schema.EventCreate{EventType: "motion", CameraID: cam.ID})
	require.NoError(t, err)

	_, _, err = f.events.OpenFrame(f.ctx, e.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.events.UploadFrame(f.ctx, 999, strings.NewReader("jpeg"), storage.FileInfo{Filename: "f.jpg"})
	require.ErrorIs(t, err, ErrNotFound)

	withFrame, err := f.events.UploadFrame(f.ctx, e.ID, strings.NewReader("jpeg"), storage.FileInfo{Filename: "frame"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(withFrame.FramePath, ".jpg"))

	rc, _, err := f.events.OpenFrame(f.ctx, e.ID)
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "jpeg", string(content))
}

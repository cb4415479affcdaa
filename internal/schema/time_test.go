package schema

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoCreateTimestamps(t *testing.T) {
	var in VideoCreate
	require.NoError(t, json.Unmarshal([]byte(`{
		"filename": "a.mp4",
		"filepath": "/tmp/a.mp4",
		"camera_id": 3,
		"recording_start": "2024-01-01T10:00:00",
		"recording_end": null
	}`), &in))

	assert.Equal(t, "a.mp4", in.Filename)
	assert.Equal(t, uint(3), in.CameraID)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), in.RecordingStart)
	assert.Nil(t, in.RecordingEnd)
}

func TestEventInputTimestamps(t *testing.T) {
	body := []byte(`{"event_type": "motion", "camera_id": 1, "timestamp": "2024-01-01 10:00:00", "frame_timestamp": "2024-01-01T10:00:00+02:00"}`)

	var create EventCreate
	require.NoError(t, json.Unmarshal(body, &create))
	require.NotNil(t, create.Timestamp)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), *create.Timestamp)
	require.NotNil(t, create.FrameTimestamp)
	assert.True(t, create.FrameTimestamp.Equal(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "motion", create.EventType)

	var detection AIDetectionResult
	require.NoError(t, json.Unmarshal(body, &detection))
	require.NotNil(t, detection.Timestamp)

	var update EventUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"timestamp": "2024-01-02"}`), &update))
	require.NotNil(t, update.Timestamp)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), *update.Timestamp)
	assert.Nil(t, update.FrameTimestamp)

	require.Error(t, json.Unmarshal([]byte(`{"timestamp": "soon"}`), &update))
	require.Error(t, json.Unmarshal([]byte(`{"timestamp": 17}`), &update))
}

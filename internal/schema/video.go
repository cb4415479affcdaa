package schema

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/vigil-vms/vigil/internal/db/models"
)

// Video is the response shape of a video.
type Video struct {
	ID               uint       `json:"id"`
	Filename         string     `json:"filename"`
	Filepath         string     `json:"filepath"`
	FileSize         int64      `json:"file_size"`
	Duration         *int       `json:"duration"`
	ResolutionWidth  *int       `json:"resolution_width"`
	ResolutionHeight *int       `json:"resolution_height"`
	FPS              *int       `json:"fps"`
	Codec            string     `json:"codec"`
	Format           string     `json:"format"`
	RecordingStart   time.Time  `json:"recording_start"`
	RecordingEnd     *time.Time `json:"recording_end"`
	IsProcessed      bool       `json:"is_processed"`
	IsAnalyzed       bool       `json:"is_analyzed"`
	ProcessingStatus string     `json:"processing_status"`
	CameraID         uint       `json:"camera_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// VideoWithCamera adds the camera.
type VideoWithCamera struct {
	Video
	Camera *Camera `json:"camera"`
}

// VideoWithEvents adds the events.
type VideoWithEvents struct {
	Video
	Events []Event `json:"events"`
}

// VideoFull adds camera and events.
type VideoFull struct {
	Video
	Camera *Camera `json:"camera"`
	Events []Event `json:"events"`
}

// VideoCreate is the input of a new video row for an externally stored file.
type VideoCreate struct {
	Filename         string     `json:"filename" validate:"required,max=255"`
	Filepath         string     `json:"filepath" validate:"required,max=1024"`
	FileSize         int64      `json:"file_size" validate:"gte=0"`
	Duration         *int       `json:"duration" validate:"omitempty,gte=0"`
	ResolutionWidth  *int       `json:"resolution_width" validate:"omitempty,gt=0"`
	ResolutionHeight *int       `json:"resolution_height" validate:"omitempty,gt=0"`
	FPS              *int       `json:"fps" validate:"omitempty,gt=0"`
	Codec            string     `json:"codec" validate:"max=50"`
	Format           string     `json:"format" validate:"max=50"`
	RecordingStart   time.Time  `json:"recording_start" validate:"required"`
	RecordingEnd     *time.Time `json:"recording_end"`
	IsProcessed      bool       `json:"is_processed"`
	IsAnalyzed       bool       `json:"is_analyzed"`
	ProcessingStatus string     `json:"processing_status" validate:"max=50"`
	CameraID         uint       `json:"camera_id" validate:"required"`
}

// UnmarshalJSON decodes the recording window with ParseTime.
func (in *VideoCreate) UnmarshalJSON(b []byte) error {
	type Alias VideoCreate

	aux := struct {
		*Alias
		RecordingStart *Time `json:"recording_start"`
		RecordingEnd   *Time `json:"recording_end"`
	}{Alias: (*Alias)(in)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err //nolint:wrapcheck
	}

	if start := aux.RecordingStart.Ptr(); start != nil {
		in.RecordingStart = *start
	}

	in.RecordingEnd = aux.RecordingEnd.Ptr()

	return nil
}

// Model builds the video model of the input.
func (in VideoCreate) Model() models.Video {
	status := in.ProcessingStatus
	if status == "" {
		status = models.ProcessingPending
	}

	return models.Video{
		Filename:         in.Filename,
		Filepath:         in.Filepath,
		FileSize:         in.FileSize,
		Duration:         in.Duration,
		ResolutionWidth:  in.ResolutionWidth,
		ResolutionHeight: in.ResolutionHeight,
		FPS:              in.FPS,
		Codec:            in.Codec,
		Format:           in.Format,
		RecordingStart:   in.RecordingStart,
		RecordingEnd:     in.RecordingEnd,
		IsProcessed:      in.IsProcessed,
		IsAnalyzed:       in.IsAnalyzed,
		ProcessingStatus: status,
		CameraID:         in.CameraID,
	}
}

// VideoUpdate changes only the supplied fields.
type VideoUpdate struct {
	Filename         *string    `json:"filename" validate:"omitempty,min=1,max=255"`
	Filepath         *string    `json:"filepath" validate:"omitempty,min=1,max=1024"`
	FileSize         *int64     `json:"file_size" validate:"omitempty,gte=0"`
	Duration         *int       `json:"duration" validate:"omitempty,gte=0"`
	ResolutionWidth  *int       `json:"resolution_width" validate:"omitempty,gt=0"`
	ResolutionHeight *int       `json:"resolution_height" validate:"omitempty,gt=0"`
	FPS              *int       `json:"fps" validate:"omitempty,gt=0"`
	Codec            *string    `json:"codec" validate:"omitempty,max=50"`
	Format           *string    `json:"format" validate:"omitempty,max=50"`
	RecordingStart   *time.Time `json:"recording_start"`
	RecordingEnd     *time.Time `json:"recording_end"`
	IsProcessed      *bool      `json:"is_processed"`
	IsAnalyzed       *bool      `json:"is_analyzed"`
	ProcessingStatus *string    `json:"processing_status" validate:"omitempty,max=50"`
	CameraID         *uint      `json:"camera_id" validate:"omitempty,gt=0"`
}

// UnmarshalJSON decodes the recording window with ParseTime.
func (in *VideoUpdate) UnmarshalJSON(b []byte) error {
	type Alias VideoUpdate

	aux := struct {
		*Alias
		RecordingStart *Time `json:"recording_start"`
		RecordingEnd   *Time `json:"recording_end"`
	}{Alias: (*Alias)(in)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err //nolint:wrapcheck
	}

	in.RecordingStart = aux.RecordingStart.Ptr()
	in.RecordingEnd = aux.RecordingEnd.Ptr()

	return nil
}

// Changes returns the column changes of the update.
func (in VideoUpdate) Changes() map[string]any {
	c := map[string]any{}
	setIf(c, "filename", in.Filename)
	setIf(c, "filepath", in.Filepath)
	setIf(c, "file_size", in.FileSize)
	setIf(c, "duration", in.Duration)
	setIf(c, "resolution_width", in.ResolutionWidth)
	setIf(c, "resolution_height", in.ResolutionHeight)
	setIf(c, "fps", in.FPS)
	setIf(c, "codec", in.Codec)
	setIf(c, "format", in.Format)
	setIf(c, "recording_start", in.RecordingStart)
	setIf(c, "recording_end", in.RecordingEnd)
	setIf(c, "is_processed", in.IsProcessed)
	setIf(c, "is_analyzed", in.IsAnalyzed)
	setIf(c, "processing_status", in.ProcessingStatus)
	setIf(c, "camera_id", in.CameraID)

	return c
}

// VideoUpload carries the form fields sent along an uploaded file.
type VideoUpload struct {
	CameraID       uint
	Filename       string
	RecordingStart *time.Time
	RecordingEnd   *time.Time
}

// FromVideo maps a video model.
func FromVideo(m models.Video) Video {
	return Video{
		ID:               m.ID,
		Filename:         m.Filename,
		Filepath:         m.Filepath,
		FileSize:         m.FileSize,
		Duration:         m.Duration,
		ResolutionWidth:  m.ResolutionWidth,
		ResolutionHeight: m.ResolutionHeight,
		FPS:              m.FPS,
		Codec:            m.Codec,
		Format:           m.Format,
		RecordingStart:   m.RecordingStart,
		RecordingEnd:     m.RecordingEnd,
		IsProcessed:      m.IsProcessed,
		IsAnalyzed:       m.IsAnalyzed,
		ProcessingStatus: m.ProcessingStatus,
		CameraID:         m.CameraID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromVideoWithCamera maps a video with its camera.
func FromVideoWithCamera(m models.Video) VideoWithCamera {
	return VideoWithCamera{Video: FromVideo(m), Camera: cameraPtr(m.Camera)}
}

// FromVideoWithEvents maps a video with its events.
func FromVideoWithEvents(m models.Video) VideoWithEvents {
	return VideoWithEvents{Video: FromVideo(m), Events: mapSlice(m.Events, FromEvent)}
}

// FromVideoFull maps a video with camera and events.
func FromVideoFull(m models.Video) VideoFull {
	return VideoFull{
		Video:  FromVideo(m),
		Camera: cameraPtr(m.Camera),
		Events: mapSlice(m.Events, FromEvent),
	}
}

package schema

import (
	"time"

	"github.com/goccy/go-json"

	"gorm.io/datatypes"

	"github.com/vigil-vms/vigil/internal/db/models"
)

// Object is the response shape of a detected object.
type Object struct {
	ID         uint           `json:"id"`
	EventID    uint           `json:"event_id"`
	ObjectType string         `json:"object_type"`
	Confidence float64        `json:"confidence"`
	XMin       int            `json:"x_min"`
	YMin       int            `json:"y_min"`
	XMax       int            `json:"x_max"`
	YMax       int            `json:"y_max"`
	Attributes datatypes.JSON `json:"attributes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ObjectCreate is a detected object embedded in an event input.
type ObjectCreate struct {
	ObjectType string         `json:"object_type" validate:"required,max=100"`
	Confidence float64        `json:"confidence" validate:"gte=0,lte=1"`
	XMin       int            `json:"x_min"`
	YMin       int            `json:"y_min"`
	XMax       int            `json:"x_max"`
	YMax       int            `json:"y_max"`
	Attributes datatypes.JSON `json:"attributes"`
}

// Model builds the object model of the input.
func (in ObjectCreate) Model() models.Object {
	return models.Object{
		ObjectType: in.ObjectType,
		Confidence: in.Confidence,
		XMin:       in.XMin,
		YMin:       in.YMin,
		XMax:       in.XMax,
		YMax:       in.YMax,
		Attributes: in.Attributes,
	}
}

// Event is the response shape of an event.
type Event struct {
	ID              uint       `json:"id"`
	EventType       string     `json:"event_type"`
	Timestamp       time.Time  `json:"timestamp"`
	Description     string     `json:"description"`
	IsConfirmed     bool       `json:"is_confirmed"`
	IsFalsePositive bool       `json:"is_false_positive"`
	FrameNumber     *int       `json:"frame_number"`
	FrameTimestamp  *time.Time `json:"frame_timestamp"`
	FramePath       string     `json:"frame_path"`
	CameraID        uint       `json:"camera_id"`
	VideoID         *uint      `json:"video_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// EventWithObjects adds the detected objects.
type EventWithObjects struct {
	Event
	Objects []Object `json:"objects"`
}

// EventWithCamera adds the camera.
type EventWithCamera struct {
	Event
	Camera *Camera `json:"camera"`
}

// EventWithVideo adds the video, which may be null.
type EventWithVideo struct {
	Event
	Video *Video `json:"video"`
}

// EventFull adds objects, camera and video.
type EventFull struct {
	Event
	Objects []Object `json:"objects"`
	Camera  *Camera  `json:"camera"`
	Video   *Video   `json:"video"`
}

// EventStats are the aggregates over all events.
type EventStats struct {
	TotalEvents     int64            `json:"total_events"`
	ByType          map[string]int64 `json:"by_type"`
	ByCamera        map[uint]int64   `json:"by_camera"`
	ByObjectType    map[string]int64 `json:"by_object_type"`
	ConfirmedEvents int64            `json:"confirmed_events"`
	FalsePositives  int64            `json:"false_positives"`
}

// EventCreate is the input of a new event with its detected objects.
type EventCreate struct {
	EventType       string         `json:"event_type" validate:"required,max=100"`
	Timestamp       *time.Time     `json:"timestamp"`
	Description     string         `json:"description"`
	IsConfirmed     bool           `json:"is_confirmed"`
	IsFalsePositive bool           `json:"is_false_positive"`
	FrameNumber     *int           `json:"frame_number" validate:"omitempty,gte=0"`
	FrameTimestamp  *time.Time     `json:"frame_timestamp"`
	FramePath       string         `json:"frame_path" validate:"max=1024"`
	CameraID        uint           `json:"camera_id" validate:"required"`
	VideoID         *uint          `json:"video_id" validate:"omitempty,gt=0"`
	Objects         []ObjectCreate `json:"objects" validate:"dive"`
}

// UnmarshalJSON decodes the timestamps with ParseTime.
func (in *EventCreate) UnmarshalJSON(b []byte) error {
	type Alias EventCreate

	aux := struct {
		*Alias
		Timestamp      *Time `json:"timestamp"`
		FrameTimestamp *Time `json:"frame_timestamp"`
	}{Alias: (*Alias)(in)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err //nolint:wrapcheck
	}

	in.Timestamp = aux.Timestamp.Ptr()
	in.FrameTimestamp = aux.FrameTimestamp.Ptr()

	return nil
}

// Model builds the event model of the input. A missing timestamp becomes now.
func (in EventCreate) Model(now time.Time) models.Event {
	ts := now
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}

	return models.Event{
		EventType:       in.EventType,
		Timestamp:       ts,
		Description:     in.Description,
		IsConfirmed:     in.IsConfirmed,
		IsFalsePositive: in.IsFalsePositive,
		FrameNumber:     in.FrameNumber,
		FrameTimestamp:  in.FrameTimestamp,
		FramePath:       in.FramePath,
		CameraID:        in.CameraID,
		VideoID:         in.VideoID,
	}
}

// ObjectModels builds the object models of the input.
func (in EventCreate) ObjectModels() []models.Object {
	return mapSlice(in.Objects, ObjectCreate.Model)
}

// AIDetectionResult is the payload of an external detector.
type AIDetectionResult struct {
	EventType      string         `json:"event_type" validate:"required,max=100"`
	Confidence     float64        `json:"confidence" validate:"gte=0,lte=1"`
	Timestamp      *time.Time     `json:"timestamp"`
	FrameNumber    *int           `json:"frame_number" validate:"omitempty,gte=0"`
	FrameTimestamp *time.Time     `json:"frame_timestamp"`
	FramePath      string         `json:"frame_path" validate:"max=1024"`
	CameraID       uint           `json:"camera_id" validate:"required"`
	VideoID        *uint          `json:"video_id" validate:"omitempty,gt=0"`
	Objects        []ObjectCreate `json:"objects" validate:"dive"`
}

// UnmarshalJSON decodes the timestamps with ParseTime.
func (in *AIDetectionResult) UnmarshalJSON(b []byte) error {
	type Alias AIDetectionResult

	aux := struct {
		*Alias
		Timestamp      *Time `json:"timestamp"`
		FrameTimestamp *Time `json:"frame_timestamp"`
	}{Alias: (*Alias)(in)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err //nolint:wrapcheck
	}

	in.Timestamp = aux.Timestamp.Ptr()
	in.FrameTimestamp = aux.FrameTimestamp.Ptr()

	return nil
}

// AsEventCreate maps the detection onto the regular event input.
func (in AIDetectionResult) AsEventCreate() EventCreate {
	return EventCreate{
		EventType:      in.EventType,
		Timestamp:      in.Timestamp,
		FrameNumber:    in.FrameNumber,
		FrameTimestamp: in.FrameTimestamp,
		FramePath:      in.FramePath,
		CameraID:       in.CameraID,
		VideoID:        in.VideoID,
		Objects:        in.Objects,
	}
}

// EventUpdate changes only the supplied fields.
type EventUpdate struct {
	EventType       *string    `json:"event_type" validate:"omitempty,min=1,max=100"`
	Timestamp       *time.Time `json:"timestamp"`
	Description     *string    `json:"description"`
	IsConfirmed     *bool      `json:"is_confirmed"`
	IsFalsePositive *bool      `json:"is_false_positive"`
	FrameNumber     *int       `json:"frame_number" validate:"omitempty,gte=0"`
	FrameTimestamp  *time.Time `json:"frame_timestamp"`
	FramePath       *string    `json:"frame_path" validate:"omitempty,max=1024"`
	CameraID        *uint      `json:"camera_id" validate:"omitempty,gt=0"`
	VideoID         *uint      `json:"video_id" validate:"omitempty,gt=0"`
}

// UnmarshalJSON decodes the timestamps with ParseTime.
func (in *EventUpdate) UnmarshalJSON(b []byte) error {
	type Alias EventUpdate

	aux := struct {
		*Alias
		Timestamp      *Time `json:"timestamp"`
		FrameTimestamp *Time `json:"frame_timestamp"`
	}{Alias: (*Alias)(in)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err //nolint:wrapcheck
	}

	in.Timestamp = aux.Timestamp.Ptr()
	in.FrameTimestamp = aux.FrameTimestamp.Ptr()

	return nil
}

// Changes returns the column changes of the update.
func (in EventUpdate) Changes() map[string]any {
	c := map[string]any{}
	setIf(c, "event_type", in.EventType)
	setIf(c, "timestamp", in.Timestamp)
	setIf(c, "description", in.Description)
	setIf(c, "is_confirmed", in.IsConfirmed)
	setIf(c, "is_false_positive", in.IsFalsePositive)
	setIf(c, "frame_number", in.FrameNumber)
	setIf(c, "frame_timestamp", in.FrameTimestamp)
	setIf(c, "frame_path", in.FramePath)
	setIf(c, "camera_id", in.CameraID)
	setIf(c, "video_id", in.VideoID)

	return c
}

// FromObject maps an object model.
func FromObject(m models.Object) Object {
	return Object{
		ID:         m.ID,
		EventID:    m.EventID,
		ObjectType: m.ObjectType,
		Confidence: m.Confidence,
		XMin:       m.XMin,
		YMin:       m.YMin,
		XMax:       m.XMax,
		YMax:       m.YMax,
		Attributes: m.Attributes,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// FromEvent maps an event model.
func FromEvent(m models.Event) Event {
	return Event{
		ID:              m.ID,
		EventType:       m.EventType,
		Timestamp:       m.Timestamp,
		Description:     m.Description,
		IsConfirmed:     m.IsConfirmed,
		IsFalsePositive: m.IsFalsePositive,
		FrameNumber:     m.FrameNumber,
		FrameTimestamp:  m.FrameTimestamp,
		FramePath:       m.FramePath,
		CameraID:        m.CameraID,
		VideoID:         m.VideoID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func videoPtr(m *models.Video) *Video {
	if m == nil {
		return nil
	}

	v := FromVideo(*m)

	return &v
}

// FromEventWithObjects maps an event with its objects.
func FromEventWithObjects(m models.Event) EventWithObjects {
	return EventWithObjects{Event: FromEvent(m), Objects: mapSlice(m.Objects, FromObject)}
}

// FromEventWithCamera maps an event with its camera.
func FromEventWithCamera(m models.Event) EventWithCamera {
	return EventWithCamera{Event: FromEvent(m), Camera: cameraPtr(m.Camera)}
}

// FromEventWithVideo maps an event with its video.
func FromEventWithVideo(m models.Event) EventWithVideo {
	return EventWithVideo{Event: FromEvent(m), Video: videoPtr(m.Video)}
}

// FromEventFull maps an event with objects, camera and video.
func FromEventFull(m models.Event) EventFull {
	return EventFull{
		Event:   FromEvent(m),
		Objects: mapSlice(m.Objects, FromObject),
		Camera:  cameraPtr(m.Camera),
		Video:   videoPtr(m.Video),
	}
}

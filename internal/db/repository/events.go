package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/pagination"
)

const (
	relObjects = "Objects"
	relVideo   = "Video"

	orderTimestampDesc = "timestamp DESC, id DESC"
)

// EventStats are the aggregates over all events.
type EventStats struct {
	Total          int64
	ByType         map[string]int64
	ByCamera       map[uint]int64
	Confirmed      int64
	FalsePositives int64
}

// EventRange selects events by timestamp with optional camera and type.
type EventRange struct {
	Start     time.Time
	End       time.Time
	CameraID  *uint
	EventType string
}

// Events reads and writes events.
type Events struct {
	Repository[models.Event]
}

// NewEvents returns an event repository bound to db.
func NewEvents(db *gorm.DB) Events {
	return Events{New[models.Event](db)}
}

// ListAll returns a page of all events, newest first.
func (r Events) ListAll(ctx context.Context, p pagination.Params) ([]models.Event, error) {
	return r.ListOrdered(ctx, p, nil, orderTimestampDesc)
}

// ListByCamera returns a page of events of a camera, newest first.
func (r Events) ListByCamera(ctx context.Context, cameraID uint, p pagination.Params) ([]models.Event, error) {
	return r.ListOrdered(ctx, p, Filters{"camera_id": cameraID}, orderTimestampDesc)
}

// ListByVideo returns a page of events of a video, newest first.
func (r Events) ListByVideo(ctx context.Context, videoID uint, p pagination.Params) ([]models.Event, error) {
	return r.ListOrdered(ctx, p, Filters{"video_id": videoID}, orderTimestampDesc)
}

// ListByType returns a page of events of one type, newest first.
func (r Events) ListByType(ctx context.Context, eventType string, p pagination.Params) ([]models.Event, error) {
	return r.ListOrdered(ctx, p, Filters{"event_type": eventType}, orderTimestampDesc)
}

func (q EventRange) apply(db *gorm.DB) *gorm.DB {
	db = db.Where("timestamp BETWEEN ? AND ?", Naive(q.Start), Naive(q.End))

	if q.CameraID != nil {
		db = db.Where("camera_id = ?", *q.CameraID)
	}

	if q.EventType != "" {
		db = db.Where("event_type = ?", q.EventType)
	}

	return db
}

// ListByDateRange returns a page of events inside the range, newest first.
func (r Events) ListByDateRange(ctx context.Context, q EventRange, p pagination.Params) ([]models.Event, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	p = p.Normalize()

	var events []models.Event
	err = q.apply(db.Model(&models.Event{})).
		Order(orderTimestampDesc).
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&events).Error

	return events, err
}

// CountByDateRange counts the events ListByDateRange would page through.
func (r Events) CountByDateRange(ctx context.Context, q EventRange) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	err = q.apply(db.Model(&models.Event{})).Count(&total).Error

	return total, err
}

// GetWithObjects returns the event with its objects.
func (r Events) GetWithObjects(ctx context.Context, id uint) (*models.Event, error) {
	return r.Get(ctx, id, relObjects)
}

// GetWithCamera returns the event with its camera.
func (r Events) GetWithCamera(ctx context.Context, id uint) (*models.Event, error) {
	return r.Get(ctx, id, relCamera)
}

// GetWithVideo returns the event with its video, if any.
func (r Events) GetWithVideo(ctx context.Context, id uint) (*models.Event, error) {
	return r.Get(ctx, id, relVideo)
}

// GetFull returns the event with objects, camera and video.
func (r Events) GetFull(ctx context.Context, id uint) (*models.Event, error) {
	return r.Get(ctx, id, relObjects, relCamera, relVideo)
}

// CreateWithObjects persists the event and its objects in one transaction.
func (r Events) CreateWithObjects(ctx context.Context, event *models.Event, objects []models.Object) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(event).Error; err != nil {
			return err
		}

		if len(objects) == 0 {
			event.Objects = []models.Object{}

			return nil
		}

		for i := range objects {
			objects[i].EventID = event.ID
		}

		if err := tx.Create(&objects).Error; err != nil {
			return err
		}

		event.Objects = objects

		return nil
	})
}

// SetConfirmed stores the confirmation flag.
func (r Events) SetConfirmed(ctx context.Context, id uint, confirmed bool) (*models.Event, error) {
	return r.UpdateByID(ctx, id, map[string]any{"is_confirmed": confirmed})
}

// SetFalsePositive stores the false positive flag.
func (r Events) SetFalsePositive(ctx context.Context, id uint, falsePositive bool) (*models.Event, error) {
	return r.UpdateByID(ctx, id, map[string]any{"is_false_positive": falsePositive})
}

// Stats aggregates all events with GROUP BY queries.
func (r Events) Stats(ctx context.Context) (EventStats, error) {
	stats := EventStats{
		ByType:   map[string]int64{},
		ByCamera: map[uint]int64{},
	}

	db, err := r.conn(ctx)
	if err != nil {
		return stats, err
	}

	var byType []struct {
		EventType string
		Count     int64
	}

	err = db.Model(&models.Event{}).
		Select("event_type, COUNT(*) AS count").
		Group("event_type").
		Scan(&byType).Error
	if err != nil {
		return stats, err
	}

	for _, row := range byType {
		stats.ByType[row.EventType] = row.Count
		stats.Total += row.Count
	}

	var byCamera []struct {
		CameraID uint
		Count    int64
	}

	err = db.Model(&models.Event{}).
		Select("camera_id, COUNT(*) AS count").
		Group("camera_id").
		Scan(&byCamera).Error
	if err != nil {
		return stats, err
	}

	for _, row := range byCamera {
		stats.ByCamera[row.CameraID] = row.Count
	}

	if err = db.Model(&models.Event{}).Where("is_confirmed = ?", true).Count(&stats.Confirmed).Error; err != nil {
		return stats, err
	}

	err = db.Model(&models.Event{}).Where("is_false_positive = ?", true).Count(&stats.FalsePositives).Error

	return stats, err
}

// Objects reads detected objects.
type Objects struct {
	Repository[models.Object]
}

// NewObjects returns an object repository bound to db.
func NewObjects(db *gorm.DB) Objects {
	return Objects{New[models.Object](db)}
}

// ListByEvent returns a page of the objects of an event.
func (r Objects) ListByEvent(ctx context.Context, eventID uint, p pagination.Params) ([]models.Object, error) {
	return r.List(ctx, p, Filters{"event_id": eventID})
}

// CountByEvent counts the objects of an event.
func (r Objects) CountByEvent(ctx context.Context, eventID uint) (int64, error) {
	return r.Count(ctx, Filters{"event_id": eventID})
}

// TypeStats counts objects per object type.
func (r Objects) TypeStats(ctx context.Context) (map[string]int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ObjectType string
		Count      int64
	}

	err = db.Model(&models.Object{}).
		Select("object_type, COUNT(*) AS count").
		Group("object_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ObjectType] = row.Count
	}

	return out, nil
}

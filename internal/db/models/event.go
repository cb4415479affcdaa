package models

import (
	"time"

	"gorm.io/datatypes"
)

// Event is a detection reported for a camera and, optionally, a recording.
type Event struct {
	ID              uint      `gorm:"primaryKey"`
	EventType       string    `gorm:"size:100;not null;index"`
	Timestamp       time.Time `gorm:"not null;index"`
	Description     string    `gorm:"type:text"`
	IsConfirmed     bool      `gorm:"not null"`
	IsFalsePositive bool      `gorm:"not null"`
	FrameNumber     *int
	FrameTimestamp  *time.Time
	FramePath       string   `gorm:"size:1024"`
	CameraID        uint     `gorm:"not null;index"`
	Camera          *Camera  `gorm:"foreignKey:CameraID"`
	VideoID         *uint    `gorm:"index"`
	Video           *Video   `gorm:"foreignKey:VideoID"`
	Objects         []Object `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the database table name for the Event model.
func (Event) TableName() string {
	return "events"
}

// Object is a single detected object of an event with its bounding box.
type Object struct {
	ID         uint    `gorm:"primaryKey"`
	EventID    uint    `gorm:"not null;index"`
	ObjectType string  `gorm:"size:100;not null;index"`
	Confidence float64 `gorm:"not null"` // 0.0 .. 1.0
	XMin       int     `gorm:"column:x_min"`
	YMin       int     `gorm:"column:y_min"`
	XMax       int     `gorm:"column:x_max"`
	YMax       int     `gorm:"column:y_max"`
	Attributes datatypes.JSON
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the database table name for the Object model.
func (Object) TableName() string {
	return "objects"
}

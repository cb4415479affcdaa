package models

import "time"

// Processing states a video passes through. The column is free-form, these are the values set by the server.
const (
	ProcessingPending   = "pending"
	ProcessingUploaded  = "uploaded"
	ProcessingCompleted = "completed"
)

// Video is the metadata of a recording stored outside of the database.
type Video struct {
	ID               uint   `gorm:"primaryKey"`
	Filename         string `gorm:"size:255;not null"`
	Filepath         string `gorm:"size:1024;not null"`
	FileSize         int64  `gorm:"not null"` // bytes
	Duration         *int   // seconds
	ResolutionWidth  *int
	ResolutionHeight *int
	FPS              *int       `gorm:"column:fps"`
	Codec            string     `gorm:"size:50"`
	Format           string     `gorm:"size:50"`
	RecordingStart   time.Time  `gorm:"not null;index"`
	RecordingEnd     *time.Time `gorm:"index"`
	IsProcessed      bool       `gorm:"not null"`
	IsAnalyzed       bool       `gorm:"not null"`
	ProcessingStatus string     `gorm:"size:50;not null"`
	CameraID         uint       `gorm:"not null;index"`
	Camera           *Camera    `gorm:"foreignKey:CameraID"`
	Events           []Event    `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the database table name for the Video model.
func (Video) TableName() string {
	return "videos"
}

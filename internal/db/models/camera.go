package models

import "time"

// Camera is a video source installed at a location and owned by a user.
// Only the owner may update or delete it.
type Camera struct {
	ID               uint      `gorm:"primaryKey"`
	Name             string    `gorm:"size:255;not null;index"`
	IPAddress        string    `gorm:"column:ip_address;size:64"`
	RTSPURL          string    `gorm:"column:rtsp_url;size:512"`
	Description      string    `gorm:"type:text"`
	IsActive         bool      `gorm:"not null"`
	LocationID       uint      `gorm:"not null;index"`
	Location         *Location `gorm:"foreignKey:LocationID"`
	OwnerID          uint      `gorm:"not null;index"`
	Owner            *User     `gorm:"foreignKey:OwnerID"`
	ResolutionWidth  *int
	ResolutionHeight *int
	FPS              *int   `gorm:"column:fps"`
	Rotation         int    `gorm:"not null"` // degrees, 0..359
	Timezone         string `gorm:"size:64"`
	// Videos and Events are removed together with their camera.
	Videos    []Video `gorm:"foreignKey:CameraID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	Events    []Event `gorm:"foreignKey:CameraID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Camera model.
func (Camera) TableName() string {
	return "cameras"
}

package models

import "time"

// Location is a site where cameras are installed.
type Location struct {
	ID          uint     `gorm:"primaryKey"`
	Name        string   `gorm:"size:255;not null;index"`
	Address     string   `gorm:"size:255;not null"`
	Description string   `gorm:"type:text"`
	Latitude    *float64 // optional geocoordinates
	Longitude   *float64
	// Cameras are removed together with their location.
	Cameras   []Camera `gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	Users     []User   `gorm:"many2many:user_locations"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Location model.
func (Location) TableName() string {
	return "locations"
}

package models

// UserLocation assigns users to locations.
// Deleting either side removes the assignment (CASCADE).
type UserLocation struct {
	UserID     uint     `gorm:"primaryKey;column:user_id"`
	LocationID uint     `gorm:"primaryKey;column:location_id"`
	User       User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Location   Location `gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the UserLocation model.
func (UserLocation) TableName() string {
	return "user_locations"
}

package schema

import (
	"time"

	"github.com/vigil-vms/vigil/internal/db/models"
)

// Location is the response shape of a location.
type Location struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LocationWithUsers adds the assigned users.
type LocationWithUsers struct {
	Location
	Users []User `json:"users"`
}

// LocationWithCameras adds the installed cameras.
type LocationWithCameras struct {
	Location
	Cameras []Camera `json:"cameras"`
}

// LocationFull adds users and cameras.
type LocationFull struct {
	Location
	Users   []User   `json:"users"`
	Cameras []Camera `json:"cameras"`
}

// LocationCreate is the input of a new location.
type LocationCreate struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Address     string   `json:"address" validate:"required,max=255"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// LocationUpdate changes only the supplied fields.
type LocationUpdate struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Address     *string  `json:"address" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// Changes returns the column changes of the update.
func (in LocationUpdate) Changes() map[string]any {
	c := map[string]any{}
	setIf(c, "name", in.Name)
	setIf(c, "address", in.Address)
	setIf(c, "description", in.Description)
	setIf(c, "latitude", in.Latitude)
	setIf(c, "longitude", in.Longitude)

	return c
}

// Model builds the location model of the input.
func (in LocationCreate) Model() models.Location {
	return models.Location{
		Name:        in.Name,
		Address:     in.Address,
		Description: in.Description,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
	}
}

// FromLocation maps a location model.
func FromLocation(m models.Location) Location {
	return Location{
		ID:          m.ID,
		Name:        m.Name,
		Address:     m.Address,
		Description: m.Description,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromLocationWithUsers maps a location with its users.
func FromLocationWithUsers(m models.Location) LocationWithUsers {
	return LocationWithUsers{
		Location: FromLocation(m),
		Users:    mapSlice(m.Users, FromUser),
	}
}

// FromLocationWithCameras maps a location with its cameras.
func FromLocationWithCameras(m models.Location) LocationWithCameras {
	return LocationWithCameras{
		Location: FromLocation(m),
		Cameras:  mapSlice(m.Cameras, FromCamera),
	}
}

// FromLocationFull maps a location with users and cameras.
func FromLocationFull(m models.Location) LocationFull {
	return LocationFull{
		Location: FromLocation(m),
		Users:    mapSlice(m.Users, FromUser),
		Cameras:  mapSlice(m.Cameras, FromCamera),
	}
}

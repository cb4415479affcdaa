package schema

import (
	"time"

	"github.com/vigil-vms/vigil/internal/db/models"
)

// Camera is the response shape of a camera.
type Camera struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	IPAddress        string    `json:"ip_address"`
	RTSPURL          string    `json:"rtsp_url"`
	Description      string    `json:"description"`
	IsActive         bool      `json:"is_active"`
	LocationID       uint      `json:"location_id"`
	OwnerID          uint      `json:"owner_id"`
	ResolutionWidth  *int      `json:"resolution_width"`
	ResolutionHeight *int      `json:"resolution_height"`
	FPS              *int      `json:"fps"`
	Rotation         int       `json:"rotation"`
	Timezone         string    `json:"timezone"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CameraWithLocation adds the location.
type CameraWithLocation struct {
	Camera
	Location *Location `json:"location"`
}

// CameraWithOwner adds the owner.
type CameraWithOwner struct {
	Camera
	Owner *User `json:"owner"`
}

// CameraFull adds location and owner.
type CameraFull struct {
	Camera
	Location *Location `json:"location"`
	Owner    *User     `json:"owner"`
}

// CameraStats are the aggregates of one camera.
type CameraStats struct {
	TotalVideos int64   `json:"total_videos"`
	TotalEvents int64   `json:"total_events"`
	DiskUsageMB float64 `json:"disk_usage_mb"`
}

// CameraCreate is the input of a new camera. OwnerID defaults to the acting user.
type CameraCreate struct {
	Name             string `json:"name" validate:"required,max=255"`
	IPAddress        string `json:"ip_address" validate:"omitempty,ip"`
	RTSPURL          string `json:"rtsp_url" validate:"omitempty,url"`
	Description      string `json:"description"`
	IsActive         *bool  `json:"is_active"`
	LocationID       uint   `json:"location_id" validate:"required"`
	OwnerID          *uint  `json:"owner_id"`
	ResolutionWidth  *int   `json:"resolution_width" validate:"omitempty,gt=0"`
	ResolutionHeight *int   `json:"resolution_height" validate:"omitempty,gt=0"`
	FPS              *int   `json:"fps" validate:"omitempty,gt=0"`
	Rotation         *int   `json:"rotation" validate:"omitempty,gte=0,lt=360"`
	Timezone         string `json:"timezone" validate:"omitempty,timezone"`
}

// Model builds the camera model of the input owned by ownerID.
func (in CameraCreate) Model(ownerID uint) models.Camera {
	m := models.Camera{
		Name:             in.Name,
		IPAddress:        in.IPAddress,
		RTSPURL:          in.RTSPURL,
		Description:      in.Description,
		IsActive:         in.IsActive == nil || *in.IsActive,
		LocationID:       in.LocationID,
		OwnerID:          ownerID,
		ResolutionWidth:  in.ResolutionWidth,
		ResolutionHeight: in.ResolutionHeight,
		FPS:              in.FPS,
		Timezone:         in.Timezone,
	}

	if in.Rotation != nil {
		m.Rotation = *in.Rotation
	}

	return m
}

// CameraUpdate changes only the supplied fields.
type CameraUpdate struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=255"`
	IPAddress        *string `json:"ip_address" validate:"omitempty,ip"`
	RTSPURL          *string `json:"rtsp_url" validate:"omitempty,url"`
	Description      *string `json:"description"`
	IsActive         *bool   `json:"is_active"`
	LocationID       *uint   `json:"location_id" validate:"omitempty,gt=0"`
	OwnerID          *uint   `json:"owner_id" validate:"omitempty,gt=0"`
	ResolutionWidth  *int    `json:"resolution_width" validate:"omitempty,gt=0"`
	ResolutionHeight *int    `json:"resolution_height" validate:"omitempty,gt=0"`
	FPS              *int    `json:"fps" validate:"omitempty,gt=0"`
	Rotation         *int    `json:"rotation" validate:"omitempty,gte=0,lt=360"`
	Timezone         *string `json:"timezone" validate:"omitempty,timezone"`
}

// Changes returns the column changes of the update.
func (in CameraUpdate) Changes() map[string]any {
	c := map[string]any{}
	setIf(c, "name", in.Name)
	setIf(c, "ip_address", in.IPAddress)
	setIf(c, "rtsp_url", in.RTSPURL)
	setIf(c, "description", in.Description)
	setIf(c, "is_active", in.IsActive)
	setIf(c, "location_id", in.LocationID)
	setIf(c, "owner_id", in.OwnerID)
	setIf(c, "resolution_width", in.ResolutionWidth)
	setIf(c, "resolution_height", in.ResolutionHeight)
	setIf(c, "fps", in.FPS)
	setIf(c, "rotation", in.Rotation)
	setIf(c, "timezone", in.Timezone)

	return c
}

// FromCamera maps a camera model.
func FromCamera(m models.Camera) Camera {
	return Camera{
		ID:               m.ID,
		Name:             m.Name,
		IPAddress:        m.IPAddress,
		RTSPURL:          m.RTSPURL,
		Description:      m.Description,
		IsActive:         m.IsActive,
		LocationID:       m.LocationID,
		OwnerID:          m.OwnerID,
		ResolutionWidth:  m.ResolutionWidth,
		ResolutionHeight: m.ResolutionHeight,
		FPS:              m.FPS,
		Rotation:         m.Rotation,
		Timezone:         m.Timezone,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func locationPtr(m *models.Location) *Location {
	if m == nil {
		return nil
	}

	l := FromLocation(*m)

	return &l
}

func userPtr(m *models.User) *User {
	if m == nil {
		return nil
	}

	u := FromUser(*m)

	return &u
}

func cameraPtr(m *models.Camera) *Camera {
	if m == nil {
		return nil
	}

	c := FromCamera(*m)

	return &c
}

// FromCameraWithLocation maps a camera with its location.
func FromCameraWithLocation(m models.Camera) CameraWithLocation {
	return CameraWithLocation{Camera: FromCamera(m), Location: locationPtr(m.Location)}
}

// FromCameraWithOwner maps a camera with its owner.
func FromCameraWithOwner(m models.Camera) CameraWithOwner {
	return CameraWithOwner{Camera: FromCamera(m), Owner: userPtr(m.Owner)}
}

// FromCameraFull maps a camera with location and owner.
func FromCameraFull(m models.Camera) CameraFull {
	return CameraFull{
		Camera:   FromCamera(m),
		Location: locationPtr(m.Location),
		Owner:    userPtr(m.Owner),
	}
}

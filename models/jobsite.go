package models

import (
	"time"

	"timecard/geo"
)

// DefaultProximityRadiusMeters is the geofence radius applied to sites
// created without an explicit one.
const DefaultProximityRadiusMeters = 100

type JobSite struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
	Name                  string    `gorm:"uniqueIndex;not null;size:200" json:"name"`
	Address               string    `gorm:"size:300" json:"address"`
	Latitude              float64   `gorm:"not null" json:"latitude"`
	Longitude             float64   `gorm:"not null" json:"longitude"`
	ProximityRadiusMeters float64   `gorm:"not null;default:100" json:"proximity_radius_meters"`
	Tasks                 []Task    `gorm:"foreignKey:JobSiteID" json:"tasks,omitempty"`
}

type Task struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	JobSiteID uint      `gorm:"not null;index" json:"job_site_id"`
	Name      string    `gorm:"not null;size:200" json:"name"`
}

// Fence converts the site row into the geo module's value type.
func (s *JobSite) Fence() geo.Site {
	r := s.ProximityRadiusMeters
	if r <= 0 {
		r = DefaultProximityRadiusMeters
	}
	return geo.Site{
		ID:           s.ID,
		Name:         s.Name,
		Center:       geo.Coordinate{Latitude: s.Latitude, Longitude: s.Longitude},
		RadiusMeters: r,
	}
}

// Fences maps a site catalog to geo values preserving catalog order, which
// is the scan order geo.FindNearestSite documents.
func Fences(sites []JobSite) []geo.Site {
	out := make([]geo.Site, 0, len(sites))
	for i := range sites {
		out = append(out, sites[i].Fence())
	}
	return out
}

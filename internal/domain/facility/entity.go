package facility

import (
	"time"

	"github.com/liefcare/workforce-backend/internal/pkg/geofence"
)

// DefaultRadiusKm is used when a facility is created without an explicit radius
const DefaultRadiusKm = 2.0

// Settings is the configured location of a care facility. Radius is stored in kilometres.
type Settings struct {
	ID            string
	Name          string
	Latitude      float64
	Longitude     float64
	RadiusKm      float64
	ManagerUserID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Join users
	ManagerName *string
}

func (s Settings) Center() geofence.GeoPoint {
	return geofence.GeoPoint{Latitude: s.Latitude, Longitude: s.Longitude}
}

func (s Settings) Perimeter() geofence.Perimeter {
	return geofence.Perimeter{Center: s.Center(), RadiusMeters: s.RadiusKm * 1000}
}

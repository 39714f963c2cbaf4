package geofence

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by the Haversine formula.
const EarthRadiusMeters = 6371000.0

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// GeoPoint is a WGS 84 coordinate in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Validate reports ErrInvalidCoordinate when the point is outside [-90,90] x [-180,180]
// or is not a finite number.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v must be between -90 and 90", ErrInvalidCoordinate, p.Latitude)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v must be between -180 and 180", ErrInvalidCoordinate, p.Longitude)
	}
	return nil
}

// Perimeter is a circular geofence around a facility.
type Perimeter struct {
	Center       GeoPoint `json:"center" yaml:"center"`
	RadiusMeters float64  `json:"radius_meters" yaml:"radius_meters"`
}

func (p Perimeter) Validate() error {
	if err := p.Center.Validate(); err != nil {
		return fmt.Errorf("perimeter center: %w", err)
	}
	if math.IsNaN(p.RadiusMeters) || math.IsInf(p.RadiusMeters, 0) || p.RadiusMeters <= 0 {
		return fmt.Errorf("%w: radius %v must be greater than 0", ErrInvalidCoordinate, p.RadiusMeters)
	}
	return nil
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

// DistanceMeters returns the great-circle distance between a and b in meters.
// Inputs are not validated; callers that need the precondition use IsWithinPerimeter.
func DistanceMeters(a, b GeoPoint) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	// cos(a)*cos(b) is evaluated first so the result does not depend on argument order.
	h := sinLat*sinLat + math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*sinLon*sinLon
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// IsWithinPerimeter reports whether point lies inside perimeter. The boundary is inclusive.
func IsWithinPerimeter(point GeoPoint, perimeter Perimeter) (bool, error) {
	if err := point.Validate(); err != nil {
		return false, err
	}
	if err := perimeter.Validate(); err != nil {
		return false, err
	}

	return DistanceMeters(perimeter.Center, point) <= perimeter.RadiusMeters, nil
}

package facility

import (
	"math"
	"time"

	"github.com/liefcare/workforce-backend/internal/pkg/validator"
)

type UpdateSettingsRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	RadiusKm  *float64 `json:"radius_km"`
	Name      *string  `json:"name,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude is required",
		})
	} else if !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude is required",
		})
	} else if !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.RadiusKm == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_km",
			Message: "radius_km is required",
		})
	} else if math.IsNaN(*r.RadiusKm) || math.IsInf(*r.RadiusKm, 0) || *r.RadiusKm <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_km",
			Message: "radius_km must be greater than 0",
		})
	}

	if r.Name != nil && len(*r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *CheckLocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude == nil || r.Longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude and longitude are required",
		})
	}
	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SettingsResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radius_km"`
	Manager   string  `json:"manager"`
	UpdatedAt string  `json:"updated_at"`
}

func ToResponse(s Settings) SettingsResponse {
	manager := "Unknown"
	if s.ManagerName != nil && *s.ManagerName != "" {
		manager = *s.ManagerName
	}
	return SettingsResponse{
		ID:        s.ID,
		Name:      s.Name,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		RadiusKm:  s.RadiusKm,
		Manager:   manager,
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

type CheckLocationResponse struct {
	WithinPerimeter bool    `json:"within_perimeter"`
	DistanceMeters  float64 `json:"distance_meters"`
	RadiusMeters    float64 `json:"radius_meters"`
	FacilityName    string  `json:"facility_name,omitempty"`
}

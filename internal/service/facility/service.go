package facility

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/liefcare/workforce-backend/internal/domain/facility"
	"github.com/liefcare/workforce-backend/internal/pkg/geofence"
	"github.com/liefcare/workforce-backend/internal/pkg/metrics"
)

type FacilityServiceImpl struct {
	facility.SettingsRepository

	// perimeters replaces the database as the source of clock-in perimeters when set
	perimeters facility.PerimeterProvider
}

// NewFacilityService returns a facility service backed by the settings table. A non-nil
// perimeters provider (the facility file) takes precedence for geofence lookups.
func NewFacilityService(settingsRepository facility.SettingsRepository, perimeters facility.PerimeterProvider) facility.FacilityService {
	return &FacilityServiceImpl{
		SettingsRepository: settingsRepository,
		perimeters:         perimeters,
	}
}

// CurrentPerimeter implements facility.PerimeterProvider.
func (s *FacilityServiceImpl) CurrentPerimeter(ctx context.Context, facilityID string) (geofence.Perimeter, error) {
	perimeter, _, err := s.resolve(ctx, facilityID)
	return perimeter, err
}

func (s *FacilityServiceImpl) resolve(ctx context.Context, facilityID string) (geofence.Perimeter, string, error) {
	if s.perimeters != nil {
		perimeter, err := s.perimeters.CurrentPerimeter(ctx, facilityID)
		return perimeter, "", err
	}

	var (
		settings facility.Settings
		err      error
	)
	if facilityID == "" {
		settings, err = s.SettingsRepository.GetCurrent(ctx)
	} else {
		settings, err = s.SettingsRepository.GetByID(ctx, facilityID)
		if errors.Is(err, facility.ErrSettingsNotFound) {
			settings, err = s.SettingsRepository.GetCurrent(ctx)
		}
	}
	if err != nil {
		return geofence.Perimeter{}, "", err
	}

	perimeter := settings.Perimeter()
	if err := perimeter.Validate(); err != nil {
		return geofence.Perimeter{}, "", fmt.Errorf("%w: %v", facility.ErrPerimeterNotReady, err)
	}
	return perimeter, settings.Name, nil
}

// GetSettings implements facility.FacilityService.
func (s *FacilityServiceImpl) GetSettings(ctx context.Context) (facility.SettingsResponse, error) {
	settings, err := s.SettingsRepository.GetCurrent(ctx)
	if err != nil {
		return facility.SettingsResponse{}, err
	}
	return facility.ToResponse(settings), nil
}

// UpdateSettings implements facility.FacilityService.
func (s *FacilityServiceImpl) UpdateSettings(ctx context.Context, req facility.UpdateSettingsRequest) (facility.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return facility.SettingsResponse{}, err
	}

	current, err := s.SettingsRepository.GetCurrent(ctx)
	if err != nil {
		return facility.SettingsResponse{}, err
	}

	updated, err := s.SettingsRepository.Update(ctx, current.ID, req)
	if err != nil {
		return facility.SettingsResponse{}, fmt.Errorf("failed to update facility settings: %w", err)
	}
	return facility.ToResponse(updated), nil
}

// CheckLocation implements facility.FacilityService.
func (s *FacilityServiceImpl) CheckLocation(ctx context.Context, req facility.CheckLocationRequest) (facility.CheckLocationResponse, error) {
	if err := req.Validate(); err != nil {
		return facility.CheckLocationResponse{}, err
	}

	perimeter, name, err := s.resolve(ctx, "")
	if err != nil {
		return facility.CheckLocationResponse{}, err
	}

	point := geofence.GeoPoint{Latitude: *req.Latitude, Longitude: *req.Longitude}
	inside, err := geofence.IsWithinPerimeter(point, perimeter)
	if err != nil {
		metrics.GeofenceChecks.WithLabelValues("invalid").Inc()
		return facility.CheckLocationResponse{}, err
	}
	if inside {
		metrics.GeofenceChecks.WithLabelValues("inside").Inc()
	} else {
		metrics.GeofenceChecks.WithLabelValues("outside").Inc()
	}

	return facility.CheckLocationResponse{
		WithinPerimeter: inside,
		DistanceMeters:  math.Round(geofence.DistanceMeters(perimeter.Center, point)*100) / 100,
		RadiusMeters:    perimeter.RadiusMeters,
		FacilityName:    name,
	}, nil
}

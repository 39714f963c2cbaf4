package facility

import (
	"context"

	"github.com/liefcare/workforce-backend/internal/pkg/geofence"
)

// PerimeterProvider supplies the geofence a clock-in is checked against.
// An empty facilityID selects the default facility.
type PerimeterProvider interface {
	CurrentPerimeter(ctx context.Context, facilityID string) (geofence.Perimeter, error)
}

type FacilityService interface {
	PerimeterProvider

	GetSettings(ctx context.Context) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)

	// CheckLocation reports the distance to the facility and whether the point is inside
	CheckLocation(ctx context.Context, req CheckLocationRequest) (CheckLocationResponse, error)
}

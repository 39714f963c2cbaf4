package facility

import (
	"context"
	"testing"
	"time"

	"github.com/liefcare/workforce-backend/internal/domain/facility"
	"github.com/liefcare/workforce-backend/internal/pkg/geofence"
	"github.com/liefcare/workforce-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsRepo struct {
	rows    []facility.Settings
	updates int
}

func (f *fakeSettingsRepo) GetCurrent(_ context.Context) (facility.Settings, error) {
	if len(f.rows) == 0 {
		return facility.Settings{}, facility.ErrSettingsNotFound
	}
	return f.rows[0], nil
}

func (f *fakeSettingsRepo) GetByID(_ context.Context, id string) (facility.Settings, error) {
	for _, s := range f.rows {
		if s.ID == id {
			return s, nil
		}
	}
	return facility.Settings{}, facility.ErrSettingsNotFound
}

func (f *fakeSettingsRepo) Update(_ context.Context, id string, req facility.UpdateSettingsRequest) (facility.Settings, error) {
	for i := range f.rows {
		if f.rows[i].ID != id {
			continue
		}
		f.updates++
		f.rows[i].Latitude = *req.Latitude
		f.rows[i].Longitude = *req.Longitude
		f.rows[i].RadiusKm = *req.RadiusKm
		if req.Name != nil {
			f.rows[i].Name = *req.Name
		}
		f.rows[i].UpdatedAt = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		return f.rows[i], nil
	}
	return facility.Settings{}, facility.ErrSettingsNotFound
}

type staticPerimeter struct {
	perimeter geofence.Perimeter
}

func (s staticPerimeter) CurrentPerimeter(_ context.Context, _ string) (geofence.Perimeter, error) {
	return s.perimeter, nil
}

func ptr[T any](v T) *T {
	return &v
}

func newRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{rows: []facility.Settings{
		{ID: "f-1", Name: "Sunrise Care Home", Latitude: 51.5074, Longitude: -0.1278, RadiusKm: 2},
		{ID: "f-2", Name: "Harbour View", Latitude: 51.4545, Longitude: -2.5879, RadiusKm: 0.5},
	}}
}

func TestFacilityService_CurrentPerimeter(t *testing.T) {
	ctx := context.Background()
	svc := NewFacilityService(newRepo(), nil)

	p, err := svc.CurrentPerimeter(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, p.RadiusMeters)
	assert.Equal(t, 51.5074, p.Center.Latitude)

	p, err = svc.CurrentPerimeter(ctx, "f-2")
	require.NoError(t, err)
	assert.Equal(t, 500.0, p.RadiusMeters)

	// Unknown facilities fall back to the default one
	p, err = svc.CurrentPerimeter(ctx, "f-9")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, p.RadiusMeters)
}

func TestFacilityService_CurrentPerimeter_NotConfigured(t *testing.T) {
	ctx := context.Background()

	_, err := NewFacilityService(&fakeSettingsRepo{}, nil).CurrentPerimeter(ctx, "")
	assert.ErrorIs(t, err, facility.ErrSettingsNotFound)

	repo := &fakeSettingsRepo{rows: []facility.Settings{{ID: "f-1", Latitude: 10, Longitude: 10}}}
	_, err = NewFacilityService(repo, nil).CurrentPerimeter(ctx, "")
	assert.ErrorIs(t, err, facility.ErrPerimeterNotReady)
}

func TestFacilityService_CurrentPerimeter_Override(t *testing.T) {
	ctx := context.Background()
	override := staticPerimeter{perimeter: geofence.Perimeter{
		Center:       geofence.GeoPoint{Latitude: 1, Longitude: 2},
		RadiusMeters: 75,
	}}
	svc := NewFacilityService(newRepo(), override)

	p, err := svc.CurrentPerimeter(ctx, "f-2")
	require.NoError(t, err)
	assert.Equal(t, 75.0, p.RadiusMeters)
}

func TestFacilityService_GetSettings(t *testing.T) {
	ctx := context.Background()
	svc := NewFacilityService(newRepo(), nil)

	resp, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "f-1", resp.ID)
	assert.Equal(t, "Unknown", resp.Manager)

	_, err = NewFacilityService(&fakeSettingsRepo{}, nil).GetSettings(ctx)
	assert.ErrorIs(t, err, facility.ErrSettingsNotFound)
}

func TestFacilityService_UpdateSettings(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	svc := NewFacilityService(repo, nil)

	resp, err := svc.UpdateSettings(ctx, facility.UpdateSettingsRequest{
		Latitude:  ptr(52.0),
		Longitude: ptr(0.5),
		RadiusKm:  ptr(1.5),
		Name:      ptr("Sunrise Care Home East"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.updates)
	assert.Equal(t, 1.5, resp.RadiusKm)
	assert.Equal(t, "Sunrise Care Home East", resp.Name)
	assert.Equal(t, "2025-03-10T09:00:00Z", resp.UpdatedAt)
}

func TestFacilityService_UpdateSettings_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   facility.UpdateSettingsRequest
		field string
	}{
		{"missing latitude", facility.UpdateSettingsRequest{Longitude: ptr(0.0), RadiusKm: ptr(1.0)}, "latitude"},
		{"latitude out of range", facility.UpdateSettingsRequest{Latitude: ptr(91.0), Longitude: ptr(0.0), RadiusKm: ptr(1.0)}, "latitude"},
		{"longitude out of range", facility.UpdateSettingsRequest{Latitude: ptr(0.0), Longitude: ptr(-181.0), RadiusKm: ptr(1.0)}, "longitude"},
		{"zero radius", facility.UpdateSettingsRequest{Latitude: ptr(0.0), Longitude: ptr(0.0), RadiusKm: ptr(0.0)}, "radius_km"},
		{"negative radius", facility.UpdateSettingsRequest{Latitude: ptr(0.0), Longitude: ptr(0.0), RadiusKm: ptr(-2.0)}, "radius_km"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo()
			svc := NewFacilityService(repo, nil)

			_, err := svc.UpdateSettings(context.Background(), tt.req)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field)
			assert.Zero(t, repo.updates)
		})
	}
}

func TestFacilityService_CheckLocation(t *testing.T) {
	ctx := context.Background()
	svc := NewFacilityService(newRepo(), nil)

	resp, err := svc.CheckLocation(ctx, facility.CheckLocationRequest{Latitude: ptr(51.5074), Longitude: ptr(-0.1278)})
	require.NoError(t, err)
	assert.True(t, resp.WithinPerimeter)
	assert.Zero(t, resp.DistanceMeters)
	assert.Equal(t, "Sunrise Care Home", resp.FacilityName)

	// Bristol is far outside a 2 km radius around London
	resp, err = svc.CheckLocation(ctx, facility.CheckLocationRequest{Latitude: ptr(51.4545), Longitude: ptr(-2.5879)})
	require.NoError(t, err)
	assert.False(t, resp.WithinPerimeter)
	assert.Greater(t, resp.DistanceMeters, 100000.0)
	assert.Equal(t, 2000.0, resp.RadiusMeters)

	_, err = svc.CheckLocation(ctx, facility.CheckLocationRequest{Latitude: ptr(51.5)})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

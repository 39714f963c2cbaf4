package geofence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var newYork = GeoPoint{Latitude: 40.7128, Longitude: -74.0060}

func TestDistanceMeters_SamePointIsZero(t *testing.T) {
	points := []GeoPoint{
		newYork,
		{Latitude: 0, Longitude: 0},
		{Latitude: 90, Longitude: 180},
		{Latitude: -90, Longitude: -180},
		{Latitude: 12.927538, Longitude: 77.526807},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, DistanceMeters(p, p), "distance of %v to itself", p)
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	pairs := [][2]GeoPoint{
		{newYork, {Latitude: 51.5074, Longitude: -0.1278}},
		{{Latitude: -33.8688, Longitude: 151.2093}, {Latitude: 35.6762, Longitude: 139.6503}},
		{{Latitude: 0, Longitude: 179.9}, {Latitude: 0, Longitude: -179.9}},
		{{Latitude: 89.9, Longitude: 10}, {Latitude: -89.9, Longitude: -170}},
	}
	for _, p := range pairs {
		ab := DistanceMeters(p[0], p[1])
		ba := DistanceMeters(p[1], p[0])
		assert.InDelta(t, ab, ba, 1e-9)
		assert.Greater(t, ab, 0.0)
	}
}

func TestDistanceMeters_KnownDistance(t *testing.T) {
	london := GeoPoint{Latitude: 51.5074, Longitude: -0.1278}

	// Roughly 5570 km between New York and London.
	assert.InDelta(t, 5570000, DistanceMeters(newYork, london), 10000)

	// One degree of latitude on a 6371 km sphere.
	oneDegree := DistanceMeters(GeoPoint{0, 0}, GeoPoint{1, 0})
	assert.InDelta(t, EarthRadiusMeters*math.Pi/180, oneDegree, 1e-6)
}

func TestIsWithinPerimeter_CenterAlwaysInside(t *testing.T) {
	radii := []float64{0.001, 1, 200, 2000, 1e7}
	centers := []GeoPoint{newYork, {Latitude: -90, Longitude: 0}, {Latitude: 0, Longitude: 180}}
	for _, c := range centers {
		for _, r := range radii {
			inside, err := IsWithinPerimeter(c, Perimeter{Center: c, RadiusMeters: r})
			require.NoError(t, err)
			assert.True(t, inside, "center %v radius %v", c, r)
		}
	}
}

func TestIsWithinPerimeter_BoundaryInclusive(t *testing.T) {
	edges := []GeoPoint{
		{Latitude: 40.7128, Longitude: -74.0042},
		{Latitude: 40.7200, Longitude: -74.0060},
		{Latitude: 40.7000, Longitude: -74.0200},
	}
	for _, p := range edges {
		r := DistanceMeters(newYork, p)
		inside, err := IsWithinPerimeter(p, Perimeter{Center: newYork, RadiusMeters: r})
		require.NoError(t, err)
		assert.True(t, inside, "point exactly %v m away must be inside", r)

		inside, err = IsWithinPerimeter(p, Perimeter{Center: newYork, RadiusMeters: r * 0.999})
		require.NoError(t, err)
		assert.False(t, inside)
	}
}

func TestIsWithinPerimeter_FacilityScenario(t *testing.T) {
	perimeter := Perimeter{Center: newYork, RadiusMeters: 200}

	near := GeoPoint{Latitude: 40.7128, Longitude: -74.0060 + 0.0018}
	inside, err := IsWithinPerimeter(near, perimeter)
	require.NoError(t, err)
	assert.True(t, inside)
	assert.InDelta(t, 150, DistanceMeters(newYork, near), 5)

	far := GeoPoint{Latitude: 40.7128, Longitude: -74.0060 + 0.01}
	inside, err = IsWithinPerimeter(far, perimeter)
	require.NoError(t, err)
	assert.False(t, inside)
	assert.InDelta(t, 840, DistanceMeters(newYork, far), 10)
}

func TestIsWithinPerimeter_InvalidInput(t *testing.T) {
	valid := Perimeter{Center: newYork, RadiusMeters: 200}

	cases := []struct {
		name      string
		point     GeoPoint
		perimeter Perimeter
	}{
		{"latitude too high", GeoPoint{Latitude: 90.0001, Longitude: 0}, valid},
		{"latitude too low", GeoPoint{Latitude: -91, Longitude: 0}, valid},
		{"longitude too high", GeoPoint{Latitude: 0, Longitude: 180.5}, valid},
		{"longitude too low", GeoPoint{Latitude: 0, Longitude: -181}, valid},
		{"latitude NaN", GeoPoint{Latitude: math.NaN(), Longitude: 0}, valid},
		{"bad center", newYork, Perimeter{Center: GeoPoint{Latitude: 100}, RadiusMeters: 200}},
		{"zero radius", newYork, Perimeter{Center: newYork, RadiusMeters: 0}},
		{"negative radius", newYork, Perimeter{Center: newYork, RadiusMeters: -5}},
		{"infinite radius", newYork, Perimeter{Center: newYork, RadiusMeters: math.Inf(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inside, err := IsWithinPerimeter(tc.point, tc.perimeter)
			assert.ErrorIs(t, err, ErrInvalidCoordinate)
			assert.False(t, inside)
		})
	}
}

func TestGeoPoint_ValidateAcceptsExtremes(t *testing.T) {
	for _, p := range []GeoPoint{{90, 180}, {-90, -180}, {0, 0}} {
		assert.NoError(t, p.Validate())
	}
}

package facilityfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/liefcare/workforce-backend/internal/domain/facility"
	"github.com/liefcare/workforce-backend/internal/pkg/geofence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoFacilities = `
default: north
facilities:
  - id: main
    name: Lief Care Center
    latitude: 12.927538
    longitude: 77.526807
  - id: north
    name: North Wing
    latitude: 13.0
    longitude: 77.6
    radius_km: 0.5
`

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "facilities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewLoader_DefaultsAndLookup(t *testing.T) {
	path := writeFile(t, t.TempDir(), twoFacilities)

	l, err := NewLoader(path)
	require.NoError(t, err)

	// Default facility
	p, err := l.CurrentPerimeter(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 500.0, p.RadiusMeters)
	assert.Equal(t, geofence.GeoPoint{Latitude: 13.0, Longitude: 77.6}, p.Center)

	// Missing radius falls back to 2 km
	p, err = l.CurrentPerimeter(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, p.RadiusMeters)

	_, err = l.CurrentPerimeter(context.Background(), "south")
	assert.ErrorIs(t, err, facility.ErrSettingsNotFound)
}

func TestNewLoader_InvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", "facilities: []"},
		{"missing id", "facilities:\n  - latitude: 1\n    longitude: 1"},
		{"latitude out of range", "facilities:\n  - id: a\n    latitude: 91\n    longitude: 1"},
		{"negative radius", "facilities:\n  - id: a\n    latitude: 1\n    longitude: 1\n    radius_km: -1"},
		{"unknown default", "default: b\nfacilities:\n  - id: a\n    latitude: 1\n    longitude: 1"},
		{"duplicate id", "facilities:\n  - id: a\n    latitude: 1\n    longitude: 1\n  - id: a\n    latitude: 2\n    longitude: 2"},
		{"not yaml", "facilities: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.content)
			_, err := NewLoader(path)
			assert.Error(t, err)
		})
	}

	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReload_KeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, twoFacilities)
	l, err := NewLoader(path)
	require.NoError(t, err)

	var notified []*File
	l.OnChange(func(f *File) { notified = append(notified, f) })

	writeFile(t, dir, "facilities: []")
	_, err = l.Reload()
	assert.Error(t, err)
	assert.Equal(t, "north", l.File().Default)
	assert.Empty(t, notified)

	writeFile(t, dir, "facilities:\n  - id: only\n    latitude: 1\n    longitude: 2\n    radius_km: 1")
	f, err := l.Reload()
	require.NoError(t, err)
	assert.Equal(t, "only", f.Default)
	require.Len(t, notified, 1)
	assert.Equal(t, "only", notified[0].Default)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, twoFacilities)
	l, err := NewLoader(path)
	require.NoError(t, err)

	changed := make(chan *File, 4)
	l.OnChange(func(f *File) { changed <- f })

	stop, err := l.Watch()
	require.NoError(t, err)
	defer stop()

	writeFile(t, dir, "facilities:\n  - id: moved\n    latitude: 10\n    longitude: 20\n    radius_km: 3")

	select {
	case f := <-changed:
		assert.Equal(t, "moved", f.Default)
	case <-time.After(5 * time.Second):
		t.Fatal("facility file change was not picked up")
	}

	p, err := l.CurrentPerimeter(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 3000.0, p.RadiusMeters)
}

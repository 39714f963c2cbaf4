package facilityfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/liefcare/workforce-backend/internal/domain/facility"
	"github.com/liefcare/workforce-backend/internal/pkg/geofence"
	"github.com/liefcare/workforce-backend/internal/pkg/metrics"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a facility file:
//
//	default: main
//	facilities:
//	  - id: main
//	    name: Lief Care Center
//	    latitude: 12.927538
//	    longitude: 77.526807
//	    radius_km: 2
type File struct {
	Default    string     `yaml:"default"`
	Facilities []Facility `yaml:"facilities"`
}

type Facility struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	RadiusKm  float64 `yaml:"radius_km"`
}

func (f Facility) Perimeter() geofence.Perimeter {
	return geofence.Perimeter{
		Center:       geofence.GeoPoint{Latitude: f.Latitude, Longitude: f.Longitude},
		RadiusMeters: f.RadiusKm * 1000,
	}
}

// Loader serves facility perimeters from a YAML file and hot-reloads it on change.
// A file that fails to parse or validate is ignored and the previous content is kept.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  *File
	onChange []func(*File)
}

var _ facility.PerimeterProvider = (*Loader)(nil)

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	f, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = f
	return l, nil
}

// File returns the current (latest) facility file.
func (l *Loader) File() *File {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the file reloads.
func (l *Loader) OnChange(fn func(*File)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// CurrentPerimeter implements facility.PerimeterProvider.
func (l *Loader) CurrentPerimeter(ctx context.Context, facilityID string) (geofence.Perimeter, error) {
	f := l.File()

	id := facilityID
	if id == "" {
		id = f.Default
	}
	for _, fac := range f.Facilities {
		if fac.ID == id {
			return fac.Perimeter(), nil
		}
	}
	return geofence.Perimeter{}, facility.ErrSettingsNotFound
}

// Watch starts a background goroutine that hot-reloads the file on changes.
// Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("facility watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("facility watcher add %s: %w", l.path, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					if _, err := l.Reload(); err != nil {
						slog.Warn("facility file reload failed, keeping previous settings", "path", l.path, "error", err)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("facility watcher error", "error", err)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}

// Reload forces an immediate re-read of the file.
func (l *Loader) Reload() (*File, error) {
	f, err := l.load()
	if err != nil {
		metrics.FacilityReloads.WithLabelValues("error").Inc()
		return nil, err
	}
	l.mu.Lock()
	l.current = f
	callbacks := make([]func(*File), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()

	metrics.FacilityReloads.WithLabelValues("ok").Inc()
	for _, fn := range callbacks {
		fn(f)
	}
	return f, nil
}

func (l *Loader) load() (*File, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read facility file %s: %w", l.path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse facility file %s: %w", l.path, err)
	}
	if err := Validate(&f); err != nil {
		return nil, fmt.Errorf("facility file %s: %w", l.path, err)
	}
	return &f, nil
}

// Validate applies defaults and rejects files without a usable perimeter.
func Validate(f *File) error {
	if len(f.Facilities) == 0 {
		return fmt.Errorf("at least one facility is required")
	}

	seen := make(map[string]bool, len(f.Facilities))
	for i := range f.Facilities {
		fac := &f.Facilities[i]
		if fac.ID == "" {
			return fmt.Errorf("facilities[%d]: id is required", i)
		}
		if seen[fac.ID] {
			return fmt.Errorf("facilities[%d]: duplicate id %q", i, fac.ID)
		}
		seen[fac.ID] = true

		if fac.RadiusKm == 0 {
			fac.RadiusKm = facility.DefaultRadiusKm
		}
		if err := fac.Perimeter().Validate(); err != nil {
			return fmt.Errorf("facility %q: %w", fac.ID, err)
		}
	}

	if f.Default == "" {
		f.Default = f.Facilities[0].ID
	} else if !seen[f.Default] {
		return fmt.Errorf("default facility %q is not defined", f.Default)
	}
	return nil
}

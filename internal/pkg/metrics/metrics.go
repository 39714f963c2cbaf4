package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TimeEntriesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workforce_time_entries_recorded_total",
		Help: "Total number of time entries appended, labelled by entry type.",
	}, []string{"type"})

	ClockRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workforce_clock_rejections_total",
		Help: "Total number of rejected clock actions, labelled by entry type and reason.",
	}, []string{"type", "reason"})

	GeofenceChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workforce_geofence_checks_total",
		Help: "Total number of perimeter checks, labelled by result (inside, outside, invalid).",
	}, []string{"result"})

	AnomaliesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workforce_attendance_anomalies_total",
		Help: "Total number of anomalous time entries reported by reconstruction, labelled by kind.",
	}, []string{"kind"})

	ReconstructionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "workforce_reconstruction_duration_ms",
		Help:    "Time spent replaying time entries into shifts, in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250},
	})

	FacilityReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workforce_facility_config_reloads_total",
		Help: "Total number of facility file reloads, labelled by status.",
	}, []string{"status"})

	LiveSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "workforce_live_activity_subscribers",
		Help: "Current number of connected live activity streams.",
	})
)

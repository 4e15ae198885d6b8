package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsService owns the Prometheus registry and the collectors for both
// the HTTP surface and the scheduling engine.
type MetricsService struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	RosterSize       prometheus.Gauge
	AppointmentsMade prometheus.Gauge
	WaitingListed    prometheus.Gauge
	FilteredOut      prometheus.Gauge
}

func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_runs_total",
			Help: "Completed schedule runs by outcome.",
		}, []string{"status"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "schedule_run_duration_seconds",
			Help:    "Wall-clock duration of a full schedule run.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}),
		RosterSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schedule_roster_size",
			Help: "Number of roster members in the most recent run.",
		}),
		AppointmentsMade: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schedule_appointments_total",
			Help: "Appointments produced by the most recent run.",
		}),
		WaitingListed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schedule_waiting_total",
			Help: "Waiting-list entries produced by the most recent run.",
		}),
		FilteredOut: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schedule_filtered_total",
			Help: "Members excluded from the most recent run by the score filter.",
		}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RunsTotal,
		m.RunDuration,
		m.RosterSize,
		m.AppointmentsMade,
		m.WaitingListed,
		m.FilteredOut,
	)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records the headline numbers of a finished run.
func (m *MetricsService) ObserveRun(status string, seconds float64, roster, appointments, waiting, filtered int) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(seconds)
	m.RosterSize.Set(float64(roster))
	m.AppointmentsMade.Set(float64(appointments))
	m.WaitingListed.Set(float64(waiting))
	m.FilteredOut.Set(float64(filtered))
}

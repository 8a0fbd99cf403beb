// Package observability bundles Prometheus metrics for the mission
// core and exposes them over HTTP.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the mission metrics. A nil *Collector is valid and
// turns every update into a no-op, so components can take metrics
// optionally.
type Collector struct {
	registry *prometheus.Registry

	SetpointsSent   prometheus.Counter
	SupervisorPolls prometheus.Counter
	SafetyTrips     *prometheus.CounterVec
	RecordsWritten  prometheus.Counter
	DriftM          prometheus.Gauge
	SpeedMS         prometheus.Gauge
}

// NewCollector registers the mission metrics against a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		SetpointsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mission_setpoints_sent_total",
			Help: "Total position setpoints transmitted by the executor.",
		}),
		SupervisorPolls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mission_supervisor_polls_total",
			Help: "Total safety supervisor poll cycles.",
		}),
		SafetyTrips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mission_safety_trips_total",
			Help: "Safety trips by check.",
		}, []string{"check"}),
		RecordsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mission_records_written_total",
			Help: "Telemetry records written by the recorder.",
		}),
		DriftM: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mission_drift_m",
			Help: "Latest planar drift between actual and reference position.",
		}),
		SpeedMS: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mission_speed_m_s",
			Help: "Latest 3D speed from the velocity snapshot.",
		}),
	}
	reg.MustRegister(c.SetpointsSent, c.SupervisorPolls, c.SafetyTrips, c.RecordsWritten, c.DriftM, c.SpeedMS)
	return c
}

// Handler returns the /metrics HTTP handler for this collector.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// IncSetpoints counts one transmitted setpoint.
func (c *Collector) IncSetpoints() {
	if c == nil {
		return
	}
	c.SetpointsSent.Inc()
}

// IncPolls counts one supervisor poll cycle.
func (c *Collector) IncPolls() {
	if c == nil {
		return
	}
	c.SupervisorPolls.Inc()
}

// IncTrip counts a safety trip for the given check label.
func (c *Collector) IncTrip(check string) {
	if c == nil {
		return
	}
	c.SafetyTrips.WithLabelValues(check).Inc()
}

// IncRecords counts one recorded telemetry row.
func (c *Collector) IncRecords() {
	if c == nil {
		return
	}
	c.RecordsWritten.Inc()
}

// ObserveDrift updates the drift gauge.
func (c *Collector) ObserveDrift(m float64) {
	if c == nil {
		return
	}
	c.DriftM.Set(m)
}

// ObserveSpeed updates the speed gauge.
func (c *Collector) ObserveSpeed(ms float64) {
	if c == nil {
		return
	}
	c.SpeedMS.Set(ms)
}

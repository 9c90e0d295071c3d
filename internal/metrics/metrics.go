// Package metrics provides Prometheus metrics for descriptor pipeline runs
package metrics

import (
	"fmt"
	"time"

	"scig/internal/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records pipeline metrics for one geometry system on its own
// registry.
type Recorder struct {
	system   string
	registry *prometheus.Registry

	descriptorsParsed *prometheus.CounterVec
	parseErrors       *prometheus.CounterVec
	volumesPublished  *prometheus.CounterVec
	parseDuration     *prometheus.HistogramVec
	runsTotal         *prometheus.CounterVec
}

// NewRecorder registers the pipeline metrics on reg. A nil reg gets a
// fresh registry.
func NewRecorder(system string, reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Recorder{
		system:   system,
		registry: reg,

		descriptorsParsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scig_descriptors_parsed_total",
				Help: "Total number of descriptors parsed",
			},
			[]string{"system", "solid"},
		),
		parseErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scig_parse_errors_total",
				Help: "Total number of rejected descriptor files by error kind",
			},
			[]string{"system", "kind"},
		),
		volumesPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scig_volumes_published_total",
				Help: "Total number of volumes published to a factory",
			},
			[]string{"system", "factory"},
		),
		parseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scig_parse_duration_seconds",
				Help:    "Time taken to read and parse a descriptor file",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"system"},
		),
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scig_runs_total",
				Help: "Total number of pipeline runs",
			},
			[]string{"system", "mode", "status"},
		),
	}
}

// Registry returns the registry the recorder writes to.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// RecordParsed counts one decoded descriptor of the given solid kind.
func (r *Recorder) RecordParsed(solid string) {
	r.descriptorsParsed.WithLabelValues(r.system, solid).Inc()
}

// RecordParseError counts a rejected file by error kind.
func (r *Recorder) RecordParseError(kind string) {
	r.parseErrors.WithLabelValues(r.system, kind).Inc()
}

// RecordPublished counts n volumes committed to factory.
func (r *Recorder) RecordPublished(factory string, n int) {
	r.volumesPublished.WithLabelValues(r.system, factory).Add(float64(n))
}

// RecordParseDuration observes how long reading and parsing took.
func (r *Recorder) RecordParseDuration(d time.Duration) {
	r.parseDuration.WithLabelValues(r.system).Observe(d.Seconds())
}

// RecordRun counts a finished run.
func (r *Recorder) RecordRun(mode string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.runsTotal.WithLabelValues(r.system, mode, status).Inc()
}

// WriteTextfile writes every metric in the node exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	logging.Metrics("metrics written to %s", path)
	return nil
}

// Package metrics counts what a build produced and exports the counters in
// the Prometheus text format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/specialistvlad/isctransform/transform"
)

const namespace = "isctransform"

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder holds the build metrics on its own registry, so several
// recorders can live in one process.
type Recorder struct {
	registry *prometheus.Registry

	builds          *prometheus.CounterVec
	documents       *prometheus.CounterVec
	nodes           *prometheus.CounterVec
	buildDuration   prometheus.Histogram
	lastBuildSecond prometheus.Gauge
}

// New returns a Recorder with every metric registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		builds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Number of builds by result.",
		}, []string{"result"}),
		documents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Number of transform documents by result.",
		}, []string{"result"}),
		nodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_total",
			Help:      "Number of transform nodes in built documents by kind.",
		}, []string{"kind"}),
		buildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of a full build in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		lastBuildSecond: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful build.",
		}),
	}
}

// DocumentBuilt counts a document and the nodes it contains.
func (r *Recorder) DocumentBuilt(root transform.Buildable) {
	r.documents.WithLabelValues(ResultSuccess).Inc()
	for kind, n := range transform.CountKinds(root) {
		r.nodes.WithLabelValues(kind.String()).Add(float64(n))
	}
}

// DocumentFailed counts a document that could not be built.
func (r *Recorder) DocumentFailed() {
	r.documents.WithLabelValues(ResultError).Inc()
}

// BuildFinished records one complete build.
func (r *Recorder) BuildFinished(started time.Time, err error) {
	r.buildDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		r.builds.WithLabelValues(ResultError).Inc()
		return
	}
	r.builds.WithLabelValues(ResultSuccess).Inc()
	r.lastBuildSecond.SetToCurrentTime()
}

// Gatherer exposes the recorder's registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteFile writes every metric to path in the text exposition format, for
// the node exporter textfile collector.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

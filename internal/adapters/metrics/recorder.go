// Package metrics records pipeline counters in a Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/assetpipe/internal/core/ports"
)

var _ ports.Metrics = (*Recorder)(nil)

const namespace = "assetpipe"

// Recorder implements ports.Metrics. Each recorder owns its registry so
// several can live in one process.
type Recorder struct {
	reg          *prom.Registry
	taskDuration *prom.HistogramVec
	taskResults  *prom.CounterVec
	reloads      *prom.CounterVec
	clients      prom.Gauge
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prom.NewRegistry(),
		taskDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Duration of asset task runs",
			Buckets:   prom.DefBuckets,
		}, []string{"task"}),
		taskResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "task_runs_total",
			Help:      "Asset task runs by result",
		}, []string{"task", "result"}),
		reloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "browser_notifications_total",
			Help:      "Live-reload notifications sent by kind",
		}, []string{"kind"}),
		clients: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "livereload_clients",
			Help:      "Connected live-reload clients",
		}),
	}
	r.reg.MustRegister(r.taskDuration, r.taskResults, r.reloads, r.clients)
	return r
}

// TaskFinished records one task run.
func (r *Recorder) TaskFinished(task string, ok bool, elapsed time.Duration) {
	result := "failed"
	if ok {
		result = "success"
	}
	r.taskDuration.WithLabelValues(task).Observe(elapsed.Seconds())
	r.taskResults.WithLabelValues(task, result).Inc()
}

// ReloadSent records one browser notification.
func (r *Recorder) ReloadSent(kind string) {
	r.reloads.WithLabelValues(kind).Inc()
}

// SetClients records the number of connected browsers.
func (r *Recorder) SetClients(n int) {
	r.clients.Set(float64(n))
}

// Registry returns the registry the recorder writes to.
func (r *Recorder) Registry() *prom.Registry {
	return r.reg
}

// Handler serves the recorder's metrics in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

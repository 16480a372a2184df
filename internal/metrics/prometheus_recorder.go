package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	renderDuration prom.Histogram
	renderResults  *prom.CounterVec
	renderErrors   *prom.CounterVec
	watchRebuilds  prom.Counter
	diagramLines   prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.renderDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "seqdiag",
			Name:      "render_duration_seconds",
			Help:      "Duration of scenario-to-diagram renders",
			Buckets:   prom.DefBuckets,
		})
		pr.renderResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "seqdiag",
			Name:      "render_results_total",
			Help:      "Render counts by outcome",
		}, []string{"result"})
		pr.renderErrors = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "seqdiag",
			Name:      "render_errors_total",
			Help:      "Render error counts by error category",
		}, []string{"category"})
		pr.watchRebuilds = prom.NewCounter(prom.CounterOpts{
			Namespace: "seqdiag",
			Name:      "watch_rebuilds_total",
			Help:      "Rebuilds triggered by the file watcher",
		})
		pr.diagramLines = prom.NewGauge(prom.GaugeOpts{
			Namespace: "seqdiag",
			Name:      "diagram_lines",
			Help:      "Line count of the most recently rendered diagram",
		})
		reg.MustRegister(pr.renderDuration, pr.renderResults, pr.renderErrors, pr.watchRebuilds, pr.diagramLines)
	})
	return pr
}

func (pr *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	pr.renderDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncRenderResult(result ResultLabel) {
	pr.renderResults.WithLabelValues(string(result)).Inc()
}

func (pr *PrometheusRecorder) IncRenderError(category string) {
	pr.renderErrors.WithLabelValues(category).Inc()
}

func (pr *PrometheusRecorder) IncWatchRebuild() {
	pr.watchRebuilds.Inc()
}

func (pr *PrometheusRecorder) SetDiagramLines(n int) {
	pr.diagramLines.Set(float64(n))
}

package metrics

import "time"

// ResultLabel enumerates render result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailure ResultLabel = "failure"
)

// Recorder defines observability hooks for diagram generation. Implementations
// may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObserveRenderDuration(d time.Duration)
	IncRenderResult(result ResultLabel)
	IncRenderError(category string)
	IncWatchRebuild()
	SetDiagramLines(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(time.Duration) {}
func (NoopRecorder) IncRenderResult(ResultLabel)         {}
func (NoopRecorder) IncRenderError(string)               {}
func (NoopRecorder) IncWatchRebuild()                    {}
func (NoopRecorder) SetDiagramLines(int)                 {}

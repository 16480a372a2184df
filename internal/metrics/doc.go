// Package metrics provides observability hooks for diagram generation.
//
// The package implements the Null Object pattern: components receive a
// Recorder through dependency injection and default to NoopRecorder, so
// metrics collection never requires nil checks at call sites. The
// PrometheusRecorder adapter is activated by the serve and watch commands,
// which expose its registry over /metrics.
package metrics

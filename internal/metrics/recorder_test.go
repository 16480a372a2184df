package metrics

import (
	"testing"
	"time"
)

func TestNoopRecorderIsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveRenderDuration(time.Second)
	r.IncRenderResult(ResultFailure)
	r.IncRenderError("internal")
	r.IncWatchRebuild()
	r.SetDiagramLines(0)
}

// Package preview rebuilds a scenario whenever its file changes and serves
// the latest generated PlantUML text over HTTP for local iteration.
package preview

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	errs "git.home.luguber.info/inful/seqdiag/internal/errors"
	"git.home.luguber.info/inful/seqdiag/internal/metrics"
	"git.home.luguber.info/inful/seqdiag/internal/observability"
)

// RenderFunc performs one rebuild. The renderID ties log lines of one rebuild
// together; the callback owns what happens with the output (write a file,
// update the preview server, regenerate Markdown).
type RenderFunc func(ctx context.Context, renderID string) error

const defaultDebounce = 250 * time.Millisecond

// Watcher rebuilds a scenario file on change. Editor save storms are
// debounced so one logical save triggers one rebuild.
type Watcher struct {
	path     string
	render   RenderFunc
	debounce time.Duration
	recorder metrics.Recorder
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides the debounce interval.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithRecorder installs a metrics recorder.
func WithRecorder(rec metrics.Recorder) WatcherOption {
	return func(w *Watcher) { w.recorder = rec }
}

// NewWatcher creates a watcher for one scenario file.
func NewWatcher(path string, render RenderFunc, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errs.WatchError(err)
	}
	w := &Watcher{
		path:     abs,
		render:   render,
		debounce: defaultDebounce,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch renders once, then blocks rebuilding on every change until ctx is
// canceled. The parent directory is watched rather than the file itself so
// atomic editor saves (write to temp, rename over target) keep working.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.WatchError(err)
	}
	defer func() { _ = fsw.Close() }()
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return errs.WatchError(err)
	}

	ctx = observability.WithScenario(ctx, w.path)
	w.rebuild(ctx)

	rebuildReq, trigger := newDebouncer(w.debounce)
	observability.InfoContext(ctx, "watching scenario for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rebuildReq:
			w.rebuild(ctx)
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			observability.DebugContext(ctx, "scenario changed", slog.String("op", ev.Op.String()))
			trigger()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			observability.WarnContext(ctx, "watcher error", slog.String("error", err.Error()))
		}
	}
}

// newDebouncer returns a request channel and a trigger that arms a timer;
// triggers within the interval collapse into one request.
func newDebouncer(d time.Duration) (<-chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	return req, trigger
}

func (w *Watcher) rebuild(ctx context.Context) {
	renderID := uuid.NewString()
	ctx = observability.WithRenderID(ctx, renderID)

	start := time.Now()
	err := w.render(ctx, renderID)
	w.recorder.ObserveRenderDuration(time.Since(start))
	w.recorder.IncWatchRebuild()

	if err != nil {
		w.recorder.IncRenderResult(metrics.ResultFailure)
		w.recorder.IncRenderError(string(errs.GetCategory(err)))
		observability.ErrorContext(ctx, "rebuild failed", slog.String("error", err.Error()))
		return
	}
	w.recorder.IncRenderResult(metrics.ResultSuccess)
	observability.InfoContext(ctx, "scenario rebuilt",
		slog.Duration("duration", time.Since(start)))
}

package preview

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"sync"
	"time"

	errs "git.home.luguber.info/inful/seqdiag/internal/errors"
)

const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="2">
<title>seqdiag preview</title>
<style>body{font-family:monospace;margin:2em}pre{background:#f4f4f4;padding:1em}</style>
</head>
<body>
<h1>seqdiag preview</h1>
%s
</body>
</html>
`

// Server holds the latest generated diagram text and serves it over HTTP.
// SetDiagram and SetError are called from the watch loop; handlers only read.
type Server struct {
	addr           string
	metricsHandler http.Handler

	mu      sync.RWMutex
	diagram []byte
	lastErr error
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithMetricsHandler exposes the given handler on /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) { s.metricsHandler = h }
}

// NewServer creates a preview server listening on addr once started.
func NewServer(addr string, opts ...ServerOption) *Server {
	s := &Server{addr: addr}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetDiagram publishes a freshly rendered diagram and clears any error state.
func (s *Server) SetDiagram(text []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagram = append([]byte(nil), text...)
	s.lastErr = nil
}

// SetError records a failed rebuild. The last good diagram stays served; the
// index page shows the error alongside it.
func (s *Server) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

// Handler returns the route mux. Split out from ListenAndServe for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/diagram.puml", s.handleDiagram)
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.metricsHandler != nil {
		mux.Handle("/metrics", s.metricsHandler)
	}
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.mu.RLock()
	diagram := s.diagram
	lastErr := s.lastErr
	s.mu.RUnlock()

	body := "<p>no diagram rendered yet</p>"
	if lastErr != nil {
		body = fmt.Sprintf("<p>last rebuild failed: %s</p>", html.EscapeString(lastErr.Error()))
	}
	if len(diagram) > 0 {
		body += fmt.Sprintf("<pre>%s</pre>", html.EscapeString(string(diagram)))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, body)
}

func (s *Server) handleDiagram(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	diagram := s.diagram
	s.mu.RUnlock()

	if len(diagram) == 0 {
		http.Error(w, "no diagram rendered yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(diagram)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errs.ServerError(err)
		}
		return nil
	case err, ok := <-errCh:
		if !ok || err == nil {
			return nil
		}
		return errs.ServerError(err)
	}
}

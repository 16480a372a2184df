package preview

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagramEndpoint(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/diagram.puml")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	s.SetDiagram([]byte("@startuml\nA -> B: ping\n@enduml\n"))
	resp2, err := http.Get(ts.URL + "/diagram.puml")
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	body := readAll(t, resp2)
	assert.Equal(t, "@startuml\nA -> B: ping\n@enduml\n", body)
}

func TestIndexShowsDiagramAndError(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	s.SetDiagram([]byte("@startuml\nA -> B: <cast>\n@enduml\n"))
	s.SetError(errors.New("scenario broke"))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body := readAll(t, resp)
	assert.Contains(t, body, "last rebuild failed: scenario broke")
	assert.Contains(t, body, "&lt;cast&gt;", "diagram text must be escaped")
}

func TestSetDiagramClearsError(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	s.SetError(errors.New("transient"))
	s.SetDiagram([]byte("@startuml\n@enduml\n"))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.NotContains(t, readAll(t, resp), "last rebuild failed")
}

func TestHealthz(t *testing.T) {
	ts := httptest.NewServer(NewServer("127.0.0.1:0").Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", readAll(t, resp))
}

func TestMetricsRouteOnlyWhenConfigured(t *testing.T) {
	bare := httptest.NewServer(NewServer("127.0.0.1:0").Handler())
	defer bare.Close()
	resp, err := http.Get(bare.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	withMetrics := httptest.NewServer(NewServer("127.0.0.1:0", WithMetricsHandler(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics\n"))
		}),
	)).Handler())
	defer withMetrics.Close()
	resp2, err := http.Get(withMetrics.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

package main

import (
	"bytes"
	"context"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/seqdiag/internal/metrics"
	"git.home.luguber.info/inful/seqdiag/internal/preview"
)

func runServe(ctx context.Context, path, addr string, withMetrics bool) error {
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var serverOpts []preview.ServerOption
	if withMetrics {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		serverOpts = append(serverOpts, preview.WithMetricsHandler(metrics.HTTPHandler(reg)))
	}
	srv := preview.NewServer(addr, serverOpts...)

	render := func(_ context.Context, _ string) error {
		diagram, err := renderScenario(path)
		if err != nil {
			srv.SetError(err)
			return err
		}
		srv.SetDiagram(diagram)
		recorder.SetDiagramLines(bytes.Count(diagram, []byte("\n")))
		return nil
	}
	w, err := preview.NewWatcher(path, render, preview.WithRecorder(recorder))
	if err != nil {
		return err
	}

	watchDone := make(chan error, 1)
	go func() { watchDone <- w.Watch(ctx) }()

	slog.Info("preview server listening", "addr", addr, "scenario", path)
	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	return <-watchDone
}

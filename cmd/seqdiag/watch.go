package main

import (
	"context"

	"git.home.luguber.info/inful/seqdiag/internal/preview"
)

func runWatch(ctx context.Context, path, output string) error {
	render := func(_ context.Context, _ string) error {
		diagram, err := renderScenario(path)
		if err != nil {
			return err
		}
		return writeOutput(diagram, output)
	}
	w, err := preview.NewWatcher(path, render)
	if err != nil {
		return err
	}
	return w.Watch(ctx)
}

package main

import (
	"bytes"
	"log/slog"
	"os"

	errs "git.home.luguber.info/inful/seqdiag/internal/errors"
	"git.home.luguber.info/inful/seqdiag/internal/scenario"
)

// renderScenario loads and renders one scenario file.
func renderScenario(path string) ([]byte, error) {
	s, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := scenario.Render(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeOutput writes the rendered diagram to the output file, or to stdout
// when output is empty or "-".
func writeOutput(diagram []byte, output string) error {
	if output == "" || output == "-" {
		if _, err := os.Stdout.Write(diagram); err != nil {
			return errs.OutputError("stdout", err)
		}
		return nil
	}
	if err := os.WriteFile(output, diagram, 0o644); err != nil {
		return errs.OutputError(output, err)
	}
	return nil
}

func runRender(path, output string) error {
	diagram, err := renderScenario(path)
	if err != nil {
		return err
	}
	if err := writeOutput(diagram, output); err != nil {
		return err
	}
	if output != "" && output != "-" {
		slog.Info("diagram written", "scenario", path, "output", output)
	}
	return nil
}

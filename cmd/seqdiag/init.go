package main

import (
	"log/slog"
	"os"

	errs "git.home.luguber.info/inful/seqdiag/internal/errors"
)

const starterScenario = `# seqdiag scenario
diagram:
  title: Example flow
participants:
  - name: Client
    shape: actor
  - name: Service
steps:
  - message: {from: Client, to: Service, text: request}
  - activate: {participant: Service}
  - message: {from: Service, to: Client, text: response}
  - deactivate: Service
`

func runInit(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errs.New(errs.CategoryValidation, errs.SeverityFatal, "file already exists; use --force to overwrite").
				WithContext("path", path)
		}
	}
	if err := os.WriteFile(path, []byte(starterScenario), 0o644); err != nil {
		return errs.OutputError(path, err)
	}
	slog.Info("starter scenario written", "path", path)
	return nil
}

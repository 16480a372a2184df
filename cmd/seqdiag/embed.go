package main

import (
	"log/slog"

	errs "git.home.luguber.info/inful/seqdiag/internal/errors"
	"git.home.luguber.info/inful/seqdiag/internal/markdown"
)

func runEmbed(paths []string, write bool) error {
	stale := 0
	for _, path := range paths {
		changed, err := markdown.RegenerateFile(path, write)
		if err != nil {
			return err
		}
		if !changed {
			continue
		}
		stale++
		if write {
			slog.Info("regenerated embedded diagrams", "path", path)
		} else {
			slog.Warn("embedded diagrams are out of date", "path", path)
		}
	}
	if stale > 0 && !write {
		return errs.New(errs.CategoryValidation, errs.SeverityError, "embedded diagrams are out of date; rerun with --write").
			WithContext("files", stale)
	}
	return nil
}

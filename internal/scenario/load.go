package scenario

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	errs "git.home.luguber.info/inful/seqdiag/internal/errors"
)

// Load reads, parses and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.ScenarioNotFound(path)
		}
		return nil, errs.Wrap(err, errs.CategoryFileSystem, errs.SeverityFatal, "reading scenario file failed").
			WithContext("path", path)
	}
	s, err := Parse(data)
	if err != nil {
		var se *errs.SeqDiagError
		if errors.As(err, &se) {
			return nil, se.WithContext("path", path)
		}
		return nil, errs.ScenarioParseError(path, err)
	}
	return s, nil
}

// Parse decodes scenario YAML and validates it. Unknown fields are rejected
// so typos in step names surface instead of silently dropping steps.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.Wrap(err, errs.CategoryScenario, errs.SeverityFatal, "scenario file is not valid YAML")
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

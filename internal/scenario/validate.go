package scenario

import (
	"fmt"

	errs "git.home.luguber.info/inful/seqdiag/internal/errors"
)

// Validate performs structural validation before any rendering happens.
// Builder-level rules (activation counts, scope order, arrow grammar) are
// enforced later by internal/diagram; this pass catches malformed steps so
// errors carry a step path instead of surfacing mid-render.
func Validate(s *Scenario) error {
	v := &scenarioValidator{scenario: s}
	return v.validate()
}

// scenarioValidator coordinates validation across all scenario domains.
type scenarioValidator struct {
	scenario *Scenario
}

func (sv *scenarioValidator) validate() error {
	if err := sv.validateParticipants(); err != nil {
		return err
	}
	return sv.validateSteps(sv.scenario.Steps, "steps")
}

func (sv *scenarioValidator) validateParticipants() error {
	seen := make(map[string]struct{})
	for i, p := range sv.scenario.Participants {
		field := fmt.Sprintf("participants[%d]", i)
		if p.Name == "" {
			return errs.ValidationFailed(field+".name", "participant name must not be empty")
		}
		if p.Shape != "" {
			if _, err := shapeNormalizer.NormalizeWithError(p.Shape); err != nil {
				return errs.ValidationFailed(field+".shape", fmt.Sprintf("unknown participant shape %q", p.Shape))
			}
		}
		key := p.Alias
		if key == "" {
			key = p.Name
		}
		if _, dup := seen[key]; dup {
			return errs.ValidationFailed(field, fmt.Sprintf("participant %q declared twice", key))
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (sv *scenarioValidator) validateSteps(steps []Step, path string) error {
	for i, step := range steps {
		field := fmt.Sprintf("%s[%d]", path, i)
		if err := sv.validateStep(step, field); err != nil {
			return err
		}
	}
	return nil
}

func (sv *scenarioValidator) validateStep(step Step, field string) error {
	actions := 0
	if step.Message != nil {
		actions++
	}
	if step.Activate != nil {
		actions++
	}
	if step.Deactivate != "" {
		actions++
	}
	if step.Destroy != "" {
		actions++
	}
	if step.Note != nil {
		actions++
	}
	if step.Divider != nil {
		actions++
	}
	if step.Delay != nil {
		actions++
	}
	if step.Space != nil {
		actions++
	}
	if step.NewPage != nil {
		actions++
	}
	if step.Blank {
		actions++
	}
	if step.Autonumber != nil {
		actions++
	}
	if step.Box != nil {
		actions++
	}
	if step.Group != nil {
		actions++
	}
	if actions == 0 {
		return errs.ValidationFailed(field, "step has no action")
	}
	if actions > 1 {
		return errs.ValidationFailed(field, "step has more than one action")
	}

	switch {
	case step.Message != nil:
		if step.Message.From == "" && step.Message.To == "" {
			return errs.ValidationFailed(field+".message", "message needs at least one endpoint")
		}
		if n := step.Message.Note; n != nil {
			if n.Text == "" {
				return errs.ValidationFailed(field+".message.note.text", "note text must not be empty")
			}
			if n.Position != "" && n.Position != "left" && n.Position != "right" {
				return errs.ValidationFailed(field+".message.note.position", fmt.Sprintf("message notes go left or right, not %q", n.Position))
			}
			if n.Shape != "" {
				if _, err := noteShapeNormalizer.NormalizeWithError(n.Shape); err != nil {
					return errs.ValidationFailed(field+".message.note.shape", fmt.Sprintf("unknown note shape %q", n.Shape))
				}
			}
		}
	case step.Activate != nil:
		if step.Activate.Participant == "" {
			return errs.ValidationFailed(field+".activate.participant", "participant must not be empty")
		}
	case step.Note != nil:
		n := step.Note
		if n.Text == "" {
			return errs.ValidationFailed(field+".note.text", "note text must not be empty")
		}
		if !n.Across {
			if n.Participant == "" && len(n.Participants) == 0 {
				return errs.ValidationFailed(field+".note", "note needs a participant, participants or across: true")
			}
			if n.Participant != "" && len(n.Participants) > 0 {
				return errs.ValidationFailed(field+".note", "use either participant or participants, not both")
			}
		}
		if n.Position != "" {
			if _, err := notePositionNormalizer.NormalizeWithError(n.Position); err != nil {
				return errs.ValidationFailed(field+".note.position", fmt.Sprintf("unknown note position %q", n.Position))
			}
		}
		if n.Shape != "" {
			if _, err := noteShapeNormalizer.NormalizeWithError(n.Shape); err != nil {
				return errs.ValidationFailed(field+".note.shape", fmt.Sprintf("unknown note shape %q", n.Shape))
			}
		}
	case step.Autonumber != nil:
		a := step.Autonumber
		if a.Stop && a.Resume {
			return errs.ValidationFailed(field+".autonumber", "stop and resume are mutually exclusive")
		}
		if (a.Stop || a.Resume) && (a.Start != nil || a.Format != "") {
			return errs.ValidationFailed(field+".autonumber", "stop/resume take no start or format")
		}
		if a.Increment != nil && a.Start == nil && !a.Resume {
			return errs.ValidationFailed(field+".autonumber.increment", "increment requires start")
		}
	case step.Box != nil:
		return sv.validateSteps(step.Box.Steps, field+".box.steps")
	case step.Group != nil:
		g := step.Group
		if g.Kind != "" {
			if _, err := groupKindNormalizer.NormalizeWithError(g.Kind); err != nil {
				return errs.ValidationFailed(field+".group.kind", fmt.Sprintf("unknown group kind %q", g.Kind))
			}
		}
		if err := sv.validateSteps(g.Steps, field+".group.steps"); err != nil {
			return err
		}
		for i, branch := range g.Else {
			branchField := fmt.Sprintf("%s.group.else[%d]", field, i)
			if g.Kind == "break" {
				return errs.ValidationFailed(branchField, "break groups cannot have else branches")
			}
			if err := sv.validateSteps(branch.Steps, branchField+".steps"); err != nil {
				return err
			}
		}
	}
	return nil
}

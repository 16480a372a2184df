package scenario

import (
	"errors"
	"fmt"
	"io"

	"git.home.luguber.info/inful/seqdiag/internal/diagram"
	errs "git.home.luguber.info/inful/seqdiag/internal/errors"
)

// Render drives a diagram.Builder from the scenario and writes the complete
// document to w. The closing marker is guaranteed even when a step fails;
// the returned error carries the step path of the violation.
func Render(s *Scenario, w io.Writer) error {
	d := diagram.New(w, diagramOptions(s.Diagram)...)
	err := d.Build(func(b *diagram.Builder) error {
		if s.Diagram.DefaultArrow != "" {
			b.SetArrowStyle(s.Diagram.DefaultArrow)
			if err := b.Err(); err != nil {
				return errs.Wrap(err, errs.CategoryRender, errs.SeverityFatal, "invalid default arrow style").
					WithContext("field", "diagram.default_arrow")
			}
		}
		for i, p := range s.Participants {
			declareParticipant(b, p)
			if err := b.Err(); err != nil {
				return renderError(err, fmt.Sprintf("participants[%d]", i))
			}
		}
		return renderSteps(b, s.Steps, "steps")
	})
	if err == nil {
		return nil
	}
	var se *errs.SeqDiagError
	if errors.As(err, &se) {
		return se
	}
	return errs.RenderFailed(err)
}

func renderError(err error, step string) error {
	return errs.RenderFailed(err).WithContext("step", step)
}

func diagramOptions(o Options) []diagram.Option {
	opts := []diagram.Option{diagram.WithAutoDeclare(o.autoDeclare())}
	if o.Title != "" {
		opts = append(opts, diagram.WithTitle(o.Title))
	}
	if o.ID != "" {
		opts = append(opts, diagram.WithID(o.ID))
	}
	if o.HideFootboxes {
		opts = append(opts, diagram.WithHideFootboxes())
	}
	if o.HideUnlinked {
		opts = append(opts, diagram.WithHideUnlinked())
	}
	if o.Teoz {
		opts = append(opts, diagram.WithTeozRendering())
	}
	if o.StrictRedeclare {
		opts = append(opts, diagram.WithStrictRedeclare())
	}
	return opts
}

func declareParticipant(b *diagram.Builder, p ParticipantDecl) {
	shape := shapeNormalizer.Normalize(p.Shape)
	var opts []diagram.ParticipantOption
	if p.Alias != "" {
		opts = append(opts, diagram.WithAlias(p.Alias))
	}
	if p.Color != "" {
		opts = append(opts, diagram.WithColor(p.Color))
	}
	b.Declare(p.Name, shape, opts...)
}

func renderSteps(b *diagram.Builder, steps []Step, path string) error {
	for i, step := range steps {
		field := fmt.Sprintf("%s[%d]", path, i)
		if err := renderStep(b, step, field); err != nil {
			return err
		}
		if err := b.Err(); err != nil {
			return renderError(err, field)
		}
	}
	return nil
}

func renderStep(b *diagram.Builder, step Step, field string) error {
	switch {
	case step.Message != nil:
		m := step.Message
		var opts []diagram.MessageOption
		if m.Arrow != "" {
			opts = append(opts, diagram.WithArrow(m.Arrow))
		}
		if m.Note != nil {
			note := diagram.MessageNote{
				Text:  m.Note.Text,
				Shape: noteShapeNormalizer.Normalize(m.Note.Shape),
				Color: m.Note.Color,
			}
			// An omitted position keeps the builder default (right); the
			// normalizer default is over, which message notes reject.
			if m.Note.Position != "" {
				note.Position = notePositionNormalizer.Normalize(m.Note.Position)
			}
			opts = append(opts, diagram.WithMessageNote(note))
		}
		b.Message(m.From, m.To, m.Text, opts...)
	case step.Activate != nil:
		var opts []diagram.LifelineOption
		if step.Activate.Color != "" {
			opts = append(opts, diagram.WithLifelineColor(step.Activate.Color))
		}
		b.Activate(step.Activate.Participant, opts...)
	case step.Deactivate != "":
		b.Deactivate(step.Deactivate)
	case step.Destroy != "":
		b.Destroy(step.Destroy)
	case step.Note != nil:
		renderNote(b, step.Note)
	case step.Divider != nil:
		b.Divider(*step.Divider)
	case step.Delay != nil:
		b.Delay(*step.Delay)
	case step.Space != nil:
		b.Space(*step.Space)
	case step.NewPage != nil:
		b.NewPage(*step.NewPage)
	case step.Blank:
		b.BlankLine()
	case step.Autonumber != nil:
		renderAutonumber(b, step.Autonumber)
	case step.Box != nil:
		box := b.Box(step.Box.Title, step.Box.Color)
		if err := renderSteps(b, step.Box.Steps, field+".box.steps"); err != nil {
			return err
		}
		if err := box.End(); err != nil {
			return renderError(err, field)
		}
	case step.Group != nil:
		g := step.Group
		group := b.Group(groupKindNormalizer.Normalize(g.Kind), g.Label)
		if err := renderSteps(b, g.Steps, field+".group.steps"); err != nil {
			return err
		}
		for i, branch := range g.Else {
			branchField := fmt.Sprintf("%s.group.else[%d]", field, i)
			group.Else(branch.Label)
			if err := renderSteps(b, branch.Steps, branchField+".steps"); err != nil {
				return err
			}
		}
		if err := group.End(); err != nil {
			return renderError(err, field)
		}
	}
	return nil
}

func renderNote(b *diagram.Builder, n *NoteStep) {
	var opts []diagram.NoteOption
	if n.Shape != "" {
		opts = append(opts, diagram.WithNoteShape(noteShapeNormalizer.Normalize(n.Shape)))
	}
	if n.Color != "" {
		opts = append(opts, diagram.WithNoteColor(n.Color))
	}
	if n.Across {
		b.NoteAcross(n.Text, opts...)
		return
	}
	participants := n.Participants
	if n.Participant != "" {
		participants = []string{n.Participant}
	}
	b.Note(notePositionNormalizer.Normalize(n.Position), participants, n.Text, opts...)
}

func renderAutonumber(b *diagram.Builder, a *AutonumberStep) {
	switch {
	case a.Stop:
		b.AutonumberStop()
	case a.Resume:
		increment := 0
		if a.Increment != nil {
			increment = *a.Increment
		}
		b.AutonumberResume(increment)
	default:
		var opts []diagram.AutonumberOption
		if a.Start != nil {
			opts = append(opts, diagram.WithStart(*a.Start))
		}
		if a.Increment != nil {
			opts = append(opts, diagram.WithIncrement(*a.Increment))
		}
		if a.Format != "" {
			opts = append(opts, diagram.WithFormat(a.Format))
		}
		b.Autonumber(opts...)
	}
}

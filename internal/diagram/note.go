package diagram

import (
	"strings"
)

// NotePosition anchors a note relative to a lifeline.
type NotePosition string

const (
	PositionLeft  NotePosition = "left"
	PositionRight NotePosition = "right"
	PositionOver  NotePosition = "over"
)

// NoteShape selects the note rendering command.
type NoteShape string

const (
	NoteDefault   NoteShape = "default"
	NoteRectangle NoteShape = "rectangle"
	NoteHexagon   NoteShape = "hexagon"
)

var noteShapeCommands = map[NoteShape]string{
	NoteDefault:   "note",
	NoteRectangle: "rnote",
	NoteHexagon:   "hnote",
}

func noteCommand(shape NoteShape) (string, error) {
	if shape == "" {
		shape = NoteDefault
	}
	cmd, ok := noteShapeCommands[shape]
	if !ok {
		return "", &InvalidArgumentError{Field: "note shape", Value: string(shape)}
	}
	return cmd, nil
}

type noteSpec struct {
	shape NoteShape
	color string
}

// NoteOption customizes a note.
type NoteOption func(*noteSpec)

// WithNoteShape selects the note shape (default, rectangle or hexagon).
func WithNoteShape(shape NoteShape) NoteOption {
	return func(n *noteSpec) { n.shape = shape }
}

// WithNoteColor sets the note background color.
func WithNoteColor(color string) NoteOption {
	return func(n *noteSpec) { n.color = strings.TrimPrefix(color, "#") }
}

// NoteLeftOf places a note left of a participant's lifeline.
func (b *Builder) NoteLeftOf(participant, text string, opts ...NoteOption) *Builder {
	return b.note(PositionLeft, []string{participant}, text, opts)
}

// NoteRightOf places a note right of a participant's lifeline.
func (b *Builder) NoteRightOf(participant, text string, opts ...NoteOption) *Builder {
	return b.note(PositionRight, []string{participant}, text, opts)
}

// NoteOver places a note over one or more participants.
func (b *Builder) NoteOver(participants []string, text string, opts ...NoteOption) *Builder {
	return b.note(PositionOver, participants, text, opts)
}

// Note places a note at an explicit position. Only PositionOver accepts more
// than one participant.
func (b *Builder) Note(position NotePosition, participants []string, text string, opts ...NoteOption) *Builder {
	return b.note(position, participants, text, opts)
}

func (b *Builder) note(position NotePosition, participants []string, text string, opts []NoteOption) *Builder {
	if b.inert() {
		return b
	}
	var spec noteSpec
	for _, opt := range opts {
		opt(&spec)
	}
	cmd, err := noteCommand(spec.shape)
	if err != nil {
		return b.fail(err)
	}
	var positionCmd string
	switch position {
	case PositionOver:
		positionCmd = "over"
	case PositionLeft, PositionRight:
		if len(participants) > 1 {
			return b.fail(&InvalidArgumentError{
				Field:  "note position",
				Value:  string(position),
				Reason: "cannot anchor a note " + string(position) + " of multiple participants",
			})
		}
		positionCmd = string(position) + " of"
	default:
		return b.fail(&InvalidArgumentError{Field: "note position", Value: string(position)})
	}
	if len(participants) == 0 {
		return b.fail(&InvalidArgumentError{Field: "note participants", Value: "", Reason: "at least one participant required"})
	}
	refs := make([]string, 0, len(participants))
	for _, p := range participants {
		if _, ok := b.participants[p]; !ok && !b.autoDeclare {
			return b.fail(&UnknownParticipantError{Name: p, Operation: "note"})
		}
	}
	for _, p := range participants {
		ref, err := b.resolveRef(p, "note")
		if err != nil {
			return b.fail(err)
		}
		refs = append(refs, ref)
	}
	b.lw.writeLine(cmd + " " + positionCmd + " " + strings.Join(refs, ", ") + colorSuffix(spec.color) + ": " + escapeNewlines(text))
	return b
}

// NoteAcross places a note spanning all participants.
func (b *Builder) NoteAcross(text string, opts ...NoteOption) *Builder {
	if b.inert() {
		return b
	}
	var spec noteSpec
	for _, opt := range opts {
		opt(&spec)
	}
	cmd, err := noteCommand(spec.shape)
	if err != nil {
		return b.fail(err)
	}
	b.lw.writeLine(cmd + " across" + colorSuffix(spec.color) + ": " + escapeNewlines(text))
	return b
}

// Package scenario loads declarative YAML scenario files and renders them
// into PlantUML sequence diagrams via internal/diagram. A scenario is the
// tool-facing input format: diagram options, up-front participant
// declarations and an ordered list of steps, where nested steps express
// boxes and groups.
package scenario

import (
	"git.home.luguber.info/inful/seqdiag/internal/diagram"
	"git.home.luguber.info/inful/seqdiag/internal/foundation"
)

// Scenario is the root of a scenario file.
type Scenario struct {
	Diagram      Options           `yaml:"diagram"`
	Participants []ParticipantDecl `yaml:"participants"`
	Steps        []Step            `yaml:"steps"`
}

// Options configures the generated document's framing and builder behavior.
type Options struct {
	Title         string `yaml:"title"`
	ID            string `yaml:"id"`
	HideFootboxes bool   `yaml:"hide_footboxes"`
	HideUnlinked  bool   `yaml:"hide_unlinked"`
	Teoz          bool   `yaml:"teoz"`
	// AutoDeclare defaults to true when omitted.
	AutoDeclare     *bool  `yaml:"auto_declare"`
	StrictRedeclare bool   `yaml:"strict_redeclare"`
	DefaultArrow    string `yaml:"default_arrow"`
}

// ParticipantDecl declares one participant up front.
type ParticipantDecl struct {
	Name  string `yaml:"name"`
	Shape string `yaml:"shape"`
	Alias string `yaml:"alias"`
	Color string `yaml:"color"`
}

// Step is one diagram operation. Exactly one action field must be set.
type Step struct {
	Message    *MessageStep    `yaml:"message,omitempty"`
	Activate   *ActivateStep   `yaml:"activate,omitempty"`
	Deactivate string          `yaml:"deactivate,omitempty"`
	Destroy    string          `yaml:"destroy,omitempty"`
	Note       *NoteStep       `yaml:"note,omitempty"`
	Divider    *string         `yaml:"divider,omitempty"`
	Delay      *string         `yaml:"delay,omitempty"`
	Space      *int            `yaml:"space,omitempty"`
	NewPage    *string         `yaml:"newpage,omitempty"`
	Blank      bool            `yaml:"blank,omitempty"`
	Autonumber *AutonumberStep `yaml:"autonumber,omitempty"`
	Box        *BoxStep        `yaml:"box,omitempty"`
	Group      *GroupStep      `yaml:"group,omitempty"`
}

// MessageStep emits one message line.
type MessageStep struct {
	From  string           `yaml:"from"`
	To    string           `yaml:"to"`
	Text  string           `yaml:"text"`
	Arrow string           `yaml:"arrow"`
	Note  *MessageNoteStep `yaml:"note,omitempty"`
}

// MessageNoteStep attaches a note to a message.
type MessageNoteStep struct {
	Text     string `yaml:"text"`
	Position string `yaml:"position"` // left or right; defaults to right
	Shape    string `yaml:"shape"`
	Color    string `yaml:"color"`
}

// ActivateStep activates a lifeline.
type ActivateStep struct {
	Participant string `yaml:"participant"`
	Color       string `yaml:"color"`
}

// NoteStep places a standalone note.
type NoteStep struct {
	Text         string   `yaml:"text"`
	Position     string   `yaml:"position"` // left, right or over; defaults to over
	Participant  string   `yaml:"participant"`
	Participants []string `yaml:"participants"`
	Shape        string   `yaml:"shape"`
	Color        string   `yaml:"color"`
	Across       bool     `yaml:"across"`
}

// AutonumberStep controls message numbering.
type AutonumberStep struct {
	Start     *int   `yaml:"start"`
	Increment *int   `yaml:"increment"`
	Format    string `yaml:"format"`
	Stop      bool   `yaml:"stop"`
	Resume    bool   `yaml:"resume"`
}

// BoxStep draws a box around the participants declared in its steps.
type BoxStep struct {
	Title string `yaml:"title"`
	Color string `yaml:"color"`
	Steps []Step `yaml:"steps"`
}

// GroupStep wraps steps in a grouping construct, with optional else branches.
type GroupStep struct {
	Kind  string       `yaml:"kind"`
	Label string       `yaml:"label"`
	Steps []Step       `yaml:"steps"`
	Else  []ElseBranch `yaml:"else,omitempty"`
}

// ElseBranch is one alternative section of a group.
type ElseBranch struct {
	Label string `yaml:"label"`
	Steps []Step `yaml:"steps"`
}

var shapeNormalizer = foundation.NewNormalizer(map[string]diagram.Shape{
	"participant": diagram.ShapeParticipant,
	"actor":       diagram.ShapeActor,
	"boundary":    diagram.ShapeBoundary,
	"control":     diagram.ShapeControl,
	"entity":      diagram.ShapeEntity,
	"database":    diagram.ShapeDatabase,
	"collections": diagram.ShapeCollections,
	"queue":       diagram.ShapeQueue,
}, diagram.ShapeParticipant)

var noteShapeNormalizer = foundation.NewNormalizer(map[string]diagram.NoteShape{
	"default":   diagram.NoteDefault,
	"note":      diagram.NoteDefault,
	"rectangle": diagram.NoteRectangle,
	"rnote":     diagram.NoteRectangle,
	"hexagon":   diagram.NoteHexagon,
	"hnote":     diagram.NoteHexagon,
}, diagram.NoteDefault)

var notePositionNormalizer = foundation.NewNormalizer(map[string]diagram.NotePosition{
	"left":  diagram.PositionLeft,
	"right": diagram.PositionRight,
	"over":  diagram.PositionOver,
}, diagram.PositionOver)

var groupKindNormalizer = foundation.NewNormalizer(map[string]diagram.GroupKind{
	"alt":      diagram.GroupAlt,
	"opt":      diagram.GroupOpt,
	"loop":     diagram.GroupLoop,
	"par":      diagram.GroupPar,
	"break":    diagram.GroupBreak,
	"critical": diagram.GroupCritical,
	"group":    diagram.GroupGeneric,
}, diagram.GroupGeneric)

// autoDeclare resolves the optional auto_declare flag.
func (o Options) autoDeclare() bool {
	if o.AutoDeclare == nil {
		return true
	}
	return *o.AutoDeclare
}

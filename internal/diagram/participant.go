package diagram

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Shape selects the PlantUML declaration keyword for a participant.
type Shape string

const (
	ShapeParticipant Shape = "participant"
	ShapeActor       Shape = "actor"
	ShapeBoundary    Shape = "boundary"
	ShapeControl     Shape = "control"
	ShapeEntity      Shape = "entity"
	ShapeDatabase    Shape = "database"
	ShapeCollections Shape = "collections"
	ShapeQueue       Shape = "queue"
)

var validShapes = map[Shape]struct{}{
	ShapeParticipant: {},
	ShapeActor:       {},
	ShapeBoundary:    {},
	ShapeControl:     {},
	ShapeEntity:      {},
	ShapeDatabase:    {},
	ShapeCollections: {},
	ShapeQueue:       {},
}

// Participant is a named lifeline in the diagram. Instances are value
// objects: once declared they are never mutated, and the builder keeps them
// only to detect conflicting re-declarations.
type Participant struct {
	Title string
	Alias string
	Shape Shape
	Color string
}

// declaration renders the participant's declaration line, e.g.
//
//	actor "Bob Smith" as Bob #red
//
// The alias suffix is omitted when the alias equals the title.
func (p Participant) declaration() string {
	var sb strings.Builder
	sb.WriteString(string(p.Shape))
	sb.WriteByte(' ')
	sb.WriteString(maybeQuote(escapeNewlines(p.Title)))
	if p.Alias != p.Title {
		sb.WriteString(" as ")
		sb.WriteString(p.Alias)
	}
	sb.WriteString(colorSuffix(p.Color))
	return sb.String()
}

// ParticipantOption customizes a participant declaration.
type ParticipantOption func(*Participant)

// WithAlias sets an explicit alias used to reference the participant in
// later operations.
func WithAlias(alias string) ParticipantOption {
	return func(p *Participant) { p.Alias = alias }
}

// WithColor sets the background color of the participant. A leading '#' is
// optional.
func WithColor(color string) ParticipantOption {
	return func(p *Participant) { p.Color = strings.TrimPrefix(color, "#") }
}

// deriveAlias builds a reference-safe alias from a title: the title is
// NFKD-decomposed so accented letters fold to their base letter, combining
// marks are dropped, and everything non-alphanumeric is removed.
func deriveAlias(title string) string {
	var sb strings.Builder
	for _, r := range norm.NFKD.String(title) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// maybeQuote wraps a value in double quotes unless it is empty or purely
// alphanumeric. PlantUML requires quoting for names containing spaces or
// punctuation.
func maybeQuote(value string) string {
	if value == "" || isAlphanumeric(value) {
		return value
	}
	return `"` + value + `"`
}

func isAlphanumeric(value string) bool {
	for _, r := range value {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// escapeNewlines turns literal newlines into the \n escape PlantUML expects
// inside single-line statements.
func escapeNewlines(value string) string {
	return strings.ReplaceAll(value, "\n", `\n`)
}

// colorSuffix renders " #<color>" or nothing for the empty color.
func colorSuffix(color string) string {
	if color == "" {
		return ""
	}
	return " #" + strings.TrimPrefix(color, "#")
}

package diagram

import (
	"fmt"
	"strconv"
	"strings"
)

// Builder is the diagram-building state machine. It tracks the declared
// participants, the per-lifeline activation counts and the stack of open
// scopes, validates every operation against that state and appends the
// corresponding PlantUML line(s) to the sink.
//
// All operations return the builder for chaining and record the first
// validation failure instead of returning it: once an error is recorded the
// builder is inert and every later operation is a no-op. Inspect the error
// with Err, or rely on Diagram.Build/End which return it.
//
// Operations are atomic: state is only mutated and lines are only written
// after all preconditions passed (validate-then-emit, never the reverse).
type Builder struct {
	lw           *lineWriter
	participants map[string]Participant
	lazy         map[string]bool // aliases created by reference, not declaration
	activations  map[string]int
	scopes       []*Scope
	arrowStyle   string

	autoDeclare     bool
	strictRedeclare bool

	err error
}

func newBuilder(lw *lineWriter, autoDeclare, strictRedeclare bool) *Builder {
	return &Builder{
		lw:              lw,
		participants:    make(map[string]Participant),
		lazy:            make(map[string]bool),
		activations:     make(map[string]int),
		arrowStyle:      DefaultArrowStyle,
		autoDeclare:     autoDeclare,
		strictRedeclare: strictRedeclare,
	}
}

// Err returns the first recorded validation or sink error, if any.
func (b *Builder) Err() error {
	if b.err != nil {
		return b.err
	}
	return b.lw.err
}

// fail records the first error and leaves the builder inert.
func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) inert() bool {
	return b.err != nil || b.lw.err != nil
}

// Lookup returns the participant registered under alias.
func (b *Builder) Lookup(alias string) (Participant, bool) {
	p, ok := b.participants[alias]
	return p, ok
}

// OpenScopes lists the currently open scopes, outermost first.
func (b *Builder) OpenScopes() []string {
	names := make([]string, len(b.scopes))
	for i, s := range b.scopes {
		names[i] = s.describe()
	}
	return names
}

// ActivationCount returns the number of open activations for a participant
// reference.
func (b *Builder) ActivationCount(participant string) int {
	return b.activations[refKey(participant)]
}

// Participant declarations. Each shape variant declares a participant with
// the given title; the alias defaults to the alphanumeric fold of the title.
// Re-declaring an identical participant is a silent no-op; conflicting
// attributes fail with *DuplicateParticipantError. With strict re-declare
// enabled any repeated declaration fails.

func (b *Builder) DeclareParticipant(title string, opts ...ParticipantOption) *Builder {
	return b.declare(title, ShapeParticipant, opts)
}

func (b *Builder) DeclareActor(title string, opts ...ParticipantOption) *Builder {
	return b.declare(title, ShapeActor, opts)
}

func (b *Builder) DeclareBoundary(title string, opts ...ParticipantOption) *Builder {
	return b.declare(title, ShapeBoundary, opts)
}

func (b *Builder) DeclareControl(title string, opts ...ParticipantOption) *Builder {
	return b.declare(title, ShapeControl, opts)
}

func (b *Builder) DeclareEntity(title string, opts ...ParticipantOption) *Builder {
	return b.declare(title, ShapeEntity, opts)
}

func (b *Builder) DeclareDatabase(title string, opts ...ParticipantOption) *Builder {
	return b.declare(title, ShapeDatabase, opts)
}

func (b *Builder) DeclareCollections(title string, opts ...ParticipantOption) *Builder {
	return b.declare(title, ShapeCollections, opts)
}

func (b *Builder) DeclareQueue(title string, opts ...ParticipantOption) *Builder {
	return b.declare(title, ShapeQueue, opts)
}

// Declare registers a participant with an explicit shape.
func (b *Builder) Declare(title string, shape Shape, opts ...ParticipantOption) *Builder {
	if _, ok := validShapes[shape]; !ok {
		if b.inert() {
			return b
		}
		return b.fail(&InvalidArgumentError{Field: "participant shape", Value: string(shape)})
	}
	return b.declare(title, shape, opts)
}

func (b *Builder) declare(title string, shape Shape, opts []ParticipantOption) *Builder {
	if b.inert() {
		return b
	}
	p := Participant{Title: title, Shape: shape}
	for _, opt := range opts {
		opt(&p)
	}
	if p.Alias == "" {
		p.Alias = deriveAlias(p.Title)
	}
	if existing, ok := b.participants[p.Alias]; ok && !b.lazy[p.Alias] {
		if b.strictRedeclare || existing != p {
			return b.fail(&DuplicateParticipantError{Alias: p.Alias})
		}
		return b // identical re-declaration, nothing new to say
	}
	// A lazily created participant may be upgraded by one explicit
	// declaration; lazy creation is a reference, not a declaration.
	delete(b.lazy, p.Alias)
	b.participants[p.Alias] = p
	b.lw.writeLine(p.declaration())
	return b
}

// refKey normalizes a participant reference to its registration key.
func refKey(name string) string {
	return name
}

// resolveRef maps a participant reference to the text used on the emitted
// line. Known aliases are used verbatim; unknown names are lazily registered
// when auto-declaration is enabled, otherwise the operation fails. The empty
// name stays empty (lost/found message endpoints).
func (b *Builder) resolveRef(name, operation string) (string, error) {
	if name == "" {
		return "", nil
	}
	if _, ok := b.participants[name]; ok {
		return maybeQuote(escapeNewlines(name)), nil
	}
	if !b.autoDeclare {
		return "", &UnknownParticipantError{Name: name, Operation: operation}
	}
	b.participants[name] = Participant{Title: name, Alias: name, Shape: ShapeParticipant}
	b.lazy[name] = true
	return maybeQuote(escapeNewlines(name)), nil
}

// messageSpec collects message options before emission.
type messageSpec struct {
	arrowStyle string
	note       *MessageNote
}

// MessageNote is a note attached to a message, rendered on the line directly
// after it.
type MessageNote struct {
	Text     string
	Position NotePosition // PositionLeft or PositionRight; defaults to right
	Shape    NoteShape
	Color    string
}

// MessageOption customizes a single message.
type MessageOption func(*messageSpec)

// WithArrow overrides the arrow style for this message only.
func WithArrow(style string) MessageOption {
	return func(m *messageSpec) { m.arrowStyle = style }
}

// WithMessageNote attaches a note to the message.
func WithMessageNote(note MessageNote) MessageOption {
	return func(m *messageSpec) { m.note = &note }
}

// Message emits a message line between two participants, e.g.
//
//	Alice -> Bob: Authentication Request
//
// Unknown endpoints are lazily registered when auto-declaration is enabled;
// an empty endpoint renders as a lost/found message side.
func (b *Builder) Message(from, to, text string, opts ...MessageOption) *Builder {
	if b.inert() {
		return b
	}
	spec := messageSpec{arrowStyle: b.arrowStyle}
	for _, opt := range opts {
		opt(&spec)
	}
	if err := validateArrowStyle(spec.arrowStyle); err != nil {
		return b.fail(err)
	}
	var noteLine string
	if spec.note != nil {
		line, err := renderMessageNote(*spec.note)
		if err != nil {
			return b.fail(err)
		}
		noteLine = line
	}
	left, err := b.resolveRef(from, "message")
	if err != nil {
		return b.fail(err)
	}
	right, err := b.resolveRef(to, "message")
	if err != nil {
		return b.fail(err)
	}
	suffix := ""
	if text != "" {
		suffix = ": " + escapeNewlines(text)
	}
	b.lw.writeLine(fmt.Sprintf("%s %s %s%s", left, spec.arrowStyle, right, suffix))
	if noteLine != "" {
		b.lw.writeLine(noteLine)
	}
	return b
}

func renderMessageNote(note MessageNote) (string, error) {
	pos := note.Position
	if pos == "" {
		pos = PositionRight
	}
	if pos != PositionLeft && pos != PositionRight {
		return "", &InvalidArgumentError{Field: "message note position", Value: string(pos)}
	}
	cmd, err := noteCommand(note.Shape)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s%s: %s", cmd, pos, colorSuffix(note.Color), escapeNewlines(note.Text)), nil
}

// SetArrowStyle validates and installs a new default arrow style, returning
// the previous one.
func (b *Builder) SetArrowStyle(style string) (previous string) {
	previous = b.arrowStyle
	if b.inert() {
		return previous
	}
	if err := validateArrowStyle(style); err != nil {
		b.fail(err)
		return previous
	}
	b.arrowStyle = style
	return previous
}

// WithArrowStyle runs fn with a temporary default arrow style and restores
// the previous style afterwards.
func (b *Builder) WithArrowStyle(style string, fn func(*Builder)) *Builder {
	if b.inert() {
		return b
	}
	if err := validateArrowStyle(style); err != nil {
		return b.fail(err)
	}
	previous := b.arrowStyle
	b.arrowStyle = style
	defer func() { b.arrowStyle = previous }()
	fn(b)
	return b
}

// LifelineOption customizes an activation.
type LifelineOption func(*lifelineSpec)

type lifelineSpec struct {
	color   string
	destroy bool
}

// WithLifelineColor colors the activated lifeline segment.
func WithLifelineColor(color string) LifelineOption {
	return func(l *lifelineSpec) { l.color = strings.TrimPrefix(color, "#") }
}

// WithDestroyOnEnd makes a scoped activation terminate the lifeline with
// destroy instead of deactivate when the scope ends.
func WithDestroyOnEnd() LifelineOption {
	return func(l *lifelineSpec) { l.destroy = true }
}

// Activate opens an activation on the participant's lifeline.
func (b *Builder) Activate(participant string, opts ...LifelineOption) *Builder {
	if b.inert() {
		return b
	}
	_, err := b.activate(participant, opts)
	if err != nil {
		return b.fail(err)
	}
	return b
}

func (b *Builder) activate(participant string, opts []LifelineOption) (lifelineSpec, error) {
	var spec lifelineSpec
	for _, opt := range opts {
		opt(&spec)
	}
	ref, err := b.resolveRef(participant, "activate")
	if err != nil {
		return spec, err
	}
	b.activations[refKey(participant)]++
	b.lw.writeLine("activate " + ref + colorSuffix(spec.color))
	return spec, nil
}

// Deactivate closes the innermost activation of the participant's lifeline.
// Deactivating a lifeline with no open activation fails with
// *NotActivatedError and emits nothing.
func (b *Builder) Deactivate(participant string) *Builder {
	if b.inert() {
		return b
	}
	if err := b.deactivate(participant); err != nil {
		return b.fail(err)
	}
	return b
}

func (b *Builder) deactivate(participant string) error {
	// Checked before resolving so that a failing deactivation cannot lazily
	// register the participant as a side effect.
	if _, ok := b.participants[participant]; !ok && !b.autoDeclare {
		return &UnknownParticipantError{Name: participant, Operation: "deactivate"}
	}
	key := refKey(participant)
	if b.activations[key] == 0 {
		return &NotActivatedError{Participant: participant}
	}
	b.activations[key]--
	b.lw.writeLine("deactivate " + maybeQuote(escapeNewlines(participant)))
	return nil
}

// Destroy terminates the participant's lifeline. A destroyed lifeline has no
// open activations left, so its activation count is reset.
func (b *Builder) Destroy(participant string) *Builder {
	if b.inert() {
		return b
	}
	if err := b.destroy(participant); err != nil {
		return b.fail(err)
	}
	return b
}

func (b *Builder) destroy(participant string) error {
	ref, err := b.resolveRef(participant, "destroy")
	if err != nil {
		return err
	}
	b.activations[refKey(participant)] = 0
	b.lw.writeLine("destroy " + ref)
	return nil
}

// Divider inserts a separator dividing the diagram into logical steps.
func (b *Builder) Divider(text string) *Builder {
	if b.inert() {
		return b
	}
	if text == "" {
		b.lw.writeLine("====")
		return b
	}
	b.lw.writeLine("== " + escapeNewlines(text) + " ==")
	return b
}

// Delay indicates a passage of time on all lifelines.
func (b *Builder) Delay(text string) *Builder {
	if b.inert() {
		return b
	}
	if text == "" {
		b.lw.writeLine("...")
		return b
	}
	b.lw.writeLine("..." + escapeNewlines(text) + "...")
	return b
}

// Space inserts vertical spacing; pixels <= 0 means the default spacing.
func (b *Builder) Space(pixels int) *Builder {
	if b.inert() {
		return b
	}
	if pixels <= 0 {
		b.lw.writeLine("|||")
		return b
	}
	b.lw.writeLine("||" + strconv.Itoa(pixels) + "||")
	return b
}

// BlankLine writes an empty line; purely cosmetic in the generated text.
func (b *Builder) BlankLine() *Builder {
	if b.inert() {
		return b
	}
	b.lw.writeLine("")
	return b
}

// NewPage splits the diagram into multiple pages.
func (b *Builder) NewPage(title string) *Builder {
	if b.inert() {
		return b
	}
	line := "newpage"
	if title != "" {
		line += " " + escapeNewlines(title)
	}
	b.lw.writeLine(line)
	return b
}

// autonumberSpec collects autonumber options.
type autonumberSpec struct {
	start     *int
	increment *int
	format    string
}

// AutonumberOption customizes the autonumber directive.
type AutonumberOption func(*autonumberSpec)

// WithStart sets the initial message number.
func WithStart(start int) AutonumberOption {
	return func(a *autonumberSpec) { a.start = &start }
}

// WithIncrement sets the per-message increment; requires WithStart.
func WithIncrement(increment int) AutonumberOption {
	return func(a *autonumberSpec) { a.increment = &increment }
}

// WithFormat sets the number format string, e.g. "<b>[000]".
func WithFormat(format string) AutonumberOption {
	return func(a *autonumberSpec) { a.format = format }
}

// Autonumber enables message numbering. The directive is emitted verbatim;
// numbering continuation is left to the PlantUML renderer.
func (b *Builder) Autonumber(opts ...AutonumberOption) *Builder {
	if b.inert() {
		return b
	}
	var spec autonumberSpec
	for _, opt := range opts {
		opt(&spec)
	}
	if spec.increment != nil && spec.start == nil {
		return b.fail(&InvalidArgumentError{
			Field:  "autonumber increment",
			Value:  strconv.Itoa(*spec.increment),
			Reason: "cannot set increment without start",
		})
	}
	line := "autonumber"
	if spec.start != nil {
		line += " " + strconv.Itoa(*spec.start)
		if spec.increment != nil {
			line += " " + strconv.Itoa(*spec.increment)
		}
	}
	if spec.format != "" {
		line += ` "` + spec.format + `"`
	}
	b.lw.writeLine(line)
	return b
}

// AutonumberStop suspends message numbering.
func (b *Builder) AutonumberStop() *Builder {
	if b.inert() {
		return b
	}
	b.lw.writeLine("autonumber stop")
	return b
}

// AutonumberResume resumes suspended numbering; increment <= 0 keeps the
// previous increment.
func (b *Builder) AutonumberResume(increment int) *Builder {
	if b.inert() {
		return b
	}
	line := "autonumber resume"
	if increment > 0 {
		line += " " + strconv.Itoa(increment)
	}
	b.lw.writeLine(line)
	return b
}

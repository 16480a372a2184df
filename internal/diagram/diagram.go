// Package diagram generates PlantUML sequence-diagram markup through a
// fluent builder. A Diagram owns the @startuml/@enduml framing and hands out
// a Builder that serializes each operation to one or more lines on a
// caller-supplied sink, validating ordering rules (declared participants,
// activation counts, LIFO scopes) before anything is written.
package diagram

import (
	"io"
)

// Diagram owns the framing markers of one generated document. The sink is
// supplied and closed by the caller; the diagram only guarantees that
// @enduml is written on every exit path of Build, including panics.
type Diagram struct {
	lw *lineWriter
	b  *Builder

	id            string
	title         string
	hideFootboxes bool
	hideUnlinked  bool
	teoz          bool

	autoDeclare     bool
	strictRedeclare bool

	started bool
	ended   bool
}

// Option configures a Diagram before Start.
type Option func(*Diagram)

// WithID adds an identifier to the @startuml line.
func WithID(id string) Option {
	return func(d *Diagram) { d.id = id }
}

// WithTitle emits a title line after the opening marker.
func WithTitle(title string) Option {
	return func(d *Diagram) { d.title = title }
}

// WithHideFootboxes hides the participant footboxes.
func WithHideFootboxes() Option {
	return func(d *Diagram) { d.hideFootboxes = true }
}

// WithHideUnlinked hides participants that never send or receive a message.
func WithHideUnlinked() Option {
	return func(d *Diagram) { d.hideUnlinked = true }
}

// WithTeozRendering selects the teoz rendering engine.
func WithTeozRendering() Option {
	return func(d *Diagram) { d.teoz = true }
}

// WithAutoDeclare controls lazy participant registration on first reference.
// Enabled by default; when disabled, operations referencing an undeclared
// participant fail with *UnknownParticipantError.
func WithAutoDeclare(enabled bool) Option {
	return func(d *Diagram) { d.autoDeclare = enabled }
}

// WithStrictRedeclare makes every repeated participant declaration fail,
// including byte-identical ones.
func WithStrictRedeclare() Option {
	return func(d *Diagram) { d.strictRedeclare = true }
}

// New creates a diagram writing to w. Nothing is written until Start or
// Build is called.
func New(w io.Writer, opts ...Option) *Diagram {
	d := &Diagram{
		lw:          newLineWriter(w),
		autoDeclare: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.b = newBuilder(d.lw, d.autoDeclare, d.strictRedeclare)
	return d
}

// Start writes the opening marker and header lines and returns the builder.
// Calling Start twice returns the same builder without re-emitting the
// header.
func (d *Diagram) Start() *Builder {
	if d.started {
		return d.b
	}
	d.started = true
	line := "@startuml"
	if d.id != "" {
		line += " " + d.id
	}
	d.lw.writeLine(line)
	if d.teoz {
		d.lw.writeLine("!pragma teoz true")
	}
	if d.hideFootboxes {
		d.lw.writeLine("hide footbox")
	}
	if d.hideUnlinked {
		d.lw.writeLine("hide unlinked")
	}
	if d.title != "" {
		d.lw.writeLine("title " + escapeNewlines(d.title))
	}
	return d.b
}

// End writes the closing marker. The marker is written exactly once and
// unconditionally, even when the builder carries an error or scopes are
// still open; in the latter case End reports *UnbalancedScopesError after
// terminating the document. Activations may legally remain open at close.
func (d *Diagram) End() error {
	if d.ended {
		return d.b.Err()
	}
	d.ended = true

	var unbalanced error
	if len(d.b.scopes) > 0 {
		unbalanced = &UnbalancedScopesError{Open: d.b.OpenScopes()}
	}
	// Bypass the builder's sticky error: the terminator must be written on
	// every path so the generated text stays syntactically closed.
	d.lw.writeLine("@enduml")

	if err := d.b.Err(); err != nil {
		return err
	}
	if unbalanced != nil {
		return unbalanced
	}
	return nil
}

// Build runs fn between Start and End. The closing marker is guaranteed on
// every exit path: normal return, error return and panic. The returned
// error is the first of: fn's error, the builder's recorded error, an
// unbalanced-scope report, or a sink write error.
func (d *Diagram) Build(fn func(*Builder) error) (err error) {
	b := d.Start()
	defer func() {
		endErr := d.End()
		if err == nil {
			err = endErr
		}
	}()
	if fnErr := fn(b); fnErr != nil {
		return fnErr
	}
	return b.Err()
}

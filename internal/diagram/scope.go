package diagram

// GroupKind selects the PlantUML grouping construct.
type GroupKind string

const (
	GroupAlt      GroupKind = "alt"
	GroupOpt      GroupKind = "opt"
	GroupLoop     GroupKind = "loop"
	GroupPar      GroupKind = "par"
	GroupBreak    GroupKind = "break"
	GroupCritical GroupKind = "critical"
	GroupGeneric  GroupKind = "group"
)

var validGroupKinds = map[GroupKind]struct{}{
	GroupAlt:      {},
	GroupOpt:      {},
	GroupLoop:     {},
	GroupPar:      {},
	GroupBreak:    {},
	GroupCritical: {},
	GroupGeneric:  {},
}

type scopeKind int

const (
	scopeBox scopeKind = iota
	scopeGroup
	scopeActivation
)

// Scope is the handle for an open structural scope (box, group or scoped
// activation). Scopes close in strict LIFO order: End fails with
// *ScopeMismatchError unless the scope is the innermost open one, and a
// failed End leaves the stack unchanged.
type Scope struct {
	b           *Builder
	kind        scopeKind
	groupKind   GroupKind
	participant string
	destroy     bool
	closed      bool
}

func (s *Scope) describe() string {
	switch s.kind {
	case scopeBox:
		return "box"
	case scopeGroup:
		return "group " + string(s.groupKind)
	default:
		return "activation of " + s.participant
	}
}

// Box opens a box around the participants declared inside it. Title and
// color may be empty.
func (b *Builder) Box(title, color string) *Scope {
	s := &Scope{b: b, kind: scopeBox}
	if b.inert() {
		s.closed = true
		return s
	}
	line := "box"
	if title != "" {
		line += ` "` + escapeNewlines(title) + `"`
	}
	line += colorSuffix(color)
	b.lw.writeLine(line)
	b.scopes = append(b.scopes, s)
	return s
}

// Group opens a grouped region (alt, opt, loop, par, break, critical or
// group). Label may be empty.
func (b *Builder) Group(kind GroupKind, label string) *Scope {
	s := &Scope{b: b, kind: scopeGroup, groupKind: kind}
	if b.inert() {
		s.closed = true
		return s
	}
	if _, ok := validGroupKinds[kind]; !ok {
		s.closed = true
		b.fail(&InvalidArgumentError{Field: "group kind", Value: string(kind)})
		return s
	}
	line := string(kind)
	if label != "" {
		line += " " + escapeNewlines(label)
	}
	b.lw.writeLine(line)
	b.scopes = append(b.scopes, s)
	return s
}

// Activated opens an activation as a scope: End deactivates the lifeline, or
// destroys it when WithDestroyOnEnd was given.
func (b *Builder) Activated(participant string, opts ...LifelineOption) *Scope {
	s := &Scope{b: b, kind: scopeActivation, participant: participant}
	if b.inert() {
		s.closed = true
		return s
	}
	spec, err := b.activate(participant, opts)
	if err != nil {
		s.closed = true
		b.fail(err)
		return s
	}
	s.destroy = spec.destroy
	b.scopes = append(b.scopes, s)
	return s
}

// Else starts an alternative section inside the group. Valid only while the
// group is the innermost open scope and its kind supports else sections
// (every kind except break).
func (s *Scope) Else(label string) *Scope {
	b := s.b
	if b.inert() {
		return s
	}
	if !s.isTop() {
		b.fail(&ScopeMismatchError{Closing: "else in " + s.describe(), Open: b.topScopeName()})
		return s
	}
	if s.kind != scopeGroup || s.groupKind == GroupBreak {
		b.fail(&InvalidArgumentError{
			Field:  "else",
			Value:  s.describe(),
			Reason: "else sections are only valid inside groups",
		})
		return s
	}
	line := "else"
	if label != "" {
		line += " " + escapeNewlines(label)
	}
	b.lw.writeLine(line)
	return s
}

// End closes the scope. The scope must be the innermost open one.
func (s *Scope) End() error {
	b := s.b
	if b.inert() {
		return b.Err()
	}
	if s.closed || !s.isTop() {
		err := &ScopeMismatchError{Closing: s.describe(), Open: b.topScopeName()}
		b.fail(err)
		return err
	}
	switch s.kind {
	case scopeBox:
		b.lw.writeLine("end box")
	case scopeGroup:
		b.lw.writeLine("end")
	case scopeActivation:
		if s.destroy {
			if err := b.destroy(s.participant); err != nil {
				b.fail(err)
				return err
			}
		} else {
			if err := b.deactivate(s.participant); err != nil {
				b.fail(err)
				return err
			}
		}
	}
	b.scopes = b.scopes[:len(b.scopes)-1]
	s.closed = true
	return b.Err()
}

// Builder returns the builder the scope belongs to, for chained emission
// inside the scope.
func (s *Scope) Builder() *Builder {
	return s.b
}

func (s *Scope) isTop() bool {
	return len(s.b.scopes) > 0 && s.b.scopes[len(s.b.scopes)-1] == s
}

func (b *Builder) topScopeName() string {
	if len(b.scopes) == 0 {
		return ""
	}
	return b.scopes[len(b.scopes)-1].describe()
}

package diagram

import (
	"fmt"
	"strings"
)

// The builder fails operations with one of the typed errors below. All of
// them are synchronous validation failures: the offending operation emits
// nothing and the builder records the first error, turning every later
// operation into a no-op (see Builder.Err).

// DuplicateParticipantError reports a participant declaration whose alias is
// already taken by a declaration with different attributes (or any
// re-declaration when strict re-declare is enabled).
type DuplicateParticipantError struct {
	Alias string
}

func (e *DuplicateParticipantError) Error() string {
	return fmt.Sprintf("participant with alias %q already declared", e.Alias)
}

// UnknownParticipantError reports an operation referencing a participant
// that was never declared while auto-declaration is disabled.
type UnknownParticipantError struct {
	Name      string
	Operation string
}

func (e *UnknownParticipantError) Error() string {
	return fmt.Sprintf("%s references unknown participant %q", e.Operation, e.Name)
}

// NotActivatedError reports a deactivation of a lifeline that has no open
// activation.
type NotActivatedError struct {
	Participant string
}

func (e *NotActivatedError) Error() string {
	return fmt.Sprintf("lifeline of %q is not activated", e.Participant)
}

// ScopeMismatchError reports a scope close that does not match the innermost
// open scope.
type ScopeMismatchError struct {
	Closing string
	Open    string // innermost open scope, empty if the stack is empty
}

func (e *ScopeMismatchError) Error() string {
	if e.Open == "" {
		return fmt.Sprintf("cannot close %s: no open scope", e.Closing)
	}
	return fmt.Sprintf("cannot close %s: innermost open scope is %s", e.Closing, e.Open)
}

// InvalidArrowStyleError reports an arrow style outside the supported glyph
// grammar.
type InvalidArrowStyleError struct {
	Style string
}

func (e *InvalidArrowStyleError) Error() string {
	return fmt.Sprintf("invalid arrow style %q", e.Style)
}

// InvalidArgumentError reports an enumerated option outside its supported
// set, or an inconsistent option combination.
type InvalidArgumentError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// UnbalancedScopesError is reported by Diagram.End when scopes are still
// open. The @enduml terminator is written regardless, so the document stays
// syntactically closed.
type UnbalancedScopesError struct {
	Open []string
}

func (e *UnbalancedScopesError) Error() string {
	return fmt.Sprintf("diagram closed with open scopes: %s", strings.Join(e.Open, ", "))
}

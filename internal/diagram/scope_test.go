package diagram

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestBoxScope(t *testing.T) {
	out, err := build(t, nil, func(b *Builder) error {
		box := b.Box("Internal Service", "LightBlue")
		b.DeclareParticipant("Bob").DeclareParticipant("Alice")
		if err := box.End(); err != nil {
			return err
		}
		b.DeclareParticipant("Other")
		b.Message("Bob", "Alice", "hello").
			Message("Alice", "Other", "hello")
		return nil
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	expected := `@startuml
box "Internal Service" #LightBlue
participant Bob
participant Alice
end box
participant Other
Bob -> Alice: hello
Alice -> Other: hello
@enduml
`
	if out != expected {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestUntitledBox(t *testing.T) {
	out, err := build(t, nil, func(b *Builder) error {
		box := b.Box("", "")
		b.DeclareParticipant("Bob")
		return box.End()
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !strings.Contains(out, "box\nparticipant Bob\nend box\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestGroupAltElse(t *testing.T) {
	out, err := build(t, nil, func(b *Builder) error {
		b.Message("Alice", "Bob", "Authentication Request")
		alt := b.Group(GroupAlt, "successful case")
		b.Message("Bob", "Alice", "Authentication Accepted")
		alt.Else("some kind of failure")
		b.Message("Bob", "Alice", "Authentication Failure")
		alt.Else("Another type of failure")
		b.Message("Bob", "Alice", "Please repeat")
		return alt.End()
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	expected := `@startuml
Alice -> Bob: Authentication Request
alt successful case
Bob -> Alice: Authentication Accepted
else some kind of failure
Bob -> Alice: Authentication Failure
else Another type of failure
Bob -> Alice: Please repeat
end
@enduml
`
	if out != expected {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out, expected)
	}
}

func TestNestedGroups(t *testing.T) {
	out, err := build(t, nil, func(b *Builder) error {
		loop := b.Group(GroupLoop, "1000 times")
		opt := b.Group(GroupOpt, "cached")
		b.Message("A", "B", "hit")
		if err := opt.End(); err != nil {
			return err
		}
		return loop.End()
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	expected := `@startuml
loop 1000 times
opt cached
A -> B: hit
end
end
@enduml
`
	if out != expected {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestOutOfOrderCloseLeavesStackUnchanged(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)
	b := d.Start()
	outer := b.Group(GroupAlt, "outer")
	b.Group(GroupLoop, "inner")
	err := outer.End()
	var mismatch *ScopeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ScopeMismatchError, got %v", err)
	}
	if got := len(b.OpenScopes()); got != 2 {
		t.Errorf("expected 2 open scopes after failed close, got %d", got)
	}
	if strings.Count(buf.String(), "\nend\n") != 0 {
		t.Errorf("failed close emitted a line:\n%s", buf.String())
	}
}

func TestCloseWithEmptyStack(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf).Start()
	g := b.Group(GroupOpt, "")
	if err := g.End(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	err := g.End()
	var mismatch *ScopeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ScopeMismatchError on double close, got %v", err)
	}
}

func TestInvalidGroupKind(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf).Start()
	b.Group(GroupKind("while"), "nope")
	var invalid *InvalidArgumentError
	if !errors.As(b.Err(), &invalid) {
		t.Fatalf("expected InvalidArgumentError, got %v", b.Err())
	}
}

func TestElseOutsideGroup(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf).Start()
	box := b.Box("", "")
	box.Else("nope")
	var invalid *InvalidArgumentError
	if !errors.As(b.Err(), &invalid) {
		t.Fatalf("expected InvalidArgumentError, got %v", b.Err())
	}
}

func TestElseNotInnermost(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf).Start()
	alt := b.Group(GroupAlt, "outer")
	b.Group(GroupLoop, "inner")
	alt.Else("late")
	var mismatch *ScopeMismatchError
	if !errors.As(b.Err(), &mismatch) {
		t.Fatalf("expected ScopeMismatchError, got %v", b.Err())
	}
}

func TestActivatedScope(t *testing.T) {
	out, err := build(t, nil, func(b *Builder) error {
		b.Message("User", "A", "DoWork")
		act := b.Activated("A")
		b.Message("A", "User", "Done", WithArrow("-->"))
		return act.End()
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	expected := `@startuml
User -> A: DoWork
activate A
A --> User: Done
deactivate A
@enduml
`
	if out != expected {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestActivatedScopeWithDestroy(t *testing.T) {
	out, err := build(t, nil, func(b *Builder) error {
		act := b.Activated("Worker", WithDestroyOnEnd())
		b.Message("Worker", "Worker", "work")
		return act.End()
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !strings.Contains(out, "destroy Worker\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "deactivate Worker\n") {
		t.Errorf("destroy scope also deactivated:\n%s", out)
	}
}

func TestScopeBalanceRequiredAtClose(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)
	b := d.Start()
	b.Box("Pending", "")
	err := d.End()
	var unbalanced *UnbalancedScopesError
	if !errors.As(err, &unbalanced) {
		t.Fatalf("expected UnbalancedScopesError, got %v", err)
	}
	if !strings.HasSuffix(buf.String(), "@enduml\n") {
		t.Errorf("terminator missing despite unbalanced scopes:\n%s", buf.String())
	}
}

func TestOpenActivationsAllowedAtClose(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)
	b := d.Start()
	b.Activate("A")
	if err := d.End(); err != nil {
		t.Errorf("open activation should not fail the close: %v", err)
	}
}

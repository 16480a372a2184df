package diagram

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestHeaderLineOrder(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf,
		WithTeozRendering(),
		WithHideFootboxes(),
		WithHideUnlinked(),
		WithTitle("Checkout Flow"),
	)
	d.Start()
	if err := d.End(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `@startuml
!pragma teoz true
hide footbox
hide unlinked
title Checkout Flow
@enduml
`
	if buf.String() != expected {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestStartumlWithID(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, WithID("checkout"))
	d.Start()
	_ = d.End()
	if !strings.HasPrefix(buf.String(), "@startuml checkout\n") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestStartIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)
	d.Start()
	d.Start()
	_ = d.End()
	if got := strings.Count(buf.String(), "@startuml"); got != 1 {
		t.Errorf("expected one opening marker, got %d:\n%s", got, buf.String())
	}
}

func TestTerminatorWrittenOnErrorReturn(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)
	wantErr := errors.New("caller gave up")
	err := d.Build(func(b *Builder) error {
		b.Message("A", "B", "first")
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected caller error, got %v", err)
	}
	if got := strings.Count(buf.String(), "@enduml\n"); got != 1 {
		t.Errorf("expected exactly one terminator, got %d:\n%s", got, buf.String())
	}
}

func TestTerminatorWrittenOnPanic(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)
	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		_ = d.Build(func(b *Builder) error {
			b.Message("A", "B", "before the panic")
			panic("boom")
		})
	}()
	if got := strings.Count(buf.String(), "@enduml\n"); got != 1 {
		t.Errorf("expected exactly one terminator, got %d:\n%s", got, buf.String())
	}
}

func TestTerminatorWrittenOnceOnDoubleEnd(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)
	d.Start()
	_ = d.End()
	_ = d.End()
	if got := strings.Count(buf.String(), "@enduml\n"); got != 1 {
		t.Errorf("expected exactly one terminator, got %d:\n%s", got, buf.String())
	}
}

// failingWriter fails every write after the first n.
type failingWriter struct {
	n      int
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > w.n {
		return 0, errors.New("sink full")
	}
	return len(p), nil
}

func TestSinkErrorSurfaces(t *testing.T) {
	d := New(&failingWriter{n: 1})
	err := d.Build(func(b *Builder) error {
		b.Message("A", "B", "one").Message("A", "B", "two")
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "sink full") {
		t.Fatalf("expected sink error, got %v", err)
	}
}

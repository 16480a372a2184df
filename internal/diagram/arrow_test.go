package diagram

import (
	"errors"
	"testing"
)

func TestValidArrowStyles(t *testing.T) {
	valid := []string{
		"->", "-->", "<-", "<--",
		"->>", "-->>", "<<-", "<<--",
		"-\\", "-\\\\", "-/", "-//",
		"->x", "x->", "->o", "o->",
		"<->", "<-->",
		"-[#red]>", "-[#0000FF]->", "--[#green]>",
	}
	for _, style := range valid {
		if err := validateArrowStyle(style); err != nil {
			t.Errorf("style %q rejected: %v", style, err)
		}
	}
}

func TestInvalidArrowStyles(t *testing.T) {
	invalid := []string{
		"", "-", "--", "--->", "=>", "<=", "abc",
		"- >", "-[red]>", "-[#]>", "-[#re d]>", "><", "x", "o",
	}
	for _, style := range invalid {
		err := validateArrowStyle(style)
		var arrowErr *InvalidArrowStyleError
		if !errors.As(err, &arrowErr) {
			t.Errorf("style %q accepted, want InvalidArrowStyleError", style)
		}
	}
}

func TestMessageRejectsInvalidArrow(t *testing.T) {
	_, err := build(t, nil, func(b *Builder) error {
		b.Message("A", "B", "text", WithArrow("=>"))
		return nil
	})
	var arrowErr *InvalidArrowStyleError
	if !errors.As(err, &arrowErr) {
		t.Fatalf("expected InvalidArrowStyleError, got %v", err)
	}
	if arrowErr.Style != "=>" {
		t.Errorf("unexpected style %q", arrowErr.Style)
	}
}

func TestSetArrowStyle(t *testing.T) {
	out, err := build(t, nil, func(b *Builder) error {
		prev := b.SetArrowStyle("-->")
		if prev != DefaultArrowStyle {
			t.Errorf("expected previous style %q, got %q", DefaultArrowStyle, prev)
		}
		b.Message("A", "B", "dashed now")
		return nil
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if out != "@startuml\nA --> B: dashed now\n@enduml\n" {
		t.Errorf("unexpected output:\n%s", out)
	}
}

package diagram

import (
	"testing"
)

func TestDeriveAlias(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Alice", "Alice"},
		{"Web Client", "WebClient"},
		{"Müller GmbH", "MullerGmbH"},
		{"Café-Server", "CafeServer"},
		{"I have a really\nlong name", "Ihaveareallylongname"},
		{"svc-2", "svc2"},
	}
	for _, c := range cases {
		if got := deriveAlias(c.title); got != c.want {
			t.Errorf("deriveAlias(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}

func TestMaybeQuote(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Alice", "Alice"},
		{"", ""},
		{"Web Client", `"Web Client"`},
		{"svc-2", `"svc-2"`},
		{"数据库", "数据库"},
	}
	for _, c := range cases {
		if got := maybeQuote(c.in); got != c.want {
			t.Errorf("maybeQuote(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDeclarationRendering(t *testing.T) {
	cases := []struct {
		p    Participant
		want string
	}{
		{Participant{Title: "Alice", Alias: "Alice", Shape: ShapeParticipant}, "participant Alice"},
		{Participant{Title: "Bob", Alias: "Bob", Shape: ShapeActor, Color: "red"}, "actor Bob #red"},
		{Participant{Title: "Data Store", Alias: "DS", Shape: ShapeDatabase}, `database "Data Store" as DS`},
		{Participant{Title: "a\nb", Alias: "ab", Shape: ShapeQueue}, `queue "a\nb" as ab`},
	}
	for _, c := range cases {
		if got := c.p.declaration(); got != c.want {
			t.Errorf("declaration() = %q, want %q", got, c.want)
		}
	}
}

func TestLookup(t *testing.T) {
	var b *Builder
	_, err := build(t, nil, func(bb *Builder) error {
		b = bb
		bb.DeclareActor("Operator", WithAlias("Op"))
		return nil
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	p, ok := b.Lookup("Op")
	if !ok {
		t.Fatal("declared participant not found")
	}
	if p.Shape != ShapeActor || p.Title != "Operator" {
		t.Errorf("unexpected participant %+v", p)
	}
	if _, ok := b.Lookup("Nobody"); ok {
		t.Error("lookup of unknown alias succeeded")
	}
}

func TestInvalidShape(t *testing.T) {
	_, err := build(t, nil, func(b *Builder) error {
		b.Declare("Thing", Shape("blob"))
		return nil
	})
	if _, ok := err.(*InvalidArgumentError); !ok {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}
}

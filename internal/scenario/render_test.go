package scenario

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/seqdiag/internal/diagram"
	errs "git.home.luguber.info/inful/seqdiag/internal/errors"
)

func renderYAML(t *testing.T, input string) (string, error) {
	t.Helper()
	s, err := Parse([]byte(input))
	require.NoError(t, err)
	var buf bytes.Buffer
	err = Render(s, &buf)
	return buf.String(), err
}

func TestRenderBasicFlow(t *testing.T) {
	out, err := renderYAML(t, `
diagram:
  title: Checkout
  hide_footboxes: true
  default_arrow: "-->"
participants:
  - name: Customer
    shape: actor
  - name: Order Service
    alias: orders
    shape: database
    color: LightBlue
steps:
  - message: {from: Customer, to: orders, text: place order}
  - activate: {participant: orders, color: Gold}
  - message: {from: orders, to: Customer, text: confirmation, arrow: "->"}
  - deactivate: orders
`)
	require.NoError(t, err)
	expected := `@startuml
hide footbox
title Checkout
actor Customer
database "Order Service" as orders #LightBlue
Customer --> orders: place order
activate orders #Gold
orders -> Customer: confirmation
deactivate orders
@enduml
`
	assert.Equal(t, expected, out)
}

func TestRenderEmptyScenario(t *testing.T) {
	out, err := renderYAML(t, "")
	require.NoError(t, err)
	assert.Equal(t, "@startuml\n@enduml\n", out)
}

func TestRenderStructuralSteps(t *testing.T) {
	out, err := renderYAML(t, `
steps:
  - box:
      title: Backend
      color: LightBlue
      steps:
        - message: {from: web, to: db, text: query}
  - autonumber: {start: 10, increment: 5}
  - group:
      kind: alt
      label: hit
      steps:
        - message: {from: db, to: web, text: row}
      else:
        - label: miss
          steps:
            - message: {from: db, to: web, text: empty}
  - divider: retry
  - note: {text: cache warmed, position: right, participant: web, shape: hexagon, color: Pink}
  - delay: a while later
  - space: 25
  - blank: true
  - autonumber: {stop: true}
  - newpage: Cleanup
  - autonumber: {resume: true}
`)
	require.NoError(t, err)
	expected := `@startuml
box "Backend" #LightBlue
web -> db: query
end box
autonumber 10 5
alt hit
db -> web: row
else miss
db -> web: empty
end
== retry ==
hnote right of web #Pink: cache warmed
...a while later...
||25||

autonumber stop
newpage Cleanup
autonumber resume
@enduml
`
	assert.Equal(t, expected, out)
}

func TestRenderMessageWithAttachedNote(t *testing.T) {
	out, err := renderYAML(t, `
steps:
  - message:
      from: A
      to: B
      text: ping
      note: {text: slow path, position: left, shape: rnote}
`)
	require.NoError(t, err)
	expected := `@startuml
A -> B: ping
rnote left: slow path
@enduml
`
	assert.Equal(t, expected, out)
}

func TestRenderDiagramFraming(t *testing.T) {
	out, err := renderYAML(t, `
diagram:
  id: checkout
  teoz: true
  hide_unlinked: true
`)
	require.NoError(t, err)
	expected := `@startuml checkout
!pragma teoz true
hide unlinked
@enduml
`
	assert.Equal(t, expected, out)
}

func TestRenderUnknownParticipantCarriesStepPath(t *testing.T) {
	out, err := renderYAML(t, `
diagram:
  auto_declare: false
steps:
  - message: {from: Ghost, to: Ghost, text: boo}
`)
	require.Error(t, err)
	var se *errs.SeqDiagError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, errs.CategoryRender, se.Category)
	assert.Equal(t, "steps[0]", se.Context["step"])
	var unknown *diagram.UnknownParticipantError
	assert.ErrorAs(t, err, &unknown)
	assert.Contains(t, out, "@enduml\n")
}

func TestRenderNestedGroupErrorCarriesInnerPath(t *testing.T) {
	_, err := renderYAML(t, `
diagram:
  auto_declare: false
participants:
  - name: A
steps:
  - group:
      kind: loop
      label: retries
      steps:
        - message: {from: A, to: Ghost, text: poke}
`)
	require.Error(t, err)
	var se *errs.SeqDiagError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "steps[0].group.steps[0]", se.Context["step"])
}

func TestRenderInvalidDefaultArrow(t *testing.T) {
	_, err := renderYAML(t, `
diagram:
  default_arrow: "=>"
`)
	require.Error(t, err)
	var se *errs.SeqDiagError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, errs.CategoryRender, se.Category)
	assert.Equal(t, "diagram.default_arrow", se.Context["field"])
	var invalid *diagram.InvalidArrowStyleError
	assert.ErrorAs(t, err, &invalid)
}

// Validate already rejects duplicate declarations, so strict redeclare is
// exercised with a hand-built scenario that skips parsing.
func TestRenderStrictRedeclare(t *testing.T) {
	s := &Scenario{
		Diagram: Options{StrictRedeclare: true},
		Participants: []ParticipantDecl{
			{Name: "A"},
			{Name: "A"},
		},
	}
	var buf bytes.Buffer
	err := Render(s, &buf)
	require.Error(t, err)
	var se *errs.SeqDiagError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "participants[1]", se.Context["step"])
	var dup *diagram.DuplicateParticipantError
	assert.ErrorAs(t, err, &dup)
}

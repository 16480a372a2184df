package diagram

import (
	"strings"
)

// DefaultArrowStyle is the arrow used when no override is supplied.
const DefaultArrowStyle = "->"

// validateArrowStyle checks a message arrow against the supported glyph
// grammar:
//
//	[left head] dashes [ "[#color]" dashes ] [right head] [ "x" | "o" ]
//
// where the shaft is "-" (solid) or "--" (dashed), left heads are
// <, <<, \, \\, /, //, x or o and right heads are >, >>, \, \\, / or //.
// At least one head must be present.
func validateArrowStyle(style string) error {
	rest := style
	fail := func() error { return &InvalidArrowStyleError{Style: style} }

	leftHeads := []string{"<<", "<", `\\`, `\`, "//", "/", "x", "o"}
	var hasLeft bool
	for _, h := range leftHeads {
		if strings.HasPrefix(rest, h) {
			rest = rest[len(h):]
			hasLeft = true
			break
		}
	}

	dashes := 0
	for strings.HasPrefix(rest, "-") {
		rest = rest[1:]
		dashes++
	}
	if dashes == 0 || dashes > 2 {
		return fail()
	}

	// Inline color, e.g. -[#red]> or -[#0000FF]->
	if strings.HasPrefix(rest, "[#") {
		end := strings.IndexByte(rest, ']')
		if end < 3 { // at least one color character
			return fail()
		}
		for _, r := range rest[2:end] {
			if !isColorRune(r) {
				return fail()
			}
		}
		rest = rest[end+1:]
		for strings.HasPrefix(rest, "-") {
			rest = rest[1:]
		}
	}

	rightHeads := []string{">>", ">", `\\`, `\`, "//", "/"}
	var hasRight bool
	for _, h := range rightHeads {
		if strings.HasPrefix(rest, h) {
			rest = rest[len(h):]
			hasRight = true
			break
		}
	}

	// Lost-message or open-circle terminator.
	if rest == "x" || rest == "o" {
		if !hasRight && !hasLeft {
			return fail()
		}
		rest = ""
	}

	if rest != "" || (!hasLeft && !hasRight) {
		return fail()
	}
	return nil
}

func isColorRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	default:
		return false
	}
}

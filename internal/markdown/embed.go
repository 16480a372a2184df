// Package markdown keeps generated PlantUML blocks in Markdown documents in
// sync with the scenario fences they are derived from. A document declares a
// scenario in a ```plantuml-scenario fence; the generated diagram lives in a
// ```plantuml fence directly below it and is rewritten in place.
package markdown

import (
	"bytes"
	"errors"
	"os"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	errs "git.home.luguber.info/inful/seqdiag/internal/errors"
	"git.home.luguber.info/inful/seqdiag/internal/scenario"
)

const (
	scenarioLanguage = "plantuml-scenario"
	outputLanguage   = "plantuml"
)

// Regenerate renders every scenario fence in doc and replaces the generated
// fence that follows it, inserting one when missing. It reports whether the
// document changed. Offsets are resolved on the original source, so documents
// with several scenario fences are rewritten in a single pass.
func Regenerate(doc []byte) ([]byte, bool, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(doc))

	var edits []Edit
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		fence, ok := n.(*gmast.FencedCodeBlock)
		if !ok || !bytes.Equal(fence.Language(doc), []byte(scenarioLanguage)) {
			continue
		}
		start, end, ok := fenceRange(doc, fence)
		if !ok {
			continue
		}
		rendered, err := renderFence(doc, fence)
		if err != nil {
			var se *errs.SeqDiagError
			if errors.As(err, &se) {
				return nil, false, se.WithContext("line", lineOf(doc, start))
			}
			return nil, false, err
		}
		generated := "```" + outputLanguage + "\n" + rendered + "```"

		if next, ok := n.NextSibling().(*gmast.FencedCodeBlock); ok && bytes.Equal(next.Language(doc), []byte(outputLanguage)) {
			nextStart, nextEnd, ok := fenceRange(doc, next)
			if ok {
				replacement := generated
				if nextEnd > nextStart && doc[nextEnd-1] == '\n' {
					replacement += "\n"
				}
				edits = append(edits, Edit{Start: nextStart, End: nextEnd, Replacement: []byte(replacement)})
				continue
			}
		}
		edits = append(edits, Edit{Start: end, End: end, Replacement: []byte("\n" + generated + "\n")})
	}

	out, err := applyEdits(doc, edits)
	if err != nil {
		return nil, false, errs.InternalError("applying fence edits failed", err)
	}
	return out, !bytes.Equal(out, doc), nil
}

// RegenerateFile regenerates path on disk. With write disabled the file is
// left untouched and only the changed flag is reported, which is what the
// CLI's check mode needs.
func RegenerateFile(path string, write bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, errs.EmbedError(path, err)
	}
	out, changed, err := Regenerate(data)
	if err != nil {
		var se *errs.SeqDiagError
		if errors.As(err, &se) {
			return false, se.WithContext("path", path)
		}
		return false, errs.EmbedError(path, err)
	}
	if changed && write {
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return false, errs.EmbedError(path, err)
		}
	}
	return changed, nil
}

func renderFence(doc []byte, fence *gmast.FencedCodeBlock) (string, error) {
	s, err := scenario.Parse(fenceBody(doc, fence))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := scenario.Render(s, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func fenceBody(doc []byte, fence *gmast.FencedCodeBlock) []byte {
	var buf bytes.Buffer
	lines := fence.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(doc))
	}
	return buf.Bytes()
}

// fenceRange computes the byte range of the whole fence including its opening
// and closing lines. The info string anchors the opening line; fences without
// one are never ours.
func fenceRange(doc []byte, fence *gmast.FencedCodeBlock) (int, int, bool) {
	if fence.Info == nil {
		return 0, 0, false
	}
	seg := fence.Info.Segment
	start := seg.Start
	for start > 0 && doc[start-1] != '\n' {
		start--
	}

	// End of the opening line, or of the last body line when there is one.
	p := seg.Stop
	for p < len(doc) && doc[p] != '\n' {
		p++
	}
	if p < len(doc) {
		p++
	}
	if lines := fence.Lines(); lines.Len() > 0 {
		p = lines.At(lines.Len() - 1).Stop
	}

	// The closing fence is the next non-blank line; a document may legally end
	// without one.
	q := p
	for q < len(doc) {
		lineEnd := q
		for lineEnd < len(doc) && doc[lineEnd] != '\n' {
			lineEnd++
		}
		if lineEnd < len(doc) {
			lineEnd++
		}
		line := bytes.TrimSpace(doc[q:lineEnd])
		if bytes.HasPrefix(line, []byte("```")) {
			return start, lineEnd, true
		}
		if len(line) != 0 {
			break
		}
		q = lineEnd
	}
	return start, p, true
}

func lineOf(doc []byte, offset int) int {
	return 1 + bytes.Count(doc[:offset], []byte("\n"))
}

package diagram

import (
	"io"
)

// lineWriter emits one text line per call to the underlying sink and latches
// the first write error. Once a write fails every later call is a no-op, so a
// broken sink never receives a partial document beyond the failed line.
type lineWriter struct {
	w   io.Writer
	err error
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{w: w}
}

func (lw *lineWriter) writeLine(line string) {
	if lw.err != nil {
		return
	}
	_, lw.err = io.WriteString(lw.w, line+"\n")
}

func (lw *lineWriter) writeLines(lines ...string) {
	for _, line := range lines {
		lw.writeLine(line)
	}
}

package cgen

import (
	"fmt"
	"strings"
)

// CodeWriter is the append-only sink the emitters write generated C into.
type CodeWriter struct {
	buf   strings.Builder
	lines int
}

// Emit appends one snippet followed by a newline. Multi-line snippets are
// counted per line.
func (w *CodeWriter) Emit(code string) {
	w.buf.WriteString(code)
	w.buf.WriteByte('\n')
	w.lines += strings.Count(code, "\n") + 1
}

func (w *CodeWriter) Emitf(format string, args ...any) {
	w.Emit(fmt.Sprintf(format, args...))
}

func (w *CodeWriter) String() string {
	return w.buf.String()
}

func (w *CodeWriter) Lines() int {
	return w.lines
}

package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// rawLimit caps quoted file lines in dumps. Result files carry thousands of
// data lines and the dump only needs enough of each to recognize it.
const rawLimit = 96

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Raw writes a labeled file line quoted, so line endings and trailing blanks
// stay visible. Lines longer than rawLimit are cut with a byte count.
func (tw TreeWriter) Raw(depth int, label, value string) {
	for range depth {
		tw.w.WriteString("  ")
	}
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeRaw(value))
	tw.w.WriteByte('\n')
}

func encodeRaw(raw string) string {
	if raw == "" {
		return raw
	}
	if len(raw) <= rawLimit {
		return strconv.Quote(raw)
	}
	return fmt.Sprintf("%s... (%d bytes)", strconv.Quote(raw[:rawLimit]), len(raw))
}

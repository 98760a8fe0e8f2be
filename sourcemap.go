package migrate

import "strings"

// SourceKind distinguishes schema-file chunks from the synthetic wrapper
// lines around an aggregated schema.
type SourceKind int

const (
	SourcePrefix SourceKind = iota
	SourceSuffix
	SourceFile
)

// SourceName labels one chunk of aggregated text. Path is set only for
// SourceFile chunks.
type SourceName struct {
	Kind SourceKind
	Path string
}

type mapEntry struct {
	name      SourceName
	startLine int // first output line of the chunk, 1-based
	lineCount int
}

// SourceMap translates line numbers in aggregated text back to the chunk
// they came from, so later error messages can point at the right file and
// line. It is built once by a Builder and read-only afterwards.
type SourceMap struct {
	entries []mapEntry
}

// Translate maps a 1-based output line to its source and the 1-based line
// within that source. It reports false for lines outside the map.
func (m *SourceMap) Translate(outputLine int) (SourceName, int, bool) {
	for _, e := range m.entries {
		if outputLine >= e.startLine && outputLine < e.startLine+e.lineCount {
			return e.name, outputLine - e.startLine + 1, true
		}
	}
	return SourceName{}, 0, false
}

// Len reports the total number of mapped output lines.
func (m *SourceMap) Len() int {
	if len(m.entries) == 0 {
		return 0
	}
	last := m.entries[len(m.entries)-1]
	return last.startLine + last.lineCount - 1
}

// Builder concatenates labeled text chunks, recording for every output line
// which chunk and original line it came from. It is purely a recorder:
// nothing is reordered, normalized, or altered, and it cannot fail.
type Builder struct {
	buf     strings.Builder
	entries []mapEntry
	line    int // output lines written so far
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddLines appends text under name. Every line of text, blank lines
// included, consumes exactly one output line; output lines are contiguous
// starting at 1.
func (b *Builder) AddLines(name SourceName, text string) {
	lines := splitLines(text)
	b.entries = append(b.entries, mapEntry{
		name:      name,
		startLine: b.line + 1,
		lineCount: len(lines),
	})
	for _, line := range lines {
		b.buf.WriteString(line)
		b.buf.WriteByte('\n')
	}
	b.line += len(lines)
}

// Done returns the aggregated text and its source map.
func (b *Builder) Done() (string, *SourceMap) {
	return b.buf.String(), &SourceMap{entries: b.entries}
}

// splitLines splits on newlines without manufacturing an extra empty line
// out of a trailing newline.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

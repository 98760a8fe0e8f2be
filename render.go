package migrate

import "strings"

// Renderer turns markdown text from the server into something displayable.
// The engine only consumes it for prompt and help text; the CLI decides how
// rendering actually happens.
type Renderer interface {
	Render(markdown string) (string, error)
}

// renderPrompt passes text through r, falling back to the raw text when no
// renderer is configured or rendering fails.
func renderPrompt(r Renderer, text string) string {
	if r == nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// PrepareMarkdown strips the common leading indentation of text. Prompt
// blocks arrive indented to match the server's source, and without this a
// renderer mistakes the whole block for preformatted code.
func PrepareMarkdown(text string) string {
	minIndent := len(text)
	for _, line := range splitLines(text) {
		stripped := strings.TrimLeft(line, " \t")
		if stripped == "" {
			continue
		}
		if indent := len(line) - len(stripped); indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent == 0 {
		return text
	}
	var buf strings.Builder
	for _, line := range splitLines(text) {
		if len(line) > minIndent {
			buf.WriteString(line[minIndent:])
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

package migrate

import (
	"testing"

	"github.com/pkg/errors"
)

func TestPrepareMarkdown(t *testing.T) {
	in := "    Please specify an expression:\n\n        SELECT .name\n"
	want := "Please specify an expression:\n\n    SELECT .name\n"
	if got := PrepareMarkdown(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrepareMarkdownNoIndent(t *testing.T) {
	in := "already flush\n    but this is code\n"
	if got := PrepareMarkdown(in); got != in {
		t.Fatalf("got %q, want input unchanged", got)
	}
}

type starRenderer struct{ fail bool }

func (r starRenderer) Render(text string) (string, error) {
	if r.fail {
		return "", errors.New("no terminal")
	}
	return "*" + text + "*\n", nil
}

func TestRenderPrompt(t *testing.T) {
	if got := renderPrompt(nil, "hi"); got != "hi" {
		t.Fatalf("nil renderer: %q", got)
	}
	if got := renderPrompt(starRenderer{}, "hi"); got != "*hi*" {
		t.Fatalf("renderer: %q", got)
	}
	// A renderer failure falls back to the raw prompt rather than
	// swallowing it
	if got := renderPrompt(starRenderer{fail: true}, "hi"); got != "hi" {
		t.Fatalf("failing renderer: %q", got)
	}
}

package migrate

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	check(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGenStartMigration(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.esdl", "type Post {\n  required title: str;\n};\n")
	writeFile(t, dir, "a.esdl", "type User {\n  required name: str;\n};\n")
	writeFile(t, dir, ".hidden.esdl", "garbage without semicolon")
	writeFile(t, dir, "notes.txt", "not a schema file")
	check(t, os.Mkdir(filepath.Join(dir, "sub.esdl"), 0755))

	text, m, err := GenStartMigration(dir)
	check(t, err)

	// Files contribute in sorted name order, wrapped by exactly one
	// prefix and one suffix line
	want := "START MIGRATION TO {\n" +
		"type User {\n  required name: str;\n};\n" +
		"type Post {\n  required title: str;\n};\n" +
		"};\n"
	if text != want {
		t.Fatalf("aggregated text = %q, want %q", text, want)
	}

	lineCount := strings.Count(text, "\n")
	if lineCount != 3+3+2 {
		t.Fatalf("line count = %d, want %d", lineCount, 3+3+2)
	}
	if m.Len() != lineCount {
		t.Fatalf("source map covers %d lines, text has %d", m.Len(), lineCount)
	}
	for i := 1; i <= lineCount; i++ {
		name, _, ok := m.Translate(i)
		if !ok {
			t.Fatalf("line %d is unmapped", i)
		}
		synthetic := i == 1 || i == lineCount
		if synthetic != (name.Kind != SourceFile) {
			t.Fatalf("line %d mapped to kind %d", i, name.Kind)
		}
	}
	name, line, _ := m.Translate(2)
	if name.Path != filepath.Join(dir, "a.esdl") || line != 1 {
		t.Fatalf("line 2 mapped to %v line %d", name, line)
	}
}

func TestGenStartMigrationIncompleteStatement(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.esdl", "type User {\n  name: str;\n}\n")
	_, _, err := GenStartMigration(dir)
	if err == nil {
		t.Fatal("expected an error for a missing trailing semicolon")
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("error %q does not name %s", err, path)
	}
	if !strings.Contains(err.Error(), "semicolon") {
		t.Fatalf("error %q does not mention the semicolon", err)
	}
}

func TestGenStartMigrationTrailingBlank(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.esdl", "type User;\n\n  # trailing comment\n")
	_, _, err := GenStartMigration(dir)
	check(t, err)
}

func TestGenStartMigrationMissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, _, err := GenStartMigration(missing)
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
	if !strings.Contains(err.Error(), missing) {
		t.Fatalf("error %q does not name %s", err, missing)
	}
}

func TestGenStartMigrationEmptyDir(t *testing.T) {
	text, _, err := GenStartMigration(t.TempDir())
	check(t, err)
	if text != "START MIGRATION TO {\n};\n" {
		t.Fatalf("text = %q", text)
	}
}

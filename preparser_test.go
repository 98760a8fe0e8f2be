package migrate

import "testing"

func TestFullStatement(t *testing.T) {
	complete := []string{
		"SELECT 1;",
		"type User {\n  required name: str;\n  index on (.name);\n};",
		"SELECT ';';",
		"SELECT \"a;b\";",
		"SELECT 'it\\'s;';",
		"SELECT `odd;name`;",
		"SELECT r'a;b';",
		"SELECT b'a;b';",
		"SELECT $$a;b$$;",
		"SELECT $tag$ ; $tag$;",
		"SELECT <str>$0;",
		"# leading comment with ;\nSELECT 1;",
		"SELECT (1; 2);",
	}
	for _, src := range complete {
		n, ok := FullStatement([]byte(src))
		if !ok {
			t.Fatalf("FullStatement(%q) reported incomplete", src)
		}
		if n != len(src) {
			t.Fatalf("FullStatement(%q) = %d, want %d", src, n, len(src))
		}
	}

	incomplete := []string{
		"",
		"SELECT 1",
		"type User {\n  name: str;\n}",
		"SELECT 'unterminated;",
		"SELECT $tag$ never closed;",
		"SELECT `odd;",
		"# just a comment;\n",
	}
	for _, src := range incomplete {
		if _, ok := FullStatement([]byte(src)); ok {
			t.Fatalf("FullStatement(%q) reported complete", src)
		}
	}
}

func TestFullStatementStopsAtFirst(t *testing.T) {
	src := "SELECT 1; SELECT 2;"
	n, ok := FullStatement([]byte(src))
	if !ok || n != len("SELECT 1;") {
		t.Fatalf("n = %d, ok = %v", n, ok)
	}
	rest := src[n:]
	n, ok = FullStatement([]byte(rest))
	if !ok || n != len(rest) {
		t.Fatalf("second statement n = %d, ok = %v", n, ok)
	}
}

func TestIsBlank(t *testing.T) {
	blank := []string{"", "   ", "\n\t\r\n", "# comment", "  # a;b\n\n# c"}
	for _, s := range blank {
		if !IsBlank(s) {
			t.Fatalf("IsBlank(%q) = false", s)
		}
	}
	nonBlank := []string{"x", "  SELECT", "# comment\nx"}
	for _, s := range nonBlank {
		if IsBlank(s) {
			t.Fatalf("IsBlank(%q) = true", s)
		}
	}
}

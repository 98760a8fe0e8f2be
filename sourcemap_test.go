package migrate

import "testing"

func check(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestBuilderContiguousLines(t *testing.T) {
	bld := NewBuilder()
	bld.AddLines(SourceName{Kind: SourcePrefix}, "START MIGRATION TO {")
	bld.AddLines(SourceName{Kind: SourceFile, Path: "a.esdl"}, "one;\n\ntwo;\n")
	bld.AddLines(SourceName{Kind: SourceFile, Path: "b.esdl"}, "three;")
	bld.AddLines(SourceName{Kind: SourceSuffix}, "};")
	text, m := bld.Done()

	want := "START MIGRATION TO {\none;\n\ntwo;\nthree;\n};\n"
	if text != want {
		t.Fatalf("aggregated text = %q, want %q", text, want)
	}
	if m.Len() != 6 {
		t.Fatalf("mapped lines = %d, want 6", m.Len())
	}

	name, line, ok := m.Translate(1)
	if !ok || name.Kind != SourcePrefix || line != 1 {
		t.Fatalf("line 1 mapped to %v line %d", name, line)
	}
	// Blank lines consume an output line like any other
	name, line, ok = m.Translate(3)
	if !ok || name.Path != "a.esdl" || line != 2 {
		t.Fatalf("line 3 mapped to %v line %d", name, line)
	}
	name, line, ok = m.Translate(5)
	if !ok || name.Path != "b.esdl" || line != 1 {
		t.Fatalf("line 5 mapped to %v line %d", name, line)
	}
	name, _, ok = m.Translate(6)
	if !ok || name.Kind != SourceSuffix {
		t.Fatalf("line 6 mapped to %v", name)
	}
}

func TestBuilderEmptyChunk(t *testing.T) {
	bld := NewBuilder()
	bld.AddLines(SourceName{Kind: SourceFile, Path: "empty.esdl"}, "")
	bld.AddLines(SourceName{Kind: SourceFile, Path: "a.esdl"}, "x;")
	text, m := bld.Done()
	if text != "x;\n" {
		t.Fatalf("text = %q", text)
	}
	name, line, ok := m.Translate(1)
	if !ok || name.Path != "a.esdl" || line != 1 {
		t.Fatalf("line 1 mapped to %v line %d", name, line)
	}
}

func TestTranslateOutOfRange(t *testing.T) {
	bld := NewBuilder()
	bld.AddLines(SourceName{Kind: SourceFile, Path: "a.esdl"}, "x;")
	_, m := bld.Done()
	if _, _, ok := m.Translate(0); ok {
		t.Fatal("line 0 should not be mapped")
	}
	if _, _, ok := m.Translate(2); ok {
		t.Fatal("line 2 should not be mapped")
	}
}

package source

import "testing"

func TestLineAndColumn(t *testing.T) {
	src := NewEvalSource("ab\ncdé f\n\nx")
	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{7, 2, 4}, // after the two-byte é
		{10, 3, 1},
		{11, 4, 1},
	}

	for i, tt := range tests {
		if got := src.LineAt(tt.offset); got != tt.line {
			t.Fatalf("tests[%d] - offset %d: expected line %d, got %d", i, tt.offset, tt.line, got)
		}
		if got := src.ColumnAt(tt.offset); got != tt.column {
			t.Fatalf("tests[%d] - offset %d: expected column %d, got %d", i, tt.offset, tt.column, got)
		}
	}
}

func TestLocationCombineWith(t *testing.T) {
	src := NewEvalSource("foo +\n  bar")
	left := NewLocation(src, 0, 3)
	right := NewLocation(src, 8, 11)

	for _, loc := range []Location{left.CombineWith(right), right.CombineWith(left)} {
		if loc.FirstOffset != 0 || loc.LastOffset != 11 || loc.Line != 1 {
			t.Fatalf("unexpected combined location %+v", loc)
		}
		if loc.Text() != "foo +\n  bar" {
			t.Fatalf("unexpected text %q", loc.Text())
		}
	}
	if got := right.String(); got != "<eval>:2:3" {
		t.Fatalf("expected <eval>:2:3, got %s", got)
	}
	if got := WithLineAndOffset(src, 2, 8).Text(); got != "" {
		t.Fatalf("empty location should have no text, got %q", got)
	}
}

func TestFromFile(t *testing.T) {
	sf := FromFile("src/pkg/Main.as", "x")
	if sf.Name != "Main.as" || sf.DisplayPath() != "src/pkg/Main.as" || !sf.IsFile() {
		t.Fatalf("unexpected source file %+v", sf)
	}
	if NewReplSource("x").IsFile() {
		t.Fatalf("repl source is not a file")
	}
}

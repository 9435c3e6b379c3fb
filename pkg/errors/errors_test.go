package errors

import (
	"fmt"
	"strings"
	"testing"

	"asfront/pkg/source"
)

func TestDiagnosticMessage(t *testing.T) {
	src := source.NewEvalSource("<a></b>")
	tests := []struct {
		diag     *Diagnostic
		expected string
	}{
		{
			NewSyntaxError(source.NewLocation(src, 5, 6), KindMismatchedXmlClosingTag, StringArgument("a"), StringArgument("b")),
			"Closing tag 'b' does not match opening tag 'a'",
		},
		{
			NewWarning(source.NewLocation(src, 0, 4), KindUnrecognizedAsDocTag, StringArgument("foo")),
			"Unrecognized ASDoc tag '@foo'",
		},
		{
			NewSyntaxError(source.NewLocation(src, 0, 1), KindUnterminatedString),
			"Unterminated string literal",
		},
	}

	for i, tt := range tests {
		if got := tt.diag.Message(); got != tt.expected {
			t.Fatalf("tests[%d] - expected %q, got %q", i, tt.expected, got)
		}
	}
	if got := tests[0].diag.Error(); got != "Syntax Error at 1:6: "+tests[0].expected {
		t.Fatalf("unexpected Error() %q", got)
	}
}

func TestCollector(t *testing.T) {
	src := source.NewEvalSource("x")
	c := NewCollector()
	c.Add(NewWarning(source.NewLocation(src, 0, 1), KindUnrecognizedAsDocTag, StringArgument("x")))
	if c.HasErrors() || len(c.Errors()) != 0 {
		t.Fatalf("warnings must not count as errors")
	}
	c.Add(NewSyntaxError(source.NewLocation(src, 0, 1), KindExpectedExpression, StringArgument("x")))
	if !c.HasErrors() || len(c.Errors()) != 1 || c.Len() != 2 {
		t.Fatalf("unexpected collector state: %v", c.Diagnostics())
	}
}

func TestIsFailure(t *testing.T) {
	if !IsFailure(ErrParserFailure) || !IsFailure(fmt.Errorf("wrapped: %w", ErrTokenizerFailure)) {
		t.Fatalf("failure sentinels not recognized")
	}
	if IsFailure(fmt.Errorf("other")) {
		t.Fatalf("unrelated error treated as failure")
	}
}

func TestDisplayDiagnostics(t *testing.T) {
	src := source.FromFile("Main.as", "var x = 1;\nvar y = <a></b>;\n")
	d := NewSyntaxError(source.NewLocation(src, 24, 25), KindMismatchedXmlClosingTag, StringArgument("a"), StringArgument("b"))

	var out strings.Builder
	DisplayDiagnostics(&out, []*Diagnostic{d})
	expected := "Main.as:2:14: Syntax Error: Closing tag 'b' does not match opening tag 'a'\n" +
		"  var y = <a></b>;\n" +
		"               ^\n\n"
	if out.String() != expected {
		t.Fatalf("expected\n%q\ngot\n%q", expected, out.String())
	}
}

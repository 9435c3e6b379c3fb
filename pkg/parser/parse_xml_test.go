package parser

import (
	"testing"

	"asfront/pkg/errors"
)

func TestParseXMLLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<a/>", "(xml-element a)"},
		{"<a></a>", "(xml-element a)"},
		{`<a x="1" y='two'/>`, `(xml-element a (attr x "1") (attr y "two"))`},
		{"<a>hi {v}</a>", `(xml-element a (text "hi ") (expr v))`},
		{"<a x={v + 1}/>", "(xml-element a (attr x {(binary + v 1)}))"},
		{"<a {attrs}/>", "(xml-element a (attr {attrs}))"},
		{"<{tag}>t</{tag}>", `(xml-element {tag} (text "t"))`},
		{"<a><b>1</b><c/></a>", `(xml-element a (xml-element b (text "1")) (xml-element c))`},
		{"<a><!-- c --><![CDATA[<x>]]></a>", `(xml-element a (markup "<!-- c -->") (markup "<![CDATA[<x>]]>"))`},
		{"<><a/>text</>", `(xml-list (xml-element a) (text "text"))`},
		{"<svg:rect xlink:href=\"#r\"/>", `(xml-element svg:rect (attr xlink:href "#r"))`},
	}

	for i, tt := range tests {
		actual := ExpressionString(parseTestExpression(t, tt.input))
		if actual != tt.expected {
			t.Fatalf("tests[%d] - %q: expected %s, got %s", i, tt.input, tt.expected, actual)
		}
	}
}

func TestXMLLiteralResumesCode(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"var x = <a/>;\nx.@id", []string{"(var (= x (xml-element a)))", "(member x @id)"}},
		{"f(<a>{1}</a>, 2);", []string{"(call f (xml-element a (expr 1)) 2)"}},
		{"x = <a/> + <b/>", []string{"(assign = x (binary + (xml-element a) (xml-element b)))"}},
	}

	for i, tt := range tests {
		program, _ := parseTestProgram(t, tt.input)
		actual := directiveStrings(program)
		if len(actual) != len(tt.expected) {
			t.Fatalf("tests[%d] - %q: expected %v, got %v", i, tt.input, tt.expected, actual)
		}
		for j := range actual {
			if actual[j] != tt.expected[j] {
				t.Fatalf("tests[%d] - %q: directive %d expected %s, got %s", i, tt.input, j, tt.expected[j], actual[j])
			}
		}
	}
}

func TestXMLElementLocations(t *testing.T) {
	input := "<a><b/></a>"
	el, ok := parseTestExpression(t, input).(*XMLElementExpression)
	if !ok {
		t.Fatalf("expected *XMLElementExpression")
	}
	if got := el.Location().Text(); got != input {
		t.Fatalf("element span: expected %q, got %q", input, got)
	}
	if got := el.Element.Content[0].Loc.Text(); got != "<b/>" {
		t.Fatalf("child span: expected %q, got %q", "<b/>", got)
	}
	if el.Element.ClosingTagName == nil || el.Element.ClosingTagName.Name != "a" {
		t.Fatalf("expected closing tag name a, got %+v", el.Element.ClosingTagName)
	}
}

func TestXMLErrors(t *testing.T) {
	tests := []struct {
		input   string
		kind    errors.DiagnosticKind
		message string
	}{
		{"<a></b>", errors.KindMismatchedXmlClosingTag, "Closing tag 'b' does not match opening tag 'a'"},
		{"<a><b></a></b>", errors.KindMismatchedXmlClosingTag, ""},
		{`<a x="1>`, errors.KindUnterminatedString, ""},
		{"<a>text", errors.KindExpected, ""},
		{"<a x/>", errors.KindExpected, ""},
	}

	for i, tt := range tests {
		diag := expectExpressionError(t, tt.input)
		if diag.Kind != tt.kind {
			t.Fatalf("tests[%d] - %q: expected kind %s, got %s (%s)", i, tt.input, tt.kind, diag.Kind, diag.Message())
		}
		if tt.message != "" && diag.Message() != tt.message {
			t.Fatalf("tests[%d] - %q: expected message %q, got %q", i, tt.input, tt.message, diag.Message())
		}
	}

	diag := expectExpressionError(t, "<abc></abd>")
	if got := diag.Location.Text(); got != "abd" {
		t.Fatalf("mismatch location: expected %q, got %q", "abd", got)
	}
}

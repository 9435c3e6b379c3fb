package parser

import (
	"strings"
	"testing"

	"asfront/pkg/errors"
	"asfront/pkg/source"
)

func warningsOf(collector *errors.Collector) []*errors.Diagnostic {
	var out []*errors.Diagnostic
	for _, d := range collector.Diagnostics() {
		if d.IsWarning() {
			out = append(out, d)
		}
	}
	return out
}

func TestParseAsDocTags(t *testing.T) {
	input := `/**
 * Adds two numbers.
 * More text.
 * @param a first operand
 * @param b second
 *   continued
 * @return the sum
 * @see Math#add related
 * @throws ArgumentError when bad
 * @eventType flash.events.Event
 * @inheritDoc
 */
function add(a, b) {}`

	program, collector := parseTestProgram(t, input)
	if w := warningsOf(collector); len(w) != 0 {
		t.Fatalf("unexpected warnings: %v", w)
	}
	fn := program.Directives[0].(*FunctionDefinition)
	doc := fn.AsDoc
	if doc == nil {
		t.Fatalf("expected documentation comment")
	}
	if doc.MainBody != "Adds two numbers.\nMore text." {
		t.Fatalf("unexpected main body %q", doc.MainBody)
	}

	kinds := []AsDocTagKind{AsDocParam, AsDocParam, AsDocReturn, AsDocSee, AsDocThrows, AsDocEventType, AsDocInheritDoc}
	if len(doc.Tags) != len(kinds) {
		t.Fatalf("expected %d tags, got %d", len(kinds), len(doc.Tags))
	}
	for i, kind := range kinds {
		if doc.Tags[i].Kind != kind {
			t.Fatalf("tags[%d] - expected %s, got %s", i, kind, doc.Tags[i].Kind)
		}
	}

	if tag := doc.Tags[0]; tag.Name != "a" || tag.Text != "first operand" {
		t.Fatalf("@param a: got name=%q text=%q", tag.Name, tag.Text)
	}
	if tag := doc.Tags[1]; tag.Name != "b" || !strings.HasPrefix(tag.Text, "second") || !strings.Contains(tag.Text, "continued") {
		t.Fatalf("@param b: got name=%q text=%q", tag.Name, tag.Text)
	}
	if tag := doc.Tags[2]; tag.Text != "the sum" {
		t.Fatalf("@return: got %q", tag.Text)
	}
	if tag := doc.Tags[3]; tag.Reference != "Math#add" || tag.Text != "related" {
		t.Fatalf("@see: got reference=%q text=%q", tag.Reference, tag.Text)
	}
	if tag := doc.Tags[4]; TypeString(tag.Type) != "ArgumentError" || tag.Text != "when bad" {
		t.Fatalf("@throws: got type=%s text=%q", TypeString(tag.Type), tag.Text)
	}
	if tag := doc.Tags[5]; TypeString(tag.Type) != "(tmember (tmember flash events) Event)" {
		t.Fatalf("@eventType: got %s", TypeString(tag.Type))
	}
	if got := doc.Tags[5].Type.Location().Text(); got != "flash.events.Event" {
		t.Fatalf("@eventType type span: got %q", got)
	}
	if got := doc.Tags[0].Loc.Text(); got != "@param" {
		t.Fatalf("tag name span: got %q", got)
	}
}

func TestAsDocAttachment(t *testing.T) {
	input := "/** Meta. */ [Bindable]\n/** Var. */ public var x;\n/** Class. */ class A {\n  /** Method. */ function f() {}\n}"
	program, _ := parseTestProgram(t, input)

	v := program.Directives[0].(*VariableDefinition)
	if meta := v.Annotations.Metadata[0]; meta.AsDoc == nil || meta.AsDoc.MainBody != "Meta." {
		t.Fatalf("metadata doc: got %+v", meta.AsDoc)
	}
	if v.AsDoc == nil || v.AsDoc.MainBody != "Var." {
		t.Fatalf("variable doc: got %+v", v.AsDoc)
	}
	class := program.Directives[1].(*ClassDefinition)
	if class.AsDoc == nil || class.AsDoc.MainBody != "Class." {
		t.Fatalf("class doc: got %+v", class.AsDoc)
	}
	method := class.Block.Directives[0].(*FunctionDefinition)
	if method.AsDoc == nil || method.AsDoc.MainBody != "Method." {
		t.Fatalf("method doc: got %+v", method.AsDoc)
	}
}

func TestAsDocWarnings(t *testing.T) {
	tests := []struct {
		input string
		kind  errors.DiagnosticKind
		span  string
	}{
		{"/** @foo bar */ var x;", errors.KindUnrecognizedAsDocTag, "@foo"},
		{"/** @eventType 1 + */ var x;", errors.KindFailedParsingAsDocTag, "@eventType"},
		{"/** @throws ?? bad */ var x;", errors.KindFailedParsingAsDocTag, "@throws"},
	}

	for i, tt := range tests {
		program, collector := parseTestProgram(t, tt.input)
		warnings := warningsOf(collector)
		if len(warnings) != 1 || warnings[0].Kind != tt.kind {
			t.Fatalf("tests[%d] - %q: expected one %s warning, got %v", i, tt.input, tt.kind, warnings)
		}
		if got := warnings[0].Location.Text(); got != tt.span {
			t.Fatalf("tests[%d] - %q: expected span %q, got %q", i, tt.input, tt.span, got)
		}
		v := program.Directives[0].(*VariableDefinition)
		if v.AsDoc == nil || len(v.AsDoc.Tags) != 0 {
			t.Fatalf("tests[%d] - %q: expected doc without tags, got %+v", i, tt.input, v.AsDoc)
		}
	}
}

func TestAsDocDisabled(t *testing.T) {
	collector := errors.NewCollector()
	p := NewParser(source.NewEvalSource("/** @foo */ function f() {}"), collector, WithAsDoc(false))
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected error: %v", collector.Diagnostics())
	}
	if doc := program.Directives[0].(*FunctionDefinition).AsDoc; doc != nil {
		t.Fatalf("expected no documentation, got %+v", doc)
	}
	if collector.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", collector.Diagnostics())
	}
}

package parser

import (
	"testing"

	"asfront/pkg/errors"
)

func parseTestType(t *testing.T, input string) TypeExpression {
	t.Helper()
	p, collector := newTestParser(input)
	typ, err := p.ParseTypeExpression()
	if err == nil {
		err = p.ExpectEOF()
	}
	if err != nil {
		t.Fatalf("parsing type %q failed: %v", input, collector.Diagnostics())
	}
	return typ
}

func TestParseTypeExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"*", "*"},
		{"void", "void"},
		{"never", "never"},
		{"undefined", "undefined"},
		{"String", "String"},
		{"flash.display.Sprite", "(tmember (tmember flash display) Sprite)"},
		{"?String", "(nullable String)"},
		{"String?", "(nullable String)"},
		{"String!", "(non-nullable String)"},
		{"[int, String]", "(tuple int String)"},
		{"{x: int, y?: String, readonly z}", "(record (field x int) (field y? String) (field readonly z))"},
		{"function(a: int, b?: String, ...c): void", "(tfunction (params a:int b?:String ...c) :void)"},
		{"function()", "(tfunction (params))"},
		{"int | String", "(union int String)"},
		{"| \"a\" | \"b\"", `(union "a" "b")`},
		{"-1", "-1"},
		{"A & B & C", "(complement (complement A B) C)"},
		{"(int | String)?", "(nullable (union int String))"},
	}

	for i, tt := range tests {
		actual := TypeString(parseTestType(t, tt.input))
		if actual != tt.expected {
			t.Fatalf("tests[%d] - %q: expected %s, got %s", i, tt.input, tt.expected, actual)
		}
	}
}

func TestParseGenericTypeArguments(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Vector.<int>", "(tapply Vector int)"},
		{"Map.<String, int>", "(tapply Map String int)"},
		{"Array.<Array.<int>>", "(tapply Array (tapply Array int))"},
		{"A.<A.<A.<int>>>", "(tapply A (tapply A (tapply A int)))"},
	}

	for i, tt := range tests {
		actual := TypeString(parseTestType(t, tt.input))
		if actual != tt.expected {
			t.Fatalf("tests[%d] - %q: expected %s, got %s", i, tt.input, tt.expected, actual)
		}
	}
}

func TestGenericsClosingTokenSplit(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Array.<Array.<int>>", "(apply Array (tapply Array int))"},
		{"v = new <Vector.<int>>[]", "(assign = v (vector (tapply Vector int)))"},
		{"x = a.<T>>= b", "(assign = x (binary >= (apply a T) b))"},
		{"a.<int> >= b", "(binary >= (apply a int) b)"},
		{"f.<A.<B>>(1)", "(call (apply f (tapply A B)) 1)"},
	}

	for i, tt := range tests {
		actual := ExpressionString(parseTestExpression(t, tt.input))
		if actual != tt.expected {
			t.Fatalf("tests[%d] - %q: expected %s, got %s", i, tt.input, tt.expected, actual)
		}
	}
}

func TestGenericsClosingTokenSpans(t *testing.T) {
	input := "Array.<Array.<int>>"
	typ, ok := parseTestType(t, input).(*TypeWithArguments)
	if !ok {
		t.Fatalf("expected *TypeWithArguments")
	}
	if got := typ.Location().Text(); got != input {
		t.Fatalf("outer span: expected %q, got %q", input, got)
	}
	inner := typ.Arguments[0]
	if got := inner.Location().Text(); got != "Array.<int>" {
		t.Fatalf("inner span: expected %q, got %q", "Array.<int>", got)
	}
}

func TestTypeParameterOrderErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  errors.DiagnosticKind
	}{
		{"function(a?: int, b)", errors.KindRequiredParameterAfterOptional},
		{"function(...a, b)", errors.KindParameterAfterRest},
		{"function(...a, ...b)", errors.KindParameterAfterRest},
	}

	for i, tt := range tests {
		p, collector := newTestParser(tt.input)
		if _, err := p.ParseTypeExpression(); !errors.IsFailure(err) {
			t.Fatalf("tests[%d] - %q: expected failure, got %v", i, tt.input, err)
		}
		diags := collector.Errors()
		if len(diags) != 1 || diags[0].Kind != tt.kind {
			t.Fatalf("tests[%d] - %q: expected one %s, got %v", i, tt.input, tt.kind, diags)
		}
	}
}

func TestParseGenericDefinitions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"function identity.<T>(x: T): T { return x; }",
			"(function-def identity (generics T) (params (typed x T)) :T (block (return x)))",
		},
		{
			"function pair.<T, U: Object = String>(a: T, b: U): void {}",
			"(function-def pair (generics T (U : Object = String)) (params (typed a T) (typed b U)) :void (block))",
		},
		{
			"function sorted.<T>(a: Array.<T>): Array.<T> where T: Comparable {}",
			"(function-def sorted (generics T) (where (T Comparable)) (params (typed a (tapply Array T))) :(tapply Array T) (block))",
		},
		{
			"class Box.<T> extends Base.<T> { var value: T; }",
			"(class Box (generics T) (extends (tapply Base T)) (block (var (typed value T))))",
		},
		{
			"type Pair.<A, B> = [A, B];",
			"(type Pair (generics A B) (tuple A B))",
		},
	}

	for i, tt := range tests {
		program, _ := parseTestProgram(t, tt.input)
		if len(program.Directives) != 1 {
			t.Fatalf("tests[%d] - expected 1 directive, got %d", i, len(program.Directives))
		}
		actual := DirectiveString(program.Directives[0])
		if actual != tt.expected {
			t.Fatalf("tests[%d] - %q:\nexpected %s\n     got %s", i, tt.input, tt.expected, actual)
		}
	}
}

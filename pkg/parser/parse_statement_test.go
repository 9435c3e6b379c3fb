package parser

import (
	"strings"
	"testing"

	"asfront/pkg/errors"
)

func directiveStrings(program *Program) []string {
	out := make([]string, len(program.Directives))
	for i, d := range program.Directives {
		out[i] = DirectiveString(d)
	}
	return out
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"if (a) b; else c;", []string{"(if a b c)"}},
		{"if (a) { b }", []string{"(if a (block b))"}},
		{"if (x) /re/.test(y);", []string{"(if x (call (member /re/ test) y))"}},
		{"if (x) /=a/g.test(y);", []string{"(if x (call (member /=a/g test) y))"}},
		{"while (x) x--;", []string{"(while x (unary post-- x))"}},
		{"do x++; while (x < 10)", []string{"(do (unary post++ x) (binary < x 10))"}},
		{"for (var i = 0; i < n; i++) {}", []string{"(for (var (= i 0)) (binary < i n) (unary post++ i) (block))"}},
		{"for (;;) break;", []string{"(for _ _ _ (break))"}},
		{"for (var k in o) {}", []string{"(for-in (var k) o (block))"}},
		{"for (k in o) {}", []string{"(for-in k o (block))"}},
		{"for each (var v: int in o) {}", []string{"(for-each (var (typed v int)) o (block))"}},
		{"switch (x) { case 1: a; break; default: b; }", []string{"(switch x (case 1 a (break)) (default b))"}},
		{
			"switch type (x) { case (s: String) {} default {} }",
			[]string{"(switch-type x (case (typed s String) (block)) (default (block)))"},
		},
		{
			"try {} catch (e: Error) {} catch (e) {} finally {}",
			[]string{"(try (block) (catch (typed e Error) (block)) (catch e (block)) (finally (block)))"},
		},
		{"outer: for (;;) continue outer;", []string{"(label outer (for _ _ _ (continue outer)))"}},
		{`throw new Error("x");`, []string{`(throw (new Error ("x")))`}},
		{"with (o) f();", []string{"(with o (call f))"}},
		{"default xml namespace = ns;", []string{"(default-xml-namespace ns)"}},
		{";", []string{"(empty)"}},
		{"a = 1\nb = 2", []string{"(assign = a 1)", "(assign = b 2)"}},
		{"{ a; } b", []string{"(block a)", "b"}},
		{"function f() { return\n1 }", []string{"(function-def f (params) (block (return) 1))"}},
		{"[1, 2].forEach(f);", []string{"(call (member (array 1 2) forEach) f)"}},
		{"[a]\nfoo()", []string{"(array a)", "(call foo)"}},
	}

	for i, tt := range tests {
		program, _ := parseTestProgram(t, tt.input)
		actual := directiveStrings(program)
		if strings.Join(actual, "\n") != strings.Join(tt.expected, "\n") {
			t.Fatalf("tests[%d] - %q:\nexpected %v\n     got %v", i, tt.input, tt.expected, actual)
		}
	}
}

func TestParseDirectives(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"import flash.display.Sprite;", "(import flash.display.Sprite)"},
		{"import flash.display.*;", "(import flash.display.*)"},
		{"import flash.**;", "(import flash.**)"},
		{"import fd = flash.display.*;", "(import fd = flash.display.*)"},
		{"import a.default.B;", "(import a.default.B)"},
		{"use namespace ns;", "(use-namespace ns)"},
		{`include "other.as";`, `(include "other.as")`},
		{`namespace ns = "http://example.com";`, `(namespace ns "http://example.com")`},
		{"public namespace ns;", "(namespace public ns)"},
		{"enum Color { const RED = 0; const GREEN; }", "(enum Color (block (const (= RED 0)) (const GREEN)))"},
		{"type N = ?Number;", "(type N (nullable Number))"},
		{"const a: int = 1, b;", "(const (= (typed a int) 1) b)"},
		{"var [x, y] = p;", "(var (= (array-pattern x y) p))"},
	}

	for i, tt := range tests {
		program, _ := parseTestProgram(t, tt.input)
		actual := directiveStrings(program)
		if len(actual) != 1 || actual[0] != tt.expected {
			t.Fatalf("tests[%d] - %q:\nexpected %s\n     got %v", i, tt.input, tt.expected, actual)
		}
	}
}

func TestParseClassDefinition(t *testing.T) {
	input := `class A extends B implements I, J {
	public function A() { super(); }
	public function get x(): int { return 1; }
	public function set x(v: int): void {}
	static private var count: int = 0;
	override protected function f(): void {}
	function get(): void {}
}`
	expected := "(class A (extends B) (implements I J) (block" +
		" (constructor public A (params) (block (super-call)))" +
		" (get public x (params) :int (block (return 1)))" +
		" (set public x (params (typed v int)) :void (block))" +
		" (var private static (= (typed count int) 0))" +
		" (function-def protected override f (params) :void (block))" +
		" (function-def get (params) :void (block))))"

	program, _ := parseTestProgram(t, input)
	actual := directiveStrings(program)
	if len(actual) != 1 || actual[0] != expected {
		t.Fatalf("expected\n%s\ngot\n%v", expected, actual)
	}

	class := program.Directives[0].(*ClassDefinition)
	ctor, ok := class.Block.Directives[0].(*ConstructorDefinition)
	if !ok {
		t.Fatalf("expected *ConstructorDefinition, got %T", class.Block.Directives[0])
	}
	if _, ok := ctor.Annotations.AccessModifier.(*ReservedNamespaceExpression); !ok {
		t.Fatalf("expected reserved namespace access modifier, got %T", ctor.Annotations.AccessModifier)
	}
	count := class.Block.Directives[3].(*VariableDefinition)
	if !count.Annotations.Modifiers.Has(ModifierStatic) {
		t.Fatalf("expected static modifier, got %s", count.Annotations.Modifiers)
	}
}

func TestParseInterfaceDefinition(t *testing.T) {
	program, _ := parseTestProgram(t, "interface I extends J, K {\n  function f(): void;\n  function get n(): int\n}")
	expected := "(interface I (extends J K) (block (function-def f (params) :void) (get n (params) :int)))"
	actual := directiveStrings(program)
	if len(actual) != 1 || actual[0] != expected {
		t.Fatalf("expected\n%s\ngot\n%v", expected, actual)
	}
}

func TestParsePackages(t *testing.T) {
	input := `package flash.display {
	import flash.events.Event;
	public class Sprite {}
}
package {
	public function main(): void {}
}
trace("top");`
	program, _ := parseTestProgram(t, input)
	if len(program.Packages) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(program.Packages))
	}
	if name := program.Packages[0].Name(); name != "flash.display" {
		t.Fatalf("expected package name flash.display, got %q", name)
	}
	if name := program.Packages[1].Name(); name != "" {
		t.Fatalf("expected unnamed package, got %q", name)
	}

	expected := `(package flash.display
  (import flash.events.Event)
  (class public Sprite (block))
)
(package
  (function-def public main (params) :void (block))
)
(call trace "top")
`
	if got := NewPrinter().Print(program); got != expected {
		t.Fatalf("expected\n%s\ngot\n%s", expected, got)
	}
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[Bindable] public var x;", "(var [Bindable] public x)"},
		{
			"[Event(name=\"change\", type=\"flash.events.Event\")]\nclass A {}",
			`(class [Event(name="change", type="flash.events.Event")] A (block))`,
		},
		{"[A]\n[B(1, c=d)]\nfunction f() {}", `(function-def [A] [B("1", c="d")] f (params) (block))`},
		{"[ns::Meta] static const k = 1;", "(const [ns::Meta] static (= k 1))"},
	}

	for i, tt := range tests {
		program, _ := parseTestProgram(t, tt.input)
		actual := directiveStrings(program)
		if len(actual) != 1 || actual[0] != tt.expected {
			t.Fatalf("tests[%d] - %q:\nexpected %s\n     got %v", i, tt.input, tt.expected, actual)
		}
	}
}

func TestStatementErrors(t *testing.T) {
	tests := []struct {
		input   string
		kind    errors.DiagnosticKind
		message string
	}{
		{"a = 1 b = 2", errors.KindExpected, "Expected ';' before identifier 'b'"},
		{"try {}", errors.KindExpectedKeyword, "Expected 'catch'"},
		{"switch (x) { y }", errors.KindExpectedKeyword, "Expected 'case'"},
		{"for (var a = 1 in o) {}", errors.KindInvalidDestructuringTarget, ""},
		{"default xml = 1", errors.KindExpectedKeyword, "Expected 'namespace'"},
		{"public 1", errors.KindExpected, "Expected ';'"},
		{"function f(a = 1, b) {}", errors.KindRequiredParameterAfterOptional, ""},
		{"class A { static public 1 }", errors.KindExpected, "Expected definition before numeric literal"},
		{"if (a", errors.KindExpected, "Expected ')'"},
	}

	for i, tt := range tests {
		p, collector := newTestParser(tt.input)
		if _, err := p.ParseProgram(); !errors.IsFailure(err) {
			t.Fatalf("tests[%d] - %q: expected failure, got %v", i, tt.input, err)
		}
		diags := collector.Errors()
		if len(diags) != 1 {
			t.Fatalf("tests[%d] - %q: expected 1 error, got %v", i, tt.input, diags)
		}
		if diags[0].Kind != tt.kind {
			t.Fatalf("tests[%d] - %q: expected kind %s, got %s (%s)", i, tt.input, tt.kind, diags[0].Kind, diags[0].Message())
		}
		if tt.message != "" && !strings.Contains(diags[0].Message(), tt.message) {
			t.Fatalf("tests[%d] - %q: expected message containing %q, got %q", i, tt.input, tt.message, diags[0].Message())
		}
	}
}

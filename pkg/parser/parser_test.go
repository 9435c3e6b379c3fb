package parser

import (
	"strings"
	"testing"

	"asfront/pkg/errors"
	"asfront/pkg/source"
)

func newTestParser(input string) (*Parser, *errors.Collector) {
	collector := errors.NewCollector()
	return NewParser(source.NewEvalSource(input), collector), collector
}

func parseTestExpression(t *testing.T, input string) Expression {
	t.Helper()
	p, collector := newTestParser(input)
	expr, err := p.ParseExpression()
	if err == nil {
		err = p.ExpectEOF()
	}
	if err != nil {
		t.Fatalf("parsing %q failed: %v", input, collector.Diagnostics())
	}
	return expr
}

func parseTestProgram(t *testing.T, input string) (*Program, *errors.Collector) {
	t.Helper()
	p, collector := newTestParser(input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parsing %q failed: %v", input, collector.Diagnostics())
	}
	return program, collector
}

// expectExpressionError parses input and returns the single diagnostic.
func expectExpressionError(t *testing.T, input string) *errors.Diagnostic {
	t.Helper()
	p, collector := newTestParser(input)
	_, err := p.ParseExpression()
	if err == nil {
		err = p.ExpectEOF()
	}
	if !errors.IsFailure(err) {
		t.Fatalf("expected parse of %q to fail, got err=%v", input, err)
	}
	diags := collector.Errors()
	if len(diags) != 1 {
		t.Fatalf("expected 1 error for %q, got %d: %v", input, len(diags), diags)
	}
	return diags[0]
}

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(binary + 1 (binary * 2 3))"},
		{"1 * 2 + 3", "(binary + (binary * 1 2) 3)"},
		{"1 - 2 - 3", "(binary - (binary - 1 2) 3)"},
		{"2 ** 3 ** 2", "(binary ** 2 (binary ** 3 2))"},
		{"a = b = c", "(assign = a (assign = b c))"},
		{"a += b * c", "(assign += a (binary * b c))"},
		{"a || b && c", "(binary || a (binary && b c))"},
		{"a ?? b", "(binary ?? a b)"},
		{"a ^^ b || c", "(binary || (binary ^^ a b) c)"},
		{"a | b ^ c & d", "(binary | a (binary ^ b (binary & c d)))"},
		{"a == b < c", "(binary == a (binary < b c))"},
		{"a << 1 + 2", "(binary << a (binary + 1 2))"},
		{"x is T && y as U", "(binary && (binary is x T) (binary as y U))"},
		{"a in b", "(binary in a b)"},
		{"a ? b : c ? d : e", "(? a b (? c d e))"},
		{"a, b, c", "(seq (seq a b) c)"},
		{"-a * b", "(binary * (unary - a) b)"},
		{"!x", "(unary ! x)"},
		{"typeof x == \"y\"", "(binary == (unary typeof x) \"y\")"},
		{"x++ + --y", "(binary + (unary post++ x) (unary -- y))"},
		{"delete o.p", "(unary delete (member o p))"},
		{"(1 + 2) * 3", "(binary * (paren (binary + 1 2)) 3)"},
	}

	for i, tt := range tests {
		actual := ExpressionString(parseTestExpression(t, tt.input))
		if actual != tt.expected {
			t.Fatalf("tests[%d] - %q: expected %s, got %s", i, tt.input, tt.expected, actual)
		}
	}
}

func TestPrimaryExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"null", "null"},
		{"true", "true"},
		{"this", "this"},
		{"0x10", "0x10"},
		{`"a\nb"`, `"a\nb"`},
		{"[1, , 2]", "(array 1 _ 2)"},
		{"[...a]", "(array (rest a))"},
		{`{a: 1, "s": 2, [k]: 3, ...r}`, `(object (field a 1) (field "s" 2) (field [k] 3) (rest r))`},
		{"{a}", "(object (field a))"},
		{"new A", "(new A)"},
		{"new A()", "(new A ())"},
		{"new a.b.C(1, 2)", "(new (member (member a b) C) (1 2))"},
		{"new <int>[1, 2]", "(vector int 1 2)"},
		{"super.f()", "(call (member (super) f))"},
		{"function (a, b = 1) { return a; }", "(function (params a (optional b 1)) (block (return a)))"},
		{"function f(...rest): void {}", "(function f (params (rest rest)) :void (block))"},
	}

	for i, tt := range tests {
		actual := ExpressionString(parseTestExpression(t, tt.input))
		if actual != tt.expected {
			t.Fatalf("tests[%d] - %q: expected %s, got %s", i, tt.input, tt.expected, actual)
		}
	}
}

func TestMemberAndQualifiedExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a.b.c", "(member (member a b) c)"},
		{"a[k]", "(index a k)"},
		{"f(1)(2)", "(call (call f 1) 2)"},
		{"o.default", "(member o default)"},
		{"ns::x", "ns::x"},
		{"public::x", "public::x"},
		{"ns::[k]", "ns::[k]"},
		{"@id", "@id"},
		{"@[k]", "@[k]"},
		{"o.@id", "(member o @id)"},
		{"o..item", "(descendants o item)"},
		{"o.(@id == 1)", "(filter o (binary == @id 1))"},
		{"*", "*"},
		{"x!", "(! x)"},
		{"x!.y", "(member (! x) y)"},
		{"a.<int>", "(apply a int)"},
	}

	for i, tt := range tests {
		actual := ExpressionString(parseTestExpression(t, tt.input))
		if actual != tt.expected {
			t.Fatalf("tests[%d] - %q: expected %s, got %s", i, tt.input, tt.expected, actual)
		}
	}
}

func TestOptionalChaining(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a?.b", "(?. a (member <host> b))"},
		{"a?.b.c(1)", "(?. a (call (member (member <host> b) c) 1))"},
		{"a?.[k]", "(?. a (index <host> k))"},
		{"a?.(x)", "(?. a (call <host> x))"},
		{"a?.b?.c", "(?. (?. a (member <host> b)) (member <host> c))"},
	}

	for i, tt := range tests {
		actual := ExpressionString(parseTestExpression(t, tt.input))
		if actual != tt.expected {
			t.Fatalf("tests[%d] - %q: expected %s, got %s", i, tt.input, tt.expected, actual)
		}
	}
}

func TestArrowFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"x => x * 2", "(arrow (params x) (binary * x 2))"},
		{"() => 0", "(arrow (params) 0)"},
		{"(a, b) => a + b", "(arrow (params a b) (binary + a b))"},
		{"(a: int, b = 1): int => a", "(arrow (params (typed a int) (optional b 1)) :int a)"},
		{"(a, ...rest) => rest", "(arrow (params a (rest rest)) rest)"},
		{"({x, y}) => x", "(arrow (params (record-pattern x y)) x)"},
		{"(a) => { return a; }", "(arrow (params a) (block (return a)))"},
		{"(a, b): int => a", "(arrow (params a b) :int a)"},
		{"(a = 1): String => a", "(arrow (params (optional a 1)) :String a)"},
		{"c ? (a) : b", "(? c (paren a) b)"},
		{"c ? (a) : b => 1", "(? c (paren a) (arrow (params b) 1))"},
	}

	for i, tt := range tests {
		actual := ExpressionString(parseTestExpression(t, tt.input))
		if actual != tt.expected {
			t.Fatalf("tests[%d] - %q: expected %s, got %s", i, tt.input, tt.expected, actual)
		}
	}
}

func TestDestructuringAssignment(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[a, b] = c", "(assign = (array-pattern a b) c)"},
		{"[a, , ...r] = c", "(assign = (array-pattern a _ (rest r)) c)"},
		{"{a, b: c} = d", "(assign = (record-pattern a (b c)) d)"},
		{"{a: [x, y]} = d", "(assign = (record-pattern (a (array-pattern x y))) d)"},
		{"{a!} = d", "(assign = (record-pattern a!) d)"},
		{`{"k": a, 0: b, [c]: d} = e`, `(assign = (record-pattern ("k" a) (0 b) ([c] d)) e)`},
		{"{ns::a: b} = c", "(assign = (record-pattern (ns::a b)) c)"},
	}

	for i, tt := range tests {
		actual := ExpressionString(parseTestExpression(t, tt.input))
		if actual != tt.expected {
			t.Fatalf("tests[%d] - %q: expected %s, got %s", i, tt.input, tt.expected, actual)
		}
	}
}

func TestExpressionErrors(t *testing.T) {
	tests := []struct {
		input   string
		kind    errors.DiagnosticKind
		message string
	}{
		{"1 +", errors.KindExpectedExpression, "end of program"},
		{"1 = 2", errors.KindInvalidAssignmentTarget, ""},
		{"f() = 2", errors.KindInvalidAssignmentTarget, ""},
		{"[...a, b] = c", errors.KindIllegalRestPosition, ""},
		{"{...a} = c", errors.KindInvalidDestructuringTarget, ""},
		{"[1] = c", errors.KindInvalidDestructuringTarget, ""},
		{"(a, ...b, c) => 0", errors.KindParameterAfterRest, ""},
		{"(a = 1, b) => 0", errors.KindRequiredParameterAfterOptional, ""},
		{"(a: int)", errors.KindExpectedArrow, ""},
		{"(a", errors.KindExpected, "Expected ')'"},
	}

	for i, tt := range tests {
		diag := expectExpressionError(t, tt.input)
		if diag.Kind != tt.kind {
			t.Fatalf("tests[%d] - %q: expected kind %s, got %s (%s)", i, tt.input, tt.kind, diag.Kind, diag.Message())
		}
		if tt.message != "" && !strings.Contains(diag.Message(), tt.message) {
			t.Fatalf("tests[%d] - %q: expected message containing %q, got %q", i, tt.input, tt.message, diag.Message())
		}
	}
}

func TestExpressionLocations(t *testing.T) {
	input := "foo + bar.baz(1)"
	expr := parseTestExpression(t, input)

	binary, ok := expr.(*BinaryExpression)
	if !ok {
		t.Fatalf("expected *BinaryExpression, got %T", expr)
	}
	if got := binary.Location().Text(); got != input {
		t.Fatalf("binary span: expected %q, got %q", input, got)
	}
	if got := binary.Left.Location().Text(); got != "foo" {
		t.Fatalf("left span: expected %q, got %q", "foo", got)
	}
	call, ok := binary.Right.(*CallExpression)
	if !ok {
		t.Fatalf("expected *CallExpression, got %T", binary.Right)
	}
	if got := call.Location().Text(); got != "bar.baz(1)" {
		t.Fatalf("call span: expected %q, got %q", "bar.baz(1)", got)
	}
	if got := call.Base.Location().Text(); got != "bar.baz" {
		t.Fatalf("member span: expected %q, got %q", "bar.baz", got)
	}
}

func TestQualifiedIdentifierToIdentifier(t *testing.T) {
	tests := []struct {
		input string
		name  string
		ok    bool
	}{
		{"x", "x", true},
		{"@x", "", false},
		{"ns::x", "", false},
		{"*", "", false},
		{"@[k]", "", false},
	}

	for i, tt := range tests {
		qi, ok := parseTestExpression(t, tt.input).(*QualifiedIdentifier)
		if !ok {
			t.Fatalf("tests[%d] - %q: expected *QualifiedIdentifier", i, tt.input)
		}
		id, ok := qi.ToIdentifier()
		if ok != tt.ok || id.Value != tt.name {
			t.Fatalf("tests[%d] - %q: expected (%q, %v), got (%q, %v)", i, tt.input, tt.name, tt.ok, id.Value, ok)
		}
	}
}

func TestArenaAllocatesParserNodes(t *testing.T) {
	arena := NewASTArena()
	collector := errors.NewCollector()
	p := NewParser(source.NewEvalSource("a + b * c;"), collector, WithArena(arena))
	if _, err := p.ParseProgram(); err != nil {
		t.Fatalf("unexpected error: %v", collector.Diagnostics())
	}
	if p.Arena() != arena {
		t.Fatalf("parser did not use the supplied arena")
	}
	// three identifiers, two binary expressions, one statement
	if arena.Len() < 6 {
		t.Fatalf("expected at least 6 arena nodes, got %d", arena.Len())
	}
}

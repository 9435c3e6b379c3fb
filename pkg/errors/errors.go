package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"asfront/pkg/source"
)

// ErrParserFailure is returned by every parser production that recorded a
// syntax error. The diagnostic itself lives in the Collector.
var ErrParserFailure = stderrors.New("parser failure")

// ErrTokenizerFailure is returned by the tokenizer after it recorded a lexical error.
var ErrTokenizerFailure = stderrors.New("tokenizer failure")

// IsFailure reports whether err is one of the parse failure sentinels.
func IsFailure(err error) bool {
	return stderrors.Is(err, ErrParserFailure) || stderrors.Is(err, ErrTokenizerFailure)
}

// Severity distinguishes fatal syntax errors from warnings.
type Severity int

const (
	SeveritySyntaxError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "Warning"
	}
	return "Syntax"
}

// DiagnosticKind identifies a diagnostic independently of its rendering.
type DiagnosticKind int

const (
	KindExpected DiagnosticKind = iota
	KindExpectedIdentifier
	KindExpectedKeyword
	KindExpectedExpression
	KindExpectedTypeExpression
	KindExpectedArrow
	KindMismatchedXmlClosingTag
	KindInvalidDestructuringTarget
	KindInvalidAssignmentTarget
	KindRequiredParameterAfterOptional
	KindParameterAfterRest
	KindIllegalRestPosition

	// Lexical
	KindUnexpectedCharacter
	KindUnterminatedString
	KindUnterminatedComment
	KindUnterminatedRegExp
	KindInvalidRegExp
	KindInvalidRegExpFlags
	KindMalformedNumber
	KindUnterminatedXMLMarkup

	// Warnings
	KindUnrecognizedAsDocTag
	KindFailedParsingAsDocTag
)

var kindNames = map[DiagnosticKind]string{
	KindExpected:                       "Expected",
	KindExpectedIdentifier:             "ExpectedIdentifier",
	KindExpectedKeyword:                "ExpectedKeyword",
	KindExpectedExpression:             "ExpectedExpression",
	KindExpectedTypeExpression:         "ExpectedTypeExpression",
	KindExpectedArrow:                  "ExpectedArrow",
	KindMismatchedXmlClosingTag:        "MismatchedXmlClosingTag",
	KindInvalidDestructuringTarget:     "InvalidDestructuringTarget",
	KindInvalidAssignmentTarget:        "InvalidAssignmentTarget",
	KindRequiredParameterAfterOptional: "RequiredParameterAfterOptional",
	KindParameterAfterRest:             "ParameterAfterRest",
	KindIllegalRestPosition:            "IllegalRestPosition",
	KindUnexpectedCharacter:            "UnexpectedCharacter",
	KindUnterminatedString:             "UnterminatedString",
	KindUnterminatedComment:            "UnterminatedComment",
	KindUnterminatedRegExp:             "UnterminatedRegExp",
	KindInvalidRegExp:                  "InvalidRegExp",
	KindInvalidRegExpFlags:             "InvalidRegExpFlags",
	KindMalformedNumber:                "MalformedNumber",
	KindUnterminatedXMLMarkup:          "UnterminatedXMLMarkup",
	KindUnrecognizedAsDocTag:           "UnrecognizedAsDocTag",
	KindFailedParsingAsDocTag:          "FailedParsingAsDocTag",
}

// Default English templates; {N} refers to the N-th argument (1-based).
var kindTemplates = map[DiagnosticKind]string{
	KindExpected:                       "Expected {1} before {2}",
	KindExpectedIdentifier:             "Expected identifier before {1}",
	KindExpectedKeyword:                "Expected '{1}' before {2}",
	KindExpectedExpression:             "Expected expression before {1}",
	KindExpectedTypeExpression:         "Expected type expression before {1}",
	KindExpectedArrow:                  "Expected '=>' before {1}",
	KindMismatchedXmlClosingTag:        "Closing tag '{2}' does not match opening tag '{1}'",
	KindInvalidDestructuringTarget:     "Invalid destructuring target",
	KindInvalidAssignmentTarget:        "Invalid assignment target",
	KindRequiredParameterAfterOptional: "Required parameter must not follow an optional parameter",
	KindParameterAfterRest:             "No parameter may follow a rest parameter",
	KindIllegalRestPosition:            "Rest element must be the last element",
	KindUnexpectedCharacter:            "Unexpected character {1}",
	KindUnterminatedString:             "Unterminated string literal",
	KindUnterminatedComment:            "Unterminated comment",
	KindUnterminatedRegExp:             "Unterminated regular expression",
	KindInvalidRegExp:                  "Invalid regular expression: {1}",
	KindInvalidRegExpFlags:             "Invalid regular expression flags '{1}'",
	KindMalformedNumber:                "Malformed numeric literal '{1}'",
	KindUnterminatedXMLMarkup:          "Unterminated XML markup",
	KindUnrecognizedAsDocTag:           "Unrecognized ASDoc tag '@{1}'",
	KindFailedParsingAsDocTag:          "Failed parsing contents of ASDoc tag '@{1}'",
}

func (k DiagnosticKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "DiagnosticKind(" + strconv.Itoa(int(k)) + ")"
}

// DiagnosticArgument is a typed diagnostic argument.
type DiagnosticArgument interface {
	fmt.Stringer
	diagnosticArgument()
}

// TokenArgument describes a token. Type is the token type spelling.
type TokenArgument struct {
	Type    string
	Literal string
}

func (TokenArgument) diagnosticArgument() {}

func (t TokenArgument) String() string {
	switch t.Type {
	case "EOF":
		return "end of program"
	case "IDENT":
		return "identifier '" + t.Literal + "'"
	case "STRING":
		return "string literal"
	case "NUMBER":
		return "numeric literal"
	case "REGEXP":
		return "regular expression"
	case "XML_NAME":
		return "XML name '" + t.Literal + "'"
	case "XML_TEXT", "XML_WHITESPACE":
		return "XML text"
	case "XML_MARKUP":
		return "XML markup"
	case "XML_ATTRIBUTE_VALUE":
		return "XML attribute value"
	}
	return "'" + t.Type + "'"
}

// StringArgument is a plain text argument, e.g. an expected keyword spelling.
type StringArgument string

func (StringArgument) diagnosticArgument() {}

func (s StringArgument) String() string { return string(s) }

// Diagnostic is a structured syntax error or warning.
type Diagnostic struct {
	Location  source.Location
	Severity  Severity
	Kind      DiagnosticKind
	Arguments []DiagnosticArgument
}

// NewSyntaxError creates an error diagnostic.
func NewSyntaxError(loc source.Location, kind DiagnosticKind, args ...DiagnosticArgument) *Diagnostic {
	return &Diagnostic{Location: loc, Severity: SeveritySyntaxError, Kind: kind, Arguments: args}
}

// NewWarning creates a warning diagnostic.
func NewWarning(loc source.Location, kind DiagnosticKind, args ...DiagnosticArgument) *Diagnostic {
	return &Diagnostic{Location: loc, Severity: SeverityWarning, Kind: kind, Arguments: args}
}

func (d *Diagnostic) Error() string {
	pos := d.Pos()
	return fmt.Sprintf("%s at %d:%d: %s", d.Label(), pos.Line, pos.Column, d.Message())
}

// Pos returns the flattened position of the diagnostic.
func (d *Diagnostic) Pos() Position { return PositionOf(d.Location) }

// Label is "Syntax Error" or "Warning".
func (d *Diagnostic) Label() string {
	if d.Severity == SeverityWarning {
		return "Warning"
	}
	return "Syntax Error"
}

// IsWarning reports whether the diagnostic is non-fatal.
func (d *Diagnostic) IsWarning() bool { return d.Severity == SeverityWarning }

// Message renders the default English message without position info.
func (d *Diagnostic) Message() string {
	tmpl, ok := kindTemplates[d.Kind]
	if !ok {
		return d.Kind.String()
	}
	for i, arg := range d.Arguments {
		tmpl = strings.ReplaceAll(tmpl, "{"+strconv.Itoa(i+1)+"}", arg.String())
	}
	return tmpl
}

// Collector is the append-only diagnostics sink for one source unit.
// It has a single writer: the parser that owns the token cursor.
type Collector struct {
	diagnostics []*Diagnostic
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends a diagnostic.
func (c *Collector) Add(d *Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns every recorded diagnostic in insertion order.
func (c *Collector) Diagnostics() []*Diagnostic {
	return c.diagnostics
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int { return len(c.diagnostics) }

// HasErrors reports whether any non-warning diagnostic was recorded.
func (c *Collector) HasErrors() bool {
	for _, d := range c.diagnostics {
		if !d.IsWarning() {
			return true
		}
	}
	return false
}

// Errors returns only the syntax errors.
func (c *Collector) Errors() []*Diagnostic {
	var out []*Diagnostic
	for _, d := range c.diagnostics {
		if !d.IsWarning() {
			out = append(out, d)
		}
	}
	return out
}

// --- Error Reporting ---

// DisplayDiagnostics writes diagnostics to w in a user-friendly format,
// including the source line and position marker.
func DisplayDiagnostics(w io.Writer, diagnostics []*Diagnostic) {
	for _, d := range diagnostics {
		pos := d.Pos()
		name := "<unknown>"
		if pos.Source != nil {
			name = pos.Source.DisplayPath()
		}

		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", name, pos.Line, pos.Column, d.Label(), d.Message())

		if pos.Source == nil {
			continue
		}
		lines := pos.Source.Lines()
		lineIdx := pos.Line - 1
		if lineIdx < 0 || lineIdx >= len(lines) {
			continue
		}
		sourceLine := strings.TrimRight(lines[lineIdx], "\r\n\t ")
		fmt.Fprintf(w, "  %s\n", sourceLine)

		width := pos.EndPos - pos.StartPos
		if width < 1 {
			width = 1
		}
		if rest := len(sourceLine) - (pos.Column - 1); width > rest && rest > 0 {
			width = rest
		}
		marker := strings.Repeat(" ", pos.Column-1) + "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "  %s\n\n", marker)
	}
}

package parser

import (
	"fmt"

	"asfront/pkg/errors"
	"asfront/pkg/lexer"
	"asfront/pkg/source"
)

// --- Debug Flag ---
const debugParser = false

func debugPrint(format string, args ...interface{}) {
	if debugParser {
		fmt.Printf("[Parser Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

// scanMode selects how the tokenizer reads the next token.
type scanMode int

const (
	scanDefault    scanMode = iota // reserved words recognized
	scanNoReserved                 // reserved words read as identifiers (after '.', '::', '@')
	scanXMLTag
	scanXMLContent
)

// Option configures a Parser.
type Option func(*Parser)

// WithAsDoc toggles parsing of documentation comments attached to definitions.
func WithAsDoc(enabled bool) Option {
	return func(p *Parser) { p.parseAsDoc = enabled }
}

// WithArena makes the parser allocate hot nodes from arena.
func WithArena(arena *ASTArena) Option {
	return func(p *Parser) { p.arena = arena }
}

// Parser turns tokens from a Tokenizer into an AST. It keeps exactly one
// token of lookahead (current) plus the last consumed token (previous).
type Parser struct {
	tokenizer   *lexer.Tokenizer
	source      *source.SourceFile
	diagnostics *errors.Collector
	arena       *ASTArena

	previous lexer.Token
	current  lexer.Token
	primed   bool

	parseAsDoc bool
	asdocs     map[*lexer.Comment]*AsDoc

	// Context tracking
	functions  []*FunctionFlags // flags of the enclosing function bodies, innermost last
	classNames []string         // enclosing class names, innermost last
}

// NewParser creates a parser reading the whole of src. Diagnostics are
// appended to collector.
func NewParser(src *source.SourceFile, collector *errors.Collector, opts ...Option) *Parser {
	return NewParserFromTokenizer(lexer.NewTokenizer(src, collector), collector, opts...)
}

// NewParserFromTokenizer creates a parser over an existing tokenizer.
func NewParserFromTokenizer(t *lexer.Tokenizer, collector *errors.Collector, opts ...Option) *Parser {
	p := &Parser{
		tokenizer:   t,
		source:      t.Source(),
		diagnostics: collector,
		parseAsDoc:  true,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.arena == nil {
		p.arena = NewASTArena()
	}
	return p
}

// Arena returns the arena backing this parser's nodes.
func (p *Parser) Arena() *ASTArena {
	return p.arena
}

// Diagnostics returns the collector the parser reports to.
func (p *Parser) Diagnostics() *errors.Collector {
	return p.diagnostics
}

// ParseProgram parses packages followed by top-level directives until EOF.
// On failure the partially built program is returned with the error; the
// diagnostic is in the collector.
func (p *Parser) ParseProgram() (*Program, error) {
	program := &Program{}
	if err := p.prime(); err != nil {
		return program, err
	}
	start := p.current.Location
	program.Loc = start

	for p.current.Type == lexer.PACKAGE {
		pkg, err := p.parsePackageDefinition()
		if err != nil {
			return program, err
		}
		program.Packages = append(program.Packages, pkg)
	}

	directives, err := p.parseDirectives(directiveContext{kind: contextTopLevel}, lexer.EOF)
	program.Directives = directives
	program.Loc = start.CombineWith(p.current.Location)
	return program, err
}

// ParseExpression parses a comma-separated expression with 'in' allowed.
func (p *Parser) ParseExpression() (Expression, error) {
	if err := p.prime(); err != nil {
		return nil, err
	}
	return p.parseExpression(exprContext{minPrecedence: PrecedenceList, allowIn: true})
}

// ParseTypeExpression parses one type expression.
func (p *Parser) ParseTypeExpression() (TypeExpression, error) {
	if err := p.prime(); err != nil {
		return nil, err
	}
	return p.parseTypeExpression()
}

// ExpectEOF fails unless all input has been consumed.
func (p *Parser) ExpectEOF() error {
	if err := p.prime(); err != nil {
		return err
	}
	return p.expect(lexer.EOF)
}

func (p *Parser) prime() error {
	if p.primed {
		return nil
	}
	p.primed = true
	return p.next()
}

// --- Cursor ---

func (p *Parser) advance(mode scanMode) error {
	var (
		tok lexer.Token
		err error
	)
	switch mode {
	case scanNoReserved:
		tok, err = p.tokenizer.ScanDefault(false)
	case scanXMLTag:
		tok, err = p.tokenizer.ScanXMLTag()
	case scanXMLContent:
		tok, err = p.tokenizer.ScanXMLContent()
	default:
		tok, err = p.tokenizer.ScanDefault(true)
	}
	if err != nil {
		return err
	}
	p.previous = p.current
	p.current = tok
	debugPrint("advance: prev=%s cur=%s %q", p.previous.Type, p.current.Type, p.current.Literal)
	return nil
}

func (p *Parser) next() error {
	return p.advance(scanDefault)
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.current.Type == t
}

// consume advances past the current token when it has type t.
func (p *Parser) consume(t lexer.TokenType) (bool, error) {
	if p.current.Type != t {
		return false, nil
	}
	return true, p.next()
}

// expect advances past a token of type t or reports Expected.
func (p *Parser) expect(t lexer.TokenType) error {
	return p.expectThen(t, scanDefault)
}

// expectThen is expect with an explicit scanning mode for the token after t.
func (p *Parser) expectThen(t lexer.TokenType, mode scanMode) error {
	if p.current.Type != t {
		return p.syntaxError(p.current.Location, errors.KindExpected, lexer.TypeArgument(t), p.current.Argument())
	}
	return p.advance(mode)
}

// identifierName returns the identifier spelling of the current token.
// Reserved words qualify when reservedWords is set.
func (p *Parser) identifierName(reservedWords bool) (string, bool) {
	if p.current.Type == lexer.IDENT {
		return p.current.Literal, true
	}
	if reservedWords {
		return p.current.KeywordName()
	}
	return "", false
}

// consumeIdentifier consumes an identifier, or any reserved word when
// reservedWords is set.
func (p *Parser) consumeIdentifier(reservedWords bool) (Identifier, bool, error) {
	name, ok := p.identifierName(reservedWords)
	if !ok {
		return Identifier{}, false, nil
	}
	id := Identifier{Value: name, Loc: p.current.Location}
	return id, true, p.next()
}

func (p *Parser) expectIdentifier(reservedWords bool) (Identifier, error) {
	id, ok, err := p.consumeIdentifier(reservedWords)
	if err != nil {
		return id, err
	}
	if !ok {
		return id, p.syntaxError(p.current.Location, errors.KindExpectedIdentifier, p.current.Argument())
	}
	return id, nil
}

// consumeContextKeyword consumes an identifier spelled name.
func (p *Parser) consumeContextKeyword(name string) (bool, error) {
	if !p.current.IsContextKeyword(name) {
		return false, nil
	}
	return true, p.next()
}

func (p *Parser) expectContextKeyword(name string) error {
	if !p.current.IsContextKeyword(name) {
		return p.syntaxError(p.current.Location, errors.KindExpectedKeyword, errors.StringArgument(name), p.current.Argument())
	}
	return p.next()
}

// expectGenericsGT consumes the '>' closing a type argument list. A compound
// token starting with '>' (">>", ">=", ">>>=", ...) is split: its first
// character is consumed and the rest stays current.
func (p *Parser) expectGenericsGT() error {
	if p.current.Type == lexer.GT {
		return p.next()
	}
	_, rest, ok := lexer.SplitGT(p.current.Type)
	if !ok {
		return p.expect(lexer.GT)
	}
	peeled := p.current
	peeled.Type = lexer.GT
	peeled.Literal = ">"
	peeled.Location.LastOffset = peeled.Location.FirstOffset + 1
	p.previous = peeled

	p.current.Type = rest
	p.current.Literal = p.current.Literal[1:]
	p.current.Location.FirstOffset++
	p.current.PrecededByLineBreak = false
	p.current.Doc = nil
	return nil
}

// semicolon ends a statement: an explicit ';', or automatically before '}',
// end of program, or a line break.
func (p *Parser) semicolon() error {
	switch {
	case p.current.Type == lexer.SEMICOLON:
		return p.next()
	case p.current.Type == lexer.RBRACE, p.current.Type == lexer.EOF, p.current.PrecededByLineBreak:
		return nil
	}
	return p.syntaxError(p.current.Location, errors.KindExpected, lexer.TypeArgument(lexer.SEMICOLON), p.current.Argument())
}

// span covers from start to the last consumed token.
func (p *Parser) span(start source.Location) source.Location {
	return start.CombineWith(p.previous.Location)
}

// --- Errors ---

// syntaxError records a diagnostic and returns the failure sentinel.
func (p *Parser) syntaxError(loc source.Location, kind errors.DiagnosticKind, args ...errors.DiagnosticArgument) error {
	debugPrint("syntax error: %s at %s", kind, loc)
	p.diagnostics.Add(errors.NewSyntaxError(loc, kind, args...))
	return errors.ErrParserFailure
}

func (p *Parser) warning(loc source.Location, kind errors.DiagnosticKind, args ...errors.DiagnosticArgument) {
	p.diagnostics.Add(errors.NewWarning(loc, kind, args...))
}

// --- Function context ---

func (p *Parser) enterFunction() *FunctionFlags {
	flags := new(FunctionFlags)
	p.functions = append(p.functions, flags)
	return flags
}

func (p *Parser) exitFunction() {
	p.functions = p.functions[:len(p.functions)-1]
}

func (p *Parser) markFunction(flag FunctionFlags) {
	if n := len(p.functions); n > 0 {
		*p.functions[n-1] |= flag
	}
}

func (p *Parser) currentClassName() string {
	if n := len(p.classNames); n > 0 {
		return p.classNames[n-1]
	}
	return ""
}

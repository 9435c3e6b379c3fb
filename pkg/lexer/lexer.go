package lexer

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"

	"asfront/pkg/errors"
	"asfront/pkg/source"
)

// --- Debug Flag ---
const debugLexer = false

func debugPrint(format string, args ...interface{}) {
	if debugLexer {
		fmt.Printf("[Lexer Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

const eof rune = -1

// Tokenizer holds the state of the scanner. It does not choose its own
// scanning mode: the parser calls ScanDefault, ScanXMLTag or ScanXMLContent
// depending on the grammatical context of the next token.
type Tokenizer struct {
	source    *source.SourceFile
	input     string
	collector *errors.Collector

	position     int  // byte offset of ch
	readPosition int  // byte offset after ch
	end          int  // scanning stops here
	ch           rune // current char under examination
	line         int  // 1-based line of position

	lastEndsExpression bool // '/' after such a token is division
	lineBreak          bool // a line terminator was skipped before the next token
	doc                *Comment
}

// NewTokenizer creates a tokenizer over the whole source file.
func NewTokenizer(src *source.SourceFile, collector *errors.Collector) *Tokenizer {
	return NewTokenizerRange(src, 0, len(src.Content), collector)
}

// NewTokenizerRange creates a tokenizer over the byte range [start, end) of src.
// Token locations stay relative to the whole file.
func NewTokenizerRange(src *source.SourceFile, start, end int, collector *errors.Collector) *Tokenizer {
	if end > len(src.Content) {
		end = len(src.Content)
	}
	if start > end {
		start = end
	}
	l := &Tokenizer{
		source:       src,
		input:        src.Content,
		collector:    collector,
		readPosition: start,
		end:          end,
		line:         src.LineAt(start),
	}
	l.readChar()
	return l
}

// Source returns the file being scanned.
func (l *Tokenizer) Source() *source.SourceFile {
	return l.source
}

// End returns the byte offset where scanning stops.
func (l *Tokenizer) End() int {
	return l.end
}

// CurrentPosition returns the tokenizer's current byte position in the input.
func (l *Tokenizer) CurrentPosition() int {
	return l.position
}

// readChar gives us the next character and advances our position in the input string.
// It also updates the line count.
func (l *Tokenizer) readChar() {
	if l.ch == '\n' {
		l.line++
	}
	l.position = l.readPosition
	if l.readPosition >= l.end {
		l.ch = eof
		l.position = l.end
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:l.end])
	l.ch = r
	l.readPosition += w
}

// peekChar looks ahead in the input without consuming the character.
func (l *Tokenizer) peekChar() rune {
	if l.readPosition >= l.end {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:l.end])
	return r
}

// hasPrefix reports whether the input at the current position starts with s.
func (l *Tokenizer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.position:l.end], s)
}

// advanceBytes skips n bytes of ASCII input.
func (l *Tokenizer) advanceBytes(n int) {
	for i := 0; i < n; i++ {
		l.readChar()
	}
}

func (l *Tokenizer) location(start, startLine int) source.Location {
	return source.Location{Source: l.source, Line: startLine, FirstOffset: start, LastOffset: l.position}
}

func (l *Tokenizer) fail(loc source.Location, kind errors.DiagnosticKind, args ...errors.DiagnosticArgument) error {
	l.collector.Add(errors.NewSyntaxError(loc, kind, args...))
	return errors.ErrTokenizerFailure
}

// emit finishes a token that started at start and attaches pending trivia.
func (l *Tokenizer) emit(t TokenType, literal string, start, startLine int) Token {
	tok := Token{
		Type:                t,
		Literal:             literal,
		Location:            l.location(start, startLine),
		PrecededByLineBreak: l.lineBreak,
		Doc:                 l.doc,
	}
	l.lineBreak = false
	l.doc = nil
	l.lastEndsExpression = endsExpression[t]
	debugPrint("%s %q at %d..%d", t, literal, start, l.position)
	return tok
}

// --- Default mode ---

// ScanDefault scans the next ordinary token. When reservedWords is false,
// reserved words are returned as IDENT tokens (member names after '.', '::', '@').
func (l *Tokenizer) ScanDefault(reservedWords bool) (Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}

	start, startLine := l.position, l.line

	switch {
	case l.ch == eof:
		return l.emit(EOF, "", start, startLine), nil
	case isIdentifierStart(l.ch):
		literal := l.readIdentifier()
		tokType := IDENT
		if reservedWords {
			tokType = LookupIdent(literal)
		}
		return l.emit(tokType, literal, start, startLine), nil
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		return l.scanNumber(start, startLine)
	case l.ch == '"' || l.ch == '\'':
		literal, err := l.readString(l.ch, start, startLine)
		if err != nil {
			return Token{}, err
		}
		return l.emit(STRING, literal, start, startLine), nil
	case l.ch == '/' && !l.lastEndsExpression:
		return l.scanRegExp(start, startLine)
	case l.ch == '<' && !l.lastEndsExpression && (l.hasPrefix("<!--") || l.hasPrefix("<![CDATA[") || l.hasPrefix("<?")):
		literal, err := l.readXMLMarkup(start, startLine)
		if err != nil {
			return Token{}, err
		}
		return l.emit(XML_MARKUP, literal, start, startLine), nil
	}

	for _, p := range punctuators {
		if l.hasPrefix(string(p)) {
			if p == OPTIONAL_CHAINING && l.readPosition+1 < l.end && isDigit(rune(l.input[l.readPosition+1])) {
				// `a?.5:b` is a conditional
				p = QUESTION
			}
			l.advanceBytes(len(p))
			return l.emit(p, string(p), start, startLine), nil
		}
	}

	ch := l.ch
	l.readChar()
	return Token{}, l.fail(l.location(start, startLine), errors.KindUnexpectedCharacter, errors.StringArgument(strconv.QuoteRune(ch)))
}

// skipWhitespaceAndComments consumes whitespace and comments, recording line
// breaks and the last documentation comment for the next token.
func (l *Tokenizer) skipWhitespaceAndComments() error {
	for {
		switch {
		case l.ch == '\n' || l.ch == '\r' || l.ch == '\u2028' || l.ch == '\u2029':
			l.lineBreak = true
			l.readChar()
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\v' || l.ch == '\f' || l.ch == '\u00a0' || l.ch == '\ufeff' || unicode.Is(unicode.Zs, l.ch):
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			l.skipComment()
		case l.ch == '/' && l.peekChar() == '*':
			if err := l.skipMultilineComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// skipComment reads until the end of the line.
func (l *Tokenizer) skipComment() {
	for l.ch != '\n' && l.ch != '\r' && l.ch != eof {
		l.readChar()
	}
	// Don't skip the newline itself, the caller records it as a line break
}

// skipMultilineComment consumes a `/* */` comment. `/** */` comments are
// kept as the pending documentation comment.
func (l *Tokenizer) skipMultilineComment() error {
	start, startLine := l.position, l.line
	isDoc := l.hasPrefix("/**") && !l.hasPrefix("/**/")
	l.advanceBytes(2)

	for {
		if l.ch == eof {
			return l.fail(l.location(start, startLine), errors.KindUnterminatedComment)
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.advanceBytes(2)
			break
		}
		if l.ch == '\n' || l.ch == '\r' {
			l.lineBreak = true
		}
		l.readChar()
	}

	if isDoc {
		l.doc = &Comment{
			Content:  l.input[start+3 : l.position-2],
			Location: l.location(start, startLine),
		}
	}
	return nil
}

// readIdentifier reads an identifier and advances the tokenizer's position.
// Non-ASCII identifiers are returned in NFC.
func (l *Tokenizer) readIdentifier() string {
	startPos := l.position
	ascii := true
	for isIdentifierPart(l.ch) {
		if l.ch >= utf8.RuneSelf {
			ascii = false
		}
		l.readChar()
	}
	literal := l.input[startPos:l.position]
	if !ascii {
		literal = norm.NFC.String(literal)
	}
	return literal
}

func (l *Tokenizer) scanNumber(start, startLine int) (Token, error) {
	literal := l.readNumber()
	if isIdentifierPart(l.ch) {
		for isIdentifierPart(l.ch) || l.ch == '.' {
			l.readChar()
		}
		return Token{}, l.fail(l.location(start, startLine), errors.KindMalformedNumber, errors.StringArgument(l.input[start:l.position]))
	}
	value, err := NumericValue(literal)
	if err != nil {
		return Token{}, l.fail(l.location(start, startLine), errors.KindMalformedNumber, errors.StringArgument(literal))
	}
	tok := l.emit(NUMBER, literal, start, startLine)
	tok.Value = value
	return tok, nil
}

// readNumber reads a number literal (integer or float, various bases) and advances the tokenizer's position.
// Handles decimal (optional exponent/fraction), hex (0x), binary (0b), octal (0o).
// Handles numeric separators '_'.
// Returns the raw literal string found.
func (l *Tokenizer) readNumber() string {
	startPos := l.position
	base := 10

	// 1. Check for base prefix (0x, 0b, 0o)
	if l.ch == '0' {
		switch l.peekChar() {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}
		if base != 10 {
			l.advanceBytes(2)
		}
	}

	// 2. Read integer part
	l.readDigits(base)

	if base != 10 {
		return l.input[startPos:l.position]
	}

	// 3. Read fractional part
	if l.ch == '.' && l.peekChar() != '.' {
		l.readChar()
		l.readDigits(10)
	}

	// 4. Read exponent part
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			l.readDigits(10)
		}
	}

	return l.input[startPos:l.position]
}

// readDigits consumes digits of the given base and '_' separators placed between digits.
func (l *Tokenizer) readDigits(base int) {
	for {
		if isDigitForBase(l.ch, base) {
			l.readChar()
		} else if l.ch == '_' && l.position > 0 && isDigitForBase(rune(l.input[l.position-1]), base) && isDigitForBase(l.peekChar(), base) {
			l.readChar()
		} else {
			return
		}
	}
}

// NumericValue converts a numeric literal (with base prefix and separators) to a float64.
func NumericValue(literal string) (float64, error) {
	s := strings.ReplaceAll(literal, "_", "")
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}
		if base != 0 {
			n, ok := new(big.Int).SetString(s[2:], base)
			if !ok {
				return 0, fmt.Errorf("invalid numeric literal %q", literal)
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f, nil
		}
		return 0, err
	}
	return f, nil
}

// readString reads a string literal enclosed in the given quote character
// and returns its decoded value. The tokenizer ends after the closing quote.
func (l *Tokenizer) readString(quote rune, start, startLine int) (string, error) {
	var builder strings.Builder
	l.readChar() // opening quote

	for {
		switch l.ch {
		case quote:
			l.readChar()
			return builder.String(), nil
		case eof, '\n', '\r':
			return "", l.fail(l.location(start, startLine), errors.KindUnterminatedString)
		case '\\':
			l.readChar()
			if err := l.readEscape(&builder, start, startLine); err != nil {
				return "", err
			}
			continue
		}
		builder.WriteRune(l.ch)
		l.readChar()
	}
}

// readEscape decodes one escape sequence; ch is the character after the backslash.
func (l *Tokenizer) readEscape(builder *strings.Builder, start, startLine int) error {
	switch l.ch {
	case 'n':
		builder.WriteByte('\n')
	case 't':
		builder.WriteByte('\t')
	case 'r':
		builder.WriteByte('\r')
	case 'b':
		builder.WriteByte('\b')
	case 'f':
		builder.WriteByte('\f')
	case 'v':
		builder.WriteByte('\v')
	case '0':
		builder.WriteByte(0)
	case '\r':
		// line continuation
		if l.peekChar() == '\n' {
			l.readChar()
		}
	case '\n', '\u2028', '\u2029':
		// line continuation
	case 'x':
		l.readChar()
		return l.readHexEscape(builder, 2, start, startLine)
	case 'u':
		l.readChar()
		if l.ch == '{' {
			l.readChar()
			hexStart := l.position
			for isHexDigit(l.ch) {
				l.readChar()
			}
			if l.ch != '}' || hexStart == l.position {
				return l.fail(l.location(start, startLine), errors.KindUnterminatedString)
			}
			n, err := strconv.ParseUint(l.input[hexStart:l.position], 16, 32)
			if err != nil || n > unicode.MaxRune {
				return l.fail(l.location(start, startLine), errors.KindUnterminatedString)
			}
			builder.WriteRune(rune(n))
			l.readChar()
			return nil
		}
		return l.readHexEscape(builder, 4, start, startLine)
	case eof:
		return l.fail(l.location(start, startLine), errors.KindUnterminatedString)
	default:
		builder.WriteRune(l.ch)
	}
	l.readChar()
	return nil
}

func (l *Tokenizer) readHexEscape(builder *strings.Builder, digits, start, startLine int) error {
	hexStart := l.position
	for i := 0; i < digits; i++ {
		if !isHexDigit(l.ch) {
			return l.fail(l.location(start, startLine), errors.KindUnterminatedString)
		}
		l.readChar()
	}
	n, _ := strconv.ParseUint(l.input[hexStart:l.position], 16, 32)
	builder.WriteRune(rune(n))
	return nil
}

// --- Regular expressions ---

func (l *Tokenizer) scanRegExp(start, startLine int) (Token, error) {
	l.readChar() // opening '/'
	inClass := false
scan:
	for {
		switch l.ch {
		case eof, '\n', '\r':
			return Token{}, l.fail(l.location(start, startLine), errors.KindUnterminatedRegExp)
		case '\\':
			l.readChar()
			if l.ch == eof || l.ch == '\n' || l.ch == '\r' {
				return Token{}, l.fail(l.location(start, startLine), errors.KindUnterminatedRegExp)
			}
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				break scan
			}
		}
		l.readChar()
	}

	body := l.input[start+1 : l.position]
	l.readChar() // closing '/'

	flagsStart := l.position
	for isIdentifierPart(l.ch) {
		l.readChar()
	}
	flags := l.input[flagsStart:l.position]

	if err := l.validateRegExp(body, flags, start, startLine); err != nil {
		return Token{}, err
	}

	tok := l.emit(REGEXP, body, start, startLine)
	tok.Flags = flags
	return tok, nil
}

// RescanRegExp re-reads tok, a '/' or '/=' token the tokenizer has just
// returned, as the start of a regular expression literal. The parser calls it
// where an operand is expected.
func (l *Tokenizer) RescanRegExp(tok Token) (Token, error) {
	start := tok.Location.FirstOffset
	l.ch = 0
	l.readPosition = start
	l.line = tok.Location.Line
	l.readChar()
	l.lineBreak = tok.PrecededByLineBreak
	l.doc = tok.Doc
	return l.scanRegExp(start, tok.Location.Line)
}

// validateRegExp checks the flags and compiles the body with regexp2.
func (l *Tokenizer) validateRegExp(body, flags string, start, startLine int) error {
	var opts regexp2.RegexOptions = regexp2.ECMAScript
	var extended regexp2.RegexOptions
	seen := map[rune]bool{}
	for _, f := range flags {
		if seen[f] || !strings.ContainsRune("gimsx", f) {
			return l.fail(l.location(start, startLine), errors.KindInvalidRegExpFlags, errors.StringArgument(flags))
		}
		seen[f] = true
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			extended |= regexp2.Singleline
		case 'x':
			extended |= regexp2.IgnorePatternWhitespace
		}
	}
	if extended != 0 {
		// ECMAScript mode cannot be combined with these options.
		opts = opts&^regexp2.ECMAScript | extended
	}
	if _, err := regexp2.Compile(body, opts); err != nil {
		return l.fail(l.location(start, startLine), errors.KindInvalidRegExp, errors.StringArgument(err.Error()))
	}
	return nil
}

// --- XML modes ---

// ScanXMLTag scans the next token inside an XML start or end tag.
func (l *Tokenizer) ScanXMLTag() (Token, error) {
	for isXMLWhitespace(l.ch) {
		if l.ch == '\n' || l.ch == '\r' {
			l.lineBreak = true
		}
		l.readChar()
	}

	start, startLine := l.position, l.line
	switch {
	case l.ch == eof:
		return l.emit(EOF, "", start, startLine), nil
	case l.ch == '=':
		l.readChar()
		return l.emit(ASSIGN, "=", start, startLine), nil
	case l.ch == '>':
		l.readChar()
		tok := l.emit(GT, ">", start, startLine)
		l.lastEndsExpression = true
		return tok, nil
	case l.ch == '/' && l.peekChar() == '>':
		l.advanceBytes(2)
		tok := l.emit(XML_SLASH_GT, "/>", start, startLine)
		l.lastEndsExpression = true
		return tok, nil
	case l.ch == '{':
		l.readChar()
		return l.emit(LBRACE, "{", start, startLine), nil
	case l.ch == '"' || l.ch == '\'':
		quote := l.ch
		l.readChar()
		valueStart := l.position
		for l.ch != quote {
			if l.ch == eof {
				return Token{}, l.fail(l.location(start, startLine), errors.KindUnterminatedString)
			}
			l.readChar()
		}
		value := l.input[valueStart:l.position]
		l.readChar()
		return l.emit(XML_ATTRIBUTE_VALUE, value, start, startLine), nil
	case isXMLNameStart(l.ch):
		for isXMLNamePart(l.ch) {
			l.readChar()
		}
		return l.emit(XML_NAME, norm.NFC.String(l.input[start:l.position]), start, startLine), nil
	}

	ch := l.ch
	l.readChar()
	return Token{}, l.fail(l.location(start, startLine), errors.KindUnexpectedCharacter, errors.StringArgument(strconv.QuoteRune(ch)))
}

// ScanXMLContent scans raw element content until the next '<' or '{'.
func (l *Tokenizer) ScanXMLContent() (Token, error) {
	start, startLine := l.position, l.line
	switch {
	case l.ch == eof:
		return l.emit(EOF, "", start, startLine), nil
	case l.hasPrefix("</"):
		l.advanceBytes(2)
		return l.emit(XML_LT_SLASH, "</", start, startLine), nil
	case l.hasPrefix("<!--") || l.hasPrefix("<![CDATA[") || l.hasPrefix("<?"):
		literal, err := l.readXMLMarkup(start, startLine)
		if err != nil {
			return Token{}, err
		}
		return l.emit(XML_MARKUP, literal, start, startLine), nil
	case l.ch == '<':
		l.readChar()
		return l.emit(LT, "<", start, startLine), nil
	case l.ch == '{':
		l.readChar()
		return l.emit(LBRACE, "{", start, startLine), nil
	}

	for l.ch != eof && l.ch != '<' && l.ch != '{' {
		l.readChar()
	}
	return l.emit(XML_TEXT, l.input[start:l.position], start, startLine), nil
}

// readXMLMarkup reads a comment, CDATA section or processing instruction.
func (l *Tokenizer) readXMLMarkup(start, startLine int) (string, error) {
	var terminator string
	switch {
	case l.hasPrefix("<!--"):
		terminator = "-->"
		l.advanceBytes(4)
	case l.hasPrefix("<![CDATA["):
		terminator = "]]>"
		l.advanceBytes(9)
	default:
		terminator = "?>"
		l.advanceBytes(2)
	}
	for !l.hasPrefix(terminator) {
		if l.ch == eof {
			return "", l.fail(l.location(start, startLine), errors.KindUnterminatedXMLMarkup)
		}
		l.readChar()
	}
	l.advanceBytes(len(terminator))
	return l.input[start:l.position], nil
}

// --- Character classes ---

func isIdentifierStart(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$' ||
		ch >= utf8.RuneSelf && unicode.IsLetter(ch)
}

func isIdentifierPart(ch rune) bool {
	return isIdentifierStart(ch) || isDigit(ch) ||
		ch >= utf8.RuneSelf && (unicode.IsDigit(ch) || unicode.In(ch, unicode.Mn, unicode.Mc, unicode.Pc))
}

func isXMLWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isXMLNameStart(ch rune) bool {
	return isIdentifierStart(ch) || ch == ':'
}

func isXMLNamePart(ch rune) bool {
	return isIdentifierPart(ch) || ch == ':' || ch == '.' || ch == '-'
}

// isDigit checks if the character is a digit.
func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// isHexDigit checks if the character is a hexadecimal digit (0-9, a-f, A-F).
func isHexDigit(ch rune) bool {
	return ('0' <= ch && ch <= '9') || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

// isDigitForBase checks if the character is a valid digit for the given base.
func isDigitForBase(ch rune, base int) bool {
	switch base {
	case 16:
		return isHexDigit(ch)
	case 10:
		return isDigit(ch)
	case 8:
		return '0' <= ch && ch <= '7'
	case 2:
		return ch == '0' || ch == '1'
	default:
		return false
	}
}

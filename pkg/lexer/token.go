package lexer

import (
	"asfront/pkg/errors"
	"asfront/pkg/source"
)

// TokenType represents the type of a token.
type TokenType string

// Comment is a documentation comment (`/** ... */`) captured by the tokenizer.
type Comment struct {
	Content  string          // text between `/**` and `*/`
	Location source.Location // span of the whole comment
}

// ContentOffset is the byte offset of Content within the source.
func (c *Comment) ContentOffset() int {
	return c.Location.FirstOffset + 3
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string // Raw lexeme. STRING and XML_ATTRIBUTE_VALUE hold the decoded value, REGEXP the body.

	Location source.Location

	// PrecededByLineBreak is set when a line terminator appears between
	// the previous token and this one.
	PrecededByLineBreak bool

	// Doc is the documentation comment immediately preceding this token, if any.
	Doc *Comment

	Flags string  // REGEXP only
	Value float64 // NUMBER only
}

// --- Token Types ---
const (
	// Special
	EOF TokenType = "EOF" // End Of File

	// Identifiers + Literals
	IDENT  TokenType = "IDENT"  // functionName, variableName, contextual keywords
	NUMBER TokenType = "NUMBER" // 123, 45.67, 0xFF
	STRING TokenType = "STRING" // "hello world"
	REGEXP TokenType = "REGEXP" // /ab+c/gi

	// XML scanning modes
	XML_NAME            TokenType = "XML_NAME"
	XML_ATTRIBUTE_VALUE TokenType = "XML_ATTRIBUTE_VALUE"
	XML_TEXT            TokenType = "XML_TEXT"
	XML_MARKUP          TokenType = "XML_MARKUP" // <!-- -->, <![CDATA[ ]]>, <? ?>
	XML_LT_SLASH        TokenType = "</"
	XML_SLASH_GT        TokenType = "/>"

	// Operators
	ASSIGN               TokenType = "="
	PLUS                 TokenType = "+"
	MINUS                TokenType = "-"
	BANG                 TokenType = "!"
	TILDE                TokenType = "~"
	ASTERISK             TokenType = "*"
	SLASH                TokenType = "/"
	REMAINDER            TokenType = "%"
	EXPONENT             TokenType = "**"
	LT                   TokenType = "<"
	GT                   TokenType = ">"
	LE                   TokenType = "<="
	GE                   TokenType = ">="
	EQ                   TokenType = "=="
	NOT_EQ               TokenType = "!="
	STRICT_EQ            TokenType = "==="
	STRICT_NOT_EQ        TokenType = "!=="
	LEFT_SHIFT           TokenType = "<<"
	RIGHT_SHIFT          TokenType = ">>"
	UNSIGNED_RIGHT_SHIFT TokenType = ">>>"
	BITWISE_AND          TokenType = "&"
	PIPE                 TokenType = "|"
	BITWISE_XOR          TokenType = "^"
	LOGICAL_AND          TokenType = "&&"
	LOGICAL_OR           TokenType = "||"
	LOGICAL_XOR          TokenType = "^^"
	COALESCE             TokenType = "??"
	QUESTION             TokenType = "?"
	OPTIONAL_CHAINING    TokenType = "?."
	INC                  TokenType = "++"
	DEC                  TokenType = "--"
	ARROW                TokenType = "=>"

	// Compound Assignment
	PLUS_ASSIGN                 TokenType = "+="
	MINUS_ASSIGN                TokenType = "-="
	ASTERISK_ASSIGN             TokenType = "*="
	SLASH_ASSIGN                TokenType = "/="
	REMAINDER_ASSIGN            TokenType = "%="
	EXPONENT_ASSIGN             TokenType = "**="
	LEFT_SHIFT_ASSIGN           TokenType = "<<="
	RIGHT_SHIFT_ASSIGN          TokenType = ">>="
	UNSIGNED_RIGHT_SHIFT_ASSIGN TokenType = ">>>="
	BITWISE_AND_ASSIGN          TokenType = "&="
	BITWISE_OR_ASSIGN           TokenType = "|="
	BITWISE_XOR_ASSIGN          TokenType = "^="
	LOGICAL_AND_ASSIGN          TokenType = "&&="
	LOGICAL_OR_ASSIGN           TokenType = "||="
	LOGICAL_XOR_ASSIGN          TokenType = "^^="
	COALESCE_ASSIGN             TokenType = "??="

	// Delimiters
	COMMA       TokenType = ","
	SEMICOLON   TokenType = ";"
	COLON       TokenType = ":"
	COLON_COLON TokenType = "::"
	DOT         TokenType = "."
	DESCENDANTS TokenType = ".."
	SPREAD      TokenType = "..."
	AT          TokenType = "@"
	LPAREN      TokenType = "("
	RPAREN      TokenType = ")"
	LBRACE      TokenType = "{"
	RBRACE      TokenType = "}"
	LBRACKET    TokenType = "["
	RBRACKET    TokenType = "]"

	// Reserved words
	AS         TokenType = "as"
	AWAIT      TokenType = "await"
	BREAK      TokenType = "break"
	CASE       TokenType = "case"
	CATCH      TokenType = "catch"
	CLASS      TokenType = "class"
	CONST      TokenType = "const"
	CONTINUE   TokenType = "continue"
	DEFAULT    TokenType = "default"
	DELETE     TokenType = "delete"
	DO         TokenType = "do"
	ELSE       TokenType = "else"
	EXTENDS    TokenType = "extends"
	FALSE      TokenType = "false"
	FINALLY    TokenType = "finally"
	FOR        TokenType = "for"
	FUNCTION   TokenType = "function"
	IF         TokenType = "if"
	IMPLEMENTS TokenType = "implements"
	IMPORT     TokenType = "import"
	IN         TokenType = "in"
	INSTANCEOF TokenType = "instanceof"
	INTERFACE  TokenType = "interface"
	INTERNAL   TokenType = "internal"
	IS         TokenType = "is"
	NEW        TokenType = "new"
	NULL       TokenType = "null"
	PACKAGE    TokenType = "package"
	PRIVATE    TokenType = "private"
	PROTECTED  TokenType = "protected"
	PUBLIC     TokenType = "public"
	RETURN     TokenType = "return"
	SUPER      TokenType = "super"
	SWITCH     TokenType = "switch"
	THIS       TokenType = "this"
	THROW      TokenType = "throw"
	TRUE       TokenType = "true"
	TRY        TokenType = "try"
	TYPEOF     TokenType = "typeof"
	USE        TokenType = "use"
	VAR        TokenType = "var"
	VOID       TokenType = "void"
	WHILE      TokenType = "while"
	WITH       TokenType = "with"
	YIELD      TokenType = "yield"
)

var keywords = map[string]TokenType{
	"as":         AS,
	"await":      AWAIT,
	"break":      BREAK,
	"case":       CASE,
	"catch":      CATCH,
	"class":      CLASS,
	"const":      CONST,
	"continue":   CONTINUE,
	"default":    DEFAULT,
	"delete":     DELETE,
	"do":         DO,
	"else":       ELSE,
	"extends":    EXTENDS,
	"false":      FALSE,
	"finally":    FINALLY,
	"for":        FOR,
	"function":   FUNCTION,
	"if":         IF,
	"implements": IMPLEMENTS,
	"import":     IMPORT,
	"in":         IN,
	"instanceof": INSTANCEOF,
	"interface":  INTERFACE,
	"internal":   INTERNAL,
	"is":         IS,
	"new":        NEW,
	"null":       NULL,
	"package":    PACKAGE,
	"private":    PRIVATE,
	"protected":  PROTECTED,
	"public":     PUBLIC,
	"return":     RETURN,
	"super":      SUPER,
	"switch":     SWITCH,
	"this":       THIS,
	"throw":      THROW,
	"true":       TRUE,
	"try":        TRY,
	"typeof":     TYPEOF,
	"use":        USE,
	"var":        VAR,
	"void":       VOID,
	"while":      WHILE,
	"with":       WITH,
	"yield":      YIELD,
}

// LookupIdent checks the keywords table for an identifier.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return IDENT
}

// IsKeyword reports whether t is a reserved word.
func (t TokenType) IsKeyword() bool {
	_, ok := keywords[string(t)]
	return ok
}

// KeywordName returns the identifier-equivalent spelling of a reserved word token.
func (t Token) KeywordName() (string, bool) {
	if t.Type.IsKeyword() {
		return string(t.Type), true
	}
	return "", false
}

// IsContextKeyword reports whether the token is an identifier spelled name.
func (t Token) IsContextKeyword(name string) bool {
	return t.Type == IDENT && t.Literal == name
}

// Argument converts the token into a diagnostic argument.
func (t Token) Argument() errors.TokenArgument {
	return errors.TokenArgument{Type: string(t.Type), Literal: t.Literal}
}

// TypeArgument describes an expected token type in a diagnostic.
func TypeArgument(t TokenType) errors.TokenArgument {
	return errors.TokenArgument{Type: string(t)}
}

// SplitGT peels the leading '>' off a compound token that starts with it.
// It returns the consumed character and the remaining token type.
func SplitGT(t TokenType) (rune, TokenType, bool) {
	switch t {
	case GE:
		return '>', ASSIGN, true
	case RIGHT_SHIFT:
		return '>', GT, true
	case RIGHT_SHIFT_ASSIGN:
		return '>', GE, true
	case UNSIGNED_RIGHT_SHIFT:
		return '>', RIGHT_SHIFT, true
	case UNSIGNED_RIGHT_SHIFT_ASSIGN:
		return '>', RIGHT_SHIFT_ASSIGN, true
	}
	return 0, t, false
}

// punctuators in longest-first order for maximal munch.
var punctuators = []TokenType{
	UNSIGNED_RIGHT_SHIFT_ASSIGN,
	STRICT_EQ, STRICT_NOT_EQ, UNSIGNED_RIGHT_SHIFT, EXPONENT_ASSIGN,
	LEFT_SHIFT_ASSIGN, RIGHT_SHIFT_ASSIGN, LOGICAL_AND_ASSIGN, LOGICAL_OR_ASSIGN,
	LOGICAL_XOR_ASSIGN, COALESCE_ASSIGN, SPREAD,
	EQ, NOT_EQ, LE, GE, LEFT_SHIFT, RIGHT_SHIFT, LOGICAL_AND, LOGICAL_OR, LOGICAL_XOR,
	COALESCE, OPTIONAL_CHAINING, INC, DEC, ARROW, EXPONENT,
	PLUS_ASSIGN, MINUS_ASSIGN, ASTERISK_ASSIGN, SLASH_ASSIGN, REMAINDER_ASSIGN,
	BITWISE_AND_ASSIGN, BITWISE_OR_ASSIGN, BITWISE_XOR_ASSIGN,
	COLON_COLON, DESCENDANTS,
	ASSIGN, PLUS, MINUS, BANG, TILDE, ASTERISK, SLASH, REMAINDER, LT, GT,
	BITWISE_AND, PIPE, BITWISE_XOR, QUESTION, DOT, AT,
	COMMA, SEMICOLON, COLON, LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET,
}

// endsExpression lists the token types after which '/' is division.
var endsExpression = map[TokenType]bool{
	IDENT: true, NUMBER: true, STRING: true, REGEXP: true,
	RPAREN: true, RBRACKET: true, RBRACE: true,
	THIS: true, NULL: true, TRUE: true, FALSE: true, SUPER: true,
	INC: true, DEC: true, XML_MARKUP: true,
}

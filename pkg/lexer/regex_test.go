package lexer

import (
	"testing"

	"asfront/pkg/errors"
)

func TestRegexLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
		literals []string
	}{
		{
			name:     "Simple regex",
			input:    "/hello/",
			expected: []TokenType{REGEXP, EOF},
			literals: []string{"hello", ""},
		},
		{
			name:     "Regex with flags",
			input:    "/world/gi",
			expected: []TokenType{REGEXP, EOF},
			literals: []string{"world", ""},
		},
		{
			name:     "Slash inside class",
			input:    "/[/]+/m",
			expected: []TokenType{REGEXP, EOF},
			literals: []string{"[/]+", ""},
		},
		{
			name:     "Assignment context",
			input:    "var x = /test/i;",
			expected: []TokenType{VAR, IDENT, ASSIGN, REGEXP, SEMICOLON, EOF},
			literals: []string{"var", "x", "=", "test", ";", ""},
		},
		{
			name:     "Division vs regex - division",
			input:    "5 / 2",
			expected: []TokenType{NUMBER, SLASH, NUMBER, EOF},
			literals: []string{"5", "/", "2", ""},
		},
		{
			name:     "Division after paren",
			input:    "(a) / b",
			expected: []TokenType{LPAREN, IDENT, RPAREN, SLASH, IDENT, EOF},
			literals: []string{"(", "a", ")", "/", "b", ""},
		},
		{
			name:     "Division vs regex - regex after paren",
			input:    "(/pattern/)",
			expected: []TokenType{LPAREN, REGEXP, RPAREN, EOF},
			literals: []string{"(", "pattern", ")", ""},
		},
		{
			name:     "Compound division",
			input:    "a /= 2",
			expected: []TokenType{IDENT, SLASH_ASSIGN, NUMBER, EOF},
			literals: []string{"a", "/=", "2", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestTokenizer(tt.input)

			for i, expectedToken := range tt.expected {
				tok, err := l.ScanDefault(true)
				if err != nil {
					t.Fatalf("test[%d] - unexpected error %v", i, err)
				}
				if tok.Type != expectedToken {
					t.Errorf("test[%d] - tokentype wrong. expected=%q, got=%q", i, expectedToken, tok.Type)
				}
				if i < len(tt.literals) && tok.Literal != tt.literals[i] {
					t.Errorf("test[%d] - literal wrong. expected=%q, got=%q", i, tt.literals[i], tok.Literal)
				}
			}
		})
	}
}

func TestRegexFlags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind errors.DiagnosticKind
		wantErr  bool
	}{
		{
			name:    "Valid flags",
			input:   "/test/gims",
			wantErr: false,
		},
		{
			name:    "Extended flag",
			input:   "/a b/x",
			wantErr: false,
		},
		{
			name:    "Dotall with case folding",
			input:   "/a.b/is",
			wantErr: false,
		},
		{
			name:     "Invalid flag",
			input:    "/test/q",
			wantErr:  true,
			wantKind: errors.KindInvalidRegExpFlags,
		},
		{
			name:     "Duplicate flag",
			input:    "/test/gg",
			wantErr:  true,
			wantKind: errors.KindInvalidRegExpFlags,
		},
		{
			name:     "Invalid body",
			input:    "/(unclosed/",
			wantErr:  true,
			wantKind: errors.KindInvalidRegExp,
		},
		{
			name:     "Unterminated",
			input:    "/abc\n/",
			wantErr:  true,
			wantKind: errors.KindUnterminatedRegExp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, collector := newTestTokenizer(tt.input)
			tok, err := l.ScanDefault(true)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for invalid regex, got %q", tok.Type)
				}
				diags := collector.Diagnostics()
				if len(diags) != 1 || diags[0].Kind != tt.wantKind {
					t.Errorf("expected one %s diagnostic, got %v", tt.wantKind, diags)
				}
			} else {
				if err != nil || tok.Type != REGEXP {
					t.Errorf("expected REGEXP token, got %q (%v)", tok.Type, err)
				}
			}
		})
	}
}

func TestRescanRegExp(t *testing.T) {
	tests := []struct {
		input    string
		body     string
		flags    string
		lineFeed bool
	}{
		{"(x) /re/.test(y)", "re", "", false},
		{"(x)\n/=a/g", "=a", "g", true},
	}

	for i, tt := range tests {
		l, _ := newTestTokenizer(tt.input)
		var tok Token
		for tok.Type != SLASH && tok.Type != SLASH_ASSIGN {
			var err error
			if tok, err = l.ScanDefault(true); err != nil || tok.Type == EOF {
				t.Fatalf("tests[%d] - no division token in %q", i, tt.input)
			}
		}

		re, err := l.RescanRegExp(tok)
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error %v", i, err)
		}
		if re.Type != REGEXP || re.Literal != tt.body || re.Flags != tt.flags {
			t.Fatalf("tests[%d] - expected /%s/%s, got %s %q %q", i, tt.body, tt.flags, re.Type, re.Literal, re.Flags)
		}
		if re.Location.FirstOffset != tok.Location.FirstOffset || re.PrecededByLineBreak != tt.lineFeed {
			t.Fatalf("tests[%d] - unexpected token position %+v", i, re)
		}

		next, err := l.ScanDefault(true)
		if err != nil || next.Type != DOT && next.Type != EOF {
			t.Fatalf("tests[%d] - unexpected token after regex: %s (%v)", i, next.Type, err)
		}
	}
}

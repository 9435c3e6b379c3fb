package parser

import (
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"

	"asfront/pkg/errors"
	"asfront/pkg/lexer"
	"asfront/pkg/source"
)

var asDocTagPattern = regexp2.MustCompile(`^@([A-Za-z]+)[ \t]*`, regexp2.None)

// asDocLine is one comment line with its decoration stripped. offset is the
// source offset of text.
type asDocLine struct {
	text   string
	offset int
}

type asDocSection struct {
	name    string
	nameLoc source.Location
	lines   []asDocLine
}

// asDocFor returns the parsed documentation comment attached to tok, or nil.
// Each comment is parsed once; malformed tags are reported as warnings.
func (p *Parser) asDocFor(tok lexer.Token) *AsDoc {
	if !p.parseAsDoc || tok.Doc == nil {
		return nil
	}
	if doc, ok := p.asdocs[tok.Doc]; ok {
		return doc
	}
	doc := p.parseAsDocComment(tok.Doc)
	if p.asdocs == nil {
		p.asdocs = make(map[*lexer.Comment]*AsDoc)
	}
	p.asdocs[tok.Doc] = doc
	return doc
}

func (p *Parser) parseAsDocComment(comment *lexer.Comment) *AsDoc {
	var body []asDocLine
	var sections []*asDocSection

	for _, line := range splitAsDocLines(comment.Content, comment.ContentOffset()) {
		m, _ := asDocTagPattern.FindStringMatch(line.text)
		if m == nil {
			if n := len(sections); n > 0 {
				sections[n-1].lines = append(sections[n-1].lines, line)
			} else {
				body = append(body, line)
			}
			continue
		}
		name := m.GroupByNumber(1).String()
		matched := len(m.String())
		sections = append(sections, &asDocSection{
			name:    name,
			nameLoc: source.NewLocation(p.source, line.offset, line.offset+1+len(name)),
			lines:   []asDocLine{{text: line.text[matched:], offset: line.offset + matched}},
		})
	}

	doc := &AsDoc{Loc: comment.Location, MainBody: joinAsDocLines(body)}
	for _, section := range sections {
		if tag, ok := p.parseAsDocTag(section); ok {
			doc.Tags = append(doc.Tags, tag)
		}
	}
	return doc
}

// splitAsDocLines splits comment content into lines, dropping leading
// whitespace and a leading '*' with one following space.
func splitAsDocLines(content string, base int) []asDocLine {
	var lines []asDocLine
	offset := 0
	for {
		end := strings.IndexByte(content[offset:], '\n')
		raw := content[offset:]
		if end >= 0 {
			raw = content[offset : offset+end]
		}
		raw = strings.TrimSuffix(raw, "\r")

		start := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
		if start < len(raw) && raw[start] == '*' {
			start++
			if start < len(raw) && raw[start] == ' ' {
				start++
			}
		}
		lines = append(lines, asDocLine{text: raw[start:], offset: base + offset + start})

		if end < 0 {
			return lines
		}
		offset += end + 1
	}
}

func joinAsDocLines(lines []asDocLine) string {
	texts := make([]string, len(lines))
	for i, line := range lines {
		texts[i] = line.text
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}

// splitFirstWord splits s at its first run of whitespace.
func splitFirstWord(s string) (word, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func (p *Parser) parseAsDocTag(section *asDocSection) (*AsDocTag, bool) {
	kind, ok := asDocTagNames[section.name]
	if !ok {
		p.warning(section.nameLoc, errors.KindUnrecognizedAsDocTag, errors.StringArgument(section.name))
		return nil, false
	}
	tag := &AsDocTag{Kind: kind, Loc: section.nameLoc}
	text := joinAsDocLines(section.lines)

	switch kind {
	case AsDocInheritDoc, AsDocPrivate:
		// no content
	case AsDocParam:
		tag.Name, tag.Text = splitFirstWord(text)
	case AsDocSee:
		tag.Reference, tag.Text = splitFirstWord(text)
	case AsDocEventType:
		first := section.lines[0]
		t, ok := p.parseAsDocType(first.text, first.offset)
		if !ok {
			p.warning(section.nameLoc, errors.KindFailedParsingAsDocTag, errors.StringArgument(section.name))
			return nil, false
		}
		tag.Type = t
	case AsDocThrows:
		first := section.lines[0]
		word, _ := splitFirstWord(first.text)
		t, ok := p.parseAsDocType(word, first.offset)
		if !ok {
			p.warning(section.nameLoc, errors.KindFailedParsingAsDocTag, errors.StringArgument(section.name))
			return nil, false
		}
		tag.Type = t
		_, tag.Text = splitFirstWord(text)
	default:
		tag.Text = text
	}
	return tag, true
}

// parseAsDocType parses text, located at offset in the source, as a type
// expression. Errors go to a scratch collector so they never reach the
// caller's diagnostics.
func (p *Parser) parseAsDocType(text string, offset int) (TypeExpression, bool) {
	text = strings.TrimRightFunc(text, unicode.IsSpace)
	if text == "" || p.source == nil {
		return nil, false
	}
	scratch := errors.NewCollector()
	t := lexer.NewTokenizerRange(p.source, offset, offset+len(text), scratch)
	sub := NewParserFromTokenizer(t, scratch, WithAsDoc(false), WithArena(p.arena))
	typ, err := sub.ParseTypeExpression()
	if err != nil {
		return nil, false
	}
	if err := sub.ExpectEOF(); err != nil {
		return nil, false
	}
	return typ, true
}

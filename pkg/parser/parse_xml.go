package parser

import (
	"asfront/pkg/errors"
	"asfront/pkg/lexer"
	"asfront/pkg/source"
)

// parseXMLInitializer parses an XML element or <>list</> in expression
// position. The current token is the opening '<'.
func (p *Parser) parseXMLInitializer() (Expression, error) {
	start := p.current.Location
	if err := p.advance(scanXMLTag); err != nil {
		return nil, err
	}

	if p.curTokenIs(lexer.GT) {
		if err := p.advance(scanXMLContent); err != nil {
			return nil, err
		}
		content, err := p.parseXMLContent()
		if err != nil {
			return nil, err
		}
		// current is '</'
		if err := p.advance(scanXMLTag); err != nil {
			return nil, err
		}
		if err := p.expect(lexer.GT); err != nil {
			return nil, err
		}
		return &XMLListExpression{BaseExpression: BaseExpression{p.span(start)}, Content: content}, nil
	}

	element, err := p.parseXMLElement(start, false)
	if err != nil {
		return nil, err
	}
	return &XMLElementExpression{BaseExpression: BaseExpression{element.Loc}, Element: element}, nil
}

// parseXMLElement parses the rest of an element after its '<'. A nested
// element is followed by more content; an outermost one by ordinary code.
func (p *Parser) parseXMLElement(start source.Location, nested bool) (*XMLElement, error) {
	after := scanDefault
	if nested {
		after = scanXMLContent
	}

	element := &XMLElement{}
	name, err := p.parseXMLTagName()
	if err != nil {
		return nil, err
	}
	element.OpeningTagName = name

	for p.curTokenIs(lexer.XML_NAME) || p.curTokenIs(lexer.LBRACE) {
		attr, err := p.parseXMLAttribute()
		if err != nil {
			return nil, err
		}
		element.Attributes = append(element.Attributes, attr)
	}

	if p.curTokenIs(lexer.XML_SLASH_GT) {
		if err := p.advance(after); err != nil {
			return nil, err
		}
		element.Loc = p.span(start)
		return element, nil
	}

	if err := p.expectThen(lexer.GT, scanXMLContent); err != nil {
		return nil, err
	}
	if element.Content, err = p.parseXMLContent(); err != nil {
		return nil, err
	}
	if err := p.advance(scanXMLTag); err != nil { // past '</'
		return nil, err
	}
	closing, err := p.parseXMLTagName()
	if err != nil {
		return nil, err
	}
	if name.Expression == nil && closing.Expression == nil && name.Name != closing.Name {
		return nil, p.syntaxError(closing.Loc, errors.KindMismatchedXmlClosingTag,
			errors.StringArgument(name.Name), errors.StringArgument(closing.Name))
	}
	element.ClosingTagName = &closing
	if err := p.expectThen(lexer.GT, after); err != nil {
		return nil, err
	}
	element.Loc = p.span(start)
	return element, nil
}

// parseXMLTagName parses a static name or {expression}, leaving the tokenizer
// in tag mode.
func (p *Parser) parseXMLTagName() (XMLTagName, error) {
	tok := p.current
	switch tok.Type {
	case lexer.XML_NAME:
		return XMLTagName{Name: tok.Literal, Loc: tok.Location}, p.advance(scanXMLTag)
	case lexer.LBRACE:
		e, err := p.parseXMLInterpolation(scanXMLTag)
		if err != nil {
			return XMLTagName{}, err
		}
		return XMLTagName{Loc: p.span(tok.Location), Expression: e}, nil
	}
	return XMLTagName{}, p.syntaxError(tok.Location, errors.KindExpected, lexer.TypeArgument(lexer.XML_NAME), tok.Argument())
}

// parseXMLInterpolation parses {expression} and resumes in mode.
func (p *Parser) parseXMLInterpolation(mode scanMode) (Expression, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	e, err := p.parseExpression(assignmentContext(true))
	if err != nil {
		return nil, err
	}
	return e, p.expectThen(lexer.RBRACE, mode)
}

func (p *Parser) parseXMLAttribute() (*XMLAttribute, error) {
	if p.curTokenIs(lexer.LBRACE) {
		e, err := p.parseXMLInterpolation(scanXMLTag)
		if err != nil {
			return nil, err
		}
		return &XMLAttribute{ValueExpression: e}, nil
	}

	attr := &XMLAttribute{Name: &Identifier{Value: p.current.Literal, Loc: p.current.Location}}
	if err := p.advance(scanXMLTag); err != nil {
		return nil, err
	}
	if err := p.expectThen(lexer.ASSIGN, scanXMLTag); err != nil {
		return nil, err
	}
	switch p.current.Type {
	case lexer.XML_ATTRIBUTE_VALUE:
		attr.Value = p.current.Literal
		return attr, p.advance(scanXMLTag)
	case lexer.LBRACE:
		e, err := p.parseXMLInterpolation(scanXMLTag)
		if err != nil {
			return nil, err
		}
		attr.ValueExpression = e
		return attr, nil
	}
	return nil, p.syntaxError(p.current.Location, errors.KindExpected, lexer.TypeArgument(lexer.XML_ATTRIBUTE_VALUE), p.current.Argument())
}

// parseXMLContent collects children until '</'.
func (p *Parser) parseXMLContent() ([]*XMLContent, error) {
	var content []*XMLContent
	for {
		tok := p.current
		switch tok.Type {
		case lexer.XML_LT_SLASH:
			return content, nil
		case lexer.XML_TEXT:
			content = append(content, &XMLContent{Kind: XMLContentText, Text: tok.Literal, Loc: tok.Location})
			if err := p.advance(scanXMLContent); err != nil {
				return nil, err
			}
		case lexer.XML_MARKUP:
			content = append(content, &XMLContent{Kind: XMLContentMarkup, Text: tok.Literal, Loc: tok.Location})
			if err := p.advance(scanXMLContent); err != nil {
				return nil, err
			}
		case lexer.LBRACE:
			e, err := p.parseXMLInterpolation(scanXMLContent)
			if err != nil {
				return nil, err
			}
			content = append(content, &XMLContent{Kind: XMLContentExpression, Loc: p.span(tok.Location), Expression: e})
		case lexer.LT:
			if err := p.advance(scanXMLTag); err != nil {
				return nil, err
			}
			element, err := p.parseXMLElement(tok.Location, true)
			if err != nil {
				return nil, err
			}
			content = append(content, &XMLContent{Kind: XMLContentElement, Loc: element.Loc, Element: element})
		default:
			return nil, p.syntaxError(tok.Location, errors.KindExpected, lexer.TypeArgument(lexer.XML_LT_SLASH), tok.Argument())
		}
	}
}

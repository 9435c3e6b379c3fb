package parser

import (
	"asfront/pkg/errors"
	"asfront/pkg/lexer"
	"asfront/pkg/source"
)

// parseTypeExpression parses a union: [|] T (| T)*.
func (p *Parser) parseTypeExpression() (TypeExpression, error) {
	start := p.current.Location
	if _, err := p.consume(lexer.PIPE); err != nil {
		return nil, err
	}
	first, err := p.parseComplementType()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(lexer.PIPE) {
		return first, nil
	}
	members := []TypeExpression{first}
	for p.curTokenIs(lexer.PIPE) {
		if err := p.next(); err != nil {
			return nil, err
		}
		member, err := p.parseComplementType()
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return &UnionType{BaseTypeExpression: BaseTypeExpression{p.span(start)}, Members: members}, nil
}

// parseComplementType parses T & U, grouping to the left.
func (p *Parser) parseComplementType() (TypeExpression, error) {
	start := p.current.Location
	left, err := p.parsePostfixType()
	if err != nil {
		return nil, err
	}
	for p.curTokenIs(lexer.BITWISE_AND) {
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parsePostfixType()
		if err != nil {
			return nil, err
		}
		left = &ComplementType{BaseTypeExpression: BaseTypeExpression{p.span(start)}, Base: left, Complement: right}
	}
	return left, nil
}

func (p *Parser) parsePostfixType() (TypeExpression, error) {
	start := p.current.Location
	if p.curTokenIs(lexer.QUESTION) {
		if err := p.next(); err != nil {
			return nil, err
		}
		base, err := p.parsePostfixType()
		if err != nil {
			return nil, err
		}
		return &NullableType{BaseTypeExpression: BaseTypeExpression{p.span(start)}, Base: base}, nil
	}

	base, err := p.parsePrimaryType()
	if err != nil {
		return nil, err
	}
	for {
		switch p.current.Type {
		case lexer.DOT:
			if err := p.advance(scanNoReserved); err != nil {
				return nil, err
			}
			if p.curTokenIs(lexer.LT) {
				if err := p.next(); err != nil {
					return nil, err
				}
				args, err := p.parseTypeArgumentList()
				if err != nil {
					return nil, err
				}
				base = &TypeWithArguments{BaseTypeExpression: BaseTypeExpression{p.span(start)}, Base: base, Arguments: args}
				continue
			}
			member, err := p.parseQualifiedIdentifier()
			if err != nil {
				return nil, err
			}
			base = &TypeMemberExpression{BaseTypeExpression: BaseTypeExpression{p.span(start)}, Base: base, Member: member}
		case lexer.QUESTION:
			if p.current.PrecededByLineBreak {
				return base, nil
			}
			if err := p.next(); err != nil {
				return nil, err
			}
			base = &NullableType{BaseTypeExpression: BaseTypeExpression{p.span(start)}, Base: base}
		case lexer.BANG:
			if p.current.PrecededByLineBreak {
				return base, nil
			}
			if err := p.next(); err != nil {
				return nil, err
			}
			base = &NonNullableType{BaseTypeExpression: BaseTypeExpression{p.span(start)}, Base: base}
		default:
			return base, nil
		}
	}
}

func (p *Parser) parsePrimaryType() (TypeExpression, error) {
	tok := p.current
	start := tok.Location
	switch tok.Type {
	case lexer.ASTERISK:
		return &AnyType{BaseTypeExpression{start}}, p.next()
	case lexer.VOID:
		return &VoidType{BaseTypeExpression{start}}, p.next()
	case lexer.STRING:
		return &StringLiteralType{BaseTypeExpression: BaseTypeExpression{start}, Value: tok.Literal}, p.next()
	case lexer.NUMBER:
		return &NumberLiteralType{BaseTypeExpression: BaseTypeExpression{start}, Value: tok.Value, Raw: tok.Literal}, p.next()
	case lexer.MINUS:
		if err := p.next(); err != nil {
			return nil, err
		}
		if !p.curTokenIs(lexer.NUMBER) {
			return nil, p.syntaxError(p.current.Location, errors.KindExpected, lexer.TypeArgument(lexer.NUMBER), p.current.Argument())
		}
		num := p.current
		if err := p.next(); err != nil {
			return nil, err
		}
		return &NumberLiteralType{BaseTypeExpression: BaseTypeExpression{p.span(start)}, Value: -num.Value, Raw: "-" + num.Literal}, nil
	case lexer.LPAREN:
		if err := p.next(); err != nil {
			return nil, err
		}
		inner, err := p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
		return inner, p.expect(lexer.RPAREN)
	case lexer.LBRACKET:
		return p.parseTupleType()
	case lexer.LBRACE:
		return p.parseRecordType()
	case lexer.FUNCTION:
		return p.parseFunctionType()
	case lexer.IDENT:
		switch tok.Literal {
		case "never":
			return &NeverType{BaseTypeExpression{start}}, p.next()
		case "undefined":
			return &UndefinedType{BaseTypeExpression{start}}, p.next()
		}
		fallthrough
	case lexer.PUBLIC, lexer.PRIVATE, lexer.PROTECTED, lexer.INTERNAL:
		id, err := p.parseQualifiedIdentifier()
		if err != nil {
			return nil, err
		}
		return &TypeIdentifier{BaseTypeExpression: BaseTypeExpression{id.Loc}, ID: id}, nil
	}
	return nil, p.syntaxError(start, errors.KindExpectedTypeExpression, tok.Argument())
}

func (p *Parser) parseTupleType() (TypeExpression, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	var elements []TypeExpression
	for !p.curTokenIs(lexer.RBRACKET) {
		element, err := p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
		more, err := p.consume(lexer.COMMA)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	if err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return &TupleType{BaseTypeExpression: BaseTypeExpression{p.span(start)}, Elements: elements}, nil
}

// parseRecordType parses { [readonly] key[?|!][: T], ... }.
func (p *Parser) parseRecordType() (TypeExpression, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	var fields []*RecordTypeField
	for !p.curTokenIs(lexer.RBRACE) {
		field, err := p.parseRecordTypeField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		more, err := p.consume(lexer.COMMA)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	if err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return &RecordType{BaseTypeExpression: BaseTypeExpression{p.span(start)}, Fields: fields}, nil
}

func (p *Parser) parseRecordTypeField() (*RecordTypeField, error) {
	start := p.current.Location
	field := &RecordTypeField{AsDoc: p.asDocFor(p.current)}

	if p.current.IsContextKeyword("readonly") {
		readonlyTok := p.current
		if err := p.next(); err != nil {
			return nil, err
		}
		switch p.current.Type {
		case lexer.COLON, lexer.QUESTION, lexer.BANG, lexer.COMMA, lexer.RBRACE:
			// "readonly" is the key itself
			field.Key = ObjectKey{Kind: ObjectKeyIdentifier, Loc: readonlyTok.Location, ID: p.plainIdentifier(readonlyTok.Literal, readonlyTok.Location)}
		default:
			field.Readonly = true
		}
	}
	if field.Key.ID == nil {
		key, err := p.parseObjectKey()
		if err != nil {
			return nil, err
		}
		field.Key = key
	}

	switch p.current.Type {
	case lexer.QUESTION:
		field.KeySuffix = KeySuffixNullable
		if err := p.next(); err != nil {
			return nil, err
		}
	case lexer.BANG:
		field.KeySuffix = KeySuffixNonNullable
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	if p.curTokenIs(lexer.COLON) {
		if err := p.next(); err != nil {
			return nil, err
		}
		t, err := p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
		field.Type = t
	}
	field.Loc = p.span(start)
	return field, nil
}

// parseFunctionType parses function(a: T, b?: U, ...c: V): R.
func (p *Parser) parseFunctionType() (TypeExpression, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []*FunctionTypeParam
	for !p.curTokenIs(lexer.RPAREN) {
		paramStart := p.current.Location
		param := &FunctionTypeParam{Kind: ParamRequired}
		rest, err := p.consume(lexer.SPREAD)
		if err != nil {
			return nil, err
		}
		if rest {
			param.Kind = ParamRest
		}
		if param.Name, err = p.expectIdentifier(false); err != nil {
			return nil, err
		}
		if !rest && p.curTokenIs(lexer.QUESTION) {
			param.Kind = ParamOptional
			if err := p.next(); err != nil {
				return nil, err
			}
		}
		if p.curTokenIs(lexer.COLON) {
			if err := p.next(); err != nil {
				return nil, err
			}
			if param.Type, err = p.parseTypeExpression(); err != nil {
				return nil, err
			}
		}
		param.Loc = p.span(paramStart)
		if n := len(params); n > 0 {
			if err := p.checkParamKindOrder(params[n-1].Kind, param.Kind, param.Loc); err != nil {
				return nil, err
			}
		}
		params = append(params, param)

		more, err := p.consume(lexer.COMMA)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	if err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	ft := &FunctionType{Params: params}
	if p.curTokenIs(lexer.COLON) {
		if err := p.next(); err != nil {
			return nil, err
		}
		ret, err := p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
		ft.ReturnAnnotation = ret
	}
	ft.Loc = p.span(start)
	return ft, nil
}

// checkParamKindOrder enforces Required* Optional* Rest?.
func (p *Parser) checkParamKindOrder(last, next FunctionParamKind, loc source.Location) error {
	switch {
	case last == ParamRest:
		return p.syntaxError(loc, errors.KindParameterAfterRest)
	case !last.MayBeFollowedBy(next):
		return p.syntaxError(loc, errors.KindRequiredParameterAfterOptional)
	}
	return nil
}

func (p *Parser) checkParamOrder(params []*FunctionParam, param *FunctionParam) error {
	if n := len(params); n > 0 {
		return p.checkParamKindOrder(params[n-1].Kind, param.Kind, param.Loc)
	}
	return nil
}

func (p *Parser) plainIdentifier(name string, loc source.Location) *QualifiedIdentifier {
	qi := p.arena.NewQualifiedIdentifier()
	qi.Loc = loc
	qi.Name = IdentifierOrBrackets{Name: name, NameLoc: loc}
	return qi
}

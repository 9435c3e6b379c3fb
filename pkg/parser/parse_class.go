package parser

import (
	"asfront/pkg/errors"
	"asfront/pkg/lexer"
)

// --- Attributes ---

// isAttributeExpression reports whether e can be a definition attribute:
// a reserved namespace or a bare identifier (modifier or user namespace).
func isAttributeExpression(e Expression) bool {
	switch e := e.(type) {
	case *ReservedNamespaceExpression:
		return true
	case *QualifiedIdentifier:
		return e.isPlainName()
	}
	return false
}

func applyAttribute(annotations *DefinitionAnnotations, e Expression) {
	if qi, ok := e.(*QualifiedIdentifier); ok {
		if mod, ok := modifiersByName[qi.Name.Name]; ok {
			annotations.Modifiers |= mod
			return
		}
	}
	annotations.AccessModifier = e
}

// startsDefinitionOrAttribute reports whether the current token may continue
// an attribute list.
func (p *Parser) startsDefinitionOrAttribute() bool {
	switch p.current.Type {
	case lexer.VAR, lexer.CONST, lexer.FUNCTION, lexer.CLASS, lexer.INTERFACE,
		lexer.PUBLIC, lexer.PRIVATE, lexer.PROTECTED, lexer.INTERNAL, lexer.IDENT:
		return true
	}
	return false
}

// parseAnnotatedDefinition continues an attribute list until the definition
// keyword. first is the token the directive started with; docTok carries the
// documentation comment of the definition.
func (p *Parser) parseAnnotatedDefinition(ctx directiveContext, first, docTok lexer.Token, annotations DefinitionAnnotations) (Directive, error) {
	for {
		tok := p.current
		switch tok.Type {
		case lexer.VAR, lexer.CONST, lexer.FUNCTION, lexer.CLASS, lexer.INTERFACE:
			return p.parseDefinition(ctx, first, docTok, annotations)

		case lexer.PUBLIC, lexer.PRIVATE, lexer.PROTECTED, lexer.INTERNAL:
			annotations.AccessModifier = &ReservedNamespaceExpression{
				BaseExpression: BaseExpression{tok.Location},
				Namespace:      reservedNamespacesByName[string(tok.Type)],
			}
			if err := p.next(); err != nil {
				return nil, err
			}

		case lexer.IDENT:
			if err := p.next(); err != nil {
				return nil, err
			}
			if p.curTokenIs(lexer.IDENT) && !p.current.PrecededByLineBreak {
				switch tok.Literal {
				case "namespace":
					return p.parseNamespaceDefinition(first, docTok, annotations)
				case "type":
					return p.parseTypeDefinition(first, docTok, annotations)
				case "enum":
					return p.parseEnumDefinition(first, docTok, annotations)
				}
			}
			applyAttribute(&annotations, p.plainIdentifier(tok.Literal, tok.Location))

		case lexer.LBRACKET:
			if annotations.Modifiers != 0 || annotations.AccessModifier != nil {
				return nil, p.syntaxError(tok.Location, errors.KindExpected, errors.StringArgument("definition"), tok.Argument())
			}
			meta, err := p.parseMetadata()
			if err != nil {
				return nil, err
			}
			annotations.Metadata = append(annotations.Metadata, meta)
			docTok = p.current

		default:
			return nil, p.syntaxError(tok.Location, errors.KindExpected, errors.StringArgument("definition"), tok.Argument())
		}
	}
}

// parseDefinition parses the definition introduced by the current keyword.
func (p *Parser) parseDefinition(ctx directiveContext, first, docTok lexer.Token, annotations DefinitionAnnotations) (Directive, error) {
	switch p.current.Type {
	case lexer.VAR, lexer.CONST:
		return p.parseVariableDefinition(first, docTok, annotations)
	case lexer.FUNCTION:
		return p.parseFunctionDefinition(ctx, first, docTok, annotations)
	case lexer.CLASS:
		return p.parseClassDefinition(first, docTok, annotations)
	case lexer.INTERFACE:
		return p.parseInterfaceDefinition(first, docTok, annotations)
	}
	return nil, p.syntaxError(p.current.Location, errors.KindExpected, errors.StringArgument("definition"), p.current.Argument())
}

// --- Metadata ---

// parseMetadataOrStatement disambiguates a '['-led directive. A single
// identifier or call in brackets that is followed by a definition or its
// attributes is metadata; anything else is an expression statement.
func (p *Parser) parseMetadataOrStatement(ctx directiveContext) (Directive, error) {
	first := p.current
	start := first.Location
	e, err := p.parseArrayInitializer()
	if err != nil {
		return nil, err
	}
	arr := e.(*ArrayInitializer)

	if meta, ok := p.metadataFrom(arr, first); ok && p.followsMetadata() {
		annotations := DefinitionAnnotations{Metadata: []*Metadata{meta}}
		return p.parseAnnotatedDefinition(ctx, first, p.current, annotations)
	}

	expr, err := p.parsePostfix(arr, start, postfixAll)
	if err != nil {
		return nil, err
	}
	if expr, err = p.parseInfix(expr, start, exprContext{minPrecedence: PrecedenceList, allowIn: true}); err != nil {
		return nil, err
	}
	return p.finishExpressionStatement(start, expr)
}

// followsMetadata reports whether the current token can follow metadata:
// more metadata, a definition keyword, or an attribute other than a user
// namespace.
func (p *Parser) followsMetadata() bool {
	switch p.current.Type {
	case lexer.LBRACKET, lexer.VAR, lexer.CONST, lexer.FUNCTION, lexer.CLASS, lexer.INTERFACE,
		lexer.PUBLIC, lexer.PRIVATE, lexer.PROTECTED, lexer.INTERNAL:
		return true
	case lexer.IDENT:
		switch p.current.Literal {
		case "namespace", "type", "enum":
			return true
		}
		_, ok := modifiersByName[p.current.Literal]
		return ok
	}
	return false
}

// parseMetadata parses [Name(entries)] where metadata is required.
func (p *Parser) parseMetadata() (*Metadata, error) {
	first := p.current
	e, err := p.parseArrayInitializer()
	if err != nil {
		return nil, err
	}
	meta, ok := p.metadataFrom(e.(*ArrayInitializer), first)
	if !ok {
		return nil, p.syntaxError(e.Location(), errors.KindExpected, errors.StringArgument("metadata"), first.Argument())
	}
	return meta, nil
}

// metadataFrom converts [Name] or [Name(key="value", "value")].
func (p *Parser) metadataFrom(arr *ArrayInitializer, first lexer.Token) (*Metadata, bool) {
	if len(arr.Elements) != 1 || arr.Elements[0] == nil {
		return nil, false
	}
	meta := &Metadata{Loc: arr.Loc, AsDoc: p.asDocFor(first)}
	var args []Expression
	switch e := arr.Elements[0].(type) {
	case *QualifiedIdentifier:
		name, ok := metadataName(e)
		if !ok {
			return nil, false
		}
		meta.Name = name
	case *CallExpression:
		qi, ok := e.Base.(*QualifiedIdentifier)
		if !ok {
			return nil, false
		}
		name, ok := metadataName(qi)
		if !ok {
			return nil, false
		}
		meta.Name = name
		args = e.Arguments
	default:
		return nil, false
	}

	for _, arg := range args {
		entry := &MetadataEntry{Loc: arg.Location()}
		value := arg
		if assign, ok := arg.(*AssignmentExpression); ok && assign.Compound == OperatorNone {
			key, ok := assign.Left.(*QualifiedIdentifier)
			if !ok {
				return nil, false
			}
			id, ok := key.ToIdentifier()
			if !ok {
				return nil, false
			}
			entry.Key = &id
			value = assign.Right
		}
		switch v := value.(type) {
		case *StringLiteral:
			entry.Value = v.Value
		case *NumericLiteral:
			entry.Value = v.Raw
		case *BooleanLiteral:
			entry.Value = "false"
			if v.Value {
				entry.Value = "true"
			}
		case *QualifiedIdentifier:
			id, ok := v.ToIdentifier()
			if !ok {
				return nil, false
			}
			entry.Value = id.Value
		default:
			return nil, false
		}
		meta.Entries = append(meta.Entries, entry)
	}
	return meta, true
}

// metadataName accepts Name and ns::Name.
func metadataName(qi *QualifiedIdentifier) (string, bool) {
	if id, ok := qi.ToIdentifier(); ok {
		return id.Value, true
	}
	if qi.Attribute || qi.Name.Brackets != nil {
		return "", false
	}
	q, ok := qi.Qualifier.(*QualifiedIdentifier)
	if !ok {
		return "", false
	}
	ns, ok := q.ToIdentifier()
	if !ok {
		return "", false
	}
	return ns.Value + "::" + qi.Name.Name, true
}

// --- Variables ---

// Syntax: [attributes] var|const pattern[: T][= init], ...
func (p *Parser) parseVariableDefinition(first, docTok lexer.Token, annotations DefinitionAnnotations) (Directive, error) {
	kind := VariableVar
	if p.curTokenIs(lexer.CONST) {
		kind = VariableConst
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	bindings, err := p.parseVariableBindings(true)
	if err != nil {
		return nil, err
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return &VariableDefinition{
		BaseDirective: BaseDirective{p.span(first.Location)},
		AsDoc:         p.asDocFor(docTok),
		Annotations:   annotations,
		Kind:          kind,
		Bindings:      bindings,
	}, nil
}

// --- Functions ---

type functionKind int

const (
	functionPlain functionKind = iota
	functionGetter
	functionSetter
)

// parseFunctionDefinition parses function definitions, getters, setters and
// constructors (a function named after the enclosing class).
// Syntax: [attributes] function [get|set] name[.<T>](params)[: R] [where ...] [{ body }]
func (p *Parser) parseFunctionDefinition(ctx directiveContext, first, docTok lexer.Token, annotations DefinitionAnnotations) (Directive, error) {
	if err := p.next(); err != nil {
		return nil, err
	}

	kind := functionPlain
	var name Identifier
	if p.current.IsContextKeyword("get") || p.current.IsContextKeyword("set") {
		accessor := p.current
		if err := p.next(); err != nil {
			return nil, err
		}
		if _, ok := p.identifierName(true); ok && !p.curTokenIs(lexer.LPAREN) {
			kind = functionGetter
			if accessor.Literal == "set" {
				kind = functionSetter
			}
		} else {
			name = Identifier{Value: accessor.Literal, Loc: accessor.Location}
		}
	}
	if name.Value == "" {
		var err error
		if name, err = p.expectIdentifier(kind != functionPlain); err != nil {
			return nil, err
		}
	}

	var generics Generics
	if p.curTokenIs(lexer.DOT) {
		params, err := p.parseGenericParams()
		if err != nil {
			return nil, err
		}
		generics.Params = params
	}

	common, err := p.parseFunctionCommon(true, &generics)
	if err != nil {
		return nil, err
	}
	if common.Body == nil {
		if err := p.semicolon(); err != nil {
			return nil, err
		}
	}

	base := BaseDirective{p.span(first.Location)}
	asdoc := p.asDocFor(docTok)
	switch {
	case kind == functionGetter:
		return &GetterDefinition{BaseDirective: base, AsDoc: asdoc, Annotations: annotations, Name: name, Common: common}, nil
	case kind == functionSetter:
		return &SetterDefinition{BaseDirective: base, AsDoc: asdoc, Annotations: annotations, Name: name, Common: common}, nil
	case ctx.kind == contextClass && name.Value == p.currentClassName():
		return &ConstructorDefinition{BaseDirective: base, AsDoc: asdoc, Annotations: annotations, Name: name, Common: common}, nil
	}
	return &FunctionDefinition{BaseDirective: base, AsDoc: asdoc, Annotations: annotations, Name: name, Generics: generics, Common: common}, nil
}

// parseFunctionCommon parses (params)[: R] [where ...] [{ body }]. A where
// clause is accepted when generics is non-nil.
func (p *Parser) parseFunctionCommon(bodyOptional bool, generics *Generics) (*FunctionCommon, error) {
	flags := p.enterFunction()
	defer p.exitFunction()

	params, err := p.parseFunctionParams()
	if err != nil {
		return nil, err
	}
	common := &FunctionCommon{Params: params}
	if p.curTokenIs(lexer.COLON) {
		if err := p.next(); err != nil {
			return nil, err
		}
		if common.ReturnAnnotation, err = p.parseTypeExpression(); err != nil {
			return nil, err
		}
	}
	if generics != nil {
		if generics.Where, err = p.parseWhereClause(); err != nil {
			return nil, err
		}
	}
	if p.curTokenIs(lexer.LBRACE) || !bodyOptional {
		block, err := p.parseBlock(directiveContext{kind: contextFunction})
		if err != nil {
			return nil, err
		}
		common.Body = &FunctionBody{Block: block}
	}
	common.Flags = *flags
	return common, nil
}

// parseFunctionParams parses (a, b: T = 1, ...rest).
func (p *Parser) parseFunctionParams() ([]*FunctionParam, error) {
	if err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []*FunctionParam
	for !p.curTokenIs(lexer.RPAREN) {
		start := p.current.Location
		kind := ParamRequired
		rest, err := p.consume(lexer.SPREAD)
		if err != nil {
			return nil, err
		}
		if rest {
			kind = ParamRest
		}
		pattern, err := p.parseTypedPattern()
		if err != nil {
			return nil, err
		}
		binding := &VariableBinding{Pattern: pattern}
		if !rest && p.curTokenIs(lexer.ASSIGN) {
			if err := p.next(); err != nil {
				return nil, err
			}
			if binding.Init, err = p.parseExpression(assignmentContext(true)); err != nil {
				return nil, err
			}
			kind = ParamOptional
		}
		param := &FunctionParam{Loc: p.span(start), Kind: kind, Binding: binding}
		if err := p.checkParamOrder(params, param); err != nil {
			return nil, err
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
	return params, p.expect(lexer.RPAREN)
}

// --- Generics ---

// parseGenericParams parses .<T, U: Constraint = Default>.
func (p *Parser) parseGenericParams() ([]*GenericParam, error) {
	if err := p.next(); err != nil { // past '.'
		return nil, err
	}
	if err := p.expect(lexer.LT); err != nil {
		return nil, err
	}
	var params []*GenericParam
	for {
		start := p.current.Location
		name, err := p.expectIdentifier(false)
		if err != nil {
			return nil, err
		}
		param := &GenericParam{Name: name}
		if p.curTokenIs(lexer.COLON) {
			if err := p.next(); err != nil {
				return nil, err
			}
			constraint, err := p.parseTypeExpression()
			if err != nil {
				return nil, err
			}
			param.Constraints = append(param.Constraints, constraint)
		}
		if p.curTokenIs(lexer.ASSIGN) {
			if err := p.next(); err != nil {
				return nil, err
			}
			if param.Default, err = p.parseTypeExpression(); err != nil {
				return nil, err
			}
		}
		param.Loc = p.span(start)
		params = append(params, param)

		more, err := p.consume(lexer.COMMA)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	return params, p.expectGenericsGT()
}

// parseWhereClause parses where T: C, U: D.
func (p *Parser) parseWhereClause() ([]*GenericsWhereConstraint, error) {
	hasWhere, err := p.consumeContextKeyword("where")
	if err != nil || !hasWhere {
		return nil, err
	}
	var constraints []*GenericsWhereConstraint
	for {
		name, err := p.expectIdentifier(false)
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		constraint, err := p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, &GenericsWhereConstraint{Name: name, Constraint: constraint})
		more, err := p.consume(lexer.COMMA)
		if err != nil {
			return nil, err
		}
		if !more {
			return constraints, nil
		}
	}
}

// --- Classes and interfaces ---

// parseClassDefinition parses a class definition
// Syntax: [attributes] class Name[.<T>] [extends T] [implements I, J] [where ...] { directives }
func (p *Parser) parseClassDefinition(first, docTok lexer.Token, annotations DefinitionAnnotations) (Directive, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier(false)
	if err != nil {
		return nil, err
	}
	class := &ClassDefinition{AsDoc: p.asDocFor(docTok), Annotations: annotations, Name: name}

	if p.curTokenIs(lexer.DOT) {
		if class.Generics.Params, err = p.parseGenericParams(); err != nil {
			return nil, err
		}
	}
	if p.curTokenIs(lexer.EXTENDS) {
		if err := p.next(); err != nil {
			return nil, err
		}
		if class.Extends, err = p.parseTypeExpression(); err != nil {
			return nil, err
		}
	}
	if p.curTokenIs(lexer.IMPLEMENTS) {
		if err := p.next(); err != nil {
			return nil, err
		}
		if class.Implements, err = p.parseTypeExpressionList(); err != nil {
			return nil, err
		}
	}
	if class.Generics.Where, err = p.parseWhereClause(); err != nil {
		return nil, err
	}

	p.classNames = append(p.classNames, name.Value)
	class.Block, err = p.parseBlock(directiveContext{kind: contextClass})
	p.classNames = p.classNames[:len(p.classNames)-1]
	if err != nil {
		return nil, err
	}
	class.Loc = p.span(first.Location)
	return class, nil
}

// parseInterfaceDefinition parses an interface definition
// Syntax: [attributes] interface Name[.<T>] [extends I, J] [where ...] { directives }
func (p *Parser) parseInterfaceDefinition(first, docTok lexer.Token, annotations DefinitionAnnotations) (Directive, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier(false)
	if err != nil {
		return nil, err
	}
	iface := &InterfaceDefinition{AsDoc: p.asDocFor(docTok), Annotations: annotations, Name: name}

	if p.curTokenIs(lexer.DOT) {
		if iface.Generics.Params, err = p.parseGenericParams(); err != nil {
			return nil, err
		}
	}
	if p.curTokenIs(lexer.EXTENDS) {
		if err := p.next(); err != nil {
			return nil, err
		}
		if iface.Extends, err = p.parseTypeExpressionList(); err != nil {
			return nil, err
		}
	}
	if iface.Generics.Where, err = p.parseWhereClause(); err != nil {
		return nil, err
	}
	if iface.Block, err = p.parseBlock(directiveContext{kind: contextInterface}); err != nil {
		return nil, err
	}
	iface.Loc = p.span(first.Location)
	return iface, nil
}

func (p *Parser) parseTypeExpressionList() ([]TypeExpression, error) {
	var list []TypeExpression
	for {
		t, err := p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
		list = append(list, t)
		more, err := p.consume(lexer.COMMA)
		if err != nil {
			return nil, err
		}
		if !more {
			return list, nil
		}
	}
}

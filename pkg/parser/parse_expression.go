package parser

import (
	"asfront/pkg/errors"
	"asfront/pkg/lexer"
	"asfront/pkg/source"
)

// exprContext carries the binding floor and whether 'in' is an operator
// (it is not inside for-loop heads).
type exprContext struct {
	minPrecedence OperatorPrecedence
	allowIn       bool
	consequent    bool // between '?' and ':' of a conditional
}

func assignmentContext(allowIn bool) exprContext {
	return exprContext{minPrecedence: PrecedenceAssignmentAndOther, allowIn: allowIn}
}

// postfixMode restricts which postfix operations parsePostfix accepts.
type postfixMode int

const (
	postfixAll        postfixMode = iota
	postfixChain                  // stop at '?.', used for the operations of an optional chain
	postfixMemberOnly             // no calls: the base of a new expression
)

func (p *Parser) parseExpression(ctx exprContext) (Expression, error) {
	start := p.current.Location
	left, err := p.parsePrefix(ctx)
	if err != nil {
		return left, err
	}
	return p.parseInfix(left, start, ctx)
}

// --- Prefix ---

func (p *Parser) parsePrefix(ctx exprContext) (Expression, error) {
	tok := p.current
	start := tok.Location

	if op, ok := prefixOperators[tok.Type]; ok {
		if err := p.next(); err != nil {
			return nil, err
		}
		if op == OperatorAwait {
			p.markFunction(FunctionAwait)
		}
		operand, err := p.parseExpression(exprContext{minPrecedence: PrecedenceUnary, allowIn: ctx.allowIn})
		if err != nil {
			return nil, err
		}
		u := p.arena.NewUnaryExpression()
		u.Loc = p.span(start)
		u.Operator = op
		u.Operand = operand
		return u, nil
	}

	switch tok.Type {
	case lexer.YIELD:
		if ctx.minPrecedence > PrecedenceAssignmentAndOther {
			return nil, p.syntaxError(tok.Location, errors.KindExpectedExpression, tok.Argument())
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		p.markFunction(FunctionYield)
		var operand Expression
		if p.startsOperand() {
			var err error
			if operand, err = p.parseExpression(assignmentContext(ctx.allowIn)); err != nil {
				return nil, err
			}
		}
		return &YieldExpression{BaseExpression: BaseExpression{p.span(start)}, Operand: operand}, nil

	case lexer.SPREAD:
		if err := p.next(); err != nil {
			return nil, err
		}
		operand, err := p.parseExpression(assignmentContext(ctx.allowIn))
		if err != nil {
			return nil, err
		}
		return &RestExpression{BaseExpression: BaseExpression{p.span(start)}, Expression: operand}, nil
	}

	primary, err := p.parsePrimary(ctx)
	if err != nil {
		return nil, err
	}
	if _, isArrow := primary.(*ArrowFunctionExpression); isArrow {
		return primary, nil
	}
	return p.parsePostfix(primary, start, postfixAll)
}

// startsOperand reports whether the current token can begin an optional
// operand on the same line.
func (p *Parser) startsOperand() bool {
	if p.current.PrecededByLineBreak {
		return false
	}
	switch p.current.Type {
	case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE, lexer.COMMA, lexer.SEMICOLON, lexer.COLON, lexer.EOF:
		return false
	}
	return true
}

// --- Primary ---

func (p *Parser) parsePrimary(ctx exprContext) (Expression, error) {
	tok := p.current
	start := tok.Location

	switch tok.Type {
	case lexer.NULL:
		return &NullLiteral{BaseExpression{start}}, p.next()
	case lexer.TRUE, lexer.FALSE:
		return &BooleanLiteral{BaseExpression: BaseExpression{start}, Value: tok.Type == lexer.TRUE}, p.next()
	case lexer.NUMBER:
		n := p.arena.NewNumericLiteral()
		n.Loc = start
		n.Value = tok.Value
		n.Raw = tok.Literal
		return n, p.next()
	case lexer.STRING:
		s := p.arena.NewStringLiteral()
		s.Loc = start
		s.Value = tok.Literal
		return s, p.next()
	case lexer.THIS:
		return &ThisExpression{BaseExpression{start}}, p.next()
	case lexer.SLASH, lexer.SLASH_ASSIGN:
		// division was assumed after ')' or ']'
		re, err := p.tokenizer.RescanRegExp(tok)
		if err != nil {
			return nil, err
		}
		p.current = re
		return p.parsePrimary(ctx)
	case lexer.REGEXP:
		return &RegExpLiteral{BaseExpression: BaseExpression{start}, Body: tok.Literal, Flags: tok.Flags}, p.next()
	case lexer.XML_MARKUP:
		return &XMLMarkupExpression{BaseExpression: BaseExpression{start}, Markup: tok.Literal}, p.next()
	case lexer.LT:
		return p.parseXMLInitializer()
	case lexer.IDENT, lexer.AT, lexer.ASTERISK:
		return p.parseQualifiedIdentifier()
	case lexer.PUBLIC, lexer.PRIVATE, lexer.PROTECTED, lexer.INTERNAL:
		ns := &ReservedNamespaceExpression{BaseExpression: BaseExpression{start}, Namespace: reservedNamespacesByName[string(tok.Type)]}
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.curTokenIs(lexer.COLON_COLON) {
			return p.parseQualifiedName(start, ns, false)
		}
		return ns, nil
	case lexer.LPAREN:
		return p.parseParenthesized(ctx)
	case lexer.LBRACKET:
		return p.parseArrayInitializer()
	case lexer.LBRACE:
		return p.parseObjectInitializer()
	case lexer.FUNCTION:
		return p.parseFunctionExpression()
	case lexer.NEW:
		return p.parseNewExpression()
	case lexer.SUPER:
		return p.parseSuperExpression()
	}
	return nil, p.syntaxError(start, errors.KindExpectedExpression, tok.Argument())
}

// parseQualifiedIdentifier parses [@]name, [@]qualifier::name, @[expr] and '*'.
func (p *Parser) parseQualifiedIdentifier() (*QualifiedIdentifier, error) {
	start := p.current.Location
	attribute := false
	if p.curTokenIs(lexer.AT) {
		attribute = true
		if err := p.advance(scanNoReserved); err != nil {
			return nil, err
		}
		if p.curTokenIs(lexer.LBRACKET) {
			key, err := p.parseBracketsKey()
			if err != nil {
				return nil, err
			}
			qi := p.arena.NewQualifiedIdentifier()
			qi.Loc = p.span(start)
			qi.Attribute = true
			qi.Name = IdentifierOrBrackets{Brackets: key}
			return qi, nil
		}
	}

	tok := p.current
	var name string
	switch {
	case tok.Type == lexer.IDENT:
		name = tok.Literal
	case tok.Type == lexer.ASTERISK:
		name = "*"
	case tok.Type.IsKeyword():
		name = string(tok.Type)
	default:
		return nil, p.syntaxError(tok.Location, errors.KindExpectedIdentifier, tok.Argument())
	}
	if err := p.next(); err != nil {
		return nil, err
	}

	if p.curTokenIs(lexer.COLON_COLON) {
		var qualifier Expression
		if ns, ok := reservedNamespacesByName[name]; ok {
			qualifier = &ReservedNamespaceExpression{BaseExpression: BaseExpression{tok.Location}, Namespace: ns}
		} else {
			q := p.arena.NewQualifiedIdentifier()
			q.Loc = tok.Location
			q.Name = IdentifierOrBrackets{Name: name, NameLoc: tok.Location}
			qualifier = q
		}
		return p.parseQualifiedName(start, qualifier, attribute)
	}

	qi := p.arena.NewQualifiedIdentifier()
	qi.Loc = p.span(start)
	qi.Attribute = attribute
	qi.Name = IdentifierOrBrackets{Name: name, NameLoc: tok.Location}
	return qi, nil
}

// parseQualifiedName parses the '::name' tail(s) after a qualifier.
func (p *Parser) parseQualifiedName(start source.Location, qualifier Expression, attribute bool) (*QualifiedIdentifier, error) {
	for {
		if err := p.advance(scanNoReserved); err != nil { // past '::'
			return nil, err
		}
		var name IdentifierOrBrackets
		switch p.current.Type {
		case lexer.IDENT:
			name = IdentifierOrBrackets{Name: p.current.Literal, NameLoc: p.current.Location}
			if err := p.next(); err != nil {
				return nil, err
			}
		case lexer.ASTERISK:
			name = IdentifierOrBrackets{Name: "*", NameLoc: p.current.Location}
			if err := p.next(); err != nil {
				return nil, err
			}
		case lexer.LBRACKET:
			key, err := p.parseBracketsKey()
			if err != nil {
				return nil, err
			}
			name = IdentifierOrBrackets{Brackets: key}
		default:
			return nil, p.syntaxError(p.current.Location, errors.KindExpectedIdentifier, p.current.Argument())
		}

		qi := p.arena.NewQualifiedIdentifier()
		qi.Loc = p.span(start)
		qi.Attribute = attribute
		qi.Qualifier = qualifier
		qi.Name = name
		if !p.curTokenIs(lexer.COLON_COLON) {
			return qi, nil
		}
		qualifier = qi
	}
}

// parseBracketsKey parses [expression] and returns the expression.
func (p *Parser) parseBracketsKey() (Expression, error) {
	if err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}
	key, err := p.parseExpression(exprContext{minPrecedence: PrecedenceList, allowIn: true})
	if err != nil {
		return nil, err
	}
	return key, p.expect(lexer.RBRACKET)
}

// --- Postfix ---

func (p *Parser) parsePostfix(base Expression, start source.Location, mode postfixMode) (Expression, error) {
	for {
		var err error
		switch p.current.Type {
		case lexer.DOT:
			if err = p.advance(scanNoReserved); err != nil {
				return nil, err
			}
			switch p.current.Type {
			case lexer.LT:
				if err = p.next(); err != nil {
					return nil, err
				}
				args, err := p.parseTypeArgumentList()
				if err != nil {
					return nil, err
				}
				base = &TypeArgumentsExpression{BaseExpression: BaseExpression{p.span(start)}, Base: base, Arguments: args}
			case lexer.LPAREN:
				if err = p.next(); err != nil {
					return nil, err
				}
				cond, err := p.parseExpression(exprContext{minPrecedence: PrecedenceList, allowIn: true})
				if err != nil {
					return nil, err
				}
				if err = p.expect(lexer.RPAREN); err != nil {
					return nil, err
				}
				base = &FilterExpression{BaseExpression: BaseExpression{p.span(start)}, Base: base, Condition: cond}
			default:
				id, err := p.parseQualifiedIdentifier()
				if err != nil {
					return nil, err
				}
				m := p.arena.NewDotMemberExpression()
				m.Loc = p.span(start)
				m.Base = base
				m.ID = id
				base = m
			}

		case lexer.DESCENDANTS:
			if err = p.advance(scanNoReserved); err != nil {
				return nil, err
			}
			id, err := p.parseQualifiedIdentifier()
			if err != nil {
				return nil, err
			}
			base = &DescendantsExpression{BaseExpression: BaseExpression{p.span(start)}, Base: base, ID: id}

		case lexer.LBRACKET:
			key, err := p.parseBracketsKey()
			if err != nil {
				return nil, err
			}
			base = &BracketsMemberExpression{BaseExpression: BaseExpression{p.span(start)}, Base: base, Key: key}

		case lexer.LPAREN:
			if mode == postfixMemberOnly {
				return base, nil
			}
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			call := p.arena.NewCallExpression()
			call.Loc = p.span(start)
			call.Base = base
			call.Arguments = args
			base = call

		case lexer.INC, lexer.DEC:
			if mode == postfixMemberOnly || p.current.PrecededByLineBreak {
				return base, nil
			}
			op := OperatorPostIncrement
			if p.curTokenIs(lexer.DEC) {
				op = OperatorPostDecrement
			}
			if err = p.next(); err != nil {
				return nil, err
			}
			u := p.arena.NewUnaryExpression()
			u.Loc = p.span(start)
			u.Operator = op
			u.Operand = base
			base = u

		case lexer.BANG:
			if mode == postfixMemberOnly || p.current.PrecededByLineBreak {
				return base, nil
			}
			if err = p.next(); err != nil {
				return nil, err
			}
			base = &NonNullExpression{BaseExpression: BaseExpression{p.span(start)}, Expression: base}

		case lexer.OPTIONAL_CHAINING:
			if mode != postfixAll {
				return base, nil
			}
			if base, err = p.parseOptionalChaining(base, start); err != nil {
				return nil, err
			}

		default:
			return base, nil
		}
	}
}

// parseOptionalChaining parses '?.' and the operations that follow it up to
// the next '?.'. The operations are rooted at an OptionalChainingHost.
func (p *Parser) parseOptionalChaining(base Expression, start source.Location) (Expression, error) {
	hostLoc := p.current.Location
	host := &OptionalChainingHost{BaseExpression{hostLoc}}
	if err := p.advance(scanNoReserved); err != nil {
		return nil, err
	}

	var first Expression
	switch p.current.Type {
	case lexer.LPAREN:
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		call := p.arena.NewCallExpression()
		call.Loc = p.span(hostLoc)
		call.Base = host
		call.Arguments = args
		first = call
	case lexer.LBRACKET:
		key, err := p.parseBracketsKey()
		if err != nil {
			return nil, err
		}
		first = &BracketsMemberExpression{BaseExpression: BaseExpression{p.span(hostLoc)}, Base: host, Key: key}
	default:
		id, err := p.parseQualifiedIdentifier()
		if err != nil {
			return nil, err
		}
		m := p.arena.NewDotMemberExpression()
		m.Loc = p.span(hostLoc)
		m.Base = host
		m.ID = id
		first = m
	}

	operations, err := p.parsePostfix(first, hostLoc, postfixChain)
	if err != nil {
		return nil, err
	}
	return &OptionalChainingExpression{BaseExpression: BaseExpression{p.span(start)}, Base: base, Operations: operations}, nil
}

// parseArguments parses (a, b, ...c).
func (p *Parser) parseArguments() ([]Expression, error) {
	if err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var args []Expression
	for !p.curTokenIs(lexer.RPAREN) {
		arg, err := p.parseExpression(assignmentContext(true))
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		more, err := p.consume(lexer.COMMA)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	return args, p.expect(lexer.RPAREN)
}

// parseTypeArgumentList parses T1, T2> with '<' already consumed.
func (p *Parser) parseTypeArgumentList() ([]TypeExpression, error) {
	var args []TypeExpression
	for {
		t, err := p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
		more, err := p.consume(lexer.COMMA)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	return args, p.expectGenericsGT()
}

// --- Infix ---

func (p *Parser) parseInfix(left Expression, start source.Location, ctx exprContext) (Expression, error) {
	for {
		tok := p.current
		var err error

		if op, ok := binaryOperators[tok.Type]; ok {
			if op == OperatorIn && !ctx.allowIn {
				return left, nil
			}
			prec := op.Precedence()
			if prec < ctx.minPrecedence {
				return left, nil
			}
			if err = p.next(); err != nil {
				return nil, err
			}
			rightPrec := prec
			if !op.RightAssociative() {
				rightPrec, _ = prec.Tighter()
			}
			right, err := p.parseExpression(exprContext{minPrecedence: rightPrec, allowIn: ctx.allowIn})
			if err != nil {
				return nil, err
			}
			b := p.arena.NewBinaryExpression()
			b.Loc = p.span(start)
			b.Left = left
			b.Operator = op
			b.Right = right
			left = b
			continue
		}

		if compound, ok := compoundAssignments[tok.Type]; ok {
			if PrecedenceAssignmentAndOther < ctx.minPrecedence {
				return left, nil
			}
			if left, err = p.parseAssignment(left, start, compound, ctx); err != nil {
				return nil, err
			}
			continue
		}

		switch tok.Type {
		case lexer.QUESTION:
			if PrecedenceAssignmentAndOther < ctx.minPrecedence {
				return left, nil
			}
			if err = p.next(); err != nil {
				return nil, err
			}
			consequent, err := p.parseExpression(exprContext{minPrecedence: PrecedenceAssignmentAndOther, allowIn: true, consequent: true})
			if err != nil {
				return nil, err
			}
			if err = p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			alternative, err := p.parseExpression(assignmentContext(ctx.allowIn))
			if err != nil {
				return nil, err
			}
			left = &ConditionalExpression{BaseExpression: BaseExpression{p.span(start)}, Test: left, Consequent: consequent, Alternative: alternative}

		case lexer.ARROW:
			if PrecedenceAssignmentAndOther < ctx.minPrecedence {
				return left, nil
			}
			params, err := p.arrowParamsFrom(left)
			if err != nil {
				return nil, err
			}
			if left, err = p.parseArrowFunction(start, params, ctx); err != nil {
				return nil, err
			}

		case lexer.COMMA:
			if PrecedenceList < ctx.minPrecedence {
				return left, nil
			}
			if err = p.next(); err != nil {
				return nil, err
			}
			right, err := p.parseExpression(assignmentContext(ctx.allowIn))
			if err != nil {
				return nil, err
			}
			left = &SequenceExpression{BaseExpression: BaseExpression{p.span(start)}, Left: left, Right: right}

		default:
			return left, nil
		}
	}
}

func (p *Parser) parseAssignment(left Expression, start source.Location, compound Operator, ctx exprContext) (Expression, error) {
	var pattern *Destructuring
	if compound == OperatorNone {
		switch left.(type) {
		case *ArrayInitializer, *ObjectInitializer:
			var err error
			if pattern, err = p.toDestructuring(left); err != nil {
				return nil, err
			}
		}
	}
	if pattern == nil && !isAssignmentTarget(left) {
		return nil, p.syntaxError(left.Location(), errors.KindInvalidAssignmentTarget)
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	right, err := p.parseExpression(assignmentContext(ctx.allowIn))
	if err != nil {
		return nil, err
	}
	return &AssignmentExpression{
		BaseExpression: BaseExpression{p.span(start)},
		Left:           left,
		Pattern:        pattern,
		Compound:       compound,
		Right:          right,
	}, nil
}

func isAssignmentTarget(e Expression) bool {
	switch e := e.(type) {
	case *QualifiedIdentifier, *DotMemberExpression, *BracketsMemberExpression, *DescendantsExpression:
		return true
	case *NonNullExpression:
		return isAssignmentTarget(e.Expression)
	case *ParenExpression:
		return isAssignmentTarget(e.Expression)
	}
	return false
}

// --- Parenthesized expressions and arrow functions ---

// parenItem is one element of a parenthesized list before it is known
// whether the list is an expression or arrow parameters.
type parenItem struct {
	loc  source.Location
	expr Expression
	typ  TypeExpression
	init Expression
	rest bool
}

// parseParenthesized parses (...). A list that is empty, has typed elements
// or contains a rest element can only be an arrow parameter list.
func (p *Parser) parseParenthesized(ctx exprContext) (Expression, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	if p.curTokenIs(lexer.RPAREN) {
		if err := p.next(); err != nil {
			return nil, err
		}
		return p.parseArrowFunction(start, nil, ctx)
	}

	var items []parenItem
	arrowOnly := false
	for {
		itemStart := p.current.Location
		var item parenItem
		if p.curTokenIs(lexer.SPREAD) {
			if err := p.next(); err != nil {
				return nil, err
			}
			target, err := p.parseExpression(assignmentContext(true))
			if err != nil {
				return nil, err
			}
			item.expr = &RestExpression{BaseExpression: BaseExpression{p.span(itemStart)}, Expression: target}
			item.rest = true
			arrowOnly = true
		} else {
			e, err := p.parseExpression(assignmentContext(true))
			if err != nil {
				return nil, err
			}
			item.expr = e
		}
		if p.curTokenIs(lexer.COLON) {
			arrowOnly = true
			if err := p.next(); err != nil {
				return nil, err
			}
			t, err := p.parseTypeExpression()
			if err != nil {
				return nil, err
			}
			item.typ = t
			if !item.rest && p.curTokenIs(lexer.ASSIGN) {
				if err := p.next(); err != nil {
					return nil, err
				}
				if item.init, err = p.parseExpression(assignmentContext(true)); err != nil {
					return nil, err
				}
			}
		}
		item.loc = p.span(itemStart)
		items = append(items, item)

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

	if !arrowOnly && p.curTokenIs(lexer.COLON) && !ctx.consequent && ctx.minPrecedence <= PrecedenceAssignmentAndOther {
		arrowOnly = p.arrowReturnTypeFollows()
	}
	if arrowOnly {
		params := make([]*FunctionParam, 0, len(items))
		for _, item := range items {
			param, err := p.paramFromItem(item)
			if err != nil {
				return nil, err
			}
			if err := p.checkParamOrder(params, param); err != nil {
				return nil, err
			}
			params = append(params, param)
		}
		return p.parseArrowFunction(start, params, ctx)
	}

	inner := items[0].expr
	for _, item := range items[1:] {
		inner = &SequenceExpression{BaseExpression: BaseExpression{items[0].loc.CombineWith(item.loc)}, Left: inner, Right: item.expr}
	}
	paren := &ParenExpression{BaseExpression: BaseExpression{p.span(start)}, Expression: inner}
	if p.curTokenIs(lexer.COLON_COLON) {
		return p.parseQualifiedName(start, paren, false)
	}
	return paren, nil
}

// arrowReturnTypeFollows reports whether the ':' at the cursor starts an
// arrow return annotation, that is a type expression followed by '=>'. The
// lookahead runs on a separate tokenizer and leaves the cursor untouched.
func (p *Parser) arrowReturnTypeFollows() bool {
	scratch := errors.NewCollector()
	t := lexer.NewTokenizerRange(p.source, p.current.Location.LastOffset, p.tokenizer.End(), scratch)
	sub := NewParserFromTokenizer(t, scratch, WithAsDoc(false), WithArena(p.arena))
	if _, err := sub.ParseTypeExpression(); err != nil {
		return false
	}
	return sub.curTokenIs(lexer.ARROW)
}

// paramFromItem converts a parenthesized list element into a parameter.
func (p *Parser) paramFromItem(item parenItem) (*FunctionParam, error) {
	kind := ParamRequired
	target := item.expr
	init := item.init
	switch e := item.expr.(type) {
	case *RestExpression:
		kind = ParamRest
		target = e.Expression
	case *AssignmentExpression:
		if e.Compound == OperatorNone && item.typ == nil && init == nil {
			target = e.Left
			if e.Pattern != nil {
				target = nil
			}
			init = e.Right
		}
	}
	if init != nil && kind == ParamRequired {
		kind = ParamOptional
	}

	var pattern *Destructuring
	if target == nil {
		pattern = item.expr.(*AssignmentExpression).Pattern
	} else {
		var err error
		if pattern, err = p.toDestructuring(target); err != nil {
			return nil, err
		}
	}
	if item.typ != nil {
		pattern.TypeAnnotation = item.typ
	}
	return &FunctionParam{
		Loc:     item.loc,
		Kind:    kind,
		Binding: &VariableBinding{Pattern: pattern, Init: init},
	}, nil
}

// arrowParamsFrom converts the expression to the left of '=>' into
// parameters: a bare identifier or a parenthesized list.
func (p *Parser) arrowParamsFrom(left Expression) ([]*FunctionParam, error) {
	var elements []Expression
	switch e := left.(type) {
	case *QualifiedIdentifier:
		elements = []Expression{e}
	case *ParenExpression:
		elements = flattenSequence(e.Expression, nil)
	default:
		return nil, p.syntaxError(left.Location(), errors.KindInvalidDestructuringTarget)
	}
	params := make([]*FunctionParam, 0, len(elements))
	for _, element := range elements {
		param, err := p.paramFromItem(parenItem{loc: element.Location(), expr: element})
		if err != nil {
			return nil, err
		}
		if err := p.checkParamOrder(params, param); err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	return params, nil
}

func flattenSequence(e Expression, out []Expression) []Expression {
	if seq, ok := e.(*SequenceExpression); ok {
		out = flattenSequence(seq.Left, out)
		return append(out, seq.Right)
	}
	return append(out, e)
}

// parseArrowFunction parses [: ReturnType] => body after the parameters.
func (p *Parser) parseArrowFunction(start source.Location, params []*FunctionParam, ctx exprContext) (Expression, error) {
	var returnType TypeExpression
	if p.curTokenIs(lexer.COLON) {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		if returnType, err = p.parseTypeExpression(); err != nil {
			return nil, err
		}
	}
	if !p.curTokenIs(lexer.ARROW) {
		return nil, p.syntaxError(p.current.Location, errors.KindExpectedArrow, p.current.Argument())
	}
	if err := p.next(); err != nil {
		return nil, err
	}

	flags := p.enterFunction()
	body := &FunctionBody{}
	var err error
	if p.curTokenIs(lexer.LBRACE) {
		body.Block, err = p.parseBlock(directiveContext{kind: contextFunction})
	} else {
		body.Expression, err = p.parseExpression(assignmentContext(ctx.allowIn))
	}
	p.exitFunction()
	if err != nil {
		return nil, err
	}

	return &ArrowFunctionExpression{
		BaseExpression: BaseExpression{p.span(start)},
		Common: &FunctionCommon{
			Flags:            *flags,
			Params:           params,
			ReturnAnnotation: returnType,
			Body:             body,
		},
	}, nil
}

// --- Initializers ---

func (p *Parser) parseArrayInitializer() (Expression, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	var elements []Expression
	for !p.curTokenIs(lexer.RBRACKET) {
		if p.curTokenIs(lexer.COMMA) {
			elements = append(elements, nil)
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		e, err := p.parseExpression(assignmentContext(true))
		if err != nil {
			return nil, err
		}
		elements = append(elements, e)
		if p.curTokenIs(lexer.RBRACKET) {
			break
		}
		if err := p.expect(lexer.COMMA); err != nil {
			return nil, err
		}
	}
	if err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return &ArrayInitializer{BaseExpression: BaseExpression{p.span(start)}, Elements: elements}, nil
}

func (p *Parser) parseObjectInitializer() (Expression, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	var fields []*ObjectField
	for !p.curTokenIs(lexer.RBRACE) {
		field, err := p.parseObjectField()
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
	return &ObjectInitializer{BaseExpression: BaseExpression{p.span(start)}, Fields: fields}, nil
}

func (p *Parser) parseObjectField() (*ObjectField, error) {
	start := p.current.Location
	if p.curTokenIs(lexer.SPREAD) {
		if err := p.next(); err != nil {
			return nil, err
		}
		rest, err := p.parseExpression(assignmentContext(true))
		if err != nil {
			return nil, err
		}
		return &ObjectField{Loc: p.span(start), Rest: rest}, nil
	}

	key, err := p.parseObjectKey()
	if err != nil {
		return nil, err
	}
	field := &ObjectField{Key: key}
	if p.curTokenIs(lexer.BANG) {
		field.NonNull = true
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	if p.curTokenIs(lexer.COLON) {
		if err := p.next(); err != nil {
			return nil, err
		}
		if field.Value, err = p.parseExpression(assignmentContext(true)); err != nil {
			return nil, err
		}
	} else if key.Kind != ObjectKeyIdentifier {
		return nil, p.syntaxError(p.current.Location, errors.KindExpected, lexer.TypeArgument(lexer.COLON), p.current.Argument())
	}
	field.Loc = p.span(start)
	return field, nil
}

// parseObjectKey parses an identifier (reserved words allowed), string,
// number or [expression] key.
func (p *Parser) parseObjectKey() (ObjectKey, error) {
	tok := p.current
	switch tok.Type {
	case lexer.STRING:
		return ObjectKey{Kind: ObjectKeyString, Loc: tok.Location, String: tok.Literal}, p.next()
	case lexer.NUMBER:
		return ObjectKey{Kind: ObjectKeyNumber, Loc: tok.Location, Number: tok.Value}, p.next()
	case lexer.LBRACKET:
		key, err := p.parseBracketsKey()
		if err != nil {
			return ObjectKey{}, err
		}
		return ObjectKey{Kind: ObjectKeyBrackets, Loc: p.span(tok.Location), Brackets: key}, nil
	}
	if tok.Type != lexer.IDENT && !tok.Type.IsKeyword() {
		return ObjectKey{}, p.syntaxError(tok.Location, errors.KindExpectedIdentifier, tok.Argument())
	}
	id, err := p.parseQualifiedIdentifier()
	if err != nil {
		return ObjectKey{}, err
	}
	return ObjectKey{Kind: ObjectKeyIdentifier, Loc: id.Loc, ID: id}, nil
}

// --- new, super, function ---

func (p *Parser) parseNewExpression() (Expression, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	if p.curTokenIs(lexer.LT) {
		return p.parseVectorInitializer(start)
	}

	baseStart := p.current.Location
	var base Expression
	var err error
	if p.curTokenIs(lexer.NEW) {
		base, err = p.parseNewExpression()
	} else {
		base, err = p.parsePrimary(exprContext{minPrecedence: PrecedencePostfix, allowIn: true})
	}
	if err != nil {
		return nil, err
	}
	if base, err = p.parsePostfix(base, baseStart, postfixMemberOnly); err != nil {
		return nil, err
	}

	n := &NewExpression{Base: base}
	if p.curTokenIs(lexer.LPAREN) {
		if n.Arguments, err = p.parseArguments(); err != nil {
			return nil, err
		}
		n.HasArguments = true
	}
	n.Loc = p.span(start)
	return n, nil
}

// parseVectorInitializer parses <T>[elements] after 'new'.
func (p *Parser) parseVectorInitializer(start source.Location) (Expression, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	elementType, err := p.parseTypeExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectGenericsGT(); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}
	var elements []Expression
	for !p.curTokenIs(lexer.RBRACKET) {
		e, err := p.parseExpression(assignmentContext(true))
		if err != nil {
			return nil, err
		}
		elements = append(elements, e)
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
	return &VectorInitializer{BaseExpression: BaseExpression{p.span(start)}, ElementType: elementType, Elements: elements}, nil
}

func (p *Parser) parseSuperExpression() (Expression, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	s := &SuperExpression{}
	if p.curTokenIs(lexer.LPAREN) {
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		s.Arguments = args
		s.HasArguments = true
	}
	s.Loc = p.span(start)
	return s, nil
}

func (p *Parser) parseFunctionExpression() (Expression, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	var name *Identifier
	if p.curTokenIs(lexer.IDENT) {
		name = &Identifier{Value: p.current.Literal, Loc: p.current.Location}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	common, err := p.parseFunctionCommon(false, nil)
	if err != nil {
		return nil, err
	}
	return &FunctionExpression{BaseExpression: BaseExpression{p.span(start)}, Name: name, Common: common}, nil
}

package parser

import (
	"asfront/pkg/errors"
	"asfront/pkg/lexer"
	"asfront/pkg/source"
)

type contextKind int

const (
	contextTopLevel contextKind = iota
	contextPackage
	contextClass
	contextInterface
	contextEnum
	contextFunction
	contextBlock
)

// directiveContext tells directive parsing what encloses it.
type directiveContext struct {
	kind contextKind
}

var blockContext = directiveContext{kind: contextBlock}

// parseDirectives parses directives until end (or EOF).
func (p *Parser) parseDirectives(ctx directiveContext, end lexer.TokenType) ([]Directive, error) {
	var directives []Directive
	for !p.curTokenIs(end) && !p.curTokenIs(lexer.EOF) {
		d, err := p.parseDirective(ctx)
		if err != nil {
			return directives, err
		}
		directives = append(directives, d)
	}
	return directives, nil
}

// parseBlock parses { directives }.
func (p *Parser) parseBlock(ctx directiveContext) (*Block, error) {
	start := p.current.Location
	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	directives, err := p.parseDirectives(ctx, lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	block := p.arena.NewBlock()
	block.Loc = p.span(start)
	block.Directives = directives
	return block, nil
}

// parseDirective parses one directive: an import, a use, a definition with
// its attributes, or a statement.
func (p *Parser) parseDirective(ctx directiveContext) (Directive, error) {
	tok := p.current
	debugPrint("parseDirective: %s %q", tok.Type, tok.Literal)

	switch tok.Type {
	case lexer.IMPORT:
		return p.parseImportDirective()
	case lexer.USE:
		return p.parseUseNamespaceDirective()
	case lexer.VAR, lexer.CONST, lexer.FUNCTION, lexer.CLASS, lexer.INTERFACE:
		return p.parseDefinition(ctx, tok, tok, DefinitionAnnotations{})
	case lexer.IDENT, lexer.PUBLIC, lexer.PRIVATE, lexer.PROTECTED, lexer.INTERNAL:
		return p.parseDirectiveFromExpression(ctx)
	case lexer.LBRACKET:
		return p.parseMetadataOrStatement(ctx)
	}
	return p.parseStatement(blockContext)
}

// parseDirectiveFromExpression handles directives led by an identifier or
// reserved namespace. The expression is parsed first; what follows it on
// the same line decides between an attribute list, an include, a
// namespace/type/enum definition, a label and an expression statement.
func (p *Parser) parseDirectiveFromExpression(ctx directiveContext) (Directive, error) {
	first := p.current
	expr, err := p.parseExpression(exprContext{minPrecedence: PrecedenceList, allowIn: true})
	if err != nil {
		return nil, err
	}

	if qi, ok := expr.(*QualifiedIdentifier); ok && !p.current.PrecededByLineBreak {
		if qi.IsIdentifier("include") && p.curTokenIs(lexer.STRING) {
			return p.parseIncludeDirective(first.Location)
		}
		if p.curTokenIs(lexer.IDENT) {
			switch {
			case qi.IsIdentifier("namespace"):
				return p.parseNamespaceDefinition(first, first, DefinitionAnnotations{})
			case qi.IsIdentifier("type"):
				return p.parseTypeDefinition(first, first, DefinitionAnnotations{})
			case qi.IsIdentifier("enum"):
				return p.parseEnumDefinition(first, first, DefinitionAnnotations{})
			}
		}
	}

	if isAttributeExpression(expr) && !p.current.PrecededByLineBreak && p.startsDefinitionOrAttribute() {
		var annotations DefinitionAnnotations
		applyAttribute(&annotations, expr)
		return p.parseAnnotatedDefinition(ctx, first, first, annotations)
	}
	return p.finishExpressionStatement(first.Location, expr)
}

// finishExpressionStatement turns a parsed expression into a labeled or
// expression statement.
func (p *Parser) finishExpressionStatement(start source.Location, expr Expression) (Statement, error) {
	if qi, ok := expr.(*QualifiedIdentifier); ok && p.curTokenIs(lexer.COLON) {
		if label, ok := qi.ToIdentifier(); ok {
			if err := p.next(); err != nil {
				return nil, err
			}
			body, err := p.parseStatement(blockContext)
			if err != nil {
				return nil, err
			}
			return &LabeledStatement{BaseStatement: BaseStatement{p.span(start)}, Label: label, Statement: body}, nil
		}
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	stmt := p.arena.NewExpressionStatement()
	stmt.Loc = p.span(start)
	stmt.Expression = expr
	return stmt, nil
}

// parseStatement parses a statement. Definitions are not allowed here.
func (p *Parser) parseStatement(ctx directiveContext) (Statement, error) {
	tok := p.current
	start := tok.Location

	switch tok.Type {
	case lexer.SEMICOLON:
		return &EmptyStatement{BaseStatement{start}}, p.next()
	case lexer.LBRACE:
		return p.parseBlock(blockContext)
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.DO:
		return p.parseDoStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.WITH:
		return p.parseWithStatement()
	case lexer.CONTINUE, lexer.BREAK:
		return p.parseJumpStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.DEFAULT:
		return p.parseDefaultXMLNamespaceStatement()
	case lexer.VAR, lexer.CONST:
		decl, err := p.parseSimpleVariableDeclaration(true)
		if err != nil {
			return nil, err
		}
		return decl, p.semicolon()
	}

	expr, err := p.parseExpression(exprContext{minPrecedence: PrecedenceList, allowIn: true})
	if err != nil {
		return nil, err
	}
	if s, ok := expr.(*SuperExpression); ok && s.HasArguments {
		if err := p.semicolon(); err != nil {
			return nil, err
		}
		return &SuperStatement{BaseStatement: BaseStatement{p.span(start)}, Arguments: s.Arguments}, nil
	}
	return p.finishExpressionStatement(start, expr)
}

// parseParenExpression parses ( expression ).
func (p *Parser) parseParenExpression() (Expression, error) {
	if err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	e, err := p.parseExpression(exprContext{minPrecedence: PrecedenceList, allowIn: true})
	if err != nil {
		return nil, err
	}
	return e, p.expect(lexer.RPAREN)
}

// Syntax: if (condition) statement [else statement]
func (p *Parser) parseIfStatement() (Statement, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	cond, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	consequent, err := p.parseStatement(blockContext)
	if err != nil {
		return nil, err
	}
	stmt := &IfStatement{Condition: cond, Consequent: consequent}
	hasElse, err := p.consume(lexer.ELSE)
	if err != nil {
		return nil, err
	}
	if hasElse {
		if stmt.Alternative, err = p.parseStatement(blockContext); err != nil {
			return nil, err
		}
	}
	stmt.Loc = p.span(start)
	return stmt, nil
}

// Syntax: switch (discriminant) { case test: directives... default: directives... }
func (p *Parser) parseSwitchStatement() (Statement, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	if p.current.IsContextKeyword("type") {
		return p.parseSwitchTypeStatement(start)
	}
	disc, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	stmt := &SwitchStatement{Discriminant: disc}
	for !p.curTokenIs(lexer.RBRACE) {
		caseStart := p.current.Location
		sc := &SwitchCase{}
		switch p.current.Type {
		case lexer.CASE:
			if err := p.next(); err != nil {
				return nil, err
			}
			if sc.Test, err = p.parseExpression(exprContext{minPrecedence: PrecedenceList, allowIn: true}); err != nil {
				return nil, err
			}
		case lexer.DEFAULT:
			if err := p.next(); err != nil {
				return nil, err
			}
		default:
			return nil, p.syntaxError(p.current.Location, errors.KindExpectedKeyword, errors.StringArgument("case"), p.current.Argument())
		}
		if err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		for !p.curTokenIs(lexer.CASE) && !p.curTokenIs(lexer.DEFAULT) && !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
			d, err := p.parseDirective(blockContext)
			if err != nil {
				return nil, err
			}
			sc.Consequent = append(sc.Consequent, d)
		}
		sc.Loc = p.span(caseStart)
		stmt.Cases = append(stmt.Cases, sc)
	}
	if err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	stmt.Loc = p.span(start)
	return stmt, nil
}

// Syntax: switch type (discriminant) { case (x: T) { } default { } }
func (p *Parser) parseSwitchTypeStatement(start source.Location) (Statement, error) {
	if err := p.next(); err != nil { // past 'type'
		return nil, err
	}
	disc, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	stmt := &SwitchTypeStatement{Discriminant: disc}
	for !p.curTokenIs(lexer.RBRACE) {
		caseStart := p.current.Location
		tc := &SwitchTypeCase{}
		switch p.current.Type {
		case lexer.CASE:
			if err := p.next(); err != nil {
				return nil, err
			}
			if err := p.expect(lexer.LPAREN); err != nil {
				return nil, err
			}
			if tc.Pattern, err = p.parseTypedPattern(); err != nil {
				return nil, err
			}
			if err := p.expect(lexer.RPAREN); err != nil {
				return nil, err
			}
		case lexer.DEFAULT:
			if err := p.next(); err != nil {
				return nil, err
			}
		default:
			return nil, p.syntaxError(p.current.Location, errors.KindExpectedKeyword, errors.StringArgument("case"), p.current.Argument())
		}
		if tc.Block, err = p.parseBlock(blockContext); err != nil {
			return nil, err
		}
		tc.Loc = p.span(caseStart)
		stmt.Cases = append(stmt.Cases, tc)
	}
	if err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	stmt.Loc = p.span(start)
	return stmt, nil
}

// Syntax: do statement while (test)
func (p *Parser) parseDoStatement() (Statement, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	body, err := p.parseStatement(blockContext)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.WHILE); err != nil {
		return nil, err
	}
	test, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &DoStatement{BaseStatement: BaseStatement{p.span(start)}, Body: body, Test: test}, nil
}

func (p *Parser) parseWhileStatement() (Statement, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	test, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement(blockContext)
	if err != nil {
		return nil, err
	}
	return &WhileStatement{BaseStatement: BaseStatement{p.span(start)}, Test: test, Body: body}, nil
}

// parseForStatement parses the three for-loop forms:
// for (init; test; update), for (left in right) and for each (left in right).
func (p *Parser) parseForStatement() (Statement, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	each, err := p.consumeContextKeyword("each")
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	var initVar *SimpleVariableDeclaration
	var initExpr Expression
	switch p.current.Type {
	case lexer.VAR, lexer.CONST:
		initVar, err = p.parseSimpleVariableDeclaration(false)
	case lexer.SEMICOLON:
	default:
		initExpr, err = p.parseExpression(exprContext{minPrecedence: PrecedenceList, allowIn: false})
	}
	if err != nil {
		return nil, err
	}

	if each || p.curTokenIs(lexer.IN) {
		if err := p.expect(lexer.IN); err != nil {
			return nil, err
		}
		if initVar != nil && (len(initVar.Bindings) != 1 || initVar.Bindings[0].Init != nil) {
			return nil, p.syntaxError(initVar.Loc, errors.KindInvalidDestructuringTarget)
		}
		if initVar == nil && initExpr == nil {
			return nil, p.syntaxError(p.previous.Location, errors.KindExpectedExpression, p.previous.Argument())
		}
		right, err := p.parseExpression(exprContext{minPrecedence: PrecedenceList, allowIn: true})
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		body, err := p.parseStatement(blockContext)
		if err != nil {
			return nil, err
		}
		return &ForInStatement{
			BaseStatement:  BaseStatement{p.span(start)},
			Each:           each,
			LeftVariable:   initVar,
			LeftExpression: initExpr,
			Right:          right,
			Body:           body,
		}, nil
	}

	stmt := &ForStatement{InitVariable: initVar, InitExpression: initExpr}
	if err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	if !p.curTokenIs(lexer.SEMICOLON) {
		if stmt.Test, err = p.parseExpression(exprContext{minPrecedence: PrecedenceList, allowIn: true}); err != nil {
			return nil, err
		}
	}
	if err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	if !p.curTokenIs(lexer.RPAREN) {
		if stmt.Update, err = p.parseExpression(exprContext{minPrecedence: PrecedenceList, allowIn: true}); err != nil {
			return nil, err
		}
	}
	if err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseStatement(blockContext); err != nil {
		return nil, err
	}
	stmt.Loc = p.span(start)
	return stmt, nil
}

// parseSimpleVariableDeclaration parses var/const bindings without attributes.
func (p *Parser) parseSimpleVariableDeclaration(allowIn bool) (*SimpleVariableDeclaration, error) {
	start := p.current.Location
	kind := VariableVar
	if p.curTokenIs(lexer.CONST) {
		kind = VariableConst
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	bindings, err := p.parseVariableBindings(allowIn)
	if err != nil {
		return nil, err
	}
	return &SimpleVariableDeclaration{
		BaseStatement: BaseStatement{p.span(start)},
		Kind:          kind,
		KindLoc:       start,
		Bindings:      bindings,
	}, nil
}

// parseVariableBindings parses pattern[: T][= init], ...
func (p *Parser) parseVariableBindings(allowIn bool) ([]*VariableBinding, error) {
	var bindings []*VariableBinding
	for {
		pattern, err := p.parseTypedPattern()
		if err != nil {
			return nil, err
		}
		binding := &VariableBinding{Pattern: pattern}
		if p.curTokenIs(lexer.ASSIGN) {
			if err := p.next(); err != nil {
				return nil, err
			}
			if binding.Init, err = p.parseExpression(assignmentContext(allowIn)); err != nil {
				return nil, err
			}
		}
		bindings = append(bindings, binding)
		more, err := p.consume(lexer.COMMA)
		if err != nil {
			return nil, err
		}
		if !more {
			return bindings, nil
		}
	}
}

func (p *Parser) parseWithStatement() (Statement, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	obj, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement(blockContext)
	if err != nil {
		return nil, err
	}
	return &WithStatement{BaseStatement: BaseStatement{p.span(start)}, Object: obj, Body: body}, nil
}

// parseJumpStatement parses continue [label] and break [label].
func (p *Parser) parseJumpStatement() (Statement, error) {
	tok := p.current
	if err := p.next(); err != nil {
		return nil, err
	}
	var label *Identifier
	if p.curTokenIs(lexer.IDENT) && !p.current.PrecededByLineBreak {
		label = &Identifier{Value: p.current.Literal, Loc: p.current.Location}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	loc := p.span(tok.Location)
	if tok.Type == lexer.CONTINUE {
		return &ContinueStatement{BaseStatement: BaseStatement{loc}, Label: label}, nil
	}
	return &BreakStatement{BaseStatement: BaseStatement{loc}, Label: label}, nil
}

func (p *Parser) parseReturnStatement() (Statement, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	stmt := &ReturnStatement{}
	if p.startsOperand() {
		var err error
		if stmt.Expression, err = p.parseExpression(exprContext{minPrecedence: PrecedenceList, allowIn: true}); err != nil {
			return nil, err
		}
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	stmt.Loc = p.span(start)
	return stmt, nil
}

func (p *Parser) parseThrowStatement() (Statement, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	e, err := p.parseExpression(exprContext{minPrecedence: PrecedenceList, allowIn: true})
	if err != nil {
		return nil, err
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return &ThrowStatement{BaseStatement: BaseStatement{p.span(start)}, Expression: e}, nil
}

// Syntax: try { } catch (e: T) { }... [finally { }]
func (p *Parser) parseTryStatement() (Statement, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	block, err := p.parseBlock(blockContext)
	if err != nil {
		return nil, err
	}
	stmt := &TryStatement{Block: block}
	for p.curTokenIs(lexer.CATCH) {
		clauseStart := p.current.Location
		if err := p.next(); err != nil {
			return nil, err
		}
		if err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		pattern, err := p.parseTypedPattern()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		body, err := p.parseBlock(blockContext)
		if err != nil {
			return nil, err
		}
		stmt.CatchClauses = append(stmt.CatchClauses, &CatchClause{Loc: p.span(clauseStart), Pattern: pattern, Block: body})
	}
	hasFinally, err := p.consume(lexer.FINALLY)
	if err != nil {
		return nil, err
	}
	if hasFinally {
		if stmt.Finally, err = p.parseBlock(blockContext); err != nil {
			return nil, err
		}
	}
	if len(stmt.CatchClauses) == 0 && stmt.Finally == nil {
		return nil, p.syntaxError(p.current.Location, errors.KindExpectedKeyword, errors.StringArgument("catch"), p.current.Argument())
	}
	stmt.Loc = p.span(start)
	return stmt, nil
}

// Syntax: default xml namespace = expression
func (p *Parser) parseDefaultXMLNamespaceStatement() (Statement, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.expectContextKeyword("xml"); err != nil {
		return nil, err
	}
	if err := p.expectContextKeyword("namespace"); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	e, err := p.parseExpression(assignmentContext(true))
	if err != nil {
		return nil, err
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return &DefaultXMLNamespaceStatement{BaseStatement: BaseStatement{p.span(start)}, Expression: e}, nil
}

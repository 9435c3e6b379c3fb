package parser

import (
	"asfront/pkg/lexer"
	"asfront/pkg/source"
)

// parsePackageDefinition parses a package block
// Syntax: package [a.b.c] { directives }
func (p *Parser) parsePackageDefinition() (*PackageDefinition, error) {
	first := p.current
	if err := p.next(); err != nil {
		return nil, err
	}
	pkg := &PackageDefinition{AsDoc: p.asDocFor(first)}
	if !p.curTokenIs(lexer.LBRACE) {
		id, err := p.expectIdentifier(false)
		if err != nil {
			return nil, err
		}
		pkg.ID = append(pkg.ID, id)
		for p.curTokenIs(lexer.DOT) {
			if err := p.advance(scanNoReserved); err != nil {
				return nil, err
			}
			if id, err = p.expectIdentifier(true); err != nil {
				return nil, err
			}
			pkg.ID = append(pkg.ID, id)
		}
	}
	block, err := p.parseBlock(directiveContext{kind: contextPackage})
	if err != nil {
		return nil, err
	}
	pkg.Block = block
	pkg.Loc = p.span(first.Location)
	return pkg, nil
}

// parseImportDirective parses an import
// Syntax: import [alias =] a.b.(Name | * | **);
func (p *Parser) parseImportDirective() (Directive, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	directive := &ImportDirective{}

	first, err := p.expectIdentifier(false)
	if err != nil {
		return nil, err
	}
	if p.curTokenIs(lexer.ASSIGN) {
		alias := first
		directive.Alias = &alias
		if err := p.next(); err != nil {
			return nil, err
		}
		if first, err = p.expectIdentifier(false); err != nil {
			return nil, err
		}
	}

	names := []Identifier{first}
	wildcard := false
	for !wildcard && p.curTokenIs(lexer.DOT) {
		if err := p.advance(scanNoReserved); err != nil {
			return nil, err
		}
		tok := p.current
		switch tok.Type {
		case lexer.ASTERISK:
			directive.Item = ImportItem{Kind: ImportWildcard, Loc: tok.Location}
		case lexer.EXPONENT:
			directive.Item = ImportItem{Kind: ImportRecursive, Loc: tok.Location}
		default:
			id, err := p.expectIdentifier(true)
			if err != nil {
				return nil, err
			}
			names = append(names, id)
			continue
		}
		wildcard = true
		if err := p.next(); err != nil {
			return nil, err
		}
	}

	if !wildcard {
		last := names[len(names)-1]
		directive.Item = ImportItem{Kind: ImportName, Name: last, Loc: last.Loc}
		names = names[:len(names)-1]
	}
	directive.PackageName = names
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	directive.Loc = p.span(start)
	return directive, nil
}

// parseUseNamespaceDirective parses use namespace expr;
func (p *Parser) parseUseNamespaceDirective() (Directive, error) {
	start := p.current.Location
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.expectContextKeyword("namespace"); err != nil {
		return nil, err
	}
	e, err := p.parseExpression(exprContext{minPrecedence: PrecedenceList, allowIn: true})
	if err != nil {
		return nil, err
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return &UseNamespaceDirective{BaseDirective: BaseDirective{p.span(start)}, Expression: e}, nil
}

// parseIncludeDirective parses include "file"; with 'include' already
// consumed.
func (p *Parser) parseIncludeDirective(start source.Location) (Directive, error) {
	src := p.current.Literal
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return &IncludeDirective{BaseDirective: BaseDirective{p.span(start)}, Source: src}, nil
}

// parseNamespaceDefinition parses a namespace definition; the current token
// is the name.
// Syntax: [attributes] namespace N [= expr];
func (p *Parser) parseNamespaceDefinition(first, docTok lexer.Token, annotations DefinitionAnnotations) (Directive, error) {
	name, err := p.expectIdentifier(false)
	if err != nil {
		return nil, err
	}
	ns := &NamespaceDefinition{AsDoc: p.asDocFor(docTok), Annotations: annotations, Left: name}
	if p.curTokenIs(lexer.ASSIGN) {
		if err := p.next(); err != nil {
			return nil, err
		}
		if ns.Right, err = p.parseExpression(assignmentContext(true)); err != nil {
			return nil, err
		}
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	ns.Loc = p.span(first.Location)
	return ns, nil
}

// parseTypeDefinition parses a type alias; the current token is the name.
// Syntax: [attributes] type T[.<U>] = TypeExpression;
func (p *Parser) parseTypeDefinition(first, docTok lexer.Token, annotations DefinitionAnnotations) (Directive, error) {
	name, err := p.expectIdentifier(false)
	if err != nil {
		return nil, err
	}
	def := &TypeDefinition{AsDoc: p.asDocFor(docTok), Annotations: annotations, Left: name}
	if p.curTokenIs(lexer.DOT) {
		if def.Generics.Params, err = p.parseGenericParams(); err != nil {
			return nil, err
		}
	}
	if def.Generics.Where, err = p.parseWhereClause(); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	if def.Right, err = p.parseTypeExpression(); err != nil {
		return nil, err
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	def.Loc = p.span(first.Location)
	return def, nil
}

// parseEnumDefinition parses an enum; the current token is the name. The
// body is an ordinary directive block, typically constant definitions.
// Syntax: [attributes] enum E { directives }
func (p *Parser) parseEnumDefinition(first, docTok lexer.Token, annotations DefinitionAnnotations) (Directive, error) {
	name, err := p.expectIdentifier(false)
	if err != nil {
		return nil, err
	}
	block, err := p.parseBlock(directiveContext{kind: contextEnum})
	if err != nil {
		return nil, err
	}
	return &EnumDefinition{
		BaseDirective: BaseDirective{p.span(first.Location)},
		AsDoc:         p.asDocFor(docTok),
		Annotations:   annotations,
		Name:          name,
		Block:         block,
	}, nil
}

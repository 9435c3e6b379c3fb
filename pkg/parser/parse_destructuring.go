package parser

import (
	"asfront/pkg/errors"
	"asfront/pkg/lexer"
)

// parseDestructuringPattern parses a binding target: a name, [array] or
// {record}, optionally followed by '!'.
func (p *Parser) parseDestructuringPattern() (*Destructuring, error) {
	start := p.current.Location
	e, err := p.parsePrimary(exprContext{minPrecedence: PrecedencePostfix, allowIn: true})
	if err != nil {
		return nil, err
	}
	if p.curTokenIs(lexer.BANG) && !p.current.PrecededByLineBreak {
		if err := p.next(); err != nil {
			return nil, err
		}
		e = &NonNullExpression{BaseExpression: BaseExpression{p.span(start)}, Expression: e}
	}
	return p.toDestructuring(e)
}

// parseTypedPattern parses a destructuring pattern with an optional ': T'.
func (p *Parser) parseTypedPattern() (*Destructuring, error) {
	pattern, err := p.parseDestructuringPattern()
	if err != nil {
		return nil, err
	}
	if p.curTokenIs(lexer.COLON) {
		if err := p.next(); err != nil {
			return nil, err
		}
		if pattern.TypeAnnotation, err = p.parseTypeExpression(); err != nil {
			return nil, err
		}
	}
	return pattern, nil
}

// toDestructuring reinterprets an expression already parsed as a binding
// pattern. Identifiers, array and object initializers convert; '!' marks
// the result non-null; anything else is an invalid target.
func (p *Parser) toDestructuring(e Expression) (*Destructuring, error) {
	d := p.arena.NewDestructuring()
	d.Loc = e.Location()

	switch e := e.(type) {
	case *QualifiedIdentifier:
		id, ok := e.ToIdentifier()
		if !ok {
			return nil, p.syntaxError(e.Location(), errors.KindInvalidDestructuringTarget)
		}
		d.Kind = DestructuringBinding
		d.Binding = id

	case *NonNullExpression:
		inner, err := p.toDestructuring(e.Expression)
		if err != nil {
			return nil, err
		}
		inner.NonNull = true
		inner.Loc = e.Location()
		return inner, nil

	case *TypedExpression:
		inner, err := p.toDestructuring(e.Expression)
		if err != nil {
			return nil, err
		}
		inner.TypeAnnotation = e.TypeAnnotation
		inner.Loc = e.Location()
		return inner, nil

	case *ArrayInitializer:
		d.Kind = DestructuringArray
		d.Array = make([]*ArrayDestructuringItem, len(e.Elements))
		for i, element := range e.Elements {
			if element == nil {
				continue
			}
			item := &ArrayDestructuringItem{Loc: element.Location()}
			target := element
			if rest, ok := element.(*RestExpression); ok {
				if i != len(e.Elements)-1 {
					return nil, p.syntaxError(rest.Location(), errors.KindIllegalRestPosition)
				}
				item.Rest = true
				target = rest.Expression
			}
			pattern, err := p.toDestructuring(target)
			if err != nil {
				return nil, err
			}
			item.Pattern = pattern
			d.Array[i] = item
		}

	case *ObjectInitializer:
		d.Kind = DestructuringRecord
		for _, field := range e.Fields {
			if field.Rest != nil {
				return nil, p.syntaxError(field.Loc, errors.KindInvalidDestructuringTarget)
			}
			rf := &RecordDestructuringField{
				Loc:     field.Loc,
				Key:     field.Key,
				NonNull: field.NonNull,
			}
			if field.Value != nil {
				alias, err := p.toDestructuring(field.Value)
				if err != nil {
					return nil, err
				}
				rf.Alias = alias
			} else if field.Key.Kind != ObjectKeyIdentifier || !field.Key.ID.isPlainName() {
				return nil, p.syntaxError(field.Loc, errors.KindInvalidDestructuringTarget)
			}
			d.Record = append(d.Record, rf)
		}

	default:
		return nil, p.syntaxError(e.Location(), errors.KindInvalidDestructuringTarget)
	}
	return d, nil
}

func (q *QualifiedIdentifier) isPlainName() bool {
	_, ok := q.ToIdentifier()
	return ok
}

package parser

import (
	"asfront/pkg/source"
)

// --- Interfaces ---

// Node is the base interface for all AST nodes.
type Node interface {
	Location() source.Location // Source span the node covers
}

// Expression represents an expression node in the AST.
type Expression interface {
	Node
	expressionNode() // Dummy method for distinguishing expression types
}

// TypeExpression represents a type annotation node.
type TypeExpression interface {
	Node
	typeExpressionNode()
}

// Directive is anything that may appear in a block: statements and definitions.
type Directive interface {
	Node
	directiveNode()
}

// Statement represents a statement node. Every statement is also a directive.
type Statement interface {
	Directive
	statementNode()
}

// --- Base structs ---

type BaseExpression struct {
	Loc source.Location
}

func (b *BaseExpression) Location() source.Location { return b.Loc }
func (b *BaseExpression) expressionNode()           {}

type BaseTypeExpression struct {
	Loc source.Location
}

func (b *BaseTypeExpression) Location() source.Location { return b.Loc }
func (b *BaseTypeExpression) typeExpressionNode()       {}

type BaseStatement struct {
	Loc source.Location
}

func (b *BaseStatement) Location() source.Location { return b.Loc }
func (b *BaseStatement) directiveNode()            {}
func (b *BaseStatement) statementNode()            {}

type BaseDirective struct {
	Loc source.Location
}

func (b *BaseDirective) Location() source.Location { return b.Loc }
func (b *BaseDirective) directiveNode()            {}

// Identifier is a bare name together with its span.
type Identifier struct {
	Value string
	Loc   source.Location
}

func (i Identifier) Location() source.Location { return i.Loc }

// --- Names ---

// IdentifierOrBrackets is the local part of a qualified identifier: either
// a static name ("*" for the wildcard) or a computed [expression].
type IdentifierOrBrackets struct {
	Name     string
	NameLoc  source.Location
	Brackets Expression
}

// ReservedNamespace is one of the built-in access namespaces.
type ReservedNamespace int

const (
	NamespacePublic ReservedNamespace = iota
	NamespacePrivate
	NamespaceProtected
	NamespaceInternal
)

var reservedNamespaceNames = [...]string{
	NamespacePublic:    "public",
	NamespacePrivate:   "private",
	NamespaceProtected: "protected",
	NamespaceInternal:  "internal",
}

func (n ReservedNamespace) String() string { return reservedNamespaceNames[n] }

var reservedNamespacesByName = map[string]ReservedNamespace{
	"public":    NamespacePublic,
	"private":   NamespacePrivate,
	"protected": NamespaceProtected,
	"internal":  NamespaceInternal,
}

// QualifiedIdentifier is [@][qualifier::]name. Used as an expression on its own.
type QualifiedIdentifier struct {
	BaseExpression
	Attribute bool
	Qualifier Expression // nil when unqualified
	Name      IdentifierOrBrackets
}

// ToIdentifier returns the plain name when the identifier is a bare,
// non-attribute, unqualified, non-computed name.
func (q *QualifiedIdentifier) ToIdentifier() (Identifier, bool) {
	if q.Attribute || q.Qualifier != nil || q.Name.Brackets != nil || q.Name.Name == "*" {
		return Identifier{}, false
	}
	return Identifier{Value: q.Name.Name, Loc: q.Name.NameLoc}, true
}

// IsIdentifier reports whether q is the bare name.
func (q *QualifiedIdentifier) IsIdentifier(name string) bool {
	id, ok := q.ToIdentifier()
	return ok && id.Value == name
}

// --- Literal Expressions ---

type NullLiteral struct {
	BaseExpression
}

type BooleanLiteral struct {
	BaseExpression
	Value bool
}

type NumericLiteral struct {
	BaseExpression
	Value float64
	Raw   string
}

type StringLiteral struct {
	BaseExpression
	Value string
}

type ThisExpression struct {
	BaseExpression
}

type RegExpLiteral struct {
	BaseExpression
	Body  string
	Flags string
}

// --- XML Expressions ---

type XMLMarkupExpression struct {
	BaseExpression
	Markup string
}

type XMLElementExpression struct {
	BaseExpression
	Element *XMLElement
}

// XMLListExpression is <>...</>.
type XMLListExpression struct {
	BaseExpression
	Content []*XMLContent
}

// XMLTagName is either a static name or an interpolated {expression}.
type XMLTagName struct {
	Name       string
	Loc        source.Location
	Expression Expression
}

// XMLAttribute is name="value", name={expression} or a bare {expression}.
type XMLAttribute struct {
	Name            *Identifier // nil for a bare {expression}
	Value           string
	ValueExpression Expression
}

type XMLContentKind int

const (
	XMLContentText XMLContentKind = iota
	XMLContentMarkup
	XMLContentExpression
	XMLContentElement
)

type XMLContent struct {
	Kind       XMLContentKind
	Text       string // text or markup
	Loc        source.Location
	Expression Expression
	Element    *XMLElement
}

type XMLElement struct {
	Loc            source.Location
	OpeningTagName XMLTagName
	Attributes     []*XMLAttribute
	Content        []*XMLContent
	ClosingTagName *XMLTagName // nil when self-closing
}

// --- Primary Expressions ---

type ReservedNamespaceExpression struct {
	BaseExpression
	Namespace ReservedNamespace
}

// EmptyParenExpression is `()`; only valid as an arrow parameter list.
type EmptyParenExpression struct {
	BaseExpression
}

type ParenExpression struct {
	BaseExpression
	Expression Expression
}

// RestExpression is `...expr` inside array initializers, arguments and patterns.
type RestExpression struct {
	BaseExpression
	Expression Expression
}

// ArrayInitializer elements are nil for elisions.
type ArrayInitializer struct {
	BaseExpression
	Elements []Expression
}

// VectorInitializer is new <T>[a, b].
type VectorInitializer struct {
	BaseExpression
	ElementType TypeExpression
	Elements    []Expression
}

type ObjectInitializer struct {
	BaseExpression
	Fields []*ObjectField
}

// ObjectField is key[!]: value, a shorthand key, or ...rest.
type ObjectField struct {
	Loc     source.Location
	Key     ObjectKey
	NonNull bool       // `!` after the key, used by destructuring
	Value   Expression // nil for shorthand fields
	Rest    Expression // non-nil for ...rest fields
}

type ObjectKeyKind int

const (
	ObjectKeyIdentifier ObjectKeyKind = iota
	ObjectKeyString
	ObjectKeyNumber
	ObjectKeyBrackets
)

type ObjectKey struct {
	Kind     ObjectKeyKind
	Loc      source.Location
	ID       *QualifiedIdentifier // non-attribute
	String   string
	Number   float64
	Brackets Expression
}

type FunctionExpression struct {
	BaseExpression
	Name   *Identifier
	Common *FunctionCommon
}

type ArrowFunctionExpression struct {
	BaseExpression
	Common *FunctionCommon
}

// SuperExpression is `super` or `super(args)` used as a member base.
type SuperExpression struct {
	BaseExpression
	Arguments    []Expression
	HasArguments bool
}

type NewExpression struct {
	BaseExpression
	Base         Expression
	Arguments    []Expression
	HasArguments bool
}

// --- Member and Call Expressions ---

type DotMemberExpression struct {
	BaseExpression
	Base Expression
	ID   *QualifiedIdentifier
}

type BracketsMemberExpression struct {
	BaseExpression
	Base Expression
	Key  Expression
}

// TypeArgumentsExpression is base.<T1, T2>.
type TypeArgumentsExpression struct {
	BaseExpression
	Base      Expression
	Arguments []TypeExpression
}

// FilterExpression is base.(condition).
type FilterExpression struct {
	BaseExpression
	Base      Expression
	Condition Expression
}

// DescendantsExpression is base..id.
type DescendantsExpression struct {
	BaseExpression
	Base Expression
	ID   *QualifiedIdentifier
}

type CallExpression struct {
	BaseExpression
	Base      Expression
	Arguments []Expression
}

// --- Operators ---

type UnaryExpression struct {
	BaseExpression
	Operator Operator
	Operand  Expression
}

type BinaryExpression struct {
	BaseExpression
	Left     Expression
	Operator Operator
	Right    Expression
}

type ConditionalExpression struct {
	BaseExpression
	Test        Expression
	Consequent  Expression
	Alternative Expression
}

// AssignmentExpression is left = right or left op= right. Pattern is set when
// the left side of a plain assignment is an array or object destructuring.
type AssignmentExpression struct {
	BaseExpression
	Left     Expression
	Pattern  *Destructuring
	Compound Operator // OperatorNone for '='
	Right    Expression
}

type SequenceExpression struct {
	BaseExpression
	Left  Expression
	Right Expression
}

// TypedExpression is expr: T. It only survives inside arrow parameter lists.
type TypedExpression struct {
	BaseExpression
	Expression     Expression
	TypeAnnotation TypeExpression
}

// NonNullExpression is the postfix `expr!`.
type NonNullExpression struct {
	BaseExpression
	Expression Expression
}

type YieldExpression struct {
	BaseExpression
	Operand Expression // may be nil
}

// OptionalChainingExpression is base?.operations, where Operations is built
// on an OptionalChainingHost standing for the already evaluated base.
type OptionalChainingExpression struct {
	BaseExpression
	Base       Expression
	Operations Expression
}

type OptionalChainingHost struct {
	BaseExpression
}

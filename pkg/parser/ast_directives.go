package parser

import (
	"strings"

	"asfront/pkg/source"
)

// --- Program ---

// Program is the root node of the AST.
type Program struct {
	Loc        source.Location
	Packages   []*PackageDefinition
	Directives []Directive
}

func (p *Program) Location() source.Location { return p.Loc }

type PackageDefinition struct {
	Loc   source.Location
	AsDoc *AsDoc
	ID    []Identifier
	Block *Block
}

func (p *PackageDefinition) Location() source.Location { return p.Loc }

// Name joins the package identifier with dots.
func (p *PackageDefinition) Name() string {
	return qualifiedName(p.ID)
}

// qualifiedName renders a dotted identifier path.
func qualifiedName(ids []Identifier) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.Value
	}
	return strings.Join(parts, ".")
}

// --- Functions ---

// FunctionParamKind orders parameter kinds: Required < Optional < Rest.
type FunctionParamKind int

const (
	ParamRequired FunctionParamKind = iota + 1
	ParamOptional
	ParamRest
)

func (k FunctionParamKind) String() string {
	switch k {
	case ParamOptional:
		return "optional"
	case ParamRest:
		return "rest"
	}
	return "required"
}

// MayBeFollowedBy reports whether a parameter of kind other may follow k.
func (k FunctionParamKind) MayBeFollowedBy(other FunctionParamKind) bool {
	return k <= other
}

type FunctionFlags uint8

const (
	FunctionAwait FunctionFlags = 1 << iota
	FunctionYield
)

type FunctionParam struct {
	Loc     source.Location
	Kind    FunctionParamKind
	Binding *VariableBinding
}

// FunctionBody is a block, or a bare expression for arrow functions.
type FunctionBody struct {
	Block      *Block
	Expression Expression
}

type FunctionCommon struct {
	Flags            FunctionFlags
	Params           []*FunctionParam
	ReturnAnnotation TypeExpression
	Body             *FunctionBody // nil for interface and native methods
}

// --- Statements ---

type EmptyStatement struct {
	BaseStatement
}

// SuperStatement is a super(args) constructor call.
type SuperStatement struct {
	BaseStatement
	Arguments []Expression
}

// Block is {directives}. It is also a statement.
type Block struct {
	BaseStatement
	Directives []Directive
}

type IfStatement struct {
	BaseStatement
	Condition   Expression
	Consequent  Statement
	Alternative Statement // may be nil
}

type SwitchCase struct {
	Loc        source.Location
	Test       Expression // nil for default
	Consequent []Directive
}

type SwitchStatement struct {
	BaseStatement
	Discriminant Expression
	Cases        []*SwitchCase
}

type SwitchTypeCase struct {
	Loc     source.Location
	Pattern *Destructuring // nil for default
	Block   *Block
}

// SwitchTypeStatement is switch type (e) { case (x: T) {} default {} }.
type SwitchTypeStatement struct {
	BaseStatement
	Discriminant Expression
	Cases        []*SwitchTypeCase
}

type DoStatement struct {
	BaseStatement
	Body Statement
	Test Expression
}

type WhileStatement struct {
	BaseStatement
	Test Expression
	Body Statement
}

// ForStatement init is either InitVariable or InitExpression; both may be nil.
type ForStatement struct {
	BaseStatement
	InitVariable   *SimpleVariableDeclaration
	InitExpression Expression
	Test           Expression
	Update         Expression
	Body           Statement
}

// ForInStatement covers for (x in o) and for each (x in o).
type ForInStatement struct {
	BaseStatement
	Each           bool
	LeftVariable   *SimpleVariableDeclaration
	LeftExpression Expression
	Right          Expression
	Body           Statement
}

type WithStatement struct {
	BaseStatement
	Object Expression
	Body   Statement
}

type ContinueStatement struct {
	BaseStatement
	Label *Identifier
}

type BreakStatement struct {
	BaseStatement
	Label *Identifier
}

type ReturnStatement struct {
	BaseStatement
	Expression Expression // may be nil
}

type ThrowStatement struct {
	BaseStatement
	Expression Expression
}

type CatchClause struct {
	Loc     source.Location
	Pattern *Destructuring
	Block   *Block
}

type TryStatement struct {
	BaseStatement
	Block        *Block
	CatchClauses []*CatchClause
	Finally      *Block
}

type ExpressionStatement struct {
	BaseStatement
	Expression Expression
}

type LabeledStatement struct {
	BaseStatement
	Label     Identifier
	Statement Statement
}

// DefaultXMLNamespaceStatement is default xml namespace = expr.
type DefaultXMLNamespaceStatement struct {
	BaseStatement
	Expression Expression
}

type VariableKind int

const (
	VariableVar VariableKind = iota
	VariableConst
)

func (k VariableKind) String() string {
	if k == VariableConst {
		return "const"
	}
	return "var"
}

type VariableBinding struct {
	Pattern *Destructuring
	Init    Expression
}

// SimpleVariableDeclaration is an unannotated var/const, as in for-loop heads.
type SimpleVariableDeclaration struct {
	BaseStatement
	Kind     VariableKind
	KindLoc  source.Location
	Bindings []*VariableBinding
}

// --- Directives ---

// IncludeDirective is include "file". ReplacedBy is filled by a later
// pass that splices the included file in; the parser leaves it empty.
type IncludeDirective struct {
	BaseDirective
	Source     string
	ReplacedBy []Directive
}

type ImportItemKind int

const (
	ImportName ImportItemKind = iota
	ImportWildcard
	ImportRecursive
)

type ImportItem struct {
	Kind ImportItemKind
	Name Identifier // ImportName
	Loc  source.Location
}

type ImportDirective struct {
	BaseDirective
	Alias       *Identifier
	PackageName []Identifier
	Item        ImportItem
}

type UseNamespaceDirective struct {
	BaseDirective
	Expression Expression
}

// --- Definitions ---

type DefinitionModifiers uint8

const (
	ModifierOverride DefinitionModifiers = 1 << iota
	ModifierFinal
	ModifierDynamic
	ModifierNative
	ModifierStatic
)

var modifierNames = []struct {
	flag DefinitionModifiers
	name string
}{
	{ModifierOverride, "override"},
	{ModifierFinal, "final"},
	{ModifierDynamic, "dynamic"},
	{ModifierNative, "native"},
	{ModifierStatic, "static"},
}

var modifiersByName = map[string]DefinitionModifiers{
	"override": ModifierOverride,
	"final":    ModifierFinal,
	"dynamic":  ModifierDynamic,
	"native":   ModifierNative,
	"static":   ModifierStatic,
}

func (m DefinitionModifiers) Has(flag DefinitionModifiers) bool { return m&flag != 0 }

func (m DefinitionModifiers) String() string {
	var names []string
	for _, mod := range modifierNames {
		if m.Has(mod.flag) {
			names = append(names, mod.name)
		}
	}
	return strings.Join(names, " ")
}

type MetadataEntry struct {
	Loc   source.Location
	Key   *Identifier
	Value string
}

// Metadata is [Name(key="value", ...)] preceding a definition.
type Metadata struct {
	Loc     source.Location
	AsDoc   *AsDoc
	Name    string // may contain a single "::"
	Entries []*MetadataEntry
}

type DefinitionAnnotations struct {
	Metadata       []*Metadata
	Modifiers      DefinitionModifiers
	AccessModifier Expression // reserved namespace or user namespace
}

type GenericParam struct {
	Loc         source.Location
	Name        Identifier
	Constraints []TypeExpression
	Default     TypeExpression
}

type GenericsWhereConstraint struct {
	Name       Identifier
	Constraint TypeExpression
}

type Generics struct {
	Params []*GenericParam
	Where  []*GenericsWhereConstraint
}

type VariableDefinition struct {
	BaseDirective
	AsDoc       *AsDoc
	Annotations DefinitionAnnotations
	Kind        VariableKind
	Bindings    []*VariableBinding
}

type FunctionDefinition struct {
	BaseDirective
	AsDoc       *AsDoc
	Annotations DefinitionAnnotations
	Name        Identifier
	Generics    Generics
	Common      *FunctionCommon
}

type ConstructorDefinition struct {
	BaseDirective
	AsDoc       *AsDoc
	Annotations DefinitionAnnotations
	Name        Identifier
	Common      *FunctionCommon
}

type GetterDefinition struct {
	BaseDirective
	AsDoc       *AsDoc
	Annotations DefinitionAnnotations
	Name        Identifier
	Common      *FunctionCommon
}

type SetterDefinition struct {
	BaseDirective
	AsDoc       *AsDoc
	Annotations DefinitionAnnotations
	Name        Identifier
	Common      *FunctionCommon
}

type TypeDefinition struct {
	BaseDirective
	AsDoc       *AsDoc
	Annotations DefinitionAnnotations
	Left        Identifier
	Generics    Generics
	Right       TypeExpression
}

type ClassDefinition struct {
	BaseDirective
	AsDoc       *AsDoc
	Annotations DefinitionAnnotations
	Name        Identifier
	Generics    Generics
	Extends     TypeExpression
	Implements  []TypeExpression
	Block       *Block
}

type EnumDefinition struct {
	BaseDirective
	AsDoc       *AsDoc
	Annotations DefinitionAnnotations
	Name        Identifier
	Block       *Block
}

type InterfaceDefinition struct {
	BaseDirective
	AsDoc       *AsDoc
	Annotations DefinitionAnnotations
	Name        Identifier
	Generics    Generics
	Extends     []TypeExpression
	Block       *Block
}

type NamespaceDefinition struct {
	BaseDirective
	AsDoc       *AsDoc
	Annotations DefinitionAnnotations
	Left        Identifier
	Right       Expression // may be nil
}

// --- ASDoc ---

type AsDocTagKind int

const (
	AsDocCopy AsDocTagKind = iota
	AsDocDefault
	AsDocEventType
	AsDocExample
	AsDocExampleText
	AsDocInheritDoc
	AsDocInternal
	AsDocParam
	AsDocPrivate
	AsDocReturn
	AsDocSee
	AsDocThrows
)

var asDocTagNames = map[string]AsDocTagKind{
	"copy":        AsDocCopy,
	"default":     AsDocDefault,
	"eventType":   AsDocEventType,
	"example":     AsDocExample,
	"exampleText": AsDocExampleText,
	"inheritDoc":  AsDocInheritDoc,
	"internal":    AsDocInternal,
	"param":       AsDocParam,
	"private":     AsDocPrivate,
	"return":      AsDocReturn,
	"see":         AsDocSee,
	"throws":      AsDocThrows,
}

func (k AsDocTagKind) String() string {
	for name, kind := range asDocTagNames {
		if kind == k {
			return name
		}
	}
	return "unknown"
}

// AsDocTag fields are populated per kind: Text for the free-text tags,
// Name and Text for @param, Reference and Text for @see, Type for
// @eventType, Type and Text for @throws.
type AsDocTag struct {
	Kind      AsDocTagKind
	Loc       source.Location
	Text      string
	Name      string
	Reference string
	Type      TypeExpression
}

type AsDoc struct {
	Loc      source.Location
	MainBody string
	Tags     []*AsDocTag
}

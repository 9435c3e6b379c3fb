package parser

import (
	"asfront/pkg/source"
)

// --- Type Expressions ---

type TypeIdentifier struct {
	BaseTypeExpression
	ID *QualifiedIdentifier
}

// TypeMemberExpression is base.member in type position.
type TypeMemberExpression struct {
	BaseTypeExpression
	Base   TypeExpression
	Member *QualifiedIdentifier
}

type TupleType struct {
	BaseTypeExpression
	Elements []TypeExpression
}

type RecordType struct {
	BaseTypeExpression
	Fields []*RecordTypeField
}

type KeySuffix int

const (
	KeySuffixNone KeySuffix = iota
	KeySuffixNonNullable
	KeySuffixNullable
)

type RecordTypeField struct {
	Loc       source.Location
	AsDoc     *AsDoc
	Readonly  bool
	Key       ObjectKey
	KeySuffix KeySuffix
	Type      TypeExpression // nil means any
}

// AnyType is `*`.
type AnyType struct {
	BaseTypeExpression
}

type VoidType struct {
	BaseTypeExpression
}

type NeverType struct {
	BaseTypeExpression
}

type UndefinedType struct {
	BaseTypeExpression
}

// NullableType is ?T or T?.
type NullableType struct {
	BaseTypeExpression
	Base TypeExpression
}

// NonNullableType is T!.
type NonNullableType struct {
	BaseTypeExpression
	Base TypeExpression
}

type FunctionTypeParam struct {
	Loc  source.Location
	Kind FunctionParamKind
	Name Identifier
	Type TypeExpression
}

type FunctionType struct {
	BaseTypeExpression
	Params           []*FunctionTypeParam
	ReturnAnnotation TypeExpression
}

type StringLiteralType struct {
	BaseTypeExpression
	Value string
}

type NumberLiteralType struct {
	BaseTypeExpression
	Value float64
	Raw   string
}

type UnionType struct {
	BaseTypeExpression
	Members []TypeExpression
}

// ComplementType is base & complement.
type ComplementType struct {
	BaseTypeExpression
	Base       TypeExpression
	Complement TypeExpression
}

// TypeWithArguments is base.<T1, T2> in type position.
type TypeWithArguments struct {
	BaseTypeExpression
	Base      TypeExpression
	Arguments []TypeExpression
}

// --- Destructuring ---

type DestructuringKind int

const (
	DestructuringBinding DestructuringKind = iota
	DestructuringRecord
	DestructuringArray
)

// Destructuring is a binding pattern: a name, {record} or [array].
type Destructuring struct {
	Loc            source.Location
	Kind           DestructuringKind
	NonNull        bool
	TypeAnnotation TypeExpression

	Binding Identifier                  // DestructuringBinding
	Record  []*RecordDestructuringField // DestructuringRecord
	Array   []*ArrayDestructuringItem   // DestructuringArray; nil items are elisions
}

func (d *Destructuring) Location() source.Location { return d.Loc }

type RecordDestructuringField struct {
	Loc     source.Location
	Key     ObjectKey
	NonNull bool
	Alias   *Destructuring // nil for shorthand
}

type ArrayDestructuringItem struct {
	Loc     source.Location
	Pattern *Destructuring
	Rest    bool
}

package parser

import (
	"strconv"

	"asfront/pkg/lexer"
)

// OperatorPrecedence orders operator binding strength; higher binds tighter.
type OperatorPrecedence int

const (
	PrecedenceList               OperatorPrecedence = 1 // x, y
	PrecedenceAssignmentAndOther OperatorPrecedence = 2 // assignments, ?:, yield, ..., arrow functions
	PrecedenceLogicalOrAndOther  OperatorPrecedence = 3 // ||, ??
	PrecedenceLogicalXor         OperatorPrecedence = 4 // ^^
	PrecedenceLogicalOr          OperatorPrecedence = 5
	PrecedenceLogicalAnd         OperatorPrecedence = 6  // &&
	PrecedenceBitwiseOr          OperatorPrecedence = 7  // |
	PrecedenceBitwiseXor         OperatorPrecedence = 8  // ^
	PrecedenceBitwiseAnd         OperatorPrecedence = 9  // &
	PrecedenceEquality           OperatorPrecedence = 10 // == != === !==
	PrecedenceRelational         OperatorPrecedence = 11 // < > <= >= as in instanceof is
	PrecedenceShift              OperatorPrecedence = 12 // << >> >>>
	PrecedenceAdditive           OperatorPrecedence = 13 // + -
	PrecedenceMultiplicative     OperatorPrecedence = 14 // * / %
	PrecedenceExponentiation     OperatorPrecedence = 15 // **
	PrecedenceUnary              OperatorPrecedence = 16 // -x !x typeof x
	PrecedencePostfix            OperatorPrecedence = 17 // x++ x() x.y
)

var precedenceNames = [...]string{
	PrecedenceList:               "List",
	PrecedenceAssignmentAndOther: "AssignmentAndOther",
	PrecedenceLogicalOrAndOther:  "LogicalOrAndOther",
	PrecedenceLogicalXor:         "LogicalXor",
	PrecedenceLogicalOr:          "LogicalOr",
	PrecedenceLogicalAnd:         "LogicalAnd",
	PrecedenceBitwiseOr:          "BitwiseOr",
	PrecedenceBitwiseXor:         "BitwiseXor",
	PrecedenceBitwiseAnd:         "BitwiseAnd",
	PrecedenceEquality:           "Equality",
	PrecedenceRelational:         "Relational",
	PrecedenceShift:              "Shift",
	PrecedenceAdditive:           "Additive",
	PrecedenceMultiplicative:     "Multiplicative",
	PrecedenceExponentiation:     "Exponentiation",
	PrecedenceUnary:              "Unary",
	PrecedencePostfix:            "Postfix",
}

func (p OperatorPrecedence) String() string {
	if p >= PrecedenceList && p <= PrecedencePostfix {
		return precedenceNames[p]
	}
	return "OperatorPrecedence(" + strconv.Itoa(int(p)) + ")"
}

// Tighter returns the next tighter level. Postfix has none.
func (p OperatorPrecedence) Tighter() (OperatorPrecedence, bool) {
	if p >= PrecedencePostfix {
		return p, false
	}
	return p + 1, true
}

// Operator is a unary or binary operator.
type Operator int

const (
	OperatorNone Operator = iota

	// Unary
	OperatorDelete
	OperatorVoid
	OperatorTypeof
	OperatorAwait
	OperatorPreIncrement
	OperatorPreDecrement
	OperatorPostIncrement
	OperatorPostDecrement
	OperatorPositive
	OperatorNegative
	OperatorBitwiseNot
	OperatorLogicalNot

	// Binary
	OperatorMultiply
	OperatorDivide
	OperatorRemainder
	OperatorAdd
	OperatorSubtract
	OperatorLeftShift
	OperatorRightShift
	OperatorUnsignedRightShift
	OperatorLt
	OperatorGt
	OperatorLe
	OperatorGe
	OperatorInstanceof
	OperatorIn
	OperatorIs
	OperatorAs
	OperatorEquals
	OperatorNotEquals
	OperatorStrictEquals
	OperatorStrictNotEquals
	OperatorBitwiseAnd
	OperatorBitwiseXor
	OperatorBitwiseOr
	OperatorLogicalAnd
	OperatorLogicalXor
	OperatorLogicalOr
	OperatorNullCoalescing
	OperatorPower
)

var operatorNames = map[Operator]string{
	OperatorNone:               "",
	OperatorDelete:             "delete",
	OperatorVoid:               "void",
	OperatorTypeof:             "typeof",
	OperatorAwait:              "await",
	OperatorPreIncrement:       "++",
	OperatorPreDecrement:       "--",
	OperatorPostIncrement:      "post++",
	OperatorPostDecrement:      "post--",
	OperatorPositive:           "+",
	OperatorNegative:           "-",
	OperatorBitwiseNot:         "~",
	OperatorLogicalNot:         "!",
	OperatorMultiply:           "*",
	OperatorDivide:             "/",
	OperatorRemainder:          "%",
	OperatorAdd:                "+",
	OperatorSubtract:           "-",
	OperatorLeftShift:          "<<",
	OperatorRightShift:         ">>",
	OperatorUnsignedRightShift: ">>>",
	OperatorLt:                 "<",
	OperatorGt:                 ">",
	OperatorLe:                 "<=",
	OperatorGe:                 ">=",
	OperatorInstanceof:         "instanceof",
	OperatorIn:                 "in",
	OperatorIs:                 "is",
	OperatorAs:                 "as",
	OperatorEquals:             "==",
	OperatorNotEquals:          "!=",
	OperatorStrictEquals:       "===",
	OperatorStrictNotEquals:    "!==",
	OperatorBitwiseAnd:         "&",
	OperatorBitwiseXor:         "^",
	OperatorBitwiseOr:          "|",
	OperatorLogicalAnd:         "&&",
	OperatorLogicalXor:         "^^",
	OperatorLogicalOr:          "||",
	OperatorNullCoalescing:     "??",
	OperatorPower:              "**",
}

func (o Operator) String() string {
	return operatorNames[o]
}

// IsBinary reports whether o is a binary operator.
func (o Operator) IsBinary() bool {
	return o >= OperatorMultiply
}

// Precedence returns the binding level of a binary operator.
func (o Operator) Precedence() OperatorPrecedence {
	switch o {
	case OperatorPower:
		return PrecedenceExponentiation
	case OperatorMultiply, OperatorDivide, OperatorRemainder:
		return PrecedenceMultiplicative
	case OperatorAdd, OperatorSubtract:
		return PrecedenceAdditive
	case OperatorLeftShift, OperatorRightShift, OperatorUnsignedRightShift:
		return PrecedenceShift
	case OperatorLt, OperatorGt, OperatorLe, OperatorGe, OperatorInstanceof, OperatorIn, OperatorIs, OperatorAs:
		return PrecedenceRelational
	case OperatorEquals, OperatorNotEquals, OperatorStrictEquals, OperatorStrictNotEquals:
		return PrecedenceEquality
	case OperatorBitwiseAnd:
		return PrecedenceBitwiseAnd
	case OperatorBitwiseXor:
		return PrecedenceBitwiseXor
	case OperatorBitwiseOr:
		return PrecedenceBitwiseOr
	case OperatorLogicalAnd:
		return PrecedenceLogicalAnd
	case OperatorLogicalXor:
		return PrecedenceLogicalXor
	case OperatorLogicalOr, OperatorNullCoalescing:
		return PrecedenceLogicalOrAndOther
	}
	return PrecedencePostfix
}

// RightAssociative reports whether chains of o group to the right.
func (o Operator) RightAssociative() bool {
	return o == OperatorPower
}

var binaryOperators = map[lexer.TokenType]Operator{
	lexer.ASTERISK:             OperatorMultiply,
	lexer.SLASH:                OperatorDivide,
	lexer.REMAINDER:            OperatorRemainder,
	lexer.PLUS:                 OperatorAdd,
	lexer.MINUS:                OperatorSubtract,
	lexer.LEFT_SHIFT:           OperatorLeftShift,
	lexer.RIGHT_SHIFT:          OperatorRightShift,
	lexer.UNSIGNED_RIGHT_SHIFT: OperatorUnsignedRightShift,
	lexer.LT:                   OperatorLt,
	lexer.GT:                   OperatorGt,
	lexer.LE:                   OperatorLe,
	lexer.GE:                   OperatorGe,
	lexer.INSTANCEOF:           OperatorInstanceof,
	lexer.IN:                   OperatorIn,
	lexer.IS:                   OperatorIs,
	lexer.AS:                   OperatorAs,
	lexer.EQ:                   OperatorEquals,
	lexer.NOT_EQ:               OperatorNotEquals,
	lexer.STRICT_EQ:            OperatorStrictEquals,
	lexer.STRICT_NOT_EQ:        OperatorStrictNotEquals,
	lexer.BITWISE_AND:          OperatorBitwiseAnd,
	lexer.BITWISE_XOR:          OperatorBitwiseXor,
	lexer.PIPE:                 OperatorBitwiseOr,
	lexer.LOGICAL_AND:          OperatorLogicalAnd,
	lexer.LOGICAL_XOR:          OperatorLogicalXor,
	lexer.LOGICAL_OR:           OperatorLogicalOr,
	lexer.COALESCE:             OperatorNullCoalescing,
	lexer.EXPONENT:             OperatorPower,
}

// compoundAssignments maps compound assignment tokens to their operator.
// Plain '=' maps to OperatorNone.
var compoundAssignments = map[lexer.TokenType]Operator{
	lexer.ASSIGN:                      OperatorNone,
	lexer.PLUS_ASSIGN:                 OperatorAdd,
	lexer.MINUS_ASSIGN:                OperatorSubtract,
	lexer.ASTERISK_ASSIGN:             OperatorMultiply,
	lexer.SLASH_ASSIGN:                OperatorDivide,
	lexer.REMAINDER_ASSIGN:            OperatorRemainder,
	lexer.EXPONENT_ASSIGN:             OperatorPower,
	lexer.LEFT_SHIFT_ASSIGN:           OperatorLeftShift,
	lexer.RIGHT_SHIFT_ASSIGN:          OperatorRightShift,
	lexer.UNSIGNED_RIGHT_SHIFT_ASSIGN: OperatorUnsignedRightShift,
	lexer.BITWISE_AND_ASSIGN:          OperatorBitwiseAnd,
	lexer.BITWISE_OR_ASSIGN:           OperatorBitwiseOr,
	lexer.BITWISE_XOR_ASSIGN:          OperatorBitwiseXor,
	lexer.LOGICAL_AND_ASSIGN:          OperatorLogicalAnd,
	lexer.LOGICAL_OR_ASSIGN:           OperatorLogicalOr,
	lexer.LOGICAL_XOR_ASSIGN:          OperatorLogicalXor,
	lexer.COALESCE_ASSIGN:             OperatorNullCoalescing,
}

var prefixOperators = map[lexer.TokenType]Operator{
	lexer.DELETE: OperatorDelete,
	lexer.VOID:   OperatorVoid,
	lexer.TYPEOF: OperatorTypeof,
	lexer.AWAIT:  OperatorAwait,
	lexer.INC:    OperatorPreIncrement,
	lexer.DEC:    OperatorPreDecrement,
	lexer.PLUS:   OperatorPositive,
	lexer.MINUS:  OperatorNegative,
	lexer.TILDE:  OperatorBitwiseNot,
	lexer.BANG:   OperatorLogicalNot,
}

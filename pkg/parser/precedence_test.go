package parser

import "testing"

func TestPrecedenceTighter(t *testing.T) {
	p := PrecedenceList
	for level := 1; level < 17; level++ {
		next, ok := p.Tighter()
		if !ok || next != p+1 {
			t.Fatalf("%s.Tighter() = %s, %v", p, next, ok)
		}
		p = next
	}
	if p != PrecedencePostfix {
		t.Fatalf("expected Postfix after 16 steps, got %s", p)
	}
	if _, ok := p.Tighter(); ok {
		t.Fatalf("Postfix must have no tighter level")
	}
	if PrecedenceList.String() != "List" || OperatorPrecedence(42).String() != "OperatorPrecedence(42)" {
		t.Fatalf("unexpected precedence names")
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		op       Operator
		expected OperatorPrecedence
	}{
		{OperatorPower, PrecedenceExponentiation},
		{OperatorRemainder, PrecedenceMultiplicative},
		{OperatorSubtract, PrecedenceAdditive},
		{OperatorUnsignedRightShift, PrecedenceShift},
		{OperatorIs, PrecedenceRelational},
		{OperatorStrictNotEquals, PrecedenceEquality},
		{OperatorBitwiseAnd, PrecedenceBitwiseAnd},
		{OperatorBitwiseXor, PrecedenceBitwiseXor},
		{OperatorBitwiseOr, PrecedenceBitwiseOr},
		{OperatorLogicalAnd, PrecedenceLogicalAnd},
		{OperatorLogicalXor, PrecedenceLogicalXor},
		{OperatorLogicalOr, PrecedenceLogicalOrAndOther},
		{OperatorNullCoalescing, PrecedenceLogicalOrAndOther},
	}

	for i, tt := range tests {
		if !tt.op.IsBinary() {
			t.Fatalf("tests[%d] - %s should be binary", i, tt.op)
		}
		if got := tt.op.Precedence(); got != tt.expected {
			t.Fatalf("tests[%d] - %s: expected %s, got %s", i, tt.op, tt.expected, got)
		}
	}
	if OperatorTypeof.IsBinary() || !OperatorPower.RightAssociative() || OperatorAdd.RightAssociative() {
		t.Fatalf("unexpected operator classification")
	}
}

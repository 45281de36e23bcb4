package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashgrove/formulang/internal/lex"
)

var noPos = lex.Position{}

func num(v float64) *Node { return NewNumber(v, noPos) }
func bl(v bool) *Node     { return NewBool(v, noPos) }
func vr(name string) *Node { return NewVariable(name, noPos) }

func Test_Depth(t *testing.T) {
	leaf := num(1)
	assert.Equal(t, 1, Depth(leaf))

	bin := NewBinary("+", num(1), num(2), noPos)
	assert.Equal(t, 2, Depth(bin))

	nested := NewBinary("+", bin, num(3), noPos)
	assert.Equal(t, 3, Depth(nested))
}

func Test_Size(t *testing.T) {
	bin := NewBinary("+", num(1), num(2), noPos)
	assert.Equal(t, 3, Size(bin))

	call := NewFunctionCall("SUM", []*Node{num(1), num(2), num(3)}, noPos)
	assert.Equal(t, 4, Size(call))
}

func Test_Variables(t *testing.T) {
	expr := NewBinary("+", vr("a"), NewBinary("*", vr("b"), vr("a"), noPos), noPos)
	assert.Equal(t, []string{"a", "b"}, Variables(expr))
}

func Test_Equal(t *testing.T) {
	a := NewBinary("+", num(1), vr("x"), noPos)
	b := NewBinary("+", num(1), vr("x"), noPos)
	c := NewBinary("+", num(1), vr("y"), noPos)

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
}

func Test_DepthLessOrEqualSize(t *testing.T) {
	exprs := []*Node{
		num(1),
		NewBinary("+", num(1), num(2), noPos),
		NewIf(bl(true), num(1), NewBinary("*", vr("a"), vr("b"), noPos), noPos),
		NewFunctionCall("SUM", []*Node{num(1), num(2), num(3), num(4)}, noPos),
	}
	for _, e := range exprs {
		assert.LessOrEqual(t, Depth(e), Size(e))
	}
}

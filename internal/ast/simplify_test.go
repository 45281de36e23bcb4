package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Simplify_constantFolding(t *testing.T) {
	expr := NewBinary("+", num(2), NewBinary("*", num(3), num(4), noPos), noPos)
	got := Simplify(expr)
	assert.True(t, Equal(num(14), got), "got %s", got)
}

func Test_Simplify_divisionByZeroNotFolded(t *testing.T) {
	expr := NewBinary("/", num(1), num(0), noPos)
	got := Simplify(expr)
	assert.Equal(t, KindBinary, got.Kind, "1/0 must not be folded to a constant")
}

func Test_Simplify_identities(t *testing.T) {
	testCases := []struct {
		name string
		in   *Node
		want *Node
	}{
		{"x+0", NewBinary("+", vr("x"), num(0), noPos), vr("x")},
		{"0+x", NewBinary("+", num(0), vr("x"), noPos), vr("x")},
		{"x-0", NewBinary("-", vr("x"), num(0), noPos), vr("x")},
		{"0-x", NewBinary("-", num(0), vr("x"), noPos), NewUnary("-", vr("x"), noPos)},
		{"x*0", NewBinary("*", vr("x"), num(0), noPos), num(0)},
		{"0*x", NewBinary("*", num(0), vr("x"), noPos), num(0)},
		{"x*1", NewBinary("*", vr("x"), num(1), noPos), vr("x")},
		{"1*x", NewBinary("*", num(1), vr("x"), noPos), vr("x")},
		{"x/1", NewBinary("/", vr("x"), num(1), noPos), vr("x")},
		{"x*-1", NewBinary("*", vr("x"), num(-1), noPos), NewUnary("-", vr("x"), noPos)},
		{"x^0", NewBinary("^", vr("x"), num(0), noPos), num(1)},
		{"x^1", NewBinary("^", vr("x"), num(1), noPos), vr("x")},
		{"1^x", NewBinary("^", num(1), vr("x"), noPos), num(1)},
		{"0^x", NewBinary("^", num(0), vr("x"), noPos), num(0)},
		{"false&&x", NewBinary("&&", bl(false), vr("x"), noPos), bl(false)},
		{"x&&false", NewBinary("&&", vr("x"), bl(false), noPos), bl(false)},
		{"true||x", NewBinary("||", bl(true), vr("x"), noPos), bl(true)},
		{"true&&x", NewBinary("&&", bl(true), vr("x"), noPos), vr("x")},
		{"x-x", NewBinary("-", vr("x"), vr("x"), noPos), num(0)},
		{"x/x", NewBinary("/", vr("x"), vr("x"), noPos), num(1)},
		{"x<x", NewBinary("<", vr("x"), vr("x"), noPos), bl(false)},
		{"x<=x", NewBinary("<=", vr("x"), vr("x"), noPos), bl(true)},
		{"x==x", NewBinary("==", vr("x"), vr("x"), noPos), bl(true)},
		{"x!=x", NewBinary("!=", vr("x"), vr("x"), noPos), bl(false)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Simplify(tc.in)
			assert.True(t, Equal(tc.want, got), "%s: got %s, want %s", tc.name, got, tc.want)
		})
	}
}

func Test_Simplify_idempotent(t *testing.T) {
	expr := NewBinary("+", vr("x"), NewBinary("*", num(1), NewBinary("-", vr("y"), vr("y"), noPos), noPos), noPos)
	once := Simplify(expr)
	twice := Simplify(once)
	assert.True(t, Equal(once, twice))
}

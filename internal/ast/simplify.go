package ast

import (
	"math"

	"github.com/ashgrove/formulang/internal/lex"
)

// Simplify applies constant folding and algebraic identities bottom-up,
// idempotently (§4.4). Division and modulus by a literal zero are
// deliberately left unfolded so that the evaluator, not the simplifier,
// raises DivisionByZero.
func Simplify(n *Node) *Node {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case KindNumber, KindBool, KindVariable:
		return n

	case KindUnary:
		operand := Simplify(n.Children[0])
		if isNumber(operand) {
			switch n.Op {
			case "+":
				return operand
			case "-":
				return NewNumber(-operand.Number, n.Position)
			}
		}
		if isBool(operand) && n.Op == "!" {
			return NewBool(!operand.Bool, n.Position)
		}
		return NewUnary(n.Op, operand, n.Position)

	case KindBinary:
		left := Simplify(n.Children[0])
		right := Simplify(n.Children[1])
		return simplifyBinary(n.Op, left, right, n.Position)

	case KindFunctionCall:
		args := make([]*Node, len(n.Children))
		for i, c := range n.Children {
			args[i] = Simplify(c)
		}
		return NewFunctionCall(n.Name, args, n.Position)

	case KindIf:
		cond := Simplify(n.Children[0])
		then := Simplify(n.Children[1])
		els := Simplify(n.Children[2])
		if isBool(cond) {
			if cond.Bool {
				return then
			}
			return els
		}
		return NewIf(cond, then, els, n.Position)

	default:
		return n
	}
}

func isNumber(n *Node) bool { return n != nil && n.Kind == KindNumber }
func isBool(n *Node) bool   { return n != nil && n.Kind == KindBool }

// sameShape reports whether a and b are the same literal-free expression,
// used for the x-x, x/x, x==x family of identities. Two Variable nodes with
// the same name count; two arbitrary equal subtrees also count, since the
// identity holds regardless of what the shared subexpression evaluates to
// (as long as evaluating it twice would be deterministic and side-effect
// free, which every formula expression is).
func sameShape(a, b *Node) bool {
	return Equal(a, b)
}

func simplifyBinary(op string, left, right *Node, pos lex.Position) *Node {
	rebuild := func() *Node { return NewBinary(op, left, right, pos) }

	bothNumbers := isNumber(left) && isNumber(right)
	bothBools := isBool(left) && isBool(right)

	// constant folding, arithmetic
	if bothNumbers {
		l, r := left.Number, right.Number
		switch op {
		case "+":
			return NewNumber(l+r, pos)
		case "-":
			return NewNumber(l-r, pos)
		case "*":
			return NewNumber(l*r, pos)
		case "/":
			if r != 0 {
				return NewNumber(l/r, pos)
			}
		case "%":
			if r != 0 {
				return NewNumber(math.Mod(l, r), pos)
			}
		case "^":
			return NewNumber(math.Pow(l, r), pos)
		case "==":
			return NewBool(l == r, pos)
		case "!=":
			return NewBool(l != r, pos)
		case "<":
			return NewBool(l < r, pos)
		case "<=":
			return NewBool(l <= r, pos)
		case ">":
			return NewBool(l > r, pos)
		case ">=":
			return NewBool(l >= r, pos)
		}
	}

	// constant folding, logic
	if bothBools {
		l, r := left.Bool, right.Bool
		switch op {
		case "&&":
			return NewBool(l && r, pos)
		case "||":
			return NewBool(l || r, pos)
		case "==":
			return NewBool(l == r, pos)
		case "!=":
			return NewBool(l != r, pos)
		}
	}

	// algebraic identities over one constant side
	if isNumber(right) {
		switch {
		case op == "+" && right.Number == 0:
			return left
		case op == "-" && right.Number == 0:
			return left
		case op == "*" && right.Number == 0:
			return NewNumber(0, pos)
		case op == "*" && right.Number == 1:
			return left
		case op == "/" && right.Number == 1:
			return left
		case op == "*" && right.Number == -1:
			return NewUnary("-", left, pos)
		case op == "/" && right.Number == -1:
			return NewUnary("-", left, pos)
		case op == "^" && right.Number == 0:
			return NewNumber(1, pos)
		case op == "^" && right.Number == 1:
			return left
		}
	}
	if isNumber(left) {
		switch {
		case op == "+" && left.Number == 0:
			return right
		case op == "-" && left.Number == 0:
			return NewUnary("-", right, pos)
		case op == "*" && left.Number == 0:
			return NewNumber(0, pos)
		case op == "*" && left.Number == 1:
			return right
		case op == "*" && left.Number == -1:
			return NewUnary("-", right, pos)
		case op == "^" && left.Number == 1:
			return NewNumber(1, pos)
		case op == "^" && left.Number == 0:
			return NewNumber(0, pos)
		}
	}

	// logic short-circuit identities over one constant side
	if isBool(left) {
		switch {
		case op == "&&" && !left.Bool:
			return NewBool(false, pos)
		case op == "&&" && left.Bool:
			return right
		case op == "||" && left.Bool:
			return NewBool(true, pos)
		case op == "||" && !left.Bool:
			return right
		}
	}
	if isBool(right) {
		switch {
		case op == "&&" && !right.Bool:
			return NewBool(false, pos)
		case op == "&&" && right.Bool:
			return left
		case op == "||" && right.Bool:
			return NewBool(true, pos)
		case op == "||" && !right.Bool:
			return left
		}
	}

	// self-identities: x-x, x%x, x<x, x>x -> 0/false; x/x, x<=x, x>=x, x==x
	// -> 1/true; x!=x -> false. Guarded to numeric/relational operators only
	// so that two equal sub-expressions of unknown type are never folded
	// into a mismatched-type literal.
	if sameShape(left, right) {
		switch op {
		case "-", "%":
			return NewNumber(0, pos)
		case "/":
			return NewNumber(1, pos)
		case "<", ">":
			return NewBool(false, pos)
		case "<=", ">=", "==":
			return NewBool(true, pos)
		case "!=":
			return NewBool(false, pos)
		}
	}

	return rebuild()
}

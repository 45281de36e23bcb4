// Package eval implements the AST visitor that turns a parsed, simplified
// expression into a runtime Value under a variable Environment (§4.6). It is
// the one place short-circuit evaluation, the security policy, and
// cooperative cancellation actually run, grounded on
// internal/tunascript's evaluation visitor in the teacher but re-typed for
// this engine's float/bool value domain instead of tunascript's string
// pseudo-typing.
package eval

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ashgrove/formulang/internal/ast"
	"github.com/ashgrove/formulang/internal/ferrors"
	"github.com/ashgrove/formulang/internal/funclib"
)

// maxSameFunctionRecursion bounds how many times a function may appear,
// nested, calling itself by name within a single expression (§4.6).
const maxSameFunctionRecursion = 5

// Evaluator implements ast.Visitor[Value] over one Environment. It is not
// safe for concurrent reuse across goroutines — build one per call, per the
// single-threaded-per-expression scheduling model in §5.
type Evaluator struct {
	env    *Environment
	funcs  funclib.Registry
	limits Limits
	ctx    context.Context

	nodeCount int
	depth     int
	funcStack []string
}

// New builds an Evaluator over env using the whitelisted function registry
// funcs and the resource limits in limits.
func New(env *Environment, funcs funclib.Registry, limits Limits) *Evaluator {
	return &Evaluator{env: env, funcs: funcs, limits: limits}
}

// Evaluate runs the full evaluation contract: a security preflight over the
// whole tree, then a visitor walk that checks depth/node/cancellation at
// every node (§4.6, §5).
func (e *Evaluator) Evaluate(ctx context.Context, n *ast.Node) (Value, error) {
	if err := e.preflight(n); err != nil {
		return Value{}, err
	}
	e.ctx = ctx
	e.nodeCount = 0
	e.depth = 1
	return ast.Walk[Value](n, e)
}

func (e *Evaluator) preflight(n *ast.Node) error {
	if size := ast.Size(n); size > e.limits.MaxNodes {
		return ferrors.EvalNodeLimitExceeded(e.limits.MaxNodes)
	}
	if d := ast.Depth(n); d > e.limits.MaxDepth {
		return ferrors.EvalDepthExceeded(e.limits.MaxDepth)
	}
	vars := ast.Variables(n)
	if len(vars) > e.limits.MaxVariables {
		return ferrors.EvalSecurityViolation(fmt.Sprintf(
			"expression references %d variables, exceeding the limit of %d", len(vars), e.limits.MaxVariables))
	}
	for _, name := range vars {
		if err := ValidateVariableName(name); err != nil {
			return err
		}
	}
	return nil
}

// check runs the per-node bookkeeping every Visit method performs before
// doing its own work: cancellation, node-count, and depth bounds.
func (e *Evaluator) check() error {
	select {
	case <-e.ctx.Done():
		if e.ctx.Err() == context.DeadlineExceeded {
			return ferrors.EvalTimeout()
		}
		return ferrors.EvalCancelled()
	default:
	}
	e.nodeCount++
	if e.nodeCount > e.limits.MaxNodes {
		return ferrors.EvalNodeLimitExceeded(e.limits.MaxNodes)
	}
	if e.depth > e.limits.MaxDepth {
		return ferrors.EvalDepthExceeded(e.limits.MaxDepth)
	}
	return nil
}

// visitChild recurses into a child node with the depth counter adjusted,
// the one place recursion actually happens — giving every Visit method
// control over whether and when its children run, which is what makes
// short-circuiting possible.
func (e *Evaluator) visitChild(n *ast.Node) (Value, error) {
	e.depth++
	defer func() { e.depth-- }()
	return ast.Walk[Value](n, e)
}

func (e *Evaluator) VisitNumber(n *ast.Node) (Value, error) {
	if err := e.check(); err != nil {
		return Value{}, err
	}
	return Number(n.Number), nil
}

func (e *Evaluator) VisitBool(n *ast.Node) (Value, error) {
	if err := e.check(); err != nil {
		return Value{}, err
	}
	return Boolean(n.Bool), nil
}

func (e *Evaluator) VisitVariable(n *ast.Node) (Value, error) {
	if err := e.check(); err != nil {
		return Value{}, err
	}
	v, ok := e.env.Variables[n.Name]
	if !ok {
		return Value{}, ferrors.EvalUndefinedVariable(n.Name)
	}
	return v, nil
}

func (e *Evaluator) VisitUnary(n *ast.Node) (Value, error) {
	if err := e.check(); err != nil {
		return Value{}, err
	}
	operand, err := e.visitChild(n.Children[0])
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case "+":
		if operand.IsBool {
			return Value{}, ferrors.EvalTypeMismatch("+", kindName(operand))
		}
		return operand, nil
	case "-":
		if operand.IsBool {
			return Value{}, ferrors.EvalTypeMismatch("-", kindName(operand))
		}
		return Number(-operand.Num), nil
	case "!":
		return Boolean(!asBool(operand)), nil
	default:
		return Value{}, ferrors.Internal("eval", fmt.Errorf("unknown unary operator %q", n.Op))
	}
}

func (e *Evaluator) VisitBinary(n *ast.Node) (Value, error) {
	if err := e.check(); err != nil {
		return Value{}, err
	}

	op := n.Op
	if op == "&&" || op == "||" {
		left, err := e.visitChild(n.Children[0])
		if err != nil {
			return Value{}, err
		}
		lb := asBool(left)
		if op == "&&" && !lb {
			return Boolean(false), nil
		}
		if op == "||" && lb {
			return Boolean(true), nil
		}
		right, err := e.visitChild(n.Children[1])
		if err != nil {
			return Value{}, err
		}
		return Boolean(asBool(right)), nil
	}

	left, err := e.visitChild(n.Children[0])
	if err != nil {
		return Value{}, err
	}
	right, err := e.visitChild(n.Children[1])
	if err != nil {
		return Value{}, err
	}

	switch op {
	case "+", "-", "*", "/", "%", "^":
		if left.IsBool || right.IsBool {
			return Value{}, ferrors.EvalTypeMismatch(op, kindName(left), kindName(right))
		}
		return arith(op, left.Num, right.Num)
	case "<", "<=", ">", ">=":
		if left.IsBool || right.IsBool {
			return Value{}, ferrors.EvalTypeMismatch(op, kindName(left), kindName(right))
		}
		return Boolean(relational(op, left.Num, right.Num)), nil
	case "==", "!=":
		if left.IsBool != right.IsBool {
			return Value{}, ferrors.EvalTypeMismatch(op, kindName(left), kindName(right))
		}
		var eq bool
		if left.IsBool {
			eq = left.Bool == right.Bool
		} else {
			eq = left.Num == right.Num
		}
		if op == "!=" {
			eq = !eq
		}
		return Boolean(eq), nil
	default:
		return Value{}, ferrors.Internal("eval", fmt.Errorf("unknown binary operator %q", op))
	}
}

func arith(op string, a, b float64) (Value, error) {
	switch op {
	case "+":
		return Number(a + b), nil
	case "-":
		return Number(a - b), nil
	case "*":
		return Number(a * b), nil
	case "/":
		if b == 0 {
			return Value{}, ferrors.EvalDivisionByZero()
		}
		return Number(a / b), nil
	case "%":
		if b == 0 {
			return Value{}, ferrors.EvalDivisionByZero()
		}
		return Number(math.Mod(a, b)), nil
	case "^":
		return Number(math.Pow(a, b)), nil
	default:
		return Value{}, ferrors.Internal("eval", fmt.Errorf("unknown arithmetic operator %q", op))
	}
}

func relational(op string, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	default:
		return false
	}
}

func (e *Evaluator) VisitIf(n *ast.Node) (Value, error) {
	if err := e.check(); err != nil {
		return Value{}, err
	}
	cond, err := e.visitChild(n.Children[0])
	if err != nil {
		return Value{}, err
	}
	if asBool(cond) {
		return e.visitChild(n.Children[1])
	}
	return e.visitChild(n.Children[2])
}

func (e *Evaluator) VisitFunctionCall(n *ast.Node) (Value, error) {
	if err := e.check(); err != nil {
		return Value{}, err
	}

	name := strings.ToUpper(n.Name)
	entry, ok := e.funcs.Lookup(name)
	if !ok {
		return Value{}, ferrors.EvalUnknownFunction(n.Name)
	}
	if !entry.Arity.Accepts(len(n.Children)) {
		return Value{}, ferrors.EvalArityMismatch(n.Name, entry.Arity.Min, len(n.Children))
	}

	sameName := 0
	for _, f := range e.funcStack {
		if f == name {
			sameName++
		}
	}
	if sameName >= maxSameFunctionRecursion {
		return Value{}, ferrors.EvalSecurityViolation(fmt.Sprintf(
			"function %q recursion depth exceeds %d", n.Name, maxSameFunctionRecursion))
	}

	e.funcStack = append(e.funcStack, name)
	defer func() { e.funcStack = e.funcStack[:len(e.funcStack)-1] }()

	args := make([]float64, len(n.Children))
	for i, c := range n.Children {
		v, err := e.visitChild(c)
		if err != nil {
			return Value{}, err
		}
		if v.IsBool {
			return Value{}, ferrors.EvalTypeMismatch(n.Name, "bool")
		}
		args[i] = v.Num
	}

	result, err := entry.Call(args)
	if err != nil {
		return Value{}, translateFuncError(n.Name, err)
	}
	return Number(result), nil
}

func translateFuncError(name string, err error) *ferrors.Error {
	switch e := err.(type) {
	case *funclib.DomainError:
		return ferrors.EvalDomainError(e.Fn, e.Value)
	case *funclib.DivideByZero:
		return ferrors.EvalDivisionByZero()
	case *funclib.Overflow:
		return ferrors.EvalOverflow(e.Fn)
	default:
		return ferrors.Internal("funclib:"+name, err)
	}
}

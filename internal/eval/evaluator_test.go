package eval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashgrove/formulang/internal/ast"
	"github.com/ashgrove/formulang/internal/funclib"
	"github.com/ashgrove/formulang/internal/grammar"
	"github.com/ashgrove/formulang/internal/lex"
	"github.com/ashgrove/formulang/internal/lrtable"
	"github.com/ashgrove/formulang/internal/parse"
)

var table = lrtable.Build(grammar.New())

func parseExpr(t *testing.T, src string) *ast.Node {
	t.Helper()
	tokens, err := lex.Lex(src)
	require.NoError(t, err)
	n, err := parse.New(table, parse.DefaultOptions()).Parse(tokens)
	require.NoError(t, err)
	return n
}

func evalExpr(t *testing.T, env *Environment, src string) (Value, error) {
	t.Helper()
	n := ast.Simplify(parseExpr(t, src))
	e := New(env, funclib.New(), DefaultLimits())
	return e.Evaluate(context.Background(), n)
}

func Test_Evaluate_arithmetic(t *testing.T) {
	v, err := evalExpr(t, NewEnvironment(), "1 + 2 * 3")
	require.NoError(t, err)
	assert.Equal(t, Number(7), v)
}

func Test_Evaluate_variableLookup(t *testing.T) {
	env := NewEnvironment()
	require.NoError(t, env.Set("x", Number(10)))
	v, err := evalExpr(t, env, "x * 2")
	require.NoError(t, err)
	assert.Equal(t, Number(20), v)
}

func Test_Evaluate_undefinedVariable(t *testing.T) {
	_, err := evalExpr(t, NewEnvironment(), "missing + 1")
	require.Error(t, err)
}

func Test_Evaluate_divisionByZero(t *testing.T) {
	_, err := evalExpr(t, NewEnvironment(), "1 / 0")
	require.Error(t, err)
}

func Test_Evaluate_shortCircuitAndSkipsRightOnFalse(t *testing.T) {
	env := NewEnvironment()
	v, err := evalExpr(t, env, "FALSE && (1 / 0 > 0)")
	require.NoError(t, err)
	assert.Equal(t, Boolean(false), v)
}

func Test_Evaluate_shortCircuitOrSkipsRightOnTrue(t *testing.T) {
	v, err := evalExpr(t, NewEnvironment(), "TRUE || (1 / 0 > 0)")
	require.NoError(t, err)
	assert.Equal(t, Boolean(true), v)
}

func Test_Evaluate_ifShortCircuitsUnchosenBranch(t *testing.T) {
	v, err := evalExpr(t, NewEnvironment(), "IF(TRUE, 1, 1 / 0)")
	require.NoError(t, err)
	assert.Equal(t, Number(1), v)

	v, err = evalExpr(t, NewEnvironment(), "IF(FALSE, 1 / 0, 2)")
	require.NoError(t, err)
	assert.Equal(t, Number(2), v)
}

func Test_Evaluate_ifBranchesMayHaveMismatchedTypes(t *testing.T) {
	v, err := evalExpr(t, NewEnvironment(), "IF(TRUE, 1, FALSE)")
	require.NoError(t, err)
	assert.Equal(t, Number(1), v)
}

func Test_Evaluate_relationalRequiresNumeric(t *testing.T) {
	_, err := evalExpr(t, NewEnvironment(), "TRUE < FALSE")
	require.Error(t, err)
}

func Test_Evaluate_equalityAcceptsMatchingBoolPair(t *testing.T) {
	v, err := evalExpr(t, NewEnvironment(), "TRUE == TRUE")
	require.NoError(t, err)
	assert.Equal(t, Boolean(true), v)
}

func Test_Evaluate_equalityRejectsMismatchedKinds(t *testing.T) {
	_, err := evalExpr(t, NewEnvironment(), "TRUE == 1")
	require.Error(t, err)
}

func Test_Evaluate_functionCall(t *testing.T) {
	v, err := evalExpr(t, NewEnvironment(), "SQRT(16)")
	require.NoError(t, err)
	assert.Equal(t, Number(4), v)
}

func Test_Evaluate_unknownFunction(t *testing.T) {
	_, err := evalExpr(t, NewEnvironment(), "NOPE(1)")
	require.Error(t, err)
}

func Test_Evaluate_arityMismatch(t *testing.T) {
	_, err := evalExpr(t, NewEnvironment(), "SQRT(1, 2)")
	require.Error(t, err)
}

func Test_Evaluate_domainError(t *testing.T) {
	_, err := evalExpr(t, NewEnvironment(), "SQRT(-1)")
	require.Error(t, err)
}

func Test_Evaluate_nodeLimitExceeded(t *testing.T) {
	n := parseExpr(t, "1 + 1")
	e := New(NewEnvironment(), funclib.New(), Limits{MaxDepth: 100, MaxNodes: 1, MaxVariables: 10, MaxTimeMs: 1000})
	_, err := e.Evaluate(context.Background(), n)
	require.Error(t, err)
}

func Test_Evaluate_depthExceeded(t *testing.T) {
	n := parseExpr(t, "-(-(-(-1)))")
	e := New(NewEnvironment(), funclib.New(), Limits{MaxDepth: 2, MaxNodes: 1000, MaxVariables: 10, MaxTimeMs: 1000})
	_, err := e.Evaluate(context.Background(), n)
	require.Error(t, err)
}

func Test_Evaluate_cancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := parseExpr(t, "1 + 1")
	e := New(NewEnvironment(), funclib.New(), DefaultLimits())
	_, err := e.Evaluate(ctx, n)
	require.Error(t, err)
}

func Test_ValidateVariableName_rejectsReservedAndMalformed(t *testing.T) {
	assert.Error(t, ValidateVariableName("true"))
	assert.Error(t, ValidateVariableName("1abc"))
	assert.NoError(t, ValidateVariableName("balance_1"))
}

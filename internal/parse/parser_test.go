package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashgrove/formulang/internal/ast"
	"github.com/ashgrove/formulang/internal/ferrors"
	"github.com/ashgrove/formulang/internal/grammar"
	"github.com/ashgrove/formulang/internal/lex"
	"github.com/ashgrove/formulang/internal/lrtable"
)

func mustParse(t *testing.T, src string) *ast.Node {
	t.Helper()
	tokens, err := lex.Lex(src)
	require.NoError(t, err)
	table := lrtable.Build(grammar.New())
	p := New(table, DefaultOptions())
	n, err := p.Parse(tokens)
	require.NoError(t, err)
	return n
}

func Test_Parse_simpleArithmeticRespectsPrecedence(t *testing.T) {
	n := mustParse(t, "1 + 2 * 3")
	require.Equal(t, ast.KindBinary, n.Kind)
	assert.Equal(t, "+", n.Op)
	assert.Equal(t, ast.KindBinary, n.Children[1].Kind)
	assert.Equal(t, "*", n.Children[1].Op)
}

func Test_Parse_powerIsRightAssociative(t *testing.T) {
	n := mustParse(t, "2 ^ 3 ^ 2")
	require.Equal(t, ast.KindBinary, n.Kind)
	assert.Equal(t, "^", n.Op)
	assert.Equal(t, float64(2), n.Children[0].Number)
	assert.Equal(t, ast.KindBinary, n.Children[1].Kind)
}

func Test_Parse_parenthesesOverridePrecedence(t *testing.T) {
	n := mustParse(t, "(1 + 2) * 3")
	require.Equal(t, ast.KindBinary, n.Kind)
	assert.Equal(t, "*", n.Op)
	assert.Equal(t, "+", n.Children[0].Op)
}

func Test_Parse_functionCallWithArguments(t *testing.T) {
	n := mustParse(t, "MAX(1, 2, x)")
	require.Equal(t, ast.KindFunctionCall, n.Kind)
	assert.Equal(t, "MAX", n.Name)
	require.Len(t, n.Children, 3)
}

func Test_Parse_nullaryFunctionCall(t *testing.T) {
	n := mustParse(t, "PI()")
	require.Equal(t, ast.KindFunctionCall, n.Kind)
	assert.Empty(t, n.Children)
}

func Test_Parse_ifExpression(t *testing.T) {
	n := mustParse(t, "IF(x > 0, 1, -1)")
	require.Equal(t, ast.KindIf, n.Kind)
	require.Len(t, n.Children, 3)
}

func Test_Parse_variableReference(t *testing.T) {
	n := mustParse(t, "balance")
	require.Equal(t, ast.KindVariable, n.Kind)
	assert.Equal(t, "balance", n.Name)
}

func Test_Parse_unexpectedTokenReportsExpectedSet(t *testing.T) {
	tokens, err := lex.Lex("1 + )")
	require.NoError(t, err)
	table := lrtable.Build(grammar.New())
	p := New(table, DefaultOptions())
	_, err = p.Parse(tokens)
	require.Error(t, err)

	var fe *ferrors.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ferrors.ParseUnexpectedTokenCode, fe.Code)
	assert.NotEmpty(t, fe.Context["expected"])
}

func Test_Parse_unexpectedEndOfInput(t *testing.T) {
	tokens, err := lex.Lex("(1 + 2")
	require.NoError(t, err)
	table := lrtable.Build(grammar.New())
	p := New(table, DefaultOptions())
	_, err = p.Parse(tokens)
	require.Error(t, err)
}

func Test_Parse_traceListenerObservesSteps(t *testing.T) {
	tokens, err := lex.Lex("1 + 2")
	require.NoError(t, err)
	table := lrtable.Build(grammar.New())
	p := New(table, DefaultOptions())

	var events []TraceEvent
	p.RegisterTraceListener(func(e TraceEvent) { events = append(events, e) })

	_, err = p.Parse(tokens)
	require.NoError(t, err)
	assert.NotEmpty(t, events)
	assert.Equal(t, TraceAccept, events[len(events)-1].Type)
}

func Test_Parse_recoverFromErrorsSkipsOneTokenThenSucceeds(t *testing.T) {
	// The stray comma is not valid anywhere after "1 +"; with recovery
	// enabled it is discarded and parsing continues as "1 + 2".
	tokens, err := lex.Lex("1 + , 2")
	require.NoError(t, err)

	table := lrtable.Build(grammar.New())
	opts := DefaultOptions()
	opts.RecoverFromErrors = true
	p := New(table, opts)

	var recovered []TraceEvent
	p.RegisterTraceListener(func(e TraceEvent) {
		if e.Type == TraceRecover {
			recovered = append(recovered, e)
		}
	})

	n, err := p.Parse(tokens)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.NotEmpty(t, recovered)
}

func Test_Parse_recoveryLimitExceeded(t *testing.T) {
	tokens, err := lex.Lex(", , , ,")
	require.NoError(t, err)

	table := lrtable.Build(grammar.New())
	opts := DefaultOptions()
	opts.RecoverFromErrors = true
	opts.MaxRecoveryAttempts = 2
	p := New(table, opts)

	_, err = p.Parse(tokens)
	require.Error(t, err)
}

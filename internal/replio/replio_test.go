package replio

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DirectExpressionReader_readsNonBlankLines(t *testing.T) {
	r := NewDirectReader(strings.NewReader("1 + 2\n\nSQRT(4)\n"))

	line, err := r.ReadExpression()
	require.NoError(t, err)
	assert.Equal(t, "1 + 2", line)

	line, err = r.ReadExpression()
	require.NoError(t, err)
	assert.Equal(t, "SQRT(4)", line)

	_, err = r.ReadExpression()
	assert.ErrorIs(t, err, io.EOF)
}

func Test_DirectExpressionReader_allowBlankReturnsEmptyLines(t *testing.T) {
	r := NewDirectReader(strings.NewReader("\n1\n"))
	r.AllowBlank(true)

	line, err := r.ReadExpression()
	require.NoError(t, err)
	assert.Equal(t, "", line)

	line, err = r.ReadExpression()
	require.NoError(t, err)
	assert.Equal(t, "1", line)
}

func Test_DirectExpressionReader_closeIsNoop(t *testing.T) {
	r := NewDirectReader(strings.NewReader(""))
	assert.NoError(t, r.Close())
}

func Test_DirectExpressionReader_joinsLinesWhileParensUnbalanced(t *testing.T) {
	r := NewDirectReader(strings.NewReader("IF(\nx > 0,\n1,\n-1)\n"))

	line, err := r.ReadExpression()
	require.NoError(t, err)
	assert.Equal(t, "IF( x > 0, 1, -1)", line)
}

func Test_DirectExpressionReader_joinsLinesOnTrailingBackslash(t *testing.T) {
	r := NewDirectReader(strings.NewReader("1 + \\\n2\n"))

	line, err := r.ReadExpression()
	require.NoError(t, err)
	assert.Equal(t, "1 + 2", line)
}

func Test_DirectExpressionReader_unbalancedParensAtEOFIsError(t *testing.T) {
	r := NewDirectReader(strings.NewReader("IF(x, 1, 2"))

	_, err := r.ReadExpression()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func Test_DirectExpressionReader_trailingBackslashAtEOFIsError(t *testing.T) {
	r := NewDirectReader(strings.NewReader("1 + \\"))

	_, err := r.ReadExpression()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

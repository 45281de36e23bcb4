// Package replio supplies the line readers used by cmd/formulang's -repl
// mode: one backed by GNU-readline-style editing and history for an
// interactive TTY, and one that reads plain lines from any io.Reader (a
// pipe, a file redirected onto stdin) for non-interactive batch use.
//
// Unlike a command reader, which treats one input line as one complete
// command, both readers here understand that a formula expression can span
// more than one line: an IF(...) or nested function call with an unclosed
// paren, or a line ending in a trailing backslash, causes the reader to keep
// pulling lines (prompting with a continuation prompt in interactive mode)
// until the parens balance and no continuation marker remains.
package replio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// continuationPrompt is shown in place of the configured prompt for every
// line after the first one of a multi-line expression.
const continuationPrompt = "... "

// ExpressionReader reads one formula expression at a time from some input
// source. Implementations must have Close called on them before disposal.
type ExpressionReader interface {
	ReadExpression() (string, error)
	Close() error
}

// DirectExpressionReader reads expressions from any generic input stream. It
// does not sanitize control or escape sequences, so it should be used for
// piped or redirected input rather than a raw TTY.
//
// DirectExpressionReader should not be used directly; instead, create one
// with [NewDirectReader].
type DirectExpressionReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveExpressionReader reads expressions from stdin using a Go
// implementation of the GNU Readline library, giving the user history and
// line editing. It should generally only be used when directly connected to
// a TTY.
//
// InteractiveExpressionReader should not be used directly; instead, create
// one with [NewInteractiveReader].
type InteractiveExpressionReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewDirectReader creates a DirectExpressionReader that buffers reads from r.
func NewDirectReader(r io.Reader) *DirectExpressionReader {
	return &DirectExpressionReader{r: bufio.NewReader(r)}
}

// NewInteractiveReader creates an InteractiveExpressionReader with the given
// prompt and initializes readline. The returned reader must have Close
// called on it before disposal to tear down readline resources.
func NewInteractiveReader(prompt string) (*InteractiveExpressionReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveExpressionReader{rl: rl, prompt: prompt}, nil
}

// Close is a no-op; DirectExpressionReader owns no teardown-requiring
// resources, but callers should still call it so it can satisfy
// ExpressionReader uniformly alongside InteractiveExpressionReader.
func (der *DirectExpressionReader) Close() error {
	return nil
}

// Close tears down readline resources.
func (ier *InteractiveExpressionReader) Close() error {
	return ier.rl.Close()
}

// ReadExpression reads the next expression from the underlying stream,
// pulling additional lines while parens are unbalanced or the line ends in
// a continuation backslash. If at end of input with nothing pending, it
// returns "" and io.EOF; EOF in the middle of an unfinished expression is
// reported as an error naming what was read so far rather than as a bare
// io.EOF.
func (der *DirectExpressionReader) ReadExpression() (string, error) {
	return readExpression(func() (string, error) {
		return der.r.ReadString('\n')
	}, der.blanksAllowed)
}

// ReadExpression reads the next expression from stdin via readline, showing
// continuationPrompt in place of the configured prompt for every line after
// the first of a multi-line expression. See DirectExpressionReader.ReadExpression
// for the continuation and EOF rules.
func (ier *InteractiveExpressionReader) ReadExpression() (string, error) {
	defer ier.rl.SetPrompt(ier.prompt)

	lineNum := 0
	return readExpression(func() (string, error) {
		if lineNum > 0 {
			ier.rl.SetPrompt(continuationPrompt)
		}
		lineNum++
		return ier.rl.Readline()
	}, ier.blanksAllowed)
}

// readExpression drives the shared blank-skipping, continuation, and
// paren-balance accumulation logic for both reader types over nextLine,
// which returns one raw (not yet trimmed) line at a time.
func readExpression(nextLine func() (string, error), blanksAllowed bool) (string, error) {
	var buf strings.Builder
	balance := 0
	started := false

	for {
		raw, err := nextLine()
		if err != nil && (err != io.EOF || raw == "") {
			if started {
				if err == io.EOF {
					return "", fmt.Errorf("unterminated expression at end of input: %q", buf.String())
				}
				return "", fmt.Errorf("unterminated expression: %w", err)
			}
			return "", err
		}

		line := strings.TrimSpace(raw)
		continued := strings.HasSuffix(line, `\`)
		if continued {
			line = strings.TrimSpace(strings.TrimSuffix(line, `\`))
		}

		if !started {
			if line == "" && !continued {
				if blanksAllowed {
					return "", nil
				}
				if err == io.EOF {
					return "", io.EOF
				}
				continue
			}
			started = true
		} else if buf.Len() > 0 && line != "" {
			buf.WriteByte(' ')
		}

		buf.WriteString(line)
		balance += parenBalance(line)

		if err == io.EOF {
			if continued || balance > 0 {
				return "", fmt.Errorf("unterminated expression at end of input: %q", buf.String())
			}
			return buf.String(), nil
		}

		if !continued && balance <= 0 {
			return buf.String(), nil
		}
	}
}

// parenBalance counts unmatched '(' (positive) or ')' (negative) in s. The
// formula grammar has no string or comment syntax to skip over, so a plain
// rune count is exact.
func parenBalance(s string) int {
	bal := 0
	for _, r := range s {
		switch r {
		case '(':
			bal++
		case ')':
			bal--
		}
	}
	return bal
}

// AllowBlank sets whether a blank line is returned instead of skipped. By
// default it is not.
func (der *DirectExpressionReader) AllowBlank(allow bool) {
	der.blanksAllowed = allow
}

// AllowBlank sets whether a blank line is returned instead of skipped. By
// default it is not.
func (ier *InteractiveExpressionReader) AllowBlank(allow bool) {
	ier.blanksAllowed = allow
}

// SetPrompt updates the prompt shown before the first line of each read.
func (ier *InteractiveExpressionReader) SetPrompt(p string) {
	ier.prompt = p
	ier.rl.SetPrompt(p)
}

// GetPrompt returns the current prompt.
func (ier *InteractiveExpressionReader) GetPrompt() string {
	return ier.prompt
}

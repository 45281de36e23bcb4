// Package parse implements the shift-reduce driver loop over an SLR(1)
// ACTION/GOTO table (package lrtable), producing an internal/ast.Node from a
// token stream. The driver algorithm is grounded on
// internal/ictiobus/parse/lr.go's (*lrParser).Parse, trimmed to this repo's
// single fixed grammar and single table implementation.
package parse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ashgrove/formulang/internal/ast"
	"github.com/ashgrove/formulang/internal/ferrors"
	"github.com/ashgrove/formulang/internal/grammar"
	"github.com/ashgrove/formulang/internal/lex"
	"github.com/ashgrove/formulang/internal/lrtable"
)

// Options bounds the driver loop and controls error recovery (§4.3 "Parsing
// Limits" and "Error Recovery").
type Options struct {
	MaxSteps            int
	MaxStackSize        int
	MaxRecoveryAttempts int
	RecoverFromErrors   bool
}

// DefaultOptions returns the limits named in §4.3.
func DefaultOptions() Options {
	return Options{
		MaxSteps:            100000,
		MaxStackSize:        10000,
		MaxRecoveryAttempts: 100,
		RecoverFromErrors:   false,
	}
}

// Parser drives one SLR(1) table over a token stream. A Parser is stateless
// between calls to Parse and may be reused concurrently; RegisterTraceListener
// must be called before the Parse call(s) whose trace it should observe.
type Parser struct {
	table     *lrtable.Table
	opts      Options
	listeners []TraceListener
}

// New builds a parser over table using opts.
func New(table *lrtable.Table, opts Options) *Parser {
	return &Parser{table: table, opts: opts}
}

// RegisterTraceListener adds a listener notified of every shift, reduce,
// accept, and recovery step of subsequent Parse calls.
func (p *Parser) RegisterTraceListener(l TraceListener) {
	p.listeners = append(p.listeners, l)
}

func (p *Parser) notify(ev TraceEvent) {
	for _, l := range p.listeners {
		l(ev)
	}
}

// Parse consumes tokens (which must end with a single lex.EOF token, as
// produced by lex.Lex) and returns the AST it reduces to, or the first
// syntax error encountered. When opts.RecoverFromErrors is set, a syntax
// error instead triggers skip-one-token recovery and parsing continues;
// recovery ends with RecoveryLimitExceeded once more than
// opts.MaxRecoveryAttempts tokens have been skipped, or with
// UnexpectedEndOfInput if the error is at the EOF token.
func (p *Parser) Parse(tokens []lex.Token) (*ast.Node, error) {
	stateStack := []int{p.table.Initial()}
	var valueStack []grammar.StackValue

	pos := 0
	steps := 0
	recoveries := 0

	for {
		steps++
		if steps > p.opts.MaxSteps {
			return nil, ferrors.ParseTooManySteps(tokens[pos].Position)
		}
		if len(stateStack) > p.opts.MaxStackSize {
			return nil, ferrors.ParseStackOverflow(tokens[pos].Position)
		}

		tok := tokens[pos]
		term := grammar.SymbolForToken(tok)
		state := stateStack[len(stateStack)-1]
		action := p.table.Action(state, term)

		switch action.Type {
		case lrtable.Shift:
			tokCopy := tok
			stateStack = append(stateStack, action.State)
			valueStack = append(valueStack, grammar.StackValue{Token: &tokCopy})
			p.notify(TraceEvent{Step: steps, Type: TraceShift, State: action.State, Lookahead: term, Stack: snapshot(stateStack)})
			pos++

		case lrtable.Reduce:
			prod := p.table.Grammar.Productions[action.Prod]
			n := len(prod.RHS)
			var rhs []grammar.StackValue
			if n > 0 {
				rhs = append(rhs, valueStack[len(valueStack)-n:]...)
				stateStack = stateStack[:len(stateStack)-n]
				valueStack = valueStack[:len(valueStack)-n]
			}
			built := prod.Build(rhs)
			top := stateStack[len(stateStack)-1]
			next, ok := p.table.Goto(top, prod.LHS)
			if !ok {
				return nil, ferrors.Internal("parse", fmt.Errorf("no GOTO from state %d on %s", top, prod.LHS))
			}
			stateStack = append(stateStack, next)
			valueStack = append(valueStack, grammar.StackValue{Node: built})
			p.notify(TraceEvent{Step: steps, Type: TraceReduce, State: next, Production: action.Prod, Stack: snapshot(stateStack)})

		case lrtable.Accept:
			p.notify(TraceEvent{Step: steps, Type: TraceAccept, State: state, Stack: snapshot(stateStack)})
			if len(valueStack) != 1 {
				return nil, ferrors.Internal("parse", fmt.Errorf("accepted with %d values on the node stack", len(valueStack)))
			}
			return valueStack[0].Node, nil

		default: // lrtable.Error
			if !p.opts.RecoverFromErrors {
				return nil, unexpectedTokenError(tok, p.table, state)
			}
			if term == grammar.EndOfInput {
				return nil, ferrors.ParseUnexpectedEndOfInput(tok.Position)
			}
			recoveries++
			if recoveries > p.opts.MaxRecoveryAttempts {
				return nil, ferrors.ParseRecoveryLimitExceeded(tok.Position)
			}
			p.notify(TraceEvent{Step: steps, Type: TraceRecover, State: state, Lookahead: term, Stack: snapshot(stateStack)})
			pos++
		}
	}
}

func snapshot(stateStack []int) []int {
	return append([]int{}, stateStack...)
}

func unexpectedTokenError(tok lex.Token, table *lrtable.Table, state int) *ferrors.Error {
	if grammar.SymbolForToken(tok) == grammar.EndOfInput {
		return ferrors.ParseUnexpectedEndOfInput(tok.Position)
	}
	expected := expectedTerminals(table, state)
	return ferrors.ParseUnexpectedToken(tok.Kind.Human(), strings.Join(expected, ", "), tok.Position)
}

func expectedTerminals(table *lrtable.Table, state int) []string {
	all := append(append([]string{}, table.Grammar.Terminals()...), grammar.EndOfInput)
	var out []string
	for _, term := range all {
		if table.Action(state, term).Type != lrtable.Error {
			out = append(out, term)
		}
	}
	sort.Strings(out)
	return out
}

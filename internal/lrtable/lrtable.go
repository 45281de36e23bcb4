// Package lrtable constructs the SLR(1) ACTION/GOTO parsing table for the
// fixed formula grammar (§3 "Parsing Table", §4.2), an implementation of the
// classic "Constructing an SLR-parsing table" algorithm, adapted from
// internal/ictiobus/parse/slr.go down to the one grammar this repo needs:
// the canonical LR(0) collection from package automaton supplies the GOTO
// function directly (it *is* the automaton's transition function), and
// FOLLOW sets from package grammar resolve reduce actions.
//
// Build also hands the same grammar to the real github.com/dekarrin/ictiobus
// SLR(1) constructor (grammar.ValidateSLR1) and folds whatever it reports
// into Conflicts, so this table isn't the only implementation vouching for
// itself.
//
// Callers build the table once with Build and reuse it; it is never
// modified after Build returns and is safe to share across concurrently-parsing goroutines
// thereafter (§5 "Shared state").
package lrtable

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"

	"github.com/ashgrove/formulang/internal/automaton"
	"github.com/ashgrove/formulang/internal/grammar"
)

// ActionType is the kind of one ACTION table entry.
type ActionType int

const (
	Error ActionType = iota
	Shift
	Reduce
	Accept
)

func (t ActionType) String() string {
	switch t {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "error"
	}
}

// Action is one entry of the ACTION table.
type Action struct {
	Type  ActionType
	State int // valid when Type == Shift: the state to push
	Prod  int // valid when Type == Reduce: the production to reduce by
}

// Table is the pair of total ACTION/GOTO functions described in §3.
type Table struct {
	Grammar   grammar.Grammar // augmented
	DFA       automaton.DFA
	action    []map[string]Action
	gotoTable []map[string]int
	Conflicts []string
}

// Initial returns the parser's start state.
func (t *Table) Initial() int { return t.DFA.Start }

// Action returns the action for (state, terminal). Absent entries return the
// zero Action, whose Type is Error.
func (t *Table) Action(state int, terminal string) Action {
	if state < 0 || state >= len(t.action) {
		return Action{}
	}
	return t.action[state][terminal]
}

// Goto returns the successor state for (state, nonTerminal), or false if
// undefined.
func (t *Table) Goto(state int, nonTerminal string) (int, bool) {
	if state < 0 || state >= len(t.gotoTable) {
		return 0, false
	}
	next, ok := t.gotoTable[state][nonTerminal]
	return next, ok
}

// Build constructs the SLR(1) table for g (g need not be pre-augmented;
// Build augments it). Shift/reduce conflicts are resolved in favor of
// shift, matching the teacher's GenerateSimpleLRParser(allowAmbig=true)
// behavior; reduce/reduce conflicts keep the first-registered reduction.
// Either kind of conflict is appended to the returned Table's Conflicts so
// callers can log or fail loudly on an unexpectedly ambiguous grammar.
func Build(g grammar.Grammar) *Table {
	augmented := g.Augmented()
	dfa := automaton.Build(augmented)
	follow := augmented.Follow()

	t := &Table{
		Grammar: augmented,
		DFA:     dfa,
	}
	t.action = make([]map[string]Action, len(dfa.States))
	t.gotoTable = make([]map[string]int, len(dfa.States))
	for i := range dfa.States {
		t.action[i] = map[string]Action{}
		t.gotoTable[i] = map[string]int{}
	}

	setAction := func(state int, term string, a Action) {
		existing, ok := t.action[state][term]
		if !ok {
			t.action[state][term] = a
			return
		}
		if existing.Type == Shift {
			if a.Type == Reduce {
				t.Conflicts = append(t.Conflicts, fmt.Sprintf(
					"state %d, %q: shift/reduce conflict resolved in favor of shift", state, term))
			}
			return // shift always wins
		}
		if a.Type == Shift {
			t.action[state][term] = a
			t.Conflicts = append(t.Conflicts, fmt.Sprintf(
				"state %d, %q: shift/reduce conflict resolved in favor of shift", state, term))
			return
		}
		if existing.Type == Reduce && a.Type == Reduce && existing.Prod != a.Prod {
			t.Conflicts = append(t.Conflicts, fmt.Sprintf(
				"state %d, %q: reduce/reduce conflict between productions %d and %d, kept %d",
				state, term, existing.Prod, a.Prod, existing.Prod))
		}
	}

	// Shifts, directly from the DFA's transition function.
	for i, trans := range dfa.Transitions {
		for sym, next := range trans {
			if augmented.IsTerminal(sym) {
				setAction(i, sym, Action{Type: Shift, State: next})
			}
		}
	}

	// Reduces and accept.
	for i, state := range dfa.States {
		for _, it := range state {
			prod := augmented.Productions[it.Prod]
			if it.Dot != len(prod.RHS) {
				continue
			}
			if it.Prod == 0 { // Expr' -> Expr ., the augmented start production
				setAction(i, grammar.EndOfInput, Action{Type: Accept})
				continue
			}
			for a := range follow[prod.LHS] {
				setAction(i, a, Action{Type: Reduce, Prod: it.Prod})
			}
		}
	}

	// Goto, for non-terminals only.
	for i, trans := range dfa.Transitions {
		for sym, next := range trans {
			if !augmented.IsTerminal(sym) {
				t.gotoTable[i][sym] = next
			}
		}
	}

	if warnings, err := grammar.ValidateSLR1(g); err != nil {
		t.Conflicts = append(t.Conflicts, fmt.Sprintf("ictiobus SLR(1) validation failed: %s", err.Error()))
	} else {
		for _, w := range warnings {
			t.Conflicts = append(t.Conflicts, fmt.Sprintf("ictiobus: %s", w))
		}
	}

	return t
}

// String renders the ACTION/GOTO table for diagnostics, using rosed's table
// layout the same way internal/ictiobus/parse/slr.go renders its own table.
func (t *Table) String() string {
	terms := append([]string{}, t.Grammar.Terminals()...)
	terms = append(terms, grammar.EndOfInput)
	sort.Strings(terms)
	nonTerms := append([]string{}, t.Grammar.NonTerminals()...)
	sort.Strings(nonTerms)

	header := []string{"state"}
	header = append(header, terms...)
	header = append(header, "|")
	header = append(header, nonTerms...)

	data := [][]string{header}
	for i := range t.DFA.States {
		row := []string{fmt.Sprintf("%d", i)}
		for _, term := range terms {
			row = append(row, actionCell(t.Action(i, term)))
		}
		row = append(row, "|")
		for _, nt := range nonTerms {
			cell := ""
			if next, ok := t.Goto(i, nt); ok {
				cell = fmt.Sprintf("%d", next)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func actionCell(a Action) string {
	switch a.Type {
	case Shift:
		return fmt.Sprintf("s%d", a.State)
	case Reduce:
		return fmt.Sprintf("r%d", a.Prod)
	case Accept:
		return "acc"
	default:
		return ""
	}
}

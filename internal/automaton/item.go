// Package automaton builds the canonical LR(0) collection of item sets for a
// grammar — the DFA whose states the SLR(1) table constructor (package
// lrtable) turns into ACTION/GOTO entries. Grounded on the closure/goto
// construction in internal/ictiobus/automaton, trimmed to the single fixed
// grammar this repo parses.
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ashgrove/formulang/internal/grammar"
)

// Item is an LR(0) item: a production (by index into the augmented
// grammar's Productions) together with a dot position marking how much of
// the right-hand side has been matched so far.
type Item struct {
	Prod int
	Dot  int
}

func (it Item) String() string { return fmt.Sprintf("%d.%d", it.Prod, it.Dot) }

// atDot returns the grammar symbol immediately after the dot, or "" if the
// dot is at the end of the production.
func atDot(g grammar.Grammar, it Item) (string, bool) {
	rhs := g.Productions[it.Prod].RHS
	if it.Dot >= len(rhs) {
		return "", false
	}
	return rhs[it.Dot], true
}

// ItemSet is a set of items, represented as a sorted slice for determinism.
type ItemSet []Item

// key returns a canonical string identifying the set's contents, used to
// deduplicate states in the canonical collection.
func (s ItemSet) key() string {
	parts := make([]string, len(s))
	for i, it := range s {
		parts[i] = it.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func sortedItems(m map[Item]bool) ItemSet {
	out := make(ItemSet, 0, len(m))
	for it := range m {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Prod != out[j].Prod {
			return out[i].Prod < out[j].Prod
		}
		return out[i].Dot < out[j].Dot
	})
	return out
}

// closure computes the LR(0) closure of a seed set of items: repeatedly
// adding, for every item with the dot before some non-terminal B, the
// initial item of every production of B.
func closure(g grammar.Grammar, seed ItemSet) ItemSet {
	set := map[Item]bool{}
	for _, it := range seed {
		set[it] = true
	}

	changed := true
	for changed {
		changed = false
		for it := range set {
			sym, ok := atDot(g, it)
			if !ok || g.IsTerminal(sym) {
				continue
			}
			for pi, p := range g.Productions {
				if p.LHS != sym {
					continue
				}
				next := Item{Prod: pi, Dot: 0}
				if !set[next] {
					set[next] = true
					changed = true
				}
			}
		}
	}

	return sortedItems(set)
}

// gotoSet computes GOTO(I, X): advance the dot past X in every item of I
// that has X immediately after its dot, then take the closure.
func gotoSet(g grammar.Grammar, items ItemSet, sym string) ItemSet {
	moved := map[Item]bool{}
	for _, it := range items {
		atSym, ok := atDot(g, it)
		if !ok || atSym != sym {
			continue
		}
		moved[Item{Prod: it.Prod, Dot: it.Dot + 1}] = true
	}
	if len(moved) == 0 {
		return nil
	}
	return closure(g, sortedItems(moved))
}

// DFA is the canonical collection of LR(0) item sets and the GOTO function
// between them, numbered for direct use as ACTION/GOTO table row indices.
type DFA struct {
	States      []ItemSet
	Transitions []map[string]int // Transitions[state][symbol] = nextState
	Start       int
}

// Build constructs the canonical LR(0) collection for g's augmented grammar.
// g must already be augmented (see grammar.Grammar.Augmented).
func Build(g grammar.Grammar) DFA {
	start := closure(g, ItemSet{{Prod: 0, Dot: 0}})

	indexOf := map[string]int{}
	dfa := DFA{Start: 0}
	dfa.States = append(dfa.States, start)
	dfa.Transitions = append(dfa.Transitions, map[string]int{})
	indexOf[start.key()] = 0

	symbols := append(append([]string{}, g.Terminals()...), g.NonTerminals()...)

	queue := []int{0}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]

		for _, sym := range symbols {
			j := gotoSet(g, dfa.States[i], sym)
			if j == nil {
				continue
			}
			key := j.key()
			idx, exists := indexOf[key]
			if !exists {
				idx = len(dfa.States)
				indexOf[key] = idx
				dfa.States = append(dfa.States, j)
				dfa.Transitions = append(dfa.Transitions, map[string]int{})
				queue = append(queue, idx)
			}
			dfa.Transitions[i][sym] = idx
		}
	}

	return dfa
}

package grammar

// epsilon is the pseudo-terminal standing for "this symbol can derive the
// empty string", used only inside FIRST/FOLLOW computation.
const epsilon = ""

// StartSymbol is exported as a method too, for parity with how the teacher's
// ictiobus/grammar.Grammar exposes it, and because callers holding a built
// Grammar value (rather than the package constant) prefer a method.
func (g Grammar) Start() string { return StartSymbol }

// Augmented returns a copy of g with a fresh start production
// Expr' -> Expr prepended, as required by LR(0)/SLR(1) item-set
// construction (§4.2 "the sole remaining node... Accept is reachable only
// when the stack contains the start symbol").
func (g Grammar) Augmented() Grammar {
	augmented := Grammar{
		terminals: g.terminals,
		nonTerms:  append([]string{AugmentedStart}, g.nonTerms...),
	}
	augmented.Productions = make([]Production, 0, len(g.Productions)+1)
	augmented.Productions = append(augmented.Productions, Production{
		LHS: AugmentedStart, RHS: []string{StartSymbol}, Build: passthrough, comment: "Expr' -> Expr",
	})
	augmented.Productions = append(augmented.Productions, g.Productions...)
	return augmented
}

// First computes FIRST(X) for every grammar symbol X (terminal and
// non-terminal), returning a map from symbol to its FIRST set. The set for a
// terminal is always just {terminal}; epsilon, when derivable, is recorded
// under the key "".
func (g Grammar) First() map[string]map[string]bool {
	first := map[string]map[string]bool{}
	ensure := func(sym string) map[string]bool {
		if first[sym] == nil {
			first[sym] = map[string]bool{}
		}
		return first[sym]
	}

	for _, t := range g.terminals {
		ensure(t)[t] = true
	}
	ensure(EndOfInput)[EndOfInput] = true
	for _, nt := range g.nonTerms {
		ensure(nt)
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			lhsSet := ensure(p.LHS)

			if len(p.RHS) == 0 {
				if !lhsSet[epsilon] {
					lhsSet[epsilon] = true
					changed = true
				}
				continue
			}

			allNullable := true
			for _, sym := range p.RHS {
				symFirst := ensure(sym)
				for f := range symFirst {
					if f == epsilon {
						continue
					}
					if !lhsSet[f] {
						lhsSet[f] = true
						changed = true
					}
				}
				if !symFirst[epsilon] {
					allNullable = false
					break
				}
			}
			if allNullable {
				if !lhsSet[epsilon] {
					lhsSet[epsilon] = true
					changed = true
				}
			}
		}
	}

	return first
}

// firstOfSequence computes FIRST of a string of grammar symbols, using a
// precomputed per-symbol FIRST table.
func firstOfSequence(first map[string]map[string]bool, seq []string) map[string]bool {
	result := map[string]bool{}
	if len(seq) == 0 {
		result[epsilon] = true
		return result
	}

	for _, sym := range seq {
		symFirst := first[sym]
		nullable := false
		for f := range symFirst {
			if f == epsilon {
				nullable = true
				continue
			}
			result[f] = true
		}
		if !nullable {
			return result
		}
	}
	result[epsilon] = true
	return result
}

// Follow computes FOLLOW(A) for every non-terminal A, using the grammar's own
// (non-augmented) start symbol; $ is seeded into FOLLOW(StartSymbol).
func (g Grammar) Follow() map[string]map[string]bool {
	first := g.First()
	follow := map[string]map[string]bool{}
	for _, nt := range g.nonTerms {
		follow[nt] = map[string]bool{}
	}
	follow[StartSymbol][EndOfInput] = true

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			for i, sym := range p.RHS {
				if g.IsTerminal(sym) {
					continue
				}
				beta := p.RHS[i+1:]
				betaFirst := firstOfSequence(first, beta)

				for f := range betaFirst {
					if f == epsilon {
						continue
					}
					if !follow[sym][f] {
						follow[sym][f] = true
						changed = true
					}
				}
				if betaFirst[epsilon] {
					for f := range follow[p.LHS] {
						if !follow[sym][f] {
							follow[sym][f] = true
							changed = true
						}
					}
				}
			}
		}
	}

	return follow
}

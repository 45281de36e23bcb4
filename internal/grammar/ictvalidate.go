package grammar

import (
	ictgrammar "github.com/dekarrin/ictiobus/grammar"
	ictparse "github.com/dekarrin/ictiobus/parse"
	icttypes "github.com/dekarrin/ictiobus/types"
)

// toIctiobus rebuilds g as a github.com/dekarrin/ictiobus/grammar.Grammar,
// using exactly the construction calls (AddTerm, AddRule) that package's own
// grammar_test.go exercises. The augmented-grammar-only internals ictiobus
// needs (FIRST/FOLLOW, item-set closure, its own LR0Item encoding) stay
// inside that library; this package never reimplements them, only this
// translation.
func toIctiobus(g Grammar) ictgrammar.Grammar {
	ig := ictgrammar.Grammar{}
	for _, t := range g.terminals {
		ig.AddTerm(t, icttypes.MakeDefaultClass(t))
	}
	for _, p := range g.Productions {
		ig.AddRule(p.LHS, ictgrammar.Production(p.RHS))
	}
	return ig
}

// ValidateSLR1 hands this package's fixed grammar to
// github.com/dekarrin/ictiobus/parse.GenerateSimpleLRParser, the teacher's
// actual production SLR(1) table constructor (the one backing the live
// tunascript/ frontend), and returns whatever ambiguity warnings or error it
// reports. internal/lrtable calls this once at table-build time so its own
// ACTION/GOTO construction is checked against a second, independently
// published implementation of the same algorithm rather than trusted alone.
func ValidateSLR1(g Grammar) ([]string, error) {
	ig := toIctiobus(g)
	if err := ig.Validate(); err != nil {
		return nil, err
	}
	_, warnings, err := ictparse.GenerateSimpleLRParser(ig, true)
	return warnings, err
}

package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashgrove/formulang/internal/grammar"
)

func Test_Build_startStateIsClosureOfAugmentedStart(t *testing.T) {
	g := grammar.New().Augmented()
	dfa := Build(g)

	require.NotEmpty(t, dfa.States)
	start := dfa.States[dfa.Start]
	assert.Contains(t, start, Item{Prod: 0, Dot: 0})
}

func Test_Build_isDeterministicAcrossRuns(t *testing.T) {
	g := grammar.New().Augmented()
	dfa1 := Build(g)
	dfa2 := Build(g)

	assert.Equal(t, len(dfa1.States), len(dfa2.States))
	assert.Equal(t, dfa1.States[dfa1.Start].key(), dfa2.States[dfa2.Start].key())
}

func Test_Build_shiftOnNumberFromStartLeadsToReduceState(t *testing.T) {
	g := grammar.New().Augmented()
	dfa := Build(g)

	next, ok := dfa.Transitions[dfa.Start]["number"]
	require.True(t, ok)
	assert.NotEmpty(t, dfa.States[next])

	hasCompletedItem := false
	for _, it := range dfa.States[next] {
		if it.Dot == len(g.Productions[it.Prod].RHS) {
			hasCompletedItem = true
		}
	}
	assert.True(t, hasCompletedItem, "state after shifting a number should hold a completed (reduce) item")
}

func Test_Build_producesMoreThanOneState(t *testing.T) {
	g := grammar.New().Augmented()
	dfa := Build(g)
	assert.Greater(t, len(dfa.States), 1)
}

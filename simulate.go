package automaton

import (
	"github.com/bits-and-blooms/bitset"
)

// step returns the set of states reachable from ``live`` by reading
// ``symbol``. An empty result is a dead end, not an error.
func (a *Automaton) step(live *bitset.BitSet, symbol string, pos map[*State]uint) *bitset.BitSet {
	next := bitset.New(uint(len(a.states)))
	for i, ok := live.NextSet(0); ok; i, ok = live.NextSet(i + 1) {
		for to := range a.transitions[a.states[i]][symbol] {
			next.Set(pos[to])
		}
	}
	return next
}

// AcceptsSymbols reports whether the automaton accepts the word made of
// ``symbols``. All live states are tracked at once, so non-deterministic
// automata need no prior determinization.
func (a *Automaton) AcceptsSymbols(symbols []string) bool {
	pos := a.positions()
	live := a.bits(a.starts, pos)
	for _, symbol := range symbols {
		live = a.step(live, symbol, pos)
		if live.None() {
			return false
		}
	}
	return live.IntersectionCardinality(a.bits(a.finals, pos)) > 0
}

// AcceptsWord reports whether ``word`` is in the language of the automaton.
// Every rune of the word is read as one symbol.
func (a *Automaton) AcceptsWord(word string) bool {
	return a.AcceptsSymbols(splitWord(word))
}

// Trace returns the labels of the live states before the first symbol and
// after each symbol of ``word``.
func (a *Automaton) Trace(word string) [][]string {
	pos := a.positions()
	live := a.bits(a.starts, pos)
	res := [][]string{a.liveLabels(live)}
	for _, symbol := range splitWord(word) {
		live = a.step(live, symbol, pos)
		res = append(res, a.liveLabels(live))
	}
	return res
}

func (a *Automaton) liveLabels(live *bitset.BitSet) []string {
	res := make([]string, 0, live.Count())
	for i, ok := live.NextSet(0); ok; i, ok = live.NextSet(i + 1) {
		res = append(res, a.states[i].Label)
	}
	return res
}

func splitWord(word string) []string {
	res := make([]string, 0, len(word))
	for _, r := range word {
		res = append(res, string(r))
	}
	return res
}

// AcceptsWord is the function form of (*Automaton).AcceptsWord.
func AcceptsWord(a *Automaton, word string) bool {
	return a.AcceptsWord(word)
}

package automaton

import (
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// positions maps every state of ``a`` to its index, used to address bitsets.
func (a *Automaton) positions() map[*State]uint {
	res := make(map[*State]uint, len(a.states))
	for i, s := range a.states {
		res[s] = uint(i)
	}
	return res
}

// bits returns the set of positions of ``set``.
func (a *Automaton) bits(set stateSet, pos map[*State]uint) *bitset.BitSet {
	res := bitset.New(uint(len(a.states)))
	for s := range set {
		res.Set(pos[s])
	}
	return res
}

// subsetLabel is the canonical listing of the labels in ``subset``:
// "{1,3,t}".
func (a *Automaton) subsetLabel(subset *bitset.BitSet) string {
	names := make([]string, 0, subset.Count())
	for i, ok := subset.NextSet(0); ok; i, ok = subset.NextSet(i + 1) {
		names = append(names, a.states[i].Label)
	}
	sort.Strings(names)
	return "{" + strings.Join(names, ",") + "}"
}

// Determinize returns a deterministic, total automaton accepting L(a), built
// with the Rabin-Scott subset construction. Only subsets reachable from the
// initial states are materialized; the empty subset acts as the sink. States
// of the result are labelled "0", "1", ... in discovery order, so the initial
// state is always "0".
func Determinize(a *Automaton) *Automaton {
	res := New()
	for symbol := range a.alphabet {
		res.alphabet[symbol] = struct{}{}
	}
	symbols := a.Alphabet()
	pos := a.positions()
	finals := a.bits(a.finals, pos)

	seen := map[string]*State{}
	visit := func(subset *bitset.BitSet) (*State, bool) {
		key := subset.String()
		if s, ok := seen[key]; ok {
			return s, false
		}
		s := res.addState(a.subsetLabel(subset))
		seen[key] = s
		if subset.IntersectionCardinality(finals) > 0 {
			res.finals[s] = struct{}{}
		}
		return s, true
	}

	initial := a.bits(a.starts, pos)
	start, _ := visit(initial)
	res.starts[start] = struct{}{}

	queue := []*bitset.BitSet{initial}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		from := seen[current.String()]

		for _, symbol := range symbols {
			next := bitset.New(uint(len(a.states)))
			for i, ok := current.NextSet(0); ok; i, ok = current.NextSet(i + 1) {
				for to := range a.transitions[a.states[i]][symbol] {
					next.Set(pos[to])
				}
			}
			to, isNew := visit(next)
			if isNew {
				queue = append(queue, next)
			}
			res.link(from, symbol, to)
		}
	}

	res.Rename()
	return res
}

// Minimize returns the minimal deterministic automaton accepting L(a), using
// Brzozowski's double reversal: determinize, reverse, determinize, reverse,
// determinize.
func Minimize(a *Automaton) *Automaton {
	return Determinize(Reverse(Determinize(Reverse(Determinize(a)))))
}

// Determinize is the method form of the package level Determinize.
func (a *Automaton) Determinize() *Automaton {
	return Determinize(a)
}

// Minimize is the method form of the package level Minimize.
func (a *Automaton) Minimize() *Automaton {
	return Minimize(a)
}

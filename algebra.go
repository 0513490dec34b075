package automaton

// The constructions below follow Kleene's theorem literally. Every function
// works on copies; the operands are never modified.

// merge adds a state to ``dst`` for every state of ``src`` and returns the
// mapping between them. Labels of ``src`` that are already used in ``dst`` are
// replaced by fresh numeric labels, transitions are carried over by identity.
func merge(dst, src *Automaton) map[*State]*State {
	mapping := make(map[*State]*State, len(src.states))
	for _, s := range src.states {
		mapping[s] = dst.addState(s.Label)
	}
	for from, bySymbol := range src.transitions {
		for symbol, targets := range bySymbol {
			for to := range targets {
				dst.link(mapping[from], symbol, mapping[to])
			}
		}
	}
	for symbol := range src.alphabet {
		dst.alphabet[symbol] = struct{}{}
	}
	return mapping
}

// Union returns an automaton accepting L(a) ∪ L(b).
func Union(a, b *Automaton) *Automaton {
	res := a.Copy()
	other := b.Copy()
	mapping := merge(res, other)
	for s := range other.finals {
		res.finals[mapping[s]] = struct{}{}
	}
	for s := range other.starts {
		res.starts[mapping[s]] = struct{}{}
	}
	return res
}

// Concat returns an automaton accepting L(a)·L(b).
//
// Every final state of ``a`` receives a copy of the transitions leaving the
// start states of ``b``. The finals of ``a`` stay final only when ``b``
// accepts the empty word.
func Concat(a, b *Automaton) *Automaton {
	res := a.Copy()
	other := b.Copy()

	keepFinals := false
	for s := range other.starts {
		if other.IsFinal(s) {
			keepFinals = true
			break
		}
	}

	finals := res.Finals()
	mapping := merge(res, other)
	for _, final := range finals {
		for _, start := range other.Starts() {
			for symbol, targets := range other.transitions[start] {
				for to := range targets {
					res.link(final, symbol, mapping[to])
				}
			}
		}
	}

	if !keepFinals {
		res.finals = stateSet{}
	}
	for s := range other.finals {
		res.finals[mapping[s]] = struct{}{}
	}
	return res
}

type transition struct {
	from   *State
	symbol string
	to     *State
}

// Star returns an automaton accepting L(a)*.
//
// Every final state receives a copy of the transitions leaving the start
// states, and a new state that is both initial and final accepts the empty
// word.
func Star(a *Automaton) *Automaton {
	res := a.Copy()

	var loops []transition
	for _, final := range res.Finals() {
		for _, start := range res.Starts() {
			for symbol, targets := range res.transitions[start] {
				for to := range targets {
					loops = append(loops, transition{final, symbol, to})
				}
			}
		}
	}
	for _, t := range loops {
		res.link(t.from, t.symbol, t.to)
	}

	epsilon := res.addState("")
	res.starts[epsilon] = struct{}{}
	res.finals[epsilon] = struct{}{}
	return res
}

// Complement returns an automaton accepting every word over the alphabet of
// ``a`` that ``a`` rejects. The operand must be total and deterministic.
func Complement(a *Automaton) (*Automaton, error) {
	if !a.IsTotal() {
		return nil, ErrNotTotal
	}
	if !a.IsDeterministic() {
		return nil, ErrNotDeterministic
	}
	res := a.Copy()
	old := res.finals
	res.finals = stateSet{}
	for _, s := range res.states {
		if _, ok := old[s]; !ok {
			res.finals[s] = struct{}{}
		}
	}
	return res, nil
}

func sameAlphabet(a, b *Automaton) bool {
	if len(a.alphabet) != len(b.alphabet) {
		return false
	}
	for symbol := range a.alphabet {
		if _, ok := b.alphabet[symbol]; !ok {
			return false
		}
	}
	return true
}

// Intersection returns the product automaton accepting L(a) ∩ L(b). Both
// operands must be deterministic and share the same alphabet.
func Intersection(a, b *Automaton) (*Automaton, error) {
	if !sameAlphabet(a, b) {
		return nil, ErrAlphabetMismatch
	}
	if !a.IsDeterministic() || !b.IsDeterministic() {
		return nil, ErrNotDeterministic
	}

	res := New()
	for symbol := range a.alphabet {
		res.alphabet[symbol] = struct{}{}
	}

	type pair struct{ p, q *State }
	pairs := make(map[pair]*State, len(a.states)*len(b.states))
	for _, p := range a.states {
		for _, q := range b.states {
			pairs[pair{p, q}] = res.addState(p.Label + "×" + q.Label)
		}
	}

	for _, p := range a.states {
		for _, q := range b.states {
			from := pairs[pair{p, q}]
			for symbol, targetsP := range a.transitions[p] {
				targetsQ := b.transitions[q][symbol]
				for tp := range targetsP {
					for tq := range targetsQ {
						res.link(from, symbol, pairs[pair{tp, tq}])
					}
				}
			}
			if a.IsStart(p) && b.IsStart(q) {
				res.starts[from] = struct{}{}
			}
			if a.IsFinal(p) && b.IsFinal(q) {
				res.finals[from] = struct{}{}
			}
		}
	}

	res.Rename()
	return res, nil
}

// Reverse returns an automaton accepting the reversal of every word of L(a):
// transitions are flipped and initial and final states swap roles.
func Reverse(a *Automaton) *Automaton {
	res := New()
	mapping := make(map[*State]*State, len(a.states))
	for _, s := range a.states {
		mapping[s] = res.addState(s.Label)
	}
	for symbol := range a.alphabet {
		res.alphabet[symbol] = struct{}{}
	}
	for s := range a.starts {
		res.finals[mapping[s]] = struct{}{}
	}
	for s := range a.finals {
		res.starts[mapping[s]] = struct{}{}
	}
	for from, bySymbol := range a.transitions {
		for symbol, targets := range bySymbol {
			for to := range targets {
				res.link(mapping[to], symbol, mapping[from])
			}
		}
	}
	return res
}

// Union is the method form of the package level Union.
func (a *Automaton) Union(b *Automaton) *Automaton {
	return Union(a, b)
}

// Concat is the method form of the package level Concat.
func (a *Automaton) Concat(b *Automaton) *Automaton {
	return Concat(a, b)
}

// Star is the method form of the package level Star.
func (a *Automaton) Star() *Automaton {
	return Star(a)
}

// Complement is the method form of the package level Complement.
func (a *Automaton) Complement() (*Automaton, error) {
	return Complement(a)
}

// Intersection is the method form of the package level Intersection.
func (a *Automaton) Intersection(b *Automaton) (*Automaton, error) {
	return Intersection(a, b)
}

// Reverse is the method form of the package level Reverse.
func (a *Automaton) Reverse() *Automaton {
	return Reverse(a)
}

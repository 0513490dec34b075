package automaton

import (
	"sort"
	"strconv"
	"strings"
)

// State is a node of an Automaton. States are compared by identity; the label
// is only used for lookup and display and may be rewritten by Rename.
type State struct {
	Label string
}

func (s *State) String() string {
	return s.Label
}

type stateSet = map[*State]struct{}

// Automaton is a (possibly non-deterministic) finite automaton over an
// alphabet of opaque string symbols.
//
// An Automaton is not safe for concurrent mutation. The algebra functions never
// modify their operands, so independent automata may be used from different
// goroutines.
type Automaton struct {
	alphabet    map[string]struct{}
	states      []*State
	index       map[string]int
	starts      stateSet
	finals      stateSet
	transitions map[*State]map[string]stateSet
}

// New creates an empty automaton (no states, empty language).
func New() *Automaton {
	return &Automaton{
		alphabet:    map[string]struct{}{},
		states:      []*State{},
		index:       map[string]int{},
		starts:      stateSet{},
		finals:      stateSet{},
		transitions: map[*State]map[string]stateSet{},
	}
}

// ByLetter creates an automaton whose language is exactly {``symbol``}.
func ByLetter(symbol string) *Automaton {
	a := New()
	a.AddState("")
	a.AddState("")
	a.SetStart("0")
	a.MakeStateFinal("1")
	a.AddTransition("0", symbol, "1")
	return a
}

// SingletonEpsilon creates an automaton whose language contains only the empty
// word.
func SingletonEpsilon() *Automaton {
	a := New()
	a.AddState("")
	a.SetStart("0")
	a.MakeStateFinal("0")
	return a
}

// freshLabel returns the first numeric label, counting up from the number of
// states, that is not in use.
func (a *Automaton) freshLabel() string {
	for n := len(a.states); ; n++ {
		label := strconv.Itoa(n)
		if _, taken := a.index[label]; !taken {
			return label
		}
	}
}

// addState appends a state and returns it. An empty or already used ``label``
// is replaced with a fresh numeric one.
func (a *Automaton) addState(label string) *State {
	if _, taken := a.index[label]; label == "" || taken {
		label = a.freshLabel()
	}
	s := &State{Label: label}
	a.states = append(a.states, s)
	a.index[label] = len(a.states) - 1
	return s
}

// AddState adds a state labelled ``label``. If the label is empty or already
// used the state gets a fresh numeric label instead, so AddState never fails.
func (a *Automaton) AddState(label string) {
	a.addState(label)
}

// State returns the state labelled ``label``, or nil.
func (a *Automaton) State(label string) *State {
	i, ok := a.index[label]
	if !ok {
		return nil
	}
	return a.states[i]
}

// owns reports whether ``s`` is one of this automaton's states.
func (a *Automaton) owns(s *State) bool {
	if s == nil {
		return false
	}
	i, ok := a.index[s.Label]
	return ok && a.states[i] == s
}

func (a *Automaton) position(s *State) int {
	return a.index[s.Label]
}

// RemoveState removes the state labelled ``label`` together with every
// transition into or out of it. Returns false if there is no such state.
func (a *Automaton) RemoveState(label string) bool {
	i, ok := a.index[label]
	if !ok {
		return false
	}
	s := a.states[i]

	delete(a.starts, s)
	delete(a.finals, s)
	delete(a.transitions, s)
	for _, bySymbol := range a.transitions {
		for _, targets := range bySymbol {
			delete(targets, s)
		}
	}

	a.states = append(a.states[:i], a.states[i+1:]...)
	delete(a.index, label)
	for j := i; j < len(a.states); j++ {
		a.index[a.states[j].Label] = j
	}
	return true
}

// MakeStateFinal adds the state to the final states. Returns false if the
// label is unknown or the state already is final.
func (a *Automaton) MakeStateFinal(label string) bool {
	s := a.State(label)
	if s == nil {
		return false
	}
	if _, ok := a.finals[s]; ok {
		return false
	}
	a.finals[s] = struct{}{}
	return true
}

// MakeStateUnfinal removes the state from the final states. Returns false if
// the label is unknown or the state is not final.
func (a *Automaton) MakeStateUnfinal(label string) bool {
	s := a.State(label)
	if s == nil {
		return false
	}
	if _, ok := a.finals[s]; !ok {
		return false
	}
	delete(a.finals, s)
	return true
}

// SetStart marks the state as initial. Returns false if the label is unknown
// or the state already is initial.
func (a *Automaton) SetStart(label string) bool {
	s := a.State(label)
	if s == nil {
		return false
	}
	if _, ok := a.starts[s]; ok {
		return false
	}
	a.starts[s] = struct{}{}
	return true
}

// RemoveStart unmarks the state as initial. Returns false if the label is
// unknown or the state is not initial.
func (a *Automaton) RemoveStart(label string) bool {
	s := a.State(label)
	if s == nil {
		return false
	}
	if _, ok := a.starts[s]; !ok {
		return false
	}
	delete(a.starts, s)
	return true
}

// link adds the transition (from, symbol, to) between owned states and
// reports whether it was new.
func (a *Automaton) link(from *State, symbol string, to *State) bool {
	a.alphabet[symbol] = struct{}{}
	bySymbol := a.transitions[from]
	if bySymbol == nil {
		bySymbol = map[string]stateSet{}
		a.transitions[from] = bySymbol
	}
	targets := bySymbol[symbol]
	if targets == nil {
		targets = stateSet{}
		bySymbol[symbol] = targets
	}
	if _, ok := targets[to]; ok {
		return false
	}
	targets[to] = struct{}{}
	return true
}

// AddTransition adds the transition ``from`` --``symbol``--> ``to``. Returns
// false if either label is unknown or the transition already exists.
func (a *Automaton) AddTransition(from, symbol, to string) bool {
	src, dst := a.State(from), a.State(to)
	if src == nil || dst == nil {
		return false
	}
	return a.link(src, symbol, dst)
}

// AddTransitions adds a transition from ``from`` to each of ``to`` on
// ``symbol``. It stops and returns false at the first transition that could
// not be added.
func (a *Automaton) AddTransitions(from, symbol string, to []string) bool {
	for _, label := range to {
		if !a.AddTransition(from, symbol, label) {
			return false
		}
	}
	return true
}

// RemoveTransition removes an existing transition. The symbol stays in the
// alphabet. Returns false if the transition does not exist.
func (a *Automaton) RemoveTransition(from, symbol, to string) bool {
	src, dst := a.State(from), a.State(to)
	if src == nil || dst == nil {
		return false
	}
	targets := a.transitions[src][symbol]
	if _, ok := targets[dst]; !ok {
		return false
	}
	delete(targets, dst)
	if len(targets) == 0 {
		delete(a.transitions[src], symbol)
	}
	return true
}

// StateTransitions returns the outgoing transitions of ``s`` grouped by
// symbol, targets in state order. Unknown states have no transitions.
func (a *Automaton) StateTransitions(s *State) map[string][]*State {
	res := map[string][]*State{}
	if !a.owns(s) {
		return res
	}
	for symbol, targets := range a.transitions[s] {
		if len(targets) > 0 {
			res[symbol] = a.ordered(targets)
		}
	}
	return res
}

// ordered returns the members of ``set`` in state order.
func (a *Automaton) ordered(set stateSet) []*State {
	res := make([]*State, 0, len(set))
	for s := range set {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool {
		return a.position(res[i]) < a.position(res[j])
	})
	return res
}

// States returns the states in insertion order.
func (a *Automaton) States() []*State {
	res := make([]*State, len(a.states))
	copy(res, a.states)
	return res
}

// Starts returns the initial states in state order.
func (a *Automaton) Starts() []*State {
	return a.ordered(a.starts)
}

// Finals returns the final states in state order.
func (a *Automaton) Finals() []*State {
	return a.ordered(a.finals)
}

// IsStart reports whether ``s`` is an initial state.
func (a *Automaton) IsStart(s *State) bool {
	_, ok := a.starts[s]
	return ok
}

// IsFinal reports whether ``s`` is a final state.
func (a *Automaton) IsFinal(s *State) bool {
	_, ok := a.finals[s]
	return ok
}

// Alphabet returns every symbol ever used by a transition, sorted.
func (a *Automaton) Alphabet() []string {
	res := make([]string, 0, len(a.alphabet))
	for symbol := range a.alphabet {
		res = append(res, symbol)
	}
	sort.Strings(res)
	return res
}

// Len returns the number of states.
func (a *Automaton) Len() int {
	return len(a.states)
}

// Copy returns a deep copy that shares no states with ``a``.
func (a *Automaton) Copy() *Automaton {
	res := New()
	mapping := make(map[*State]*State, len(a.states))
	for _, s := range a.states {
		mapping[s] = res.addState(s.Label)
	}
	for symbol := range a.alphabet {
		res.alphabet[symbol] = struct{}{}
	}
	for s := range a.starts {
		res.starts[mapping[s]] = struct{}{}
	}
	for s := range a.finals {
		res.finals[mapping[s]] = struct{}{}
	}
	for from, bySymbol := range a.transitions {
		for symbol, targets := range bySymbol {
			for to := range targets {
				res.link(mapping[from], symbol, mapping[to])
			}
		}
	}
	return res
}

// Rename relabels the states "0", "1", ... in state order.
func (a *Automaton) Rename() {
	a.index = make(map[string]int, len(a.states))
	for i, s := range a.states {
		s.Label = strconv.Itoa(i)
		a.index[s.Label] = i
	}
}

// IsDeterministic reports whether no (state, symbol) pair has more than one
// target.
func (a *Automaton) IsDeterministic() bool {
	for _, s := range a.states {
		for _, targets := range a.transitions[s] {
			if len(targets) > 1 {
				return false
			}
		}
	}
	return true
}

// IsTotal reports whether every (state, symbol) pair has at least one target.
func (a *Automaton) IsTotal() bool {
	for _, s := range a.states {
		for symbol := range a.alphabet {
			if len(a.transitions[s][symbol]) == 0 {
				return false
			}
		}
	}
	return true
}

// MakeTotal adds a sink state (labelled "t" when available) and routes every
// missing (state, symbol) pair into it. A total automaton is left untouched.
func (a *Automaton) MakeTotal() {
	if a.IsTotal() {
		return
	}
	label := "t"
	if _, taken := a.index[label]; taken {
		label = ""
	}
	sink := a.addState(label)
	symbols := a.Alphabet()
	for _, s := range a.states {
		for _, symbol := range symbols {
			if len(a.transitions[s][symbol]) == 0 {
				a.link(s, symbol, sink)
			}
		}
	}
}

// Total returns a totalized copy of ``a``.
func (a *Automaton) Total() *Automaton {
	res := a.Copy()
	res.MakeTotal()
	return res
}

func labels(states []*State) []string {
	res := make([]string, len(states))
	for i, s := range states {
		res[i] = s.Label
	}
	return res
}

// String returns a human readable description of the automaton.
func (a *Automaton) String() string {
	var sb strings.Builder
	sb.WriteString("States: " + strings.Join(labels(a.states), " ") + "\n")
	sb.WriteString("Starts: " + strings.Join(labels(a.Starts()), " ") + "\n")
	sb.WriteString("Transitions:\n")
	for _, s := range a.states {
		bySymbol := a.StateTransitions(s)
		for _, symbol := range a.Alphabet() {
			if targets, ok := bySymbol[symbol]; ok {
				sb.WriteString("  " + s.Label + " -" + symbol + "-> " + strings.Join(labels(targets), " ") + "\n")
			}
		}
	}
	sb.WriteString("Finals: " + strings.Join(labels(a.Finals()), " ") + "\n")
	return sb.String()
}

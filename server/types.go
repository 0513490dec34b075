package server

import (
	"github.com/wolever/automaton"
)

// Transition is one (from, symbol, to) triple of a Summary.
type Transition struct {
	From   string `json:"from"`
	Symbol string `json:"symbol"`
	To     string `json:"to"`
}

// Summary is the JSON description of an automaton.
type Summary struct {
	Name          string       `json:"name"`
	States        []string     `json:"states"`
	Starts        []string     `json:"starts"`
	Finals        []string     `json:"finals"`
	Alphabet      []string     `json:"alphabet"`
	Transitions   []Transition `json:"transitions"`
	Deterministic bool         `json:"deterministic"`
	Total         bool         `json:"total"`
}

// Summarize describes ``a`` stored under ``name``.
func Summarize(name string, a *automaton.Automaton) Summary {
	labels := func(states []*automaton.State) []string {
		res := make([]string, len(states))
		for i, s := range states {
			res[i] = s.Label
		}
		return res
	}

	transitions := []Transition{}
	alphabet := a.Alphabet()
	for _, s := range a.States() {
		bySymbol := a.StateTransitions(s)
		for _, symbol := range alphabet {
			for _, to := range bySymbol[symbol] {
				transitions = append(transitions, Transition{From: s.Label, Symbol: symbol, To: to.Label})
			}
		}
	}

	return Summary{
		Name:          name,
		States:        labels(a.States()),
		Starts:        labels(a.Starts()),
		Finals:        labels(a.Finals()),
		Alphabet:      alphabet,
		Transitions:   transitions,
		Deterministic: a.IsDeterministic(),
		Total:         a.IsTotal(),
	}
}

// ListResponse is the body of GET /automata.
type ListResponse struct {
	Automata []string `json:"automata"`
}

// CreateRequest is the body of POST /automata.
type CreateRequest struct {
	Name  string `json:"name"`
	Regex string `json:"regex"`
}

// AcceptsRequest is the body of POST /automata/{name}/accepts.
type AcceptsRequest struct {
	Word  string `json:"word"`
	Trace bool   `json:"trace,omitempty"`
}

// AcceptsResponse reports the verdict and, when asked for, the live states
// after each symbol.
type AcceptsResponse struct {
	Name     string     `json:"name"`
	Word     string     `json:"word"`
	Accepted bool       `json:"accepted"`
	Trace    [][]string `json:"trace,omitempty"`
}

// DeriveRequest is the body of POST /automata/{name}/ops/{op}.
type DeriveRequest struct {
	Target string `json:"target,omitempty"`
	Other  string `json:"other,omitempty"`
}

// RegexResponse is the body of GET /automata/{name}/regex.
type RegexResponse struct {
	Name  string `json:"name"`
	Regex string `json:"regex"`
}

// OperationInfo describes an operation of GET /operations.
type OperationInfo struct {
	Name  string `json:"name"`
	Arity int    `json:"arity"`
	Doc   string `json:"doc"`
}

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Error string `json:"error"`
}

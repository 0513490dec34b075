package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/wolever/automaton"
)

// Operation is an automaton construction that can be run by name.
type Operation struct {
	Name  string
	Arity int
	Doc   string
	apply func(operands []*automaton.Automaton) (*automaton.Automaton, error)
}

func unary(fn func(a *automaton.Automaton) *automaton.Automaton) func([]*automaton.Automaton) (*automaton.Automaton, error) {
	return func(operands []*automaton.Automaton) (*automaton.Automaton, error) {
		return fn(operands[0]), nil
	}
}

func binary(fn func(a, b *automaton.Automaton) *automaton.Automaton) func([]*automaton.Automaton) (*automaton.Automaton, error) {
	return func(operands []*automaton.Automaton) (*automaton.Automaton, error) {
		return fn(operands[0], operands[1]), nil
	}
}

var operations = map[string]Operation{
	"union": {
		Name: "union", Arity: 2, Doc: "words accepted by either automaton",
		apply: binary(automaton.Union),
	},
	"concat": {
		Name: "concat", Arity: 2, Doc: "a word of the first followed by a word of the second",
		apply: binary(automaton.Concat),
	},
	"intersection": {
		Name: "intersection", Arity: 2, Doc: "words accepted by both deterministic automata",
		apply: func(operands []*automaton.Automaton) (*automaton.Automaton, error) {
			return automaton.Intersection(operands[0], operands[1])
		},
	},
	"star": {
		Name: "star", Arity: 1, Doc: "Kleene star",
		apply: unary(automaton.Star),
	},
	"complement": {
		Name: "complement", Arity: 1, Doc: "words over the alphabet the total deterministic automaton rejects",
		apply: func(operands []*automaton.Automaton) (*automaton.Automaton, error) {
			return automaton.Complement(operands[0])
		},
	},
	"total": {
		Name: "total", Arity: 1, Doc: "adds a sink state for every missing transition",
		apply: unary((*automaton.Automaton).Total),
	},
	"reverse": {
		Name: "reverse", Arity: 1, Doc: "mirror image of every accepted word",
		apply: unary(automaton.Reverse),
	},
	"determinize": {
		Name: "determinize", Arity: 1, Doc: "subset construction",
		apply: unary(automaton.Determinize),
	},
	"minimize": {
		Name: "minimize", Arity: 1, Doc: "minimal deterministic automaton",
		apply: unary(automaton.Minimize),
	},
}

// Operations returns the operations known to Derive, sorted by name.
func Operations() []Operation {
	res := make([]Operation, 0, len(operations))
	for _, op := range operations {
		res = append(res, op)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name < res[j].Name
	})
	return res
}

// LookupOperation returns the operation called ``name``.
func LookupOperation(name string) (Operation, bool) {
	op, ok := operations[name]
	return op, ok
}

// Derive runs the operation ``opName`` on the automata stored under
// ``operands`` and stores the result under ``target``. The target may be one
// of the operands. On failure nothing is stored.
func (r *Registry) Derive(ctx context.Context, opName, target string, operands ...string) (*automaton.Automaton, error) {
	op, ok := operations[opName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, opName)
	}
	if len(operands) != op.Arity {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, op.Name, op.Arity, len(operands))
	}
	if err := checkName(target); err != nil {
		return nil, err
	}

	inputs := make([]*automaton.Automaton, len(operands))
	for i, name := range operands {
		a, err := r.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		inputs[i] = a
	}

	res, err := op.apply(inputs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.Name, err)
	}
	if err := r.Put(ctx, target, res); err != nil {
		return nil, err
	}
	return res, nil
}

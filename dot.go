package automaton

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Edge groups every symbol labelling a transition from one state to another,
// so a renderer can draw a single labelled arrow per ordered pair of states.
type Edge struct {
	From    *State
	To      *State
	Symbols []string
}

// Label returns the symbols of the edge joined with ", ".
func (e Edge) Label() string {
	return strings.Join(e.Symbols, ", ")
}

// Edges returns one Edge per ordered pair of states connected by at least one
// transition, sorted by source then target, symbols sorted.
func Edges(a *Automaton) []Edge {
	res := []Edge{}
	symbols := a.Alphabet()
	for _, from := range a.states {
		bySymbol := a.transitions[from]
		byTarget := map[*State][]string{}
		for _, symbol := range symbols {
			for to := range bySymbol[symbol] {
				byTarget[to] = append(byTarget[to], symbol)
			}
		}
		for _, to := range a.states {
			if syms, ok := byTarget[to]; ok {
				res = append(res, Edge{From: from, To: to, Symbols: syms})
			}
		}
	}
	return res
}

// ToDot generates a graphviz dot file from an automaton. Initial states get an
// incoming arrow from an invisible point, final states are drawn with two
// circles.
func ToDot(a *Automaton) string {
	res := make([]string, 0, len(a.states)*2+4)

	res = append(res, "\trankdir = LR;")
	res = append(res, "\tnode [shape=circle];")

	for i, s := range a.states {
		if a.IsFinal(s) {
			res = append(res, fmt.Sprintf("\t%q [shape=doublecircle];", s.Label))
		} else {
			res = append(res, fmt.Sprintf("\t%q;", s.Label))
		}
		if a.IsStart(s) {
			marker := fmt.Sprintf("__start%d", i)
			res = append(res, fmt.Sprintf("\t%q [shape=point];", marker))
			res = append(res, fmt.Sprintf("\t%q -> %q;", marker, s.Label))
		}
	}

	for _, edge := range Edges(a) {
		res = append(res, fmt.Sprintf(
			"\t%q -> %q [label=%q];",
			edge.From.Label,
			edge.To.Label,
			edge.Label(),
		))
	}

	return "digraph g {\n" + strings.Join(res, "\n") + "\n}\n"
}

// WriteSVG uses graphviz' `dot` command to render ``a`` as SVG into
// ``output``, returning `nil` or `error`.
func WriteSVG(a *Automaton, output io.Writer) error {
	dotProc := exec.Command("dot", "-Tsvg")
	dotProc.Stdin = strings.NewReader(ToDot(a))
	dotProc.Stdout = output
	return dotProc.Run()
}

// ToMermaid produces a Mermaid flowchart of the automaton:
// - State: ((Circle))
// - Final state: (((Double circle)))
// - Initial state: an arrow from a hidden start node
func ToMermaid(a *Automaton) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	ids := make(map[*State]string, len(a.states))
	for i, s := range a.states {
		ids[s] = fmt.Sprintf("s%d", i)

		opener, closer := "((", "))"
		if a.IsFinal(s) {
			opener, closer = "(((", ")))"
		}
		label := strings.ReplaceAll(s.Label, "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", ids[s], opener, label, closer))

		if a.IsStart(s) {
			sb.WriteString(fmt.Sprintf("    start%d[ ] --> %s\n", i, ids[s]))
			sb.WriteString(fmt.Sprintf("    style start%d fill:none,stroke:none\n", i))
		}
	}

	for _, edge := range Edges(a) {
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", ids[edge.From], edge.Label(), ids[edge.To]))
	}
	return sb.String()
}

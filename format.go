package automaton

import (
	"bufio"
	"io"
	"strings"
)

// Format returns the line oriented text form of ``a``:
//
//	<state labels>
//	<start labels>
//	<from> <symbol> <to> <to> ...   one line per (state, symbol)
//	f <final labels>
//
// For example a single "a" transition from 0 to 1 is "0 1\n0\n0 a 1\nf 1\n".
func Format(a *Automaton) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(labels(a.states), " ") + "\n")
	sb.WriteString(strings.Join(labels(a.Starts()), " ") + "\n")
	symbols := a.Alphabet()
	for _, s := range a.states {
		for _, symbol := range symbols {
			targets := a.transitions[s][symbol]
			if len(targets) == 0 {
				continue
			}
			sb.WriteString(s.Label + " " + symbol + " " + strings.Join(labels(a.ordered(targets)), " ") + "\n")
		}
	}
	sb.WriteString(strings.Join(append([]string{"f"}, labels(a.Finals())...), " ") + "\n")
	return sb.String()
}

// WriteTo writes the text form of the automaton to ``w``.
func (a *Automaton) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, Format(a))
	return int64(n), err
}

// Parse reads an automaton in the text form produced by Format. Labels are
// taken as they are, so formatting and parsing again reproduces the same
// automaton.
func Parse(r io.Reader) (*Automaton, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	last := len(lines) - 1
	for last >= 0 && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if last < 2 {
		return nil, &FormatError{Line: len(lines), Reason: "expected states, starts and finals lines"}
	}
	finals := strings.Fields(lines[last])
	if len(finals) == 0 || finals[0] != "f" {
		return nil, &FormatError{Line: last + 1, Reason: `final states line must start with "f"`}
	}

	a := New()
	for _, label := range strings.Fields(lines[0]) {
		if a.State(label) != nil {
			return nil, &FormatError{Line: 1, Reason: "duplicate state " + label}
		}
		a.AddState(label)
	}
	for _, label := range strings.Fields(lines[1]) {
		if a.State(label) == nil {
			return nil, &FormatError{Line: 2, Reason: "unknown start state " + label}
		}
		a.SetStart(label)
	}
	for i := 2; i < last; i++ {
		fields := strings.Fields(lines[i])
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 3 {
			return nil, &FormatError{Line: i + 1, Reason: "transition needs a source, a symbol and targets"}
		}
		from, symbol := fields[0], fields[1]
		for _, to := range fields[2:] {
			if a.State(from) == nil || a.State(to) == nil {
				return nil, &FormatError{Line: i + 1, Reason: "transition refers to an unknown state"}
			}
			a.AddTransition(from, symbol, to)
		}
	}
	for _, label := range finals[1:] {
		if a.State(label) == nil {
			return nil, &FormatError{Line: last + 1, Reason: "unknown final state " + label}
		}
		a.MakeStateFinal(label)
	}
	return a, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Automaton, error) {
	return Parse(strings.NewReader(s))
}

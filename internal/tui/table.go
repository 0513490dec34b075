package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/wolever/automaton"
)

// stateMark prefixes initial states with "->" and final states with "*".
func stateMark(a *automaton.Automaton, s *automaton.State) string {
	mark := ""
	if a.IsStart(s) {
		mark += "->"
	}
	if a.IsFinal(s) {
		mark += "*"
	}
	return mark + s.Label
}

// transitionRows returns one row per state: the marked label followed by the
// targets of each alphabet symbol, "-" when there are none.
func transitionRows(a *automaton.Automaton) [][]string {
	alphabet := a.Alphabet()
	rows := make([][]string, 0, a.Len())
	for _, s := range a.States() {
		row := []string{stateMark(a, s)}
		delta := a.StateTransitions(s)
		for _, symbol := range alphabet {
			targets := delta[symbol]
			if len(targets) == 0 {
				row = append(row, "-")
				continue
			}
			labels := make([]string, len(targets))
			for i, t := range targets {
				labels[i] = t.Label
			}
			row = append(row, strings.Join(labels, ","))
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteTable writes the transition table of ``a``.
func WriteTable(w io.Writer, a *automaton.Automaton) {
	table := tablewriter.NewWriter(w)
	table.Header(append([]string{"State"}, a.Alphabet()...))
	for _, row := range transitionRows(a) {
		table.Append(row)
	}
	table.Render()
}

// Describe returns a markdown summary of ``a``, meant for NewRenderer.
func Describe(name string, a *automaton.Automaton) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", name)
	fmt.Fprintf(&sb, "- **States:** %d\n", a.Len())
	fmt.Fprintf(&sb, "- **Alphabet:** %s\n", strings.Join(a.Alphabet(), " "))
	fmt.Fprintf(&sb, "- **Deterministic:** %t\n", a.IsDeterministic())
	fmt.Fprintf(&sb, "- **Total:** %t\n", a.IsTotal())
	if regex, err := automaton.ToRegex(a); err == nil {
		fmt.Fprintf(&sb, "- **Regex:** `%s`\n", regex)
	}

	alphabet := a.Alphabet()
	if len(alphabet) == 0 || a.Len() == 0 {
		return sb.String()
	}
	sb.WriteString("\n| State | " + strings.Join(alphabet, " | ") + " |\n")
	sb.WriteString("|---" + strings.Repeat("|---", len(alphabet)) + "|\n")
	for _, row := range transitionRows(a) {
		row[0] = strings.ReplaceAll(row[0], "*", `\*`)
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return sb.String()
}

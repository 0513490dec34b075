package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the shell greeting.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	title := termenv.String("automaton shell").Foreground(p.Color("#818cf8")).Bold()
	ver := termenv.String("v" + version).Foreground(p.Color("#c084fc"))
	hint := termenv.String("type 'help' for commands, 'exit' to leave").Faint()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", title, ver)
	fmt.Fprintf(w, "  %s\n", hint)
	fmt.Fprintln(w)
}

// Verdict colors the result of running ``word``.
func Verdict(accepted bool, word string) string {
	p := termenv.ColorProfile()
	if accepted {
		return termenv.String(fmt.Sprintf("accepted %q", word)).Foreground(p.Color("#22c55e")).String()
	}
	return termenv.String(fmt.Sprintf("rejected %q", word)).Foreground(p.Color("#ef4444")).String()
}

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/wolever/automaton"
	"github.com/wolever/automaton/internal/tui"
)

// printAutomaton writes ``a`` in one of the output formats shared by the
// commands.
func printAutomaton(w io.Writer, name string, a *automaton.Automaton, format string) error {
	switch format {
	case "text":
		_, err := a.WriteTo(w)
		return err
	case "dot":
		_, err := io.WriteString(w, automaton.ToDot(a))
		return err
	case "mermaid":
		_, err := io.WriteString(w, automaton.ToMermaid(a))
		return err
	case "svg":
		return automaton.WriteSVG(a, w)
	case "table":
		tui.WriteTable(w, a)
		return nil
	case "describe":
		out, err := tui.NewRenderer()(tui.Describe(name, a))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown format %q (text, dot, mermaid, svg, table, describe)", format)
	}
}

var compileCmd = &cobra.Command{
	Use:   "compile <regex>",
	Short: "Compile a regular expression into a minimal DFA",
	Long: `Compiles a regular expression into the minimal deterministic automaton
accepting its language.

Grammar: a single letter or digit, $ for the empty word, r+r for union, rr for
concatenation, r* for the Kleene star and parentheses for grouping.`,
	Example: `  automaton compile '(a+b)*aba(a+b)*' --format table
  automaton compile 'a(b+$)' --save opt-b --store file`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		name, _ := cmd.Flags().GetString("save")

		var a *automaton.Automaton
		if name != "" {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			defer app.close()
			if a, err = app.registry.Compile(cmd.Context(), name, args[0]); err != nil {
				return err
			}
		} else {
			var err error
			if a, err = automaton.Compile(args[0]); err != nil {
				return err
			}
			name = args[0]
		}
		return printAutomaton(cmd.OutOrStdout(), name, a, format)
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("format", "f", "text", "Output format: text, dot, mermaid, svg, table or describe")
	compileCmd.Flags().String("save", "", "Store the result in the registry under this name")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wolever/automaton"
	"github.com/wolever/automaton/internal/tui"
)

var acceptCmd = &cobra.Command{
	Use:   "accept <regex> [word...]",
	Short: "Run words through an automaton",
	Long: `Compiles the regex (or loads the automaton named by --name from the registry)
and reports, for every word, whether it is accepted. Every character of a word
is one symbol; pass '' for the empty word.

Exits with status 1 when any word is rejected.`,
	Example: `  automaton accept '(0+1)*0' 10 11 ''
  automaton accept --name multiples-of-3 --store file 110 111`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		trace, _ := cmd.Flags().GetBool("trace")

		var a *automaton.Automaton
		if name != "" {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			defer app.close()
			if a, err = app.registry.Get(cmd.Context(), name); err != nil {
				return err
			}
		} else {
			if len(args) == 0 {
				return fmt.Errorf("a regex or --name is required")
			}
			var err error
			if a, err = automaton.Compile(args[0]); err != nil {
				return err
			}
			args = args[1:]
		}

		rejected := 0
		out := cmd.OutOrStdout()
		for _, word := range args {
			ok := a.AcceptsWord(word)
			if !ok {
				rejected++
			}
			fmt.Fprintln(out, tui.Verdict(ok, word))
			if trace {
				for i, live := range a.Trace(word) {
					fmt.Fprintf(out, "  %d %v\n", i, live)
				}
			}
		}
		if rejected > 0 {
			return fmt.Errorf("%d of %d words rejected", rejected, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(acceptCmd)
	acceptCmd.Flags().String("name", "", "Use the named automaton from the registry instead of a regex")
	acceptCmd.Flags().Bool("trace", false, "Print the live states after each symbol")
}

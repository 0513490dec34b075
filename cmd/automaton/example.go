package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/wolever/automaton"
)

// exampleSimple builds a three state cycle with a self loop on every state.
func exampleSimple() *automaton.Automaton {
	a := automaton.New()
	for _, label := range []string{"1", "2", "3"} {
		a.AddState(label)
	}
	a.AddTransition("1", "a", "1")
	a.AddTransition("1", "b", "2")
	a.AddTransition("2", "c", "2")
	a.AddTransition("2", "d", "3")
	a.AddTransition("3", "e", "3")
	a.AddTransition("3", "x", "1")
	a.SetStart("1")
	a.MakeStateFinal("3")
	return a
}

// exampleManyMany builds an NFA with multiple initial and final states.
func exampleManyMany() *automaton.Automaton {
	a := automaton.New()
	for _, label := range []string{"1", "2", "3", "4", "5"} {
		a.AddState(label)
	}
	a.AddTransition("1", "a", "2")
	a.AddTransition("2", "b", "3")
	a.AddTransition("2", "l", "2")
	a.AddTransition("4", "x", "2")
	a.AddTransition("2", "y", "5")
	a.SetStart("1")
	a.SetStart("4")
	a.MakeStateFinal("3")
	a.MakeStateFinal("5")
	return a
}

// exampleMultiplesOf builds a DFA which accepts binary strings that are
// multiples of ``x``.
func exampleMultiplesOf(x int) *automaton.Automaton {
	str := strconv.Itoa
	a := automaton.New()
	a.AddState("start")
	for i := 0; i < x; i++ {
		a.AddState(str(i))
	}
	for i := 0; i < x; i++ {
		a.AddTransition(str(i), "0", str((i*2)%x))
		a.AddTransition(str(i), "1", str((i*2+1)%x))
	}
	a.AddTransition("start", "0", "0")
	a.AddTransition("start", "1", str(1%x))
	a.SetStart("start")
	a.MakeStateFinal("0")
	return a
}

// buildExample returns the named example automaton.
func buildExample(name string, x int) (*automaton.Automaton, error) {
	switch name {
	case "simple":
		return exampleSimple(), nil
	case "many-many":
		return exampleManyMany(), nil
	case "multiples-of":
		if x < 1 {
			return nil, fmt.Errorf("--x must be at least 1")
		}
		return exampleMultiplesOf(x), nil
	default:
		return nil, fmt.Errorf("unknown example %q (simple, many-many, multiples-of)", name)
	}
}

var exampleCmd = &cobra.Command{
	Use:   "example [simple|many-many|multiples-of]",
	Short: "Print a built-in example automaton and its regex",
	Long: `Builds one of the example automata and prints it in the text format, a link to
view its graph online and an equivalent regular expression. The output of
--format text can be fed back to "automaton to-regex".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "many-many"
		if len(args) == 1 {
			name = args[0]
		}
		x, _ := cmd.Flags().GetInt("x")
		format, _ := cmd.Flags().GetString("format")

		a, err := buildExample(name, x)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if format != "" {
			return printAutomaton(out, name, a, format)
		}

		regex, err := automaton.ToRegex(a)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Automaton:")
		a.WriteTo(out)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Graph:")
		fmt.Fprintln(out, "https://dreampuf.github.io/GraphvizOnline/#"+url.PathEscape(automaton.ToDot(a)))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Regex:")
		fmt.Fprintln(out, regex)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exampleCmd)
	exampleCmd.Flags().Int("x", 3, "Divisor of the multiples-of example")
	exampleCmd.Flags().String("format", "", "Only print the automaton in this format (text, dot, mermaid, svg, table, describe)")
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/wolever/automaton"
)

var toRegexCmd = &cobra.Command{
	Use:   "to-regex [file]",
	Short: "Convert an automaton to a regular expression",
	Long: `Reads an automaton in the text format (from the file, or stdin when the file is
omitted or "-") and prints an equivalent regular expression built by state
removal. With --steps, an SVG of the intermediate GNFA is written for every
step (requires graphviz).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		a, err := automaton.Parse(in)
		if err != nil {
			return err
		}

		config := automaton.ToRegexConfig{}
		if dir, _ := cmd.Flags().GetString("steps"); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			config.StepCallback = automaton.StepCallbackWriteSVGs(dir)
		}

		regex, err := automaton.ToRegexWithConfig(a, config)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), regex)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toRegexCmd)
	toRegexCmd.Flags().String("steps", "", "Directory to write one SVG per elimination step")
}

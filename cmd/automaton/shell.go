package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/wolever/automaton"
	"github.com/wolever/automaton/internal/shell"
	"github.com/wolever/automaton/internal/tui"
	"golang.org/x/term"
)

// styler adapts a promptui color to shell.Styles.
func styler(style func(interface{}) string) func(string) string {
	return func(s string) string {
		return style(s)
	}
}

// lineReader returns the next command line, io.EOF when input is exhausted.
type lineReader func() (string, error)

// promptReader reads lines with promptui, for interactive terminals.
func promptReader() lineReader {
	prompt := promptui.Prompt{
		Label: "automaton",
	}
	return func() (string, error) {
		line, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", io.EOF
		}
		return line, err
	}
}

// scanReader reads lines from ``r``, for scripts piped into the shell.
func scanReader(r io.Reader) lineReader {
	scanner := bufio.NewScanner(r)
	return func() (string, error) {
		if scanner.Scan() {
			return scanner.Text(), nil
		}
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Edit the registry interactively",
	Long: `Starts a command loop over the registry: create automata, add states and
transitions, combine them and run words. Type 'help' for the commands.

When stdin is not a terminal, commands are read one per line and the shell
stops at the first failing command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		out := cmd.OutOrStdout()
		interactive := term.IsTerminal(int(os.Stdin.Fd()))

		styles := shell.Styles{}
		next := scanReader(cmd.InOrStdin())
		if interactive {
			tui.PrintBanner(out, automaton.Version)
			styles = shell.Styles{
				Accept: styler(promptui.Styler(promptui.FGGreen)),
				Reject: styler(promptui.Styler(promptui.FGRed)),
				Info:   styler(promptui.Styler(promptui.FGCyan)),
			}
			next = promptReader()
		}
		sh := shell.New(app.registry, out, styles)

		for {
			line, err := next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			quit, err := sh.Exec(cmd.Context(), line)
			if err != nil {
				if !interactive {
					return err
				}
				fmt.Fprintln(out, promptui.Styler(promptui.FGYellow)("error: "+err.Error()))
			}
			if quit {
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

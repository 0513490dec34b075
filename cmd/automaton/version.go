package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wolever/automaton"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of automaton",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "automaton version %s\n", automaton.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/wolever/automaton/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Serves the registry as MCP tools over stdio, so that agents can compile
regexes, combine automata and test words.

Tools: compile_regex, accepts_word, minimize, apply_operation, list_automata,
show_automaton. Resource: automaton://registry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)

		srv := mcp.NewServer(app.registry, mcp.WithLogger(app.logger))
		app.logger.Info("Starting automaton MCP server (stdio)", "store", app.cfg.Store)
		if err := srv.ServeStdio(); err != nil {
			app.logger.Error("MCP server execution failed", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// Package mcp exposes a registry as Model Context Protocol tools, so that
// agents can compile regexes and test words against stored automata.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wolever/automaton"
	"github.com/wolever/automaton/internal/logging"
	"github.com/wolever/automaton/registry"
)

// RegistryURI is the resource listing the stored automata.
const RegistryURI = "automaton://registry"

// AcceptsArgs are the arguments of the accepts_word tool.
type AcceptsArgs struct {
	Name string `json:"name"`
	Word string `json:"word"`
}

// AcceptsResult is the structured result of the accepts_word tool.
type AcceptsResult struct {
	Name     string     `json:"name" jsonschema_description:"The automaton the word was run on"`
	Word     string     `json:"word" jsonschema_description:"The input word"`
	Accepted bool       `json:"accepted" jsonschema_description:"Whether the word is in the language"`
	Trace    [][]string `json:"trace" jsonschema_description:"Live states before the first symbol and after each symbol"`
}

// Server wraps a registry and exposes it as an MCP server.
type Server struct {
	registry  *registry.Registry
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the logger. It must not write to Stdout when serving stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(reg *registry.Registry, opts ...Option) *Server {
	s := &Server{
		registry:  reg,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("automaton-mcp", automaton.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("compile_regex",
		mcp.WithDescription("Compile a regular expression into a minimal DFA and store it. "+
			"Grammar: letters/digits, $ (empty word), + (union), * (star), parentheses, juxtaposition (concatenation)."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name to store the automaton under")),
		mcp.WithString("regex", mcp.Required(), mcp.Description("Regular expression, e.g. (a+b)*aba(a+b)*")),
	), s.handleCompile)

	s.mcpServer.AddTool(mcp.NewTool("accepts_word",
		mcp.WithDescription("Run a word through a stored automaton."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Automaton name")),
		mcp.WithString("word", mcp.Description("Input word; every character is one symbol. Empty for the empty word.")),
		mcp.WithOutputSchema[AcceptsResult](),
	), mcp.NewStructuredToolHandler(s.handleAccepts))

	s.mcpServer.AddTool(mcp.NewTool("minimize",
		mcp.WithDescription("Replace a stored automaton (or store under target) by its minimal DFA."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Automaton name")),
		mcp.WithString("target", mcp.Description("Name for the result (defaults to name)")),
	), s.handleMinimize)

	opNames := []string{}
	for _, op := range registry.Operations() {
		opNames = append(opNames, op.Name)
	}
	s.mcpServer.AddTool(mcp.NewTool("apply_operation",
		mcp.WithDescription("Run an automaton operation on stored automata and store the result."),
		mcp.WithString("op", mcp.Required(), mcp.Enum(opNames...), mcp.Description("Operation")),
		mcp.WithString("name", mcp.Required(), mcp.Description("First operand")),
		mcp.WithString("other", mcp.Description("Second operand of union, concat and intersection")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Name for the result")),
	), s.handleApply)

	s.mcpServer.AddTool(mcp.NewTool("list_automata",
		mcp.WithDescription("List the names of the stored automata."),
	), s.handleList)

	s.mcpServer.AddTool(mcp.NewTool("show_automaton",
		mcp.WithDescription("Show a stored automaton."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Automaton name")),
		mcp.WithString("format",
			mcp.Enum("text", "dot", "mermaid", "regex"),
			mcp.Description("Output format (default text)"),
		),
	), s.handleShow)
}

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	regex, err := request.RequireString("regex")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	a, err := s.registry.Compile(ctx, name, regex)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compile failed: %v", err)), nil
	}
	s.logger.Debug("MCP compile", "name", name, "regex", regex, "states", a.Len())
	return mcp.NewToolResultText(describe(name, a)), nil
}

func (s *Server) handleAccepts(ctx context.Context, request mcp.CallToolRequest, args AcceptsArgs) (AcceptsResult, error) {
	a, err := s.registry.Get(ctx, args.Name)
	if err != nil {
		return AcceptsResult{}, err
	}
	return AcceptsResult{
		Name:     args.Name,
		Word:     args.Word,
		Accepted: a.AcceptsWord(args.Word),
		Trace:    a.Trace(args.Word),
	}, nil
}

func (s *Server) handleMinimize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target := request.GetString("target", name)

	a, err := s.registry.Derive(ctx, "minimize", target, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("minimize failed: %v", err)), nil
	}
	return mcp.NewToolResultText(describe(target, a)), nil
}

func (s *Server) handleApply(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opName, err := request.RequireString("op")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := request.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	operands := []string{name}
	if other := request.GetString("other", ""); other != "" {
		operands = append(operands, other)
	}

	a, err := s.registry.Derive(ctx, opName, target, operands...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", opName, err)), nil
	}
	return mcp.NewToolResultText(describe(target, a)), nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.registry.Names(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(names)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleShow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a, err := s.registry.Get(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch format := request.GetString("format", "text"); format {
	case "text":
		return mcp.NewToolResultText(describe(name, a)), nil
	case "dot":
		return mcp.NewToolResultText(automaton.ToDot(a)), nil
	case "mermaid":
		return mcp.NewToolResultText(automaton.ToMermaid(a)), nil
	case "regex":
		regex, err := automaton.ToRegex(a)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(regex), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(RegistryURI, "Stored automata",
		mcp.WithResourceDescription("Names of the automata in the registry"),
		mcp.WithMIMEType("application/json"),
	), s.readRegistry)
}

func (s *Server) readRegistry(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	names, err := s.registry.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list automata: %w", err)
	}
	jsonBytes, _ := json.Marshal(names)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      RegistryURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

// describe is the text shown to agents for a stored automaton.
func describe(name string, a *automaton.Automaton) string {
	return fmt.Sprintf("%s: %d states, deterministic=%t, total=%t\n%s",
		name, a.Len(), a.IsDeterministic(), a.IsTotal(), automaton.Format(a))
}

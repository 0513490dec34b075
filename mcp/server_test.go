package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolever/automaton/registry"
	"github.com/wolever/automaton/registry/memory"
)

func newTestServer(t *testing.T) (*Server, *registry.Registry) {
	t.Helper()
	reg := registry.New(memory.NewStore())
	return NewServer(reg), reg
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestCompileTool(t *testing.T) {
	s, reg := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleCompile(ctx, callRequest("compile_regex", map[string]any{
		"name":  "aba",
		"regex": "(a+b)*aba(a+b)*",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "aba: 4 states, deterministic=true, total=true")

	ok, err := reg.Accepts(ctx, "aba", "babab")
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("invalid regex", func(t *testing.T) {
		res, err := s.handleCompile(ctx, callRequest("compile_regex", map[string]any{
			"name":  "bad",
			"regex": "a++b",
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "compile failed")
	})

	t.Run("missing argument", func(t *testing.T) {
		res, err := s.handleCompile(ctx, callRequest("compile_regex", map[string]any{"name": "x"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})
}

func TestAcceptsTool(t *testing.T) {
	s, reg := newTestServer(t)
	ctx := context.Background()
	_, err := reg.Compile(ctx, "ab", "ab")
	require.NoError(t, err)

	out, err := s.handleAccepts(ctx, mcp.CallToolRequest{}, AcceptsArgs{Name: "ab", Word: "ab"})
	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.Len(t, out.Trace, 3)

	out, err = s.handleAccepts(ctx, mcp.CallToolRequest{}, AcceptsArgs{Name: "ab", Word: "b"})
	require.NoError(t, err)
	assert.False(t, out.Accepted)

	_, err = s.handleAccepts(ctx, mcp.CallToolRequest{}, AcceptsArgs{Name: "missing"})
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestMinimizeAndApplyTools(t *testing.T) {
	s, reg := newTestServer(t)
	ctx := context.Background()
	_, err := reg.Compile(ctx, "a", "a")
	require.NoError(t, err)
	_, err = reg.Compile(ctx, "b", "b")
	require.NoError(t, err)

	res, err := s.handleApply(ctx, callRequest("apply_operation", map[string]any{
		"op":     "union",
		"name":   "a",
		"other":  "b",
		"target": "ab",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	res, err = s.handleMinimize(ctx, callRequest("minimize", map[string]any{"name": "ab", "target": "min"}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))
	assert.Contains(t, resultText(t, res), "min: 3 states, deterministic=true, total=true")

	names, err := reg.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "ab", "b", "min"}, names)

	res, err = s.handleApply(ctx, callRequest("apply_operation", map[string]any{
		"op":     "bogus",
		"name":   "a",
		"target": "x",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestListAndShowTools(t *testing.T) {
	s, reg := newTestServer(t)
	ctx := context.Background()
	_, err := reg.Compile(ctx, "a", "a")
	require.NoError(t, err)

	res, err := s.handleList(ctx, callRequest("list_automata", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, resultText(t, res))

	tests := []struct {
		format   string
		contains string
	}{
		{format: "text", contains: "f 1"},
		{format: "dot", contains: "digraph"},
		{format: "mermaid", contains: "graph LR"},
		{format: "regex", contains: "a"},
	}
	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			res, err := s.handleShow(ctx, callRequest("show_automaton", map[string]any{"name": "a", "format": tc.format}))
			require.NoError(t, err)
			require.False(t, res.IsError)
			assert.Contains(t, resultText(t, res), tc.contains)
		})
	}

	res, err = s.handleShow(ctx, callRequest("show_automaton", map[string]any{"name": "a", "format": "png"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleShow(ctx, callRequest("show_automaton", map[string]any{"name": "zzz"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestRegistryResource(t *testing.T) {
	s, reg := newTestServer(t)
	ctx := context.Background()
	_, err := reg.Compile(ctx, "b", "b")
	require.NoError(t, err)
	_, err = reg.Compile(ctx, "a", "a")
	require.NoError(t, err)

	contents, err := s.readRegistry(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, RegistryURI, text.URI)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(text.Text), &names))
	assert.Equal(t, []string{"a", "b"}, names)
}

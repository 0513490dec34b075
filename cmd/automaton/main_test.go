package main

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolever/automaton"
)

func TestMultiplesOfExample(t *testing.T) {
	for _, x := range []int{1, 2, 3, 5} {
		t.Run(strconv.Itoa(x), func(t *testing.T) {
			a := exampleMultiplesOf(x)
			for i := 0; i < 64; i++ {
				word := strconv.FormatInt(int64(i), 2)
				assert.Equal(t, i%x == 0, a.AcceptsWord(word), "word %s", word)
			}
			assert.False(t, a.AcceptsWord(""))
		})
	}
}

func TestBuildExample(t *testing.T) {
	tests := []struct {
		name     string
		accepted []string
		rejected []string
	}{
		{name: "simple", accepted: []string{"bd", "abccdeexbd"}, rejected: []string{"", "b", "bdx"}},
		{name: "many-many", accepted: []string{"ab", "alllb", "xy"}, rejected: []string{"aa", "ax"}},
		{name: "multiples-of", accepted: []string{"0", "11", "110"}, rejected: []string{"1", "10"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := buildExample(tc.name, 3)
			require.NoError(t, err)
			for _, w := range tc.accepted {
				assert.True(t, a.AcceptsWord(w), "expected %q to be accepted", w)
			}
			for _, w := range tc.rejected {
				assert.False(t, a.AcceptsWord(w), "expected %q to be rejected", w)
			}
		})
	}

	_, err := buildExample("nope", 3)
	assert.Error(t, err)
	_, err = buildExample("multiples-of", 0)
	assert.Error(t, err)
}

func TestExampleRegexRoundTrip(t *testing.T) {
	a := exampleSimple()
	regex, err := automaton.ToRegex(a)
	require.NoError(t, err)

	compiled, err := automaton.Compile(regex)
	require.NoError(t, err)
	for _, w := range []string{"bd", "bde", "bdxbd", "abd", "bcd", "b", "bdx"} {
		assert.Equal(t, a.AcceptsWord(w), compiled.AcceptsWord(w), "word %q", w)
	}
}

func TestPrintAutomaton(t *testing.T) {
	a := automaton.ByLetter("a")

	tests := []struct {
		format   string
		contains string
	}{
		{format: "text", contains: "0 a 1\n"},
		{format: "dot", contains: "digraph"},
		{format: "mermaid", contains: "graph LR"},
		{format: "table", contains: "->0"},
	}
	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, printAutomaton(&buf, "a", a, tc.format))
			assert.Contains(t, buf.String(), tc.contains)
		})
	}

	assert.Error(t, printAutomaton(io.Discard, "a", a, "png"))
}

func TestScanReader(t *testing.T) {
	next := scanReader(strings.NewReader("new m\n\nlist\n"))

	for _, expected := range []string{"new m", "", "list"} {
		line, err := next()
		require.NoError(t, err)
		assert.Equal(t, expected, line)
	}
	_, err := next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestCompileCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"compile", "ab"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	a, err := automaton.ParseString(out.String())
	require.NoError(t, err)
	assert.True(t, a.AcceptsWord("ab"))
	assert.False(t, a.AcceptsWord("a"))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "automaton version "+automaton.Version+"\n", out.String())
}

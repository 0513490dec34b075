package automaton

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "0 1\n0\n0 a 1\nf 1\n", Format(ByLetter("a")))
	assert.Equal(t, "\n\nf\n", Format(New()))
	assert.Equal(t, "0 1 2\n0\n0 a 1 2\n0 b 2\n2 a 2\n2 b 2\nf 1 2\n", Format(makeSampleNFA()))
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := ByLetter("a").WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "0 1\n0\n0 a 1\nf 1\n", buf.String())
}

func TestParseRoundTrip(t *testing.T) {
	for name, a := range map[string]*Automaton{
		"letter":    ByLetter("a"),
		"sample":    makeSampleNFA(),
		"many-many": makeManyMany(),
		"empty":     New(),
		"compiled":  mustCompile(t, "(a+b)*aba(a+b)*"),
	} {
		t.Run(name, func(t *testing.T) {
			parsed, err := ParseString(Format(a))
			require.NoError(t, err)
			assert.Equal(t, Format(a), Format(parsed))
			assert.Equal(t, a.IsDeterministic(), parsed.IsDeterministic())
			walk(a, 4, func(word string) {
				assert.Equal(t, a.AcceptsWord(word), parsed.AcceptsWord(word), "word %q", word)
			})
		})
	}
}

func TestParseLenient(t *testing.T) {
	a, err := ParseString("p q\r\np\n\np a q\n\nf q\n\n\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "q"}, labels(a.States()))
	assert.True(t, a.AcceptsWord("a"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{name: "too-short", input: "0 1\n0\n", line: 2},
		{name: "no-final-line", input: "0\n0\n0 a 0\n", line: 3},
		{name: "duplicate-state", input: "0 0\n0\nf\n", line: 1},
		{name: "unknown-start", input: "0\n1\nf\n", line: 2},
		{name: "short-transition", input: "0\n0\n0 a\nf\n", line: 3},
		{name: "unknown-target", input: "0\n0\n0 a 1\nf\n", line: 3},
		{name: "unknown-final", input: "0\n0\nf 1\n", line: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseString(tc.input)
			var ferr *FormatError
			require.True(t, errors.As(err, &ferr), "got %v", err)
			assert.Equal(t, tc.line, ferr.Line)
		})
	}
}

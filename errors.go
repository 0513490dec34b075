package automaton

import (
	"errors"
	"fmt"
)

// ErrNotTotal is returned by Complement when some (state, symbol) pair has no
// transition.
var ErrNotTotal = errors.New("automaton is not total")

// ErrNotDeterministic is returned by Complement and Intersection when an
// operand has a (state, symbol) pair with more than one target.
var ErrNotDeterministic = errors.New("automaton is not deterministic")

// ErrAlphabetMismatch is returned by Intersection when the operands are defined
// over different alphabets.
var ErrAlphabetMismatch = errors.New("automata don't have the same alphabet")

// ErrInvalidRegex is wrapped by every *CompileError.
var ErrInvalidRegex = errors.New("invalid regular expression")

// ErrEmptyLanguage is returned by ToRegex when the automaton accepts no word;
// the regex grammar has no symbol for the empty language.
var ErrEmptyLanguage = errors.New("automaton accepts no word")

// ErrUnsupportedSymbol is returned by ToRegex when a transition symbol cannot
// be written in the regex grammar.
var ErrUnsupportedSymbol = errors.New("symbol cannot be expressed in a regex")

// CompileError describes why a regular expression could not be compiled.
type CompileError struct {
	Regex  string // The offending expression
	Pos    int    // Rune offset of the problem, or -1 when not positional
	Reason string
}

func (e *CompileError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("regex %q: %s", e.Regex, e.Reason)
	}
	return fmt.Sprintf("regex %q: %s at position %d", e.Regex, e.Reason, e.Pos)
}

func (e *CompileError) Unwrap() error {
	return ErrInvalidRegex
}

// FormatError reports a malformed line in the text format read by Parse.
type FormatError struct {
	Line   int // 1-based line number
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

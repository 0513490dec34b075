/*
Package automaton implements finite automata over an alphabet of opaque string
symbols.

An Automaton may be non-deterministic. It is built state by state with the
mutators (AddState, AddTransition, SetStart, MakeStateFinal, ...) or from a
regular expression:

	a, err := automaton.Compile("(a+b)*aba(a+b)*")
	if err != nil {
		return err
	}
	a.AcceptsWord("bbbababbb") // true

The regular expression grammar is deliberately small: single letters or digits,
$ for the empty word, + for union, * for the Kleene star, parentheses, and
juxtaposition for concatenation. Compile always returns a minimal deterministic
automaton.

Union, Concat, Star, Complement, Intersection, Reverse, Determinize and Minimize
build new automata and never modify their operands. Complement and Intersection
return ErrNotTotal, ErrNotDeterministic or ErrAlphabetMismatch when their
preconditions do not hold.

Format and Parse convert to and from a line oriented text form, ToDot and
ToMermaid render graphs, and ToRegex converts an automaton back into a regular
expression by state elimination.
*/
package automaton

// Version of the automaton module and its tools.
const Version = "0.3.0"

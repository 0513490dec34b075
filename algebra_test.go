package automaton

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// words returns every word over ``alphabet`` of at most ``maxLen`` symbols.
func words(alphabet []string, maxLen int) []string {
	res := []string{""}
	frontier := []string{""}
	for i := 0; i < maxLen; i++ {
		next := []string{}
		for _, w := range frontier {
			for _, symbol := range alphabet {
				next = append(next, w+symbol)
			}
		}
		res = append(res, next...)
		frontier = next
	}
	return res
}

// mustCompile compiles ``regex`` or fails the test.
func mustCompile(t *testing.T, regex string) *Automaton {
	t.Helper()
	a, err := Compile(regex)
	require.NoError(t, err, regex)
	return a
}

func TestUnion(t *testing.T) {
	a, b := makeSampleNFA(), makeManyMany()
	before := Format(b)
	u := Union(a, b)

	assert.Equal(t, before, Format(b), "operands are not modified")
	assert.Equal(t, a.Len()+b.Len(), u.Len())
	assertIndexed(t, u)

	alphabet := []string{"a", "b", "l", "x", "y"}
	for _, w := range words(alphabet, 4) {
		assert.Equal(t, a.AcceptsWord(w) || b.AcceptsWord(w), u.AcceptsWord(w), "word %q", w)
	}
}

func TestUnionRenamesCollisions(t *testing.T) {
	u := Union(ByLetter("a"), ByLetter("b"))

	assert.Equal(t, []string{"0", "1", "2", "3"}, labels(u.States()))
	assert.Equal(t, []string{"0", "2"}, labels(u.Starts()))
	assert.Equal(t, []string{"1", "3"}, labels(u.Finals()))
	assert.Equal(t, []string{"3"}, labels(u.StateTransitions(u.State("2"))["b"]))
}

func TestConcat(t *testing.T) {
	tests := []struct {
		name     string
		left     *Automaton
		right    *Automaton
		accepted []string
		rejected []string
	}{
		{
			name:     "letters",
			left:     ByLetter("a"),
			right:    ByLetter("b"),
			accepted: []string{"ab"},
			rejected: []string{"", "a", "b", "ba", "abb"},
		},
		{
			name:     "right-accepts-empty",
			left:     ByLetter("a"),
			right:    Star(ByLetter("b")),
			accepted: []string{"a", "ab", "abbb"},
			rejected: []string{"", "b", "aa"},
		},
		{
			name:     "left-accepts-empty",
			left:     SingletonEpsilon(),
			right:    ByLetter("b"),
			accepted: []string{"b"},
			rejected: []string{"", "bb"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			left, right := Format(tc.left), Format(tc.right)
			c := Concat(tc.left, tc.right)
			assert.Equal(t, left, Format(tc.left), "left operand is not modified")
			assert.Equal(t, right, Format(tc.right), "right operand is not modified")
			assertIndexed(t, c)
			for _, w := range tc.accepted {
				assert.True(t, c.AcceptsWord(w), "expected %q to be accepted", w)
			}
			for _, w := range tc.rejected {
				assert.False(t, c.AcceptsWord(w), "expected %q to be rejected", w)
			}
		})
	}
}

func TestConcatLanguage(t *testing.T) {
	a, b := makeSampleNFA(), Union(ByLetter("b"), SingletonEpsilon())
	c := Concat(a, b)

	splits := func(w string) bool {
		for i := 0; i <= len(w); i++ {
			if a.AcceptsWord(w[:i]) && b.AcceptsWord(w[i:]) {
				return true
			}
		}
		return false
	}
	for _, w := range words([]string{"a", "b"}, 5) {
		assert.Equal(t, splits(w), c.AcceptsWord(w), "word %q", w)
	}
}

func TestStar(t *testing.T) {
	ab := Concat(ByLetter("a"), ByLetter("b"))
	before := Format(ab)
	s := Star(ab)

	assert.Equal(t, before, Format(ab), "operand is not modified")

	assert.Equal(t, ab.Len()+1, s.Len())
	for _, w := range words([]string{"a", "b"}, 6) {
		expected := len(w)%2 == 0 && strings.Repeat("ab", len(w)/2) == w
		assert.Equal(t, expected, s.AcceptsWord(w), "word %q", w)
	}
}

func TestComplement(t *testing.T) {
	_, err := Complement(ByLetter("a"))
	assert.ErrorIs(t, err, ErrNotTotal)

	a := ByLetter("a").Total()
	c, err := Complement(a)
	require.NoError(t, err)

	for _, w := range words([]string{"a"}, 4) {
		assert.Equal(t, !a.AcceptsWord(w), c.AcceptsWord(w), "word %q", w)
	}
	assert.True(t, a.AcceptsWord("a"), "operand is not modified")
}

func TestComplementRequiresDeterminism(t *testing.T) {
	// 0 -a-> {0, 1}, 1 -a-> 1: total but not deterministic
	a := New()
	a.AddState("0")
	a.AddState("1")
	a.SetStart("0")
	a.AddTransitions("0", "a", []string{"0", "1"})
	a.AddTransition("1", "a", "1")
	a.MakeStateFinal("1")
	require.True(t, a.IsTotal())
	require.False(t, a.IsDeterministic())

	_, err := Complement(a)
	assert.ErrorIs(t, err, ErrNotDeterministic)
	_, err = a.Complement()
	assert.ErrorIs(t, err, ErrNotDeterministic)

	c, err := Complement(Determinize(a))
	require.NoError(t, err)
	for _, w := range words([]string{"a"}, 4) {
		assert.Equal(t, !a.AcceptsWord(w), c.AcceptsWord(w), "word %q", w)
	}
}

func TestComplementOfCompiled(t *testing.T) {
	a := mustCompile(t, "(a+b)*aba(a+b)*")
	c, err := a.Complement()
	require.NoError(t, err)
	for _, w := range words([]string{"a", "b"}, 6) {
		assert.Equal(t, !a.AcceptsWord(w), c.AcceptsWord(w), "word %q", w)
	}
}

func TestIntersection(t *testing.T) {
	evenA := mustCompile(t, "(b*ab*ab*)*")
	endsB := mustCompile(t, "(a+b)*b")
	left, right := Format(evenA), Format(endsB)

	i, err := Intersection(evenA, endsB)
	require.NoError(t, err)
	assert.Equal(t, left, Format(evenA), "left operand is not modified")
	assert.Equal(t, right, Format(endsB), "right operand is not modified")
	assert.Equal(t, evenA.Len()*endsB.Len(), i.Len())
	assert.True(t, i.IsDeterministic())
	assertIndexed(t, i)
	assert.Equal(t, "0", i.States()[0].Label)

	for _, w := range words([]string{"a", "b"}, 6) {
		assert.Equal(t, evenA.AcceptsWord(w) && endsB.AcceptsWord(w), i.AcceptsWord(w), "word %q", w)
	}
}

func TestIntersectionPreconditions(t *testing.T) {
	_, err := Intersection(ByLetter("a"), ByLetter("b"))
	assert.ErrorIs(t, err, ErrAlphabetMismatch)

	nfa := makeSampleNFA()
	dfa := mustCompile(t, "(a+b)*")
	_, err = Intersection(nfa, dfa)
	assert.ErrorIs(t, err, ErrNotDeterministic)
	_, err = dfa.Intersection(nfa)
	assert.ErrorIs(t, err, ErrNotDeterministic)
}

func TestReverse(t *testing.T) {
	a := mustCompile(t, "aab*")
	before := Format(a)
	r := Reverse(a)

	assert.Equal(t, before, Format(a), "operand is not modified")

	assert.Equal(t, labels(a.Finals()), labels(r.Starts()))
	assert.Equal(t, labels(a.Starts()), labels(r.Finals()))
	for _, w := range words([]string{"a", "b"}, 5) {
		reversed := []rune(w)
		for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
			reversed[i], reversed[j] = reversed[j], reversed[i]
		}
		assert.Equal(t, a.AcceptsWord(w), r.AcceptsWord(string(reversed)), "word %q", w)
	}
}

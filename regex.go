package automaton

import (
	"unicode"
)

// Regex grammar:
//
//	r ::= x | $ | (r) | r* | r+r | rr
//
// where x is a single letter or digit, $ is the empty word, + is union and
// concatenation is written by juxtaposition.

const (
	epsilonToken = "$"
	concatToken  = "."
	unionToken   = "+"
	starToken    = "*"
)

// isSymbol reports whether ``r`` can be used as an alphabet symbol in a regex.
func isSymbol(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isOperand reports whether ``r`` is a symbol or the empty word.
func isOperand(r rune) bool {
	return isSymbol(r) || r == '$'
}

// Validate reports whether ``regex`` is derivable from the regex grammar. The
// check follows the inductive definition directly; sub-results are memoized
// on (start, end) pairs.
func Validate(regex string) bool {
	v := &validator{
		runes: []rune(regex),
		memo:  map[[2]int]bool{},
	}
	return v.valid(0, len(v.runes))
}

type validator struct {
	runes []rune
	memo  map[[2]int]bool
}

func (v *validator) valid(i, j int) bool {
	key := [2]int{i, j}
	if res, ok := v.memo[key]; ok {
		return res
	}
	res := v.check(i, j)
	v.memo[key] = res
	return res
}

func (v *validator) check(i, j int) bool {
	switch {
	case j <= i:
		return false
	case j-i == 1:
		return isOperand(v.runes[i])
	}

	// Derivable expressions open with an operand or "(" and close with an
	// operand, ")" or "*".
	if first := v.runes[i]; !isOperand(first) && first != '(' {
		return false
	}
	if last := v.runes[j-1]; !isOperand(last) && last != ')' && last != '*' {
		return false
	}

	// (r)
	if v.runes[i] == '(' && v.runes[j-1] == ')' && v.valid(i+1, j-1) {
		return true
	}
	// r*
	if v.runes[j-1] == '*' && v.valid(i, j-1) {
		return true
	}
	// r+r
	for k := i; k < j; k++ {
		if v.runes[k] == '+' && v.valid(i, k) && v.valid(k+1, j) {
			return true
		}
	}
	// rr
	for k := i + 1; k < j; k++ {
		if v.valid(i, k) && v.valid(k, j) {
			return true
		}
	}
	return false
}

// concatenates reports whether an implicit concatenation sits between the
// adjacent runes ``left`` and ``right``.
func concatenates(left, right rune) bool {
	leftEnds := isOperand(left) || left == ')' || left == '*'
	rightBegins := isOperand(right) || right == '('
	return leftEnds && rightBegins
}

// ToPostfix converts ``regex`` to reverse Polish notation using the
// shunting-yard algorithm. Implicit concatenation is made explicit with the
// "." operator:
//
//	ToPostfix("ab*")     -> ["a", "b", "*", "."]
//	ToPostfix("(a+b)*a") -> ["a", "b", "+", "*", "a", "."]
func ToPostfix(regex string) ([]string, error) {
	runes := []rune(regex)
	output := make([]string, 0, len(runes)*2)
	stack := []string{}

	pop := func() string {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}

	for i, r := range runes {
		switch {
		case isOperand(r):
			output = append(output, string(r))
		case r == '*':
			output = append(output, starToken)
		case r == '(':
			stack = append(stack, "(")
		case r == ')':
			for len(stack) > 0 && stack[len(stack)-1] != "(" {
				output = append(output, pop())
			}
			if len(stack) == 0 {
				return nil, &CompileError{Regex: regex, Pos: i, Reason: "unbalanced ')'"}
			}
			pop()
		case r == '+':
			for len(stack) > 0 && (stack[len(stack)-1] == concatToken || stack[len(stack)-1] == unionToken) {
				output = append(output, pop())
			}
			stack = append(stack, unionToken)
		default:
			return nil, &CompileError{Regex: regex, Pos: i, Reason: "unexpected character " + string(r)}
		}

		if i+1 < len(runes) && concatenates(r, runes[i+1]) {
			for len(stack) > 0 && stack[len(stack)-1] == concatToken {
				output = append(output, pop())
			}
			stack = append(stack, concatToken)
		}
	}

	for len(stack) > 0 {
		top := pop()
		if top == "(" {
			return nil, &CompileError{Regex: regex, Pos: -1, Reason: "unbalanced '('"}
		}
		output = append(output, top)
	}
	return output, nil
}

// EvalPostfix builds an automaton from a postfix token sequence produced by
// ToPostfix. The result is not minimized.
func EvalPostfix(tokens []string) (*Automaton, error) {
	stack := []*Automaton{}

	pop := func(token string, pos int) (*Automaton, error) {
		if len(stack) == 0 {
			return nil, &CompileError{Pos: pos, Reason: "missing operand for " + token}
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top, nil
	}
	pop2 := func(token string, pos int) (*Automaton, *Automaton, error) {
		right, err := pop(token, pos)
		if err != nil {
			return nil, nil, err
		}
		left, err := pop(token, pos)
		if err != nil {
			return nil, nil, err
		}
		return left, right, nil
	}

	for pos, token := range tokens {
		switch token {
		case unionToken:
			left, right, err := pop2(token, pos)
			if err != nil {
				return nil, err
			}
			stack = append(stack, Union(left, right))
		case concatToken:
			left, right, err := pop2(token, pos)
			if err != nil {
				return nil, err
			}
			stack = append(stack, Concat(left, right))
		case starToken:
			operand, err := pop(token, pos)
			if err != nil {
				return nil, err
			}
			stack = append(stack, Star(operand))
		case epsilonToken:
			stack = append(stack, SingletonEpsilon())
		default:
			stack = append(stack, ByLetter(token))
		}
	}

	if len(stack) != 1 {
		return nil, &CompileError{Pos: -1, Reason: "expression does not reduce to a single automaton"}
	}
	return stack[0], nil
}

// Compile validates ``regex`` and returns the minimal deterministic automaton
// accepting its language.
func Compile(regex string) (*Automaton, error) {
	if !Validate(regex) {
		return nil, &CompileError{Regex: regex, Pos: -1, Reason: "not a valid expression"}
	}
	tokens, err := ToPostfix(regex)
	if err != nil {
		return nil, err
	}
	a, err := EvalPostfix(tokens)
	if err != nil {
		if cerr, ok := err.(*CompileError); ok {
			cerr.Regex = regex
		}
		return nil, err
	}
	return Minimize(a), nil
}

// FromRegex is an alias of Compile.
func FromRegex(regex string) (*Automaton, error) {
	return Compile(regex)
}

// Regex is a compiled regular expression.
type Regex struct {
	expr string
	dfa  *Automaton
}

// CompileRegex compiles ``expr`` into a Regex.
func CompileRegex(expr string) (*Regex, error) {
	a, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Regex{expr: expr, dfa: a}, nil
}

// MustCompile is like CompileRegex but panics if the expression is invalid.
func MustCompile(expr string) *Regex {
	re, err := CompileRegex(expr)
	if err != nil {
		panic(err)
	}
	return re
}

// String returns the source expression.
func (re *Regex) String() string {
	return re.expr
}

// Automaton returns a copy of the compiled minimal automaton.
func (re *Regex) Automaton() *Automaton {
	return re.dfa.Copy()
}

// Match reports whether ``word`` belongs to the language of the expression.
func (re *Regex) Match(word string) bool {
	return re.dfa.AcceptsWord(word)
}

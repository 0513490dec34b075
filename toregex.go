package automaton

import (
	"fmt"
	"os"
	"os/exec"
	"path"
	"strings"
	"unicode/utf8"
)

// GNFA is a generalized NFA whose edges are labelled with regular expressions.
// It is the intermediate form of ToRegex.
type GNFA struct {
	Nodes []*GNFANode
	Edges []*GNFAEdge
}

// GNFAEdge defines the edge between two nodes in the GNFA.
type GNFAEdge struct {
	SrcNode *GNFANode
	DstNode *GNFANode
	Value   string
}

// GNFANode defines a node in the GNFA.
type GNFANode struct {
	Name       string
	IsInitial  bool
	IsTerminal bool
}

// AddEdge adds an edge between ``src`` and ``dst`` with ``value``.
func (g *GNFA) AddEdge(src, dst *GNFANode, value string) {
	g.Edges = append(g.Edges, &GNFAEdge{
		SrcNode: src,
		DstNode: dst,
		Value:   value,
	})
}

// AddNode appends a new node called ``name``.
func (g *GNFA) AddNode(name string) *GNFANode {
	node := &GNFANode{Name: name}
	g.Nodes = append(g.Nodes, node)
	return node
}

// RemoveNode removes a node and all associated edges.
func (g *GNFA) RemoveNode(node *GNFANode) {
	nodes := make([]*GNFANode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n != node {
			nodes = append(nodes, n)
		}
	}
	g.Nodes = nodes

	edges := make([]*GNFAEdge, 0, len(g.Edges))
	for _, edge := range g.Edges {
		if edge.SrcNode == node || edge.DstNode == node {
			continue
		}
		edges = append(edges, edge)
	}
	g.Edges = edges
}

// EdgesIn returns a list of edges into ``node`` (ie, where edge.DstNode ==
// node).
func (g *GNFA) EdgesIn(node *GNFANode) []*GNFAEdge {
	res := []*GNFAEdge{}
	for _, edge := range g.Edges {
		if edge.DstNode == node {
			res = append(res, edge)
		}
	}
	return res
}

// EdgesOut a list of edges out from ``node`` (ie, where edge.SrcNode == node)
func (g *GNFA) EdgesOut(node *GNFANode) []*GNFAEdge {
	res := []*GNFAEdge{}
	for _, edge := range g.Edges {
		if edge.SrcNode == node {
			res = append(res, edge)
		}
	}
	return res
}

// Dot generates a graphviz dot file from the GNFA.
func (g *GNFA) Dot() string {
	res := make([]string, 0, len(g.Edges)+len(g.Nodes)+1)

	res = append(res, "\trankdir = LR;")

	for _, edge := range g.Edges {
		res = append(res, fmt.Sprintf(
			"\t%q -> %q [label=%q];",
			edge.SrcNode.Name,
			edge.DstNode.Name,
			edge.Value,
		))
	}

	for _, node := range g.Nodes {
		if node.IsInitial {
			res = append(res, fmt.Sprintf("\t%q [shape=point];", node.Name+"__initial"))
			res = append(res, fmt.Sprintf("\t%q -> %q;", node.Name+"__initial", node.Name))
		}
		if node.IsTerminal {
			res = append(res, fmt.Sprintf("\t%q [peripheries=2];", node.Name))
		}
	}

	return "digraph g {\n" + strings.Join(res, "\n") + "\n}\n"
}

// ToRegexConfig defines the configuration options available to
// ToRegexWithConfig.
type ToRegexConfig struct {
	StepCallback func(g *GNFA, stepName string)
}

// ToRegex converts an automaton to an equivalent regular expression in the
// grammar accepted by Compile, using the state removal method (see also:
// ToRegexWithConfig).
func ToRegex(a *Automaton) (string, error) {
	return ToRegexWithConfig(a, ToRegexConfig{})
}

// ToRegexWithConfig converts an automaton to a regular expression using the
// state removal method, with configuration parameters defined by
// ToRegexConfig.
func ToRegexWithConfig(a *Automaton, config ToRegexConfig) (string, error) {
	if config.StepCallback == nil {
		config.StepCallback = func(g *GNFA, stepName string) {}
	}

	for symbol := range a.alphabet {
		r, size := utf8.DecodeRuneInString(symbol)
		if size != len(symbol) || !isSymbol(r) {
			return "", fmt.Errorf("%w: %q", ErrUnsupportedSymbol, symbol)
		}
	}

	g := &GNFA{}
	nodes := make(map[*State]*GNFANode, len(a.states))
	for _, s := range a.states {
		nodes[s] = g.AddNode(s.Label)
	}
	for _, edge := range Edges(a) {
		g.AddEdge(nodes[edge.From], nodes[edge.To], orJoin(edge.Symbols))
	}

	config.StepCallback(g, "start")

	// 1. Create single initial and terminal nodes with empty transitions to
	// the old initial and from the old terminal nodes
	initialNode := g.AddNode("__initial__")
	terminalNode := g.AddNode("__terminal__")
	initialNode.IsInitial = true
	terminalNode.IsTerminal = true
	for _, s := range a.Starts() {
		g.AddEdge(initialNode, nodes[s], epsilonToken)
	}
	for _, s := range a.Finals() {
		g.AddEdge(nodes[s], terminalNode, epsilonToken)
	}

	config.StepCallback(g, "create-initial-terminal")

	// 2. Remove every node which isn't the initial or terminal node
	for _, s := range a.states {
		node := nodes[s]

		// Collect any loops (ie, where the node references its self) so they
		// can be converted to kleene star in the middle of new edges
		kleeneStarValues := []string{}
		inEdges := g.EdgesIn(node)
		for _, inEdge := range inEdges {
			if inEdge.SrcNode == inEdge.DstNode {
				kleeneStarValues = append(kleeneStarValues, inEdge.Value)
			}
		}

		kleeneStarMiddle := addKleeneStar(orJoin(kleeneStarValues))
		for _, inEdge := range inEdges {
			if inEdge.SrcNode == inEdge.DstNode {
				continue
			}
			for _, outEdge := range g.EdgesOut(node) {
				if outEdge.SrcNode == outEdge.DstNode {
					continue
				}

				g.AddEdge(
					inEdge.SrcNode,
					outEdge.DstNode,
					concatJoin(inEdge.Value, kleeneStarMiddle, outEdge.Value),
				)
			}
		}

		g.RemoveNode(node)
		config.StepCallback(g, fmt.Sprintf("remove-node-%s", node.Name))
	}

	// 3. Produce the regular expression
	res := make([]string, 0, len(g.Edges))
	for _, edge := range g.Edges {
		res = append(res, edge.Value)
	}
	if len(res) == 0 {
		return "", ErrEmptyLanguage
	}
	return orJoin(res), nil
}

// StepCallbackWriteSVGs is a convenience method returning a
// ToRegexConfig.StepCallback function that will create an SVG for each step
// in `basedir`:
//
//	ToRegexWithConfig(a, ToRegexConfig{
//	  StepCallback: StepCallbackWriteSVGs("/tmp/"),
//	})
//
// Note: no error handling is done. StepCallbackWriteSVGs will panic() on any
// error.
func StepCallbackWriteSVGs(basedir string) func(g *GNFA, stepName string) {
	svgCounter := 0

	return func(g *GNFA, stepName string) {
		svgCounter += 1

		fname := fmt.Sprintf("%02d-%s.svg", svgCounter, stepName)
		f, err := os.Create(path.Join(basedir, fname))
		if err != nil {
			panic(err)
		}
		defer f.Close()

		dotProc := exec.Command("dot", "-Tsvg")
		dotProc.Stdin = strings.NewReader(g.Dot())
		dotProc.Stdout = f
		if err := dotProc.Run(); err != nil {
			panic(err)
		}
	}
}

// addKleeneStar adds a kleene star to ``s``:
//
//	addKleeneStar("") -> ""
//	addKleeneStar("$") -> ""
//	addKleeneStar("a") -> "a*"
//	addKleeneStar("(a+b)") -> "(a+b)*"
//	addKleeneStar("abc") -> "(abc)*"
func addKleeneStar(s string) string {
	switch {
	case s == "" || s == epsilonToken:
		return ""
	case utf8.RuneCountInString(s) == 1 || isGroup(s):
		return s + starToken
	default:
		return "(" + s + ")" + starToken
	}
}

// isGroup reports whether ``s`` is a single parenthesized expression, like
// "(a+b)" but not "(a)(b)".
func isGroup(s string) bool {
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return false
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return true
}

// concatJoin concatenates regex fragments, dropping empty words:
//
//	concatJoin("a", "", "b") -> "ab"
//	concatJoin("$", "$") -> "$"
func concatJoin(parts ...string) string {
	var sb strings.Builder
	for _, part := range parts {
		if part == "" || part == epsilonToken {
			continue
		}
		sb.WriteString(part)
	}
	if sb.Len() == 0 {
		return epsilonToken
	}
	return sb.String()
}

// orJoin joins a series of strings together in a union, ignoring empty
// strings:
//
//	orJoin({"a"}) -> "a"
//	orJoin({"a", "b"}) -> "(a+b)"
//	orJoin({"", "a", "b"}) -> "(a+b)"
func orJoin(inputStrs []string) string {
	strs := make([]string, 0, len(inputStrs))
	for _, s := range inputStrs {
		if len(s) > 0 {
			strs = append(strs, s)
		}
	}

	switch len(strs) {
	case 0:
		return ""
	case 1:
		return strs[0]
	default:
		return "(" + strings.Join(strs, unionToken) + ")"
	}
}

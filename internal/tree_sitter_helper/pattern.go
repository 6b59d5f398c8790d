package treesitterhelper

import (
	"slices"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Pattern defines a pattern that can be matched against a tree-sitter node
type Pattern interface {
	Matches(node *tree_sitter.Node, content []byte) bool
}

// Create a pattern from a function
func FuncPattern(matchFunc func(node *tree_sitter.Node, content []byte) bool) Pattern {
	return &funcPattern{matchFunc: matchFunc}
}

type funcPattern struct {
	matchFunc func(node *tree_sitter.Node, content []byte) bool
}

func (p *funcPattern) Matches(node *tree_sitter.Node, content []byte) bool {
	return p.matchFunc(node, content)
}

// Chain multiple patterns using AND logic
func And(patterns ...Pattern) Pattern {
	return &andPattern{patterns: patterns}
}

type andPattern struct {
	patterns []Pattern
}

func (p *andPattern) Matches(node *tree_sitter.Node, content []byte) bool {
	for _, pattern := range p.patterns {
		if !pattern.Matches(node, content) {
			return false
		}
	}
	return true
}

// Chain multiple patterns using OR logic
func Or(patterns ...Pattern) Pattern {
	return &orPattern{patterns: patterns}
}

type orPattern struct {
	patterns []Pattern
}

func (p *orPattern) Matches(node *tree_sitter.Node, content []byte) bool {
	for _, pattern := range p.patterns {
		if pattern.Matches(node, content) {
			return true
		}
	}
	return false
}

// Match a node's kind
func NodeKind(kind string) Pattern {
	return &anyNodeKindPattern{kinds: []string{kind}}
}

// Match any of the node kinds
func AnyNodeKind(kinds ...string) Pattern {
	return &anyNodeKindPattern{kinds: kinds}
}

type anyNodeKindPattern struct {
	kinds []string
}

func (p *anyNodeKindPattern) Matches(node *tree_sitter.Node, content []byte) bool {
	return slices.Contains(p.kinds, node.Kind())
}

// Match a node's text content, ignoring surrounding quotes
func NodeText(texts ...string) Pattern {
	return &nodeTextPattern{texts: texts}
}

type nodeTextPattern struct {
	texts []string
}

func (p *nodeTextPattern) Matches(node *tree_sitter.Node, content []byte) bool {
	return slices.Contains(p.texts, GetNodeText(node, content))
}

// Match the child stored under a grammar field name
func Field(name string, pattern Pattern) Pattern {
	return &fieldPattern{name: name, pattern: pattern}
}

type fieldPattern struct {
	name    string
	pattern Pattern
}

func (p *fieldPattern) Matches(node *tree_sitter.Node, content []byte) bool {
	child := node.ChildByFieldName(p.name)
	return child != nil && p.pattern.Matches(child, content)
}

// Utility function to find all nodes matching a pattern, in document order
func FindAll(root *tree_sitter.Node, pattern Pattern, content []byte) []*tree_sitter.Node {
	var results []*tree_sitter.Node

	var visit func(node *tree_sitter.Node)
	visit = func(node *tree_sitter.Node) {
		if pattern.Matches(node, content) {
			results = append(results, node)
		}

		for i := 0; i < int(node.NamedChildCount()); i++ {
			visit(node.NamedChild(uint(i)))
		}
	}

	visit(root)
	return results
}

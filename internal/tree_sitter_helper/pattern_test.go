package treesitterhelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

func parseJS(t *testing.T, code string) *tree_sitter.Node {
	parser := tree_sitter.NewParser()
	t.Cleanup(func() { parser.Close() })

	require.NoError(t, parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_javascript.Language())))

	tree := parser.Parse([]byte(code), nil)
	t.Cleanup(func() { tree.Close() })

	return tree.RootNode()
}

func firstMatch(t *testing.T, root *tree_sitter.Node, pattern Pattern, content []byte) *tree_sitter.Node {
	t.Helper()
	nodes := FindAll(root, pattern, content)
	require.NotEmpty(t, nodes)
	return nodes[0]
}

func TestPatternComposition(t *testing.T) {
	code := `foo('a'); bar("b"); baz(1);`
	root := parseJS(t, code)
	content := []byte(code)

	calls := FindAll(root, NodeKind("call_expression"), content)
	require.Len(t, calls, 3)

	withString := And(NodeKind("call_expression"), Field("arguments", FuncPattern(func(node *tree_sitter.Node, content []byte) bool {
		return node.NamedChildCount() > 0 && node.NamedChild(0).Kind() == "string"
	})))
	assert.True(t, withString.Matches(calls[0], content))
	assert.True(t, withString.Matches(calls[1], content))
	assert.False(t, withString.Matches(calls[2], content))

	named := Field("function", NodeText("foo", "baz"))
	assert.True(t, named.Matches(calls[0], content))
	assert.False(t, named.Matches(calls[1], content))

	assert.True(t, Or(named, withString).Matches(calls[1], content))
	assert.False(t, Field("missing", AnyNodeKind("identifier")).Matches(calls[0], content))
}

func TestNodeTextIgnoresQuotes(t *testing.T) {
	code := `x = 'value'`
	root := parseJS(t, code)

	node := firstMatch(t, root, NodeKind("string"), []byte(code))
	assert.True(t, NodeText("value").Matches(node, []byte(code)))
	assert.Equal(t, "value", GetNodeText(node, []byte(code)))
}

func TestFindAll_NoMatch(t *testing.T) {
	code := `const a = 1`
	root := parseJS(t, code)
	assert.Empty(t, FindAll(root, NodeKind("string"), []byte(code)))
}

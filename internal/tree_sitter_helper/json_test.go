package treesitterhelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_json "github.com/tree-sitter/tree-sitter-json/bindings/go"
)

func parseJSON(t *testing.T, code string) *tree_sitter.Node {
	parser := tree_sitter.NewParser()
	t.Cleanup(func() { parser.Close() })

	require.NoError(t, parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_json.Language())))

	tree := parser.Parse([]byte(code), nil)
	t.Cleanup(func() { tree.Close() })

	return tree.RootNode()
}

func TestJSONObjectPairs(t *testing.T) {
	code := `{"b": "1", "a": {"x": true}, "esc\"aped": "line\nbreak", "b": "2"}`
	content := []byte(code)

	object := JSONRootObject(parseJSON(t, code))
	require.NotNil(t, object)

	pairs := JSONObjectPairs(object, content)
	require.Len(t, pairs, 4)

	var keys []string
	for _, pair := range pairs {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"b", "a", `esc"aped`, "b"}, keys)

	value, ok := JSONString(JSONObjectValue(object, content, "b"), content)
	assert.True(t, ok)
	assert.Equal(t, "2", value, "Repeated keys resolve to the last value")

	value, ok = JSONString(JSONObjectValue(object, content, `esc"aped`), content)
	assert.True(t, ok)
	assert.Equal(t, "line\nbreak", value)

	nested := JSONObjectValue(object, content, "a")
	require.NotNil(t, nested)
	assert.Len(t, JSONObjectPairs(nested, content), 1)

	_, ok = JSONString(nested, content)
	assert.False(t, ok)
	assert.Nil(t, JSONObjectValue(object, content, "missing"))
}

func TestJSONRootObject_NotAnObject(t *testing.T) {
	assert.Nil(t, JSONRootObject(parseJSON(t, `[1, 2]`)))
	assert.Empty(t, JSONObjectPairs(nil, nil))
}

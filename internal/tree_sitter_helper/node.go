package treesitterhelper

import (
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// GetFirstNodeOfKind returns the first direct child of the given kind
func GetFirstNodeOfKind(node *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// GetNodeText returns the node text without surrounding quotes
func GetNodeText(node *tree_sitter.Node, docText []byte) string {
	return strings.Trim(strings.Trim(node.Utf8Text(docText), "\""), "'")
}

// StringValue decodes a JavaScript string literal node. Fragments are
// concatenated and escape sequences decoded; ok is false for other node kinds.
func StringValue(node *tree_sitter.Node, content []byte) (string, bool) {
	if node == nil || node.Kind() != "string" {
		return "", false
	}

	var sb strings.Builder
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		switch child.Kind() {
		case "string_fragment":
			sb.WriteString(child.Utf8Text(content))
		case "escape_sequence":
			sb.WriteString(DecodeEscape(child.Utf8Text(content)))
		}
	}

	return sb.String(), true
}

// DecodeEscape decodes a single backslash escape sequence. Unknown escapes
// resolve to the escaped character, the way JavaScript treats them.
func DecodeEscape(seq string) string {
	if decoded, err := strconv.Unquote(`"` + seq + `"`); err == nil {
		return decoded
	}
	return strings.TrimPrefix(seq, "\\")
}

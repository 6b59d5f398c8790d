package treesitterhelper

import (
	"fmt"
	"io"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// PrintAllNodes writes the syntax tree below node, one node per line
func PrintAllNodes(w io.Writer, node *tree_sitter.Node, content []byte, indent string) {
	field := ""
	if parent := node.Parent(); parent != nil {
		for i := 0; i < int(parent.ChildCount()); i++ {
			if parent.Child(uint(i)).Id() == node.Id() {
				if name := parent.FieldNameForChild(uint32(i)); name != "" {
					field = name + ": "
				}
				break
			}
		}
	}

	if node.ChildCount() == 0 {
		fmt.Fprintf(w, "%s%s%s %q\n", indent, field, node.Kind(), node.Utf8Text(content))
	} else {
		fmt.Fprintf(w, "%s%s%s\n", indent, field, node.Kind())
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		PrintAllNodes(w, node.Child(uint(i)), content, indent+"  ")
	}
}

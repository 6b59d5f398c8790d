package treesitterhelper

import (
	"encoding/json"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// JSONRootObject returns the top level object of a parsed JSON document
func JSONRootObject(root *tree_sitter.Node) *tree_sitter.Node {
	if root.Kind() == "document" {
		return GetFirstNodeOfKind(root, "object")
	}
	if root.Kind() == "object" {
		return root
	}
	return nil
}

// JSONString decodes a JSON string node, including its escape sequences
func JSONString(node *tree_sitter.Node, content []byte) (string, bool) {
	if node == nil || node.Kind() != "string" {
		return "", false
	}

	var value string
	if err := json.Unmarshal([]byte(node.Utf8Text(content)), &value); err != nil {
		return "", false
	}
	return value, true
}

// JSONPair is a key/value pair of a JSON object in document order
type JSONPair struct {
	Key   string
	Value *tree_sitter.Node
}

// JSONObjectPairs lists the pairs of an object node in document order.
// Pairs with a key that is not a valid string are skipped.
func JSONObjectPairs(object *tree_sitter.Node, content []byte) []JSONPair {
	if object == nil || object.Kind() != "object" {
		return nil
	}

	var pairs []JSONPair
	for i := 0; i < int(object.NamedChildCount()); i++ {
		pair := object.NamedChild(uint(i))
		if pair.Kind() != "pair" {
			continue
		}

		key, ok := JSONString(pair.ChildByFieldName("key"), content)
		value := pair.ChildByFieldName("value")
		if !ok || value == nil {
			continue
		}
		pairs = append(pairs, JSONPair{Key: key, Value: value})
	}

	return pairs
}

// JSONObjectValue returns the value stored under key, the last one if the key repeats
func JSONObjectValue(object *tree_sitter.Node, content []byte, key string) *tree_sitter.Node {
	var value *tree_sitter.Node
	for _, pair := range JSONObjectPairs(object, content) {
		if pair.Key == key {
			value = pair.Value
		}
	}
	return value
}

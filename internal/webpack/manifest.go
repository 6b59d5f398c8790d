package webpack

import (
	"fmt"
	"os"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_json "github.com/tree-sitter/tree-sitter-json/bindings/go"
	treesitterhelper "github.com/wanfu920/jumpToAliasFile/internal/tree_sitter_helper"
)

// Script is one entry of the package.json "scripts" object
type Script struct {
	Name    string
	Command string
}

// Manifest holds the parts of a package.json discovery cares about.
// Scripts keep their order of appearance in the file.
type Manifest struct {
	Dependencies    map[string]string
	DevDependencies map[string]string
	Scripts         []Script
}

// HasWebpack reports whether webpack is a direct or dev dependency
func (m *Manifest) HasWebpack() bool {
	if _, ok := m.Dependencies["webpack"]; ok {
		return true
	}
	_, ok := m.DevDependencies["webpack"]
	return ok
}

// ReadManifest reads and parses the package.json at path
func ReadManifest(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	manifest, err := ParseManifest(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return manifest, nil
}

// ParseManifest parses package.json content
func ParseManifest(content []byte) (*Manifest, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_json.Language())); err != nil {
		return nil, fmt.Errorf("failed to set json language: %w", err)
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse json")
	}
	defer tree.Close()

	root := treesitterhelper.JSONRootObject(tree.RootNode())
	if root == nil {
		return nil, fmt.Errorf("manifest is not a json object")
	}

	manifest := &Manifest{
		Dependencies:    stringMap(treesitterhelper.JSONObjectValue(root, content, "dependencies"), content),
		DevDependencies: stringMap(treesitterhelper.JSONObjectValue(root, content, "devDependencies"), content),
	}

	for _, pair := range treesitterhelper.JSONObjectPairs(treesitterhelper.JSONObjectValue(root, content, "scripts"), content) {
		command, ok := treesitterhelper.JSONString(pair.Value, content)
		if !ok {
			continue
		}
		manifest.Scripts = append(manifest.Scripts, Script{Name: pair.Key, Command: command})
	}

	return manifest, nil
}

// stringMap collects the pairs of an object node. Non-string values are kept
// with an empty value so that key presence is still visible.
func stringMap(object *tree_sitter.Node, content []byte) map[string]string {
	values := make(map[string]string)
	for _, pair := range treesitterhelper.JSONObjectPairs(object, content) {
		value, _ := treesitterhelper.JSONString(pair.Value, content)
		values[pair.Key] = value
	}
	return values
}

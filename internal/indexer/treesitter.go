package indexer

import (
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_json "github.com/tree-sitter/tree-sitter-json/bindings/go"
)

var scannedFileTypes = []string{
	".js",
	".cjs",
	".mjs",
	".json",
}

// CreateTreesitterParsers creates one parser per scanned file extension.
// Parsers are not safe for concurrent use; every goroutine needs its own set.
func CreateTreesitterParsers() map[string]*tree_sitter.Parser {
	parsers := make(map[string]*tree_sitter.Parser)

	javascript := tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	json := tree_sitter.NewLanguage(tree_sitter_json.Language())

	for _, ext := range scannedFileTypes {
		parser := tree_sitter.NewParser()
		if ext == ".json" {
			_ = parser.SetLanguage(json)
		} else {
			_ = parser.SetLanguage(javascript)
		}
		parsers[ext] = parser
	}

	return parsers
}

// CloseTreesitterParsers releases parsers created by CreateTreesitterParsers
func CloseTreesitterParsers(parsers map[string]*tree_sitter.Parser) {
	for _, parser := range parsers {
		parser.Close()
	}
}

// ParserForFile returns the parser responsible for path, or nil
func ParserForFile(parsers map[string]*tree_sitter.Parser, path string) *tree_sitter.Parser {
	return parsers[strings.ToLower(filepath.Ext(path))]
}

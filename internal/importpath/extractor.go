// Package importpath finds module paths in single lines of JavaScript,
// TypeScript and Vue source.
package importpath

import (
	"regexp"
	"unicode/utf8"

	"github.com/wanfu920/jumpToAliasFile/internal/lsp/protocol"
)

// quoted matches a single or double quoted string. The closing quote must
// match the opening one, so the path is in capture group 1 or 2.
const quoted = `(?:'([^'\n]*)'|"([^"\n]*)")`

// Import forms in priority order. Only the first form that matches a line is used.
var importForms = []*regexp.Regexp{
	// import Foo from '...', import { a, b } from "...", import * as x from '...'
	regexp.MustCompile(`\bimport\b[^'"]*?\bfrom\s*` + quoted),
	// import('...')
	regexp.MustCompile(`\bimport\s*\(\s*` + quoted),
	// require('...')
	regexp.MustCompile(`\brequire\s*\(\s*` + quoted),
	// import '...'
	regexp.MustCompile(`\bimport\s*` + quoted),
}

// Span is a module path found on a line together with its exact position.
// The range excludes the quotes and is end-exclusive.
type Span struct {
	Path  string
	Range protocol.Range
}

// Contains reports whether a cursor at line/character touches the path text.
// A cursor directly after the last character still counts.
func (s Span) Contains(line, character int) bool {
	if line < s.Range.Start.Line || line > s.Range.End.Line {
		return false
	}
	if line == s.Range.Start.Line && character < s.Range.Start.Character {
		return false
	}
	if line == s.Range.End.Line && character > s.Range.End.Character {
		return false
	}
	return true
}

// Extract returns the first import path on the line. Columns are counted in
// UTF-16 code units, the unit LSP clients use for positions.
func Extract(line string, lineNumber int) (Span, bool) {
	for _, form := range importForms {
		loc := form.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}

		start, end := loc[2], loc[3]
		if start < 0 {
			start, end = loc[4], loc[5]
		}
		if start < 0 || start == end {
			// empty path, treat the line as having no import
			return Span{}, false
		}

		return Span{
			Path: line[start:end],
			Range: protocol.Range{
				Start: protocol.Position{Line: lineNumber, Character: utf16Len(line[:start])},
				End:   protocol.Position{Line: lineNumber, Character: utf16Len(line[:end])},
			},
		}, true
	}

	return Span{}, false
}

func utf16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

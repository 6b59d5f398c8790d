// Package resolver turns the import path under a cursor into the file it refers to.
package resolver

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/wanfu920/jumpToAliasFile/internal/alias"
	"github.com/wanfu920/jumpToAliasFile/internal/importpath"
)

// SourceExtensions lists the document types definition requests are answered for.
var SourceExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".vue"}

// AliasSource supplies the alias table used for one resolution.
type AliasSource interface {
	Snapshot() alias.Table
}

// Request describes a cursor position in a source file.
type Request struct {
	// FilePath is the absolute path of the document the cursor is in
	FilePath string
	// Line is the text of the line the cursor is on
	Line       string
	LineNumber int
	Character  int
}

// Target is the file a definition request jumps to. The jump always lands on
// the first line and column of the file.
type Target struct {
	Path string
}

// Resolver resolves import paths against a workspace's alias table.
type Resolver struct {
	root    string
	aliases AliasSource
}

// NewResolver creates a resolver. Relative alias replacements are anchored at root.
func NewResolver(root string, aliases AliasSource) *Resolver {
	return &Resolver{
		root:    root,
		aliases: aliases,
	}
}

// IsSourceFile reports whether definition requests are served for path.
func IsSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, sourceExt := range SourceExtensions {
		if ext == sourceExt {
			return true
		}
	}
	return false
}

// Resolve returns the file the import path under the cursor refers to.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Target, bool) {
	span, ok := importpath.Extract(req.Line, req.LineNumber)
	if !ok || !span.Contains(req.LineNumber, req.Character) {
		return Target{}, false
	}

	resolved, ok := alias.Resolve(span.Path, r.aliases.Snapshot())
	if ok {
		resolved = r.anchor(resolved)
	} else if strings.HasSuffix(req.FilePath, ".vue") && strings.HasPrefix(span.Path, ".") {
		// editors do not follow relative imports inside .vue single file components
		resolved = filepath.Join(filepath.Dir(req.FilePath), span.Path)
		ok = true
	}

	if !ok {
		return Target{}, false
	}

	realPath, ok := ProbeExtension(ctx, resolved)
	if !ok {
		return Target{}, false
	}

	return Target{Path: realPath}, true
}

func (r *Resolver) anchor(path string) string {
	if filepath.IsAbs(path) || r.root == "" {
		return path
	}
	return filepath.Join(r.root, path)
}

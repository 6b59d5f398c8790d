package resolver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Extensions are tried in this order when an import omits the file extension.
var Extensions = []string{".js", ".ts", ".json", ".jsx", ".tsx", ".vue", ".css", ".mcss", ".scss", ".less", ".html"}

// ProbeExtension turns a module path into the path of a real file.
//
// A path whose last segment contains a dot is returned as is, without touching
// the filesystem. Otherwise the parent directory is listed and <base><ext> is
// tried for every extension in order. If only <base> exists, a regular file is
// returned directly and a directory is probed once more for its index file.
// Filesystem errors are reported as not found.
func ProbeExtension(ctx context.Context, path string) (string, bool) {
	if path == "" {
		return "", false
	}
	if strings.Contains(filepath.Base(path), ".") {
		return path, true
	}
	return probe(ctx, filepath.Clean(path), true)
}

func probe(ctx context.Context, path string, allowIndex bool) (string, bool) {
	dir, base := filepath.Split(path)
	if strings.Contains(base, ".") {
		return path, true
	}
	if base == "" {
		return "", false
	}

	if ctx.Err() != nil {
		return "", false
	}
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	names := make(map[string]bool, len(entries))
	for _, entry := range entries {
		names[entry.Name()] = true
	}

	for _, ext := range Extensions {
		if names[base+ext] {
			return filepath.Join(dir, base+ext), true
		}
	}

	if !names[base] {
		return "", false
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}

	switch {
	case info.Mode().IsRegular():
		return path, true
	case info.IsDir() && allowIndex:
		return probe(ctx, filepath.Join(path, "index"), false)
	}

	return "", false
}

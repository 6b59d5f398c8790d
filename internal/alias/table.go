// Package alias holds webpack-style alias tables and rewrites aliased module paths.
package alias

import (
	"maps"
	"slices"
	"strings"
)

// Table maps an alias key such as "@" to the directory it stands for.
type Table map[string]string

// Clone returns an independent copy of the table. A nil table clones to an empty one.
func (t Table) Clone() Table {
	clone := make(Table, len(t))
	maps.Copy(clone, t)
	return clone
}

// Keys returns the alias keys in sorted order.
func (t Table) Keys() []string {
	return slices.Sorted(maps.Keys(t))
}

// Equal reports whether both tables hold the same entries.
func (t Table) Equal(other Table) bool {
	return maps.Equal(t, other)
}

// Merge combines tables into a new one. Entries of later tables win on key collision.
func Merge(layers ...Table) Table {
	merged := make(Table)
	for _, layer := range layers {
		maps.Copy(merged, layer)
	}
	return merged
}

// Resolve rewrites path when its first "/" separated segment is exactly an alias key.
// The replacement always ends in a slash before the rest of the path is appended.
// It returns false when no key applies.
func Resolve(path string, table Table) (string, bool) {
	if len(table) == 0 {
		return "", false
	}

	first, rest, _ := strings.Cut(path, "/")
	for _, key := range table.Keys() {
		if key != first {
			continue
		}

		value := table[key]
		if !strings.HasSuffix(value, "/") {
			value += "/"
		}
		return value + rest, true
	}

	return "", false
}

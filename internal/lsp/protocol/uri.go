package protocol

import (
	"net/url"
	"path/filepath"
	"strings"
)

// URIToPath converts a file:// URI into a filesystem path
func URIToPath(uri string) string {
	path := strings.TrimPrefix(uri, "file://")
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	return filepath.FromSlash(path)
}

// PathToURI converts a filesystem path into a file:// URI
func PathToURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

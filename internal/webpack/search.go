package webpack

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const maxSearchDepth = 5

var configFilePattern = regexp.MustCompile(`^webpack\..*\.js$`)

// ConfigPathsFromSearch walks every project directory looking for files named
// webpack.<anything>.js. Files of a directory are reported before the
// contents of its subdirectories.
func ConfigPathsFromSearch(projects []Project) []string {
	var paths []string
	for _, project := range projects {
		paths = append(paths, searchConfigFiles(project.Dir, 1)...)
	}
	return paths
}

func searchConfigFiles(dir string, depth int) []string {
	if depth > maxSearchDepth {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files, dirs []string
	for _, entry := range entries {
		name := entry.Name()
		if excludedDirs[name] {
			continue
		}
		if strings.Contains(name, ".") {
			if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".js") {
				continue
			}
			if !entry.IsDir() && configFilePattern.MatchString(name) {
				files = append(files, filepath.Join(dir, name))
			}
			continue
		}
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(dir, name))
		}
	}

	paths := files
	for _, sub := range dirs {
		paths = append(paths, searchConfigFiles(sub, depth+1)...)
	}
	return paths
}

// IsRelevantFile reports whether a change to path can affect discovered aliases
func IsRelevantFile(path string) bool {
	name := filepath.Base(path)
	return name == manifestName || configFilePattern.MatchString(name)
}

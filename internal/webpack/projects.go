package webpack

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

const manifestName = "package.json"

// excludedDirs are never treated as projects or searched for configs
var excludedDirs = map[string]bool{
	"test":         true,
	"node_modules": true,
}

// Project is a directory with a package.json that depends on webpack
type Project struct {
	Dir      string
	Manifest *Manifest
}

// ManifestPath returns the path of the project's package.json
func (p Project) ManifestPath() string {
	return filepath.Join(p.Dir, manifestName)
}

// ManifestCandidates lists the package.json files FindProjects looks at: the
// workspace root manifest if it exists, otherwise the manifests of immediate
// subdirectories. The root manifest is always listed so that its creation can
// be watched; the other files do not need to exist either.
func ManifestCandidates(root string) []string {
	rootManifest := filepath.Join(root, manifestName)
	if _, err := os.Stat(rootManifest); err == nil {
		return []string{rootManifest}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return []string{rootManifest}
	}

	candidates := []string{rootManifest}
	for _, entry := range entries {
		name := entry.Name()
		if excludedDirs[name] || strings.Contains(name, ".") {
			continue
		}
		candidates = append(candidates, filepath.Join(root, name, manifestName))
	}
	return candidates
}

// FindProjects returns the webpack projects of a workspace. A package.json at
// the root makes the root the only candidate; otherwise every immediate
// subdirectory with a package.json is a candidate. Candidates without a
// webpack dependency are dropped.
func FindProjects(root string) []Project {
	var projects []Project

	for _, manifestPath := range ManifestCandidates(root) {
		if _, err := os.Stat(manifestPath); err != nil {
			continue
		}

		manifest, err := ReadManifest(manifestPath)
		if err != nil {
			log.Printf("Skipping project: %v", err)
			continue
		}
		if !manifest.HasWebpack() {
			continue
		}

		projects = append(projects, Project{
			Dir:      filepath.Dir(manifestPath),
			Manifest: manifest,
		})
	}

	return projects
}

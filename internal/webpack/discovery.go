package webpack

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"github.com/wanfu920/jumpToAliasFile/internal/alias"
)

// Result is the outcome of one discovery run
type Result struct {
	Aliases  alias.Table
	Projects []Project
	// ConfigPaths are the deduplicated candidate configs in merge order
	ConfigPaths []string
	// WatchPaths are the files whose change can change the result
	WatchPaths []string
}

// Discoverer finds the webpack alias table of a workspace without any
// configuration from the user.
type Discoverer struct {
	root   string
	loader *Loader
}

func NewDiscoverer(root string, loader *Loader) *Discoverer {
	return &Discoverer{root: root, loader: loader}
}

// Discover returns the merged resolve.alias of every webpack config found in
// the workspace. It never fails; problems leave the table empty or partial.
func (d *Discoverer) Discover(ctx context.Context) alias.Table {
	return d.Run(ctx).Aliases
}

// Run performs discovery and reports which files it looked at
func (d *Discoverer) Run(ctx context.Context) Result {
	result := Result{
		Aliases:    alias.Table{},
		WatchPaths: ManifestCandidates(d.root),
	}

	result.Projects = FindProjects(d.root)
	if len(result.Projects) == 0 {
		return result
	}

	candidates := ConfigPathsFromScripts(result.Projects)
	candidates = append(candidates, ConfigPathsFromSearch(result.Projects)...)

	seen := make(map[string]bool, len(candidates))
	for _, configPath := range candidates {
		if seen[configPath] {
			continue
		}
		seen[configPath] = true
		result.ConfigPaths = append(result.ConfigPaths, configPath)
	}
	result.WatchPaths = append(result.WatchPaths, result.ConfigPaths...)

	for _, configPath := range result.ConfigPaths {
		if ctx.Err() != nil {
			log.Printf("Alias discovery canceled: %v", ctx.Err())
			return result
		}

		table, err := d.loader.Load(configPath, projectDirOf(result.Projects, configPath))
		if err != nil {
			log.Printf("Skipping webpack config: %v", err)
			continue
		}
		for key, value := range table {
			result.Aliases[key] = value
		}
	}

	log.Printf("Discovered %d aliases in %d webpack configs", len(result.Aliases), len(result.ConfigPaths))

	return result
}

// projectDirOf returns the directory of the project containing configPath
func projectDirOf(projects []Project, configPath string) string {
	best := ""
	for _, project := range projects {
		if isWithin(project.Dir, configPath) && len(project.Dir) > len(best) {
			best = project.Dir
		}
	}
	if best == "" && len(projects) > 0 {
		return projects[0].Dir
	}
	return best
}

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

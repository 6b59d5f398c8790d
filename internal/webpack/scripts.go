package webpack

import (
	"path/filepath"
	"strings"
)

const defaultConfigFile = "./webpack.config.js"

// ConfigPathsFromScripts collects the webpack config files referenced by the
// build scripts of each project, in project and script order.
func ConfigPathsFromScripts(projects []Project) []string {
	var paths []string
	for _, project := range projects {
		for _, script := range project.Manifest.Scripts {
			if configPath, ok := ConfigPathFromScript(script.Command); ok {
				paths = append(paths, filepath.Join(project.Dir, configPath))
			}
		}
	}
	return paths
}

// ConfigPathFromScript returns the config file a script passes to webpack.
// The script has to contain a bare `webpack` token. A `--config <path>` or
// `--config=<path>` after it names the file, otherwise webpack's default
// ./webpack.config.js is assumed.
func ConfigPathFromScript(command string) (string, bool) {
	tokens := strings.Fields(command)

	webpackIndex := -1
	for i, token := range tokens {
		if token == "webpack" {
			webpackIndex = i
			break
		}
	}
	if webpackIndex == -1 {
		return "", false
	}

	for i := webpackIndex + 1; i < len(tokens); i++ {
		token := tokens[i]
		if token == "--config" {
			if i+1 < len(tokens) {
				return tokens[i+1], true
			}
			break
		}
		if value, ok := strings.CutPrefix(token, "--config="); ok && value != "" {
			return value, true
		}
	}

	return defaultConfigFile, true
}

package main

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

const appName = "jumpToAliasFile"

var slugReplacer = strings.NewReplacer("/", "_", ":", "_", "\\", "_")

// projectState is the directory kept per workspace root:
//
//	<user config dir>/jumpToAliasFile/<root slug>/
//	    settings.json    last effective alias table, loaded before discovery finishes
//	    config-cache.db  parsed webpack configs keyed by path and content hash
type projectState struct {
	dir string
}

func (p projectState) SettingsPath() string {
	return filepath.Join(p.dir, "settings.json")
}

func (p projectState) CachePath() string {
	return filepath.Join(p.dir, "config-cache.db")
}

// getProjectState returns the state directory of projectRoot, creating it if needed
func getProjectState(projectRoot string) (projectState, error) {
	configDir, err := getUserConfigDir()
	if err != nil {
		return projectState{}, err
	}
	return openProjectState(configDir, projectRoot)
}

func openProjectState(configDir, projectRoot string) (projectState, error) {
	dir := filepath.Join(configDir, appName, slugReplacer.Replace(projectRoot))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return projectState{}, fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	return projectState{dir: dir}, nil
}

func getUserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		usr, err := user.Current()
		if err != nil {
			return "", fmt.Errorf("failed to get current user: %w", err)
		}
		return filepath.Join(usr.HomeDir, ".config"), nil
	}
	return configDir, nil
}

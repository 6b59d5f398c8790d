package main

import (
	"log"
	"os"

	"github.com/wanfu920/jumpToAliasFile/internal/alias"
	"github.com/wanfu920/jumpToAliasFile/internal/indexer"
	"github.com/wanfu920/jumpToAliasFile/internal/lsp"
	"github.com/wanfu920/jumpToAliasFile/internal/lsp/definition"
	"github.com/wanfu920/jumpToAliasFile/internal/webpack"
	"github.com/wanfu920/jumpToAliasFile/internal/workspace"
)

func main() {
	log.SetFlags(0)
	server := lsp.NewServer(newWorkspace)

	server.RegisterDefinitionProvider(definition.NewAliasDefinitionProvider(server))

	if err := server.Start(os.Stdin, os.Stdout); err != nil {
		log.Fatalf("LSP server error: %v", err)
	}
}

// newWorkspace wires persistence and the config cache for the project at root
func newWorkspace(root string) (*workspace.Configuration, error) {
	state, err := getProjectState(root)
	if err != nil {
		return nil, err
	}

	cache, err := indexer.NewFileCache[alias.Table](state.CachePath())
	if err != nil {
		// Parsing without a cache still works
		log.Printf("Warning: Failed to open config cache: %v", err)
		cache = nil
	}

	settingsFile := workspace.NewSettingsFile(state.SettingsPath())
	store := alias.NewStore(settingsFile)

	return workspace.NewConfiguration(root, store, webpack.NewLoader(cache)), nil
}

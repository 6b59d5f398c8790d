package workspace

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/wanfu920/jumpToAliasFile/internal/alias"
	"github.com/wanfu920/jumpToAliasFile/internal/indexer"
	"github.com/wanfu920/jumpToAliasFile/internal/webpack"
)

// Configuration keeps the alias store of a workspace in sync with the user
// settings, the configured webpack config and the webpack configs found in
// the workspace.
type Configuration struct {
	root       string
	store      *alias.Store
	loader     *webpack.Loader
	discoverer *webpack.Discoverer
	watcher    *indexer.Watcher

	// generation increases with every ApplySettings call; only the latest is applied
	generation atomic.Uint64
	applyMu    sync.Mutex

	mu             sync.Mutex
	settings       Settings
	discoveryFiles []string

	discoverMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConfiguration creates the configuration service of the workspace at root
func NewConfiguration(root string, store *alias.Store, loader *webpack.Loader) *Configuration {
	ctx, cancel := context.WithCancel(context.Background())

	return &Configuration{
		root:       root,
		store:      store,
		loader:     loader,
		discoverer: webpack.NewDiscoverer(root, loader),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// NewDefaultConfiguration creates a configuration service without persistence or caching
func NewDefaultConfiguration(root string) *Configuration {
	return NewConfiguration(root, alias.NewStore(nil), webpack.NewLoader(nil))
}

// EnableWatching reloads aliases when a webpack config or project manifest changes
func (c *Configuration) EnableWatching() error {
	watcher, err := indexer.NewWatcher(c.handleChanges)
	if err != nil {
		return fmt.Errorf("failed to enable config watching: %w", err)
	}

	c.mu.Lock()
	c.watcher = watcher
	c.mu.Unlock()

	c.updateWatchedFiles()
	return nil
}

func (c *Configuration) Root() string {
	return c.root
}

func (c *Configuration) Store() *alias.Store {
	return c.store
}

// Settings returns the last applied settings
func (c *Configuration) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Settings{Alias: c.settings.Alias.Clone(), WebpeckConfigPath: c.settings.WebpeckConfigPath}
}

// Start applies the initial settings. Without explicit aliases, discovery
// runs in the background while the store keeps serving what it has.
func (c *Configuration) Start(settings Settings) {
	c.ApplySettings(c.ctx, settings)

	if len(settings.Alias) > 0 {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.Rediscover(c.ctx)
	}()
}

// ApplySettings replaces the explicit aliases and, when the configured webpack
// config path changed, reloads the aliases of that file.
func (c *Configuration) ApplySettings(ctx context.Context, settings Settings) {
	generation := c.generation.Add(1)

	c.mu.Lock()
	previous := c.settings.WebpeckConfigPath
	c.mu.Unlock()

	configPath := settings.WebpeckConfigPath
	reload := configPath != "" && configPath != previous

	var fileAliases alias.Table
	if reload {
		fileAliases = c.loadConfigFile(configPath)
	}

	c.applyMu.Lock()
	defer c.applyMu.Unlock()

	if ctx.Err() != nil || c.generation.Load() != generation {
		return
	}

	c.mu.Lock()
	c.settings = Settings{Alias: settings.Alias.Clone(), WebpeckConfigPath: configPath}
	c.mu.Unlock()

	c.store.Set(alias.LayerExplicit, settings.Alias)
	switch {
	case reload:
		c.store.Set(alias.LayerConfigFile, fileAliases)
	case configPath == "":
		c.store.Set(alias.LayerConfigFile, nil)
	}

	c.updateWatchedFiles()
}

// Rediscover searches the workspace for webpack configs again and replaces
// the discovered aliases with the result.
func (c *Configuration) Rediscover(ctx context.Context) alias.Table {
	c.discoverMu.Lock()
	defer c.discoverMu.Unlock()

	result := c.discoverer.Run(ctx)
	if ctx.Err() != nil {
		return result.Aliases
	}

	c.store.Set(alias.LayerDiscovered, result.Aliases)

	c.mu.Lock()
	c.discoveryFiles = result.WatchPaths
	c.mu.Unlock()

	c.updateWatchedFiles()
	return result.Aliases
}

// ConfigFilePath returns the absolute path of the configured webpack config, or ""
func (c *Configuration) ConfigFilePath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolveConfigPath(c.settings.WebpeckConfigPath)
}

func (c *Configuration) resolveConfigPath(configPath string) string {
	if configPath == "" {
		return ""
	}
	if filepath.IsAbs(configPath) {
		return filepath.Clean(configPath)
	}
	return filepath.Join(c.root, configPath)
}

// loadConfigFile reads the aliases of the configured webpack config. Failures
// leave the layer empty.
func (c *Configuration) loadConfigFile(configPath string) alias.Table {
	table, err := c.loader.Load(c.resolveConfigPath(configPath), c.root)
	if err != nil {
		log.Printf("Error loading webpeckConfigPath: %v", err)
		return alias.Table{}
	}
	return table
}

// FilesChanged handles change notifications from the client. Paths that
// cannot affect any alias layer are ignored.
func (c *Configuration) FilesChanged(ctx context.Context, paths []string) {
	configFile := c.ConfigFilePath()

	var relevant []string
	for _, path := range paths {
		path = filepath.Clean(path)
		if path == configFile || webpack.IsRelevantFile(path) {
			relevant = append(relevant, path)
		}
	}
	if len(relevant) == 0 {
		return
	}

	c.handleChanges(ctx, relevant)
}

func (c *Configuration) handleChanges(ctx context.Context, changed []string) {
	configFile := c.ConfigFilePath()

	c.mu.Lock()
	explicit := len(c.settings.Alias) > 0
	configPath := c.settings.WebpeckConfigPath
	c.mu.Unlock()

	reloadConfigFile := false
	rediscover := false
	for _, path := range changed {
		if path == configFile {
			reloadConfigFile = true
		} else {
			rediscover = true
		}
	}

	c.loader.Forget(changed)

	if reloadConfigFile {
		log.Printf("Reloading aliases of %s", configFile)
		table := c.loadConfigFile(configPath)

		c.applyMu.Lock()
		if c.ConfigFilePath() == configFile {
			c.store.Set(alias.LayerConfigFile, table)
		}
		c.applyMu.Unlock()
	}

	if rediscover && !explicit {
		c.Rediscover(ctx)
	}
}

func (c *Configuration) updateWatchedFiles() {
	c.mu.Lock()
	watcher := c.watcher
	files := append([]string(nil), c.discoveryFiles...)
	if configFile := c.resolveConfigPath(c.settings.WebpeckConfigPath); configFile != "" {
		files = append(files, configFile)
	}
	c.mu.Unlock()

	if watcher != nil {
		watcher.SetFiles(files)
	}
}

// Close stops background work and releases the loader
func (c *Configuration) Close() error {
	c.cancel()
	c.wg.Wait()

	c.mu.Lock()
	watcher := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if watcher != nil {
		if err := watcher.Close(); err != nil {
			log.Printf("Error closing config watcher: %v", err)
		}
	}

	return c.loader.Close()
}

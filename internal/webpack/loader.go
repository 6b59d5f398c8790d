package webpack

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/patrickmn/go-cache"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"github.com/wanfu920/jumpToAliasFile/internal/alias"
	"github.com/wanfu920/jumpToAliasFile/internal/indexer"
)

// Loader reads the alias table of config files. Results are kept in memory
// by content hash, and in the persistent cache when one is configured.
type Loader struct {
	mu      sync.Mutex
	parsers map[string]*tree_sitter.Parser
	cache   *indexer.FileCache[alias.Table]
	memory  *cache.Cache
}

type loadedConfig struct {
	hash  uint64
	table alias.Table
}

// NewLoader creates a loader. fileCache may be nil.
func NewLoader(fileCache *indexer.FileCache[alias.Table]) *Loader {
	return &Loader{
		parsers: indexer.CreateTreesitterParsers(),
		cache:   fileCache,
		memory:  cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

// Load returns the resolve.alias entries of the config file at path. cwd is
// the directory the config would be run from.
func (l *Loader) Load(path, cwd string) (alias.Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	hash := indexer.HashContent(append([]byte(cwd+"\x00"), content...))

	if item, ok := l.memory.Get(path); ok {
		if loaded := item.(loadedConfig); loaded.hash == hash {
			return loaded.table.Clone(), nil
		}
	}

	if l.cache != nil {
		cached, ok, err := l.cache.Get(path, hash)
		if err != nil {
			log.Printf("Error reading config cache for %s: %v", path, err)
		} else if ok {
			l.memory.Set(path, loadedConfig{hash: hash, table: cached.Clone()}, cache.DefaultExpiration)
			return cached, nil
		}
	}

	l.mu.Lock()
	parser := indexer.ParserForFile(l.parsers, path)
	if parser == nil {
		l.mu.Unlock()
		return nil, fmt.Errorf("unsupported config file type: %s", path)
	}
	table, err := ExtractAliases(parser, content, path, cwd)
	l.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to extract aliases from %s: %w", path, err)
	}

	l.memory.Set(path, loadedConfig{hash: hash, table: table.Clone()}, cache.DefaultExpiration)

	if l.cache != nil {
		if err := l.cache.Put(path, hash, table); err != nil {
			log.Printf("Error writing config cache for %s: %v", path, err)
		}
	}

	return table, nil
}

// Forget drops cached results of the given files
func (l *Loader) Forget(paths []string) {
	for _, path := range paths {
		l.memory.Delete(path)
	}

	if l.cache == nil {
		return
	}
	if err := l.cache.Remove(paths); err != nil {
		log.Printf("Error removing config cache entries: %v", err)
	}
}

// Close releases the parsers and the cache
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	indexer.CloseTreesitterParsers(l.parsers)
	l.parsers = nil
	l.memory.Flush()

	if l.cache != nil {
		return l.cache.Close()
	}
	return nil
}

package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanfu920/jumpToAliasFile/internal/alias"
	"github.com/wanfu920/jumpToAliasFile/internal/webpack"
)

// writeFiles creates files below dir
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newTestConfiguration(t *testing.T, root string) *Configuration {
	t.Helper()
	c := NewConfiguration(root, alias.NewStore(nil), webpack.NewLoader(nil))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

const webpackProject = `{"scripts": {"build": "webpack"}, "devDependencies": {"webpack": "5"}}`

func TestConfiguration_StartDiscovers(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":      webpackProject,
		"webpack.config.js": `module.exports = { resolve: { alias: { '@': 'src' } } }`,
	})

	c := newTestConfiguration(t, root)
	c.Start(Settings{})

	assert.Eventually(t, func() bool {
		return c.Store().Snapshot()["@"] == "src"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestConfiguration_ExplicitAliasSkipsDiscovery(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":      webpackProject,
		"webpack.config.js": `module.exports = { resolve: { alias: { found: 'src' } } }`,
	})

	c := newTestConfiguration(t, root)
	c.Start(Settings{Alias: alias.Table{"@": "app"}})
	c.wg.Wait()

	assert.Equal(t, alias.Table{"@": "app"}, c.Store().Snapshot())
}

func TestConfiguration_WebpeckConfigPath(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"build/custom.js": `
const path = require('path')
module.exports = { resolve: { alias: { '@': path.resolve(__dirname, '../src'), shared: 'file' } } }
`,
	})

	c := newTestConfiguration(t, root)
	ctx := context.Background()

	c.ApplySettings(ctx, Settings{
		Alias:             alias.Table{"shared": "explicit"},
		WebpeckConfigPath: "build/custom.js",
	})

	assert.Equal(t, alias.Table{
		"@":      filepath.Join(root, "src"),
		"shared": "explicit",
	}, c.Store().Snapshot())
	assert.Equal(t, filepath.Join(root, "build/custom.js"), c.ConfigFilePath())

	// an unchanged path is not reloaded
	require.NoError(t, os.WriteFile(filepath.Join(root, "build/custom.js"), []byte(`module.exports = {}`), 0o644))
	c.ApplySettings(ctx, Settings{WebpeckConfigPath: "build/custom.js"})
	assert.Equal(t, alias.Table{"@": filepath.Join(root, "src"), "shared": "file"}, c.Store().Snapshot())

	// clearing the path drops its aliases
	c.ApplySettings(ctx, Settings{})
	assert.Empty(t, c.Store().Snapshot())
}

func TestConfiguration_MissingConfigFile(t *testing.T) {
	c := newTestConfiguration(t, t.TempDir())
	c.ApplySettings(context.Background(), Settings{WebpeckConfigPath: "missing.js"})
	assert.Empty(t, c.Store().Snapshot())
}

func TestConfiguration_LatestSettingsWin(t *testing.T) {
	c := newTestConfiguration(t, t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.ApplySettings(context.Background(), Settings{Alias: alias.Table{"@": string(rune('a' + i))}})
		}(i)
	}
	wg.Wait()

	final := Settings{Alias: alias.Table{"@": "final"}}
	c.ApplySettings(context.Background(), final)
	assert.Equal(t, alias.Table{"@": "final"}, c.Store().Snapshot())
	assert.Equal(t, final, c.Settings())
}

func TestConfiguration_Rediscover(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":      webpackProject,
		"webpack.config.js": `module.exports = { resolve: { alias: { a: 'one' } } }`,
	})

	c := newTestConfiguration(t, root)
	assert.Equal(t, alias.Table{"a": "one"}, c.Rediscover(context.Background()))

	writeFiles(t, root, map[string]string{
		"webpack.config.js": `module.exports = { resolve: { alias: { b: 'two' } } }`,
	})
	assert.Equal(t, alias.Table{"b": "two"}, c.Rediscover(context.Background()))
	assert.Equal(t, alias.Table{"b": "two"}, c.Store().Snapshot())
}

func TestConfiguration_WatchesConfigFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":      webpackProject,
		"webpack.config.js": `module.exports = { resolve: { alias: { a: 'one' } } }`,
		"custom.js":         `module.exports = { resolve: { alias: { c: 'first' } } }`,
	})

	c := newTestConfiguration(t, root)
	require.NoError(t, c.EnableWatching())
	c.Start(Settings{WebpeckConfigPath: "custom.js"})

	assert.Eventually(t, func() bool {
		snapshot := c.Store().Snapshot()
		return snapshot["a"] == "one" && snapshot["c"] == "first"
	}, 5*time.Second, 10*time.Millisecond)

	writeFiles(t, root, map[string]string{
		"webpack.config.js": `module.exports = { resolve: { alias: { a: 'two' } } }`,
		"custom.js":         `module.exports = { resolve: { alias: { c: 'second' } } }`,
	})

	assert.Eventually(t, func() bool {
		snapshot := c.Store().Snapshot()
		return snapshot["a"] == "two" && snapshot["c"] == "second"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestConfiguration_FilesChanged(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":      webpackProject,
		"webpack.config.js": `module.exports = { resolve: { alias: { '@': 'src' } } }`,
	})

	c := newTestConfiguration(t, root)
	ctx := context.Background()
	c.Rediscover(ctx)
	require.Equal(t, alias.Table{"@": "src"}, c.Store().Snapshot())

	writeFiles(t, root, map[string]string{
		"webpack.config.js": `module.exports = { resolve: { alias: { '@': 'app' } } }`,
	})

	// unrelated files are ignored
	c.FilesChanged(ctx, []string{filepath.Join(root, "src", "main.js")})
	assert.Equal(t, alias.Table{"@": "src"}, c.Store().Snapshot())

	c.FilesChanged(ctx, []string{filepath.Join(root, "webpack.config.js")})
	assert.Equal(t, alias.Table{"@": "app"}, c.Store().Snapshot())
}

package webpack

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigPathsFromSearch(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"webpack.config.js":            "",
		"webpack.common.js":            "",
		"webpack.js":                   "",
		"webpack.config.ts":            "",
		"build/webpack.dev.js":         "",
		"build/deeper/webpack.prod.js": "",
		"node_modules/webpack.lib.js":  "",
		"test/webpack.test.js":         "",
		".config/webpack.hidden.js":    "",
		"a/b/c/d/webpack.depth5.js":    "",
		"a/b/c/d/e/webpack.depth6.js":  "",
		"src/index.js":                 "",
	})

	projects := []Project{{Dir: root, Manifest: &Manifest{}}}
	paths := ConfigPathsFromSearch(projects)

	assert.Equal(t, []string{
		filepath.Join(root, "webpack.common.js"),
		filepath.Join(root, "webpack.config.js"),
		filepath.Join(root, "a/b/c/d/webpack.depth5.js"),
		filepath.Join(root, "build/webpack.dev.js"),
		filepath.Join(root, "build/deeper/webpack.prod.js"),
	}, paths)
}

func TestConfigPathsFromSearch_MissingDir(t *testing.T) {
	projects := []Project{{Dir: filepath.Join(t.TempDir(), "missing"), Manifest: &Manifest{}}}
	assert.Empty(t, ConfigPathsFromSearch(projects))
}

func TestIsRelevantFile(t *testing.T) {
	assert.True(t, IsRelevantFile("/app/package.json"))
	assert.True(t, IsRelevantFile("/app/build/webpack.prod.js"))
	assert.False(t, IsRelevantFile("/app/webpack.config.ts"))
	assert.False(t, IsRelevantFile("/app/src/main.js"))
}

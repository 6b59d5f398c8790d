package indexer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeRecorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *changeRecorder) record(_ context.Context, changed []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sorted := append([]string(nil), changed...)
	sort.Strings(sorted)
	r.batches = append(r.batches, sorted)
}

func (r *changeRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var paths []string
	for _, batch := range r.batches {
		paths = append(paths, batch...)
	}
	return paths
}

func newTestWatcher(t *testing.T, debounce time.Duration) (*Watcher, *changeRecorder) {
	t.Helper()
	recorder := &changeRecorder{}
	w, err := newWatcher(recorder.record, debounce)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w, recorder
}

func TestWatcher_ReportsWatchedFiles(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "webpack.config.js")
	require.NoError(t, os.WriteFile(config, []byte("module.exports = {}"), 0o644))

	w, recorder := newTestWatcher(t, 20*time.Millisecond)
	w.SetFiles([]string{config})

	require.NoError(t, os.WriteFile(config, []byte("module.exports = {resolve: {}}"), 0o644))

	assert.Eventually(t, func() bool {
		return len(recorder.all()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, recorder.all(), config)
}

func TestWatcher_IgnoresUnwatchedSiblings(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "webpack.config.js")
	other := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(config, []byte(""), 0o644))

	w, recorder := newTestWatcher(t, 20*time.Millisecond)
	w.SetFiles([]string{config})

	require.NoError(t, os.WriteFile(other, []byte("docs"), 0o644))
	time.Sleep(150 * time.Millisecond)

	assert.Empty(t, recorder.all())
}

func TestWatcher_NoticesCreatedFile(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "package.json")

	w, recorder := newTestWatcher(t, 20*time.Millisecond)
	w.SetFiles([]string{manifest})

	require.NoError(t, os.WriteFile(manifest, []byte("{}"), 0o644))

	assert.Eventually(t, func() bool {
		return len(recorder.all()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, recorder.all(), manifest)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "webpack.config.js")
	require.NoError(t, os.WriteFile(config, []byte(""), 0o644))

	w, recorder := newTestWatcher(t, 100*time.Millisecond)
	w.SetFiles([]string{config})

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(config, []byte{byte('a' + i)}, 0o644))
	}

	assert.Eventually(t, func() bool {
		return len(recorder.all()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	assert.Len(t, recorder.batches, 1)
	assert.Equal(t, []string{config}, recorder.batches[0])
}

func TestWatcher_SetFilesReplaces(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	w, _ := newTestWatcher(t, 20*time.Millisecond)
	w.SetFiles([]string{filepath.Join(first, "a.js")})
	w.SetFiles([]string{filepath.Join(second, "b.js")})

	assert.Equal(t, []string{filepath.Join(second, "b.js")}, w.Files())
	assert.False(t, w.isWatched(filepath.Join(first, "a.js")))
}

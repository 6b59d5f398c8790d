package indexer

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// Watcher reports changes to a set of individual files. Their parent
// directories are watched so files created after startup are noticed too.
// Events are debounced and delivered as one batch of changed paths.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func(ctx context.Context, changed []string)
	debounce time.Duration

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher starts a watcher with an empty file set
func NewWatcher(onChange func(ctx context.Context, changed []string)) (*Watcher, error) {
	return newWatcher(onChange, watchDebounce)
}

func newWatcher(onChange func(ctx context.Context, changed []string), debounce time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Watcher{
		watcher:  watcher,
		onChange: onChange,
		debounce: debounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// SetFiles replaces the set of watched files
func (w *Watcher) SetFiles(paths []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		path = filepath.Clean(path)
		files[path] = true
		dirs[filepath.Dir(path)] = true
	}

	for dir := range w.dirs {
		if !dirs[dir] {
			_ = w.watcher.Remove(dir)
		}
	}
	for dir := range dirs {
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			// the directory may not exist yet
			log.Printf("Error watching directory %s: %v", dir, err)
			delete(dirs, dir)
		}
	}

	w.files = files
	w.dirs = dirs
}

// Files returns the currently watched files
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.files))
	for file := range w.files {
		files = append(files, file)
	}
	return files
}

func (w *Watcher) isWatched(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[filepath.Clean(path)]
}

func (w *Watcher) run() {
	defer w.wg.Done()

	pending := make(map[string]bool)
	debounceTimer := time.NewTimer(time.Hour)
	debounceTimer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		changed := make([]string, 0, len(pending))
		for path := range pending {
			changed = append(changed, path)
		}
		pending = make(map[string]bool)

		log.Printf("Processing %d changed config files", len(changed))
		if w.onChange != nil {
			w.onChange(w.ctx, changed)
		}
	}

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.isWatched(event.Name) {
				continue
			}

			pending[filepath.Clean(event.Name)] = true

			// Reset the debounce timer
			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)

		case <-debounceTimer.C:
			flush()
		}
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

package alias

import (
	"log"
	"sync"
	"sync/atomic"
)

// Layer identifies where a set of aliases came from.
type Layer int

const (
	// LayerDiscovered holds aliases found by searching the workspace for webpack configs
	LayerDiscovered Layer = iota
	// LayerConfigFile holds aliases read from the configured webpack config path
	LayerConfigFile
	// LayerExplicit holds aliases the user configured directly
	LayerExplicit

	layerCount
)

// Persister saves the effective table so it survives restarts.
type Persister interface {
	Load() (Table, error)
	Save(Table) error
}

// Store is the alias table of one workspace. Reads are lock free; every write
// replaces the effective table wholesale, so a reader never sees a half applied update.
type Store struct {
	mu          sync.Mutex
	layers      [layerCount]Table
	effective   atomic.Pointer[Table]
	persister   Persister
	subscribers map[int]func(Table)
	nextID      int
}

// NewStore creates a store. The persister is optional; when set, a previously
// saved table is loaded as the discovered layer so lookups work before discovery finishes.
func NewStore(persister Persister) *Store {
	s := &Store{
		persister:   persister,
		subscribers: make(map[int]func(Table)),
	}

	empty := Table{}
	s.effective.Store(&empty)

	if persister != nil {
		saved, err := persister.Load()
		if err != nil {
			log.Printf("Error loading persisted aliases: %v", err)
		} else if len(saved) > 0 {
			s.layers[LayerDiscovered] = saved.Clone()
			s.recompute()
		}
	}

	return s
}

// Snapshot returns the current effective table. Callers must not modify it.
func (s *Store) Snapshot() Table {
	return *s.effective.Load()
}

// Layer returns a copy of one layer.
func (s *Store) Layer(layer Layer) Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layers[layer].Clone()
}

// Set replaces one layer and publishes the merged result.
// Explicit entries win over the config file, which wins over discovered entries.
func (s *Store) Set(layer Layer, table Table) {
	s.mu.Lock()
	s.layers[layer] = table.Clone()
	changed, effective := s.recompute()
	subscribers := make([]func(Table), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	if !changed {
		return
	}

	if s.persister != nil {
		if err := s.persister.Save(effective); err != nil {
			log.Printf("Error persisting aliases: %v", err)
		}
	}

	for _, fn := range subscribers {
		fn(effective)
	}
}

// Subscribe registers fn to be called with the new table after every change.
func (s *Store) Subscribe(fn func(Table)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// recompute must be called with mu held.
func (s *Store) recompute() (bool, Table) {
	merged := Merge(s.layers[:]...)
	if merged.Equal(*s.effective.Load()) {
		return false, merged
	}
	s.effective.Store(&merged)
	return true, merged
}

package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Root        string     `json:"root"`
	Kind        string     `json:"kind"`
	Versioned   bool       `json:"versioned"`
	Created     int        `json:"created"`
	LastCreated *time.Time `json:"last_created,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StoreState{
		Root:        s.Root,
		Kind:        s.config.Kind,
		Versioned:   s.versioned,
		Created:     s.created,
		LastCreated: s.lastCreated,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "annotation-store"
}

// WatcherState exposes the library watcher for observability.
type WatcherState struct {
	Roots   []string `json:"roots"`
	Active  bool     `json:"active"`
	Signals int      `json:"signals"`
}

// State implements introspection.Introspectable.
func (w *Watcher) State() any {
	w.mu.Lock()
	defer w.mu.Unlock()

	return WatcherState{
		Roots:   append([]string(nil), w.Roots...),
		Active:  w.active,
		Signals: w.signals,
	}
}

// ComponentType implements introspection.Component.
func (w *Watcher) ComponentType() string {
	return "library-watcher"
}

var (
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
	_ introspection.Introspectable = (*Watcher)(nil)
	_ introspection.Component      = (*Watcher)(nil)
)

// internal/app/system/keymutex/keymutex.go
// Package keymutex provides an arena of mutexes keyed by string.
//
// Lifecycle operations on the same repository key must not interleave, but
// operations on unrelated repositories should run in parallel. Entries are
// created on demand and removed again once no goroutine holds or waits on
// them, so the arena does not grow with the number of keys ever seen.
package keymutex

import "sync"

// Arena is a set of on-demand mutexes keyed by string.
// The zero value is not usable; call New.
type Arena struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates an empty Arena.
func New() *Arena {
	return &Arena{entries: make(map[string]*entry)}
}

// Lock acquires the mutex for key, blocking while another goroutine holds it.
// It returns a release func that must be called on every exit path; the
// entry is dropped from the arena when the last holder or waiter releases.
func (a *Arena) Lock(key string) func() {
	a.mu.Lock()
	e, ok := a.entries[key]
	if !ok {
		e = &entry{}
		a.entries[key] = e
	}
	e.refs++
	a.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			a.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(a.entries, key)
			}
			a.mu.Unlock()
		})
	}
}

// Len reports the number of live entries. Used by tests to verify that
// uncontended entries are garbage-collected.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

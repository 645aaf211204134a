package keylock

import "sync"

// KeyLock provides advisory mutual exclusion keyed by product id.
// Entries are reference-counted and removed once the last holder unlocks,
// so the map does not grow with the number of ids ever seen.
type KeyLock struct {
	mu      sync.Mutex
	entries map[uint]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates an empty KeyLock.
func New() *KeyLock {
	return &KeyLock{entries: make(map[uint]*entry)}
}

// Lock acquires the lock for the given key, blocking until available.
func (k *KeyLock) Lock(key uint) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the lock for the given key.
// Unlocking a key that is not held panics, matching sync.Mutex semantics.
func (k *KeyLock) Unlock(key uint) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		k.mu.Unlock()
		panic("keylock: unlock of unheld key")
	}
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}

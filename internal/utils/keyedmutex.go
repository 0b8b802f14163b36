// Package utils holds small shared helpers with no domain knowledge.
package utils

import "sync"

// KeyedMutex serializes critical sections per key. Mutating ledger operations
// take the lock for their trip id so that check-then-write sequences (e.g.
// reading unbilled state before generating an invoice) cannot interleave.
//
// Entries are never evicted; the number of trips is small and bounded.
type KeyedMutex struct {
	locks sync.Map // key -> *sync.Mutex
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock acquires the mutex for the key, creating it on first use.
func (k *KeyedMutex) Lock(key string) {
	m, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	m.(*sync.Mutex).Lock()
}

// Unlock releases the mutex for the key. Panics if Lock was not called first.
func (k *KeyedMutex) Unlock(key string) {
	m, ok := k.locks.Load(key)
	if !ok {
		panic("utils: unlock of unknown key " + key)
	}
	m.(*sync.Mutex).Unlock()
}

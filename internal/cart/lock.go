package cart

import "sync"

// ownerLocks serializes cart mutations per owner. Concurrent adds for the
// same item must observe each other's writes or the merge step duplicates
// lines, so every mutating operation holds the owner's lock end to end.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*sync.Mutex)}
}

func (o *ownerLocks) lock(owner string) func() {
	o.mu.Lock()
	m, ok := o.locks[owner]
	if !ok {
		m = &sync.Mutex{}
		o.locks[owner] = m
	}
	o.mu.Unlock()

	m.Lock()
	return m.Unlock
}

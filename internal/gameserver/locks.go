package gameserver

import "sync"

// hunterLocks serializes commands per hunter. Commands for different
// hunters proceed in parallel.
type hunterLocks struct {
	mu    sync.Mutex
	locks map[string]*hunterLock
}

type hunterLock struct {
	mu   sync.Mutex
	refs int
}

func newHunterLocks() *hunterLocks {
	return &hunterLocks{locks: make(map[string]*hunterLock)}
}

// lock blocks until the hunter's lock is held and returns its release func.
func (l *hunterLocks) lock(hunterID string) func() {
	l.mu.Lock()
	hl, ok := l.locks[hunterID]
	if !ok {
		hl = &hunterLock{}
		l.locks[hunterID] = hl
	}
	hl.refs++
	l.mu.Unlock()

	hl.mu.Lock()
	return func() {
		hl.mu.Unlock()
		l.mu.Lock()
		hl.refs--
		if hl.refs == 0 {
			delete(l.locks, hunterID)
		}
		l.mu.Unlock()
	}
}

// size returns the number of hunters holding or waiting on a lock.
func (l *hunterLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

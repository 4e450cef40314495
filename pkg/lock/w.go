package lock

import (
	"sync"
	"sync/atomic"
)

// W is an exclusive lock: at most one holder at a time, whether it asked to
// read or to write. Use this when concurrent readers are not required and a
// single mutex is cheaper to reason about than a reader/writer pair.
//
// The zero value is a valid, unlocked W.
type W struct {
	mu   sync.Mutex
	held atomic.Bool
}

func (l *W) Lock(auth Authorizer, read, block, test bool) (int64, bool) {
	held := l.held.Load()
	lockOut, inUse := held, held
	if !block && !read {
		lockOut, inUse = false, false
	}
	// A request is reported to the authorizer as a write regardless of the
	// read flag, since holding this lock at all excludes every other
	// acquisition kind.
	if !registerAuth(auth, false, lockOut, inUse, 0, test) {
		return -1, false
	}

	if block {
		l.mu.Lock()
	} else if !l.mu.TryLock() {
		if !test {
			releaseAuth(auth, false, 0, test)
		}
		return -1, false
	}

	l.held.Store(true)
	_ = read
	return 0, true
}

func (l *W) Unlock(auth Authorizer, read, test bool) (int64, bool) {
	releaseAuth(auth, false, 0, test)
	l.held.Store(false)
	_ = read
	l.mu.Unlock()
	return 0, true
}

func (l *W) Order() uint64 { return 0 }

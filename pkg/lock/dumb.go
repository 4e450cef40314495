package lock

import "sync"

// Dumb is a single-holder lock that makes no read/write distinction: at
// most one goroutine may hold it at a time, whichever mode it asked for.
// Unlike every other primitive, it also reports itself to the authorizer as
// "locking out, in use" unconditionally, even on a cell nobody currently
// holds — a tracker that consults those flags (anything other than the
// dumb policy itself, which ignores them) will almost never grant a second
// Dumb lock while a first is outstanding, making Dumb a poor fit for
// multi-locking. Real mutual exclusion still comes from the underlying
// mutex, not from that reporting.
//
// The zero value is a valid, unlocked Dumb.
type Dumb struct {
	mu sync.Mutex
}

func (l *Dumb) Lock(auth Authorizer, read, block, test bool) (int64, bool) {
	if !registerAuth(auth, false, true, true, 0, test) {
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

	_ = read
	return 0, true
}

func (l *Dumb) Unlock(auth Authorizer, read, test bool) (int64, bool) {
	releaseAuth(auth, false, 0, test)
	l.mu.Unlock()
	_ = read
	return 0, true
}

func (l *Dumb) Order() uint64 { return 0 }

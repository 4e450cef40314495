package lock

import "sync"

// RW is a reader/writer lock: any number of readers may hold it at once, or
// a single writer may hold it exclusively. Waiting writers take priority
// over new readers once at least one writer is queued, so a steady stream of
// readers cannot starve a writer indefinitely.
//
// The zero value is a valid, unlocked RW.
type RW struct {
	mu sync.Mutex

	readCond  sync.Cond
	writeCond sync.Cond

	readers        int64
	readersWaiting int64
	writer         bool
	writerWaiting  bool

	// currentWriter identifies the Authorizer that currently holds the
	// write lock, enabling the writer-then-reader exception: that same
	// authorizer may acquire a read lock without waiting on itself.
	currentWriter Authorizer

	initialized bool
}

func (l *RW) init() {
	if !l.initialized {
		l.readCond.L = &l.mu
		l.writeCond.L = &l.mu
		l.initialized = true
	}
}

func (l *RW) Lock(auth Authorizer, read, block, test bool) (int64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.init()

	selfWriter := l.writer && read && auth != nil && l.currentWriter == auth

	lockOut := l.writerWaiting && !selfWriter
	inUse := (l.writer || l.readers > 0) && !selfWriter
	// A non-blocking write request is explicitly opting into "tell me
	// immediately"; the authorizer need not reject it purely on account of
	// contention it would otherwise wait out.
	if !block && !read {
		lockOut, inUse = false, false
	}
	if !registerAuth(auth, read, lockOut, inUse, 0, test) {
		return -1, false
	}

	mustBlock := !selfWriter && (l.writer || l.writerWaiting || (!read && l.readers > 0))
	if !block && mustBlock {
		if !test {
			releaseAuth(auth, read, 0, test)
		}
		return -1, false
	}

	if read {
		if !selfWriter {
			l.readersWaiting++
			for l.writer || l.writerWaiting {
				l.readCond.Wait()
			}
			l.readersWaiting--
		}
		l.readers++
		return l.readers, true
	}

	l.readersWaiting++
	for l.writerWaiting {
		l.readCond.Wait()
	}
	l.readersWaiting--
	l.writerWaiting = true
	for l.writer || l.readers > 0 {
		l.writeCond.Wait()
	}
	l.writerWaiting = false
	l.writer = true
	l.currentWriter = auth
	return 0, true
}

func (l *RW) Unlock(auth Authorizer, read, test bool) (int64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.init()

	releaseAuth(auth, read, 0, test)
	if read {
		l.readers--
		if l.readers == 0 && l.writerWaiting {
			l.writeCond.Broadcast()
		}
		return l.readers, true
	}

	l.writer = false
	l.currentWriter = nil
	if l.writerWaiting {
		l.writeCond.Broadcast()
	}
	if l.readersWaiting > 0 {
		l.readCond.Broadcast()
	}
	return 0, true
}

func (l *RW) Order() uint64 { return 0 }

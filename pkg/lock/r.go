package lock

import "sync/atomic"

// R is a read-only lock: any number of concurrent readers are permitted, and
// write acquisition always fails. It is appropriate for data that is never
// mutated after construction but still needs a [Primitive] to plug into the
// authorization and cell machinery.
//
// The zero value is a valid, unlocked R.
type R struct {
	counter atomic.Int64
}

func (l *R) Lock(auth Authorizer, read, block, test bool) (int64, bool) {
	if !read {
		return -1, false
	}
	if !registerAuth(auth, read, false, false, 0, test) {
		return -1, false
	}
	_ = block
	n := l.counter.Add(1)
	return n, true
}

func (l *R) Unlock(auth Authorizer, read, test bool) (int64, bool) {
	if !read {
		return -1, false
	}
	releaseAuth(auth, read, 0, test)
	n := l.counter.Add(-1)
	return n, true
}

func (l *R) Order() uint64 { return 0 }

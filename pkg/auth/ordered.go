package auth

import "github.com/ta0kira/locking-container/pkg/lock"

// Ordered wraps a [Tracker] with the ordered-locking overlay: once this
// tracker holds a lock with a given order, it refuses any new request whose
// order is not strictly greater, but only while the target is actually in
// use by someone else. Two complementary effects fall out of that rule:
//
//   - Acquiring cells in strictly ascending order can never deadlock against
//     another goroutine doing the same, since neither can ever be waiting on
//     a lock "behind" one it already holds.
//   - As soon as this tracker has ever held an unordered lock (order 0), the
//     overlay stops enforcing ordering until every unordered lock it holds
//     is released — an unordered lock gives no ordering guarantee to build
//     on, so the overlay falls back to the wrapped [Tracker]'s own policy.
type Ordered struct {
	base           *Tracker
	orderedLocks   map[uint64]int
	unorderedLocks int64
}

// NewOrdered wraps base with the ordered-locking overlay.
func NewOrdered(base *Tracker) *Ordered {
	return &Ordered{base: base, orderedLocks: make(map[uint64]int)}
}

// Base returns the wrapped [Tracker], for callers that want its counts.
func (o *Ordered) Base() *Tracker { return o.base }

func (o *Ordered) maxOrder() (uint64, bool) {
	var max uint64
	found := false
	for order := range o.orderedLocks {
		if !found || order > max {
			max, found = order, true
		}
	}
	return max, found
}

func (o *Ordered) allowed(read, lockOut, inUse bool, order uint64) bool {
	normalRules := order == 0 || o.unorderedLocks > 0
	if !normalRules && inUse {
		if max, found := o.maxOrder(); found && max >= order {
			return false
		}
	}
	effectiveLockOut := normalRules && lockOut
	effectiveInUse := normalRules && inUse
	return o.base.allowed(read, effectiveLockOut, effectiveInUse, order)
}

// GuessReadAllowed predicts whether a read request would currently be
// granted, without registering anything.
func (o *Ordered) GuessReadAllowed(lockOut, inUse bool, order uint64) bool {
	return o.allowed(true, lockOut, inUse, order)
}

// GuessWriteAllowed predicts whether a write request would currently be
// granted, without registering anything.
func (o *Ordered) GuessWriteAllowed(lockOut, inUse bool, order uint64) bool {
	return o.allowed(false, lockOut, inUse, order)
}

// RegisterAuth implements [lock.Authorizer].
func (o *Ordered) RegisterAuth(read, lockOut, inUse bool, order uint64, test bool) bool {
	if !o.allowed(read, lockOut, inUse, order) {
		return false
	}
	if !test {
		if read {
			o.base.reading++
		} else {
			o.base.writing++
		}
		o.registerOrder(order)
	}
	return true
}

// ReleaseAuth implements [lock.Authorizer].
func (o *Ordered) ReleaseAuth(read bool, order uint64, test bool) {
	if test {
		return
	}
	o.releaseOrder(order)
	if read {
		o.base.reading--
	} else {
		o.base.writing--
	}
}

func (o *Ordered) registerOrder(order uint64) {
	if order == 0 {
		o.unorderedLocks++
		return
	}
	o.orderedLocks[order]++
}

func (o *Ordered) releaseOrder(order uint64) {
	if order == 0 {
		o.unorderedLocks--
		return
	}
	if n := o.orderedLocks[order]; n <= 1 {
		delete(o.orderedLocks, order)
	} else {
		o.orderedLocks[order] = n - 1
	}
}

var _ lock.Authorizer = (*Ordered)(nil)

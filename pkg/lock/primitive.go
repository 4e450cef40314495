package lock

// Authorizer is the callback interface a [Primitive] uses to decide whether
// a lock/unlock request is permitted before it does anything that could
// block. It is implemented by the tracker types in package auth; this
// package never imports auth, so that auth can depend on lock without
// creating an import cycle.
//
// RegisterAuth is consulted before a lock attempt. lockOut reports whether a
// writer is already waiting on the primitive; inUse reports whether the
// primitive is currently held (by any goroutine); order is the primitive's
// [Primitive.Order], or 0 if it does not participate in a lock-ordering
// discipline. test is true when the caller only wants to know whether the
// lock would be allowed without counting it against the authorizer's
// bookkeeping — used for the meta-lock's passive read-side acquisition,
// which must still be subject to the authorizer's policy but must not make
// the authorizer think the caller holds an extra lock.
//
// ReleaseAuth undoes a prior successful RegisterAuth call. test must match
// the test value passed to the RegisterAuth call it undoes; it is never
// called to undo a RegisterAuth that returned false.
type Authorizer interface {
	RegisterAuth(read, lockOut, inUse bool, order uint64, test bool) bool
	ReleaseAuth(read bool, order uint64, test bool)
}

// Primitive is implemented by every lock kind in this package.
type Primitive interface {
	// Lock attempts to acquire the lock in read or write mode. If block is
	// false, Lock returns immediately (ok=false) rather than waiting.
	//
	// test requests a passive acquisition: the authorizer is still asked
	// for permission (so a caller that genuinely isn't allowed to hold the
	// lock is still denied), but a granted test acquisition is not counted
	// against the authorizer's bookkeeping of what the caller holds. The
	// underlying lock is acquired for real either way; test only changes
	// how the acquisition is reported to the authorizer. The paired Unlock
	// call must pass the same test value.
	Lock(auth Authorizer, read, block, test bool) (count int64, ok bool)

	// Unlock releases a lock previously acquired with Lock. test must
	// match the test value used for the paired Lock call.
	Unlock(auth Authorizer, read, test bool) (count int64, ok bool)

	// Order returns the primitive's position in a strict lock-ordering
	// discipline, or 0 if the primitive does not participate in one.
	// Only [Ordered] returns a nonzero value.
	Order() uint64
}

func registerAuth(auth Authorizer, read, lockOut, inUse bool, order uint64, test bool) bool {
	if auth == nil {
		return true
	}
	return auth.RegisterAuth(read, lockOut, inUse, order, test)
}

func releaseAuth(auth Authorizer, read bool, order uint64, test bool) {
	if auth != nil {
		auth.ReleaseAuth(read, order, test)
	}
}

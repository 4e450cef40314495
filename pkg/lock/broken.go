package lock

// Broken denies every acquisition unconditionally. It is useful as a safe
// placeholder where a [Primitive] value is required but must never actually
// grant access — for example, a cell deliberately constructed in a disabled
// state.
type Broken struct{}

func (Broken) Lock(Authorizer, bool, bool, bool) (int64, bool) { return -1, false }
func (Broken) Unlock(Authorizer, bool, bool) (int64, bool)     { return -1, false }
func (Broken) Order() uint64                                   { return 0 }

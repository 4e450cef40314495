package lock

// Ordered decorates a [Primitive] with an immutable position in a strict
// lock-ordering discipline. It requires a non-nil [Authorizer] on every
// call: unlike the other primitives, an unordered (nil-auth) acquisition
// would make it impossible to enforce ordering, so Ordered refuses it.
//
// Order() returns the value the primitive was constructed with; it never
// changes for the lifetime of the value.
type Ordered[P Primitive] struct {
	base  P
	order uint64
}

// NewOrdered wraps base with a fixed acquisition order. order must be
// nonzero: zero is reserved by [Primitive.Order] to mean "unordered".
func NewOrdered[P Primitive](base P, order uint64) *Ordered[P] {
	if order == 0 {
		panic("lock: ordered primitive requires a nonzero order")
	}
	return &Ordered[P]{base: base, order: order}
}

func (l *Ordered[P]) Lock(auth Authorizer, read, block, test bool) (int64, bool) {
	if auth == nil {
		return -1, false
	}
	return l.base.Lock(orderedAuthorizer{auth, l.order}, read, block, test)
}

func (l *Ordered[P]) Unlock(auth Authorizer, read, test bool) (int64, bool) {
	if auth == nil {
		return -1, false
	}
	return l.base.Unlock(orderedAuthorizer{auth, l.order}, read, test)
}

func (l *Ordered[P]) Order() uint64 { return l.order }

// orderedAuthorizer stamps every call through to the underlying Authorizer
// with this primitive's order, since the wrapped base primitive has no
// notion of order itself.
type orderedAuthorizer struct {
	Authorizer
	order uint64
}

func (o orderedAuthorizer) RegisterAuth(read, lockOut, inUse bool, _ uint64, test bool) bool {
	return o.Authorizer.RegisterAuth(read, lockOut, inUse, o.order, test)
}

func (o orderedAuthorizer) ReleaseAuth(read bool, _ uint64, test bool) {
	o.Authorizer.ReleaseAuth(read, o.order, test)
}

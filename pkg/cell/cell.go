package cell

import (
	"github.com/ta0kira/locking-container/pkg/auth"
	"github.com/ta0kira/locking-container/pkg/handle"
	"github.com/ta0kira/locking-container/pkg/lock"
	"github.com/ta0kira/locking-container/pkg/metalock"
)

// Cell protects a value of type T behind a [lock.Primitive].
type Cell[T any] struct {
	value     T
	primitive lock.Primitive
}

// New constructs a Cell protecting value with primitive. primitive must not
// be shared with any other Cell.
func New[T any](value T, primitive lock.Primitive) *Cell[T] {
	return &Cell[T]{value: value, primitive: primitive}
}

// Order returns the cell's lock-ordering position, or 0 if its primitive
// does not participate in a lock-ordering discipline.
func (c *Cell[T]) Order() uint64 { return c.primitive.Order() }

// NewTracker constructs a fresh [lock.Authorizer] matching this cell's
// primitive kind, the way [locking_container::get_new_auth] does in the
// original: a caller that only ever touches cells of a single kind doesn't
// need to know which policy to ask for.
func (c *Cell[T]) NewTracker() lock.Authorizer {
	switch c.primitive.(type) {
	case *lock.RW:
		return auth.NewRW()
	case *lock.R:
		return auth.NewReadOnly()
	case *lock.W:
		return auth.NewWriteOnly()
	case *lock.Dumb:
		return auth.NewDumb()
	case lock.Broken:
		return auth.NewBroken()
	case *lock.Ordered[*lock.RW]:
		return auth.NewOrdered(auth.NewRW())
	case *lock.Ordered[*lock.R]:
		return auth.NewOrdered(auth.NewReadOnly())
	case *lock.Ordered[*lock.W]:
		return auth.NewOrdered(auth.NewWriteOnly())
	case *lock.Ordered[*lock.Dumb]:
		return auth.NewOrdered(auth.NewDumb())
	default:
		return auth.NewRW()
	}
}

// GetWrite acquires an unauthorized write handle.
func (c *Cell[T]) GetWrite(block bool) (handle.Write[T], bool) {
	return c.GetWriteMulti(nil, block, nil)
}

// GetRead acquires an unauthorized read handle.
func (c *Cell[T]) GetRead(block bool) (handle.Read[T], bool) {
	return c.GetReadMulti(nil, block, nil)
}

// GetWriteAuth acquires a write handle authorized through tracker.
func (c *Cell[T]) GetWriteAuth(tracker lock.Authorizer, block bool) (handle.Write[T], bool) {
	return c.GetWriteMulti(tracker, block, nil)
}

// GetReadAuth acquires a read handle authorized through tracker.
func (c *Cell[T]) GetReadAuth(tracker lock.Authorizer, block bool) (handle.Read[T], bool) {
	return c.GetReadMulti(tracker, block, nil)
}

// GetWriteMulti acquires a write handle authorized through tracker, also
// test-acquiring meta's read side if meta is non-nil. See the construction
// protocol in the package doc comment of [metalock].
func (c *Cell[T]) GetWriteMulti(tracker lock.Authorizer, block bool, meta *metalock.MetaLock) (handle.Write[T], bool) {
	metaRelease, ok := acquireMeta(meta, tracker, block)
	if !ok {
		return handle.Write[T]{}, false
	}
	if _, ok := c.primitive.Lock(tracker, false, block, false); !ok {
		if metaRelease != nil {
			metaRelease()
		}
		return handle.Write[T]{}, false
	}
	return handle.NewWrite(&c.value, c.releaseFunc(tracker, false, metaRelease)), true
}

// GetReadMulti acquires a read handle authorized through tracker, also
// test-acquiring meta's read side if meta is non-nil.
func (c *Cell[T]) GetReadMulti(tracker lock.Authorizer, block bool, meta *metalock.MetaLock) (handle.Read[T], bool) {
	metaRelease, ok := acquireMeta(meta, tracker, block)
	if !ok {
		return handle.Read[T]{}, false
	}
	if _, ok := c.primitive.Lock(tracker, true, block, false); !ok {
		if metaRelease != nil {
			metaRelease()
		}
		return handle.Read[T]{}, false
	}
	return handle.NewRead(&c.value, c.releaseFunc(tracker, true, metaRelease)), true
}

func acquireMeta(meta *metalock.MetaLock, tracker lock.Authorizer, block bool) (release func(), ok bool) {
	if meta == nil {
		return nil, true
	}
	return meta.AcquireForHandle(tracker, block)
}

// releaseFunc returns the closure a handle calls on Clear: release the cell
// lock first, then the meta-lock read side, matching the construction
// protocol's release order.
func (c *Cell[T]) releaseFunc(tracker lock.Authorizer, read bool, metaRelease func()) func() {
	return func() {
		c.primitive.Unlock(tracker, read, false)
		if metaRelease != nil {
			metaRelease()
		}
	}
}

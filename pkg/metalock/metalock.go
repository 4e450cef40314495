package metalock

import "github.com/ta0kira/locking-container/pkg/lock"

// MetaLock is a reader/writer lock with no protected payload, used purely
// to coordinate multi-cell locking. The zero value is ready to use.
type MetaLock struct {
	primitive lock.RW
}

// New constructs a ready-to-use MetaLock.
func New() *MetaLock { return &MetaLock{} }

// Handle is an active acquisition of a MetaLock, obtained through
// [MetaLock.GetWrite] or [MetaLock.GetRead]. Clear releases it; it is safe
// to call Clear more than once.
type Handle struct {
	ml      *MetaLock
	auth    lock.Authorizer
	read    bool
	cleared bool
}

// Clear releases the meta-lock acquisition this handle represents. It is a
// no-op if the handle is nil or already cleared.
func (h *Handle) Clear() {
	if h == nil || h.cleared {
		return
	}
	h.cleared = true
	h.ml.primitive.Unlock(h.auth, h.read, false)
}

// GetWrite actively acquires the meta-lock's write side, freezing every cell
// that test-acquires this MetaLock's read side (see [MetaLock.AcquireForHandle])
// until the returned [Handle] is cleared. This is the entry point for a safe
// multi-cell operation: acquire the write side first, then take handles on
// every cell involved, then clear this write handle as soon as all of them
// are acquired.
func (m *MetaLock) GetWrite(tracker lock.Authorizer, block bool) (*Handle, bool) {
	if _, ok := m.primitive.Lock(tracker, false, block, false); !ok {
		return nil, false
	}
	return &Handle{ml: m, auth: tracker, read: false}, true
}

// GetRead actively acquires the meta-lock's read side. Unlike the passive
// test-acquire every cell handle performs automatically, this counts
// against tracker and will, like any other read lock, wait out an active
// writer.
func (m *MetaLock) GetRead(tracker lock.Authorizer, block bool) (*Handle, bool) {
	if _, ok := m.primitive.Lock(tracker, true, block, false); !ok {
		return nil, false
	}
	return &Handle{ml: m, auth: tracker, read: true}, true
}

// AcquireForHandle performs the passive read-side test-acquire that every
// cell access handle takes out automatically: it is subject to the same
// policy as a real acquisition (so an active writer still blocks it), but
// it is not counted against the tracker's bookkeeping, since the caller
// didn't ask to hold the meta-lock — only to be safely excluded from an
// active multi-lock operation while it does something else. Intended for
// use only by package cell; see the package doc comment.
func (m *MetaLock) AcquireForHandle(tracker lock.Authorizer, block bool) (release func(), ok bool) {
	if _, ok := m.primitive.Lock(tracker, true, block, true); !ok {
		return nil, false
	}
	return func() { m.primitive.Unlock(tracker, true, true) }, true
}

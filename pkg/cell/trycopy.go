package cell

import (
	"github.com/ta0kira/locking-container/pkg/lock"
	"github.com/ta0kira/locking-container/pkg/metalock"
)

// TryCopy copies src's value into dst without a tracker: it always locks
// dst for writing before src for reading, so it carries no deadlock
// protection against a concurrent copy in the opposite direction. Use
// [TryCopyAuth] or [TryCopyMeta] unless the caller can otherwise guarantee
// only one such copy is ever in flight at a time.
func TryCopy[T any](dst, src *Cell[T], block bool) bool {
	w, ok := dst.GetWrite(block)
	if !ok {
		return false
	}
	defer w.Clear()

	r, ok := src.GetRead(block)
	if !ok {
		return false
	}
	defer r.Clear()

	*w.Value() = *r.Value()
	return true
}

// TryCopyAuth copies src's value into dst using tracker for authorization.
// If both cells carry a nonzero [Cell.Order], the cell with the lower order
// is locked first, giving the same deadlock protection a caller would get
// by following the lock-ordering discipline manually.
func TryCopyAuth[T any](dst, src *Cell[T], tracker lock.Authorizer, block bool) bool {
	if srcFirst(dst, src) {
		r, ok := src.GetReadAuth(tracker, block)
		if !ok {
			return false
		}
		defer r.Clear()

		w, ok := dst.GetWriteAuth(tracker, block)
		if !ok {
			return false
		}
		defer w.Clear()

		*w.Value() = *r.Value()
		return true
	}

	w, ok := dst.GetWriteAuth(tracker, block)
	if !ok {
		return false
	}
	defer w.Clear()

	r, ok := src.GetReadAuth(tracker, block)
	if !ok {
		return false
	}
	defer r.Clear()

	*w.Value() = *r.Value()
	return true
}

// TryCopyMeta copies src's value into dst using tracker and meta. If
// takeMetaWrite is true, it first actively write-locks meta, freezing out
// every other cell acquisition anywhere in the program that passively
// test-acquires the same meta-lock, then releases that write lock as soon
// as both cells are safely locked — it does not hold the meta-lock for the
// duration of the copy, only for the window where both locks are taken.
func TryCopyMeta[T any](dst, src *Cell[T], tracker lock.Authorizer, block bool, meta *metalock.MetaLock, takeMetaWrite bool) bool {
	var metaHandle *metalock.Handle
	if takeMetaWrite {
		h, ok := meta.GetWrite(tracker, block)
		if !ok {
			return false
		}
		metaHandle = h
	}

	if srcFirst(dst, src) {
		r, ok := src.GetReadMulti(tracker, block, meta)
		if !ok {
			metaHandle.Clear()
			return false
		}
		w, ok := dst.GetWriteMulti(tracker, block, meta)
		if !ok {
			r.Clear()
			metaHandle.Clear()
			return false
		}
		metaHandle.Clear()
		*w.Value() = *r.Value()
		w.Clear()
		r.Clear()
		return true
	}

	w, ok := dst.GetWriteMulti(tracker, block, meta)
	if !ok {
		metaHandle.Clear()
		return false
	}
	r, ok := src.GetReadMulti(tracker, block, meta)
	if !ok {
		w.Clear()
		metaHandle.Clear()
		return false
	}
	metaHandle.Clear()
	*w.Value() = *r.Value()
	w.Clear()
	r.Clear()
	return true
}

// srcFirst reports whether src should be locked before dst, based on which
// carries the lower nonzero order. Cells with no order (0) never reorder
// the default dst-then-src sequence.
func srcFirst[T any](dst, src *Cell[T]) bool {
	d, s := dst.Order(), src.Order()
	return d != 0 && s != 0 && s < d
}

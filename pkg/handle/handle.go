package handle

import (
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
)

// acquisition is the shared, reference-counted release record behind both
// [Read] and [Write]. release is called exactly once, when the last clone
// is cleared or garbage collected.
type acquisition struct {
	mu       sync.Mutex
	count    int
	release  func()
	released bool
}

func newAcquisition(release func()) *acquisition {
	return &acquisition{count: 1, release: release}
}

func (a *acquisition) retain() {
	a.mu.Lock()
	a.count++
	a.mu.Unlock()
}

func (a *acquisition) drop(leaked bool) {
	a.mu.Lock()
	a.count--
	remaining := a.count
	var fire bool
	if remaining <= 0 && !a.released {
		a.released = true
		fire = true
	}
	a.mu.Unlock()
	if !fire {
		return
	}
	if leaked {
		log.Warn().Msg("locking-container: access handle garbage collected without Clear; releasing via finalizer")
	}
	a.release()
}

// Read is a scoped read handle to a protected value of type T. The zero
// value is an empty handle: [Read.Valid] reports false and [Read.Value]
// panics, matching an acquisition that was denied.
type Read[T any] struct {
	value *T
	acq   *acquisition
}

// NewRead constructs a valid [Read] handle. It is called by package cell
// once a cell's lock has actually been acquired; library callers never
// construct one directly.
func NewRead[T any](value *T, release func()) Read[T] {
	acq := newAcquisition(release)
	r := Read[T]{value: value, acq: acq}
	runtime.SetFinalizer(acq, func(a *acquisition) { a.drop(true) })
	return r
}

// Valid reports whether this handle holds a live acquisition.
func (r Read[T]) Valid() bool { return r.acq != nil }

// Value returns the protected value. It panics if the handle is empty.
func (r Read[T]) Value() *T {
	if r.acq == nil {
		panic("handle: Value called on an empty Read handle")
	}
	return r.value
}

// Clone returns a handle sharing this one's acquisition. The underlying
// lock is released only once every clone (including the original) has been
// cleared.
func (r Read[T]) Clone() Read[T] {
	if r.acq != nil {
		r.acq.retain()
	}
	return r
}

// Clear releases this handle's share of the acquisition. It is safe to call
// more than once; only the first call on each clone has any effect.
func (r *Read[T]) Clear() {
	if r.acq == nil {
		return
	}
	acq := r.acq
	r.acq = nil
	r.value = nil
	runtime.SetFinalizer(acq, nil)
	acq.drop(false)
}

// Equal reports whether r and other share the same acquisition.
func (r Read[T]) Equal(other Read[T]) bool { return r.acq == other.acq && r.acq != nil }

// Write is a scoped write handle to a protected value of type T. It has the
// same empty-handle and Clear semantics as [Read].
type Write[T any] struct {
	value *T
	acq   *acquisition
}

// NewWrite constructs a valid [Write] handle. See [NewRead].
func NewWrite[T any](value *T, release func()) Write[T] {
	acq := newAcquisition(release)
	w := Write[T]{value: value, acq: acq}
	runtime.SetFinalizer(acq, func(a *acquisition) { a.drop(true) })
	return w
}

func (w Write[T]) Valid() bool { return w.acq != nil }

func (w Write[T]) Value() *T {
	if w.acq == nil {
		panic("handle: Value called on an empty Write handle")
	}
	return w.value
}

func (w Write[T]) Clone() Write[T] {
	if w.acq != nil {
		w.acq.retain()
	}
	return w
}

func (w *Write[T]) Clear() {
	if w.acq == nil {
		return
	}
	acq := w.acq
	w.acq = nil
	w.value = nil
	runtime.SetFinalizer(acq, nil)
	acq.drop(false)
}

func (w Write[T]) Equal(other Write[T]) bool { return w.acq == other.acq && w.acq != nil }

package auth

import "github.com/ta0kira/locking-container/pkg/lock"

// Policy selects which allow/deny table a [Tracker] runs.
type Policy int

const (
	// PolicyRW allows the caller to hold multiple read locks, or a single
	// write lock, but not both at once. A writer holding a cell's write
	// lock may additionally take a read lock on that same cell — the
	// writer-then-reader exception that makes the meta-lock protocol work.
	PolicyRW Policy = iota
	// PolicyReadOnly allows multiple read locks and denies all write
	// requests. Use it to guarantee a goroutine can never take a write
	// lock on anything, regardless of what primitives its cells use.
	PolicyReadOnly
	// PolicyWriteOnly denies every read request. A write request is
	// allowed unless the tracker already holds a write lock and the target
	// is in use.
	PolicyWriteOnly
	// PolicyDumb allows any number of locks as long as none of them is a
	// write lock the tracker itself already holds.
	PolicyDumb
	// PolicyBroken denies every request.
	PolicyBroken
)

// Tracker is a per-goroutine authorization tracker implementing
// [lock.Authorizer]. It must not be shared between goroutines.
type Tracker struct {
	policy  Policy
	reading int64
	writing int64
}

// NewRW constructs a [Tracker] running [PolicyRW].
func NewRW() *Tracker { return &Tracker{policy: PolicyRW} }

// NewReadOnly constructs a [Tracker] running [PolicyReadOnly].
func NewReadOnly() *Tracker { return &Tracker{policy: PolicyReadOnly} }

// NewWriteOnly constructs a [Tracker] running [PolicyWriteOnly].
func NewWriteOnly() *Tracker { return &Tracker{policy: PolicyWriteOnly} }

// NewDumb constructs a [Tracker] running [PolicyDumb].
func NewDumb() *Tracker { return &Tracker{policy: PolicyDumb} }

// NewBroken constructs a [Tracker] running [PolicyBroken].
func NewBroken() *Tracker { return &Tracker{policy: PolicyBroken} }

// ReadingCount reports how many read locks this tracker currently holds.
func (t *Tracker) ReadingCount() int64 { return t.reading }

// WritingCount reports how many write locks this tracker currently holds.
func (t *Tracker) WritingCount() int64 { return t.writing }

// GuessReadAllowed predicts whether a read request would currently be
// granted, without registering anything. Passing true for lockOut and inUse
// gives the pessimistic answer when the caller doesn't know better.
func (t *Tracker) GuessReadAllowed(lockOut, inUse bool, order uint64) bool {
	return t.allowed(true, lockOut, inUse, order)
}

// GuessWriteAllowed predicts whether a write request would currently be
// granted, without registering anything.
func (t *Tracker) GuessWriteAllowed(lockOut, inUse bool, order uint64) bool {
	return t.allowed(false, lockOut, inUse, order)
}

// RegisterAuth implements [lock.Authorizer].
func (t *Tracker) RegisterAuth(read, lockOut, inUse bool, order uint64, test bool) bool {
	if !t.allowed(read, lockOut, inUse, order) {
		return false
	}
	if !test {
		if read {
			t.reading++
		} else {
			t.writing++
		}
	}
	return true
}

// ReleaseAuth implements [lock.Authorizer].
func (t *Tracker) ReleaseAuth(read bool, order uint64, test bool) {
	if test {
		return
	}
	if read {
		t.reading--
	} else {
		t.writing--
	}
}

func (t *Tracker) allowed(read, lockOut, inUse bool, _ uint64) bool {
	writing := t.writing > 0
	reading := t.reading > 0
	switch t.policy {
	case PolicyRW:
		if read {
			return !(writing && inUse) && !((reading || writing) && lockOut)
		}
		return !(writing && inUse) && !(reading && inUse) && !((reading || writing) && lockOut)
	case PolicyReadOnly:
		if read {
			return !(reading && lockOut)
		}
		return false
	case PolicyWriteOnly:
		if read {
			return false
		}
		return !(writing && inUse)
	case PolicyDumb:
		return !writing
	case PolicyBroken:
		return false
	default:
		return false
	}
}

var _ lock.Authorizer = (*Tracker)(nil)

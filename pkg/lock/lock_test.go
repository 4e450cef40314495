package lock_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ta0kira/locking-container/pkg/lock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRWAllowsConcurrentReaders(t *testing.T) {
	var l lock.RW
	n1, ok1 := l.Lock(nil, true, true, false)
	n2, ok2 := l.Lock(nil, true, true, false)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, int64(1), n1)
	assert.Equal(t, int64(2), n2)
	l.Unlock(nil, true, false)
	l.Unlock(nil, true, false)
}

func TestRWExcludesWriterFromReaders(t *testing.T) {
	var l lock.RW
	_, ok := l.Lock(nil, true, true, false)
	require.True(t, ok)

	_, ok = l.Lock(nil, false, false, false)
	assert.False(t, ok, "write should fail non-blocking while a reader holds the lock")
	l.Unlock(nil, true, false)
}

func TestRWWriterThenReaderException(t *testing.T) {
	var l lock.RW
	tr := &fakeAuthorizer{}

	_, ok := l.Lock(tr, false, true, false)
	require.True(t, ok)

	// The same authorizer re-entering for a read must not deadlock against
	// its own write lock.
	done := make(chan struct{})
	go func() {
		_, ok := l.Lock(tr, true, true, false)
		assert.True(t, ok)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writer-then-reader exception did not take effect")
	}

	l.Unlock(tr, true, false)
	l.Unlock(tr, false, false)
}

func TestWExcludesAllOtherHolders(t *testing.T) {
	var l lock.W
	_, ok := l.Lock(nil, false, true, false)
	require.True(t, ok)

	_, ok = l.Lock(nil, true, false, false)
	assert.False(t, ok)

	l.Unlock(nil, false, false)
	_, ok = l.Lock(nil, true, true, false)
	assert.True(t, ok)
	l.Unlock(nil, true, false)
}

func TestRDeniesWrites(t *testing.T) {
	var l lock.R
	_, ok := l.Lock(nil, false, true, false)
	assert.False(t, ok)

	n, ok := l.Lock(nil, true, true, false)
	require.True(t, ok)
	assert.Equal(t, int64(1), n)
	l.Unlock(nil, true, false)
}

func TestDumbSerializesHolders(t *testing.T) {
	var l lock.Dumb
	var current, maxSeen atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := l.Lock(nil, false, true, false)
			require.True(t, ok)
			n := current.Add(1)
			for {
				m := maxSeen.Load()
				if n <= m || maxSeen.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			current.Add(-1)
			l.Unlock(nil, false, false)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxSeen.Load(), "Dumb must never grant more than one holder at a time")
}

func TestDumbNonBlockingFailsWhileHeld(t *testing.T) {
	var l lock.Dumb
	_, ok := l.Lock(nil, false, true, false)
	require.True(t, ok)

	_, ok = l.Lock(nil, true, false, false)
	assert.False(t, ok)

	l.Unlock(nil, false, false)
}

func TestDumbReportsAlwaysInUse(t *testing.T) {
	var l lock.Dumb
	rec := &recordingAuthorizer{}
	_, ok := l.Lock(rec, false, true, false)
	require.True(t, ok)
	assert.True(t, rec.lastLockOut, "Dumb must report lock_out unconditionally")
	assert.True(t, rec.lastInUse, "Dumb must report in_use unconditionally")
	l.Unlock(rec, false, false)
}

func TestBrokenDeniesEverything(t *testing.T) {
	var l lock.Broken
	_, ok := l.Lock(nil, true, true, false)
	assert.False(t, ok)
	_, ok = l.Lock(nil, false, true, false)
	assert.False(t, ok)
}

func TestOrderedRequiresAuthorizer(t *testing.T) {
	ordered := lock.NewOrdered(&lock.RW{}, 1)
	_, ok := ordered.Lock(nil, true, true, false)
	assert.False(t, ok, "an ordered primitive must refuse an unauthorized caller")
}

func TestOrderedReportsItsOrder(t *testing.T) {
	ordered := lock.NewOrdered(&lock.RW{}, 7)
	assert.Equal(t, uint64(7), ordered.Order())
}

func TestNewOrderedPanicsOnZero(t *testing.T) {
	assert.Panics(t, func() {
		lock.NewOrdered(&lock.RW{}, 0)
	})
}

// fakeAuthorizer is a minimal Authorizer that allows everything, used where
// a test needs a distinguishable, non-nil identity rather than real policy
// enforcement (the writer-then-reader exception is keyed by identity).
type fakeAuthorizer struct{}

func (*fakeAuthorizer) RegisterAuth(bool, bool, bool, uint64, bool) bool { return true }
func (*fakeAuthorizer) ReleaseAuth(bool, uint64, bool)                  {}

// recordingAuthorizer allows everything but remembers the lockOut/inUse it
// was last called with, so a test can assert on what a primitive reports.
type recordingAuthorizer struct {
	lastLockOut, lastInUse bool
}

func (r *recordingAuthorizer) RegisterAuth(read, lockOut, inUse bool, order uint64, test bool) bool {
	r.lastLockOut, r.lastInUse = lockOut, inUse
	return true
}
func (r *recordingAuthorizer) ReleaseAuth(bool, uint64, bool) {}

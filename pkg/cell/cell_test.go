package cell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ta0kira/locking-container/pkg/auth"
	"github.com/ta0kira/locking-container/pkg/cell"
	"github.com/ta0kira/locking-container/pkg/lock"
	"github.com/ta0kira/locking-container/pkg/metalock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGetWriteThenRead(t *testing.T) {
	c := cell.New(0, &lock.RW{})

	w, ok := c.GetWrite(true)
	require.True(t, ok)
	*w.Value() = 5
	w.Clear()

	r, ok := c.GetRead(true)
	require.True(t, ok)
	assert.Equal(t, 5, *r.Value())
	r.Clear()
}

func TestGetWriteAuthExcludesConcurrentWrite(t *testing.T) {
	c := cell.New(0, &lock.RW{})
	tr := auth.NewRW()

	w, ok := c.GetWriteAuth(tr, true)
	require.True(t, ok)

	_, ok = c.GetWriteAuth(auth.NewRW(), false)
	assert.False(t, ok)

	w.Clear()
}

func TestNewTrackerMatchesPrimitive(t *testing.T) {
	c := cell.New(0, &lock.W{})
	tr := c.NewTracker()
	assert.True(t, tr.RegisterAuth(false, false, false, 0, false))
	assert.False(t, tr.RegisterAuth(true, false, false, 0, true))
}

func TestTryCopy(t *testing.T) {
	dst := cell.New(0, &lock.RW{})
	src := cell.New(9, &lock.RW{})
	require.True(t, cell.TryCopy(dst, src, true))

	r, ok := dst.GetRead(true)
	require.True(t, ok)
	assert.Equal(t, 9, *r.Value())
	r.Clear()
}

func TestTryCopyAuthLocksLowerOrderFirst(t *testing.T) {
	dst := cell.New(0, lock.NewOrdered(&lock.RW{}, 1))
	src := cell.New(3, lock.NewOrdered(&lock.RW{}, 2))
	tr := auth.NewOrdered(auth.NewRW())

	require.True(t, cell.TryCopyAuth(dst, src, tr, true))

	r, ok := dst.GetReadAuth(auth.NewOrdered(auth.NewRW()), true)
	require.True(t, ok)
	assert.Equal(t, 3, *r.Value())
	r.Clear()
}

func TestTryCopyMetaFreezesBothCells(t *testing.T) {
	ml := metalock.New()
	dst := cell.New(0, &lock.RW{})
	src := cell.New(4, &lock.RW{})
	tr := auth.NewRW()

	require.True(t, cell.TryCopyMeta(dst, src, tr, true, ml, true))

	r, ok := dst.GetRead(true)
	require.True(t, ok)
	assert.Equal(t, 4, *r.Value())
	r.Clear()
}

func TestGetReadMultiDeniedWhileMetaWriteHeld(t *testing.T) {
	ml := metalock.New()
	c := cell.New(1, &lock.RW{})

	writer := auth.NewRW()
	h, ok := ml.GetWrite(writer, true)
	require.True(t, ok)

	_, ok = c.GetReadMulti(auth.NewRW(), false, ml)
	assert.False(t, ok, "an active meta-lock writer must block new passive acquisitions")

	h.Clear()
	r, ok := c.GetReadMulti(auth.NewRW(), true, ml)
	require.True(t, ok)
	r.Clear()
}

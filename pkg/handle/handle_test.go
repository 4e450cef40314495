package handle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ta0kira/locking-container/pkg/handle"
)

func TestEmptyReadHandleIsInvalid(t *testing.T) {
	var r handle.Read[int]
	assert.False(t, r.Valid())
	assert.Panics(t, func() { r.Value() })
}

func TestReadHandleReleasesOnClear(t *testing.T) {
	released := false
	v := 42
	r := handle.NewRead(&v, func() { released = true })
	assert.True(t, r.Valid())
	assert.Equal(t, 42, *r.Value())
	r.Clear()
	assert.True(t, released)
	assert.False(t, r.Valid())
}

func TestClearIsIdempotent(t *testing.T) {
	calls := 0
	v := 1
	r := handle.NewRead(&v, func() { calls++ })
	r.Clear()
	r.Clear()
	assert.Equal(t, 1, calls)
}

func TestCloneSharesAcquisitionAndReleasesOnce(t *testing.T) {
	calls := 0
	v := 7
	r := handle.NewRead(&v, func() { calls++ })
	clone := r.Clone()

	assert.True(t, r.Equal(clone))

	r.Clear()
	assert.Equal(t, 0, calls, "release must wait for every clone")
	clone.Clear()
	assert.Equal(t, 1, calls)
}

func TestWriteHandleBasics(t *testing.T) {
	released := false
	v := "x"
	w := handle.NewWrite(&v, func() { released = true })
	*w.Value() = "y"
	w.Clear()
	assert.Equal(t, "y", v)
	assert.True(t, released)
}

func TestDistinctHandlesAreNotEqual(t *testing.T) {
	v1, v2 := 1, 2
	a := handle.NewRead(&v1, func() {})
	b := handle.NewRead(&v2, func() {})
	assert.False(t, a.Equal(b))
	a.Clear()
	b.Clear()
}

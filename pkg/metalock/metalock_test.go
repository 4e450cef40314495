package metalock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ta0kira/locking-container/pkg/auth"
	"github.com/ta0kira/locking-container/pkg/metalock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPassiveAcquiresDoNotExcludeEachOther(t *testing.T) {
	ml := metalock.New()
	rel1, ok1 := ml.AcquireForHandle(auth.NewRW(), true)
	rel2, ok2 := ml.AcquireForHandle(auth.NewRW(), true)
	require.True(t, ok1)
	require.True(t, ok2)
	rel1()
	rel2()
}

func TestActiveWriteExcludesNewPassiveAcquires(t *testing.T) {
	ml := metalock.New()
	writer := auth.NewRW()
	h, ok := ml.GetWrite(writer, true)
	require.True(t, ok)

	done := make(chan bool)
	go func() {
		_, ok := ml.AcquireForHandle(auth.NewRW(), false)
		done <- ok
	}()

	select {
	case ok := <-done:
		assert.False(t, ok, "a non-blocking passive acquire must fail while a writer holds the meta-lock")
	case <-time.After(time.Second):
		t.Fatal("non-blocking acquire did not return")
	}

	h.Clear()
	rel, ok := ml.AcquireForHandle(auth.NewRW(), true)
	require.True(t, ok)
	rel()
}

func TestPassiveAcquireDoesNotCountAgainstTracker(t *testing.T) {
	ml := metalock.New()
	tr := auth.NewRW()
	rel, ok := ml.AcquireForHandle(tr, true)
	require.True(t, ok)
	assert.Equal(t, int64(0), tr.ReadingCount())
	rel()
}

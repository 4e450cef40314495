package main

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidateRejectsOutOfRangeThreads(t *testing.T) {
	o := &options{threads: 1, lockMethod: 0, lockType: 0, authType: 0, timeoutSeconds: 1}
	err := validate(o)
	assert.Error(t, err)
	var ce *exitCodeError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, exitBadArgs, ce.code)
}

func TestValidateRejectsDumbWithNonUnsafeMethod(t *testing.T) {
	o := &options{threads: 4, lockMethod: int(methodAuth), lockType: int(lockTypeDumb), authType: 0, timeoutSeconds: 1}
	assert.Error(t, validate(o))
}

func TestValidateAcceptsDefaults(t *testing.T) {
	o := &options{threads: 5, lockMethod: 0, lockType: 0, authType: 0, timeoutSeconds: 1}
	assert.NoError(t, validate(o))
}

func TestRunDeadlocksWithoutProtection(t *testing.T) {
	o := &options{threads: 4, lockMethod: int(methodUnsafe), tryDeadlock: 1, lockType: int(lockTypeRW), authType: 0, timeoutSeconds: 1}
	err := run(context.Background(), o)
	var ce *exitCodeError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, exitDeadlockTimeout, ce.code)
}

func TestRunCompletesWithOrderedMethod(t *testing.T) {
	o := &options{threads: 5, lockMethod: int(methodOrdered), tryDeadlock: 1, lockType: int(lockTypeRW), authType: int(authTypeOrderedRW), timeoutSeconds: 3}
	assert.NoError(t, run(context.Background(), o))
}

func TestRunCompletesWithMultiLockMethod(t *testing.T) {
	o := &options{threads: 6, lockMethod: int(methodMultiLock), tryDeadlock: 1, lockType: int(lockTypeRW), authType: int(authTypeRW), timeoutSeconds: 3}
	assert.NoError(t, run(context.Background(), o))
}

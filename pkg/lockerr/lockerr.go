// Package lockerr names the error taxonomy CLI harnesses use to report why
// a run failed. The core lock/auth/handle/cell/metalock packages never
// return these — a denied acquisition is an empty handle or a false return,
// exactly as the packages document — but a harness that needs to turn a
// failure into an exit code and a logged stack trace uses these sentinels.
package lockerr

import "github.com/pkg/errors"

// Sentinel errors, one per category a harness can report. Wrap one with
// errors.Wrap / errors.Wrapf to attach a stack trace and context, and
// classify a wrapped error with errors.Is against these values.
var (
	// ErrDenied reports an ordinary, expected lock denial (for example, a
	// non-blocking acquisition that would have had to wait).
	ErrDenied = errors.New("lock denied")

	// ErrOrderViolation reports an attempt to acquire a lock out of the
	// strict ascending order a lock-ordering discipline requires.
	ErrOrderViolation = errors.New("lock order violation")

	// ErrNonBlockingMiss reports a non-blocking acquisition that failed
	// purely because it would have had to wait, as distinct from a policy
	// denial — callers that care about the distinction can check for it
	// before falling back to ErrDenied.
	ErrNonBlockingMiss = errors.New("non-blocking acquisition would have blocked")

	// ErrInvariant reports a condition the library itself considers a bug:
	// an internal invariant that should be unreachable given correct
	// calling conventions. Harnesses return it (usually wrapped) as an
	// ordinary error and map it to the logic-error exit code with errors.Is.
	ErrInvariant = errors.New("internal invariant violated")

	// ErrOS reports a failure in an underlying OS facility (thread spawn,
	// signal handling) unrelated to the locking protocol itself.
	ErrOS = errors.New("operating system error")
)

// Package auth implements per-goroutine lock authorization trackers.
//
// A [Tracker] is the deadlock-prevention half of this module: rather than
// detecting a cycle after goroutines have already blocked on each other (the
// dependency-graph approach), a Tracker refuses a request up front whenever
// granting it could lead to the caller waiting on a lock that is, directly
// or transitively, waiting on the caller. It does this by remembering what
// the owning goroutine already holds and running a small policy table
// against each new request before the request ever reaches the underlying
// [lock.Primitive].
//
// A Tracker is never safe to share between goroutines — it is state for
// exactly one call stack, constructed fresh (or reused) per goroutine, the
// same way a single database connection is not safe to share between
// transactions. Nothing in this package enforces that at compile time; it
// is a documented calling convention, matching the library's original
// design.
//
// # Policies
//
// [NewRW], [NewReadOnly], [NewWriteOnly], [NewDumb], and [NewBroken]
// construct trackers matching the five [lock.Primitive] kinds. [NewOrdered]
// wraps any of them with the ordered-locking overlay described in
// [Ordered]'s documentation, used when cells participate in a strict
// lock-ordering discipline instead of the meta-lock protocol.
package auth

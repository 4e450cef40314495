// Package lock implements the mutual-exclusion primitives used to protect a
// single in-memory value against concurrent access.
//
// # Overview
//
// Every primitive in this package implements [Primitive]: a read/write lock
// with blocking and non-blocking (test) acquisition modes. A caller never
// acquires a [Primitive] directly; acquisition always goes through an
// [Authorizer], which decides whether the calling goroutine is even allowed
// to attempt the lock before it blocks on anything. This indirection is what
// lets a single goroutine hold more than one lock at a time without risking
// a self-deadlock: the authorizer, not the primitive, knows what the caller
// already holds.
//
// Five concrete primitives are provided:
//
//   - [RW]     — any number of concurrent readers, or one exclusive writer.
//   - [W]      — one holder at a time, read or write; readers block each other.
//   - [R]      — any number of concurrent readers; writers are never permitted.
//   - [Dumb]   — one holder at a time, like [W], but also reports itself to
//     the authorizer as always in use and locking out, regardless of
//     whether anyone actually holds it.
//   - [Broken] — every acquisition fails; useful as a safe placeholder.
//
// [Ordered] decorates any of the above with an immutable acquisition order,
// used by the authorization layer to enforce a strict
// lock-ordering discipline as an alternative to the blocking meta-lock
// protocol.
//
// # Interaction with authorization
//
// [Primitive.Lock] calls back into the supplied [Authorizer] before it does
// anything that could block, passing the state the authorizer's policy table
// needs to decide: whether the lock already has a writer waiting
// ("lock_out"), and whether it is currently held at all ("in_use"). Denial at
// this stage returns immediately without touching the underlying mutex or
// condition variables — the whole point is to fail fast rather than block
// into a cycle. [Primitive.Unlock] always calls back into the authorizer
// too, which is what lets the authorizer apply the same test-mode rule on
// release as it did on acquisition: a test=true acquisition never touched
// the authorizer's bookkeeping, so its paired release must not either.
//
// # Writer-then-reader exception
//
// [RW] tracks which [Authorizer] currently holds its write lock. If that same
// authorizer turns around and requests a read lock before releasing the
// write lock, the request bypasses the "lock_out"/"in_use" checks that would
// otherwise make it wait for itself. Without this exception a caller that
// legitimately wants read access to data it is already writing would
// deadlock against its own write lock.
package lock

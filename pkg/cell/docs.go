// Package cell implements the protected cell: a value of any type paired
// with a [lock.Primitive] and, optionally, a [metalock.MetaLock], exposing
// exactly six ways to reach the value safely.
//
//   - [Cell.GetWrite] / [Cell.GetRead] — unauthorized access. No tracker is
//     consulted, so the caller gets no deadlock-prevention guarantee beyond
//     whatever the underlying primitive itself provides. Safe only when the
//     calling goroutine holds no other lock that could conflict.
//   - [Cell.GetWriteAuth] / [Cell.GetReadAuth] — authorized access through a
//     [auth.Tracker] (or any other [lock.Authorizer]), which is what makes
//     it safe to hold more than one cell's lock at a time.
//   - [Cell.GetWriteMulti] / [Cell.GetReadMulti] — authorized access that
//     additionally test-acquires a [metalock.MetaLock]'s read side, so the
//     acquisition can be frozen out by an active meta-lock writer doing a
//     coordinated multi-cell operation.
//
// [TryCopy], [TryCopyAuth], and [TryCopyMeta] are free functions built on
// top of those six primitives for the common case of copying one cell's
// value into another without the caller having to hand-roll the correct
// lock-ordering or meta-lock dance itself.
package cell

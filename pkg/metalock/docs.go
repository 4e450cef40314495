// Package metalock implements the meta-lock half of the multi-lock
// protocol: a single shared reader/writer lock that every participating
// [cell.Cell] silently test-acquires on its read side whenever a caller
// takes a handle through it, and that a caller can actively write-lock to
// freeze every participating cell at once for a safe multi-cell operation.
//
// Passive use (every ordinary handle acquisition) never blocks anything
// beyond the target cell itself, because a read-side test-acquire doesn't
// exclude other readers. Active use (a goroutine explicitly calling
// [MetaLock.GetWrite]) blocks until every in-flight passive acquisition has
// released the meta-lock's read side, and then blocks every new passive
// acquisition until the active writer releases it — this is what makes it
// safe to lock more than one cell at a time without an ordering discipline:
// nothing else can be acquiring any participating cell while the meta-lock
// is held for writing.
//
// [cell.Cell] is the only intended caller of [MetaLock.AcquireForHandle];
// Go has no equivalent of C++'s friend declarations, so this package relies
// on documentation rather than the compiler to keep that boundary honest.
package metalock

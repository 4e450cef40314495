// Package handle implements the scoped access handles returned by a
// protected cell: [Read] for a read lock, [Write] for a write lock.
//
// A handle holds the acquisitions needed to safely reach the protected
// value (the cell's lock, and optionally a meta-lock's read side) and
// releases them, in that order, exactly once. Go has no destructors, so
// unlike the RAII proxy this package is modeled on, a handle does not
// release itself merely by going out of scope — callers must call Clear
// explicitly, typically via defer. A finalizer is registered as a backstop:
// if a handle is garbage collected without ever being cleared, the
// finalizer releases it and logs the leak, since that always indicates a
// bug rather than a legitimate pattern.
//
// Handles may be copied with Clone, which shares the same underlying
// acquisition rather than taking a new lock; the acquisition is only
// actually released once every clone has been cleared. Two handles compare
// equal, via Equal, iff they share the same acquisition.
package handle

// Package graphmodel implements a small directed graph whose nodes are each
// protected by their own ordered lock, demonstrating the lock-ordering
// alternative to the meta-lock protocol for a real multi-cell data
// structure: connecting or disconnecting two nodes always locks the
// lower-order node first, so two goroutines racing to connect the same pair
// of nodes in opposite argument order can never deadlock against each
// other.
package graphmodel

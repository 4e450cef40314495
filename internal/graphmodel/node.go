package graphmodel

import (
	"github.com/ta0kira/locking-container/pkg/cell"
	"github.com/ta0kira/locking-container/pkg/lock"
)

// edges is the mutable state each node protects: the sets of node IDs it
// points to and the set of node IDs that point to it.
type edges struct {
	out map[int]struct{}
	in  map[int]struct{}
}

func newEdges() edges {
	return edges{out: make(map[int]struct{}), in: make(map[int]struct{})}
}

// Node is a graph vertex protected by its own ordered read/write lock. Its
// order is fixed at construction and determines the sequence in which
// [Graph.Connect] and [Graph.Disconnect] lock pairs of nodes.
type Node struct {
	ID    int
	order uint64
	cell  *cell.Cell[edges]
}

func newNode(id int, order uint64) *Node {
	return &Node{
		ID:    id,
		order: order,
		cell:  cell.New(newEdges(), lock.NewOrdered(&lock.RW{}, order)),
	}
}

// Order returns the node's fixed position in the graph's lock-ordering
// discipline.
func (n *Node) Order() uint64 { return n.order }

// Out returns a snapshot of the IDs this node currently points to.
func (n *Node) Out(tracker lock.Authorizer) []int {
	r, ok := n.cell.GetReadAuth(tracker, true)
	if !ok {
		return nil
	}
	defer r.Clear()
	return keys(r.Value().out)
}

// In returns a snapshot of the IDs that currently point to this node.
func (n *Node) In(tracker lock.Authorizer) []int {
	r, ok := n.cell.GetReadAuth(tracker, true)
	if !ok {
		return nil
	}
	defer r.Clear()
	return keys(r.Value().in)
}

func keys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

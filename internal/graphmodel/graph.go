package graphmodel

import (
	"github.com/ta0kira/locking-container/pkg/auth"
	"github.com/ta0kira/locking-container/pkg/cell"
	"github.com/ta0kira/locking-container/pkg/lock"
	"github.com/ta0kira/locking-container/pkg/metalock"
)

// mapOrder is the lock order of the graph's own node-index cell. Every node
// inserted into the graph must have a strictly greater order, so that a
// caller holding the map's lock may go on to lock a node without violating
// the strictly-ascending rule.
const mapOrder = 1

// Graph is a directed graph of [Node]s, each independently lockable in
// ascending-order sequence. The graph also carries a [metalock.MetaLock];
// its write side excludes only acquisitions that pass through it, which in
// this package are those made by [Graph.EraseNode].
type Graph struct {
	nodes  *cell.Cell[map[int]*Node]
	master *metalock.MetaLock
	next   uint64
}

// New constructs an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:  cell.New(make(map[int]*Node), lock.NewOrdered(&lock.RW{}, mapOrder)),
		master: metalock.New(),
		next:   mapOrder + 1,
	}
}

// NewTracker returns a fresh ordered tracker suitable for any operation on
// this graph.
func (g *Graph) NewTracker() lock.Authorizer { return auth.NewOrdered(auth.NewRW()) }

// MasterLock returns the graph's meta-lock. Holding its write side (see
// [metalock.MetaLock.GetWrite]) blocks [Graph.EraseNode]; Connect,
// Disconnect, FindNode, IterateNodes, and [Node.Out]/[Node.In] do not pass
// the meta-lock and are not blocked by it.
func (g *Graph) MasterLock() *metalock.MetaLock { return g.master }

// InsertNode adds a new node to the graph under the lowest unused id at or
// above the current node count, automatically assigning it the next lock
// order greater than every order issued so far. It returns false only if
// the node-index lock could not be acquired through tracker.
func (g *Graph) InsertNode(tracker lock.Authorizer) (*Node, bool) {
	w, ok := g.nodes.GetWriteAuth(tracker, true)
	if !ok {
		return nil, false
	}
	defer w.Clear()

	g.next++
	id := len(*w.Value())
	for {
		if _, exists := (*w.Value())[id]; !exists {
			break
		}
		id++
	}
	n := newNode(id, g.next)
	(*w.Value())[id] = n
	return n, true
}

// FindNode looks up a node by id.
func (g *Graph) FindNode(tracker lock.Authorizer, id int) (*Node, bool) {
	r, ok := g.nodes.GetReadAuth(tracker, true)
	if !ok {
		return nil, false
	}
	defer r.Clear()
	n, found := (*r.Value())[id]
	return n, found
}

// Connect adds a directed edge from "from" to "to", locking whichever node
// has the lower order first regardless of which is the source.
func (g *Graph) Connect(tracker lock.Authorizer, from, to *Node) bool {
	return g.changeConnection(tracker, from, to, func(fe, te *edges, fromID, toID int) {
		fe.out[toID] = struct{}{}
		te.in[fromID] = struct{}{}
	})
}

// Disconnect removes the directed edge from "from" to "to".
func (g *Graph) Disconnect(tracker lock.Authorizer, from, to *Node) bool {
	return g.changeConnection(tracker, from, to, func(fe, te *edges, fromID, toID int) {
		delete(fe.out, toID)
		delete(te.in, fromID)
	})
}

func (g *Graph) changeConnection(tracker lock.Authorizer, from, to *Node, apply func(fe, te *edges, fromID, toID int)) bool {
	if from.order < to.order {
		wf, ok := from.cell.GetWriteAuth(tracker, true)
		if !ok {
			return false
		}
		defer wf.Clear()
		wt, ok := to.cell.GetWriteAuth(tracker, true)
		if !ok {
			return false
		}
		defer wt.Clear()
		apply(wf.Value(), wt.Value(), from.ID, to.ID)
		return true
	}

	wt, ok := to.cell.GetWriteAuth(tracker, true)
	if !ok {
		return false
	}
	defer wt.Clear()
	wf, ok := from.cell.GetWriteAuth(tracker, true)
	if !ok {
		return false
	}
	defer wf.Clear()
	apply(wf.Value(), wt.Value(), from.ID, to.ID)
	return true
}

// EraseNode removes a node from the graph and clears its edge sets and
// every neighbor's reference to it, so that no remaining node still lists
// the erased id among its edges. It takes the graph's master lock for the
// duration, since it must touch an unbounded number of neighbor nodes and
// ordinary lock ordering only protects pairs.
func (g *Graph) EraseNode(tracker lock.Authorizer, id int) bool {
	mh, ok := g.master.GetWrite(tracker, true)
	if !ok {
		return false
	}
	defer mh.Clear()

	w, ok := g.nodes.GetWriteMulti(tracker, true, g.master)
	if !ok {
		return false
	}
	n, found := (*w.Value())[id]
	if !found {
		w.Clear()
		return false
	}
	delete(*w.Value(), id)
	w.Clear()

	nw, ok := n.cell.GetWriteMulti(tracker, true, g.master)
	if !ok {
		return false
	}
	out, in := nw.Value().out, nw.Value().in
	nw.Value().out, nw.Value().in = nil, nil
	nw.Clear()

	for neighborID := range out {
		if neighbor, found := g.FindNode(tracker, neighborID); found {
			if nh, ok := neighbor.cell.GetWriteMulti(tracker, true, g.master); ok {
				delete(nh.Value().in, id)
				nh.Clear()
			}
		}
	}
	for neighborID := range in {
		if neighbor, found := g.FindNode(tracker, neighborID); found {
			if nh, ok := neighbor.cell.GetWriteMulti(tracker, true, g.master); ok {
				delete(nh.Value().out, id)
				nh.Clear()
			}
		}
	}
	return true
}

// IterateNodes calls visit once for each node that was in the graph when
// the node index was read, in an unspecified order. The index's read lock
// is released before the first visit, and no node lock is held while visit
// runs; visit takes whatever locks it needs itself.
func (g *Graph) IterateNodes(tracker lock.Authorizer, visit func(*Node)) bool {
	r, ok := g.nodes.GetReadAuth(tracker, true)
	if !ok {
		return false
	}
	nodes := make([]*Node, 0, len(*r.Value()))
	for _, n := range *r.Value() {
		nodes = append(nodes, n)
	}
	r.Clear()

	for _, n := range nodes {
		visit(n)
	}
	return true
}

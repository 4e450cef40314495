package graphmodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ta0kira/locking-container/internal/graphmodel"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func buildRing(t *testing.T, g *graphmodel.Graph, n int) []*graphmodel.Node {
	tracker := g.NewTracker()
	nodes := make([]*graphmodel.Node, n)
	for i := 0; i < n; i++ {
		node, ok := g.InsertNode(tracker)
		require.True(t, ok)
		nodes[i] = node
	}
	for i := 0; i < n; i++ {
		require.True(t, g.Connect(tracker, nodes[i], nodes[(i+1)%n]))
	}
	return nodes
}

func TestConnectAndIterate(t *testing.T) {
	g := graphmodel.New()
	nodes := buildRing(t, g, 5)
	tracker := g.NewTracker()

	out := nodes[0].Out(tracker)
	require.Len(t, out, 1)
	assert.Equal(t, nodes[1].ID, out[0])

	in := nodes[1].In(tracker)
	require.Len(t, in, 1)
	assert.Equal(t, nodes[0].ID, in[0])

	count := 0
	require.True(t, g.IterateNodes(tracker, func(*graphmodel.Node) { count++ }))
	assert.Equal(t, 5, count)
}

func TestDisconnect(t *testing.T) {
	g := graphmodel.New()
	nodes := buildRing(t, g, 3)
	tracker := g.NewTracker()

	require.True(t, g.Disconnect(tracker, nodes[0], nodes[1]))
	assert.Empty(t, nodes[0].Out(tracker))
	assert.Empty(t, nodes[1].In(tracker))
}

func TestEraseNodeBreaksNeighborReferences(t *testing.T) {
	g := graphmodel.New()
	nodes := buildRing(t, g, 4)
	tracker := g.NewTracker()

	require.True(t, g.EraseNode(tracker, nodes[0].ID))

	_, found := g.FindNode(tracker, nodes[0].ID)
	assert.False(t, found)

	for _, id := range nodes[3].Out(tracker) {
		assert.NotEqual(t, nodes[0].ID, id)
	}
	for _, id := range nodes[1].In(tracker) {
		assert.NotEqual(t, nodes[0].ID, id)
	}
}

func TestConnectLowerOrderFirstAvoidsDeadlock(t *testing.T) {
	g := graphmodel.New()
	tracker := g.NewTracker()
	a, _ := g.InsertNode(tracker)
	b, _ := g.InsertNode(tracker)

	done := make(chan bool, 2)
	go func() { done <- g.Connect(g.NewTracker(), a, b) }()
	go func() { done <- g.Connect(g.NewTracker(), b, a) }()

	for i := 0; i < 2; i++ {
		assert.True(t, <-done)
	}
}

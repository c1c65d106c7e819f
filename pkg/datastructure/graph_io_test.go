package datastructure

import (
	"bytes"
	"testing"

	"github.com/lukman-h/routewise/pkg/geo"
	"github.com/stretchr/testify/require"
)

func buildSnapshotGraph() *Graph {
	nodes := []Node{
		NewNode(0, geo.NewCoordinate(-7.7829, 110.3671)),
		NewNode(1, geo.NewCoordinate(-7.7956, 110.3695)),
		NewNode(2, geo.NewCoordinate(-7.8014, 110.3648)),
	}
	outEdges := [][]Edge{
		{NewEdge(0, 1, 1.42, 1.3, false), NewEdge(0, 2, 2.1, 1.15, true)},
		{NewEdge(1, 2, 0.85, 1.3, false)},
		nil,
	}
	return NewGraph(nodes, outEdges, 0, 2)
}

func TestGraphSnapshotRoundTrip(t *testing.T) {
	g := buildSnapshotGraph()

	var buf bytes.Buffer
	require.NoError(t, g.WriteSnapshot(&buf))

	got, err := ReadSnapshot(&buf)
	require.NoError(t, err)

	require.Equal(t, g.NumberOfNodes(), got.NumberOfNodes())
	require.Equal(t, g.NumberOfEdges(), got.NumberOfEdges())
	require.Equal(t, g.Start(), got.Start())
	require.Equal(t, g.End(), got.End())

	for _, n := range g.GetNodes() {
		gn := got.GetNode(n.GetId())
		require.InDelta(t, n.GetCoordinate().GetLat(), gn.GetCoordinate().GetLat(), 1e-12)
		require.InDelta(t, n.GetCoordinate().GetLon(), gn.GetCoordinate().GetLon(), 1e-12)
	}

	e, ok := got.GetEdge(0, 2)
	require.True(t, ok)
	require.InDelta(t, 2.1, e.GetDistance(), 1e-12)
	require.InDelta(t, 1.15, e.GetCongestion(), 1e-12)
	require.True(t, e.HasConstruction())
}

func TestReadSnapshotRejectsGarbage(t *testing.T) {
	_, err := ReadSnapshot(bytes.NewBufferString("not a snapshot"))
	require.Error(t, err)
}

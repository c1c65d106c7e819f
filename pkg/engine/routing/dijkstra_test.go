package routing

import (
	"context"
	"testing"

	"github.com/lukman-h/routewise/pkg"
	da "github.com/lukman-h/routewise/pkg/datastructure"
	"github.com/lukman-h/routewise/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestDijkstraPicksShortestDistance(t *testing.T) {
	g := diamondGraph()

	res, err := NewDijkstra().Search(context.Background(), g)
	require.NoError(t, err)
	require.True(t, res.Found)
	require.Equal(t, pkg.DIJKSTRA, res.Algorithm)

	// the congested corridor is still the shortest by raw distance
	require.Equal(t, []da.Index{0, 1, 2}, res.Path)
	require.InDelta(t, g.PathDistance(res.Path), res.TotalCost, 1e-9)
	require.InDelta(t, res.Distance, res.TotalCost, 1e-9)
	require.Len(t, res.Coordinates, 3)
	require.Greater(t, res.NodesVisited, 0)
}

func TestDijkstraNoPath(t *testing.T) {
	g := splitGraph()

	res, err := NewDijkstra().Search(context.Background(), g)
	require.Error(t, err)
	require.Equal(t, util.ErrPathNotFound, util.CodeOf(err))
	require.False(t, res.Found)
	require.NotEmpty(t, res.ErrorMessage)
}

func TestDijkstraCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewDijkstra().Search(ctx, diamondGraph())
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, res.Found)
}

func TestDijkstraDeterministic(t *testing.T) {
	g := diamondGraph()

	first, err := NewDijkstra().Search(context.Background(), g)
	require.NoError(t, err)
	second, err := NewDijkstra().Search(context.Background(), g)
	require.NoError(t, err)

	require.Equal(t, first.Path, second.Path)
	require.Equal(t, first.TotalCost, second.TotalCost)
	require.Equal(t, first.NodesVisited, second.NodesVisited)
}

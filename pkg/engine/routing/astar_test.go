package routing

import (
	"context"
	"testing"

	"github.com/lukman-h/routewise/pkg"
	"github.com/lukman-h/routewise/pkg/costfunction"
	da "github.com/lukman-h/routewise/pkg/datastructure"
	"github.com/lukman-h/routewise/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestAstarAvoidsCongestedCorridor(t *testing.T) {
	g := diamondGraph()

	res, err := NewAstar(costfunction.DefaultWeights()).Search(context.Background(), g)
	require.NoError(t, err)
	require.True(t, res.Found)
	require.Equal(t, pkg.ASTAR, res.Algorithm)

	// under the weighted objective the free-flowing detour wins even though
	// it is longer in raw distance
	require.Equal(t, []da.Index{0, 3, 2}, res.Path)

	cost, ok := costfunction.PathCost(costfunction.NewWeightedCostFunction(costfunction.DefaultWeights()), g, res.Path)
	require.True(t, ok)
	require.InDelta(t, cost, res.TotalCost, 1e-9)
}

func TestAstarMatchesDijkstraOnDistanceOnly(t *testing.T) {
	g := diamondGraph()

	dres, err := NewDijkstra().Search(context.Background(), g)
	require.NoError(t, err)

	ares, err := NewAstar(costfunction.DistanceOnlyWeights()).Search(context.Background(), g)
	require.NoError(t, err)

	require.Equal(t, dres.Path, ares.Path)
	require.InDelta(t, dres.TotalCost, ares.TotalCost, 1e-9)
}

func TestAstarNoPath(t *testing.T) {
	res, err := NewAstar(costfunction.DefaultWeights()).Search(context.Background(), splitGraph())
	require.Error(t, err)
	require.Equal(t, util.ErrPathNotFound, util.CodeOf(err))
	require.False(t, res.Found)
}

func TestAstarCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAstar(costfunction.DefaultWeights()).Search(ctx, diamondGraph())
	require.ErrorIs(t, err, context.Canceled)
}

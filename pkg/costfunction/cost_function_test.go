package costfunction

import (
	"testing"

	"github.com/lukman-h/routewise/pkg"
	"github.com/lukman-h/routewise/pkg/datastructure"
	"github.com/lukman-h/routewise/pkg/geo"
	"github.com/stretchr/testify/require"
)

func TestWeightedCostFunction(t *testing.T) {
	testCases := []struct {
		name     string
		weights  Weights
		edge     datastructure.Edge
		expected float64
	}{
		{
			name:     "free flow distance only term",
			weights:  DefaultWeights(),
			edge:     datastructure.NewEdge(0, 1, 2.0, 1.0, false),
			expected: 0.5 * 2.0,
		},
		{
			name:     "congestion surcharge",
			weights:  DefaultWeights(),
			edge:     datastructure.NewEdge(0, 1, 2.0, 1.5, false),
			expected: 0.5*2.0 + 0.3*0.5*2.0,
		},
		{
			name:     "construction penalty",
			weights:  DefaultWeights(),
			edge:     datastructure.NewEdge(0, 1, 2.0, 1.0, true),
			expected: 0.5*2.0 + 0.2*pkg.CONSTRUCTION_PENALTY,
		},
		{
			name:     "distance only mix ignores congestion and construction",
			weights:  DistanceOnlyWeights(),
			edge:     datastructure.NewEdge(0, 1, 3.5, 2.0, true),
			expected: 3.5,
		},
		{
			name:     "clamped at zero for sub free flow congestion",
			weights:  Weights{Distance: 0.1, Congestion: 10.0},
			edge:     datastructure.NewEdge(0, 1, 1.0, 0.5, false),
			expected: 0.0,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			cf := NewWeightedCostFunction(tt.weights)
			require.InDelta(t, tt.expected, cf.GetWeight(tt.edge), 1e-12)
		})
	}
}

func TestPathCost(t *testing.T) {
	nodes := []datastructure.Node{
		datastructure.NewNode(0, geo.NewCoordinate(0, 0)),
		datastructure.NewNode(1, geo.NewCoordinate(0, 0.01)),
		datastructure.NewNode(2, geo.NewCoordinate(0, 0.02)),
	}
	outEdges := [][]datastructure.Edge{
		{datastructure.NewEdge(0, 1, 1.0, 1.0, false)},
		{datastructure.NewEdge(1, 2, 2.0, 1.0, false)},
		nil,
	}
	g := datastructure.NewGraph(nodes, outEdges, 0, 2)
	cf := NewDistanceOnlyCostFunction()

	cost, ok := PathCost(cf, g, []datastructure.Index{0, 1, 2})
	require.True(t, ok)
	require.InDelta(t, 3.0, cost, 1e-12)

	_, ok = PathCost(cf, g, []datastructure.Index{0, 2})
	require.False(t, ok)

	cost, ok = PathCost(cf, g, []datastructure.Index{0})
	require.True(t, ok)
	require.Zero(t, cost)
}
